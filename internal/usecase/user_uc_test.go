package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"unified-ai-chat/internal/domain"
)

func newUserUC() (*userUC, *memUserRepo) {
	log := zerolog.Nop()
	repo := newMemUserRepo()
	return NewUserUseCase(repo, &log), repo
}

func TestRegisterAndLogin(t *testing.T) {
	uc, _ := newUserUC()
	ctx := context.Background()

	user, err := uc.Register(ctx, "alice", "alice@example.com", "secret123")
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if user.ID == "" {
		t.Fatal("user ID not assigned")
	}
	if user.PasswordHash == "secret123" {
		t.Fatal("password stored in the clear")
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("secret123")) != nil {
		t.Fatal("stored hash does not verify the password")
	}

	got, err := uc.Login(ctx, "alice", "secret123")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if got.ID != user.ID {
		t.Fatalf("login returned user %q, want %q", got.ID, user.ID)
	}
}

func TestRegisterValidation(t *testing.T) {
	uc, _ := newUserUC()
	ctx := context.Background()

	if _, err := uc.Register(ctx, "", "", "secret123"); !errors.Is(err, domain.ErrInvalidArgument) {
		t.Fatalf("empty username: err = %v, want ErrInvalidArgument", err)
	}
	if _, err := uc.Register(ctx, "bob", "", "short"); !errors.Is(err, domain.ErrInvalidArgument) {
		t.Fatalf("short password: err = %v, want ErrInvalidArgument", err)
	}
}

func TestRegisterDuplicateUsername(t *testing.T) {
	uc, _ := newUserUC()
	ctx := context.Background()

	if _, err := uc.Register(ctx, "alice", "a@example.com", "secret123"); err != nil {
		t.Fatalf("first register: %v", err)
	}
	if _, err := uc.Register(ctx, "alice", "b@example.com", "secret456"); !errors.Is(err, domain.ErrAlreadyExists) {
		t.Fatalf("duplicate register: err = %v, want ErrAlreadyExists", err)
	}
}

func TestLoginFailures(t *testing.T) {
	uc, _ := newUserUC()
	ctx := context.Background()

	if _, err := uc.Register(ctx, "alice", "", "secret123"); err != nil {
		t.Fatalf("register: %v", err)
	}

	if _, err := uc.Login(ctx, "alice", "wrongpass"); !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("wrong password: err = %v, want ErrUnauthorized", err)
	}
	// Unknown users and wrong passwords are indistinguishable to the caller.
	if _, err := uc.Login(ctx, "nobody", "secret123"); !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("unknown user: err = %v, want ErrUnauthorized", err)
	}
}

func TestLoginUpdatesLastLogin(t *testing.T) {
	uc, repo := newUserUC()
	ctx := context.Background()

	user, err := uc.Register(ctx, "alice", "", "secret123")
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if _, err := uc.Login(ctx, "alice", "secret123"); err != nil {
		t.Fatalf("login: %v", err)
	}
	stored, err := repo.FindByID(ctx, user.ID)
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if stored.LastLogin == nil {
		t.Fatal("last_login not recorded")
	}
}
