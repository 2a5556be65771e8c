package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"unified-ai-chat/internal/domain"
	"unified-ai-chat/internal/domain/model"
	"unified-ai-chat/internal/domain/ports/repository"
	"unified-ai-chat/internal/infra/logging"
)

// Compile-time check
var _ UserUseCase = (*userUC)(nil)

// UserUseCase exposes account operations used by the auth endpoints.
type UserUseCase interface {
	Register(ctx context.Context, username, email, password string) (*model.User, error)
	Login(ctx context.Context, username, password string) (*model.User, error)
	Get(ctx context.Context, id string) (*model.User, error)
}

type userUC struct {
	users repository.UserRepository
	log   *zerolog.Logger
}

func NewUserUseCase(users repository.UserRepository, logger *zerolog.Logger) *userUC {
	return &userUC{users: users, log: logger}
}

func (u *userUC) Register(ctx context.Context, username, email, password string) (*model.User, error) {
	defer logging.TraceDuration(u.log, "UserUC.Register")()

	username = strings.TrimSpace(username)
	email = strings.TrimSpace(email)
	if username == "" || password == "" {
		return nil, fmt.Errorf("%w: username and password are required", domain.ErrInvalidArgument)
	}
	if len(password) < 6 {
		return nil, fmt.Errorf("%w: password must be at least 6 characters", domain.ErrInvalidArgument)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := model.NewUser(uuid.NewString(), username, email, string(hash))
	if err := u.users.Save(ctx, user); err != nil {
		if err == domain.ErrAlreadyExists {
			return nil, fmt.Errorf("%w: username taken", domain.ErrAlreadyExists)
		}
		u.log.Error().Err(err).Str("username", username).Msg("register failed")
		return nil, err
	}
	u.log.Info().Str("user_id", user.ID).Str("username", username).Msg("user registered")
	return user, nil
}

func (u *userUC) Login(ctx context.Context, username, password string) (*model.User, error) {
	defer logging.TraceDuration(u.log, "UserUC.Login")()

	user, err := u.users.FindByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		if err == domain.ErrNotFound {
			return nil, domain.ErrUnauthorized
		}
		return nil, err
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return nil, domain.ErrUnauthorized
	}
	if err := u.users.UpdateLastLogin(ctx, user.ID); err != nil {
		// Non-fatal: login still succeeds.
		u.log.Warn().Err(err).Str("user_id", user.ID).Msg("last_login update failed")
	}
	return user, nil
}

func (u *userUC) Get(ctx context.Context, id string) (*model.User, error) {
	defer logging.TraceDuration(u.log, "UserUC.Get")()
	return u.users.FindByID(ctx, id)
}
