package repository

import (
	"context"

	"unified-ai-chat/internal/domain/model"
)

type UserRepository interface {
	Save(ctx context.Context, u *model.User) error
	FindByID(ctx context.Context, id string) (*model.User, error)
	FindByUsername(ctx context.Context, username string) (*model.User, error)
	UpdateLastLogin(ctx context.Context, id string) error
}
