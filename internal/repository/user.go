package repository

import (
	"context"

	"github.com/eslsoft/lingodrill/internal/entity"
)

// UserRepository abstracts persistence for learners.
type UserRepository interface {
	Create(ctx context.Context, user *entity.User) (*entity.User, error)
	GetByID(ctx context.Context, id int64) (*entity.User, error)
	FindByName(ctx context.Context, name string) (*entity.User, error)
	List(ctx context.Context) ([]entity.User, error)
}
