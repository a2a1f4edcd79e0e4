package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/eslsoft/lingodrill/internal/entity"
	"github.com/eslsoft/lingodrill/internal/repository"
)

// UserUsecase manages learner accounts.
type UserUsecase interface {
	CreateUser(ctx context.Context, name string) (*entity.User, error)
	GetUser(ctx context.Context, id int64) (*entity.User, error)
	ListUsers(ctx context.Context) ([]entity.User, error)
}

// NewUserUsecase wires the repository with default behaviour.
func NewUserUsecase(repo repository.UserRepository) UserUsecase {
	return &userUsecase{repo: repo, clock: time.Now}
}

type userUsecase struct {
	repo  repository.UserRepository
	clock func() time.Time
}

func (u *userUsecase) CreateUser(ctx context.Context, name string) (*entity.User, error) {
	user := &entity.User{Name: strings.TrimSpace(name), CreatedAt: u.clock()}
	if err := user.Validate(); err != nil {
		return nil, err
	}

	existing, err := u.repo.FindByName(ctx, user.Name)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, entity.ErrUserAlreadyExists
	}

	return u.repo.Create(ctx, user)
}

func (u *userUsecase) GetUser(ctx context.Context, id int64) (*entity.User, error) {
	if id <= 0 {
		return nil, entity.ErrUserNotFound
	}
	return u.repo.GetByID(ctx, id)
}

func (u *userUsecase) ListUsers(ctx context.Context) ([]entity.User, error) {
	return u.repo.List(ctx)
}
