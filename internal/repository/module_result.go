package repository

import (
	"context"

	"github.com/eslsoft/lingodrill/internal/entity"
)

// ListModuleResultQuery holds parameters for listing session results.
type ListModuleResultQuery struct {
	Pagination

	UserID   int64
	ModuleID int64
}

// ModuleResultRepository abstracts persistence for completed practice
// session summaries.
type ModuleResultRepository interface {
	Create(ctx context.Context, result *entity.ModuleResult) (*entity.ModuleResult, error)
	List(ctx context.Context, query *ListModuleResultQuery) ([]entity.ModuleResult, int64, error)
}
