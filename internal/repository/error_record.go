package repository

import (
	"context"

	"github.com/eslsoft/lingodrill/internal/entity"
)

// ListErrorRecordQuery holds parameters for listing tracked grammar
// weak points. A zero ModuleID means all modules.
type ListErrorRecordQuery struct {
	Pagination

	UserID   int64
	ModuleID int64
}

// ErrorRecordRepository abstracts persistence for grammar weak points.
// Update persists only the mastery fields; the descriptive fields are
// immutable once created.
type ErrorRecordRepository interface {
	Create(ctx context.Context, record *entity.ErrorRecord) (*entity.ErrorRecord, error)
	Update(ctx context.Context, record *entity.ErrorRecord) (*entity.ErrorRecord, error)
	GetByID(ctx context.Context, userID, id int64) (*entity.ErrorRecord, error)
	List(ctx context.Context, query *ListErrorRecordQuery) ([]entity.ErrorRecord, int64, error)
}
