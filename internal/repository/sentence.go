package repository

import (
	"context"

	"github.com/eslsoft/lingodrill/internal/entity"
)

// ListSentenceQuery holds parameters for listing graded submissions.
type ListSentenceQuery struct {
	Pagination

	UserID   int64
	ModuleID int64
}

// SentenceRepository abstracts persistence for graded submissions.
type SentenceRepository interface {
	Create(ctx context.Context, sentence *entity.Sentence) (*entity.Sentence, error)
	GetByID(ctx context.Context, id int64) (*entity.Sentence, error)
	List(ctx context.Context, query *ListSentenceQuery) ([]entity.Sentence, int64, error)
}
