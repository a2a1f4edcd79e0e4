package repository

import (
	"context"

	"github.com/eslsoft/lingodrill/internal/entity"
)

// ListVocabWordQuery holds parameters for listing vocabulary words.
type ListVocabWordQuery struct {
	Pagination

	UserID   int64
	Language entity.Language
}

// VocabWordRepository abstracts persistence for a learner's tracked
// vocabulary. Update persists only the mastery fields.
type VocabWordRepository interface {
	Create(ctx context.Context, word *entity.VocabWord) (*entity.VocabWord, error)
	Update(ctx context.Context, word *entity.VocabWord) (*entity.VocabWord, error)
	GetByID(ctx context.Context, userID, id int64) (*entity.VocabWord, error)
	FindByWord(ctx context.Context, userID int64, word string, language entity.Language) (*entity.VocabWord, error)
	List(ctx context.Context, query *ListVocabWordQuery) ([]entity.VocabWord, int64, error)
	Delete(ctx context.Context, userID, id int64) error
}
