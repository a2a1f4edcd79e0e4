package repository

import (
	"context"

	"github.com/eslsoft/lingodrill/internal/entity"
)

// ListModuleQuery holds parameters for listing modules.
type ListModuleQuery struct {
	Pagination

	Language  entity.Language
	ChapterID int64
}

// ModuleRepository abstracts persistence for practicable grammar
// topics and their teaching instructions.
type ModuleRepository interface {
	Create(ctx context.Context, module *entity.Module) (*entity.Module, error)
	GetByID(ctx context.Context, id int64) (*entity.Module, error)
	FindByName(ctx context.Context, name string, language entity.Language) (*entity.Module, error)
	List(ctx context.Context, query *ListModuleQuery) ([]entity.Module, error)

	UpsertInstruction(ctx context.Context, instruction *entity.Instruction) error
	GetInstruction(ctx context.Context, moduleID int64) (*entity.Instruction, error)
}
