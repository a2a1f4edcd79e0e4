package usecase

import (
	"context"
	"encoding/csv"
	"io"
	"strings"
	"time"

	"github.com/eslsoft/lingodrill/internal/entity"
	"github.com/eslsoft/lingodrill/internal/repository"
	"github.com/eslsoft/lingodrill/pkg/llmtext"
)

// ResultUsecase records completed practice sessions and exports a
// learner's graded submission history.
type ResultUsecase interface {
	RecordResult(ctx context.Context, result *entity.ModuleResult) (*entity.ModuleResult, error)
	ListResults(ctx context.Context, query *repository.ListModuleResultQuery) ([]entity.ModuleResult, int64, error)
	ExportSessions(ctx context.Context, userID int64, w io.Writer) error
}

// NewResultUsecase wires the repositories with default behaviour.
func NewResultUsecase(
	results repository.ModuleResultRepository,
	sentences repository.SentenceRepository,
	modules repository.ModuleRepository,
) ResultUsecase {
	return &resultUsecase{
		results:   results,
		sentences: sentences,
		modules:   modules,
		clock:     time.Now,
	}
}

type resultUsecase struct {
	results   repository.ModuleResultRepository
	sentences repository.SentenceRepository
	modules   repository.ModuleRepository
	clock     func() time.Time
}

func (u *resultUsecase) RecordResult(ctx context.Context, result *entity.ModuleResult) (*entity.ModuleResult, error) {
	if result == nil || result.UserID <= 0 || result.ModuleID <= 0 {
		return nil, entity.ErrModuleNotFound
	}
	result.Normalize(u.clock())
	return u.results.Create(ctx, result)
}

func (u *resultUsecase) ListResults(ctx context.Context, query *repository.ListModuleResultQuery) ([]entity.ModuleResult, int64, error) {
	return u.results.List(ctx, query)
}

// ExportSessions streams the learner's graded submission history as
// CSV: one row per submission with the corrected sentence pulled from
// the graded text.
func (u *resultUsecase) ExportSessions(ctx context.Context, userID int64, w io.Writer) error {
	sentences, _, err := u.sentences.List(ctx, &repository.ListSentenceQuery{UserID: userID})
	if err != nil {
		return err
	}

	writer := csv.NewWriter(w)
	if err := writer.Write([]string{"timestamp", "english", "submitted", "corrected", "explanation", "module", "language", "cefr"}); err != nil {
		return err
	}

	moduleNames := make(map[int64]*entity.Module)
	for _, s := range sentences {
		module, ok := moduleNames[s.ModuleID]
		if !ok {
			module, err = u.modules.GetByID(ctx, s.ModuleID)
			if err != nil {
				return err
			}
			moduleNames[s.ModuleID] = module
		}

		correction := llmtext.ParseCorrection(s.GradedText)
		row := []string{
			s.CreatedAt.Format(time.RFC3339),
			s.EnglishText,
			s.Translation,
			correction.Corrected,
			strings.ReplaceAll(s.GradedText, "\n", " "),
			module.Name,
			module.Language.Code(),
			string(s.Level),
		}
		if err := writer.Write(row); err != nil {
			return err
		}
	}

	writer.Flush()
	return writer.Error()
}
