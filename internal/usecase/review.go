package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/eslsoft/lingodrill/internal/entity"
	"github.com/eslsoft/lingodrill/internal/llm"
	"github.com/eslsoft/lingodrill/internal/repository"
)

// AttemptResult is the outcome of one graded re-test attempt. The
// snapshot captures the record's judgment-relevant state before the
// attempt; the caller echoes it back verbatim to override the
// judgment later.
type AttemptResult struct {
	Record   *entity.ErrorRecord
	Response string
	Correct  bool
	Snapshot entity.Snapshot
}

// ReviewUsecase drives the personalized error-review loop: priority
// selection, targeted re-test prompts, attempt recording and the
// judgment override.
type ReviewUsecase interface {
	SelectReviewErrors(ctx context.Context, userID, moduleID int64, limit int) ([]entity.ErrorRecord, error)
	ErrorSentence(ctx context.Context, userID, errorID int64, language entity.Language, level entity.Level) (string, error)
	SubmitErrorAttempt(ctx context.Context, attempt *ErrorAttempt) (*AttemptResult, error)
	OverrideError(ctx context.Context, userID, errorID int64, override *Override) (*entity.ErrorRecord, error)
}

// ErrorAttempt is one submitted re-test of a tracked error.
type ErrorAttempt struct {
	UserID      int64
	ErrorID     int64
	English     string
	Translation string
}

// Override disputes the most recent judgment on one record. Snapshot
// must be the one returned by that attempt; PriorCorrect is the
// judgment being disputed.
type Override struct {
	NewCorrect   bool
	PriorCorrect bool
	Snapshot     entity.Snapshot
}

// NewReviewUsecase wires the repository and the completion client with
// default behaviour.
func NewReviewUsecase(records repository.ErrorRecordRepository, modules repository.ModuleRepository, client llm.Client) ReviewUsecase {
	return &reviewUsecase{
		records: records,
		modules: modules,
		judge:   newJudge(client),
		locks:   newKeyMutex(),
		clock:   time.Now,
	}
}

type reviewUsecase struct {
	records repository.ErrorRecordRepository
	modules repository.ModuleRepository
	judge   *judge
	locks   *keyMutex
	clock   func() time.Time
}

// SelectReviewErrors returns the learner's tracked errors in review
// priority order: never-correct records first, then the ones mastered
// longest ago. A zero moduleID spans all modules; limit <= 0 returns
// everything.
func (u *reviewUsecase) SelectReviewErrors(ctx context.Context, userID, moduleID int64, limit int) ([]entity.ErrorRecord, error) {
	records, _, err := u.records.List(ctx, &repository.ListErrorRecordQuery{
		UserID:   userID,
		ModuleID: moduleID,
	})
	if err != nil {
		return nil, err
	}

	entity.SortErrorsForReview(records)
	if limit > 0 && len(records) > limit {
		records = records[:limit]
	}
	return records, nil
}

// ErrorSentence generates a fresh practice sentence targeting one
// tracked error. Not batched: each re-test prompt is built around the
// record's specific error text.
func (u *reviewUsecase) ErrorSentence(ctx context.Context, userID, errorID int64, language entity.Language, level entity.Level) (string, error) {
	record, err := u.records.GetByID(ctx, userID, errorID)
	if err != nil {
		return "", err
	}

	topic := ""
	if module, err := u.modules.GetByID(ctx, record.ModuleID); err == nil {
		topic = module.Name
	}

	return u.judge.generateOne(ctx, errorSentencePrompt(level, entity.NormalizeLanguage(language), record.ErrorText, topic))
}

// SubmitErrorAttempt grades one re-test attempt and applies it to the
// record. Both completion calls happen before any mutation: a
// JudgmentUnavailable failure leaves the record untouched. The
// snapshot→mutate→persist cycle is serialized per record.
func (u *reviewUsecase) SubmitErrorAttempt(ctx context.Context, attempt *ErrorAttempt) (*AttemptResult, error) {
	if attempt == nil || attempt.English == "" || attempt.Translation == "" {
		return nil, entity.ErrInvalidSubmission
	}

	record, err := u.records.GetByID(ctx, attempt.UserID, attempt.ErrorID)
	if err != nil {
		return nil, err
	}

	graded, err := u.judge.grade(ctx, attempt.English, attempt.Translation)
	if err != nil {
		return nil, err
	}
	correct, err := u.judge.judgeConcept(ctx, attempt.English, attempt.Translation, record.ErrorText)
	if err != nil {
		return nil, err
	}

	unlock := u.locks.Lock(errorLockKey(attempt.ErrorID))
	defer unlock()

	// Reload under the lock so the snapshot reflects the state the
	// mutation actually applies to.
	record, err = u.records.GetByID(ctx, attempt.UserID, attempt.ErrorID)
	if err != nil {
		return nil, err
	}

	snap := record.RecordAttempt(u.clock(), correct)
	updated, err := u.records.Update(ctx, record)
	if err != nil {
		return nil, err
	}

	return &AttemptResult{
		Record:   updated,
		Response: graded,
		Correct:  correct,
		Snapshot: snap,
	}, nil
}

// OverrideError applies a learner-initiated correction to the most
// recent judgment on one record.
func (u *reviewUsecase) OverrideError(ctx context.Context, userID, errorID int64, override *Override) (*entity.ErrorRecord, error) {
	if override == nil {
		return nil, entity.ErrInvalidOverride
	}

	unlock := u.locks.Lock(errorLockKey(errorID))
	defer unlock()

	record, err := u.records.GetByID(ctx, userID, errorID)
	if err != nil {
		return nil, err
	}

	if err := record.Override(override.NewCorrect, override.PriorCorrect, override.Snapshot, u.clock()); err != nil {
		return nil, err
	}
	return u.records.Update(ctx, record)
}

func errorLockKey(id int64) string {
	return fmt.Sprintf("error:%d", id)
}
