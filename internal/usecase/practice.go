package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/eslsoft/lingodrill/internal/batch"
	"github.com/eslsoft/lingodrill/internal/entity"
	"github.com/eslsoft/lingodrill/internal/llm"
	"github.com/eslsoft/lingodrill/internal/repository"
	"github.com/eslsoft/lingodrill/pkg/llmtext"
)

// Submission is one translated practice sentence handed in for grading.
type Submission struct {
	UserID      int64
	Module      string
	Language    entity.Language
	Level       entity.Level
	English     string
	Translation string
}

// GradedSubmission is the outcome of grading one submission: the
// persisted sentence, the free-form graded text and the weak points
// extracted from it.
type GradedSubmission struct {
	Sentence *entity.Sentence
	Response string
	Clean    bool
	Errors   []entity.ErrorRecord
}

// PracticeUsecase drives topic-mode practice: batched prompt
// generation and the grade-and-extract submission pipeline.
type PracticeUsecase interface {
	// PreloadBatch generates a fresh batch of count sentences for the
	// key; count <= 0 falls back to the configured batch size.
	PreloadBatch(ctx context.Context, language entity.Language, topic string, level entity.Level, count int) (int, error)
	NextPracticeItem(ctx context.Context, language entity.Language, topic string, level entity.Level) (string, error)
	SubmitTranslation(ctx context.Context, sub *Submission) (*GradedSubmission, error)
}

// NewPracticeUsecase wires the repositories, the completion client and
// the shared batch cache with default behaviour.
func NewPracticeUsecase(
	modules repository.ModuleRepository,
	sentences repository.SentenceRepository,
	records repository.ErrorRecordRepository,
	client llm.Client,
	cache *batch.Cache,
	batchSize int,
) PracticeUsecase {
	return &practiceUsecase{
		modules:   modules,
		sentences: sentences,
		records:   records,
		judge:     newJudge(client),
		cache:     cache,
		batchSize: batchSize,
		clock:     time.Now,
	}
}

type practiceUsecase struct {
	modules   repository.ModuleRepository
	sentences repository.SentenceRepository
	records   repository.ErrorRecordRepository
	judge     *judge
	cache     *batch.Cache
	batchSize int
	clock     func() time.Time
}

func (u *practiceUsecase) PreloadBatch(ctx context.Context, language entity.Language, topic string, level entity.Level, count int) (int, error) {
	if count <= 0 {
		count = u.batchSize
	}
	language = entity.NormalizeLanguage(language)
	key := batch.TopicKey(language, topic, level)
	return u.cache.Preload(ctx, key, u.generator(language, topic, level, count))
}

func (u *practiceUsecase) NextPracticeItem(ctx context.Context, language entity.Language, topic string, level entity.Level) (string, error) {
	language = entity.NormalizeLanguage(language)
	key := batch.TopicKey(language, topic, level)
	return u.cache.ConsumeOne(ctx, key, u.generator(language, topic, level, u.batchSize))
}

// generator builds a size-item batch generator for one topic key. Two
// extra sentences are requested to cover the preamble/postamble lines
// the parser drops.
func (u *practiceUsecase) generator(language entity.Language, topic string, level entity.Level, size int) batch.Generator {
	return func(ctx context.Context) ([]string, error) {
		prompt := sentenceBatchPrompt(size+2, level, language, topic)
		return u.judge.generateBatch(ctx, prompt, size)
	}
}

// SubmitTranslation grades one submission, persists it and extracts a
// tracked error record per explanation line of the graded text. The
// grading call happens first: a JudgmentUnavailable failure leaves
// nothing persisted.
func (u *practiceUsecase) SubmitTranslation(ctx context.Context, sub *Submission) (*GradedSubmission, error) {
	if sub == nil || strings.TrimSpace(sub.Translation) == "" || strings.TrimSpace(sub.English) == "" {
		return nil, entity.ErrInvalidSubmission
	}
	language := entity.NormalizeLanguage(sub.Language)

	module, err := u.findOrCreateModule(ctx, sub.Module, language)
	if err != nil {
		return nil, err
	}

	graded, err := u.judge.grade(ctx, sub.English, sub.Translation)
	if err != nil {
		return nil, err
	}

	now := u.clock()
	sentence, err := u.sentences.Create(ctx, &entity.Sentence{
		UserID:      sub.UserID,
		ModuleID:    module.ID,
		EnglishText: sub.English,
		Translation: sub.Translation,
		GradedText:  graded,
		Level:       sub.Level,
		CreatedAt:   now,
	})
	if err != nil {
		return nil, err
	}

	result := &GradedSubmission{Sentence: sentence, Response: graded}
	correction := llmtext.ParseCorrection(graded)
	result.Clean = correction.Clean

	for _, line := range correction.Explanations {
		record, err := u.records.Create(ctx, &entity.ErrorRecord{
			SentenceID:  sentence.ID,
			ModuleID:    module.ID,
			UserID:      sub.UserID,
			ErrorText:   line,
			SubmittedAt: now,
		})
		if err != nil {
			return nil, err
		}
		result.Errors = append(result.Errors, *record)
	}

	return result, nil
}

// findOrCreateModule resolves the named topic, creating an ad-hoc
// module (no chapter) on first submission.
func (u *practiceUsecase) findOrCreateModule(ctx context.Context, name string, language entity.Language) (*entity.Module, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, entity.ErrModuleNotFound
	}

	module, err := u.modules.FindByName(ctx, name, language)
	if err != nil {
		return nil, err
	}
	if module != nil {
		return module, nil
	}

	created := &entity.Module{Name: name, Language: language}
	created.Normalize()
	return u.modules.Create(ctx, created)
}
