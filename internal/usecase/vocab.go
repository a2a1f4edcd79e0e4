package usecase

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/samber/lo"

	"github.com/eslsoft/lingodrill/internal/batch"
	"github.com/eslsoft/lingodrill/internal/entity"
	"github.com/eslsoft/lingodrill/internal/llm"
	"github.com/eslsoft/lingodrill/internal/repository"
)

// VocabPrompt is one served vocabulary practice item: the English
// sentence to translate and the tracked word it exercises.
type VocabPrompt struct {
	Sentence string
	Word     string
	WordID   int64
}

// VocabAttempt is one submitted vocabulary practice translation.
type VocabAttempt struct {
	UserID      int64
	WordID      int64
	English     string
	Translation string
}

// VocabAttemptResult is the outcome of one graded vocabulary attempt.
type VocabAttemptResult struct {
	Word     *entity.VocabWord
	Response string
	Correct  bool
	Snapshot entity.Snapshot
}

// VocabUsecase manages a learner's tracked vocabulary and drives the
// weakest-word practice loop.
type VocabUsecase interface {
	AddWords(ctx context.Context, userID int64, language entity.Language, words []string) ([]entity.VocabWord, error)
	ListWords(ctx context.Context, query *repository.ListVocabWordQuery) ([]entity.VocabWord, int64, error)
	RemoveWord(ctx context.Context, userID, id int64) error
	NextVocabItem(ctx context.Context, userID int64, language entity.Language, level entity.Level) (*VocabPrompt, error)
	SubmitVocabAttempt(ctx context.Context, attempt *VocabAttempt) (*VocabAttemptResult, error)
	OverrideVocab(ctx context.Context, userID, wordID int64, override *Override) (*entity.VocabWord, error)
}

// NewVocabUsecase wires the repository, the completion client and the
// shared batch cache with default behaviour.
func NewVocabUsecase(words repository.VocabWordRepository, client llm.Client, cache *batch.Cache, batchSize int) VocabUsecase {
	return &vocabUsecase{
		words:     words,
		judge:     newJudge(client),
		cache:     cache,
		batchSize: batchSize,
		locks:     newKeyMutex(),
		clock:     time.Now,
	}
}

type vocabUsecase struct {
	words     repository.VocabWordRepository
	judge     *judge
	cache     *batch.Cache
	batchSize int
	locks     *keyMutex
	clock     func() time.Time
}

// AddWords puts the given words on the learner's list, skipping blanks
// and words already tracked. Duplicate adds are not an error: the
// learner re-selects words from every graded result.
func (u *vocabUsecase) AddWords(ctx context.Context, userID int64, language entity.Language, words []string) ([]entity.VocabWord, error) {
	language = entity.NormalizeLanguage(language)
	now := u.clock()

	cleaned := lo.Uniq(lo.FilterMap(words, func(w string, _ int) (string, bool) {
		w = strings.TrimSpace(w)
		return w, w != ""
	}))

	added := make([]entity.VocabWord, 0, len(cleaned))
	for _, text := range cleaned {
		existing, err := u.words.FindByWord(ctx, userID, text, language)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			continue
		}

		word := &entity.VocabWord{UserID: userID, Word: text, Language: language}
		word.Normalize(now)
		if err := word.Validate(); err != nil {
			return nil, err
		}
		created, err := u.words.Create(ctx, word)
		if err != nil {
			return nil, err
		}
		added = append(added, *created)
	}
	return added, nil
}

func (u *vocabUsecase) ListWords(ctx context.Context, query *repository.ListVocabWordQuery) ([]entity.VocabWord, int64, error) {
	return u.words.List(ctx, query)
}

// RemoveWord deletes one word from the learner's list. This is the
// only learner-initiated deletion of a mastery record.
func (u *vocabUsecase) RemoveWord(ctx context.Context, userID, id int64) error {
	if id <= 0 {
		return entity.ErrRecordNotFound
	}
	return u.words.Delete(ctx, userID, id)
}

// NextVocabItem serves the next practice sentence for the learner's
// weakest word. Batches are generated per learner and language and
// invalidated whenever a graded attempt moves mastery, so the target
// word is recomputed from current state.
func (u *vocabUsecase) NextVocabItem(ctx context.Context, userID int64, language entity.Language, level entity.Level) (*VocabPrompt, error) {
	language = entity.NormalizeLanguage(language)

	weakest, err := u.weakestWord(ctx, userID, language)
	if err != nil {
		return nil, err
	}

	key := batch.VocabKey(userID, language)
	item, err := u.cache.ConsumeOne(ctx, key, func(ctx context.Context) ([]string, error) {
		prompt := vocabBatchPrompt(u.batchSize+2, level, language, weakest.Word)
		sentences, err := u.judge.generateBatch(ctx, prompt, u.batchSize)
		if err != nil {
			return nil, err
		}
		items := make([]string, len(sentences))
		for i, s := range sentences {
			items[i] = encodeVocabItem(weakest.ID, weakest.Word, s)
		}
		return items, nil
	})
	if err != nil {
		return nil, err
	}
	if item == "" {
		return &VocabPrompt{Word: weakest.Word, WordID: weakest.ID}, nil
	}

	id, word, sentence := decodeVocabItem(item)
	return &VocabPrompt{Sentence: sentence, Word: word, WordID: id}, nil
}

// SubmitVocabAttempt grades one attempt and applies it to the word's
// mastery. Both completion calls happen before any mutation; the
// learner's batch is invalidated afterwards so the next item targets
// the new weakest word.
func (u *vocabUsecase) SubmitVocabAttempt(ctx context.Context, attempt *VocabAttempt) (*VocabAttemptResult, error) {
	if attempt == nil || attempt.English == "" || attempt.Translation == "" {
		return nil, entity.ErrInvalidSubmission
	}

	word, err := u.words.GetByID(ctx, attempt.UserID, attempt.WordID)
	if err != nil {
		return nil, err
	}

	graded, err := u.judge.grade(ctx, attempt.English, attempt.Translation)
	if err != nil {
		return nil, err
	}
	concept := fmt.Sprintf("the %s word '%s'", word.Language.Name(), word.Word)
	correct, err := u.judge.judgeConcept(ctx, attempt.English, attempt.Translation, concept)
	if err != nil {
		return nil, err
	}

	unlock := u.locks.Lock(vocabLockKey(attempt.WordID))
	defer unlock()

	word, err = u.words.GetByID(ctx, attempt.UserID, attempt.WordID)
	if err != nil {
		return nil, err
	}

	snap := word.RecordAttempt(u.clock(), correct)
	updated, err := u.words.Update(ctx, word)
	if err != nil {
		return nil, err
	}

	u.cache.Invalidate(batch.VocabKey(attempt.UserID, updated.Language))

	return &VocabAttemptResult{
		Word:     updated,
		Response: graded,
		Correct:  correct,
		Snapshot: snap,
	}, nil
}

// OverrideVocab applies a learner-initiated correction to the most
// recent judgment on one word.
func (u *vocabUsecase) OverrideVocab(ctx context.Context, userID, wordID int64, override *Override) (*entity.VocabWord, error) {
	if override == nil {
		return nil, entity.ErrInvalidOverride
	}

	unlock := u.locks.Lock(vocabLockKey(wordID))
	defer unlock()

	word, err := u.words.GetByID(ctx, userID, wordID)
	if err != nil {
		return nil, err
	}

	if err := word.Override(override.NewCorrect, override.PriorCorrect, override.Snapshot, u.clock()); err != nil {
		return nil, err
	}

	updated, err := u.words.Update(ctx, word)
	if err != nil {
		return nil, err
	}
	u.cache.Invalidate(batch.VocabKey(userID, updated.Language))
	return updated, nil
}

// weakestWord returns the highest-priority word on the learner's list.
func (u *vocabUsecase) weakestWord(ctx context.Context, userID int64, language entity.Language) (*entity.VocabWord, error) {
	words, _, err := u.words.List(ctx, &repository.ListVocabWordQuery{UserID: userID, Language: language})
	if err != nil {
		return nil, err
	}
	if len(words) == 0 {
		return nil, entity.ErrEmptyVocabList
	}
	entity.SortVocabForReview(words)
	return &words[0], nil
}

// Cached vocab items carry the word they exercise so a consumed
// sentence stays paired with the word it was generated for.
func encodeVocabItem(id int64, word, sentence string) string {
	return strconv.FormatInt(id, 10) + "\t" + word + "\t" + sentence
}

func decodeVocabItem(item string) (int64, string, string) {
	parts := strings.SplitN(item, "\t", 3)
	if len(parts) != 3 {
		return 0, "", item
	}
	id, _ := strconv.ParseInt(parts[0], 10, 64)
	return id, parts[1], parts[2]
}

func vocabLockKey(id int64) string {
	return fmt.Sprintf("vocab:%d", id)
}
