package usecase

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/eslsoft/lingodrill/internal/batch"
	"github.com/eslsoft/lingodrill/internal/entity"
	"github.com/eslsoft/lingodrill/internal/llm"
)

const batchResponse = "Here are some sentences for you:\n" +
	"1. The cat sleeps on the chair.\n" +
	"2. I eat breakfast every morning.\n" +
	"3. She walks to school.\n" +
	"4. We read books in the evening.\n" +
	"Let me know if you need more!"

func newPracticeFixture(mock *llm.MockClient) (*practiceUsecase, *fakeModuleRepo, *fakeSentenceRepo, *fakeErrorRecordRepo, *batch.Cache) {
	modules := newFakeModuleRepo()
	sentences := newFakeSentenceRepo()
	records := newFakeErrorRecordRepo()
	cache := batch.NewCache()
	uc := NewPracticeUsecase(modules, sentences, records, mock, cache, 5).(*practiceUsecase)
	uc.judge.shuffle = func([]string) {}
	uc.clock = fixedClock(time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC))
	return uc, modules, sentences, records, cache
}

func TestPreloadBatchCountsParsedItems(t *testing.T) {
	mock := llm.NewMockClient(llm.MockResponse{Text: batchResponse})
	uc, _, _, _, _ := newPracticeFixture(mock)

	n, err := uc.PreloadBatch(context.Background(), entity.LanguageFrench, "Prepositions", entity.LevelB1, 0)
	if err != nil {
		t.Fatalf("PreloadBatch returned error: %v", err)
	}
	if n != 4 {
		t.Errorf("expected 4 usable sentences, got %d", n)
	}
	if mock.CallCount() != 1 {
		t.Errorf("expected a single completion call, got %d", mock.CallCount())
	}
	if !strings.Contains(mock.Prompts[0], "Prepositions") {
		t.Errorf("expected topic in prompt, got %q", mock.Prompts[0])
	}
}

func TestPreloadBatchHonorsRequestedCount(t *testing.T) {
	mock := llm.NewMockClient(llm.MockResponse{Text: batchResponse})
	uc, _, _, _, cache := newPracticeFixture(mock)

	n, err := uc.PreloadBatch(context.Background(), entity.LanguageFrench, "Prepositions", entity.LevelB1, 2)
	if err != nil {
		t.Fatalf("PreloadBatch returned error: %v", err)
	}
	if n != 2 {
		t.Errorf("expected the batch capped at the requested count, got %d", n)
	}

	key := batch.TopicKey(entity.LanguageFrench, "Prepositions", entity.LevelB1)
	if got := cache.Len(key); got != 2 {
		t.Errorf("expected 2 cached items, got %d", got)
	}
	// count+2 sentences are requested to absorb dropped preamble lines.
	if !strings.Contains(mock.Prompts[0], "Generate 4 numbered") {
		t.Errorf("expected the prompt to ask for 4 sentences, got %q", mock.Prompts[0])
	}
}

func TestNextPracticeItemConsumesFromCachedBatch(t *testing.T) {
	mock := llm.NewMockClient(llm.MockResponse{Text: batchResponse})
	uc, _, _, _, cache := newPracticeFixture(mock)

	first, err := uc.NextPracticeItem(context.Background(), entity.LanguageFrench, "Prepositions", entity.LevelB1)
	if err != nil {
		t.Fatalf("NextPracticeItem returned error: %v", err)
	}
	if first != "The cat sleeps on the chair." {
		t.Errorf("unexpected first item: %q", first)
	}

	second, err := uc.NextPracticeItem(context.Background(), entity.LanguageFrench, "Prepositions", entity.LevelB1)
	if err != nil {
		t.Fatalf("NextPracticeItem returned error: %v", err)
	}
	if second != "I eat breakfast every morning." {
		t.Errorf("unexpected second item: %q", second)
	}
	if mock.CallCount() != 1 {
		t.Errorf("expected one generation for both consumes, got %d calls", mock.CallCount())
	}

	key := batch.TopicKey(entity.LanguageFrench, "Prepositions", entity.LevelB1)
	if got := cache.Len(key); got != 2 {
		t.Errorf("expected 2 items left in batch, got %d", got)
	}
}

func TestNextPracticeItemGenerationFailurePropagates(t *testing.T) {
	mock := llm.NewMockClient(llm.MockResponse{Err: &llm.ErrUnavailable{}})
	uc, _, _, _, cache := newPracticeFixture(mock)

	_, err := uc.NextPracticeItem(context.Background(), entity.LanguageFrench, "Nouns", entity.LevelA2)
	if !errors.Is(err, entity.ErrGenerationUnavailable) {
		t.Fatalf("expected ErrGenerationUnavailable, got %v", err)
	}

	key := batch.TopicKey(entity.LanguageFrench, "Nouns", entity.LevelA2)
	if cache.Len(key) != 0 {
		t.Error("failed generation must not leave a cached batch behind")
	}
}

func TestSubmitTranslationPersistsSentenceAndExtractsErrors(t *testing.T) {
	graded := "Je vais a l'ecole\n" +
		"Je vais **à** l'école\n" +
		"1. 'a' needs the grave accent: 'à'.\n" +
		"2. 'ecole' needs the acute accent: 'école'."
	mock := llm.NewMockClient(llm.MockResponse{Text: graded})
	uc, modules, sentences, records, _ := newPracticeFixture(mock)

	result, err := uc.SubmitTranslation(context.Background(), &Submission{
		UserID:      7,
		Module:      "Prepositions",
		Language:    entity.LanguageFrench,
		Level:       entity.LevelB1,
		English:     "I am going to school",
		Translation: "Je vais a l'ecole",
	})
	if err != nil {
		t.Fatalf("SubmitTranslation returned error: %v", err)
	}

	if result.Clean {
		t.Error("expected a non-clean result")
	}
	if result.Response != graded {
		t.Errorf("expected graded text to round-trip, got %q", result.Response)
	}
	if len(result.Errors) != 2 {
		t.Fatalf("expected 2 extracted errors, got %d", len(result.Errors))
	}
	if result.Errors[0].ErrorText != "'a' needs the grave accent: 'à'." {
		t.Errorf("unexpected first error text: %q", result.Errors[0].ErrorText)
	}

	// The topic module is created ad hoc with no chapter.
	module, err := modules.FindByName(context.Background(), "Prepositions", entity.LanguageFrench)
	if err != nil || module == nil {
		t.Fatalf("expected ad-hoc module, got %v, %v", module, err)
	}
	if module.ChapterID != nil {
		t.Error("ad-hoc module must not belong to a chapter")
	}

	stored, err := sentences.GetByID(context.Background(), result.Sentence.ID)
	if err != nil {
		t.Fatalf("expected persisted sentence: %v", err)
	}
	if stored.GradedText != graded {
		t.Errorf("expected graded text persisted, got %q", stored.GradedText)
	}

	list, _, _ := records.List(context.Background(), listErrorsQuery(7))
	if len(list) != 2 {
		t.Errorf("expected 2 persisted error records, got %d", len(list))
	}
	for _, rec := range list {
		if rec.ReviewCount != 0 || rec.CorrectReviewCount != 0 {
			t.Errorf("fresh error record must start unreviewed, got %+v", rec.Mastery)
		}
		if rec.SentenceID != result.Sentence.ID {
			t.Errorf("error record must reference the submission, got %d", rec.SentenceID)
		}
	}
}

func TestSubmitTranslationCleanResponseTracksNothing(t *testing.T) {
	mock := llm.NewMockClient(llm.MockResponse{Text: "No corrections needed"})
	uc, _, _, records, _ := newPracticeFixture(mock)

	result, err := uc.SubmitTranslation(context.Background(), &Submission{
		UserID:      1,
		Module:      "Nouns",
		Language:    entity.LanguageSpanish,
		Level:       entity.LevelA1,
		English:     "The house is big",
		Translation: "La casa es grande",
	})
	if err != nil {
		t.Fatalf("SubmitTranslation returned error: %v", err)
	}
	if !result.Clean {
		t.Error("expected a clean result")
	}
	list, _, _ := records.List(context.Background(), listErrorsQuery(1))
	if len(list) != 0 {
		t.Errorf("clean submission must not create error records, got %d", len(list))
	}
}

func TestSubmitTranslationGradingFailureLeavesNothingPersisted(t *testing.T) {
	mock := llm.NewMockClient(llm.MockResponse{Err: &llm.ErrUnavailable{}})
	uc, _, sentences, records, _ := newPracticeFixture(mock)

	_, err := uc.SubmitTranslation(context.Background(), &Submission{
		UserID:      1,
		Module:      "Nouns",
		Language:    entity.LanguageSpanish,
		Level:       entity.LevelA1,
		English:     "The house is big",
		Translation: "La casa es grande",
	})
	if !errors.Is(err, entity.ErrJudgmentUnavailable) {
		t.Fatalf("expected ErrJudgmentUnavailable, got %v", err)
	}

	stored, _, _ := sentences.List(context.Background(), listSentencesQuery(1))
	if len(stored) != 0 {
		t.Error("failed grading must not persist the sentence")
	}
	list, _, _ := records.List(context.Background(), listErrorsQuery(1))
	if len(list) != 0 {
		t.Error("failed grading must not create error records")
	}
}

func TestSubmitTranslationRejectsEmptyInput(t *testing.T) {
	mock := llm.NewMockClient()
	uc, _, _, _, _ := newPracticeFixture(mock)

	_, err := uc.SubmitTranslation(context.Background(), &Submission{
		UserID:   1,
		Module:   "Nouns",
		Language: entity.LanguageSpanish,
		English:  "The house is big",
	})
	if !errors.Is(err, entity.ErrInvalidSubmission) {
		t.Fatalf("expected ErrInvalidSubmission, got %v", err)
	}
	if mock.CallCount() != 0 {
		t.Error("invalid submission must not reach the completion service")
	}
}
