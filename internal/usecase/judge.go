package usecase

import (
	"context"
	"fmt"
	"math/rand/v2"

	"github.com/eslsoft/lingodrill/internal/llm"
	"github.com/eslsoft/lingodrill/pkg/llmtext"

	"github.com/eslsoft/lingodrill/internal/entity"
)

// judge wraps the completion client into the two capabilities the
// engine needs: batch/prompt generation and grading plus a constrained
// yes/no correctness judgment. Client failures map to the two domain
// sentinels so callers never see transport errors.
type judge struct {
	client llm.Client

	// shuffle permutes a generated batch in place. Tests replace it
	// with a no-op to keep batches deterministic.
	shuffle func([]string)
}

func newJudge(client llm.Client) *judge {
	return &judge{
		client: client,
		shuffle: func(items []string) {
			rand.Shuffle(len(items), func(i, j int) {
				items[i], items[j] = items[j], items[i]
			})
		},
	}
}

// generateBatch asks for a numbered list of sentences, parses it
// defensively and returns at most size items in random order. A failed
// call surfaces ErrGenerationUnavailable; a successful call with no
// usable lines degrades to an empty batch.
func (j *judge) generateBatch(ctx context.Context, prompt string, size int) ([]string, error) {
	raw, err := j.client.Complete(ctx, prompt)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", entity.ErrGenerationUnavailable, err)
	}

	items := llmtext.SentenceList(raw)
	j.shuffle(items)
	if len(items) > size {
		items = items[:size]
	}
	return items, nil
}

// generateOne asks for a single practice sentence.
func (j *judge) generateOne(ctx context.Context, prompt string) (string, error) {
	raw, err := j.client.Complete(ctx, prompt)
	if err != nil {
		return "", fmt.Errorf("%w: %v", entity.ErrGenerationUnavailable, err)
	}
	return raw, nil
}

// grade sends the correction prompt and returns the free-form graded
// text. The only structural guarantee is that it is non-empty.
func (j *judge) grade(ctx context.Context, english, translation string) (string, error) {
	raw, err := j.client.Complete(ctx, gradingPrompt(english, translation))
	if err != nil {
		return "", fmt.Errorf("%w: %v", entity.ErrJudgmentUnavailable, err)
	}
	return raw, nil
}

// judgeConcept asks the constrained yes/no question about one tracked
// concept. Success iff the trimmed response begins with "1"; the
// mastery boolean is computed from this single token and never from
// the free-form grading text.
func (j *judge) judgeConcept(ctx context.Context, english, translation, concept string) (bool, error) {
	raw, err := j.client.Complete(ctx, conceptJudgmentPrompt(english, translation, concept))
	if err != nil {
		return false, fmt.Errorf("%w: %v", entity.ErrJudgmentUnavailable, err)
	}
	return llmtext.Affirmative(raw), nil
}
