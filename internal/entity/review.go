package entity

import (
	"sort"
	"strings"
	"time"
)

// ErrorRecord is a tracked grammar weak point extracted from one graded
// submission. The descriptive fields are immutable once created; only
// the embedded Mastery moves.
type ErrorRecord struct {
	ID         int64
	SentenceID int64
	ModuleID   int64
	UserID     int64
	ErrorText  string
	Mastery

	// SubmittedAt is the timestamp of the originating submission,
	// used as the ordering tie-break during review selection.
	SubmittedAt time.Time
}

// VocabWord is a tracked vocabulary weak point on a learner's list.
// It is the only mastery record kind the learner may delete.
type VocabWord struct {
	ID       int64
	UserID   int64
	Word     string
	Language Language
	AddedAt  time.Time
	Mastery
}

// Normalize ensures defaults & constraints before persistence.
func (w *VocabWord) Normalize(now time.Time) {
	w.Word = strings.TrimSpace(w.Word)
	w.Language = NormalizeLanguage(w.Language)
	if w.AddedAt.IsZero() {
		w.AddedAt = now
	}
}

// Validate validates the vocab word entity.
func (w *VocabWord) Validate() error {
	if strings.TrimSpace(w.Word) == "" {
		return ErrInvalidVocabWord
	}
	return nil
}

// reviewBefore is the shared priority policy: records never answered
// correctly come first, then ascending LastCorrectAt (mastered longest
// ago first).
func reviewBefore(a, b Mastery) (less, decided bool) {
	switch {
	case a.LastCorrectAt == nil && b.LastCorrectAt != nil:
		return true, true
	case a.LastCorrectAt != nil && b.LastCorrectAt == nil:
		return false, true
	case a.LastCorrectAt == nil && b.LastCorrectAt == nil:
		return false, false
	case a.LastCorrectAt.Equal(*b.LastCorrectAt):
		return false, false
	default:
		return a.LastCorrectAt.Before(*b.LastCorrectAt), true
	}
}

// SortErrorsForReview orders error records by the review priority
// policy, tie-breaking on originating-submission recency (newest
// first) and finally on ID for determinism. The sort is stable.
func SortErrorsForReview(records []ErrorRecord) {
	sort.SliceStable(records, func(i, j int) bool {
		if less, decided := reviewBefore(records[i].Mastery, records[j].Mastery); decided {
			return less
		}
		if !records[i].SubmittedAt.Equal(records[j].SubmittedAt) {
			return records[i].SubmittedAt.After(records[j].SubmittedAt)
		}
		return records[i].ID < records[j].ID
	})
}

// SortVocabForReview orders vocabulary records by the review priority
// policy, tie-breaking on ID for determinism. The sort is stable.
func SortVocabForReview(words []VocabWord) {
	sort.SliceStable(words, func(i, j int) bool {
		if less, decided := reviewBefore(words[i].Mastery, words[j].Mastery); decided {
			return less
		}
		return words[i].ID < words[j].ID
	})
}
