package entity

import "time"

// Mastery tracks how reliably a learner has handled one weak point
// (a grammar error or a vocabulary word). The same tracked fields are
// shared by both record kinds.
type Mastery struct {
	ReviewCount        int
	CorrectReviewCount int
	LastReviewedAt     *time.Time
	LastCorrectAt      *time.Time
}

// Snapshot captures the judgment-relevant mastery fields before an
// attempt mutates them. It is returned to the caller and echoed back
// verbatim on an override; the server keeps no history beyond the live
// record. It is a single-level undo token: replaying a stale snapshot
// after further attempts corrupts state, which is a documented
// limitation of the contract, not a bug.
type Snapshot struct {
	LastCorrectAt      *time.Time `json:"last_correct_at"`
	CorrectReviewCount int        `json:"correct_review_count"`
}

// RecordAttempt applies one graded attempt to the record and returns
// the pre-mutation snapshot. ReviewCount always advances by exactly
// one; the correct-side fields move only on success.
func (m *Mastery) RecordAttempt(now time.Time, correct bool) Snapshot {
	snap := Snapshot{
		LastCorrectAt:      m.LastCorrectAt,
		CorrectReviewCount: m.CorrectReviewCount,
	}

	reviewed := now
	m.ReviewCount++
	m.LastReviewedAt = &reviewed

	if correct {
		correctAt := now
		m.CorrectReviewCount++
		m.LastCorrectAt = &correctAt
	}

	return snap
}

// Override corrects the success classification of the most recent
// attempt using the snapshot taken before that attempt. ReviewCount is
// never touched: the attempt still counts as an attempt.
func (m *Mastery) Override(newCorrect, priorCorrect bool, snap Snapshot, now time.Time) error {
	if newCorrect == priorCorrect {
		return nil
	}
	if err := m.validateOverride(priorCorrect, snap); err != nil {
		return err
	}

	if newCorrect {
		correctAt := now
		m.CorrectReviewCount = snap.CorrectReviewCount + 1
		m.LastCorrectAt = &correctAt
		return nil
	}

	m.CorrectReviewCount = snap.CorrectReviewCount
	m.LastCorrectAt = snap.LastCorrectAt
	return nil
}

// validateOverride rejects snapshot/priorCorrect combinations that are
// inconsistent with the live record. The client is trusted to echo the
// snapshot it was given, but an impossible one must not corrupt the
// invariants.
func (m *Mastery) validateOverride(priorCorrect bool, snap Snapshot) error {
	if snap.CorrectReviewCount < 0 {
		return ErrInvalidOverride
	}
	if snap.CorrectReviewCount > 0 && snap.LastCorrectAt == nil {
		return ErrInvalidOverride
	}
	if snap.CorrectReviewCount == 0 && snap.LastCorrectAt != nil {
		return ErrInvalidOverride
	}
	if priorCorrect && m.CorrectReviewCount == 0 {
		return ErrInvalidOverride
	}
	// Both restore targets must respect CorrectReviewCount <= ReviewCount.
	if snap.CorrectReviewCount+1 > m.ReviewCount {
		return ErrInvalidOverride
	}
	return nil
}

// Consistent reports whether the record satisfies the tracked-field
// invariants.
func (m *Mastery) Consistent() bool {
	if m.CorrectReviewCount < 0 || m.CorrectReviewCount > m.ReviewCount {
		return false
	}
	if (m.LastCorrectAt != nil) != (m.CorrectReviewCount > 0) {
		return false
	}
	return true
}
