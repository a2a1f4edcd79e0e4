package entity

import "time"

// ModuleResult summarizes one completed practice session for a module.
type ModuleResult struct {
	ID                int64     `json:"id"`
	UserID            int64     `json:"user_id"`
	ModuleID          int64     `json:"module_id"`
	QuestionsAnswered int       `json:"questions_answered"`
	QuestionsCorrect  int       `json:"questions_correct"`
	Score             float64   `json:"score"`
	CreatedAt         time.Time `json:"created_at"`
}

// Normalize derives the score when the caller left it unset.
func (r *ModuleResult) Normalize(now time.Time) {
	if r.Score == 0 && r.QuestionsAnswered > 0 {
		r.Score = float64(r.QuestionsCorrect) / float64(r.QuestionsAnswered)
	}
	if r.CreatedAt.IsZero() {
		r.CreatedAt = now
	}
}
