package entity

import "time"

// Sentence is one graded translation submission: the generated English
// prompt, the learner's translation, and the free-form graded text
// returned by the completion service.
type Sentence struct {
	ID          int64     `json:"id"`
	UserID      int64     `json:"user_id"`
	ModuleID    int64     `json:"module_id"`
	EnglishText string    `json:"english_text"`
	Translation string    `json:"translation"`
	GradedText  string    `json:"graded_text"`
	Level       Level     `json:"cefr_level"`
	CreatedAt   time.Time `json:"created_at"`
}
