package rest

import (
	"time"

	"github.com/eslsoft/lingodrill/internal/entity"
)

// JSON views of the domain entities. Mastery fields are flattened the
// same way on both record kinds.

type userDTO struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

func toUserDTO(u entity.User) userDTO {
	return userDTO{ID: u.ID, Name: u.Name, CreatedAt: u.CreatedAt}
}

type courseDTO struct {
	ID       int64  `json:"id"`
	Language string `json:"language"`
	Name     string `json:"name"`
}

func toCourseDTO(c entity.Course) courseDTO {
	return courseDTO{ID: c.ID, Language: c.Language.Code(), Name: c.Name}
}

type chapterDTO struct {
	ID       int64  `json:"id"`
	CourseID int64  `json:"course_id"`
	Name     string `json:"name"`
}

func toChapterDTO(c entity.Chapter) chapterDTO {
	return chapterDTO{ID: c.ID, CourseID: c.CourseID, Name: c.Name}
}

type moduleDTO struct {
	ID          int64  `json:"id"`
	ChapterID   *int64 `json:"chapter_id,omitempty"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Language    string `json:"language"`
}

func toModuleDTO(m entity.Module) moduleDTO {
	return moduleDTO{
		ID:          m.ID,
		ChapterID:   m.ChapterID,
		Name:        m.Name,
		Description: m.Description,
		Language:    m.Language.Code(),
	}
}

type masteryDTO struct {
	ReviewCount        int        `json:"review_count"`
	CorrectReviewCount int        `json:"correct_review_count"`
	LastReviewedAt     *time.Time `json:"last_reviewed_at"`
	LastCorrectAt      *time.Time `json:"last_correct_at"`
}

func toMasteryDTO(m entity.Mastery) masteryDTO {
	return masteryDTO{
		ReviewCount:        m.ReviewCount,
		CorrectReviewCount: m.CorrectReviewCount,
		LastReviewedAt:     m.LastReviewedAt,
		LastCorrectAt:      m.LastCorrectAt,
	}
}

type errorRecordDTO struct {
	ID         int64  `json:"id"`
	SentenceID int64  `json:"sentence_id"`
	ModuleID   int64  `json:"module_id"`
	UserID     int64  `json:"user_id"`
	ErrorText  string `json:"error_text"`
	masteryDTO
	SubmittedAt time.Time `json:"submitted_at"`
}

func toErrorRecordDTO(r entity.ErrorRecord) errorRecordDTO {
	return errorRecordDTO{
		ID:          r.ID,
		SentenceID:  r.SentenceID,
		ModuleID:    r.ModuleID,
		UserID:      r.UserID,
		ErrorText:   r.ErrorText,
		masteryDTO:  toMasteryDTO(r.Mastery),
		SubmittedAt: r.SubmittedAt,
	}
}

type vocabWordDTO struct {
	ID       int64     `json:"id"`
	UserID   int64     `json:"user_id"`
	Word     string    `json:"word"`
	Language string    `json:"language"`
	AddedAt  time.Time `json:"added_at"`
	masteryDTO
}

func toVocabWordDTO(w entity.VocabWord) vocabWordDTO {
	return vocabWordDTO{
		ID:         w.ID,
		UserID:     w.UserID,
		Word:       w.Word,
		Language:   w.Language.Code(),
		AddedAt:    w.AddedAt,
		masteryDTO: toMasteryDTO(w.Mastery),
	}
}

type sentenceDTO struct {
	ID          int64     `json:"id"`
	UserID      int64     `json:"user_id"`
	ModuleID    int64     `json:"module_id"`
	EnglishText string    `json:"english_text"`
	Translation string    `json:"translation"`
	GradedText  string    `json:"graded_text"`
	Level       string    `json:"cefr_level"`
	CreatedAt   time.Time `json:"created_at"`
}

func toSentenceDTO(s entity.Sentence) sentenceDTO {
	return sentenceDTO{
		ID:          s.ID,
		UserID:      s.UserID,
		ModuleID:    s.ModuleID,
		EnglishText: s.EnglishText,
		Translation: s.Translation,
		GradedText:  s.GradedText,
		Level:       string(s.Level),
		CreatedAt:   s.CreatedAt,
	}
}

type moduleResultDTO struct {
	ID                int64     `json:"id"`
	UserID            int64     `json:"user_id"`
	ModuleID          int64     `json:"module_id"`
	QuestionsAnswered int       `json:"questions_answered"`
	QuestionsCorrect  int       `json:"questions_correct"`
	Score             float64   `json:"score"`
	CreatedAt         time.Time `json:"created_at"`
}

func toModuleResultDTO(r entity.ModuleResult) moduleResultDTO {
	return moduleResultDTO{
		ID:                r.ID,
		UserID:            r.UserID,
		ModuleID:          r.ModuleID,
		QuestionsAnswered: r.QuestionsAnswered,
		QuestionsCorrect:  r.QuestionsCorrect,
		Score:             r.Score,
		CreatedAt:         r.CreatedAt,
	}
}
