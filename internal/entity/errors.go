package entity

import "errors"

// Domain errors surfaced by usecases and mapped to transport codes at
// the adapter boundary.
var (
	ErrUserNotFound      = errors.New("user not found")
	ErrInvalidUserName   = errors.New("invalid user name")
	ErrUserAlreadyExists = errors.New("user already exists")

	ErrCourseNotFound      = errors.New("course not found")
	ErrChapterNotFound     = errors.New("chapter not found")
	ErrModuleNotFound      = errors.New("module not found")
	ErrInstructionNotFound = errors.New("instruction not found")
	ErrSentenceNotFound    = errors.New("sentence not found")

	ErrInvalidSubmission = errors.New("submission requires english text and a translation")

	ErrRecordNotFound   = errors.New("mastery record not found")
	ErrInvalidOverride  = errors.New("override inconsistent with record state")
	ErrInvalidVocabWord = errors.New("invalid vocab word")
	ErrEmptyVocabList   = errors.New("vocab list is empty")

	// ErrGenerationUnavailable marks a failed or unusable completion
	// call during prompt/batch generation.
	ErrGenerationUnavailable = errors.New("sentence generation unavailable")
	// ErrJudgmentUnavailable marks a failed completion call during
	// grading or correctness judgment. No record mutation occurs.
	ErrJudgmentUnavailable = errors.New("judgment unavailable")
)
