package repository

import (
	"context"

	"github.com/eslsoft/lingodrill/internal/entity"
)

// CourseRepository provides access to the course/chapter hierarchy.
type CourseRepository interface {
	CreateCourse(ctx context.Context, course *entity.Course) (*entity.Course, error)
	GetCourse(ctx context.Context, id int64) (*entity.Course, error)
	ListCourses(ctx context.Context, language entity.Language) ([]entity.Course, error)

	CreateChapter(ctx context.Context, chapter *entity.Chapter) (*entity.Chapter, error)
	GetChapter(ctx context.Context, id int64) (*entity.Chapter, error)
	ListChapters(ctx context.Context, courseID int64) ([]entity.Chapter, error)
}
