package repository

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/eslsoft/lingodrill/internal/entity"
	"github.com/eslsoft/lingodrill/internal/repository"
)

type courseRow struct {
	ID       int64  `db:"id"`
	Language string `db:"language"`
	Name     string `db:"name"`
}

type chapterRow struct {
	ID       int64  `db:"id"`
	CourseID int64  `db:"course_id"`
	Name     string `db:"name"`
}

// CourseRepository is the sqlx-backed course/chapter store.
type CourseRepository struct {
	db *sqlx.DB
}

// NewCourseRepository creates a CourseRepository on the given connection.
func NewCourseRepository(db *sqlx.DB) repository.CourseRepository {
	return &CourseRepository{db: db}
}

func (r *CourseRepository) CreateCourse(ctx context.Context, course *entity.Course) (*entity.Course, error) {
	id, err := insertReturningID(ctx, r.db,
		`INSERT INTO courses (language, name) VALUES (?, ?)`,
		course.Language.Code(), course.Name)
	if err != nil {
		return nil, err
	}
	created := *course
	created.ID = id
	return &created, nil
}

func (r *CourseRepository) GetCourse(ctx context.Context, id int64) (*entity.Course, error) {
	var row courseRow
	err := r.db.GetContext(ctx, &row,
		r.db.Rebind(`SELECT id, language, name FROM courses WHERE id = ?`), id)
	if err != nil {
		return nil, translateNotFound(err, entity.ErrCourseNotFound)
	}
	course := entity.Course{ID: row.ID, Language: entity.ParseLanguage(row.Language), Name: row.Name}
	return &course, nil
}

func (r *CourseRepository) ListCourses(ctx context.Context, language entity.Language) ([]entity.Course, error) {
	query := `SELECT id, language, name FROM courses`
	args := []any{}
	if language != entity.LanguageUnspecified {
		query += ` WHERE language = ?`
		args = append(args, language.Code())
	}
	query += ` ORDER BY id`

	var rows []courseRow
	if err := r.db.SelectContext(ctx, &rows, r.db.Rebind(query), args...); err != nil {
		return nil, err
	}
	courses := make([]entity.Course, 0, len(rows))
	for _, row := range rows {
		courses = append(courses, entity.Course{
			ID:       row.ID,
			Language: entity.ParseLanguage(row.Language),
			Name:     row.Name,
		})
	}
	return courses, nil
}

func (r *CourseRepository) CreateChapter(ctx context.Context, chapter *entity.Chapter) (*entity.Chapter, error) {
	id, err := insertReturningID(ctx, r.db,
		`INSERT INTO chapters (course_id, name) VALUES (?, ?)`,
		chapter.CourseID, chapter.Name)
	if err != nil {
		return nil, err
	}
	created := *chapter
	created.ID = id
	return &created, nil
}

func (r *CourseRepository) GetChapter(ctx context.Context, id int64) (*entity.Chapter, error) {
	var row chapterRow
	err := r.db.GetContext(ctx, &row,
		r.db.Rebind(`SELECT id, course_id, name FROM chapters WHERE id = ?`), id)
	if err != nil {
		return nil, translateNotFound(err, entity.ErrChapterNotFound)
	}
	chapter := entity.Chapter{ID: row.ID, CourseID: row.CourseID, Name: row.Name}
	return &chapter, nil
}

func (r *CourseRepository) ListChapters(ctx context.Context, courseID int64) ([]entity.Chapter, error) {
	query := `SELECT id, course_id, name FROM chapters`
	args := []any{}
	if courseID != 0 {
		query += ` WHERE course_id = ?`
		args = append(args, courseID)
	}
	query += ` ORDER BY id`

	var rows []chapterRow
	if err := r.db.SelectContext(ctx, &rows, r.db.Rebind(query), args...); err != nil {
		return nil, err
	}
	chapters := make([]entity.Chapter, 0, len(rows))
	for _, row := range rows {
		chapters = append(chapters, entity.Chapter{ID: row.ID, CourseID: row.CourseID, Name: row.Name})
	}
	return chapters, nil
}
