package usecase

import (
	"context"
	"strings"

	"github.com/eslsoft/lingodrill/internal/entity"
	"github.com/eslsoft/lingodrill/internal/repository"
)

// CourseUsecase manages the course/chapter/module hierarchy and module
// instructions.
type CourseUsecase interface {
	CreateCourse(ctx context.Context, course *entity.Course) (*entity.Course, error)
	ListCourses(ctx context.Context, language entity.Language) ([]entity.Course, error)
	CreateChapter(ctx context.Context, chapter *entity.Chapter) (*entity.Chapter, error)
	ListChapters(ctx context.Context, courseID int64) ([]entity.Chapter, error)

	CreateModule(ctx context.Context, module *entity.Module) (*entity.Module, error)
	ListModules(ctx context.Context, language entity.Language, chapterID int64) ([]entity.Module, error)
	GetInstruction(ctx context.Context, moduleID int64) (*entity.Instruction, error)
	UpsertInstruction(ctx context.Context, moduleID int64, text string) error
}

// NewCourseUsecase wires the repositories with default behaviour.
func NewCourseUsecase(courses repository.CourseRepository, modules repository.ModuleRepository) CourseUsecase {
	return &courseUsecase{courses: courses, modules: modules}
}

type courseUsecase struct {
	courses repository.CourseRepository
	modules repository.ModuleRepository
}

func (u *courseUsecase) CreateCourse(ctx context.Context, course *entity.Course) (*entity.Course, error) {
	if course == nil || strings.TrimSpace(course.Name) == "" {
		return nil, entity.ErrCourseNotFound
	}
	course.Normalize()
	return u.courses.CreateCourse(ctx, course)
}

func (u *courseUsecase) ListCourses(ctx context.Context, language entity.Language) ([]entity.Course, error) {
	return u.courses.ListCourses(ctx, language)
}

func (u *courseUsecase) CreateChapter(ctx context.Context, chapter *entity.Chapter) (*entity.Chapter, error) {
	if chapter == nil || strings.TrimSpace(chapter.Name) == "" {
		return nil, entity.ErrChapterNotFound
	}

	// FK integrity: the parent course must exist.
	if _, err := u.courses.GetCourse(ctx, chapter.CourseID); err != nil {
		return nil, err
	}
	chapter.Name = strings.TrimSpace(chapter.Name)
	return u.courses.CreateChapter(ctx, chapter)
}

func (u *courseUsecase) ListChapters(ctx context.Context, courseID int64) ([]entity.Chapter, error) {
	return u.courses.ListChapters(ctx, courseID)
}

func (u *courseUsecase) CreateModule(ctx context.Context, module *entity.Module) (*entity.Module, error) {
	if module == nil || strings.TrimSpace(module.Name) == "" {
		return nil, entity.ErrModuleNotFound
	}
	module.Normalize()

	if module.ChapterID != nil {
		if _, err := u.courses.GetChapter(ctx, *module.ChapterID); err != nil {
			return nil, err
		}
	}
	return u.modules.Create(ctx, module)
}

// ListModules returns the stored modules for a language, falling back
// to the built-in default topics when none exist yet.
func (u *courseUsecase) ListModules(ctx context.Context, language entity.Language, chapterID int64) ([]entity.Module, error) {
	language = entity.NormalizeLanguage(language)
	modules, err := u.modules.List(ctx, &repository.ListModuleQuery{Language: language, ChapterID: chapterID})
	if err != nil {
		return nil, err
	}
	if len(modules) > 0 || chapterID != 0 {
		return modules, nil
	}

	defaults := entity.DefaultModules[language]
	fallback := make([]entity.Module, 0, len(defaults))
	for _, name := range defaults {
		fallback = append(fallback, entity.Module{Name: name, Language: language})
	}
	return fallback, nil
}

func (u *courseUsecase) GetInstruction(ctx context.Context, moduleID int64) (*entity.Instruction, error) {
	if _, err := u.modules.GetByID(ctx, moduleID); err != nil {
		return nil, err
	}
	return u.modules.GetInstruction(ctx, moduleID)
}

func (u *courseUsecase) UpsertInstruction(ctx context.Context, moduleID int64, text string) error {
	if _, err := u.modules.GetByID(ctx, moduleID); err != nil {
		return err
	}
	return u.modules.UpsertInstruction(ctx, &entity.Instruction{ModuleID: moduleID, Text: strings.TrimSpace(text)})
}
