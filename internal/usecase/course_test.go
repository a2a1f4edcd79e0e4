package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/eslsoft/lingodrill/internal/entity"
)

func newCourseFixture() (CourseUsecase, *fakeCourseRepo, *fakeModuleRepo) {
	courses := newFakeCourseRepo()
	modules := newFakeModuleRepo()
	return NewCourseUsecase(courses, modules), courses, modules
}

func TestListModulesFallsBackToDefaults(t *testing.T) {
	uc, _, _ := newCourseFixture()

	got, err := uc.ListModules(context.Background(), entity.LanguageFrench, 0)
	if err != nil {
		t.Fatalf("ListModules returned error: %v", err)
	}
	want := entity.DefaultModules[entity.LanguageFrench]
	if len(got) != len(want) {
		t.Fatalf("expected %d default modules, got %d", len(want), len(got))
	}
	for i, name := range want {
		if got[i].Name != name {
			t.Errorf("position %d: expected %q, got %q", i, name, got[i].Name)
		}
	}
}

func TestListModulesPrefersStoredModules(t *testing.T) {
	uc, _, modules := newCourseFixture()
	_, _ = modules.Create(context.Background(), &entity.Module{Name: "Subjunctive", Language: entity.LanguageFrench})

	got, err := uc.ListModules(context.Background(), entity.LanguageFrench, 0)
	if err != nil {
		t.Fatalf("ListModules returned error: %v", err)
	}
	if len(got) != 1 || got[0].Name != "Subjunctive" {
		t.Errorf("expected the stored module only, got %+v", got)
	}
}

func TestCreateChapterRequiresExistingCourse(t *testing.T) {
	uc, _, _ := newCourseFixture()

	_, err := uc.CreateChapter(context.Background(), &entity.Chapter{CourseID: 42, Name: "Basics"})
	if !errors.Is(err, entity.ErrCourseNotFound) {
		t.Fatalf("expected ErrCourseNotFound, got %v", err)
	}
}

func TestCreateModuleRequiresExistingChapter(t *testing.T) {
	uc, _, _ := newCourseFixture()

	missing := int64(9)
	_, err := uc.CreateModule(context.Background(), &entity.Module{
		Name: "Nouns", Language: entity.LanguageSpanish, ChapterID: &missing,
	})
	if !errors.Is(err, entity.ErrChapterNotFound) {
		t.Fatalf("expected ErrChapterNotFound, got %v", err)
	}
}

func TestCourseChapterModuleHierarchy(t *testing.T) {
	uc, _, _ := newCourseFixture()

	course, err := uc.CreateCourse(context.Background(), &entity.Course{Name: " French ", Language: entity.LanguageFrench})
	if err != nil {
		t.Fatalf("CreateCourse returned error: %v", err)
	}
	if course.Name != "French" {
		t.Errorf("expected trimmed course name, got %q", course.Name)
	}

	chapter, err := uc.CreateChapter(context.Background(), &entity.Chapter{CourseID: course.ID, Name: "Verbs"})
	if err != nil {
		t.Fatalf("CreateChapter returned error: %v", err)
	}

	module, err := uc.CreateModule(context.Background(), &entity.Module{
		Name: "Imperfect", Language: entity.LanguageFrench, ChapterID: &chapter.ID,
	})
	if err != nil {
		t.Fatalf("CreateModule returned error: %v", err)
	}

	chapters, err := uc.ListChapters(context.Background(), course.ID)
	if err != nil || len(chapters) != 1 {
		t.Fatalf("expected 1 chapter, got %d (%v)", len(chapters), err)
	}

	inChapter, err := uc.ListModules(context.Background(), entity.LanguageFrench, chapter.ID)
	if err != nil || len(inChapter) != 1 || inChapter[0].ID != module.ID {
		t.Fatalf("expected the chapter's module, got %+v (%v)", inChapter, err)
	}
}

func TestInstructionRoundTrip(t *testing.T) {
	uc, _, modules := newCourseFixture()
	module, _ := modules.Create(context.Background(), &entity.Module{Name: "Imperfect", Language: entity.LanguageFrench})

	if _, err := uc.GetInstruction(context.Background(), module.ID); !errors.Is(err, entity.ErrInstructionNotFound) {
		t.Fatalf("expected ErrInstructionNotFound before upsert, got %v", err)
	}

	if err := uc.UpsertInstruction(context.Background(), module.ID, "The imperfect describes ongoing past actions."); err != nil {
		t.Fatalf("UpsertInstruction returned error: %v", err)
	}

	got, err := uc.GetInstruction(context.Background(), module.ID)
	if err != nil {
		t.Fatalf("GetInstruction returned error: %v", err)
	}
	if got.Text != "The imperfect describes ongoing past actions." {
		t.Errorf("unexpected instruction text: %q", got.Text)
	}

	if err := uc.UpsertInstruction(context.Background(), 99, "x"); !errors.Is(err, entity.ErrModuleNotFound) {
		t.Fatalf("expected ErrModuleNotFound for unknown module, got %v", err)
	}
}
