package usecase

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/eslsoft/lingodrill/internal/entity"
	"github.com/eslsoft/lingodrill/internal/repository"
)

// In-memory repository fakes. Each one clones on the way in and out so
// tests observe exactly what was persisted, never shared pointers.

type fakeUserRepo struct {
	mu    sync.RWMutex
	seq   int64
	items map[int64]*entity.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{items: make(map[int64]*entity.User)}
}

func (r *fakeUserRepo) Create(ctx context.Context, user *entity.User) (*entity.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq++
	copy := *user
	copy.ID = r.seq
	r.items[copy.ID] = &copy
	out := copy
	return &out, nil
}

func (r *fakeUserRepo) GetByID(ctx context.Context, id int64) (*entity.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	item, ok := r.items[id]
	if !ok {
		return nil, entity.ErrUserNotFound
	}
	copy := *item
	return &copy, nil
}

func (r *fakeUserRepo) FindByName(ctx context.Context, name string) (*entity.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, item := range r.items {
		if strings.EqualFold(item.Name, name) {
			copy := *item
			return &copy, nil
		}
	}
	return nil, nil
}

func (r *fakeUserRepo) List(ctx context.Context) ([]entity.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]entity.User, 0, len(r.items))
	for _, item := range r.items {
		out = append(out, *item)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

type fakeModuleRepo struct {
	mu           sync.RWMutex
	seq          int64
	items        map[int64]*entity.Module
	instructions map[int64]string
}

func newFakeModuleRepo() *fakeModuleRepo {
	return &fakeModuleRepo{
		items:        make(map[int64]*entity.Module),
		instructions: make(map[int64]string),
	}
}

func (r *fakeModuleRepo) Create(ctx context.Context, module *entity.Module) (*entity.Module, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq++
	copy := *module
	copy.ID = r.seq
	r.items[copy.ID] = &copy
	out := copy
	return &out, nil
}

func (r *fakeModuleRepo) GetByID(ctx context.Context, id int64) (*entity.Module, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	item, ok := r.items[id]
	if !ok {
		return nil, entity.ErrModuleNotFound
	}
	copy := *item
	return &copy, nil
}

func (r *fakeModuleRepo) FindByName(ctx context.Context, name string, language entity.Language) (*entity.Module, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, item := range r.items {
		if strings.EqualFold(item.Name, name) && item.Language == language {
			copy := *item
			return &copy, nil
		}
	}
	return nil, nil
}

func (r *fakeModuleRepo) List(ctx context.Context, query *repository.ListModuleQuery) ([]entity.Module, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []entity.Module
	for _, item := range r.items {
		if query.Language != entity.LanguageUnspecified && item.Language != query.Language {
			continue
		}
		if query.ChapterID != 0 && (item.ChapterID == nil || *item.ChapterID != query.ChapterID) {
			continue
		}
		out = append(out, *item)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *fakeModuleRepo) UpsertInstruction(ctx context.Context, instruction *entity.Instruction) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.instructions[instruction.ModuleID] = instruction.Text
	return nil
}

func (r *fakeModuleRepo) GetInstruction(ctx context.Context, moduleID int64) (*entity.Instruction, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	text, ok := r.instructions[moduleID]
	if !ok {
		return nil, entity.ErrInstructionNotFound
	}
	return &entity.Instruction{ModuleID: moduleID, Text: text}, nil
}

type fakeCourseRepo struct {
	mu         sync.RWMutex
	courseSeq  int64
	chapterSeq int64
	courses    map[int64]*entity.Course
	chapters   map[int64]*entity.Chapter
}

func newFakeCourseRepo() *fakeCourseRepo {
	return &fakeCourseRepo{
		courses:  make(map[int64]*entity.Course),
		chapters: make(map[int64]*entity.Chapter),
	}
}

func (r *fakeCourseRepo) CreateCourse(ctx context.Context, course *entity.Course) (*entity.Course, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.courseSeq++
	copy := *course
	copy.ID = r.courseSeq
	r.courses[copy.ID] = &copy
	out := copy
	return &out, nil
}

func (r *fakeCourseRepo) GetCourse(ctx context.Context, id int64) (*entity.Course, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	item, ok := r.courses[id]
	if !ok {
		return nil, entity.ErrCourseNotFound
	}
	copy := *item
	return &copy, nil
}

func (r *fakeCourseRepo) ListCourses(ctx context.Context, language entity.Language) ([]entity.Course, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []entity.Course
	for _, item := range r.courses {
		if language != entity.LanguageUnspecified && item.Language != language {
			continue
		}
		out = append(out, *item)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *fakeCourseRepo) CreateChapter(ctx context.Context, chapter *entity.Chapter) (*entity.Chapter, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.chapterSeq++
	copy := *chapter
	copy.ID = r.chapterSeq
	r.chapters[copy.ID] = &copy
	out := copy
	return &out, nil
}

func (r *fakeCourseRepo) GetChapter(ctx context.Context, id int64) (*entity.Chapter, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	item, ok := r.chapters[id]
	if !ok {
		return nil, entity.ErrChapterNotFound
	}
	copy := *item
	return &copy, nil
}

func (r *fakeCourseRepo) ListChapters(ctx context.Context, courseID int64) ([]entity.Chapter, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []entity.Chapter
	for _, item := range r.chapters {
		if courseID != 0 && item.CourseID != courseID {
			continue
		}
		out = append(out, *item)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

type fakeSentenceRepo struct {
	mu    sync.RWMutex
	seq   int64
	items map[int64]*entity.Sentence
}

func newFakeSentenceRepo() *fakeSentenceRepo {
	return &fakeSentenceRepo{items: make(map[int64]*entity.Sentence)}
}

func (r *fakeSentenceRepo) Create(ctx context.Context, sentence *entity.Sentence) (*entity.Sentence, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq++
	copy := *sentence
	copy.ID = r.seq
	r.items[copy.ID] = &copy
	out := copy
	return &out, nil
}

func (r *fakeSentenceRepo) GetByID(ctx context.Context, id int64) (*entity.Sentence, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	item, ok := r.items[id]
	if !ok {
		return nil, entity.ErrSentenceNotFound
	}
	copy := *item
	return &copy, nil
}

func (r *fakeSentenceRepo) List(ctx context.Context, query *repository.ListSentenceQuery) ([]entity.Sentence, int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []entity.Sentence
	for _, item := range r.items {
		if query.UserID != 0 && item.UserID != query.UserID {
			continue
		}
		if query.ModuleID != 0 && item.ModuleID != query.ModuleID {
			continue
		}
		out = append(out, *item)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, int64(len(out)), nil
}

type fakeErrorRecordRepo struct {
	mu    sync.RWMutex
	seq   int64
	items map[int64]*entity.ErrorRecord

	failUpdate error
}

func newFakeErrorRecordRepo() *fakeErrorRecordRepo {
	return &fakeErrorRecordRepo{items: make(map[int64]*entity.ErrorRecord)}
}

func (r *fakeErrorRecordRepo) Create(ctx context.Context, record *entity.ErrorRecord) (*entity.ErrorRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq++
	copy := cloneErrorRecord(record)
	copy.ID = r.seq
	r.items[copy.ID] = copy
	return cloneErrorRecord(copy), nil
}

func (r *fakeErrorRecordRepo) Update(ctx context.Context, record *entity.ErrorRecord) (*entity.ErrorRecord, error) {
	if r.failUpdate != nil {
		return nil, r.failUpdate
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	existing, ok := r.items[record.ID]
	if !ok || existing.UserID != record.UserID {
		return nil, entity.ErrRecordNotFound
	}
	copy := cloneErrorRecord(record)
	r.items[copy.ID] = copy
	return cloneErrorRecord(copy), nil
}

func (r *fakeErrorRecordRepo) GetByID(ctx context.Context, userID, id int64) (*entity.ErrorRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	item, ok := r.items[id]
	if !ok || item.UserID != userID {
		return nil, entity.ErrRecordNotFound
	}
	return cloneErrorRecord(item), nil
}

func (r *fakeErrorRecordRepo) List(ctx context.Context, query *repository.ListErrorRecordQuery) ([]entity.ErrorRecord, int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []entity.ErrorRecord
	for _, item := range r.items {
		if item.UserID != query.UserID {
			continue
		}
		if query.ModuleID != 0 && item.ModuleID != query.ModuleID {
			continue
		}
		out = append(out, *cloneErrorRecord(item))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, int64(len(out)), nil
}

func cloneErrorRecord(src *entity.ErrorRecord) *entity.ErrorRecord {
	copy := *src
	copy.Mastery = cloneMastery(src.Mastery)
	return &copy
}

type fakeVocabWordRepo struct {
	mu    sync.RWMutex
	seq   int64
	items map[int64]*entity.VocabWord

	failUpdate error
}

func newFakeVocabWordRepo() *fakeVocabWordRepo {
	return &fakeVocabWordRepo{items: make(map[int64]*entity.VocabWord)}
}

func (r *fakeVocabWordRepo) Create(ctx context.Context, word *entity.VocabWord) (*entity.VocabWord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq++
	copy := cloneVocabWord(word)
	copy.ID = r.seq
	r.items[copy.ID] = copy
	return cloneVocabWord(copy), nil
}

func (r *fakeVocabWordRepo) Update(ctx context.Context, word *entity.VocabWord) (*entity.VocabWord, error) {
	if r.failUpdate != nil {
		return nil, r.failUpdate
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	existing, ok := r.items[word.ID]
	if !ok || existing.UserID != word.UserID {
		return nil, entity.ErrRecordNotFound
	}
	copy := cloneVocabWord(word)
	r.items[copy.ID] = copy
	return cloneVocabWord(copy), nil
}

func (r *fakeVocabWordRepo) GetByID(ctx context.Context, userID, id int64) (*entity.VocabWord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	item, ok := r.items[id]
	if !ok || item.UserID != userID {
		return nil, entity.ErrRecordNotFound
	}
	return cloneVocabWord(item), nil
}

func (r *fakeVocabWordRepo) FindByWord(ctx context.Context, userID int64, word string, language entity.Language) (*entity.VocabWord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, item := range r.items {
		if item.UserID == userID && item.Language == language && strings.EqualFold(item.Word, word) {
			return cloneVocabWord(item), nil
		}
	}
	return nil, nil
}

func (r *fakeVocabWordRepo) List(ctx context.Context, query *repository.ListVocabWordQuery) ([]entity.VocabWord, int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []entity.VocabWord
	for _, item := range r.items {
		if item.UserID != query.UserID {
			continue
		}
		if query.Language != entity.LanguageUnspecified && item.Language != query.Language {
			continue
		}
		out = append(out, *cloneVocabWord(item))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, int64(len(out)), nil
}

func (r *fakeVocabWordRepo) Delete(ctx context.Context, userID, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	item, ok := r.items[id]
	if !ok || item.UserID != userID {
		return entity.ErrRecordNotFound
	}
	delete(r.items, id)
	return nil
}

func cloneVocabWord(src *entity.VocabWord) *entity.VocabWord {
	copy := *src
	copy.Mastery = cloneMastery(src.Mastery)
	return &copy
}

func cloneMastery(src entity.Mastery) entity.Mastery {
	copy := src
	if src.LastReviewedAt != nil {
		t := *src.LastReviewedAt
		copy.LastReviewedAt = &t
	}
	if src.LastCorrectAt != nil {
		t := *src.LastCorrectAt
		copy.LastCorrectAt = &t
	}
	return copy
}

type fakeResultRepo struct {
	mu    sync.RWMutex
	seq   int64
	items map[int64]*entity.ModuleResult
}

func newFakeResultRepo() *fakeResultRepo {
	return &fakeResultRepo{items: make(map[int64]*entity.ModuleResult)}
}

func (r *fakeResultRepo) Create(ctx context.Context, result *entity.ModuleResult) (*entity.ModuleResult, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq++
	copy := *result
	copy.ID = r.seq
	r.items[copy.ID] = &copy
	out := copy
	return &out, nil
}

func (r *fakeResultRepo) List(ctx context.Context, query *repository.ListModuleResultQuery) ([]entity.ModuleResult, int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []entity.ModuleResult
	for _, item := range r.items {
		if query.UserID != 0 && item.UserID != query.UserID {
			continue
		}
		if query.ModuleID != 0 && item.ModuleID != query.ModuleID {
			continue
		}
		out = append(out, *item)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, int64(len(out)), nil
}

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func listErrorsQuery(userID int64) *repository.ListErrorRecordQuery {
	return &repository.ListErrorRecordQuery{UserID: userID}
}

func listSentencesQuery(userID int64) *repository.ListSentenceQuery {
	return &repository.ListSentenceQuery{UserID: userID}
}
