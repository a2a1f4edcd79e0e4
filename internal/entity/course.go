package entity

import "strings"

// Course groups chapters for one target language.
type Course struct {
	ID       int64    `json:"id"`
	Language Language `json:"language"`
	Name     string   `json:"name"`
}

// Chapter groups modules within a course.
type Chapter struct {
	ID       int64  `json:"id"`
	CourseID int64  `json:"course_id"`
	Name     string `json:"name"`
}

// Module is one practicable grammar topic. ChapterID is optional:
// ad-hoc modules created on first submission have no chapter.
type Module struct {
	ID          int64    `json:"id"`
	ChapterID   *int64   `json:"chapter_id,omitempty"`
	Name        string   `json:"name"`
	Description string   `json:"description,omitempty"`
	Language    Language `json:"language"`
}

// Instruction is the optional teaching text shown before a module is
// practiced. One per module.
type Instruction struct {
	ModuleID int64  `json:"module_id"`
	Text     string `json:"text"`
}

// DefaultModules lists the built-in topics served for a language with
// no stored modules yet.
var DefaultModules = map[Language][]string{
	LanguageFrench:  {"Simple present tense", "Imperfect", "Prepositions"},
	LanguageSpanish: {"Ser vs Estar", "Nouns", "Preterite"},
}

// Normalize trims user-supplied names.
func (c *Course) Normalize() {
	c.Name = strings.TrimSpace(c.Name)
	c.Language = NormalizeLanguage(c.Language)
}

// Normalize trims user-supplied names.
func (m *Module) Normalize() {
	m.Name = strings.TrimSpace(m.Name)
	m.Description = strings.TrimSpace(m.Description)
	m.Language = NormalizeLanguage(m.Language)
}
