package rest

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/eslsoft/lingodrill/internal/entity"
	"github.com/eslsoft/lingodrill/internal/usecase"
)

// CourseHandler serves the course/chapter/module hierarchy and module
// instructions.
type CourseHandler struct {
	courses usecase.CourseUsecase
}

// NewCourseHandler creates a CourseHandler.
func NewCourseHandler(courses usecase.CourseUsecase) *CourseHandler {
	return &CourseHandler{courses: courses}
}

// Register mounts the handler's routes on the API group.
func (h *CourseHandler) Register(g *echo.Group) {
	g.POST("/courses", h.createCourse)
	g.GET("/courses", h.listCourses)
	g.POST("/chapters", h.createChapter)
	g.GET("/courses/:id/chapters", h.listChapters)
	g.POST("/modules", h.createModule)
	g.GET("/modules", h.listModules)
	g.GET("/modules/:id/instruction", h.getInstruction)
	g.PUT("/modules/:id/instruction", h.putInstruction)
}

func (h *CourseHandler) createCourse(c echo.Context) error {
	var req struct {
		Language string `json:"language"`
		Name     string `json:"name"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	course, err := h.courses.CreateCourse(c.Request().Context(), &entity.Course{
		Language: entity.ParseLanguage(req.Language),
		Name:     req.Name,
	})
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusCreated, toCourseDTO(*course))
}

func (h *CourseHandler) listCourses(c echo.Context) error {
	courses, err := h.courses.ListCourses(c.Request().Context(), entity.ParseLanguage(c.QueryParam("language")))
	if err != nil {
		return httpError(err)
	}
	dtos := make([]courseDTO, 0, len(courses))
	for _, course := range courses {
		dtos = append(dtos, toCourseDTO(course))
	}
	return c.JSON(http.StatusOK, dtos)
}

func (h *CourseHandler) createChapter(c echo.Context) error {
	var req struct {
		CourseID int64  `json:"course_id"`
		Name     string `json:"name"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	chapter, err := h.courses.CreateChapter(c.Request().Context(), &entity.Chapter{
		CourseID: req.CourseID,
		Name:     req.Name,
	})
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusCreated, toChapterDTO(*chapter))
}

func (h *CourseHandler) listChapters(c echo.Context) error {
	courseID, err := pathID(c, "id")
	if err != nil {
		return err
	}
	chapters, err := h.courses.ListChapters(c.Request().Context(), courseID)
	if err != nil {
		return httpError(err)
	}
	dtos := make([]chapterDTO, 0, len(chapters))
	for _, chapter := range chapters {
		dtos = append(dtos, toChapterDTO(chapter))
	}
	return c.JSON(http.StatusOK, dtos)
}

func (h *CourseHandler) createModule(c echo.Context) error {
	var req struct {
		ChapterID   *int64 `json:"chapter_id"`
		Name        string `json:"name"`
		Description string `json:"description"`
		Language    string `json:"language"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	module, err := h.courses.CreateModule(c.Request().Context(), &entity.Module{
		ChapterID:   req.ChapterID,
		Name:        req.Name,
		Description: req.Description,
		Language:    entity.ParseLanguage(req.Language),
	})
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusCreated, toModuleDTO(*module))
}

func (h *CourseHandler) listModules(c echo.Context) error {
	modules, err := h.courses.ListModules(c.Request().Context(),
		entity.ParseLanguage(c.QueryParam("language")), queryInt64(c, "chapter_id"))
	if err != nil {
		return httpError(err)
	}
	dtos := make([]moduleDTO, 0, len(modules))
	for _, module := range modules {
		dtos = append(dtos, toModuleDTO(module))
	}
	return c.JSON(http.StatusOK, dtos)
}

func (h *CourseHandler) getInstruction(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	instruction, err := h.courses.GetInstruction(c.Request().Context(), id)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, map[string]any{
		"module_id": instruction.ModuleID,
		"text":      instruction.Text,
	})
}

func (h *CourseHandler) putInstruction(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	var req struct {
		Text string `json:"text"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := h.courses.UpsertInstruction(c.Request().Context(), id, req.Text); err != nil {
		return httpError(err)
	}
	return c.NoContent(http.StatusNoContent)
}
