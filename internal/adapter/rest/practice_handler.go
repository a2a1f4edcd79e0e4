package rest

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/eslsoft/lingodrill/internal/entity"
	"github.com/eslsoft/lingodrill/internal/usecase"
)

// PracticeHandler serves topic-mode practice: batch preloading, item
// serving and graded submission.
type PracticeHandler struct {
	practice usecase.PracticeUsecase
}

// NewPracticeHandler creates a PracticeHandler.
func NewPracticeHandler(practice usecase.PracticeUsecase) *PracticeHandler {
	return &PracticeHandler{practice: practice}
}

// Register mounts the handler's routes on the API group.
func (h *PracticeHandler) Register(g *echo.Group) {
	g.POST("/practice/preload", h.preload)
	g.POST("/practice/next", h.next)
	g.POST("/practice/submit", h.submit)
}

type practiceKeyRequest struct {
	Language string `json:"language"`
	Topic    string `json:"topic"`
	Level    string `json:"level"`
}

func (h *PracticeHandler) preload(c echo.Context) error {
	var req struct {
		practiceKeyRequest
		// Count is optional; zero means the configured batch size.
		Count int `json:"count"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	count, err := h.practice.PreloadBatch(c.Request().Context(),
		entity.ParseLanguage(req.Language), req.Topic, entity.ParseLevel(req.Level), req.Count)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, map[string]int{"count": count})
}

func (h *PracticeHandler) next(c echo.Context) error {
	var req practiceKeyRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	sentence, err := h.practice.NextPracticeItem(c.Request().Context(),
		entity.ParseLanguage(req.Language), req.Topic, entity.ParseLevel(req.Level))
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, map[string]string{"sentence": sentence})
}

func (h *PracticeHandler) submit(c echo.Context) error {
	var req struct {
		UserID      int64  `json:"user_id"`
		Module      string `json:"module"`
		Language    string `json:"language"`
		Level       string `json:"level"`
		English     string `json:"english"`
		Translation string `json:"translation"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	graded, err := h.practice.SubmitTranslation(c.Request().Context(), &usecase.Submission{
		UserID:      req.UserID,
		Module:      req.Module,
		Language:    entity.ParseLanguage(req.Language),
		Level:       entity.ParseLevel(req.Level),
		English:     req.English,
		Translation: req.Translation,
	})
	if err != nil {
		return httpError(err)
	}

	errorDTOs := make([]errorRecordDTO, 0, len(graded.Errors))
	for _, record := range graded.Errors {
		errorDTOs = append(errorDTOs, toErrorRecordDTO(record))
	}
	return c.JSON(http.StatusOK, map[string]any{
		"sentence": toSentenceDTO(*graded.Sentence),
		"response": graded.Response,
		"clean":    graded.Clean,
		"errors":   errorDTOs,
	})
}
