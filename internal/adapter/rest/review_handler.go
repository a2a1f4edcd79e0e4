package rest

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/eslsoft/lingodrill/internal/entity"
	"github.com/eslsoft/lingodrill/internal/usecase"
)

// ReviewHandler serves the personalized error-review loop.
type ReviewHandler struct {
	review usecase.ReviewUsecase
}

// NewReviewHandler creates a ReviewHandler.
func NewReviewHandler(review usecase.ReviewUsecase) *ReviewHandler {
	return &ReviewHandler{review: review}
}

// Register mounts the handler's routes on the API group.
func (h *ReviewHandler) Register(g *echo.Group) {
	g.GET("/review/errors", h.listErrors)
	g.POST("/review/errors/:id/sentence", h.errorSentence)
	g.POST("/review/errors/:id/submit", h.submitAttempt)
	g.POST("/review/errors/:id/override", h.override)
}

func (h *ReviewHandler) listErrors(c echo.Context) error {
	userID := queryInt64(c, "user_id")
	if userID <= 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "user_id is required")
	}

	records, err := h.review.SelectReviewErrors(c.Request().Context(),
		userID, queryInt64(c, "module_id"), queryInt(c, "limit"))
	if err != nil {
		return httpError(err)
	}
	dtos := make([]errorRecordDTO, 0, len(records))
	for _, record := range records {
		dtos = append(dtos, toErrorRecordDTO(record))
	}
	return c.JSON(http.StatusOK, dtos)
}

func (h *ReviewHandler) errorSentence(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	var req struct {
		UserID   int64  `json:"user_id"`
		Language string `json:"language"`
		Level    string `json:"level"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	sentence, err := h.review.ErrorSentence(c.Request().Context(), req.UserID, id,
		entity.ParseLanguage(req.Language), entity.ParseLevel(req.Level))
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, map[string]string{"sentence": sentence})
}

func (h *ReviewHandler) submitAttempt(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	var req struct {
		UserID      int64  `json:"user_id"`
		English     string `json:"english"`
		Translation string `json:"translation"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	result, err := h.review.SubmitErrorAttempt(c.Request().Context(), &usecase.ErrorAttempt{
		UserID:      req.UserID,
		ErrorID:     id,
		English:     req.English,
		Translation: req.Translation,
	})
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, map[string]any{
		"record":   toErrorRecordDTO(*result.Record),
		"response": result.Response,
		"correct":  result.Correct,
		"snapshot": result.Snapshot,
	})
}

func (h *ReviewHandler) override(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	var req struct {
		UserID       int64           `json:"user_id"`
		NewCorrect   bool            `json:"new_correct"`
		PriorCorrect bool            `json:"prior_correct"`
		Snapshot     entity.Snapshot `json:"snapshot"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	record, err := h.review.OverrideError(c.Request().Context(), req.UserID, id, &usecase.Override{
		NewCorrect:   req.NewCorrect,
		PriorCorrect: req.PriorCorrect,
		Snapshot:     req.Snapshot,
	})
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, toErrorRecordDTO(*record))
}
