package rest

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/eslsoft/lingodrill/internal/entity"
	"github.com/eslsoft/lingodrill/internal/repository"
	"github.com/eslsoft/lingodrill/internal/usecase"
)

// ResultHandler serves session summaries and the CSV history export.
type ResultHandler struct {
	results usecase.ResultUsecase
}

// NewResultHandler creates a ResultHandler.
func NewResultHandler(results usecase.ResultUsecase) *ResultHandler {
	return &ResultHandler{results: results}
}

// Register mounts the handler's routes on the API group.
func (h *ResultHandler) Register(g *echo.Group) {
	g.POST("/results", h.recordResult)
	g.GET("/results", h.listResults)
	g.GET("/sessions/:userID/export", h.exportSessions)
}

func (h *ResultHandler) recordResult(c echo.Context) error {
	var req struct {
		UserID            int64 `json:"user_id"`
		ModuleID          int64 `json:"module_id"`
		QuestionsAnswered int   `json:"questions_answered"`
		QuestionsCorrect  int   `json:"questions_correct"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	result, err := h.results.RecordResult(c.Request().Context(), &entity.ModuleResult{
		UserID:            req.UserID,
		ModuleID:          req.ModuleID,
		QuestionsAnswered: req.QuestionsAnswered,
		QuestionsCorrect:  req.QuestionsCorrect,
	})
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusCreated, toModuleResultDTO(*result))
}

func (h *ResultHandler) listResults(c echo.Context) error {
	results, total, err := h.results.ListResults(c.Request().Context(), &repository.ListModuleResultQuery{
		Pagination: repository.Pagination{
			PageNo:   int32(queryInt(c, "page_no")),
			PageSize: int32(queryInt(c, "page_size")),
		},
		UserID:   queryInt64(c, "user_id"),
		ModuleID: queryInt64(c, "module_id"),
	})
	if err != nil {
		return httpError(err)
	}
	dtos := make([]moduleResultDTO, 0, len(results))
	for _, result := range results {
		dtos = append(dtos, toModuleResultDTO(result))
	}
	return c.JSON(http.StatusOK, map[string]any{"results": dtos, "total": total})
}

func (h *ResultHandler) exportSessions(c echo.Context) error {
	userID, err := pathID(c, "userID")
	if err != nil {
		return err
	}

	c.Response().Header().Set(echo.HeaderContentType, "text/csv")
	c.Response().Header().Set(echo.HeaderContentDisposition,
		fmt.Sprintf(`attachment; filename="sessions_%d.csv"`, userID))
	c.Response().WriteHeader(http.StatusOK)

	if err := h.results.ExportSessions(c.Request().Context(), userID, c.Response()); err != nil {
		return httpError(err)
	}
	return nil
}
