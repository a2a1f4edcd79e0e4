package rest

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/eslsoft/lingodrill/internal/entity"
	"github.com/eslsoft/lingodrill/internal/repository"
	"github.com/eslsoft/lingodrill/internal/usecase"
)

// VocabHandler serves the learner vocabulary list and the weakest-word
// practice session.
type VocabHandler struct {
	vocab usecase.VocabUsecase
}

// NewVocabHandler creates a VocabHandler.
func NewVocabHandler(vocab usecase.VocabUsecase) *VocabHandler {
	return &VocabHandler{vocab: vocab}
}

// Register mounts the handler's routes on the API group.
func (h *VocabHandler) Register(g *echo.Group) {
	g.POST("/vocab/words", h.addWords)
	g.GET("/vocab/words", h.listWords)
	g.DELETE("/vocab/words/:id", h.removeWord)
	g.POST("/vocab/session/next", h.nextItem)
	g.POST("/vocab/session/submit", h.submitAttempt)
	g.POST("/vocab/session/override", h.override)
}

func (h *VocabHandler) addWords(c echo.Context) error {
	var req struct {
		UserID   int64    `json:"user_id"`
		Language string   `json:"language"`
		Words    []string `json:"words"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	added, err := h.vocab.AddWords(c.Request().Context(), req.UserID,
		entity.ParseLanguage(req.Language), req.Words)
	if err != nil {
		return httpError(err)
	}
	dtos := make([]vocabWordDTO, 0, len(added))
	for _, word := range added {
		dtos = append(dtos, toVocabWordDTO(word))
	}
	return c.JSON(http.StatusCreated, dtos)
}

func (h *VocabHandler) listWords(c echo.Context) error {
	userID := queryInt64(c, "user_id")
	if userID <= 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "user_id is required")
	}

	words, total, err := h.vocab.ListWords(c.Request().Context(), &repository.ListVocabWordQuery{
		Pagination: repository.Pagination{
			PageNo:   int32(queryInt(c, "page_no")),
			PageSize: int32(queryInt(c, "page_size")),
		},
		UserID:   userID,
		Language: entity.ParseLanguage(c.QueryParam("language")),
	})
	if err != nil {
		return httpError(err)
	}
	dtos := make([]vocabWordDTO, 0, len(words))
	for _, word := range words {
		dtos = append(dtos, toVocabWordDTO(word))
	}
	return c.JSON(http.StatusOK, map[string]any{"words": dtos, "total": total})
}

func (h *VocabHandler) removeWord(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	if err := h.vocab.RemoveWord(c.Request().Context(), queryInt64(c, "user_id"), id); err != nil {
		return httpError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *VocabHandler) nextItem(c echo.Context) error {
	var req struct {
		UserID   int64  `json:"user_id"`
		Language string `json:"language"`
		Level    string `json:"level"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	prompt, err := h.vocab.NextVocabItem(c.Request().Context(), req.UserID,
		entity.ParseLanguage(req.Language), entity.ParseLevel(req.Level))
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, map[string]any{
		"sentence": prompt.Sentence,
		"word":     prompt.Word,
		"word_id":  prompt.WordID,
	})
}

func (h *VocabHandler) submitAttempt(c echo.Context) error {
	var req struct {
		UserID      int64  `json:"user_id"`
		WordID      int64  `json:"word_id"`
		English     string `json:"english"`
		Translation string `json:"translation"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	result, err := h.vocab.SubmitVocabAttempt(c.Request().Context(), &usecase.VocabAttempt{
		UserID:      req.UserID,
		WordID:      req.WordID,
		English:     req.English,
		Translation: req.Translation,
	})
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, map[string]any{
		"word":     toVocabWordDTO(*result.Word),
		"response": result.Response,
		"correct":  result.Correct,
		"snapshot": result.Snapshot,
	})
}

func (h *VocabHandler) override(c echo.Context) error {
	var req struct {
		UserID       int64           `json:"user_id"`
		WordID       int64           `json:"word_id"`
		NewCorrect   bool            `json:"new_correct"`
		PriorCorrect bool            `json:"prior_correct"`
		Snapshot     entity.Snapshot `json:"snapshot"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	word, err := h.vocab.OverrideVocab(c.Request().Context(), req.UserID, req.WordID, &usecase.Override{
		NewCorrect:   req.NewCorrect,
		PriorCorrect: req.PriorCorrect,
		Snapshot:     req.Snapshot,
	})
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, toVocabWordDTO(*word))
}
