// Package rest exposes the practice engine over a JSON HTTP API.
package rest

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/eslsoft/lingodrill/internal/entity"
)

// httpError translates a domain error into the transport status code.
func httpError(err error) error {
	switch {
	case errors.Is(err, entity.ErrUserNotFound),
		errors.Is(err, entity.ErrCourseNotFound),
		errors.Is(err, entity.ErrChapterNotFound),
		errors.Is(err, entity.ErrModuleNotFound),
		errors.Is(err, entity.ErrInstructionNotFound),
		errors.Is(err, entity.ErrSentenceNotFound),
		errors.Is(err, entity.ErrRecordNotFound):
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	case errors.Is(err, entity.ErrUserAlreadyExists):
		return echo.NewHTTPError(http.StatusConflict, err.Error())
	case errors.Is(err, entity.ErrInvalidUserName),
		errors.Is(err, entity.ErrInvalidSubmission),
		errors.Is(err, entity.ErrInvalidOverride),
		errors.Is(err, entity.ErrInvalidVocabWord),
		errors.Is(err, entity.ErrEmptyVocabList):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	case errors.Is(err, entity.ErrGenerationUnavailable),
		errors.Is(err, entity.ErrJudgmentUnavailable):
		return echo.NewHTTPError(http.StatusBadGateway, err.Error())
	default:
		return err
	}
}

func pathID(c echo.Context, name string) (int64, error) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "invalid "+name)
	}
	return id, nil
}

func queryInt64(c echo.Context, name string) int64 {
	v, _ := strconv.ParseInt(c.QueryParam(name), 10, 64)
	return v
}

func queryInt(c echo.Context, name string) int {
	v, _ := strconv.Atoi(c.QueryParam(name))
	return v
}
