package rest

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/eslsoft/lingodrill/internal/usecase"
)

// UserHandler serves learner account endpoints.
type UserHandler struct {
	users usecase.UserUsecase
}

// NewUserHandler creates a UserHandler.
func NewUserHandler(users usecase.UserUsecase) *UserHandler {
	return &UserHandler{users: users}
}

// Register mounts the handler's routes on the API group.
func (h *UserHandler) Register(g *echo.Group) {
	g.POST("/users", h.createUser)
	g.GET("/users", h.listUsers)
	g.GET("/users/:id", h.getUser)
}

func (h *UserHandler) createUser(c echo.Context) error {
	var req struct {
		Name string `json:"name"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	user, err := h.users.CreateUser(c.Request().Context(), req.Name)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusCreated, toUserDTO(*user))
}

func (h *UserHandler) listUsers(c echo.Context) error {
	users, err := h.users.ListUsers(c.Request().Context())
	if err != nil {
		return httpError(err)
	}
	dtos := make([]userDTO, 0, len(users))
	for _, u := range users {
		dtos = append(dtos, toUserDTO(u))
	}
	return c.JSON(http.StatusOK, dtos)
}

func (h *UserHandler) getUser(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	user, err := h.users.GetUser(c.Request().Context(), id)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, toUserDTO(*user))
}
