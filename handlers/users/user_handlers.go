package users

import (
	"context"
	"net/http"

	"arena-api/services"
	"arena-api/utils/response"

	"github.com/gin-gonic/gin"
)

// CreateUser creates a user
// @Summary Create a user
// @Description Create a user, judges may open competitions
// @Tags Users
// @Accept json
// @Produce json
// @Param user body CreateUserRequest true "User"
// @Success 201 {object} models.User
// @Failure 400 {object} response.ErrorBody
// @Router /users [post]
func (h *Handler) CreateUser(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), DatabaseTimeout)
	defer cancel()

	var req CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, ErrInvalidRequest)
		return
	}

	user, err := h.users.Create(ctx, services.CreateUserInput{
		Username: req.Username,
		Email:    req.Email,
		Judge:    req.Judge,
	})
	if err != nil {
		response.Failure(c, err)
		return
	}
	response.Success(c, http.StatusCreated, user)
}

// GetUser returns a user by id
// @Summary Get a user
// @Tags Users
// @Produce json
// @Param id path int true "User ID"
// @Success 200 {object} models.User
// @Failure 404 {object} response.ErrorBody
// @Router /users/{id} [get]
func (h *Handler) GetUser(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), DatabaseTimeout)
	defer cancel()

	id, err := services.ParseID(c.Param("id"))
	if err != nil {
		response.Failure(c, err)
		return
	}

	user, err := h.users.Get(ctx, id)
	if err != nil {
		response.Failure(c, err)
		return
	}
	response.Success(c, http.StatusOK, user)
}
