package users

import "github.com/gin-gonic/gin"

// RegisterRoutes registers all routes related to users
func RegisterRoutes(r *gin.RouterGroup, h *Handler) {
	users := r.Group("/users")
	{
		users.POST("", h.CreateUser)
		users.GET("/:id", h.GetUser)
	}
}
