package submissions

import (
	"arena-api/middleware"

	"github.com/gin-gonic/gin"
)

// RegisterRoutes registers all routes related to submissions and their ratings
func RegisterRoutes(r *gin.RouterGroup, h *Handler) {
	submissions := r.Group("/submissions")
	{
		submissions.GET("/:id", h.GetSubmission)
		submissions.POST("", middleware.SetUserIdMiddleware(), h.CreateSubmission)
		submissions.PUT("/:id", h.UpdateSubmission)
		submissions.DELETE("/:id", h.DeleteSubmission)
		submissions.POST("/:id/rating", middleware.SetUserIdMiddleware(), h.RateSubmission)
	}
}
