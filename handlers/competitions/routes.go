package competitions

import (
	"arena-api/middleware"

	"github.com/gin-gonic/gin"
)

// RegisterRoutes registers all routes related to competitions
// r: the RouterGroup to which the routes are added
func RegisterRoutes(r *gin.RouterGroup, h *Handler) {
	competitions := r.Group("/competitions")
	{
		competitions.GET("", h.GetAllCompetitions)
		competitions.GET("/:id", h.GetCompetition)
		competitions.POST("", middleware.SetUserIdMiddleware(), h.CreateCompetition)
		competitions.PUT("/:id", h.UpdateCompetition)
		competitions.DELETE("/:id", h.DeleteCompetition)

		competitions.GET("/:id/submissions", h.GetCompetitionSubmissions)
		competitions.GET("/:id/export", h.ExportCompetitionRanking)
		competitions.GET("/:id/ws", h.CompetitionWebSocket)
	}
}
