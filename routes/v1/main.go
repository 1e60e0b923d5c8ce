package v1

import (
	"arena-api/config"
	"arena-api/database"
	"arena-api/handlers/competitions"
	"arena-api/handlers/submissions"
	"arena-api/handlers/users"
	"arena-api/middleware"
	"arena-api/realtime"
	"arena-api/services"

	"github.com/gin-gonic/gin"
)

// Dependencies are the services and adapters shared by the v1 handlers
type Dependencies struct {
	Competitions *services.CompetitionService
	Submissions  *services.SubmissionService
	Users        *services.UserService
	Cache        *database.Cache
	Hub          *realtime.Hub
}

// Register the endpoints for the v1 API
func Register(r *gin.Engine, deps Dependencies) {
    v1 := r.Group("/api/v1")

    // Add metrics middleware to all routes
    v1.Use(middleware.MetricsMiddleware())
    v1.Use(middleware.RequestIDMiddleware())

    rateLimiter := middleware.NewRateLimiter(config.DefaultRateLimitConfig)
    v1.Use(middleware.RateLimiterMiddleware(rateLimiter))

    RegisterPingRoutes(v1)
    users.RegisterRoutes(v1, users.NewHandler(deps.Users))
    competitions.RegisterRoutes(v1, competitions.NewHandler(deps.Competitions, deps.Submissions, deps.Cache, deps.Hub))
    submissions.RegisterRoutes(v1, submissions.NewHandler(deps.Submissions, deps.Cache))

    // Register metrics endpoint
    RegisterMetricsRoutes(v1)
}
