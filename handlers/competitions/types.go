package competitions

import (
	"time"

	"arena-api/database"
	"arena-api/realtime"
	"arena-api/services"
)

const (
	DatabaseTimeout = 5 * time.Second

	SubmissionsCacheDuration = 2 * time.Minute
)

// Error messages
const (
	ErrInvalidRequest    = "Invalid request data"
	ErrInvalidPagination = "Invalid pagination settings"
	ErrFailedExport      = "Failed to export competition ranking"
)

// Handler serves the competition routes
type Handler struct {
	competitions *services.CompetitionService
	submissions  *services.SubmissionService
	cache        *database.Cache
	hub          *realtime.Hub
}

func NewHandler(competitions *services.CompetitionService, submissions *services.SubmissionService, cache *database.Cache, hub *realtime.Hub) *Handler {
	return &Handler{
		competitions: competitions,
		submissions:  submissions,
		cache:        cache,
		hub:          hub,
	}
}

// CreateCompetitionRequest is the payload to open a competition. Dates are [year, month, day].
// Fields are validated by the service once the creator is authorised
type CreateCompetitionRequest struct {
	Title        string `json:"title"`
	Type         string `json:"type"`
	Description  string `json:"description"`
	Rules        string `json:"rules"`
	Instructions string `json:"instructions"`
	UserID       uint   `json:"user_id"`
	StartDate    []int  `json:"start_date"`
	EndDate      []int  `json:"end_date"`
}

// UpdateCompetitionRequest replaces the title, description and dates of a competition
type UpdateCompetitionRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	StartDate   []int  `json:"start_date" binding:"required,len=3"`
	EndDate     []int  `json:"end_date" binding:"required,len=3"`
}

// ListSubmissionsRequest selects a page of submissions, from the query string or a JSON body
type ListSubmissionsRequest struct {
	Skip  int    `form:"skip" json:"skip"`
	Take  int    `form:"take" json:"take"`
	Order string `form:"order" json:"order"`
}
