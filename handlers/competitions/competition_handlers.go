package competitions

import (
	"context"
	"fmt"
	"net/http"

	"arena-api/database"
	"arena-api/middleware"
	"arena-api/models"
	"arena-api/services"
	"arena-api/utils/response"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
)

// [GET] GetAllCompetitions
// @Summary Get all competitions
// @Description Get every competition ordered by id
// @Tags Competitions
// @Produce json
// @Success 200 {array} models.Competition
// @Failure 500 {object} response.ErrorBody
// @Router /competitions [get]
func (h *Handler) GetAllCompetitions(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), DatabaseTimeout)
	defer cancel()

	competitions, err := h.competitions.List(ctx)
	if err != nil {
		response.Failure(c, err)
		return
	}
	response.Success(c, http.StatusOK, competitions)
}

// [GET] GetCompetition
// @Summary Get a competition
// @Description Get a competition by id
// @Tags Competitions
// @Produce json
// @Param id path int true "Competition ID"
// @Success 200 {object} models.Competition
// @Failure 400 {object} response.ErrorBody
// @Failure 404 {object} response.ErrorBody
// @Router /competitions/{id} [get]
func (h *Handler) GetCompetition(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), DatabaseTimeout)
	defer cancel()

	id, err := services.ParseID(c.Param("id"))
	if err != nil {
		response.Failure(c, err)
		return
	}

	competition, err := h.competitions.Get(ctx, id)
	if err != nil {
		response.Failure(c, err)
		return
	}
	response.Success(c, http.StatusOK, competition)
}

// [POST] CreateCompetition
// @Summary Create a competition
// @Description Create a competition. Only judges may do so. A valid bearer token overrides user_id
// @Tags Competitions
// @Accept json
// @Produce json
// @Param competition body CreateCompetitionRequest true "Competition"
// @Success 201 {object} models.Competition
// @Failure 400 {object} response.ErrorBody
// @Failure 403 {object} response.ErrorBody
// @Failure 500 {object} response.ErrorBody
// @Router /competitions [post]
// @Security Bearer
func (h *Handler) CreateCompetition(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), DatabaseTimeout)
	defer cancel()

	// Step 1: Parse the request body
	var req CreateCompetitionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, ErrInvalidRequest)
		return
	}

	// Step 2: Resolve the requesting user
	userID := req.UserID
	if tokenUserID, ok := middleware.UserIDFromContext(c); ok {
		userID = tokenUserID
	}

	// Step 3: Create the competition, the service checks the judge capability first
	competition, err := h.competitions.Create(ctx, services.CreateCompetitionInput{
		Title:        req.Title,
		Type:         req.Type,
		Description:  req.Description,
		Rules:        req.Rules,
		Instructions: req.Instructions,
		StartDate:    req.StartDate,
		EndDate:      req.EndDate,
	}, userID)
	if err != nil {
		response.Failure(c, err)
		return
	}

	response.Success(c, http.StatusCreated, competition)
}

// [PUT] UpdateCompetition
// @Summary Update a competition
// @Description Replace the title, description and dates of a competition
// @Tags Competitions
// @Accept json
// @Produce json
// @Param id path int true "Competition ID"
// @Param competition body UpdateCompetitionRequest true "Competition"
// @Success 200 {object} models.Competition
// @Failure 400 {object} response.ErrorBody
// @Failure 404 {object} response.ErrorBody
// @Router /competitions/{id} [put]
func (h *Handler) UpdateCompetition(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), DatabaseTimeout)
	defer cancel()

	id, err := services.ParseID(c.Param("id"))
	if err != nil {
		response.Failure(c, err)
		return
	}

	var req UpdateCompetitionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, ErrInvalidRequest)
		return
	}

	competition, err := h.competitions.Update(ctx, id, services.UpdateCompetitionInput{
		Title:       req.Title,
		Description: req.Description,
		StartDate:   req.StartDate,
		EndDate:     req.EndDate,
	})
	if err != nil {
		response.Failure(c, err)
		return
	}
	response.Success(c, http.StatusOK, competition)
}

// [DELETE] DeleteCompetition
// @Summary Delete a competition
// @Description Delete a competition with all its submissions and their ratings in one transaction
// @Tags Competitions
// @Produce json
// @Param id path int true "Competition ID"
// @Success 200 {object} services.CompetitionDeletion
// @Failure 400 {object} response.ErrorBody
// @Failure 404 {object} response.ErrorBody
// @Failure 500 {object} response.ErrorBody
// @Router /competitions/{id} [delete]
func (h *Handler) DeleteCompetition(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), DatabaseTimeout)
	defer cancel()

	id, err := services.ParseID(c.Param("id"))
	if err != nil {
		response.Failure(c, err)
		return
	}

	deletion, err := h.competitions.Delete(ctx, id)
	if err != nil {
		response.Failure(c, err)
		return
	}

	h.cache.Invalidate(ctx, database.SubmissionsCachePrefix(id))
	response.Success(c, http.StatusOK, deletion)
}

// [GET] GetCompetitionSubmissions
// @Summary Get the submissions of a competition
// @Description Get a page of submissions, best rated first with order=votes and newest first otherwise.
// @Description Pagination is read from the query string, a JSON body with the same fields takes precedence
// @Tags Competitions
// @Produce json
// @Param id path int true "Competition ID"
// @Param skip query int false "Rows to skip"
// @Param take query int false "Rows to return, 0 for all"
// @Param order query string false "votes or recent"
// @Success 200 {array} models.Submission
// @Failure 400 {object} response.ErrorBody
// @Router /competitions/{id}/submissions [get]
func (h *Handler) GetCompetitionSubmissions(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), DatabaseTimeout)
	defer cancel()

	// Step 1: Parse the competition id and the pagination settings
	id, err := services.ParseID(c.Param("id"))
	if err != nil {
		response.Failure(c, err)
		return
	}

	var req ListSubmissionsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, ErrInvalidPagination)
		return
	}
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			response.BadRequest(c, ErrInvalidPagination)
			return
		}
	}

	order := services.OrderRecent
	if services.Order(req.Order) == services.OrderVotes {
		order = services.OrderVotes
	}

	// Step 2: Try to get from cache first
	cacheKey := fmt.Sprintf("%s%s:%d:%d", database.SubmissionsCachePrefix(id), order, req.Skip, req.Take)
	var cached []models.Submission
	if h.cache.GetJSON(ctx, cacheKey, &cached) {
		response.Success(c, http.StatusOK, cached)
		return
	}

	// Step 3: Fetch from the database and cache the page
	submissions, err := h.submissions.List(ctx, id, services.Page{Skip: req.Skip, Take: req.Take}, order)
	if err != nil {
		response.Failure(c, err)
		return
	}
	h.cache.SetJSON(ctx, cacheKey, submissions, SubmissionsCacheDuration)

	response.Success(c, http.StatusOK, submissions)
}

// [GET] ExportCompetitionRanking
// @Summary Export the ranking of a competition
// @Description Download an xlsx workbook of the submissions ranked by rating
// @Tags Competitions
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param id path int true "Competition ID"
// @Success 200 {file} file
// @Failure 404 {object} response.ErrorBody
// @Router /competitions/{id}/export [get]
func (h *Handler) ExportCompetitionRanking(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), DatabaseTimeout)
	defer cancel()

	id, err := services.ParseID(c.Param("id"))
	if err != nil {
		response.Failure(c, err)
		return
	}

	f, err := h.competitions.ExportRanking(ctx, id)
	if err != nil {
		response.Failure(c, err)
		return
	}
	defer f.Close()

	buf, err := f.WriteToBuffer()
	if err != nil {
		log.WithFields(log.Fields{"competition_id": id, "error": err}).Error("Failed to write ranking workbook")
		response.Error(c, http.StatusInternalServerError, services.KindInternal, ErrFailedExport)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=competition_%d_ranking.xlsx", id))
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", buf.Bytes())
}
