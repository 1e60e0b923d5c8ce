package submissions

import (
	"context"
	"net/http"

	"arena-api/database"
	"arena-api/middleware"
	"arena-api/services"
	"arena-api/utils/response"

	"github.com/gin-gonic/gin"
)

// actingUser returns the token subject when a valid bearer token was sent, bodyUserID otherwise
func actingUser(c *gin.Context, bodyUserID uint) uint {
	if userID, ok := middleware.UserIDFromContext(c); ok {
		return userID
	}
	return bodyUserID
}

// [GET] GetSubmission
// @Summary Get a submission
// @Tags Submissions
// @Produce json
// @Param id path int true "Submission ID"
// @Success 200 {object} models.Submission
// @Failure 400 {object} response.ErrorBody
// @Failure 404 {object} response.ErrorBody
// @Router /submissions/{id} [get]
func (h *Handler) GetSubmission(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), DatabaseTimeout)
	defer cancel()

	id, err := services.ParseID(c.Param("id"))
	if err != nil {
		response.Failure(c, err)
		return
	}

	submission, err := h.submissions.Get(ctx, id)
	if err != nil {
		response.Failure(c, err)
		return
	}
	response.Success(c, http.StatusOK, submission)
}

// [POST] CreateSubmission
// @Summary Create a submission
// @Description Submit an entry to a competition. The user and the competition must exist
// @Tags Submissions
// @Accept json
// @Produce json
// @Param submission body CreateSubmissionRequest true "Submission"
// @Success 201 {object} models.Submission
// @Failure 400 {object} response.ErrorBody
// @Failure 422 {object} response.ErrorBody
// @Router /submissions [post]
// @Security Bearer
func (h *Handler) CreateSubmission(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), DatabaseTimeout)
	defer cancel()

	var req CreateSubmissionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, ErrInvalidRequest)
		return
	}

	submission, err := h.submissions.Create(ctx, services.CreateSubmissionInput{
		Content:       req.Content,
		Description:   req.Description,
		UserID:        actingUser(c, req.UserID),
		CompetitionID: req.CompetitionID,
	})
	if err != nil {
		response.Failure(c, err)
		return
	}

	h.cache.Invalidate(ctx, database.SubmissionsCachePrefix(submission.CompetitionID))
	response.Success(c, http.StatusCreated, submission)
}

// [PUT] UpdateSubmission
// @Summary Update a submission
// @Description Change the content or the description of a submission. Omitted fields are kept
// @Tags Submissions
// @Accept json
// @Produce json
// @Param id path int true "Submission ID"
// @Param submission body UpdateSubmissionRequest true "Submission"
// @Success 200 {object} models.Submission
// @Failure 400 {object} response.ErrorBody
// @Failure 404 {object} response.ErrorBody
// @Router /submissions/{id} [put]
func (h *Handler) UpdateSubmission(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), DatabaseTimeout)
	defer cancel()

	id, err := services.ParseID(c.Param("id"))
	if err != nil {
		response.Failure(c, err)
		return
	}

	var req UpdateSubmissionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, ErrInvalidRequest)
		return
	}

	submission, err := h.submissions.Update(ctx, id, services.UpdateSubmissionInput{
		Content:     req.Content,
		Description: req.Description,
	})
	if err != nil {
		response.Failure(c, err)
		return
	}

	h.cache.Invalidate(ctx, database.SubmissionsCachePrefix(submission.CompetitionID))
	response.Success(c, http.StatusOK, submission)
}

// [POST] RateSubmission
// @Summary Rate a submission
// @Description Record a rating and recompute the submission rating as the mean of all its ratings
// @Tags Submissions
// @Accept json
// @Produce json
// @Param id path int true "Submission ID"
// @Param rating body RatingRequest true "Rating"
// @Success 201 {object} services.RatingResult
// @Failure 400 {object} response.ErrorBody
// @Failure 422 {object} response.ErrorBody
// @Failure 500 {object} response.ErrorBody
// @Router /submissions/{id}/rating [post]
// @Security Bearer
func (h *Handler) RateSubmission(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), DatabaseTimeout)
	defer cancel()

	// Step 1: Parse the submission id and the rating
	id, err := services.ParseID(c.Param("id"))
	if err != nil {
		response.Failure(c, err)
		return
	}

	var req RatingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, ErrInvalidRequest)
		return
	}

	// Step 2: Commit the rating with the new aggregate
	result, err := h.submissions.SubmitRating(ctx, id, services.RatingInput{
		UserID:   actingUser(c, req.UserID),
		Feedback: req.Feedback,
		Rating:   req.Rating,
	})
	if err != nil {
		response.Failure(c, err)
		return
	}

	// Step 3: Drop the cached rankings of the competition
	h.cache.Invalidate(ctx, database.SubmissionsCachePrefix(result.Submission.CompetitionID))
	response.Success(c, http.StatusCreated, result)
}

// [DELETE] DeleteSubmission
// @Summary Delete a submission
// @Description Delete a submission and all its ratings in one transaction
// @Tags Submissions
// @Produce json
// @Param id path int true "Submission ID"
// @Success 200 {object} services.SubmissionDeletion
// @Failure 400 {object} response.ErrorBody
// @Failure 404 {object} response.ErrorBody
// @Failure 500 {object} response.ErrorBody
// @Router /submissions/{id} [delete]
func (h *Handler) DeleteSubmission(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), DatabaseTimeout)
	defer cancel()

	id, err := services.ParseID(c.Param("id"))
	if err != nil {
		response.Failure(c, err)
		return
	}

	deletion, err := h.submissions.Delete(ctx, id)
	if err != nil {
		response.Failure(c, err)
		return
	}

	h.cache.Invalidate(ctx, database.SubmissionsCachePrefix(deletion.Submission.CompetitionID))
	response.Success(c, http.StatusOK, deletion)
}
