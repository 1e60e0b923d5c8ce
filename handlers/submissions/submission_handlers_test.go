package submissions

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"arena-api/config"
	"arena-api/database"
	"arena-api/middleware"
	"arena-api/models"
	"arena-api/services"
	"arena-api/testutils"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type testEnv struct {
	router      *gin.Engine
	db          *gorm.DB
	redis       *miniredis.Miniredis
	judge       *models.User
	member      *models.User
	competition *models.Competition
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	store, db := testutils.NewTestStore(t)
	server := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: server.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	service := services.NewSubmissionService(store, services.RatingScale{Min: 1, Max: 10})
	r := gin.New()
	RegisterRoutes(r.Group("/api/v1"), NewHandler(service, database.NewCache(client)))

	judge := testutils.CreateUser(t, db, "judge", true)
	return &testEnv{
		router:      r,
		db:          db,
		redis:       server,
		judge:       judge,
		member:      testutils.CreateUser(t, db, "member", false),
		competition: testutils.CreateCompetition(t, db, judge, "Photo"),
	}
}

func (e *testEnv) do(method, path string, body any, headers ...string) *httptest.ResponseRecorder {
	raw := []byte{}
	if body != nil {
		raw, _ = json.Marshal(body)
	}
	req := httptest.NewRequest(method, path, bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func (e *testEnv) createSubmission(t *testing.T) models.Submission {
	t.Helper()
	w := e.do(http.MethodPost, "/api/v1/submissions", gin.H{
		"content":        "entry",
		"user_id":        e.member.ID,
		"competition_id": e.competition.ID,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var submission models.Submission
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &submission))
	return submission
}

func errorKind(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var body map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body["error"]
}

func TestSubmissionLifecycle(t *testing.T) {
	env := newTestEnv(t)
	submission := env.createSubmission(t)
	path := fmt.Sprintf("/api/v1/submissions/%d", submission.ID)

	w := env.do(http.MethodGet, path, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"rating":0`)

	w = env.do(http.MethodPut, path, gin.H{"description": "final"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"content":"entry"`)
	assert.Contains(t, w.Body.String(), `"description":"final"`)

	for _, value := range []int{4, 2} {
		w = env.do(http.MethodPost, path+"/rating", gin.H{"user_id": env.judge.ID, "rating": value})
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	}
	var result struct {
		Submission models.Submission `json:"submission"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
	assert.InDelta(t, 3.0, result.Submission.Rating, 1e-9)

	w = env.do(http.MethodDelete, path, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"ratings_deleted":2`)
	assert.Zero(t, testutils.Count(t, env.db, &models.Rating{}))

	w = env.do(http.MethodGet, path, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	w = env.do(http.MethodDelete, path, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCreateSubmissionReferenceErrors(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(http.MethodPost, "/api/v1/submissions", gin.H{"content": "x", "user_id": env.member.ID, "competition_id": 999})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Equal(t, string(services.KindReference), errorKind(t, w))

	w = env.do(http.MethodPost, "/api/v1/submissions", gin.H{"content": "x", "competition_id": env.competition.ID})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = env.do(http.MethodPost, "/api/v1/submissions", "not an object")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRateSubmissionErrors(t *testing.T) {
	env := newTestEnv(t)
	submission := env.createSubmission(t)

	testCases := []struct {
		name   string
		path   string
		body   gin.H
		status int
	}{
		{"out of range", fmt.Sprintf("/api/v1/submissions/%d/rating", submission.ID), gin.H{"user_id": env.judge.ID, "rating": 42}, http.StatusBadRequest},
		{"unknown submission", "/api/v1/submissions/999/rating", gin.H{"user_id": env.judge.ID, "rating": 5}, http.StatusUnprocessableEntity},
		{"unknown rater", fmt.Sprintf("/api/v1/submissions/%d/rating", submission.ID), gin.H{"user_id": 999, "rating": 5}, http.StatusUnprocessableEntity},
		{"bad id", "/api/v1/submissions/zero/rating", gin.H{"user_id": env.judge.ID, "rating": 5}, http.StatusBadRequest},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			w := env.do(http.MethodPost, tc.path, tc.body)
			assert.Equal(t, tc.status, w.Code, w.Body.String())
		})
	}
	assert.Zero(t, testutils.Count(t, env.db, &models.Rating{}))
}

func TestRatingInvalidatesCompetitionCache(t *testing.T) {
	env := newTestEnv(t)
	submission := env.createSubmission(t)

	prefix := database.SubmissionsCachePrefix(env.competition.ID)
	require.NoError(t, env.redis.Set(prefix+"votes:0:0", "[]"))
	require.NoError(t, env.redis.Set(database.SubmissionsCachePrefix(999)+"votes:0:0", "[]"))

	w := env.do(http.MethodPost, fmt.Sprintf("/api/v1/submissions/%d/rating", submission.ID), gin.H{"user_id": env.judge.ID, "rating": 7})
	require.Equal(t, http.StatusCreated, w.Code)

	assert.False(t, env.redis.Exists(prefix+"votes:0:0"))
	assert.True(t, env.redis.Exists(database.SubmissionsCachePrefix(999)+"votes:0:0"))
}

func TestBearerTokenOverridesBodyUser(t *testing.T) {
	previous := config.JWTSecret
	config.JWTSecret = "test-secret"
	t.Cleanup(func() { config.JWTSecret = previous })

	env := newTestEnv(t)
	submission := env.createSubmission(t)
	token, err := middleware.SignToken(env.member.ID, time.Hour)
	require.NoError(t, err)

	w := env.do(http.MethodPost, fmt.Sprintf("/api/v1/submissions/%d/rating", submission.ID),
		gin.H{"user_id": 999, "rating": 5}, "Authorization", "Bearer "+token)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var rating models.Rating
	require.NoError(t, env.db.First(&rating).Error)
	assert.Equal(t, env.member.ID, rating.UserID)
}
