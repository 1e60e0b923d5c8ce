package competitions

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"arena-api/database"
	"arena-api/models"
	"arena-api/realtime"
	"arena-api/services"
	"arena-api/testutils"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"
)

type testEnv struct {
	router *gin.Engine
	db     *gorm.DB
	redis  *miniredis.Miniredis
	hub    *realtime.Hub
	judge  *models.User
	member *models.User
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	store, db := testutils.NewTestStore(t)
	server := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: server.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	hub := realtime.NewHub()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go hub.Run(ctx)

	competitionService := services.NewCompetitionService(store)
	submissionService := services.NewSubmissionService(store, services.RatingScale{Min: 1, Max: 10}, services.WithRatingListener(hub))

	r := gin.New()
	RegisterRoutes(r.Group("/api/v1"), NewHandler(competitionService, submissionService, database.NewCache(client), hub))

	return &testEnv{
		router: r,
		db:     db,
		redis:  server,
		hub:    hub,
		judge:  testutils.CreateUser(t, db, "judge", true),
		member: testutils.CreateUser(t, db, "member", false),
	}
}

func (e *testEnv) do(method, path string, body any) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body != nil {
		raw, _ := json.Marshal(body)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) map[string]string {
	t.Helper()
	var body map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func TestCreateCompetitionAsJudge(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(http.MethodPost, "/api/v1/competitions", gin.H{
		"title":      "Spring",
		"type":       "photo",
		"user_id":    env.judge.ID,
		"start_date": []int{2024, 1, 1},
		"end_date":   []int{2024, 2, 1},
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var created models.Competition
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	assert.Equal(t, env.judge.ID, created.CreatorID)

	w = env.do(http.MethodGet, fmt.Sprintf("/api/v1/competitions/%d", created.ID), nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"title":"Spring"`)

	w = env.do(http.MethodGet, "/api/v1/competitions", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var all []models.Competition
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &all))
	assert.Len(t, all, 1)
}

func TestCreateCompetitionErrors(t *testing.T) {
	env := newTestEnv(t)

	testCases := []struct {
		name   string
		body   gin.H
		status int
		kind   services.Kind
	}{
		{"not a judge", gin.H{"title": "x", "user_id": env.member.ID, "start_date": []int{2024, 1, 1}, "end_date": []int{2024, 2, 1}}, http.StatusForbidden, services.KindAuthorization},
		{"unknown user", gin.H{"title": "x", "user_id": 999, "start_date": []int{2024, 1, 1}, "end_date": []int{2024, 2, 1}}, http.StatusForbidden, services.KindAuthorization},
		{"bad date", gin.H{"title": "x", "user_id": env.judge.ID, "start_date": []int{2024, 2, 30}, "end_date": []int{2024, 3, 1}}, http.StatusBadRequest, services.KindValidation},
		{"missing title", gin.H{"user_id": env.judge.ID, "start_date": []int{2024, 1, 1}, "end_date": []int{2024, 2, 1}}, http.StatusBadRequest, services.KindValidation},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			w := env.do(http.MethodPost, "/api/v1/competitions", tc.body)
			assert.Equal(t, tc.status, w.Code)
			assert.Equal(t, string(tc.kind), decodeError(t, w)["error"])
		})
	}
	assert.Zero(t, testutils.Count(t, env.db, &models.Competition{}))
}

func TestGetCompetitionErrors(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(http.MethodGet, "/api/v1/competitions/abc", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = env.do(http.MethodGet, "/api/v1/competitions/999", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "not_found", decodeError(t, w)["error"])
}

func TestUpdateCompetition(t *testing.T) {
	env := newTestEnv(t)
	competition := testutils.CreateCompetition(t, env.db, env.judge, "Photo")

	w := env.do(http.MethodPut, fmt.Sprintf("/api/v1/competitions/%d", competition.ID), gin.H{
		"title":      "Renamed",
		"start_date": []int{2024, 5, 1},
		"end_date":   []int{2024, 5, 31},
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Contains(t, w.Body.String(), `"title":"Renamed"`)

	w = env.do(http.MethodPut, fmt.Sprintf("/api/v1/competitions/%d", competition.ID), gin.H{"title": "no dates"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestListSubmissionsPaginationAndCache(t *testing.T) {
	env := newTestEnv(t)
	competition := testutils.CreateCompetition(t, env.db, env.judge, "Photo")
	base := time.Date(2024, time.January, 2, 0, 0, 0, 0, time.UTC)
	low := testutils.CreateSubmission(t, env.db, env.member, competition, 2, base.Add(2*time.Hour))
	high := testutils.CreateSubmission(t, env.db, env.member, competition, 9, base.Add(1*time.Hour))

	list := func(w *httptest.ResponseRecorder) []uint {
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		var submissions []models.Submission
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &submissions))
		ids := make([]uint, len(submissions))
		for i, s := range submissions {
			ids[i] = s.ID
		}
		return ids
	}
	path := fmt.Sprintf("/api/v1/competitions/%d/submissions", competition.ID)

	assert.Equal(t, []uint{high.ID, low.ID}, list(env.do(http.MethodGet, path+"?order=votes", nil)))
	assert.Equal(t, []uint{low.ID, high.ID}, list(env.do(http.MethodGet, path, nil)))
	assert.Equal(t, []uint{low.ID}, list(env.do(http.MethodGet, path+"?order=votes&skip=1&take=1", nil)))
	assert.Equal(t, []uint{high.ID}, list(env.do(http.MethodGet, path, gin.H{"order": "votes", "take": 1})))

	w := env.do(http.MethodGet, path+"?skip=-1", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	w = env.do(http.MethodGet, path+"?take=many", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	prefix := database.SubmissionsCachePrefix(competition.ID)
	cached := 0
	for _, key := range env.redis.Keys() {
		if strings.HasPrefix(key, prefix) {
			cached++
		}
	}
	assert.Equal(t, 4, cached)

	// A row written behind the cache stays invisible until a write invalidates the listing
	testutils.CreateSubmission(t, env.db, env.member, competition, 10, base)
	assert.Len(t, list(env.do(http.MethodGet, path+"?order=votes", nil)), 2)

	w = env.do(http.MethodDelete, fmt.Sprintf("/api/v1/competitions/%d", competition.ID), nil)
	require.Equal(t, http.StatusOK, w.Code)
	for _, key := range env.redis.Keys() {
		assert.False(t, strings.HasPrefix(key, prefix), key)
	}
}

func TestDeleteCompetitionCascade(t *testing.T) {
	env := newTestEnv(t)
	competition := testutils.CreateCompetition(t, env.db, env.judge, "Photo")
	submission := testutils.CreateSubmission(t, env.db, env.member, competition, 0, time.Now())
	testutils.CreateRating(t, env.db, env.judge, submission, 4)
	testutils.CreateRating(t, env.db, env.judge, submission, 2)

	w := env.do(http.MethodDelete, fmt.Sprintf("/api/v1/competitions/%d", competition.ID), nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var deletion struct {
		SubmissionsDeleted int64 `json:"submissions_deleted"`
		RatingsDeleted     int64 `json:"ratings_deleted"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &deletion))
	assert.Equal(t, int64(1), deletion.SubmissionsDeleted)
	assert.Equal(t, int64(2), deletion.RatingsDeleted)
	assert.Zero(t, testutils.Count(t, env.db, &models.Rating{}))

	w = env.do(http.MethodDelete, fmt.Sprintf("/api/v1/competitions/%d", competition.ID), nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestExportCompetitionRanking(t *testing.T) {
	env := newTestEnv(t)
	competition := testutils.CreateCompetition(t, env.db, env.judge, "Photo")
	testutils.CreateSubmission(t, env.db, env.member, competition, 6, time.Now())

	w := env.do(http.MethodGet, fmt.Sprintf("/api/v1/competitions/%d/export", competition.ID), nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Disposition"), "ranking.xlsx")

	f, err := excelize.OpenReader(bytes.NewReader(w.Body.Bytes()))
	require.NoError(t, err)
	defer f.Close()
	rows, err := f.GetRows(services.RankingSheet)
	require.NoError(t, err)
	assert.Len(t, rows, 2)

	w = env.do(http.MethodGet, "/api/v1/competitions/999/export", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCompetitionWebSocket(t *testing.T) {
	env := newTestEnv(t)
	competition := testutils.CreateCompetition(t, env.db, env.judge, "Photo")
	server := httptest.NewServer(env.router)
	t.Cleanup(server.Close)
	wsURL := "ws" + strings.TrimPrefix(server.URL, "http")

	_, resp, err := websocket.DefaultDialer.Dial(wsURL+"/api/v1/competitions/999/ws", nil)
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	conn, _, err := websocket.DefaultDialer.Dial(fmt.Sprintf("%s/api/v1/competitions/%d/ws", wsURL, competition.ID), nil)
	require.NoError(t, err)
	defer conn.Close()
	require.Eventually(t, func() bool { return env.hub.ClientCount(competition.ID) == 1 }, time.Second, 10*time.Millisecond)

	env.hub.RatingCommitted(services.RatingEvent{CompetitionID: competition.ID, SubmissionID: 5, Value: 8, Aggregate: 8})

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	var update realtime.RatingUpdate
	require.NoError(t, conn.ReadJSON(&update))
	assert.Equal(t, uint(5), update.SubmissionID)
	assert.InDelta(t, 8.0, update.Rating, 1e-9)
}
