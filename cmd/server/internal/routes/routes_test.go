package routes_test

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/adzkyyy/adCTF/cmd/server/internal/routes"
	mockroutes "github.com/adzkyyy/adCTF/cmd/server/internal/routes/mock"
	"github.com/adzkyyy/adCTF/cmd/server/internal/scheduler"
	mockscheduler "github.com/adzkyyy/adCTF/cmd/server/internal/scheduler/mock"
	"github.com/adzkyyy/adCTF/cmd/server/internal/scoring"
	"github.com/adzkyyy/adCTF/internal/config"
	"github.com/adzkyyy/adCTF/internal/logger"
	"github.com/adzkyyy/adCTF/internal/types"
)

const (
	operatorUser = "operator"
	operatorPass = "hunter2hunter2"
)

type testRouter struct {
	e      *echo.Echo
	store  *mockroutes.MockConfigStore
	scores *mockroutes.MockScoreSource
	sched  *mockscheduler.MockScheduler
}

func newTestRouter(t *testing.T) *testRouter {
	t.Helper()

	ctrl := gomock.NewController(t)
	store := mockroutes.NewMockConfigStore(ctrl)
	scores := mockroutes.NewMockScoreSource(ctrl)
	sched := mockscheduler.NewMockScheduler(ctrl)

	cfg := &config.Config{
		Operator: &config.OperatorConfig{
			Username: operatorUser,
			Password: operatorPass,
		},
	}

	e, err := routes.BuildEcho(logger.Logger)
	require.NoError(t, err, "failed to build router")

	handler := routes.NewHandler(store, scores, sched, cfg)
	handler.AddRoutes(e)

	return &testRouter{e: e, store: store, scores: scores, sched: sched}
}

func (r *testRouter) request(method, path string, authed bool) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	if authed {
		req.SetBasicAuth(operatorUser, operatorPass)
	}
	rec := httptest.NewRecorder()
	r.e.ServeHTTP(rec, req)
	return rec
}

func TestScoreboard(t *testing.T) {
	t.Run("Valid", func(t *testing.T) {
		r := newTestRouter(t)

		want := []types.UserScore{
			{Username: "alice", TotalPoints: 2.25},
			{Username: "bob", TotalPoints: 1},
		}
		r.scores.EXPECT().Compute(gomock.Any()).Return(want, nil).Times(1)

		rec := r.request(http.MethodGet, "/api/scoreboard/", false)

		require.Equal(t, http.StatusOK, rec.Code, "scoreboard reads are public")

		var got []types.UserScore
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got), "body should decode")
		assert.Equal(t, want, got, "scores should round-trip")
	})

	t.Run("ComputeError", func(t *testing.T) {
		r := newTestRouter(t)

		r.scores.EXPECT().Compute(gomock.Any()).
			Return(nil, errors.New("database gone")).
			Times(1)

		rec := r.request(http.MethodGet, "/api/scoreboard/", false)

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
	})
}

func TestRefreshScoreboard(t *testing.T) {
	t.Run("Valid", func(t *testing.T) {
		r := newTestRouter(t)

		want := []types.UserScore{{Username: "alice"}}
		gomock.InOrder(
			r.scores.EXPECT().Invalidate(gomock.Any()).Return(nil).Times(1),
			r.scores.EXPECT().Compute(gomock.Any()).Return(want, nil).Times(1),
		)

		rec := r.request(http.MethodPost, "/api/scoreboard/refresh/", true)

		require.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("Unauthorized", func(t *testing.T) {
		r := newTestRouter(t)

		rec := r.request(http.MethodPost, "/api/scoreboard/refresh/", false)

		assert.Equal(t, http.StatusUnauthorized, rec.Code, "refresh requires operator auth")
	})

	t.Run("InvalidateError", func(t *testing.T) {
		r := newTestRouter(t)

		r.scores.EXPECT().Invalidate(gomock.Any()).
			Return(errors.New("connection refused")).
			Times(1)

		rec := r.request(http.MethodPost, "/api/scoreboard/refresh/", true)

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
	})
}

func TestCacheStatus(t *testing.T) {
	r := newTestRouter(t)

	generatedAt := time.Now().UTC()
	r.scores.EXPECT().Status(gomock.Any()).Return(scoring.CacheStatus{
		Connected:   true,
		Cached:      true,
		Fresh:       true,
		GeneratedAt: &generatedAt,
	}).Times(1)

	rec := r.request(http.MethodGet, "/api/cache/status/", false)

	require.Equal(t, http.StatusOK, rec.Code)

	var got scoring.CacheStatus
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got), "body should decode")
	assert.True(t, got.Connected)
	assert.True(t, got.Fresh)
}

func TestStartCompetition(t *testing.T) {
	t.Run("Valid", func(t *testing.T) {
		r := newTestRouter(t)

		gomock.InOrder(
			r.store.EXPECT().SetChallengeStarted(gomock.Any(), true).Return(nil).Times(1),
			r.sched.EXPECT().Start(gomock.Any()).Return(nil).Times(1),
		)

		rec := r.request(http.MethodPost, "/competition/start/", true)

		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("Unauthorized", func(t *testing.T) {
		r := newTestRouter(t)

		rec := r.request(http.MethodPost, "/competition/start/", false)

		assert.Equal(t, http.StatusUnauthorized, rec.Code, "start requires operator auth")
	})

	t.Run("ConfigMissing", func(t *testing.T) {
		r := newTestRouter(t)

		r.store.EXPECT().SetChallengeStarted(gomock.Any(), true).
			Return(scheduler.ErrConfigMissing).
			Times(1)

		rec := r.request(http.MethodPost, "/competition/start/", true)

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("SchedulerError", func(t *testing.T) {
		r := newTestRouter(t)

		r.store.EXPECT().SetChallengeStarted(gomock.Any(), true).Return(nil).Times(1)
		r.sched.EXPECT().Start(gomock.Any()).
			Return(errors.New("settings unavailable")).
			Times(1)

		rec := r.request(http.MethodPost, "/competition/start/", true)

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
	})
}

func TestStopCompetition(t *testing.T) {
	t.Run("Valid", func(t *testing.T) {
		r := newTestRouter(t)

		gomock.InOrder(
			r.store.EXPECT().SetChallengeStarted(gomock.Any(), false).Return(nil).Times(1),
			r.sched.EXPECT().Stop().Times(1),
		)

		rec := r.request(http.MethodPost, "/competition/stop/", true)

		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("Unauthorized", func(t *testing.T) {
		r := newTestRouter(t)

		rec := r.request(http.MethodPost, "/competition/stop/", false)

		assert.Equal(t, http.StatusUnauthorized, rec.Code, "stop requires operator auth")
	})
}

func TestPing(t *testing.T) {
	r := newTestRouter(t)

	r.sched.EXPECT().Running().Return(true).Times(1)

	rec := r.request(http.MethodGet, "/status/ping/", false)

	require.Equal(t, http.StatusOK, rec.Code)

	var got types.PingResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got), "body should decode")
	assert.Equal(t, "ready", got.Status)
}
