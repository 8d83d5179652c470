package routes

import (
	"context"
	"crypto/subtle"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	slogecho "github.com/samber/slog-echo"
	"go.opentelemetry.io/contrib/instrumentation/github.com/labstack/echo/otelecho"
	"go.opentelemetry.io/otel"

	"github.com/adzkyyy/adCTF/cmd/server/internal/scheduler"
	"github.com/adzkyyy/adCTF/cmd/server/internal/scoring"
	"github.com/adzkyyy/adCTF/internal/config"
	"github.com/adzkyyy/adCTF/internal/types"
	"github.com/adzkyyy/adCTF/internal/validator"
)

const name = "github.com/adzkyyy/adCTF/cmd/server/internal/routes"

var tracer = otel.Tracer(name)

//go:generate mockgen -destination ./mock/mock.go -package mock . ScoreSource,ConfigStore

// ScoreSource yields scoreboard rows and controls the cache in front of them.
type ScoreSource interface {
	Compute(ctx context.Context) ([]types.UserScore, error)
	Invalidate(ctx context.Context) error
	Status(ctx context.Context) scoring.CacheStatus
}

// ConfigStore flips the persisted challenge_started flag.
type ConfigStore interface {
	SetChallengeStarted(ctx context.Context, started bool) error
}

type Handler struct {
	store     ConfigStore
	scores    ScoreSource
	scheduler scheduler.Scheduler
	config    *config.Config
}

func NewHandler(
	store ConfigStore,
	scores ScoreSource,
	sched scheduler.Scheduler,
	cfg *config.Config,
) Handler {
	return Handler{
		store:     store,
		scores:    scores,
		scheduler: sched,
		config:    cfg,
	}
}

func BuildEcho(logger *slog.Logger) (*echo.Echo, error) {
	e := echo.New()

	validate := validator.Create()
	e.Validator = &validate

	e.Pre(middleware.AddTrailingSlash())

	e.Use(
		otelecho.Middleware("adctf"),
		slogecho.NewWithConfig(logger, slogecho.Config{}),
		middleware.Recover(),
	)

	e.GET("/health/", func(c echo.Context) error { return c.NoContent(http.StatusOK) })

	return e, nil
}

func (h *Handler) AddRoutes(e *echo.Echo) {
	apiGroup := e.Group("/api")
	apiGroup.GET("/scoreboard/", h.Scoreboard)
	apiGroup.GET("/cache/status/", h.CacheStatus)
	apiGroup.POST("/scoreboard/refresh/", h.RefreshScoreboard,
		middleware.BasicAuth(h.basicAuthValidator),
	)

	competitionGroup := e.Group("/competition",
		middleware.BasicAuth(h.basicAuthValidator),
	)
	competitionGroup.POST("/start/", h.StartCompetition)
	competitionGroup.POST("/stop/", h.StopCompetition)

	e.GET("/status/ping/", h.Ping)
}

func (h *Handler) basicAuthValidator(username, password string, _ echo.Context) (bool, error) {
	userOK := subtle.ConstantTimeCompare(
		[]byte(username),
		[]byte(h.config.Operator.Username),
	)
	passOK := subtle.ConstantTimeCompare(
		[]byte(password),
		[]byte(h.config.Operator.Password),
	)
	return userOK == 1 && passOK == 1, nil
}
