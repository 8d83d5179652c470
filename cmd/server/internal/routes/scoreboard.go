package routes

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/adzkyyy/adCTF/cmd/server/internal/response"
)

func (h *Handler) Scoreboard(c echo.Context) error {
	ctx, span := tracer.Start(c.Request().Context(), "Scoreboard")
	defer span.End()

	scores, err := h.scores.Compute(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "error computing scoreboard")
		return response.InternalServerError
	}

	span.SetAttributes(attribute.Int("scoreboard.rows", len(scores)))

	span.RecordError(nil)
	span.SetStatus(codes.Ok, "")
	return c.JSON(http.StatusOK, scores)
}

func (h *Handler) RefreshScoreboard(c echo.Context) error {
	ctx, span := tracer.Start(c.Request().Context(), "RefreshScoreboard")
	defer span.End()

	if err := h.scores.Invalidate(ctx); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "error invalidating cached scoreboard")
		return response.InternalServerError
	}

	span.AddEvent("invalidated cached scoreboard")

	scores, err := h.scores.Compute(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "error recomputing scoreboard")
		return response.InternalServerError
	}

	span.SetAttributes(attribute.Int("scoreboard.rows", len(scores)))

	span.RecordError(nil)
	span.SetStatus(codes.Ok, "recomputed scoreboard")
	return c.JSON(http.StatusOK, scores)
}

func (h *Handler) CacheStatus(c echo.Context) error {
	ctx, span := tracer.Start(c.Request().Context(), "CacheStatus")
	defer span.End()

	status := h.scores.Status(ctx)

	span.SetAttributes(
		attribute.Bool("cache.connected", status.Connected),
		attribute.Bool("cache.cached", status.Cached),
		attribute.Bool("cache.fresh", status.Fresh),
	)

	span.RecordError(nil)
	span.SetStatus(codes.Ok, "")
	return c.JSON(http.StatusOK, status)
}
