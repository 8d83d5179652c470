package routes

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.opentelemetry.io/otel/codes"

	"github.com/adzkyyy/adCTF/cmd/server/internal/response"
	"github.com/adzkyyy/adCTF/cmd/server/internal/scheduler"
	"github.com/adzkyyy/adCTF/internal/audit"
)

func (h *Handler) StartCompetition(c echo.Context) error {
	ctx, span := tracer.Start(c.Request().Context(), "StartCompetition")
	defer span.End()

	if err := h.store.SetChallengeStarted(ctx, true); err != nil {
		if errors.Is(err, scheduler.ErrConfigMissing) {
			span.RecordError(err)
			span.SetStatus(codes.Error, "competition config row missing")
			return response.NotFoundError
		}

		span.RecordError(err)
		span.SetStatus(codes.Error, "error persisting started flag")
		return response.InternalServerError
	}

	span.AddEvent("persisted started flag")

	if err := h.scheduler.Start(ctx); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "error starting tick scheduler")
		return response.InternalServerError
	}

	span.RecordError(nil)
	span.SetStatus(codes.Ok, "competition started")
	return c.NoContent(http.StatusOK)
}

func (h *Handler) StopCompetition(c echo.Context) error {
	ctx, span := tracer.Start(c.Request().Context(), "StopCompetition")
	defer span.End()

	if err := h.store.SetChallengeStarted(ctx, false); err != nil {
		if errors.Is(err, scheduler.ErrConfigMissing) {
			span.RecordError(err)
			span.SetStatus(codes.Error, "competition config row missing")
			return response.NotFoundError
		}

		span.RecordError(err)
		span.SetStatus(codes.Error, "error persisting started flag")
		return response.InternalServerError
	}

	h.scheduler.Stop()
	audit.LogChallengeStopped()

	span.RecordError(nil)
	span.SetStatus(codes.Ok, "competition stopped")
	return c.NoContent(http.StatusOK)
}
