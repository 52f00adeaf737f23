package api

import (
	"context"
	"errors"
	"io"
	"net/http"
	"time"

	"QlikForecast/internal/domain/models"
	domrepo "QlikForecast/internal/domain/repository"
	"QlikForecast/internal/usecase"
	xhttp "QlikForecast/pkg/http"
	xlogger "QlikForecast/pkg/logger"

	"github.com/labstack/echo/v4"
)

const (
	endpointScript     = "prophetScript"
	endpointReconciled = "prophet"

	codeNoActuals = "ERR_NO_ACTUALS"
	codeForecast  = "ERR_FORECAST"
)

// ForecastEchoHandler serves the forecasting endpoints consumed by the dashboard.
type ForecastEchoHandler struct {
	logger   *xlogger.Logger
	pipeline *usecase.ForecastPipeline
	metrics  domrepo.Metrics
}

func NewForecastEchoHandler(logger *xlogger.Logger, pipeline *usecase.ForecastPipeline, metrics domrepo.Metrics) *ForecastEchoHandler {
	if logger == nil {
		logger = xlogger.Nop()
	}
	return &ForecastEchoHandler{logger: logger, pipeline: pipeline, metrics: metrics}
}

func (h *ForecastEchoHandler) RegisterRoutes(e *echo.Echo) {
	e.GET("/", h.Root)
	e.POST("/prophetScript", h.Script)
	e.POST("/prophet", h.Reconciled)
}

// Root is the liveness probe.
func (h *ForecastEchoHandler) Root(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"Hello": "World"})
}

// Script returns the full forecast for the requested horizon.
func (h *ForecastEchoHandler) Script(c echo.Context) error {
	return h.serve(c, endpointScript, func(ctx context.Context, req *models.ForecastRequest) (interface{}, error) {
		return h.pipeline.Raw(ctx, req)
	})
}

// Reconciled returns one value per input row, actuals first, forecast otherwise.
func (h *ForecastEchoHandler) Reconciled(c echo.Context) error {
	return h.serve(c, endpointReconciled, func(ctx context.Context, req *models.ForecastRequest) (interface{}, error) {
		return h.pipeline.Reconciled(ctx, req)
	})
}

type runFunc func(ctx context.Context, req *models.ForecastRequest) (interface{}, error)

func (h *ForecastEchoHandler) serve(c echo.Context, endpoint string, run runFunc) error {
	start := time.Now()
	ctx := c.Request().Context()

	body, err := io.ReadAll(c.Request().Body)
	if err != nil {
		// body limit and transport errors carry their own status
		h.record(endpoint, "client_error", "read")
		return err
	}

	req, err := models.ParseForecastRequest(body)
	if err != nil {
		return h.fail(c, endpoint, err)
	}
	if verr := xhttp.ValidateRequest(ctx, &req.Config); verr != nil {
		h.logger.Warn("invalid batch config", xlogger.String("endpoint", endpoint), xlogger.Any("errors", verr))
		h.record(endpoint, "client_error", "validation")
		return xhttp.BadRequestResponse(c, verr)
	}
	if h.metrics != nil {
		h.metrics.RecordRows(endpoint, len(req.Rows))
	}

	out, err := run(ctx, req)
	if err != nil {
		return h.fail(c, endpoint, err)
	}

	h.record(endpoint, "ok", "")
	h.logger.Info("forecast served",
		xlogger.String("endpoint", endpoint),
		xlogger.Int("rows", len(req.Rows)),
		xlogger.Int("periods", req.Config.Periods),
		xlogger.String("frequency", req.Config.Frequency),
		xlogger.Duration("took", time.Since(start)),
	)
	return c.JSON(http.StatusOK, out)
}

func (h *ForecastEchoHandler) fail(c echo.Context, endpoint string, err error) error {
	appErr := toAppError(err)
	switch {
	case appErr.Status >= http.StatusInternalServerError:
		h.logger.Error("forecast failed", xlogger.String("endpoint", endpoint), xlogger.Error(err))
		h.record(endpoint, "error", appErr.Code)
	default:
		h.logger.Warn("forecast rejected", xlogger.String("endpoint", endpoint), xlogger.Error(err))
		h.record(endpoint, "client_error", appErr.Code)
	}
	return xhttp.AppErrorResponse(c, appErr)
}

func (h *ForecastEchoHandler) record(endpoint, outcome, kind string) {
	if h.metrics == nil {
		return
	}
	h.metrics.RecordRequest(endpoint, outcome)
	if kind != "" {
		h.metrics.RecordError(kind)
	}
}

// toAppError maps domain errors to their HTTP representation.
func toAppError(err error) *xhttp.AppError {
	var verr *models.ValidationError
	var ferr *usecase.ForecastError
	switch {
	case errors.As(err, &verr):
		appErr := xhttp.ValidationErr(verr.Field, verr.Message).WithError(err)
		if verr.Row > 0 {
			appErr.WithParam("row", verr.Row)
		}
		return appErr
	case errors.Is(err, usecase.ErrNoActuals):
		return xhttp.UnprocessableError(codeNoActuals, err.Error()).WithError(err)
	case errors.As(err, &ferr):
		return xhttp.UnprocessableError(codeForecast, ferr.Error()).WithError(err)
	}
	return xhttp.InternalError("Something went wrong").WithError(err)
}
