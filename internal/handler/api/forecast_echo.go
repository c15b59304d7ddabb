package api

import (
	"strings"
	"time"

	models "PulseCast/internal/domain/models"
	domrepo "PulseCast/internal/domain/repository"
	"PulseCast/internal/service/ratelimit"
	"PulseCast/internal/usecase"
	xhttp "PulseCast/pkg/http"
	xlogger "PulseCast/pkg/logger"
	"PulseCast/pkg/util"

	"github.com/labstack/echo/v4"
)

// ForecastHandler exposes the forecast pipeline over Echo.
type ForecastHandler struct {
	logger  *xlogger.Logger
	uc      *usecase.ForecastUseCase
	scanner *usecase.Scanner
	limiter *ratelimit.Limiter

	rateCapacity float64
	ratePerSec   float64
}

// NewForecastHandler creates the API handler. A nil limiter disables rate
// limiting.
func NewForecastHandler(logger *xlogger.Logger, uc *usecase.ForecastUseCase, scanner *usecase.Scanner, limiter *ratelimit.Limiter, rate, burst int) *ForecastHandler {
	h := &ForecastHandler{
		logger:       logger,
		uc:           uc,
		scanner:      scanner,
		limiter:      limiter,
		rateCapacity: float64(burst),
		ratePerSec:   float64(rate),
	}
	if h.rateCapacity <= 0 {
		h.rateCapacity = 10
	}
	if h.ratePerSec <= 0 {
		h.ratePerSec = 5
	}
	return h
}

// RegisterRoutes mounts the forecast API group.
func (h *ForecastHandler) RegisterRoutes(e *echo.Echo) {
	g := e.Group("/api")
	g.GET("/forecast", h.Forecast)
	g.GET("/scan", h.Scan)
	g.GET("/indicators", h.Indicators)
	g.GET("/regime", h.Regime)
	g.GET("/history", h.History)
}

func (h *ForecastHandler) allow(c echo.Context) bool {
	if h.limiter == nil {
		return true
	}
	return h.limiter.Allow(c.RealIP(), h.rateCapacity, h.ratePerSec)
}

// Forecast serves the composite forecast for one symbol.
func (h *ForecastHandler) Forecast(c echo.Context) error {
	if !h.allow(c) {
		return xhttp.TooManyRequestsResponse(c)
	}
	req := &models.ForecastRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	res, err := h.uc.Forecast(c.Request().Context(), usecase.ForecastParams{
		Symbol:            req.Symbol,
		IncludeIndicators: req.Indicators,
	})
	if err != nil {
		h.logger.Error("forecast usecase error", xlogger.String("symbol", req.Symbol), xlogger.Error(err))
		return xhttp.AppErrorResponse(c, err)
	}
	c.Response().Header().Set(echo.HeaderCacheControl, "private, max-age=15")
	return xhttp.SuccessResponse(c, res)
}

// Scan serves a compact watchlist scan.
func (h *ForecastHandler) Scan(c echo.Context) error {
	if !h.allow(c) {
		return xhttp.TooManyRequestsResponse(c)
	}
	req := &models.ScanRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	var symbols []string
	if req.Symbols != "" {
		for _, s := range strings.Split(req.Symbols, ",") {
			if s = strings.TrimSpace(s); s != "" {
				symbols = append(symbols, s)
			}
		}
	}
	entries := h.scanner.Scan(c.Request().Context(), symbols, req.Limit)
	return xhttp.SuccessResponse(c, entries)
}

// Indicators serves the full indicator table for one symbol.
func (h *ForecastHandler) Indicators(c echo.Context) error {
	if !h.allow(c) {
		return xhttp.TooManyRequestsResponse(c)
	}
	req := &models.IndicatorsRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	res, err := h.uc.Indicators(c.Request().Context(), req.Symbol)
	if err != nil {
		h.logger.Error("indicators usecase error", xlogger.String("symbol", req.Symbol), xlogger.Error(err))
		return xhttp.AppErrorResponse(c, err)
	}
	return xhttp.SuccessResponse(c, res)
}

// History serves stored forecasts for calibration review.
func (h *ForecastHandler) History(c echo.Context) error {
	if !h.allow(c) {
		return xhttp.TooManyRequestsResponse(c)
	}
	req := &models.HistoryRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	now := time.Now().UTC()
	from := xhttp.ParseTimeDefault(req.From, now.Add(-24*time.Hour))
	to := xhttp.ParseTimeDefault(req.To, now)
	from, to = util.AlignFromTo(from, to, "1m")

	res, err := h.uc.History(c.Request().Context(), req.Symbol, from, to, req.Limit)
	if err != nil {
		h.logger.Error("history usecase error", xlogger.String("symbol", req.Symbol), xlogger.Error(err))
		return xhttp.AppErrorResponse(c, err)
	}
	return xhttp.SuccessResponse(c, res)
}

// Regime serves the regime classification for one symbol.
func (h *ForecastHandler) Regime(c echo.Context) error {
	if !h.allow(c) {
		return xhttp.TooManyRequestsResponse(c)
	}
	req := &models.RegimeRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	tf := domrepo.NormalizeTimeframe(req.TF)
	res, err := h.uc.Regime(c.Request().Context(), req.Symbol, req.N, tf)
	if err != nil {
		h.logger.Error("regime usecase error", xlogger.String("symbol", req.Symbol), xlogger.Error(err))
		return xhttp.AppErrorResponse(c, err)
	}
	c.Response().Header().Set(echo.HeaderCacheControl, "private, max-age=30")
	return xhttp.SuccessResponse(c, res)
}
