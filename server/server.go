// Package server exposes the risk evaluation core over HTTP. Handlers map
// 1:1 onto the pure evaluation functions; all quantity fields travel as
// decimal strings to keep 256-bit values exact in JSON.
package server

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/holiman/uint256"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"lendcore/fixedpoint"
	"lendcore/interest"
	"lendcore/observability"
	"lendcore/risk"
)

const maxRequestBody = 1 << 20

// Server evaluates positions with a configured risk engine and rate model.
type Server struct {
	engine           *risk.Engine
	model            interest.Model
	reserveFactorBps uint64
	logger           *slog.Logger
	metrics          *observability.RiskMetrics
}

// New constructs an evaluation server.
func New(engine *risk.Engine, model interest.Model, reserveFactorBps uint64, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{
		engine:           engine,
		model:            model,
		reserveFactorBps: reserveFactorBps,
		logger:           logger,
		metrics:          observability.Metrics(),
	}
}

// Router mounts the evaluation endpoints. The rate limiter is optional.
func (s *Server) Router(limiter *RateLimiter) http.Handler {
	r := chi.NewRouter()
	r.Use(RequestID)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/v1", func(v1 chi.Router) {
		if limiter != nil {
			v1.Use(limiter.Middleware())
		}
		v1.Post("/position/metrics", s.instrument("position_metrics", s.handlePositionMetrics))
		v1.Post("/position/health", s.instrument("position_health", s.handlePositionHealth))
		v1.Post("/position/liquidation", s.instrument("position_liquidation", s.handlePositionLiquidation))
		v1.Get("/rates", s.instrument("rates", s.handleRates))
	})

	return r
}

func (s *Server) instrument(endpoint string, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next(rec, r)
		outcome := "ok"
		if rec.status >= http.StatusBadRequest {
			outcome = "error"
		}
		s.metrics.ObserveRequest(endpoint, outcome, time.Since(start))
	}
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

type positionRequest struct {
	CollateralValue  string `json:"collateralValue"`
	CollateralAmount string `json:"collateralAmount"`
	DebtValue        string `json:"debtValue"`
	CollateralPrice  string `json:"collateralPrice"`
}

type metricsResponse struct {
	CollateralValue   string `json:"collateralValue"`
	DebtValue         string `json:"debtValue"`
	RatioBps          string `json:"ratioBps"`
	AvailableToBorrow string `json:"availableToBorrow"`
	LiquidationPrice  string `json:"liquidationPrice"`
	Status            string `json:"status"`
}

type healthResponse struct {
	Status       string `json:"status"`
	RatioBps     string `json:"ratioBps"`
	Liquidatable bool   `json:"liquidatable"`
}

type liquidationResponse struct {
	Liquidatable           bool   `json:"liquidatable"`
	LiquidationAmount      string `json:"liquidationAmount"`
	MaxLiquidatableAmount  string `json:"maxLiquidatableAmount"`
	LiquidationBonus       string `json:"liquidationBonus"`
	CollateralToSeize      string `json:"collateralToSeize"`
	ValueAtRisk            string `json:"valueAtRisk"`
	WithdrawableCollateral string `json:"withdrawableCollateral"`
}

type ratesResponse struct {
	UtilisationBps uint64 `json:"utilisationBps"`
	BorrowRateBps  uint64 `json:"borrowRateBps"`
	SupplyRateBps  uint64 `json:"supplyRateBps"`
}

func (s *Server) handlePositionMetrics(w http.ResponseWriter, r *http.Request) {
	req, ok := s.decodePosition(w, r, true)
	if !ok {
		return
	}
	metrics, err := s.engine.Metrics(req.collateralValue, req.collateralAmount, req.debtValue)
	if err != nil {
		s.writeEvalError(w, "position_metrics", err)
		return
	}
	s.metrics.ObserveStatus(metrics.Status.String())
	writeJSON(w, http.StatusOK, metricsResponse{
		CollateralValue:   metrics.CollateralValue.Dec(),
		DebtValue:         metrics.DebtValue.Dec(),
		RatioBps:          metrics.RatioBps.Dec(),
		AvailableToBorrow: metrics.AvailableToBorrow.Dec(),
		LiquidationPrice:  metrics.LiquidationPrice.Dec(),
		Status:            metrics.Status.String(),
	})
}

func (s *Server) handlePositionHealth(w http.ResponseWriter, r *http.Request) {
	req, ok := s.decodePosition(w, r, false)
	if !ok {
		return
	}
	status := s.engine.Status(req.collateralValue, req.debtValue)
	ratio, err := s.engine.RatioBps(req.collateralValue, req.debtValue)
	if err != nil {
		s.writeEvalError(w, "position_health", err)
		return
	}
	s.metrics.ObserveStatus(status.String())
	writeJSON(w, http.StatusOK, healthResponse{
		Status:       status.String(),
		RatioBps:     ratio.Dec(),
		Liquidatable: s.engine.IsLiquidatable(req.collateralValue, req.debtValue),
	})
}

func (s *Server) handlePositionLiquidation(w http.ResponseWriter, r *http.Request) {
	req, ok := s.decodePosition(w, r, false)
	if !ok {
		return
	}
	params := s.engine.Parameters()

	liquidationAmount, err := fixedpoint.CalculateLiquidationAmount(
		req.collateralValue, req.debtValue, params.MinRatioBps, params.LiquidationBonusBps)
	if err != nil {
		s.writeEvalError(w, "position_liquidation", err)
		return
	}
	maxAmount, err := s.engine.MaxLiquidatableAmount(req.debtValue)
	if err != nil {
		s.writeEvalError(w, "position_liquidation", err)
		return
	}
	bonus, err := s.engine.LiquidationBonus(liquidationAmount)
	if err != nil {
		s.writeEvalError(w, "position_liquidation", err)
		return
	}
	seize, err := s.engine.CollateralToSeize(liquidationAmount, req.collateralPrice)
	if err != nil {
		s.writeEvalError(w, "position_liquidation", err)
		return
	}
	atRisk, err := s.engine.ValueAtRisk(req.collateralValue, req.debtValue)
	if err != nil {
		s.writeEvalError(w, "position_liquidation", err)
		return
	}
	withdrawable, err := s.engine.WithdrawableCollateral(req.collateralValue, req.debtValue)
	if err != nil {
		s.writeEvalError(w, "position_liquidation", err)
		return
	}

	writeJSON(w, http.StatusOK, liquidationResponse{
		Liquidatable:           s.engine.IsLiquidatable(req.collateralValue, req.debtValue),
		LiquidationAmount:      liquidationAmount.Dec(),
		MaxLiquidatableAmount:  maxAmount.Dec(),
		LiquidationBonus:       bonus.Dec(),
		CollateralToSeize:      seize.Dec(),
		ValueAtRisk:            atRisk.Dec(),
		WithdrawableCollateral: withdrawable.Dec(),
	})
}

func (s *Server) handleRates(w http.ResponseWriter, r *http.Request) {
	borrowed, err := parseQuantity(r.URL.Query().Get("borrowed"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid borrowed quantity")
		return
	}
	supplied, err := parseQuantity(r.URL.Query().Get("supplied"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid supplied quantity")
		return
	}
	writeJSON(w, http.StatusOK, ratesResponse{
		UtilisationBps: s.model.UtilisationBps(borrowed, supplied),
		BorrowRateBps:  s.model.BorrowRateBps(borrowed, supplied),
		SupplyRateBps:  s.model.SupplyRateBps(borrowed, supplied, s.reserveFactorBps),
	})
}

type decodedPosition struct {
	collateralValue  *uint256.Int
	collateralAmount *uint256.Int
	debtValue        *uint256.Int
	collateralPrice  *uint256.Int
}

func (s *Server) decodePosition(w http.ResponseWriter, r *http.Request, requireAmount bool) (*decodedPosition, bool) {
	var req positionRequest
	body := http.MaxBytesReader(w, r.Body, maxRequestBody)
	if err := json.NewDecoder(body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return nil, false
	}

	out := &decodedPosition{}
	var err error
	if out.collateralValue, err = parseQuantity(req.CollateralValue); err != nil {
		writeError(w, http.StatusBadRequest, "invalid collateralValue")
		return nil, false
	}
	if out.debtValue, err = parseQuantity(req.DebtValue); err != nil {
		writeError(w, http.StatusBadRequest, "invalid debtValue")
		return nil, false
	}
	if out.collateralAmount, err = parseQuantity(req.CollateralAmount); err != nil {
		writeError(w, http.StatusBadRequest, "invalid collateralAmount")
		return nil, false
	}
	if requireAmount && out.collateralAmount.IsZero() && strings.TrimSpace(req.CollateralAmount) == "" {
		writeError(w, http.StatusBadRequest, "collateralAmount required")
		return nil, false
	}
	if out.collateralPrice, err = parseQuantity(req.CollateralPrice); err != nil {
		writeError(w, http.StatusBadRequest, "invalid collateralPrice")
		return nil, false
	}
	return out, true
}

// parseQuantity accepts a non-negative decimal string; empty means zero.
func parseQuantity(raw string) (*uint256.Int, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return new(uint256.Int), nil
	}
	return uint256.FromDecimal(trimmed)
}

func (s *Server) writeEvalError(w http.ResponseWriter, endpoint string, err error) {
	switch {
	case errors.Is(err, fixedpoint.ErrDivisionByZero), errors.Is(err, fixedpoint.ErrOverflow):
		s.logger.Warn("evaluation rejected", "endpoint", endpoint, "error", err)
		writeError(w, http.StatusUnprocessableEntity, err.Error())
	default:
		s.logger.Error("evaluation failed", "endpoint", endpoint, "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
