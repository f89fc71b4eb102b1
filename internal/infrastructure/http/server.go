package httpserver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"cryptoprice-service/internal/application"
	"cryptoprice-service/internal/domain"
	"cryptoprice-service/internal/infrastructure/logx"
	"cryptoprice-service/internal/infrastructure/metrics"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type Server struct {
	svc     *application.PriceService
	ping    func(ctx context.Context) error
	metrics *metrics.Metrics
}

func NewServer(svc *application.PriceService) *Server { return &Server{svc: svc, ping: svc.Ping} }

// SetReadyCheck replaces the readiness probe.
func (s *Server) SetReadyCheck(fn func(ctx context.Context) error) { s.ping = fn }

// SetMetrics enables /metrics and per-route request metrics.
func (s *Server) SetMetrics(m *metrics.Metrics) { s.metrics = m }

type priceResponse struct {
	Currency     string  `json:"currency"`
	LastBidPrice float64 `json:"last_bid_price"`
	Time         string  `json:"time"`
}

type errorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

const deletedKey = "Table deleted successfully"

func (s *Server) GetPrice(w http.ResponseWriter, r *http.Request) {
	currency := chi.URLParam(r, "currency")
	res, err := s.svc.FetchPrice(r.Context(), currency)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, priceResponse{
		Currency:     res.Currency,
		LastBidPrice: res.Bid.InexactFloat64(),
		Time:         domain.FormatTime(res.Time),
	})
}

func (s *Server) GetPriceHistory(w http.ResponseWriter, r *http.Request) {
	currency := chi.URLParam(r, "currency")
	h, err := s.svc.History(r.Context(), currency)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	out := make(map[string]float64, len(h))
	for ts, v := range h {
		out[ts] = v.InexactFloat64()
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) DeleteCurrency(w http.ResponseWriter, r *http.Request) {
	currency := chi.URLParam(r, "currency")
	var idem *string
	if k := r.Header.Get("X-Idempotency-Key"); k != "" {
		idem = &k
	}
	if err := s.svc.DeleteCurrency(r.Context(), currency, idem); err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{deletedKey: true})
}

func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	var xe *application.ExchangeError
	switch {
	case errors.Is(err, application.ErrInvalidCurrency):
		badRequest(w, "invalid currency")
	case errors.As(err, &xe):
		badRequest(w, fmt.Sprintf("An error occurred with %s API: %s", xe.Exchange, xe.Error()))
	case errors.Is(err, application.ErrNoBidPrice):
		badRequest(w, err.Error())
	case errors.Is(err, application.ErrTableNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, application.ErrConflict):
		writeError(w, http.StatusConflict, "duplicate request")
	default:
		logx.WithFields(r.Context()).Error("request_failed", zap.String("path", r.URL.Path), zap.Error(err))
		internalError(w)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Code: status, Message: msg})
}

func badRequest(w http.ResponseWriter, msg string) {
	writeError(w, http.StatusBadRequest, msg)
}

func internalError(w http.ResponseWriter) {
	writeError(w, http.StatusInternalServerError, http.StatusText(http.StatusInternalServerError))
}
