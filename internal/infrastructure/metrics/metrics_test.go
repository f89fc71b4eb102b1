package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func TestMetrics_Counters(t *testing.T) {
	m := New()
	m.ExchangeRequest("KuCoin", "ok")
	m.ExchangeRequest("KuCoin", "ok")
	m.ExchangeRequest("KuCoin", "no_bid")
	m.Persisted(true)
	m.Persisted(false)
	m.ObserveHTTP("GET", "/price/{currency}", 200, 15*time.Millisecond)

	require.Equal(t, 2.0, testutil.ToFloat64(m.exchangeReqs.WithLabelValues("KuCoin", "ok")))
	require.Equal(t, 1.0, testutil.ToFloat64(m.exchangeReqs.WithLabelValues("KuCoin", "no_bid")))
	require.Equal(t, 1.0, testutil.ToFloat64(m.persisted.WithLabelValues("failed")))
	require.Equal(t, 1.0, testutil.ToFloat64(m.httpReqs.WithLabelValues("GET", "/price/{currency}", "200")))
}

func TestMetrics_Handler(t *testing.T) {
	m := New()
	m.Persisted(true)
	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), `cryptoprice_price_writes_total{status="ok"} 1`)
}
