//go:build e2e

package integration

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"strings"
	"testing"
	"time"
)

const (
	readyTimeout      = 30 * time.Second
	readyPollInterval = 250 * time.Millisecond
	idempotencyHeader = "X-Idempotency-Key"
)

type priceResponse struct {
	Currency     string  `json:"currency"`
	LastBidPrice float64 `json:"last_bid_price"`
	Time         string  `json:"time"`
}

// baseURL points at a running API, e.g. `EXCHANGE=fake STORAGE=sqlite go run ./cmd/api`.
func baseURL(t *testing.T) string {
	t.Helper()
	u := strings.TrimRight(os.Getenv("E2E_BASE_URL"), "/")
	if u == "" {
		t.Skip("E2E_BASE_URL not set")
	}
	return u
}

func TestE2E_PriceHistoryDelete(t *testing.T) {
	base := baseURL(t)
	waitForReady(t, base)

	currency := fmt.Sprintf("e2e%d", time.Now().UnixNano()%1_000_000)
	var p priceResponse
	status := getJSON(t, base+"/price/"+currency, &p)
	if status != http.StatusOK {
		t.Skipf("exchange has no market for %s (status %d); run with EXCHANGE=fake", currency, status)
	}
	if p.Currency != currency || p.LastBidPrice <= 0 || p.Time == "" {
		t.Fatalf("unexpected price response: %+v", p)
	}

	var hist map[string]float64
	if status := getJSON(t, base+"/price/history/"+currency, &hist); status != http.StatusOK {
		t.Fatalf("history: got %d, want %d", status, http.StatusOK)
	}
	if got, ok := hist[p.Time]; !ok || got != p.LastBidPrice {
		t.Fatalf("history missing %s=%v: %v", p.Time, p.LastBidPrice, hist)
	}

	if status := deleteCurrency(t, base, currency, ""); status != http.StatusOK {
		t.Fatalf("delete: got %d, want %d", status, http.StatusOK)
	}
	if status := getJSON(t, base+"/price/history/"+currency, nil); status != http.StatusNotFound {
		t.Fatalf("history after delete: got %d, want %d", status, http.StatusNotFound)
	}
	if status := deleteCurrency(t, base, currency, ""); status != http.StatusNotFound {
		t.Fatalf("second delete: got %d, want %d", status, http.StatusNotFound)
	}
}

func TestE2E_InvalidCurrency(t *testing.T) {
	base := baseURL(t)
	waitForReady(t, base)
	if status := getJSON(t, base+"/price/not-a-coin", nil); status != http.StatusBadRequest {
		t.Fatalf("got %d, want %d", status, http.StatusBadRequest)
	}
}

func waitForReady(t *testing.T, base string) {
	t.Helper()
	deadline := time.Now().Add(readyTimeout)
	client := &http.Client{Timeout: 2 * time.Second}
	for time.Now().Before(deadline) {
		resp, err := client.Get(base + "/readyz")
		if err == nil && resp.StatusCode == http.StatusOK {
			_ = resp.Body.Close()
			return
		}
		if resp != nil {
			_ = resp.Body.Close()
		}
		time.Sleep(readyPollInterval)
	}
	t.Fatalf("API did not become ready within %s", readyTimeout)
}

func getJSON(t *testing.T, url string, out any) int {
	t.Helper()
	client := &http.Client{Timeout: 15 * time.Second}
	resp, err := client.Get(url)
	if err != nil {
		t.Fatalf("GET %s failed: %v", url, err)
	}
	defer resp.Body.Close()
	if out != nil && resp.StatusCode == http.StatusOK {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			t.Fatalf("decode %s: %v", url, err)
		}
	}
	return resp.StatusCode
}

func deleteCurrency(t *testing.T, base, currency, idem string) int {
	t.Helper()
	req, err := http.NewRequest(http.MethodDelete, base+"/delete/"+currency, nil)
	if err != nil {
		t.Fatalf("failed to build request: %v", err)
	}
	if idem != "" {
		req.Header.Set(idempotencyHeader, idem)
	}
	client := &http.Client{Timeout: 5 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		t.Fatalf("DELETE /delete/%s failed: %v", currency, err)
	}
	defer resp.Body.Close()
	return resp.StatusCode
}
