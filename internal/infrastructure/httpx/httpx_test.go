package httpx

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type rtFunc func(*http.Request) (*http.Response, error)

func (f rtFunc) RoundTrip(r *http.Request) (*http.Response, error) { return f(r) }

func httpClientRT(rt http.RoundTripper) *http.Client {
	return &http.Client{Transport: rt, Timeout: 2 * time.Second}
}

func TestGetJSON_OK(t *testing.T) {
	var gotUA, gotAccept string
	hc := httpClientRT(rtFunc(func(r *http.Request) (*http.Response, error) {
		gotUA = r.Header.Get("User-Agent")
		gotAccept = r.Header.Get("Accept")
		return &http.Response{StatusCode: 200, Body: io.NopCloser(strings.NewReader(`{"ok": true}`)), Header: make(http.Header), Request: r}, nil
	}))
	var out struct {
		OK bool `json:"ok"`
	}
	c := &Client{HTTP: hc, UserAgent: "cryptoprice-test"}
	require.NoError(t, c.GetJSON(context.Background(), "http://example.com", &out))
	require.True(t, out.OK)
	require.Equal(t, "cryptoprice-test", gotUA)
	require.Equal(t, "application/json", gotAccept)
}

func TestGetJSON_NoRetryOn500(t *testing.T) {
	var calls int
	hc := httpClientRT(rtFunc(func(r *http.Request) (*http.Response, error) {
		calls++
		return &http.Response{StatusCode: 500, Body: io.NopCloser(strings.NewReader("boom")), Header: make(http.Header), Request: r}, nil
	}))
	var out any
	c := &Client{HTTP: hc}
	err := c.GetJSON(context.Background(), "http://example.com", &out)
	var se *StatusError
	require.ErrorAs(t, err, &se)
	require.Equal(t, 500, se.Code)
	require.Equal(t, "status 500: boom", se.Error())
	require.Equal(t, 1, calls)
}

func TestGetJSON_TransportError(t *testing.T) {
	hc := httpClientRT(rtFunc(func(r *http.Request) (*http.Response, error) {
		return nil, errors.New("connection reset")
	}))
	var out any
	c := &Client{HTTP: hc}
	err := c.GetJSON(context.Background(), "http://example.com", &out)
	require.Error(t, err)
	require.Contains(t, err.Error(), "connection reset")
}

func TestGetJSON_DecodeError(t *testing.T) {
	hc := httpClientRT(rtFunc(func(r *http.Request) (*http.Response, error) {
		return &http.Response{StatusCode: 200, Body: io.NopCloser(bytes.NewBufferString("{x")), Header: make(http.Header), Request: r}, nil
	}))
	var out map[string]any
	c := &Client{HTTP: hc}
	err := c.GetJSON(context.Background(), "http://example.com", &out)
	require.Error(t, err)
	require.Contains(t, err.Error(), "decode response")
}
