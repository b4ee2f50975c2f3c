package executor

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/mobai/mobai-http/engine/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type capturedRequest struct {
	method  string
	headers http.Header
	body    string
}

func newCaptureServer(t *testing.T, status int, reply string) (*httptest.Server, *capturedRequest) {
	t.Helper()
	captured := &capturedRequest{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		payload, err := io.ReadAll(r.Body)
		assert.NoError(t, err)
		captured.method = r.Method
		captured.headers = r.Header.Clone()
		captured.body = string(payload)
		w.WriteHeader(status)
		_, _ = w.Write([]byte(reply))
	}))
	t.Cleanup(server.Close)
	return server, captured
}

func TestExecutor_Execute(t *testing.T) {
	t.Run("Should return the full envelope for a successful request", func(t *testing.T) {
		server, captured := newCaptureServer(t, http.StatusOK, `{"devices":[]}`)
		exec := New(Config{UserAgent: "mobai-http/test"}, nil)

		envelope, err := exec.Execute(t.Context(), RequestSpec{Method: "get", URL: server.URL + "/api/v1/devices"})

		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, envelope.StatusCode)
		assert.Equal(t, "OK", envelope.StatusText)
		assert.Equal(t, `{"devices":[]}`, string(envelope.RawBody))
		assert.Equal(t, http.MethodGet, captured.method)
		assert.Equal(t, "application/json", captured.headers.Get("Content-Type"))
		assert.Equal(t, "mobai-http/test", captured.headers.Get("User-Agent"))
	})

	t.Run("Should capture error statuses as envelopes", func(t *testing.T) {
		server, _ := newCaptureServer(t, http.StatusNotFound, `{"error":"device not found"}`)
		exec := New(Config{}, nil)

		envelope, err := exec.Execute(t.Context(), RequestSpec{Method: "GET", URL: server.URL})

		require.NoError(t, err)
		assert.Equal(t, http.StatusNotFound, envelope.StatusCode)
		assert.Equal(t, "Not Found", envelope.StatusText)
		assert.Equal(t, `{"error":"device not found"}`, string(envelope.RawBody))
	})

	t.Run("Should send the body only for POST, PUT and PATCH", func(t *testing.T) {
		for _, method := range []string{"POST", "PUT", "PATCH"} {
			server, captured := newCaptureServer(t, http.StatusOK, "ok")
			exec := New(Config{}, nil)

			_, err := exec.Execute(t.Context(), RequestSpec{Method: method, URL: server.URL, Body: `{"index": 5}`})

			require.NoError(t, err)
			assert.Equal(t, `{"index": 5}`, captured.body, method)
		}
		for _, method := range []string{"GET", "DELETE"} {
			server, captured := newCaptureServer(t, http.StatusOK, "ok")
			exec := New(Config{}, nil)

			_, err := exec.Execute(t.Context(), RequestSpec{Method: method, URL: server.URL, Body: `{"index": 5}`})

			require.NoError(t, err)
			assert.Empty(t, captured.body, method)
		}
	})

	t.Run("Should let caller headers override the default content type", func(t *testing.T) {
		server, captured := newCaptureServer(t, http.StatusOK, "ok")
		exec := New(Config{}, nil)

		_, err := exec.Execute(t.Context(), RequestSpec{
			Method:  "POST",
			URL:     server.URL,
			Body:    "plain",
			Headers: map[string]string{"content-type": "text/plain", "X-Device": "emulator-5554"},
		})

		require.NoError(t, err)
		assert.Equal(t, []string{"text/plain"}, captured.headers.Values("Content-Type"))
		assert.Equal(t, "emulator-5554", captured.headers.Get("X-Device"))
	})

	t.Run("Should report a timeout with the configured duration", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			select {
			case <-r.Context().Done():
			case <-time.After(2 * time.Second):
			}
			w.WriteHeader(http.StatusOK)
		}))
		t.Cleanup(server.Close)
		exec := New(Config{}, nil)

		start := time.Now()
		envelope, err := exec.Execute(t.Context(), RequestSpec{
			Method:  "GET",
			URL:     server.URL,
			Timeout: 50 * time.Millisecond,
		})
		elapsed := time.Since(start)

		require.Error(t, err)
		assert.Less(t, elapsed, time.Second)
		assert.Nil(t, envelope)
		assert.ErrorIs(t, err, core.ErrTimeout)
		var timeoutErr *core.TimeoutError
		require.ErrorAs(t, err, &timeoutErr)
		assert.InDelta(t, 0.05, timeoutErr.Seconds(), 1e-9)
		assert.Equal(t, "Request timed out after 0.05 seconds", timeoutErr.Error())
	})

	t.Run("Should fall back to the default timeout when none is given", func(t *testing.T) {
		exec := New(Config{DefaultTimeout: 30 * time.Second}, nil)
		assert.Equal(t, 30*time.Second, exec.DefaultTimeout())
		assert.Equal(t, DefaultTimeout, New(Config{}, nil).DefaultTimeout())
	})

	t.Run("Should reject invalid specs without touching the network", func(t *testing.T) {
		var hits atomic.Int32
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			hits.Add(1)
			w.WriteHeader(http.StatusOK)
		}))
		t.Cleanup(server.Close)
		exec := New(Config{}, nil)

		cases := []struct {
			spec  RequestSpec
			field string
		}{
			{RequestSpec{Method: "TRACE", URL: server.URL}, "method"},
			{RequestSpec{Method: "", URL: server.URL}, "method"},
			{RequestSpec{Method: "GET", URL: "  "}, "url"},
		}
		for _, tc := range cases {
			_, err := exec.Execute(t.Context(), tc.spec)

			require.Error(t, err)
			assert.ErrorIs(t, err, core.ErrValidation)
			var validationErr *core.ValidationError
			require.ErrorAs(t, err, &validationErr)
			assert.Equal(t, tc.field, validationErr.Field)
		}
		assert.Zero(t, hits.Load())
	})

	t.Run("Should wrap connection failures as network errors", func(t *testing.T) {
		server := httptest.NewServer(http.NotFoundHandler())
		url := server.URL
		server.Close()
		exec := New(Config{}, nil)

		_, err := exec.Execute(t.Context(), RequestSpec{Method: "GET", URL: url})

		require.Error(t, err)
		assert.ErrorIs(t, err, core.ErrNetwork)
		assert.NotErrorIs(t, err, core.ErrTimeout)
	})

	t.Run("Should treat parent cancellation as a network error", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			<-r.Context().Done()
		}))
		t.Cleanup(server.Close)
		exec := New(Config{}, nil)
		ctx, cancel := context.WithCancel(t.Context())
		time.AfterFunc(20*time.Millisecond, cancel)

		_, err := exec.Execute(ctx, RequestSpec{Method: "GET", URL: server.URL, Timeout: 5 * time.Second})

		require.Error(t, err)
		assert.ErrorIs(t, err, core.ErrNetwork)
	})
}

func TestStatusText(t *testing.T) {
	t.Run("Should strip the numeric code", func(t *testing.T) {
		assert.Equal(t, "Created", statusText(201, "201 Created"))
		assert.Equal(t, "Bad Gateway", statusText(502, "502"))
	})
}
