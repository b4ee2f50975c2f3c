package monitoring

import (
	"context"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMonitoringService(t *testing.T) {
	t.Run("Should create disabled service with default config when nil provided", func(t *testing.T) {
		service, err := NewMonitoringService(t.Context(), nil)

		require.NoError(t, err)
		assert.Equal(t, "/metrics", service.config.Path)
		assert.False(t, service.IsInitialized())
		assert.NotNil(t, service.Meter())
	})

	t.Run("Should fail with invalid config", func(t *testing.T) {
		service, err := NewMonitoringService(t.Context(), &Config{Enabled: true, Path: ""})

		require.Error(t, err)
		assert.Nil(t, service)
		assert.Contains(t, err.Error(), "monitoring path cannot be empty")
	})

	t.Run("Should require an address when enabled", func(t *testing.T) {
		_, err := NewMonitoringService(t.Context(), &Config{Enabled: true, Path: "/metrics"})

		require.Error(t, err)
		assert.Contains(t, err.Error(), "address is required")
	})

	t.Run("Should initialize with Prometheus exporter when enabled", func(t *testing.T) {
		service, err := NewMonitoringService(t.Context(), &Config{Enabled: true, Path: "/metrics", Addr: "127.0.0.1:0"})

		require.NoError(t, err)
		assert.True(t, service.IsInitialized())
		assert.NotNil(t, service.exporter)
		assert.NotNil(t, service.provider)
		require.NoError(t, service.Shutdown(t.Context()))
	})
}

func TestExporterHandler(t *testing.T) {
	t.Run("Should expose recorded instruments", func(t *testing.T) {
		service, err := NewMonitoringService(t.Context(), &Config{Enabled: true, Path: "/metrics", Addr: "127.0.0.1:0"})
		require.NoError(t, err)
		counter, err := service.Meter().Int64Counter("mobai_probe_events")
		require.NoError(t, err)
		counter.Add(t.Context(), 3)

		rec := httptest.NewRecorder()
		service.ExporterHandler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", http.NoBody))

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "mobai_probe_events")
	})

	t.Run("Should register exported series in the service registry", func(t *testing.T) {
		service, err := NewMonitoringService(t.Context(), &Config{Enabled: true, Path: "/metrics", Addr: "127.0.0.1:0"})
		require.NoError(t, err)
		counter, err := service.Meter().Int64Counter("mobai_probe_total")
		require.NoError(t, err)
		counter.Add(t.Context(), 2)

		count, err := testutil.GatherAndCount(service.registry, "mobai_probe_total")

		require.NoError(t, err)
		assert.Equal(t, 1, count)
	})

	t.Run("Should answer 503 when disabled", func(t *testing.T) {
		service, err := NewMonitoringService(t.Context(), nil)
		require.NoError(t, err)

		rec := httptest.NewRecorder()
		service.ExporterHandler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", http.NoBody))

		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	})
}

func TestService_Serve(t *testing.T) {
	t.Run("Should return immediately when disabled", func(t *testing.T) {
		service, err := NewMonitoringService(t.Context(), nil)
		require.NoError(t, err)

		assert.NoError(t, service.Serve(t.Context()))
	})

	t.Run("Should serve metrics until the context ends", func(t *testing.T) {
		listener, err := net.Listen("tcp", "127.0.0.1:0")
		require.NoError(t, err)
		addr := listener.Addr().String()
		require.NoError(t, listener.Close())
		service, err := NewMonitoringService(t.Context(), &Config{Enabled: true, Path: "/metrics", Addr: addr})
		require.NoError(t, err)
		ctx, cancel := context.WithCancel(t.Context())
		done := make(chan error, 1)
		go func() { done <- service.Serve(ctx) }()

		require.Eventually(t, func() bool {
			resp, err := http.Get("http://" + addr + "/metrics")
			if err != nil {
				return false
			}
			defer resp.Body.Close()
			_, _ = io.Copy(io.Discard, resp.Body)
			return resp.StatusCode == http.StatusOK
		}, 2*time.Second, 20*time.Millisecond)

		cancel()
		select {
		case err := <-done:
			assert.NoError(t, err)
		case <-time.After(2 * time.Second):
			t.Fatal("metrics server did not stop")
		}
	})
}
