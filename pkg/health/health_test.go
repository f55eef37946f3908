package health_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/restify/pkg/health"
)

func TestRun(t *testing.T) {
	t.Parallel()

	t.Run("no checks is healthy", func(t *testing.T) {
		t.Parallel()

		report := health.Run(context.Background(), nil)
		require.True(t, report.Healthy())
		require.Empty(t, report.Checks)
	})

	t.Run("one failure marks the report unhealthy", func(t *testing.T) {
		t.Parallel()

		report := health.Run(context.Background(), health.Checks{
			"ok":   func(context.Context) error { return nil },
			"down": func(context.Context) error { return errors.New("connection refused") },
		})
		require.False(t, report.Healthy())
		require.Equal(t, health.StatusHealthy, report.Checks["ok"].Status)
		require.Equal(t, health.StatusUnhealthy, report.Checks["down"].Status)
		require.Equal(t, "connection refused", report.Checks["down"].Error)
	})

	t.Run("slow check times out", func(t *testing.T) {
		t.Parallel()

		report := health.Run(context.Background(), health.Checks{
			"slow": func(ctx context.Context) error {
				<-ctx.Done()
				return ctx.Err()
			},
		}, health.WithTimeout(10*time.Millisecond))
		require.False(t, report.Healthy())
		require.Contains(t, report.Checks["slow"].Error, health.ErrCheckTimeout.Error())
	})
}

func TestMount(t *testing.T) {
	t.Parallel()

	r := chi.NewRouter()
	health.Mount(r, health.Checks{
		"down": func(context.Context) error { return errors.New("nope") },
	})

	t.Run("liveness plain text", func(t *testing.T) {
		t.Parallel()

		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, health.LivePath, nil))
		require.Equal(t, http.StatusOK, rec.Code)
		require.Equal(t, "OK", rec.Body.String())
	})

	t.Run("readiness plain text", func(t *testing.T) {
		t.Parallel()

		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, health.ReadyPath, nil))
		require.Equal(t, http.StatusServiceUnavailable, rec.Code)
		require.Equal(t, "Service Unavailable", rec.Body.String())
	})

	t.Run("readiness JSON", func(t *testing.T) {
		t.Parallel()

		req := httptest.NewRequest(http.MethodGet, health.ReadyPath, nil)
		req.Header.Set("Accept", "application/json")
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)

		var report health.Report
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &report))
		require.Equal(t, health.StatusUnhealthy, report.Status)
		require.Equal(t, "nope", report.Checks["down"].Error)
	})
}
