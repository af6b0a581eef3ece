// AngelaMos | 2026
// handler_test.go

package health

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRouter(h *Handler) *chi.Mux {
	router := chi.NewRouter()
	h.RegisterRoutes(router)
	return router
}

func doGet(router http.Handler, path string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestLiveness(t *testing.T) {
	h := NewHandler()
	router := newTestRouter(h)

	rec := doGet(router, "/healthz")
	require.Equal(t, http.StatusOK, rec.Code)

	var body StatusResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "ok", body.Status)

	h.SetShutdown(true)
	rec = doGet(router, "/livez")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestReadiness(t *testing.T) {
	healthy := CheckerFunc(func(context.Context) error { return nil })
	failing := CheckerFunc(func(context.Context) error {
		return errors.New("connection refused")
	})

	t.Run("all checks pass", func(t *testing.T) {
		h := NewHandler()
		h.AddCheck("database", healthy)
		h.AddCheck("redis", healthy)

		rec := doGet(newTestRouter(h), "/readyz")
		require.Equal(t, http.StatusOK, rec.Code)

		var body ReadinessResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, "ok", body.Status)
		require.Len(t, body.Checks, 2)
		assert.Equal(t, "database", body.Checks[0].Name)
		assert.True(t, body.Checks[0].Healthy)
	})

	t.Run("one check fails", func(t *testing.T) {
		h := NewHandler()
		h.AddCheck("database", healthy)
		h.AddCheck("redis", failing)

		rec := doGet(newTestRouter(h), "/readyz")
		require.Equal(t, http.StatusServiceUnavailable, rec.Code)

		var body ReadinessResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, "degraded", body.Status)
	})

	t.Run("not ready", func(t *testing.T) {
		h := NewHandler()
		h.SetReady(false)

		rec := doGet(newTestRouter(h), "/readyz")
		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	})
}
