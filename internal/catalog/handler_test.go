// AngelaMos | 2026
// handler_test.go

package catalog

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func passthrough(next http.Handler) http.Handler { return next }

func newTestRouter(repo *fakeRepo) *chi.Mux {
	handler := NewHandler(NewService(repo))
	router := chi.NewRouter()
	handler.RegisterRoutes(router, passthrough, passthrough, passthrough)
	return router
}

func doGet(router http.Handler, path string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestListProductsEndpoint(t *testing.T) {
	router := newTestRouter(newFakeRepo(
		Product{ID: 1, Name: "Espresso Cup", PriceCents: 1250, Stock: 10},
		Product{ID: 2, Name: "Drip Kettle", PriceCents: 6400, Stock: 3},
	))

	rec := doGet(router, "/products")
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Data       []ProductResponse `json:"data"`
		Page       int               `json:"page"`
		PageSize   int               `json:"page_size"`
		Total      int               `json:"total"`
		TotalPages int               `json:"total_pages"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))

	assert.Len(t, body.Data, 2)
	assert.Equal(t, 1, body.Page)
	assert.Equal(t, 20, body.PageSize)
	assert.Equal(t, 2, body.Total)
	assert.Equal(t, 1, body.TotalPages)
}

// Pagination bounds are clamped before dispatch, so the reported metadata
// matches the rows actually returned.
func TestListProductsEndpointClampsPagination(t *testing.T) {
	router := newTestRouter(newFakeRepo(
		Product{ID: 1, Name: "Espresso Cup", PriceCents: 1250, Stock: 10},
	))

	rec := doGet(router, "/products?page=0&page_size=500")
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Page       int `json:"page"`
		PageSize   int `json:"page_size"`
		TotalPages int `json:"total_pages"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))

	assert.Equal(t, 1, body.Page)
	assert.Equal(t, 100, body.PageSize)
	assert.Equal(t, 1, body.TotalPages)
}

func TestGetProductEndpoint(t *testing.T) {
	router := newTestRouter(newFakeRepo(
		Product{ID: 1, Name: "Espresso Cup", PriceCents: 1250, Stock: 10},
	))

	rec := doGet(router, "/products/1")
	require.Equal(t, http.StatusOK, rec.Code)

	var product ProductResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &product))
	assert.Equal(t, "Espresso Cup", product.Name)

	rec = doGet(router, "/products/999")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = doGet(router, "/products/zero")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
