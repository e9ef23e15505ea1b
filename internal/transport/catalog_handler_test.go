package transport

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"ecostore/internal/catalog"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newCatalogTestRouter(t *testing.T) http.Handler {
	t.Helper()

	store, err := catalog.Load()
	require.NoError(t, err)

	router := chi.NewRouter()
	NewCatalogHandler(store, zap.NewNop()).RegisterRoutes(router)
	return router
}

func doGet(t *testing.T, handler http.Handler, path string) *httptest.ResponseRecorder {
	t.Helper()
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest("GET", path, nil))
	return w
}

func TestListProducts(t *testing.T) {
	router := newCatalogTestRouter(t)

	w := doGet(t, router, "/api/products")
	require.Equal(t, http.StatusOK, w.Code)

	var resp ProductListResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Len(t, resp.Products, 12)
	assert.Equal(t, 12, resp.Count)
}

func TestListProductsFiltered(t *testing.T) {
	router := newCatalogTestRouter(t)

	w := doGet(t, router, "/api/products?category=electronics&sort=price-low-high")
	require.Equal(t, http.StatusOK, w.Code)

	var resp ProductListResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Products)
	for _, p := range resp.Products {
		assert.Equal(t, "electronics", p.CategoryID)
	}
	for i := 1; i < len(resp.Products); i++ {
		assert.LessOrEqual(t, resp.Products[i-1].EffectivePrice(), resp.Products[i].EffectivePrice())
	}
}

func TestListProductsEmptyResultIsOK(t *testing.T) {
	router := newCatalogTestRouter(t)

	w := doGet(t, router, "/api/products?category=electronics&brand=NoSuchBrand")
	require.Equal(t, http.StatusOK, w.Code)

	var resp ProductListResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Empty(t, resp.Products)
	assert.Zero(t, resp.Count)
}

func TestGetProductIncludesRelated(t *testing.T) {
	router := newCatalogTestRouter(t)

	w := doGet(t, router, "/api/products/1")
	require.Equal(t, http.StatusOK, w.Code)

	var resp ProductResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "1", resp.Product.ID)
	assert.LessOrEqual(t, len(resp.Related), relatedProductsLimit)
	for _, p := range resp.Related {
		assert.NotEqual(t, "1", p.ID, "a product must not be related to itself")
		assert.Equal(t, resp.Product.CategoryID, p.CategoryID)
	}
}

func TestGetProductNotFound(t *testing.T) {
	router := newCatalogTestRouter(t)
	w := doGet(t, router, "/api/products/404")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestListCategories(t *testing.T) {
	router := newCatalogTestRouter(t)

	w := doGet(t, router, "/api/categories")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "electronics")
}

func TestGetCategoryNotFound(t *testing.T) {
	router := newCatalogTestRouter(t)
	w := doGet(t, router, "/api/categories/no-such-category")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestProductsByCategory(t *testing.T) {
	router := newCatalogTestRouter(t)

	w := doGet(t, router, "/api/categories/clothing/products")
	require.Equal(t, http.StatusOK, w.Code)

	var resp ProductListResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Products)
	for _, p := range resp.Products {
		assert.Equal(t, "clothing", p.CategoryID)
	}
}

func TestCuratedProductViews(t *testing.T) {
	router := newCatalogTestRouter(t)

	for _, tc := range []struct {
		path  string
		check func(t *testing.T, resp ProductListResponse)
	}{
		{"/api/products/featured", func(t *testing.T, resp ProductListResponse) {
			for _, p := range resp.Products {
				assert.True(t, p.Featured)
			}
		}},
		{"/api/products/new-arrivals", func(t *testing.T, resp ProductListResponse) {
			for _, p := range resp.Products {
				assert.True(t, p.IsNew)
			}
		}},
		{"/api/products/deals", func(t *testing.T, resp ProductListResponse) {
			for _, p := range resp.Products {
				assert.Positive(t, p.Discount)
			}
		}},
	} {
		t.Run(tc.path, func(t *testing.T) {
			w := doGet(t, router, tc.path)
			require.Equal(t, http.StatusOK, w.Code)

			var resp ProductListResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			require.NotEmpty(t, resp.Products)
			tc.check(t, resp)
		})
	}
}

func TestListBrands(t *testing.T) {
	router := newCatalogTestRouter(t)

	w := doGet(t, router, "/api/brands")
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Brands []string `json:"brands"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Brands)

	seen := make(map[string]bool)
	for _, b := range resp.Brands {
		assert.False(t, seen[b], "brand %q listed twice", b)
		seen[b] = true
	}
}
