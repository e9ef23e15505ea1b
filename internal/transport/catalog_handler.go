package transport

import (
	"errors"
	"net/http"

	"ecostore/internal/catalog"
	"ecostore/internal/domain"
	"ecostore/internal/filter"
	"ecostore/internal/middleware"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

const relatedProductsLimit = 4

// ProductListResponse carries a filtered product list plus a count for
// display.
type ProductListResponse struct {
	Products []domain.Product `json:"products"`
	Count    int              `json:"count"`
}

// ProductResponse carries one product and its related products.
type ProductResponse struct {
	Product domain.Product   `json:"product"`
	Related []domain.Product `json:"related"`
}

// CategoryResponse carries one category.
type CategoryResponse struct {
	Category domain.Category `json:"category"`
}

// BrandListResponse carries the unique brand names across the catalog.
type BrandListResponse struct {
	Brands []string `json:"brands"`
}

// CatalogHandler handles HTTP requests for catalog browsing
type CatalogHandler struct {
	catalog *catalog.Store
	logger  *zap.Logger
}

// NewCatalogHandler creates a new CatalogHandler
func NewCatalogHandler(store *catalog.Store, logger *zap.Logger) *CatalogHandler {
	return &CatalogHandler{
		catalog: store,
		logger:  logger,
	}
}

// RegisterRoutes registers all catalog routes
func (h *CatalogHandler) RegisterRoutes(r chi.Router) {
	r.Route("/api", func(r chi.Router) {
		r.Get("/products", h.ListProducts)
		r.Get("/products/featured", h.Featured)
		r.Get("/products/new-arrivals", h.NewArrivals)
		r.Get("/products/deals", h.Discounted)
		r.Get("/products/{productID}", h.GetProduct)
		r.Get("/categories", h.ListCategories)
		r.Get("/categories/{categoryID}", h.GetCategory)
		r.Get("/categories/{categoryID}/products", h.ProductsByCategory)
		r.Get("/brands", h.ListBrands)
	})
}

// ListProducts returns the catalog filtered and sorted by the query
// parameters. An empty result is a normal response, not an error.
func (h *CatalogHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	criteria, err := filter.ParseQuery(r.URL.Query())
	if err != nil {
		h.logger.Debug("Invalid filter criteria", zap.Error(err))
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid filter parameters")
		return
	}

	products := filter.Apply(h.catalog.Products(), criteria)
	middleware.RespondWithJSON(w, http.StatusOK, ProductListResponse{
		Products: products,
		Count:    len(products),
	})
}

// Featured returns products flagged as featured
func (h *CatalogHandler) Featured(w http.ResponseWriter, r *http.Request) {
	respondWithProducts(w, h.catalog.Featured())
}

// NewArrivals returns products flagged as new
func (h *CatalogHandler) NewArrivals(w http.ResponseWriter, r *http.Request) {
	respondWithProducts(w, h.catalog.NewArrivals())
}

// Discounted returns products with an active discount
func (h *CatalogHandler) Discounted(w http.ResponseWriter, r *http.Request) {
	respondWithProducts(w, h.catalog.Discounted())
}

// GetProduct returns one product with its related products, or a 404
// not-found response.
func (h *CatalogHandler) GetProduct(w http.ResponseWriter, r *http.Request) {
	productID := chi.URLParam(r, "productID")

	product, err := h.catalog.ProductByID(productID)
	if err != nil {
		if errors.Is(err, catalog.ErrProductNotFound) {
			middleware.RespondWithError(w, http.StatusNotFound, "product not found")
			return
		}
		h.logger.Error("Failed to look up product", zap.Error(err), zap.String("product_id", productID))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to look up product")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, ProductResponse{
		Product: *product,
		Related: h.catalog.Related(product.ID, product.CategoryID, relatedProductsLimit),
	})
}

// ListCategories returns all categories in catalog order
func (h *CatalogHandler) ListCategories(w http.ResponseWriter, r *http.Request) {
	middleware.RespondWithJSON(w, http.StatusOK, h.catalog.Categories())
}

// GetCategory returns one category or a 404 not-found response
func (h *CatalogHandler) GetCategory(w http.ResponseWriter, r *http.Request) {
	categoryID := chi.URLParam(r, "categoryID")

	category, err := h.catalog.CategoryByID(categoryID)
	if err != nil {
		if errors.Is(err, catalog.ErrCategoryNotFound) {
			middleware.RespondWithError(w, http.StatusNotFound, "category not found")
			return
		}
		h.logger.Error("Failed to look up category", zap.Error(err), zap.String("category_id", categoryID))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to look up category")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, CategoryResponse{Category: *category})
}

// ProductsByCategory returns the products in a category. An unknown
// category id yields an empty list.
func (h *CatalogHandler) ProductsByCategory(w http.ResponseWriter, r *http.Request) {
	categoryID := chi.URLParam(r, "categoryID")
	respondWithProducts(w, h.catalog.ByCategory(categoryID))
}

// ListBrands returns the unique brand names across the catalog
func (h *CatalogHandler) ListBrands(w http.ResponseWriter, r *http.Request) {
	middleware.RespondWithJSON(w, http.StatusOK, BrandListResponse{Brands: h.catalog.Brands()})
}

func respondWithProducts(w http.ResponseWriter, products []domain.Product) {
	middleware.RespondWithJSON(w, http.StatusOK, ProductListResponse{
		Products: products,
		Count:    len(products),
	})
}
