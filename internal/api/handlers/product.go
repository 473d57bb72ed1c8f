package handlers

import (
	"net/http"
	"strconv"

	"github.com/MarcosRG/bikesul-backend/internal/cache"
	"github.com/MarcosRG/bikesul-backend/internal/config"
	"github.com/MarcosRG/bikesul-backend/internal/logger"
	"github.com/MarcosRG/bikesul-backend/internal/models"
	"github.com/MarcosRG/bikesul-backend/internal/services/woocommerce"
	"github.com/MarcosRG/bikesul-backend/internal/store"

	"github.com/gin-gonic/gin"
)

const cacheControl = "public, max-age=60"

type ProductHandler struct {
	store       *store.Store
	transformer *woocommerce.Transformer
	cache       *cache.Cache
	config      *config.Config
	logger      *logger.Logger
}

func NewProductHandler(st *store.Store, transformer *woocommerce.Transformer, cache *cache.Cache, cfg *config.Config, logger *logger.Logger) *ProductHandler {
	return &ProductHandler{
		store:       st,
		transformer: transformer,
		cache:       cache,
		config:      cfg,
		logger:      logger,
	}
}

// List serves the canonical products of a category, optionally narrowed to
// a second category slug. Listings are cached for a minute.
func (h *ProductHandler) List(c *gin.Context) {
	categoryID := int64(h.config.RentalCategoryID)
	if raw := c.Query("category_id"); raw != "" {
		parsed, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid category id"})
			return
		}
		categoryID = parsed
	}
	slug := c.Query("slug")

	key := cache.ListKey(categoryID, slug)
	if products, ok := h.cache.GetProducts(c.Request.Context(), key); ok {
		c.Header("Cache-Control", cacheControl)
		c.JSON(http.StatusOK, gin.H{"data": products, "count": len(products)})
		return
	}

	rows, err := h.store.ListByCategory(categoryID, models.StatusPublish, slug)
	if err != nil {
		h.logger.Error("Failed to list products: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch products"})
		return
	}

	products := make([]models.CanonicalProduct, len(rows))
	for i := range rows {
		products[i] = h.transformer.ToCanonical(&rows[i])
	}

	h.cache.SetProducts(c.Request.Context(), key, products)

	c.Header("Cache-Control", cacheControl)
	c.JSON(http.StatusOK, gin.H{"data": products, "count": len(products)})
}

// Get serves one canonical product by external id or row id. Products
// outside the rental category read as not found.
func (h *ProductHandler) Get(c *gin.Context) {
	id := c.Param("id")

	row, err := h.store.GetByExternalOrRowID(id)
	if err != nil {
		if err == store.ErrNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
			return
		}
		h.logger.Error("Failed to fetch product %s: %v", id, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch product"})
		return
	}

	// An unparseable category list still serves a degraded record; only a
	// confirmed mismatch reads as not found.
	member, parseable := store.CategoryMembership(row.Categories, int64(h.config.RentalCategoryID))
	if parseable && !member {
		c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
		return
	}

	c.Header("Cache-Control", cacheControl)
	c.JSON(http.StatusOK, gin.H{"data": h.transformer.ToCanonical(row)})
}
