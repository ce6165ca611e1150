package handlers

import (
	"context"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"storefront/internal/models"
)

const (
	productListLimit     = 1000
	featuredProductLimit = 100
)

type Catalog interface {
	Insert(ctx context.Context, product models.Product) error
	FindByID(ctx context.Context, id string) (models.Product, error)
	List(ctx context.Context, skip, limit int64) ([]models.Product, error)
	Featured(ctx context.Context, limit int64) ([]models.Product, error)
	Replace(ctx context.Context, id string, product models.Product) (models.Product, error)
	Delete(ctx context.Context, id string) error
}

type productInput struct {
	Name        string                  `json:"name" binding:"required"`
	Description string                  `json:"description"`
	Price       float64                 `json:"price" binding:"gte=0"`
	Images      []models.ProductImage   `json:"images"`
	Variants    []models.ProductVariant `json:"variants" binding:"dive"`
	Category    string                  `json:"category"`
	Featured    bool                    `json:"featured"`
}

func (in productInput) product() models.Product {
	category := strings.TrimSpace(in.Category)
	if category == "" {
		category = models.DefaultCategory
	}
	images := in.Images
	if images == nil {
		images = []models.ProductImage{}
	}
	variants := in.Variants
	if variants == nil {
		variants = []models.ProductVariant{}
	}
	return models.Product{
		Name:        strings.TrimSpace(in.Name),
		Description: in.Description,
		Price:       in.Price,
		Images:      images,
		Variants:    variants,
		Category:    category,
		Featured:    in.Featured,
	}
}

func bindProduct(c *gin.Context, route string) (models.Product, bool) {
	var in productInput
	if err := c.ShouldBindJSON(&in); err != nil {
		respondValidationError(c, route, err)
		return models.Product{}, false
	}
	product := in.product()
	if err := product.CheckStock(); err != nil {
		respondWithError(c, http.StatusBadRequest, route, err.Error())
		return models.Product{}, false
	}
	return product, true
}

func CreateProduct(db Pinger, catalog Catalog) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /products"
		defer handlePanic(c, route)

		if err := ensureDBConnection(c.Request.Context(), db); err != nil {
			respondWithError(c, http.StatusServiceUnavailable, route, "database unavailable")
			return
		}

		product, ok := bindProduct(c, route)
		if !ok {
			return
		}
		product.ID = models.NewID()
		product.CreatedAt = models.Timestamp(time.Now())

		ctx, cancel := requestContext(c)
		defer cancel()

		if err := catalog.Insert(ctx, product); err != nil {
			respondStoreError(c, route, err, "")
			return
		}

		log.Printf("[PRODUCT] [INFO] product %s created", product.ID)
		c.JSON(http.StatusOK, product)
	}
}

// GetProducts lists the catalog. page and limit are optional; without them
// the first 1000 products are returned.
func GetProducts(db Pinger, catalog Catalog) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /products"
		defer handlePanic(c, route)

		if err := ensureDBConnection(c.Request.Context(), db); err != nil {
			respondWithError(c, http.StatusServiceUnavailable, route, "database unavailable")
			return
		}

		skip, limit := int64(0), int64(productListLimit)
		pageStr, limitStr := c.Query("page"), c.Query("limit")
		if pageStr != "" || limitStr != "" {
			var err error
			skip, limit, err = parsePaginationParams(pageStr, limitStr)
			if err != nil {
				respondWithError(c, http.StatusBadRequest, route, err.Error())
				return
			}
		}

		ctx, cancel := requestContext(c)
		defer cancel()

		products, err := catalog.List(ctx, skip, limit)
		if err != nil {
			respondStoreError(c, route, err, "")
			return
		}
		c.JSON(http.StatusOK, products)
	}
}

func GetFeaturedProducts(db Pinger, catalog Catalog) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /products/featured"
		defer handlePanic(c, route)

		if err := ensureDBConnection(c.Request.Context(), db); err != nil {
			respondWithError(c, http.StatusServiceUnavailable, route, "database unavailable")
			return
		}

		ctx, cancel := requestContext(c)
		defer cancel()

		products, err := catalog.Featured(ctx, featuredProductLimit)
		if err != nil {
			respondStoreError(c, route, err, "")
			return
		}
		c.JSON(http.StatusOK, products)
	}
}

func GetProduct(db Pinger, catalog Catalog) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /products/:id"
		defer handlePanic(c, route)

		if err := ensureDBConnection(c.Request.Context(), db); err != nil {
			respondWithError(c, http.StatusServiceUnavailable, route, "database unavailable")
			return
		}

		ctx, cancel := requestContext(c)
		defer cancel()

		product, err := catalog.FindByID(ctx, c.Param("id"))
		if err != nil {
			respondStoreError(c, route, err, "Product not found")
			return
		}
		c.JSON(http.StatusOK, product)
	}
}

func UpdateProduct(db Pinger, catalog Catalog) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "PUT /products/:id"
		defer handlePanic(c, route)

		if err := ensureDBConnection(c.Request.Context(), db); err != nil {
			respondWithError(c, http.StatusServiceUnavailable, route, "database unavailable")
			return
		}

		product, ok := bindProduct(c, route)
		if !ok {
			return
		}

		ctx, cancel := requestContext(c)
		defer cancel()

		updated, err := catalog.Replace(ctx, c.Param("id"), product)
		if err != nil {
			respondStoreError(c, route, err, "Product not found")
			return
		}

		log.Printf("[PRODUCT] [INFO] product %s updated", updated.ID)
		c.JSON(http.StatusOK, updated)
	}
}

func DeleteProduct(db Pinger, catalog Catalog) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "DELETE /products/:id"
		defer handlePanic(c, route)

		if err := ensureDBConnection(c.Request.Context(), db); err != nil {
			respondWithError(c, http.StatusServiceUnavailable, route, "database unavailable")
			return
		}

		ctx, cancel := requestContext(c)
		defer cancel()

		id := c.Param("id")
		if err := catalog.Delete(ctx, id); err != nil {
			respondStoreError(c, route, err, "Product not found")
			return
		}

		log.Printf("[PRODUCT] [INFO] product %s deleted", id)
		c.JSON(http.StatusOK, gin.H{"message": "Product deleted successfully"})
	}
}
