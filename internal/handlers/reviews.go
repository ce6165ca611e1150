package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"storefront/internal/middleware"
	"storefront/internal/models"
)

const reviewListLimit = 1000

type ReviewStore interface {
	Insert(ctx context.Context, review models.Review) error
	ListByProduct(ctx context.Context, productID string, limit int64) ([]models.Review, error)
}

type reviewInput struct {
	ProductID string `json:"product_id" binding:"required"`
	Rating    int    `json:"rating" binding:"required,min=1,max=5"`
	Comment   string `json:"comment"`
}

// CreateReview stores a review under the caller's identity. The product is
// not looked up.
func CreateReview(db Pinger, reviews ReviewStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /reviews"
		defer handlePanic(c, route)

		if err := ensureDBConnection(c.Request.Context(), db); err != nil {
			respondWithError(c, http.StatusServiceUnavailable, route, "database unavailable")
			return
		}

		identity, ok := middleware.IdentityFrom(c)
		if !ok {
			respondWithError(c, http.StatusUnauthorized, route, "unauthorized")
			return
		}

		var in reviewInput
		if err := c.ShouldBindJSON(&in); err != nil {
			respondValidationError(c, route, err)
			return
		}

		userName := identity.DisplayName()
		if userName == "" {
			userName = models.AnonymousReviewer
		}
		review := models.Review{
			ID:        models.NewID(),
			ProductID: in.ProductID,
			UserID:    identity.Subject,
			UserName:  userName,
			Rating:    in.Rating,
			Comment:   in.Comment,
			CreatedAt: models.Timestamp(time.Now()),
		}

		ctx, cancel := requestContext(c)
		defer cancel()

		if err := reviews.Insert(ctx, review); err != nil {
			respondStoreError(c, route, err, "")
			return
		}
		c.JSON(http.StatusOK, review)
	}
}

func GetProductReviews(db Pinger, reviews ReviewStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /reviews/:product_id"
		defer handlePanic(c, route)

		if err := ensureDBConnection(c.Request.Context(), db); err != nil {
			respondWithError(c, http.StatusServiceUnavailable, route, "database unavailable")
			return
		}

		ctx, cancel := requestContext(c)
		defer cancel()

		list, err := reviews.ListByProduct(ctx, c.Param("product_id"), reviewListLimit)
		if err != nil {
			respondStoreError(c, route, err, "")
			return
		}
		c.JSON(http.StatusOK, list)
	}
}
