package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"storefront/internal/analytics"
)

func GetDashboard(db Pinger, service *analytics.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /analytics/dashboard"
		defer handlePanic(c, route)

		if err := ensureDBConnection(c.Request.Context(), db); err != nil {
			respondWithError(c, http.StatusServiceUnavailable, route, "database unavailable")
			return
		}

		ctx, cancel := requestContext(c)
		defer cancel()

		dashboard, err := service.Dashboard(ctx)
		if err != nil {
			respondStoreError(c, route, err, "")
			return
		}
		c.JSON(http.StatusOK, dashboard)
	}
}

func GetInventory(db Pinger, service *analytics.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /analytics/inventory"
		defer handlePanic(c, route)

		if err := ensureDBConnection(c.Request.Context(), db); err != nil {
			respondWithError(c, http.StatusServiceUnavailable, route, "database unavailable")
			return
		}

		ctx, cancel := requestContext(c)
		defer cancel()

		rows, err := service.Inventory(ctx)
		if err != nil {
			respondStoreError(c, route, err, "")
			return
		}
		c.JSON(http.StatusOK, rows)
	}
}
