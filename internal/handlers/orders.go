package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"storefront/internal/middleware"
	"storefront/internal/orders"
)

type statusInput struct {
	Status string `json:"status"`
}

func CreateRazorpayOrder(db Pinger, service *orders.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /orders/create-razorpay-order"
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

		var draft orders.Draft
		if err := c.ShouldBindJSON(&draft); err != nil {
			respondValidationError(c, route, err)
			return
		}

		ctx, cancel := requestContext(c)
		defer cancel()

		checkout, err := service.Create(ctx, draft, identity)
		if err != nil {
			var gatewayErr *orders.GatewayError
			if errors.As(err, &gatewayErr) {
				respondWithError(c, http.StatusBadRequest, route, gatewayErr.Error())
				return
			}
			respondStoreError(c, route, err, "")
			return
		}
		c.JSON(http.StatusOK, checkout)
	}
}

func VerifyPayment(db Pinger, service *orders.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /orders/verify-payment"
		defer handlePanic(c, route)

		if err := ensureDBConnection(c.Request.Context(), db); err != nil {
			respondWithError(c, http.StatusServiceUnavailable, route, "database unavailable")
			return
		}

		var verification orders.Verification
		if err := c.ShouldBindJSON(&verification); err != nil {
			respondValidationError(c, route, err)
			return
		}

		ctx, cancel := requestContext(c)
		defer cancel()

		if err := service.VerifyPayment(ctx, verification); err != nil {
			var paymentErr *orders.PaymentError
			if errors.As(err, &paymentErr) {
				respondWithError(c, http.StatusBadRequest, route, paymentErr.Error())
				return
			}
			respondStoreError(c, route, err, "Order not found")
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "message": "Payment verified successfully"})
	}
}

func GetMyOrders(db Pinger, service *orders.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /orders/my-orders"
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

		ctx, cancel := requestContext(c)
		defer cancel()

		list, err := service.ListForUser(ctx, identity)
		if err != nil {
			respondStoreError(c, route, err, "")
			return
		}
		c.JSON(http.StatusOK, list)
	}
}

// GetOrders lists every order. Any signed-in caller may use it; there is no
// role model yet.
func GetOrders(db Pinger, service *orders.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /orders"
		defer handlePanic(c, route)

		if err := ensureDBConnection(c.Request.Context(), db); err != nil {
			respondWithError(c, http.StatusServiceUnavailable, route, "database unavailable")
			return
		}

		ctx, cancel := requestContext(c)
		defer cancel()

		list, err := service.ListAll(ctx)
		if err != nil {
			respondStoreError(c, route, err, "")
			return
		}
		c.JSON(http.StatusOK, list)
	}
}

// UpdateOrderStatus reads the status from the query string, or from a JSON
// body when the query has none.
func UpdateOrderStatus(db Pinger, service *orders.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "PUT /orders/:id/status"
		defer handlePanic(c, route)

		if err := ensureDBConnection(c.Request.Context(), db); err != nil {
			respondWithError(c, http.StatusServiceUnavailable, route, "database unavailable")
			return
		}

		status := strings.TrimSpace(c.Query("status"))
		if status == "" && c.Request.ContentLength != 0 {
			var in statusInput
			if err := c.ShouldBindJSON(&in); err != nil {
				respondValidationError(c, route, err)
				return
			}
			status = strings.TrimSpace(in.Status)
		}

		ctx, cancel := requestContext(c)
		defer cancel()

		orderID := c.Param("id")
		if err := service.UpdateStatus(ctx, orderID, status); err != nil {
			if errors.Is(err, orders.ErrInvalidStatus) {
				respondWithError(c, http.StatusBadRequest, route, "Invalid status")
				return
			}
			respondStoreError(c, route, err, "Order not found")
			return
		}

		c.JSON(http.StatusOK, gin.H{"message": "Order status updated successfully"})
	}
}
