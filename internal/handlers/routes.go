package handlers

import (
	"reflect"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"storefront/internal/analytics"
	"storefront/internal/auth"
	"storefront/internal/middleware"
	"storefront/internal/orders"
	"storefront/internal/uploads"
)

type Dependencies struct {
	DB          Pinger
	Catalog     Catalog
	Reviews     ReviewStore
	Settings    SettingsStore
	Orders      *orders.Service
	Analytics   *analytics.Service
	Uploads     *uploads.Service
	Verifier    auth.Verifier
	AuthTimeout time.Duration
}

var registerJSONNames sync.Once

// useJSONFieldNames makes validation errors name fields the way clients send
// them.
func useJSONFieldNames() {
	registerJSONNames.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		v.RegisterTagNameFunc(func(field reflect.StructField) string {
			name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
			if name == "-" || name == "" {
				return field.Name
			}
			return name
		})
	})
}

// Register mounts every storefront route on api. Reads of the catalog,
// reviews and landing page are public; everything else needs a bearer token.
func Register(api *gin.RouterGroup, deps Dependencies) {
	useJSONFieldNames()
	requireAuth := middleware.Auth(deps.Verifier, deps.AuthTimeout)
	db := deps.DB

	api.GET("/", Health())

	api.GET("/products", GetProducts(db, deps.Catalog))
	api.GET("/products/featured", GetFeaturedProducts(db, deps.Catalog))
	api.GET("/products/:id", GetProduct(db, deps.Catalog))
	api.GET("/reviews/:product_id", GetProductReviews(db, deps.Reviews))
	api.GET("/landing-page", GetLandingPage(db, deps.Settings))

	private := api.Group("")
	private.Use(requireAuth)
	{
		private.POST("/products", CreateProduct(db, deps.Catalog))
		private.PUT("/products/:id", UpdateProduct(db, deps.Catalog))
		private.DELETE("/products/:id", DeleteProduct(db, deps.Catalog))

		private.POST("/reviews", CreateReview(db, deps.Reviews))

		private.POST("/orders/create-razorpay-order", CreateRazorpayOrder(db, deps.Orders))
		private.POST("/orders/verify-payment", VerifyPayment(db, deps.Orders))
		private.GET("/orders/my-orders", GetMyOrders(db, deps.Orders))
		private.GET("/orders", GetOrders(db, deps.Orders))
		private.PUT("/orders/:id/status", UpdateOrderStatus(db, deps.Orders))

		private.GET("/analytics/dashboard", GetDashboard(db, deps.Analytics))
		private.GET("/analytics/inventory", GetInventory(db, deps.Analytics))

		private.PUT("/landing-page", UpdateLandingPage(db, deps.Settings))

		if deps.Uploads != nil {
			private.POST("/uploads", UploadMedia(deps.Uploads))
		}
	}
}
