package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"time"

	gfshutdown "github.com/gelmium/graceful-shutdown"
	"github.com/gin-gonic/gin"

	"storefront/internal/analytics"
	"storefront/internal/auth"
	"storefront/internal/cache"
	"storefront/internal/config"
	"storefront/internal/database"
	"storefront/internal/handlers"
	"storefront/internal/middleware"
	"storefront/internal/orders"
	"storefront/internal/payment"
	"storefront/internal/store"
	"storefront/internal/uploads"
)

const uploadsRoute = "/uploads"

func main() {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatal(err)
	}

	client, err := database.Connect(cfg.MongoURI)
	if err != nil {
		log.Fatal(err)
	}

	db := client.Database(cfg.DBName)
	log.Println("MongoDB connected to:", db.Name())

	if err := database.EnsureIndexes(db); err != nil {
		log.Printf("[DB] [WARN] index warning: %v", err)
	}

	products := store.NewProducts(db)
	var catalog cache.Catalog = products
	var catalogCache *cache.Cache
	if cfg.RedisAddr != "" {
		ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		redisClient, err := cache.Dial(ctx, cfg.RedisAddr)
		cancel()
		if err != nil {
			log.Printf("[CACHE] [WARN] catalog cache disabled: %v", err)
		} else {
			catalogCache = cache.New(redisClient, "storefront:", cfg.CacheTTL)
			catalog = cache.NewCachedCatalog(products, catalogCache)
			log.Println("[CACHE] [INFO] catalog cache enabled at", cfg.RedisAddr)
		}
	}

	orderStore := store.NewOrders(db)
	gateway := payment.NewRazorpay(cfg.RazorpayKeyID, cfg.RazorpayKeySecret, cfg.RazorpayBaseURL, cfg.GatewayTimeout)

	storage, localDir, err := newStorage(cfg)
	if err != nil {
		log.Fatal(err)
	}

	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery(), middleware.CORS(cfg.CORSOrigins))
	r.MaxMultipartMemory = 8 << 20
	if localDir != "" {
		r.Static(uploadsRoute, localDir)
	}

	handlers.Register(r.Group("/api"), handlers.Dependencies{
		DB:          database.Health{Client: client},
		Catalog:     catalog,
		Reviews:     store.NewReviews(db),
		Settings:    store.NewSettings(db),
		Orders:      orders.NewService(orderStore, catalog, gateway, cfg.PaymentCurrency),
		Analytics:   analytics.NewService(orderStore, products),
		Uploads:     uploads.NewService(storage),
		Verifier:    newVerifier(cfg),
		AuthTimeout: cfg.IdentityTimeout,
	})

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       60 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	go func() {
		log.Println("[HTTP] [INFO] listening on", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal(err)
		}
	}()

	wait := gfshutdown.GracefulShutdown(
		context.Background(),
		cfg.ShutdownTimeout,
		map[string]gfshutdown.Operation{
			"storefront": func(ctx context.Context) error {
				log.Println("[HTTP] [INFO] shutting down")
				err := server.Shutdown(ctx)
				if catalogCache != nil {
					err = errors.Join(err, catalogCache.Close())
				}
				return errors.Join(err, client.Disconnect(ctx))
			},
		},
	)

	exitCode := <-wait
	log.Printf("exited with code: %d", exitCode)
	os.Exit(exitCode)
}

func newVerifier(cfg config.Config) auth.Verifier {
	if cfg.FirebaseProjectID != "" {
		log.Println("[AUTH] [INFO] verifying Firebase ID tokens for project", cfg.FirebaseProjectID)
		return auth.NewFirebaseVerifier(cfg.FirebaseProjectID, cfg.IdentityTimeout)
	}
	log.Println("[AUTH] [WARN] FIREBASE_PROJECT_ID not set, accepting HS256 tokens signed with IDENTITY_JWT_SECRET")
	return auth.NewHMACVerifier(cfg.IdentitySecret)
}

// newStorage picks S3 when a bucket is configured and local disk otherwise.
// The returned directory is non-empty only for disk storage.
func newStorage(cfg config.Config) (uploads.Storage, string, error) {
	if cfg.UploadBucket == "" {
		disk := uploads.NewDiskStorage(cfg.UploadDir, uploadsRoute)
		log.Println("[UPLOAD] [INFO] storing uploads in", disk.Root())
		return disk, disk.Root(), nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	s3Storage, err := uploads.NewS3Storage(ctx, uploads.S3Options{
		Bucket:          cfg.UploadBucket,
		Region:          cfg.UploadRegion,
		Endpoint:        cfg.UploadEndpoint,
		PublicURL:       cfg.UploadPublicURL,
		AccessKeyID:     cfg.UploadAccessKey,
		SecretAccessKey: cfg.UploadSecretKey,
	})
	if err != nil {
		return nil, "", err
	}
	log.Println("[UPLOAD] [INFO] storing uploads in bucket", cfg.UploadBucket)
	return s3Storage, "", nil
}
