package cache

import (
	"context"
	"fmt"
	"log"

	"golang.org/x/sync/singleflight"

	"storefront/internal/models"
)

const productsPattern = "products:*"

// Catalog is the product store being fronted.
type Catalog interface {
	Insert(ctx context.Context, product models.Product) error
	FindByID(ctx context.Context, id string) (models.Product, error)
	List(ctx context.Context, skip, limit int64) ([]models.Product, error)
	Featured(ctx context.Context, limit int64) ([]models.Product, error)
	Replace(ctx context.Context, id string, product models.Product) (models.Product, error)
	Delete(ctx context.Context, id string) error
	Count(ctx context.Context) (int64, error)
	DecrementStock(ctx context.Context, productID, color, size string, qty int) error
}

// CachedCatalog serves product reads from Redis and drops every cached
// product key after a write. Redis failures are logged and the store is
// used directly.
type CachedCatalog struct {
	Catalog
	cache *Cache
	group singleflight.Group
}

func NewCachedCatalog(catalog Catalog, cache *Cache) *CachedCatalog {
	return &CachedCatalog{Catalog: catalog, cache: cache}
}

func (c *CachedCatalog) FindByID(ctx context.Context, id string) (models.Product, error) {
	var product models.Product
	err := c.read(ctx, "products:id:"+id, &product, func() (interface{}, error) {
		return c.Catalog.FindByID(ctx, id)
	})
	return product, err
}

func (c *CachedCatalog) List(ctx context.Context, skip, limit int64) ([]models.Product, error) {
	var products []models.Product
	err := c.read(ctx, fmt.Sprintf("products:list:%d:%d", skip, limit), &products, func() (interface{}, error) {
		return c.Catalog.List(ctx, skip, limit)
	})
	return products, err
}

func (c *CachedCatalog) Featured(ctx context.Context, limit int64) ([]models.Product, error) {
	var products []models.Product
	err := c.read(ctx, fmt.Sprintf("products:featured:%d", limit), &products, func() (interface{}, error) {
		return c.Catalog.Featured(ctx, limit)
	})
	return products, err
}

func (c *CachedCatalog) Insert(ctx context.Context, product models.Product) error {
	if err := c.Catalog.Insert(ctx, product); err != nil {
		return err
	}
	c.invalidate(ctx)
	return nil
}

func (c *CachedCatalog) Replace(ctx context.Context, id string, product models.Product) (models.Product, error) {
	updated, err := c.Catalog.Replace(ctx, id, product)
	if err != nil {
		return models.Product{}, err
	}
	c.invalidate(ctx)
	return updated, nil
}

func (c *CachedCatalog) Delete(ctx context.Context, id string) error {
	if err := c.Catalog.Delete(ctx, id); err != nil {
		return err
	}
	c.invalidate(ctx)
	return nil
}

func (c *CachedCatalog) DecrementStock(ctx context.Context, productID, color, size string, qty int) error {
	if err := c.Catalog.DecrementStock(ctx, productID, color, size, qty); err != nil {
		return err
	}
	c.invalidate(ctx)
	return nil
}

// read fills dest from the cache, or loads it once per key across concurrent
// callers and caches the result.
func (c *CachedCatalog) read(ctx context.Context, key string, dest interface{}, load func() (interface{}, error)) error {
	hit, err := c.cache.Get(ctx, key, dest)
	if err != nil {
		log.Printf("[CACHE] [WARN] get %s: %v", key, err)
	}
	if hit {
		return nil
	}

	value, err, _ := c.group.Do(key, func() (interface{}, error) {
		loaded, err := load()
		if err != nil {
			return nil, err
		}
		if err := c.cache.Set(ctx, key, loaded); err != nil {
			log.Printf("[CACHE] [WARN] set %s: %v", key, err)
		}
		return loaded, nil
	})
	if err != nil {
		return err
	}

	switch out := dest.(type) {
	case *models.Product:
		*out = value.(models.Product)
	case *[]models.Product:
		*out = value.([]models.Product)
	default:
		return fmt.Errorf("cache: unsupported destination %T", dest)
	}
	return nil
}

func (c *CachedCatalog) invalidate(ctx context.Context) {
	if err := c.cache.DeletePattern(ctx, productsPattern); err != nil {
		log.Printf("[CACHE] [WARN] invalidate products: %v", err)
	}
}
