package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// TimestampLayout matches the ISO-8601 form already stored by the storefront
// (UTC, microseconds, explicit +00:00 offset).
const TimestampLayout = "2006-01-02T15:04:05.000000-07:00"

// DefaultCategory is assigned when a product is created without a category.
const DefaultCategory = "shirts"

func Timestamp(t time.Time) string {
	return t.UTC().Format(TimestampLayout)
}

func NewID() string {
	return uuid.NewString()
}

type ProductImage struct {
	URL string `bson:"url" json:"url"`
	Alt string `bson:"alt" json:"alt"`
}

// ProductVariant is the color-specific stock record of a product. Sizes maps
// a size label ("S", "M", ...) to the units in stock.
type ProductVariant struct {
	Color     string         `bson:"color" json:"color"`
	ColorCode string         `bson:"color_code" json:"color_code"`
	Sizes     map[string]int `bson:"sizes" json:"sizes"`
}

type Product struct {
	ID          string           `bson:"id" json:"id"`
	Name        string           `bson:"name" json:"name"`
	Description string           `bson:"description" json:"description"`
	Price       float64          `bson:"price" json:"price"`
	Images      []ProductImage   `bson:"images" json:"images"`
	Variants    []ProductVariant `bson:"variants" json:"variants"`
	Category    string           `bson:"category" json:"category"`
	Featured    bool             `bson:"featured" json:"featured"`
	CreatedAt   string           `bson:"created_at" json:"created_at"`
}

// TotalStock sums every size of every variant.
func (p Product) TotalStock() int {
	total := 0
	for _, variant := range p.Variants {
		for _, count := range variant.Sizes {
			total += count
		}
	}
	return total
}

// CheckStock rejects negative stock counts.
func (p Product) CheckStock() error {
	for _, variant := range p.Variants {
		for size, count := range variant.Sizes {
			if count < 0 {
				return fmt.Errorf("stock for %s/%s must be zero or greater", variant.Color, size)
			}
		}
	}
	return nil
}

// DecrementStock removes qty units of size from every variant with the given
// color. Counts never drop below zero and a size that is not listed is left
// alone. It reports whether any count was touched.
func (p *Product) DecrementStock(color, size string, qty int) bool {
	touched := false
	for i := range p.Variants {
		variant := &p.Variants[i]
		if variant.Color != color {
			continue
		}
		current, ok := variant.Sizes[size]
		if !ok {
			continue
		}
		next := current - qty
		if next < 0 {
			next = 0
		}
		variant.Sizes[size] = next
		touched = true
	}
	return touched
}
