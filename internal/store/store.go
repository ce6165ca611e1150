// Package store holds the MongoDB-backed collections of the storefront. Every
// document is addressed by its string "id" field; Mongo's own _id is never
// exposed.
package store

import (
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	ProductsCollection = "products"
	ReviewsCollection  = "reviews"
	OrdersCollection   = "orders"
	SettingsCollection = "settings"
)

// hideMongoID keeps _id out of decoded documents.
var hideMongoID = bson.D{{Key: "_id", Value: 0}}

func byID(id string) bson.M {
	return bson.M{"id": id}
}

func newestFirst(limit int64) *options.FindOptions {
	return options.Find().
		SetProjection(hideMongoID).
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetLimit(limit)
}
