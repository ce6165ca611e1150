package models

// AnonymousReviewer is recorded when the identity carries neither a name nor
// an email.
const AnonymousReviewer = "Anonymous"

type Review struct {
	ID        string `bson:"id" json:"id"`
	ProductID string `bson:"product_id" json:"product_id"`
	UserID    string `bson:"user_id" json:"user_id"`
	UserName  string `bson:"user_name" json:"user_name"`
	Rating    int    `bson:"rating" json:"rating"`
	Comment   string `bson:"comment" json:"comment"`
	CreatedAt string `bson:"created_at" json:"created_at"`
}
