package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Lead links a customer to the affiliate whose code they arrived with.
type Lead struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	AffiliateID   primitive.ObjectID `bson:"affiliateId" json:"affiliateId"`
	CustomerEmail string             `bson:"customerEmail" json:"customerEmail"`
	CustomerName  string             `bson:"customerName" json:"customerName"`
	Source        string             `bson:"source,omitempty" json:"source,omitempty"`
	CreatedAt     time.Time          `bson:"createdAt" json:"createdAt"`
}

// Message is a contact-form submission.
type Message struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name      string             `bson:"name" json:"name"`
	Email     string             `bson:"email" json:"email"`
	Subject   string             `bson:"subject,omitempty" json:"subject,omitempty"`
	Body      string             `bson:"body" json:"body"`
	IsRead    bool               `bson:"isRead" json:"isRead"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
}

type MessageRequest struct {
	Name    string `json:"name" validate:"required"`
	Email   string `json:"email" validate:"required,email"`
	Subject string `json:"subject"`
	Body    string `json:"body" validate:"required"`
}

// BlogPost is marketing content managed by admins.
type BlogPost struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Title     string             `bson:"title" json:"title"`
	Slug      string             `bson:"slug" json:"slug"`
	Body      string             `bson:"body" json:"body"`
	Published bool               `bson:"published" json:"published"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time          `bson:"updatedAt" json:"updatedAt"`
}

type BlogPostRequest struct {
	Title     string `json:"title" validate:"required"`
	Slug      string `json:"slug" validate:"required"`
	Body      string `json:"body" validate:"required"`
	Published bool   `json:"published"`
}
