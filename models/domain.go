package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Domain records one registered domain. Written once per successful
// registrar call and never mutated afterward.
type Domain struct {
	ID               primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	AffiliateID      primitive.ObjectID `bson:"affiliateId,omitempty" json:"affiliateId,omitempty"`
	DomainName       string             `bson:"domainName" json:"domainName"`
	Years            int                `bson:"years" json:"years"`
	Status           string             `bson:"status" json:"status"`
	RegistrarOrderID string             `bson:"registrarOrderId,omitempty" json:"registrarOrderId,omitempty"`
	CreatedAt        time.Time          `bson:"createdAt" json:"createdAt"`
}

type DomainRegistrationRequest struct {
	DomainName    string `json:"domainName" validate:"required,fqdn"`
	Years         int    `json:"years" validate:"required,min=1,max=10"`
	ReferralCode  string `json:"referralCode,omitempty"`
	CustomerEmail string `json:"customerEmail" validate:"required,email"`
	CustomerName  string `json:"customerName" validate:"required"`
	Subdomain     string `json:"subdomain,omitempty"`
}
