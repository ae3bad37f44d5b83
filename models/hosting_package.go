package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// HostingPackage is a catalog item. Created and edited by admins only;
// read-only for affiliates and customers.
type HostingPackage struct {
	ID                  primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name                string             `bson:"name" json:"name"`
	Description         string             `bson:"description,omitempty" json:"description,omitempty"`
	Price               float64            `bson:"price" json:"price"`
	DailyPayout         float64            `bson:"dailyPayout" json:"dailyPayout"`
	DailyPrice          float64            `bson:"dailyPrice,omitempty" json:"dailyPrice,omitempty"`
	MonthlyPrice        float64            `bson:"monthlyPrice,omitempty" json:"monthlyPrice,omitempty"`
	CommissionRate      float64            `bson:"commissionRate" json:"commissionRate"`
	RecurringCommission bool               `bson:"recurringCommission" json:"recurringCommission"`
	IsActive            bool               `bson:"isActive" json:"isActive"`
	SortOrder           int                `bson:"sortOrder" json:"sortOrder"`
	CreatedAt           time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt           time.Time          `bson:"updatedAt" json:"updatedAt"`
}

type HostingPackageRequest struct {
	Name                string  `json:"name" validate:"required"`
	Description         string  `json:"description"`
	Price               float64 `json:"price" validate:"required,gt=0"`
	DailyPayout         float64 `json:"dailyPayout" validate:"gte=0"`
	MonthlyPrice        float64 `json:"monthlyPrice" validate:"gte=0"`
	CommissionRate      float64 `json:"commissionRate" validate:"gte=0,lte=100"`
	RecurringCommission bool    `json:"recurringCommission"`
	IsActive            bool    `json:"isActive"`
	SortOrder           int     `json:"sortOrder"`
}
