package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Affiliate status values
const (
	AffiliateStatusPending   = "pending"
	AffiliateStatusApproved  = "approved"
	AffiliateStatusActive    = "active"
	AffiliateStatusSuspended = "suspended"
)

// Affiliate tiers
const (
	TierBronze   = "bronze"
	TierSilver   = "silver"
	TierGold     = "gold"
	TierPlatinum = "platinum"
)

type Affiliate struct {
	ID                primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	UserEmail         string              `bson:"userEmail" json:"userEmail"`
	FullName          string              `bson:"fullName" json:"fullName"`
	Password          string              `bson:"password" json:"-"`
	ReferralCode      string              `bson:"referralCode" json:"referralCode"`
	Tier              string              `bson:"tier" json:"tier"`
	Status            string              `bson:"status" json:"status"`
	PayPalEmail       string              `bson:"paypalEmail" json:"paypalEmail"`
	PendingBalance    float64             `bson:"pendingBalance" json:"pendingBalance"`
	TotalEarnings     float64             `bson:"totalEarnings" json:"totalEarnings"`
	TotalReferrals    int                 `bson:"totalReferrals" json:"totalReferrals"`
	DailyPayoutActive bool                `bson:"dailyPayoutActive" json:"dailyPayoutActive"`
	ParentAffiliateID *primitive.ObjectID `bson:"parentAffiliateId,omitempty" json:"parentAffiliateId,omitempty"`
	MaxPackageID      *primitive.ObjectID `bson:"maxPackageId,omitempty" json:"maxPackageId,omitempty"`
	CreatedAt         time.Time           `bson:"createdAt" json:"createdAt"`
	UpdatedAt         time.Time           `bson:"updatedAt" json:"updatedAt"`
}

// AffiliateSignupRequest is the payload for affiliate registration
type AffiliateSignupRequest struct {
	Email       string `json:"email" validate:"required,email"`
	FullName    string `json:"fullName" validate:"required"`
	Password    string `json:"password" validate:"required,min=8"`
	PayPalEmail string `json:"paypalEmail" validate:"omitempty,email"`
	// ReferralCode of the affiliate who recruited this one, if any
	ReferralCode string `json:"referralCode,omitempty"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type LoginResponse struct {
	Token        string `json:"token"`
	RefreshToken string `json:"refreshToken"`
	Role         string `json:"role"`
}
