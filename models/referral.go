package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Referral status values
const (
	ReferralStatusPending  = "pending"
	ReferralStatusApproved = "approved"
	ReferralStatusPaid     = "paid"
	ReferralStatusRefunded = "refunded"
)

// referralTransitions: a referral is approved before it can be paid,
// and only a pending or approved referral can be refunded.
var referralTransitions = map[string][]string{
	ReferralStatusPending:  {ReferralStatusApproved, ReferralStatusRefunded},
	ReferralStatusApproved: {ReferralStatusPaid, ReferralStatusRefunded},
}

// CanTransitionReferral reports whether a referral may move from one
// status to another.
func CanTransitionReferral(from, to string) bool {
	for _, allowed := range referralTransitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

// HouseRecipientID is the sentinel stored in payoutRecipient when a sale
// is credited to the house instead of an affiliate. Business logic works
// with PayoutRecipient; the string only appears in persisted documents.
const HouseRecipientID = "admin"

// PayoutRecipient identifies who is credited for a sale: a specific
// affiliate, or the house.
type PayoutRecipient struct {
	AffiliateID primitive.ObjectID
	House       bool
}

func HouseRecipient() PayoutRecipient {
	return PayoutRecipient{House: true}
}

func AffiliateRecipient(id primitive.ObjectID) PayoutRecipient {
	return PayoutRecipient{AffiliateID: id}
}

// WireID returns the value persisted on the referral document.
func (r PayoutRecipient) WireID() string {
	if r.House {
		return HouseRecipientID
	}
	return r.AffiliateID.Hex()
}

// Referral is the ledger record of one attributed sale. Immutable after
// creation except for status transitions.
type Referral struct {
	ID               primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	AffiliateID      primitive.ObjectID `bson:"affiliateId,omitempty" json:"affiliateId,omitempty"`
	PayoutRecipient  string             `bson:"payoutRecipient" json:"payoutRecipient"`
	CustomerEmail    string             `bson:"customerEmail" json:"customerEmail"`
	CustomerName     string             `bson:"customerName" json:"customerName"`
	PackageID        primitive.ObjectID `bson:"packageId,omitempty" json:"packageId,omitempty"`
	PackageName      string             `bson:"packageName" json:"packageName"`
	SaleAmount       float64            `bson:"saleAmount" json:"saleAmount"`
	CommissionAmount float64            `bson:"commissionAmount" json:"commissionAmount"`
	Status           string             `bson:"status" json:"status"`
	IsRecurring      bool               `bson:"isRecurring" json:"isRecurring"`
	BillingCycle     string             `bson:"billingCycle,omitempty" json:"billingCycle,omitempty"`
	ReferralSource   string             `bson:"referralSource,omitempty" json:"referralSource,omitempty"`
	CreatedAt        time.Time          `bson:"createdAt" json:"createdAt"`
}
