package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Payout status values
const (
	PayoutStatusPending    = "pending"
	PayoutStatusProcessing = "processing"
	PayoutStatusCompleted  = "completed"
	PayoutStatusFailed     = "failed"
)

// payoutTransitions is the only legal state machine for a payout:
// pending -> processing -> completed, with failure allowed from the two
// non-terminal states. Completing a payout that was never moved to
// processing is rejected.
var payoutTransitions = map[string][]string{
	PayoutStatusPending:    {PayoutStatusProcessing, PayoutStatusFailed},
	PayoutStatusProcessing: {PayoutStatusCompleted, PayoutStatusFailed},
}

// CanTransitionPayout reports whether a payout may move from one status
// to another.
func CanTransitionPayout(from, to string) bool {
	for _, allowed := range payoutTransitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

// PayoutActionStatus maps an admin action to the target payout status.
// Unknown actions return "".
func PayoutActionStatus(action string) string {
	switch action {
	case "approve":
		return PayoutStatusProcessing
	case "reject":
		return PayoutStatusFailed
	case "complete":
		return PayoutStatusCompleted
	}
	return ""
}

// Payout is one withdrawal cycle. Created by the daily batch or by an
// affiliate's explicit request; mutated only through the admin action
// endpoint.
type Payout struct {
	ID          primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	AffiliateID primitive.ObjectID  `bson:"affiliateId" json:"affiliateId"`
	PayPalEmail string              `bson:"paypalEmail" json:"paypalEmail"`
	Amount      float64             `bson:"amount" json:"amount"`
	Status      string              `bson:"status" json:"status"`
	RunDate     string              `bson:"runDate,omitempty" json:"runDate,omitempty"`
	Note        string              `bson:"note,omitempty" json:"note,omitempty"`
	AdminID     *primitive.ObjectID `bson:"adminId,omitempty" json:"adminId,omitempty"`
	AdminNote   string              `bson:"adminNote,omitempty" json:"adminNote,omitempty"`
	CreatedAt   time.Time           `bson:"createdAt" json:"createdAt"`
	ProcessedAt *time.Time          `bson:"processedAt,omitempty" json:"processedAt,omitempty"`
}

// PayoutRequestBody is the affiliate-side withdrawal request payload.
type PayoutRequestBody struct {
	Amount      float64 `json:"amount" validate:"required,gt=0"`
	PayPalEmail string  `json:"paypalEmail" validate:"omitempty,email"`
	UserNote    string  `json:"userNote,omitempty"`
}

// MinPayoutAmount is the minimum withdrawal an affiliate may request.
const MinPayoutAmount = 1.00
