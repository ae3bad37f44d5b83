package utils

import (
	"math"

	"github.com/hostybee/affiliate_backend/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// SaleChannel identifies the purchase path a sale arrived through. Each
// channel has its own commission percentage; the table lives here and
// nowhere else.
type SaleChannel string

const (
	ChannelPayPal SaleChannel = "paypal"
	ChannelDomain SaleChannel = "domain"
	ChannelTest   SaleChannel = "test"
)

// ApprovedReferralThreshold is the number of approved referrals an
// affiliate must accumulate before new sales are credited to them
// directly. Until then sales are credited to the house.
const ApprovedReferralThreshold = 3

// DomainSalePrice is the flat price of a domain registration.
const DomainSalePrice = 10.00

// tierRates applies to the test channel only; the other channels ignore
// the affiliate tier.
var tierRates = map[string]float64{
	models.TierBronze:   0.15,
	models.TierSilver:   0.25,
	models.TierGold:     0.35,
	models.TierPlatinum: 0.35,
}

// ComputeCommission returns the commission owed on a sale, rounded to
// cents. Channel percentages: paypal 30%, domain 50%, test 15-35% by
// tier (unknown tiers fall back to bronze).
func ComputeCommission(saleAmount float64, channel SaleChannel, tier string) float64 {
	var rate float64
	switch channel {
	case ChannelPayPal:
		rate = 0.30
	case ChannelDomain:
		rate = 0.50
	case ChannelTest:
		var ok bool
		rate, ok = tierRates[tier]
		if !ok {
			rate = tierRates[models.TierBronze]
		}
	}
	return RoundCents(saleAmount * rate)
}

// ResolveRecipient decides who is credited for a new sale and the status
// the referral record is created with. An affiliate with at least
// ApprovedReferralThreshold approved referrals is credited directly and
// the commission is payable immediately; otherwise the house takes the
// sale and the referral stays pending.
func ResolveRecipient(affiliateID primitive.ObjectID, approvedCount int64) (models.PayoutRecipient, string) {
	if approvedCount >= ApprovedReferralThreshold {
		return models.AffiliateRecipient(affiliateID), models.ReferralStatusApproved
	}
	return models.HouseRecipient(), models.ReferralStatusPending
}

// ShouldActivateDailyPayout reports whether an affiliate crossing the
// referral threshold should have daily payouts switched on. Already
// active affiliates are left alone.
func ShouldActivateDailyPayout(referralCount int64, alreadyActive bool) bool {
	return referralCount >= ApprovedReferralThreshold && !alreadyActive
}

// DailyPayoutAmount converts a month of approved recurring commission
// into one day's payout.
func DailyPayoutAmount(totalMonthlyCommission float64) float64 {
	return RoundCents(totalMonthlyCommission / 30)
}

// ValidatePayoutAmount checks a withdrawal request against the minimum
// and the affiliate's current balance. Returns "" when the amount is
// acceptable, otherwise the rejection reason.
func ValidatePayoutAmount(amount, pendingBalance float64) string {
	if amount < models.MinPayoutAmount {
		return "Minimum payout amount is $1.00"
	}
	if amount > pendingBalance {
		return "Requested amount exceeds available balance"
	}
	return ""
}

// RoundCents rounds to two decimal places.
func RoundCents(v float64) float64 {
	return math.Round(v*100) / 100
}
