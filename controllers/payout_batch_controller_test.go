package controllers

import (
	"testing"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/hostybee/affiliate_backend/models"
	"github.com/hostybee/affiliate_backend/utils"
)

func TestApprovedRecurringFilter(t *testing.T) {
	affiliateID := primitive.NewObjectID()
	filter := approvedRecurringFilter(affiliateID)

	if got := filter["affiliateId"]; got != affiliateID {
		t.Errorf("affiliateId = %v, want %v", got, affiliateID)
	}
	if got := filter["status"]; got != models.ReferralStatusApproved {
		t.Errorf("status = %v, want %q", got, models.ReferralStatusApproved)
	}
	if got := filter["isRecurring"]; got != true {
		t.Errorf("isRecurring = %v, want true", got)
	}

	// The sweep must key on affiliateId like the threshold counters do.
	// A recipient-scoped filter would exclude house-credited referrals
	// the admin later approved, paying a freshly unlocked affiliate
	// nothing.
	if _, found := filter["payoutRecipient"]; found {
		t.Error("filter must not be scoped by payoutRecipient")
	}
}

func TestBatchInstallmentFromAccruedTotal(t *testing.T) {
	// $300 of approved recurring commission releases a $10.00 installment
	if got := utils.DailyPayoutAmount(300); got != 10.00 {
		t.Errorf("installment for $300 accrued = %v, want 10.00", got)
	}
	// No accrued commission, no payout record
	if got := utils.DailyPayoutAmount(0); got != 0 {
		t.Errorf("installment for $0 accrued = %v, want 0", got)
	}
}
