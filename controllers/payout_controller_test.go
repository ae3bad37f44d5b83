package controllers

import (
	"testing"

	"github.com/hostybee/affiliate_backend/models"
)

func TestPayoutRefundAmount(t *testing.T) {
	payout := models.Payout{Amount: 42.50}

	// Rejection hands the reserved amount back in full
	if got := payoutRefundAmount(payout, models.PayoutStatusFailed); got != 42.50 {
		t.Errorf("refund on rejection = %v, want 42.50", got)
	}

	// Approval and completion keep the reservation
	if got := payoutRefundAmount(payout, models.PayoutStatusProcessing); got != 0 {
		t.Errorf("refund on approval = %v, want 0", got)
	}
	if got := payoutRefundAmount(payout, models.PayoutStatusCompleted); got != 0 {
		t.Errorf("refund on completion = %v, want 0", got)
	}
}

func TestAdminActionTransitions(t *testing.T) {
	// The action decides the target; the table decides legality. A
	// complete action on a payout still pending must be refused.
	target := models.PayoutActionStatus("complete")
	if models.CanTransitionPayout(models.PayoutStatusPending, target) {
		t.Error("complete must not apply to a pending payout")
	}
	if !models.CanTransitionPayout(models.PayoutStatusProcessing, target) {
		t.Error("complete must apply to a processing payout")
	}

	// Rejecting twice cannot double-refund: failed is terminal
	if models.CanTransitionPayout(models.PayoutStatusFailed, models.PayoutStatusFailed) {
		t.Error("failed payout must not transition again")
	}
}
