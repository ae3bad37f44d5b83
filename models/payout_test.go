package models

import "testing"

func TestCanTransitionPayout(t *testing.T) {
	allowed := []struct{ from, to string }{
		{PayoutStatusPending, PayoutStatusProcessing},
		{PayoutStatusPending, PayoutStatusFailed},
		{PayoutStatusProcessing, PayoutStatusCompleted},
		{PayoutStatusProcessing, PayoutStatusFailed},
	}
	for _, tr := range allowed {
		if !CanTransitionPayout(tr.from, tr.to) {
			t.Errorf("expected %s -> %s to be allowed", tr.from, tr.to)
		}
	}

	denied := []struct{ from, to string }{
		{PayoutStatusPending, PayoutStatusCompleted},
		{PayoutStatusCompleted, PayoutStatusPending},
		{PayoutStatusCompleted, PayoutStatusFailed},
		{PayoutStatusFailed, PayoutStatusProcessing},
		{PayoutStatusFailed, PayoutStatusCompleted},
		{PayoutStatusProcessing, PayoutStatusPending},
	}
	for _, tr := range denied {
		if CanTransitionPayout(tr.from, tr.to) {
			t.Errorf("expected %s -> %s to be rejected", tr.from, tr.to)
		}
	}
}

func TestPayoutActionStatus(t *testing.T) {
	if got := PayoutActionStatus("approve"); got != PayoutStatusProcessing {
		t.Errorf("approve -> %q, want %q", got, PayoutStatusProcessing)
	}
	if got := PayoutActionStatus("reject"); got != PayoutStatusFailed {
		t.Errorf("reject -> %q, want %q", got, PayoutStatusFailed)
	}
	if got := PayoutActionStatus("complete"); got != PayoutStatusCompleted {
		t.Errorf("complete -> %q, want %q", got, PayoutStatusCompleted)
	}
	if got := PayoutActionStatus("cancel"); got != "" {
		t.Errorf("unknown action -> %q, want empty", got)
	}
}

func TestCanTransitionReferral(t *testing.T) {
	if !CanTransitionReferral(ReferralStatusPending, ReferralStatusApproved) {
		t.Error("expected pending -> approved to be allowed")
	}
	if !CanTransitionReferral(ReferralStatusApproved, ReferralStatusPaid) {
		t.Error("expected approved -> paid to be allowed")
	}
	if !CanTransitionReferral(ReferralStatusApproved, ReferralStatusRefunded) {
		t.Error("expected approved -> refunded to be allowed")
	}
	if CanTransitionReferral(ReferralStatusPending, ReferralStatusPaid) {
		t.Error("expected pending -> paid to be rejected")
	}
	if CanTransitionReferral(ReferralStatusRefunded, ReferralStatusApproved) {
		t.Error("expected refunded -> approved to be rejected")
	}
	if CanTransitionReferral(ReferralStatusPaid, ReferralStatusRefunded) {
		t.Error("expected paid -> refunded to be rejected")
	}
}

func TestPayoutRecipientWireID(t *testing.T) {
	house := HouseRecipient()
	if house.WireID() != HouseRecipientID {
		t.Errorf("house wire id = %q, want %q", house.WireID(), HouseRecipientID)
	}
}
