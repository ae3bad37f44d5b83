package utils

import (
	"testing"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/hostybee/affiliate_backend/models"
)

func TestComputeCommission(t *testing.T) {
	tests := []struct {
		name       string
		saleAmount float64
		channel    SaleChannel
		tier       string
		want       float64
	}{
		{"paypal flat 30 percent", 100, ChannelPayPal, models.TierGold, 30},
		{"paypal rounds to cents", 9.99, ChannelPayPal, models.TierBronze, 3.00},
		{"domain flat 50 percent", 10, ChannelDomain, models.TierBronze, 5},
		{"domain ignores tier", 10, ChannelDomain, models.TierPlatinum, 5},
		{"test bronze", 100, ChannelTest, models.TierBronze, 15},
		{"test silver", 100, ChannelTest, models.TierSilver, 25},
		{"test gold", 100, ChannelTest, models.TierGold, 35},
		{"test platinum same as gold", 100, ChannelTest, models.TierPlatinum, 35},
		{"test unknown tier falls back to bronze", 100, ChannelTest, "diamond", 15},
		{"zero sale", 0, ChannelPayPal, models.TierBronze, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ComputeCommission(tt.saleAmount, tt.channel, tt.tier)
			if got != tt.want {
				t.Errorf("ComputeCommission(%v, %q, %q) = %v, want %v",
					tt.saleAmount, tt.channel, tt.tier, got, tt.want)
			}
		})
	}
}

func TestResolveRecipient(t *testing.T) {
	affiliateID := primitive.NewObjectID()

	recipient, status := ResolveRecipient(affiliateID, 0)
	if !recipient.House {
		t.Error("expected house recipient with zero approved referrals")
	}
	if status != models.ReferralStatusPending {
		t.Errorf("expected pending status, got %q", status)
	}
	if recipient.WireID() != models.HouseRecipientID {
		t.Errorf("house recipient wire id = %q, want %q", recipient.WireID(), models.HouseRecipientID)
	}

	recipient, status = ResolveRecipient(affiliateID, ApprovedReferralThreshold-1)
	if !recipient.House {
		t.Errorf("expected house recipient below threshold")
	}

	recipient, status = ResolveRecipient(affiliateID, ApprovedReferralThreshold)
	if recipient.House {
		t.Error("expected affiliate recipient at threshold")
	}
	if status != models.ReferralStatusApproved {
		t.Errorf("expected approved status at threshold, got %q", status)
	}
	if recipient.WireID() != affiliateID.Hex() {
		t.Errorf("affiliate recipient wire id = %q, want %q", recipient.WireID(), affiliateID.Hex())
	}

	recipient, _ = ResolveRecipient(affiliateID, ApprovedReferralThreshold+10)
	if recipient.House {
		t.Error("expected affiliate recipient above threshold")
	}
}

func TestShouldActivateDailyPayout(t *testing.T) {
	tests := []struct {
		name          string
		count         int64
		alreadyActive bool
		want          bool
	}{
		{"below threshold", 2, false, false},
		{"at threshold", 3, false, true},
		{"above threshold", 7, false, true},
		{"already active stays untouched", 7, true, false},
		{"zero referrals", 0, false, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ShouldActivateDailyPayout(tt.count, tt.alreadyActive); got != tt.want {
				t.Errorf("ShouldActivateDailyPayout(%d, %v) = %v, want %v",
					tt.count, tt.alreadyActive, got, tt.want)
			}
		})
	}
}

func TestDailyPayoutAmount(t *testing.T) {
	tests := []struct {
		total float64
		want  float64
	}{
		{30, 1},
		{300, 10},
		{0, 0},
		{10, 0.33},
		{1, 0.03},
	}
	for _, tt := range tests {
		if got := DailyPayoutAmount(tt.total); got != tt.want {
			t.Errorf("DailyPayoutAmount(%v) = %v, want %v", tt.total, got, tt.want)
		}
	}
}

func TestValidatePayoutAmount(t *testing.T) {
	if reason := ValidatePayoutAmount(0.50, 100); reason == "" {
		t.Error("expected rejection below minimum amount")
	}
	if reason := ValidatePayoutAmount(50, 25); reason == "" {
		t.Error("expected rejection above balance")
	}
	if reason := ValidatePayoutAmount(25, 25); reason != "" {
		t.Errorf("expected exact balance to be accepted, got %q", reason)
	}
	if reason := ValidatePayoutAmount(models.MinPayoutAmount, 100); reason != "" {
		t.Errorf("expected minimum amount to be accepted, got %q", reason)
	}
}

func TestRoundCents(t *testing.T) {
	if got := RoundCents(1.006); got != 1.01 {
		t.Errorf("RoundCents(1.006) = %v, want 1.01", got)
	}
	if got := RoundCents(2.994); got != 2.99 {
		t.Errorf("RoundCents(2.994) = %v, want 2.99", got)
	}
}
