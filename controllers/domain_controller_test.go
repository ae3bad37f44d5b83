package controllers

import (
	"testing"

	"github.com/hostybee/affiliate_backend/models"
	"github.com/hostybee/affiliate_backend/utils"
)

func TestDomainSaleEventFlatAmount(t *testing.T) {
	affiliate := &models.Affiliate{Tier: models.TierBronze}

	for _, years := range []int{1, 2, 10} {
		req := models.DomainRegistrationRequest{
			DomainName:    "example.com",
			Years:         years,
			CustomerEmail: "buyer@example.com",
			CustomerName:  "Buyer",
		}
		event := domainSaleEvent(affiliate, req.DomainName, req)

		if event.SaleAmount != utils.DomainSalePrice {
			t.Errorf("years=%d: sale amount = %v, want flat %v", years, event.SaleAmount, utils.DomainSalePrice)
		}
		if event.Channel != utils.ChannelDomain {
			t.Errorf("years=%d: channel = %q", years, event.Channel)
		}

		commission := utils.ComputeCommission(event.SaleAmount, event.Channel, affiliate.Tier)
		if commission != 5.00 {
			t.Errorf("years=%d: commission = %v, want 5.00", years, commission)
		}
	}
}

func TestDomainSaleEventHouseReferral(t *testing.T) {
	req := models.DomainRegistrationRequest{
		DomainName:    "example.com",
		Years:         1,
		CustomerEmail: "buyer@example.com",
		CustomerName:  "Buyer",
	}
	event := domainSaleEvent(nil, req.DomainName, req)
	if event.Affiliate != nil {
		t.Error("expected no affiliate on the event when no code resolved")
	}
	if event.SaleAmount != utils.DomainSalePrice {
		t.Errorf("sale amount = %v, want %v", event.SaleAmount, utils.DomainSalePrice)
	}
}
