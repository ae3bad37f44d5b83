package utils

import (
	"strings"
	"testing"
)

func TestGenerateReferralCode(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 50; i++ {
		code, err := GenerateReferralCode()
		if err != nil {
			t.Fatalf("GenerateReferralCode() error: %v", err)
		}
		if !strings.HasPrefix(code, "AFF-") {
			t.Fatalf("code %q missing AFF- prefix", code)
		}
		suffix := strings.TrimPrefix(code, "AFF-")
		if len(suffix) != 6 {
			t.Fatalf("code %q suffix length = %d, want 6", code, len(suffix))
		}
		for _, r := range suffix {
			if !((r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9')) {
				t.Fatalf("code %q contains invalid character %q", code, r)
			}
		}
		seen[code] = true
	}
	// 50 draws from a 32^6 space colliding down to a handful would mean
	// the generator is broken
	if len(seen) < 40 {
		t.Errorf("expected mostly unique codes, got %d unique of 50", len(seen))
	}
}

func TestReferralLink(t *testing.T) {
	t.Setenv("SITE_URL", "https://example.com")
	link := ReferralLink("AFF-ABC123")
	if link != "https://example.com/signup?ref=AFF-ABC123" {
		t.Errorf("unexpected referral link %q", link)
	}
}

func TestGenerateReferralQRCode(t *testing.T) {
	t.Setenv("SITE_URL", "https://example.com")
	dataURI, err := GenerateReferralQRCode("AFF-ABC123")
	if err != nil {
		t.Fatalf("GenerateReferralQRCode() error: %v", err)
	}
	if !strings.HasPrefix(dataURI, "data:image/png;base64,") {
		t.Errorf("expected PNG data URI, got %.40q", dataURI)
	}
}
