package utils

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image/png"
	"os"

	"github.com/boombuler/barcode"
	"github.com/boombuler/barcode/qr"
)

// ReferralLink builds the signup URL an affiliate shares.
func ReferralLink(referralCode string) string {
	base := os.Getenv("SITE_URL")
	if base == "" {
		base = "https://hostybee.com"
	}
	return fmt.Sprintf("%s/signup?ref=%s", base, referralCode)
}

// GenerateReferralQRCode creates a QR code image for a referral code and
// returns it as a base64 data URI for embedding in responses.
func GenerateReferralQRCode(referralCode string) (string, error) {
	content := ReferralLink(referralCode)

	qrCode, err := qr.Encode(content, qr.M, qr.Auto)
	if err != nil {
		return "", err
	}

	qrCode, err = barcode.Scale(qrCode, 300, 300)
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, qrCode); err != nil {
		return "", err
	}

	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}
