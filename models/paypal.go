package models

// PayPalTokenResponse is the OAuth2 client-credentials token payload.
type PayPalTokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int    `json:"expires_in"`
}

// PayPalAmount is the money object used in order requests.
type PayPalAmount struct {
	CurrencyCode string `json:"currency_code"`
	Value        string `json:"value"`
}

type PayPalPurchaseUnit struct {
	ReferenceID string       `json:"reference_id,omitempty"`
	Description string       `json:"description,omitempty"`
	Amount      PayPalAmount `json:"amount"`
}

type PayPalApplicationContext struct {
	ReturnURL string `json:"return_url"`
	CancelURL string `json:"cancel_url"`
}

type PayPalOrderRequest struct {
	Intent             string                    `json:"intent"`
	PurchaseUnits      []PayPalPurchaseUnit      `json:"purchase_units"`
	ApplicationContext *PayPalApplicationContext `json:"application_context,omitempty"`
}

type PayPalLink struct {
	Href   string `json:"href"`
	Rel    string `json:"rel"`
	Method string `json:"method"`
}

type PayPalOrderResponse struct {
	ID     string       `json:"id"`
	Status string       `json:"status"`
	Links  []PayPalLink `json:"links"`
}

// CreateOrderRequest is the client payload to start a checkout.
type CreateOrderRequest struct {
	PackageID     string `json:"packageId" validate:"required"`
	ReferralCode  string `json:"referralCode,omitempty"`
	CustomerEmail string `json:"customerEmail" validate:"required,email"`
	CustomerName  string `json:"customerName" validate:"required"`
}

// CaptureOrderRequest completes a checkout after buyer approval.
type CaptureOrderRequest struct {
	OrderID       string `json:"orderId" validate:"required"`
	PackageID     string `json:"packageId" validate:"required"`
	ReferralCode  string `json:"referralCode,omitempty"`
	CustomerEmail string `json:"customerEmail" validate:"required,email"`
	CustomerName  string `json:"customerName" validate:"required"`
}

// TestPurchaseRequest fabricates a referral without a payment call.
// Only available outside production.
type TestPurchaseRequest struct {
	ReferralCode  string `json:"referralCode" validate:"required"`
	PackageID     string `json:"packageId" validate:"required"`
	CustomerEmail string `json:"customerEmail,omitempty"`
	CustomerName  string `json:"customerName,omitempty"`
}
