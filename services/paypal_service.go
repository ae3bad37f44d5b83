package services

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/hostybee/affiliate_backend/models"
)

// CaptureCompleted is the only capture status treated as success.
const CaptureCompleted = "COMPLETED"

// PayPalService handles interactions with the PayPal REST API
type PayPalService struct {
	baseURL      string
	clientID     string
	clientSecret string
	client       *http.Client
}

// NewPayPalService creates a new PayPal service instance
func NewPayPalService() *PayPalService {
	baseURL := os.Getenv("PAYPAL_BASE_URL")
	if baseURL == "" {
		baseURL = "https://api-m.sandbox.paypal.com"
	}

	return &PayPalService{
		baseURL:      baseURL,
		clientID:     os.Getenv("PAYPAL_CLIENT_ID"),
		clientSecret: os.Getenv("PAYPAL_CLIENT_SECRET"),
		client:       &http.Client{Timeout: 30 * time.Second},
	}
}

// GetAccessToken performs the OAuth2 client-credentials exchange.
func (s *PayPalService) GetAccessToken() (string, error) {
	if s.clientID == "" || s.clientSecret == "" {
		return "", fmt.Errorf("missing PayPal credentials. Please set PAYPAL_CLIENT_ID and PAYPAL_CLIENT_SECRET environment variables")
	}

	form := url.Values{}
	form.Set("grant_type", "client_credentials")

	req, err := http.NewRequest("POST", s.baseURL+"/v1/oauth2/token", strings.NewReader(form.Encode()))
	if err != nil {
		return "", fmt.Errorf("failed to create token request: %w", err)
	}
	req.SetBasicAuth(s.clientID, s.clientSecret)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := s.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to send token request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read token response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("paypal token error: %s - %s", resp.Status, string(respBody))
	}

	var tokenResp models.PayPalTokenResponse
	if err := json.Unmarshal(respBody, &tokenResp); err != nil {
		return "", fmt.Errorf("failed to parse token response: %w", err)
	}
	if tokenResp.AccessToken == "" {
		return "", fmt.Errorf("paypal returned an empty access token")
	}

	return tokenResp.AccessToken, nil
}

// CreateOrder creates a checkout order and returns the order id and the
// buyer approval URL.
func (s *PayPalService) CreateOrder(amount float64, currency, description, returnURL, cancelURL string) (string, string, error) {
	token, err := s.GetAccessToken()
	if err != nil {
		return "", "", err
	}

	orderReq := models.PayPalOrderRequest{
		Intent: "CAPTURE",
		PurchaseUnits: []models.PayPalPurchaseUnit{
			{
				Description: description,
				Amount: models.PayPalAmount{
					CurrencyCode: currency,
					Value:        fmt.Sprintf("%.2f", amount),
				},
			},
		},
		ApplicationContext: &models.PayPalApplicationContext{
			ReturnURL: returnURL,
			CancelURL: cancelURL,
		},
	}

	orderResp, err := s.doOrderRequest("POST", "/v2/checkout/orders", token, orderReq)
	if err != nil {
		return "", "", err
	}

	approveURL := ""
	for _, link := range orderResp.Links {
		if link.Rel == "approve" {
			approveURL = link.Href
			break
		}
	}

	return orderResp.ID, approveURL, nil
}

// CaptureOrder captures an approved order and returns the capture status.
func (s *PayPalService) CaptureOrder(orderID string) (string, error) {
	token, err := s.GetAccessToken()
	if err != nil {
		return "", err
	}

	orderResp, err := s.doOrderRequest("POST", "/v2/checkout/orders/"+orderID+"/capture", token, nil)
	if err != nil {
		return "", err
	}

	return orderResp.Status, nil
}

func (s *PayPalService) doOrderRequest(method, endpoint, token string, payload interface{}) (*models.PayPalOrderResponse, error) {
	var body io.Reader
	if payload != nil {
		jsonData, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request: %w", err)
		}
		body = bytes.NewBuffer(jsonData)
	}

	req, err := http.NewRequest(method, s.baseURL+endpoint, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)
	// PayPal dedupes retried calls on this header
	req.Header.Set("PayPal-Request-Id", uuid.NewString())

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("paypal API error: %s - %s", resp.Status, string(respBody))
	}

	var orderResp models.PayPalOrderResponse
	if err := json.Unmarshal(respBody, &orderResp); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w\nResponse body: %s", err, string(respBody))
	}

	return &orderResp, nil
}
