package services

import (
	"bytes"
	"crypto/md5"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/hostybee/affiliate_backend/models"
)

// OpenSRSService talks to the domain registrar. Requests use the XCP
// JSON body with an md5(body + shared key) signature header, per the
// registrar's legacy signing scheme.
type OpenSRSService struct {
	baseURL  string
	username string
	apiKey   string
	client   *http.Client
}

// NewOpenSRSService creates a new registrar service instance
func NewOpenSRSService() *OpenSRSService {
	baseURL := os.Getenv("OPENSRS_BASE_URL")
	if baseURL == "" {
		baseURL = "https://rr-n1-tor.opensrs.net:55443"
	}

	return &OpenSRSService{
		baseURL:  baseURL,
		username: os.Getenv("OPENSRS_USERNAME"),
		apiKey:   os.Getenv("OPENSRS_API_KEY"),
		client:   &http.Client{Timeout: 30 * time.Second},
	}
}

// SignBody computes the legacy request signature: hex md5 of the raw
// body concatenated with the shared key.
func SignBody(body []byte, apiKey string) string {
	sum := md5.Sum(append(body, []byte(apiKey)...))
	return hex.EncodeToString(sum[:])
}

func (s *OpenSRSService) makeRequest(action string, attributes map[string]interface{}) (*models.OpenSRSResponse, error) {
	if s.username == "" || s.apiKey == "" {
		return nil, fmt.Errorf("missing registrar credentials. Please set OPENSRS_USERNAME and OPENSRS_API_KEY environment variables")
	}

	reqBody := models.OpenSRSRequest{
		Action:     action,
		Object:     "DOMAIN",
		Attributes: attributes,
	}
	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequest("POST", s.baseURL, bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Username", s.username)
	req.Header.Set("X-Signature", SignBody(jsonData, s.apiKey))

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	var srsResp models.OpenSRSResponse
	if err := json.Unmarshal(respBody, &srsResp); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w\nResponse body: %s", err, string(respBody))
	}

	if !srsResp.IsSuccess {
		return &srsResp, fmt.Errorf("registrar error: %s", srsResp.ResponseText)
	}

	return &srsResp, nil
}

// LookupDomain checks whether a domain is available for registration.
func (s *OpenSRSService) LookupDomain(domain string) (bool, error) {
	resp, err := s.makeRequest("LOOKUP", map[string]interface{}{
		"domain": domain,
	})
	if err != nil {
		return false, err
	}

	status, _ := resp.Attributes["status"].(string)
	return status == "available", nil
}

// RegisterDomain registers a domain for the given term and returns the
// registrar order id.
func (s *OpenSRSService) RegisterDomain(domain string, years int) (string, error) {
	resp, err := s.makeRequest("SW_REGISTER", map[string]interface{}{
		"domain":     domain,
		"period":     years,
		"reg_type":   "new",
		"auto_renew": false,
	})
	if err != nil {
		return "", err
	}

	orderID := ""
	switch v := resp.Attributes["id"].(type) {
	case string:
		orderID = v
	case float64:
		orderID = fmt.Sprintf("%.0f", v)
	}
	if orderID == "" {
		return "", fmt.Errorf("registrar returned no order id")
	}

	return orderID, nil
}
