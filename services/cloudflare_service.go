package services

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/hostybee/affiliate_backend/models"
)

// CloudflareService creates DNS records for hosting subdomains.
type CloudflareService struct {
	baseURL  string
	zoneID   string
	apiToken string
	originIP string
	client   *http.Client
}

// NewCloudflareService creates a new DNS service instance
func NewCloudflareService() *CloudflareService {
	baseURL := os.Getenv("CLOUDFLARE_BASE_URL")
	if baseURL == "" {
		baseURL = "https://api.cloudflare.com/client/v4"
	}

	return &CloudflareService{
		baseURL:  baseURL,
		zoneID:   os.Getenv("CLOUDFLARE_ZONE_ID"),
		apiToken: os.Getenv("CLOUDFLARE_API_TOKEN"),
		originIP: os.Getenv("HOSTING_ORIGIN_IP"),
		client:   &http.Client{Timeout: 30 * time.Second},
	}
}

// CreateSubdomainRecord creates a proxied A record pointing the given
// subdomain at the hosting origin. Returns the new record id.
func (s *CloudflareService) CreateSubdomainRecord(subdomain string) (string, error) {
	if s.zoneID == "" || s.apiToken == "" || s.originIP == "" {
		return "", fmt.Errorf("missing DNS credentials. Please set CLOUDFLARE_ZONE_ID, CLOUDFLARE_API_TOKEN and HOSTING_ORIGIN_IP environment variables")
	}

	record := models.CloudflareDNSRecord{
		Type:    "A",
		Name:    subdomain,
		Content: s.originIP,
		TTL:     1, // automatic
		Proxied: true,
	}
	jsonData, err := json.Marshal(record)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	url := fmt.Sprintf("%s/zones/%s/dns_records", s.baseURL, s.zoneID)
	req, err := http.NewRequest("POST", url, bytes.NewBuffer(jsonData))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+s.apiToken)

	resp, err := s.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}

	var cfResp models.CloudflareResponse
	if err := json.Unmarshal(respBody, &cfResp); err != nil {
		return "", fmt.Errorf("failed to parse response: %w\nResponse body: %s", err, string(respBody))
	}

	if !cfResp.Success {
		msg := "unknown"
		if len(cfResp.Errors) > 0 {
			msg = cfResp.Errors[0].Message
		}
		return "", fmt.Errorf("dns provider error: %s", msg)
	}

	return cfResp.Result.ID, nil
}
