package services

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/hostybee/affiliate_backend/models"
)

func newTestPayPal(t *testing.T, handler http.HandlerFunc) *PayPalService {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	t.Setenv("PAYPAL_BASE_URL", server.URL)
	t.Setenv("PAYPAL_CLIENT_ID", "client-id")
	t.Setenv("PAYPAL_CLIENT_SECRET", "client-secret")
	return NewPayPalService()
}

func writeToken(t *testing.T, w http.ResponseWriter) {
	t.Helper()
	json.NewEncoder(w).Encode(models.PayPalTokenResponse{
		AccessToken: "test-token",
		TokenType:   "Bearer",
		ExpiresIn:   3600,
	})
}

func TestGetAccessToken(t *testing.T) {
	svc := newTestPayPal(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/oauth2/token" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		user, pass, ok := r.BasicAuth()
		if !ok || user != "client-id" || pass != "client-secret" {
			t.Error("missing or wrong basic auth")
		}
		if err := r.ParseForm(); err != nil {
			t.Fatalf("bad form: %v", err)
		}
		if r.PostForm.Get("grant_type") != "client_credentials" {
			t.Errorf("grant_type = %q", r.PostForm.Get("grant_type"))
		}
		writeToken(t, w)
	})

	token, err := svc.GetAccessToken()
	if err != nil {
		t.Fatalf("GetAccessToken() error: %v", err)
	}
	if token != "test-token" {
		t.Errorf("token = %q, want test-token", token)
	}
}

func TestCreateOrder(t *testing.T) {
	svc := newTestPayPal(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/v1/oauth2/token" {
			writeToken(t, w)
			return
		}
		if r.URL.Path != "/v2/checkout/orders" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		if r.Header.Get("Authorization") != "Bearer test-token" {
			t.Error("missing bearer token")
		}
		if r.Header.Get("PayPal-Request-Id") == "" {
			t.Error("missing idempotency header")
		}

		var req models.PayPalOrderRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("bad order body: %v", err)
		}
		if req.Intent != "CAPTURE" {
			t.Errorf("intent = %q", req.Intent)
		}
		if len(req.PurchaseUnits) != 1 || req.PurchaseUnits[0].Amount.Value != "49.99" {
			t.Errorf("unexpected purchase units %+v", req.PurchaseUnits)
		}

		json.NewEncoder(w).Encode(models.PayPalOrderResponse{
			ID:     "ORDER-1",
			Status: "CREATED",
			Links: []models.PayPalLink{
				{Href: "https://paypal.test/self", Rel: "self"},
				{Href: "https://paypal.test/approve", Rel: "approve"},
			},
		})
	})

	orderID, approveURL, err := svc.CreateOrder(49.99, "USD", "Starter Hosting",
		"https://example.com/ok", "https://example.com/cancel")
	if err != nil {
		t.Fatalf("CreateOrder() error: %v", err)
	}
	if orderID != "ORDER-1" {
		t.Errorf("order id = %q", orderID)
	}
	if approveURL != "https://paypal.test/approve" {
		t.Errorf("approve url = %q", approveURL)
	}
}

func TestCaptureOrder(t *testing.T) {
	svc := newTestPayPal(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/v1/oauth2/token" {
			writeToken(t, w)
			return
		}
		if !strings.HasSuffix(r.URL.Path, "/ORDER-1/capture") {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		json.NewEncoder(w).Encode(models.PayPalOrderResponse{
			ID:     "ORDER-1",
			Status: CaptureCompleted,
		})
	})

	status, err := svc.CaptureOrder("ORDER-1")
	if err != nil {
		t.Fatalf("CaptureOrder() error: %v", err)
	}
	if status != CaptureCompleted {
		t.Errorf("capture status = %q, want %q", status, CaptureCompleted)
	}
}

func TestCaptureOrderAPIError(t *testing.T) {
	svc := newTestPayPal(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/v1/oauth2/token" {
			writeToken(t, w)
			return
		}
		w.WriteHeader(http.StatusUnprocessableEntity)
		w.Write([]byte(`{"name":"ORDER_NOT_APPROVED"}`))
	})

	if _, err := svc.CaptureOrder("ORDER-1"); err == nil {
		t.Fatal("expected error from API failure")
	}
}

func TestPayPalMissingCredentials(t *testing.T) {
	t.Setenv("PAYPAL_BASE_URL", "http://localhost:1")
	t.Setenv("PAYPAL_CLIENT_ID", "")
	t.Setenv("PAYPAL_CLIENT_SECRET", "")
	svc := NewPayPalService()

	if _, err := svc.GetAccessToken(); err == nil {
		t.Fatal("expected error with missing credentials")
	}
}
