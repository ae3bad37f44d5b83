package services

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/hostybee/affiliate_backend/models"
)

func TestSignBody(t *testing.T) {
	// hex md5 of "bodykey"
	got := SignBody([]byte("body"), "key")
	want := "88ba13d194d0af078007ea9fa9a1ffc2"
	if got != want {
		t.Errorf("SignBody = %q, want %q", got, want)
	}
}

func newTestRegistrar(t *testing.T, handler http.HandlerFunc) *OpenSRSService {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	t.Setenv("OPENSRS_BASE_URL", server.URL)
	t.Setenv("OPENSRS_USERNAME", "testuser")
	t.Setenv("OPENSRS_API_KEY", "testkey")
	return NewOpenSRSService()
}

func TestLookupDomain(t *testing.T) {
	svc := newTestRegistrar(t, func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)

		if r.Header.Get("X-Username") != "testuser" {
			t.Errorf("missing X-Username header")
		}
		if r.Header.Get("X-Signature") != SignBody(body, "testkey") {
			t.Errorf("signature does not match body")
		}

		var req models.OpenSRSRequest
		if err := json.Unmarshal(body, &req); err != nil {
			t.Fatalf("bad request body: %v", err)
		}
		if req.Action != "LOOKUP" || req.Object != "DOMAIN" {
			t.Errorf("unexpected request: action=%q object=%q", req.Action, req.Object)
		}

		json.NewEncoder(w).Encode(models.OpenSRSResponse{
			IsSuccess:    true,
			ResponseCode: 200,
			Attributes:   map[string]interface{}{"status": "available"},
		})
	})

	available, err := svc.LookupDomain("example.com")
	if err != nil {
		t.Fatalf("LookupDomain() error: %v", err)
	}
	if !available {
		t.Error("expected domain to be available")
	}
}

func TestLookupDomainTaken(t *testing.T) {
	svc := newTestRegistrar(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(models.OpenSRSResponse{
			IsSuccess:    true,
			ResponseCode: 200,
			Attributes:   map[string]interface{}{"status": "taken"},
		})
	})

	available, err := svc.LookupDomain("example.com")
	if err != nil {
		t.Fatalf("LookupDomain() error: %v", err)
	}
	if available {
		t.Error("expected domain to be taken")
	}
}

func TestRegisterDomain(t *testing.T) {
	svc := newTestRegistrar(t, func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		var req models.OpenSRSRequest
		if err := json.Unmarshal(body, &req); err != nil {
			t.Fatalf("bad request body: %v", err)
		}
		if req.Action != "SW_REGISTER" {
			t.Errorf("unexpected action %q", req.Action)
		}
		if req.Attributes["period"] != float64(2) {
			t.Errorf("unexpected period %v", req.Attributes["period"])
		}

		// Numeric order id to exercise the float64 decode path
		json.NewEncoder(w).Encode(models.OpenSRSResponse{
			IsSuccess:    true,
			ResponseCode: 200,
			Attributes:   map[string]interface{}{"id": 123456},
		})
	})

	orderID, err := svc.RegisterDomain("example.com", 2)
	if err != nil {
		t.Fatalf("RegisterDomain() error: %v", err)
	}
	if orderID != "123456" {
		t.Errorf("order id = %q, want 123456", orderID)
	}
}

func TestRegisterDomainError(t *testing.T) {
	svc := newTestRegistrar(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(models.OpenSRSResponse{
			IsSuccess:    false,
			ResponseCode: 465,
			ResponseText: "domain taken",
		})
	})

	if _, err := svc.RegisterDomain("example.com", 1); err == nil {
		t.Fatal("expected error from registrar failure")
	}
}

func TestMissingCredentials(t *testing.T) {
	t.Setenv("OPENSRS_BASE_URL", "http://localhost:1")
	t.Setenv("OPENSRS_USERNAME", "")
	t.Setenv("OPENSRS_API_KEY", "")
	svc := NewOpenSRSService()

	if _, err := svc.LookupDomain("example.com"); err == nil {
		t.Fatal("expected error with missing credentials")
	}
}
