package security

import (
	"net/http"
	"testing"
)

func TestValidateContentType(t *testing.T) {
	tests := []struct {
		contentType string
		want        bool
	}{
		{"application/json", true},
		{"application/json; charset=utf-8", true},
		{"text/html", false},
		{"multipart/form-data; boundary=x", false},
		{"", false},
	}
	for _, tt := range tests {
		if got := ValidateContentType(tt.contentType); got != tt.want {
			t.Errorf("ValidateContentType(%q) = %v, want %v", tt.contentType, got, tt.want)
		}
	}
}

func TestSanitizeHeaders(t *testing.T) {
	h := http.Header{}
	h.Set("Authorization", "Bearer secret")
	h.Set("Cookie", "session=abc")
	h.Set("X-Request-Id", "req-1")

	sanitized := SanitizeHeaders(h)
	if sanitized.Get("Authorization") != "" {
		t.Error("Authorization header should be removed")
	}
	if sanitized.Get("Cookie") != "" {
		t.Error("Cookie header should be removed")
	}
	if sanitized.Get("X-Request-Id") != "req-1" {
		t.Error("unrelated headers should survive")
	}
}
