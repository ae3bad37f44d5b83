package security

import (
	"net/http"
	"strings"
)

// ValidateContentType ensures the request has an accepted content type.
// The API only deals in JSON bodies.
func ValidateContentType(contentType string) bool {
	if contentType == "" {
		return false
	}
	// Strip charset and boundary parameters
	if idx := strings.Index(contentType, ";"); idx > 0 {
		contentType = strings.TrimSpace(contentType[:idx])
	}
	return contentType == "application/json"
}

// SanitizeHeaders removes sensitive headers before echoing request data
// into logs or error payloads.
func SanitizeHeaders(headers http.Header) http.Header {
	sensitiveHeaders := []string{
		"Authorization",
		"Cookie",
		"Set-Cookie",
		"X-CSRF-Token",
	}

	for _, header := range sensitiveHeaders {
		headers.Del(header)
	}
	return headers
}
