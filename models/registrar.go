package models

// OpenSRSRequest is the XCP-style JSON body sent to the registrar. The
// request is signed with md5(body + api key) in the X-Signature header.
type OpenSRSRequest struct {
	Action     string                 `json:"action"`
	Object     string                 `json:"object"`
	Attributes map[string]interface{} `json:"attributes"`
}

type OpenSRSResponse struct {
	IsSuccess    bool                   `json:"is_success"`
	ResponseCode int                    `json:"response_code"`
	ResponseText string                 `json:"response_text,omitempty"`
	Attributes   map[string]interface{} `json:"attributes,omitempty"`
}

// CloudflareDNSRecord is the record body for the DNS provider API.
type CloudflareDNSRecord struct {
	Type    string `json:"type"`
	Name    string `json:"name"`
	Content string `json:"content"`
	TTL     int    `json:"ttl"`
	Proxied bool   `json:"proxied"`
}

type CloudflareResponse struct {
	Success bool `json:"success"`
	Errors  []struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"errors"`
	Result struct {
		ID string `json:"id"`
	} `json:"result"`
}
