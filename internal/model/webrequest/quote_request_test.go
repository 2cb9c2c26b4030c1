package webrequest

import "testing"

func validQuoteRequest() QuoteRequest {
	return QuoteRequest{
		FullName: "Jane Cooper",
		Phone:    "07700900123",
		Email:    "jane@example.com",
		Address:  "1 High Street",
		Service:  "Roof repair",
		Date:     "2025-11-03",
		Message:  "Two slipped tiles after the storm.",
	}
}

func TestFirstMissingFieldComplete(t *testing.T) {
	if field := validQuoteRequest().FirstMissingField(); field != "" {
		t.Errorf("Expected no missing field, got %q", field)
	}
}

func TestFirstMissingFieldOrder(t *testing.T) {
	tests := []struct {
		name     string
		mutate   func(*QuoteRequest)
		expected string
	}{
		{"missing name", func(q *QuoteRequest) { q.FullName = "" }, "name"},
		{"whitespace name", func(q *QuoteRequest) { q.FullName = "   " }, "name"},
		{"missing email", func(q *QuoteRequest) { q.Email = "" }, "valid email address"},
		{"invalid email", func(q *QuoteRequest) { q.Email = "not-an-email" }, "valid email address"},
		{"email without dot", func(q *QuoteRequest) { q.Email = "jane@example" }, "valid email address"},
		{"missing phone", func(q *QuoteRequest) { q.Phone = "" }, "phone number"},
		{"missing address", func(q *QuoteRequest) { q.Address = "" }, "property address"},
		{"missing service", func(q *QuoteRequest) { q.Service = "" }, "service"},
		{"missing message", func(q *QuoteRequest) { q.Message = "" }, "message"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validQuoteRequest()
			tt.mutate(&req)
			if field := req.FirstMissingField(); field != tt.expected {
				t.Errorf("Expected %q, got %q", tt.expected, field)
			}
		})
	}
}

func TestFirstMissingFieldPrecedence(t *testing.T) {
	// Name outranks email when both are missing.
	req := validQuoteRequest()
	req.FullName = ""
	req.Email = ""
	if field := req.FirstMissingField(); field != "name" {
		t.Errorf("Expected name to win precedence, got %q", field)
	}

	// Email is checked before phone even when fullName is present.
	req = validQuoteRequest()
	req.Email = "bad"
	req.Phone = ""
	if field := req.FirstMissingField(); field != "valid email address" {
		t.Errorf("Expected email to win precedence, got %q", field)
	}
}

func TestFirstMissingFieldServiceNotTrimmed(t *testing.T) {
	req := validQuoteRequest()
	req.Service = "   "
	if field := req.FirstMissingField(); field != "" {
		t.Errorf("Whitespace service should pass untrimmed check, got %q", field)
	}
}

func TestFirstMissingFieldTrimsEmail(t *testing.T) {
	req := validQuoteRequest()
	req.Email = "  jane@example.com  "
	if field := req.FirstMissingField(); field != "" {
		t.Errorf("Padded email should validate after trimming, got %q", field)
	}
}

func TestNormalizedCoalescesPostcode(t *testing.T) {
	req := validQuoteRequest()
	req.Address = ""
	req.Postcode = "SW1A 1AA"

	norm := req.Normalized()
	if norm.Address != "SW1A 1AA" {
		t.Errorf("Expected postcode to fill empty address, got %q", norm.Address)
	}

	// Address wins when both are set.
	req.Address = "1 High Street"
	norm = req.Normalized()
	if norm.Address != "1 High Street" {
		t.Errorf("Expected address to be kept, got %q", norm.Address)
	}

	// Original request is not mutated.
	req.Address = ""
	_ = req.Normalized()
	if req.Address != "" {
		t.Error("Normalized should not mutate the receiver")
	}
}

func TestIsSpam(t *testing.T) {
	req := validQuoteRequest()
	if req.IsSpam() {
		t.Error("Empty company field should not be spam")
	}

	req.Company = "Totally Real Ltd"
	if !req.IsSpam() {
		t.Error("Filled company field should be spam")
	}
}
