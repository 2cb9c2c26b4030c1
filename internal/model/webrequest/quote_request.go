package webrequest

import (
	"regexp"
	"strings"

	ozzo "github.com/go-ozzo/ozzo-validation"
)

// QuoteAttachment is a file the customer attached to the form. Content is
// base64 and stays encoded until a delivery backend needs raw bytes.
type QuoteAttachment struct {
	Filename    string `json:"filename"`
	ContentType string `json:"contentType"`
	Content     string `json:"content"`
}

// QuoteRequest is the parsed form submission. Company is a hidden field on
// the form that real visitors never fill in.
type QuoteRequest struct {
	FullName    string            `json:"fullName"`
	Phone       string            `json:"phone"`
	Email       string            `json:"email"`
	Address     string            `json:"address"`
	Postcode    string            `json:"postcode"`
	Service     string            `json:"service"`
	Date        string            `json:"date"`
	Message     string            `json:"message"`
	Company     string            `json:"company"`
	Attachments []QuoteAttachment `json:"attachments"`
}

var emailPattern = regexp.MustCompile(`^\S+@\S+\.\S+$`)

// IsSpam reports whether the honeypot field was filled in.
func (q QuoteRequest) IsSpam() bool {
	return q.Company != ""
}

// Normalized returns a copy of the request with the address coalesced from
// the postcode field when the address itself is empty. Validation and email
// building both run on the normalized request.
func (q QuoteRequest) Normalized() QuoteRequest {
	out := q
	if out.Address == "" {
		out.Address = out.Postcode
	}
	return out
}

// FirstMissingField checks the required fields in form order and returns
// the display name of the first one that is missing or invalid, or "" when
// the request is complete. The order is fixed so the error a visitor sees
// is always the same for the same payload. Service is deliberately checked
// untrimmed.
func (q QuoteRequest) FirstMissingField() string {
	checks := []struct {
		label string
		value string
		rules []ozzo.Rule
	}{
		{"name", strings.TrimSpace(q.FullName), []ozzo.Rule{ozzo.Required}},
		{"valid email address", strings.TrimSpace(q.Email), []ozzo.Rule{ozzo.Required, ozzo.Match(emailPattern)}},
		{"phone number", strings.TrimSpace(q.Phone), []ozzo.Rule{ozzo.Required}},
		{"property address", strings.TrimSpace(q.Address), []ozzo.Rule{ozzo.Required}},
		{"service", q.Service, []ozzo.Rule{ozzo.Required}},
		{"message", strings.TrimSpace(q.Message), []ozzo.Rule{ozzo.Required}},
	}

	for _, check := range checks {
		if err := ozzo.Validate(check.value, check.rules...); err != nil {
			return check.label
		}
	}
	return ""
}
