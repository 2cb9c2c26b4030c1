package httpapi

// SendEmailRequest is the JSON body posted to the email service. Attachments
// carry filename and base64 content only; the service works out content
// types on its side.
type SendEmailRequest struct {
	From        string       `json:"from"`
	To          string       `json:"to"`
	ReplyTo     string       `json:"reply_to,omitempty"`
	Subject     string       `json:"subject"`
	Text        string       `json:"text"`
	HTML        string       `json:"html"`
	Attachments []Attachment `json:"attachments,omitempty"`
}

// Attachment is the wire form of one uploaded file.
type Attachment struct {
	Filename string `json:"filename"`
	Content  string `json:"content"`
}

// SendEmailResponse represents the success response from the email service
type SendEmailResponse struct {
	MessageID string `json:"message_id"`
}

// ErrorResponse represents an error response from the email service
type ErrorResponse struct {
	Message string `json:"message"`
}
