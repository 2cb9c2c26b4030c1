package mailer

import (
	"fmt"
	"html"
	"strings"

	"quoteform-backend/internal/model/webrequest"
)

const defaultContentType = "application/octet-stream"

// BuildBusinessEmail assembles the notification for the site owner. Reply-To
// points at the submitter so a reply from the owner's mail client lands in
// the customer's inbox.
func BuildBusinessEmail(from, to string, req webrequest.QuoteRequest) *Message {
	date := orNotSpecified(req.Date)

	text := fmt.Sprintf(`New quote request

Name: %s
Phone: %s
Email: %s
Address: %s
Service: %s
Preferred date: %s

Message:
%s
`, req.FullName, req.Phone, req.Email, req.Address, req.Service, date, req.Message)

	htmlBody := fmt.Sprintf(`
<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <style>
        body { font-family: Arial, sans-serif; line-height: 1.6; color: #333; }
        .container { max-width: 600px; margin: 0 auto; padding: 20px; }
        .field { margin: 6px 0; }
        .label { font-weight: bold; }
        .message { background: #f3f4f6; border-radius: 8px; padding: 12px; margin-top: 12px; white-space: pre-wrap; }
    </style>
</head>
<body>
    <div class="container">
        <h2>New quote request</h2>
        <div class="field"><span class="label">Name:</span> %s</div>
        <div class="field"><span class="label">Phone:</span> %s</div>
        <div class="field"><span class="label">Email:</span> %s</div>
        <div class="field"><span class="label">Address:</span> %s</div>
        <div class="field"><span class="label">Service:</span> %s</div>
        <div class="field"><span class="label">Preferred date:</span> %s</div>
        <div class="message">%s</div>
    </div>
</body>
</html>
`, html.EscapeString(req.FullName), html.EscapeString(req.Phone), html.EscapeString(req.Email),
		html.EscapeString(req.Address), html.EscapeString(req.Service), html.EscapeString(date),
		html.EscapeString(req.Message))

	return &Message{
		From:        from,
		To:          to,
		ReplyTo:     req.Email,
		Subject:     fmt.Sprintf("New quote request from %s - %s", req.FullName, req.Service),
		Text:        text,
		HTML:        htmlBody,
		Attachments: normalizeAttachments(req.Attachments),
	}
}

// BuildConfirmationEmail assembles the receipt sent back to the submitter.
// It carries no attachments and never sets Reply-To.
func BuildConfirmationEmail(from string, req webrequest.QuoteRequest) *Message {
	date := orNotSpecified(req.Date)

	text := fmt.Sprintf(`Hi %s,

Thanks for your quote request. We have received the details below and will
be in touch shortly.

Service: %s
Address: %s
Preferred date: %s
`, req.FullName, req.Service, req.Address, date)

	htmlBody := fmt.Sprintf(`
<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <style>
        body { font-family: Arial, sans-serif; line-height: 1.6; color: #333; }
        .container { max-width: 600px; margin: 0 auto; padding: 20px; }
        .field { margin: 6px 0; }
        .label { font-weight: bold; }
    </style>
</head>
<body>
    <div class="container">
        <h2>Thanks for your quote request</h2>
        <p>Hi %s, we have received the details below and will be in touch shortly.</p>
        <div class="field"><span class="label">Service:</span> %s</div>
        <div class="field"><span class="label">Address:</span> %s</div>
        <div class="field"><span class="label">Preferred date:</span> %s</div>
    </div>
</body>
</html>
`, html.EscapeString(req.FullName), html.EscapeString(req.Service),
		html.EscapeString(req.Address), html.EscapeString(date))

	return &Message{
		From:    from,
		To:      req.Email,
		Subject: "We received your quote request",
		Text:    text,
		HTML:    htmlBody,
	}
}

func normalizeAttachments(in []webrequest.QuoteAttachment) []Attachment {
	if len(in) > MaxAttachments {
		in = in[:MaxAttachments]
	}
	out := make([]Attachment, 0, len(in))
	for i, att := range in {
		filename := att.Filename
		if filename == "" {
			filename = fmt.Sprintf("attachment-%d", i+1)
		}
		contentType := att.ContentType
		if contentType == "" {
			contentType = defaultContentType
		}
		out = append(out, Attachment{
			Filename:    filename,
			ContentType: contentType,
			Content:     att.Content,
		})
	}
	return out
}

func orNotSpecified(date string) string {
	if strings.TrimSpace(date) == "" {
		return "not specified"
	}
	return date
}
