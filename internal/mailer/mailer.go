package mailer

// MaxAttachments caps how many uploaded files travel on a single message.
const MaxAttachments = 5

// Attachment is one file carried by an outbound message. Content holds the
// base64 payload exactly as submitted; each provider decides whether to
// decode it or pass it through.
type Attachment struct {
	Filename    string
	ContentType string
	Content     string
}

// Message is a provider-independent outbound email. Text and HTML are
// alternative renderings of the same content.
type Message struct {
	From        string
	To          string
	ReplyTo     string
	Subject     string
	Text        string
	HTML        string
	Attachments []Attachment
}
