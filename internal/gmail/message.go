package gmail

import (
	"encoding/base64"
	"strings"

	gmail "google.golang.org/api/gmail/v1"
)

// HeaderValue returns the value of a header on the message payload. The
// lookup is case-insensitive. Returns "" when the header is absent.
func HeaderValue(m *gmail.Message, header string) string {
	if m == nil || m.Payload == nil {
		return ""
	}
	for _, h := range m.Payload.Headers {
		if strings.EqualFold(h.Name, header) {
			return h.Value
		}
	}
	return ""
}

// PlainText extracts the text/plain body of a message, walking nested MIME
// parts depth-first. When no plain-text part exists the message snippet is
// returned instead.
func PlainText(m *gmail.Message) string {
	if m == nil {
		return ""
	}
	if text := plainTextFromPart(m.Payload); text != "" {
		return text
	}
	return m.Snippet
}

func plainTextFromPart(part *gmail.MessagePart) string {
	if part == nil {
		return ""
	}

	if part.MimeType == "text/plain" && part.Body != nil && part.Body.Data != "" {
		if decoded := decodeBody(part.Body.Data); decoded != "" {
			return decoded
		}
	}

	for _, sub := range part.Parts {
		if text := plainTextFromPart(sub); text != "" {
			return text
		}
	}
	return ""
}

// decodeBody decodes base64url body data, falling back to standard base64
// for payloads produced by non-conforming senders.
func decodeBody(data string) string {
	decoded, err := base64.URLEncoding.DecodeString(data)
	if err != nil {
		decoded, err = base64.StdEncoding.DecodeString(data)
		if err != nil {
			return ""
		}
	}
	return string(decoded)
}

// Metadata returns a summary of the common headers plus the thread ID.
func Metadata(m *gmail.Message) map[string]string {
	if m == nil {
		return map[string]string{}
	}

	metadata := make(map[string]string)
	for _, header := range []string{"From", "To", "Date"} {
		if value := HeaderValue(m, header); value != "" {
			metadata[header] = value
		}
	}
	if m.ThreadId != "" {
		metadata["Thread-ID"] = m.ThreadId
	}
	return metadata
}

// toThreadMessage converts an API message into the triage representation.
func toThreadMessage(m *gmail.Message) ThreadMessage {
	subject := HeaderValue(m, "Subject")
	if subject == "" {
		subject = "(no subject)"
	}
	sender := HeaderValue(m, "From")
	if sender == "" {
		sender = "(unknown)"
	}

	return ThreadMessage{
		ID:       m.Id,
		Subject:  subject,
		Sender:   sender,
		Text:     PlainText(m),
		Metadata: Metadata(m),
	}
}
