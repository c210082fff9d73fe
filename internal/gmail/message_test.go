package gmail

import (
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/assert"
	gmail "google.golang.org/api/gmail/v1"
)

func b64url(s string) string {
	return base64.URLEncoding.EncodeToString([]byte(s))
}

func TestHeaderValueIsCaseInsensitive(t *testing.T) {
	msg := &gmail.Message{
		Payload: &gmail.MessagePart{
			Headers: []*gmail.MessagePartHeader{
				{Name: "Subject", Value: "Quarterly review"},
				{Name: "From", Value: "alice@example.com"},
			},
		},
	}

	assert.Equal(t, "Quarterly review", HeaderValue(msg, "subject"))
	assert.Equal(t, "alice@example.com", HeaderValue(msg, "FROM"))
	assert.Empty(t, HeaderValue(msg, "Message-ID"))
	assert.Empty(t, HeaderValue(nil, "Subject"))
}

func TestPlainTextFromTopLevelBody(t *testing.T) {
	msg := &gmail.Message{
		Payload: &gmail.MessagePart{
			MimeType: "text/plain",
			Body:     &gmail.MessagePartBody{Data: b64url("Hello there")},
		},
	}

	assert.Equal(t, "Hello there", PlainText(msg))
}

func TestPlainTextWalksNestedParts(t *testing.T) {
	msg := &gmail.Message{
		Payload: &gmail.MessagePart{
			MimeType: "multipart/alternative",
			Parts: []*gmail.MessagePart{
				{
					MimeType: "text/html",
					Body:     &gmail.MessagePartBody{Data: b64url("<p>Hello</p>")},
				},
				{
					MimeType: "multipart/mixed",
					Parts: []*gmail.MessagePart{
						{
							MimeType: "text/plain",
							Body:     &gmail.MessagePartBody{Data: b64url("Nested body")},
						},
					},
				},
			},
		},
	}

	assert.Equal(t, "Nested body", PlainText(msg))
}

func TestPlainTextFallsBackToSnippet(t *testing.T) {
	msg := &gmail.Message{
		Snippet: "Short preview of the mail",
		Payload: &gmail.MessagePart{
			MimeType: "text/html",
			Body:     &gmail.MessagePartBody{Data: b64url("<p>html only</p>")},
		},
	}

	assert.Equal(t, "Short preview of the mail", PlainText(msg))
}

func TestDecodeBodyAcceptsStandardBase64(t *testing.T) {
	// Bytes 0xfb 0xff encode to '+' and '/', which the url alphabet
	// rejects, exercising the fallback.
	std := base64.StdEncoding.EncodeToString([]byte("body\xfb\xff"))

	assert.Equal(t, "body\xfb\xff", decodeBody(std))
	assert.Empty(t, decodeBody("not base64 at all %%%"))
}

func TestToThreadMessageDefaults(t *testing.T) {
	msg := &gmail.Message{
		Id:       "m1",
		ThreadId: "t1",
		Snippet:  "snippet text",
		Payload: &gmail.MessagePart{
			Headers: []*gmail.MessagePartHeader{
				{Name: "Date", Value: "Mon, 2 Jun 2025 09:00:00 -0400"},
			},
		},
	}

	tm := toThreadMessage(msg)

	assert.Equal(t, "m1", tm.ID)
	assert.Equal(t, "(no subject)", tm.Subject)
	assert.Equal(t, "(unknown)", tm.Sender)
	assert.Equal(t, "snippet text", tm.Text)
	assert.Equal(t, "t1", tm.Metadata["Thread-ID"])
	assert.Equal(t, "Mon, 2 Jun 2025 09:00:00 -0400", tm.Metadata["Date"])
}
