package gmail

// ThreadMessage is one message of a conversation, reduced to the fields
// the triage workflow needs.
type ThreadMessage struct {
	ID       string            `json:"id"`
	Subject  string            `json:"subject"`
	Sender   string            `json:"sender"`
	Text     string            `json:"text"`
	Metadata map[string]string `json:"metadata,omitempty"`
}
