package models

// Chat is a two-party message channel. Keyed like pools, via the same
// pairing function, in a separate namespace.
type Chat struct {
	// ID is the deterministic pairing id of the two members.
	ID string `json:"id"`

	// Users holds the two member uids.
	Users []string `json:"users"`

	// LastMessage summarizes the most recent message for list views.
	LastMessage *LastMessage `json:"lastMessage,omitempty"`
}

// LastMessage is the denormalized summary kept on the chat record.
type LastMessage struct {
	Text      string `json:"text"`
	SenderID  string `json:"senderId"`
	Timestamp int64  `json:"timestamp"`
}

// Message is a single entry in a chat's message history.
type Message struct {
	// ID is the unique identifier for the message (UUID format).
	ID string `json:"id"`

	Text       string `json:"text"`
	SenderID   string `json:"senderId"`
	SenderName string `json:"senderName"`

	// CreatedAt is the server-assigned Unix timestamp.
	CreatedAt int64 `json:"createdAt"`
}

// MessageWindow bounds live message retrieval to the most recent entries.
const MessageWindow = 50
