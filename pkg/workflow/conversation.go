package workflow

import "time"

// ConversationTurn is one message in a conversation's history.
type ConversationTurn struct {
	Role      string    `json:"role"` // "user" or "assistant"
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

// ConversationStore keeps per-conversation history. Implementations trim
// each conversation to its most recent ten turns inside Append.
type ConversationStore interface {
	History(conversationID string) ([]ConversationTurn, error)
	Append(conversationID string, turn ConversationTurn) error
	Delete(conversationID string) error
	List() ([]string, error)
}
