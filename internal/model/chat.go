package model

// Chat roles as the generative-language backend names them.
const (
	ChatRoleUser  = "user"
	ChatRoleModel = "model"
)

// ChatMessage is one turn of a copilot conversation.
type ChatMessage struct {
	ID        string `json:"id"`
	Role      string `json:"role"`
	Text      string `json:"text"`
	Timestamp int64  `json:"timestamp"`
}

// ChatSession holds the server-side state of a conversation: the system
// instruction it was seeded with and the full turn history, replayed to the
// model on every exchange.
type ChatSession struct {
	ID                string        `json:"id"`
	SystemInstruction string        `json:"systemInstruction"`
	Messages          []ChatMessage `json:"messages"`
	CreatedAt         int64         `json:"createdAt"`
}
