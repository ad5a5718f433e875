package model

// MaxHistory is the number of chat messages retained.
const MaxHistory = 30

// Roles of a chat message.
const (
	RoleUser = "user"
	RoleBot  = "bot"
)

// ChatMessage is one entry of the assistant conversation.
type ChatMessage struct {
	Role string `json:"role"`
	Text string `json:"text"`
}

// TrimHistory keeps the most recent MaxHistory messages.
func TrimHistory(msgs []ChatMessage) []ChatMessage {
	if len(msgs) <= MaxHistory {
		return msgs
	}
	return msgs[len(msgs)-MaxHistory:]
}
