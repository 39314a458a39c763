package models

// ChatTurn is one message exchange unit stored in history
type ChatTurn struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// UserTurn creates a turn authored by the user
func UserTurn(content string) ChatTurn {
	return ChatTurn{Role: RoleUser, Content: content}
}

// AITurn creates a turn authored by the assistant
func AITurn(content string) ChatTurn {
	return ChatTurn{Role: RoleAI, Content: content}
}

// IsAssistant reports whether the turn was produced by the assistant
func (t ChatTurn) IsAssistant() bool {
	return t.Role == RoleAI
}
