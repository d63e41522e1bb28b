package models

// ChatRole identifies the author of a chat turn.
type ChatRole string

const (
	ChatRoleUser  ChatRole = "user"
	ChatRoleModel ChatRole = "model"
)

// ChatTurn is one message in a support-bot conversation.
type ChatTurn struct {
	Role    ChatRole `json:"role"`
	Content string   `json:"content"`
}

// SendChatMessageRequest carries one user message to the support bot.
type SendChatMessageRequest struct {
	Message string `json:"message" validate:"required"`
}

// ChatReply is the bot's answer, split into displayable chunks.
type ChatReply struct {
	Messages []string `json:"messages"`
}
