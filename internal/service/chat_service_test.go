package service

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skillhub-io/skillhub-api/internal/models"
	appErrors "github.com/skillhub-io/skillhub-api/pkg/errors"
)

func TestChatSendWithoutAPIKey(t *testing.T) {
	svc := NewChatService(ChatServiceConfig{}, nil, nil)

	_, err := svc.Send(context.Background(), "u1", models.SendChatMessageRequest{Message: "hello"})
	require.Error(t, err)
	typed := appErrors.FromError(err)
	assert.Contains(t, typed.Message, "not configured")
}

func TestChatSendValidatesMessage(t *testing.T) {
	svc := NewChatService(ChatServiceConfig{APIKey: "key"}, nil, nil)

	_, err := svc.Send(context.Background(), "u1", models.SendChatMessageRequest{})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestChatWelcomeFallsBackWithoutAPIKey(t *testing.T) {
	svc := NewChatService(ChatServiceConfig{}, nil, nil)

	msg := svc.Welcome(context.Background(), "Jane")
	assert.Equal(t, "Hello Jane! Welcome to SkillHub. How can I help you today?", msg)
}

func TestChatHistoryAndReset(t *testing.T) {
	svc := NewChatService(ChatServiceConfig{APIKey: "key"}, nil, nil)

	svc.appendTurns("u1",
		models.ChatTurn{Role: models.ChatRoleUser, Content: "hi"},
		models.ChatTurn{Role: models.ChatRoleModel, Content: "hello"},
	)

	history := svc.History(context.Background(), "u1")
	require.Len(t, history, 2)
	assert.Equal(t, models.ChatRoleUser, history[0].Role)

	assert.Empty(t, svc.History(context.Background(), "u2"), "sessions are per user")

	svc.Reset(context.Background(), "u1")
	assert.Empty(t, svc.History(context.Background(), "u1"))
}

func TestChatHistoryIsCapped(t *testing.T) {
	svc := NewChatService(ChatServiceConfig{APIKey: "key"}, nil, nil)

	for i := 0; i < maxHistoryTurns; i++ {
		svc.appendTurns("u1",
			models.ChatTurn{Role: models.ChatRoleUser, Content: "q"},
			models.ChatTurn{Role: models.ChatRoleModel, Content: "a"},
		)
	}

	history := svc.History(context.Background(), "u1")
	assert.Len(t, history, maxHistoryTurns)
}

func TestSplitReply(t *testing.T) {
	assert.Equal(t, []string{"short answer"}, splitReply("short answer"))

	merged := splitReply("first paragraph\n\nsecond paragraph")
	assert.Equal(t, []string{"first paragraph\n\nsecond paragraph"}, merged)

	long := strings.Repeat("a", maxReplyChunk) + "\n\n" + strings.Repeat("b", 100)
	chunks := splitReply(long)
	require.Len(t, chunks, 2)
	assert.Equal(t, strings.Repeat("b", 100), chunks[1])

	assert.Equal(t, []string{"only\n\ncontent"}, splitReply("\n\nonly\n\ncontent\n\n"))
}

func TestExtractReply(t *testing.T) {
	var empty geminiResponse
	assert.Equal(t, "", extractReply(empty))

	resp := geminiResponse{}
	resp.Candidates = append(resp.Candidates, struct {
		Content geminiContent `json:"content"`
	}{Content: geminiContent{Parts: []geminiPart{{Text: "Hello "}, {Text: "world"}}}})
	assert.Equal(t, "Hello world", extractReply(resp))
}
