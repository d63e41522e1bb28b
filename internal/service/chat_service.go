package service

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"

	"github.com/skillhub-io/skillhub-api/internal/models"
	appErrors "github.com/skillhub-io/skillhub-api/pkg/errors"
)

const (
	geminiBaseURL = "https://generativelanguage.googleapis.com/v1beta/models"

	// Conversations are capped so a long-running session does not grow
	// the prompt without bound.
	maxHistoryTurns = 20

	// Replies longer than this are split on paragraph boundaries so the
	// client can render them as separate bubbles.
	maxReplyChunk = 600
)

const chatSystemPrompt = "You are SkillHub's support assistant. Answer questions about courses, " +
	"purchases, certificates and account issues. Keep answers short and friendly. " +
	"If a question is unrelated to the platform, politely steer the user back."

// ChatServiceConfig carries the upstream model configuration.
type ChatServiceConfig struct {
	APIKey string
	Model  string
}

// ChatService proxies support-bot conversations to the Gemini API and keeps
// a short per-user history in memory.
type ChatService struct {
	http      *resty.Client
	config    ChatServiceConfig
	validator *validator.Validate
	logger    *zap.Logger

	mu       sync.Mutex
	sessions map[string][]models.ChatTurn
}

// NewChatService constructs a ChatService instance.
func NewChatService(config ChatServiceConfig, validate *validator.Validate, logger *zap.Logger) *ChatService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	if config.Model == "" {
		config.Model = "gemini-1.5-flash"
	}
	return &ChatService{
		http:      resty.New().SetTimeout(30 * time.Second),
		config:    config,
		validator: validate,
		logger:    logger,
		sessions:  make(map[string][]models.ChatTurn),
	}
}

type geminiPart struct {
	Text string `json:"text"`
}

type geminiContent struct {
	Role  string       `json:"role,omitempty"`
	Parts []geminiPart `json:"parts"`
}

type geminiRequest struct {
	SystemInstruction *geminiContent  `json:"system_instruction,omitempty"`
	Contents          []geminiContent `json:"contents"`
}

type geminiResponse struct {
	Candidates []struct {
		Content geminiContent `json:"content"`
	} `json:"candidates"`
	Error *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// Send forwards one user message, appends both sides to the session history
// and returns the reply split into displayable chunks.
func (s *ChatService) Send(ctx context.Context, userID string, req models.SendChatMessageRequest) (*models.ChatReply, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "message is required")
	}
	if s.config.APIKey == "" {
		return nil, appErrors.Clone(appErrors.ErrInternal, "chat service is not configured")
	}

	history := s.snapshotHistory(userID)
	contents := make([]geminiContent, 0, len(history)+1)
	for _, turn := range history {
		contents = append(contents, geminiContent{
			Role:  string(turn.Role),
			Parts: []geminiPart{{Text: turn.Content}},
		})
	}
	contents = append(contents, geminiContent{
		Role:  string(models.ChatRoleUser),
		Parts: []geminiPart{{Text: req.Message}},
	})

	payload := geminiRequest{
		SystemInstruction: &geminiContent{Parts: []geminiPart{{Text: chatSystemPrompt}}},
		Contents:          contents,
	}

	var out geminiResponse
	resp, err := s.http.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetQueryParam("key", s.config.APIKey).
		SetBody(payload).
		SetResult(&out).
		SetError(&out).
		Post(fmt.Sprintf("%s/%s:generateContent", geminiBaseURL, s.config.Model))
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "chat upstream request failed")
	}
	if resp.IsError() {
		msg := "chat upstream request failed"
		if out.Error != nil && out.Error.Message != "" {
			msg = out.Error.Message
		}
		s.logger.Error("gemini request failed",
			zap.Int("status", resp.StatusCode()),
			zap.String("message", msg))
		return nil, appErrors.Clone(appErrors.ErrInternal, "chat upstream request failed")
	}

	reply := extractReply(out)
	if reply == "" {
		return nil, appErrors.Clone(appErrors.ErrInternal, "chat upstream returned an empty reply")
	}

	s.appendTurns(userID,
		models.ChatTurn{Role: models.ChatRoleUser, Content: req.Message},
		models.ChatTurn{Role: models.ChatRoleModel, Content: reply})

	return &models.ChatReply{Messages: splitReply(reply)}, nil
}

// Welcome produces a personalized greeting. The upstream model is asked for
// one, but any failure falls back to a static greeting so the endpoint never
// errors.
func (s *ChatService) Welcome(ctx context.Context, userName string) string {
	fallback := fmt.Sprintf("Hello %s! Welcome to SkillHub. How can I help you today?", userName)
	if s.config.APIKey == "" {
		return fallback
	}

	prompt := fmt.Sprintf("%s\n\nGenerate a friendly welcome message for a user named %s. "+
		"Welcome them to SkillHub and ask how you can help them today. Keep it concise.", chatSystemPrompt, userName)
	payload := geminiRequest{
		Contents: []geminiContent{{
			Role:  string(models.ChatRoleUser),
			Parts: []geminiPart{{Text: prompt}},
		}},
	}

	var out geminiResponse
	resp, err := s.http.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetQueryParam("key", s.config.APIKey).
		SetBody(payload).
		SetResult(&out).
		SetError(&out).
		Post(fmt.Sprintf("%s/%s:generateContent", geminiBaseURL, s.config.Model))
	if err != nil || resp.IsError() {
		s.logger.Warn("welcome message generation failed", zap.Error(err))
		return fallback
	}
	if reply := extractReply(out); reply != "" {
		return reply
	}
	return fallback
}

// History returns the caller's conversation so far.
func (s *ChatService) History(ctx context.Context, userID string) []models.ChatTurn {
	return s.snapshotHistory(userID)
}

// Reset drops the caller's conversation.
func (s *ChatService) Reset(ctx context.Context, userID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, userID)
}

func (s *ChatService) snapshotHistory(userID string) []models.ChatTurn {
	s.mu.Lock()
	defer s.mu.Unlock()
	history := s.sessions[userID]
	out := make([]models.ChatTurn, len(history))
	copy(out, history)
	return out
}

func (s *ChatService) appendTurns(userID string, turns ...models.ChatTurn) {
	s.mu.Lock()
	defer s.mu.Unlock()
	history := append(s.sessions[userID], turns...)
	if len(history) > maxHistoryTurns {
		history = history[len(history)-maxHistoryTurns:]
	}
	s.sessions[userID] = history
}

func extractReply(resp geminiResponse) string {
	if len(resp.Candidates) == 0 {
		return ""
	}
	var b strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		b.WriteString(part.Text)
	}
	return strings.TrimSpace(b.String())
}

// splitReply breaks a long reply on blank lines, merging short paragraphs so
// each chunk stays under the display limit.
func splitReply(reply string) []string {
	paragraphs := strings.Split(reply, "\n\n")
	chunks := make([]string, 0, len(paragraphs))
	current := ""
	for _, p := range paragraphs {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		if current == "" {
			current = p
			continue
		}
		if len(current)+len(p)+2 <= maxReplyChunk {
			current = current + "\n\n" + p
			continue
		}
		chunks = append(chunks, current)
		current = p
	}
	if current != "" {
		chunks = append(chunks, current)
	}
	if len(chunks) == 0 {
		return []string{reply}
	}
	return chunks
}
