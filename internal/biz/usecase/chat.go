package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/rv2ven/rv2-relay/internal/biz/domain"
	"github.com/rv2ven/rv2-relay/internal/biz/repo"
)

// ChatSettings holds the fixed prompt and sampling parameters
type ChatSettings struct {
	SystemPrompt string
	Generation   repo.GenerationParams
	KeyName      string // reported when the gateway is not configured
}

// ChatUsecase proxies a visitor conversation to the chat provider
type ChatUsecase struct {
	chatRepo repo.ChatRepo
	settings ChatSettings
}

// NewChatUsecase creates a new chat usecase. chatRepo may be nil when no
// provider key is configured.
func NewChatUsecase(chatRepo repo.ChatRepo, settings ChatSettings) *ChatUsecase {
	if settings.KeyName == "" {
		settings.KeyName = "GEMINI_API_KEY"
	}
	return &ChatUsecase{
		chatRepo: chatRepo,
		settings: settings,
	}
}

// Reply runs one provider call for the conversation and extracts its text
func (uc *ChatUsecase) Reply(ctx context.Context, req *domain.ChatProxyRequest) (*domain.ChatReply, error) {
	if req == nil || len(req.Messages) == 0 {
		return nil, &domain.ValidationError{Message: domain.MsgChatEmpty}
	}

	if uc.chatRepo == nil {
		return nil, domain.NotConfigured(uc.settings.KeyName)
	}

	turns := BuildConversation(uc.settings.SystemPrompt, req.Messages)

	result, err := uc.chatRepo.Generate(ctx, turns, uc.settings.Generation)
	if err != nil {
		return nil, fmt.Errorf("generate reply: %w", err)
	}

	text := ExtractReplyText(result)
	if text == "" {
		return nil, domain.ErrEmptyModelOutput
	}

	return &domain.ChatReply{
		Text:         text,
		FinishReason: result.FinishReason,
	}, nil
}

// BuildConversation prepends the system instruction as a user turn and
// appends one turn per message that has content
func BuildConversation(systemPrompt string, messages []domain.ChatMessage) []domain.ChatTurn {
	turns := make([]domain.ChatTurn, 0, len(messages)+1)
	turns = append(turns, domain.ChatTurn{Role: domain.TurnRoleUser, Text: systemPrompt})

	for _, m := range messages {
		if !m.HasContent() {
			continue
		}
		turns = append(turns, domain.ChatTurn{
			Role: domain.TurnRoleFor(m.Role),
			Text: m.Content,
		})
	}
	return turns
}

// ExtractReplyText joins the non-empty parts with newlines and trims the result
func ExtractReplyText(result *repo.GenerateResult) string {
	if result == nil {
		return ""
	}
	var parts []string
	for _, p := range result.Parts {
		if p != "" {
			parts = append(parts, p)
		}
	}
	return strings.TrimSpace(strings.Join(parts, "\n"))
}
