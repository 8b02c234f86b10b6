package repo

import (
	"context"

	"github.com/rv2ven/rv2-relay/internal/biz/domain"
)

// GenerationParams are the sampling parameters of a chat request
type GenerationParams struct {
	Temperature     float32
	TopK            int
	TopP            float32
	MaxOutputTokens int
}

// GenerateResult is the first candidate of a provider answer
type GenerateResult struct {
	// Parts holds the candidate's text parts in order, possibly empty
	Parts        []string
	FinishReason string
}

// ChatRepo is the generative-language gateway interface
type ChatRepo interface {
	// Generate runs one completion over the assembled turns.
	// Non-2xx answers are returned as *domain.GatewayError.
	Generate(ctx context.Context, turns []domain.ChatTurn, params GenerationParams) (*GenerateResult, error)
}
