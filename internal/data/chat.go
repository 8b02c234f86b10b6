package data

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/rv2ven/rv2-relay/internal/biz/domain"
	"github.com/rv2ven/rv2-relay/internal/biz/repo"
	"github.com/rv2ven/rv2-relay/internal/infra/gemini"
	"github.com/rv2ven/rv2-relay/internal/infra/openai"
	"github.com/rv2ven/rv2-relay/internal/logger"
	"github.com/rv2ven/rv2-relay/internal/metrics"
)

type contentGenerator interface {
	GenerateContent(ctx context.Context, in *gemini.GenerateRequest) (*gemini.GenerateResponse, error)
}

type chatCompleter interface {
	Chat(ctx context.Context, messages []openai.Message, opts openai.Options) (*openai.Completion, error)
}

// geminiRepo implements the chat repository on Gemini generateContent
type geminiRepo struct {
	client contentGenerator
	logger *zap.Logger
}

// NewGeminiRepo creates a Gemini chat repository
func NewGeminiRepo(client *gemini.Client, logger *zap.Logger) repo.ChatRepo {
	if client == nil {
		return nil
	}
	return &geminiRepo{client: client, logger: logger}
}

func (r *geminiRepo) Generate(ctx context.Context, turns []domain.ChatTurn, params repo.GenerationParams) (*repo.GenerateResult, error) {
	req := &gemini.GenerateRequest{
		Contents: make([]gemini.Content, 0, len(turns)),
		GenerationConfig: gemini.GenerationConfig{
			Temperature:     params.Temperature,
			TopK:            params.TopK,
			TopP:            params.TopP,
			MaxOutputTokens: params.MaxOutputTokens,
		},
	}
	for _, t := range turns {
		req.Contents = append(req.Contents, gemini.Content{
			Role:  string(t.Role),
			Parts: []gemini.Part{{Text: t.Text}},
		})
	}

	start := time.Now()
	resp, err := r.client.GenerateContent(ctx, req)
	observeChat(ctx, r.logger, "gemini", len(turns), err, time.Since(start))
	if err != nil {
		return nil, err
	}

	result := &repo.GenerateResult{}
	if first := resp.FirstCandidate(); first != nil {
		result.FinishReason = first.FinishReason
		if first.Content != nil {
			for _, p := range first.Content.Parts {
				result.Parts = append(result.Parts, p.Text)
			}
		}
	}
	return result, nil
}

// openaiRepo implements the chat repository on an OpenAI-compatible API
type openaiRepo struct {
	client chatCompleter
	logger *zap.Logger
}

// NewOpenAIRepo creates an OpenAI-compatible chat repository
func NewOpenAIRepo(client *openai.Client, logger *zap.Logger) repo.ChatRepo {
	if client == nil {
		return nil
	}
	return &openaiRepo{client: client, logger: logger}
}

func (r *openaiRepo) Generate(ctx context.Context, turns []domain.ChatTurn, params repo.GenerationParams) (*repo.GenerateResult, error) {
	messages := make([]openai.Message, 0, len(turns))
	for _, t := range turns {
		role := "user"
		if t.Role == domain.TurnRoleModel {
			role = "assistant"
		}
		messages = append(messages, openai.Message{Role: role, Content: t.Text})
	}

	start := time.Now()
	out, err := r.client.Chat(ctx, messages, openai.Options{
		Temperature: params.Temperature,
		TopP:        params.TopP,
		MaxTokens:   params.MaxOutputTokens,
	})
	observeChat(ctx, r.logger, "openai", len(turns), err, time.Since(start))
	if err != nil {
		return nil, err
	}

	return &repo.GenerateResult{
		Parts:        []string{out.Content},
		FinishReason: out.FinishReason,
	}, nil
}

func observeChat(ctx context.Context, base *zap.Logger, gateway string, turns int, err error, elapsed time.Duration) {
	metrics.RecordGatewayCall(gateway, err, elapsed)

	log := logger.FromContext(ctx, base).With(
		zap.String("gateway", gateway),
		zap.Int("turns", turns),
		zap.Duration("elapsed", elapsed),
	)
	if err != nil {
		log.Error("chat generation failed", zap.Error(err))
		return
	}
	log.Debug("chat generation done")
}
