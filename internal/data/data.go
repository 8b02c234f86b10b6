package data

import (
	"go.uber.org/zap"

	"github.com/rv2ven/rv2-relay/internal/biz/repo"
	"github.com/rv2ven/rv2-relay/internal/conf"
	"github.com/rv2ven/rv2-relay/internal/infra/gemini"
	"github.com/rv2ven/rv2-relay/internal/infra/openai"
	"github.com/rv2ven/rv2-relay/internal/infra/resend"
)

// Repositories contains all repositories.
// A field is nil when its gateway key is not configured.
type Repositories struct {
	Mail repo.MailRepo
	Chat repo.ChatRepo
}

// NewRepositories creates all repositories from configuration
func NewRepositories(cfg *conf.Config, logger *zap.Logger) *Repositories {
	logger = logger.Named("data")
	repos := &Repositories{}

	if cfg.Mail.APIKey != "" {
		repos.Mail = NewResendRepo(resend.NewClient(cfg.Mail.APIKey, cfg.Mail.APIURL, cfg.Mail.Timeout), logger)
	} else {
		logger.Warn("RESEND_API_KEY not set, /api/send-mail will answer 500")
	}

	if !cfg.Chat.ChatKeyConfigured() {
		logger.Warn(cfg.Chat.ChatKeyName()+" not set, /api/chat will answer 500",
			zap.String("provider", cfg.Chat.Provider))
		return repos
	}

	switch cfg.Chat.Provider {
	case conf.ChatProviderOpenAI:
		repos.Chat = NewOpenAIRepo(openai.NewClient(cfg.Chat.OpenAI.APIKey, cfg.Chat.OpenAI.BaseURL, cfg.Chat.OpenAI.Model, cfg.Chat.Timeout), logger)
	default:
		repos.Chat = NewGeminiRepo(gemini.NewClient(cfg.Chat.APIKey, cfg.Chat.BaseURL, cfg.Chat.Model, cfg.Chat.Timeout), logger)
	}
	return repos
}
