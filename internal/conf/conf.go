package conf

import (
	"strconv"
	"strings"
	"time"
	_ "time/tzdata" // mail timestamps need zone data on slim images

	"github.com/rv2ven/rv2-relay/internal/biz/repo"
	"github.com/rv2ven/rv2-relay/internal/biz/usecase"
)

// Chat providers
const (
	ChatProviderGemini = "gemini"
	ChatProviderOpenAI = "openai"
)

// Defaults
const (
	DefaultPort        = 8787
	DefaultResendURL   = "https://api.resend.com"
	DefaultFormFrom    = "RV2 Web <onboarding@resend.dev>"
	DefaultChatFrom    = "RV2 Chat <onboarding@resend.dev>"
	DefaultRecipients  = "juanchacon@rv2ven.com,juanchacon0298@gmail.com"
	DefaultTimeZone    = "America/Caracas"
	DefaultGeminiURL   = "https://generativelanguage.googleapis.com"
	DefaultGeminiModel = "gemini-2.0-flash"
	DefaultOpenAIModel = "gpt-4o-mini"
	DefaultMailTimeout = 15 * time.Second
	DefaultChatTimeout = 30 * time.Second
)

// Config represents the relay configuration.
// It is built once at startup and treated as read-only afterwards.
type Config struct {
	Server ServerConfig
	Mail   MailConfig
	Chat   ChatConfig

	// Prompts configuration (loaded from YAML)
	Prompts *PromptsConfig

	Log LogConfig
}

// ServerConfig contains HTTP listener configuration
type ServerConfig struct {
	Port int
}

// MailConfig contains email gateway configuration
type MailConfig struct {
	APIKey     string
	APIURL     string
	FormFrom   string
	ChatFrom   string
	Recipients []string
	TimeZone   string
	Timeout    time.Duration
}

// ChatConfig contains chat gateway configuration
type ChatConfig struct {
	Provider string // gemini or openai
	APIKey   string
	BaseURL  string
	Model    string
	Timeout  time.Duration

	OpenAI OpenAIConfig
}

// OpenAIConfig configures an OpenAI-compatible chat backend
type OpenAIConfig struct {
	APIKey  string
	BaseURL string
	Model   string
}

// LogConfig contains logger configuration
type LogConfig struct {
	Level       string
	Development bool
}

// LoadOptions controls where Load reads from
type LoadOptions struct {
	// EnvFile is probed before the fixed candidates. Overrides MAIL_SERVER_ENV_FILE.
	EnvFile string
	// Port overrides PORT when non-zero
	Port int
}

// Load snapshots the process environment, fills unset keys from the
// candidate env files and derives the configuration.
// The process environment itself is left untouched.
func Load(opts LoadOptions) (*Config, error) {
	env := environMap()
	if opts.EnvFile != "" {
		env[EnvFileVar] = opts.EnvFile
	}
	env = HydrateEnv(env, EnvFiles(opts)...)

	cfg, err := FromEnv(env)
	if err != nil {
		return nil, err
	}
	if opts.Port != 0 {
		cfg.Server.Port = opts.Port
	}

	prompts, err := LoadPromptsConfig(env["PROMPTS_CONFIG_PATH"])
	if err != nil {
		return nil, err
	}
	cfg.Prompts = prompts

	return cfg, nil
}

// FromEnv derives configuration from an already hydrated environment
func FromEnv(env map[string]string) (*Config, error) {
	port := DefaultPort
	if val := env["PORT"]; val != "" {
		parsed, err := strconv.Atoi(val)
		if err != nil || parsed <= 0 || parsed > 65535 {
			return nil, &ConfigError{Field: "PORT", Message: "invalid port " + strconv.Quote(val)}
		}
		port = parsed
	}

	mailTimeout, err := durationOrDefault(env, "MAIL_TIMEOUT", DefaultMailTimeout)
	if err != nil {
		return nil, err
	}
	chatTimeout, err := durationOrDefault(env, "CHAT_TIMEOUT", DefaultChatTimeout)
	if err != nil {
		return nil, err
	}

	provider := strings.ToLower(orDefault(env["CHAT_PROVIDER"], ChatProviderGemini))
	if provider != ChatProviderGemini && provider != ChatProviderOpenAI {
		return nil, &ConfigError{Field: "CHAT_PROVIDER", Message: "unsupported provider " + strconv.Quote(provider)}
	}

	return &Config{
		Server: ServerConfig{Port: port},
		Mail: MailConfig{
			APIKey:     env["RESEND_API_KEY"],
			APIURL:     strings.TrimRight(orDefault(env["RESEND_API_URL"], DefaultResendURL), "/"),
			FormFrom:   orDefault(env["RESEND_FORM_FROM"], DefaultFormFrom),
			ChatFrom:   orDefault(env["RESEND_CHAT_FROM"], DefaultChatFrom),
			Recipients: ParseRecipients(orDefault(env["RESEND_RECIPIENTS"], DefaultRecipients)),
			TimeZone:   orDefault(env["MAIL_TIMEZONE"], DefaultTimeZone),
			Timeout:    mailTimeout,
		},
		Chat: ChatConfig{
			Provider: provider,
			APIKey:   env["GEMINI_API_KEY"],
			BaseURL:  strings.TrimRight(orDefault(env["GEMINI_API_URL"], DefaultGeminiURL), "/"),
			Model:    orDefault(env["GEMINI_MODEL"], DefaultGeminiModel),
			Timeout:  chatTimeout,
			OpenAI: OpenAIConfig{
				APIKey:  env["OPENAI_API_KEY"],
				BaseURL: env["OPENAI_BASE_URL"],
				Model:   orDefault(env["OPENAI_MODEL"], DefaultOpenAIModel),
			},
		},
		Log: LogConfig{
			Level:       orDefault(env["LOG_LEVEL"], "info"),
			Development: env["DEBUG"] == "true",
		},
	}, nil
}

// ParseRecipients splits a comma separated list, dropping empty entries
func ParseRecipients(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if addr := strings.TrimSpace(part); addr != "" {
			out = append(out, addr)
		}
	}
	return out
}

// ChatKeyName returns the env variable holding the active chat provider key
func (c *ChatConfig) ChatKeyName() string {
	if c.Provider == ChatProviderOpenAI {
		return "OPENAI_API_KEY"
	}
	return "GEMINI_API_KEY"
}

// ChatKeyConfigured reports whether the active chat provider has a key
func (c *ChatConfig) ChatKeyConfigured() bool {
	if c.Provider == ChatProviderOpenAI {
		return c.OpenAI.APIKey != ""
	}
	return c.APIKey != ""
}

// Location resolves the mail time zone, falling back to UTC
func (c *MailConfig) Location() *time.Location {
	loc, err := time.LoadLocation(c.TimeZone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// ToMailSettings converts to mail usecase settings
func (c *Config) ToMailSettings() usecase.MailSettings {
	return usecase.MailSettings{
		FormFrom:   c.Mail.FormFrom,
		ChatFrom:   c.Mail.ChatFrom,
		Recipients: append([]string(nil), c.Mail.Recipients...),
		KeyName:    "RESEND_API_KEY",
		Location:   c.Mail.Location(),
	}
}

// ToChatSettings converts to chat usecase settings
func (c *Config) ToChatSettings() usecase.ChatSettings {
	prompts := c.Prompts
	if prompts == nil {
		prompts = DefaultPromptsConfig()
	}
	gen := prompts.Chat.Generation
	return usecase.ChatSettings{
		SystemPrompt: prompts.Chat.SystemPrompt,
		Generation: repo.GenerationParams{
			Temperature:     gen.Temperature,
			TopK:            gen.TopK,
			TopP:            gen.TopP,
			MaxOutputTokens: gen.MaxOutputTokens,
		},
		KeyName: c.Chat.ChatKeyName(),
	}
}

func orDefault(val, def string) string {
	if val == "" {
		return def
	}
	return val
}

func durationOrDefault(env map[string]string, key string, def time.Duration) (time.Duration, error) {
	val := env[key]
	if val == "" {
		return def, nil
	}
	d, err := time.ParseDuration(val)
	if err != nil || d <= 0 {
		return 0, &ConfigError{Field: key, Message: "invalid duration " + strconv.Quote(val)}
	}
	return d, nil
}

// ConfigError represents a configuration error
type ConfigError struct {
	Field   string
	Message string
}

func (e *ConfigError) Error() string {
	return e.Field + ": " + e.Message
}
