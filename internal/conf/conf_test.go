package conf

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestHydrateEnv_ParsesLines(t *testing.T) {
	dir := t.TempDir()
	file := writeFile(t, dir, ".env", strings.Join([]string{
		"# comment",
		"",
		"PLAIN=value",
		"  SPACED  =  padded  ",
		`DOUBLE="quoted value"`,
		"SINGLE='single'",
		"URL=https://example.com/a=b",
		"EMPTY=",
		"no separator here",
		"=missing key",
		"UNMATCHED='abc",
		`MID="a"b"`,
		"DASH-KEY=v",
		"HASH=abc #tail",
		`ESC="a\nb"`,
		`LONE="`,
		"RAW=$HOME/x",
	}, "\n"))

	env := HydrateEnv(map[string]string{}, file)

	assert.Equal(t, "value", env["PLAIN"])
	assert.Equal(t, "padded", env["SPACED"])
	assert.Equal(t, "quoted value", env["DOUBLE"])
	assert.Equal(t, "single", env["SINGLE"])
	assert.Equal(t, "https://example.com/a=b", env["URL"])
	v, ok := env["EMPTY"]
	assert.True(t, ok)
	assert.Equal(t, "", v)
	assert.Equal(t, "'abc", env["UNMATCHED"])
	assert.Equal(t, `a"b`, env["MID"])
	assert.Equal(t, "v", env["DASH-KEY"])
	assert.Equal(t, "abc #tail", env["HASH"])
	assert.Equal(t, `a\nb`, env["ESC"])
	assert.Equal(t, "", env["LONE"])
	assert.Equal(t, "$HOME/x", env["RAW"])
	assert.Len(t, env, 13)
}

func TestParseEnvLine_CRLF(t *testing.T) {
	key, value, ok := parseEnvLine("KEY='v'\r")
	require.True(t, ok)
	assert.Equal(t, "KEY", key)
	assert.Equal(t, "v", value)
}

func TestDialectWarnings(t *testing.T) {
	dir := t.TempDir()
	file := writeFile(t, dir, ".env", strings.Join([]string{
		"PLAIN=value",
		"HASH=abc #tail",
		"UNMATCHED='abc",
	}, "\n"))

	warnings := DialectWarnings(file, filepath.Join(dir, "missing.env"))
	require.Len(t, warnings, 2)
	assert.Contains(t, warnings[0], ".env:2: HASH")
	assert.Contains(t, warnings[1], ".env:3: UNMATCHED")
}

func TestHydrateEnv_ExistingAndEarlierWin(t *testing.T) {
	dir := t.TempDir()
	first := writeFile(t, dir, "first.env", "A=first\nB=first\n")
	second := writeFile(t, dir, "second.env", "B=second\nC=second\n")

	base := map[string]string{"A": "process"}
	env := HydrateEnv(base, first, second)

	assert.Equal(t, "process", env["A"])
	assert.Equal(t, "first", env["B"])
	assert.Equal(t, "second", env["C"])
	// base is not mutated
	assert.Equal(t, map[string]string{"A": "process"}, base)
}

func TestHydrateEnv_Idempotent(t *testing.T) {
	dir := t.TempDir()
	file := writeFile(t, dir, ".env", "PORT=9000\nRESEND_RECIPIENTS=a@x.com, b@x.com\n")

	once := HydrateEnv(map[string]string{}, file)
	twice := HydrateEnv(once, file)
	assert.Equal(t, once, twice)

	cfgOnce, err := FromEnv(once)
	require.NoError(t, err)
	cfgTwice, err := FromEnv(twice)
	require.NoError(t, err)
	assert.Equal(t, cfgOnce, cfgTwice)
}

func TestHydrateEnv_MissingFilesIgnored(t *testing.T) {
	env := HydrateEnv(map[string]string{"X": "1"}, filepath.Join(t.TempDir(), "nope.env"))
	assert.Equal(t, map[string]string{"X": "1"}, env)
}

func TestCandidateEnvFiles(t *testing.T) {
	files := CandidateEnvFiles(map[string]string{EnvFileVar: "custom.env"}, "/srv/app", "/opt/bin")
	assert.Equal(t, []string{
		"/srv/app/custom.env",
		"/srv/app/.env.mail",
		"/srv/app/.env",
		"/opt/bin/.env",
	}, files)

	files = CandidateEnvFiles(map[string]string{EnvFileVar: "/etc/relay.env"}, "/srv/app", "")
	assert.Equal(t, []string{"/etc/relay.env", "/srv/app/.env.mail", "/srv/app/.env"}, files)
}

func TestFromEnv_Defaults(t *testing.T) {
	cfg, err := FromEnv(map[string]string{})
	require.NoError(t, err)

	assert.Equal(t, 8787, cfg.Server.Port)
	assert.Equal(t, DefaultFormFrom, cfg.Mail.FormFrom)
	assert.Equal(t, DefaultChatFrom, cfg.Mail.ChatFrom)
	assert.Equal(t, []string{"juanchacon@rv2ven.com", "juanchacon0298@gmail.com"}, cfg.Mail.Recipients)
	assert.Equal(t, DefaultResendURL, cfg.Mail.APIURL)
	assert.Equal(t, DefaultMailTimeout, cfg.Mail.Timeout)
	assert.Equal(t, ChatProviderGemini, cfg.Chat.Provider)
	assert.Equal(t, DefaultGeminiModel, cfg.Chat.Model)
	assert.Equal(t, DefaultChatTimeout, cfg.Chat.Timeout)
	assert.Empty(t, cfg.Mail.APIKey)
	assert.False(t, cfg.Chat.ChatKeyConfigured())
	assert.Equal(t, "GEMINI_API_KEY", cfg.Chat.ChatKeyName())
}

func TestFromEnv_Overrides(t *testing.T) {
	cfg, err := FromEnv(map[string]string{
		"PORT":              "9999",
		"RESEND_API_KEY":    "re_123",
		"RESEND_RECIPIENTS": " a@x.com ,, b@x.com ,",
		"GEMINI_API_KEY":    "g-key",
		"GEMINI_API_URL":    "http://localhost:1234/",
		"CHAT_TIMEOUT":      "5s",
		"DEBUG":             "true",
	})
	require.NoError(t, err)

	assert.Equal(t, 9999, cfg.Server.Port)
	assert.Equal(t, "re_123", cfg.Mail.APIKey)
	assert.Equal(t, []string{"a@x.com", "b@x.com"}, cfg.Mail.Recipients)
	assert.Equal(t, "http://localhost:1234", cfg.Chat.BaseURL)
	assert.Equal(t, 5*time.Second, cfg.Chat.Timeout)
	assert.True(t, cfg.Chat.ChatKeyConfigured())
	assert.True(t, cfg.Log.Development)
}

func TestFromEnv_OpenAIProvider(t *testing.T) {
	cfg, err := FromEnv(map[string]string{"CHAT_PROVIDER": "OpenAI", "GEMINI_API_KEY": "g"})
	require.NoError(t, err)
	assert.Equal(t, ChatProviderOpenAI, cfg.Chat.Provider)
	assert.Equal(t, "OPENAI_API_KEY", cfg.Chat.ChatKeyName())
	assert.False(t, cfg.Chat.ChatKeyConfigured())
}

func TestFromEnv_Invalid(t *testing.T) {
	tests := []struct {
		name  string
		env   map[string]string
		field string
	}{
		{"port", map[string]string{"PORT": "abc"}, "PORT"},
		{"port range", map[string]string{"PORT": "70000"}, "PORT"},
		{"mail timeout", map[string]string{"MAIL_TIMEOUT": "soon"}, "MAIL_TIMEOUT"},
		{"provider", map[string]string{"CHAT_PROVIDER": "bard"}, "CHAT_PROVIDER"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := FromEnv(tt.env)
			var cfgErr *ConfigError
			require.ErrorAs(t, err, &cfgErr)
			assert.Equal(t, tt.field, cfgErr.Field)
		})
	}
}

func TestParseRecipients_AllEmpty(t *testing.T) {
	assert.Empty(t, ParseRecipients(" , ,"))
}

func TestLoadPromptsConfig_DefaultsWhenNoPath(t *testing.T) {
	wd, _ := os.Getwd()
	require.NoError(t, os.Chdir(t.TempDir()))
	defer os.Chdir(wd)

	cfg, err := LoadPromptsConfig("")
	require.NoError(t, err)
	assert.Equal(t, DefaultSystemPrompt, cfg.Chat.SystemPrompt)
	assert.Equal(t, float32(0.7), cfg.Chat.Generation.Temperature)
	assert.Equal(t, 40, cfg.Chat.Generation.TopK)
	assert.Equal(t, float32(0.95), cfg.Chat.Generation.TopP)
	assert.Equal(t, 1024, cfg.Chat.Generation.MaxOutputTokens)
}

func TestLoadPromptsConfig_FileFillsDefaults(t *testing.T) {
	path := writeFile(t, t.TempDir(), "prompts.yaml", "chat:\n  system_prompt: \"Hola\"\n  generation:\n    top_k: 10\n")

	cfg, err := LoadPromptsConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "Hola", cfg.Chat.SystemPrompt)
	assert.Equal(t, 10, cfg.Chat.Generation.TopK)
	assert.Equal(t, 1024, cfg.Chat.Generation.MaxOutputTokens)
	assert.Equal(t, path, cfg.Source)
}

func TestLoadPromptsConfig_MissingExplicitPath(t *testing.T) {
	_, err := LoadPromptsConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestDefaultSystemPrompt_Shape(t *testing.T) {
	assert.True(t, strings.HasPrefix(DefaultSystemPrompt, "Eres RAI, el mejor sales closer de RV2"))
	assert.True(t, strings.HasSuffix(DefaultSystemPrompt, "¡VENDE!"))
}

func TestToSettings(t *testing.T) {
	cfg, err := FromEnv(map[string]string{"RESEND_RECIPIENTS": "a@x.com", "CHAT_PROVIDER": "openai"})
	require.NoError(t, err)

	mail := cfg.ToMailSettings()
	assert.Equal(t, []string{"a@x.com"}, mail.Recipients)
	assert.Equal(t, DefaultFormFrom, mail.FormFrom)
	assert.Equal(t, "America/Caracas", mail.Location.String())

	chat := cfg.ToChatSettings()
	assert.Equal(t, DefaultSystemPrompt, chat.SystemPrompt)
	assert.Equal(t, 40, chat.Generation.TopK)
	assert.Equal(t, "OPENAI_API_KEY", chat.KeyName)
}
