package conf

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// PromptsConfig contains prompt configuration loaded from YAML
type PromptsConfig struct {
	Chat ChatPrompts `yaml:"chat"`

	// Source is the file the configuration was read from, empty for defaults
	Source string `yaml:"-"`
}

// ChatPrompts contains chat proxy prompt settings
type ChatPrompts struct {
	SystemPrompt string           `yaml:"system_prompt"`
	Generation   GenerationConfig `yaml:"generation"`
}

// GenerationConfig holds the sampling parameters sent with every chat request
type GenerationConfig struct {
	Temperature     float32 `yaml:"temperature"`
	TopK            int     `yaml:"top_k"`
	TopP            float32 `yaml:"top_p"`
	MaxOutputTokens int     `yaml:"max_output_tokens"`
}

// LoadPromptsConfig loads prompts configuration from YAML file.
// An explicit path must exist; without one the default locations are
// probed and the built-in defaults are used when none is found.
func LoadPromptsConfig(configPath string) (*PromptsConfig, error) {
	paths := []string{configPath}
	if configPath == "" {
		paths = []string{
			"configs/prompts.yaml",
			"/etc/rv2-relay/prompts.yaml",
		}
		if execPath, err := os.Executable(); err == nil {
			paths = append(paths, filepath.Join(filepath.Dir(execPath), "configs", "prompts.yaml"))
		}
	}

	var data []byte
	var loadedPath string
	for _, p := range paths {
		b, err := os.ReadFile(p)
		if err == nil {
			data = b
			loadedPath = p
			break
		}
	}

	if data == nil {
		if configPath != "" {
			return nil, fmt.Errorf("read prompts config %s: file not found", configPath)
		}
		return DefaultPromptsConfig(), nil
	}

	var config PromptsConfig
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", loadedPath, err)
	}
	config.Source = loadedPath

	config.fillDefaults()

	return &config, nil
}

// fillDefaults fills in default values for empty fields
func (c *PromptsConfig) fillDefaults() {
	defaults := DefaultPromptsConfig()

	if c.Chat.SystemPrompt == "" {
		c.Chat.SystemPrompt = defaults.Chat.SystemPrompt
	}

	gen := &c.Chat.Generation
	if gen.Temperature == 0 {
		gen.Temperature = defaults.Chat.Generation.Temperature
	}
	if gen.TopK == 0 {
		gen.TopK = defaults.Chat.Generation.TopK
	}
	if gen.TopP == 0 {
		gen.TopP = defaults.Chat.Generation.TopP
	}
	if gen.MaxOutputTokens == 0 {
		gen.MaxOutputTokens = defaults.Chat.Generation.MaxOutputTokens
	}
}

// DefaultPromptsConfig returns the default prompts configuration
func DefaultPromptsConfig() *PromptsConfig {
	return &PromptsConfig{
		Chat: ChatPrompts{
			SystemPrompt: DefaultSystemPrompt,
			Generation: GenerationConfig{
				Temperature:     0.7,
				TopK:            40,
				TopP:            0.95,
				MaxOutputTokens: 1024,
			},
		},
	}
}
