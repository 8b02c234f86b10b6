package main

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rv2ven/rv2-relay/internal/conf"
)

func TestRootCommandFlags(t *testing.T) {
	root := newRootCmd()
	require.NotNil(t, root.PersistentFlags().Lookup("env-file"))
	require.NotNil(t, root.PersistentFlags().Lookup("port"))

	names := map[string]bool{}
	for _, c := range root.Commands() {
		names[c.Name()] = true
	}
	assert.True(t, names["serve"])
	assert.True(t, names["check-config"])
}

func TestPrintConfigHidesSecrets(t *testing.T) {
	cfg, err := conf.FromEnv(map[string]string{"RESEND_API_KEY": "re_secret", "GEMINI_API_KEY": "g_secret"})
	require.NoError(t, err)
	cfg.Prompts = conf.DefaultPromptsConfig()

	var buf bytes.Buffer
	root := newRootCmd()
	root.SetOut(&buf)
	printConfig(root, cfg)

	out := buf.String()
	assert.NotContains(t, out, "re_secret")
	assert.NotContains(t, out, "g_secret")
	assert.Contains(t, out, "resend key:       set")
	assert.Contains(t, out, "prompts:          built-in")
	assert.Contains(t, out, "8787")
}
