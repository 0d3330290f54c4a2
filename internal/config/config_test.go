package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(nil)
	require.NoError(t, err)

	assert.Equal(t, ProviderGemini, cfg.Provider)
	assert.Equal(t, "gemini-2.0-flash", cfg.Gemini.Model)
	assert.Equal(t, 1280, cfg.Image.MaxWidth)
	assert.Equal(t, "127.0.0.1:8080", cfg.BindAddr)
}

func TestLoadEnvOverridesDefaults(t *testing.T) {
	t.Setenv("AI_PROVIDER", "OpenAI")
	t.Setenv("GOOGLE_API_KEY", "secret")
	t.Setenv("IMAGE_MAX_WIDTH", "640")

	cfg, err := Load(nil)
	require.NoError(t, err)

	assert.Equal(t, ProviderOpenAI, cfg.Provider)
	assert.Equal(t, "secret", cfg.Gemini.APIKey)
	assert.Equal(t, 640, cfg.Image.MaxWidth)
}

func TestLoadFlagsOverrideEnv(t *testing.T) {
	t.Setenv("AI_PROVIDER", "openai")

	cfg, err := Load([]string{"-provider", "stub", "-bind-addr", ":9090", "-debug-mode"})
	require.NoError(t, err)

	assert.Equal(t, ProviderStub, cfg.Provider)
	assert.Equal(t, ":9090", cfg.BindAddr)
	assert.True(t, cfg.DebugMode)
}

func TestLoadRejectsUnknownProvider(t *testing.T) {
	_, err := Load([]string{"-provider", "llama"})
	assert.Error(t, err)
}

func TestLoadRejectsBadQuality(t *testing.T) {
	_, err := Load([]string{"-image-quality", "101"})
	assert.Error(t, err)
}
