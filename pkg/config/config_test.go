package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	for _, k := range []string{"PORT", "LLM_PROVIDER", "ATS_MAX_UPLOAD_MB", "LLM_TIMEOUT_SECONDS", "LLM_TEMPERATURE", "PDF_ENGINE"} {
		t.Setenv(k, "")
	}

	cfg := Load()

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "gemini", cfg.LLMProvider)
	assert.Equal(t, "typst", cfg.PDFEngine)
	assert.Equal(t, int64(10<<20), cfg.ATSMaxUploadBytes)
	assert.Equal(t, 45*time.Second, cfg.LLMTimeout)
	assert.InDelta(t, 0.7, cfg.LLMTemperature, 0.0001)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("LLM_PROVIDER", "OpenRouter")
	t.Setenv("ATS_MAX_UPLOAD_MB", "2")
	t.Setenv("LLM_TEMPERATURE", "0.2")
	t.Setenv("JWT_TTL_MINUTES", "not-a-number")

	cfg := Load()

	assert.Equal(t, "openrouter", cfg.LLMProvider)
	assert.Equal(t, int64(2<<20), cfg.ATSMaxUploadBytes)
	assert.InDelta(t, 0.2, cfg.LLMTemperature, 0.0001)
	assert.Equal(t, 30*24*60, cfg.JWTTTLMinutes)
}
