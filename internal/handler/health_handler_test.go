package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"mockanytime/internal/config"
	"mockanytime/internal/dto"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHealthReportsOK(t *testing.T) {
	cfg := &config.Config{}
	cfg.LLM.Provider = "ollama"
	cfg.LLM.ServerURL = "http://localhost:11434"
	cfg.LLM.Model = "qwen3:0.6b"

	app := fiber.New()
	app.Get("/health", NewHealthHandler(cfg, nil).Health)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/health", nil), -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var result dto.HealthResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&result))
	assert.Equal(t, "ok", result.Status)
	assert.Empty(t, result.Details)
}

func TestHealthReportsDegradedConfig(t *testing.T) {
	cfg := &config.Config{}
	cfg.LLM.Provider = "openai"
	// model and api key intentionally left unset

	app := fiber.New()
	app.Get("/health", NewHealthHandler(cfg, nil).Health)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/health", nil), -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)

	var result dto.HealthResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&result))
	assert.Equal(t, "degraded", result.Status)
	assert.NotEmpty(t, result.Details)
}
