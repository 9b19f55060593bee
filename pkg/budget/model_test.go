package budget

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLookupModel_Families(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		identifier string
		family     string
		window     int
	}{
		{name: "claude versioned", identifier: "claude-sonnet-4", family: "claude", window: windowClaude},
		{name: "gpt versioned", identifier: "gpt-4o-mini", family: "gpt", window: windowGPT},
		{name: "o1", identifier: "o1-preview", family: "o1", window: windowGPT},
		{name: "gemini", identifier: "gemini-1.5-pro", family: "gemini", window: windowGemini},
		{name: "llama", identifier: "llama-3.1-70b", family: "llama", window: windowLlama},
		{name: "case insensitive", identifier: "Claude-Opus", family: "claude", window: windowClaude},
		{name: "unknown falls back", identifier: "mistral-7b", family: "default", window: windowDefault},
		{name: "empty falls back", identifier: "", family: "default", window: windowDefault},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			m := LookupModel(tt.identifier)

			assert.Equal(t, tt.family, m.Family)
			assert.Equal(t, tt.window, m.ContextWindow)
		})
	}
}

func TestEstimateTokens(t *testing.T) {
	t.Parallel()

	m := LookupModel("gpt-4")

	assert.Equal(t, 0, m.EstimateTokens(""))
	assert.Equal(t, 1, m.EstimateTokens("abc"), "partial tokens round up")
	assert.Equal(t, 25, m.EstimateTokens(strings.Repeat("x", 100)))
}

func TestEstimateTokensBytes(t *testing.T) {
	t.Parallel()

	m := LookupModel("gpt-4")

	assert.Equal(t, 0, m.EstimateTokensBytes(0))
	assert.Equal(t, 25, m.EstimateTokensBytes(100))
}

func TestBudget_ReserveSubtracted(t *testing.T) {
	t.Parallel()

	m := LookupModel("claude")

	assert.Equal(t, m.ContextWindow-1024, m.Budget(1024))
	assert.Equal(t, 0, m.Budget(m.ContextWindow+1), "never negative")
}
