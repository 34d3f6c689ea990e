package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetEnvOrDefault(t *testing.T) {
	t.Setenv("ASR_TEST_KEY", "value")
	assert.Equal(t, "value", GetEnvOrDefault("ASR_TEST_KEY", "fallback"))
	assert.Equal(t, "fallback", GetEnvOrDefault("ASR_TEST_KEY_UNSET", "fallback"))

	t.Setenv("ASR_TEST_BLANK", "   ")
	assert.Equal(t, "fallback", GetEnvOrDefault("ASR_TEST_BLANK", "fallback"))
}

func TestOpenAIAPIKey(t *testing.T) {
	tests := []struct {
		name        string
		value       string
		expectError bool
	}{
		{name: "valid_key", value: "sk-test1234567890abcdef", expectError: false},
		{name: "missing_key", value: "", expectError: true},
		{name: "wrong_prefix", value: "api-test1234567890", expectError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("OPENAI_API_KEY", tt.value)

			key, err := OpenAIAPIKey()
			if tt.expectError {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tt.value, key)
			}
		})
	}
}

func TestRegistryDefaults(t *testing.T) {
	t.Setenv("REGISTRY_BACKEND", "")
	t.Setenv("REGISTRY_SQLITE_PATH", "")

	assert.Equal(t, "sqlite", RegistryBackend())
	assert.Equal(t, "data/registry.db", RegistrySQLitePath())
}
