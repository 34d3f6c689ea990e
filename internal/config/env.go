package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// LoadEnv loads environment variables from a .env file if one exists.
// Missing files are not an error; variables may be set system-wide.
func LoadEnv() error {
	envPaths := []string{
		".env",
		".env.local",
		"../.env",
		"../../.env",
	}

	for _, envPath := range envPaths {
		if _, err := os.Stat(envPath); err == nil {
			if err := godotenv.Load(envPath); err != nil {
				return fmt.Errorf("error loading %s file: %w", envPath, err)
			}
			break
		}
	}

	return nil
}

// GetEnvOrDefault returns the value of key, or def when unset/empty.
func GetEnvOrDefault(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

// ControlPlaneURL is the base URL of the asrd control plane used by the
// deployer and the test client.
func ControlPlaneURL() string {
	return GetEnvOrDefault("ASRD_URL", "http://localhost:8080")
}

// RegistryBackend selects the registry persistence backend.
func RegistryBackend() string {
	return GetEnvOrDefault("REGISTRY_BACKEND", "sqlite")
}

// RegistrySQLitePath is the path of the SQLite registry database.
func RegistrySQLitePath() string {
	return GetEnvOrDefault("REGISTRY_SQLITE_PATH", "data/registry.db")
}

// RegistryPostgresDSN is the connection string for the Postgres registry.
func RegistryPostgresDSN() string {
	return GetEnvOrDefault("REGISTRY_POSTGRES_DSN",
		"host=localhost port=5432 user=postgres dbname=postgres sslmode=disable")
}

// RedisAddr returns the transcript cache address, empty when caching is off.
func RedisAddr() string {
	return strings.TrimSpace(os.Getenv("REDIS_ADDR"))
}

// OpenAIAPIKey returns the OpenAI API key, validating its basic shape.
func OpenAIAPIKey() (string, error) {
	key := strings.TrimSpace(os.Getenv("OPENAI_API_KEY"))
	if key == "" {
		return "", fmt.Errorf("OPENAI_API_KEY environment variable not set")
	}
	if !strings.HasPrefix(key, "sk-") {
		return "", fmt.Errorf("invalid OPENAI_API_KEY format: must start with 'sk-'")
	}
	return key, nil
}
