package transcriber

import (
	"fmt"
	"time"

	"github.com/eledoranda/sagemaker-nemo-asr-parakeet/internal/config"
)

// NewFromEnv builds the provider the endpoint was deployed with.
//
// ASR_PROVIDER selects the implementation:
//   - whisper_server (default): WHISPER_SERVER_URL, WHISPER_SERVER_TIMEOUT_SEC
//   - openai: OPENAI_API_KEY
func NewFromEnv() (Transcriber, error) {
	providerName := config.GetEnvOrDefault("ASR_PROVIDER", "whisper_server")

	switch providerName {
	case "whisper_server":
		cfg := WhisperServerConfig{
			BaseURL:  config.GetEnvOrDefault("WHISPER_SERVER_URL", "http://localhost:9090"),
			Language: config.GetEnvOrDefault("ASR_LANGUAGE", ""),
		}
		if raw := config.GetEnvOrDefault("WHISPER_SERVER_TIMEOUT_SEC", ""); raw != "" {
			var seconds int
			if _, err := fmt.Sscanf(raw, "%d", &seconds); err != nil || seconds <= 0 {
				return nil, fmt.Errorf("invalid WHISPER_SERVER_TIMEOUT_SEC: %q", raw)
			}
			cfg.Timeout = time.Duration(seconds) * time.Second
		}
		return NewWhisperServerProvider(cfg)

	case "openai":
		key, err := config.OpenAIAPIKey()
		if err != nil {
			return nil, err
		}
		return NewOpenAIProvider(key)

	default:
		return nil, fmt.Errorf("unknown transcription provider: %q", providerName)
	}
}
