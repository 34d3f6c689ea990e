// Package transcriber delegates speech recognition to a pretrained model
// behind a provider interface. The hosted endpoint loads exactly one
// provider; which one is a deployment-time decision.
package transcriber

import (
	"context"
	"fmt"
	"time"

	"github.com/eledoranda/sagemaker-nemo-asr-parakeet/internal/app/audio"
)

// Request carries one decoded audio clip to a provider.
type Request struct {
	Clip     *audio.Clip
	Language string
}

// Response is a completed transcription.
type Response struct {
	Text           string
	Provider       string
	ProcessingTime time.Duration
}

// Transcriber converts a decoded waveform to text.
type Transcriber interface {
	Transcribe(ctx context.Context, req *Request) (*Response, error)

	// HealthCheck verifies the provider is reachable and ready.
	HealthCheck(ctx context.Context) error

	// Name returns the provider identifier.
	Name() string
}

// TranscriptionError is a provider failure with enough context to decide
// whether a retry could help.
type TranscriptionError struct {
	Code      string
	Message   string
	Provider  string
	Retryable bool
}

func (e *TranscriptionError) Error() string {
	return fmt.Sprintf("%s: %s (%s)", e.Provider, e.Message, e.Code)
}
