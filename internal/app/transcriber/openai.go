package transcriber

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/sashabaranov/go-openai"
)

// OpenAIProvider implements transcription via the OpenAI audio API.
type OpenAIProvider struct {
	client *openai.Client
}

// NewOpenAIProvider creates a provider backed by the OpenAI API.
func NewOpenAIProvider(apiKey string) (*OpenAIProvider, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("OpenAI API key is required")
	}
	return &OpenAIProvider{client: openai.NewClient(apiKey)}, nil
}

// Name implements Transcriber.
func (p *OpenAIProvider) Name() string {
	return "openai"
}

// Transcribe sends the WAV payload to the OpenAI transcription API.
func (p *OpenAIProvider) Transcribe(ctx context.Context, req *Request) (*Response, error) {
	startTime := time.Now()

	if req == nil || req.Clip == nil || len(req.Clip.WAVBytes) == 0 {
		return nil, &TranscriptionError{
			Code:      "invalid_input",
			Message:   "decoded audio clip is required",
			Provider:  p.Name(),
			Retryable: false,
		}
	}

	audioReq := openai.AudioRequest{
		Model:    openai.Whisper1,
		FilePath: "audio.wav",
		Reader:   bytes.NewReader(req.Clip.WAVBytes),
		Language: req.Language,
	}
	resp, err := p.client.CreateTranscription(ctx, audioReq)
	if err != nil {
		return nil, &TranscriptionError{
			Code:      "api_error",
			Message:   fmt.Sprintf("createTranscription failed: %v", err),
			Provider:  p.Name(),
			Retryable: true,
		}
	}

	text := strings.TrimSpace(resp.Text)
	if text == "" {
		return nil, &TranscriptionError{
			Code:      "empty_transcription",
			Message:   "no transcription text found in response",
			Provider:  p.Name(),
			Retryable: false,
		}
	}

	return &Response{
		Text:           text,
		Provider:       p.Name(),
		ProcessingTime: time.Since(startTime),
	}, nil
}

// HealthCheck verifies the API is reachable with the configured key.
func (p *OpenAIProvider) HealthCheck(ctx context.Context) error {
	if _, err := p.client.ListModels(ctx); err != nil {
		return fmt.Errorf("openai API unreachable: %w", err)
	}
	return nil
}
