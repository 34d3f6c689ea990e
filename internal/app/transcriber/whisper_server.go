package transcriber

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"
	"time"
)

// WhisperServerConfig configures the HTTP connection to a whisper-server
// instance hosting the loaded model.
type WhisperServerConfig struct {
	BaseURL       string        `yaml:"base_url"`
	InferencePath string        `yaml:"inference_path"`
	Timeout       time.Duration `yaml:"timeout"`
	Language      string        `yaml:"language"`
	Temperature   float64       `yaml:"temperature"`
}

// WhisperServerProvider implements transcription via HTTP to a
// whisper-server instance.
type WhisperServerProvider struct {
	config WhisperServerConfig
	client *http.Client
}

type whisperServerResponse struct {
	Text  string `json:"text,omitempty"`
	Error string `json:"error,omitempty"`
}

// NewWhisperServerProvider creates a new whisper-server HTTP provider.
func NewWhisperServerProvider(config WhisperServerConfig) (*WhisperServerProvider, error) {
	if config.BaseURL == "" {
		return nil, fmt.Errorf("base_url is required")
	}
	if config.InferencePath == "" {
		config.InferencePath = "/inference"
	}
	if config.Timeout == 0 {
		config.Timeout = 60 * time.Second
	}

	return &WhisperServerProvider{
		config: config,
		client: &http.Client{Timeout: config.Timeout},
	}, nil
}

// Name implements Transcriber.
func (p *WhisperServerProvider) Name() string {
	return "whisper_server"
}

// Transcribe posts the WAV payload to the inference endpoint and parses the
// transcript out of the JSON response.
func (p *WhisperServerProvider) Transcribe(ctx context.Context, req *Request) (*Response, error) {
	startTime := time.Now()

	if req == nil || req.Clip == nil || len(req.Clip.WAVBytes) == 0 {
		return nil, &TranscriptionError{
			Code:      "invalid_input",
			Message:   "decoded audio clip is required",
			Provider:  p.Name(),
			Retryable: false,
		}
	}

	body, contentType, err := p.createMultipartForm(req)
	if err != nil {
		return nil, &TranscriptionError{
			Code:      "form_creation_failed",
			Message:   fmt.Sprintf("failed to create multipart form: %v", err),
			Provider:  p.Name(),
			Retryable: false,
		}
	}

	url := strings.TrimRight(p.config.BaseURL, "/") + p.config.InferencePath
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, body)
	if err != nil {
		return nil, &TranscriptionError{
			Code:      "request_creation_failed",
			Message:   fmt.Sprintf("failed to create HTTP request: %v", err),
			Provider:  p.Name(),
			Retryable: false,
		}
	}
	httpReq.Header.Set("Content-Type", contentType)

	resp, err := p.client.Do(httpReq)
	if err != nil {
		return nil, &TranscriptionError{
			Code:      "request_failed",
			Message:   fmt.Sprintf("HTTP request failed: %v", err),
			Provider:  p.Name(),
			Retryable: true,
		}
	}
	defer resp.Body.Close()

	responseData, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &TranscriptionError{
			Code:      "response_read_failed",
			Message:   fmt.Sprintf("failed to read response: %v", err),
			Provider:  p.Name(),
			Retryable: true,
		}
	}

	if resp.StatusCode != http.StatusOK {
		return nil, &TranscriptionError{
			Code:      "api_error",
			Message:   fmt.Sprintf("API returned status %d: %s", resp.StatusCode, string(responseData)),
			Provider:  p.Name(),
			Retryable: resp.StatusCode >= 500,
		}
	}

	var parsed whisperServerResponse
	if err := json.Unmarshal(responseData, &parsed); err != nil {
		return nil, &TranscriptionError{
			Code:      "response_parse_failed",
			Message:   fmt.Sprintf("failed to parse response: %v", err),
			Provider:  p.Name(),
			Retryable: false,
		}
	}

	text := strings.TrimSpace(parsed.Text)
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

// HealthCheck probes the server root to verify it is reachable.
func (p *WhisperServerProvider) HealthCheck(ctx context.Context) error {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, p.config.BaseURL, nil)
	if err != nil {
		return fmt.Errorf("failed to create health check request: %w", err)
	}

	resp, err := p.client.Do(httpReq)
	if err != nil {
		return fmt.Errorf("whisper-server unreachable at %s: %w", p.config.BaseURL, err)
	}
	resp.Body.Close()

	if resp.StatusCode >= 500 {
		return fmt.Errorf("whisper-server unhealthy: status %d", resp.StatusCode)
	}
	return nil
}

func (p *WhisperServerProvider) createMultipartForm(req *Request) (*bytes.Buffer, string, error) {
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	part, err := writer.CreateFormFile("file", "audio.wav")
	if err != nil {
		return nil, "", fmt.Errorf("failed to create form file: %v", err)
	}
	if _, err := part.Write(req.Clip.WAVBytes); err != nil {
		return nil, "", fmt.Errorf("failed to write audio payload: %v", err)
	}

	if err := writer.WriteField("response_format", "json"); err != nil {
		return nil, "", fmt.Errorf("failed to write response_format field: %v", err)
	}
	language := req.Language
	if language == "" {
		language = p.config.Language
	}
	if language != "" {
		if err := writer.WriteField("language", language); err != nil {
			return nil, "", fmt.Errorf("failed to write language field: %v", err)
		}
	}
	if p.config.Temperature > 0 {
		field := strconv.FormatFloat(p.config.Temperature, 'f', -1, 64)
		if err := writer.WriteField("temperature", field); err != nil {
			return nil, "", fmt.Errorf("failed to write temperature field: %v", err)
		}
	}

	if err := writer.Close(); err != nil {
		return nil, "", fmt.Errorf("failed to close multipart writer: %v", err)
	}

	return body, writer.FormDataContentType(), nil
}
