package dto

import (
	"time"

	"github.com/eledoranda/sagemaker-nemo-asr-parakeet/internal/api/errors"
	"github.com/eledoranda/sagemaker-nemo-asr-parakeet/internal/app/model"
)

// InvocationRequest is the inference request payload. The audio must be a
// base64-encoded 16 kHz mono PCM WAV.
type InvocationRequest struct {
	AudioB64 string `json:"audio_b64" binding:"required"`
}

// Validate performs domain-specific validation
func (r *InvocationRequest) Validate() error {
	if r.AudioB64 == "" {
		return errors.NewValidationError("Invalid invocation request", map[string]string{
			"audio_b64": "must be a non-empty base64 string",
		})
	}
	return nil
}

// InvocationResponse wraps the transcript returned to the caller.
type InvocationResponse struct {
	Text string `json:"text"`
}

// InvocationRecordResponse represents a stored invocation record
type InvocationRecordResponse struct {
	ID           int       `json:"id"`
	EndpointName string    `json:"endpoint_name"`
	RequestID    string    `json:"request_id"`
	AudioBytes   int64     `json:"audio_bytes"`
	AudioSeconds float64   `json:"audio_seconds"`
	Transcript   string    `json:"transcript,omitempty"`
	LatencyMs    int64     `json:"latency_ms"`
	Error        string    `json:"error,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

// ToInvocationRecordResponse converts an invocation entity to a response DTO
func ToInvocationRecordResponse(inv *model.Invocation) InvocationRecordResponse {
	resp := InvocationRecordResponse{
		ID:           inv.ID,
		EndpointName: inv.EndpointName,
		RequestID:    inv.RequestID,
		AudioBytes:   inv.AudioBytes,
		AudioSeconds: inv.AudioSeconds,
		Transcript:   inv.Transcript,
		LatencyMs:    inv.LatencyMs,
		CreatedAt:    inv.CreatedAt,
	}
	if inv.HasError != 0 {
		resp.Error = inv.ErrorMessage
	}
	return resp
}
