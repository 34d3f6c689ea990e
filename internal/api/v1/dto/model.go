package dto

import (
	"regexp"
	"time"

	"github.com/eledoranda/sagemaker-nemo-asr-parakeet/internal/api/errors"
	"github.com/eledoranda/sagemaker-nemo-asr-parakeet/internal/app/model"
)

// Resource names follow the platform convention: alphanumeric plus hyphens,
// no leading/trailing hyphen, at most 63 characters.
var resourceNameRe = regexp.MustCompile(`^[a-zA-Z0-9]([a-zA-Z0-9-]{0,61}[a-zA-Z0-9])?$`)

// RegisterModelRequest represents the request to register a model resource
type RegisterModelRequest struct {
	Name           string `json:"name" binding:"required"`
	ArtifactKey    string `json:"artifact_key" binding:"required"`
	ArtifactSHA256 string `json:"artifact_sha256,omitempty"`
	ArtifactSize   int64  `json:"artifact_size,omitempty"`
	ContainerImage string `json:"container_image,omitempty"`
}

// Validate performs domain-specific validation
func (r *RegisterModelRequest) Validate() error {
	validationErrors := make(map[string]string)

	if !resourceNameRe.MatchString(r.Name) {
		validationErrors["name"] = "must be alphanumeric with hyphens, max 63 characters"
	}
	if r.ArtifactKey == "" {
		validationErrors["artifact_key"] = "is required"
	}
	if r.ArtifactSize < 0 {
		validationErrors["artifact_size"] = "must not be negative"
	}

	if len(validationErrors) > 0 {
		return errors.NewValidationError("Invalid model registration request", validationErrors)
	}
	return nil
}

// ModelResponse represents a model resource in API responses
type ModelResponse struct {
	ID             int       `json:"id"`
	Name           string    `json:"name"`
	ArtifactKey    string    `json:"artifact_key"`
	ArtifactSHA256 string    `json:"artifact_sha256,omitempty"`
	ArtifactSize   int64     `json:"artifact_size,omitempty"`
	ContainerImage string    `json:"container_image,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// ToModelResponse converts a model entity to a response DTO
func ToModelResponse(m *model.Model) ModelResponse {
	return ModelResponse{
		ID:             m.ID,
		Name:           m.Name,
		ArtifactKey:    m.ArtifactKey,
		ArtifactSHA256: m.ArtifactSHA256,
		ArtifactSize:   m.ArtifactSize,
		ContainerImage: m.ContainerImage,
		CreatedAt:      m.CreatedAt,
		UpdatedAt:      m.UpdatedAt,
	}
}
