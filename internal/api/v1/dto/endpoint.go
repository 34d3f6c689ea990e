package dto

import (
	"time"

	"github.com/eledoranda/sagemaker-nemo-asr-parakeet/internal/api/errors"
	"github.com/eledoranda/sagemaker-nemo-asr-parakeet/internal/app/model"
)

// DefaultInstanceType is used when endpoint creation omits the hardware
// profile.
const DefaultInstanceType = "ml.g5.xlarge"

// CreateEndpointRequest represents the request to create or update an
// endpoint
type CreateEndpointRequest struct {
	Name         string `json:"name" binding:"required"`
	ModelName    string `json:"model_name" binding:"required"`
	InstanceType string `json:"instance_type,omitempty"`
}

// Validate performs domain-specific validation
func (r *CreateEndpointRequest) Validate() error {
	validationErrors := make(map[string]string)

	if !resourceNameRe.MatchString(r.Name) {
		validationErrors["name"] = "must be alphanumeric with hyphens, max 63 characters"
	}
	if !resourceNameRe.MatchString(r.ModelName) {
		validationErrors["model_name"] = "must be alphanumeric with hyphens, max 63 characters"
	}

	if len(validationErrors) > 0 {
		return errors.NewValidationError("Invalid endpoint request", validationErrors)
	}
	return nil
}

// EndpointResponse represents an endpoint resource in API responses
type EndpointResponse struct {
	ID            int       `json:"id"`
	Name          string    `json:"name"`
	ModelName     string    `json:"model_name"`
	InstanceType  string    `json:"instance_type"`
	Status        string    `json:"status"`
	FailureReason string    `json:"failure_reason,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// ToEndpointResponse converts an endpoint entity to a response DTO
func ToEndpointResponse(e *model.Endpoint) EndpointResponse {
	return EndpointResponse{
		ID:            e.ID,
		Name:          e.Name,
		ModelName:     e.ModelName,
		InstanceType:  e.InstanceType,
		Status:        string(e.Status),
		FailureReason: e.FailureReason,
		CreatedAt:     e.CreatedAt,
		UpdatedAt:     e.UpdatedAt,
	}
}
