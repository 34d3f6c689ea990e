package services

import (
	"context"

	"github.com/eledoranda/sagemaker-nemo-asr-parakeet/internal/api/v1/dto"
	"github.com/eledoranda/sagemaker-nemo-asr-parakeet/internal/app/transcriber"
)

// ModelService manages registered model resources.
type ModelService interface {
	RegisterModel(ctx context.Context, req *dto.RegisterModelRequest) (*dto.ModelResponse, error)
	GetModel(ctx context.Context, name string) (*dto.ModelResponse, error)
	ListModels(ctx context.Context) ([]dto.ModelResponse, error)
}

// EndpointService manages hosted endpoint resources and their lifecycle.
type EndpointService interface {
	CreateEndpoint(ctx context.Context, req *dto.CreateEndpointRequest) (*dto.EndpointResponse, error)
	GetEndpoint(ctx context.Context, name string) (*dto.EndpointResponse, error)
	ListEndpoints(ctx context.Context) ([]dto.EndpointResponse, error)
	DeleteEndpoint(ctx context.Context, name string) error
}

// EndpointRuntime resolves the live transcriber serving an InService
// endpoint.
type EndpointRuntime interface {
	Runtime(name string) (transcriber.Transcriber, bool)
}

// InvocationService runs inference against a hosted endpoint.
type InvocationService interface {
	Invoke(ctx context.Context, endpointName, requestID string, req *dto.InvocationRequest) (*dto.InvocationResponse, error)
	ListInvocations(ctx context.Context, endpointName string, limit int) ([]dto.InvocationRecordResponse, error)
}
