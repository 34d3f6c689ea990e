// Package repository persists the control plane's model and endpoint
// resources plus per-invocation records.
package repository

import (
	"github.com/eledoranda/sagemaker-nemo-asr-parakeet/internal/app/model"
)

// DeploymentDAO is the registry storage contract. Save operations are
// upserts keyed by resource name: re-registering an existing model or
// endpoint updates it in place.
type DeploymentDAO interface {
	Close() error

	SaveModel(m *model.Model) error
	GetModelByName(name string) (*model.Model, error)
	GetAllModels() ([]model.Model, error)

	SaveEndpoint(e *model.Endpoint) error
	UpdateEndpointStatus(name string, status model.EndpointStatus, failureReason string) error
	GetEndpointByName(name string) (*model.Endpoint, error)
	GetAllEndpoints() ([]model.Endpoint, error)

	RecordInvocation(inv *model.Invocation) error
	GetInvocationsByEndpoint(endpointName string, limit int) ([]model.Invocation, error)
}
