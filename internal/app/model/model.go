package model

import "time"

// EndpointStatus represents the lifecycle state of a hosted endpoint.
type EndpointStatus string

const (
	EndpointCreating  EndpointStatus = "Creating"
	EndpointInService EndpointStatus = "InService"
	EndpointFailed    EndpointStatus = "Failed"
	EndpointDeleted   EndpointStatus = "Deleted"
)

// Model is a registered model resource pointing at an uploaded artifact.
type Model struct {
	ID             int
	Name           string
	ArtifactKey    string
	ArtifactSHA256 string
	ArtifactSize   int64
	ContainerImage string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// Endpoint is a hosted real-time inference endpoint backed by a model.
type Endpoint struct {
	ID            int
	Name          string
	ModelName     string
	InstanceType  string
	Status        EndpointStatus
	FailureReason string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Invocation is one request/response cycle against an endpoint.
type Invocation struct {
	ID           int
	EndpointName string
	RequestID    string
	AudioBytes   int64
	AudioSeconds float64
	Transcript   string
	LatencyMs    int64
	HasError     int
	ErrorMessage string
	CreatedAt    time.Time
}
