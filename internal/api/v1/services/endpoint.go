package services

import (
	"context"
	"database/sql"
	stderrors "errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/samber/lo"

	"github.com/eledoranda/sagemaker-nemo-asr-parakeet/internal/api/errors"
	"github.com/eledoranda/sagemaker-nemo-asr-parakeet/internal/api/v1/dto"
	"github.com/eledoranda/sagemaker-nemo-asr-parakeet/internal/app/artifact"
	"github.com/eledoranda/sagemaker-nemo-asr-parakeet/internal/app/model"
	"github.com/eledoranda/sagemaker-nemo-asr-parakeet/internal/app/repository"
	"github.com/eledoranda/sagemaker-nemo-asr-parakeet/internal/app/storage"
	"github.com/eledoranda/sagemaker-nemo-asr-parakeet/internal/app/transcriber"
	"github.com/eledoranda/sagemaker-nemo-asr-parakeet/internal/app/util/files"
)

// loadTimeout bounds the background provisioning of a single endpoint:
// artifact download, unpack, verification and provider health check.
const loadTimeout = 10 * time.Minute

// TranscriberFactory builds the provider backing a newly provisioned
// endpoint.
type TranscriberFactory func() (transcriber.Transcriber, error)

// EndpointServiceImpl implements EndpointService and EndpointRuntime
type EndpointServiceImpl struct {
	repo    repository.DeploymentDAO
	store   storage.ArtifactStore
	factory TranscriberFactory
	workDir string

	mu       sync.RWMutex
	runtimes map[string]transcriber.Transcriber
}

// NewEndpointService creates a new endpoint service. workDir is where
// downloaded artifacts are staged, one subdirectory per endpoint.
func NewEndpointService(repo repository.DeploymentDAO, store storage.ArtifactStore, factory TranscriberFactory, workDir string) *EndpointServiceImpl {
	return &EndpointServiceImpl{
		repo:     repo,
		store:    store,
		factory:  factory,
		workDir:  workDir,
		runtimes: make(map[string]transcriber.Transcriber),
	}
}

// CreateEndpoint creates an endpoint, or updates an existing one in place.
// The endpoint is returned in Creating status; provisioning continues in the
// background and the record transitions to InService or Failed.
func (s *EndpointServiceImpl) CreateEndpoint(ctx context.Context, req *dto.CreateEndpointRequest) (*dto.EndpointResponse, error) {
	m, err := s.repo.GetModelByName(req.ModelName)
	if err != nil {
		if stderrors.Is(err, sql.ErrNoRows) {
			return nil, errors.NewBadRequestError("Model not registered: " + req.ModelName)
		}
		return nil, errors.NewInternalError("Failed to resolve model resource")
	}

	instanceType := req.InstanceType
	if instanceType == "" {
		instanceType = dto.DefaultInstanceType
	}

	e := &model.Endpoint{
		Name:         req.Name,
		ModelName:    req.ModelName,
		InstanceType: instanceType,
		Status:       model.EndpointCreating,
	}
	if err := s.repo.SaveEndpoint(e); err != nil {
		return nil, errors.NewInternalError("Failed to save endpoint resource")
	}

	// An update replaces the running provider; drop the stale one so
	// invocations fail fast until the reload completes.
	s.mu.Lock()
	delete(s.runtimes, req.Name)
	s.mu.Unlock()

	go s.provision(req.Name, m)

	saved, err := s.repo.GetEndpointByName(req.Name)
	if err != nil {
		return nil, errors.NewInternalError("Failed to load saved endpoint resource")
	}

	resp := dto.ToEndpointResponse(saved)
	return &resp, nil
}

// provision stages the model artifact and brings the endpoint in service.
// Runs on its own goroutine with a detached context so an aborted create
// request does not orphan a half-provisioned endpoint.
func (s *EndpointServiceImpl) provision(name string, m *model.Model) {
	ctx, cancel := context.WithTimeout(context.Background(), loadTimeout)
	defer cancel()

	if err := s.stage(ctx, name, m); err != nil {
		slog.Error("endpoint provisioning failed", "endpoint", name, "error", err)
		if updErr := s.repo.UpdateEndpointStatus(name, model.EndpointFailed, err.Error()); updErr != nil {
			slog.Error("failed to mark endpoint as failed", "endpoint", name, "error", updErr)
		}
		return
	}

	if err := s.repo.UpdateEndpointStatus(name, model.EndpointInService, ""); err != nil {
		slog.Error("failed to mark endpoint in service", "endpoint", name, "error", err)
		return
	}
	slog.Info("endpoint in service", "endpoint", name, "model", m.Name)
}

func (s *EndpointServiceImpl) stage(ctx context.Context, name string, m *model.Model) error {
	dir := filepath.Join(s.workDir, "endpoints", name)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create staging dir: %w", err)
	}

	tarPath := filepath.Join(dir, "model.tar.gz")
	if err := s.store.DownloadArtifact(ctx, m.ArtifactKey, tarPath); err != nil {
		return fmt.Errorf("download artifact %s: %w", m.ArtifactKey, err)
	}

	if m.ArtifactSHA256 != "" {
		sum, err := files.CalculateFileHash(tarPath)
		if err != nil {
			return fmt.Errorf("hash downloaded artifact: %w", err)
		}
		if sum != m.ArtifactSHA256 {
			return fmt.Errorf("artifact checksum mismatch: got %s, want %s", sum, m.ArtifactSHA256)
		}
	}

	if err := artifact.Verify(tarPath); err != nil {
		return fmt.Errorf("verify artifact: %w", err)
	}
	checkpointPath, err := artifact.Unpack(tarPath, dir)
	if err != nil {
		return fmt.Errorf("unpack artifact: %w", err)
	}
	slog.Info("model checkpoint staged", "endpoint", name, "checkpoint", checkpointPath)

	tr, err := s.factory()
	if err != nil {
		return fmt.Errorf("initialize provider: %w", err)
	}
	if err := tr.HealthCheck(ctx); err != nil {
		return fmt.Errorf("provider health check: %w", err)
	}

	s.mu.Lock()
	s.runtimes[name] = tr
	s.mu.Unlock()
	return nil
}

// Runtime returns the live transcriber serving the named endpoint.
func (s *EndpointServiceImpl) Runtime(name string) (transcriber.Transcriber, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	tr, ok := s.runtimes[name]
	return tr, ok
}

// GetEndpoint retrieves an endpoint resource by name
func (s *EndpointServiceImpl) GetEndpoint(ctx context.Context, name string) (*dto.EndpointResponse, error) {
	e, err := s.repo.GetEndpointByName(name)
	if err != nil {
		if stderrors.Is(err, sql.ErrNoRows) {
			return nil, errors.NewNotFoundError("endpoint")
		}
		return nil, errors.NewInternalError("Failed to retrieve endpoint resource")
	}

	resp := dto.ToEndpointResponse(e)
	return &resp, nil
}

// ListEndpoints lists all endpoint resources
func (s *EndpointServiceImpl) ListEndpoints(ctx context.Context) ([]dto.EndpointResponse, error) {
	endpoints, err := s.repo.GetAllEndpoints()
	if err != nil {
		return nil, errors.NewInternalError("Failed to list endpoint resources")
	}

	return lo.Map(endpoints, func(e model.Endpoint, _ int) dto.EndpointResponse {
		return dto.ToEndpointResponse(&e)
	}), nil
}

// DeleteEndpoint tears down the endpoint's runtime and marks the record
// Deleted. The record is kept for invocation history.
func (s *EndpointServiceImpl) DeleteEndpoint(ctx context.Context, name string) error {
	if _, err := s.repo.GetEndpointByName(name); err != nil {
		if stderrors.Is(err, sql.ErrNoRows) {
			return errors.NewNotFoundError("endpoint")
		}
		return errors.NewInternalError("Failed to retrieve endpoint resource")
	}

	s.mu.Lock()
	delete(s.runtimes, name)
	s.mu.Unlock()

	if err := s.repo.UpdateEndpointStatus(name, model.EndpointDeleted, ""); err != nil {
		return errors.NewInternalError("Failed to mark endpoint deleted")
	}
	return nil
}
