// Package deployer drives the end-to-end deployment flow: pack the model
// checkpoint, upload the artifact, register the model resource and bring an
// endpoint in service.
package deployer

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/eledoranda/sagemaker-nemo-asr-parakeet/internal/api/v1/dto"
	"github.com/eledoranda/sagemaker-nemo-asr-parakeet/internal/app/artifact"
	"github.com/eledoranda/sagemaker-nemo-asr-parakeet/internal/app/storage"
	"github.com/eledoranda/sagemaker-nemo-asr-parakeet/internal/app/util/files"
)

// ControlPlane is the subset of the platform client the deployer needs.
type ControlPlane interface {
	RegisterModel(ctx context.Context, req *dto.RegisterModelRequest) (*dto.ModelResponse, error)
	CreateEndpoint(ctx context.Context, req *dto.CreateEndpointRequest) (*dto.EndpointResponse, error)
	WaitForEndpoint(ctx context.Context, name string, pollInterval time.Duration) (*dto.EndpointResponse, error)
}

// Result summarizes a completed deployment.
type Result struct {
	ArtifactKey    string
	ArtifactSHA256 string
	ArtifactSize   int64
	EndpointName   string
	EndpointStatus string
	Elapsed        time.Duration
}

// Deployer orchestrates deployments against one control plane.
type Deployer struct {
	store  storage.ArtifactStore
	cp     ControlPlane
	logger *slog.Logger
}

// New creates a deployer.
func New(store storage.ArtifactStore, cp ControlPlane, logger *slog.Logger) *Deployer {
	return &Deployer{store: store, cp: cp, logger: logger}
}

// Deploy runs the full flow sequentially. Each step is idempotent:
// re-running a deployment re-uses a valid packed artifact, re-registers the
// model in place and updates the existing endpoint.
func (d *Deployer) Deploy(ctx context.Context, cfg *Config) (*Result, error) {
	start := time.Now()

	tarPath := filepath.Join(filepath.Dir(cfg.CheckpointPath), "model.tar.gz")
	d.logger.Info("packing model artifact", "checkpoint", cfg.CheckpointPath, "out", tarPath)
	if _, err := artifact.Pack(cfg.CheckpointPath, tarPath); err != nil {
		return nil, fmt.Errorf("pack artifact: %w", err)
	}

	sha, err := files.CalculateFileHash(tarPath)
	if err != nil {
		return nil, fmt.Errorf("hash artifact: %w", err)
	}
	info, err := os.Stat(tarPath)
	if err != nil {
		return nil, fmt.Errorf("stat artifact: %w", err)
	}

	d.logger.Info("uploading artifact", "key", cfg.ArtifactKey, "bytes", info.Size())
	upload, err := d.store.UploadArtifact(ctx, tarPath, cfg.ArtifactKey)
	if err != nil {
		return nil, fmt.Errorf("upload artifact: %w", err)
	}

	d.logger.Info("registering model", "model", cfg.ModelName)
	if _, err := d.cp.RegisterModel(ctx, &dto.RegisterModelRequest{
		Name:           cfg.ModelName,
		ArtifactKey:    upload.Key,
		ArtifactSHA256: sha,
		ArtifactSize:   info.Size(),
		ContainerImage: cfg.ContainerImage,
	}); err != nil {
		return nil, fmt.Errorf("register model: %w", err)
	}

	d.logger.Info("creating endpoint", "endpoint", cfg.EndpointName)
	if _, err := d.cp.CreateEndpoint(ctx, &dto.CreateEndpointRequest{
		Name:         cfg.EndpointName,
		ModelName:    cfg.ModelName,
		InstanceType: cfg.InstanceType,
	}); err != nil {
		return nil, fmt.Errorf("create endpoint: %w", err)
	}

	waitCtx, cancel := context.WithTimeout(ctx, cfg.WaitTimeout)
	defer cancel()

	d.logger.Info("waiting for endpoint", "endpoint", cfg.EndpointName, "timeout", cfg.WaitTimeout)
	ep, err := d.cp.WaitForEndpoint(waitCtx, cfg.EndpointName, cfg.PollInterval)
	if err != nil {
		return nil, fmt.Errorf("wait for endpoint: %w", err)
	}
	if ep.Status != "InService" {
		return nil, fmt.Errorf("endpoint %s ended in status %s: %s", cfg.EndpointName, ep.Status, ep.FailureReason)
	}

	result := &Result{
		ArtifactKey:    upload.Key,
		ArtifactSHA256: sha,
		ArtifactSize:   info.Size(),
		EndpointName:   cfg.EndpointName,
		EndpointStatus: ep.Status,
		Elapsed:        time.Since(start),
	}
	d.logger.Info("deployment complete", "endpoint", result.EndpointName, "elapsed", result.Elapsed)
	return result, nil
}
