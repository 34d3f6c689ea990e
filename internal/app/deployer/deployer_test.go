package deployer

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eledoranda/sagemaker-nemo-asr-parakeet/internal/api/v1/dto"
	"github.com/eledoranda/sagemaker-nemo-asr-parakeet/internal/app/storage"
)

type fakeStore struct {
	uploads map[string]string
}

func (s *fakeStore) UploadArtifact(ctx context.Context, localPath, key string) (*storage.UploadResult, error) {
	if s.uploads == nil {
		s.uploads = make(map[string]string)
	}
	s.uploads[key] = localPath
	info, err := os.Stat(localPath)
	if err != nil {
		return nil, err
	}
	return &storage.UploadResult{Key: key, Size: info.Size()}, nil
}

func (s *fakeStore) DownloadArtifact(ctx context.Context, key, destPath string) error { return nil }

func (s *fakeStore) ArtifactExists(ctx context.Context, key string) (bool, error) {
	_, ok := s.uploads[key]
	return ok, nil
}

type fakeControlPlane struct {
	registered *dto.RegisterModelRequest
	created    *dto.CreateEndpointRequest
	finalState string
	polls      int
}

func (f *fakeControlPlane) RegisterModel(ctx context.Context, req *dto.RegisterModelRequest) (*dto.ModelResponse, error) {
	f.registered = req
	return &dto.ModelResponse{ID: 1, Name: req.Name}, nil
}

func (f *fakeControlPlane) CreateEndpoint(ctx context.Context, req *dto.CreateEndpointRequest) (*dto.EndpointResponse, error) {
	f.created = req
	return &dto.EndpointResponse{Name: req.Name, Status: "Creating"}, nil
}

func (f *fakeControlPlane) WaitForEndpoint(ctx context.Context, name string, pollInterval time.Duration) (*dto.EndpointResponse, error) {
	f.polls++
	status := f.finalState
	if status == "" {
		status = "InService"
	}
	resp := &dto.EndpointResponse{Name: name, Status: status}
	if status == "Failed" {
		resp.FailureReason = "provider health check: connection refused"
	}
	return resp, nil
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func writeCheckpoint(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "model.nemo")
	require.NoError(t, os.WriteFile(path, []byte("serialized model weights"), 0o644))
	return path
}

func TestDeployer_Deploy(t *testing.T) {
	store := &fakeStore{}
	cp := &fakeControlPlane{}
	d := New(store, cp, discardLogger())

	cfg := &Config{
		ModelName:      "parakeet-ctc",
		CheckpointPath: writeCheckpoint(t),
	}
	require.NoError(t, cfg.finalize())

	result, err := d.Deploy(context.Background(), cfg)
	require.NoError(t, err)

	assert.Equal(t, "models/parakeet-ctc/model.tar.gz", result.ArtifactKey)
	assert.NotEmpty(t, result.ArtifactSHA256)
	assert.Equal(t, "InService", result.EndpointStatus)

	require.NotNil(t, cp.registered)
	assert.Equal(t, result.ArtifactSHA256, cp.registered.ArtifactSHA256)
	require.NotNil(t, cp.created)
	assert.Equal(t, "parakeet-ctc-endpoint", cp.created.Name)
	assert.Equal(t, "parakeet-ctc", cp.created.ModelName)
}

func TestDeployer_DeployFailedEndpoint(t *testing.T) {
	store := &fakeStore{}
	cp := &fakeControlPlane{finalState: "Failed"}
	d := New(store, cp, discardLogger())

	cfg := &Config{
		ModelName:      "parakeet-ctc",
		CheckpointPath: writeCheckpoint(t),
	}
	require.NoError(t, cfg.finalize())

	_, err := d.Deploy(context.Background(), cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Failed")
	assert.Contains(t, err.Error(), "health check")
}

func TestLoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "deploy.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
model_name: parakeet-ctc
checkpoint_path: /models/parakeet.nemo
instance_type: ml.g5.2xlarge
wait_timeout: 20m
poll_interval: 2s
`), 0o644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "parakeet-ctc", cfg.ModelName)
	assert.Equal(t, "models/parakeet-ctc/model.tar.gz", cfg.ArtifactKey)
	assert.Equal(t, "parakeet-ctc-endpoint", cfg.EndpointName)
	assert.Equal(t, "ml.g5.2xlarge", cfg.InstanceType)
	assert.Equal(t, 20*time.Minute, cfg.WaitTimeout)
	assert.Equal(t, 2*time.Second, cfg.PollInterval)
}

func TestLoadConfig_Invalid(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"missing model name", "checkpoint_path: /models/parakeet.nemo\n"},
		{"missing checkpoint", "model_name: parakeet-ctc\n"},
		{"bad duration", "model_name: x\ncheckpoint_path: /m.nemo\nwait_timeout: soon\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "deploy.yaml")
			require.NoError(t, os.WriteFile(path, []byte(tt.yaml), 0o644))
			_, err := LoadConfig(path)
			assert.Error(t, err)
		})
	}
}
