package services

import (
	"context"
	"database/sql"
	stderrors "errors"

	"github.com/samber/lo"

	"github.com/eledoranda/sagemaker-nemo-asr-parakeet/internal/api/errors"
	"github.com/eledoranda/sagemaker-nemo-asr-parakeet/internal/api/v1/dto"
	"github.com/eledoranda/sagemaker-nemo-asr-parakeet/internal/app/model"
	"github.com/eledoranda/sagemaker-nemo-asr-parakeet/internal/app/repository"
	"github.com/eledoranda/sagemaker-nemo-asr-parakeet/internal/app/storage"
)

// ModelServiceImpl implements ModelService
type ModelServiceImpl struct {
	repo  repository.DeploymentDAO
	store storage.ArtifactStore
}

// NewModelService creates a new model service
func NewModelService(repo repository.DeploymentDAO, store storage.ArtifactStore) ModelService {
	return &ModelServiceImpl{repo: repo, store: store}
}

// RegisterModel registers (or updates) a model resource after verifying the
// referenced artifact is present in object storage.
func (s *ModelServiceImpl) RegisterModel(ctx context.Context, req *dto.RegisterModelRequest) (*dto.ModelResponse, error) {
	exists, err := s.store.ArtifactExists(ctx, req.ArtifactKey)
	if err != nil {
		return nil, errors.NewServiceUnavailableError("Failed to check artifact storage: " + err.Error())
	}
	if !exists {
		return nil, errors.NewBadRequestError("Artifact not found in object storage: " + req.ArtifactKey)
	}

	m := &model.Model{
		Name:           req.Name,
		ArtifactKey:    req.ArtifactKey,
		ArtifactSHA256: req.ArtifactSHA256,
		ArtifactSize:   req.ArtifactSize,
		ContainerImage: req.ContainerImage,
	}
	if err := s.repo.SaveModel(m); err != nil {
		return nil, errors.NewInternalError("Failed to save model resource")
	}

	saved, err := s.repo.GetModelByName(req.Name)
	if err != nil {
		return nil, errors.NewInternalError("Failed to load saved model resource")
	}

	resp := dto.ToModelResponse(saved)
	return &resp, nil
}

// GetModel retrieves a model resource by name
func (s *ModelServiceImpl) GetModel(ctx context.Context, name string) (*dto.ModelResponse, error) {
	m, err := s.repo.GetModelByName(name)
	if err != nil {
		if stderrors.Is(err, sql.ErrNoRows) {
			return nil, errors.NewNotFoundError("model")
		}
		return nil, errors.NewInternalError("Failed to retrieve model resource")
	}

	resp := dto.ToModelResponse(m)
	return &resp, nil
}

// ListModels lists all registered model resources
func (s *ModelServiceImpl) ListModels(ctx context.Context) ([]dto.ModelResponse, error) {
	models, err := s.repo.GetAllModels()
	if err != nil {
		return nil, errors.NewInternalError("Failed to list model resources")
	}

	return lo.Map(models, func(m model.Model, _ int) dto.ModelResponse {
		return dto.ToModelResponse(&m)
	}), nil
}
