package app

import (
	"log"
	"path/filepath"

	"github.com/eledoranda/sagemaker-nemo-asr-parakeet/internal/api/v1/routes"
	"github.com/eledoranda/sagemaker-nemo-asr-parakeet/internal/api/v1/services"
	"github.com/eledoranda/sagemaker-nemo-asr-parakeet/internal/app/cache"
	"github.com/eledoranda/sagemaker-nemo-asr-parakeet/internal/app/repository"
	"github.com/eledoranda/sagemaker-nemo-asr-parakeet/internal/app/repository/pg"
	"github.com/eledoranda/sagemaker-nemo-asr-parakeet/internal/app/repository/sqlite"
	"github.com/eledoranda/sagemaker-nemo-asr-parakeet/internal/app/storage"
	"github.com/eledoranda/sagemaker-nemo-asr-parakeet/internal/app/transcriber"
	"github.com/eledoranda/sagemaker-nemo-asr-parakeet/internal/app/util/files"
	"github.com/eledoranda/sagemaker-nemo-asr-parakeet/internal/config"
)

// provideDeploymentDAO selects the registry backend from the environment,
// sqlite by default.
func provideDeploymentDAO() repository.DeploymentDAO {
	switch backend := config.RegistryBackend(); backend {
	case "postgres":
		dao, err := pg.NewPostgresDB(config.RegistryPostgresDSN())
		if err != nil {
			log.Fatalf("Failed to open postgres registry: %v", err)
		}
		return dao
	case "sqlite":
		projectRoot, err := files.GetProjectRoot()
		if err != nil {
			log.Fatalf("Failed to get project root: %v", err)
		}
		dao, err := sqlite.NewSQLiteDB(filepath.Join(projectRoot, config.RegistrySQLitePath()))
		if err != nil {
			log.Fatalf("Failed to open sqlite registry: %v", err)
		}
		return dao
	default:
		log.Fatalf("Unknown registry backend: %s", backend)
		return nil
	}
}

// provideArtifactStore connects to object storage, must set MINIO_ENDPOINT,
// MINIO_ACCESS_KEY and MINIO_SECRET_KEY
func provideArtifactStore() storage.ArtifactStore {
	store, err := storage.NewMinioArtifactStore()
	if err != nil {
		log.Fatalf("Failed to connect to object storage: %v", err)
	}
	return store
}

// provideTranscriptCache uses redis when REDIS_ADDR is set, otherwise a
// no-op cache.
func provideTranscriptCache() cache.TranscriptCache {
	if addr := config.RedisAddr(); addr != "" {
		return cache.NewRedisTranscriptCache(addr)
	}
	return cache.NoopCache{}
}

func provideTranscriberFactory() services.TranscriberFactory {
	return transcriber.NewFromEnv
}

func provideWorkDir() string {
	projectRoot, err := files.GetProjectRoot()
	if err != nil {
		log.Fatalf("Failed to get project root: %v", err)
	}
	return filepath.Join(projectRoot, "data", "runtime")
}

func provideServiceContainer(
	modelSvc services.ModelService,
	endpointSvc services.EndpointService,
	invocationSvc services.InvocationService,
) *routes.ServiceContainer {
	return &routes.ServiceContainer{
		ModelService:      modelSvc,
		EndpointService:   endpointSvc,
		InvocationService: invocationSvc,
	}
}
