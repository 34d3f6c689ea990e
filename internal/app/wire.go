//go:build wireinject
// +build wireinject

package app

import (
	"log/slog"

	"github.com/google/wire"

	"github.com/eledoranda/sagemaker-nemo-asr-parakeet/internal/api/server"
	"github.com/eledoranda/sagemaker-nemo-asr-parakeet/internal/api/v1/services"
)

// InitializeServer assembles the asrd HTTP server from environment-driven
// backends.
func InitializeServer(logger *slog.Logger, cfg server.Config) *server.Server {
	wire.Build(
		provideDeploymentDAO,
		provideArtifactStore,
		provideTranscriptCache,
		provideTranscriberFactory,
		provideWorkDir,
		services.NewEndpointService,
		wire.Bind(new(services.EndpointService), new(*services.EndpointServiceImpl)),
		wire.Bind(new(services.EndpointRuntime), new(*services.EndpointServiceImpl)),
		services.NewModelService,
		services.NewInvocationService,
		provideServiceContainer,
		server.New,
	)
	return nil
}
