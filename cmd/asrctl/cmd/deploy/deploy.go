package deploy

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/eledoranda/sagemaker-nemo-asr-parakeet/internal/app/deployer"
	"github.com/eledoranda/sagemaker-nemo-asr-parakeet/internal/app/platform"
	"github.com/eledoranda/sagemaker-nemo-asr-parakeet/internal/app/storage"
	"github.com/eledoranda/sagemaker-nemo-asr-parakeet/internal/config"
)

var configPath string

func init() {
	Cmd.Flags().StringVarP(&configPath, "config", "f", "deploy.yaml", "deployment config file")
}

// Cmd represents the deploy command
var Cmd = &cobra.Command{
	Use:   "deploy",
	Short: "Run the full deployment flow from a config file",
	Long: `Run the full deployment flow from a config file.

Packs the checkpoint, uploads the artifact to object storage, registers the
model on the control plane and waits until the endpoint is in service.
Re-running a deployment updates the existing model and endpoint in place.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := deployer.LoadConfig(configPath)
		if err != nil {
			log.Fatalf("Failed to load deploy config: %v", err)
		}

		store, err := storage.NewMinioArtifactStore()
		if err != nil {
			log.Fatalf("Failed to connect to object storage: %v", err)
		}

		client := platform.NewClient(config.ControlPlaneURL())
		logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

		result, err := deployer.New(store, client, logger).Deploy(context.Background(), cfg)
		if err != nil {
			log.Fatalf("Deployment failed: %v", err)
		}

		fmt.Printf("endpoint %s is %s (artifact %s, %d bytes, took %s)\n",
			result.EndpointName, result.EndpointStatus, result.ArtifactKey, result.ArtifactSize, result.Elapsed.Round(time.Second))
	},
}
