package prepare

import (
	"context"
	"fmt"
	"log"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/eledoranda/sagemaker-nemo-asr-parakeet/internal/app/artifact"
	"github.com/eledoranda/sagemaker-nemo-asr-parakeet/internal/app/storage"
	"github.com/eledoranda/sagemaker-nemo-asr-parakeet/internal/app/util/files"
)

var checkpointPath string
var outputPath string
var uploadKey string

func init() {
	Cmd.Flags().StringVarP(&checkpointPath, "checkpoint", "c", "", "path to the pretrained .nemo checkpoint")
	Cmd.Flags().StringVarP(&outputPath, "output", "o", "", "output archive path (default: model.tar.gz next to the checkpoint)")
	Cmd.Flags().StringVarP(&uploadKey, "upload-key", "u", "", "also upload the archive to object storage under this key")

	Cmd.MarkFlagRequired("checkpoint")
}

// Cmd represents the prepare command
var Cmd = &cobra.Command{
	Use:   "prepare",
	Short: "Pack a model checkpoint into a deployable artifact",
	Long: `Pack a model checkpoint into a deployable artifact.

The checkpoint is archived as model.nemo at the root of a gzipped tar. The
archive is deterministic: packing the same checkpoint twice produces
byte-identical output. An existing valid archive is left untouched.`,
	Run: func(cmd *cobra.Command, args []string) {
		out := outputPath
		if out == "" {
			out = filepath.Join(filepath.Dir(checkpointPath), "model.tar.gz")
		}

		if _, err := artifact.Pack(checkpointPath, out); err != nil {
			log.Fatalf("Failed to pack artifact: %v", err)
		}

		sha, err := files.CalculateFileHash(out)
		if err != nil {
			log.Fatalf("Failed to hash artifact: %v", err)
		}
		size, err := files.GetFileSize(out)
		if err != nil {
			log.Fatalf("Failed to stat artifact: %v", err)
		}
		fmt.Printf("artifact ready: %s (%d bytes, sha256 %s)\n", out, size, sha)

		if uploadKey != "" {
			store, err := storage.NewMinioArtifactStore()
			if err != nil {
				log.Fatalf("Failed to connect to object storage: %v", err)
			}
			result, err := store.UploadArtifact(context.Background(), out, uploadKey)
			if err != nil {
				log.Fatalf("Failed to upload artifact: %v", err)
			}
			fmt.Printf("uploaded to %s\n", result.Location)
		}
	},
}
