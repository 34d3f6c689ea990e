package invoke

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/spf13/cobra"

	"github.com/eledoranda/sagemaker-nemo-asr-parakeet/internal/app/audio"
	"github.com/eledoranda/sagemaker-nemo-asr-parakeet/internal/app/platform"
	"github.com/eledoranda/sagemaker-nemo-asr-parakeet/internal/config"
)

var endpointName string
var audioFilePath string

func init() {
	Cmd.Flags().StringVarP(&endpointName, "endpoint", "e", "", "endpoint name to invoke")
	Cmd.Flags().StringVarP(&audioFilePath, "file", "i", "", "path to a 16 kHz mono PCM WAV file")

	Cmd.MarkFlagRequired("endpoint")
	Cmd.MarkFlagRequired("file")
}

// Cmd represents the invoke command
var Cmd = &cobra.Command{
	Use:   "invoke",
	Short: "Send a WAV file to an endpoint and print the transcript",
	Long: `Send a WAV file to an endpoint and print the transcript.

The audio must be 16 kHz mono PCM WAV. The file is validated locally before
it is sent, so malformed audio fails fast without a round trip.`,
	Run: func(cmd *cobra.Command, args []string) {
		wavBytes, err := os.ReadFile(audioFilePath)
		if err != nil {
			log.Fatalf("Failed to read audio file: %v", err)
		}

		clip, err := audio.DecodeStrictWAV(wavBytes)
		if err != nil {
			log.Fatalf("Rejected audio file: %v", err)
		}
		fmt.Fprintf(os.Stderr, "sending %.2fs of audio (%d bytes) to %s\n", clip.Seconds, len(wavBytes), endpointName)

		client := platform.NewClient(config.ControlPlaneURL())
		text, err := client.Invoke(context.Background(), endpointName, wavBytes)
		if err != nil {
			log.Fatalf("Invocation failed: %v", err)
		}

		fmt.Println(text)
	},
}
