package export

import (
	"context"
	"fmt"
	"log"

	"github.com/spf13/cobra"

	"github.com/eledoranda/sagemaker-nemo-asr-parakeet/internal/app/export"
	"github.com/eledoranda/sagemaker-nemo-asr-parakeet/internal/app/platform"
	"github.com/eledoranda/sagemaker-nemo-asr-parakeet/internal/config"
)

var endpointName string
var outputFilePath string
var limit int

func init() {
	Cmd.Flags().StringVarP(&endpointName, "endpoint", "e", "", "endpoint name")
	Cmd.Flags().StringVarP(&outputFilePath, "outputFilePath", "o", "", "set outputFilePath")
	Cmd.Flags().IntVarP(&limit, "limit", "l", 500, "maximum number of records to export")

	Cmd.MarkFlagRequired("endpoint")
	Cmd.MarkFlagRequired("outputFilePath")
}

// Cmd represents the export command
var Cmd = &cobra.Command{
	Use:   "export",
	Short: "Export an endpoint's invocation history to excel",
	Run: func(cmd *cobra.Command, args []string) {
		client := platform.NewClient(config.ControlPlaneURL())

		records, err := client.ListInvocations(context.Background(), endpointName, limit)
		if err != nil {
			log.Fatalf("Failed to fetch invocation history: %v", err)
		}

		if err := export.ToXLSX(records, outputFilePath); err != nil {
			log.Fatalf("Failed to write export: %v", err)
		}
		fmt.Printf("export finished, exported file path: %v\n", outputFilePath)
	},
}
