package status

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/spf13/cobra"

	"github.com/eledoranda/sagemaker-nemo-asr-parakeet/internal/app/platform"
	"github.com/eledoranda/sagemaker-nemo-asr-parakeet/internal/config"
)

var endpointName string
var wait bool
var waitTimeout time.Duration

func init() {
	Cmd.Flags().StringVarP(&endpointName, "endpoint", "e", "", "endpoint name (all endpoints when omitted)")
	Cmd.Flags().BoolVarP(&wait, "wait", "w", false, "poll until the endpoint leaves Creating")
	Cmd.Flags().DurationVar(&waitTimeout, "timeout", 10*time.Minute, "how long to wait with --wait")
}

// Cmd represents the status command
var Cmd = &cobra.Command{
	Use:   "status",
	Short: "Show endpoint status",
	Run: func(cmd *cobra.Command, args []string) {
		client := platform.NewClient(config.ControlPlaneURL())
		ctx := context.Background()

		if endpointName == "" {
			endpoints, err := client.ListEndpoints(ctx)
			if err != nil {
				log.Fatalf("Failed to list endpoints: %v", err)
			}
			if len(endpoints) == 0 {
				fmt.Println("no endpoints")
				return
			}
			for _, ep := range endpoints {
				line := fmt.Sprintf("%s\t%s\t%s\t%s", ep.Name, ep.ModelName, ep.InstanceType, ep.Status)
				if ep.FailureReason != "" {
					line += "\t" + ep.FailureReason
				}
				fmt.Println(line)
			}
			return
		}

		if wait {
			waitCtx, cancel := context.WithTimeout(ctx, waitTimeout)
			defer cancel()
			ep, err := client.WaitForEndpoint(waitCtx, endpointName, 5*time.Second)
			if err != nil {
				log.Fatalf("Failed to wait for endpoint: %v", err)
			}
			printEndpoint(ep.Name, ep.ModelName, ep.Status, ep.FailureReason)
			return
		}

		ep, err := client.DescribeEndpoint(ctx, endpointName)
		if err != nil {
			log.Fatalf("Failed to describe endpoint: %v", err)
		}
		printEndpoint(ep.Name, ep.ModelName, ep.Status, ep.FailureReason)
	},
}

func printEndpoint(name, modelName, status, failureReason string) {
	fmt.Printf("endpoint: %s\nmodel: %s\nstatus: %s\n", name, modelName, status)
	if failureReason != "" {
		fmt.Printf("failure reason: %s\n", failureReason)
	}
}
