package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/eledoranda/sagemaker-nemo-asr-parakeet/cmd/asrctl/cmd/deploy"
	"github.com/eledoranda/sagemaker-nemo-asr-parakeet/cmd/asrctl/cmd/export"
	"github.com/eledoranda/sagemaker-nemo-asr-parakeet/cmd/asrctl/cmd/invoke"
	"github.com/eledoranda/sagemaker-nemo-asr-parakeet/cmd/asrctl/cmd/prepare"
	"github.com/eledoranda/sagemaker-nemo-asr-parakeet/cmd/asrctl/cmd/status"
	"github.com/eledoranda/sagemaker-nemo-asr-parakeet/cmd/asrctl/cmd/version"
)

var Verbose bool

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "asrctl",
	Short: "Deploy and exercise speech recognition model endpoints",
	Long: `Deploy and exercise speech recognition model endpoints.
- Pack a pretrained checkpoint into a deployable artifact
- Upload it and bring a hosted inference endpoint in service
- Send audio to the endpoint and export invocation history`,
	TraverseChildren: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(prepare.Cmd)
	rootCmd.AddCommand(deploy.Cmd)
	rootCmd.AddCommand(status.Cmd)
	rootCmd.AddCommand(invoke.Cmd)
	rootCmd.AddCommand(export.Cmd)
	rootCmd.AddCommand(version.Cmd)

	rootCmd.PersistentFlags().BoolVarP(&Verbose, "verbose", "V", false, "verbose output")
}
