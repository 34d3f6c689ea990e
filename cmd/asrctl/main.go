package main

import (
	"fmt"
	"os"

	"github.com/eledoranda/sagemaker-nemo-asr-parakeet/cmd/asrctl/cmd"
	"github.com/eledoranda/sagemaker-nemo-asr-parakeet/internal/config"
)

func main() {
	if err := config.LoadEnv(); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
	}

	cmd.Execute()
}
