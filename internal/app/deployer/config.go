package deployer

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config describes one deployment: which checkpoint to pack, where the
// artifact lands in object storage, and the endpoint to bring up.
type Config struct {
	ModelName      string `yaml:"model_name"`
	CheckpointPath string `yaml:"checkpoint_path"`
	ArtifactKey    string `yaml:"artifact_key"`
	ContainerImage string `yaml:"container_image"`
	EndpointName   string `yaml:"endpoint_name"`
	InstanceType   string `yaml:"instance_type"`
	// Durations are Go duration strings, e.g. "10m" or "5s".
	WaitTimeoutStr  string `yaml:"wait_timeout"`
	PollIntervalStr string `yaml:"poll_interval"`

	WaitTimeout  time.Duration `yaml:"-"`
	PollInterval time.Duration `yaml:"-"`
}

// LoadConfig reads a deployment config from a YAML file and applies
// defaults.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read deploy config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse deploy config: %w", err)
	}
	if err := cfg.finalize(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) finalize() error {
	if c.WaitTimeoutStr != "" {
		d, err := time.ParseDuration(c.WaitTimeoutStr)
		if err != nil {
			return fmt.Errorf("deploy config: invalid wait_timeout %q: %w", c.WaitTimeoutStr, err)
		}
		c.WaitTimeout = d
	}
	if c.PollIntervalStr != "" {
		d, err := time.ParseDuration(c.PollIntervalStr)
		if err != nil {
			return fmt.Errorf("deploy config: invalid poll_interval %q: %w", c.PollIntervalStr, err)
		}
		c.PollInterval = d
	}

	if c.ArtifactKey == "" && c.ModelName != "" {
		c.ArtifactKey = "models/" + c.ModelName + "/model.tar.gz"
	}
	if c.EndpointName == "" && c.ModelName != "" {
		c.EndpointName = c.ModelName + "-endpoint"
	}
	if c.WaitTimeout <= 0 {
		c.WaitTimeout = 10 * time.Minute
	}
	if c.PollInterval <= 0 {
		c.PollInterval = 5 * time.Second
	}
	return c.Validate()
}

// Validate checks the config is complete enough to deploy.
func (c *Config) Validate() error {
	if c.ModelName == "" {
		return fmt.Errorf("deploy config: model_name is required")
	}
	if c.CheckpointPath == "" {
		return fmt.Errorf("deploy config: checkpoint_path is required")
	}
	return nil
}
