package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const DefaultPath = "configs/config.yaml"

type Config struct {
	Sandbox    SandboxConfig    `yaml:"sandbox"`
	Evaluation EvaluationConfig `yaml:"evaluation"`
	Assets     AssetsConfig     `yaml:"assets"`
	Storage    StorageConfig    `yaml:"storage"`
}

type SandboxConfig struct {
	APIKey   string `yaml:"api_key"`
	BaseURL  string `yaml:"base_url,omitempty"`
	Template string `yaml:"template,omitempty"`
}

type EvaluationConfig struct {
	MonitorTimeout time.Duration `yaml:"monitor_timeout,omitempty"` // hard kill bound for the in-sandbox monitor
	WaitSlack      time.Duration `yaml:"wait_slack,omitempty"`      // caller budget padding beyond the monitor timeout
}

type AssetsConfig struct {
	SkillsDir  string `yaml:"skills_dir,omitempty"`
	HooksDir   string `yaml:"hooks_dir,omitempty"`
	ResultsDir string `yaml:"results_dir,omitempty"`
}

type StorageConfig struct {
	Path string `yaml:"path,omitempty"` // SQLite file path
}

// Load reads the config file and applies environment overrides. A missing
// file is not an error when path is the default: the zero config plus env
// vars is a valid setup.
func Load(path string) (*Config, error) {
	usingDefault := strings.TrimSpace(path) == ""
	if usingDefault {
		path = DefaultPath
	}

	var cfg Config
	b, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(b, &cfg); err != nil {
			return nil, fmt.Errorf("config: parse %q: %w", path, err)
		}
	case os.IsNotExist(err) && usingDefault:
		// fall through to defaults
	default:
		return nil, fmt.Errorf("config: read %q: %w", path, err)
	}

	if v := strings.TrimSpace(os.Getenv("SANDBOX_API_KEY")); v != "" {
		cfg.Sandbox.APIKey = v
	}
	if v := strings.TrimSpace(os.Getenv("SANDBOX_BASE_URL")); v != "" {
		cfg.Sandbox.BaseURL = v
	}

	if cfg.Evaluation.MonitorTimeout <= 0 {
		cfg.Evaluation.MonitorTimeout = 120 * time.Second
	}
	if cfg.Evaluation.WaitSlack <= 0 {
		cfg.Evaluation.WaitSlack = 30 * time.Second
	}
	if strings.TrimSpace(cfg.Assets.SkillsDir) == "" {
		cfg.Assets.SkillsDir = "skills"
	}
	if strings.TrimSpace(cfg.Assets.HooksDir) == "" {
		cfg.Assets.HooksDir = "hooks"
	}
	if strings.TrimSpace(cfg.Assets.ResultsDir) == "" {
		cfg.Assets.ResultsDir = "results"
	}
	if strings.TrimSpace(cfg.Storage.Path) == "" {
		cfg.Storage.Path = "results/hookbench.db"
	}

	return &cfg, nil
}
