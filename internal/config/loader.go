package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Load loads the runner balance.
// Search order: customPath -> ~/.sprint/configs/runner.yaml -> ./configs/runner.yaml -> embedded default.
// Files are decoded on top of the hardcoded defaults, so a file only needs
// to list the values it changes.
func Load(customPath string) (RunnerConfig, error) {
	cfg := DefaultRunnerConfig()

	if customPath != "" {
		data, err := os.ReadFile(customPath)
		if err != nil {
			return cfg, fmt.Errorf("config: cannot read %s: %w", customPath, err)
		}
		if err := decode(data, &cfg); err != nil {
			return cfg, fmt.Errorf("config: cannot parse %s: %w", customPath, err)
		}
		return cfg, cfg.Validate()
	}

	for _, path := range []string{userConfigPath(DefaultFileName), filepath.Join("configs", DefaultFileName)} {
		if path == "" {
			continue
		}
		data, err := os.ReadFile(path)
		if err != nil {
			continue
		}
		candidate := DefaultRunnerConfig()
		if err := decode(data, &candidate); err == nil && candidate.Validate() == nil {
			return candidate, nil
		}
	}

	if err := loadEmbedded(&cfg); err != nil {
		return DefaultRunnerConfig(), nil
	}
	return cfg, cfg.Validate()
}

func decode(data []byte, cfg *RunnerConfig) error {
	return yaml.Unmarshal(data, cfg)
}

// userConfigPath returns ~/.sprint/configs/<name>, or "" without a home dir.
func userConfigPath(name string) string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".sprint", "configs", name)
}

// Marshal renders cfg as YAML, used by `sprint config` to dump the active balance.
func Marshal(cfg RunnerConfig) ([]byte, error) {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return nil, fmt.Errorf("config: cannot encode: %w", err)
	}
	return data, nil
}
