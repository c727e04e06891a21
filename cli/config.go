package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// Config holds the per-project defaults a crvicio.toml or crvicio.yaml in
// the working directory may supply. Flags always win over the file.
type Config struct {
	Tolerant    bool   `toml:"tolerant" yaml:"tolerant"`
	Color       bool   `toml:"color" yaml:"color"`
	OutputDir   string `toml:"output_dir" yaml:"output_dir"`
	HistoryFile string `toml:"history_file" yaml:"history_file"`
}

func defaultConfig() Config {
	return Config{
		Color:       true,
		HistoryFile: ".crvicio_history",
	}
}

// configNames are probed in order when --config is not given.
var configNames = []string{"crvicio.toml", "crvicio.yaml", ".crvicio.yml"}

// loadConfig reads path, or the first config file found in the working
// directory, choosing the format by extension. A missing file is not an
// error; the defaults apply.
func loadConfig(path string) (Config, error) {
	config := defaultConfig()
	if path == "" {
		for _, name := range configNames {
			if _, err := os.Stat(name); err == nil {
				path = name
				break
			}
		}
		if path == "" {
			return config, nil
		}
	}
	content, err := os.ReadFile(path)
	if err != nil {
		return config, fmt.Errorf("config %s: %w", path, err)
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(content, &config)
	default:
		err = toml.Unmarshal(content, &config)
	}
	if err != nil {
		return config, fmt.Errorf("config %s: %w", path, err)
	}
	return config, nil
}
