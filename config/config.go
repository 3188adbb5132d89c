package config

import (
	"encoding/json"
	"os"
	"path/filepath"
)

// Config is the root configuration structure.
type Config struct {
	Monitor MonitorConfig `json:"monitor"`
	Filters FilterConfig  `json:"filters"`
	Report  ReportConfig  `json:"report"`
}

// MonitorConfig holds monitoring loop configuration.
type MonitorConfig struct {
	IntervalSeconds     int    `json:"intervalSeconds"`     // Default: 5
	Remote              string `json:"remote"`              // Default: "origin"
	LogFile             string `json:"logFile"`             // Default: "git_events.json"
	QueryTimeoutSeconds int    `json:"queryTimeoutSeconds"` // Default: 30
	WatchRefs           bool   `json:"watchRefs"`           // Default: false
}

// FilterConfig holds glob filters applied to the changed-file lists carried
// on commit events.
type FilterConfig struct {
	Include []string `json:"include"`
	Exclude []string `json:"exclude"`
}

// ReportConfig holds report generation defaults.
type ReportConfig struct {
	MaxEvents int `json:"maxEvents"` // Default: 0 (unlimited)
}

// DefaultConfig returns a configuration with default values.
func DefaultConfig() *Config {
	return &Config{
		Monitor: MonitorConfig{
			IntervalSeconds:     5,
			Remote:              "origin",
			LogFile:             "git_events.json",
			QueryTimeoutSeconds: 30,
		},
		Filters: FilterConfig{
			Include: []string{},
			Exclude: []string{},
		},
		Report: ReportConfig{
			MaxEvents: 0,
		},
	}
}

// LoadConfig loads configuration from a file, merging with defaults.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path == "" {
		// Try default locations
		candidates := []string{".gitfeed.json"}
		if home, err := os.UserHomeDir(); err == nil && home != "" {
			candidates = append(candidates, filepath.Join(home, ".gitfeed.json"))
		} else if envHome := os.Getenv("HOME"); envHome != "" {
			candidates = append(candidates, filepath.Join(envHome, ".gitfeed.json"))
		}
		for _, p := range candidates {
			if _, err := os.Stat(p); err == nil {
				path = p
				break
			}
		}
	}

	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, err
	}

	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// SaveConfig saves configuration to a file.
func SaveConfig(cfg *Config, path string) error {
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
