// Package config loads project-level settings from qdat.yml.
package config

import (
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/Eli-Pregerson/qDat/internal/schedule"
)

// ProjectConfig holds project-level settings loaded from qdat.yml.
// Timeouts are in seconds; zero keeps the scheduler defaults.
type ProjectConfig struct {
	PoolSize              int      `yaml:"poolSize,omitempty"`
	Interactive           bool     `yaml:"interactive,omitempty"`
	PathComplexityTimeout int      `yaml:"pathComplexityTimeout,omitempty"`
	MetricTimeout         int      `yaml:"metricTimeout,omitempty"`
	InteractiveTimeout    int      `yaml:"interactiveTimeout,omitempty"`
	Store                 string   `yaml:"store,omitempty"` // "memory" or a kuzu db path
	Languages             []string `yaml:"languages,omitempty"`
	ExcludeDirs           []string `yaml:"excludeDirs,omitempty"`
	Verbose               bool     `yaml:"verbose,omitempty"`
}

// Load attempts to read qdat.yml or qdat.yaml from the given directory.
// Returns a zero-value config (not an error) if no config file exists.
func Load(dir string) (*ProjectConfig, error) {
	for _, name := range []string{"qdat.yml", "qdat.yaml"} {
		path := filepath.Join(dir, name)
		data, err := os.ReadFile(path)
		if err != nil {
			continue
		}
		var cfg ProjectConfig
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, err
		}
		return &cfg, nil
	}
	return &ProjectConfig{}, nil
}

// ScheduleOptions converts the config into scheduler options, leaving
// zero values for the scheduler defaults to fill in.
func (c *ProjectConfig) ScheduleOptions() schedule.Options {
	return schedule.Options{
		PoolSize:              c.PoolSize,
		Interactive:           c.Interactive,
		PathComplexityTimeout: time.Duration(c.PathComplexityTimeout) * time.Second,
		MetricTimeout:         time.Duration(c.MetricTimeout) * time.Second,
		InteractiveTimeout:    time.Duration(c.InteractiveTimeout) * time.Second,
	}
}
