package main

import (
	"errors"
	"fmt"
	"os"
	"runtime"

	"gopkg.in/yaml.v3"
)

const (
	ModeChunks  = "chunks"
	ModeRegions = "regions"
)

var ErrBadMode = errors.New("config: mode must be \"chunks\" or \"regions\"")

// Config drives one conversion run. Fields map one-to-one onto CLI flags;
// flags win when both are given.
type Config struct {
	// WorldsRoot holds one subdirectory per world, each with a region/
	// directory of .mca files.
	WorldsRoot string `yaml:"worlds_root"`
	// OutputDir receives the grid files.
	OutputDir string `yaml:"output_dir"`
	// BlockList is the newline-delimited global palette file.
	BlockList string `yaml:"block_list"`
	// Mode selects one grid per chunk or one grid per region.
	Mode string `yaml:"mode"`
	// MinSectionY drops sections below this vertical section index.
	MinSectionY int `yaml:"min_section_y"`
	// Workers bounds how many regions convert in parallel.
	Workers int `yaml:"workers"`
}

func defaultConfig() *Config {
	return &Config{
		Mode:    ModeChunks,
		Workers: runtime.NumCPU(),
	}
}

// LoadConfig reads a YAML config file over the defaults.
func LoadConfig(path string) (*Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := defaultConfig()
	if err := yaml.Unmarshal(raw, cfg); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.Mode != ModeChunks && c.Mode != ModeRegions {
		return fmt.Errorf("%w: %q", ErrBadMode, c.Mode)
	}
	if c.WorldsRoot == "" {
		return errors.New("config: worlds_root is required")
	}
	if c.OutputDir == "" {
		return errors.New("config: output_dir is required")
	}
	if c.BlockList == "" {
		return errors.New("config: block_list is required")
	}
	if c.Workers < 1 {
		c.Workers = 1
	}
	return nil
}
