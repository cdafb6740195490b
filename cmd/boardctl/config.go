package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

// Config drives one run of the board exchange.
type Config struct {
	RegionPath  string
	RegionSize  int
	Payload     uint32
	WaitTimeout time.Duration
}

type fileConfig struct {
	RegionPath  string `toml:"region_path"`
	RegionSize  int    `toml:"region_size"`
	Payload     int64  `toml:"payload"`
	WaitTimeout string `toml:"wait_timeout"`
}

func defaultConfig() Config {
	return Config{
		RegionPath:  "",
		RegionSize:  64,
		Payload:     0xfeedface,
		WaitTimeout: 5 * time.Second,
	}
}

func loadConfig(path string) (Config, error) {
	cfg := defaultConfig()
	if path == "" {
		return cfg, nil
	}

	var raw fileConfig
	meta, err := toml.DecodeFile(path, &raw)
	if err != nil {
		return Config{}, fmt.Errorf("load boardctl config: %w", err)
	}

	if meta.IsDefined("region_path") {
		cfg.RegionPath = strings.TrimSpace(raw.RegionPath)
	}

	if meta.IsDefined("region_size") {
		if raw.RegionSize < 8 {
			return Config{}, fmt.Errorf("region_size %d too small for lock byte and payload", raw.RegionSize)
		}
		cfg.RegionSize = raw.RegionSize
	}

	if meta.IsDefined("payload") {
		if raw.Payload < 0 || raw.Payload > int64(^uint32(0)) {
			return Config{}, fmt.Errorf("payload %d out of uint32 range", raw.Payload)
		}
		cfg.Payload = uint32(raw.Payload)
	}

	if meta.IsDefined("wait_timeout") {
		d, err := time.ParseDuration(strings.TrimSpace(raw.WaitTimeout))
		if err != nil {
			return Config{}, fmt.Errorf("parse wait_timeout: %w", err)
		}
		cfg.WaitTimeout = d
	}

	return cfg, nil
}
