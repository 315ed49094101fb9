package main

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
	"github.com/abtreece/dotconf/pkg/bench"
	"github.com/abtreece/dotconf/pkg/log"
	"github.com/abtreece/dotconf/pkg/util"
)

// TOMLConfig represents the structure of the dotconf TOML config file
type TOMLConfig struct {
	File        string   `toml:"file"`
	Variant     string   `toml:"variant"`
	Number      int      `toml:"number"`
	Variants    []string `toml:"variants"`
	ReadPath    string   `toml:"read_path"`
	WritePath   string   `toml:"write_path"`
	LogLevel    string   `toml:"log-level"`
	LogFormat   string   `toml:"log-format"`
	MetricsFile string   `toml:"metrics_file"`
}

// loadConfigFile loads the TOML config file and applies it to the global
// flags. Command flags are applied by each command through applyConfig.
// A missing file yields an empty config.
func loadConfigFile(cli *CLI) (*TOMLConfig, error) {
	var tomlCfg TOMLConfig
	if cli.ConfigFile == "" {
		return &tomlCfg, nil
	}
	if !util.IsFileExist(cli.ConfigFile) {
		log.Debug("Skipping dotconf config file.")
		return &tomlCfg, nil
	}

	log.Debug("Loading %s", cli.ConfigFile)
	configBytes, err := os.ReadFile(cli.ConfigFile)
	if err != nil {
		return nil, err
	}
	md, err := toml.Decode(string(configBytes), &tomlCfg)
	if err != nil {
		return nil, fmt.Errorf("invalid config file %s: %w", cli.ConfigFile, err)
	}
	for _, key := range md.Undecoded() {
		log.Warning("Unknown key %q in %s", key.String(), cli.ConfigFile)
	}

	// Apply TOML settings as defaults (CLI flags take precedence)
	if cli.LogLevel == "" && tomlCfg.LogLevel != "" {
		cli.LogLevel = tomlCfg.LogLevel
	}
	if cli.LogFormat == "" && tomlCfg.LogFormat != "" {
		cli.LogFormat = tomlCfg.LogFormat
	}
	if cli.MetricsFile == "" && tomlCfg.MetricsFile != "" {
		cli.MetricsFile = tomlCfg.MetricsFile
	}
	return &tomlCfg, nil
}

func (d *DocumentFlags) applyConfig(cfg *TOMLConfig) {
	if d.File == defaultFile && cfg.File != "" {
		d.File = cfg.File
	}
	if d.Variant == defaultVariant && cfg.Variant != "" {
		d.Variant = cfg.Variant
	}
}

func (b *BenchCmd) applyConfig(cfg *TOMLConfig) {
	if b.File == defaultFile && cfg.File != "" {
		b.File = cfg.File
	}
	if b.Number == defaultNumber && cfg.Number != 0 {
		b.Number = cfg.Number
	}
	if len(b.Variants) == 0 && len(cfg.Variants) > 0 {
		b.Variants = cfg.Variants
	}
	if b.ReadPath == bench.DefaultReadPath && cfg.ReadPath != "" {
		b.ReadPath = cfg.ReadPath
	}
	if b.WritePath == bench.DefaultWritePath && cfg.WritePath != "" {
		b.WritePath = cfg.WritePath
	}
}
