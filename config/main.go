package config

import (
	"encoding/json"
	"os"

	"github.com/pkg/errors"
)

var (
	// ConfigPath is the variable which stores the config path command line parameter
	ConfigPath string
)

// Config stores the config for the tool
type Config struct {
	// Quantifiers configures the instantiation engine
	Quantifiers QuantifiersConfig `json:"quantifiers"`
	// Ground configures the propositional ground search used to drive the engine
	Ground GroundConfig `json:"ground"`
	// DiagnosticsAddr address of the diagnostics server
	DiagnosticsAddr string `json:"diagnostics_addr"`
	// LogConfig configuration for logging
	LogConfig LogConfig `json:"log"`
}

// QuantifiersConfig stores the options of the quantifiers engine
type QuantifiersConfig struct {
	// InstMaxLevel is the maximum instantiation level of a term used in an
	// instantiation, -1 means unbounded
	InstMaxLevel int `json:"inst_max_level"`
	// InstNoEntail rejects instantiations whose body is already entailed
	InstNoEntail bool `json:"inst_no_entail"`
	// Incremental makes the instantiation tries follow push/pop of the user context
	Incremental bool `json:"incremental"`
	// AlphaEquivalence enables the reduction of alpha equivalent quantified formulas
	AlphaEquivalence bool `json:"alpha_equivalence"`
	// DebugInst prints the instantiations of every round that sent a lemma
	DebugInst bool `json:"debug_inst"`
	// DebugAssertions turns internal invariant violations into panics
	DebugAssertions bool `json:"debug_assertions"`
	// Strategies lists the instantiation modules to register, in order
	Strategies []string `json:"strategies"`
}

// GroundConfig stores the options of the ground search
type GroundConfig struct {
	// MaxRounds bounds the number of solve/instantiate rounds
	MaxRounds int `json:"max_rounds"`
}

// LogConfig stores the config for logging purpose
type LogConfig struct {
	// Path of the log file
	Path string `json:"path"`
	// Format to log. Only `json` is currently supported
	Format string `json:"format"`
	// Level log level, one of panic|fatal|error|warn|warning|info|debug|trace
	Level string `json:"level"`
}

// DefaultQuantifiersConfig returns the engine options used when none are specified
func DefaultQuantifiersConfig() QuantifiersConfig {
	return QuantifiersConfig{
		InstMaxLevel:     -1,
		InstNoEntail:     true,
		Incremental:      false,
		AlphaEquivalence: true,
		Strategies:       []string{"ematch", "finite", "enum"},
	}
}

// DefaultConfig returns the configuration that ParseConfig starts from
func DefaultConfig() *Config {
	return &Config{
		Quantifiers:     DefaultQuantifiersConfig(),
		Ground:          GroundConfig{MaxRounds: 100},
		DiagnosticsAddr: "0.0.0.0:7074",
		LogConfig: LogConfig{
			Path:   "",
			Format: "json",
			Level:  "info",
		},
	}
}

// ParseConfig parses config from the specificied file
func ParseConfig(path string) (*Config, error) {
	bytes, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "error reading config file")
	}
	defaultConfig := DefaultConfig()
	err = json.Unmarshal(bytes, defaultConfig)
	if err != nil {
		return nil, errors.Wrap(err, "error unmarshalling config")
	}
	return defaultConfig, nil
}
