// Package config loads simulation settings from defaults, an optional config
// file, MEMSIM_* environment variables and command-line flags, in increasing
// order of precedence.
package config

import (
	"os"
	"strings"

	"github.com/mitchellh/mapstructure"
	"github.com/pkg/errors"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/joshuapare/memsim/internal/trace"
	"github.com/joshuapare/memsim/memory"
)

// EnvPrefix prefixes every environment override, e.g. MEMSIM_QUANTUM.
const EnvPrefix = "MEMSIM"

// Keys understood by the loader.
const (
	KeyStrategy        = "strategy"
	KeyQuantum         = "quantum"
	KeyMemorySize      = "memory_size"
	KeyPageSize        = "page_size"
	KeyWorkingSetFloor = "working_set_floor"
	KeyWorkload        = "workload"
	KeyLogLevel        = "log_level"
	KeyLogFile         = "log_file"
	KeyOutput          = "output"
)

// ErrInvalid is wrapped by every validation failure.
var ErrInvalid = errors.New("config: invalid")

// Config is the resolved simulation configuration.
type Config struct {
	Strategy        memory.Strategy `mapstructure:"strategy"`
	Quantum         int             `mapstructure:"quantum"`
	MemorySize      int             `mapstructure:"memory_size"`
	PageSize        int             `mapstructure:"page_size"`
	WorkingSetFloor int             `mapstructure:"working_set_floor"`

	// Workload is the path of the process list.
	Workload string `mapstructure:"workload"`

	LogLevel string       `mapstructure:"log_level"`
	LogFile  string       `mapstructure:"log_file"`
	Output   trace.Format `mapstructure:"output"`
}

var defaults = map[string]any{
	KeyStrategy:        memory.FirstFit.String(),
	KeyQuantum:         3,
	KeyMemorySize:      memory.DefaultMemorySize,
	KeyPageSize:        memory.DefaultPageSize,
	KeyWorkingSetFloor: 4,
	KeyWorkload:        "",
	KeyLogLevel:        "info",
	KeyLogFile:         "",
	KeyOutput:          string(trace.FormatText),
}

// New returns a viper instance with defaults and environment bindings set.
func New() *viper.Viper {
	v := viper.New()
	for k, val := range defaults {
		v.SetDefault(k, val)
		_ = v.BindEnv(k, EnvPrefix+"_"+strings.ToUpper(k))
	}
	return v
}

// Load reads the optional config file at path into v and decodes the result.
// A missing file is an error only when path was given explicitly.
func Load(v *viper.Viper, path string) (*Config, error) {
	if path != "" {
		if _, err := os.Stat(path); err != nil {
			return nil, errors.Wrap(err, "config: stat config file")
		}
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, errors.Wrap(err, "config: read config file")
		}
	}

	var cfg Config
	// Strategy and trace.Format decode through their UnmarshalText.
	hook := viper.DecodeHook(mapstructure.ComposeDecodeHookFunc(
		mapstructure.TextUnmarshallerHookFunc(),
		mapstructure.StringToTimeDurationHookFunc(),
	))
	if err := v.Unmarshal(&cfg, hook); err != nil {
		return nil, errors.Wrap(err, "config: decode")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the configuration for internal consistency.
func (c *Config) Validate() error {
	switch {
	case c.Quantum <= 0:
		return errors.Wrapf(ErrInvalid, "quantum %d must be positive", c.Quantum)
	case c.MemorySize <= 0:
		return errors.Wrapf(ErrInvalid, "memory size %d must be positive", c.MemorySize)
	case c.PageSize <= 0:
		return errors.Wrapf(ErrInvalid, "page size %d must be positive", c.PageSize)
	case c.WorkingSetFloor <= 0:
		return errors.Wrapf(ErrInvalid, "working set floor %d must be positive", c.WorkingSetFloor)
	}
	if _, err := memory.ParseStrategy(c.Strategy.String()); err != nil {
		return errors.Wrapf(ErrInvalid, "strategy: %v", err)
	}
	if c.Strategy.UsesFrames() && c.MemorySize%c.PageSize != 0 {
		return errors.Wrapf(ErrInvalid, "memory size %d is not a multiple of page size %d",
			c.MemorySize, c.PageSize)
	}
	if _, err := trace.ParseFormat(string(c.Output)); err != nil {
		return errors.Wrapf(ErrInvalid, "output: %v", err)
	}
	return nil
}

// MemoryOptions returns the memory geometry described by c.
func (c *Config) MemoryOptions(log *zap.Logger) memory.Options {
	return memory.Options{
		MemorySize:      c.MemorySize,
		PageSize:        c.PageSize,
		WorkingSetFloor: c.WorkingSetFloor,
		Logger:          log,
	}
}

// Fields returns c as log fields.
func (c *Config) Fields() []zap.Field {
	return []zap.Field{
		zap.Stringer("strategy", c.Strategy),
		zap.Int("quantum", c.Quantum),
		zap.Int("memory_size", c.MemorySize),
		zap.Int("page_size", c.PageSize),
		zap.Int("working_set_floor", c.WorkingSetFloor),
		zap.String("workload", c.Workload),
	}
}
