package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/joshuapare/memsim/internal/config"
	"github.com/joshuapare/memsim/internal/logger"
)

var (
	// Global flags
	verbose    bool
	quiet      bool
	jsonOut    bool
	configPath string
	logFile    string
	logLevel   string
)

var rootCmd = &cobra.Command{
	Use:   "memsim",
	Short: "Simulate process scheduling under different memory allocators",
	Long: `memsim runs a round-robin dispatcher over a workload of processes and
reports how each memory strategy (infinite, first-fit, paged, virtual) places
and evicts them, followed by turnaround, overhead and makespan statistics.`,
	Version:       "0.1.0",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return initLogging()
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = logger.Sync()
	},
}

func init() {
	// Global flags. -q is taken by the quantum flag of run, so quiet has no
	// shorthand.
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().BoolVar(&quiet, "quiet", false, "Suppress all output except the trace and errors")
	rootCmd.PersistentFlags().BoolVar(&jsonOut, "json", false, "Output in JSON format")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Config file (YAML or JSON)")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "", "Write structured logs to this file")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level (debug, info, warn, error)")
}

func execute() {
	if err := rootCmd.Execute(); err != nil {
		printError("%v\n", err)
		os.Exit(1)
	}
}

// initLogging enables the global logger when verbose output or a log file
// was requested.
func initLogging() error {
	level := logLevel
	if level == "" && verbose {
		level = "debug"
	}
	return logger.Init(logger.Options{
		Enabled: verbose || logFile != "",
		Path:    logFile,
		Level:   level,
		JSON:    logFile != "",
	})
}

// flagKeys maps config keys to the command-line flags that override them.
var flagKeys = map[string]string{
	config.KeyWorkload:        "file",
	config.KeyQuantum:         "quantum",
	config.KeyStrategy:        "memory-strategy",
	config.KeyMemorySize:      "memory-size",
	config.KeyPageSize:        "page-size",
	config.KeyWorkingSetFloor: "working-set-floor",
	config.KeyLogLevel:        "log-level",
	config.KeyLogFile:         "log-file",
}

// loadConfig resolves the configuration from defaults, the --config file,
// the environment and any flag in flags that was set explicitly.
func loadConfig(flags *pflag.FlagSet) (*config.Config, error) {
	v := config.New()
	for key, name := range flagKeys {
		f := flags.Lookup(name)
		if f == nil {
			continue
		}
		if err := v.BindPFlag(key, f); err != nil {
			return nil, err
		}
	}
	if jsonOut {
		v.Set(config.KeyOutput, "json")
	}

	cfg, err := config.Load(v, configPath)
	if err != nil {
		return nil, err
	}
	logger.Debug("configuration loaded", cfg.Fields()...)
	return cfg, nil
}

// Helper functions for output

// printInfo prints an info message if not in quiet mode
func printInfo(format string, args ...interface{}) {
	if !quiet {
		fmt.Fprintf(os.Stdout, format, args...)
	}
}

// printError prints an error message
func printError(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, "Error: "+format, args...)
}

// printVerbose prints a verbose message if verbose mode is enabled
func printVerbose(format string, args ...interface{}) {
	if verbose && !quiet {
		fmt.Fprintf(os.Stdout, format, args...)
	}
}

// printJSON outputs data as JSON
func printJSON(v interface{}) error {
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}
