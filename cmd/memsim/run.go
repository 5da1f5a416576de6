package main

import (
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/joshuapare/memsim/internal/logger"
	"github.com/joshuapare/memsim/internal/sim"
	"github.com/joshuapare/memsim/internal/workload"
)

func init() {
	rootCmd.AddCommand(newRunCmd())
}

// addWorkloadFlags registers the flags shared by run and compare.
func addWorkloadFlags(fs *pflag.FlagSet) {
	fs.StringP("file", "f", "", "Workload file (text, or YAML with .yaml/.yml)")
	fs.IntP("quantum", "q", 3, "Scheduling quantum")
	fs.Int("memory-size", 2048, "Total memory in units")
	fs.Int("page-size", 4, "Frame size in units for paged strategies")
	fs.Int("working-set-floor", 4, "Minimum resident pages under the virtual strategy")
}

func newRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run -f <workload> -q <quantum> -m <strategy>",
		Short: "Run a workload and print its trace",
		Long: `The run command dispatches every process of the workload round-robin and
prints one line per event, then the run statistics.

Strategies:
  infinite  - unlimited memory, no accounting
  first-fit - contiguous allocation, first hole that fits
  paged     - whole-process paging with LRU eviction
  virtual   - partial residency (4 page floor) with LRU eviction

Example:
  memsim run -f procs.txt -q 3 -m first-fit
  memsim run -f procs.yaml -q 2 -m virtual --json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRun(cmd.Flags())
		},
	}
	addWorkloadFlags(cmd.Flags())
	cmd.Flags().StringP("memory-strategy", "m", "first-fit", "Memory strategy (infinite, first-fit, paged, virtual)")
	return cmd
}

func runRun(flags *pflag.FlagSet) error {
	cfg, err := loadConfig(flags)
	if err != nil {
		return err
	}

	printVerbose("Loading workload: %s\n", cfg.Workload)
	procs, err := workload.Load(cfg.Workload)
	if err != nil {
		return err
	}

	s, err := sim.New(cfg, sim.WithOutput(os.Stdout), sim.WithLogger(logger.L))
	if err != nil {
		return err
	}
	logger.Info("run", zap.Stringer("run", s.ID()), zap.String("workload", cfg.Workload))

	_, err = s.Run(procs)
	return err
}
