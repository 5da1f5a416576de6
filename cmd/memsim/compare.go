package main

import (
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/joshuapare/memsim/internal/logger"
	"github.com/joshuapare/memsim/internal/sim"
	"github.com/joshuapare/memsim/internal/workload"
	"github.com/joshuapare/memsim/memory"
)

func init() {
	rootCmd.AddCommand(newCompareCmd())
}

func newCompareCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "compare -f <workload> -q <quantum>",
		Short: "Run a workload under every strategy and compare the statistics",
		Long: `The compare command runs the same workload under all four memory
strategies concurrently and prints one summary row per strategy.

Example:
  memsim compare -f procs.txt -q 3
  memsim compare -f procs.txt --memory-size 512 --json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCompare(cmd.Flags())
		},
	}
	addWorkloadFlags(cmd.Flags())
	return cmd
}

type compareRow struct {
	Strategy      string  `json:"strategy"`
	Turnaround    int     `json:"turnaround_time"`
	MaxOverhead   float64 `json:"max_time_overhead"`
	AvgOverhead   float64 `json:"avg_time_overhead"`
	Makespan      int     `json:"makespan"`
	FramesEvicted int     `json:"frames_evicted"`
}

func runCompare(flags *pflag.FlagSet) error {
	cfg, err := loadConfig(flags)
	if err != nil {
		return err
	}
	procs, err := workload.Load(cfg.Workload)
	if err != nil {
		return err
	}

	results, err := sim.Compare(cfg, procs, memory.Strategies(), sim.WithLogger(logger.L))
	if err != nil {
		return err
	}

	rows := make([]compareRow, len(results))
	for i, r := range results {
		rows[i] = compareRow{
			Strategy:      r.Strategy.String(),
			Turnaround:    r.Summary.Turnaround,
			MaxOverhead:   r.Summary.MaxOverhead,
			AvgOverhead:   r.Summary.AvgOverhead,
			Makespan:      r.Summary.Makespan,
			FramesEvicted: r.Summary.FramesEvicted,
		}
	}

	if jsonOut {
		return printJSON(rows)
	}

	printInfo("%-10s %10s %9s %9s %9s %8s\n", "STRATEGY", "TURNAROUND", "MAX-OVH", "AVG-OVH", "MAKESPAN", "EVICTED")
	for _, r := range rows {
		printInfo("%-10s %10d %9.2f %9.2f %9d %8d\n",
			r.Strategy, r.Turnaround, r.MaxOverhead, r.AvgOverhead, r.Makespan, r.FramesEvicted)
	}
	return nil
}
