package main

import (
	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/joshuapare/memsim/internal/workload"
	"github.com/joshuapare/memsim/memory"
)

var (
	validateMemorySize int
	validatePageSize   int
)

func init() {
	cmd := newValidateCmd()
	cmd.Flags().IntVar(&validateMemorySize, "memory-size", memory.DefaultMemorySize, "Total memory in units")
	cmd.Flags().IntVar(&validatePageSize, "page-size", memory.DefaultPageSize, "Frame size in units")
	rootCmd.AddCommand(cmd)
}

func newValidateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate <workload>",
		Short: "Check a workload file and report which strategies can run it",
		Long: `The validate command parses a workload, reports its size and total memory
demand, and checks every process against each strategy's memory geometry.
Memory units are kilobytes.

Example:
  memsim validate procs.txt
  memsim validate procs.yaml --memory-size 1024 --json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(args)
		},
	}
	return cmd
}

type strategyReport struct {
	Strategy   string   `json:"strategy"`
	Admissible int      `json:"admissible"`
	Rejected   []string `json:"rejected,omitempty"`
}

type validateReport struct {
	File        string           `json:"file"`
	Processes   int              `json:"processes"`
	TotalMemory int              `json:"total_memory"`
	TotalBytes  string           `json:"total_bytes"`
	Strategies  []strategyReport `json:"strategies"`
}

func runValidate(args []string) error {
	path := args[0]
	printVerbose("Validating workload: %s\n", path)

	procs, err := workload.Load(path)
	if err != nil {
		return err
	}

	total := workload.TotalMemory(procs)
	report := validateReport{
		File:        path,
		Processes:   len(procs),
		TotalMemory: total,
		TotalBytes:  humanize.IBytes(uint64(total) * 1024),
	}

	for _, s := range memory.Strategies() {
		mgr, err := memory.New(s, memory.Options{MemorySize: validateMemorySize, PageSize: validatePageSize})
		if err != nil {
			return err
		}
		sr := strategyReport{Strategy: s.String()}
		for _, p := range procs {
			if mgr.Admissible(p.Memory) {
				sr.Admissible++
			} else {
				sr.Rejected = append(sr.Rejected, p.Name)
			}
		}
		report.Strategies = append(report.Strategies, sr)
	}

	if jsonOut {
		return printJSON(report)
	}

	p := message.NewPrinter(language.English)
	printInfo("%s\n", p.Sprintf("%s: %d processes, %d units (%s) requested", path, report.Processes, total, report.TotalBytes))
	for _, sr := range report.Strategies {
		if len(sr.Rejected) == 0 {
			printInfo("  %-10s ok\n", sr.Strategy)
			continue
		}
		printInfo("  %-10s %s\n", sr.Strategy, p.Sprintf("%d of %d admissible, rejected %v", sr.Admissible, report.Processes, sr.Rejected))
	}
	return nil
}
