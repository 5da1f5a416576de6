// Package workload reads the list of processes a simulation runs.
//
// Two input formats are accepted. The text format has one process per line:
//
//	# arrival name service memory
//	0 P1 10 64
//	2 P2 4 128
//
// Blank lines and lines starting with '#' are ignored. Files ending in .yaml
// or .yml are read as YAML:
//
//	processes:
//	  - {arrival: 0, name: P1, service: 10, memory: 64}
package workload

import (
	"bufio"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// MaxNameLen is the longest accepted process name.
const MaxNameLen = 8

// ErrInvalid is wrapped by every validation failure.
var ErrInvalid = errors.New("workload: invalid process")

// Process is one entry of the workload.
type Process struct {
	Arrival int    `yaml:"arrival"`
	Name    string `yaml:"name"`
	Service int    `yaml:"service"`
	Memory  int    `yaml:"memory"`
}

// Load reads a workload file, picking the format from its extension.
func Load(path string) ([]Process, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "workload: open")
	}
	defer f.Close()

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return ParseYAML(f)
	default:
		return ParseText(f)
	}
}

// ParseText reads the whitespace separated text format.
func ParseText(r io.Reader) ([]Process, error) {
	var procs []Process
	sc := bufio.NewScanner(r)
	for lineNo := 1; sc.Scan(); lineNo++ {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) != 4 {
			return nil, errors.Wrapf(ErrInvalid, "line %d: want 4 fields, got %d", lineNo, len(fields))
		}

		var nums [3]int
		for i, idx := range []int{0, 2, 3} {
			n, err := strconv.Atoi(fields[idx])
			if err != nil {
				return nil, errors.Wrapf(ErrInvalid, "line %d: field %d: %v", lineNo, idx+1, err)
			}
			nums[i] = n
		}
		procs = append(procs, Process{
			Arrival: nums[0],
			Name:    fields[1],
			Service: nums[1],
			Memory:  nums[2],
		})
	}
	if err := sc.Err(); err != nil {
		return nil, errors.Wrap(err, "workload: read")
	}
	return normalize(procs)
}

type yamlFile struct {
	Processes []Process `yaml:"processes"`
}

// ParseYAML reads the YAML format.
func ParseYAML(r io.Reader) ([]Process, error) {
	var doc yamlFile
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil && err != io.EOF {
		return nil, errors.Wrap(err, "workload: decode yaml")
	}
	return normalize(doc.Processes)
}

// Validate checks a single process.
func (p Process) Validate() error {
	switch {
	case p.Name == "" || len(p.Name) > MaxNameLen:
		return errors.Wrapf(ErrInvalid, "name %q must be 1-%d characters", p.Name, MaxNameLen)
	case p.Arrival < 0:
		return errors.Wrapf(ErrInvalid, "%s: negative arrival %d", p.Name, p.Arrival)
	case p.Service <= 0:
		return errors.Wrapf(ErrInvalid, "%s: service time %d must be positive", p.Name, p.Service)
	case p.Memory <= 0:
		return errors.Wrapf(ErrInvalid, "%s: memory %d must be positive", p.Name, p.Memory)
	}
	return nil
}

// normalize validates procs, rejects duplicate names and sorts by arrival
// keeping file order among equal arrivals.
func normalize(procs []Process) ([]Process, error) {
	seen := make(map[string]struct{}, len(procs))
	for _, p := range procs {
		if err := p.Validate(); err != nil {
			return nil, err
		}
		if _, dup := seen[p.Name]; dup {
			return nil, errors.Wrapf(ErrInvalid, "duplicate name %q", p.Name)
		}
		seen[p.Name] = struct{}{}
	}
	slices.SortStableFunc(procs, func(a, b Process) int { return a.Arrival - b.Arrival })
	return procs, nil
}

// TotalMemory returns the sum of every process's memory requirement.
func TotalMemory(procs []Process) int {
	total := 0
	for _, p := range procs {
		total += p.Memory
	}
	return total
}
