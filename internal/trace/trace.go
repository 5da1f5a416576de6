// Package trace renders dispatcher events as text or JSON lines.
//
// The text format is one comma separated record per event:
//
//	0,RUNNING,process-name=P1,remaining-time=10,mem-usage=2%,mem-frames=[0,1,2,3]
//	6,EVICTED,evicted-frames=[0,1,2,3]
//	12,FINISHED,process-name=P1,proc-remaining=2
//
// followed by the run statistics:
//
//	Turnaround time 14
//	Time overhead 2.33 1.71
//	Makespan 30
//
// The JSON format writes one object per line with an "event" field.
package trace

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"github.com/joshuapare/memsim/memory"
)

// Format specifies the output format for printing.
type Format string

const (
	// FormatText outputs the comma separated trace.
	FormatText Format = "text"

	// FormatJSON outputs one JSON object per line.
	FormatJSON Format = "json"
)

// ErrUnknownFormat indicates an unrecognised output format.
var ErrUnknownFormat = errors.New("trace: unknown format")

// ParseFormat parses an output format name.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatText, FormatJSON:
		return f, nil
	case "":
		return FormatText, nil
	default:
		return "", errors.Wrapf(ErrUnknownFormat, "%q", s)
	}
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (f *Format) UnmarshalText(text []byte) error {
	v, err := ParseFormat(string(text))
	if err != nil {
		return err
	}
	*f = v
	return nil
}

// Options controls printing behavior.
type Options struct {
	// Format specifies output format (text, json).
	// Default: FormatText
	Format Format

	// Strategy selects which memory fields RUNNING records carry.
	// Default: memory.Infinite (none)
	Strategy memory.Strategy
}

// DefaultOptions returns the options of the plain text trace.
func DefaultOptions() Options {
	return Options{
		Format:   FormatText,
		Strategy: memory.Infinite,
	}
}

// Running describes a process being dispatched.
type Running struct {
	Time      int
	Name      string
	Remaining int
	Usage     int   // memory usage percent
	Address   int   // first-fit base address
	Frames    []int // paged/virtual frames, ascending
}

// Statistics summarises a finished run.
type Statistics struct {
	Turnaround  int     // average turnaround, rounded up
	MaxOverhead float64 // largest turnaround/service ratio
	AvgOverhead float64 // mean turnaround/service ratio
	Makespan    int     // time of the last completion
}

// Printer writes trace records to an io.Writer.
type Printer struct {
	w    io.Writer
	opts Options
}

// New creates a printer.
func New(w io.Writer, opts Options) *Printer {
	if opts.Format == "" {
		opts.Format = FormatText
	}
	if opts.Strategy == 0 {
		opts.Strategy = memory.Infinite
	}
	return &Printer{w: w, opts: opts}
}

// Running prints a RUNNING record.
func (p *Printer) Running(ev Running) error {
	if p.opts.Format == FormatJSON {
		rec := jsonRunning{
			Time:      ev.Time,
			Event:     "RUNNING",
			Name:      ev.Name,
			Remaining: ev.Remaining,
		}
		if p.opts.Strategy.TracksMemory() {
			rec.Usage = &ev.Usage
		}
		switch p.opts.Strategy {
		case memory.FirstFit:
			rec.Address = &ev.Address
		case memory.Paged, memory.Virtual:
			rec.Frames = ev.Frames
		}
		return p.writeJSON(rec)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%d,RUNNING,process-name=%s,remaining-time=%d", ev.Time, ev.Name, ev.Remaining)
	switch p.opts.Strategy {
	case memory.FirstFit:
		fmt.Fprintf(&b, ",mem-usage=%d%%,allocated-at=%d", ev.Usage, ev.Address)
	case memory.Paged, memory.Virtual:
		fmt.Fprintf(&b, ",mem-usage=%d%%,mem-frames=%s", ev.Usage, formatFrames(ev.Frames))
	}
	return p.writeLine(b.String())
}

// Evicted prints an EVICTED record. Nothing is printed for an empty list.
func (p *Printer) Evicted(now int, evicted []int) error {
	if len(evicted) == 0 {
		return nil
	}
	if p.opts.Format == FormatJSON {
		return p.writeJSON(jsonEvicted{Time: now, Event: "EVICTED", Frames: evicted})
	}
	return p.writeLine(fmt.Sprintf("%d,EVICTED,evicted-frames=%s", now, formatFrames(evicted)))
}

// Finished prints a FINISHED record. remaining is the ready-queue length.
func (p *Printer) Finished(now int, name string, remaining int) error {
	if p.opts.Format == FormatJSON {
		return p.writeJSON(jsonFinished{Time: now, Event: "FINISHED", Name: name, Remaining: remaining})
	}
	return p.writeLine(fmt.Sprintf("%d,FINISHED,process-name=%s,proc-remaining=%d", now, name, remaining))
}

// Statistics prints the run summary.
func (p *Printer) Statistics(s Statistics) error {
	if p.opts.Format == FormatJSON {
		return p.writeJSON(jsonStatistics{
			Event:       "STATISTICS",
			Turnaround:  s.Turnaround,
			MaxOverhead: s.MaxOverhead,
			AvgOverhead: s.AvgOverhead,
			Makespan:    s.Makespan,
		})
	}
	lines := []string{
		fmt.Sprintf("Turnaround time %d", s.Turnaround),
		fmt.Sprintf("Time overhead %.2f %.2f", s.MaxOverhead, s.AvgOverhead),
		fmt.Sprintf("Makespan %d", s.Makespan),
	}
	for _, l := range lines {
		if err := p.writeLine(l); err != nil {
			return err
		}
	}
	return nil
}

func (p *Printer) writeLine(s string) error {
	_, err := io.WriteString(p.w, s+"\n")
	return errors.Wrap(err, "trace: write")
}

func (p *Printer) writeJSON(v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return errors.Wrap(err, "trace: encode")
	}
	_, err = fmt.Fprintf(p.w, "%s\n", data)
	return errors.Wrap(err, "trace: write")
}

// formatFrames renders frames as [a,b,c].
func formatFrames(fs []int) string {
	parts := make([]string, len(fs))
	for i, f := range fs {
		parts[i] = strconv.Itoa(f)
	}
	return "[" + strings.Join(parts, ",") + "]"
}
