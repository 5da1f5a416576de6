package main

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const pagedWorkload = "0 P1 4 16\n1 P2 2 8\n"

func execRun(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRunCmd()
	cmd.SetArgs(args)
	return captureOutput(t, cmd.Execute)
}

func TestRunCommand(t *testing.T) {
	path := writeWorkload(t, "procs.txt", pagedWorkload)

	tests := []struct {
		name        string
		args        []string
		wantErr     bool
		wantContain []string
	}{
		{
			name: "infinite",
			args: []string{"-f", path, "-q", "3", "-m", "infinite"},
			wantContain: []string{
				"0,RUNNING,process-name=P1,remaining-time=4\n",
				"Makespan 9",
			},
		},
		{
			name: "paged with small memory",
			args: []string{"-f", path, "-q", "3", "-m", "paged", "--memory-size", "16"},
			wantContain: []string{
				"3,EVICTED,evicted-frames=[0,1,2,3]",
				"9,FINISHED,process-name=P1,proc-remaining=0",
				"Time overhead 2.50 2.38",
			},
		},
		{
			name: "virtual with small memory",
			args: []string{"-f", path, "-q", "3", "-m", "virtual", "--memory-size", "16"},
			wantContain: []string{"3,EVICTED,evicted-frames=[0,1]\n"},
		},
		{
			name:    "unknown strategy",
			args:    []string{"-f", path, "-q", "3", "-m", "best-fit"},
			wantErr: true,
		},
		{
			name:    "zero quantum",
			args:    []string{"-f", path, "-q", "0", "-m", "infinite"},
			wantErr: true,
		},
		{
			name:    "missing workload",
			args:    []string{"-q", "3", "-m", "infinite"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resetGlobals()

			output, err := execRun(t, tt.args...)
			if tt.wantErr {
				assert.Error(t, err, "output: %s", output)
				return
			}
			require.NoError(t, err)
			for _, want := range tt.wantContain {
				assert.Contains(t, output, want)
			}
		})
	}
}

func TestRunCommand_JSON(t *testing.T) {
	resetGlobals()
	jsonOut = true
	defer resetGlobals()

	path := writeWorkload(t, "procs.yaml", `processes:
  - {arrival: 0, name: P1, service: 4, memory: 16}
  - {arrival: 1, name: P2, service: 2, memory: 8}
`)
	output, err := execRun(t, "-f", path, "-q", "3", "-m", "paged", "--memory-size", "16")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(output), "\n")
	require.NotEmpty(t, lines)
	for _, l := range lines {
		var m map[string]any
		require.NoError(t, json.Unmarshal([]byte(l), &m), l)
		assert.Contains(t, m, "event")
	}
}

// TestRunCommand_ConfigFile verifies flags override the config file.
func TestRunCommand_ConfigFile(t *testing.T) {
	resetGlobals()
	defer resetGlobals()

	path := writeWorkload(t, "procs.txt", pagedWorkload)
	configPath = writeWorkload(t, "memsim.yaml", "strategy: paged\nmemory_size: 16\nquantum: 3\nworkload: "+path+"\n")

	output, err := execRun(t)
	require.NoError(t, err)
	assert.Contains(t, output, "mem-frames=[0,1,2,3]")

	output, err = execRun(t, "-m", "first-fit")
	require.NoError(t, err)
	assert.Contains(t, output, "allocated-at=0")
}
