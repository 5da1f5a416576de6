package trace

// jsonRunning is a RUNNING record in JSON format.
type jsonRunning struct {
	Time      int    `json:"time"`
	Event     string `json:"event"`
	Name      string `json:"process_name"`
	Remaining int    `json:"remaining_time"`
	Usage     *int   `json:"mem_usage,omitempty"`
	Address   *int   `json:"allocated_at,omitempty"`
	Frames    []int  `json:"mem_frames,omitempty"`
}

// jsonEvicted is an EVICTED record in JSON format.
type jsonEvicted struct {
	Time   int    `json:"time"`
	Event  string `json:"event"`
	Frames []int  `json:"evicted_frames"`
}

// jsonFinished is a FINISHED record in JSON format.
type jsonFinished struct {
	Time      int    `json:"time"`
	Event     string `json:"event"`
	Name      string `json:"process_name"`
	Remaining int    `json:"proc_remaining"`
}

// jsonStatistics is the closing summary in JSON format.
type jsonStatistics struct {
	Event       string  `json:"event"`
	Turnaround  int     `json:"turnaround_time"`
	MaxOverhead float64 `json:"max_time_overhead"`
	AvgOverhead float64 `json:"avg_time_overhead"`
	Makespan    int     `json:"makespan"`
}
