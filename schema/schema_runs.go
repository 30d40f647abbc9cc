package schema

import "time"

// RunRecord captures one recorded diff run in the run-history store.
type RunRecord struct {
	RunID         int64     `json:"run_id"`
	StartTime     time.Time `json:"start_time"`
	EndTime       time.Time `json:"end_time"`
	OldLabel      string    `json:"old_label"`
	NewLabel      string    `json:"new_label"`
	TotalOldFiles int       `json:"total_old_files"`
	TotalNewFiles int       `json:"total_new_files"`
	Added         int       `json:"added"`
	Removed       int       `json:"removed"`
	Modified      int       `json:"modified"`
	Moved         int       `json:"moved"`
	Unmodified    int       `json:"unmodified"`
	NetSizeDelta  int64     `json:"net_size_delta"`
	ConfigParams  string    `json:"config_params"` // JSON-encoded configuration used for the run
}

// DeltaRecord captures one stored delta row belonging to a run.
type DeltaRecord struct {
	RunID   int64   `json:"run_id"`
	Kind    string  `json:"kind"`
	OldPath string  `json:"old_path"`
	NewPath string  `json:"new_path"`
	Factors string  `json:"factors"` // Canonical factors serialization
	Score   float64 `json:"score"`
}

// RunStatus has status information about the run-history store.
type RunStatus struct {
	Backend       DatabaseBackend `json:"backend"`
	Connected     bool            `json:"connected"`
	TotalRuns     int64           `json:"total_runs"`
	LastRunID     int64           `json:"last_run_id"`
	LastRunTime   time.Time       `json:"last_run_time"`
	OldestRunTime time.Time       `json:"oldest_run_time"`
	TotalDeltas   int64           `json:"total_deltas"`
}
