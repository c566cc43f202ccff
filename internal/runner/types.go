package runner

import "time"

// Config defines monitored-execution behavior.
type Config struct {
	// MonitorTimeout is the hard kill bound passed to the in-sandbox
	// monitor command. The monitor is the source of truth for timeouts.
	MonitorTimeout time.Duration
	// WaitSlack pads the caller's own wait budget beyond MonitorTimeout so
	// the caller never gives up before the monitored command does.
	WaitSlack time.Duration
	// MonitorPath is the monitor command inside the sandbox.
	MonitorPath string
	// QueryDir is the remote directory for per-case query files.
	QueryDir string
}

// TestResult is the outcome of one test case under one configuration.
// Always well-formed: a failed run still carries latency and the error text.
type TestResult struct {
	CaseID          string   `json:"case_id"`
	ConfigID        string   `json:"config_id"`
	Query           string   `json:"query"`
	ExpectedSkill   string   `json:"expected_skill"`
	ActivatedSkills []string `json:"activated_skills"`
	Activated       bool     `json:"activated"`
	Correct         bool     `json:"correct"`
	LatencyMs       int64    `json:"latency_ms"`
	Error           string   `json:"error,omitempty"`
}
