// Package exitcode provides semantic exit codes for CI/CD gating.
// Deployment pipelines branch on the process exit status, so the
// zero/one contract is load-bearing: 0 means no blockers and no
// regressions, anything else stops the rollout.
//
// Exit codes:
//   - 0: Success (no blockers, no regressions)
//   - 1: Risk found (blockers or regressions present)
//   - 2: Too many skipped records
//   - 3: Invalid configuration
//   - 4: Input unreadable
//   - 5: Interrupted
package exitcode

import (
	"fmt"
	"sync"
)

// Code is a semantic process exit code.
type Code int

const (
	// Success indicates no blockers and no regressions were found.
	Success Code = 0
	// RiskFound indicates blockers or regressions are present.
	RiskFound Code = 1
	// Degraded indicates too many records were skipped to trust the result.
	Degraded Code = 2
	// Configuration indicates invalid configuration was provided.
	Configuration Code = 3
	// Input indicates an input document could not be read or parsed.
	Input Code = 4
	// Interrupted indicates the run was interrupted (e.g., SIGINT).
	Interrupted Code = 5
)

var codeStrings = map[Code]string{
	Success:       "success",
	RiskFound:     "risk_found",
	Degraded:      "too_many_skipped",
	Configuration: "invalid_configuration",
	Input:         "input_unreadable",
	Interrupted:   "run_interrupted",
}

var codeDescriptions = map[Code]string{
	Success:       "Run completed with no blockers and no regressions",
	RiskFound:     "Blockers or regressions were found",
	Degraded:      "Too many records were skipped during normalization",
	Configuration: "Invalid configuration provided",
	Input:         "Input document is unreadable or unparseable",
	Interrupted:   "Run was interrupted by user or signal",
}

// Config holds thresholds for the exit code manager.
type Config struct {
	// SkipThreshold is the number of skipped records that degrades the
	// run. Default: 10.
	SkipThreshold int
}

// Manager tracks run outcomes and determines the exit code.
type Manager struct {
	cfg         Config
	blockers    int
	regressions int
	skipped     int
	mu          sync.Mutex

	configError bool
	inputError  bool
	interrupted bool
}

// New creates an exit code manager.
func New(cfg Config) *Manager {
	if cfg.SkipThreshold == 0 {
		cfg.SkipThreshold = 10
	}
	return &Manager{cfg: cfg}
}

// RecordBlockers adds n deployment blockers.
func (m *Manager) RecordBlockers(n int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.blockers += n
}

// RecordRegressions adds n regressions.
func (m *Manager) RecordRegressions(n int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.regressions += n
}

// RecordSkipped adds n skipped records.
func (m *Manager) RecordSkipped(n int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.skipped += n
}

// SetConfigError marks that a configuration error occurred.
func (m *Manager) SetConfigError() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.configError = true
}

// SetInputError marks that an input document was unreadable.
func (m *Manager) SetInputError() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.inputError = true
}

// SetInterrupted marks that the run was interrupted.
func (m *Manager) SetInterrupted() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.interrupted = true
}

// ExitCode returns the exit code and a human-readable reason.
//
// Priority order (highest to lowest): interrupted, configuration
// error, input error, skip threshold, risk found, success.
func (m *Manager) ExitCode() (Code, string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.interrupted {
		return Interrupted, codeDescriptions[Interrupted]
	}
	if m.configError {
		return Configuration, codeDescriptions[Configuration]
	}
	if m.inputError {
		return Input, codeDescriptions[Input]
	}
	if m.skipped >= m.cfg.SkipThreshold {
		return Degraded, fmt.Sprintf("%s (threshold: %d, actual: %d)",
			codeDescriptions[Degraded], m.cfg.SkipThreshold, m.skipped)
	}
	if m.blockers > 0 || m.regressions > 0 {
		return RiskFound, fmt.Sprintf("%s (blockers: %d, regressions: %d)",
			codeDescriptions[RiskFound], m.blockers, m.regressions)
	}
	return Success, codeDescriptions[Success]
}

// CodeString returns the short identifier for an exit code.
func CodeString(code Code) string {
	if s, ok := codeStrings[code]; ok {
		return s
	}
	return fmt.Sprintf("unknown_code_%d", code)
}

// CodeDescription returns a detailed description of an exit code.
func CodeDescription(code Code) string {
	if s, ok := codeDescriptions[code]; ok {
		return s
	}
	return fmt.Sprintf("Unknown exit code: %d", code)
}
