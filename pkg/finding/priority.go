package finding

// Priority is the action-timeline classification derived from severity
// and category. Absent (empty) until the prioritizer runs.
type Priority string

const (
	PriorityBlocker Priority = "blocker"
	PriorityUrgent  Priority = "urgent"
	PriorityHigh    Priority = "high"
	PriorityMedium  Priority = "medium"
	PriorityLow     Priority = "low"
	PriorityBacklog Priority = "backlog"
)

// IsValid reports whether p is a recognized priority tier.
func (p Priority) IsValid() bool {
	switch p {
	case PriorityBlocker, PriorityUrgent, PriorityHigh, PriorityMedium, PriorityLow, PriorityBacklog:
		return true
	}
	return false
}

// Rank returns a numeric rank for ordering. Blocker=6 down to Backlog=1.
func (p Priority) Rank() int {
	switch p {
	case PriorityBlocker:
		return 6
	case PriorityUrgent:
		return 5
	case PriorityHigh:
		return 4
	case PriorityMedium:
		return 3
	case PriorityLow:
		return 2
	case PriorityBacklog:
		return 1
	default:
		return 0
	}
}

// Complexity estimates how involved a remediation is.
type Complexity string

const (
	ComplexityLow    Complexity = "low"
	ComplexityMedium Complexity = "medium"
	ComplexityHigh   Complexity = "high"
)

// Effort is a bounded remediation-effort estimate.
type Effort string

const (
	Effort1h          Effort = "1h"
	Effort4h          Effort = "4h"
	Effort1d          Effort = "1d"
	Effort3d          Effort = "3d"
	Effort1w          Effort = "1w"
	EffortUnspecified Effort = "unspecified"
)

// Status is the lifecycle state carried on persisted baseline entries.
type Status string

const (
	StatusOpen  Status = "open"
	StatusFixed Status = "fixed"
)
