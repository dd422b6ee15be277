package model

import "time"

// AccountStatus is everything we learned about one account from the
// external client's status command. Produced once per validated account
// and never mutated afterwards.
type AccountStatus struct {
	AccountNumber      string
	IsValid            bool
	ExpiryDate         time.Time // zero when unknown
	ErrorMessage       string    // empty on success
	DeviceLimitReached bool
}

// Category is the coarse classification of a processed account.
type Category int

const (
	CategoryValid Category = iota
	CategoryInvalid
	CategoryError
)

// String returns a human-readable category name.
func (c Category) String() string {
	switch c {
	case CategoryValid:
		return "Valid"
	case CategoryInvalid:
		return "Invalid"
	case CategoryError:
		return "Error"
	default:
		return "Unknown"
	}
}

// Reason explains why an account was rejected at the login step.
type Reason string

const (
	ReasonEmptyInput      Reason = "empty account number"
	ReasonTooManyDevices  Reason = "too many devices"
	ReasonNotFound        Reason = "account does not exist"
	ReasonExecutionFailed Reason = "command execution failed"
	ReasonUnknownResponse Reason = "unknown error"
)

// Outcome is the per-account result emitted by the batch worker.
// Exactly one is produced for every processed account, in input order.
// This is the sole contract between the engine and any presentation layer.
type Outcome struct {
	Account  string
	Category Category
	Message  string
}

// RunState is the terminal state of a batch run.
type RunState int

const (
	RunCompleted RunState = iota
	RunCancelled
)

// String returns a human-readable run state name.
func (s RunState) String() string {
	switch s {
	case RunCompleted:
		return "Completed"
	case RunCancelled:
		return "Cancelled"
	default:
		return "Unknown"
	}
}

// RunSummary is the terminal signal of a batch run. It distinguishes
// natural completion from cancellation and carries bookkeeping for logs.
type RunSummary struct {
	RunID     string
	State     RunState
	Processed int
	Total     int
	Duration  time.Duration
}

// BatchStats aggregates summary analytics for an entire run.
type BatchStats struct {
	TotalAccounts         int     `json:"total_accounts"`
	ValidAccounts         int     `json:"valid_accounts"`
	InvalidAccounts       int     `json:"invalid_accounts"`
	ErrorAccounts         int     `json:"error_accounts"`
	DeviceLimited         int     `json:"device_limited"`
	ValidRatePct          float64 `json:"valid_rate_pct"`
	TotalProcessingTimeMs int64   `json:"total_processing_time_ms"`
}
