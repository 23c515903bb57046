package dashboard

import (
	"fmt"
	"time"

	"github.com/lmi-dashboard/lmi-dashboard/internal/aggregate"
)

// State is the consumer-visible phase of the pipeline.
type State int

const (
	Idle State = iota
	Loading
	Ready
	Failed
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Loading:
		return "loading"
	case Ready:
		return "ready"
	case Failed:
		return "failed"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Snapshot is one published pipeline result. Snapshots are immutable once
// published; a new load replaces the whole value.
type Snapshot struct {
	State    State
	Token    uint64
	Location string

	// Summary is only set when State is Ready.
	Summary aggregate.Summary
	// Err is only set when State is Failed.
	Err error

	StartedAt   time.Time
	CompletedAt time.Time
}

// ErrorText returns the failure message, or "" when the snapshot did not fail.
func (s Snapshot) ErrorText() string {
	if s.Err == nil {
		return ""
	}
	return s.Err.Error()
}

// Status is what consumers poll to render a loading indicator, an error or charts.
type Status struct {
	State       State     `json:"state"`
	Location    string    `json:"location,omitempty"`
	Error       string    `json:"error,omitempty"`
	Refreshing  bool      `json:"refreshing"`
	CompletedAt time.Time `json:"completedAt,omitzero"`
}
