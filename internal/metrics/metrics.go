// Package metrics provides the Recorder interface and a noop implementation.
package metrics

import "time"

// Sync outcome labels passed to RecordSyncOutcome.
const (
	OutcomeDecoded          = "decoded"
	OutcomeDefaultedAbsent  = "defaulted_absent"
	OutcomeDefaultedCorrupt = "defaulted_corrupt"
)

// Recorder is the interface for recording operational metrics.
type Recorder interface {
	RecordLatency(key, op string, d time.Duration)
	RecordError(key, op string)
	RecordSyncOutcome(key, outcome string)
}

// Noop is a Recorder that discards all data.
type Noop struct{}

func (Noop) RecordLatency(key, op string, d time.Duration) {}
func (Noop) RecordError(key, op string)                    {}
func (Noop) RecordSyncOutcome(key, outcome string)         {}
