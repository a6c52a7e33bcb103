package types

import (
	"encoding/json"
	"errors"
	"time"
)

// Pending-operation kinds. The dispatch table is extensible; this is the
// one kind the base system ships.
const (
	OpCheckinCreate = "checkin.create"
)

// PendingOperation is one mutation captured while the remote service was
// unreachable. It is owned exclusively by the offline write queue:
// created on a failed or deferred write, destroyed only after a
// confirmed successful replay.
type PendingOperation struct {
	// ID is a UUIDv7, time-based and monotonic within the process.
	ID         string          `json:"id"`
	Kind       string          `json:"kind"`
	Payload    json.RawMessage `json:"payload"`
	EnqueuedAt time.Time       `json:"enqueued_at"`

	// Retry bookkeeping. Attempts counts failed deliveries;
	// NextAttemptAt is zero until the first failure.
	Attempts      int       `json:"attempts,omitempty"`
	NextAttemptAt time.Time `json:"next_attempt_at,omitempty"`
}

// Queue errors.
var (
	// ErrDrainInProgress is returned when a drain pass is requested
	// while another is still running.
	ErrDrainInProgress = errors.New("drain already in progress")

	// ErrUnknownOperation is returned by drain dispatch when no
	// handler is registered for an operation's kind.
	ErrUnknownOperation = errors.New("unknown operation kind")
)

// ErrUnauthorized marks a remote rejection that must end the session
// instead of being retried. The API client wraps 401 responses with it;
// the queue checks it with errors.Is.
var ErrUnauthorized = errors.New("unauthorized")
