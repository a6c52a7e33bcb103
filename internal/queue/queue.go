// Package queue implements the durable offline write queue: mutations
// attempted without connectivity are captured as pending operations and
// replayed against the remote service, in order, at least once.
//
// The queue performs no deduplication of its own; re-submission safety
// rests on the remote treating the (habitId, date) natural key of a
// check-in as idempotent.
package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/cairnapp/cairn/internal/netstate"
	"github.com/cairnapp/cairn/internal/session"
	"github.com/cairnapp/cairn/internal/storage"
	"github.com/cairnapp/cairn/pkg/types"
)

// Storage keys for the two persisted lists.
const (
	queueKey      = "pending_sync"
	deadLetterKey = "dead_letter"
)

// Retry policy defaults. The original client retried every trigger
// forever; the cap and dead-letter threshold keep a permanently invalid
// operation from being re-sent indefinitely.
const (
	DefaultMaxAttempts = 8
	DefaultBaseBackoff = 30 * time.Second
	DefaultMaxBackoff  = time.Hour
)

// Handler delivers one pending operation of a given kind to the remote
// service. A nil return confirms delivery.
type Handler func(ctx context.Context, payload json.RawMessage) error

// Result summarizes one drain pass.
type Result struct {
	Delivered int // removed from the queue after confirmed delivery
	Failed    int // left queued with an increased attempt count
	Skipped   int // left queued untouched, backoff not yet elapsed
	Dead      int // moved to the dead-letter list
}

// Queue is the offline write queue. The persisted list is always read,
// modified, and written as a whole; entries are removed one at a time,
// immediately after each confirmed delivery, so a crash mid-drain cannot
// replay a delivered entry.
type Queue struct {
	kv       *storage.Store
	sess     session.Session
	net      netstate.Status
	log      *zap.Logger
	handlers map[string]Handler

	// draining guards against overlapping drain passes; a second
	// invocation racing an in-flight delete-after-success could
	// double-submit an entry the first is still sending.
	draining atomic.Bool

	now   func() time.Time
	newID func() string

	maxAttempts int
	baseBackoff time.Duration
	maxBackoff  time.Duration
}

// New creates a queue over kv. A nil logger is replaced with a no-op
// logger.
func New(kv *storage.Store, sess session.Session, net netstate.Status, log *zap.Logger) *Queue {
	if log == nil {
		log = zap.NewNop()
	}
	return &Queue{
		kv:          kv,
		sess:        sess,
		net:         net,
		log:         log,
		handlers:    make(map[string]Handler),
		now:         time.Now,
		newID:       generateID,
		maxAttempts: DefaultMaxAttempts,
		baseBackoff: DefaultBaseBackoff,
		maxBackoff:  DefaultMaxBackoff,
	}
}

// Register installs the delivery handler for an operation kind,
// replacing any previous handler for that kind.
func (q *Queue) Register(kind string, h Handler) {
	q.handlers[kind] = h
}

// Enqueue appends a pending operation and persists the updated queue.
// Reports whether the operation was durably captured.
func (q *Queue) Enqueue(kind string, payload any) bool {
	raw, err := json.Marshal(payload)
	if err != nil {
		q.log.Warn("enqueue: marshal failed", zap.String("kind", kind), zap.Error(err))
		return false
	}

	ops := q.load(queueKey)
	ops = append(ops, types.PendingOperation{
		ID:         q.newID(),
		Kind:       kind,
		Payload:    raw,
		EnqueuedAt: q.now(),
	})
	if !q.kv.Set(queueKey, ops) {
		return false
	}
	q.log.Info("operation queued", zap.String("kind", kind), zap.Int("queue_len", len(ops)))
	return true
}

// Pending returns the queued operations in enqueue order.
func (q *Queue) Pending() []types.PendingOperation {
	return q.load(queueKey)
}

// Len returns the number of queued operations.
func (q *Queue) Len() int {
	return len(q.load(queueKey))
}

// DeadLetters returns operations that exhausted their attempts.
func (q *Queue) DeadLetters() []types.PendingOperation {
	return q.load(deadLetterKey)
}

// Drain attempts to deliver every due queued operation, in enqueue
// order. A failing entry is left in place with backoff bookkeeping and
// does not block later entries. An unauthorized rejection ends the
// session and aborts the pass. Returns ErrDrainInProgress when called
// while another pass is running.
func (q *Queue) Drain(ctx context.Context) (Result, error) {
	if !q.draining.CompareAndSwap(false, true) {
		return Result{}, types.ErrDrainInProgress
	}
	defer q.draining.Store(false)

	var res Result
	// Snapshot the entries present when the pass starts; anything
	// enqueued while it runs waits for the next trigger. Every mutation
	// below re-reads the persisted list and edits it by ID, so a
	// mid-pass Enqueue is never overwritten by a stale snapshot.
	ops := q.load(queueKey)
	now := q.now()

	for _, op := range ops {
		if !op.NextAttemptAt.IsZero() && op.NextAttemptAt.After(now) {
			res.Skipped++
			continue
		}

		err := q.dispatch(ctx, op)
		if err == nil {
			// Remove and persist immediately so a crash cannot
			// replay this entry.
			q.removeByID(queueKey, op.ID)
			res.Delivered++
			q.log.Info("operation delivered", zap.String("id", op.ID), zap.String("kind", op.Kind))
			continue
		}

		if isUnauthorized(err) {
			q.log.Warn("drain aborted: session revoked", zap.String("id", op.ID))
			q.sess.Logout()
			return res, fmt.Errorf("drain %s: %w", op.ID, err)
		}

		op.Attempts++
		op.NextAttemptAt = now.Add(q.backoff(op.Attempts))

		if op.Attempts >= q.maxAttempts {
			dead := q.load(deadLetterKey)
			dead = append(dead, op)
			q.kv.Set(deadLetterKey, dead)
			q.removeByID(queueKey, op.ID)
			res.Dead++
			q.log.Warn("operation dead-lettered",
				zap.String("id", op.ID), zap.String("kind", op.Kind),
				zap.Int("attempts", op.Attempts), zap.Error(err))
			continue
		}

		q.updateByID(queueKey, op)
		res.Failed++
		q.log.Warn("operation delivery failed",
			zap.String("id", op.ID), zap.String("kind", op.Kind),
			zap.Int("attempts", op.Attempts), zap.Error(err))
	}

	return res, nil
}

// removeByID re-reads the persisted list and drops the entry with the
// given ID, keeping anything enqueued since the list was last read.
func (q *Queue) removeByID(key, id string) {
	ops := q.load(key)
	kept := ops[:0]
	for _, op := range ops {
		if op.ID != id {
			kept = append(kept, op)
		}
	}
	q.kv.Set(key, kept)
}

// updateByID re-reads the persisted list and replaces the entry with the
// matching ID in place. An entry removed in the meantime stays removed.
func (q *Queue) updateByID(key string, updated types.PendingOperation) {
	ops := q.load(key)
	for i, op := range ops {
		if op.ID == updated.ID {
			ops[i] = updated
			break
		}
	}
	q.kv.Set(key, ops)
}

// CheckAndSync drains the queue if connectivity is currently available;
// otherwise it is a no-op. This is the entry point wired to app resume,
// pull-to-refresh, and connectivity-change notifications.
func (q *Queue) CheckAndSync(ctx context.Context) (Result, error) {
	if !q.net.Online() {
		q.log.Debug("check-and-sync: offline, nothing to do")
		return Result{}, nil
	}
	return q.Drain(ctx)
}

// dispatch routes one operation to its registered handler.
func (q *Queue) dispatch(ctx context.Context, op types.PendingOperation) error {
	h, ok := q.handlers[op.Kind]
	if !ok {
		return fmt.Errorf("%w: %s", types.ErrUnknownOperation, op.Kind)
	}
	return h(ctx, op.Payload)
}

// backoff returns the delay before the next attempt: base doubled per
// failed attempt, capped.
func (q *Queue) backoff(attempts int) time.Duration {
	d := q.baseBackoff
	for i := 1; i < attempts; i++ {
		d *= 2
		if d >= q.maxBackoff {
			return q.maxBackoff
		}
	}
	if d > q.maxBackoff {
		return q.maxBackoff
	}
	return d
}

// load reads one of the persisted lists; a missing or unreadable list is
// an empty queue.
func (q *Queue) load(key string) []types.PendingOperation {
	var ops []types.PendingOperation
	q.kv.Get(key, &ops)
	return ops
}

func isUnauthorized(err error) bool {
	return errors.Is(err, types.ErrUnauthorized)
}

func generateID() string {
	id, err := uuid.NewV7()
	if err != nil {
		// Fallback to UUID v4 if v7 generation fails
		return uuid.New().String()
	}
	return id.String()
}
