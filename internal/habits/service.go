// Package habits is the read-through and write-behind glue between the
// remote service, the TTL cache, and the offline queue: reads prefer the
// cache, writes that cannot reach the remote are captured as pending
// operations and replayed later.
package habits

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/cairnapp/cairn/internal/cache"
	"github.com/cairnapp/cairn/internal/queue"
	"github.com/cairnapp/cairn/pkg/types"
)

// Cache keys. Check-in entries are keyed per habit and range so a write
// can invalidate just that habit's family.
const (
	habitsKey         = "habits"
	checkinsKeyFormat = "checkins_%s_%s_%s"
)

// Remote is the slice of the API client the service consumes.
type Remote interface {
	Habits(ctx context.Context) ([]types.Habit, error)
	Checkins(ctx context.Context, habitID, start, end string) ([]types.Checkin, error)
	CreateCheckin(ctx context.Context, checkin types.Checkin) error
}

// Service coordinates reads and writes of habit data.
type Service struct {
	remote Remote
	cache  *cache.Cache
	queue  *queue.Queue
	log    *zap.Logger
}

// New creates the service and installs the queue handler that replays
// captured check-ins against the remote.
func New(remote Remote, c *cache.Cache, q *queue.Queue, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	s := &Service{remote: remote, cache: c, queue: q, log: log}

	q.Register(types.OpCheckinCreate, func(ctx context.Context, payload json.RawMessage) error {
		var checkin types.Checkin
		if err := json.Unmarshal(payload, &checkin); err != nil {
			return fmt.Errorf("decode queued checkin: %w", err)
		}
		return s.remote.CreateCheckin(ctx, checkin)
	})
	return s
}

// Habits returns the habit list, from cache when a live entry exists.
// refresh bypasses the cache. A successful remote fetch repopulates the
// cache with the default TTL.
func (s *Service) Habits(ctx context.Context, refresh bool) ([]types.Habit, error) {
	if !refresh {
		var cached []types.Habit
		if s.cache.Get(habitsKey, &cached) {
			return cached, nil
		}
	}

	habits, err := s.remote.Habits(ctx)
	if err != nil {
		return nil, err
	}
	s.cache.Set(habitsKey, habits, 0)
	return habits, nil
}

// Checkins returns a habit's check-ins over the inclusive period
// start..end, from cache when a live entry exists.
func (s *Service) Checkins(ctx context.Context, habitID, start, end string, refresh bool) ([]types.Checkin, error) {
	key := fmt.Sprintf(checkinsKeyFormat, habitID, start, end)
	if !refresh {
		var cached []types.Checkin
		if s.cache.Get(key, &cached) {
			return cached, nil
		}
	}

	checkins, err := s.remote.Checkins(ctx, habitID, start, end)
	if err != nil {
		return nil, err
	}
	s.cache.Set(key, checkins, 0)
	return checkins, nil
}

// CheckIn records a check-in. When the remote is unreachable the
// mutation is captured on the offline queue for later replay; queued
// reports which path it took. An unauthorized rejection is returned
// as-is and never queued.
func (s *Service) CheckIn(ctx context.Context, checkin types.Checkin) (queued bool, err error) {
	if checkin.HabitID == "" || checkin.Date == "" {
		return false, fmt.Errorf("checkin needs habit and date: %+v", checkin.Key())
	}

	err = s.remote.CreateCheckin(ctx, checkin)
	if err == nil {
		s.invalidate(checkin.HabitID)
		return false, nil
	}
	if errors.Is(err, types.ErrUnauthorized) {
		return false, err
	}

	if !s.queue.Enqueue(types.OpCheckinCreate, checkin) {
		return false, fmt.Errorf("checkin lost: remote unreachable and queue write failed: %w", err)
	}
	s.log.Info("checkin queued for later delivery",
		zap.String("habit_id", checkin.HabitID), zap.String("date", checkin.Date))
	return true, nil
}

// Sync drains the offline queue if connectivity is available, then
// invalidates cached check-ins for anything delivered.
func (s *Service) Sync(ctx context.Context) (queue.Result, error) {
	res, err := s.queue.CheckAndSync(ctx)
	if res.Delivered > 0 {
		s.cache.RemoveMatching("checkins_")
		s.cache.Remove(habitsKey)
	}
	return res, err
}

// invalidate drops cached state made stale by a delivered write.
func (s *Service) invalidate(habitID string) {
	s.cache.RemoveMatching("checkins_" + habitID)
	s.cache.Remove(habitsKey)
}
