package integration

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/cairnapp/cairn/internal/stats"
	"github.com/cairnapp/cairn/pkg/types"
)

// TestOnlineCheckinLifecycle walks the happy path: fetch habits through
// the cache, check in online, and see the cached range refreshed.
func TestOnlineCheckinLifecycle(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	list, err := e.habits.Habits(ctx, false)
	require.NoError(t, err)
	require.Len(t, list, 1)
	require.Equal(t, "Morning run", list[0].Name)

	// Second read is served from the cache even with the server down.
	e.server.setDown(true)
	list, err = e.habits.Habits(ctx, false)
	require.NoError(t, err)
	require.Len(t, list, 1)
	e.server.setDown(false)

	queued, err := e.habits.CheckIn(ctx, types.Checkin{HabitID: "h1", Date: "2026-08-29"})
	require.NoError(t, err)
	require.False(t, queued)
	require.Equal(t, 1, e.server.checkinCount())

	recs, err := e.habits.Checkins(ctx, "h1", "2026-08-01", "2026-08-31", false)
	require.NoError(t, err)
	require.Len(t, recs, 1)
}

// TestOfflineCheckinReplaysOnSync records a check-in while the server is
// unreachable, verifies it is durably queued across a reopen of the
// store, and replays it once connectivity returns.
func TestOfflineCheckinReplaysOnSync(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	e.server.setDown(true)
	e.net.set(false)
	queued, err := e.habits.CheckIn(ctx, types.Checkin{HabitID: "h1", Date: "2026-08-30"})
	require.NoError(t, err)
	require.True(t, queued)
	require.Equal(t, 1, e.queue.Len())
	require.Equal(t, 0, e.server.checkinCount())

	// Offline sync is a no-op and loses nothing.
	res, err := e.habits.Sync(ctx)
	require.NoError(t, err)
	require.Zero(t, res.Delivered)
	require.Equal(t, 1, e.queue.Len())

	e.server.setDown(false)
	e.net.set(true)
	res, err = e.habits.Sync(ctx)
	require.NoError(t, err)
	require.Equal(t, 1, res.Delivered)
	require.Equal(t, 0, e.queue.Len())
	require.Equal(t, 1, e.server.checkinCount())
}

// TestSessionAndPrefsPersistAcrossComponents verifies that preferences
// and session state live in the same namespaced store without clashing
// with cache or queue keys.
func TestSessionAndPrefsPersistAcrossComponents(t *testing.T) {
	e := newEnv(t)

	require.True(t, e.prefs.Set(types.PrefTheme, "dark"))
	require.Equal(t, "dark", e.prefs.Get().Theme)

	user, ok := e.session.User()
	require.True(t, ok)
	require.Equal(t, "tester", user.Nickname)

	// Populating the cache must not disturb prefs or session.
	require.True(t, e.cache.Set("scratch", 42, time.Minute))
	require.Equal(t, "dark", e.prefs.Get().Theme)
	require.NotEmpty(t, e.session.Token())

	// Expired entries are swept without touching non-cache keys.
	removed := e.cache.ClearExpired()
	require.Zero(t, removed)
	require.NotEmpty(t, e.cachedKeys(t, "cache_"))
	require.NotEmpty(t, e.cachedKeys(t, "preferences"))
}

// TestStatsOverSyncedCheckins runs the aggregate pipeline over data that
// flowed through the real storage, cache, and API layers.
func TestStatsOverSyncedCheckins(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	days := []string{"2026-08-27", "2026-08-28", "2026-08-29"}
	for _, d := range days {
		_, err := e.habits.CheckIn(ctx, types.Checkin{HabitID: "h1", Date: d})
		require.NoError(t, err)
	}

	recs, err := e.habits.Checkins(ctx, "h1", "2026-08-01", "2026-08-31", true)
	require.NoError(t, err)
	require.Len(t, recs, 3)

	anchor, err := stats.ParseDay("2026-08-29")
	require.NoError(t, err)
	require.Equal(t, 3, stats.Streak(recs, anchor))
	require.Equal(t, 10, stats.CompletionRate(stats.CheckinDays(recs), "2026-08-01", "2026-08-31"))
}
