// Package integration exercises the full component graph against a
// sqlite-backed store and a fake remote server.
package integration

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"go.uber.org/zap"

	"github.com/cairnapp/cairn/internal/api"
	"github.com/cairnapp/cairn/internal/cache"
	"github.com/cairnapp/cairn/internal/habits"
	"github.com/cairnapp/cairn/internal/netstate"
	"github.com/cairnapp/cairn/internal/prefs"
	"github.com/cairnapp/cairn/internal/queue"
	"github.com/cairnapp/cairn/internal/session"
	"github.com/cairnapp/cairn/internal/storage"
	"github.com/cairnapp/cairn/pkg/sqlite"
	"github.com/cairnapp/cairn/pkg/types"
)

// fakeServer is an in-memory habit API. Setting down makes every
// request fail with HTTP 500 so delivery paths can be exercised.
type fakeServer struct {
	mu       sync.Mutex
	down     bool
	habits   []types.Habit
	checkins []types.Checkin
}

func (f *fakeServer) setDown(down bool) {
	f.mu.Lock()
	f.down = down
	f.mu.Unlock()
}

func (f *fakeServer) checkinCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.checkins)
}

func (f *fakeServer) handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()

		if f.down {
			http.Error(w, "unavailable", http.StatusInternalServerError)
			return
		}

		switch {
		case r.Method == http.MethodGet && r.URL.Path == "/habits":
			writeEnvelope(w, f.habits)
		case r.Method == http.MethodGet && r.URL.Path == "/checkins":
			habitID := r.URL.Query().Get("habit_id")
			var out []types.Checkin
			for _, c := range f.checkins {
				if habitID == "" || c.HabitID == habitID {
					out = append(out, c)
				}
			}
			writeEnvelope(w, out)
		case r.Method == http.MethodPost && r.URL.Path == "/checkins":
			var c types.Checkin
			if err := json.NewDecoder(r.Body).Decode(&c); err != nil {
				http.Error(w, err.Error(), http.StatusBadRequest)
				return
			}
			// Dedupe on the natural key like the real server does.
			for _, have := range f.checkins {
				if have.HabitID == c.HabitID && have.Date == c.Date {
					writeEnvelope(w, have)
					return
				}
			}
			f.checkins = append(f.checkins, c)
			writeEnvelope(w, c)
		default:
			http.NotFound(w, r)
		}
	})
}

func writeEnvelope(w http.ResponseWriter, data any) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{"code": 0, "message": "ok", "data": data})
}

// toggleStatus is a switchable connectivity probe.
type toggleStatus struct {
	mu     sync.Mutex
	online bool
}

var _ netstate.Status = (*toggleStatus)(nil)

func (s *toggleStatus) Online() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.online
}

func (s *toggleStatus) set(online bool) {
	s.mu.Lock()
	s.online = online
	s.mu.Unlock()
}

// env wires the full graph the way the CLI does, against a temp data
// directory and the fake server.
type env struct {
	server  *fakeServer
	net     *toggleStatus
	store   *storage.Store
	session *session.Store
	prefs   *prefs.Store
	cache   *cache.Cache
	queue   *queue.Queue
	habits  *habits.Service
}

func newEnv(t *testing.T) *env {
	t.Helper()

	host := sqlite.NewBackend()
	cfg := types.Config{Backend: types.BackendSQLite, DataDir: t.TempDir()}
	if err := host.Attach(cfg); err != nil {
		t.Fatalf("Attach: %v", err)
	}
	t.Cleanup(func() { host.Detach() })

	fake := &fakeServer{
		habits: []types.Habit{
			{ID: "h1", Name: "Morning run", Category: "sport", Frequency: "daily"},
		},
	}
	srv := httptest.NewServer(fake.handler())
	t.Cleanup(srv.Close)

	log := zap.NewNop()
	store := storage.New(host, log)
	sess := session.New(store, log)
	sess.SetAuth("test-token", types.UserInfo{ID: "u1", Nickname: "tester"})

	client := api.New(srv.URL, sess, log)
	c := cache.New(store, log)
	net := &toggleStatus{online: true}
	q := queue.New(store, sess, net, log)

	return &env{
		server:  fake,
		net:     net,
		store:   store,
		session: sess,
		prefs:   prefs.New(store, log),
		cache:   c,
		queue:   q,
		habits:  habits.New(client, c, q, log),
	}
}

// cachedKeys lists namespaced keys currently present, for assertions.
func (e *env) cachedKeys(t *testing.T, prefix string) []string {
	t.Helper()
	var out []string
	for _, k := range e.store.Keys("") {
		if strings.HasPrefix(k, prefix) {
			out = append(out, k)
		}
	}
	return out
}
