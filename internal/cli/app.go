// Application wiring shared by the cairn subcommands.
package cli

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/cairnapp/cairn/internal/api"
	"github.com/cairnapp/cairn/internal/cache"
	"github.com/cairnapp/cairn/internal/habits"
	"github.com/cairnapp/cairn/internal/netstate"
	"github.com/cairnapp/cairn/internal/paths"
	"github.com/cairnapp/cairn/internal/prefs"
	"github.com/cairnapp/cairn/internal/queue"
	"github.com/cairnapp/cairn/internal/session"
	"github.com/cairnapp/cairn/internal/storage"
	"github.com/cairnapp/cairn/pkg/sqlite"
	"github.com/cairnapp/cairn/pkg/types"
)

// app holds the assembled component graph for one CLI invocation.
type app struct {
	host    types.HostStorage
	store   *storage.Store
	session *session.Store
	prefs   *prefs.Store
	cache   *cache.Cache
	queue   *queue.Queue
	client  *api.Client
	habits  *habits.Service
	log     *zap.Logger
}

// openApp resolves directories, loads config.yaml, attaches the storage
// backend, and wires the component graph. Callers must close() when done.
func openApp() (*app, error) {
	configDir, err := paths.ResolveConfigDir(flags.configDir)
	if err != nil {
		return nil, fmt.Errorf("resolve config dir: %w", err)
	}

	v, err := loadConfig(configDir)
	if err != nil {
		return nil, err
	}

	dataDir, err := paths.ResolveDataDir(flags.dataDir, v.GetString(cfgKeyDataDir))
	if err != nil {
		return nil, fmt.Errorf("resolve data dir: %w", err)
	}

	cfg := types.Config{
		Backend: v.GetString(cfgKeyBackend),
		DataDir: dataDir,
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}

	host := sqlite.NewBackend()
	if err := host.Attach(cfg); err != nil {
		return nil, fmt.Errorf("attach storage: %w", err)
	}

	log := newLogger()
	store := storage.New(host, log)
	sess := session.New(store, log)
	client := api.New(v.GetString(cfgKeyAPIBase), sess, log)

	c := cache.New(store, log)
	q := queue.New(store, sess, netstate.NewChecker(), log)

	a := &app{
		host:    host,
		store:   store,
		session: sess,
		prefs:   prefs.New(store, log),
		cache:   c,
		queue:   q,
		client:  client,
		habits:  habits.New(client, c, q, log),
		log:     log,
	}
	return a, nil
}

// close detaches the storage backend and flushes the logger.
func (a *app) close() {
	if err := a.host.Detach(); err != nil {
		a.log.Warn("detach storage", zap.Error(err))
	}
	_ = a.log.Sync()
}
