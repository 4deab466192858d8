package services

import (
	"context"
	"database/sql"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/dmitrijs2005/gophtodo/internal/client/localdb"
	"github.com/dmitrijs2005/gophtodo/internal/client/storage"
	"github.com/dmitrijs2005/gophtodo/internal/logging"
	"github.com/stretchr/testify/require"
)

// fakeClock is a settable clock shared by the gateway and the services.
type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{t: time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(d)
}

type env struct {
	ctx   context.Context
	db    *sql.DB
	store *storage.Gateway
	clock *fakeClock
	dsn   string
}

func newEnv(t *testing.T) *env {
	t.Helper()
	ctx := context.Background()
	dsn := filepath.Join(t.TempDir(), "todo.db")
	db, err := localdb.Open(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	clock := newFakeClock()
	return &env{
		ctx:   ctx,
		db:    db,
		store: storage.NewGateway(db, logging.NewNop(), storage.WithClock(clock.Now)),
		clock: clock,
		dsn:   dsn,
	}
}

func (e *env) opts() []Option {
	return []Option{WithClock(e.clock.Now), WithLogger(logging.NewNop())}
}

func (e *env) auth() AuthService {
	return NewAuthService(e.ctx, e.store, e.opts()...)
}

func (e *env) authAndTasks(t *testing.T) (AuthService, TaskService) {
	t.Helper()
	a := e.auth()
	ts := NewTaskService(e.ctx, e.store, a, e.opts()...)
	t.Cleanup(ts.Close)
	return a, ts
}
