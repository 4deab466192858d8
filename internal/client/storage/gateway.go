// Package storage is the storage gateway: it keeps users, tasks and the
// session pointer as three JSON text blobs in the local key/value store.
//
// Every method is fail-soft. A missing key reads as empty. A blob that is not
// valid JSON, or has the wrong top-level shape, also reads as empty. Records
// inside the users and tasks arrays are validated one by one against embedded
// JSON Schemas and invalid ones are skipped. Write failures are logged and
// swallowed, so callers never see a storage error.
package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/dmitrijs2005/gophtodo/internal/client/models"
	"github.com/dmitrijs2005/gophtodo/internal/client/repositories/kv"
	"github.com/dmitrijs2005/gophtodo/internal/dbx"
	"github.com/dmitrijs2005/gophtodo/internal/logging"
	"github.com/santhosh-tekuri/jsonschema/v5"
)

// Keys of the three logical collections.
const (
	KeyUsers   = "todo_app_users"
	KeyTasks   = "todo_app_tasks"
	KeySession = "todo_app_session"
)

// Snapshot is the full users and tasks content, used by backups.
type Snapshot struct {
	Users []models.User `json:"users"`
	Tasks []models.Task `json:"tasks"`
}

type Gateway struct {
	db   *sql.DB
	repo kv.Repository
	log  logging.Logger
	now  func() time.Time
}

type Option func(*Gateway)

// WithClock replaces time.Now as the source of session timestamps.
func WithClock(now func() time.Time) Option {
	return func(g *Gateway) { g.now = now }
}

func NewGateway(db *sql.DB, log logging.Logger, opts ...Option) *Gateway {
	g := &Gateway{
		db:   db,
		repo: kv.NewSQLiteRepository(db),
		log:  log.With("component", "storage"),
		now:  time.Now,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

func (g *Gateway) GetUsers(ctx context.Context) []models.User {
	return readCollection[models.User](ctx, g, KeyUsers, userSchema)
}

// SaveUser inserts u or replaces the stored user with the same id.
func (g *Gateway) SaveUser(ctx context.Context, u models.User) {
	users := g.GetUsers(ctx)
	users = upsert(users, u, func(x models.User) string { return x.ID })
	g.write(ctx, KeyUsers, users)
}

// GetTasksByUser returns the stored tasks owned by userID, in stored order.
func (g *Gateway) GetTasksByUser(ctx context.Context, userID string) []models.Task {
	all := g.getAllTasks(ctx)
	out := make([]models.Task, 0, len(all))
	for _, t := range all {
		if t.UserID == userID {
			out = append(out, t)
		}
	}
	return out
}

// SaveTask inserts t or replaces the stored task with the same id. The lookup
// runs over every user's tasks.
func (g *Gateway) SaveTask(ctx context.Context, t models.Task) {
	tasks := g.getAllTasks(ctx)
	tasks = upsert(tasks, t, func(x models.Task) string { return x.ID })
	g.write(ctx, KeyTasks, tasks)
}

// DeleteTask removes the task with taskID. Ownership is not checked here.
func (g *Gateway) DeleteTask(ctx context.Context, taskID string) {
	tasks := g.getAllTasks(ctx)
	kept := tasks[:0]
	for _, t := range tasks {
		if t.ID != taskID {
			kept = append(kept, t)
		}
	}
	g.write(ctx, KeyTasks, kept)
}

// SaveSession points the session at userID, stamped with the current time
// in unix milliseconds.
func (g *Gateway) SaveSession(ctx context.Context, userID string) {
	g.write(ctx, KeySession, models.Session{UserID: userID, Timestamp: g.now().UnixMilli()})
}

// GetSession returns nil when there is no usable session.
func (g *Gateway) GetSession(ctx context.Context) *models.Session {
	raw, ok := g.read(ctx, KeySession)
	if !ok {
		return nil
	}
	if err := validateRaw(sessionSchema, []byte(raw)); err != nil {
		g.log.Warn(ctx, "discarding invalid session", "key", KeySession, "error", err)
		return nil
	}
	var s models.Session
	if err := json.Unmarshal([]byte(raw), &s); err != nil {
		g.log.Warn(ctx, "discarding invalid session", "key", KeySession, "error", err)
		return nil
	}
	return &s
}

func (g *Gateway) ClearSession(ctx context.Context) {
	if err := g.repo.Delete(ctx, KeySession); err != nil {
		g.log.Error(ctx, "clear session failed", "key", KeySession, "error", err)
	}
}

// ClearAll removes the three collections in one transaction.
func (g *Gateway) ClearAll(ctx context.Context) {
	err := dbx.WithTx(ctx, g.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := kv.NewSQLiteRepository(tx)
		for _, key := range []string{KeyUsers, KeyTasks, KeySession} {
			if err := repo.Delete(ctx, key); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		g.log.Error(ctx, "clear all failed", "error", err)
	}
}

// Snapshot returns every valid user and task.
func (g *Gateway) Snapshot(ctx context.Context) Snapshot {
	return Snapshot{Users: g.GetUsers(ctx), Tasks: g.getAllTasks(ctx)}
}

// Restore replaces users and tasks with s and drops the session, in one
// transaction. Nothing changes if any write fails. Unlike the other writes,
// the failure is also returned so a backup import can report it.
func (g *Gateway) Restore(ctx context.Context, s Snapshot) error {
	users, err := json.Marshal(nonNil(s.Users))
	if err != nil {
		g.log.Error(ctx, "encode users failed", "error", err)
		return fmt.Errorf("encode users: %w", err)
	}
	tasks, err := json.Marshal(nonNil(s.Tasks))
	if err != nil {
		g.log.Error(ctx, "encode tasks failed", "error", err)
		return fmt.Errorf("encode tasks: %w", err)
	}

	err = dbx.WithTx(ctx, g.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := kv.NewSQLiteRepository(tx)
		if err := repo.Set(ctx, KeyUsers, string(users)); err != nil {
			return err
		}
		if err := repo.Set(ctx, KeyTasks, string(tasks)); err != nil {
			return err
		}
		return repo.Delete(ctx, KeySession)
	})
	if err != nil {
		g.log.Error(ctx, "restore failed", "error", err)
		return fmt.Errorf("restore: %w", err)
	}
	return nil
}

func (g *Gateway) getAllTasks(ctx context.Context) []models.Task {
	return readCollection[models.Task](ctx, g, KeyTasks, taskSchema)
}

// read returns the raw value under key. ok is false when the key is missing
// or the store cannot be read.
func (g *Gateway) read(ctx context.Context, key string) (string, bool) {
	raw, ok, err := g.repo.Get(ctx, key)
	if err != nil {
		g.log.Error(ctx, "read failed", "key", key, "error", err)
		return "", false
	}
	return raw, ok
}

func (g *Gateway) write(ctx context.Context, key string, v any) {
	b, err := json.Marshal(v)
	if err != nil {
		g.log.Error(ctx, "encode failed", "key", key, "error", err)
		return
	}
	if err := g.repo.Set(ctx, key, string(b)); err != nil {
		g.log.Error(ctx, "write failed", "key", key, "error", err)
	}
}

// readCollection decodes the JSON array under key. Elements failing schema
// validation are logged and skipped.
func readCollection[T any](ctx context.Context, g *Gateway, key string, schema *jsonschema.Schema) []T {
	out := []T{}

	raw, ok := g.read(ctx, key)
	if !ok {
		return out
	}

	var items []json.RawMessage
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		g.log.Warn(ctx, "collection is not a JSON array, reading as empty", "key", key, "error", err)
		return out
	}

	for i, item := range items {
		if err := validateRaw(schema, item); err != nil {
			g.log.Warn(ctx, "skipping invalid record", "key", key, "index", i, "error", err)
			continue
		}
		var v T
		if err := json.Unmarshal(item, &v); err != nil {
			g.log.Warn(ctx, "skipping invalid record", "key", key, "index", i, "error", err)
			continue
		}
		out = append(out, v)
	}
	return out
}

func upsert[T any](items []T, v T, id func(T) string) []T {
	for i := range items {
		if id(items[i]) == id(v) {
			items[i] = v
			return items
		}
	}
	return append(items, v)
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
