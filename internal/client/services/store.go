package services

import (
	"context"
	"time"

	"github.com/dmitrijs2005/gophtodo/internal/client/models"
	"github.com/dmitrijs2005/gophtodo/internal/client/storage"
	"github.com/dmitrijs2005/gophtodo/internal/logging"
)

// Store is the persistence contract the services rely on. It is satisfied by
// *storage.Gateway. Implementations never report errors to the caller,
// except Restore.
type Store interface {
	GetUsers(ctx context.Context) []models.User
	SaveUser(ctx context.Context, u models.User)
	GetTasksByUser(ctx context.Context, userID string) []models.Task
	SaveTask(ctx context.Context, t models.Task)
	DeleteTask(ctx context.Context, taskID string)
	SaveSession(ctx context.Context, userID string)
	GetSession(ctx context.Context) *models.Session
	ClearSession(ctx context.Context)
	ClearAll(ctx context.Context)
	Snapshot(ctx context.Context) storage.Snapshot
	Restore(ctx context.Context, s storage.Snapshot) error
}

var _ Store = (*storage.Gateway)(nil)

// Option configures a service.
type Option func(*options)

type options struct {
	now func() time.Time
	log logging.Logger
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(o *options) { o.now = now }
}

// WithLogger sets the logger. Services log nothing by default.
func WithLogger(l logging.Logger) Option {
	return func(o *options) { o.log = l }
}

func buildOptions(opts []Option) options {
	o := options{now: time.Now, log: logging.NewNop()}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}
