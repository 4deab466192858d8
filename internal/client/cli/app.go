package cli

import (
	"bufio"
	"context"
	"database/sql"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/dmitrijs2005/gophtodo/internal/client/config"
	"github.com/dmitrijs2005/gophtodo/internal/client/localdb"
	"github.com/dmitrijs2005/gophtodo/internal/client/services"
	"github.com/dmitrijs2005/gophtodo/internal/client/storage"
	"github.com/dmitrijs2005/gophtodo/internal/common"
	"github.com/dmitrijs2005/gophtodo/internal/logging"
)

// App owns the database handle, the services and the terminal I/O of one
// CLI session.
type App struct {
	config        *config.Config
	log           logging.Logger
	db            *sql.DB
	store         services.Store
	authService   services.AuthService
	taskService   services.TaskService
	notifications services.NotificationService
	seedService   *services.SeedService
	backupService services.BackupService
	toasts        *toastPrinter
	stopToasts    func()
	reader        *bufio.Reader
	out           io.Writer
	closeOnce     sync.Once
}

// NewApp opens the local database at c.DBPath, builds the services and,
// when c.SeedDemo is set, creates the demo account on first start.
func NewApp(ctx context.Context, c *config.Config, log logging.Logger) (*App, error) {
	db, err := localdb.Open(ctx, c.DBPath)
	if err != nil {
		log.Error(ctx, "error initializing database", "path", c.DBPath, "error", err)
		return nil, fmt.Errorf("open database: %w", err)
	}

	gw := storage.NewGateway(db, log)
	a := newApp(ctx, c, log, gw, bufio.NewReader(os.Stdin), os.Stdout)
	a.db = db

	if c.SeedDemo {
		seeded, err := a.seedService.SeedDemoData(ctx)
		if err != nil {
			log.Warn(ctx, "demo data not seeded", "error", err)
		} else if seeded {
			log.Info(ctx, "demo data seeded", "email", services.DemoEmail)
		}
	}
	return a, nil
}

// newApp wires the services over store. Tests use it directly with an
// in-memory reader and writer.
func newApp(ctx context.Context, c *config.Config, log logging.Logger, store services.Store, in *bufio.Reader, out io.Writer) *App {
	opts := []services.Option{services.WithLogger(log)}

	auth := services.NewAuthService(ctx, store, opts...)
	tasks := services.NewTaskService(ctx, store, auth, opts...)
	notes := services.NewNotificationService(c.ToastDuration, opts...)

	a := &App{
		config:        c,
		log:           log,
		store:         store,
		authService:   auth,
		taskService:   tasks,
		notifications: notes,
		seedService:   services.NewSeedService(store, auth, tasks, opts...),
		backupService: services.NewBackupService(store, auth, tasks, opts...),
		reader:        in,
		out:           out,
	}
	a.toasts = newToastPrinter(out)
	a.stopToasts = notes.Subscribe(ctx, a.toasts.onChange)
	return a
}

// Run greets the user, sends them to register or login when needed and
// blocks in the REPL until exit or EOF.
func (a *App) Run(ctx context.Context) {
	defer a.Close()

	a.println(fmt.Sprintf("Welcome to %s (type 'help' for commands)", common.AppName))
	if a.config.SeedDemo {
		a.println(fmt.Sprintf("Demo account: %s / %s", services.DemoEmail, services.DemoPassword))
	}
	a.requireUser(ctx)

	runREPL(ctx, a, a.getStatus, a.reader)
}

// Close stops background work and releases the database. Only the first
// call has an effect.
func (a *App) Close() {
	a.closeOnce.Do(func() {
		if a.stopToasts != nil {
			a.stopToasts()
		}
		a.notifications.Close()
		a.taskService.Close()
		if a.db != nil {
			if err := a.db.Close(); err != nil {
				a.log.Error(context.Background(), "error closing database", "error", err)
			}
		}
	})
}

func (a *App) isLoggedIn() bool {
	return a.authService.IsAuthenticated()
}

func (a *App) getStatus() string {
	if u := a.authService.CurrentUser(); u != nil {
		return fmt.Sprintf("(%s)", u.Email)
	}
	return ""
}

// requireUser is the access guard for task commands: with no users at all it
// starts registration, otherwise login. It reports whether a user is logged in
// afterwards.
func (a *App) requireUser(ctx context.Context) bool {
	switch services.ResolveAccess(ctx, a.authService) {
	case services.AccessGranted:
		return true
	case services.AccessRegister:
		a.println("No accounts yet, let's create one.")
		if err := a.Register(ctx); err != nil {
			a.println("Error:", err)
		}
	case services.AccessLogin:
		a.println("Please log in.")
		if err := a.Login(ctx); err != nil {
			a.println("Error:", err)
		}
	}
	return a.isLoggedIn()
}

func (a *App) println(args ...any) {
	fmt.Fprintln(a.out, args...)
}
