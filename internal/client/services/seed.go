package services

import (
	"context"
	"time"

	"github.com/dmitrijs2005/gophtodo/internal/client/models"
	"github.com/dmitrijs2005/gophtodo/internal/logging"
	"github.com/google/uuid"
)

// Demo account credentials.
const (
	DemoName     = "Demo User"
	DemoEmail    = "demo@demo.com"
	DemoPassword = "Demo1234"
)

type demoTask struct {
	title       string
	description string
	priority    models.Priority
	status      models.Status
	dueInDays   int
}

var demoTasks = []demoTask{
	{"Review project documentation", "Go through the technical docs and update what is stale", models.PriorityHigh, models.StatusPending, 2},
	{"Prepare client presentation", "Build the slides and rehearse the product demo", models.PriorityHigh, models.StatusInProgress, 5},
	{"Update project dependencies", "Review and bump outdated modules", models.PriorityMedium, models.StatusPending, 7},
	{"Write unit tests", "Raise test coverage to 80%", models.PriorityMedium, models.StatusInProgress, 10},
	{"Review teammates' code", "Go through the open pull requests", models.PriorityLow, models.StatusPending, 3},
	{"Organise team meeting", "Agree on a time slot and prepare the agenda", models.PriorityMedium, models.StatusCompleted, -2},
	{"Optimise database queries", "Find and speed up the slow queries", models.PriorityHigh, models.StatusPending, -1},
	{"Set up CI/CD pipeline", "Configure continuous integration and automatic deploys", models.PriorityMedium, models.StatusCompleted, -5},
	{"Write API documentation", "Document endpoints with usage examples", models.PriorityLow, models.StatusPending, 14},
	{"Implement notification system", "Add push notifications for important events", models.PriorityHigh, models.StatusInProgress, 6},
}

// SeedService creates the demo account and its sample tasks.
type SeedService struct {
	store Store
	auth  AuthService
	tasks TaskService
	log   logging.Logger
	now   func() time.Time
}

func NewSeedService(store Store, auth AuthService, tasks TaskService, opts ...Option) *SeedService {
	o := buildOptions(opts)
	return &SeedService{
		store: store,
		auth:  auth,
		tasks: tasks,
		log:   o.log.With("component", "seed"),
		now:   o.now,
	}
}

// SeedDemoData registers the demo user, which also logs them in, and writes
// ten sample tasks due relative to now. It does nothing when the demo user
// already exists. seeded reports whether data was written.
func (s *SeedService) SeedDemoData(ctx context.Context) (seeded bool, err error) {
	for _, u := range s.store.GetUsers(ctx) {
		if models.NormalizeEmail(u.Email) == DemoEmail {
			return false, nil
		}
	}

	res := s.auth.Register(ctx, DemoName, DemoEmail, []byte(DemoPassword))
	if !res.Success {
		s.log.Error(ctx, "demo user not created", "error", res.Err)
		return false, res.Err
	}

	demo := s.auth.CurrentUser()
	if demo == nil {
		return false, nil
	}

	now := s.now()
	stamp := models.FormatTimestamp(now)
	for _, d := range demoTasks {
		s.store.SaveTask(ctx, models.Task{
			ID:          uuid.NewString(),
			UserID:      demo.ID,
			Title:       d.title,
			Description: d.description,
			DueDate:     models.FormatTimestamp(now.Add(time.Duration(d.dueInDays) * 24 * time.Hour)),
			Priority:    d.priority,
			Status:      d.status,
			CreatedAt:   stamp,
			UpdatedAt:   stamp,
		})
	}
	s.tasks.Reload(ctx)

	s.log.Info(ctx, "demo data seeded", "user_id", demo.ID, "tasks", len(demoTasks))
	return true, nil
}
