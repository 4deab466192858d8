package services

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"sync"

	"github.com/dmitrijs2005/gophtodo/internal/client/models"
	"github.com/dmitrijs2005/gophtodo/internal/common"
	"github.com/dmitrijs2005/gophtodo/internal/logging"
	"github.com/dmitrijs2005/gophtodo/internal/observe"
	"github.com/google/uuid"
)

// TaskService owns the active user's task list.
//
// Ownership is enforced here, not in the Store: updates and deletes of tasks
// the active user does not own are silent no-ops. The list follows the auth
// stream, so it empties on logout and refills on login.
type TaskService interface {
	CreateTask(ctx context.Context, title, description, dueDate string, priority models.Priority) (*models.Task, error)
	UpdateTask(ctx context.Context, task models.Task) error
	DeleteTask(ctx context.Context, taskID string)
	ChangeTaskStatus(ctx context.Context, taskID string, status models.Status) error
	GetTasks() []models.Task
	GetTask(taskID string) (models.Task, bool)
	GetTasksByStatus(status models.Status) []models.Task
	IsTaskOverdue(task models.Task) bool
	Reload(ctx context.Context)
	Subscribe(ctx context.Context, fn observe.Listener[[]models.Task]) (cancel func())
	Close()
}

type taskService struct {
	store      Store
	log        logging.Logger
	opts       options
	mu         sync.Mutex
	userID     string
	tasks      []models.Task
	subject    *observe.Subject[[]models.Task]
	cancelAuth func()
}

// NewTaskService subscribes to auth and loads the current user's tasks.
func NewTaskService(ctx context.Context, store Store, auth AuthService, opts ...Option) TaskService {
	o := buildOptions(opts)
	s := &taskService{
		store:   store,
		log:     o.log.With("component", "tasks"),
		opts:    o,
		tasks:   []models.Task{},
		subject: observe.NewSubject([]models.Task{}),
	}
	s.cancelAuth = auth.Subscribe(ctx, s.onUserChanged)
	return s
}

func (s *taskService) onUserChanged(ctx context.Context, u *models.User) {
	s.mu.Lock()
	if u == nil {
		s.userID = ""
	} else {
		s.userID = u.ID
	}
	snap := s.reloadLocked(ctx)
	s.mu.Unlock()

	s.subject.Publish(ctx, snap)
}

// reloadLocked re-reads the projection and returns a copy for publishing.
func (s *taskService) reloadLocked(ctx context.Context) []models.Task {
	if s.userID == "" {
		s.tasks = []models.Task{}
	} else {
		s.tasks = s.store.GetTasksByUser(ctx, s.userID)
	}
	return slices.Clone(s.tasks)
}

func (s *taskService) findLocked(taskID string) (models.Task, bool) {
	for _, t := range s.tasks {
		if t.ID == taskID {
			return t, true
		}
	}
	return models.Task{}, false
}

func normalize(t *models.Task) {
	t.Title = strings.TrimSpace(t.Title)
	t.Description = strings.TrimSpace(t.Description)
	t.DueDate = strings.TrimSpace(t.DueDate)
}

func (s *taskService) CreateTask(ctx context.Context, title, description, dueDate string, priority models.Priority) (*models.Task, error) {
	s.mu.Lock()
	if s.userID == "" {
		s.mu.Unlock()
		return nil, common.ErrNotAuthenticated
	}

	now := models.FormatTimestamp(s.opts.now())
	t := models.Task{
		ID:          uuid.NewString(),
		UserID:      s.userID,
		Title:       title,
		Description: description,
		DueDate:     dueDate,
		Priority:    priority,
		Status:      models.StatusPending,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	normalize(&t)
	if err := t.Validate(common.MinTitleLength); err != nil {
		s.mu.Unlock()
		return nil, fmt.Errorf("%w: %v", common.ErrInvalidTask, err)
	}

	s.store.SaveTask(ctx, t)
	snap := s.reloadLocked(ctx)
	s.mu.Unlock()

	s.log.Debug(ctx, "task created", "task_id", t.ID, "user_id", t.UserID)
	s.subject.Publish(ctx, snap)
	return &t, nil
}

func (s *taskService) UpdateTask(ctx context.Context, task models.Task) error {
	s.mu.Lock()
	if s.userID == "" || task.UserID != s.userID {
		s.mu.Unlock()
		return nil
	}
	stored, ok := s.findLocked(task.ID)
	if !ok {
		s.mu.Unlock()
		return nil
	}

	task.UserID = stored.UserID
	task.CreatedAt = stored.CreatedAt
	task.UpdatedAt = models.FormatTimestamp(s.opts.now())
	normalize(&task)
	if err := task.Validate(common.MinTitleLength); err != nil {
		s.mu.Unlock()
		return fmt.Errorf("%w: %v", common.ErrInvalidTask, err)
	}

	s.store.SaveTask(ctx, task)
	snap := s.reloadLocked(ctx)
	s.mu.Unlock()

	s.log.Debug(ctx, "task updated", "task_id", task.ID)
	s.subject.Publish(ctx, snap)
	return nil
}

func (s *taskService) DeleteTask(ctx context.Context, taskID string) {
	s.mu.Lock()
	if s.userID == "" {
		s.mu.Unlock()
		return
	}
	if _, ok := s.findLocked(taskID); !ok {
		s.mu.Unlock()
		return
	}

	s.store.DeleteTask(ctx, taskID)
	snap := s.reloadLocked(ctx)
	s.mu.Unlock()

	s.log.Debug(ctx, "task deleted", "task_id", taskID)
	s.subject.Publish(ctx, snap)
}

// ChangeTaskStatus moves a task to any status. Unknown task ids are ignored.
func (s *taskService) ChangeTaskStatus(ctx context.Context, taskID string, status models.Status) error {
	if !status.Valid() {
		return fmt.Errorf("%w: unknown status %q", common.ErrInvalidTask, status)
	}

	s.mu.Lock()
	t, ok := s.findLocked(taskID)
	s.mu.Unlock()
	if !ok {
		return nil
	}

	t.Status = status
	return s.UpdateTask(ctx, t)
}

func (s *taskService) GetTasks() []models.Task {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.tasks)
}

func (s *taskService) GetTask(taskID string) (models.Task, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.findLocked(taskID)
}

func (s *taskService) GetTasksByStatus(status models.Status) []models.Task {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.Task, 0, len(s.tasks))
	for _, t := range s.tasks {
		if t.Status == status {
			out = append(out, t)
		}
	}
	return out
}

func (s *taskService) IsTaskOverdue(task models.Task) bool {
	return IsOverdue(task, s.opts.now())
}

// Reload re-reads the active user's tasks from the Store and publishes them.
// It is needed after the Store was written behind the service's back.
func (s *taskService) Reload(ctx context.Context) {
	s.mu.Lock()
	snap := s.reloadLocked(ctx)
	s.mu.Unlock()

	s.subject.Publish(ctx, snap)
}

func (s *taskService) Subscribe(ctx context.Context, fn observe.Listener[[]models.Task]) func() {
	return s.subject.Subscribe(ctx, fn)
}

// Close detaches the service from the auth stream.
func (s *taskService) Close() {
	if s.cancelAuth != nil {
		s.cancelAuth()
	}
}
