package services

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/dmitrijs2005/gophtodo/internal/client/models"
	"github.com/dmitrijs2005/gophtodo/internal/observe"
	"github.com/google/uuid"
)

// NotificationService keeps the ordered list of toasts on screen.
//
// A toast shown with a positive duration removes itself when its timer fires.
// Removal is by id, so toasts with different lifetimes never affect each
// other. Remove stops the timer and is safe to call after it fired.
type NotificationService interface {
	Show(ctx context.Context, message string, typ models.NotificationType, d time.Duration) string
	Success(ctx context.Context, message string) string
	Error(ctx context.Context, message string) string
	Info(ctx context.Context, message string) string
	Warning(ctx context.Context, message string) string
	Remove(ctx context.Context, id string)
	Clear(ctx context.Context)
	Notifications() []models.Notification
	Subscribe(ctx context.Context, fn observe.Listener[[]models.Notification]) (cancel func())
	Close()
}

type notificationService struct {
	defaultDuration time.Duration
	opts            options

	mu     sync.Mutex
	items  []models.Notification
	timers map[string]*time.Timer
	closed bool

	// pubMu orders publications so the last value delivered is always the
	// latest state, even when timers race with the caller.
	pubMu   sync.Mutex
	subject *observe.Subject[[]models.Notification]
}

// NewNotificationService uses defaultDuration for Success, Error, Info and
// Warning.
func NewNotificationService(defaultDuration time.Duration, opts ...Option) NotificationService {
	return &notificationService{
		defaultDuration: defaultDuration,
		opts:            buildOptions(opts),
		items:           []models.Notification{},
		timers:          make(map[string]*time.Timer),
		subject:         observe.NewSubject([]models.Notification{}),
	}
}

// Show appends a toast and returns its id. A zero or negative d keeps it
// until Remove or Clear.
func (s *notificationService) Show(ctx context.Context, message string, typ models.NotificationType, d time.Duration) string {
	n := models.Notification{ID: uuid.NewString(), Message: message, Type: typ, Duration: max(d, 0)}

	s.mu.Lock()
	s.items = append(s.items, n)
	if d > 0 && !s.closed {
		id := n.ID
		s.timers[id] = time.AfterFunc(d, func() { s.expire(id) })
	}
	s.mu.Unlock()

	s.opts.log.Debug(ctx, "toast shown", "toast_id", n.ID, "type", string(typ))
	s.emit(ctx)
	return n.ID
}

func (s *notificationService) Success(ctx context.Context, message string) string {
	return s.Show(ctx, message, models.NotificationSuccess, s.defaultDuration)
}

func (s *notificationService) Error(ctx context.Context, message string) string {
	return s.Show(ctx, message, models.NotificationError, s.defaultDuration)
}

func (s *notificationService) Info(ctx context.Context, message string) string {
	return s.Show(ctx, message, models.NotificationInfo, s.defaultDuration)
}

func (s *notificationService) Warning(ctx context.Context, message string) string {
	return s.Show(ctx, message, models.NotificationWarning, s.defaultDuration)
}

func (s *notificationService) expire(id string) {
	s.mu.Lock()
	delete(s.timers, id)
	removed := s.removeLocked(id)
	s.mu.Unlock()

	if removed {
		s.emit(context.Background())
	}
}

func (s *notificationService) Remove(ctx context.Context, id string) {
	s.mu.Lock()
	if t, ok := s.timers[id]; ok {
		t.Stop()
		delete(s.timers, id)
	}
	removed := s.removeLocked(id)
	s.mu.Unlock()

	if removed {
		s.emit(ctx)
	}
}

func (s *notificationService) removeLocked(id string) bool {
	i := slices.IndexFunc(s.items, func(n models.Notification) bool { return n.ID == id })
	if i < 0 {
		return false
	}
	s.items = slices.Delete(s.items, i, i+1)
	return true
}

func (s *notificationService) Clear(ctx context.Context) {
	s.mu.Lock()
	s.stopTimersLocked()
	s.items = []models.Notification{}
	s.mu.Unlock()

	s.emit(ctx)
}

func (s *notificationService) stopTimersLocked() {
	for id, t := range s.timers {
		t.Stop()
		delete(s.timers, id)
	}
}

func (s *notificationService) Notifications() []models.Notification {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.items)
}

func (s *notificationService) Subscribe(ctx context.Context, fn observe.Listener[[]models.Notification]) func() {
	return s.subject.Subscribe(ctx, fn)
}

// Close stops pending timers. Toasts already shown stay in the list.
func (s *notificationService) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	s.stopTimersLocked()
}

// emit publishes the current list. Listeners must not call back into the
// service's mutating methods.
func (s *notificationService) emit(ctx context.Context) {
	s.pubMu.Lock()
	defer s.pubMu.Unlock()
	s.subject.Publish(ctx, s.Notifications())
}
