package services

import (
	"context"
	"crypto/subtle"
	"strings"
	"sync"

	"github.com/dmitrijs2005/gophtodo/internal/client/models"
	"github.com/dmitrijs2005/gophtodo/internal/common"
	"github.com/dmitrijs2005/gophtodo/internal/cryptox"
	"github.com/dmitrijs2005/gophtodo/internal/logging"
	"github.com/dmitrijs2005/gophtodo/internal/observe"
	"github.com/google/uuid"
)

// User-facing outcome messages.
const (
	MsgEmailTaken         = "Email is already registered"
	MsgRegistered         = "Registration successful"
	MsgInvalidCredentials = "Invalid email or password"
	MsgLoggedIn           = "Login successful"
)

// AuthResult is the outcome of Register and Login. Failures are values, not
// errors: Message is safe to show to the user and Err is the matching
// sentinel from package common.
type AuthResult struct {
	Success bool
	Message string
	Err     error
}

// AuthService manages users and the active session.
//
// Contract:
//   - Register: create a user with a unique (case-insensitive) email and log
//     them in.
//   - Login: check credentials; unknown email and wrong password are not
//     distinguished.
//   - Logout: drop the session.
//   - Subscribe: receive the current user (nil when logged out) now and on
//     every change.
type AuthService interface {
	Register(ctx context.Context, name, email string, password []byte) AuthResult
	Login(ctx context.Context, email string, password []byte) AuthResult
	Logout(ctx context.Context)
	IsAuthenticated() bool
	CurrentUser() *models.User
	Subscribe(ctx context.Context, fn observe.Listener[*models.User]) (cancel func())
	HasUsers(ctx context.Context) bool
}

type authService struct {
	store   Store
	log     logging.Logger
	opts    options
	mu      sync.Mutex
	current *observe.Subject[*models.User]
}

// NewAuthService restores the persisted session, if any. A session pointing
// at a user that no longer exists is cleared.
func NewAuthService(ctx context.Context, store Store, opts ...Option) AuthService {
	o := buildOptions(opts)
	a := &authService{
		store:   store,
		log:     o.log.With("component", "auth"),
		opts:    o,
		current: observe.NewSubject[*models.User](nil),
	}
	a.restoreSession(ctx)
	return a
}

func (a *authService) restoreSession(ctx context.Context) {
	session := a.store.GetSession(ctx)
	if session == nil {
		return
	}
	for _, u := range a.store.GetUsers(ctx) {
		if u.ID == session.UserID {
			user := u
			a.current.Publish(ctx, &user)
			a.log.Debug(ctx, "session restored", "user_id", u.ID)
			return
		}
	}
	a.log.Warn(ctx, "dangling session cleared", "user_id", session.UserID)
	a.store.ClearSession(ctx)
}

func (a *authService) findByEmail(ctx context.Context, email string) (models.User, bool) {
	key := models.NormalizeEmail(email)
	for _, u := range a.store.GetUsers(ctx) {
		if models.NormalizeEmail(u.Email) == key {
			return u, true
		}
	}
	return models.User{}, false
}

func (a *authService) Register(ctx context.Context, name, email string, password []byte) AuthResult {
	a.mu.Lock()
	if _, taken := a.findByEmail(ctx, email); taken {
		a.mu.Unlock()
		a.log.Info(ctx, "registration rejected", "reason", "duplicate email")
		return AuthResult{Message: MsgEmailTaken, Err: common.ErrDuplicateEmail}
	}

	user := models.User{
		ID:           uuid.NewString(),
		Name:         strings.TrimSpace(name),
		Email:        models.NormalizeEmail(email),
		PasswordHash: cryptox.HashPassword(password),
		CreatedAt:    models.FormatTimestamp(a.opts.now()),
	}
	a.store.SaveUser(ctx, user)
	a.store.SaveSession(ctx, user.ID)
	a.mu.Unlock()

	a.log.Info(ctx, "user registered", "user_id", user.ID)
	a.current.Publish(ctx, &user)
	return AuthResult{Success: true, Message: MsgRegistered}
}

func (a *authService) Login(ctx context.Context, email string, password []byte) AuthResult {
	a.mu.Lock()
	user, found := a.findByEmail(ctx, email)
	hash := cryptox.HashPassword(password)
	if !found || subtle.ConstantTimeCompare([]byte(user.PasswordHash), []byte(hash)) != 1 {
		a.mu.Unlock()
		a.log.Info(ctx, "login rejected")
		return AuthResult{Message: MsgInvalidCredentials, Err: common.ErrInvalidCredentials}
	}
	a.store.SaveSession(ctx, user.ID)
	a.mu.Unlock()

	a.log.Info(ctx, "user logged in", "user_id", user.ID)
	a.current.Publish(ctx, &user)
	return AuthResult{Success: true, Message: MsgLoggedIn}
}

func (a *authService) Logout(ctx context.Context) {
	a.mu.Lock()
	a.store.ClearSession(ctx)
	a.mu.Unlock()

	a.current.Publish(ctx, nil)
}

func (a *authService) IsAuthenticated() bool {
	return a.current.Value() != nil
}

// CurrentUser returns a copy of the active user, or nil.
func (a *authService) CurrentUser() *models.User {
	u := a.current.Value()
	if u == nil {
		return nil
	}
	c := *u
	return &c
}

func (a *authService) Subscribe(ctx context.Context, fn observe.Listener[*models.User]) func() {
	return a.current.Subscribe(ctx, fn)
}

func (a *authService) HasUsers(ctx context.Context) bool {
	return len(a.store.GetUsers(ctx)) > 0
}
