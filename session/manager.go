// Package session tracks who is signed in on a browser profile. The
// Manager is a two-state machine (Anonymous, SignedIn); every transition
// persists the identity first and then runs the registered hooks in order,
// so the cart is reloaded before the view is rendered.
package session

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/junaidrashid-git/webshop/identity"
	"github.com/junaidrashid-git/webshop/models"
	"github.com/junaidrashid-git/webshop/storage"
)

var (
	// ErrInvalidCredentials covers both an unknown email and a wrong password.
	ErrInvalidCredentials = errors.New("invalid email or password")
	// ErrUnknownProvider rejects a social sign-in for an unsupported provider.
	ErrUnknownProvider = errors.New("unknown sign-in provider")
)

// State of the session machine.
type State int

const (
	Anonymous State = iota
	SignedIn
)

func (s State) String() string {
	if s == SignedIn {
		return "signed-in"
	}
	return "anonymous"
}

// TransitionKind names what changed the identity.
type TransitionKind string

const (
	TransitionRestore TransitionKind = "restore"
	TransitionSignIn  TransitionKind = "signin"
	TransitionSignUp  TransitionKind = "signup"
	TransitionSocial  TransitionKind = "social"
	TransitionLogout  TransitionKind = "logout"
)

// Transition is passed to hooks after the new identity is persisted.
// Identity is nil for the guest.
type Transition struct {
	Kind     TransitionKind
	Identity *models.Identity
}

// Hook reacts to a transition. A failing hook stops the ones after it.
type Hook func(ctx context.Context, t Transition) error

// socialProviders maps provider id to the display name used for the
// synthetic identity.
var socialProviders = map[string]string{
	"google":   "Google",
	"facebook": "Facebook",
}

// Manager owns the current identity of one profile.
type Manager struct {
	durable  storage.Bucket
	volatile storage.Bucket
	users    Directory
	log      *zap.Logger

	hashCost int
	newID    func() string
	now      func() time.Time

	current   *models.Identity
	hooks     []Hook
	ready     chan struct{}
	readyOnce sync.Once
}

// Option configures a Manager.
type Option func(*Manager)

// WithHashCost sets the bcrypt cost for new passwords.
func WithHashCost(cost int) Option {
	return func(m *Manager) { m.hashCost = cost }
}

// WithIDGenerator replaces uuid generation for new identities.
func WithIDGenerator(f func() string) Option {
	return func(m *Manager) { m.newID = f }
}

// WithClock replaces time.Now.
func WithClock(f func() time.Time) Option {
	return func(m *Manager) { m.now = f }
}

// NewManager returns an Anonymous manager. Call Restore to load the
// persisted identity.
func NewManager(durable, volatile storage.Bucket, users Directory, log *zap.Logger, opts ...Option) *Manager {
	if log == nil {
		log = zap.NewNop()
	}
	m := &Manager{
		durable:  durable,
		volatile: volatile,
		users:    users,
		log:      log,
		hashCost: bcrypt.DefaultCost,
		newID:    uuid.NewString,
		now:      time.Now,
		ready:    make(chan struct{}),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// OnTransition registers h. Hooks run in registration order.
func (m *Manager) OnTransition(h Hook) {
	m.hooks = append(m.hooks, h)
}

// Ready is closed once Restore has finished, successfully or not.
func (m *Manager) Ready() <-chan struct{} { return m.ready }

// State reports Anonymous or SignedIn.
func (m *Manager) State() State {
	if m.current == nil {
		return Anonymous
	}
	return SignedIn
}

// Current returns a copy of the signed-in identity, or nil for the guest.
func (m *Manager) Current() *models.Identity {
	if m.current == nil {
		return nil
	}
	id := *m.current
	return &id
}

// IdentityKey implements identity.Resolver.
func (m *Manager) IdentityKey() string { return identity.Key(m.current) }

// Restore loads the identity from the durable store, falling back to the
// volatile store. A volatile identity is moved into the durable store.
func (m *Manager) Restore(ctx context.Context) error {
	defer m.readyOnce.Do(func() { close(m.ready) })

	id, err := m.restoreIdentity(ctx)
	if err != nil {
		return err
	}
	m.current = id
	return m.fire(ctx, Transition{Kind: TransitionRestore, Identity: m.Current()})
}

func (m *Manager) restoreIdentity(ctx context.Context) (*models.Identity, error) {
	var id models.Identity
	found, err := m.durable.Get(ctx, storage.KeyCurrentUser, &id)
	switch {
	case errors.Is(err, storage.ErrCorrupt):
		m.log.Warn("discarding unreadable identity", zap.String("scope", m.durable.Scope()), zap.Error(err))
		if err := m.durable.Remove(ctx, storage.KeyCurrentUser); err != nil {
			return nil, err
		}
	case err != nil:
		return nil, err
	case found:
		return &id, nil
	}

	var tabIdentity models.Identity
	found, err = m.volatile.Get(ctx, storage.KeyCurrentUser, &tabIdentity)
	var restored *models.Identity
	switch {
	case errors.Is(err, storage.ErrCorrupt):
		m.log.Warn("discarding unreadable tab identity", zap.String("scope", m.volatile.Scope()), zap.Error(err))
	case err != nil:
		return nil, err
	case !found:
		return nil, nil
	default:
		if err := m.durable.Set(ctx, storage.KeyCurrentUser, &tabIdentity); err != nil {
			return nil, err
		}
		restored = &tabIdentity
		m.log.Info("moved tab identity to durable store", zap.String("identity", identity.Key(restored)))
	}
	if err := m.volatile.Remove(ctx, storage.KeyCurrentUser); err != nil {
		return nil, err
	}
	return restored, nil
}

// SignIn switches to the user whose email and password match exactly.
func (m *Manager) SignIn(ctx context.Context, c Credentials) (*models.Identity, error) {
	if err := c.validate(); err != nil {
		return nil, err
	}
	user, err := m.users.FindByEmail(ctx, c.Email)
	if errors.Is(err, ErrUserNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}
	if !checkPassword(user.PasswordHash, c.Password) {
		return nil, ErrInvalidCredentials
	}
	return m.login(ctx, TransitionSignIn, user.Identity())
}

// SignUp appends a new user record and signs it in.
func (m *Manager) SignUp(ctx context.Context, f SignUpForm) (*models.Identity, error) {
	if err := f.validate(); err != nil {
		return nil, err
	}
	if _, err := m.users.FindByEmail(ctx, f.Email); err == nil {
		return nil, ErrDuplicateEmail
	} else if !errors.Is(err, ErrUserNotFound) {
		return nil, err
	}

	hash, err := hashPassword(f.Password, m.hashCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	user := &models.User{
		ID:           m.newID(),
		FirstName:    strings.TrimSpace(f.FirstName),
		LastName:     strings.TrimSpace(f.LastName),
		Email:        f.Email,
		PasswordHash: hash,
		CreatedAt:    m.now().UTC(),
	}
	if err := m.users.Create(ctx, user); err != nil {
		return nil, err
	}
	m.log.Info("user registered", zap.String("user_id", user.ID))
	return m.login(ctx, TransitionSignUp, user.Identity())
}

// SocialSignIn signs in a synthetic identity for provider. Nothing is
// verified with the provider.
func (m *Manager) SocialSignIn(ctx context.Context, provider string) (*models.Identity, error) {
	provider = strings.ToLower(strings.TrimSpace(provider))
	display, ok := socialProviders[provider]
	if !ok {
		return nil, ErrUnknownProvider
	}
	id := &models.Identity{
		ID:        m.newID(),
		FirstName: display,
		LastName:  "User",
		Email:     "user@" + provider + ".com",
		Provider:  provider,
		CreatedAt: m.now().UTC(),
	}
	return m.login(ctx, TransitionSocial, id)
}

// Logout clears the identity from both stores and returns to the guest.
func (m *Manager) Logout(ctx context.Context) error {
	if err := m.durable.Remove(ctx, storage.KeyCurrentUser); err != nil {
		return err
	}
	if err := m.volatile.Remove(ctx, storage.KeyCurrentUser); err != nil {
		return err
	}
	m.current = nil
	return m.fire(ctx, Transition{Kind: TransitionLogout})
}

func (m *Manager) login(ctx context.Context, kind TransitionKind, id *models.Identity) (*models.Identity, error) {
	if err := m.durable.Set(ctx, storage.KeyCurrentUser, id); err != nil {
		return nil, err
	}
	m.current = id
	if err := m.fire(ctx, Transition{Kind: kind, Identity: m.Current()}); err != nil {
		return nil, err
	}
	return m.Current(), nil
}

func (m *Manager) fire(ctx context.Context, t Transition) error {
	m.log.Debug("session transition",
		zap.String("kind", string(t.Kind)),
		zap.String("identity", identity.Key(t.Identity)),
	)
	for _, h := range m.hooks {
		if err := h(ctx, t); err != nil {
			return fmt.Errorf("%s hook: %w", t.Kind, err)
		}
	}
	return nil
}
