package session

import (
	"context"
	"sync"
	"time"

	"github.com/freshkart/storefront-go/pkg/api"
	"github.com/freshkart/storefront-go/pkg/auth"
	"github.com/freshkart/storefront-go/pkg/enums"
	pkgerrors "github.com/freshkart/storefront-go/pkg/errors"
	"github.com/freshkart/storefront-go/pkg/logger"
	"github.com/freshkart/storefront-go/pkg/state"
)

// authAPI is the server surface the manager depends on.
type authAPI interface {
	ValidateToken(ctx context.Context) error
	Profile(ctx context.Context) (*api.Identity, error)
	RefreshToken(ctx context.Context) (string, error)
	Logout(ctx context.Context) error
}

// Snapshot is the externally visible session state.
type Snapshot struct {
	Status enums.SessionStatus
	Token  string
	User   *api.Identity
}

// Authenticated reports whether the session may authorize mutating requests:
// a present token is trustworthy only once validated.
func (s Snapshot) Authenticated() bool {
	return s.Status == enums.SessionValid && s.Token != "" && s.User != nil
}

// Listener observes session transitions.
type Listener func(Snapshot)

// Manager owns the token and identity lifecycle. All mutation is serialized;
// an in-flight refresh that resolves after logout is discarded.
type Manager struct {
	mu    sync.Mutex
	api   authAPI
	store state.Store
	logg  *logger.Logger
	now   func() time.Time

	status enums.SessionStatus
	token  string
	user   *api.Identity

	// gen invalidates in-flight refresh completions; logout bumps it.
	gen          uint64
	refreshTimer *time.Timer
	autoRefresh  bool

	listeners []Listener
}

// Option configures optional manager behavior.
type Option func(*Manager)

// WithClock overrides the time source, for tests.
func WithClock(now func() time.Time) Option {
	return func(m *Manager) {
		if now != nil {
			m.now = now
		}
	}
}

// WithAutoRefresh toggles proactive refresh scheduling.
func WithAutoRefresh(enabled bool) Option {
	return func(m *Manager) {
		m.autoRefresh = enabled
	}
}

// NewManager builds a session manager in the Uninitialized state.
func NewManager(client authAPI, store state.Store, logg *logger.Logger, opts ...Option) (*Manager, error) {
	if client == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInvalidArgument, "api client is required")
	}
	if store == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInvalidArgument, "state store is required")
	}
	if logg == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInvalidArgument, "logger is required")
	}

	m := &Manager{
		api:         client,
		store:       store,
		logg:        logg,
		now:         time.Now,
		status:      enums.SessionUninitialized,
		autoRefresh: true,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(m)
		}
	}
	return m, nil
}

// Subscribe registers a listener for session transitions. Listeners are
// invoked synchronously, outside the manager lock.
func (m *Manager) Subscribe(fn Listener) {
	if fn == nil {
		return
	}
	m.mu.Lock()
	m.listeners = append(m.listeners, fn)
	m.mu.Unlock()
}

// Current returns the session snapshot.
func (m *Manager) Current() Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.snapshotLocked()
}

// Token implements the API client's token source.
func (m *Manager) Token() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.token
}

// Initialize restores the persisted session. A token whose locally-decoded
// expiry has passed is invalid without any network call; otherwise the server
// confirms validity, and any failure during that confirmation is fail-closed.
func (m *Manager) Initialize(ctx context.Context) error {
	persisted, err := m.store.Load(ctx)
	if err != nil {
		m.logg.Warn(m.logg.WithField(ctx, "error", err.Error()), "failed to restore persisted session")
		persisted = nil
	}

	m.mu.Lock()
	if persisted == nil || persisted.Token == "" {
		m.status = enums.SessionInvalid
		m.token = ""
		m.user = nil
		snap := m.snapshotLocked()
		m.mu.Unlock()
		m.notify(snap)
		return nil
	}
	m.status = enums.SessionValidating
	m.token = persisted.Token
	m.user = persisted.User
	m.mu.Unlock()

	if auth.IsExpired(persisted.Token, m.now()) {
		m.logg.Info(ctx, "persisted token expired, discarding session")
		m.invalidate(ctx)
		return nil
	}

	if err := m.api.ValidateToken(ctx); err != nil {
		// Fail closed: a session we cannot confirm is not a session.
		m.logg.Warn(m.logg.WithField(ctx, "error", err.Error()), "token validation failed, discarding session")
		m.invalidate(ctx)
		return nil
	}

	if persisted.User == nil {
		user, err := m.api.Profile(ctx)
		if err != nil {
			m.logg.Warn(m.logg.WithField(ctx, "error", err.Error()), "profile fetch failed, discarding session")
			m.invalidate(ctx)
			return nil
		}
		m.mu.Lock()
		m.user = user
		m.mu.Unlock()
		m.persist(ctx)
	}

	m.mu.Lock()
	m.status = enums.SessionValid
	m.scheduleRefreshLocked(persisted.Token)
	snap := m.snapshotLocked()
	m.mu.Unlock()
	m.notify(snap)
	return nil
}

// Login installs a fresh token and identity, persists them, and schedules a
// proactive refresh ahead of expiry.
func (m *Manager) Login(ctx context.Context, token string, identity api.Identity) error {
	if token == "" {
		return pkgerrors.New(pkgerrors.CodeInvalidCredential, "token is required")
	}

	m.mu.Lock()
	m.gen++
	m.token = token
	m.user = &identity
	m.status = enums.SessionValid
	m.scheduleRefreshLocked(token)
	snap := m.snapshotLocked()
	m.mu.Unlock()

	m.persist(ctx)
	m.notify(snap)
	m.logg.Info(m.logg.WithUserID(ctx, identity.Email), "session established")
	return nil
}

// Logout clears the session locally and best-effort notifies the server.
// Notification failures are logged and never surfaced; an in-flight refresh
// resolving afterwards is discarded.
func (m *Manager) Logout(ctx context.Context) {
	m.mu.Lock()
	hadToken := m.token != ""
	m.mu.Unlock()

	if hadToken {
		if err := m.api.Logout(ctx); err != nil {
			m.logg.Warn(m.logg.WithField(ctx, "error", err.Error()), "logout notification failed")
		}
	}

	m.clearSession(ctx)
}

// Refresh rotates the token. On any failure the session is torn down rather
// than left with a stale token.
func (m *Manager) Refresh(ctx context.Context) error {
	m.mu.Lock()
	if m.token == "" {
		m.mu.Unlock()
		return pkgerrors.New(pkgerrors.CodeNoSession, "no session to refresh")
	}
	myGen := m.gen
	m.mu.Unlock()

	newToken, err := m.api.RefreshToken(ctx)

	m.mu.Lock()
	if m.gen != myGen {
		// Logout won while the refresh was in flight.
		m.mu.Unlock()
		return nil
	}
	if err != nil || newToken == "" {
		m.mu.Unlock()
		m.logg.Warn(ctx, "token refresh failed, forcing logout")
		m.clearSession(ctx)
		if err == nil {
			err = pkgerrors.New(pkgerrors.CodeServer, "refresh returned no token")
		}
		return err
	}

	m.token = newToken
	m.scheduleRefreshLocked(newToken)
	snap := m.snapshotLocked()
	m.mu.Unlock()

	m.persist(ctx)
	m.notify(snap)
	return nil
}

// UpdateIdentity merges a partial identity update into the session and
// persists it.
func (m *Manager) UpdateIdentity(ctx context.Context, patch api.IdentityPatch) error {
	if patch.IsEmpty() {
		return pkgerrors.New(pkgerrors.CodeInvalidArgument, "identity patch is empty")
	}

	m.mu.Lock()
	if m.status != enums.SessionValid || m.user == nil {
		m.mu.Unlock()
		return pkgerrors.New(pkgerrors.CodeNoSession, "no session to update")
	}
	if patch.Name != nil {
		m.user.Name = *patch.Name
	}
	if patch.Email != nil {
		m.user.Email = *patch.Email
	}
	if patch.AddressID != nil {
		m.user.AddressID = patch.AddressID
	}
	snap := m.snapshotLocked()
	m.mu.Unlock()

	m.persist(ctx)
	m.notify(snap)
	return nil
}

// invalidate clears both memory and persisted state without server contact.
func (m *Manager) invalidate(ctx context.Context) {
	m.clearSession(ctx)
}

func (m *Manager) clearSession(ctx context.Context) {
	m.mu.Lock()
	m.gen++
	if m.refreshTimer != nil {
		m.refreshTimer.Stop()
		m.refreshTimer = nil
	}
	m.token = ""
	m.user = nil
	m.status = enums.SessionInvalid
	snap := m.snapshotLocked()
	m.mu.Unlock()

	if err := m.store.Clear(ctx); err != nil {
		m.logg.Warn(m.logg.WithField(ctx, "error", err.Error()), "failed to clear persisted session")
	}
	m.notify(snap)
}

// scheduleRefreshLocked arms the proactive refresh timer at expiry minus the
// lead window, clamped to zero. Caller holds the lock.
func (m *Manager) scheduleRefreshLocked(token string) {
	if m.refreshTimer != nil {
		m.refreshTimer.Stop()
		m.refreshTimer = nil
	}
	if !m.autoRefresh {
		return
	}

	expiry, err := auth.TokenExpiry(token)
	if err != nil || expiry.IsZero() {
		return
	}

	delay := auth.RefreshDelay(expiry, m.now())
	myGen := m.gen
	m.refreshTimer = time.AfterFunc(delay, func() {
		m.mu.Lock()
		stale := m.gen != myGen
		m.mu.Unlock()
		if stale {
			return
		}
		if err := m.Refresh(context.Background()); err != nil {
			m.logg.Warn(m.logg.WithField(context.Background(), "error", err.Error()), "scheduled refresh failed")
		}
	})
}

func (m *Manager) persist(ctx context.Context) {
	m.mu.Lock()
	sess := state.Session{Token: m.token, User: m.user}
	m.mu.Unlock()

	if err := m.store.Save(ctx, sess); err != nil {
		m.logg.Warn(m.logg.WithField(ctx, "error", err.Error()), "failed to persist session")
	}
}

func (m *Manager) snapshotLocked() Snapshot {
	var user *api.Identity
	if m.user != nil {
		copied := *m.user
		user = &copied
	}
	return Snapshot{Status: m.status, Token: m.token, User: user}
}

func (m *Manager) notify(snap Snapshot) {
	m.mu.Lock()
	listeners := make([]Listener, len(m.listeners))
	copy(listeners, m.listeners)
	m.mu.Unlock()

	for _, fn := range listeners {
		fn(snap)
	}
}
