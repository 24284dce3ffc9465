package session

import (
	"context"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/freshkart/storefront-go/pkg/api"
	"github.com/freshkart/storefront-go/pkg/enums"
	pkgerrors "github.com/freshkart/storefront-go/pkg/errors"
	"github.com/freshkart/storefront-go/pkg/logger"
	"github.com/freshkart/storefront-go/pkg/state"
	"github.com/golang-jwt/jwt/v5"
)

type fakeAuthAPI struct {
	mu sync.Mutex

	validateErr   error
	validateCalls int

	profile      *api.Identity
	profileErr   error
	profileCalls int

	refreshToken   string
	refreshErr     error
	refreshStarted chan struct{}
	refreshRelease chan struct{}

	logoutErr   error
	logoutCalls int
}

func (f *fakeAuthAPI) ValidateToken(ctx context.Context) error {
	f.mu.Lock()
	f.validateCalls++
	err := f.validateErr
	f.mu.Unlock()
	return err
}

func (f *fakeAuthAPI) Profile(ctx context.Context) (*api.Identity, error) {
	f.mu.Lock()
	f.profileCalls++
	profile, err := f.profile, f.profileErr
	f.mu.Unlock()
	return profile, err
}

func (f *fakeAuthAPI) RefreshToken(ctx context.Context) (string, error) {
	if f.refreshStarted != nil {
		f.refreshStarted <- struct{}{}
	}
	if f.refreshRelease != nil {
		<-f.refreshRelease
	}
	f.mu.Lock()
	token, err := f.refreshToken, f.refreshErr
	f.mu.Unlock()
	return token, err
}

func (f *fakeAuthAPI) Logout(ctx context.Context) error {
	f.mu.Lock()
	f.logoutCalls++
	err := f.logoutErr
	f.mu.Unlock()
	return err
}

type memStore struct {
	mu         sync.Mutex
	sess       *state.Session
	saveCalls  int
	clearCalls int
}

func (m *memStore) Save(ctx context.Context, sess state.Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.saveCalls++
	copied := sess
	m.sess = &copied
	return nil
}

func (m *memStore) Load(ctx context.Context) (*state.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.sess == nil {
		return nil, nil
	}
	copied := *m.sess
	return &copied, nil
}

func (m *memStore) Clear(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.clearCalls++
	m.sess = nil
	return nil
}

func (m *memStore) current() *state.Session {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.sess
}

func signedToken(t *testing.T, expiry time.Time) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		ExpiresAt: jwt.NewNumericDate(expiry),
	}).SignedString([]byte("test-key"))
	if err != nil {
		t.Fatalf("signing token: %v", err)
	}
	return token
}

func testLogger() *logger.Logger {
	return logger.New(logger.Options{ServiceName: "test", Output: io.Discard})
}

func newTestManager(t *testing.T, client *fakeAuthAPI, store *memStore) *Manager {
	t.Helper()
	mgr, err := NewManager(client, store, testLogger(), WithAutoRefresh(false))
	if err != nil {
		t.Fatalf("NewManager: %v", err)
	}
	return mgr
}

func TestInitializeWithoutPersistedSession(t *testing.T) {
	fake := &fakeAuthAPI{}
	mgr := newTestManager(t, fake, &memStore{})

	if err := mgr.Initialize(context.Background()); err != nil {
		t.Fatalf("Initialize: %v", err)
	}

	snap := mgr.Current()
	if snap.Status != enums.SessionInvalid {
		t.Fatalf("expected invalid session, got %v", snap.Status)
	}
	if fake.validateCalls != 0 {
		t.Fatalf("no network call expected without a persisted token")
	}
}

func TestInitializeExpiredTokenSkipsNetwork(t *testing.T) {
	fake := &fakeAuthAPI{}
	store := &memStore{sess: &state.Session{
		Token: signedToken(t, time.Now().Add(-time.Hour)),
		User:  &api.Identity{ID: 1},
	}}
	mgr := newTestManager(t, fake, store)

	if err := mgr.Initialize(context.Background()); err != nil {
		t.Fatalf("Initialize: %v", err)
	}

	if fake.validateCalls != 0 {
		t.Fatalf("expired token must be rejected without a network call, got %d calls", fake.validateCalls)
	}
	if mgr.Current().Authenticated() {
		t.Fatalf("expired token must not produce a valid session")
	}
	if store.current() != nil {
		t.Fatalf("expired session must be cleared from the store")
	}
}

func TestInitializeValidatesWithServer(t *testing.T) {
	fake := &fakeAuthAPI{}
	store := &memStore{sess: &state.Session{
		Token: signedToken(t, time.Now().Add(time.Hour)),
		User:  &api.Identity{ID: 1, Name: "Asha", Email: "asha@example.com"},
	}}
	mgr := newTestManager(t, fake, store)

	if err := mgr.Initialize(context.Background()); err != nil {
		t.Fatalf("Initialize: %v", err)
	}

	if fake.validateCalls != 1 {
		t.Fatalf("expected one validation call, got %d", fake.validateCalls)
	}
	snap := mgr.Current()
	if !snap.Authenticated() {
		t.Fatalf("expected a valid session, got %+v", snap)
	}
	if fake.profileCalls != 0 {
		t.Fatalf("profile already persisted, no fetch expected")
	}
}

func TestInitializeFailsClosed(t *testing.T) {
	fake := &fakeAuthAPI{validateErr: pkgerrors.New(pkgerrors.CodeNetwork, "server unreachable")}
	store := &memStore{sess: &state.Session{
		Token: signedToken(t, time.Now().Add(time.Hour)),
		User:  &api.Identity{ID: 1},
	}}
	mgr := newTestManager(t, fake, store)

	if err := mgr.Initialize(context.Background()); err != nil {
		t.Fatalf("Initialize: %v", err)
	}

	if mgr.Current().Authenticated() {
		t.Fatalf("unconfirmed session must be treated as invalid")
	}
	if store.current() != nil {
		t.Fatalf("unconfirmed session must be cleared from the store")
	}
}

func TestInitializeFetchesMissingProfile(t *testing.T) {
	fake := &fakeAuthAPI{profile: &api.Identity{ID: 4, Name: "Ravi", Email: "ravi@example.com"}}
	store := &memStore{sess: &state.Session{Token: signedToken(t, time.Now().Add(time.Hour))}}
	mgr := newTestManager(t, fake, store)

	if err := mgr.Initialize(context.Background()); err != nil {
		t.Fatalf("Initialize: %v", err)
	}

	snap := mgr.Current()
	if !snap.Authenticated() || snap.User.ID != 4 {
		t.Fatalf("expected fetched profile in session, got %+v", snap)
	}
	if fake.profileCalls != 1 {
		t.Fatalf("expected one profile fetch, got %d", fake.profileCalls)
	}
}

func TestLoginRequiresToken(t *testing.T) {
	mgr := newTestManager(t, &fakeAuthAPI{}, &memStore{})

	err := mgr.Login(context.Background(), "", api.Identity{ID: 1})
	if !pkgerrors.HasCode(err, pkgerrors.CodeInvalidCredential) {
		t.Fatalf("expected INVALID_CREDENTIAL, got %v", err)
	}
}

func TestLoginPersistsAndNotifies(t *testing.T) {
	store := &memStore{}
	mgr := newTestManager(t, &fakeAuthAPI{}, store)

	var notified []Snapshot
	var mu sync.Mutex
	mgr.Subscribe(func(snap Snapshot) {
		mu.Lock()
		notified = append(notified, snap)
		mu.Unlock()
	})

	token := signedToken(t, time.Now().Add(time.Hour))
	if err := mgr.Login(context.Background(), token, api.Identity{ID: 9, Name: "Asha", Email: "asha@example.com"}); err != nil {
		t.Fatalf("Login: %v", err)
	}

	if !mgr.Current().Authenticated() {
		t.Fatalf("expected authenticated session after login")
	}
	persisted := store.current()
	if persisted == nil || persisted.Token != token {
		t.Fatalf("session not persisted: %+v", persisted)
	}

	mu.Lock()
	defer mu.Unlock()
	if len(notified) == 0 || !notified[len(notified)-1].Authenticated() {
		t.Fatalf("listeners not told about the login: %+v", notified)
	}
}

func TestLogoutClearsEvenWhenServerFails(t *testing.T) {
	fake := &fakeAuthAPI{logoutErr: pkgerrors.New(pkgerrors.CodeNetwork, "unreachable")}
	store := &memStore{}
	mgr := newTestManager(t, fake, store)

	token := signedToken(t, time.Now().Add(time.Hour))
	if err := mgr.Login(context.Background(), token, api.Identity{ID: 1}); err != nil {
		t.Fatalf("Login: %v", err)
	}

	mgr.Logout(context.Background())

	if fake.logoutCalls != 1 {
		t.Fatalf("expected one best-effort server notification, got %d", fake.logoutCalls)
	}
	if mgr.Current().Authenticated() || mgr.Token() != "" {
		t.Fatalf("logout must always clear local state")
	}
	if store.current() != nil {
		t.Fatalf("logout must clear the persisted session")
	}
}

func TestRefreshSwapsToken(t *testing.T) {
	newToken := signedToken(t, time.Now().Add(2*time.Hour))
	fake := &fakeAuthAPI{refreshToken: newToken}
	store := &memStore{}
	mgr := newTestManager(t, fake, store)

	if err := mgr.Login(context.Background(), signedToken(t, time.Now().Add(time.Hour)), api.Identity{ID: 1}); err != nil {
		t.Fatalf("Login: %v", err)
	}
	if err := mgr.Refresh(context.Background()); err != nil {
		t.Fatalf("Refresh: %v", err)
	}

	if mgr.Token() != newToken {
		t.Fatalf("token not swapped after refresh")
	}
	if persisted := store.current(); persisted == nil || persisted.Token != newToken {
		t.Fatalf("refreshed token not persisted: %+v", persisted)
	}
}

func TestRefreshFailureEndsSession(t *testing.T) {
	fake := &fakeAuthAPI{refreshErr: pkgerrors.New(pkgerrors.CodeUnauthenticated, "refresh rejected")}
	store := &memStore{}
	mgr := newTestManager(t, fake, store)

	if err := mgr.Login(context.Background(), signedToken(t, time.Now().Add(time.Hour)), api.Identity{ID: 1}); err != nil {
		t.Fatalf("Login: %v", err)
	}

	if err := mgr.Refresh(context.Background()); err == nil {
		t.Fatalf("expected refresh failure to surface")
	}
	if mgr.Current().Authenticated() {
		t.Fatalf("failed refresh must end the session")
	}
	if store.current() != nil {
		t.Fatalf("failed refresh must clear the persisted session")
	}
}

func TestRefreshWithoutSession(t *testing.T) {
	mgr := newTestManager(t, &fakeAuthAPI{}, &memStore{})

	err := mgr.Refresh(context.Background())
	if !pkgerrors.HasCode(err, pkgerrors.CodeNoSession) {
		t.Fatalf("expected NO_SESSION, got %v", err)
	}
}

func TestLogoutWinsOverInflightRefresh(t *testing.T) {
	fake := &fakeAuthAPI{
		refreshToken:   signedToken(t, time.Now().Add(2*time.Hour)),
		refreshStarted: make(chan struct{}, 1),
		refreshRelease: make(chan struct{}),
	}
	store := &memStore{}
	mgr := newTestManager(t, fake, store)

	if err := mgr.Login(context.Background(), signedToken(t, time.Now().Add(time.Hour)), api.Identity{ID: 1}); err != nil {
		t.Fatalf("Login: %v", err)
	}

	done := make(chan error, 1)
	go func() { done <- mgr.Refresh(context.Background()) }()

	<-fake.refreshStarted
	mgr.Logout(context.Background())
	close(fake.refreshRelease)

	if err := <-done; err != nil {
		t.Fatalf("discarded refresh must not error: %v", err)
	}
	if mgr.Token() != "" {
		t.Fatalf("refresh that lost to logout must not resurrect the session")
	}
	if store.current() != nil {
		t.Fatalf("store must stay cleared after the stale refresh resolves")
	}
}

func TestUpdateIdentityMerges(t *testing.T) {
	store := &memStore{}
	mgr := newTestManager(t, &fakeAuthAPI{}, store)

	if err := mgr.Login(context.Background(), signedToken(t, time.Now().Add(time.Hour)), api.Identity{ID: 1, Name: "Asha", Email: "asha@example.com"}); err != nil {
		t.Fatalf("Login: %v", err)
	}

	name := "Asha K"
	if err := mgr.UpdateIdentity(context.Background(), api.IdentityPatch{Name: &name}); err != nil {
		t.Fatalf("UpdateIdentity: %v", err)
	}

	snap := mgr.Current()
	if snap.User.Name != "Asha K" || snap.User.Email != "asha@example.com" {
		t.Fatalf("patch must merge, not replace: %+v", snap.User)
	}
	if persisted := store.current(); persisted == nil || persisted.User.Name != "Asha K" {
		t.Fatalf("merged identity not persisted: %+v", persisted)
	}
}

func TestUpdateIdentityRejectsEmptyPatch(t *testing.T) {
	mgr := newTestManager(t, &fakeAuthAPI{}, &memStore{})

	err := mgr.UpdateIdentity(context.Background(), api.IdentityPatch{})
	if !pkgerrors.HasCode(err, pkgerrors.CodeInvalidArgument) {
		t.Fatalf("expected INVALID_ARGUMENT, got %v", err)
	}
}

func TestUpdateIdentityRequiresSession(t *testing.T) {
	mgr := newTestManager(t, &fakeAuthAPI{}, &memStore{})

	name := "Nobody"
	err := mgr.UpdateIdentity(context.Background(), api.IdentityPatch{Name: &name})
	if !pkgerrors.HasCode(err, pkgerrors.CodeNoSession) {
		t.Fatalf("expected NO_SESSION, got %v", err)
	}
}
