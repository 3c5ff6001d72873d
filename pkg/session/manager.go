package session

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"
)

const (
	defaultLifetime      = 24 * time.Hour
	defaultRefreshLead   = 5 * time.Minute
	defaultCheckInterval = time.Minute
)

// Manager owns the client-held session: it persists it, proactively
// refreshes it ahead of expiry, and exposes a reactive status to the
// rest of the UI. All state transitions go through its operations.
type Manager struct {
	client *Client
	store  Store

	lifetime      time.Duration
	refreshLead   time.Duration
	checkInterval time.Duration
	now           func() time.Time
	onChange      func(Status)

	mu      sync.Mutex
	status  Status
	session *Session

	// single-flight guard: concurrent refresh triggers share one
	// network call and one persisted result, so a rotated refresh
	// token is never raced by a stale second caller.
	refreshMu sync.Mutex
	inflight  *refreshCall
}

type refreshCall struct {
	done chan struct{}
	err  error
}

// Option customizes the manager.
type Option func(*Manager)

// WithLifetime overrides the fixed client session lifetime.
func WithLifetime(d time.Duration) Option {
	return func(m *Manager) { m.lifetime = d }
}

// WithRefreshLead overrides the proactive-refresh lead time.
func WithRefreshLead(d time.Duration) Option {
	return func(m *Manager) { m.refreshLead = d }
}

// WithCheckInterval overrides the periodic validity-check interval.
func WithCheckInterval(d time.Duration) Option {
	return func(m *Manager) { m.checkInterval = d }
}

// WithClock injects a time source.
func WithClock(now func() time.Time) Option {
	return func(m *Manager) { m.now = now }
}

// WithOnChange registers a status-change callback. It is invoked outside
// the manager's lock.
func WithOnChange(fn func(Status)) Option {
	return func(m *Manager) { m.onChange = fn }
}

// NewManager creates a manager in the loading state. Call Initialize to
// resolve the persisted session.
func NewManager(client *Client, store Store, opts ...Option) *Manager {
	m := &Manager{
		client:        client,
		store:         store,
		lifetime:      defaultLifetime,
		refreshLead:   defaultRefreshLead,
		checkInterval: defaultCheckInterval,
		now:           time.Now,
		status:        StatusLoading,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Initialize reads the persisted session. An absent or expired session
// is purged and leaves the manager unauthenticated.
func (m *Manager) Initialize() error {
	sess, err := m.load()
	if err != nil {
		return err
	}

	m.mu.Lock()
	if sess == nil || sess.Expired(m.now()) {
		m.session = nil
		m.purgeLocked()
		m.mu.Unlock()
		m.setStatus(StatusUnauthenticated)
		return nil
	}
	m.session = sess
	m.mu.Unlock()
	m.setStatus(StatusAuthenticated)
	return nil
}

// SignIn authenticates and persists a new session. The session expiry is
// a fixed lifetime from now, independent of the access token's own
// expiry. On failure the manager is left unauthenticated and the error
// is returned for display.
func (m *Manager) SignIn(ctx context.Context, identifier, secret, role string) error {
	m.setStatus(StatusLoading)

	result, err := m.client.Login(ctx, identifier, secret, role)
	if err != nil {
		m.mu.Lock()
		m.session = nil
		m.mu.Unlock()
		m.setStatus(StatusUnauthenticated)
		return err
	}

	sess := &Session{
		User:         result.User,
		AccessToken:  result.Token,
		RefreshToken: result.RefreshToken,
		Expires:      m.now().Add(m.lifetime),
	}

	m.mu.Lock()
	m.session = sess
	err = m.persistLocked()
	m.mu.Unlock()
	if err != nil {
		// a session we could not persist is not a session; status and
		// store must agree
		m.forceSignOut()
		return err
	}
	m.setStatus(StatusAuthenticated)
	return nil
}

// SignOut notifies the server best-effort, then unconditionally purges
// the persisted session.
func (m *Manager) SignOut(ctx context.Context) {
	m.mu.Lock()
	token := ""
	if m.session != nil {
		token = m.session.AccessToken
	}
	m.mu.Unlock()

	if token != "" {
		_ = m.client.Logout(ctx, token)
	}
	m.forceSignOut()
}

// Status returns the current authentication status.
func (m *Manager) Status() Status {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.status
}

// Current returns a copy of the active session, or nil.
func (m *Manager) Current() *Session {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.session == nil {
		return nil
	}
	copied := *m.session
	return &copied
}

// AccessToken returns the current access token, or empty.
func (m *Manager) AccessToken() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.session == nil {
		return ""
	}
	return m.session.AccessToken
}

// EnsureFresh is the per-access tick: an expired session forces sign-out,
// and a session inside the refresh lead triggers a proactive refresh.
func (m *Manager) EnsureFresh(ctx context.Context) error {
	m.mu.Lock()
	if m.session == nil {
		m.mu.Unlock()
		return nil
	}
	remaining := m.session.Expires.Sub(m.now())
	m.mu.Unlock()

	if remaining <= 0 {
		m.forceSignOut()
		return nil
	}
	if remaining < m.refreshLead {
		return m.refresh(ctx)
	}
	return nil
}

// Run drives the periodic validity check until ctx is done. Each tick
// re-reads the persisted session, drops to unauthenticated when it has
// expired, and otherwise performs the proactive-refresh check.
func (m *Manager) Run(ctx context.Context) {
	ticker := time.NewTicker(m.checkInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			sess, err := m.load()
			if err != nil {
				continue
			}
			if sess == nil || sess.Expired(m.now()) {
				if m.Status() == StatusAuthenticated {
					m.forceSignOut()
				}
				continue
			}
			_ = m.EnsureFresh(ctx)
		}
	}
}

// refresh collapses concurrent triggers into one upstream call. A failed
// refresh deterministically forces sign-out; the session is never left
// ambiguous.
func (m *Manager) refresh(ctx context.Context) error {
	m.refreshMu.Lock()
	if m.inflight != nil {
		call := m.inflight
		m.refreshMu.Unlock()
		<-call.done
		return call.err
	}
	call := &refreshCall{done: make(chan struct{})}
	m.inflight = call
	m.refreshMu.Unlock()

	call.err = m.doRefresh(ctx)
	close(call.done)

	m.refreshMu.Lock()
	m.inflight = nil
	m.refreshMu.Unlock()

	return call.err
}

func (m *Manager) doRefresh(ctx context.Context) error {
	m.mu.Lock()
	if m.session == nil {
		m.mu.Unlock()
		return nil
	}
	refreshToken := m.session.RefreshToken
	m.mu.Unlock()

	token, newRefresh, err := m.client.Refresh(ctx, refreshToken)
	if err != nil {
		var apiErr *APIError
		if !errors.As(err, &apiErr) {
			// one retry on transport failure only; an API rejection
			// is terminal
			token, newRefresh, err = m.client.Refresh(ctx, refreshToken)
		}
	}
	if err != nil {
		m.forceSignOut()
		return err
	}

	m.mu.Lock()
	if m.session != nil {
		m.session.AccessToken = token
		m.session.RefreshToken = newRefresh
		m.session.Expires = m.now().Add(m.lifetime)
		err = m.persistLocked()
	}
	m.mu.Unlock()
	if err != nil {
		m.forceSignOut()
	}
	return err
}

func (m *Manager) forceSignOut() {
	m.mu.Lock()
	m.session = nil
	m.purgeLocked()
	m.mu.Unlock()
	m.setStatus(StatusUnauthenticated)
}

func (m *Manager) load() (*Session, error) {
	data, ok, err := m.store.Get(SessionKey)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, nil
	}
	var sess Session
	if err := json.Unmarshal(data, &sess); err != nil {
		// corrupt persisted state is treated as absent
		return nil, nil
	}
	return &sess, nil
}

func (m *Manager) persistLocked() error {
	data, err := json.Marshal(m.session)
	if err != nil {
		return err
	}
	if err := m.store.Set(SessionKey, data); err != nil {
		return err
	}
	rawToken, err := json.Marshal(m.session.AccessToken)
	if err != nil {
		return err
	}
	return m.store.Set(TokenKey, rawToken)
}

func (m *Manager) purgeLocked() {
	_ = m.store.Delete(SessionKey)
	_ = m.store.Delete(TokenKey)
}

func (m *Manager) setStatus(status Status) {
	m.mu.Lock()
	changed := m.status != status
	m.status = status
	fn := m.onChange
	m.mu.Unlock()

	if changed && fn != nil {
		fn(status)
	}
}
