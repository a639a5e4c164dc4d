package session

import (
	"context"
	"sync"
	"time"

	"backend-getyourextreme/internal/kv"
	"backend-getyourextreme/internal/profile"

	"go.uber.org/zap"
)

const (
	DefaultProfileTimeout = 4 * time.Second
	DefaultSettleDelay    = 100 * time.Millisecond

	// backendKeyPrefix marks keys owned by the auth client.
	backendKeyPrefix = "sb-"
)

type Options struct {
	Storage        kv.Storage
	Cache          *profile.Cache
	Navigator      Navigator
	Logger         *zap.Logger
	ProfileTimeout time.Duration
	SettleDelay    time.Duration
}

type Subscriber struct {
	Updates chan State
}

// Manager owns the auth state of one client. All methods are safe for
// concurrent use.
type Manager struct {
	auth     Authenticator
	profiles ProfileFetcher
	cache    *profile.Cache
	storage  kv.Storage
	nav      Navigator
	log      *zap.Logger

	profileTimeout time.Duration
	settleDelay    time.Duration

	mu          sync.Mutex
	state       State
	signingOut  bool
	restoreDone bool
	generation  uint64

	listenOnce  sync.Once
	unsubscribe func()

	subsMu sync.RWMutex
	subs   map[*Subscriber]struct{}
}

func NewManager(auth Authenticator, profiles ProfileFetcher, opts Options) *Manager {
	if opts.Storage == nil {
		opts.Storage = kv.NewMemory()
	}
	if opts.Cache == nil {
		opts.Cache = profile.NewCache(opts.Storage)
	}
	if opts.Navigator == nil {
		opts.Navigator = NavigatorFunc(func(string) {})
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.ProfileTimeout <= 0 {
		opts.ProfileTimeout = DefaultProfileTimeout
	}
	if opts.SettleDelay < 0 {
		opts.SettleDelay = 0
	}
	return &Manager{
		auth:           auth,
		profiles:       profiles,
		cache:          opts.Cache,
		storage:        opts.Storage,
		nav:            opts.Navigator,
		log:            opts.Logger,
		profileTimeout: opts.ProfileTimeout,
		settleDelay:    opts.SettleDelay,
		state:          State{Loading: true, ModalMode: ModeSignIn},
		subs:           map[*Subscriber]struct{}{},
	}
}

func (m *Manager) Snapshot() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.snapshotLocked()
}

func (m *Manager) snapshotLocked() State {
	out := m.state
	if m.state.User != nil {
		u := *m.state.User
		out.User = &u
	}
	if m.state.Profile != nil {
		p := *m.state.Profile
		out.Profile = &p
	}
	return out
}

func (m *Manager) Subscribe() *Subscriber {
	sub := &Subscriber{Updates: make(chan State, 16)}
	m.subsMu.Lock()
	m.subs[sub] = struct{}{}
	m.subsMu.Unlock()
	return sub
}

func (m *Manager) Unsubscribe(sub *Subscriber) {
	m.subsMu.Lock()
	defer m.subsMu.Unlock()
	if _, ok := m.subs[sub]; ok {
		delete(m.subs, sub)
		close(sub.Updates)
	}
}

// publish never blocks; a full subscriber loses its oldest update.
func (m *Manager) publish(st State) {
	m.subsMu.RLock()
	defer m.subsMu.RUnlock()
	for sub := range m.subs {
		select {
		case sub.Updates <- st:
		default:
			select {
			case <-sub.Updates:
			default:
			}
			select {
			case sub.Updates <- st:
			default:
			}
		}
	}
}

func (m *Manager) update(fn func(*State)) {
	m.mu.Lock()
	fn(&m.state)
	snap := m.snapshotLocked()
	m.mu.Unlock()
	m.publish(snap)
}

// Start restores a previously issued session and subscribes to auth state
// changes. It returns once loading is cleared: right after the fresh profile
// arrives, or after ProfileTimeout with only the cached profile applied.
// The fetch itself keeps running and is merged in when it completes.
func (m *Manager) Start(ctx context.Context) {
	if m.auth == nil || !m.auth.Configured() {
		m.update(func(s *State) {
			s.User, s.Profile, s.Loading = nil, nil, false
		})
		return
	}

	m.listenOnce.Do(func() {
		unsubscribe := m.auth.OnAuthStateChange(m.handleAuthEvent)
		m.mu.Lock()
		m.unsubscribe = unsubscribe
		m.mu.Unlock()
	})

	m.update(func(s *State) { s.Loading = true })

	sess, err := m.auth.GetSession(ctx)
	if err == nil && sess == nil {
		if refreshed, rerr := m.auth.RefreshSession(ctx); rerr == nil {
			sess = refreshed
		}
	}
	if err != nil || sess == nil {
		if err != nil {
			m.log.Warn("session restore failed", zap.Error(err))
		}
		m.finishRestore(func(s *State) { s.User, s.Profile = nil, nil })
		return
	}

	user := sess.User
	m.setUser(user)

	done := make(chan struct{})
	bg := context.WithoutCancel(ctx)
	go func() {
		defer close(done)
		m.loadProfile(bg, user)
	}()

	timer := time.NewTimer(m.profileTimeout)
	defer timer.Stop()
	select {
	case <-done:
	case <-timer.C:
		m.log.Info("profile fetch still pending, continuing with cached profile", zap.String("user_id", user.ID))
	case <-ctx.Done():
	}
	m.finishRestore(nil)
}

func (m *Manager) finishRestore(fn func(*State)) {
	m.update(func(s *State) {
		if fn != nil {
			fn(s)
		}
		s.Loading = false
	})
	m.mu.Lock()
	m.restoreDone = true
	m.mu.Unlock()
}

// setUser switches the tracked user, dropping the profile when the identity
// changes.
func (m *Manager) setUser(user User) {
	m.update(func(s *State) {
		if s.User == nil || s.User.ID != user.ID {
			s.Profile = nil
		}
		u := user
		s.User = &u
	})
}

// loadProfile applies the cached profile, fetches a fresh one and stores the
// merge of both. Results of a load superseded by a newer one, or by a change
// of user, are discarded.
func (m *Manager) loadProfile(ctx context.Context, user User) *profile.UserProfile {
	m.mu.Lock()
	m.generation++
	gen := m.generation
	m.mu.Unlock()

	cached, err := m.cache.Read(ctx, user.ID)
	if err != nil {
		m.log.Warn("profile cache read failed", zap.Error(err))
	}
	if cached != nil {
		m.commitProfile(gen, user.ID, *cached)
	}

	if m.profiles == nil {
		return cached
	}
	fresh, err := m.profiles.FetchProfile(ctx, user)
	if err != nil {
		m.log.Warn("profile read failed", zap.String("user_id", user.ID), zap.Error(err))
		return cached
	}

	merged := profile.Merge(cached, fresh)
	if !m.commitProfile(gen, user.ID, merged) {
		if cached != nil {
			return cached
		}
		return &fresh
	}
	if err := m.cache.Write(ctx, user.ID, merged); err != nil {
		m.log.Warn("profile cache write failed", zap.Error(err))
	}
	return &merged
}

func (m *Manager) commitProfile(gen uint64, userID string, p profile.UserProfile) bool {
	m.mu.Lock()
	if gen != m.generation || m.state.User == nil || m.state.User.ID != userID {
		m.mu.Unlock()
		return false
	}
	m.state.Profile = &p
	snap := m.snapshotLocked()
	m.mu.Unlock()
	m.publish(snap)
	return true
}

// handleAuthEvent reacts to auth notifications: a refreshed or new session
// only updates the user, an explicit sign-out clears everything. No profile
// work happens here.
func (m *Manager) handleAuthEvent(event Event, sess *Session) {
	m.mu.Lock()
	if m.signingOut || (event == EventInitialSession && m.restoreDone) {
		m.mu.Unlock()
		return
	}

	switch {
	case event == EventSignedOut:
		m.generation++
		m.state.User, m.state.Profile = nil, nil
	case sess != nil:
		if m.state.User == nil || m.state.User.ID != sess.User.ID {
			m.state.Profile = nil
		}
		u := sess.User
		m.state.User = &u
	default:
		m.mu.Unlock()
		return
	}
	snap := m.snapshotLocked()
	m.mu.Unlock()
	m.publish(snap)
}

// SignIn waits for the fresh profile before closing the modal so role
// dependent views never see stale data.
func (m *Manager) SignIn(ctx context.Context, email, password string) error {
	if m.auth == nil {
		return ErrNotConfigured
	}
	sess, err := m.auth.SignIn(ctx, email, password)
	if err != nil {
		return err
	}
	if sess == nil {
		return ErrNoSession
	}
	m.setUser(sess.User)
	m.loadProfile(ctx, sess.User)
	m.update(func(s *State) { s.ModalOpen = false })
	return nil
}

// SignUp creates the account and asks the user to sign in. Profile rows are
// created on first sign-in.
func (m *Manager) SignUp(ctx context.Context, input SignUpInput) error {
	if m.auth == nil {
		return ErrNotConfigured
	}
	if err := m.auth.SignUp(ctx, input); err != nil {
		return err
	}
	m.update(func(s *State) {
		s.ModalMode = ModeSignIn
		s.ModalOpen = true
	})
	return nil
}

// SignOut never fails: remote errors are logged and local state is wiped
// regardless.
func (m *Manager) SignOut(ctx context.Context) {
	m.mu.Lock()
	var activeID string
	if m.state.User != nil {
		activeID = m.state.User.ID
	}
	m.signingOut = true
	m.generation++
	m.state.User, m.state.Profile, m.state.ModalOpen = nil, nil, false
	snap := m.snapshotLocked()
	m.mu.Unlock()
	m.publish(snap)

	if m.auth != nil {
		if err := m.auth.SignOut(ctx); err != nil {
			m.log.Warn("sign out failed", zap.Error(err))
		}
	}
	if err := kv.RemovePrefix(ctx, m.storage, backendKeyPrefix); err != nil {
		m.log.Warn("clearing auth storage failed", zap.Error(err))
	}
	if err := m.cache.Clear(ctx, activeID); err != nil {
		m.log.Warn("clearing profile cache failed", zap.Error(err))
	}

	if m.settleDelay > 0 {
		timer := time.NewTimer(m.settleDelay)
		select {
		case <-timer.C:
		case <-ctx.Done():
			timer.Stop()
		}
	}

	m.mu.Lock()
	m.signingOut = false
	m.mu.Unlock()

	m.nav.Navigate("/")
}

// Revalidate re-reads the session when the client regains focus and
// refreshes the profile of a present user.
func (m *Manager) Revalidate(ctx context.Context) {
	if m.auth == nil || !m.auth.Configured() {
		return
	}
	m.mu.Lock()
	signingOut := m.signingOut
	m.mu.Unlock()
	if signingOut {
		return
	}

	sess, err := m.auth.GetSession(ctx)
	if err != nil || sess == nil {
		return
	}
	m.setUser(sess.User)
	m.loadProfile(ctx, sess.User)
}

func (m *Manager) OpenModal(mode ModalMode) {
	if mode != ModeSignUp {
		mode = ModeSignIn
	}
	m.update(func(s *State) {
		s.ModalMode = mode
		s.ModalOpen = true
	})
}

func (m *Manager) CloseModal() {
	m.update(func(s *State) { s.ModalOpen = false })
}

// Close detaches from the authenticator and closes every subscriber.
func (m *Manager) Close() {
	m.mu.Lock()
	unsubscribe := m.unsubscribe
	m.unsubscribe = nil
	m.mu.Unlock()
	if unsubscribe != nil {
		unsubscribe()
	}

	m.subsMu.Lock()
	defer m.subsMu.Unlock()
	for sub := range m.subs {
		delete(m.subs, sub)
		close(sub.Updates)
	}
}
