package session

import (
	"context"
	"errors"
	"sync"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/singleflight"

	"campus-dashboard/internal/api"
	"campus-dashboard/internal/domain"
	"campus-dashboard/internal/repository"
)

// Storage keys for the persisted credential pair. Written and removed
// together so storage never holds a token without its expiry.
const (
	tokenKey       = "sessionToken"
	tokenExpiryKey = "sessionTokenExpiresAt"
)

// AccountClient is the slice of the backend API the session store needs.
type AccountClient interface {
	Login(ctx context.Context, req api.LoginRequest) (*domain.SessionPayload, error)
	Register(ctx context.Context, req api.RegisterRequest) (*domain.SessionPayload, error)
	Profile(ctx context.Context) (*api.ProfileResponse, error)
	Logout(ctx context.Context) error
}

// Store is the single source of truth for "who is logged in". It keeps the
// current user, session token, and expiry in memory and mirrors the
// credential pair into durable storage so a restart does not lose the
// session.
type Store struct {
	accounts AccountClient
	kv       repository.KeyValue
	logger   *logrus.Logger

	mu          sync.RWMutex
	user        *domain.User
	token       string
	expiresAt   string
	initialized bool

	bootstrap singleflight.Group
}

// Snapshot is an immutable view of the session handed to readers such as
// the navigation guard.
type Snapshot struct {
	User        *domain.User
	Token       string
	ExpiresAt   string
	Initialized bool
}

// IsAuthenticated holds iff both user and token are present.
func (s Snapshot) IsAuthenticated() bool {
	return s.User != nil && s.Token != ""
}

// Role returns the current user's role, or "" when unauthenticated.
func (s Snapshot) Role() domain.Role {
	if s.User == nil {
		return ""
	}
	return s.User.Role
}

func New(accounts AccountClient, kv repository.KeyValue, logger *logrus.Logger) *Store {
	if logger == nil {
		logger = logrus.New()
		logger.SetLevel(logrus.WarnLevel)
	}
	return &Store{
		accounts: accounts,
		kv:       kv,
		logger:   logger,
	}
}

// Restore rehydrates the persisted credential pair into memory. It is called
// once at startup, before the first navigation triggers Bootstrap.
func (s *Store) Restore(ctx context.Context) error {
	token, err := s.kv.Get(ctx, tokenKey)
	if err != nil {
		if errors.Is(err, repository.ErrKeyNotFound) {
			return nil
		}
		return err
	}
	expiresAt, err := s.kv.Get(ctx, tokenExpiryKey)
	if err != nil && !errors.Is(err, repository.ErrKeyNotFound) {
		return err
	}

	s.mu.Lock()
	s.token = token
	s.expiresAt = expiresAt
	s.mu.Unlock()
	return nil
}

// Snapshot returns a copy of the current session state.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := Snapshot{
		Token:       s.token,
		ExpiresAt:   s.expiresAt,
		Initialized: s.initialized,
	}
	if s.user != nil {
		user := *s.user
		snap.User = &user
	}
	return snap
}

// Token returns the current session token. It is the TokenProvider for the
// API client.
func (s *Store) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

// SetSession replaces the in-memory session with the given payload and
// persists the credential pair. Both storage entries are written (or
// removed, when the value is empty) in the same call.
func (s *Store) SetSession(ctx context.Context, payload *domain.SessionPayload) {
	s.mu.Lock()
	s.user = payload.User
	s.token = payload.Token
	s.expiresAt = payload.ExpiresAt
	s.mu.Unlock()

	s.persist(ctx, tokenKey, payload.Token)
	s.persist(ctx, tokenExpiryKey, payload.ExpiresAt)
}

// ClearSession logs the session out locally: fields are nulled and both
// storage entries removed. Clearing an already cleared session is a no-op.
func (s *Store) ClearSession(ctx context.Context) {
	s.mu.Lock()
	s.user = nil
	s.token = ""
	s.expiresAt = ""
	s.mu.Unlock()

	s.persist(ctx, tokenKey, "")
	s.persist(ctx, tokenExpiryKey, "")
}

// Login performs one login call and adopts the returned session. A failed
// call propagates without touching session state.
func (s *Store) Login(ctx context.Context, req api.LoginRequest) (*domain.SessionPayload, error) {
	payload, err := s.accounts.Login(ctx, req)
	if err != nil {
		return nil, err
	}
	s.SetSession(ctx, payload)
	return payload, nil
}

// Register performs one registration call and adopts the returned session.
func (s *Store) Register(ctx context.Context, req api.RegisterRequest) (*domain.SessionPayload, error) {
	payload, err := s.accounts.Register(ctx, req)
	if err != nil {
		return nil, err
	}
	s.SetSession(ctx, payload)
	return payload, nil
}

// FetchProfile refreshes the current user from the backend and marks the
// store initialized. The token is left untouched.
func (s *Store) FetchProfile(ctx context.Context) (*api.ProfileResponse, error) {
	resp, err := s.accounts.Profile(ctx)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.user = resp.User
	s.initialized = true
	s.mu.Unlock()
	return resp, nil
}

// Bootstrap verifies any persisted token against the backend, once per
// process lifetime. Concurrent callers share a single in-flight run. A
// failed verification clears the session but still marks the store
// initialized, so navigation never retries indefinitely.
func (s *Store) Bootstrap(ctx context.Context) error {
	if s.Initialized() {
		return nil
	}

	_, err, _ := s.bootstrap.Do("bootstrap", func() (any, error) {
		if s.Initialized() {
			return nil, nil
		}
		if s.Token() == "" {
			s.markInitialized()
			return nil, nil
		}
		if _, err := s.FetchProfile(ctx); err != nil {
			s.logger.WithError(err).Debug("session bootstrap: token verification failed, clearing session")
			s.ClearSession(ctx)
			s.markInitialized()
		}
		return nil, nil
	})
	return err
}

// Initialized reports whether Bootstrap has completed. It is monotonic.
func (s *Store) Initialized() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.initialized
}

// Logout attempts the logout call and clears the local session regardless
// of the outcome. A client can always end its session even when the
// backend is unreachable.
func (s *Store) Logout(ctx context.Context) {
	if err := s.accounts.Logout(ctx); err != nil {
		s.logger.WithError(err).Warn("logout request failed, clearing local session anyway")
	}
	s.ClearSession(ctx)
}

func (s *Store) markInitialized() {
	s.mu.Lock()
	s.initialized = true
	s.mu.Unlock()
}

func (s *Store) persist(ctx context.Context, key, value string) {
	var err error
	if value == "" {
		err = s.kv.Delete(ctx, key)
	} else {
		err = s.kv.Set(ctx, key, value)
	}
	if err != nil {
		s.logger.WithError(err).WithField("key", key).Warn("persist session state")
	}
}
