// Package session manages the authenticated identity and its credential
// token, mirrored to durable storage under the "token" and "user" keys.
//
// Token and identity are always set and cleared together. A persisted pair
// that is partial, carries the "undefined" token, or fails to parse is
// purged at startup and the store comes up Unauthenticated.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/example/foodyham/internal/apperror"
	"github.com/example/foodyham/internal/domain/user"
	"github.com/example/foodyham/internal/event"
	"github.com/example/foodyham/internal/infrastructure/storage"
	"github.com/example/foodyham/internal/metrics"
)

var (
	ErrNotAuthenticated = apperror.Authentication("Please login to continue")
	ErrTokenMissing     = apperror.Communication("Token missing from backend", nil)
	ErrPasswordMismatch = apperror.Validation("New passwords do not match")
	ErrSessionEnded     = apperror.Authentication("Session ended before the update completed")
)

// Collaborator is the subset of the Catalog/Auth API the session needs
type Collaborator interface {
	Login(ctx context.Context, email, password string) (user.Credentials, error)
	Register(ctx context.Context, name, email, password string) (user.Credentials, error)
	UpdateProfile(ctx context.Context, patch user.ProfilePatch) (user.Identity, error)
	ChangePassword(ctx context.Context, current, next string) error
}

// Store holds the session state. Collaborator calls are made without the
// lock held; concurrent callers resolve last-write-wins.
type Store struct {
	mu       sync.Mutex
	kv       storage.KV
	api      Collaborator
	state    State
	identity user.Identity
	token    string

	purgeCart bool
	validate  *validator.Validate
	publisher event.Publisher
	logger    *log.Logger
	metrics   *metrics.Metrics
}

// Option configures a Store
type Option func(*Store)

// WithCartPurgeOnLogout also removes the persisted cart on logout
func WithCartPurgeOnLogout(purge bool) Option {
	return func(s *Store) { s.purgeCart = purge }
}

func WithPublisher(p event.Publisher) Option {
	return func(s *Store) { s.publisher = p }
}

func WithLogger(l *log.Logger) Option {
	return func(s *Store) { s.logger = l }
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Store) { s.metrics = m }
}

func NewStore(kv storage.KV, api Collaborator, opts ...Option) *Store {
	s := &Store{
		kv:       kv,
		api:      api,
		state:    Loading,
		validate: newValidator(),
		logger:   log.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Initialize probes storage for a persisted session. It runs once; later
// calls are no-ops.
func (s *Store) Initialize(ctx context.Context) State {
	s.mu.Lock()
	if s.state != Loading {
		state := s.state
		s.mu.Unlock()
		return state
	}

	token, hasToken, tokenErr := s.kv.Get(ctx, storage.KeyToken)
	raw, hasUser, userErr := s.kv.Get(ctx, storage.KeyUser)
	if err := errors.Join(tokenErr, userErr); err != nil {
		s.metrics.StorageError("session_read")
		s.logger.Printf("[Session] Failed to read persisted session, starting logged out: %v", err)
		s.setStateLocked(Unauthenticated)
		s.mu.Unlock()
		return Unauthenticated
	}

	var identity user.Identity
	reason := ""
	switch {
	case !hasToken && !hasUser:
	case !hasToken || token == "":
		reason = "token missing"
	case token == user.UndefinedToken:
		reason = "token is undefined"
	case !hasUser || raw == "":
		reason = "user missing"
	default:
		if err := json.Unmarshal([]byte(raw), &identity); err != nil {
			reason = fmt.Sprintf("user record corrupt: %v", err)
		} else if identity.ID.IsZero() {
			reason = "user record has no id"
		}
	}

	if reason != "" || !hasToken {
		if reason != "" {
			s.logger.Printf("[Session] Discarding persisted session: %s", reason)
			s.deleteLocked(ctx, storage.KeyToken, storage.KeyUser)
		}
		s.setStateLocked(Unauthenticated)
		s.mu.Unlock()
		if reason != "" {
			s.publish(ctx, "", user.EventSessionRecovered, user.SessionRecovered{
				Reason:      reason,
				RecoveredAt: time.Now(),
			})
		}
		return Unauthenticated
	}

	s.identity = identity.WithDerived()
	s.token = token
	s.setStateLocked(Authenticated)
	s.mu.Unlock()
	return Authenticated
}

// Login authenticates against the collaborator and persists the returned
// identity and token. On failure the state is left unchanged.
func (s *Store) Login(ctx context.Context, email, password string) (user.Identity, error) {
	email = strings.TrimSpace(email)
	if err := check(s.validate, loginInput{Email: email, Password: password}); err != nil {
		return user.Identity{}, err
	}

	creds, err := s.api.Login(ctx, email, password)
	if err != nil {
		s.logger.Printf("[Session] Login failed for %s: %v", email, err)
		return user.Identity{}, normalize(err)
	}
	if !creds.HasToken() {
		s.logger.Printf("[Session] Login response for %s carried no token", email)
		return user.Identity{}, ErrTokenMissing
	}

	identity := s.establish(ctx, creds)
	s.logger.Printf("[Session] Logged in: %s", identity.Email)
	s.publish(ctx, identity.ID.String(), user.EventUserLoggedIn, user.UserLoggedIn{
		UserID:   identity.ID.String(),
		Email:    identity.Email,
		LoggedAt: time.Now(),
	})
	return identity, nil
}

// Register creates an account and signs in with it
func (s *Store) Register(ctx context.Context, name, email, password string) (user.Identity, error) {
	name = strings.TrimSpace(name)
	email = strings.TrimSpace(email)
	if err := check(s.validate, registerInput{Name: name, Email: email, Password: password}); err != nil {
		return user.Identity{}, err
	}

	creds, err := s.api.Register(ctx, name, email, password)
	if err != nil {
		s.logger.Printf("[Session] Registration failed for %s: %v", email, err)
		return user.Identity{}, normalize(err)
	}
	if !creds.HasToken() {
		s.logger.Printf("[Session] Registration response for %s carried no token", email)
		return user.Identity{}, ErrTokenMissing
	}

	identity := s.establish(ctx, creds)
	s.logger.Printf("[Session] Registered: %s", identity.Email)
	s.publish(ctx, identity.ID.String(), user.EventUserRegistered, user.UserRegistered{
		UserID:       identity.ID.String(),
		Email:        identity.Email,
		Name:         identity.Name,
		Role:         string(identity.Role),
		RegisteredAt: time.Now(),
	})
	return identity, nil
}

// Logout purges the persisted credentials and returns to Unauthenticated
func (s *Store) Logout(ctx context.Context) {
	s.end(ctx, "logout")
}

// Expire is Logout for a credential the collaborator rejected
func (s *Store) Expire(ctx context.Context) {
	s.end(ctx, "session_expired")
}

func (s *Store) end(ctx context.Context, reason string) {
	keys := []string{storage.KeyToken, storage.KeyUser}
	if s.purgeCart {
		keys = append(keys, storage.KeyCart)
	}

	s.mu.Lock()
	previous := s.identity
	wasAuthenticated := s.state == Authenticated
	s.deleteLocked(ctx, keys...)
	s.identity = user.Identity{}
	s.token = ""
	s.setStateLocked(Unauthenticated)
	s.mu.Unlock()

	if !wasAuthenticated {
		return
	}
	s.logger.Printf("[Session] Logged out %s (%s)", previous.Email, reason)
	s.publish(ctx, previous.ID.String(), user.EventUserLoggedOut, user.UserLoggedOut{
		UserID:   previous.ID.String(),
		Reason:   reason,
		LoggedAt: time.Now(),
	})
}

// UpdateProfile submits patch and merges the returned identity. On failure
// the stored identity is unchanged.
func (s *Store) UpdateProfile(ctx context.Context, patch user.ProfilePatch) (user.Identity, error) {
	if !s.IsAuthenticated() {
		return user.Identity{}, ErrNotAuthenticated
	}
	patch.Email = strings.TrimSpace(patch.Email)
	if err := check(s.validate, patch); err != nil {
		return user.Identity{}, err
	}

	returned, err := s.api.UpdateProfile(ctx, patch)
	if err != nil {
		s.logger.Printf("[Session] Profile update failed: %v", err)
		return user.Identity{}, normalize(err)
	}

	s.mu.Lock()
	if s.state != Authenticated {
		s.mu.Unlock()
		return user.Identity{}, ErrSessionEnded
	}
	s.identity = merge(patch.Merge(s.identity), returned)
	identity := s.identity
	s.persistUserLocked(ctx)
	s.mu.Unlock()

	s.publish(ctx, identity.ID.String(), user.EventUserProfileUpdated, user.UserProfileUpdated{
		UserID:    identity.ID.String(),
		Name:      identity.Name,
		Email:     identity.Email,
		UpdatedAt: time.Now(),
	})
	return identity, nil
}

// ChangePassword submits a password change. Token and identity are left
// untouched on success.
func (s *Store) ChangePassword(ctx context.Context, current, next string) error {
	if err := check(s.validate, passwordInput{Current: current, New: next}); err != nil {
		return err
	}
	if !s.IsAuthenticated() {
		return ErrNotAuthenticated
	}

	if err := s.api.ChangePassword(ctx, current, next); err != nil {
		s.logger.Printf("[Session] Password change failed: %v", err)
		return normalize(err)
	}

	identity, _ := s.Identity()
	s.publish(ctx, identity.ID.String(), user.EventUserPasswordChanged, user.UserPasswordChanged{
		UserID:    identity.ID.String(),
		ChangedAt: time.Now(),
	})
	return nil
}

// ChangePasswordConfirm is ChangePassword with the confirmation field of a
// password form checked first
func (s *Store) ChangePasswordConfirm(ctx context.Context, current, next, confirm string) error {
	if next != confirm {
		return ErrPasswordMismatch
	}
	return s.ChangePassword(ctx, current, next)
}

// Token returns the bearer token, or "" when not authenticated
func (s *Store) Token() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != Authenticated {
		return ""
	}
	return s.token
}

func (s *Store) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Identity returns the signed-in identity and whether one exists
func (s *Store) Identity() (user.Identity, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.identity, s.state == Authenticated
}

func (s *Store) IsAuthenticated() bool {
	return s.State() == Authenticated
}

func (s *Store) IsAdmin() bool {
	identity, ok := s.Identity()
	return ok && identity.IsAdmin
}

func (s *Store) establish(ctx context.Context, creds user.Credentials) user.Identity {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.identity = creds.Identity.WithDerived()
	s.token = creds.Token
	if err := s.kv.Set(ctx, storage.KeyToken, s.token); err != nil {
		s.metrics.StorageError("session_write")
		s.logger.Printf("[Session] Failed to persist token: %v", err)
	}
	s.persistUserLocked(ctx)
	s.setStateLocked(Authenticated)
	return s.identity
}

func (s *Store) persistUserLocked(ctx context.Context) {
	data, err := json.Marshal(s.identity)
	if err != nil {
		s.logger.Printf("[Session] Failed to encode user: %v", err)
		return
	}
	if err := s.kv.Set(ctx, storage.KeyUser, string(data)); err != nil {
		s.metrics.StorageError("session_write")
		s.logger.Printf("[Session] Failed to persist user: %v", err)
	}
}

func (s *Store) deleteLocked(ctx context.Context, keys ...string) {
	if err := s.kv.Delete(ctx, keys...); err != nil {
		s.metrics.StorageError("session_delete")
		s.logger.Printf("[Session] Failed to purge %v: %v", keys, err)
	}
}

func (s *Store) setStateLocked(state State) {
	if s.state == state {
		return
	}
	s.state = state
	s.metrics.SessionTransition(state.String())
}

func (s *Store) publish(ctx context.Context, key, eventType string, data any) {
	if s.publisher == nil {
		return
	}
	e, err := event.New(key, user.AggregateType, eventType, data)
	if err != nil {
		s.logger.Printf("[Session] Failed to build %s event: %v", eventType, err)
		return
	}
	if err := s.publisher.Publish(ctx, key, e); err != nil {
		s.logger.Printf("[Session] Failed to publish %s: %v", eventType, err)
	}
}

// merge overlays the non-empty fields of returned onto current
func merge(current, returned user.Identity) user.Identity {
	if !returned.ID.IsZero() {
		current.ID = returned.ID
	}
	if returned.Role != "" {
		current.Role = returned.Role
	}
	current = user.ProfilePatch{
		Name:    returned.Name,
		Email:   returned.Email,
		Phone:   returned.Phone,
		Address: returned.Address,
	}.Merge(current)
	return current.WithDerived()
}

// normalize keeps taxonomy errors as they are and classifies anything else
// as a communication failure
func normalize(err error) error {
	if apperror.KindOf(err) != "" {
		return err
	}
	return apperror.Communication("", err)
}
