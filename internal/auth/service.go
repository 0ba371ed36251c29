package auth

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/pawlingo/pawlingo-server/internal/models"
	"github.com/pawlingo/pawlingo-server/internal/notify"
	"github.com/pawlingo/pawlingo-server/internal/session"
)

// ErrNotAuthenticated means an operation required a signed-in user
var ErrNotAuthenticated = errors.New("not authenticated")

// Service owns the current session: it logs users in through a
// registered identity provider, persists the record to the session
// store and reports every outcome through the notification boundary.
type Service struct {
	store     session.Store
	notifier  notify.Notifier
	providers map[models.AuthProvider]Provider

	mu   sync.RWMutex
	user *models.User
}

// NewService creates an auth service over the given store and providers
func NewService(store session.Store, notifier notify.Notifier, providers ...Provider) *Service {
	byName := make(map[models.AuthProvider]Provider, len(providers))
	for _, p := range providers {
		byName[p.Name()] = p
	}
	return &Service{
		store:     store,
		notifier:  notifier,
		providers: byName,
	}
}

// Hydrate loads a previously stored user record. A missing or corrupt
// record yields an unauthenticated session and no error: corrupt state
// is discarded by the store, never surfaced to the user.
func (s *Service) Hydrate(ctx context.Context) error {
	user, err := s.store.Load(ctx)
	if errors.Is(err, session.ErrNoSession) || errors.Is(err, session.ErrCorruptSession) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("loading stored session: %w", err)
	}

	s.mu.Lock()
	s.user = user
	s.mu.Unlock()
	log.Info("Restored session for %s (provider: %s)", user.Name, user.Provider)
	return nil
}

// Login authenticates through the named provider. On success the user
// record is persisted and the session marked authenticated; on failure
// prior session state is left untouched and the error is returned so
// the caller can keep its login flow open.
func (s *Service) Login(ctx context.Context, providerName models.AuthProvider, creds *models.Credentials) (*models.User, error) {
	provider, ok := s.providers[providerName]
	if !ok {
		s.notifier.Notify("Login failed", fmt.Sprintf("Unknown provider: %s", providerName), notify.SeverityDestructive)
		return nil, ErrProviderUnavailable
	}

	user, err := provider.Login(ctx, creds)
	if err != nil {
		s.notifier.Notify("Login failed", loginFailureDescription(err), notify.SeverityDestructive)
		return nil, err
	}

	if err := s.store.Save(ctx, user); err != nil {
		s.notifier.Notify("Login failed", "Could not persist your session. Please try again.", notify.SeverityDestructive)
		return nil, fmt.Errorf("persisting session: %w", err)
	}

	s.mu.Lock()
	s.user = user
	s.mu.Unlock()

	s.notifier.Notify("Logged in successfully", fmt.Sprintf("Welcome back, %s!", user.Name), notify.SeveritySuccess)
	return user, nil
}

// Logout clears the session. Always succeeds.
func (s *Service) Logout(ctx context.Context) {
	if err := s.store.Clear(ctx); err != nil {
		log.Warn("Failed to clear session store: %v", err)
	}

	s.mu.Lock()
	s.user = nil
	s.mu.Unlock()

	s.notifier.Notify("Logged out", "You have been logged out successfully", notify.SeverityNeutral)
}

// UpdateProfile shallow-merges the given fields into the current user
// record and persists it. The in-memory record only changes once the
// store write succeeds.
func (s *Service) UpdateProfile(ctx context.Context, update models.ProfileUpdate) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.user == nil {
		s.notifier.Notify("Profile update failed", "You must be logged in to update your profile.", notify.SeverityDestructive)
		return nil, ErrNotAuthenticated
	}

	merged := *s.user
	update.Apply(&merged)
	merged.LastSeen = time.Now()

	if err := s.store.Save(ctx, &merged); err != nil {
		s.notifier.Notify("Profile update failed", "Could not save your profile. Please try again.", notify.SeverityDestructive)
		return nil, fmt.Errorf("persisting profile: %w", err)
	}

	s.user = &merged
	return &merged, nil
}

// CurrentUser returns the signed-in user, or nil
func (s *Service) CurrentUser() *models.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user
}

// IsAuthenticated reports whether a user is signed in
func (s *Service) IsAuthenticated() bool {
	return s.CurrentUser() != nil
}

func loginFailureDescription(err error) string {
	switch {
	case errors.Is(err, ErrProviderUnavailable):
		return "MetaMask is not installed. Please install MetaMask to continue."
	case errors.Is(err, ErrInvalidCredentials):
		return "Please provide a valid email and password."
	default:
		return "Something went wrong. Please try again."
	}
}
