package service

import (
	"sync"
	"time"

	authDomain "github.com/allisson/litenotes/internal/auth/domain"
)

// attemptState tracks failed logins for one username.
type attemptState struct {
	failureCount int
	lockoutUntil time.Time
}

// lockoutService implements LockoutService with an explicit in-memory map
// from username to failure state, guarded by a mutex and driven by an
// injected clock.
type lockoutService struct {
	mu          sync.Mutex
	attempts    map[string]*attemptState
	maxAttempts int
	duration    time.Duration
	now         Clock
}

// NewLockoutService creates a LockoutService. maxAttempts is the number of
// consecutive failures that triggers a lockout; duration is the lockout
// window. A nil clock defaults to time.Now.
func NewLockoutService(maxAttempts int, duration time.Duration, now Clock) LockoutService {
	if now == nil {
		now = time.Now
	}
	return &lockoutService{
		attempts:    make(map[string]*attemptState),
		maxAttempts: maxAttempts,
		duration:    duration,
		now:         now,
	}
}

// Check returns a *domain.LockoutError while the username's lockout window is
// open. The check runs before password verification, so a correct password
// inside the window is still rejected.
func (s *lockoutService) Check(username string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	state, exists := s.attempts[username]
	if !exists {
		return nil
	}

	now := s.now()
	if state.lockoutUntil.After(now) {
		return &authDomain.LockoutError{RetryAfter: state.lockoutUntil.Sub(now)}
	}
	return nil
}

// RecordFailure registers a failed attempt, opening the lockout window when
// the failure count reaches the maximum. The count keeps accumulating across
// an expired window until a successful login resets it.
func (s *lockoutService) RecordFailure(username string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	state, exists := s.attempts[username]
	if !exists {
		state = &attemptState{}
		s.attempts[username] = state
	}

	state.failureCount++
	if state.failureCount >= s.maxAttempts {
		state.lockoutUntil = s.now().Add(s.duration)
	}
}

// Reset clears the failure state after a successful login.
func (s *lockoutService) Reset(username string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.attempts, username)
}
