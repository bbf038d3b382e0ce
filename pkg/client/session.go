package client

import "sync"

// Session is the authenticated state of a Client. It begins at login or registration and
// ends at logout; every request made while it is active carries its bearer token.
type Session struct {
	mu    sync.RWMutex
	token string
	user  User
}

// Begin starts the session for user.
func (s *Session) Begin(token string, user User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = token
	s.user = user
}

// End discards the token and user.
func (s *Session) End() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = ""
	s.user = User{}
}

// Token returns the bearer token, empty when no session is active.
func (s *Session) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

// User returns the signed-in user and whether a session is active.
func (s *Session) User() (User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user, s.token != ""
}

func (s *Session) Active() bool {
	return s.Token() != ""
}
