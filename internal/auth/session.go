package auth

import (
	"errors"
	"sync"
)

var ErrUnauthenticated = errors.New("not authenticated")

type User struct {
	Name string
}

// Session is the authentication capability handed to client components.
type Session interface {
	IsAuthenticated() bool
	User() User
	Logout()
}

// KeySession authenticates with a shared API key. It is authenticated while it
// holds a non-empty key.
type KeySession struct {
	mu   sync.RWMutex
	user User
	key  string
}

func NewKeySession(name, key string) *KeySession {
	return &KeySession{user: User{Name: name}, key: key}
}

func (s *KeySession) IsAuthenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.key != ""
}

func (s *KeySession) User() User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user
}

// Key returns the API key sent on write requests.
func (s *KeySession) Key() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.key
}

func (s *KeySession) Logout() {
	s.mu.Lock()
	s.key = ""
	s.mu.Unlock()
}

// Anonymous is a session that is never authenticated.
type Anonymous struct{}

func (Anonymous) IsAuthenticated() bool { return false }
func (Anonymous) User() User            { return User{} }
func (Anonymous) Logout()               {}

// Require returns ErrUnauthenticated unless s is authenticated.
func Require(s Session) error {
	if s == nil || !s.IsAuthenticated() {
		return ErrUnauthenticated
	}
	return nil
}
