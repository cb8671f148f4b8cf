package store

import "github.com/calvinwijaya/blackjack-be/internal/session"

// Store defines the interface for session storage
type Store interface {
	// SaveSession saves a session to the store
	SaveSession(s *session.Session) error

	// GetSession retrieves a session by ID
	GetSession(id string) (*session.Session, error)

	// DeleteSession removes a session from the store
	DeleteSession(id string) error

	// GetAllSessions returns all sessions in the store
	GetAllSessions() ([]*session.Session, error)
}
