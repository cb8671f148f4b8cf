package session

import (
	"sync"
	"time"

	"github.com/calvinwijaya/blackjack-be/internal/game"
	"github.com/google/uuid"
)

// Session owns one player's game. Commands go through Apply so that each
// transition reads a consistent snapshot and swaps in the next state
// atomically; a double-clicked button cannot interleave partial updates.
type Session struct {
	ID        string
	CreatedAt time.Time

	mu        sync.Mutex
	state     game.Game
	updatedAt time.Time
}

// New creates a session with a fresh game in the betting phase.
func New(startingChips int) *Session {
	now := time.Now()
	return &Session{
		ID:        uuid.New().String(),
		CreatedAt: now,
		state:     game.New(startingChips, nil),
		updatedAt: now,
	}
}

// State returns the current game snapshot. The returned value is a copy;
// callers can read it freely but mutate nothing shared.
func (s *Session) State() game.Game {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// UpdatedAt returns the time of the last applied command.
func (s *Session) UpdatedAt() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.updatedAt
}

// Apply runs one transition under the session lock. The new state is
// kept only when the transition applied cleanly; a no-op or an error
// leaves the session on its prior snapshot.
func (s *Session) Apply(transition func(game.Game) (game.Game, bool, error)) (game.Game, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next, applied, err := transition(s.state)
	if err != nil {
		return s.state, false, err
	}
	if applied {
		s.state = next
		s.updatedAt = time.Now()
	}
	return s.state, applied, nil
}
