package session

import (
	"sync"
	"testing"

	"github.com/calvinwijaya/blackjack-be/internal/game"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApplyKeepsAppliedTransitions(t *testing.T) {
	s := New(1000)

	state, applied, err := s.Apply(func(g game.Game) (game.Game, bool, error) {
		next, ok := g.PlaceBet(50)
		return next, ok, nil
	})
	require.NoError(t, err)
	assert.True(t, applied)
	assert.Equal(t, 950, state.Chips)
	assert.Equal(t, 950, s.State().Chips)
}

func TestApplyDiscardsNoOps(t *testing.T) {
	s := New(100)

	state, applied, err := s.Apply(func(g game.Game) (game.Game, bool, error) {
		next, ok := g.PlaceBet(500)
		return next, ok, nil
	})
	require.NoError(t, err)
	assert.False(t, applied)
	assert.Equal(t, 100, state.Chips)
}

func TestApplyDiscardsFailedTransitions(t *testing.T) {
	s := New(1000)
	_, _, err := s.Apply(func(g game.Game) (game.Game, bool, error) {
		next, ok := g.PlaceBet(50)
		return next, ok, nil
	})
	require.NoError(t, err)

	_, applied, err := s.Apply(func(g game.Game) (game.Game, bool, error) {
		g.Deck = g.Deck[:0]
		return g.Deal()
	})
	assert.ErrorIs(t, err, game.ErrDeckExhausted)
	assert.False(t, applied)
	assert.Len(t, s.State().Deck, 52, "the prior snapshot survives a failed deal")
}

func TestConcurrentBetsDoNotInterleave(t *testing.T) {
	s := New(1000)

	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.Apply(func(g game.Game) (game.Game, bool, error) {
				next, ok := g.PlaceBet(10)
				return next, ok, nil
			})
		}()
	}
	wg.Wait()

	state := s.State()
	assert.Equal(t, 0, state.Chips)
	assert.Equal(t, 1000, state.CurrentBet)
}
