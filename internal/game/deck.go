package game

import (
	"errors"
	"math/rand"
	"time"
)

// ErrDeckExhausted is returned when a transition needs to draw from an
// empty deck. It never happens in a normal round with a full 52-card
// deck; treat it as a contract violation and start a new round.
var ErrDeckExhausted = errors.New("deck exhausted")

var suits = []Suit{Hearts, Diamonds, Clubs, Spades}
var ranks = []Rank{Ace, Two, Three, Four, Five, Six, Seven, Eight, Nine, Ten, Jack, Queen, King}

// NewDeck returns a freshly shuffled standard 52-card deck. The last
// element of the slice is the top of the draw stack.
func NewDeck(rng *rand.Rand) []Card {
	deck := make([]Card, 0, 52)
	for _, suit := range suits {
		for _, rank := range ranks {
			deck = append(deck, Card{Suit: suit, Rank: rank})
		}
	}
	return Shuffle(rng, deck)
}

// Shuffle returns a new slice with the same cards permuted by an unbiased
// Fisher-Yates shuffle. The input is not mutated.
func Shuffle(rng *rand.Rand, deck []Card) []Card {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	shuffled := make([]Card, len(deck))
	copy(shuffled, deck)

	for i := len(shuffled) - 1; i > 0; i-- {
		j := rng.Intn(i + 1)
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	}
	return shuffled
}

// draw pops the top card. The remaining deck shares backing storage with
// the input; callers own the slices they pass in.
func draw(deck []Card) (Card, []Card, error) {
	if len(deck) == 0 {
		return Card{}, deck, ErrDeckExhausted
	}
	top := len(deck) - 1
	return deck[top], deck[:top], nil
}
