package game

import (
	"math/rand"
	"time"
)

type Status string

const (
	StatusBetting    Status = "betting"
	StatusPlaying    Status = "playing"
	StatusPlayerBust Status = "playerBust"
	StatusDealerBust Status = "dealerBust"
	StatusPlayerWin  Status = "playerWin"
	StatusDealerWin  Status = "dealerWin"
	StatusPush       Status = "push"
)

// RoundOver reports whether the status is one of the five terminal
// outcomes. A new round may start from betting or any terminal status.
func (s Status) RoundOver() bool {
	switch s {
	case StatusPlayerBust, StatusDealerBust, StatusPlayerWin, StatusDealerWin, StatusPush:
		return true
	}
	return false
}

// Message returns the fixed result message for the status, or "" while
// the round is still in the betting or playing phase.
func (s Status) Message() string {
	switch s {
	case StatusPlayerBust:
		return "Bust! You lose!"
	case StatusDealerBust:
		return "Dealer busts! You win!"
	case StatusPlayerWin:
		return "You win!"
	case StatusDealerWin:
		return "Dealer wins!"
	case StatusPush:
		return "Push!"
	}
	return ""
}

// Game is the full snapshot of a single-player round. Transitions are
// value semantics: each operation returns the next state and leaves the
// receiver untouched, together with an applied flag so callers can tell
// a silent no-op from an applied command. Invalid commands (wrong phase,
// bet over the balance, double after a hit) are no-ops; only deck
// exhaustion is an error.
type Game struct {
	Deck        []Card `json:"-"`
	PlayerHand  []Card `json:"playerHand"`
	DealerHand  []Card `json:"dealerHand"`
	PlayerScore int    `json:"playerScore"`
	DealerScore int    `json:"dealerScore"`
	Status      Status `json:"status"`
	Chips       int    `json:"chips"`
	CurrentBet  int    `json:"currentBet"`
	CanDouble   bool   `json:"canDouble"`

	rng *rand.Rand
}

// New creates a game in the betting phase with a freshly shuffled deck.
// Pass a seeded rng for deterministic shuffles; nil uses a time-seeded
// source.
func New(chips int, rng *rand.Rand) Game {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return Game{
		Deck:   NewDeck(rng),
		Status: StatusBetting,
		Chips:  chips,
		rng:    rng,
	}
}

// PlaceBet moves chips into the current bet. Bets accumulate across
// calls until the deal. No-op unless the game is in the betting phase
// and the amount is positive and covered by the balance.
func (g Game) PlaceBet(amount int) (Game, bool) {
	if g.Status != StatusBetting || amount <= 0 || amount > g.Chips {
		return g, false
	}
	g.Chips -= amount
	g.CurrentBet += amount
	return g, true
}

// Deal draws the four opening cards: two to the player, then the
// dealer's up card and hole card. The dealer score covers only the up
// card until Stand reveals the hole card. No-op without a bet.
func (g Game) Deal() (Game, bool, error) {
	if g.Status != StatusBetting || g.CurrentBet == 0 {
		return g, false, nil
	}
	if len(g.Deck) < 4 {
		return g, false, ErrDeckExhausted
	}

	next := g
	var p1, p2, up, hole Card
	p1, next.Deck, _ = draw(next.Deck)
	p2, next.Deck, _ = draw(next.Deck)
	up, next.Deck, _ = draw(next.Deck)
	hole, next.Deck, _ = draw(next.Deck)
	hole.Hidden = true

	next.PlayerHand = []Card{p1, p2}
	next.DealerHand = []Card{up, hole}
	next.PlayerScore = HandValue(next.PlayerHand)
	next.DealerScore = HandValue(next.DealerHand)
	next.Status = StatusPlaying
	next.CanDouble = true
	return next, true, nil
}

// Hit draws one card for the player. Any hit disables doubling. Going
// over 21 ends the round as a player bust with the bet forfeited.
func (g Game) Hit() (Game, bool, error) {
	if g.Status != StatusPlaying {
		return g, false, nil
	}

	next := g
	card, deck, err := draw(next.Deck)
	if err != nil {
		return g, false, err
	}
	next.Deck = deck
	next.PlayerHand = appendCard(next.PlayerHand, card)
	next.PlayerScore = HandValue(next.PlayerHand)
	next.CanDouble = false
	if next.PlayerScore > 21 {
		next.Status = StatusPlayerBust
	}
	return next, true, nil
}

// Stand ends the player's turn and runs the dealer: reveal the hole
// card, draw to a hard 17, then settle. Wins pay the stake back plus
// the same again, pushes return the stake, losses keep the stake that
// was deducted when the bet was placed. If the deck runs dry mid-draw
// the prior state is returned unchanged with ErrDeckExhausted.
func (g Game) Stand() (Game, bool, error) {
	if g.Status != StatusPlaying {
		return g, false, nil
	}

	next := g
	revealed := make([]Card, len(next.DealerHand))
	for i, card := range next.DealerHand {
		card.Hidden = false
		revealed[i] = card
	}
	next.DealerHand = revealed
	next.DealerScore = HandValue(next.DealerHand)

	for next.DealerScore < 17 {
		card, deck, err := draw(next.Deck)
		if err != nil {
			return g, false, err
		}
		next.Deck = deck
		next.DealerHand = appendCard(next.DealerHand, card)
		next.DealerScore = HandValue(next.DealerHand)
	}

	switch {
	case next.DealerScore > 21:
		next.Status = StatusDealerBust
		next.Chips += next.CurrentBet * 2
	case next.DealerScore < next.PlayerScore:
		next.Status = StatusPlayerWin
		next.Chips += next.CurrentBet * 2
	case next.DealerScore == next.PlayerScore:
		next.Status = StatusPush
		next.Chips += next.CurrentBet
	default:
		next.Status = StatusDealerWin
	}
	return next, true, nil
}

// Double doubles the bet, takes exactly one card, then stands
// automatically. Only available right after the deal, and only when the
// balance covers the second stake.
func (g Game) Double() (Game, bool, error) {
	if g.Status != StatusPlaying || !g.CanDouble || g.CurrentBet > g.Chips {
		return g, false, nil
	}

	next := g
	next.Chips -= next.CurrentBet
	next.CurrentBet *= 2

	next, _, err := next.Hit()
	if err != nil {
		return g, false, err
	}
	if next.Status != StatusPlaying {
		return next, true, nil
	}

	next, _, err = next.Stand()
	if err != nil {
		return g, false, err
	}
	return next, true, nil
}

// NewRound resets to the betting phase with a fresh shuffled deck,
// carrying only the chip balance forward.
func (g Game) NewRound() Game {
	rng := g.rng
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return Game{
		Deck:   NewDeck(rng),
		Status: StatusBetting,
		Chips:  g.Chips,
		rng:    rng,
	}
}

// appendCard copies the hand before appending so past snapshots never
// share backing storage with the new one.
func appendCard(hand []Card, c Card) []Card {
	out := make([]Card, len(hand), len(hand)+1)
	copy(out, hand)
	return append(out, c)
}
