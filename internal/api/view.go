package api

import "github.com/calvinwijaya/blackjack-be/internal/game"

// Suggested bet sizes for a betting UI. The engine accepts any positive
// amount; these only drive the enabled flags in the snapshot.
var betDenominations = []int{10, 50, 100}

// CardView is a card as sent to clients. The hole card keeps its suit
// and rank server-side only.
type CardView struct {
	Suit   game.Suit `json:"suit,omitempty"`
	Rank   game.Rank `json:"rank,omitempty"`
	Hidden bool      `json:"hidden"`
}

type BetOption struct {
	Amount  int  `json:"amount"`
	Enabled bool `json:"enabled"`
}

// GameView is the read-only snapshot returned after every command. The
// deck is reduced to a card count so clients cannot peek at the order.
type GameView struct {
	PlayerHand  []CardView  `json:"playerHand"`
	DealerHand  []CardView  `json:"dealerHand"`
	PlayerScore int         `json:"playerScore"`
	DealerScore int         `json:"dealerScore"`
	Status      game.Status `json:"status"`
	Message     string      `json:"message"`
	Chips       int         `json:"chips"`
	CurrentBet  int         `json:"currentBet"`
	CanDouble   bool        `json:"canDouble"`
	RoundOver   bool        `json:"roundOver"`
	CardsLeft   int         `json:"cardsLeft"`
	BetOptions  []BetOption `json:"betOptions"`
}

// NewGameView builds the client snapshot for a game state.
func NewGameView(g game.Game) GameView {
	view := GameView{
		PlayerHand:  handView(g.PlayerHand),
		DealerHand:  handView(g.DealerHand),
		PlayerScore: g.PlayerScore,
		DealerScore: g.DealerScore,
		Status:      g.Status,
		Message:     g.Status.Message(),
		Chips:       g.Chips,
		CurrentBet:  g.CurrentBet,
		CanDouble:   g.CanDouble,
		RoundOver:   g.Status.RoundOver(),
		CardsLeft:   len(g.Deck),
	}

	for _, amount := range betDenominations {
		view.BetOptions = append(view.BetOptions, BetOption{
			Amount:  amount,
			Enabled: g.Status == game.StatusBetting && amount <= g.Chips,
		})
	}
	return view
}

func handView(hand []game.Card) []CardView {
	views := make([]CardView, len(hand))
	for i, card := range hand {
		if card.Hidden {
			views[i] = CardView{Hidden: true}
			continue
		}
		views[i] = CardView{Suit: card.Suit, Rank: card.Rank}
	}
	return views
}
