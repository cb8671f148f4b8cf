package game

type Suit string
type Rank string

const (
	Hearts   Suit = "hearts"
	Diamonds Suit = "diamonds"
	Clubs    Suit = "clubs"
	Spades   Suit = "spades"
)

const (
	Ace   Rank = "A"
	Two   Rank = "2"
	Three Rank = "3"
	Four  Rank = "4"
	Five  Rank = "5"
	Six   Rank = "6"
	Seven Rank = "7"
	Eight Rank = "8"
	Nine  Rank = "9"
	Ten   Rank = "10"
	Jack  Rank = "J"
	Queen Rank = "Q"
	King  Rank = "K"
)

// Card is an immutable playing card. Hidden marks the dealer's hole card:
// it keeps the card out of snapshots and scoring without changing the
// card's identity.
type Card struct {
	Suit   Suit `json:"suit"`
	Rank   Rank `json:"rank"`
	Hidden bool `json:"hidden"`
}

// Value returns the blackjack value of the card. Aces count as 11 here;
// HandValue softens them to 1 as needed.
func (c Card) Value() int {
	switch c.Rank {
	case Ace:
		return 11
	case Ten, Jack, Queen, King:
		return 10
	case Two:
		return 2
	case Three:
		return 3
	case Four:
		return 4
	case Five:
		return 5
	case Six:
		return 6
	case Seven:
		return 7
	case Eight:
		return 8
	case Nine:
		return 9
	default:
		return 0
	}
}

// String returns a short form like "A♥" for logs.
func (c Card) String() string {
	var s string
	switch c.Suit {
	case Hearts:
		s = "♥"
	case Diamonds:
		s = "♦"
	case Clubs:
		s = "♣"
	case Spades:
		s = "♠"
	}
	return string(c.Rank) + s
}
