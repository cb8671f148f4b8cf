package game

// HandValue computes the blackjack value of a hand. Hidden cards are
// excluded entirely. Aces count as 11 and are softened to 1 one at a
// time while the total exceeds 21, so the result is the best legal value
// the hand can make (and may still exceed 21 on a bust).
func HandValue(hand []Card) int {
	value := 0
	aces := 0

	for _, card := range hand {
		if card.Hidden {
			continue
		}
		if card.Rank == Ace {
			aces++
		}
		value += card.Value()
	}

	for value > 21 && aces > 0 {
		value -= 10
		aces--
	}

	return value
}
