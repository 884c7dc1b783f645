package game

import "math/rand/v2"

// AssignCategories deals a keycard for a game where starting guesses first.
// The starting team gets 9 agents, the other 8, plus 7 bystanders and one assassin.
// The fixed multiset is shuffled with r, so a seeded r gives a repeatable card.
func AssignCategories(r *rand.Rand, starting TeamID) Keycard {
	deck := make([]Category, 0, Size)
	deck = appendN(deck, starting.Category(), StartingAgents)
	deck = appendN(deck, starting.Other().Category(), OtherAgents)
	deck = appendN(deck, CategoryBystander, Bystanders)
	deck = appendN(deck, CategoryAssassin, Assassins)

	r.Shuffle(len(deck), func(i, j int) { deck[i], deck[j] = deck[j], deck[i] })

	var k Keycard
	for i, c := range deck {
		k[i/Cols][i%Cols] = c
	}
	return k
}

func appendN(deck []Category, c Category, n int) []Category {
	for i := 0; i < n; i++ {
		deck = append(deck, c)
	}
	return deck
}
