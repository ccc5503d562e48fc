package ranking

import (
	"cmp"
	"slices"
)

// Style is how a final rank is presented in the results view
type Style struct {
	Rank  int
	Color string
	Emoji string
}

// Styles for ranks 1-4 in ascending order
var Styles = []Style{
	{Rank: 1, Color: "bg-gradient-to-r from-pink-200 to-rose-200 border-pink-300", Emoji: "🏆"},
	{Rank: 2, Color: "bg-gradient-to-r from-blue-200 to-cyan-200 border-blue-300", Emoji: "🥈"},
	{Rank: 3, Color: "bg-gradient-to-r from-green-200 to-emerald-200 border-green-300", Emoji: "🥉"},
	{Rank: 4, Color: "bg-gradient-to-r from-purple-200 to-violet-200 border-purple-300", Emoji: "🌸"},
}

// StyleFor returns the style for a rank
func StyleFor(rank int) Style {
	for _, s := range Styles {
		if s.Rank == rank {
			return s
		}
	}
	return Styles[len(Styles)-1] // Out of range ranks look like last place
}

// Placement is one seat's position after ordering by score.
// Position is unique (1..n). Seats with equal scores form a group that
// starts at GroupStart and spans GroupSize positions.
type Placement struct {
	Seat       int
	Score      int
	Position   int
	GroupStart int
	GroupSize  int
}

// Tied reports whether the placement shares its score with another seat
func (p Placement) Tied() bool {
	return p.GroupSize > 1
}

// Order sorts seats by score descending. Equal scores keep seat order, so
// the earlier seat takes the higher position.
func Order(scores []int) []Placement {
	placements := make([]Placement, len(scores))
	for seat, score := range scores {
		placements[seat] = Placement{Seat: seat, Score: score}
	}

	slices.SortFunc(placements, func(a, b Placement) int {
		if c := cmp.Compare(b.Score, a.Score); c != 0 {
			return c
		}
		return cmp.Compare(a.Seat, b.Seat)
	})

	for i := 0; i < len(placements); {
		j := i
		for j < len(placements) && placements[j].Score == placements[i].Score {
			j++
		}
		for k := i; k < j; k++ {
			placements[k].Position = k + 1
			placements[k].GroupStart = i + 1
			placements[k].GroupSize = j - i
		}
		i = j
	}

	return placements
}
