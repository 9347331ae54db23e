package game

import "math/rand"

const (
	// GridSize is the side length of a card.
	GridSize = 5
	// CardCells is the total cell count of a card.
	CardCells = GridSize * GridSize
	// FreeCellIndex is the center cell (row 2, col 2), always marked.
	FreeCellIndex = 12
	// ColumnSpan is the width of each column's number range.
	ColumnSpan = 15
	// MaxNumber is the highest drawable number. Cards are generated from
	// the same 1..75 pool the caller draws from, so a blackout is always
	// reachable.
	MaxNumber = GridSize * ColumnSpan
)

// NewCard generates a rule-valid bingo card as a row-major 25-element grid.
// Column c holds 5 distinct numbers from [c*15+1, c*15+15]; the center cell
// is forced to 0, the free space. Deterministic for a seeded *rand.Rand.
func NewCard(r *rand.Rand) []int {
	card := make([]int, CardCells)
	for col := 0; col < GridSize; col++ {
		low := col*ColumnSpan + 1
		picks := r.Perm(ColumnSpan)
		for row := 0; row < GridSize; row++ {
			card[row*GridSize+col] = low + picks[row]
		}
	}
	card[FreeCellIndex] = 0
	return card
}
