package game

// Progress describes how close a single card is to completing a line.
type Progress struct {
	// IsBingo is true when at least one row, column or diagonal is fully
	// marked. Display/ranking signal only; the enforced win condition is
	// Blackout.
	IsBingo bool
	// NumbersToWin is the minimum count of unmarked cells across all 12
	// candidate lines (5 rows, 5 columns, 2 diagonals).
	NumbersToWin int
}

// Evaluate computes line progress for a card against the drawn numbers.
// A cell is marked iff it is 0 (free space) or its value has been drawn.
// Pure: same inputs always yield the same result.
func Evaluate(card []int, drawn []int) Progress {
	drawnSet := toSet(drawn)

	unmarked := func(idx int) int {
		if marked(card[idx], drawnSet) {
			return 0
		}
		return 1
	}

	best := CardCells
	for row := 0; row < GridSize; row++ {
		missing := 0
		for col := 0; col < GridSize; col++ {
			missing += unmarked(row*GridSize + col)
		}
		if missing < best {
			best = missing
		}
	}
	for col := 0; col < GridSize; col++ {
		missing := 0
		for row := 0; row < GridSize; row++ {
			missing += unmarked(row*GridSize + col)
		}
		if missing < best {
			best = missing
		}
	}
	diag1, diag2 := 0, 0
	for i := 0; i < GridSize; i++ {
		diag1 += unmarked(i*GridSize + i)
		diag2 += unmarked(i*GridSize + (GridSize - 1 - i))
	}
	if diag1 < best {
		best = diag1
	}
	if diag2 < best {
		best = diag2
	}

	return Progress{IsBingo: best == 0, NumbersToWin: best}
}

// Blackout reports whether every cell of the card is marked. This is the
// win predicate enforced by the round driver.
func Blackout(card []int, drawn []int) bool {
	drawnSet := toSet(drawn)
	for _, n := range card {
		if !marked(n, drawnSet) {
			return false
		}
	}
	return true
}

func marked(n int, drawnSet map[int]bool) bool {
	return n == 0 || drawnSet[n]
}

func toSet(drawn []int) map[int]bool {
	set := make(map[int]bool, len(drawn))
	for _, n := range drawn {
		set[n] = true
	}
	return set
}
