package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// testCard is a fixed rule-valid card, row-major:
//
//	1 16 31 46 61
//	2 17 32 47 62
//	3 18  0 48 63
//	4 19 34 49 64
//	5 20 35 50 65
func testCard() []int {
	return []int{
		1, 16, 31, 46, 61,
		2, 17, 32, 47, 62,
		3, 18, 0, 48, 63,
		4, 19, 34, 49, 64,
		5, 20, 35, 50, 65,
	}
}

func allCardNumbers(card []int) []int {
	var out []int
	for _, n := range card {
		if n != 0 {
			out = append(out, n)
		}
	}
	return out
}

func TestEvaluateNothingDrawn(t *testing.T) {
	p := Evaluate(testCard(), nil)
	assert.False(t, p.IsBingo)
	// The middle row, middle column and both diagonals pass through the
	// free space, so four cells remain on the best line.
	assert.Equal(t, 4, p.NumbersToWin)
}

func TestEvaluateRowBingo(t *testing.T) {
	p := Evaluate(testCard(), []int{1, 16, 31, 46, 61})
	assert.True(t, p.IsBingo)
	assert.Equal(t, 0, p.NumbersToWin)
}

func TestEvaluateColumnBingoWithFreeSpace(t *testing.T) {
	p := Evaluate(testCard(), []int{31, 32, 34, 35})
	assert.True(t, p.IsBingo)
	assert.Equal(t, 0, p.NumbersToWin)
}

func TestEvaluateDiagonalBingo(t *testing.T) {
	p := Evaluate(testCard(), []int{1, 17, 49, 65})
	assert.True(t, p.IsBingo)
}

func TestEvaluatePartialProgress(t *testing.T) {
	p := Evaluate(testCard(), []int{1, 16})
	assert.False(t, p.IsBingo)
	assert.Equal(t, 3, p.NumbersToWin)
}

func TestEvaluateIgnoresIrrelevantDraws(t *testing.T) {
	p := Evaluate(testCard(), []int{70, 71, 72, 73, 74, 75})
	assert.False(t, p.IsBingo)
	assert.Equal(t, 4, p.NumbersToWin)
}

func TestEvaluateIdempotent(t *testing.T) {
	card := testCard()
	drawn := []int{1, 16, 31, 5, 20}
	first := Evaluate(card, drawn)
	second := Evaluate(card, drawn)
	assert.Equal(t, first, second)
}

func TestBlackout(t *testing.T) {
	card := testCard()
	all := allCardNumbers(card)

	assert.True(t, Blackout(card, all))

	// Missing a single number is not a blackout, even though many lines
	// are complete.
	assert.False(t, Blackout(card, all[1:]))

	p := Evaluate(card, all[1:])
	assert.True(t, p.IsBingo, "line bingo can hold while blackout does not")
}

func TestBlackoutEmptyDrawn(t *testing.T) {
	assert.False(t, Blackout(testCard(), nil))
}
