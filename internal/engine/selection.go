package engine

import "github.com/lchess/halcyon/internal/board"

// nextMove extracts the highest-scoring move from moves[0:size-index] (lazy
// selection sort): it scans the still-active region for the maximum, swaps
// the last active element into the winner's old slot so the region shrinks
// by one, and returns the winner. Called once per iteration instead of
// sorting the whole list up front, since a beta-cutoff often makes later
// moves irrelevant.
func nextMove(moves []board.Move, values []int, index, size int) board.Move {
	best := 0
	limit := size - index
	for i := 1; i < limit; i++ {
		if values[i] > values[best] {
			best = i
		}
	}

	winner := moves[best]

	last := limit - 1
	moves[best] = moves[last]
	values[best] = values[last]

	return winner
}

// sortMoveListDescending fully sorts a root move list by score, descending,
// used once per iterative-deepening depth to feed ordering into the next.
func sortMoveListDescending(moves []board.Move, values []int) {
	for i := 0; i < len(moves); i++ {
		for j := i + 1; j < len(moves); j++ {
			if values[j] > values[i] {
				moves[i], moves[j] = moves[j], moves[i]
				values[i], values[j] = values[j], values[i]
			}
		}
	}
}
