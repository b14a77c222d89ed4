package engine

import (
	"testing"

	"github.com/lchess/halcyon/internal/board"
)

func TestNextMovePicksHighestRemainingScore(t *testing.T) {
	moves := []board.Move{1, 2, 3, 4, 5}
	values := []int{10, 50, 5, 40, 20}
	size := len(moves)

	var order []board.Move
	for i := 0; i < size; i++ {
		order = append(order, nextMove(moves, values, i, size))
	}

	want := []board.Move{2, 4, 5, 1, 3}
	for i := range want {
		if order[i] != want[i] {
			t.Fatalf("position %d: got %v, want %v (full order %v)", i, order[i], want[i], order)
		}
	}
}

func TestNextMoveSingleElement(t *testing.T) {
	moves := []board.Move{7}
	values := []int{1}
	if got := nextMove(moves, values, 0, 1); got != 7 {
		t.Fatalf("nextMove on single-element list = %v, want 7", got)
	}
}

func TestSortMoveListDescending(t *testing.T) {
	moves := []board.Move{1, 2, 3, 4}
	values := []int{5, 1, 9, 3}

	sortMoveListDescending(moves, values)

	wantValues := []int{9, 5, 3, 1}
	for i, v := range wantValues {
		if values[i] != v {
			t.Fatalf("values[%d] = %d, want %d (full: %v)", i, values[i], v, values)
		}
	}
	if moves[0] != 3 {
		t.Fatalf("moves[0] = %v, want the move that carried score 9 (move 3)", moves[0])
	}
}
