package engine

import (
	"testing"

	"github.com/lchess/halcyon/internal/board"
)

func TestKillerTableSingleSlotPerCutoff(t *testing.T) {
	var k KillerTable

	m1 := board.NewMove(board.E2, board.E4)
	m2 := board.NewMove(board.D2, board.D4)

	k.updateQuiet(3, m1)
	if k.Quiet[3][0] != m1 {
		t.Fatalf("slot0 = %v, want %v", k.Quiet[3][0], m1)
	}

	k.updateQuiet(3, m2)
	if k.Quiet[3][0] != m2 {
		t.Fatalf("slot0 after second update = %v, want %v", k.Quiet[3][0], m2)
	}
	if k.Quiet[3][1] != m1 {
		t.Fatalf("slot1 after second update = %v, want the bumped first move %v", k.Quiet[3][1], m1)
	}

	// A different height's killers must stay untouched.
	if k.Quiet[4][0] != board.NoMove {
		t.Fatalf("height 4 slot0 = %v, want NoMove", k.Quiet[4][0])
	}
}

func TestScoreMovesHashMoveDominates(t *testing.T) {
	pos, err := board.ParseFEN("r3k2r/8/8/8/8/8/8/R3K2R w KQkq - 0 1")
	if err != nil {
		t.Fatalf("ParseFEN: %v", err)
	}
	pos.UpdateCheckers()

	moves := pos.GeneratePseudoLegalMoves()
	size := moves.Len()
	values := make([]int, size)

	var killers KillerTable
	// The first generated move is a rook move (a1-b1); the last ones are
	// king castles, whose from-square term subtracts the king's full value.
	hashMove := moves.Get(0)
	scoreMoves(pos, moves, values, 0, hashMove, &killers)

	for i := 0; i < size; i++ {
		if moves.Get(i) == hashMove {
			continue
		}
		if values[i] >= values[0] && moves.Get(0) == hashMove {
			t.Fatalf("non-hash move %v scored %d >= hash move score %d", moves.Get(i), values[i], values[0])
		}
	}
}

func TestScoreMovesMVVLVAOrdersCaptures(t *testing.T) {
	// A rook on d1 can capture either a queen on d8 (clear file) or a pawn
	// on a1 (clear rank). MVV/LVA must score the queen capture higher since
	// both captures share the same attacker.
	pos, err := board.ParseFEN("3qk3/8/8/8/8/8/8/p2RK3 w - - 0 1")
	if err != nil {
		t.Fatalf("ParseFEN: %v", err)
	}
	pos.UpdateCheckers()

	moves := pos.GeneratePseudoLegalMoves()
	size := moves.Len()
	values := make([]int, size)
	var killers KillerTable
	scoreMoves(pos, moves, values, 0, board.NoMove, &killers)

	queenCaptureScore, pawnCaptureScore := -1, -1
	for i := 0; i < size; i++ {
		m := moves.Get(i)
		if m.From() != board.D1 {
			continue
		}
		switch m.To() {
		case board.D8:
			queenCaptureScore = values[i]
		case board.A1:
			pawnCaptureScore = values[i]
		}
	}

	if queenCaptureScore < 0 || pawnCaptureScore < 0 {
		t.Fatal("expected both rook captures to be generated")
	}
	if queenCaptureScore <= pawnCaptureScore {
		t.Fatalf("rook-takes-queen score %d should exceed rook-takes-pawn score %d", queenCaptureScore, pawnCaptureScore)
	}
}
