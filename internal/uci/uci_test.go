package uci

import (
	"testing"
	"time"

	"github.com/lchess/halcyon/internal/board"
	"github.com/lchess/halcyon/internal/engine"
)

func newTestUCI(t *testing.T) *UCI {
	t.Helper()
	return New(engine.NewDriver())
}

func TestParseMoveSimple(t *testing.T) {
	u := newTestUCI(t)

	m := u.parseMove("e2e4")
	if m == board.NoMove {
		t.Fatal("expected e2e4 to parse as a legal opening move")
	}
	if m.From() != board.E2 || m.To() != board.E4 {
		t.Fatalf("parsed move = %v, want from e2 to e4", m)
	}
}

func TestParseMoveRejectsIllegal(t *testing.T) {
	u := newTestUCI(t)

	if m := u.parseMove("e2e5"); m != board.NoMove {
		t.Fatalf("e2e5 is not a legal opening move, got %v", m)
	}
}

func TestParseMoveRejectsGarbage(t *testing.T) {
	u := newTestUCI(t)

	if m := u.parseMove("zz"); m != board.NoMove {
		t.Fatalf("expected NoMove for a too-short move string, got %v", m)
	}
}

func TestHandlePositionStartposWithMoves(t *testing.T) {
	u := newTestUCI(t)

	u.handlePosition([]string{"startpos", "moves", "e2e4", "e7e5"})

	if u.position.SideToMove != board.White {
		t.Fatalf("after two half-moves, side to move = %v, want White", u.position.SideToMove)
	}
	if len(u.positionHashes) != 3 {
		t.Fatalf("positionHashes length = %d, want 3 (start + 2 moves)", len(u.positionHashes))
	}
}

func TestHandlePositionFEN(t *testing.T) {
	u := newTestUCI(t)
	fen := "4k3/8/8/8/8/8/8/4K3 w - - 0 1"

	u.handlePosition([]string{"fen", "4k3/8/8/8/8/8/8/4K3", "w", "-", "-", "0", "1"})

	want, err := board.ParseFEN(fen)
	if err != nil {
		t.Fatalf("ParseFEN: %v", err)
	}
	if u.position.Hash != want.Hash {
		t.Fatalf("parsed position hash mismatch: got %d, want %d", u.position.Hash, want.Hash)
	}
}

func TestCalculateBudgetMoveTime(t *testing.T) {
	u := newTestUCI(t)

	opts := GoOptions{MoveTime: 2500 * time.Millisecond}
	if got := u.calculateBudget(opts); got != 3 {
		t.Fatalf("calculateBudget(movetime=2500ms) = %d, want 3 (ceil to whole seconds)", got)
	}
}

func TestCalculateBudgetInfinite(t *testing.T) {
	u := newTestUCI(t)

	if got := u.calculateBudget(GoOptions{Infinite: true}); got != 3600 {
		t.Fatalf("calculateBudget(infinite) = %d, want 3600", got)
	}
}

func TestCalculateBudgetDepthOnlyTreatedAsInfinite(t *testing.T) {
	u := newTestUCI(t)

	if got := u.calculateBudget(GoOptions{Depth: 10}); got != 3600 {
		t.Fatalf("calculateBudget(depth=10, no clock) = %d, want 3600 (a depth-only go gets the unbounded-search budget)", got)
	}
}

func TestCalculateBudgetDefaultsWithNoOptions(t *testing.T) {
	u := newTestUCI(t)

	if got := u.calculateBudget(GoOptions{}); got != 5 {
		t.Fatalf("calculateBudget(no options) = %d, want the 5-second default", got)
	}
}

func TestCalculateBudgetUsesClock(t *testing.T) {
	u := newTestUCI(t)
	u.position = board.NewPosition() // White to move

	opts := GoOptions{WTime: 60 * time.Second, BTime: 60 * time.Second}
	got := u.calculateBudget(opts)
	if got < 1 || got > 6 {
		t.Fatalf("calculateBudget(60s each side, startpos) = %d, want a small slice of the clock, not the whole budget", got)
	}
}

func TestFindMoves(t *testing.T) {
	args := []string{"startpos", "moves", "e2e4"}
	if got := findMoves(args, 1); got != 2 {
		t.Fatalf("findMoves = %d, want 2", got)
	}

	args = []string{"startpos"}
	if got := findMoves(args, 1); got != len(args) {
		t.Fatalf("findMoves with no moves token = %d, want %d", got, len(args))
	}
}
