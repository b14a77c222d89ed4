package engine

import (
	"testing"

	"github.com/lchess/halcyon/internal/board"
	"github.com/rs/zerolog"
)

func mustParseFEN(t *testing.T, fen string) *board.Position {
	t.Helper()
	pos, err := board.ParseFEN(fen)
	if err != nil {
		t.Fatalf("ParseFEN(%q): %v", fen, err)
	}
	pos.UpdateCheckers()
	return pos
}

// TestMateInOneBackRank is the mate-in-1 back-rank scenario: White has a
// forced mate with the rook, and the driver must find it immediately.
func TestMateInOneBackRank(t *testing.T) {
	pos := mustParseFEN(t, "6k1/5ppp/8/8/8/8/8/R6K w - - 0 1")

	driver := &Driver{Logger: zerolog.Nop()}
	best := driver.GetBestMove(pos, []uint64{pos.Hash}, 1, true, nil)

	if best == board.NoMove {
		t.Fatal("expected a move, got NoMove")
	}

	after := pos.Copy()
	after.MakeMove(best)
	after.UpdateCheckers()
	if !after.IsCheckmate() {
		t.Fatalf("move %v did not deliver checkmate; position afterwards:\n%s", best, after.String())
	}
}

// TestScholarsMateFinalPositionIsRecognizedCheckmate checks the position
// immediately after a Scholar's-mate-style Qxf7#: the defending side has no
// legal reply, and the driver must return NoMove rather than some pseudo-
// legal move that leaves the king in check.
func TestScholarsMateFinalPositionIsRecognizedCheckmate(t *testing.T) {
	pos := mustParseFEN(t, "r1bqkb1r/pppp1Qpp/2n2n2/4p3/2B1P3/8/PPPP1PPP/RNB1K1NR b KQkq - 0 4")

	if !pos.IsCheckmate() {
		t.Fatalf("expected this Qxf7# position to already be checkmate; legal moves = %d", pos.GenerateLegalMoves().Len())
	}

	driver := &Driver{Logger: zerolog.Nop()}
	best := driver.GetBestMove(pos, []uint64{pos.Hash}, 1, true, nil)
	if best != board.NoMove {
		t.Fatalf("checkmate position returned a move: %v", best)
	}
}

// TestStalemateReturnsNoMove checks that a side with no legal moves and no
// check returns NoMove rather than panicking or returning a bogus move.
func TestStalemateReturnsNoMove(t *testing.T) {
	pos := mustParseFEN(t, "7k/5Q2/6K1/8/8/8/8/8 b - - 0 1")

	if !pos.IsStalemate() {
		t.Fatalf("expected this position to already be stalemate; legal moves = %d", pos.GenerateLegalMoves().Len())
	}

	driver := &Driver{Logger: zerolog.Nop()}
	best := driver.GetBestMove(pos, []uint64{pos.Hash}, 1, true, nil)
	if best != board.NoMove {
		t.Fatalf("stalemate position returned a move: %v", best)
	}
}

// TestQuiescenceCaptureFavorable checks that a simple undefended pawn
// capture is found even though pure main-line search has plenty of shallow
// depth to find it on its own; the point is that quiescence does not return
// a worse static evaluation than the forced capture sequence allows.
func TestQuiescenceCaptureFavorable(t *testing.T) {
	pos := mustParseFEN(t, "4k3/8/8/3p4/4P3/8/8/4K3 w - - 0 1")

	tt := NewTable(16)
	sc := NewSearchContext(tt, []uint64{pos.Hash}, 10, pos.SideToMove, zerolog.Nop())

	value := quiescence(pos, sc, -Mate, Mate, 0)
	if value <= 0 {
		t.Fatalf("quiescence value = %d, want a positive (favorable) score since e4 can capture d5", value)
	}
}

// TestRepetitionScoresZero checks that a position reached for the third time
// is scored as an exact draw inside the search, not merely at quiescence.
// The seeded history places pos.Hash at indices 0, 2 and 4: same-parity
// (same side to move) slots two plies apart, the real threefold shape.
func TestRepetitionScoresZero(t *testing.T) {
	pos := mustParseFEN(t, "4k3/8/8/8/8/8/8/4K3 w - - 0 1")

	history := []uint64{pos.Hash, 0xAAAA, pos.Hash, 0xBBBB, pos.Hash}
	tt := NewTable(10)
	sc := NewSearchContext(tt, history, 10, pos.SideToMove, zerolog.Nop())

	if !sc.IsRepetition(pos.Hash) {
		t.Fatal("expected the seeded history to already count as a repetition for this position")
	}

	value := search(pos, sc, -Mate, Mate, 4, 0, PVNode)
	if value != 0 {
		t.Fatalf("search() on a threefold-repeated position returned %d, want exactly 0", value)
	}
}

// TestSearchNeverStoresPastDeadline checks that a search whose deadline has
// already passed when it enters its first node returns without writing any
// TT entry.
func TestSearchNeverStoresPastDeadline(t *testing.T) {
	pos := mustParseFEN(t, "r3k2r/pppq1ppp/2n1bn2/3pp3/3PP3/2N1BN2/PPPQ1PPP/R3K2R w KQkq - 0 8")

	tt := NewTable(14)
	sc := NewSearchContext(tt, []uint64{pos.Hash}, 10, pos.SideToMove, zerolog.Nop())
	sc.Stopped.Store(true) // force TimeExpired() true from the first node on

	search(pos, sc, -Mate, Mate, 3, 0, PVNode)

	if dump := tt.Dump(); dump.Used != 0 {
		t.Fatalf("Dump().Used = %d, want 0: a search that is already expired at node entry must not store", dump.Used)
	}
}

// TestNullMoveSkippedWithoutNonPawnMaterial checks that a pure king-and-pawn
// ending never counts a null-move attempt: HasNonPawnMaterial is one of
// several eligibility gates, so an all-pawn position can never pass it
// regardless of the other conditions (depth, node type, static eval vs beta).
func TestNullMoveSkippedWithoutNonPawnMaterial(t *testing.T) {
	pos := mustParseFEN(t, "8/8/4k3/4p3/4P3/4K3/8/8 w - - 0 1")
	if pos.HasNonPawnMaterial() {
		t.Fatal("test position must have no non-pawn material for the side to move")
	}

	tt := NewTable(14)
	sc := NewSearchContext(tt, []uint64{pos.Hash}, 10, pos.SideToMove, zerolog.Nop())

	search(pos, sc, -Mate, Mate, 4, 0, CutNode)

	if sc.Stats.SuccessNM != 0 || sc.Stats.FailedNM != 0 {
		t.Fatalf("null-move pruning ran in a pawn-only ending: success=%d failed=%d, want 0,0",
			sc.Stats.SuccessNM, sc.Stats.FailedNM)
	}
}
