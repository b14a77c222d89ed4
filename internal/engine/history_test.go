package engine

import (
	"testing"

	"github.com/lchess/halcyon/internal/board"
)

func TestHistoryResetBaseline(t *testing.T) {
	var h HistoryTable
	h.Reset()

	var m board.Move = 1234
	if h.Good[m] != 1 || h.Total[m] != 1 {
		t.Fatalf("Reset: Good=%d Total=%d, want 1,1", h.Good[m], h.Total[m])
	}
	if h.ratio16384(m) != 16384 {
		t.Fatalf("ratio16384 after reset = %d, want 16384", h.ratio16384(m))
	}
	if h.isWeak(m) {
		t.Fatal("a move with no history should not be weak")
	}
}

// TestHistoryGoodNeverExceedsTotal checks the invariant that a move cannot
// be credited with more cutoffs than times it was tried.
func TestHistoryGoodNeverExceedsTotal(t *testing.T) {
	var h HistoryTable
	h.Reset()

	var best board.Move = 10
	played := []board.Move{20, 30, best}

	for i := 0; i < 50; i++ {
		h.recordCut(best, played)
	}

	for _, m := range played {
		if h.Good[m] > h.Total[m] {
			t.Fatalf("move %d: Good=%d > Total=%d", m, h.Good[m], h.Total[m])
		}
	}
}

// TestHistoryOverflowHalves checks that both counters are halved once Total
// reaches the overflow threshold, keeping the ratio roughly stable instead
// of saturating.
func TestHistoryOverflowHalves(t *testing.T) {
	var h HistoryTable
	h.Reset()

	var m board.Move = 42
	played := []board.Move{m}

	for i := 0; i < historyOverflow+10; i++ {
		h.recordCut(m, played)
	}

	if h.Total[m] >= historyOverflow {
		t.Fatalf("Total[m] = %d, want below overflow threshold %d after halving", h.Total[m], historyOverflow)
	}
}

func TestHistoryWeakThreshold(t *testing.T) {
	var h HistoryTable
	h.Reset()

	var weak board.Move = 7
	played := []board.Move{weak}

	// Tried often, cut only once: ratio should fall below the threshold.
	h.recordCut(weak, played)
	for i := 0; i < 100; i++ {
		h.Total[weak]++
	}
	if !h.isWeak(weak) {
		t.Fatalf("move tried 100 times with a single early cutoff should be weak, ratio=%d", h.ratio16384(weak))
	}
}
