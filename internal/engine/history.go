package engine

import "github.com/lchess/halcyon/internal/board"

// historySize covers every possible 16-bit move token; the tables are
// indexed directly by Move, not by a compacted key.
const historySize = 1 << 16

// historyOverflow is the point at which both counters for a move are halved
// to keep the ratio while bounding magnitude.
const historyOverflow = 16384

// historyThreshold is the 16384-scaled success ratio below which a move is
// historically weak enough to be a late-move-reduction candidate.
const historyThreshold = 9830

// HistoryTable tracks, per move token, how often a move was the one that
// caused a beta-cutoff (Good) against how often it was tried (Total).
type HistoryTable struct {
	Good  [historySize]int32
	Total [historySize]int32
}

// Reset reinitializes both counters to 1, the baseline that keeps the ratio
// defined before any move has ever been played.
func (h *HistoryTable) Reset() {
	for i := range h.Good {
		h.Good[i] = 1
		h.Total[i] = 1
	}
}

// ratio16384 returns 16384*Good/Total for the given move.
func (h *HistoryTable) ratio16384(m board.Move) int {
	return int(16384*h.Good[m]) / int(h.Total[m])
}

// isWeak reports whether a move's cutoff ratio is below the LMR threshold.
func (h *HistoryTable) isWeak(m board.Move) bool {
	return h.ratio16384(m) < historyThreshold
}

// recordCut bumps bestMove's Good counter and every played move's Total
// counter, halving both (rounding up) for any move whose Total overflows.
func (h *HistoryTable) recordCut(bestMove board.Move, played []board.Move) {
	h.Good[bestMove]++
	for i := len(played) - 1; i >= 0; i-- {
		m := played[i]
		h.Total[m]++
		if h.Total[m] >= historyOverflow {
			h.Total[m] = (h.Total[m] + 1) / 2
			h.Good[m] = (h.Good[m] + 1) / 2
		}
	}
}
