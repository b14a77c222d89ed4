package engine

import (
	"sync/atomic"
	"time"

	"github.com/lchess/halcyon/internal/board"
	"github.com/rs/zerolog"
)

// SearchStats are diagnostic counters for one top-level search request.
// They are monotonic: a counter only ever increases within a search.
type SearchStats struct {
	TotalNodes int64
	SuccessNM  int64
	FailedNM   int64
	WastedNM   int64
	SuccessLMR int64
	FailedLMR  int64
	WastedLMR  int64
}

// SearchContext owns every piece of state a search request needs, replacing
// what the source keeps as package-level globals (killer tables, history,
// the transposition table, stats, timing, and which side the score sign
// refers to). Exactly one goroutine — the one running GetBestMove — touches
// it, so nothing here needs synchronization except the Stopped flag, which a
// concurrent "stop" command may set.
type SearchContext struct {
	TT        *Table
	Killers   KillerTable
	History   HistoryTable
	Stats     SearchStats
	PawnTable *PawnTable

	StartTime        time.Time
	EndTime          time.Time
	TotalNodes       int64
	EvaluatingPlayer board.Color

	// posHistory mirrors the board's own hash history: the caller's
	// pre-search game history plus every hash pushed while applying a
	// move (real or null) during this search, popped on revert. Indexing
	// is used by the threefold-repetition scan.
	posHistory []uint64

	Stopped atomic.Bool

	Log zerolog.Logger
}

// NewSearchContext builds a fresh context for one GetBestMove call: a clean
// transposition table generation, reset history counters, and the caller's
// prior game-position hashes seeded so in-search repetition checks see the
// moves already played on the board before the search began.
func NewSearchContext(tt *Table, priorHashes []uint64, seconds int, sideToMove board.Color, logger zerolog.Logger) *SearchContext {
	sc := &SearchContext{
		TT:               tt,
		PawnTable:        NewPawnTable(4),
		EvaluatingPlayer: sideToMove,
		Log:              logger,
	}
	sc.History.Reset()
	sc.TT.NewGeneration()

	sc.posHistory = make([]uint64, len(priorHashes), len(priorHashes)+MaxHeight*2+8)
	copy(sc.posHistory, priorHashes)

	sc.StartTime = time.Now()
	sc.EndTime = sc.StartTime.Add(time.Duration(seconds) * time.Second)
	return sc
}

// TimeExpired reports whether the search has run past its deadline. Polled
// at the top of every alpha-beta node and again before its table store;
// rootSearch and quiescence do not poll it themselves.
func (sc *SearchContext) TimeExpired() bool {
	if sc.Stopped.Load() {
		return true
	}
	return time.Now().After(sc.EndTime)
}

// Elapsed returns wall-clock time since the search began.
func (sc *SearchContext) Elapsed() time.Duration {
	return time.Since(sc.StartTime)
}

// PushHash records a position hash reached by applying a move (real or
// null), extending the repetition-detection history.
func (sc *SearchContext) PushHash(hash uint64) {
	sc.posHistory = append(sc.posHistory, hash)
}

// PopHash reverts the most recent PushHash, mirroring revertMove.
func (sc *SearchContext) PopHash() {
	sc.posHistory = sc.posHistory[:len(sc.posHistory)-1]
}

// IsRepetition scans the position history backward in steps of two (same
// side to move) and reports a draw by threefold repetition once the current
// hash has appeared twice already. hash itself already sits at
// posHistory[n-1] (PushHash runs before the recursive search() call that
// checks it), so same-side-to-move predecessors start two plies further
// back, at n-3.
func (sc *SearchContext) IsRepetition(hash uint64) bool {
	repeated := 0
	n := len(sc.posHistory)
	for i := n - 3; i >= 0; i -= 2 {
		if sc.posHistory[i] == hash {
			repeated++
			if repeated >= 2 {
				return true
			}
		}
	}
	return false
}

// bumpNodes increments both the per-search node counter and the shared
// total; both are monotonic for the lifetime of a search.
func (sc *SearchContext) bumpNodes() {
	sc.TotalNodes++
	sc.Stats.TotalNodes++
}
