package engine

import (
	"fmt"

	"github.com/lchess/halcyon/internal/board"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// ttLog2Entries sizes the transposition table at 2^22 entries, the fresh
// generation allocated by every GetBestMove call.
const ttLog2Entries = 22

// Driver drives iterative-deepening search requests. It keeps only its
// logger between requests; every GetBestMove call allocates a fresh
// transposition table.
type Driver struct {
	Logger zerolog.Logger
}

// NewDriver builds a driver using the package logger unless a distinct one
// is set on the returned value.
func NewDriver() *Driver {
	return &Driver{Logger: log.Logger}
}

// GetBestMove runs iterative deepening from depth 1 up to MaxDepth, bounded
// by a wall-clock budget in seconds, and returns the best move found.
// priorHashes is the game's position-hash history up to and including the
// current position, consulted for in-search threefold-repetition checks.
// stop, if non-nil, is a channel the caller closes (e.g. on a UCI "stop"
// command) to cancel the search cooperatively at the next polled node.
func (d *Driver) GetBestMove(pos *board.Position, priorHashes []uint64, seconds int, logging bool, stop <-chan struct{}) board.Move {
	tt := NewTable(ttLog2Entries)
	sc := NewSearchContext(tt, priorHashes, seconds, pos.SideToMove, d.Logger)

	if stop != nil {
		go func() {
			<-stop
			sc.Stopped.Store(true)
		}()
	}

	rml := NewRootMoveList(pos)

	if !logging {
		fmt.Println(pos.String())
		fmt.Println("|  Depth  |  Score  |   Nodes   | Elapsed | Best |")
	}

	var value int
	for depth := 1; depth <= MaxDepth; depth++ {
		value = rootSearch(pos, sc, rml, depth)

		elapsed := sc.Elapsed()
		if logging {
			sc.Log.Info().
				Int("depth", depth).
				Int("score_cp", 100*value/PawnValue).
				Int64("time_ms", elapsed.Milliseconds()).
				Int64("nodes", sc.TotalNodes).
				Str("pv", rml.BestMove.String()).
				Msg("info")
		} else {
			fmt.Printf("|%9d|%9d|%11d|%9d| %s |\n",
				depth, 100*value/PawnValue, sc.TotalNodes, int(elapsed.Seconds()), rml.BestMove.String())
		}

		if float64(elapsed.Seconds())*4 > float64(seconds) {
			break
		}
		if sc.Stopped.Load() {
			break
		}
	}

	dump := sc.TT.Dump()
	sc.Log.Debug().
		Int("tt_used", dump.Used).
		Int("tt_buckets", dump.Buckets).
		Int64("success_nm", sc.Stats.SuccessNM).
		Int64("failed_nm", sc.Stats.FailedNM).
		Int64("wasted_nm", sc.Stats.WastedNM).
		Int64("success_lmr", sc.Stats.SuccessLMR).
		Int64("failed_lmr", sc.Stats.FailedLMR).
		Int64("wasted_lmr", sc.Stats.WastedLMR).
		Msg("search stats")

	return rml.BestMove
}
