package engine

import "github.com/lchess/halcyon/internal/board"

// RootMoveList is the root's ordered move list: moves paired with the score
// each earned in the last completed root search, descending-sorted after
// every depth so the next, deeper iteration explores in improved order.
type RootMoveList struct {
	Moves    []board.Move
	Values   []int
	BestMove board.Move
}

// NewRootMoveList generates every pseudo-legal root move with a zeroed
// score; illegal moves are filtered out when rootSearch applies them.
func NewRootMoveList(pos *board.Position) *RootMoveList {
	ml := pos.GeneratePseudoLegalMoves()
	rml := &RootMoveList{
		Moves:  make([]board.Move, ml.Len()),
		Values: make([]int, ml.Len()),
	}
	for i := 0; i < ml.Len(); i++ {
		rml.Moves[i] = ml.Get(i)
	}
	return rml
}

// rootUpperBoundScore is the sentinel ordering score for a root move that
// turned out to be illegal (leaves the mover's own king in check). It sorts
// behind every move with a searched score, but ahead of moves that failed
// low, whose ordering score is -(1<<28) plus their node count.
const rootUpperBoundScore = -6 * Mate

// rootSearch distinguishes the root node from interior alpha-beta nodes: it
// tries every move (no transposition cutoff, no pruning) so every move's
// score stays calibrated for re-ordering at the next depth, and exposes a
// best move alongside per-move scores.
func rootSearch(pos *board.Position, sc *SearchContext, rml *RootMoveList, depth int) int {
	alpha, beta := -2*Mate, 2*Mate
	best := -2 * Mate
	valid := 0

	for i := 0; i < len(rml.Moves); i++ {
		m := rml.Moves[i]
		nodesBefore := sc.TotalNodes

		us := pos.SideToMove
		undo := pos.MakeMove(m)
		if !pos.IsNotInCheck(us) {
			pos.UnmakeMove(m, undo)
			rml.Values[i] = rootUpperBoundScore
			continue
		}
		sc.PushHash(pos.Hash)

		valid++

		var value int
		if valid == 1 {
			value = -search(pos, sc, -beta, -alpha, depth-1, 1, PVNode)
		} else {
			value = -search(pos, sc, -alpha-1, -alpha, depth-1, 1, CutNode)
			if value > alpha {
				value = -search(pos, sc, -beta, -alpha, depth-1, 1, PVNode)
			}
		}

		sc.PopHash()
		pos.UnmakeMove(m, undo)

		switch {
		case value <= alpha:
			rml.Values[i] = -(1 << 28) + int(sc.TotalNodes-nodesBefore)
		case value >= beta:
			rml.Values[i] = beta
		default:
			rml.Values[i] = value
		}

		if value > best {
			best = value
			rml.BestMove = m
			if value > alpha {
				alpha = value
			}
		}

		if alpha >= beta {
			break
		}
	}

	sortMoveListDescending(rml.Moves, rml.Values)
	return best
}
