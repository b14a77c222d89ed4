package engine

import "github.com/lchess/halcyon/internal/board"

// search is the negamax alpha-beta recursion. It returns a score in
// centipawns from the side-to-move's perspective at (board, height). The
// thirteen steps below run in a fixed order; later steps assume earlier
// ones already ran (e.g. the node counter must be bumped before any
// pruning attempt can return).
func search(pos *board.Position, sc *SearchContext, alpha, beta, depth, height int, nodeType NodeType) int {
	// 1. Time check.
	if sc.TimeExpired() {
		if pos.SideToMove == sc.EvaluatingPlayer {
			return -Mate
		}
		return Mate
	}

	// 2. Threefold-repetition check.
	if sc.IsRepetition(pos.Hash) {
		return 0
	}

	// 3. Horizon: drop to quiescence.
	if depth <= 0 {
		return quiescence(pos, sc, alpha, beta, height)
	}

	// 4. Node counter.
	sc.bumpNodes()

	oldAlpha := alpha
	best := -2 * Mate
	bestMove := board.NoMove
	tableMove := board.NoMove

	// 5. Transposition probe.
	if entry, found := sc.TT.Probe(pos.Hash, pos.SideToMove); found {
		tableMove = entry.Move

		if UseTranspositionTable && int(entry.Depth) >= depth && nodeType != PVNode {
			entryValue := ValueFromTT(int(entry.Value), height)

			switch entry.Type {
			case ExactEntry:
				return entryValue
			case LowerBoundEntry:
				if entryValue > alpha {
					alpha = entryValue
				}
			case UpperBoundEntry:
				if entryValue < beta {
					beta = entryValue
				}
			}

			if alpha >= beta {
				return entryValue
			}
			oldAlpha = alpha
		}
	}

	staticEval := EvaluateWithPawnTable(pos, sc.PawnTable)

	// 6. Razor pruning.
	if UseRazorPruning && depth <= 3 && nodeType != PVNode && staticEval+KnightValue < beta {
		value := quiescence(pos, sc, alpha, beta, height)
		if value < beta {
			return value
		}
	}

	inCheck := !pos.IsNotInCheck(pos.SideToMove)

	// 7. Null-move pruning.
	if UseNullMovePruning && depth >= 3 && nodeType != PVNode &&
		pos.HasNonPawnMaterial() && !inCheck && staticEval >= beta {

		before := sc.Stats.TotalNodes
		nullUndo := pos.MakeNullMove()
		sc.PushHash(pos.Hash)

		value := -search(pos, sc, -beta, -beta+1, depth-4, height+1, CutNode)

		sc.PopHash()
		pos.UnmakeNullMove(nullUndo)

		if value >= beta {
			sc.Stats.SuccessNM++
			return value
		}
		sc.Stats.FailedNM++
		sc.Stats.WastedNM += sc.Stats.TotalNodes - before
	}

	// 8. Internal iterative deepening.
	if UseInternalIterativeDeepening && depth >= 3 && tableMove == board.NoMove && nodeType == PVNode {
		value := search(pos, sc, alpha, beta, depth-3, height, PVNode)
		if value <= alpha {
			value = search(pos, sc, -Mate, beta, depth-3, height, PVNode)
		}
		if entry, found := sc.TT.Probe(pos.Hash, pos.SideToMove); found {
			tableMove = entry.Move
		}
	}

	// 9. Move generation + ordering.
	moves := pos.GeneratePseudoLegalMoves()
	size := moves.Len()
	moveBuf := make([]board.Move, size)
	for i := 0; i < size; i++ {
		moveBuf[i] = moves.Get(i)
	}
	values := make([]int, size)
	scoreMoves(pos, moves, values, height, tableMove, &sc.Killers)

	played := make([]board.Move, 0, size)
	valid := 0
	optimalValue := -Mate

	// 10. Iterate moves via the selection stepper.
	for i := 0; i < size; i++ {
		currentMove := nextMove(moveBuf, values, i, size)

		// Futility pruning.
		if UseFutilityPruning && nodeType != PVNode && valid >= 1 && depth == 1 &&
			!inCheck && currentMove.Flag() == board.FlagNormal && pos.IsEmpty(currentMove.To()) {

			if optimalValue == -Mate {
				optimalValue = staticEval + PawnValue
			}
			if optimalValue <= alpha {
				continue
			}
		}

		// Apply + legality.
		us := pos.SideToMove
		undo := pos.MakeMove(currentMove)
		if !pos.IsNotInCheck(us) {
			pos.UnmakeMove(currentMove, undo)
			continue
		}
		sc.PushHash(pos.Hash)

		played = append(played, currentMove)
		valid++

		// Late-move-reduction eligibility.
		newDepth := depth - 1
		if UseLateMoveReductions &&
			sc.History.isWeak(currentMove) &&
			valid >= 5 &&
			depth >= 3 &&
			!inCheck &&
			nodeType != PVNode &&
			((currentMove.Flag() == board.FlagNormal && undo.CapturedPiece == board.NoPiece) ||
				(currentMove.IsPromotion() && currentMove.Promotion() != board.Queen)) &&
			pos.IsNotInCheck(pos.SideToMove) {
			newDepth = depth - 2
		}

		before := sc.Stats.TotalNodes
		var value int

		if valid == 1 || nodeType != PVNode {
			value = -search(pos, sc, -beta, -alpha, newDepth, height+1, nodeType)

			if value > alpha && newDepth == depth-2 {
				sc.Stats.FailedLMR++
				sc.Stats.WastedLMR += sc.Stats.TotalNodes - before
				value = -search(pos, sc, -beta, -alpha, depth-1, height+1, nodeType)
			} else if newDepth == depth-2 {
				sc.Stats.SuccessLMR++
			}
		} else {
			value = -search(pos, sc, -alpha-1, -alpha, newDepth, height+1, CutNode)

			if value > alpha {
				if newDepth == depth-2 {
					sc.Stats.FailedLMR++
					sc.Stats.WastedLMR += sc.Stats.TotalNodes - before
				}
				value = -search(pos, sc, -beta, -alpha, depth-1, height+1, PVNode)
			} else if newDepth == depth-2 {
				sc.Stats.SuccessLMR++
			}
		}

		sc.PopHash()
		pos.UnmakeMove(currentMove, undo)

		if value > best {
			best = value
			bestMove = currentMove
			if value > alpha {
				alpha = value
			}
		}

		if alpha >= beta {
			if undo.CapturedPiece == board.NoPiece {
				sc.Killers.updateQuiet(height, currentMove)
			} else {
				sc.Killers.updateNoisy(height, currentMove)
			}
			break
		}
	}

	// 11. Terminal detection. A beta-cutoff always leaves valid >= 1, so
	// this only fires when every generated move was tried and none raised
	// alpha to beta.
	if valid == 0 {
		if pos.IsNotInCheck(pos.SideToMove) {
			return 0
		}
		return -Mate + height
	}

	// 12. Cut epilogue: history update.
	if best >= beta && bestMove != board.NoMove {
		sc.History.recordCut(bestMove, played)
	}

	// 13. TT store.
	if !sc.TimeExpired() {
		stored := ValueToTT(best, height)
		switch {
		case best > oldAlpha && best < beta:
			sc.TT.Store(depth, pos.SideToMove, ExactEntry, stored, bestMove, pos.Hash)
		case best >= beta:
			sc.TT.Store(depth, pos.SideToMove, LowerBoundEntry, stored, bestMove, pos.Hash)
		case best <= oldAlpha:
			sc.TT.Store(depth, pos.SideToMove, UpperBoundEntry, stored, bestMove, pos.Hash)
		}
	}

	return best
}
