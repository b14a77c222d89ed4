package engine

import "github.com/lchess/halcyon/internal/board"

// quiescenceMinPieces and the promotion-distance checks gate delta pruning:
// skip it near the endgame or when a pawn push to promotion could swing the
// evaluation by more than a queen's worth.
const quiescenceMinPieces = 6

func totalPieceCount(pos *board.Position) int {
	return pos.AllOccupied.PopCount()
}

func pawnOneStepFromPromotion(pos *board.Position) bool {
	whitePawnsOnRank7 := pos.Pieces[board.White][board.Pawn] & board.Rank7
	blackPawnsOnRank2 := pos.Pieces[board.Black][board.Pawn] & board.Rank2
	return whitePawnsOnRank7 != 0 || blackPawnsOnRank2 != 0
}

// quiescence extends the search past the horizon until a quiet position is
// reached: only captures and promotions are explored, anchored to a
// "stand-pat" evaluation that bounds how much a series of captures can
// plausibly swing the score.
func quiescence(pos *board.Position, sc *SearchContext, alpha, beta, height int) int {
	if height >= MaxHeight {
		return EvaluateWithPawnTable(pos, sc.PawnTable)
	}

	sc.bumpNodes()

	value := EvaluateWithPawnTable(pos, sc.PawnTable)
	if value > alpha {
		alpha = value
	}
	if alpha >= beta {
		return value
	}

	if value+QueenValue < alpha &&
		totalPieceCount(pos) >= quiescenceMinPieces &&
		!pawnOneStepFromPromotion(pos) {
		return alpha
	}

	moves := pos.GeneratePseudoCaptures()
	size := moves.Len()
	moveBuf := make([]board.Move, size)
	values := make([]int, size)
	for i := 0; i < size; i++ {
		moveBuf[i] = moves.Get(i)
	}
	scoreMoves(pos, moves, values, height, board.NoMove, &sc.Killers)

	best := value
	us := pos.SideToMove

	for i := 0; i < size; i++ {
		currentMove := nextMove(moveBuf, values, i, size)

		undo := pos.MakeMove(currentMove)
		if !pos.IsNotInCheck(us) {
			pos.UnmakeMove(currentMove, undo)
			continue
		}
		sc.PushHash(pos.Hash)

		childValue := -quiescence(pos, sc, -beta, -alpha, height+1)

		sc.PopHash()
		pos.UnmakeMove(currentMove, undo)

		if childValue > best {
			best = childValue
			if childValue > alpha {
				alpha = childValue
			}
		}

		if alpha >= beta {
			sc.Killers.updateNoisy(height, currentMove)
			break
		}
	}

	return best
}
