package engine

import "github.com/lchess/halcyon/internal/board"

// Ordering weights from the move-ordering oracle's weighted-sum scheme.
const (
	tableMoveBonus  = 16384
	killerBonus     = 256
	noisyKillerBonus = 32
	mvvWeight       = 5
	lvaWeight       = 1
	enPassantBonus  = 2 * PawnValue
)

// KillerTable holds the two quiet and two noisy killer slots per ply. Slot 0
// is the most recently recorded cutoff move; inserting shifts slot 0 into
// slot 1.
type KillerTable struct {
	Quiet [MaxHeight][2]board.Move
	Noisy [MaxHeight][2]board.Move
}

func (k *KillerTable) updateQuiet(height int, m board.Move) {
	k.Quiet[height][1] = k.Quiet[height][0]
	k.Quiet[height][0] = m
}

func (k *KillerTable) updateNoisy(height int, m board.Move) {
	k.Noisy[height][1] = k.Noisy[height][0]
	k.Noisy[height][0] = m
}

// scoreMoves fills values[i] with the ordering score of moves[i], following
// the oracle's weighted-sum contract: hash move first, then killers, then
// MVV/LVA on the piece values standing on the from/to squares. A king move's
// from-square term subtracts the king's full value (20000), which outweighs
// the hash-move bonus, so a king move can score below other moves even when
// it is the hash move.
func scoreMoves(pos *board.Position, moves *board.MoveList, values []int, height int, tableMove board.Move, killers *KillerTable) {
	killer1, killer2 := killers.Quiet[height][0], killers.Quiet[height][1]
	killer3, killer4 := killers.Noisy[height][0], killers.Noisy[height][1]

	for i := 0; i < moves.Len(); i++ {
		m := moves.Get(i)
		v := 0

		if m == tableMove {
			v += tableMoveBonus
		}
		if m == killer1 {
			v += killerBonus
		}
		if m == killer2 {
			v += killerBonus
		}
		if m == killer3 {
			v += noisyKillerBonus
		}
		if m == killer4 {
			v += noisyKillerBonus
		}

		fromVal := pos.PieceAt(m.From()).Value()
		toVal := pos.PieceAt(m.To()).Value()
		v += mvvWeight * toVal
		v -= lvaWeight * fromVal

		if m.IsEnPassant() {
			v += enPassantBonus
		}
		if m.IsPromotion() && m.Promotion() == board.Queen {
			v += QueenValue
		}

		values[i] = v
	}
}
