package board

// IsNotInCheck reports whether the given side's king is safe from attack in
// the current position. Unlike InCheck, which only answers for the side to
// move, this also answers for the side that just moved (used by the search
// to reject moves that leave the mover's own king in check).
func (p *Position) IsNotInCheck(c Color) bool {
	return !p.IsSquareAttacked(p.KingSquare[c], c.Other())
}

// GeneratePseudoCaptures generates all pseudo-legal captures and promotions,
// without filtering moves that leave the mover's king in check. Callers are
// expected to validate legality themselves after applying a move (see
// IsNotInCheck), mirroring GeneratePseudoLegalMoves.
func (p *Position) GeneratePseudoCaptures() *MoveList {
	ml := NewMoveList()
	p.generateCaptures(ml)
	return ml
}
