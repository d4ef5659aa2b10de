package board

// The three per-node legality queries computed once by the perft walker
// before any move is generated, grounded directly on original_source/perft.hh's
// checks<Us>, unsafe_squares<Us>, and pinned_pieces<Us>.

// checkers returns the enemy pieces currently attacking us's king.
func checkers(b *Board, us Color) Bitboard {
	them := us.Other()
	ksq := b.KingSquare(us)
	occ := b.Occupied()
	enemyBishops := b.BishopsOrQueens & b.occupancyOf(them)
	enemyRooks := b.RooksOrQueens & b.occupancyOf(them)

	return (BishopAttacks(ksq, occ) & enemyBishops) |
		(RookAttacks(ksq, occ) & enemyRooks) |
		(KnightAttacks(ksq) & b.Knights & b.occupancyOf(them)) |
		(PawnAttacks(ksq, us) & b.Pawns & b.occupancyOf(them))
}

// unsafeSquares returns every square attacked by the enemy of us, with us's
// king removed from the occupancy first. Removing the king is essential: a
// king retreating straight back along a slider's ray would otherwise be
// declared safe on a square that is still attacked once the king has
// actually vacated its original square.
func unsafeSquares(b *Board, us Color) Bitboard {
	them := us.Other()
	occWithoutKing := b.Occupied() &^ SquareBB(b.KingSquare(us))
	enemyOcc := b.occupancyOf(them)

	enemyBishops := b.BishopsOrQueens & enemyOcc
	enemyRooks := b.RooksOrQueens & enemyOcc
	enemyKnights := b.Knights & enemyOcc
	enemyPawns := b.Pawns & enemyOcc
	enemyKingSq := b.KingSquare(them)

	var unsafe Bitboard
	for bb := enemyBishops; bb != 0; {
		sq := bb.PopLSB()
		unsafe |= BishopAttacks(sq, occWithoutKing)
	}
	for bb := enemyRooks; bb != 0; {
		sq := bb.PopLSB()
		unsafe |= RookAttacks(sq, occWithoutKing)
	}
	for bb := enemyKnights; bb != 0; {
		sq := bb.PopLSB()
		unsafe |= KnightAttacks(sq)
	}
	for bb := enemyPawns; bb != 0; {
		sq := bb.PopLSB()
		unsafe |= PawnAttacks(sq, them)
	}
	unsafe |= KingAttacks(enemyKingSq)

	return unsafe
}

// pinned returns friendly pieces that, if moved off the ray they currently
// occupy between the enemy slider and us's king, would expose that king.
// Computed by x-ray: find candidate pinners attacking the empty-board ray
// from the king, then check that exactly one piece — one of ours — sits
// between pinner and king.
func pinned(b *Board, us Color) Bitboard {
	them := us.Other()
	ksq := b.KingSquare(us)
	occ := b.Occupied()
	friendly := b.occupancyOf(us)
	enemyOcc := b.occupancyOf(them)

	var result Bitboard

	diagonalPinners := BishopAttacks(ksq, 0) & b.BishopsOrQueens & enemyOcc
	for bb := diagonalPinners; bb != 0; {
		sq := bb.PopLSB()
		between := LineBetween(ksq, sq) & occ
		if between.PopCount() == 1 && between&friendly != 0 {
			result |= between
		}
	}

	orthogonalPinners := RookAttacks(ksq, 0) & b.RooksOrQueens & enemyOcc
	for bb := orthogonalPinners; bb != 0; {
		sq := bb.PopLSB()
		between := LineBetween(ksq, sq) & occ
		if between.PopCount() == 1 && between&friendly != 0 {
			result |= between
		}
	}

	return result
}

// enPassantDiscoversCheck reports whether playing the en passant capture
// from -> epSquare, removing the captured pawn at capturedSq, would expose
// us's king to a rook/queen or bishop/queen ray — the one case a static pin
// mask cannot decide, because en passant removes two pawns from the same
// rank at once (the classic horizontal-pin edge case).
func enPassantDiscoversCheck(b *Board, us Color, from, epSquare, capturedSq Square) bool {
	them := us.Other()
	ksq := b.KingSquare(us)
	occ := (b.Occupied() &^ SquareBB(from) &^ SquareBB(capturedSq)) | SquareBB(epSquare)

	enemyBishops := b.BishopsOrQueens & b.occupancyOf(them)
	enemyRooks := b.RooksOrQueens & b.occupancyOf(them)

	if BishopAttacks(ksq, occ)&enemyBishops != 0 {
		return true
	}
	return RookAttacks(ksq, occ)&enemyRooks != 0
}
