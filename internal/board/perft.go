package board

// The legal move generator and perft tree walker. Generation is strictly
// legal by construction: checkers, unsafeSquares, and pinned are each
// computed once per node, and every generator below only ever proposes a
// move that is already known to leave the side-to-move king safe, aside
// from en passant, whose horizontal-pin edge case needs a dedicated probe.
//
// Grounded move-for-move on original_source/perft.hh's perft_colour /
// perft_king / perft_type / perft_promotions / perft_pawns (the recursive
// path below) and count_moves / count_type / count_pawns (the bulk path in
// bulkLeafCount) — this supersedes the teacher's generate-pseudo-legal-
// then-filter movegen.go entirely.

// DivideEntry is one root move and the leaf count beneath it, as printed by
// the CLI's --divide mode.
type DivideEntry struct {
	Move  Move
	Nodes int64
}

// Perft returns the number of legal move sequences of exactly depth plies
// from b. At depth 1 it uses the bulk leaf counter (§4.H) instead of
// building and recursing into a full move list.
func Perft(b Board, depth int) int64 {
	if depth == 0 {
		return 1
	}
	if depth == 1 {
		return bulkLeafCount(&b)
	}

	ml := generateLegalMoves(&b)
	var nodes int64
	for i := 0; i < ml.Len(); i++ {
		nodes += Perft(applyMove(b, ml.Get(i)), depth-1)
	}
	return nodes
}

// PerftNoBulk is identical to Perft but always recurses through the full
// move-list path, even at depth 1. Used to cross-check the bulk counter:
// both must agree on every position in the predefined suite (§8).
func PerftNoBulk(b Board, depth int) int64 {
	if depth == 0 {
		return 1
	}

	ml := generateLegalMoves(&b)
	if depth == 1 {
		return int64(ml.Len())
	}

	var nodes int64
	for i := 0; i < ml.Len(); i++ {
		nodes += PerftNoBulk(applyMove(b, ml.Get(i)), depth-1)
	}
	return nodes
}

// Divide returns the leaf count contributed by each legal root move.
func Divide(b Board, depth int) []DivideEntry {
	if depth == 0 {
		return nil
	}

	ml := generateLegalMoves(&b)
	entries := make([]DivideEntry, 0, ml.Len())
	for i := 0; i < ml.Len(); i++ {
		m := ml.Get(i)
		entries = append(entries, DivideEntry{Move: m, Nodes: Perft(applyMove(b, m), depth-1)})
	}
	return entries
}

// generateLegalMoves builds the full legal move list for the side to move.
func generateLegalMoves(b *Board) *MoveList {
	ml := &MoveList{}

	us := b.Side
	ksq := b.KingSquare(us)
	occ := b.Occupied()
	friendly := b.Friendly()
	enemy := b.Enemy()
	empty := ^occ

	chk := checkers(b, us)
	unsafe := unsafeSquares(b, us)
	pin := pinned(b, us)

	for t := KingAttacks(ksq) &^ friendly &^ unsafe; t != 0; {
		to := t.PopLSB()
		ml.Add(NewMove(ksq, to))
	}

	numCheckers := chk.PopCount()
	if numCheckers >= 2 {
		return ml
	}

	targetMask := Universe
	inCheck := numCheckers == 1
	var checkerSq Square
	if inCheck {
		checkerSq = chk.LSB()
		targetMask = SquareBB(checkerSq) | LineBetween(ksq, checkerSq)
	}

	if !inCheck {
		generateCastling(b, us, unsafe, occ, ml)
	}

	for kn := b.Knights & friendly &^ pin; kn != 0; {
		from := kn.PopLSB()
		for t := KnightAttacks(from) &^ friendly & targetMask; t != 0; {
			to := t.PopLSB()
			ml.Add(NewMove(from, to))
		}
	}

	generateSliderMoves(b.BishopsOrQueens&friendly, friendly, targetMask, occ, pin, ksq, true, ml)
	generateSliderMoves(b.RooksOrQueens&friendly, friendly, targetMask, occ, pin, ksq, false, ml)

	generatePawnMoves(b, us, friendly, enemy, empty, targetMask, pin, ksq, ml)
	generateEnPassant(b, us, friendly, pin, ksq, inCheck, checkerSq, ml)

	return ml
}

func generateSliderMoves(pieces, friendly, targetMask, occ, pin Bitboard, ksq Square, diagonal bool, ml *MoveList) {
	for p := pieces; p != 0; {
		from := p.PopLSB()
		var attacks Bitboard
		if diagonal {
			attacks = BishopAttacks(from, occ)
		} else {
			attacks = RookAttacks(from, occ)
		}
		attacks &^= friendly
		attacks &= targetMask
		if pin&SquareBB(from) != 0 {
			attacks &= LineConnecting(ksq, from)
		}
		for t := attacks; t != 0; {
			to := t.PopLSB()
			ml.Add(NewMove(from, to))
		}
	}
}

func generateCastling(b *Board, us Color, unsafe, occ Bitboard, ml *MoveList) {
	if us == White {
		if b.CastlingRights&WhiteKingSideCastle != 0 &&
			occ&(SquareBB(F1)|SquareBB(G1)) == 0 &&
			unsafe&(SquareBB(E1)|SquareBB(F1)|SquareBB(G1)) == 0 {
			ml.Add(NewCastling(E1, G1))
		}
		if b.CastlingRights&WhiteQueenSideCastle != 0 &&
			occ&(SquareBB(B1)|SquareBB(C1)|SquareBB(D1)) == 0 &&
			unsafe&(SquareBB(E1)|SquareBB(D1)|SquareBB(C1)) == 0 {
			ml.Add(NewCastling(E1, C1))
		}
		return
	}

	if b.CastlingRights&BlackKingSideCastle != 0 &&
		occ&(SquareBB(F8)|SquareBB(G8)) == 0 &&
		unsafe&(SquareBB(E8)|SquareBB(F8)|SquareBB(G8)) == 0 {
		ml.Add(NewCastling(E8, G8))
	}
	if b.CastlingRights&BlackQueenSideCastle != 0 &&
		occ&(SquareBB(B8)|SquareBB(C8)|SquareBB(D8)) == 0 &&
		unsafe&(SquareBB(E8)|SquareBB(D8)|SquareBB(C8)) == 0 {
		ml.Add(NewCastling(E8, C8))
	}
}

// generatePawnMoves handles the five non-en-passant pawn sub-cases of §4.H
// (en passant is generated separately since it needs the discovered-check probe).
// Unpinned pawns are generated in bulk via shifted masks; pinned pawns are
// generated one at a time with the pin ray intersected into their target
// mask, since a per-pawn "from" square is needed to look up its pin line.
func generatePawnMoves(b *Board, us Color, friendly, enemy, empty, targetMask, pin Bitboard, ksq Square, ml *MoveList) {
	pawns := b.Pawns & friendly

	addPawnMoves(pawns&^pin, us, enemy, empty, targetMask, ml)

	for p := pawns & pin; p != 0; {
		from := p.PopLSB()
		addPawnMoves(SquareBB(from), us, enemy, empty, targetMask&LineConnecting(ksq, from), ml)
	}
}

func addPawnMoves(pawns Bitboard, us Color, enemy, empty, targetMask Bitboard, ml *MoveList) {
	if pawns == 0 {
		return
	}

	var push1, attackL, attackR, promotionRank Bitboard
	var pushDir int

	if us == White {
		push1 = pawns.North() & empty
		attackL = pawns.NorthWest() & enemy
		attackR = pawns.NorthEast() & enemy
		promotionRank = Rank8
		pushDir = 8
	} else {
		push1 = pawns.South() & empty
		attackL = pawns.SouthWest() & enemy
		attackR = pawns.SouthEast() & enemy
		promotionRank = Rank1
		pushDir = -8
	}

	var push2 Bitboard
	if us == White {
		push2 = (push1 & Rank3).North() & empty
	} else {
		push2 = (push1 & Rank6).South() & empty
	}

	for t := push1 &^ promotionRank & targetMask; t != 0; {
		to := t.PopLSB()
		ml.Add(NewMove(Square(int(to)-pushDir), to))
	}
	for t := push2 & targetMask; t != 0; {
		to := t.PopLSB()
		ml.Add(NewMove(Square(int(to)-2*pushDir), to))
	}
	for t := attackL &^ promotionRank & targetMask; t != 0; {
		to := t.PopLSB()
		ml.Add(NewMove(Square(int(to)-pushDir+1), to))
	}
	for t := attackR &^ promotionRank & targetMask; t != 0; {
		to := t.PopLSB()
		ml.Add(NewMove(Square(int(to)-pushDir-1), to))
	}
	for t := push1 & promotionRank & targetMask; t != 0; {
		to := t.PopLSB()
		addPromotions(ml, Square(int(to)-pushDir), to)
	}
	for t := attackL & promotionRank & targetMask; t != 0; {
		to := t.PopLSB()
		addPromotions(ml, Square(int(to)-pushDir+1), to)
	}
	for t := attackR & promotionRank & targetMask; t != 0; {
		to := t.PopLSB()
		addPromotions(ml, Square(int(to)-pushDir-1), to)
	}
}

func addPromotions(ml *MoveList, from, to Square) {
	ml.Add(NewPromotion(from, to, Queen))
	ml.Add(NewPromotion(from, to, Rook))
	ml.Add(NewPromotion(from, to, Bishop))
	ml.Add(NewPromotion(from, to, Knight))
}

// generateEnPassant generates the (at most two) en passant captures legal in
// this position. Each candidate is checked against check-evasion (does
// capturing resolve the only checker?), the ordinary pin ray, and finally
// the discovered-check probe that a static pin mask cannot decide.
func generateEnPassant(b *Board, us Color, friendly, pin Bitboard, ksq Square, inCheck bool, checkerSq Square, ml *MoveList) {
	if b.EnPassant == NoSquare {
		return
	}

	epSq := b.EnPassant
	epBB := SquareBB(epSq)

	var epAttackers Bitboard
	var capturedSq Square
	if us == White {
		epAttackers = (epBB.SouthWest() | epBB.SouthEast()) & b.Pawns & friendly
		capturedSq = epSq - 8
	} else {
		epAttackers = (epBB.NorthWest() | epBB.NorthEast()) & b.Pawns & friendly
		capturedSq = epSq + 8
	}

	for a := epAttackers; a != 0; {
		from := a.PopLSB()

		if inCheck && capturedSq != checkerSq && epSq != checkerSq {
			continue
		}
		if pin&SquareBB(from) != 0 && !Aligned(ksq, from, epSq) {
			continue
		}
		if enPassantDiscoversCheck(b, us, from, epSq, capturedSq) {
			continue
		}

		ml.Add(NewEnPassant(from, epSq))
	}
}

// bulkLeafCount computes the depth-1 leaf count directly from popcounts of
// the legal target bitboards rather than by constructing a Move for each
// candidate and recursing — grounded on original_source/perft.hh's
// count_moves/count_type/count_pawns.
func bulkLeafCount(b *Board) int64 {
	us := b.Side
	ksq := b.KingSquare(us)
	occ := b.Occupied()
	friendly := b.Friendly()
	enemy := b.Enemy()
	empty := ^occ

	chk := checkers(b, us)
	unsafe := unsafeSquares(b, us)
	pin := pinned(b, us)

	var nodes int64
	nodes += int64((KingAttacks(ksq) &^ friendly &^ unsafe).PopCount())

	numCheckers := chk.PopCount()
	if numCheckers >= 2 {
		return nodes
	}

	targetMask := Universe
	inCheck := numCheckers == 1
	var checkerSq Square
	if inCheck {
		checkerSq = chk.LSB()
		targetMask = SquareBB(checkerSq) | LineBetween(ksq, checkerSq)
	}

	if !inCheck {
		var castleML MoveList
		generateCastling(b, us, unsafe, occ, &castleML)
		nodes += int64(castleML.Len())
	}

	for kn := b.Knights & friendly &^ pin; kn != 0; {
		from := kn.PopLSB()
		nodes += int64((KnightAttacks(from) &^ friendly & targetMask).PopCount())
	}

	nodes += countSliderMoves(b.BishopsOrQueens&friendly, friendly, targetMask, occ, pin, ksq, true)
	nodes += countSliderMoves(b.RooksOrQueens&friendly, friendly, targetMask, occ, pin, ksq, false)

	pawns := b.Pawns & friendly
	nodes += countPawnMoves(pawns&^pin, us, enemy, empty, targetMask)
	for p := pawns & pin; p != 0; {
		from := p.PopLSB()
		nodes += countPawnMoves(SquareBB(from), us, enemy, empty, targetMask&LineConnecting(ksq, from))
	}

	var epML MoveList
	generateEnPassant(b, us, friendly, pin, ksq, inCheck, checkerSq, &epML)
	nodes += int64(epML.Len())

	return nodes
}

func countSliderMoves(pieces, friendly, targetMask, occ, pin Bitboard, ksq Square, diagonal bool) int64 {
	var n int64
	for p := pieces; p != 0; {
		from := p.PopLSB()
		var attacks Bitboard
		if diagonal {
			attacks = BishopAttacks(from, occ)
		} else {
			attacks = RookAttacks(from, occ)
		}
		attacks &^= friendly
		attacks &= targetMask
		if pin&SquareBB(from) != 0 {
			attacks &= LineConnecting(ksq, from)
		}
		n += int64(attacks.PopCount())
	}
	return n
}

func countPawnMoves(pawns Bitboard, us Color, enemy, empty, targetMask Bitboard) int64 {
	if pawns == 0 {
		return 0
	}

	var push1, attackL, attackR, promotionRank Bitboard

	if us == White {
		push1 = pawns.North() & empty
		attackL = pawns.NorthWest() & enemy
		attackR = pawns.NorthEast() & enemy
		promotionRank = Rank8
	} else {
		push1 = pawns.South() & empty
		attackL = pawns.SouthWest() & enemy
		attackR = pawns.SouthEast() & enemy
		promotionRank = Rank1
	}

	var push2 Bitboard
	if us == White {
		push2 = (push1 & Rank3).North() & empty
	} else {
		push2 = (push1 & Rank6).South() & empty
	}

	var n int64
	n += int64((push1 &^ promotionRank & targetMask).PopCount())
	n += int64((push2 & targetMask).PopCount())
	n += int64((attackL &^ promotionRank & targetMask).PopCount())
	n += int64((attackR &^ promotionRank & targetMask).PopCount())
	// Each promotion target yields four distinct moves.
	n += 4 * int64((push1&promotionRank&targetMask).PopCount())
	n += 4 * int64((attackL&promotionRank&targetMask).PopCount())
	n += 4 * int64((attackR&promotionRank&targetMask).PopCount())

	return n
}
