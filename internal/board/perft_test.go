package board

import "testing"

func mustParseFEN(t *testing.T, fen string) Board {
	t.Helper()
	b, err := ParseFEN(fen)
	if err != nil {
		t.Fatalf("ParseFEN(%q): %v", fen, err)
	}
	return *b
}

// TestPerftStartingPosition walks the opening position to depth 5, the
// deepest entry in the predefined suite's end-to-end scenario table.
func TestPerftStartingPosition(t *testing.T) {
	b := mustParseFEN(t, StartFEN)

	tests := []struct {
		depth    int
		expected int64
	}{
		{1, 20},
		{2, 400},
		{3, 8902},
		{4, 197281},
		{5, 4865609},
	}

	for _, tc := range tests {
		t.Run("", func(t *testing.T) {
			got := Perft(b, tc.depth)
			if got != tc.expected {
				t.Errorf("Perft(startpos, %d) = %d, want %d", tc.depth, got, tc.expected)
			}
		})
	}
}

// TestPerftKiwipete exercises castling, pins, and discovered checks together.
func TestPerftKiwipete(t *testing.T) {
	b := mustParseFEN(t, "r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq -")

	tests := []struct {
		depth    int
		expected int64
	}{
		{1, 48},
		{2, 2039},
		{3, 97862},
		{4, 4085603},
	}

	for _, tc := range tests {
		t.Run("", func(t *testing.T) {
			got := Perft(b, tc.depth)
			if got != tc.expected {
				t.Errorf("Perft(kiwipete, %d) = %d, want %d", tc.depth, got, tc.expected)
			}
		})
	}
}

// TestPerftPins exercises rook/king pin interactions and en passant near a pin.
func TestPerftPins(t *testing.T) {
	b := mustParseFEN(t, "8/2p5/3p4/KP5r/1R3p1k/8/4P1P1/8 w - -")

	tests := []struct {
		depth    int
		expected int64
	}{
		{1, 14},
		{2, 191},
		{3, 2812},
		{4, 43238},
		{5, 674624},
	}

	for _, tc := range tests {
		t.Run("", func(t *testing.T) {
			got := Perft(b, tc.depth)
			if got != tc.expected {
				t.Errorf("Perft(pins, %d) = %d, want %d", tc.depth, got, tc.expected)
			}
		})
	}
}

// TestPerftCPW5 is chessprogrammingwiki's 5th standard perft position,
// exercising promotions interleaved with castling rights loss.
func TestPerftCPW5(t *testing.T) {
	b := mustParseFEN(t, "rnbq1k1r/pp1Pbppp/2p5/8/2B5/8/PPP1NnPP/RNBQK2R w KQ -")

	tests := []struct {
		depth    int
		expected int64
	}{
		{1, 44},
		{2, 1486},
		{3, 62379},
		{4, 2103487},
	}

	for _, tc := range tests {
		t.Run("", func(t *testing.T) {
			got := Perft(b, tc.depth)
			if got != tc.expected {
				t.Errorf("Perft(cpw5, %d) = %d, want %d", tc.depth, got, tc.expected)
			}
		})
	}
}

// TestPerftPromotions exercises all four promotion pieces from both pushes
// and captures, for the side that is not to move in the other suite entries.
func TestPerftPromotions(t *testing.T) {
	b := mustParseFEN(t, "n1n5/PPPk4/8/8/8/8/4Kppp/5N1N b - -")

	tests := []struct {
		depth    int
		expected int64
	}{
		{1, 24},
		{2, 496},
		{3, 9483},
		{4, 182838},
		{5, 3605103},
	}

	for _, tc := range tests {
		t.Run("", func(t *testing.T) {
			got := Perft(b, tc.depth)
			if got != tc.expected {
				t.Errorf("Perft(promotions, %d) = %d, want %d", tc.depth, got, tc.expected)
			}
		})
	}
}

// TestPerftEnPassantPin is the classic horizontal-pin edge case: the en
// passant capturing pawn and the captured pawn sit on the same rank as the
// king, so removing both at once (not just the capturer) would expose it to
// the rook on that rank. A static per-piece pin mask can't see this — only
// enPassantDiscoversCheck's recomputed occupancy probe catches it.
func TestPerftEnPassantPin(t *testing.T) {
	b := mustParseFEN(t, "8/8/8/8/k2Pp2R/8/8/4K3 b - d3")

	ml := generateLegalMoves(&b)
	for i := 0; i < ml.Len(); i++ {
		if m := ml.Get(i); m.IsEnPassant() {
			t.Errorf("en passant move %v should be illegal (horizontal pin)", m)
		}
	}

	tests := []struct {
		depth    int
		expected int64
	}{
		{1, 6},
		{2, 94},
	}

	for _, tc := range tests {
		t.Run("", func(t *testing.T) {
			got := Perft(b, tc.depth)
			if got != tc.expected {
				t.Errorf("Perft(en passant pin, %d) = %d, want %d", tc.depth, got, tc.expected)
			}
		})
	}
}

// TestPerftDoubleCheck verifies that when two pieces check the king
// simultaneously, only king moves are generated — blocking or capturing a
// single checker can never resolve both at once.
func TestPerftDoubleCheck(t *testing.T) {
	// White king on e1 is checked at once by the black knight on d3 and by
	// the black rook on e8 down the e-file; the black king sits on a8.
	b := mustParseFEN(t, "k3r3/8/8/8/8/3n4/8/4K3 w - -")

	ml := generateLegalMoves(&b)
	for i := 0; i < ml.Len(); i++ {
		if m := ml.Get(i); m.From() != b.WhiteKing {
			t.Errorf("move %v is not a king move, but the king is in double check", m)
		}
	}
}

// TestPerftPinnedKnightHasNoMoves verifies that a pinned knight, unlike a
// pinned slider, generates zero legal moves: a knight can never stay on the
// pin ray after moving.
func TestPerftPinnedKnightHasNoMoves(t *testing.T) {
	b := mustParseFEN(t, "4k3/8/4r3/8/4N3/8/8/4K3 w - -")

	knights := b.Knights & b.Friendly()
	if knights == 0 {
		t.Fatal("fixture has no white knight")
	}
	from := knights.LSB()
	if pinnedBB(&b, White)&SquareBB(from) == 0 {
		t.Fatalf("expected knight on %s to be pinned", from)
	}

	ml := generateLegalMoves(&b)
	for i := 0; i < ml.Len(); i++ {
		if m := ml.Get(i); m.From() == from {
			t.Errorf("pinned knight on %s should have no moves, got %v", from, m)
		}
	}
}

// pinnedBB is a thin test-only wrapper around the unexported pinned().
func pinnedBB(b *Board, us Color) Bitboard {
	return pinned(b, us)
}

// TestCastlingForbiddenWhileInCheck verifies castling is never generated
// when the king is currently in check, regardless of path safety.
func TestCastlingForbiddenWhileInCheck(t *testing.T) {
	b := mustParseFEN(t, "4k3/8/8/8/8/8/4r3/R3K2R w KQ -")
	ml := generateLegalMoves(&b)
	for i := 0; i < ml.Len(); i++ {
		if m := ml.Get(i); m.IsCastling() {
			t.Errorf("castling move %v should be illegal while in check", m)
		}
	}
}

// TestCastlingForbiddenThroughAttackedSquare verifies castling is rejected
// when the king's transit square (not just its destination) is attacked.
func TestCastlingForbiddenThroughAttackedSquare(t *testing.T) {
	b := mustParseFEN(t, "4k3/8/8/8/8/8/5r2/R3K2R w KQ -")
	ml := generateLegalMoves(&b)
	for i := 0; i < ml.Len(); i++ {
		if m := ml.Get(i); m.IsCastling() && m.To() == G1 {
			t.Errorf("kingside castling %v should be illegal: f1 is attacked", m)
		}
	}
}

// TestCastlingForbiddenAcrossOccupiedSquares verifies the long-castle rook
// path check includes the b-file square even though the king never
// transits it.
func TestCastlingForbiddenAcrossOccupiedSquares(t *testing.T) {
	b := mustParseFEN(t, "4k3/8/8/8/8/8/8/RN2K2R w KQ -")
	ml := generateLegalMoves(&b)
	for i := 0; i < ml.Len(); i++ {
		if m := ml.Get(i); m.IsCastling() && m.To() == C1 {
			t.Errorf("queenside castling %v should be illegal: b1 is occupied", m)
		}
	}
}

// TestPerftDepthZero verifies the depth-0 boundary case from §8: a single
// leaf, the position itself.
func TestPerftDepthZero(t *testing.T) {
	b := mustParseFEN(t, StartFEN)
	if got := Perft(b, 0); got != 1 {
		t.Errorf("Perft(startpos, 0) = %d, want 1", got)
	}
}

// TestBulkCountMatchesFullGeneration cross-checks the bulk depth-1 leaf
// counter against the always-generate path for every suite position, the
// property §8 calls out explicitly: both paths must agree everywhere.
func TestBulkCountMatchesFullGeneration(t *testing.T) {
	positions := []string{
		StartFEN,
		"r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq -",
		"8/2p5/3p4/KP5r/1R3p1k/8/4P1P1/8 w - -",
		"r3k2r/Pppp1ppp/1b3nbN/nP6/BBP1P3/q4N2/Pp1P2PP/R2Q1RK1 w kq -",
		"rnbq1k1r/pp1Pbppp/2p5/8/2B5/8/PPP1NnPP/RNBQK2R w KQ -",
		"r4rk1/1pp1qppp/p1np1n2/2b1p1B1/2B1P1b1/P1NP1N2/1PP1QPPP/R4RK1 w - -",
		"n1n5/PPPk4/8/8/8/8/4Kppp/5N1N b - -",
	}

	for _, fen := range positions {
		t.Run(fen, func(t *testing.T) {
			b := mustParseFEN(t, fen)
			for depth := 1; depth <= 3; depth++ {
				bulk := Perft(b, depth)
				full := PerftNoBulk(b, depth)
				if bulk != full {
					t.Errorf("depth %d: bulk=%d full=%d", depth, bulk, full)
				}
			}
		})
	}
}

// TestDivideSumsToPerft verifies Divide's per-root-move counts sum to the
// same total as Perft at the same depth.
func TestDivideSumsToPerft(t *testing.T) {
	b := mustParseFEN(t, StartFEN)
	const depth = 3

	entries := Divide(b, depth)
	var sum int64
	for _, e := range entries {
		sum += e.Nodes
	}

	want := Perft(b, depth)
	if sum != want {
		t.Errorf("Divide sum = %d, want %d", sum, want)
	}
}
