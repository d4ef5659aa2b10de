package board

import (
	"fmt"
	"strconv"
	"strings"
)

// StartFEN is the FEN string for the starting position.
const StartFEN = "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"

// ErrorCode names a distinct FEN/UCI parse failure class. Values are small
// and stable within a process but not meant to be a wire format; callers
// that need the exact failure class switch on the named constant, everyone
// else just treats ParseError as an error.
type ErrorCode int

const (
	_ ErrorCode = iota
	ErrTooFewFields
	ErrBadRankCount
	ErrBadFileCount
	ErrBadPlacementChar
	ErrBadSide
	ErrBadCastling
	ErrBadEnPassant
	ErrBadClock
	ErrBadMoveLength
	ErrBadSquare
	ErrBadPromotion
	ErrNoPieceAtFrom
)

// ParseError reports a FEN or UCI parse failure with a stable Code so driver
// code can distinguish failure classes, grounded on original_source/perft.hh's
// integer parser status codes (here a typed error rather than a bare int).
type ParseError struct {
	Code ErrorCode
	msg  string
}

func (e *ParseError) Error() string {
	return e.msg
}

func newParseError(code ErrorCode, format string, args ...any) *ParseError {
	return &ParseError{Code: code, msg: fmt.Sprintf(format, args...)}
}

// ParseFEN parses a FEN string into a Board.
func ParseFEN(fen string) (*Board, error) {
	parts := strings.Fields(fen)
	if len(parts) < 4 {
		return nil, newParseError(ErrTooFewFields, "invalid FEN: need at least 4 fields, got %d", len(parts))
	}

	b := &Board{EnPassant: NoSquare}
	b.WhiteKing = NoSquare
	b.BlackKing = NoSquare

	if err := parsePiecePlacement(b, parts[0]); err != nil {
		return nil, err
	}

	switch parts[1] {
	case "w":
		b.Side = White
	case "b":
		b.Side = Black
	default:
		return nil, newParseError(ErrBadSide, "invalid side to move: %s", parts[1])
	}

	if err := parseCastlingRights(b, parts[2]); err != nil {
		return nil, err
	}

	if parts[3] != "-" {
		sq, err := ParseSquare(parts[3])
		if err != nil {
			return nil, newParseError(ErrBadEnPassant, "invalid en passant square: %s", parts[3])
		}
		b.EnPassant = sq
	}

	// Half-move clock and full-move number are accepted for FEN round-trip
	// fidelity but are not retained on Board: perft ignores both.
	if len(parts) > 4 {
		if _, err := strconv.Atoi(parts[4]); err != nil {
			return nil, newParseError(ErrBadClock, "invalid half-move clock: %s", parts[4])
		}
	}
	if len(parts) > 5 {
		if _, err := strconv.Atoi(parts[5]); err != nil {
			return nil, newParseError(ErrBadClock, "invalid full-move number: %s", parts[5])
		}
	}

	return b, nil
}

func parsePiecePlacement(b *Board, placement string) error {
	ranks := strings.Split(placement, "/")
	if len(ranks) != 8 {
		return newParseError(ErrBadRankCount, "invalid piece placement: need 8 ranks, got %d", len(ranks))
	}

	for i, rankStr := range ranks {
		rank := 7 - i
		file := 0

		for _, c := range rankStr {
			if file > 7 {
				return newParseError(ErrBadFileCount, "too many squares in rank %d", rank+1)
			}

			if c >= '1' && c <= '8' {
				file += int(c - '0')
				continue
			}

			piece := PieceFromChar(byte(c))
			if piece == NoPiece {
				return newParseError(ErrBadPlacementChar, "invalid piece character: %c", c)
			}
			placePiece(b, piece, NewSquare(file, rank))
			file++
		}

		if file != 8 {
			return newParseError(ErrBadFileCount, "invalid number of squares in rank %d: got %d", rank+1, file)
		}
	}

	return nil
}

// placePiece sets a piece during FEN ingest. Queens are placed into both
// sliding bitboards; kings are recorded only as squares.
func placePiece(b *Board, piece Piece, sq Square) {
	c := piece.Color()
	bb := SquareBB(sq)

	if c == White {
		b.WhitePieces |= bb
	} else {
		b.BlackPieces |= bb
	}

	switch piece.Type() {
	case Pawn:
		b.Pawns |= bb
	case Knight:
		b.Knights |= bb
	case Bishop:
		b.BishopsOrQueens |= bb
	case Rook:
		b.RooksOrQueens |= bb
	case Queen:
		b.BishopsOrQueens |= bb
		b.RooksOrQueens |= bb
	case King:
		if c == White {
			b.WhiteKing = sq
		} else {
			b.BlackKing = sq
		}
	}
}

func parseCastlingRights(b *Board, castling string) error {
	if castling == "-" {
		b.CastlingRights = NoCastling
		return nil
	}

	for _, c := range castling {
		switch c {
		case 'K':
			b.CastlingRights |= WhiteKingSideCastle
		case 'Q':
			b.CastlingRights |= WhiteQueenSideCastle
		case 'k':
			b.CastlingRights |= BlackKingSideCastle
		case 'q':
			b.CastlingRights |= BlackQueenSideCastle
		default:
			return newParseError(ErrBadCastling, "invalid castling character: %c", c)
		}
	}

	return nil
}

// ToFEN returns the FEN representation of the board. Half-move clock and
// full-move number are always emitted as 0 and 1 since Board does not carry
// them (perft's Non-goals exclude move-clock-dependent rules).
func (b *Board) ToFEN() string {
	var sb strings.Builder

	for rank := 7; rank >= 0; rank-- {
		empty := 0
		for file := 0; file < 8; file++ {
			sq := NewSquare(file, rank)
			piece := b.PieceAt(sq)
			if piece == NoPiece {
				empty++
				continue
			}
			if empty > 0 {
				sb.WriteString(strconv.Itoa(empty))
				empty = 0
			}
			sb.WriteString(piece.String())
		}
		if empty > 0 {
			sb.WriteString(strconv.Itoa(empty))
		}
		if rank > 0 {
			sb.WriteByte('/')
		}
	}

	sb.WriteByte(' ')
	if b.Side == White {
		sb.WriteByte('w')
	} else {
		sb.WriteByte('b')
	}

	sb.WriteByte(' ')
	sb.WriteString(b.CastlingRights.String())

	sb.WriteByte(' ')
	sb.WriteString(b.EnPassant.String())

	sb.WriteString(" 0 1")

	return sb.String()
}
