package board

import (
	"fmt"
	"strings"
)

// Color represents the color of a piece or player.
type Color uint8

const (
	White Color = iota
	Black
	NoColor Color = 2
)

// Other returns the opposite color.
func (c Color) Other() Color {
	return c ^ 1
}

// Forward returns the rank direction this color's pawns move in.
func (c Color) Forward() int {
	if c == White {
		return 1
	}
	return -1
}

// String returns the color name.
func (c Color) String() string {
	switch c {
	case White:
		return "White"
	case Black:
		return "Black"
	default:
		return "NoColor"
	}
}

// ParseColor accepts "White"/"Black" in any case, or just the initial.
func ParseColor(s string) (Color, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "w", "white":
		return White, nil
	case "b", "black":
		return Black, nil
	}
	return NoColor, fmt.Errorf("invalid color: %q", s)
}

// PieceType represents the type of a chess piece.
type PieceType uint8

const (
	Pawn PieceType = iota
	Knight
	Bishop
	Rook
	Queen
	King
	NoPieceType PieceType = 6
)

// String returns the piece type name.
func (pt PieceType) String() string {
	switch pt {
	case Pawn:
		return "Pawn"
	case Knight:
		return "Knight"
	case Bishop:
		return "Bishop"
	case Rook:
		return "Rook"
	case Queen:
		return "Queen"
	case King:
		return "King"
	default:
		return "None"
	}
}

// Letter returns the upper-case notation letter ('P' for pawns).
func (pt PieceType) Letter() byte {
	if pt >= NoPieceType {
		return ' '
	}
	return "PNBRQK"[pt]
}

// Char returns the FEN character for a piece of this type and color.
func (pt PieceType) Char(c Color) byte {
	ch := pt.Letter()
	if c == Black && ch != ' ' {
		ch += 'a' - 'A'
	}
	return ch
}

// IsPromotionTarget reports whether a pawn may promote to this type.
func (pt PieceType) IsPromotionTarget() bool {
	return pt == Knight || pt == Bishop || pt == Rook || pt == Queen
}

// ParsePieceType accepts a full name ("Knight") or a notation letter ("N"), in any case.
func ParsePieceType(s string) (PieceType, error) {
	s = strings.TrimSpace(s)
	if len(s) == 1 {
		switch strings.ToUpper(s)[0] {
		case 'P':
			return Pawn, nil
		case 'N':
			return Knight, nil
		case 'B':
			return Bishop, nil
		case 'R':
			return Rook, nil
		case 'Q':
			return Queen, nil
		case 'K':
			return King, nil
		}
		return NoPieceType, fmt.Errorf("invalid piece type: %q", s)
	}
	for pt := Pawn; pt < NoPieceType; pt++ {
		if strings.EqualFold(pt.String(), s) {
			return pt, nil
		}
	}
	return NoPieceType, fmt.Errorf("invalid piece type: %q", s)
}

// PieceFromChar converts a FEN character to a type and color.
func PieceFromChar(c byte) (PieceType, Color, bool) {
	color := White
	if c >= 'a' && c <= 'z' {
		color = Black
		c -= 'a' - 'A'
	}
	idx := strings.IndexByte("PNBRQK", c)
	if idx < 0 {
		return NoPieceType, NoColor, false
	}
	return PieceType(idx), color, true
}
