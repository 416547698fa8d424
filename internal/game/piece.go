package game

import (
	"fmt"

	"github.com/hailam/chessrules/internal/board"
)

// enPassantWindow is how many turn boundaries a double step stays capturable for.
// The mover's own boundary consumes one, leaving the opponent's turn.
const enPassantWindow = 2

// CastleSide selects kingside or queenside castling.
type CastleSide uint8

const (
	Kingside CastleSide = iota
	Queenside
)

// String returns the side name.
func (s CastleSide) String() string {
	if s == Kingside {
		return "kingside"
	}
	return "queenside"
}

// dir is the file direction from the king toward that side's rook.
func (s CastleSide) dir() int {
	if s == Kingside {
		return 1
	}
	return -1
}

type castleRight struct {
	allowed bool
	rook    *Piece
}

// moveCache holds a piece's candidate list for the current turn.
// generated means the pseudo-legal list is present; filtered means it was
// narrowed to fully-legal moves. Both are cleared together at the turn boundary.
type moveCache struct {
	moves     []Move
	generated bool
	filtered  bool
}

func (c *moveCache) invalidate() {
	c.moves = nil
	c.generated = false
	c.filtered = false
}

// Piece is one entry of a roster. Captured pieces stay in the roster with the
// captured flag set so their identity remains valid for history and notation.
type Piece struct {
	id       int
	kind     board.PieceType
	color    board.Color
	square   board.Square
	prev     board.Square
	captured bool
	moved    bool
	cache    moveCache

	// Pawn: turn boundaries left during which it can be taken en passant.
	enPassant int

	// King: castling rights, indexed by CastleSide.
	castle [2]castleRight

	// Pawn: the piece it turned into on promotion.
	promotedTo *Piece
}

func newPiece(id int, kind board.PieceType, color board.Color, sq board.Square) *Piece {
	return &Piece{
		id:     id,
		kind:   kind,
		color:  color,
		square: sq,
		prev:   sq,
	}
}

// ID returns the piece's creation index, stable for the lifetime of the game.
func (p *Piece) ID() int { return p.id }

// Type returns the piece variant.
func (p *Piece) Type() board.PieceType { return p.kind }

// Color returns the owning side.
func (p *Piece) Color() board.Color { return p.color }

// Square returns the current square.
func (p *Piece) Square() board.Square { return p.square }

// PreviousSquare returns the square the piece last moved from.
func (p *Piece) PreviousSquare() board.Square { return p.prev }

// Captured reports whether the piece has left play.
func (p *Piece) Captured() bool { return p.captured }

// HasMoved reports whether the piece has moved since setup.
func (p *Piece) HasMoved() bool { return p.moved }

// CanBeTakenEnPassant reports whether the pawn just made a double step.
func (p *Piece) CanBeTakenEnPassant() bool {
	return p.kind == board.Pawn && p.enPassant > 0
}

// CanCastle reports whether a king still holds the castling right for a side.
func (p *Piece) CanCastle(side CastleSide) bool {
	return p.kind == board.King && p.castle[side].allowed
}

// PromotedTo returns the piece a promoted pawn became, or nil.
func (p *Piece) PromotedTo() *Piece { return p.promotedTo }

// String returns e.g. "White Knight g1".
func (p *Piece) String() string {
	if p == nil {
		return "<nil>"
	}
	return fmt.Sprintf("%s %s %s", p.color, p.kind, p.square)
}

// targets reports whether any cached move displaces the given piece.
func (p *Piece) targets(victim *Piece) bool {
	if p.captured || victim == nil {
		return false
	}
	for _, m := range p.cache.moves {
		if m.Displaced == victim {
			return true
		}
	}
	return false
}

// reaches reports whether the cached list contains a move to sq.
func (p *Piece) reaches(sq board.Square) bool {
	for _, m := range p.cache.moves {
		if m.To == sq {
			return true
		}
	}
	return false
}

// Move is a destination plus the piece it displaces, if any: an enemy being
// captured, or for castling the friendly rook that hops over the king.
type Move struct {
	To        board.Square
	Displaced *Piece

	// Promotion requests the variant a pawn reaching the far rank becomes.
	// The zero value (Pawn) leaves the choice to the game's PromotionChooser.
	Promotion board.PieceType
}

// IsCapture reports whether the move takes an enemy piece.
func (m Move) IsCapture(mover *Piece) bool {
	return m.Displaced != nil && m.Displaced.color != mover.color
}

// IsCastle reports whether the move is a castling move.
func (m Move) IsCastle(mover *Piece) bool {
	return m.Displaced != nil && m.Displaced.color == mover.color
}

// String returns the destination square.
func (m Move) String() string {
	return m.To.String()
}
