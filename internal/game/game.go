// Package game implements the rules of two-player chess over a board.Board:
// per-piece move generation, the self-check legality filter, the turn state
// machine with its special rules, and algebraic notation.
//
// A Game is not safe for concurrent use. Callers drive it one turn at a time:
// read LegalMoves, ApplyMove once, then EndTurn.
package game

import (
	"fmt"
	"strings"

	"github.com/hailam/chessrules/internal/board"
)

// State is the phase of the turn state machine.
type State uint8

const (
	StateAwaitingInput State = iota
	StateMoveApplied
	StateEndOfTurn
	StateCheckmate
	StateStalemate
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case StateAwaitingInput:
		return "awaiting input"
	case StateMoveApplied:
		return "move applied"
	case StateEndOfTurn:
		return "end of turn"
	case StateCheckmate:
		return "checkmate"
	case StateStalemate:
		return "stalemate"
	default:
		return "unknown"
	}
}

// Terminal reports whether the state is absorbing.
func (s State) Terminal() bool {
	return s == StateCheckmate || s == StateStalemate
}

// PromotionChooser picks the variant a pawn becomes when the move did not say.
type PromotionChooser func(pawn *Piece) board.PieceType

// Option configures a Game.
type Option func(*Game)

// WithObserver registers an observer for recorded moves and the game end.
func WithObserver(o Observer) Option {
	return func(g *Game) {
		if o != nil {
			g.observers = append(g.observers, o)
		}
	}
}

// WithPromotionChooser sets the fallback promotion choice.
func WithPromotionChooser(fn PromotionChooser) Option {
	return func(g *Game) {
		if fn != nil {
			g.promote = fn
		}
	}
}

// WithDefaultPromotion always promotes to pt when the move did not say.
func WithDefaultPromotion(pt board.PieceType) Option {
	return WithPromotionChooser(func(*Piece) board.PieceType { return pt })
}

// WithSideToMove starts the game with c to move instead of White.
func WithSideToMove(c board.Color) Option {
	return func(g *Game) {
		if c <= board.Black {
			g.active = c
		}
	}
}

// Game owns both rosters, the side to move and the move history.
type Game struct {
	board   board.Board
	rosters [2][]*Piece
	active  board.Color
	state   State
	nextID  int
	ply     int

	history []Record
	pending *AppliedMove
	outcome Outcome

	promote   PromotionChooser
	observers []Observer

	// err is sticky once a roster invariant breaks.
	err error
}

// New builds a game from an initial placement with White to move, and runs the
// first generation and legality pass.
func New(b board.Board, setup []Placement, opts ...Option) (*Game, error) {
	if _, err := board.New(b.Rows, b.Cols); err != nil {
		return nil, &SetupError{Err: err}
	}

	g := &Game{
		board:   b,
		active:  board.White,
		promote: func(*Piece) board.PieceType { return board.Queen },
	}
	for _, opt := range opts {
		opt(g)
	}
	// Ply numbering keeps White on odd plies.
	if g.active == board.Black {
		g.ply = 1
	}

	if err := g.place(setup); err != nil {
		return nil, err
	}
	g.beginTurn()
	return g, nil
}

// NewStandard starts a game from the conventional position on an 8x8 board.
func NewStandard(opts ...Option) (*Game, error) {
	b := board.Standard()
	setup, err := StandardSetup(b)
	if err != nil {
		return nil, err
	}
	return New(b, setup, opts...)
}

// place validates the setup and fills the rosters.
func (g *Game) place(setup []Placement) error {
	occupied := make(map[board.Square]Placement, len(setup))
	kings := [2]int{}

	for i, pl := range setup {
		if pl.Color > board.Black || pl.Kind >= board.NoPieceType {
			return &SetupError{Line: i + 1, Err: fmt.Errorf("%w: %v %v", ErrInvalidSetup, pl.Color, pl.Kind)}
		}
		if err := g.board.Check(pl.Square); err != nil {
			return &SetupError{Line: i + 1, Err: err}
		}
		if other, ok := occupied[pl.Square]; ok {
			return &SetupError{Line: i + 1, Err: fmt.Errorf("%w: %s %s and %s %s share %s",
				ErrInconsistentRoster, other.Color, other.Kind, pl.Color, pl.Kind, pl.Square)}
		}
		occupied[pl.Square] = pl
		if pl.Kind == board.King {
			kings[pl.Color]++
		}

		p := newPiece(g.nextID, pl.Kind, pl.Color, pl.Square)
		g.nextID++
		if pl.Kind == board.Pawn && pl.Square.Rank != g.board.PawnRank(pl.Color) {
			p.moved = true
		}
		g.rosters[pl.Color] = append(g.rosters[pl.Color], p)
	}

	for c := board.White; c <= board.Black; c++ {
		if kings[c] != 1 {
			return &SetupError{Err: fmt.Errorf("%w: %s has %d kings", ErrInvalidSetup, c, kings[c])}
		}
	}

	for c := board.White; c <= board.Black; c++ {
		if k := kingOf(g.rosters[c]); k != nil {
			g.bindCastlingRooks(k)
		}
	}
	return nil
}

// bindCastlingRooks gives a king on its home rank the nearest rook on each side
// as its castling partner.
func (g *Game) bindCastlingRooks(k *Piece) {
	if k.square.Rank != g.board.HomeRank(k.color) {
		return
	}
	team := g.rosters[k.color]
	for _, side := range [2]CastleSide{Kingside, Queenside} {
		dir := side.dir()
		for sq := k.square.Offset(dir, 0); g.board.Contains(sq); sq = sq.Offset(dir, 0) {
			if p := pieceOn(team, sq); p != nil && p.kind == board.Rook {
				k.castle[side] = castleRight{allowed: true, rook: p}
				break
			}
		}
	}
}

// Board returns the board geometry.
func (g *Game) Board() board.Board { return g.board }

// Extents returns the board's rows and columns.
func (g *Game) Extents() (rows, cols int) { return g.board.Extents() }

// Active returns the side to move.
func (g *Game) Active() board.Color { return g.active }

// State returns the current phase.
func (g *Game) State() State { return g.state }

// Outcome returns the last turn outcome.
func (g *Game) Outcome() Outcome { return g.outcome }

// Err returns the invariant violation that stopped the game, if any.
func (g *Game) Err() error { return g.err }

// Pieces returns the roster of a color, captured pieces included.
func (g *Game) Pieces(c board.Color) []*Piece {
	if c > board.Black {
		return nil
	}
	return append([]*Piece(nil), g.rosters[c]...)
}

// PieceAt returns the piece in play on sq, or nil.
func (g *Game) PieceAt(sq board.Square) *Piece {
	return occupant(g.rosters[board.White], g.rosters[board.Black], sq)
}

// King returns the color's king.
func (g *Game) King(c board.Color) *Piece {
	if c > board.Black {
		return nil
	}
	return kingOf(g.rosters[c])
}

// LegalMoves returns the piece's fully-legal moves for this turn. Before the
// turn's generation and filter pass has covered the piece the list is empty.
func (g *Game) LegalMoves(p *Piece) []Move {
	if p == nil || p.captured || !p.cache.filtered {
		return nil
	}
	return append([]Move(nil), p.cache.moves...)
}

// LegalMovesFrom returns the legal moves of the piece in play on sq.
func (g *Game) LegalMovesFrom(sq board.Square) []Move {
	return g.LegalMoves(g.PieceAt(sq))
}

// InCheck reports whether the color's king is attacked.
func (g *Game) InCheck(c board.Color) bool {
	if c > board.Black {
		return false
	}
	k := kingOf(g.rosters[c])
	if k == nil {
		return false
	}
	return attacked(k.square, g.rosters[c.Other()], g.rosters[c], g.board)
}

// History returns the recorded moves in order.
func (g *Game) History() []Record {
	return append([]Record(nil), g.history...)
}

// Notations returns the recorded notation strings in order.
func (g *Game) Notations() []string {
	out := make([]string, len(g.history))
	for i, r := range g.history {
		out[i] = r.Notation
	}
	return out
}

// owns reports whether p belongs to either roster.
func (g *Game) owns(p *Piece) bool {
	if p == nil || p.color > board.Black {
		return false
	}
	for _, q := range g.rosters[p.color] {
		if q == p {
			return true
		}
	}
	return false
}

// verifyRoster fails when two pieces in play share a square or one left the board.
func (g *Game) verifyRoster() error {
	seen := make(map[board.Square]*Piece)
	for c := board.White; c <= board.Black; c++ {
		for _, p := range g.rosters[c] {
			if p.captured {
				continue
			}
			if !g.board.Contains(p.square) {
				return fmt.Errorf("%w: %s is off the board", ErrInconsistentRoster, p)
			}
			if other, ok := seen[p.square]; ok {
				return fmt.Errorf("%w: %s and %s share a square", ErrInconsistentRoster, other, p)
			}
			seen[p.square] = p
		}
	}
	return nil
}

// Clone returns a deep copy. Observers are not carried over.
func (g *Game) Clone() *Game {
	c := &Game{
		board:   g.board,
		active:  g.active,
		state:   g.state,
		nextID:  g.nextID,
		ply:     g.ply,
		history: append([]Record(nil), g.history...),
		outcome: g.outcome,
		promote: g.promote,
		err:     g.err,
	}

	remap := make(map[*Piece]*Piece)
	for col := board.White; col <= board.Black; col++ {
		for _, p := range g.rosters[col] {
			cp := *p
			remap[p] = &cp
			c.rosters[col] = append(c.rosters[col], &cp)
		}
	}
	for col := board.White; col <= board.Black; col++ {
		for _, p := range c.rosters[col] {
			if p.cache.moves != nil {
				moves := make([]Move, len(p.cache.moves))
				for i, m := range p.cache.moves {
					m.Displaced = remap[m.Displaced]
					moves[i] = m
				}
				p.cache.moves = moves
			}
			for side := range p.castle {
				p.castle[side].rook = remap[p.castle[side].rook]
			}
			p.promotedTo = remap[p.promotedTo]
		}
	}

	if g.pending != nil {
		pending := *g.pending
		pending.Piece = remap[pending.Piece]
		pending.Displaced = remap[pending.Displaced]
		pending.Promoted = remap[pending.Promoted]
		c.pending = &pending
	}
	return c
}

// String returns a diagram of the board with the side to move.
func (g *Game) String() string {
	var sb strings.Builder
	sb.WriteString("\n")
	for rank := g.board.Rows - 1; rank >= 0; rank-- {
		fmt.Fprintf(&sb, "%2d  ", rank+1)
		for file := 0; file < g.board.Cols; file++ {
			if file > 0 {
				sb.WriteByte(' ')
			}
			if p := g.PieceAt(board.NewSquare(file, rank)); p != nil {
				sb.WriteByte(p.kind.Char(p.color))
			} else {
				sb.WriteByte('.')
			}
		}
		sb.WriteString("\n")
	}
	sb.WriteString("\n    ")
	for file := 0; file < g.board.Cols; file++ {
		if file > 0 {
			sb.WriteByte(' ')
		}
		sb.WriteByte(byte('a' + file))
	}
	sb.WriteString("\n\n")
	fmt.Fprintf(&sb, "Side to move: %s\n", g.active)
	fmt.Fprintf(&sb, "State: %s\n", g.state)
	return sb.String()
}
