package game

import (
	"fmt"
	"strings"

	"github.com/hailam/chessrules/internal/board"
)

// Result is the outcome of a completed turn.
type Result uint8

const (
	Continuing Result = iota
	Checkmate
	Stalemate
)

// String returns the result name.
func (r Result) String() string {
	switch r {
	case Continuing:
		return "continuing"
	case Checkmate:
		return "checkmate"
	case Stalemate:
		return "stalemate"
	default:
		return "unknown"
	}
}

// Outcome describes the position after a turn boundary.
type Outcome struct {
	Result Result
	// ToMove is the side whose turn it now is; for checkmate, the loser.
	ToMove board.Color
	// Record is the history entry the turn produced. Zero for the initial position.
	Record Record
}

// Winner returns the mating side, or NoColor.
func (o Outcome) Winner() board.Color {
	if o.Result != Checkmate {
		return board.NoColor
	}
	return o.ToMove.Other()
}

// String returns the score line, e.g. "1-0" after White mates.
func (o Outcome) String() string {
	switch o.Result {
	case Checkmate:
		if o.Winner() == board.White {
			return "1-0"
		}
		return "0-1"
	case Stalemate:
		return "1/2-1/2"
	default:
		return "*"
	}
}

// AppliedMove describes a move just played, captured before the turn closes.
type AppliedMove struct {
	Piece     *Piece
	Kind      board.PieceType // variant before promotion
	Color     board.Color
	From      board.Square
	To        board.Square
	Displaced *Piece
	Promoted  *Piece

	Notation    string
	IsCheck     bool
	IsCapture   bool
	IsCastle    bool
	IsPromotion bool
}

// ApplyMove plays a legal move for the side to move. The move is matched by
// destination against the piece's legal list; only the requested promotion
// variant is taken from the argument. Rejected moves leave the game unchanged.
func (g *Game) ApplyMove(p *Piece, m Move) (AppliedMove, error) {
	if g.err != nil {
		return AppliedMove{}, g.err
	}
	if g.state.Terminal() {
		return AppliedMove{}, ErrGameOver
	}
	if g.state != StateAwaitingInput {
		return AppliedMove{}, fmt.Errorf("%w: apply move while %s", ErrOutOfTurn, g.state)
	}
	if p == nil || !g.owns(p) {
		return AppliedMove{}, &MoveError{Piece: p, To: m.To, Err: ErrUnknownPiece}
	}
	if p.color != g.active || p.captured {
		return AppliedMove{}, &MoveError{Piece: p, To: m.To, Err: ErrIllegalMove}
	}

	legal, ok := g.findLegal(p, m.To)
	if !ok {
		return AppliedMove{}, &MoveError{Piece: p, To: m.To, Err: ErrIllegalMove}
	}
	if legal.Displaced != nil && !g.owns(legal.Displaced) {
		g.err = fmt.Errorf("%w: move of %s displaces unknown %s", ErrInconsistentRoster, p, legal.Displaced)
		return AppliedMove{}, g.err
	}

	promotes := p.kind == board.Pawn && legal.To.Rank == g.board.FarRank(p.color)
	promoteTo := board.NoPieceType
	switch {
	case promotes && m.Promotion != board.Pawn:
		if !m.Promotion.IsPromotionTarget() {
			return AppliedMove{}, &MoveError{Piece: p, To: m.To, Err: fmt.Errorf("%w: promotion to %s", ErrIllegalMove, m.Promotion)}
		}
		promoteTo = m.Promotion
	case promotes:
		promoteTo = g.promote(p)
		if !promoteTo.IsPromotionTarget() {
			promoteTo = board.Queen
		}
	case m.Promotion != board.Pawn:
		return AppliedMove{}, &MoveError{Piece: p, To: m.To, Err: fmt.Errorf("%w: %s does not promote", ErrIllegalMove, legal.To)}
	}

	// Disambiguation reads the other pieces' pre-move lists.
	disambig := g.disambiguation(p, legal.To)

	rec := AppliedMove{
		Piece:     p,
		Kind:      p.kind,
		Color:     p.color,
		From:      p.square,
		To:        legal.To,
		Displaced: legal.Displaced,
		IsCapture: legal.IsCapture(p),
		IsCastle:  legal.IsCastle(p),
	}

	g.relocate(p, legal.To)
	switch {
	case rec.IsCastle:
		rook := legal.Displaced
		g.relocate(rook, p.square.Offset(board.Sign(p.square.File-rook.square.File), 0))
		rook.cache.invalidate()
	case rec.IsCapture:
		legal.Displaced.captured = true
	}
	p.cache.invalidate()

	if promoteTo != board.NoPieceType && !p.captured {
		rec.Promoted = g.promotePawn(p, promoteTo)
		rec.IsPromotion = true
	}

	if err := g.verifyRoster(); err != nil {
		g.err = err
		return AppliedMove{}, err
	}

	rec.IsCheck = g.InCheck(p.color.Other())
	rec.Notation = encodeNotation(rec, disambig)

	g.pending = &rec
	g.state = StateMoveApplied
	return rec, nil
}

// findLegal returns the piece's legal move to sq.
func (g *Game) findLegal(p *Piece, sq board.Square) (Move, bool) {
	if !p.cache.filtered {
		return Move{}, false
	}
	for _, m := range p.cache.moves {
		if m.To == sq {
			return m, true
		}
	}
	return Move{}, false
}

// relocate moves a piece and updates its history flags.
func (g *Game) relocate(p *Piece, to board.Square) {
	if p.kind == board.Pawn {
		p.enPassant = 0
		if abs(to.Rank-p.square.Rank) == 2 {
			p.enPassant = enPassantWindow
		}
	}
	p.prev = p.square
	p.square = to
	p.moved = true
}

// promotePawn retires the pawn and puts a fresh piece on its square.
func (g *Game) promotePawn(pawn *Piece, kind board.PieceType) *Piece {
	pawn.captured = true
	np := newPiece(g.nextID, kind, pawn.color, pawn.square)
	g.nextID++
	np.prev = pawn.prev
	np.moved = true
	pawn.promotedTo = np
	g.rosters[pawn.color] = append(g.rosters[pawn.color], np)

	generate(np, g.rosters[np.color], g.rosters[np.color.Other()], g.board)
	return np
}

// EndTurn closes the applied move: clears every cache, ages en passant
// eligibility, revokes castling rights, hands the move to the other side and
// checks whether that side can move at all.
func (g *Game) EndTurn() (Outcome, error) {
	if g.err != nil {
		return Outcome{}, g.err
	}
	if g.state.Terminal() {
		return g.outcome, ErrGameOver
	}
	if g.state != StateMoveApplied || g.pending == nil {
		return Outcome{}, fmt.Errorf("%w: end turn while %s", ErrOutOfTurn, g.state)
	}
	g.state = StateEndOfTurn

	for c := board.White; c <= board.Black; c++ {
		for _, p := range g.rosters[c] {
			p.cache.invalidate()
			if p.enPassant > 0 {
				p.enPassant--
			}
		}
	}
	g.revokeCastlingRights()

	mover := g.pending
	g.pending = nil
	g.active = g.active.Other()
	g.ply++

	g.beginTurn()

	notation := mover.Notation
	if g.outcome.Result == Checkmate {
		notation = strings.TrimSuffix(notation, "+") + "#"
	}
	rec := Record{Ply: g.ply, Color: mover.Color, Notation: notation}
	g.history = append(g.history, rec)
	g.outcome.Record = rec

	for _, o := range g.observers {
		o.MoveRecorded(rec)
	}
	if g.state.Terminal() {
		for _, o := range g.observers {
			o.GameEnded(g.outcome)
		}
	}
	return g.outcome, nil
}

// revokeCastlingRights clears a side for good once the king or its bound rook
// has moved or the rook was captured.
func (g *Game) revokeCastlingRights() {
	for c := board.White; c <= board.Black; c++ {
		for _, p := range g.rosters[c] {
			if p.kind != board.King {
				continue
			}
			for side := range p.castle {
				r := &p.castle[side]
				if !r.allowed {
					continue
				}
				if p.moved || r.rook == nil || r.rook.moved || r.rook.captured {
					r.allowed = false
				}
			}
		}
	}
}

// beginTurn generates every piece's candidates, narrows the side to move's,
// and only then decides whether the game is over.
func (g *Game) beginTurn() {
	team, opp := g.rosters[g.active], g.rosters[g.active.Other()]
	for _, p := range team {
		generate(p, team, opp, g.board)
	}
	for _, p := range opp {
		generate(p, opp, team, g.board)
	}
	for _, p := range team {
		g.filterLegal(p)
	}

	g.state = StateAwaitingInput
	g.outcome = Outcome{Result: Continuing, ToMove: g.active}

	for _, p := range team {
		if !p.captured && len(p.cache.moves) > 0 {
			return
		}
	}

	king := kingOf(team)
	checked := false
	for _, o := range opp {
		if o.targets(king) {
			checked = true
			break
		}
	}
	if checked {
		g.state = StateCheckmate
		g.outcome.Result = Checkmate
	} else {
		g.state = StateStalemate
		g.outcome.Result = Stalemate
	}
}
