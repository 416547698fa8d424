package game

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/hailam/chessrules/internal/board"
)

// Castle tokens.
const (
	CastleKingside  = "O-O"
	CastleQueenside = "O-O-O"
)

// encodeNotation converts an applied move to algebraic notation. The
// checkmate suffix is added by EndTurn once the game is known to be over.
func encodeNotation(rec AppliedMove, disambig string) string {
	if rec.IsCastle {
		if rec.To.File > rec.From.File {
			return CastleKingside
		}
		return CastleQueenside
	}

	var sb strings.Builder

	if rec.Kind != board.Pawn {
		sb.WriteByte(rec.Kind.Letter())
		sb.WriteString(disambig)
	} else if rec.IsCapture {
		sb.WriteByte(rec.From.FileLetter())
	}

	if rec.IsCapture {
		sb.WriteByte('x')
	}

	sb.WriteString(rec.To.String())

	if rec.IsPromotion && rec.Promoted != nil {
		sb.WriteByte('=')
		sb.WriteByte(rec.Promoted.kind.Letter())
	}

	if rec.IsCheck {
		sb.WriteByte('+')
	}

	return sb.String()
}

// disambiguation returns the prefix that tells the mover apart from other
// same-type pieces whose legal lists also reach to: the origin file when a
// rival stands on another file, then the origin rank when a rival shares the
// mover's file.
func (g *Game) disambiguation(p *Piece, to board.Square) string {
	if p.kind == board.Pawn || p.kind == board.King {
		return ""
	}

	otherFile, sameFile := false, false
	for _, o := range g.rosters[p.color] {
		if o == p || o.captured || o.kind != p.kind {
			continue
		}
		if !o.cache.filtered || !o.reaches(to) {
			continue
		}
		if o.square.File == p.square.File {
			sameFile = true
		} else {
			otherFile = true
		}
	}

	var prefix string
	if otherFile {
		prefix = string(p.square.FileLetter())
	}
	if sameFile {
		prefix += p.square.RankLabel()
	}
	return prefix
}

// ParseMove resolves move text against the side to move's legal moves.
// It accepts algebraic notation ("Nf3", "exd5", "e8=Q", "O-O", "Raxd5+")
// and coordinate notation ("e2e4", "e7e8q").
func (g *Game) ParseMove(text string) (*Piece, Move, error) {
	s := strings.TrimSpace(text)
	s = strings.TrimRight(s, "+#!?")
	if s == "" {
		return nil, Move{}, &MoveError{Text: text, Err: ErrIllegalMove}
	}

	if p, m, ok := g.parseCoordinate(s); ok {
		return p, m, nil
	}

	p, m, err := g.parseAlgebraic(s)
	if err != nil {
		return nil, Move{}, &MoveError{Text: text, Err: err}
	}
	return p, m, nil
}

// parseCoordinate handles "e2e4" and "e7e8q". Ranks may have several digits.
func (g *Game) parseCoordinate(s string) (*Piece, Move, bool) {
	from, rest, ok := scanSquare(s)
	if !ok {
		return nil, Move{}, false
	}
	to, rest, ok := scanSquare(rest)
	if !ok {
		return nil, Move{}, false
	}

	promo := board.Pawn
	switch len(rest) {
	case 0:
	case 1:
		pt, err := board.ParsePieceType(rest)
		if err != nil {
			return nil, Move{}, false
		}
		promo = pt
	default:
		return nil, Move{}, false
	}

	p := g.PieceAt(from)
	if p == nil || p.color != g.active {
		return nil, Move{}, false
	}
	m, ok := g.findLegal(p, to)
	if !ok {
		return nil, Move{}, false
	}
	m.Promotion = promo
	return p, m, true
}

// scanSquare reads a file letter followed by rank digits from the front of s.
func scanSquare(s string) (board.Square, string, bool) {
	if len(s) < 2 || s[0] < 'a' || s[0] > 'z' {
		return board.Square{}, s, false
	}
	i := 1
	rank := 0
	for i < len(s) && s[i] >= '0' && s[i] <= '9' {
		rank = rank*10 + int(s[i]-'0')
		i++
	}
	if i == 1 || rank == 0 {
		return board.Square{}, s, false
	}
	return board.NewSquare(int(s[0]-'a'), rank-1), s[i:], true
}

func (g *Game) parseAlgebraic(s string) (*Piece, Move, error) {
	if s == CastleKingside || s == "0-0" {
		return g.findCastle(Kingside)
	}
	if s == CastleQueenside || s == "0-0-0" {
		return g.findCastle(Queenside)
	}

	promo := board.Pawn
	if idx := strings.IndexByte(s, '='); idx >= 0 {
		pt, err := board.ParsePieceType(s[idx+1:])
		if err != nil {
			return nil, Move{}, fmt.Errorf("%w: %v", ErrIllegalMove, err)
		}
		promo = pt
		s = s[:idx]
	}

	kind := board.Pawn
	if len(s) > 0 && s[0] >= 'A' && s[0] <= 'Z' {
		pt, err := board.ParsePieceType(s[:1])
		if err != nil {
			return nil, Move{}, fmt.Errorf("%w: %v", ErrIllegalMove, err)
		}
		kind = pt
		s = s[1:]
	}

	// The destination is the last letter followed by digits.
	split := strings.LastIndexFunc(s, func(r rune) bool { return r >= 'a' && r <= 'z' })
	if split < 0 {
		return nil, Move{}, ErrIllegalMove
	}
	dest, rest, ok := scanSquare(s[split:])
	if !ok || rest != "" {
		return nil, Move{}, ErrIllegalMove
	}
	hint := s[:split]

	// Only an x right before the destination marks a capture. On boards with
	// an x file, "Rxx5" may also be a quiet move from that file.
	if strings.HasSuffix(hint, "x") {
		p, m, err := g.matchAlgebraic(kind, dest, hint[:len(hint)-1], true, promo)
		if !errors.Is(err, errNoMatch) {
			return p, m, err
		}
	}
	p, m, err := g.matchAlgebraic(kind, dest, hint, false, promo)
	if errors.Is(err, errNoMatch) {
		return nil, Move{}, ErrIllegalMove
	}
	return p, m, err
}

// errNoMatch reports that no piece fits a parsed move.
var errNoMatch = fmt.Errorf("%w: no matching piece", ErrIllegalMove)

// matchAlgebraic finds the one piece of the side to move that fits the parsed
// type, origin hint and destination.
func (g *Game) matchAlgebraic(kind board.PieceType, dest board.Square, hint string, capture bool, promo board.PieceType) (*Piece, Move, error) {
	fileHint, rankHint := -1, -1
	if hint != "" {
		if hint[0] >= 'a' && hint[0] <= 'z' {
			fileHint = int(hint[0] - 'a')
			hint = hint[1:]
		}
		if hint != "" {
			n, err := strconv.Atoi(hint)
			if err != nil || n < 1 {
				return nil, Move{}, errNoMatch
			}
			rankHint = n - 1
		}
	}

	var found *Piece
	var move Move
	for _, p := range g.rosters[g.active] {
		if p.captured || p.kind != kind {
			continue
		}
		if fileHint >= 0 && p.square.File != fileHint {
			continue
		}
		if rankHint >= 0 && p.square.Rank != rankHint {
			continue
		}
		m, ok := g.findLegal(p, dest)
		if !ok || m.IsCastle(p) {
			continue
		}
		if capture && !m.IsCapture(p) {
			continue
		}
		if found != nil {
			return nil, Move{}, fmt.Errorf("%w: ambiguous", ErrIllegalMove)
		}
		found, move = p, m
	}
	if found == nil {
		return nil, Move{}, errNoMatch
	}
	move.Promotion = promo
	return found, move, nil
}

func (g *Game) findCastle(side CastleSide) (*Piece, Move, error) {
	k := kingOf(g.rosters[g.active])
	if k == nil || !k.cache.filtered {
		return nil, Move{}, ErrIllegalMove
	}
	for _, m := range k.cache.moves {
		if m.IsCastle(k) && board.Sign(m.To.File-k.square.File) == side.dir() {
			return k, m, nil
		}
	}
	return nil, Move{}, ErrIllegalMove
}

// Play parses, applies and closes one move.
func (g *Game) Play(text string) (AppliedMove, Outcome, error) {
	p, m, err := g.ParseMove(text)
	if err != nil {
		return AppliedMove{}, Outcome{}, err
	}
	rec, err := g.ApplyMove(p, m)
	if err != nil {
		return AppliedMove{}, Outcome{}, err
	}
	out, err := g.EndTurn()
	return rec, out, err
}

// Replay rebuilds a game from a setup and a recorded notation list.
func Replay(b board.Board, setup []Placement, notations []string, opts ...Option) (*Game, error) {
	g, err := New(b, setup, opts...)
	if err != nil {
		return nil, err
	}
	for i, n := range notations {
		if _, _, err := g.Play(n); err != nil {
			return g, fmt.Errorf("replay ply %d: %w", i+1, err)
		}
	}
	return g, nil
}
