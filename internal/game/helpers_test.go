package game

import (
	"testing"

	"github.com/hailam/chessrules/internal/board"
)

// newGame builds a game on the standard board from a FEN placement field.
func newGame(t *testing.T, placement string, opts ...Option) *Game {
	t.Helper()
	b := board.Standard()
	setup, err := ParsePlacement(placement, b)
	if err != nil {
		t.Fatalf("ParsePlacement(%q) error: %v", placement, err)
	}
	g, err := New(b, setup, opts...)
	if err != nil {
		t.Fatalf("New(%q) error: %v", placement, err)
	}
	return g
}

func sq(s string) board.Square {
	out, err := board.Standard().ParseSquare(s)
	if err != nil {
		panic(err)
	}
	return out
}

// at returns the piece on a square, failing the test when it is empty.
func at(t *testing.T, g *Game, s string) *Piece {
	t.Helper()
	p := g.PieceAt(sq(s))
	if p == nil {
		t.Fatalf("no piece on %s\n%s", s, g)
	}
	return p
}

// targets renders a move list as destination squares, marking displaced pieces.
func targets(moves []Move) []string {
	out := make([]string, 0, len(moves))
	for _, m := range moves {
		s := m.To.String()
		if m.Displaced != nil {
			s += "/" + m.Displaced.square.String()
		}
		out = append(out, s)
	}
	return out
}

// play applies each move text and closes the turn, failing on the first error.
func play(t *testing.T, g *Game, moves ...string) Outcome {
	t.Helper()
	var out Outcome
	for _, text := range moves {
		var err error
		_, out, err = g.Play(text)
		if err != nil {
			t.Fatalf("Play(%q) error: %v\n%s", text, err, g)
		}
	}
	return out
}

// pseudoLegal returns the piece's unfiltered candidates without disturbing its cache.
func pseudoLegal(g *Game, p *Piece) []Move {
	saved := p.cache
	p.cache.invalidate()
	generate(p, g.rosters[p.color], g.rosters[p.color.Other()], g.board)
	moves := p.cache.moves
	p.cache = saved
	return moves
}

type pieceState struct {
	ID        int
	Kind      board.PieceType
	Square    board.Square
	Prev      board.Square
	Captured  bool
	Moved     bool
	Generated bool
	Filtered  bool
	Moves     []string
}

// snapshot captures every piece's observable state for before/after comparisons.
func snapshot(g *Game) [2][]pieceState {
	var out [2][]pieceState
	for c := board.White; c <= board.Black; c++ {
		for _, p := range g.rosters[c] {
			out[c] = append(out[c], pieceState{
				ID:        p.id,
				Kind:      p.kind,
				Square:    p.square,
				Prev:      p.prev,
				Captured:  p.captured,
				Moved:     p.moved,
				Generated: p.cache.generated,
				Filtered:  p.cache.filtered,
				Moves:     targets(p.cache.moves),
			})
		}
	}
	return out
}
