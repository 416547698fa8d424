package game

import (
	"sort"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/notnil/chess"
)

// ourNotations plays every legal move on a clone and collects the recorded notation.
func ourNotations(t *testing.T, g *Game) []string {
	t.Helper()
	var out []string
	for _, p := range g.Pieces(g.Active()) {
		for _, m := range g.LegalMoves(p) {
			for _, promo := range promotions(g, p, m) {
				c := g.Clone()
				m.Promotion = promo
				if _, err := c.ApplyMove(c.PieceAt(p.Square()), m); err != nil {
					t.Fatalf("ApplyMove(%s, %s) error: %v", p, m, err)
				}
				if _, err := c.EndTurn(); err != nil {
					t.Fatalf("EndTurn() error: %v", err)
				}
				out = append(out, c.Notations()[len(c.Notations())-1])
			}
		}
	}
	sort.Strings(out)
	return out
}

// referenceNotations encodes every valid move of the reference game. Castling
// never carries a check suffix here.
func referenceNotations(ref *chess.Game) []string {
	pos := ref.Position()
	var out []string
	for _, m := range ref.ValidMoves() {
		s := chess.AlgebraicNotation{}.Encode(pos, m)
		if strings.HasPrefix(s, CastleKingside) {
			s = strings.TrimSuffix(s, "+")
		}
		out = append(out, s)
	}
	sort.Strings(out)
	return out
}

// TestNotationMatchesReference walks full games and compares, at every ply,
// the notation of every legal move against an independent SAN encoder.
func TestNotationMatchesReference(t *testing.T) {
	games := map[string][]string{
		"opera game": {
			"e4", "e5", "Nf3", "d6", "d4", "Bg4", "dxe5", "Bxf3", "Qxf3", "dxe5",
			"Bc4", "Nf6", "Qb3", "Qe7", "Nc3", "c6", "Bg5", "b5", "Nxb5", "cxb5",
			"Bxb5+", "Nbd7", "O-O-O", "Rd8", "Rxd7", "Rxd7", "Rd1", "Qe6", "Bxd7+", "Nxd7",
			"Qb8+", "Nxb8", "Rd8#",
		},
		"en passant and promotion": {
			"e4", "d5", "e5", "f5", "exf6", "Nc6", "fxg7", "Bd7", "gxh8=Q", "Qc8",
		},
		"both sides castle": {
			"e4", "e5", "Nf3", "Nc6", "Bc4", "Bc5", "O-O", "Nf6", "d3", "O-O",
			"Bg5", "h6", "Bxf6", "Qxf6", "Nc3", "d6", "Nd5", "Qd8", "c3", "Be6",
		},
	}

	for name, moves := range games {
		t.Run(name, func(t *testing.T) {
			g, err := NewStandard()
			if err != nil {
				t.Fatalf("NewStandard() error: %v", err)
			}
			ref := chess.NewGame()

			for ply, san := range moves {
				if diff := cmp.Diff(referenceNotations(ref), ourNotations(t, g)); diff != "" {
					t.Fatalf("ply %d: legal notations mismatch (-reference +ours):\n%s", ply+1, diff)
				}

				if _, _, err := g.Play(san); err != nil {
					t.Fatalf("ply %d: Play(%q) error: %v", ply+1, san, err)
				}
				m, err := chess.AlgebraicNotation{}.Decode(ref.Position(), san)
				if err != nil {
					t.Fatalf("ply %d: reference Decode(%q) error: %v", ply+1, san, err)
				}
				if err := ref.Move(m); err != nil {
					t.Fatalf("ply %d: reference Move(%q) error: %v", ply+1, san, err)
				}
			}

			if diff := cmp.Diff(moves, g.Notations()); diff != "" {
				t.Errorf("Notations() mismatch (-want +got):\n%s", diff)
			}
			if g.State().Terminal() != (ref.Outcome() != chess.NoOutcome) {
				t.Errorf("state = %s, reference outcome = %s", g.State(), ref.Outcome())
			}
		})
	}
}
