package game

import "github.com/hailam/chessrules/internal/board"

var promotionChoices = []board.PieceType{board.Queen, board.Rook, board.Bishop, board.Knight}

// promotions lists the variants a legal move can be played with.
func promotions(g *Game, p *Piece, m Move) []board.PieceType {
	if p.Type() == board.Pawn && m.To.Rank == g.Board().FarRank(p.Color()) {
		return promotionChoices
	}
	return []board.PieceType{board.Pawn}
}

// Perft counts the leaf nodes of the legal move tree to the given depth.
// Each promotion variant counts as its own move. The game is not modified.
func Perft(g *Game, depth int) int64 {
	if depth <= 0 {
		return 1
	}

	var nodes int64
	for _, p := range g.Pieces(g.Active()) {
		for _, m := range g.LegalMoves(p) {
			for _, promo := range promotions(g, p, m) {
				if depth == 1 {
					nodes++
					continue
				}
				c := g.Clone()
				m.Promotion = promo
				if _, err := c.ApplyMove(c.PieceAt(p.Square()), m); err != nil {
					continue
				}
				if _, err := c.EndTurn(); err != nil {
					continue
				}
				nodes += Perft(c, depth-1)
			}
		}
	}
	return nodes
}

// Divide returns the Perft count below each root move, keyed by its notation.
func Divide(g *Game, depth int) map[string]int64 {
	out := make(map[string]int64)
	for _, p := range g.Pieces(g.Active()) {
		for _, m := range g.LegalMoves(p) {
			for _, promo := range promotions(g, p, m) {
				c := g.Clone()
				m.Promotion = promo
				rec, err := c.ApplyMove(c.PieceAt(p.Square()), m)
				if err != nil {
					continue
				}
				if _, err := c.EndTurn(); err != nil {
					continue
				}
				out[rec.Notation] = Perft(c, depth-1)
			}
		}
	}
	return out
}
