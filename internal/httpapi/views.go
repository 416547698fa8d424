package httpapi

import (
	"github.com/hailam/chessrules/internal/board"
	"github.com/hailam/chessrules/internal/game"
)

type pieceView struct {
	Type   string `json:"type"`
	Color  string `json:"color"`
	Square string `json:"square"`
	Moved  bool   `json:"moved"`
}

func newPieceView(p *game.Piece) pieceView {
	return pieceView{
		Type:   p.Type().String(),
		Color:  p.Color().String(),
		Square: p.Square().String(),
		Moved:  p.HasMoved(),
	}
}

type moveView struct {
	To       string `json:"to"`
	Capture  bool   `json:"capture"`
	Castle   bool   `json:"castle"`
	Promotes bool   `json:"promotes"`
	// Displaced is the square of the captured piece or castling rook.
	Displaced string `json:"displaced,omitempty"`
}

func newMoveView(g *game.Game, p *game.Piece, m game.Move) moveView {
	v := moveView{
		To:       m.To.String(),
		Capture:  m.IsCapture(p),
		Castle:   m.IsCastle(p),
		Promotes: p.Type() == board.Pawn && m.To.Rank == g.Board().FarRank(p.Color()),
	}
	if m.Displaced != nil {
		v.Displaced = m.Displaced.Square().String()
	}
	return v
}

type recordView struct {
	Ply      int    `json:"ply"`
	Number   int    `json:"number"`
	Color    string `json:"color"`
	Notation string `json:"notation"`
}

func newRecordView(r game.Record) recordView {
	return recordView{
		Ply:      r.Ply,
		Number:   r.MoveNumber(),
		Color:    r.Color.String(),
		Notation: r.Notation,
	}
}

type outcomeView struct {
	Result string `json:"result"`
	Score  string `json:"score"`
	ToMove string `json:"to_move"`
	Winner string `json:"winner,omitempty"`
}

func newOutcomeView(o game.Outcome) outcomeView {
	v := outcomeView{
		Result: o.Result.String(),
		Score:  o.String(),
		ToMove: o.ToMove.String(),
	}
	if w := o.Winner(); w != board.NoColor {
		v.Winner = w.String()
	}
	return v
}

type boardView struct {
	ID      string      `json:"id,omitempty"`
	Rows    int         `json:"rows"`
	Columns int         `json:"columns"`
	State   string      `json:"state"`
	Active  string      `json:"active"`
	InCheck bool        `json:"in_check"`
	Score   string      `json:"score"`
	Pieces  []pieceView `json:"pieces"`
}

// boardView renders the pieces in play. Callers hold mu.
func (s *Server) boardView() boardView {
	g := s.game
	rows, cols := g.Extents()
	v := boardView{
		ID:      s.gameID(),
		Rows:    rows,
		Columns: cols,
		State:   g.State().String(),
		Active:  g.Active().String(),
		InCheck: g.InCheck(g.Active()),
		Score:   g.Outcome().String(),
		Pieces:  []pieceView{},
	}
	for _, c := range []board.Color{board.White, board.Black} {
		for _, p := range g.Pieces(c) {
			if !p.Captured() {
				v.Pieces = append(v.Pieces, newPieceView(p))
			}
		}
	}
	return v
}
