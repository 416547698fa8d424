package game

import (
	"github.com/hailam/chessrules/internal/board"
)

// pieceOn returns the non-captured piece of the roster standing on sq, or nil.
func pieceOn(roster []*Piece, sq board.Square) *Piece {
	for _, p := range roster {
		if !p.captured && p.square == sq {
			return p
		}
	}
	return nil
}

// occupant returns whichever non-captured piece stands on sq, or nil.
func occupant(team, opp []*Piece, sq board.Square) *Piece {
	if p := pieceOn(team, sq); p != nil {
		return p
	}
	return pieceOn(opp, sq)
}

// generate fills the piece's pseudo-legal move cache. team is the piece's own
// roster, opp the opposing one. A valid cache or a captured piece short-circuits.
func generate(p *Piece, team, opp []*Piece, b board.Board) {
	if p.cache.generated || p.captured {
		return
	}

	var moves []Move
	switch p.kind {
	case board.Pawn:
		moves = pawnMoves(p, team, opp, b)
	case board.Knight:
		moves = stepMoves(p, board.KnightJumps, team, opp, b)
	case board.Bishop:
		moves = slideMoves(p, board.Diagonals, team, opp, b)
	case board.Rook:
		moves = slideMoves(p, board.Orthogonals, team, opp, b)
	case board.Queen:
		moves = slideMoves(p, board.AllDirections, team, opp, b)
	case board.King:
		moves = stepMoves(p, board.KingSteps, team, opp, b)
		moves = append(moves, castleMoves(p, team, opp, b)...)
	}

	p.cache.moves = moves
	p.cache.generated = true
}

// slideMoves walks each ray until the board edge, a friendly piece (excluded)
// or an enemy piece (included as a capture).
func slideMoves(p *Piece, dirs []board.Delta, team, opp []*Piece, b board.Board) []Move {
	var moves []Move
	for _, d := range dirs {
		for sq := p.square.Step(d); b.Contains(sq); sq = sq.Step(d) {
			if pieceOn(team, sq) != nil {
				break
			}
			if target := pieceOn(opp, sq); target != nil {
				moves = append(moves, Move{To: sq, Displaced: target})
				break
			}
			moves = append(moves, Move{To: sq})
		}
	}
	return moves
}

// stepMoves tries each fixed offset once (knight jumps, king steps).
func stepMoves(p *Piece, offsets []board.Delta, team, opp []*Piece, b board.Board) []Move {
	var moves []Move
	for _, d := range offsets {
		sq := p.square.Step(d)
		if !b.Contains(sq) || pieceOn(team, sq) != nil {
			continue
		}
		moves = append(moves, Move{To: sq, Displaced: pieceOn(opp, sq)})
	}
	return moves
}

// pawnMoves returns pushes first, then diagonal captures, then en passant captures,
// each scanning the lower file first.
func pawnMoves(p *Piece, team, opp []*Piece, b board.Board) []Move {
	var moves []Move
	fwd := p.color.Forward()

	one := p.square.Offset(0, fwd)
	if b.Contains(one) && occupant(team, opp, one) == nil {
		moves = append(moves, Move{To: one})

		two := one.Offset(0, fwd)
		if !p.moved && b.Contains(two) && occupant(team, opp, two) == nil {
			moves = append(moves, Move{To: two})
		}
	}

	for _, df := range [2]int{-1, 1} {
		sq := p.square.Offset(df, fwd)
		if !b.Contains(sq) {
			continue
		}
		if target := pieceOn(opp, sq); target != nil {
			moves = append(moves, Move{To: sq, Displaced: target})
		}
	}

	for _, df := range [2]int{-1, 1} {
		target := pieceOn(opp, p.square.Offset(df, 0))
		if target == nil || !target.CanBeTakenEnPassant() {
			continue
		}
		sq := p.square.Offset(df, fwd)
		if b.Contains(sq) && occupant(team, opp, sq) == nil {
			moves = append(moves, Move{To: sq, Displaced: target})
		}
	}

	return moves
}

// castleMoves returns the kingside then queenside castling candidates.
// Rights are only read here; revocation belongs to the turn boundary.
func castleMoves(k *Piece, team, opp []*Piece, b board.Board) []Move {
	if k.moved || (!k.castle[Kingside].allowed && !k.castle[Queenside].allowed) {
		return nil
	}
	if attacked(k.square, opp, team, b) {
		return nil
	}

	var moves []Move
	for _, side := range [2]CastleSide{Kingside, Queenside} {
		right := k.castle[side]
		if !right.allowed || !castleRookReady(k, right.rook, side) {
			continue
		}
		dir := side.dir()
		dest := k.square.Offset(2*dir, 0)
		if !b.Contains(dest) {
			continue
		}

		clear := true
		for sq := k.square.Offset(dir, 0); sq != right.rook.square; sq = sq.Offset(dir, 0) {
			if occupant(team, opp, sq) != nil {
				clear = false
				break
			}
		}
		if !clear {
			continue
		}

		safe := true
		for step := 1; step <= 2; step++ {
			if attacked(k.square.Offset(step*dir, 0), opp, team, b) {
				safe = false
				break
			}
		}
		if safe {
			moves = append(moves, Move{To: dest, Displaced: right.rook})
		}
	}
	return moves
}

// castleRookReady checks the bound rook is still unmoved, in play, on the king's
// rank and beyond the king's destination.
func castleRookReady(k, rook *Piece, side CastleSide) bool {
	if rook == nil || rook.captured || rook.moved {
		return false
	}
	if rook.square.Rank != k.square.Rank {
		return false
	}
	return (rook.square.File-k.square.File)*side.dir() > 2
}

// attacked reports whether any non-captured piece of attackers hits sq.
// Pawns attack diagonally forward only and kings never castle here, so this
// never recurses into move generation.
func attacked(sq board.Square, attackers, others []*Piece, b board.Board) bool {
	for _, a := range attackers {
		if !a.captured && attacks(a, sq, attackers, others, b) {
			return true
		}
	}
	return false
}

// attacks reports whether piece a hits sq given the occupancy of both rosters.
func attacks(a *Piece, sq board.Square, team, opp []*Piece, b board.Board) bool {
	df := sq.File - a.square.File
	dr := sq.Rank - a.square.Rank
	if df == 0 && dr == 0 {
		return false
	}

	switch a.kind {
	case board.Pawn:
		return dr == a.color.Forward() && (df == 1 || df == -1)
	case board.Knight:
		for _, d := range board.KnightJumps {
			if d.File == df && d.Rank == dr {
				return true
			}
		}
		return false
	case board.King:
		return abs(df) <= 1 && abs(dr) <= 1
	case board.Bishop:
		if abs(df) != abs(dr) {
			return false
		}
	case board.Rook:
		if df != 0 && dr != 0 {
			return false
		}
	case board.Queen:
		if abs(df) != abs(dr) && df != 0 && dr != 0 {
			return false
		}
	default:
		return false
	}

	step := board.Delta{File: board.Sign(df), Rank: board.Sign(dr)}
	for cur := a.square.Step(step); cur != sq; cur = cur.Step(step) {
		if !b.Contains(cur) || occupant(team, opp, cur) != nil {
			return false
		}
	}
	return true
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
