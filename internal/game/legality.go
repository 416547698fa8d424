package game

import "github.com/hailam/chessrules/internal/board"

// filterLegal narrows the piece's generated list to the moves that do not leave
// its own king in check. Gated by the cache's filtered flag.
func (g *Game) filterLegal(p *Piece) {
	if p.cache.filtered {
		return
	}
	team, opp := g.rosters[p.color], g.rosters[p.color.Other()]
	generate(p, team, opp, g.board)

	legal := p.cache.moves[:0:0]
	for _, m := range p.cache.moves {
		if !g.moveLeadsToCheck(p, m) {
			legal = append(legal, m)
		}
	}
	p.cache.moves = legal
	p.cache.filtered = true
}

// moveLeadsToCheck plays m tentatively, regenerates every opposing piece's
// candidates, and reports whether any of them displaces the mover's king.
// Positions, captured flags and the opposing caches are restored before it
// returns, whatever the answer.
func (g *Game) moveLeadsToCheck(p *Piece, m Move) bool {
	team, opp := g.rosters[p.color], g.rosters[p.color.Other()]
	saved := saveCaches(opp)

	from, prev := p.square, p.prev
	p.prev = p.square
	p.square = m.To

	var victim *Piece
	if m.IsCapture(p) && !m.Displaced.captured {
		victim = m.Displaced
		victim.captured = true
	}

	king := kingOf(team)
	checked := false
	for _, o := range opp {
		o.cache.invalidate()
		generate(o, opp, team, g.board)
		if o.targets(king) {
			checked = true
			break
		}
	}

	p.square, p.prev = from, prev
	if victim != nil {
		victim.captured = false
	}
	restoreCaches(opp, saved)

	return checked
}

// MoveLeadsToCheck reports whether playing m with p would leave p's king in check.
// It is side-effect free: rosters and caches are identical before and after.
func (g *Game) MoveLeadsToCheck(p *Piece, m Move) bool {
	if p == nil || p.captured {
		return false
	}
	return g.moveLeadsToCheck(p, m)
}

func saveCaches(roster []*Piece) []moveCache {
	saved := make([]moveCache, len(roster))
	for i, p := range roster {
		saved[i] = p.cache
	}
	return saved
}

func restoreCaches(roster []*Piece, saved []moveCache) {
	for i, p := range roster {
		p.cache = saved[i]
	}
}

// kingOf returns the roster's king still in play, or nil.
func kingOf(roster []*Piece) *Piece {
	for _, p := range roster {
		if p.kind == board.King && !p.captured {
			return p
		}
	}
	return nil
}
