package game

import (
	"fmt"

	"github.com/hailam/chessrules/internal/board"
)

// Record is one entry of the append-only move history.
type Record struct {
	Ply      int // 1-based
	Color    board.Color
	Notation string
}

// MoveNumber returns the full-move number the ply belongs to.
func (r Record) MoveNumber() int {
	return (r.Ply + 1) / 2
}

// String returns e.g. "1. e4" or "1... e5".
func (r Record) String() string {
	if r.Color == board.White {
		return fmt.Sprintf("%d. %s", r.MoveNumber(), r.Notation)
	}
	return fmt.Sprintf("%d... %s", r.MoveNumber(), r.Notation)
}

// Observer is notified as turns close. Calls happen synchronously inside EndTurn.
type Observer interface {
	MoveRecorded(Record)
	GameEnded(Outcome)
}

// ObserverFuncs adapts plain functions to Observer. Nil fields are skipped.
type ObserverFuncs struct {
	OnMove func(Record)
	OnEnd  func(Outcome)
}

// MoveRecorded implements Observer.
func (f ObserverFuncs) MoveRecorded(r Record) {
	if f.OnMove != nil {
		f.OnMove(r)
	}
}

// GameEnded implements Observer.
func (f ObserverFuncs) GameEnded(o Outcome) {
	if f.OnEnd != nil {
		f.OnEnd(o)
	}
}

// Observe registers o for the turns that follow, as WithObserver does at construction.
func (g *Game) Observe(o Observer) {
	if o != nil {
		g.observers = append(g.observers, o)
	}
}
