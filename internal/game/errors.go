package game

import (
	"errors"
	"fmt"

	"github.com/hailam/chessrules/internal/board"
)

// Sentinel errors. Use errors.Is to test for them.
var (
	// ErrIllegalMove indicates a move that is not in the piece's current legal list.
	ErrIllegalMove = errors.New("illegal move")

	// ErrInconsistentRoster indicates a broken roster invariant. The game cannot continue.
	ErrInconsistentRoster = errors.New("inconsistent roster")

	// ErrOutOfTurn indicates a call made in the wrong phase of the turn.
	ErrOutOfTurn = errors.New("out of turn")

	// ErrGameOver indicates the game already reached checkmate or stalemate.
	ErrGameOver = errors.New("game over")

	// ErrInvalidSetup indicates an initial placement the game cannot start from.
	ErrInvalidSetup = errors.New("invalid setup")

	// ErrUnknownPiece indicates a piece that belongs to neither roster.
	ErrUnknownPiece = errors.New("unknown piece")
)

// MoveError wraps a rejected move with the piece and destination involved.
type MoveError struct {
	Piece *Piece
	To    board.Square
	Text  string // the move text, when the move was parsed from notation
	Err   error
}

// Error returns a formatted error message.
func (e *MoveError) Error() string {
	switch {
	case e.Text != "":
		return fmt.Sprintf("move %q: %v", e.Text, e.Err)
	case e.Piece != nil:
		return fmt.Sprintf("%s to %s: %v", e.Piece, e.To, e.Err)
	default:
		return fmt.Sprintf("move to %s: %v", e.To, e.Err)
	}
}

// Unwrap returns the underlying error.
func (e *MoveError) Unwrap() error {
	return e.Err
}

// SetupError reports a bad setup record with its 1-based line number.
type SetupError struct {
	Line int
	Err  error
}

// Error returns a formatted error message.
func (e *SetupError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("setup line %d: %v", e.Line, e.Err)
	}
	return fmt.Sprintf("setup: %v", e.Err)
}

// Unwrap returns the underlying error.
func (e *SetupError) Unwrap() error {
	return e.Err
}
