// Package board implements the geometry of a rank/file chess board of configurable size.
package board

import (
	"errors"
	"fmt"
	"strconv"
)

// ErrInvalidCoordinate is returned for a square outside the board extents.
var ErrInvalidCoordinate = errors.New("invalid coordinate")

// MaxColumns is the widest board that can still be named with one file letter per column.
const MaxColumns = 26

// Square is a (file, rank) pair, both 0-based: a1 is {0, 0}.
type Square struct {
	File int
	Rank int
}

// NewSquare creates a square from file and rank (0-indexed).
func NewSquare(file, rank int) Square {
	return Square{File: file, Rank: rank}
}

// Offset returns the square shifted by df files and dr ranks. The result may be off-board.
func (sq Square) Offset(df, dr int) Square {
	return Square{File: sq.File + df, Rank: sq.Rank + dr}
}

// Step returns the square shifted by a direction vector.
func (sq Square) Step(d Delta) Square {
	return sq.Offset(d.File, d.Rank)
}

// FileLetter returns the file letter ('a' for the first column).
func (sq Square) FileLetter() byte {
	return byte('a' + sq.File)
}

// RankLabel returns the 1-based rank as text.
func (sq Square) RankLabel() string {
	return strconv.Itoa(sq.Rank + 1)
}

// String returns the algebraic notation for the square (e.g., "e4").
func (sq Square) String() string {
	if sq.File < 0 || sq.File >= MaxColumns || sq.Rank < 0 {
		return "-"
	}
	return string(sq.FileLetter()) + sq.RankLabel()
}

// Board holds the extents of the grid. It carries no piece state.
type Board struct {
	Rows int
	Cols int
}

// Standard returns the conventional 8x8 board.
func Standard() Board {
	return Board{Rows: 8, Cols: 8}
}

// New returns a board with the given extents.
func New(rows, cols int) (Board, error) {
	if rows < 1 || cols < 1 || cols > MaxColumns {
		return Board{}, fmt.Errorf("%w: board %dx%d", ErrInvalidCoordinate, rows, cols)
	}
	return Board{Rows: rows, Cols: cols}, nil
}

// Extents returns the number of rows (ranks) and columns (files).
func (b Board) Extents() (rows, cols int) {
	return b.Rows, b.Cols
}

// Contains reports whether the square lies on the board.
func (b Board) Contains(sq Square) bool {
	return sq.File >= 0 && sq.File < b.Cols && sq.Rank >= 0 && sq.Rank < b.Rows
}

// Check returns ErrInvalidCoordinate when the square is off the board.
func (b Board) Check(sq Square) error {
	if !b.Contains(sq) {
		return fmt.Errorf("%w: file %d rank %d on %dx%d board", ErrInvalidCoordinate, sq.File+1, sq.Rank+1, b.Rows, b.Cols)
	}
	return nil
}

// FarRank returns the last rank in the direction a color's pawns advance.
func (b Board) FarRank(c Color) int {
	if c == White {
		return b.Rows - 1
	}
	return 0
}

// HomeRank returns the back rank of a color.
func (b Board) HomeRank(c Color) int {
	return b.FarRank(c.Other())
}

// PawnRank returns the rank a color's pawns start on.
func (b Board) PawnRank(c Color) int {
	return b.HomeRank(c) + c.Forward()
}

// ParseSquare parses algebraic notation (e.g., "e4") into a square on this board.
// Ranks may have more than one digit on tall boards.
func (b Board) ParseSquare(s string) (Square, error) {
	if len(s) < 2 {
		return Square{}, fmt.Errorf("%w: %q", ErrInvalidCoordinate, s)
	}
	if s[0] < 'a' || s[0] > 'z' {
		return Square{}, fmt.Errorf("%w: %q", ErrInvalidCoordinate, s)
	}
	rank, err := strconv.Atoi(s[1:])
	if err != nil {
		return Square{}, fmt.Errorf("%w: %q", ErrInvalidCoordinate, s)
	}
	sq := NewSquare(int(s[0]-'a'), rank-1)
	if err := b.Check(sq); err != nil {
		return Square{}, err
	}
	return sq, nil
}

// Squares returns every square on the board, rank by rank from a1.
func (b Board) Squares() []Square {
	out := make([]Square, 0, b.Rows*b.Cols)
	for rank := 0; rank < b.Rows; rank++ {
		for file := 0; file < b.Cols; file++ {
			out = append(out, NewSquare(file, rank))
		}
	}
	return out
}
