package game

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/hailam/chessrules/internal/board"
)

// Placement is one initial-position record.
type Placement struct {
	Color  board.Color
	Kind   board.PieceType
	Square board.Square
}

// String returns the record in setup-file form, e.g. "White,Knight,g,1".
func (p Placement) String() string {
	return fmt.Sprintf("%s,%s,%c,%s", p.Color, p.Kind, p.Square.FileLetter(), p.Square.RankLabel())
}

// StandardPlacement is the FEN placement field of the starting position.
const StandardPlacement = "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR"

var backRank = [8]board.PieceType{
	board.Rook, board.Knight, board.Bishop, board.Queen,
	board.King, board.Bishop, board.Knight, board.Rook,
}

// StandardSetup returns the conventional start for an 8-column board of at
// least four ranks. Extra ranks stay empty between the armies.
func StandardSetup(b board.Board) ([]Placement, error) {
	if b.Cols != len(backRank) || b.Rows < 4 {
		return nil, &SetupError{Err: fmt.Errorf("%w: standard setup needs 8 columns and 4 ranks, board is %dx%d",
			ErrInvalidSetup, b.Rows, b.Cols)}
	}

	out := make([]Placement, 0, 32)
	for _, c := range [2]board.Color{board.White, board.Black} {
		home, pawns := b.HomeRank(c), b.PawnRank(c)
		for file, kind := range backRank {
			out = append(out, Placement{Color: c, Kind: kind, Square: board.NewSquare(file, home)})
		}
		for file := 0; file < b.Cols; file++ {
			out = append(out, Placement{Color: c, Kind: board.Pawn, Square: board.NewSquare(file, pawns)})
		}
	}
	return out, nil
}

// ParseSetupCSV reads records of the form "color,variant,file,rank", e.g.
// "White,Pawn,a,2" or "B,N,g,8". Lines starting with # are comments.
func ParseSetupCSV(r io.Reader, b board.Board) ([]Placement, error) {
	cr := csv.NewReader(r)
	cr.Comment = '#'
	cr.FieldsPerRecord = 4
	cr.TrimLeadingSpace = true

	var out []Placement
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			var pe *csv.ParseError
			if errors.As(err, &pe) {
				return nil, &SetupError{Line: pe.Line, Err: fmt.Errorf("%w: %v", ErrInvalidSetup, pe.Err)}
			}
			return nil, &SetupError{Err: err}
		}
		line, _ := cr.FieldPos(0)

		pl, err := parseRecord(rec, b)
		if err != nil {
			return nil, &SetupError{Line: line, Err: err}
		}
		out = append(out, pl)
	}
	return out, nil
}

func parseRecord(rec []string, b board.Board) (Placement, error) {
	color, err := board.ParseColor(rec[0])
	if err != nil {
		return Placement{}, fmt.Errorf("%w: %v", ErrInvalidSetup, err)
	}
	kind, err := board.ParsePieceType(rec[1])
	if err != nil {
		return Placement{}, fmt.Errorf("%w: %v", ErrInvalidSetup, err)
	}
	file := strings.ToLower(strings.TrimSpace(rec[2]))
	rank := strings.TrimSpace(rec[3])
	if len(file) != 1 {
		return Placement{}, fmt.Errorf("%w: file %q", board.ErrInvalidCoordinate, rec[2])
	}
	if _, err := strconv.Atoi(rank); err != nil {
		return Placement{}, fmt.Errorf("%w: rank %q", board.ErrInvalidCoordinate, rec[3])
	}
	sq, err := b.ParseSquare(file + rank)
	if err != nil {
		return Placement{}, err
	}
	return Placement{Color: color, Kind: kind, Square: sq}, nil
}

// ParsePlacement reads a FEN-style piece placement: ranks separated by '/',
// highest rank first, digits counting empty squares.
func ParsePlacement(s string, b board.Board) ([]Placement, error) {
	if i := strings.IndexByte(s, ' '); i >= 0 {
		s = s[:i]
	}
	ranks := strings.Split(s, "/")
	if len(ranks) != b.Rows {
		return nil, &SetupError{Err: fmt.Errorf("%w: need %d ranks, got %d", ErrInvalidSetup, b.Rows, len(ranks))}
	}

	var out []Placement
	for i, rankStr := range ranks {
		rank := b.Rows - 1 - i
		file := 0
		run := 0
		for j := 0; j < len(rankStr); j++ {
			c := rankStr[j]
			if c >= '0' && c <= '9' {
				run = run*10 + int(c-'0')
				continue
			}
			file += run
			run = 0

			kind, color, ok := board.PieceFromChar(c)
			if !ok {
				return nil, &SetupError{Line: i + 1, Err: fmt.Errorf("%w: piece character %q", ErrInvalidSetup, c)}
			}
			sq := board.NewSquare(file, rank)
			if err := b.Check(sq); err != nil {
				return nil, &SetupError{Line: i + 1, Err: err}
			}
			out = append(out, Placement{Color: color, Kind: kind, Square: sq})
			file++
		}
		file += run
		if file != b.Cols {
			return nil, &SetupError{Line: i + 1, Err: fmt.Errorf("%w: rank %d has %d squares", ErrInvalidSetup, rank+1, file)}
		}
	}
	return out, nil
}
