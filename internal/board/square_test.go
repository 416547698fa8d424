package board

import (
	"errors"
	"testing"
)

func TestParseSquare(t *testing.T) {
	b := Standard()
	tests := []struct {
		in   string
		want Square
		err  bool
	}{
		{"a1", Square{0, 0}, false},
		{"e4", Square{4, 3}, false},
		{"h8", Square{7, 7}, false},
		{"i1", Square{}, true},
		{"a9", Square{}, true},
		{"a0", Square{}, true},
		{"e", Square{}, true},
		{"E4", Square{}, true},
		{"e4x", Square{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := b.ParseSquare(tt.in)
			if tt.err {
				if !errors.Is(err, ErrInvalidCoordinate) {
					t.Errorf("ParseSquare(%q) error = %v, want ErrInvalidCoordinate", tt.in, err)
				}
				return
			}
			if err != nil || got != tt.want {
				t.Errorf("ParseSquare(%q) = %v, %v; want %v", tt.in, got, err, tt.want)
			}
			if got.String() != tt.in {
				t.Errorf("String() = %q, want %q", got.String(), tt.in)
			}
		})
	}
}

func TestTallBoardSquares(t *testing.T) {
	b, err := New(12, 26)
	if err != nil {
		t.Fatalf("New(12, 26) error: %v", err)
	}
	sq, err := b.ParseSquare("z12")
	if err != nil {
		t.Fatalf("ParseSquare(z12) error: %v", err)
	}
	if sq != (Square{25, 11}) || sq.String() != "z12" {
		t.Errorf("ParseSquare(z12) = %v (%s)", sq, sq)
	}
	if n := len(b.Squares()); n != 12*26 {
		t.Errorf("len(Squares()) = %d, want %d", n, 12*26)
	}
}

func TestNew(t *testing.T) {
	for _, ext := range [][2]int{{0, 8}, {8, 0}, {8, 27}, {-1, 4}} {
		if _, err := New(ext[0], ext[1]); !errors.Is(err, ErrInvalidCoordinate) {
			t.Errorf("New(%d, %d) error = %v, want ErrInvalidCoordinate", ext[0], ext[1], err)
		}
	}
	b, err := New(1, 1)
	if err != nil {
		t.Fatalf("New(1, 1) error: %v", err)
	}
	if !b.Contains(Square{0, 0}) || b.Contains(Square{1, 0}) || b.Contains(Square{0, -1}) {
		t.Errorf("Contains() wrong on 1x1 board")
	}
}

func TestRanks(t *testing.T) {
	b := Board{Rows: 10, Cols: 8}
	tests := []struct {
		c                    Color
		home, pawn, far, fwd int
	}{
		{White, 0, 1, 9, 1},
		{Black, 9, 8, 0, -1},
	}
	for _, tt := range tests {
		if got := b.HomeRank(tt.c); got != tt.home {
			t.Errorf("%s HomeRank = %d, want %d", tt.c, got, tt.home)
		}
		if got := b.PawnRank(tt.c); got != tt.pawn {
			t.Errorf("%s PawnRank = %d, want %d", tt.c, got, tt.pawn)
		}
		if got := b.FarRank(tt.c); got != tt.far {
			t.Errorf("%s FarRank = %d, want %d", tt.c, got, tt.far)
		}
		if got := tt.c.Forward(); got != tt.fwd {
			t.Errorf("%s Forward = %d, want %d", tt.c, got, tt.fwd)
		}
	}
}

func TestParsePieceType(t *testing.T) {
	tests := []struct {
		in   string
		want PieceType
	}{
		{"N", Knight},
		{"n", Knight},
		{"knight", Knight},
		{"QUEEN", Queen},
		{" K ", King},
		{"p", Pawn},
	}
	for _, tt := range tests {
		got, err := ParsePieceType(tt.in)
		if err != nil || got != tt.want {
			t.Errorf("ParsePieceType(%q) = %v, %v; want %v", tt.in, got, err, tt.want)
		}
	}
	for _, bad := range []string{"", "X", "wizard"} {
		if _, err := ParsePieceType(bad); err == nil {
			t.Errorf("ParsePieceType(%q) succeeded", bad)
		}
	}
}

func TestPieceChars(t *testing.T) {
	for pt := Pawn; pt < NoPieceType; pt++ {
		for _, c := range []Color{White, Black} {
			ch := pt.Char(c)
			gotType, gotColor, ok := PieceFromChar(ch)
			if !ok || gotType != pt || gotColor != c {
				t.Errorf("PieceFromChar(%q) = %v, %v, %v; want %v, %v", ch, gotType, gotColor, ok, pt, c)
			}
		}
	}
}

func TestDirections(t *testing.T) {
	if len(AllDirections) != 8 || len(KnightJumps) != 8 || len(KingSteps) != 8 {
		t.Fatalf("direction tables have wrong sizes")
	}
	seen := map[Delta]bool{}
	for _, d := range KingSteps {
		if d == (Delta{}) || seen[d] {
			t.Errorf("KingSteps has bad entry %v", d)
		}
		seen[d] = true
	}
	for _, d := range KnightJumps {
		if abs := d.File*d.File + d.Rank*d.Rank; abs != 5 {
			t.Errorf("KnightJumps entry %v is not a knight jump", d)
		}
	}
}
