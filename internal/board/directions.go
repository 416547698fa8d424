package board

// Delta is a (file, rank) step.
type Delta struct {
	File int
	Rank int
}

// Direction tables. Generation walks them in this order, so move lists are reproducible.
var (
	// Orthogonals: up, right, down, left.
	Orthogonals = []Delta{{0, 1}, {1, 0}, {0, -1}, {-1, 0}}

	// Diagonals: up-right, down-right, down-left, up-left.
	Diagonals = []Delta{{1, 1}, {1, -1}, {-1, -1}, {-1, 1}}

	// AllDirections is the queen's set: orthogonals then diagonals.
	AllDirections = append(append([]Delta{}, Orthogonals...), Diagonals...)

	// KnightJumps run clockwise from the jump two ranks up and one file right.
	KnightJumps = []Delta{{1, 2}, {2, 1}, {2, -1}, {1, -2}, {-1, -2}, {-2, -1}, {-2, 1}, {-1, 2}}

	// KingSteps scan files left to right and, within a file, ranks bottom to top.
	KingSteps = []Delta{{-1, -1}, {-1, 0}, {-1, 1}, {0, -1}, {0, 1}, {1, -1}, {1, 0}, {1, 1}}
)

// Sign returns -1, 0 or 1.
func Sign(v int) int {
	if v > 0 {
		return 1
	}
	if v < 0 {
		return -1
	}
	return 0
}
