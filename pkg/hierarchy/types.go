package hierarchy

import "gonum.org/v1/gonum/spatial/r3"

// Level holds every per-vertex array and the adjacency for one resolution
// of the hierarchy. Hierarchy owns every Level it produces.
type Level struct {
	V, N []r3.Vec
	A    []float64

	Adj Adjacency

	// Q, O are the tangent-direction and position solution fields. CQ/CQw
	// and CO/COw are the corresponding sparse constraints and their
	// weights (0 means "no constraint at this vertex").
	Q, O   []r3.Vec
	CQ, CO []r3.Vec
	CQw    []float64
	COw    []float64

	// ToUpper[c] is the unordered pair of fine-vertex indices at the level
	// below that collapsed into coarse vertex c; ToUpper[c][1] == InvalidIndex
	// for an unmatched vertex promoted unchanged. ToLower[i] is the coarse
	// index at the level above that fine vertex i was merged into. ToUpper
	// is nil on the finest level (there is no level below it); ToLower is
	// nil on whichever level is currently the coarsest (there is no level
	// above it yet).
	ToUpper [][2]uint32
	ToLower []uint32

	// Phases partitions {0..n-1} into color classes; vertices within a
	// class are mutually non-adjacent and may be processed concurrently.
	Phases [][]uint32
}

// NumVertices returns this level's vertex count.
func (l *Level) NumVertices() int {
	return len(l.V)
}

// Hierarchy owns the full level stack plus global solver-facing state.
type Hierarchy struct {
	levels []*Level

	Scale     float64
	FrozenQ   bool
	FrozenO   bool
	TotalSize int

	cfg *Config
}

// Levels returns the number of levels currently built.
func (h *Hierarchy) Levels() int {
	return len(h.levels)
}

// Size returns the vertex count of level l.
func (h *Hierarchy) Size(l int) int {
	return h.levels[l].NumVertices()
}

// Level returns level l for direct field access (V, N, A, Q, O, CQ, CQw,
// CO, COw, Adj, ToUpper, ToLower, Phases).
func (h *Hierarchy) Level(l int) *Level {
	return h.levels[l]
}
