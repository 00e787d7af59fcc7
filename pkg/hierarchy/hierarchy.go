package hierarchy

import (
	"fmt"

	"github.com/rs/zerolog"
	"gonum.org/v1/gonum/spatial/r3"
)

// NewHierarchy constructs an empty Hierarchy seeded with level 0's arrays
// and adjacency. It verifies the packed-link invariant immediately, as the
// original's constructor did, since every later parallel-for assumes it.
func NewHierarchy(v, n []r3.Vec, a []float64, adj Adjacency, scale float64, cfg *Config) (*Hierarchy, error) {
	if err := checkLinkPacking(); err != nil {
		return nil, err
	}
	if len(v) != len(n) || len(v) != len(a) || adj.NumVertices() != len(v) {
		return nil, fmt.Errorf("hierarchy: level 0 arrays and adjacency disagree on vertex count")
	}
	if cfg == nil {
		cfg = NewConfig()
	}
	level0 := &Level{
		V:   v,
		N:   n,
		A:   a,
		Adj: adj,
	}
	return &Hierarchy{levels: []*Level{level0}, Scale: scale, cfg: cfg}, nil
}

// Build populates the level stack: colors level 0, then repeatedly
// downsamples and colors until a level has one vertex or MaxDepth steps
// have run, per spec.md §4.3. It allocates empty constraint arrays at every
// level it creates.
func (h *Hierarchy) Build(deterministic bool, progress ProgressFunc, logger zerolog.Logger) error {
	if progress == nil {
		progress = noopProgress
	}
	if len(h.levels) != 1 {
		return fmt.Errorf("hierarchy: Build called more than once")
	}

	logger.Info().Msg("processing level 0")
	phases, err := colorGraph(&h.levels[0].Adj, h.levels[0].NumVertices(), deterministic, h.cfg, progress)
	if err != nil {
		return fmt.Errorf("coloring level 0: %w", err)
	}
	h.levels[0].Phases = phases
	h.allocateConstraints(h.levels[0])
	h.TotalSize = h.levels[0].NumVertices()

	logger.Info().Msg("building multiresolution hierarchy")
	for i := 0; i < h.cfg.MaxDepth(); i++ {
		current := h.levels[len(h.levels)-1]
		coarse := downsample(current, deterministic, h.cfg, progress)

		coarsePhases, err := colorGraph(&coarse.Adj, coarse.NumVertices(), deterministic, h.cfg, progress)
		if err != nil {
			return fmt.Errorf("coloring level %d: %w", len(h.levels), err)
		}
		coarse.Phases = coarsePhases
		h.allocateConstraints(coarse)

		h.TotalSize += coarse.NumVertices()
		h.levels = append(h.levels, coarse)

		logger.Debug().Int("level", len(h.levels)-1).Int("vertices", coarse.NumVertices()).Msg("coarsened")

		if coarse.NumVertices() == 1 {
			break
		}
	}
	h.FrozenQ, h.FrozenO = false, false
	logger.Info().Int("levels", h.Levels()).Int("total_size", h.TotalSize).Msg("hierarchy construction complete")
	return nil
}

func (h *Hierarchy) allocateConstraints(lvl *Level) {
	n := lvl.NumVertices()
	lvl.CQ = make([]r3.Vec, n)
	lvl.CO = make([]r3.Vec, n)
	lvl.CQw = make([]float64, n)
	lvl.COw = make([]float64, n)
}

// ClearConstraints zeros the weight arrays at every level, leaving the
// direction/position arrays untouched (a zero weight makes them
// unreferenced, matching spec.md's "weight of 0 means no constraint").
func (h *Hierarchy) ClearConstraints() {
	for _, lvl := range h.levels {
		n := lvl.NumVertices()
		if len(lvl.CQ) != n {
			lvl.CQ = make([]r3.Vec, n)
			lvl.CO = make([]r3.Vec, n)
		}
		lvl.CQw = make([]float64, n)
		lvl.COw = make([]float64, n)
	}
}

// ResetSolution seeds every level's Q and O fields with a fresh random
// tangent direction and position, per spec.md §4.6.
func (h *Hierarchy) ResetSolution(coord CoordinateSystem) {
	seed := h.cfg.RandomSeed()
	grain := h.cfg.GrainSize()
	for _, lvl := range h.levels {
		n := lvl.NumVertices()
		lvl.Q = make([]r3.Vec, n)
		lvl.O = make([]r3.Vec, n)
		initRandomTangent(lvl.N, lvl.Q, coord, seed, grain)
		initRandomPosition(lvl.V, lvl.N, lvl.O, coord, h.Scale, seed, grain)
	}
	h.FrozenQ, h.FrozenO = false, false
}

// Free releases every owned per-level allocation. After Free the Hierarchy
// must not be used except to be discarded.
func (h *Hierarchy) Free() {
	h.levels = nil
	h.TotalSize = 0
}

// Stats reports a per-component element-count accounting across all levels,
// the Go-native equivalent of the original's printStatistics. It exists for
// diagnostics only; nothing in the coarsening/coloring/propagation path
// consults it.
type Stats struct {
	Levels        int
	VertexCount   int
	FieldElements int
	LinkElements  int
	PhaseSlots    int
}

// Stats summarizes the current hierarchy's size.
func (h *Hierarchy) Stats() Stats {
	s := Stats{Levels: h.Levels()}
	for _, lvl := range h.levels {
		s.VertexCount += lvl.NumVertices()
		s.FieldElements += len(lvl.Q) + len(lvl.O) + len(lvl.CQ) + len(lvl.CO)
		s.LinkElements += len(lvl.Adj.Links)
		for _, phase := range lvl.Phases {
			s.PhaseSlots += len(phase)
		}
	}
	return s
}
