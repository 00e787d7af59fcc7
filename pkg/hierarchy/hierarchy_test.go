package hierarchy

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/spatial/r3"
)

func sphereCoord(n r3.Vec) (s, t r3.Vec) {
	helper := r3.Vec{X: 1}
	if n.X > 0.9 {
		helper = r3.Vec{Y: 1}
	}
	s = r3.Unit(r3.Cross(n, helper))
	t = r3.Cross(n, s)
	return s, t
}

func identityOrientation(q0, n0, q1, n1 r3.Vec) (a, b r3.Vec) { return q0, q1 }
func identityPosition(v0, n0, q0, o0, v1, n1, q1, o1 r3.Vec, scale, invScale float64) (a, b r3.Vec) {
	return o0, o1
}

func identityOps() CompatibilityOps {
	return CompatibilityOps{
		Orientation2: identityOrientation,
		Orientation4: identityOrientation,
		Orientation6: identityOrientation,
		Position3:    identityPosition,
		Position4:    identityPosition,
		Coordinate:   sphereCoord,
	}
}

// smallSphereHierarchy builds a single ring adjacency over n points on the
// unit circle so Build has more than one coarsening step to perform.
func smallSphereHierarchy(t *testing.T, n int) *Hierarchy {
	t.Helper()
	v := make([]r3.Vec, n)
	nrm := make([]r3.Vec, n)
	a := make([]float64, n)
	for i := 0; i < n; i++ {
		angle := 2 * math.Pi * float64(i) / float64(n)
		v[i] = r3.Vec{X: math.Cos(angle), Y: math.Sin(angle)}
		nrm[i] = r3.Unit(v[i])
		a[i] = 1
	}
	adj := NewAdjacency(ring(n))
	cfg := NewConfig()
	cfg.Set("hierarchy.random_seed", int64(7))
	h, err := NewHierarchy(v, nrm, a, adj, 1.0, cfg)
	if err != nil {
		t.Fatalf("NewHierarchy() error = %v", err)
	}
	return h
}

func TestHierarchyBuildProducesShrinkingLevels(t *testing.T) {
	h := smallSphereHierarchy(t, 64)
	logger := h.cfg.CreateLogger()
	if err := h.Build(true, nil, logger); err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	if h.Levels() < 2 {
		t.Fatalf("Levels() = %d, want at least 2", h.Levels())
	}
	for l := 1; l < h.Levels(); l++ {
		if h.Size(l) >= h.Size(l-1) {
			t.Fatalf("level %d has %d vertices, level %d has %d: sizes must strictly decrease", l, h.Size(l), l-1, h.Size(l-1))
		}
	}
	last := h.Level(h.Levels() - 1)
	if last.NumVertices() != 1 && h.Levels() != h.cfg.MaxDepth()+1 {
		t.Errorf("build stopped at %d vertices without hitting MaxDepth", last.NumVertices())
	}
}

func TestHierarchyBuildTwiceFails(t *testing.T) {
	h := smallSphereHierarchy(t, 16)
	logger := h.cfg.CreateLogger()
	if err := h.Build(true, nil, logger); err != nil {
		t.Fatalf("first Build() error = %v", err)
	}
	if err := h.Build(true, nil, logger); err == nil {
		t.Fatal("second Build() returned nil error, want an error")
	}
}

func TestHierarchyResetSolutionProducesUnitTangents(t *testing.T) {
	h := smallSphereHierarchy(t, 32)
	logger := h.cfg.CreateLogger()
	if err := h.Build(true, nil, logger); err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	h.ResetSolution(sphereCoord)

	lvl := h.Level(0)
	for i, q := range lvl.Q {
		if got := r3.Dot(q, lvl.N[i]); got > 1e-6 || got < -1e-6 {
			t.Errorf("Q[%d] is not tangent to N[%d]: dot = %v", i, i, got)
		}
		if norm := r3.Norm(q); norm < 0.99 || norm > 1.01 {
			t.Errorf("Q[%d] is not unit length: norm = %v", i, norm)
		}
	}
}

func TestHierarchyPropagateSolutionRejectsUnsupportedSymmetry(t *testing.T) {
	h := smallSphereHierarchy(t, 16)
	logger := h.cfg.CreateLogger()
	if err := h.Build(true, nil, logger); err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	if err := h.PropagateSolution(5, identityOps()); err == nil {
		t.Fatal("PropagateSolution(5, ...) returned nil error, want ErrUnsupportedSymmetry")
	}
}

func TestHierarchyPropagateSolutionAndConstraintsRun(t *testing.T) {
	h := smallSphereHierarchy(t, 48)
	logger := h.cfg.CreateLogger()
	if err := h.Build(true, nil, logger); err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	h.ResetSolution(sphereCoord)
	h.ClearConstraints()

	ops := identityOps()
	if err := h.PropagateSolution(4, ops); err != nil {
		t.Fatalf("PropagateSolution() error = %v", err)
	}
	if err := h.PropagateConstraints(4, 4, ops); err != nil {
		t.Fatalf("PropagateConstraints() error = %v", err)
	}

	top := h.Level(h.Levels() - 1)
	for i, q := range top.Q {
		if norm := r3.Norm(q); norm > 1.01 {
			t.Errorf("level top Q[%d] grew beyond unit length: norm = %v", i, norm)
		}
	}
}

func TestHierarchyClearConstraintsZeroesWeights(t *testing.T) {
	h := smallSphereHierarchy(t, 16)
	logger := h.cfg.CreateLogger()
	if err := h.Build(true, nil, logger); err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	for _, lvl := range h.levels {
		for i := range lvl.CQw {
			lvl.CQw[i] = 1
			lvl.COw[i] = 1
		}
	}
	h.ClearConstraints()
	for _, lvl := range h.levels {
		for i, w := range lvl.CQw {
			if w != 0 {
				t.Errorf("CQw[%d] = %v after ClearConstraints, want 0", i, w)
			}
		}
		for i, w := range lvl.COw {
			if w != 0 {
				t.Errorf("COw[%d] = %v after ClearConstraints, want 0", i, w)
			}
		}
	}
}

func TestHierarchyStatsReflectsLevels(t *testing.T) {
	h := smallSphereHierarchy(t, 16)
	logger := h.cfg.CreateLogger()
	if err := h.Build(true, nil, logger); err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	stats := h.Stats()
	if stats.Levels != h.Levels() {
		t.Errorf("Stats().Levels = %d, want %d", stats.Levels, h.Levels())
	}
	if stats.VertexCount != h.TotalSize {
		t.Errorf("Stats().VertexCount = %d, want %d", stats.VertexCount, h.TotalSize)
	}
}

func TestHierarchyFreeClearsLevels(t *testing.T) {
	h := smallSphereHierarchy(t, 8)
	logger := h.cfg.CreateLogger()
	if err := h.Build(true, nil, logger); err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	h.Free()
	if h.Levels() != 0 {
		t.Errorf("Levels() = %d after Free(), want 0", h.Levels())
	}
	if h.TotalSize != 0 {
		t.Errorf("TotalSize = %d after Free(), want 0", h.TotalSize)
	}
}

func TestNewHierarchyRejectsMismatchedArrayLengths(t *testing.T) {
	v := make([]r3.Vec, 4)
	n := make([]r3.Vec, 3)
	a := make([]float64, 4)
	adj := NewAdjacency(ring(4))
	if _, err := NewHierarchy(v, n, a, adj, 1.0, nil); err == nil {
		t.Fatal("NewHierarchy() with mismatched array lengths returned nil error")
	}
}
