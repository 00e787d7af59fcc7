package fields

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/spatial/r3"
)

func TestCoordinateFrameIsOrthonormal(t *testing.T) {
	normals := []r3.Vec{
		{X: 1}, {Y: 1}, {Z: 1},
		r3.Unit(r3.Vec{X: 1, Y: 1, Z: 1}),
		r3.Unit(r3.Vec{X: 0.1, Y: 0.9, Z: 0.3}),
	}
	for _, n := range normals {
		s, tt := CoordinateFrame(n)
		if got := r3.Dot(s, n); math.Abs(got) > 1e-9 {
			t.Errorf("s is not orthogonal to n=%v: dot = %v", n, got)
		}
		if got := r3.Dot(tt, n); math.Abs(got) > 1e-9 {
			t.Errorf("t is not orthogonal to n=%v: dot = %v", n, got)
		}
		if got := r3.Dot(s, tt); math.Abs(got) > 1e-9 {
			t.Errorf("s is not orthogonal to t for n=%v: dot = %v", n, got)
		}
		if got := r3.Norm(s); math.Abs(got-1) > 1e-9 {
			t.Errorf("s is not unit length for n=%v: norm = %v", n, got)
		}
	}
}

func TestOrientationSymmetryPicksBestAlignedRotation(t *testing.T) {
	n0 := r3.Vec{Z: 1}
	q0 := r3.Vec{X: 1}
	q1 := r3.Vec{X: -1} // 180 degrees off; under 4-fold symmetry this is equivalent to q0 already

	compat := OrientationSymmetry(4)
	a, b := compat(q0, n0, q1, n0)
	if a != q0 {
		t.Errorf("orientation compat changed q0: got %v, want %v", a, q0)
	}
	if got := r3.Dot(b, q0); got < 0.99 {
		t.Errorf("best-aligned rotation of q1 should end up parallel to q0, dot = %v", got)
	}
}

func TestPositionSymmetrySnapsToLatticePoint(t *testing.T) {
	n0 := r3.Vec{Z: 1}
	q0 := r3.Vec{X: 1}
	o0 := r3.Vec{}
	// o1 sits almost exactly 2 lattice steps away along q0.
	o1 := r3.Vec{X: 1.98}

	compat := PositionSymmetry(4)
	a, b := compat(r3.Vec{}, n0, q0, o0, r3.Vec{}, n0, q0, o1, 1.0, 1.0)
	if a != o0 {
		t.Errorf("position compat changed o0: got %v, want %v", a, o0)
	}
	want := r3.Vec{X: 2}
	if dist := r3.Norm(r3.Sub(b, want)); dist > 1e-6 {
		t.Errorf("snapped position = %v, want %v", b, want)
	}
}
