// Package fields provides one concrete, swappable implementation of the
// symmetry-compatibility and coordinate-frame collaborators that
// hierarchy.Hierarchy consumes as opaque functions. The hierarchy package
// never imports this one; callers wire a fields.Ops value (or their own)
// into hierarchy.CompatibilityOps at the call site.
package fields

import (
	"math"

	"github.com/fieldmesh/hierarchy/pkg/hierarchy"
	"gonum.org/v1/gonum/spatial/r3"
)

// CoordinateFrame builds an orthonormal tangent frame for n by crossing it
// with whichever world axis n is least aligned with.
func CoordinateFrame(n r3.Vec) (s, t r3.Vec) {
	var helper r3.Vec
	ax, ay, az := math.Abs(n.X), math.Abs(n.Y), math.Abs(n.Z)
	switch {
	case ax <= ay && ax <= az:
		helper = r3.Vec{X: 1}
	case ay <= az:
		helper = r3.Vec{Y: 1}
	default:
		helper = r3.Vec{Z: 1}
	}
	s = r3.Unit(r3.Cross(n, helper))
	t = r3.Cross(n, s)
	return s, t
}

// OrientationSymmetry returns a CompatOrientation that aligns q1 to q0
// under k-fold rotational symmetry: q1 is parallel-transported into n0's
// tangent plane, then rotated by whichever multiple of 2pi/k best aligns it
// with q0. This is a self-consistent reference implementation, not a
// reproduction of any particular published field-aligned remeshing solver's
// exact numerics.
func OrientationSymmetry(k int) hierarchy.CompatOrientation {
	return func(q0, n0, q1, n1 r3.Vec) (a, b r3.Vec) {
		transported := transport(q1, n1, n0)
		best := rotateInPlane(transported, n0, 0)
		bestDot := r3.Dot(q0, best)
		for j := 1; j < k; j++ {
			candidate := rotateInPlane(transported, n0, 2*math.Pi*float64(j)/float64(k))
			if d := r3.Dot(q0, candidate); d > bestDot {
				best, bestDot = candidate, d
			}
		}
		return q0, best
	}
}

// PositionSymmetry returns a CompatPosition that snaps o1's offset from o0
// onto the nearest lattice translate under k-fold positional symmetry,
// using q0 (and n0 x q0) as the lattice basis scaled by `scale`.
func PositionSymmetry(k int) hierarchy.CompatPosition {
	return func(v0, n0, q0, o0, v1, n1, q1, o1 r3.Vec, scale, invScale float64) (a, b r3.Vec) {
		u := q0
		w := r3.Cross(n0, q0)
		if k == 3 {
			// Hexagonal lattice: the second basis vector is 60 degrees from
			// the first rather than 90.
			w = r3.Add(r3.Scale(0.5, u), r3.Scale(math.Sqrt(3)/2, w))
		}
		delta := r3.Sub(o1, o0)
		du := math.Round(r3.Dot(delta, u) * invScale)
		dw := math.Round(r3.Dot(delta, w) * invScale)
		snapped := r3.Add(o0, r3.Scale(scale, r3.Add(r3.Scale(du, u), r3.Scale(dw, w))))
		return o0, snapped
	}
}

// transport projects q (tangent to n1) onto the plane orthogonal to n0 and
// renormalizes, approximating parallel transport between two nearby
// tangent planes.
func transport(q, n1, n0 r3.Vec) r3.Vec {
	projected := r3.Sub(q, r3.Scale(r3.Dot(n0, q), n0))
	if norm := r3.Norm(projected); norm > 1e-8 {
		return r3.Scale(1/norm, projected)
	}
	s, _ := CoordinateFrame(n0)
	return s
}

// rotateInPlane rotates v by angle radians about axis n using Rodrigues'
// formula.
func rotateInPlane(v, n r3.Vec, angle float64) r3.Vec {
	cos, sin := math.Cos(angle), math.Sin(angle)
	return r3.Add(r3.Add(r3.Scale(cos, v), r3.Scale(sin, r3.Cross(n, v))), r3.Scale(r3.Dot(n, v)*(1-cos), n))
}

// Ops bundles the default implementations into a hierarchy.CompatibilityOps
// ready to pass to PropagateSolution/PropagateConstraints.
func Ops() hierarchy.CompatibilityOps {
	return hierarchy.CompatibilityOps{
		Orientation2: OrientationSymmetry(2),
		Orientation4: OrientationSymmetry(4),
		Orientation6: OrientationSymmetry(6),
		Position3:    PositionSymmetry(3),
		Position4:    PositionSymmetry(4),
		Coordinate:   CoordinateFrame,
	}
}
