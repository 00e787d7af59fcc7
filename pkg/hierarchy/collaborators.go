package hierarchy

import "gonum.org/v1/gonum/spatial/r3"

// CoordinateSystem builds an orthonormal frame (s,t) tangent to n. The
// numeric construction is an external collaborator's responsibility; this
// package only needs the signature to seed tangent fields.
type CoordinateSystem func(n r3.Vec) (s, t r3.Vec)

// CompatOrientation returns two tangent vectors that best align q0/q1 under
// a chosen rotational (RoSy) symmetry. Which symmetry it implements is the
// caller's choice at the call site where the function value is selected.
type CompatOrientation func(q0, n0, q1, n1 r3.Vec) (a, b r3.Vec)

// CompatPosition returns two positional offsets that best align under a
// chosen positional (PoSy) symmetry.
type CompatPosition func(v0, n0, q0, o0, v1, n1, q1, o1 r3.Vec, scale, invScale float64) (a, b r3.Vec)

// ProgressFunc reports coarse-grained progress for a named stage. It may be
// invoked concurrently from worker goroutines; implementations must
// tolerate that themselves, this package makes no atomicity promise around
// the fraction values delivered.
type ProgressFunc func(label string, fraction float64)

func noopProgress(string, float64) {}
