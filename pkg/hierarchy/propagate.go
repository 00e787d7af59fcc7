package hierarchy

import "gonum.org/v1/gonum/spatial/r3"

// selectOrientation resolves a rosy parameter to the collaborator that
// implements that rotational symmetry. Dispatch happens once per call,
// above the parallel-for loops that use it, per the spec's design note
// about avoiding dynamic dispatch in the hot inner loop.
func selectOrientation(rosy int, ops CompatibilityOps) (CompatOrientation, error) {
	switch rosy {
	case 2:
		return ops.Orientation2, nil
	case 4:
		return ops.Orientation4, nil
	case 6:
		return ops.Orientation6, nil
	default:
		return nil, ErrUnsupportedSymmetry
	}
}

// selectPosition resolves a posy parameter to the collaborator that
// implements that positional symmetry.
func selectPosition(posy int, ops CompatibilityOps) (CompatPosition, error) {
	switch posy {
	case 3:
		return ops.Position3, nil
	case 4:
		return ops.Position4, nil
	default:
		return nil, ErrUnsupportedSymmetry
	}
}

// CompatibilityOps bundles the symmetry-compatibility collaborators the
// Propagator dispatches on. These are opaque to this package: their exact
// numeric definitions live outside it (see package fields for one concrete
// implementation used by tests and the CLI demo).
type CompatibilityOps struct {
	Orientation2, Orientation4, Orientation6 CompatOrientation
	Position3, Position4                     CompatPosition
	Coordinate                               CoordinateSystem
}

// PropagateSolution pushes the tangent field Q from every level down to the
// next coarser level, per spec.md §4.4.
func (h *Hierarchy) PropagateSolution(rosy int, ops CompatibilityOps) error {
	compat, err := selectOrientation(rosy, ops)
	if err != nil {
		return err
	}
	rcpOverflow := h.cfg.RCPOverflow()
	grain := h.cfg.GrainSize()

	for l := 0; l < h.Levels()-1; l++ {
		fine, coarse := h.levels[l], h.levels[l+1]
		parallelFor(coarse.NumVertices(), grain, func(lo, hi int) {
			for i := lo; i < hi; i++ {
				upper := coarse.ToUpper[i]
				q0, n0 := fine.Q[upper[0]], fine.N[upper[0]]
				var q r3.Vec
				if upper[1] != InvalidIndex {
					q1, n1 := fine.Q[upper[1]], fine.N[upper[1]]
					a, b := compat(q0, n0, q1, n1)
					q = r3.Add(a, b)
				} else {
					q = q0
				}
				n := coarse.N[i]
				q = r3.Sub(q, r3.Scale(r3.Dot(n, q), n))
				if r3.Dot(q, q) > rcpOverflow {
					q = r3.Unit(q)
				}
				coarse.Q[i] = q
			}
		})
	}
	return nil
}

// PropagateConstraints pushes sparse direction/position constraints up the
// hierarchy one level at a time, per spec.md §4.5.
func (h *Hierarchy) PropagateConstraints(rosy, posy int, ops CompatibilityOps) error {
	if h.Levels() == 0 {
		return nil
	}
	compatOrient, err := selectOrientation(rosy, ops)
	if err != nil {
		return err
	}
	compatPos, err := selectPosition(posy, ops)
	if err != nil {
		return err
	}
	rcpOverflow := h.cfg.RCPOverflow()
	grain := h.cfg.GrainSize()
	scale := h.Scale
	invScale := 1 / scale
	clamp := h.cfg.ConstraintWeightPolicy() == ClampToOne

	for l := 0; l < h.Levels()-1; l++ {
		fine, coarse := h.levels[l], h.levels[l+1]
		parallelFor(coarse.NumVertices(), grain, func(lo, hi int) {
			for i := lo; i < hi; i++ {
				upper := coarse.ToUpper[i]
				p0, p1 := upper[0], upper[1]
				hasP1 := p1 != InvalidIndex

				hasCQ0 := fine.CQw[p0] != 0
				hasCQ1 := hasP1 && fine.CQw[p1] != 0
				hasCO0 := fine.COw[p0] != 0
				hasCO1 := hasP1 && fine.COw[p1] != 0

				var cq, co r3.Vec
				var cqw, cow float64

				switch {
				case hasCQ0 && !hasCQ1:
					cq, cqw = fine.CQ[p0], fine.CQw[p0]
				case hasCQ1 && !hasCQ0:
					cq, cqw = fine.CQ[p1], fine.CQw[p1]
				case hasCQ0 && hasCQ1:
					a, b := compatOrient(fine.CQ[p0], fine.N[p0], fine.CQ[p1], fine.N[p1])
					cqw = fine.CQw[p0] + fine.CQw[p1]
					cq = r3.Add(r3.Scale(fine.CQw[p0], a), r3.Scale(fine.CQw[p1], b))
				}
				if cq != (r3.Vec{}) {
					n := coarse.N[i]
					cq = r3.Sub(cq, r3.Scale(r3.Dot(n, cq), n))
					if r3.Dot(cq, cq) > rcpOverflow {
						cq = r3.Unit(cq)
					}
				}

				switch {
				case hasCO0 && !hasCO1:
					co, cow = fine.CO[p0], fine.COw[p0]
				case hasCO1 && !hasCO0:
					co, cow = fine.CO[p1], fine.COw[p1]
				case hasCO0 && hasCO1:
					a, b := compatPos(fine.V[p0], fine.N[p0], fine.CQ[p0], fine.CO[p0],
						fine.V[p1], fine.N[p1], fine.CQ[p1], fine.CO[p1], scale, invScale)
					cow = fine.COw[p0] + fine.COw[p1]
					co = r3.Scale(1/cow, r3.Add(r3.Scale(fine.COw[p0], a), r3.Scale(fine.COw[p1], b)))
				}
				if co != (r3.Vec{}) {
					n, v := coarse.N[i], coarse.V[i]
					co = r3.Sub(co, r3.Scale(r3.Dot(n, r3.Sub(cq, v)), n))
				}

				if clamp {
					if cqw > 0 {
						cqw = 1
					}
					if cow > 0 {
						cow = 1
					}
				} else {
					cqw *= 0.5
					cow *= 0.5
				}

				coarse.CQw[i], coarse.COw[i] = cqw, cow
				coarse.CQ[i], coarse.CO[i] = cq, co
			}
		})
	}
	return nil
}
