package hierarchy

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// initRandomTangent seeds Q with a uniformly random in-plane direction at
// every vertex, per spec.md §4.6.
func initRandomTangent(n []r3.Vec, q []r3.Vec, coord CoordinateSystem, seed int64, grain int) {
	parallelFor(len(n), grain, func(lo, hi int) {
		rng := shardRNG(seed, lo)
		for i := lo; i < hi; i++ {
			s, t := coord(n[i])
			angle := rng.Float64() * 2 * math.Pi
			q[i] = r3.Add(r3.Scale(math.Cos(angle), s), r3.Scale(math.Sin(angle), t))
		}
	})
}

// initRandomPosition seeds O with a random offset within the tangent
// plane's [-1,1]x[-1,1] square, scaled by the hierarchy's target scale.
func initRandomPosition(p, n []r3.Vec, o []r3.Vec, coord CoordinateSystem, scale float64, seed int64, grain int) {
	parallelFor(len(n), grain, func(lo, hi int) {
		rng := shardRNG(seed, 2*lo)
		for i := lo; i < hi; i++ {
			s, t := coord(n[i])
			x := rng.Float64()*2 - 1
			y := rng.Float64()*2 - 1
			o[i] = r3.Add(p[i], r3.Scale(scale, r3.Add(r3.Scale(x, s), r3.Scale(y, t))))
		}
	})
}
