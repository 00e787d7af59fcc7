// Command meshhierarchy builds a synthetic point cloud sampled on a unit
// sphere, assembles a multi-resolution hierarchy over it, and reports
// per-level statistics — a runnable sanity check for the hierarchy package,
// in the same spirit as the teacher's cmd/louvain demo binary.
package main

import (
	"fmt"
	"log"
	"math"
	"os"
	"sort"

	"github.com/fieldmesh/hierarchy/pkg/fields"
	"github.com/fieldmesh/hierarchy/pkg/hierarchy"
	"gonum.org/v1/gonum/spatial/r3"
)

func main() {
	n := 512
	k := 6
	deterministic := true

	fmt.Printf("=== Field-Aligned Remeshing Hierarchy Demo ===\n")
	fmt.Printf("Sampling %d points on a unit sphere, k=%d nearest-neighbor adjacency\n", n, k)

	v, nrm, area := sampleSphere(n)
	adj := buildKNNAdjacency(v, k)

	cfg := hierarchy.NewConfig()
	cfg.Set("logging.level", "info")
	cfg.Set("hierarchy.random_seed", int64(42))

	h, err := hierarchy.NewHierarchy(v, nrm, area, adj, 1.0, cfg)
	if err != nil {
		log.Fatalf("failed to construct hierarchy: %v", err)
	}

	logger := cfg.CreateLogger()
	progress := func(label string, fraction float64) {
		logger.Debug().Str("stage", label).Float64("fraction", fraction).Msg("progress")
	}

	if err := h.Build(deterministic, progress, logger); err != nil {
		log.Fatalf("build failed: %v", err)
	}

	h.ResetSolution(fields.CoordinateFrame)
	h.ClearConstraints()

	ops := fields.Ops()
	if err := h.PropagateSolution(4, ops); err != nil {
		log.Fatalf("propagate solution failed: %v", err)
	}
	if err := h.PropagateConstraints(4, 4, ops); err != nil {
		log.Fatalf("propagate constraints failed: %v", err)
	}

	fmt.Println("\nPer-level summary:")
	for l := 0; l < h.Levels(); l++ {
		lvl := h.Level(l)
		fmt.Printf("  level %2d: %6d vertices, %3d colors, %d connected components\n",
			l, lvl.NumVertices(), len(lvl.Phases), fields.ConnectedComponents(lvl))
	}

	stats := h.Stats()
	fmt.Printf("\nTotals: %d levels, %d vertices, %d field elements, %d link elements\n",
		stats.Levels, stats.VertexCount, stats.FieldElements, stats.LinkElements)

	h.Free()
	os.Exit(0)
}

// sampleSphere places n points on a unit sphere using a Fibonacci lattice,
// assigns each its outward normal, and an area weight proportional to
// 4*pi/n (a uniform-sample approximation of the per-point surface patch).
func sampleSphere(n int) (v, nrm []r3.Vec, area []float64) {
	v = make([]r3.Vec, n)
	nrm = make([]r3.Vec, n)
	area = make([]float64, n)
	goldenAngle := math.Pi * (3 - math.Sqrt(5))
	patch := 4 * math.Pi / float64(n)
	for i := 0; i < n; i++ {
		y := 1 - 2*float64(i)/float64(n-1)
		radius := math.Sqrt(math.Max(0, 1-y*y))
		theta := goldenAngle * float64(i)
		p := r3.Vec{X: math.Cos(theta) * radius, Y: y, Z: math.Sin(theta) * radius}
		v[i] = p
		nrm[i] = p
		area[i] = patch
	}
	return v, nrm, area
}

// buildKNNAdjacency connects each point to its k nearest neighbors by
// Euclidean distance (O(n^2), fine for a demo-sized point cloud) and
// symmetrizes the result so every edge appears from both endpoints with a
// shared weight, as the hierarchy package's Adjacency expects.
func buildKNNAdjacency(v []r3.Vec, k int) hierarchy.Adjacency {
	n := len(v)
	perVertex := make([][]hierarchy.Link, n)
	seen := make([]map[uint32]float32, n)
	for i := range seen {
		seen[i] = make(map[uint32]float32)
	}

	type neighbor struct {
		id   int
		dist float64
	}
	for i := 0; i < n; i++ {
		candidates := make([]neighbor, 0, n-1)
		for j := 0; j < n; j++ {
			if i == j {
				continue
			}
			d := r3.Norm(r3.Sub(v[i], v[j]))
			candidates = append(candidates, neighbor{id: j, dist: d})
		}
		sort.Slice(candidates, func(a, b int) bool { return candidates[a].dist < candidates[b].dist })
		for _, c := range candidates[:k] {
			weight := float32(1 / (c.dist + 1e-6))
			seen[i][uint32(c.id)] = weight
			seen[c.id][uint32(i)] = weight
		}
	}
	for i := 0; i < n; i++ {
		for id, w := range seen[i] {
			perVertex[i] = append(perVertex[i], hierarchy.Link{Neighbor: id, Weight: w})
		}
		sort.Slice(perVertex[i], func(a, b int) bool { return perVertex[i][a].Neighbor < perVertex[i][b].Neighbor })
	}
	return hierarchy.NewAdjacency(perVertex)
}
