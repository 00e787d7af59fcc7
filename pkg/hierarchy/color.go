package hierarchy

import (
	"sort"
	"sync"
)

// colorGraph dispatches to the deterministic or parallel colorer.
func colorGraph(adj *Adjacency, n int, deterministic bool, cfg *Config, progress ProgressFunc) ([][]uint32, error) {
	if deterministic {
		return colorDeterministic(adj, n, progress)
	}
	return colorParallel(adj, n, cfg, progress)
}

// colorDeterministic implements spec.md §4.2.a: a fixed-seed shuffle
// followed by a strictly sequential greedy assignment, so the result is a
// pure function of the graph alone. Like colorParallel, it gives up with
// ColoringExhaustedError once a 255th color would be needed.
func colorDeterministic(adj *Adjacency, n int, progress ProgressFunc) ([][]uint32, error) {
	progress("Graph coloring", 0.0)

	perm := make([]uint32, n)
	for i := range perm {
		perm[i] = uint32(i)
	}
	rng := shardRNG(deterministicColorSeed, 0)
	rng.Shuffle(n, func(i, j int) { perm[i], perm[j] = perm[j], perm[i] })

	color := make([]int, n)
	for i := range color {
		color[i] = -1
	}
	possible := make([]bool, 0, 16)
	sizePerColor := make([]int, 0, 16)
	ncolors := 0

	for _, ip := range perm {
		for i := range possible {
			possible[i] = true
		}
		for _, link := range adj.Neighbors(ip) {
			if c := color[link.Neighbor]; c >= 0 {
				possible[c] = false
			}
		}

		chosen := -1
		for j, ok := range possible {
			if ok {
				chosen = j
				break
			}
		}
		if chosen < 0 {
			if ncolors >= MaxColors {
				return nil, &ColoringExhaustedError{Size: n}
			}
			chosen = ncolors
			ncolors++
			possible = append(possible, true)
			sizePerColor = append(sizePerColor, 0)
		}
		color[ip] = chosen
		sizePerColor[chosen]++
	}

	phases := make([][]uint32, ncolors)
	for i, size := range sizePerColor {
		phases[i] = make([]uint32, 0, size)
	}
	for i := 0; i < n; i++ {
		phases[color[i]] = append(phases[color[i]], uint32(i))
	}
	progress("Graph coloring", 1.0)
	return phases, nil
}

// colorData tracks, per worker shard, how many colors have been allocated
// and how many nodes landed in each.
type colorData struct {
	nColors int
	nNodes  [MaxColors + 1]uint32
}

func reduceColorData(a, b colorData) colorData {
	result := colorData{nColors: a.nColors}
	if b.nColors > result.nColors {
		result.nColors = b.nColors
	}
	for i := 0; i < a.nColors; i++ {
		result.nNodes[i] += a.nNodes[i]
	}
	for i := 0; i < b.nColors; i++ {
		result.nNodes[i] += b.nNodes[i]
	}
	return result
}

// colorParallel implements spec.md §4.2.b: a parallel permutation shuffle
// with ascending-order pairwise locks, then speculative parallel coloring
// where each vertex locks itself and its neighbors (also in ascending
// order) before inspecting and assigning a color.
func colorParallel(adj *Adjacency, n int, cfg *Config, progress ProgressFunc) ([][]uint32, error) {
	progress("Graph coloring", 0.0)
	grain := cfg.GrainSize()

	perm := make([]uint32, n)
	for i := range perm {
		perm[i] = uint32(i)
	}
	locks := make([]sync.Mutex, n)

	parallelFor(n, grain, func(lo, hi int) {
		rng := shardRNG(int64(cfg.RandomSeed()), lo)
		for i := lo; i < hi; i++ {
			k := i + rng.Intn(n-i)
			if i == k {
				continue
			}
			j, kk := i, k
			if j > kk {
				j, kk = kk, j
			}
			locks[j].Lock()
			locks[kk].Lock()
			perm[i], perm[k] = perm[k], perm[i]
			locks[kk].Unlock()
			locks[j].Unlock()
		}
	})
	progress("Graph coloring", 0.4)

	const invalidColor = 0xFF
	color := make([]uint8, n)
	for i := range color {
		color[i] = invalidColor
	}

	var mu sync.Mutex
	reduced := colorData{}

	err := parallelForErr(n, grain, func(lo, hi int) error {
		var neighborhood []uint32
		var possible [MaxColors + 1]bool
		local := colorData{}

		for pidx := lo; pidx < hi; pidx++ {
			i := perm[pidx]

			neighborhood = neighborhood[:0]
			neighborhood = append(neighborhood, i)
			for _, link := range adj.Neighbors(i) {
				neighborhood = append(neighborhood, link.Neighbor)
			}
			sort.Slice(neighborhood, func(a, b int) bool { return neighborhood[a] < neighborhood[b] })
			for _, v := range neighborhood {
				locks[v].Lock()
			}

			for c := 0; c < local.nColors; c++ {
				possible[c] = true
			}
			for _, link := range adj.Neighbors(i) {
				c := color[link.Neighbor]
				if c != invalidColor {
					for int(c) >= local.nColors {
						possible[local.nColors] = true
						local.nNodes[local.nColors] = 0
						local.nColors++
					}
					possible[c] = false
				}
			}

			chosen := -1
			for c := 0; c < local.nColors; c++ {
				if possible[c] {
					chosen = c
					break
				}
			}
			if chosen < 0 {
				if local.nColors >= MaxColors {
					for _, v := range neighborhood {
						locks[v].Unlock()
					}
					return &ColoringExhaustedError{Size: n}
				}
				chosen = local.nColors
				local.nNodes[local.nColors] = 1
				color[i] = uint8(chosen)
				local.nColors++
			} else {
				local.nNodes[chosen]++
				color[i] = uint8(chosen)
			}

			for _, v := range neighborhood {
				locks[v].Unlock()
			}
		}

		mu.Lock()
		reduced = reduceColorData(reduced, local)
		mu.Unlock()
		return nil
	})
	if err != nil {
		return nil, err
	}
	progress("Graph coloring", 0.9)

	phases := make([][]uint32, reduced.nColors)
	for i := 0; i < reduced.nColors; i++ {
		phases[i] = make([]uint32, 0, reduced.nNodes[i])
	}
	for i := 0; i < n; i++ {
		phases[color[i]] = append(phases[color[i]], uint32(i))
	}
	progress("Graph coloring", 1.0)
	return phases, nil
}
