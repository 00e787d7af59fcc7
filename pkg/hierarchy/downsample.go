package hierarchy

import (
	"sort"
	"sync/atomic"

	"gonum.org/v1/gonum/spatial/r3"
)

// matchEntry is one candidate directed edge considered for greedy matching,
// ranked by score (higher is matched first; see scoreEdge).
type matchEntry struct {
	i, k  uint32
	score float32
}

// scoreEdge implements the spec's weighted-matching ranking: the dot
// product of the two normals times the ratio of the larger area to the
// smaller, so strong normal alignment and a larger area ratio both push the
// score up.
func scoreEdge(lvl *Level, i, k uint32) float32 {
	dp := r3.Dot(lvl.N[i], lvl.N[k])
	ai, ak := lvl.A[i], lvl.A[k]
	var ratio float64
	if ai > ak {
		ratio = ai / ak
	} else {
		ratio = ak / ai
	}
	return float32(dp * ratio)
}

// downsample performs one coarsening step on lvl, returning the new coarse
// level. See spec.md §4.1 for the six numbered sub-steps this mirrors.
func downsample(lvl *Level, deterministic bool, cfg *Config, progress ProgressFunc) *Level {
	n := lvl.NumVertices()
	nLinks := len(lvl.Adj.Links)
	grain := cfg.GrainSize()

	// Step 1: edge scoring, one entry per directed adjacency entry.
	entries := make([]matchEntry, nLinks)
	parallelFor(n, grain, func(lo, hi int) {
		for i := lo; i < hi; i++ {
			links := lvl.Adj.Neighbors(uint32(i))
			base := lvl.Adj.Offsets[i]
			for j, link := range links {
				entries[base+uint32(j)] = matchEntry{i: uint32(i), k: link.Neighbor, score: scoreEdge(lvl, uint32(i), link.Neighbor)}
			}
		}
	})
	progress("Downsampling graph (scoring)", 0.15)

	// Step 2: sort by descending score. The deterministic path's stability
	// is the reproducibility anchor; the fast path needs none.
	less := func(a, b matchEntry) bool { return a.score > b.score }
	if deterministic {
		sort.SliceStable(entries, func(a, b int) bool { return less(entries[a], entries[b]) })
	} else {
		parallelSortEntries(entries, less)
	}
	progress("Downsampling graph (sorting)", 0.3)

	// Step 3: greedy matching, intentionally serial.
	matched := make([]bool, n)
	nCollapsed := 0
	for _, e := range entries {
		if matched[e.i] || matched[e.k] {
			continue
		}
		matched[e.i], matched[e.k] = true, true
		entries[nCollapsed] = e
		nCollapsed++
	}
	entries = entries[:nCollapsed]
	vertexCount := n - nCollapsed

	coarse := &Level{
		V:       make([]r3.Vec, vertexCount),
		N:       make([]r3.Vec, vertexCount),
		A:       make([]float64, vertexCount),
		ToUpper: make([][2]uint32, vertexCount),
	}
	toLower := make([]uint32, n)

	// Step 4: coarse attribute synthesis for matched pairs.
	rcpOverflow := cfg.RCPOverflow()
	parallelFor(nCollapsed, grain, func(lo, hi int) {
		for idx := lo; idx < hi; idx++ {
			e := entries[idx]
			ai, ak := lvl.A[e.i], lvl.A[e.k]
			surfaceArea := ai + ak
			if surfaceArea > rcpOverflow {
				coarse.V[idx] = r3.Add(r3.Scale(ai/surfaceArea, lvl.V[e.i]), r3.Scale(ak/surfaceArea, lvl.V[e.k]))
			} else {
				coarse.V[idx] = r3.Scale(0.5, r3.Add(lvl.V[e.i], lvl.V[e.k]))
			}
			normal := r3.Add(r3.Scale(ai, lvl.N[e.i]), r3.Scale(ak, lvl.N[e.k]))
			if norm := r3.Norm(normal); norm > rcpOverflow {
				coarse.N[idx] = r3.Scale(1/norm, normal)
			} else {
				coarse.N[idx] = r3.Vec{X: 1}
			}
			coarse.A[idx] = surfaceArea
			coarse.ToUpper[idx] = [2]uint32{e.i, e.k}
			toLower[e.i] = uint32(idx)
			toLower[e.k] = uint32(idx)
		}
	})
	progress("Downsampling graph (attributes)", 0.5)

	// Step 5: promote unmatched vertices. The deterministic path copies
	// sequentially by ascending fine index so coarse indices are a
	// reproducible function of the input; the fast path uses an atomic
	// counter and accepts nondeterministic coarse indices in this region.
	if deterministic {
		next := uint32(nCollapsed)
		for i := 0; i < n; i++ {
			if !matched[i] {
				coarse.V[next] = lvl.V[i]
				coarse.N[next] = lvl.N[i]
				coarse.A[next] = lvl.A[i]
				coarse.ToUpper[next] = [2]uint32{uint32(i), InvalidIndex}
				toLower[i] = next
				next++
			}
		}
	} else {
		offset := int32(nCollapsed)
		parallelFor(n, grain, func(lo, hi int) {
			for i := lo; i < hi; i++ {
				if !matched[i] {
					idx := uint32(atomic.AddInt32(&offset, 1) - 1)
					coarse.V[idx] = lvl.V[i]
					coarse.N[idx] = lvl.N[i]
					coarse.A[idx] = lvl.A[i]
					coarse.ToUpper[idx] = [2]uint32{uint32(i), InvalidIndex}
					toLower[i] = idx
				}
			}
		})
	}
	progress("Downsampling graph (promotion)", 0.65)

	lvl.ToLower = toLower

	// Step 6: coarse adjacency construction, two parallel passes: size
	// each coarse vertex's deduplicated neighbor list, then fill it.
	neighborCount := make([]uint32, vertexCount+1)
	parallelFor(vertexCount, grain, func(lo, hi int) {
		var scratch []Link
		for c := lo; c < hi; c++ {
			scratch = gatherScratch(scratch[:0], lvl, coarse.ToUpper[c], toLower)
			sortLinksByNeighbor(scratch)
			neighborCount[c+1] = uint32(dedupCount(scratch, uint32(c)))
		}
	})
	for i := 0; i < vertexCount; i++ {
		neighborCount[i+1] += neighborCount[i]
	}

	links := make([]Link, neighborCount[vertexCount])
	parallelFor(vertexCount, grain, func(lo, hi int) {
		var scratch []Link
		for c := lo; c < hi; c++ {
			scratch = gatherScratch(scratch[:0], lvl, coarse.ToUpper[c], toLower)
			sortLinksByNeighbor(scratch)
			dest := links[neighborCount[c]:neighborCount[c+1]]
			foldDuplicates(scratch, uint32(c), dest)
		}
	})
	coarse.Adj = Adjacency{Links: links, Offsets: neighborCount}
	progress("Downsampling graph (adjacency)", 1.0)

	return coarse
}

// gatherScratch collects, for one coarse vertex's one or two fine parents,
// every fine neighbor projected through toLower, appending into dst.
func gatherScratch(dst []Link, lvl *Level, upper [2]uint32, toLower []uint32) []Link {
	for _, p := range upper {
		if p == InvalidIndex {
			continue
		}
		for _, link := range lvl.Adj.Neighbors(p) {
			dst = append(dst, Link{Neighbor: toLower[link.Neighbor], Weight: link.Weight, Aux: link.Aux})
		}
	}
	return dst
}

// dedupCount counts distinct non-self neighbor ids in a neighbor-sorted
// scratch buffer.
func dedupCount(scratch []Link, self uint32) int {
	count := 0
	id := InvalidIndex
	for _, link := range scratch {
		if link.Neighbor == self {
			continue
		}
		if link.Neighbor != id {
			id = link.Neighbor
			count++
		}
	}
	return count
}

// foldDuplicates writes the deduplicated, weight-summed neighbor list from
// a neighbor-sorted scratch buffer into dest, which must be exactly sized
// by a prior dedupCount call.
func foldDuplicates(scratch []Link, self uint32, dest []Link) {
	id := InvalidIndex
	n := 0
	for _, link := range scratch {
		if link.Neighbor == self {
			continue
		}
		if link.Neighbor != id {
			dest[n] = link
			id = link.Neighbor
			n++
		} else {
			dest[n-1].Weight += link.Weight
		}
	}
}

// parallelSortEntries sorts entries concurrently for the fast (non-
// deterministic) path: split in half, sort each half on its own goroutine,
// then merge sequentially. A single split is enough to exercise real
// parallelism without the complexity of a full parallel merge sort, since
// this path never needs to reproduce a canonical order.
func parallelSortEntries(entries []matchEntry, less func(a, b matchEntry) bool) {
	if len(entries) < 2048 {
		sort.Slice(entries, func(i, j int) bool { return less(entries[i], entries[j]) })
		return
	}
	mid := len(entries) / 2
	left, right := entries[:mid], entries[mid:]
	done := make(chan struct{})
	go func() {
		defer close(done)
		sort.Slice(left, func(i, j int) bool { return less(left[i], left[j]) })
	}()
	sort.Slice(right, func(i, j int) bool { return less(right[i], right[j]) })
	<-done
	merged := make([]matchEntry, 0, len(entries))
	i, j := 0, 0
	for i < len(left) && j < len(right) {
		if less(left[i], right[j]) || !less(right[j], left[i]) {
			merged = append(merged, left[i])
			i++
		} else {
			merged = append(merged, right[j])
			j++
		}
	}
	merged = append(merged, left[i:]...)
	merged = append(merged, right[j:]...)
	copy(entries, merged)
}
