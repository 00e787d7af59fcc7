package fields

import (
	"math"

	"github.com/fieldmesh/hierarchy/pkg/hierarchy"
	"gonum.org/v1/gonum/graph/simple"
	"gonum.org/v1/gonum/graph/topo"
)

// ToGonumGraph converts a hierarchy level's adjacency to a gonum weighted
// undirected graph, for diagnostics only — nothing in the coarsening or
// coloring path consults it. Mirrors the "convert internal graph to a
// gonum graph" adapter pattern used elsewhere in the retrieved pack.
func ToGonumGraph(lvl *hierarchy.Level) *simple.WeightedUndirectedGraph {
	g := simple.NewWeightedUndirectedGraph(0, math.Inf(1))
	for i := 0; i < lvl.NumVertices(); i++ {
		g.AddNode(simple.Node(int64(i)))
	}
	for i := 0; i < lvl.NumVertices(); i++ {
		for _, link := range lvl.Adj.Neighbors(uint32(i)) {
			from, to := int64(i), int64(link.Neighbor)
			if from == to || g.HasEdgeBetween(from, to) {
				continue
			}
			g.SetWeightedEdge(simple.WeightedEdge{F: simple.Node(from), T: simple.Node(to), W: float64(link.Weight)})
		}
	}
	return g
}

// ConnectedComponents counts a level's connected components, a sanity check
// worth printing before coarsening: a graph with more components than
// expected usually means the adjacency the caller built is wrong, not
// anything this package's coarsener can fix.
func ConnectedComponents(lvl *hierarchy.Level) int {
	return len(topo.ConnectedComponents(ToGonumGraph(lvl)))
}
