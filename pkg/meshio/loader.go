// Package meshio loads a weighted adjacency from a plain text edge-list
// file, the same line-oriented "from to weight" scanning idiom the teacher
// uses to read its own edge lists, adapted here to build a
// hierarchy.Adjacency instead of a community-detection graph.
package meshio

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/fieldmesh/hierarchy/pkg/hierarchy"
	"gonum.org/v1/gonum/spatial/r3"
)

// Mesh is a loaded point cloud plus its adjacency, ready to hand to
// hierarchy.NewHierarchy.
type Mesh struct {
	V, N []r3.Vec
	A    []float64
	Adj  hierarchy.Adjacency
}

// LoadEdgeList reads vertices from vertexPath ("x y z nx ny nz area" per
// line) and edges from edgePath ("from to weight" per line), and packs them
// into a Mesh. Blank lines and lines starting with "#" are skipped, matching
// the teacher's comment-tolerant line scanning.
func LoadEdgeList(vertexPath, edgePath string) (*Mesh, error) {
	v, n, a, err := readVertices(vertexPath)
	if err != nil {
		return nil, fmt.Errorf("meshio: reading vertices: %w", err)
	}
	perVertex, err := readEdges(edgePath, len(v))
	if err != nil {
		return nil, fmt.Errorf("meshio: reading edges: %w", err)
	}
	adj := hierarchy.NewAdjacency(perVertex)
	if err := adj.Validate(); err != nil {
		return nil, fmt.Errorf("meshio: %w", err)
	}
	return &Mesh{V: v, N: n, A: a, Adj: adj}, nil
}

func readVertices(path string) (v, n []r3.Vec, a []float64, err error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, nil, err
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) != 7 {
			return nil, nil, nil, fmt.Errorf("line %d: want 7 fields (x y z nx ny nz area), got %d", lineNo, len(fields))
		}
		values := make([]float64, 7)
		for i, f := range fields {
			values[i], err = strconv.ParseFloat(f, 64)
			if err != nil {
				return nil, nil, nil, fmt.Errorf("line %d: field %d: %w", lineNo, i, err)
			}
		}
		v = append(v, r3.Vec{X: values[0], Y: values[1], Z: values[2]})
		n = append(n, r3.Vec{X: values[3], Y: values[4], Z: values[5]})
		a = append(a, values[6])
	}
	return v, n, a, scanner.Err()
}

func readEdges(path string, numVertices int) ([][]hierarchy.Link, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	perVertex := make([][]hierarchy.Link, numVertices)
	scanner := bufio.NewScanner(f)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) != 3 {
			return nil, fmt.Errorf("line %d: want 3 fields (from to weight), got %d", lineNo, len(fields))
		}
		from, err := strconv.Atoi(fields[0])
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNo, err)
		}
		to, err := strconv.Atoi(fields[1])
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNo, err)
		}
		weight, err := strconv.ParseFloat(fields[2], 64)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNo, err)
		}
		if from < 0 || from >= numVertices || to < 0 || to >= numVertices {
			return nil, fmt.Errorf("line %d: edge (%d,%d) out of range for %d vertices", lineNo, from, to, numVertices)
		}
		if from == to {
			return nil, fmt.Errorf("line %d: self-loop on vertex %d", lineNo, from)
		}
		perVertex[from] = append(perVertex[from], hierarchy.Link{Neighbor: uint32(to), Weight: float32(weight)})
		perVertex[to] = append(perVertex[to], hierarchy.Link{Neighbor: uint32(from), Weight: float32(weight)})
	}
	return perVertex, scanner.Err()
}
