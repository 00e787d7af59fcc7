package meshio

import (
	"os"
	"path/filepath"
	"testing"
)

func writeTempFile(t *testing.T, name, content string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("WriteFile(%s) error = %v", path, err)
	}
	return path
}

func TestLoadEdgeListParsesTriangle(t *testing.T) {
	vertexPath := writeTempFile(t, "vertices.txt", `# x y z nx ny nz area
0 0 0  0 0 1  1.0
1 0 0  0 0 1  1.0
0 1 0  0 0 1  1.0
`)
	edgePath := writeTempFile(t, "edges.txt", `# from to weight
0 1 1.0
1 2 1.0
2 0 1.0
`)

	mesh, err := LoadEdgeList(vertexPath, edgePath)
	if err != nil {
		t.Fatalf("LoadEdgeList() error = %v", err)
	}
	if len(mesh.V) != 3 {
		t.Fatalf("len(V) = %d, want 3", len(mesh.V))
	}
	if mesh.Adj.NumVertices() != 3 {
		t.Fatalf("Adj.NumVertices() = %d, want 3", mesh.Adj.NumVertices())
	}
	for i := 0; i < 3; i++ {
		if got := len(mesh.Adj.Neighbors(uint32(i))); got != 2 {
			t.Errorf("vertex %d has %d neighbors, want 2", i, got)
		}
	}
}

func TestLoadEdgeListRejectsSelfLoop(t *testing.T) {
	vertexPath := writeTempFile(t, "vertices.txt", "0 0 0 0 0 1 1.0\n1 0 0 0 0 1 1.0\n")
	edgePath := writeTempFile(t, "edges.txt", "0 0 1.0\n")

	if _, err := LoadEdgeList(vertexPath, edgePath); err == nil {
		t.Fatal("LoadEdgeList() with a self-loop edge returned nil error")
	}
}

func TestLoadEdgeListRejectsOutOfRangeEdge(t *testing.T) {
	vertexPath := writeTempFile(t, "vertices.txt", "0 0 0 0 0 1 1.0\n")
	edgePath := writeTempFile(t, "edges.txt", "0 5 1.0\n")

	if _, err := LoadEdgeList(vertexPath, edgePath); err == nil {
		t.Fatal("LoadEdgeList() with an out-of-range edge returned nil error")
	}
}
