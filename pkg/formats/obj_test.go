package formats

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Faultbox/sceneview/internal/mesh"
	"github.com/Faultbox/sceneview/pkg/math"
)

// recordingBuilder captures builder calls and rejects indices past its
// vertex count.
type recordingBuilder struct {
	verts []math.Vec3
	faces [][]int
}

func (b *recordingBuilder) AddVertex(p math.Vec3) int {
	b.verts = append(b.verts, p)
	return len(b.verts) - 1
}

func (b *recordingBuilder) AddFace(indices ...int) error {
	for _, idx := range indices {
		if idx < 0 || idx >= len(b.verts) {
			return errors.New("out of range")
		}
	}
	b.faces = append(b.faces, append([]int(nil), indices...))
	return nil
}

func TestParseOBJ_QuadFan(t *testing.T) {
	src := "v 0 0 0\nv 1 0 0\nv 0 1 0\nv 0 1 1\nf 1 2 3 4\n"
	b := &recordingBuilder{}

	stats, err := ParseOBJ(strings.NewReader(src), b)
	if err != nil {
		t.Fatalf("ParseOBJ: %v", err)
	}
	if len(b.verts) != 4 {
		t.Errorf("expected 4 vertices, got %d", len(b.verts))
	}
	if len(b.faces) != 2 {
		t.Fatalf("expected 2 faces, got %d", len(b.faces))
	}
	want := [][]int{{0, 1, 2}, {0, 2, 3}}
	for i := range want {
		for j := range want[i] {
			if b.faces[i][j] != want[i][j] {
				t.Errorf("face %d = %v, want %v", i, b.faces[i], want[i])
				break
			}
		}
	}
	if stats.Vertices != 4 || stats.Faces != 2 || stats.SkippedLines != 0 {
		t.Errorf("unexpected stats: %+v", stats)
	}
}

func TestParseOBJ_SkipsLines(t *testing.T) {
	tests := []struct {
		name      string
		src       string
		wantVerts int
		wantFaces int
		wantSkip  int
	}{
		{
			name:      "comments and blanks",
			src:       "# comment\n\nv 1 2 3\n   \n",
			wantVerts: 1,
			wantSkip:  3,
		},
		{
			name:      "short vertex",
			src:       "v 1 2\nv 1 2 3\n",
			wantVerts: 1,
			wantSkip:  1,
		},
		{
			name:      "extra vertex components",
			src:       "v 1 2 3 1.0\n",
			wantVerts: 1,
		},
		{
			name:     "unparseable vertex",
			src:      "v 1 abc 3\n",
			wantSkip: 1,
		},
		{
			name:      "short face",
			src:       "v 0 0 0\nv 1 0 0\nf 1 2\n",
			wantVerts: 2,
			wantSkip:  1,
		},
		{
			name:     "unknown tokens",
			src:      "vn 0 0 1\nvt 0 0\ng group\nusemtl x\no name\n",
			wantSkip: 5,
		},
		{
			name:      "tabs separate tokens",
			src:       "v\t0\t0\t0\nv 1\t0 0\nv 0 1 0\nf\t1 2\t3\n",
			wantVerts: 3,
			wantFaces: 1,
		},
		{
			name:      "slash references",
			src:       "v 0 0 0\nv 1 0 0\nv 0 1 0\nf 1/1/1 2/2/2 3//3\n",
			wantVerts: 3,
			wantFaces: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := &recordingBuilder{}
			stats, err := ParseOBJ(strings.NewReader(tt.src), b)
			if err != nil {
				t.Fatalf("ParseOBJ: %v", err)
			}
			if len(b.verts) != tt.wantVerts {
				t.Errorf("vertices = %d, want %d", len(b.verts), tt.wantVerts)
			}
			if len(b.faces) != tt.wantFaces {
				t.Errorf("faces = %d, want %d", len(b.faces), tt.wantFaces)
			}
			if stats.SkippedLines != tt.wantSkip {
				t.Errorf("skipped = %d, want %d", stats.SkippedLines, tt.wantSkip)
			}
		})
	}
}

func TestParseOBJ_OutOfRangeFaceRejected(t *testing.T) {
	src := "v 0 0 0\nv 1 0 0\nv 0 1 0\nf 1 2 9\nf 1 2 3\n"
	m := mesh.New("test")

	stats, err := ParseOBJ(strings.NewReader(src), m)
	if err != nil {
		t.Fatalf("ParseOBJ: %v", err)
	}
	if stats.RejectedFaces != 1 {
		t.Errorf("RejectedFaces = %d, want 1", stats.RejectedFaces)
	}
	if len(m.Faces) != 1 {
		t.Errorf("mesh faces = %d, want 1", len(m.Faces))
	}
}

func TestParseOBJ_FaceBeforeVertices(t *testing.T) {
	// faces may only reference vertices already loaded
	src := "v 0 0 0\nv 1 0 0\nf 1 2 3\nv 0 1 0\n"
	m := mesh.New("test")

	stats, err := ParseOBJ(strings.NewReader(src), m)
	if err != nil {
		t.Fatalf("ParseOBJ: %v", err)
	}
	if len(m.Faces) != 0 || stats.RejectedFaces != 1 {
		t.Errorf("faces = %d, rejected = %d", len(m.Faces), stats.RejectedFaces)
	}
	if len(m.Vertices) != 3 {
		t.Errorf("vertices = %d, want 3", len(m.Vertices))
	}
}

func TestParseOBJ_LongLineSkipped(t *testing.T) {
	long := "# " + strings.Repeat("x", 2<<20)
	src := "v 0 0 0\nv 1 0 0\nv 0 1 0\n" + long + "\nf 1 2 3"
	b := &recordingBuilder{}

	stats, err := ParseOBJ(strings.NewReader(src), b)
	if err != nil {
		t.Fatalf("ParseOBJ: %v", err)
	}
	if stats.Lines != 5 || stats.Vertices != 3 || stats.Faces != 1 || stats.SkippedLines != 1 {
		t.Errorf("unexpected stats: %+v", stats)
	}
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) { return 0, errors.New("disk gone") }

func TestParseOBJ_ReadError(t *testing.T) {
	_, err := ParseOBJ(failingReader{}, &recordingBuilder{})
	if err == nil || !strings.Contains(err.Error(), "disk gone") {
		t.Errorf("expected read error, got %v", err)
	}
}

func TestParseOBJ_IntoMesh(t *testing.T) {
	src := `# unit square
v 0 0 0
v 1 0 0
v 1 1 0
v 0 1 0
f 1 2 3 4
`
	m := mesh.New("square")
	if _, err := ParseOBJ(strings.NewReader(src), m); err != nil {
		t.Fatalf("ParseOBJ: %v", err)
	}
	if len(m.Faces) != 2 {
		t.Fatalf("faces = %d, want 2", len(m.Faces))
	}
	for i := range m.Vertices {
		n := m.VertexNormal(i)
		if !n.ApproxEqual(math.Vec3{X: 0, Y: 0, Z: 1}, 1e-6) {
			t.Errorf("vertex %d normal = %v, want (0, 0, 1)", i, n)
		}
	}
	if got := m.Origin(); got != (math.Vec3{X: 0.5, Y: 0.5, Z: 0}) {
		t.Errorf("origin = %v", got)
	}
}

func TestLoadOBJ(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "tri.obj")
	if err := os.WriteFile(path, []byte("v 0 0 0\nv 1 0 0\nv 0 1 0\nf 1 2 3\n"), 0644); err != nil {
		t.Fatalf("failed to write fixture: %v", err)
	}

	m := mesh.New("tri")
	stats, err := LoadOBJ(path, m)
	if err != nil {
		t.Fatalf("LoadOBJ: %v", err)
	}
	if stats.Lines != 4 || len(m.Faces) != 1 {
		t.Errorf("stats = %+v, faces = %d", stats, len(m.Faces))
	}
}

func TestLoadOBJ_Missing(t *testing.T) {
	_, err := LoadOBJ("/nonexistent/model.obj", mesh.New("x"))
	if err == nil {
		t.Fatal("expected error for missing file")
	}
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("expected os.ErrNotExist, got %v", err)
	}
}
