// Package formats provides parsers for mesh file formats.
//
// obj.go reads the OBJ-style line format for polygon meshes.
package formats

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/Faultbox/sceneview/pkg/math"
)

// MeshBuilder receives vertices and faces as they are parsed.
// Face indices are 0-based.
type MeshBuilder interface {
	AddVertex(p math.Vec3) int
	AddFace(indices ...int) error
}

// OBJStats counts what a parse produced and skipped.
type OBJStats struct {
	Lines         int // Lines read
	Vertices      int // AddVertex calls
	Faces         int // AddFace calls accepted by the builder
	SkippedLines  int // Unrecognized, short or unparseable lines
	RejectedFaces int // Fan wedges the builder refused
}

// LoadOBJ opens path and parses it into b.
func LoadOBJ(path string, b MeshBuilder) (OBJStats, error) {
	f, err := os.Open(path)
	if err != nil {
		return OBJStats{}, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	stats, err := ParseOBJ(f, b)
	if err != nil {
		return stats, fmt.Errorf("parsing %s: %w", path, err)
	}
	return stats, nil
}

// ParseOBJ reads a whitespace-tokenized line format:
//
//	v x y z [w]          vertex, first three floats used
//	f i1 i2 i3 [i4 ...]  face, 1-based indices, fanned from i1
//
// Every other line is skipped. Malformed lines are skipped rather than
// reported; only read errors are returned.
func ParseOBJ(r io.Reader, b MeshBuilder) (OBJStats, error) {
	var stats OBJStats

	// Lines have no length limit; the reader grows to fit each one.
	br := bufio.NewReader(r)
	for {
		line, err := br.ReadString('\n')
		if err != nil && err != io.EOF {
			return stats, fmt.Errorf("reading line %d: %w", stats.Lines+1, err)
		}
		if len(line) > 0 {
			stats.Lines++
			parseOBJLine(line, b, &stats)
		}
		if err == io.EOF {
			return stats, nil
		}
	}
}

func parseOBJLine(line string, b MeshBuilder, stats *OBJStats) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		stats.SkippedLines++
		return
	}

	switch fields[0] {
	case "v":
		p, ok := parseVertex(fields[1:])
		if !ok {
			stats.SkippedLines++
			return
		}
		b.AddVertex(p)
		stats.Vertices++
	case "f":
		ids, ok := parseFace(fields[1:])
		if !ok {
			stats.SkippedLines++
			return
		}
		tri := [3]int{ids[0], ids[1], ids[2]}
		addWedge(b, tri, stats)
		for _, id := range ids[3:] {
			tri[1] = tri[2]
			tri[2] = id
			addWedge(b, tri, stats)
		}
	default:
		stats.SkippedLines++
	}
}

func addWedge(b MeshBuilder, tri [3]int, stats *OBJStats) {
	if err := b.AddFace(tri[0], tri[1], tri[2]); err != nil {
		stats.RejectedFaces++
		return
	}
	stats.Faces++
}

// parseVertex reads the first three coordinates of a vertex line.
func parseVertex(tokens []string) (math.Vec3, bool) {
	if len(tokens) < 3 {
		return math.Vec3{}, false
	}
	var xyz [3]float32
	for i := range xyz {
		f, err := strconv.ParseFloat(tokens[i], 32)
		if err != nil {
			return math.Vec3{}, false
		}
		xyz[i] = float32(f)
	}
	return math.Vec3{X: xyz[0], Y: xyz[1], Z: xyz[2]}, true
}

// parseFace converts 1-based face references to 0-based vertex indices.
// References of the form v/vt/vn keep only the vertex part.
func parseFace(tokens []string) ([]int, bool) {
	if len(tokens) < 3 {
		return nil, false
	}
	ids := make([]int, 0, len(tokens))
	for _, tok := range tokens {
		if slash := strings.IndexByte(tok, '/'); slash >= 0 {
			tok = tok[:slash]
		}
		n, err := strconv.Atoi(tok)
		if err != nil {
			return nil, false
		}
		ids = append(ids, n-1)
	}
	return ids, true
}
