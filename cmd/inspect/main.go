package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/go-gl/mathgl/mgl64"

	"cg-scene-renderer/internal/mathutil"
	"cg-scene-renderer/internal/scenefile"
	"cg-scene-renderer/internal/scenegraph"
)

func main() {
	find := flag.String("find", "", "Print the world transform of this node")
	flag.Parse()
	if flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "usage: inspect [-find name] scene.yaml")
		os.Exit(2)
	}
	if err := run(os.Stdout, flag.Arg(0), *find); err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
}

// run loads the scene at path and either dumps it or, when find is set,
// prints that node's world transform.
func run(w io.Writer, path, find string) error {
	doc, err := scenefile.Load(path)
	if err != nil {
		return err
	}
	s, err := doc.Build()
	if err != nil {
		return err
	}
	defer s.Release()

	if find != "" {
		return printWorld(w, s, find)
	}
	return dump(w, doc.Version, s)
}

func printWorld(w io.Writer, s *scenefile.Scene, name string) error {
	id, err := s.Graph.FindNode(s.Root, name)
	if err != nil {
		return err
	}
	m, err := s.Graph.WorldTransform(id)
	if err != nil {
		return fmt.Errorf("world transform of %q: %w", name, err)
	}
	fmt.Fprintf(w, "%s world transform:\n%s", name, formatMat(m))
	return nil
}

func dump(w io.Writer, version string, s *scenefile.Scene) error {
	fmt.Fprintf(w, "Scene version %s: nodes=%d, meshes=%d, curves=%d, drivers=%d\n",
		version, s.Graph.Len(), len(s.Meshes), len(s.Curves), len(s.Drivers.Drivers()))

	fmt.Fprintln(w, "--- Nodes ---")
	meshNames := make(map[scenegraph.Drawable]string, len(s.Meshes))
	for name, m := range s.Meshes {
		meshNames[m] = name
	}
	err := s.Graph.Walk(s.Root, func(id scenegraph.NodeID, depth int) error {
		indent := strings.Repeat("  ", depth+1)
		t, err := s.Graph.Transform(id)
		if err != nil {
			return err
		}
		pos := t.Col(3).Vec3()
		if mathutil.IsIdentity(t) {
			fmt.Fprintf(w, "%s%s\n", indent, s.Graph.Name(id))
		} else {
			fmt.Fprintf(w, "%s%s  pos=(%.2f, %.2f, %.2f)\n", indent, s.Graph.Name(id), pos[0], pos[1], pos[2])
		}
		for _, c := range s.Graph.Children(id) {
			if c.Kind != scenegraph.ChildLeaf {
				continue
			}
			d, err := s.Graph.Drawable(c.Leaf)
			if err != nil {
				continue
			}
			fmt.Fprintf(w, "%s  [mesh %s]\n", indent, meshNames[d])
		}
		return nil
	})
	if err != nil {
		return err
	}

	fmt.Fprintln(w, "--- Meshes ---")
	for _, name := range sortedKeys(s.Meshes) {
		m := s.Meshes[name]
		lo, hi := m.Bounds()
		fmt.Fprintf(w, "  %s: verts=%d, tris=%d\n", name, len(m.Verts), len(m.Tris))
		fmt.Fprintf(w, "    BBox: X[%.2f, %.2f] Y[%.2f, %.2f] Z[%.2f, %.2f]\n", lo[0], hi[0], lo[1], hi[1], lo[2], hi[2])
	}

	fmt.Fprintln(w, "--- Curves ---")
	for _, name := range sortedKeys(s.Curves) {
		c := s.Curves[name]
		first, last := c.At(0), c.Last()
		fmt.Fprintf(w, "  %s: samples=%d, first=(%.3f, %.3f, %.3f), last=(%.3f, %.3f, %.3f)\n",
			name, c.Len(), first[0], first[1], first[2], last[0], last[1], last[2])
	}

	fmt.Fprintln(w, "--- Drivers ---")
	for _, d := range s.Drivers.Drivers() {
		fmt.Fprintf(w, "  %s -> %s\n", d.Name, s.Graph.Name(d.Node()))
	}
	return nil
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func formatMat(m mgl64.Mat4) string {
	var b strings.Builder
	for r := 0; r < 4; r++ {
		row := m.Row(r)
		fmt.Fprintf(&b, "  [%8.3f %8.3f %8.3f %8.3f]\n", row[0], row[1], row[2], row[3])
	}
	return b.String()
}
