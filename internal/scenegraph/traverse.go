package scenegraph

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/adrg/strutil"
	"github.com/adrg/strutil/metrics"
	"github.com/go-gl/mathgl/mgl64"
)

// Draw walks the tree under root depth-first in child insertion order. Each node
// passes parentAccumulated × local to its children; at every leaf the accumulated
// matrix is bound to the named uniform and the drawable renders itself.
func (g *Graph) Draw(root NodeID, p Pipeline, uniform string) error {
	if _, err := g.node(root); err != nil {
		return err
	}
	return g.draw(root, mgl64.Ident4(), p, uniform)
}

func (g *Graph) draw(id NodeID, parentAcc mgl64.Mat4, p Pipeline, uniform string) error {
	n := &g.nodes[id-1]
	acc := parentAcc.Mul4(n.local)
	for _, c := range n.children {
		switch c.Kind {
		case ChildNode:
			if err := g.draw(c.Node, acc, p, uniform); err != nil {
				return err
			}
		case ChildLeaf:
			l := &g.leaves[c.Leaf-1]
			if err := p.SetUniformMat4(uniform, acc); err != nil {
				return fmt.Errorf("scenegraph: draw %q: set %s: %w", n.name, uniform, err)
			}
			if err := l.drawable.Render(acc, p); err != nil {
				return fmt.Errorf("scenegraph: draw %q: %w", n.name, err)
			}
		}
	}
	return nil
}

// Walk calls fn for every node under root (root included) in pre-order.
// Returning an error from fn stops the walk and returns that error.
func (g *Graph) Walk(root NodeID, fn func(id NodeID, depth int) error) error {
	if _, err := g.node(root); err != nil {
		return err
	}
	return g.walk(root, 0, fn)
}

func (g *Graph) walk(id NodeID, depth int, fn func(NodeID, int) error) error {
	if err := fn(id, depth); err != nil {
		return err
	}
	for _, c := range g.nodes[id-1].children {
		if c.Kind != ChildNode {
			continue
		}
		if err := g.walk(c.Node, depth+1, fn); err != nil {
			return err
		}
	}
	return nil
}

var errStop = errors.New("stop")

// FindNode returns the first node under root (root included, pre-order) whose name
// equals name. A miss returns ErrNotFound, naming the closest existing names.
func (g *Graph) FindNode(root NodeID, name string) (NodeID, error) {
	found := Nil
	var names []string
	err := g.Walk(root, func(id NodeID, _ int) error {
		n := g.nodes[id-1].name
		if n == name {
			found = id
			return errStop
		}
		names = append(names, n)
		return nil
	})
	if found != Nil {
		return found, nil
	}
	if err != nil {
		return Nil, err
	}
	hint := ""
	if s := suggest(name, names); len(s) > 0 {
		hint = fmt.Sprintf(" (did you mean %s?)", strings.Join(s, ", "))
	}
	return Nil, fmt.Errorf("scenegraph: find %q under %q%s: %w", name, g.nodes[root-1].name, hint, ErrNotFound)
}

// MustFindNode is FindNode for scene construction code, where a miss is a wiring bug.
func (g *Graph) MustFindNode(root NodeID, name string) NodeID {
	id, err := g.FindNode(root, name)
	if err != nil {
		panic(err)
	}
	return id
}

func suggest(name string, names []string) []string {
	type scored struct {
		name string
		sim  float64
	}
	lev := metrics.NewLevenshtein()
	seen := map[string]bool{}
	var cands []scored
	for _, n := range names {
		if seen[n] {
			continue
		}
		seen[n] = true
		if sim := strutil.Similarity(name, n, lev); sim >= 0.5 {
			cands = append(cands, scored{n, sim})
		}
	}
	sort.SliceStable(cands, func(i, j int) bool { return cands[i].sim > cands[j].sim })
	if len(cands) > 3 {
		cands = cands[:3]
	}
	out := make([]string, len(cands))
	for i, c := range cands {
		out[i] = fmt.Sprintf("%q", c.name)
	}
	return out
}

// ReleaseAll releases every drawable reachable from root. A leaf shared by several
// parents, or already released by an earlier call, is released only once. Errors
// from individual drawables are joined; the walk always completes.
func (g *Graph) ReleaseAll(root NodeID) error {
	if _, err := g.node(root); err != nil {
		return err
	}
	var errs []error
	_ = g.walk(root, 0, func(id NodeID, _ int) error {
		for _, c := range g.nodes[id-1].children {
			if c.Kind != ChildLeaf {
				continue
			}
			l := &g.leaves[c.Leaf-1]
			if l.released {
				continue
			}
			l.released = true
			if err := l.drawable.Release(); err != nil {
				errs = append(errs, fmt.Errorf("scenegraph: release leaf %d under %q: %w", c.Leaf, g.nodes[id-1].name, err))
			}
		}
		return nil
	})
	return errors.Join(errs...)
}

// Released reports whether the leaf has been released.
func (g *Graph) Released(id LeafID) bool {
	l, err := g.leaf(id)
	return err == nil && l.released
}
