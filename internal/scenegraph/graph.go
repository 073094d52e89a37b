// Package scenegraph implements a retained-mode scene graph: an arena of named
// transform nodes whose children are further nodes or shared drawable leaves.
//
// Nodes and leaves are addressed by stable handles (NodeID, LeafID) rather than
// pointers, so drivers that mutate transforms never hold references into the arena.
package scenegraph

import (
	"errors"
	"fmt"

	"github.com/go-gl/mathgl/mgl64"
)

var (
	ErrNotFound    = errors.New("node not found")
	ErrCyclicGraph = errors.New("cyclic graph")
	ErrUnknownNode = errors.New("unknown node")
	ErrUnknownLeaf = errors.New("unknown leaf")
	ErrAttached    = errors.New("node already has a parent")
	ErrNilDrawable = errors.New("nil drawable")
)

// NodeID is a handle to a node in a Graph. The zero value is Nil.
type NodeID int

// LeafID is a handle to a drawable leaf in a Graph. The zero value is never valid.
type LeafID int

// Nil is the invalid node handle.
const Nil NodeID = 0

// Pipeline receives per-draw uniforms, such as the accumulated model matrix.
type Pipeline interface {
	SetUniformMat4(name string, m mgl64.Mat4) error
}

// Drawable is external geometry the graph positions and draws. A Drawable may be
// attached under several parents; Release is called at most once per graph.
type Drawable interface {
	Render(world mgl64.Mat4, p Pipeline) error
	Release() error
}

// ChildKind tags a Child.
type ChildKind uint8

const (
	ChildNode ChildKind = iota + 1
	ChildLeaf
)

// Child is an entry in a node's child list: either a node or a leaf.
type Child struct {
	Kind ChildKind
	Node NodeID
	Leaf LeafID
}

type node struct {
	name     string
	local    mgl64.Mat4
	parent   NodeID
	children []Child
}

type leaf struct {
	drawable Drawable
	released bool
}

// Graph owns all nodes and leaves of one scene.
type Graph struct {
	nodes  []node
	leaves []leaf
}

// New returns an empty graph.
func New() *Graph {
	return &Graph{}
}

// Len returns the number of nodes created.
func (g *Graph) Len() int { return len(g.nodes) }

// CreateNode adds a detached node with identity transform and no children.
func (g *Graph) CreateNode(name string) NodeID {
	g.nodes = append(g.nodes, node{name: name, local: mgl64.Ident4()})
	return NodeID(len(g.nodes))
}

func (g *Graph) node(id NodeID) (*node, error) {
	if id <= 0 || int(id) > len(g.nodes) {
		return nil, fmt.Errorf("scenegraph: node id %d: %w", id, ErrUnknownNode)
	}
	return &g.nodes[id-1], nil
}

func (g *Graph) leaf(id LeafID) (*leaf, error) {
	if id <= 0 || int(id) > len(g.leaves) {
		return nil, fmt.Errorf("scenegraph: leaf id %d: %w", id, ErrUnknownLeaf)
	}
	return &g.leaves[id-1], nil
}

// Valid reports whether id refers to a node of g.
func (g *Graph) Valid(id NodeID) bool {
	_, err := g.node(id)
	return err == nil
}

// AddChild appends child to parent's children. The child must be detached, and
// must not be parent itself or one of its ancestors.
func (g *Graph) AddChild(parent, child NodeID) error {
	p, err := g.node(parent)
	if err != nil {
		return err
	}
	c, err := g.node(child)
	if err != nil {
		return err
	}
	if c.parent != Nil {
		return fmt.Errorf("scenegraph: add %q under %q: %w", c.name, p.name, ErrAttached)
	}
	for id := parent; id != Nil; id = g.nodes[id-1].parent {
		if id == child {
			return fmt.Errorf("scenegraph: add %q under %q: %w", c.name, p.name, ErrCyclicGraph)
		}
	}
	c.parent = parent
	p.children = append(p.children, Child{Kind: ChildNode, Node: child})
	return nil
}

// AddLeaf registers d and attaches it under parent.
func (g *Graph) AddLeaf(parent NodeID, d Drawable) (LeafID, error) {
	if d == nil {
		return 0, fmt.Errorf("scenegraph: add leaf: %w", ErrNilDrawable)
	}
	if _, err := g.node(parent); err != nil {
		return 0, err
	}
	g.leaves = append(g.leaves, leaf{drawable: d})
	id := LeafID(len(g.leaves))
	return id, g.AttachLeaf(parent, id)
}

// AttachLeaf attaches an already registered leaf under another parent, sharing it.
func (g *Graph) AttachLeaf(parent NodeID, id LeafID) error {
	p, err := g.node(parent)
	if err != nil {
		return err
	}
	if _, err := g.leaf(id); err != nil {
		return err
	}
	p.children = append(p.children, Child{Kind: ChildLeaf, Leaf: id})
	return nil
}

// SetTransform replaces the local transform of id. Children are untouched.
func (g *Graph) SetTransform(id NodeID, m mgl64.Mat4) error {
	n, err := g.node(id)
	if err != nil {
		return err
	}
	n.local = m
	return nil
}

// Transform returns the local transform of id.
func (g *Graph) Transform(id NodeID) (mgl64.Mat4, error) {
	n, err := g.node(id)
	if err != nil {
		return mgl64.Mat4{}, err
	}
	return n.local, nil
}

// Name returns the name of id, or "" for an unknown id.
func (g *Graph) Name(id NodeID) string {
	n, err := g.node(id)
	if err != nil {
		return ""
	}
	return n.name
}

// Parent returns the parent of id, or Nil for roots and unknown ids.
func (g *Graph) Parent(id NodeID) NodeID {
	n, err := g.node(id)
	if err != nil {
		return Nil
	}
	return n.parent
}

// Children returns a copy of the child list of id.
func (g *Graph) Children(id NodeID) []Child {
	n, err := g.node(id)
	if err != nil {
		return nil
	}
	return append([]Child(nil), n.children...)
}

// Drawable returns the drawable behind a leaf.
func (g *Graph) Drawable(id LeafID) (Drawable, error) {
	l, err := g.leaf(id)
	if err != nil {
		return nil, err
	}
	return l.drawable, nil
}

// WorldTransform composes the local transforms from the topmost ancestor down to id.
func (g *Graph) WorldTransform(id NodeID) (mgl64.Mat4, error) {
	if _, err := g.node(id); err != nil {
		return mgl64.Mat4{}, err
	}
	var chain []NodeID
	for cur := id; cur != Nil; cur = g.nodes[cur-1].parent {
		chain = append(chain, cur)
	}
	world := mgl64.Ident4()
	for i := len(chain) - 1; i >= 0; i-- {
		world = world.Mul4(g.nodes[chain[i]-1].local)
	}
	return world, nil
}
