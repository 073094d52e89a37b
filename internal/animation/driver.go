// Package animation advances cursors over precomputed curves and writes the derived
// transforms into scene graph nodes.
package animation

import (
	"errors"
	"fmt"

	"cg-scene-renderer/internal/curve"
	"cg-scene-renderer/internal/scenegraph"

	"github.com/go-gl/mathgl/mgl64"
)

var (
	ErrEmptyPlaylist = errors.New("empty playlist")
	ErrNoMapping     = errors.New("no mapping")
)

// Policy selects what Advance does once the cursor reaches the last sample.
type Policy int

const (
	// Clamp stays on the last sample.
	Clamp Policy = iota
	// Loop restarts the current curve.
	Loop
	// AdvancePlaylist moves on to the next curve of the playlist, wrapping around.
	AdvancePlaylist
)

var policyNames = map[Policy]string{Clamp: "clamp", Loop: "loop", AdvancePlaylist: "playlist"}

func (p Policy) String() string {
	if s, ok := policyNames[p]; ok {
		return s
	}
	return fmt.Sprintf("Policy(%d)", int(p))
}

// ParsePolicy accepts "clamp", "loop" or "playlist".
func ParsePolicy(s string) (Policy, error) {
	for p, name := range policyNames {
		if name == s {
			return p, nil
		}
	}
	return 0, fmt.Errorf("animation: unknown policy %q", s)
}

// State is the cursor state of a Driver.
type State int

const (
	NotStarted State = iota
	Advancing
	Exhausted
)

func (s State) String() string {
	switch s {
	case NotStarted:
		return "not-started"
	case Advancing:
		return "advancing"
	case Exhausted:
		return "exhausted"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// Sample is what a Mapping sees when a driver applies itself.
type Sample struct {
	Point mgl64.Vec3 // current curve sample
	Index int        // cursor into the current curve
	Phase int        // position in the playlist
	Base  mgl64.Mat4 // node transform captured at Bind
	Carry mgl64.Mat4 // transform in effect when the current phase began
}

// Mapping turns a curve sample into a node transform.
type Mapping func(s Sample) mgl64.Mat4

// Driver binds a playlist of curves to one scene node.
type Driver struct {
	Name string

	// Rate is the number of samples per second consumed by Step.
	// Zero means one sample per Step call.
	Rate float64

	graph    *scenegraph.Graph
	node     scenegraph.NodeID
	playlist []curve.Curve
	policy   Policy
	mapping  Mapping

	phase int
	index int
	pos   mgl64.Vec3
	state State
	acc   float64

	base, carry, last mgl64.Mat4
}

// New creates a driver over one or more curves, bound to node.
func New(name string, g *scenegraph.Graph, node scenegraph.NodeID, policy Policy, m Mapping, playlist ...curve.Curve) (*Driver, error) {
	if len(playlist) == 0 {
		return nil, fmt.Errorf("animation: driver %s: %w", name, ErrEmptyPlaylist)
	}
	for i, c := range playlist {
		if len(c) == 0 {
			return nil, fmt.Errorf("animation: driver %s: curve %d has no samples: %w", name, i, ErrEmptyPlaylist)
		}
	}
	if m == nil {
		return nil, fmt.Errorf("animation: driver %s: %w", name, ErrNoMapping)
	}
	d := &Driver{
		Name:     name,
		graph:    g,
		playlist: playlist,
		policy:   policy,
		mapping:  m,
		pos:      playlist[0][0],
	}
	if err := d.Bind(node); err != nil {
		return nil, err
	}
	return d, nil
}

// Bind points the driver at another node of the same graph. The node's current
// transform becomes the Base handed to the mapping.
func (d *Driver) Bind(node scenegraph.NodeID) error {
	m, err := d.graph.Transform(node)
	if err != nil {
		return fmt.Errorf("animation: bind %s: %w", d.Name, err)
	}
	d.node = node
	d.base, d.carry, d.last = m, m, m
	return nil
}

// Node returns the bound node.
func (d *Driver) Node() scenegraph.NodeID { return d.node }

// State returns the cursor state.
func (d *Driver) State() State { return d.state }

// Index returns the cursor into the current curve.
func (d *Driver) Index() int { return d.index }

// Phase returns the playlist position of the current curve.
func (d *Driver) Phase() int { return d.phase }

// Pos returns the cached sample at the cursor.
func (d *Driver) Pos() mgl64.Vec3 { return d.pos }

// Advance moves the cursor one sample forward, applying the end-of-curve policy
// when it is already on the last sample.
func (d *Driver) Advance() {
	cur := d.playlist[d.phase]
	last := len(cur) - 1
	if d.state == NotStarted {
		d.state = Advancing
	}
	if d.index < last {
		d.index++
		d.pos = cur[d.index]
		if d.index == last && d.policy == Clamp {
			d.state = Exhausted
		}
		return
	}
	switch d.policy {
	case Clamp:
		d.state = Exhausted
	case Loop:
		d.index = 0
		d.pos = cur[0]
	case AdvancePlaylist:
		d.carry = d.last
		d.phase = (d.phase + 1) % len(d.playlist)
		d.index = 0
		d.pos = d.playlist[d.phase][0]
	}
}

// Step advances by elapsed time dt (seconds) at the driver's Rate and returns the
// number of samples consumed.
func (d *Driver) Step(dt float64) int {
	if d.Rate <= 0 {
		d.Advance()
		return 1
	}
	d.acc += dt * d.Rate
	n := int(d.acc)
	d.acc -= float64(n)
	for i := 0; i < n; i++ {
		d.Advance()
	}
	return n
}

// Sample returns the mapping input for the current cursor.
func (d *Driver) Sample() Sample {
	return Sample{
		Point: d.pos,
		Index: d.index,
		Phase: d.phase,
		Base:  d.base,
		Carry: d.carry,
	}
}

// Apply maps the current sample and writes the result into the bound node.
func (d *Driver) Apply() error {
	m := d.mapping(d.Sample())
	if err := d.graph.SetTransform(d.node, m); err != nil {
		return fmt.Errorf("animation: apply %s: %w", d.Name, err)
	}
	d.last = m
	return nil
}
