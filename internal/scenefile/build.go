package scenefile

import (
	"fmt"
	"image/color"

	"github.com/go-gl/mathgl/mgl64"

	"cg-scene-renderer/internal/animation"
	"cg-scene-renderer/internal/camera"
	"cg-scene-renderer/internal/curve"
	"cg-scene-renderer/internal/mathutil"
	"cg-scene-renderer/internal/raster"
	"cg-scene-renderer/internal/scenegraph"
)

// Mapping names accepted in driver specs.
const (
	MappingRotate    = "rotate"
	MappingTranslate = "translate2d"
	MappingFollow    = "follow"
	MappingDance     = "dance"
	MappingPhases    = "phases"
)

// Scene is a built, ready-to-animate document.
type Scene struct {
	Graph      *scenegraph.Graph
	Root       scenegraph.NodeID
	Curves     map[string]curve.Curve
	Meshes     map[string]*raster.Mesh
	Drivers    *animation.Set
	Camera     *camera.Polar
	Background color.NRGBA
}

// Release releases every mesh reachable from the root.
func (s *Scene) Release() error { return s.Graph.ReleaseAll(s.Root) }

type builder struct {
	doc    *Document
	scene  *Scene
	leaves map[string]scenegraph.LeafID
}

// Build evaluates curves, creates meshes and nodes, binds drivers and sets up
// the camera. Meshes listed by several nodes are shared leaves.
func (doc *Document) Build() (*Scene, error) {
	b := &builder{
		doc: doc,
		scene: &Scene{
			Graph:   scenegraph.New(),
			Curves:  make(map[string]curve.Curve),
			Meshes:  make(map[string]*raster.Mesh),
			Drivers: &animation.Set{},
		},
		leaves: make(map[string]scenegraph.LeafID),
	}
	bg, err := toColor(doc.Background, color.NRGBA{})
	if err != nil {
		return nil, fmt.Errorf("scenefile: background: %w", err)
	}
	b.scene.Background = bg

	steps := []func() error{b.curves, b.meshes, b.nodes, b.drivers, b.camera}
	for _, step := range steps {
		if err := step(); err != nil {
			return nil, err
		}
	}
	return b.scene, nil
}

func (b *builder) curves() error {
	for _, cs := range b.doc.Curves {
		if cs.Name == "" {
			return fmt.Errorf("%w: curve without name", ErrInvalid)
		}
		if _, dup := b.scene.Curves[cs.Name]; dup {
			return fmt.Errorf("%w: duplicate curve %s", ErrInvalid, cs.Name)
		}
		var pts []mgl64.Vec3
		var err error
		switch cs.Dims {
		case 0, 2:
			pts, err = curve.Points2D(cs.Points...)
		case 3:
			pts, err = curve.Points3D(cs.Points...)
		default:
			err = fmt.Errorf("%w: dims %d", ErrInvalid, cs.Dims)
		}
		if err != nil {
			return fmt.Errorf("scenefile: curve %s: %w", cs.Name, err)
		}
		var opts []curve.Option
		if cs.Truncate {
			opts = append(opts, curve.Truncate())
		}
		c, err := curve.Evaluate(curve.Kind(cs.Kind), pts, cs.Samples, opts...)
		if err != nil {
			return fmt.Errorf("scenefile: curve %s: %w", cs.Name, err)
		}
		b.scene.Curves[cs.Name] = c
	}
	return nil
}

func (b *builder) curve(owner, name string) (curve.Curve, error) {
	c, ok := b.scene.Curves[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s references unknown curve %q", ErrInvalid, owner, name)
	}
	return c, nil
}

func (b *builder) meshes() error {
	for _, ms := range b.doc.Meshes {
		if ms.Name == "" {
			return fmt.Errorf("%w: mesh without name", ErrInvalid)
		}
		if _, dup := b.scene.Meshes[ms.Name]; dup {
			return fmt.Errorf("%w: duplicate mesh %s", ErrInvalid, ms.Name)
		}
		col, err := toColor(ms.Color, color.NRGBA{160, 160, 170, 255})
		if err != nil {
			return fmt.Errorf("scenefile: mesh %s: %w", ms.Name, err)
		}
		var m *raster.Mesh
		switch ms.Kind {
		case "cube":
			m = raster.NewCube(ms.Name, col)
		case "ribbon":
			c, err := b.curve("mesh "+ms.Name, ms.Curve)
			if err != nil {
				return err
			}
			if m, err = raster.NewRibbon(ms.Name, c, ms.BaseY, col); err != nil {
				return err
			}
		default:
			return fmt.Errorf("%w: mesh %s has unknown kind %q", ErrInvalid, ms.Name, ms.Kind)
		}
		b.scene.Meshes[ms.Name] = m
	}
	return nil
}

func (b *builder) nodes() error {
	if b.doc.Root.Name == "" {
		return fmt.Errorf("%w: missing root node", ErrInvalid)
	}
	root, err := b.node(b.doc.Root)
	if err != nil {
		return err
	}
	b.scene.Root = root
	return nil
}

func (b *builder) node(ns NodeSpec) (scenegraph.NodeID, error) {
	g := b.scene.Graph
	id := g.CreateNode(ns.Name)

	t, err := vec3(ns.Translate, mgl64.Vec3{})
	if err != nil {
		return scenegraph.Nil, fmt.Errorf("scenefile: node %s translate: %w", ns.Name, err)
	}
	r, err := vec3(ns.Rotate, mgl64.Vec3{})
	if err != nil {
		return scenegraph.Nil, fmt.Errorf("scenefile: node %s rotate: %w", ns.Name, err)
	}
	s, err := vec3(ns.Scale, mgl64.Vec3{1, 1, 1})
	if err != nil {
		return scenegraph.Nil, fmt.Errorf("scenefile: node %s scale: %w", ns.Name, err)
	}
	if err := g.SetTransform(id, mathutil.TRS(t, r, s)); err != nil {
		return scenegraph.Nil, err
	}

	for _, name := range ns.Meshes {
		m, ok := b.scene.Meshes[name]
		if !ok {
			return scenegraph.Nil, fmt.Errorf("%w: node %s references unknown mesh %q", ErrInvalid, ns.Name, name)
		}
		if leaf, shared := b.leaves[name]; shared {
			err = g.AttachLeaf(id, leaf)
		} else {
			b.leaves[name], err = g.AddLeaf(id, m)
		}
		if err != nil {
			return scenegraph.Nil, fmt.Errorf("scenefile: node %s mesh %s: %w", ns.Name, name, err)
		}
	}

	for _, cs := range ns.Children {
		child, err := b.node(cs)
		if err != nil {
			return scenegraph.Nil, err
		}
		if err := g.AddChild(id, child); err != nil {
			return scenegraph.Nil, fmt.Errorf("scenefile: node %s: %w", ns.Name, err)
		}
	}
	return id, nil
}

func (b *builder) drivers() error {
	for i, ds := range b.doc.Drivers {
		name := ds.Name
		if name == "" {
			name = fmt.Sprintf("%s#%d", ds.Node, i)
		}
		node, err := b.scene.Graph.FindNode(b.scene.Root, ds.Node)
		if err != nil {
			return fmt.Errorf("scenefile: driver %s: %w", name, err)
		}
		if len(ds.Curves) == 0 {
			return fmt.Errorf("scenefile: driver %s: %w", name, animation.ErrEmptyPlaylist)
		}
		playlist := make([]curve.Curve, 0, len(ds.Curves))
		for _, cn := range ds.Curves {
			c, err := b.curve("driver "+name, cn)
			if err != nil {
				return err
			}
			playlist = append(playlist, c)
		}
		policy := animation.Clamp
		if ds.Policy != "" {
			if policy, err = animation.ParsePolicy(ds.Policy); err != nil {
				return fmt.Errorf("scenefile: driver %s: %w", name, err)
			}
		}
		mapping, err := mappingFor(ds)
		if err != nil {
			return fmt.Errorf("scenefile: driver %s: %w", name, err)
		}
		d, err := animation.New(name, b.scene.Graph, node, policy, mapping, playlist...)
		if err != nil {
			return err
		}
		d.Rate = ds.Rate
		b.scene.Drivers.Add(d)
	}
	return nil
}

func mappingFor(ds DriverSpec) (animation.Mapping, error) {
	switch ds.Mapping {
	case MappingRotate:
		axis, err := mathutil.ParseAxis(ds.Axis)
		if err != nil {
			return nil, err
		}
		return animation.RotateAbout(axis), nil
	case MappingTranslate:
		return animation.Translate2D(), nil
	case MappingFollow:
		off, err := vec3(ds.Offset, mgl64.Vec3{})
		if err != nil {
			return nil, fmt.Errorf("offset: %w", err)
		}
		return animation.FollowPath(off), nil
	case MappingDance:
		return animation.PhaseRotations(animation.DanceSteps...), nil
	case MappingPhases:
		if len(ds.Steps) == 0 {
			return nil, fmt.Errorf("%w: phases mapping needs steps", ErrInvalid)
		}
		steps := make([]animation.PhaseStep, len(ds.Steps))
		for i, s := range ds.Steps {
			axis, err := mathutil.ParseAxis(s.Axis)
			if err != nil {
				return nil, err
			}
			steps[i] = animation.PhaseStep{Axis: axis, Compose: s.Compose}
		}
		return animation.PhaseRotations(steps...), nil
	case "":
		return nil, animation.ErrNoMapping
	}
	return nil, fmt.Errorf("%w: unknown mapping %q", ErrInvalid, ds.Mapping)
}

func (b *builder) camera() error {
	cs := b.doc.Camera
	if cs == nil {
		b.scene.Camera = camera.NewPolar(mgl64.Vec3{})
		return nil
	}
	center, err := vec3(cs.Center, mgl64.Vec3{})
	if err != nil {
		return fmt.Errorf("scenefile: camera center: %w", err)
	}
	c := camera.NewPolar(center)
	setIf(&c.Theta, cs.Theta)
	setIf(&c.Rho, cs.Rho)
	setIf(&c.Height, cs.Height)
	setIf(&c.MinRho, cs.MinRho)
	setIf(&c.MaxRho, cs.MaxRho)
	if cs.Path != "" {
		path, err := b.curve("camera", cs.Path)
		if err != nil {
			return err
		}
		c.SetPath(path)
	}
	c.Update(camera.Input{}, 0)
	b.scene.Camera = c
	return nil
}

func setIf(dst *float64, v *float64) {
	if v != nil {
		*dst = *v
	}
}

func vec3(v []float64, def mgl64.Vec3) (mgl64.Vec3, error) {
	switch len(v) {
	case 0:
		return def, nil
	case 3:
		return mgl64.Vec3{v[0], v[1], v[2]}, nil
	}
	return mgl64.Vec3{}, fmt.Errorf("%w: want 3 components, got %d", ErrInvalid, len(v))
}

func toColor(v []int, def color.NRGBA) (color.NRGBA, error) {
	for _, c := range v {
		if c < 0 || c > 255 {
			return color.NRGBA{}, fmt.Errorf("%w: color component %d out of range", ErrInvalid, c)
		}
	}
	switch len(v) {
	case 0:
		return def, nil
	case 3:
		return color.NRGBA{uint8(v[0]), uint8(v[1]), uint8(v[2]), 255}, nil
	case 4:
		return color.NRGBA{uint8(v[0]), uint8(v[1]), uint8(v[2]), uint8(v[3])}, nil
	}
	return color.NRGBA{}, fmt.Errorf("%w: want 3 or 4 color components, got %d", ErrInvalid, len(v))
}
