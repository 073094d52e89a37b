// Package scenefile reads YAML scene descriptions and builds the scene graph,
// animation drivers and camera they describe.
package scenefile

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/Masterminds/semver/v3"
	"gopkg.in/yaml.v3"
)

// SupportedVersions is the semver constraint a scene file's version must satisfy.
const SupportedVersions = "^1"

var (
	ErrVersion = errors.New("scenefile: unsupported version")
	ErrInvalid = errors.New("scenefile: invalid scene")
)

// Document is the decoded form of a scene file.
type Document struct {
	Version    string       `yaml:"version"`
	Background []int        `yaml:"background,omitempty"`
	Curves     []CurveSpec  `yaml:"curves"`
	Meshes     []MeshSpec   `yaml:"meshes"`
	Root       NodeSpec     `yaml:"root"`
	Drivers    []DriverSpec `yaml:"drivers"`
	Camera     *CameraSpec  `yaml:"camera,omitempty"`
}

// CurveSpec evaluates into a named curve.
type CurveSpec struct {
	Name string `yaml:"name"`
	Kind string `yaml:"kind"`
	// Dims is 2 (x, y pairs with z = 0) or 3. Zero means 2.
	Dims     int       `yaml:"dims,omitempty"`
	Points   []float64 `yaml:"points"`
	Samples  int       `yaml:"samples"`
	Truncate bool      `yaml:"truncate,omitempty"`
}

// MeshSpec is a drawable shared by every node listing it.
type MeshSpec struct {
	Name  string  `yaml:"name"`
	Kind  string  `yaml:"kind"` // cube or ribbon
	Color []int   `yaml:"color,omitempty"`
	Curve string  `yaml:"curve,omitempty"`
	BaseY float64 `yaml:"base_y,omitempty"`
}

// NodeSpec is one scene graph node. Rotate is in degrees, applied X then Y then Z.
type NodeSpec struct {
	Name      string     `yaml:"name"`
	Translate []float64  `yaml:"translate,omitempty"`
	Rotate    []float64  `yaml:"rotate,omitempty"`
	Scale     []float64  `yaml:"scale,omitempty"`
	Meshes    []string   `yaml:"meshes,omitempty"`
	Children  []NodeSpec `yaml:"children,omitempty"`
}

// DriverSpec binds a playlist of curves to a node.
type DriverSpec struct {
	Name    string     `yaml:"name,omitempty"`
	Node    string     `yaml:"node"`
	Curves  []string   `yaml:"curves"`
	Policy  string     `yaml:"policy,omitempty"`
	Mapping string     `yaml:"mapping"`
	Axis    string     `yaml:"axis,omitempty"`
	Steps   []StepSpec `yaml:"steps,omitempty"`
	Offset  []float64  `yaml:"offset,omitempty"`
	Rate    float64    `yaml:"rate,omitempty"`
}

// StepSpec is one phase of a "phases" mapping.
type StepSpec struct {
	Axis    string `yaml:"axis"`
	Compose bool   `yaml:"compose,omitempty"`
}

// CameraSpec configures the orbit camera. Unset fields keep the camera defaults.
type CameraSpec struct {
	Center []float64 `yaml:"center,omitempty"`
	Theta  *float64  `yaml:"theta,omitempty"`
	Rho    *float64  `yaml:"rho,omitempty"`
	Height *float64  `yaml:"height,omitempty"`
	MinRho *float64  `yaml:"min_rho,omitempty"`
	MaxRho *float64  `yaml:"max_rho,omitempty"`
	Path   string    `yaml:"path,omitempty"`
}

// Load reads and parses a scene file.
func Load(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("scenefile: read %s: %w", path, err)
	}
	doc, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("scenefile: %s: %w", path, err)
	}
	return doc, nil
}

// Parse decodes a scene document and checks its version. Unknown keys are errors.
func Parse(data []byte) (*Document, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var doc Document
	if err := dec.Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: empty document", ErrInvalid)
		}
		return nil, fmt.Errorf("scenefile: parse: %w", err)
	}
	if err := checkVersion(doc.Version); err != nil {
		return nil, err
	}
	return &doc, nil
}

func checkVersion(s string) error {
	if s == "" {
		return fmt.Errorf("%w: missing version", ErrVersion)
	}
	v, err := semver.NewVersion(s)
	if err != nil {
		return fmt.Errorf("%w: %q: %v", ErrVersion, s, err)
	}
	c, err := semver.NewConstraint(SupportedVersions)
	if err != nil {
		return err
	}
	if !c.Check(v) {
		return fmt.Errorf("%w: %s does not satisfy %s", ErrVersion, v, SupportedVersions)
	}
	return nil
}
