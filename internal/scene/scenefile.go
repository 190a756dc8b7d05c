// Package scene reads YAML scene descriptions and builds collision worlds
// from them.
package scene

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log"
	"os"

	"rigid3d/internal/physics"
	"rigid3d/internal/shapes"

	rl "github.com/gen2brain/raylib-go/raylib"
	"gopkg.in/yaml.v3"
)

var ErrInvalidScene = errors.New("scene: invalid")

// --- YAML types ---

type File struct {
	Settings Settings   `yaml:"settings"`
	Shapes   []ShapeDef `yaml:"shapes"`
	Bodies   []BodyDef  `yaml:"bodies"`
}

type Settings struct {
	MemoryBudget  int      `yaml:"memory_budget"`
	DefaultMargin *float32 `yaml:"default_margin,omitempty"`
}

// ShapeDef describes one shared shape. Box size is the full extent; height
// is the full height for cones and cylinders and the segment length for
// capsules.
type ShapeDef struct {
	Name     string       `yaml:"name"`
	Kind     string       `yaml:"kind"`
	Radius   float32      `yaml:"radius,omitempty"`
	Height   float32      `yaml:"height,omitempty"`
	Size     [3]float32   `yaml:"size,omitempty"`
	Vertices [][3]float32 `yaml:"vertices,omitempty"`
	Margin   *float32     `yaml:"margin,omitempty"`
}

type BodyDef struct {
	Name     string     `yaml:"name"`
	Position [3]float32 `yaml:"position"`
	Rotation [3]float32 `yaml:"rotation"` // Euler angles in degrees
	Proxies  []ProxyDef `yaml:"proxies"`
}

// ProxyDef attaches a named shape to a body. Mass wins over density; a
// density alone is multiplied by the shape volume.
type ProxyDef struct {
	Shape    string     `yaml:"shape"`
	Mass     float32    `yaml:"mass,omitempty"`
	Density  float32    `yaml:"density,omitempty"`
	Position [3]float32 `yaml:"position,omitempty"`
	Rotation [3]float32 `yaml:"rotation,omitempty"`
}

// Scene is a built world plus the names the file gave its parts.
type Scene struct {
	World  *physics.CollisionWorld
	Shapes map[string]physics.ShapeID
	Bodies []Body
}

type Body struct {
	Name    string
	ID      physics.BodyID
	Proxies []physics.ProxyID
}

// --- Loading ---

func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("scene: read %s: %w", path, err)
	}
	f, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("scene: %s: %w", path, err)
	}
	return f, nil
}

// Parse decodes a scene. Unknown keys are rejected.
func Parse(data []byte) (*File, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var f File
	if err := dec.Decode(&f); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: empty scene", ErrInvalidScene)
		}
		return nil, fmt.Errorf("parse scene: %w", err)
	}
	return &f, nil
}

func vec(v [3]float32) rl.Vector3 {
	return rl.Vector3{X: v[0], Y: v[1], Z: v[2]}
}

func (f *File) margin(def ShapeDef) float32 {
	if def.Margin != nil {
		return *def.Margin
	}
	if f.Settings.DefaultMargin != nil {
		return *f.Settings.DefaultMargin
	}
	return shapes.DefaultMargin
}

// ShapeFromDef constructs the shape a definition describes.
func (f *File) ShapeFromDef(def ShapeDef) (shapes.Shape, error) {
	kind, err := shapes.ParseKind(def.Kind)
	if err != nil {
		return shapes.Shape{}, fmt.Errorf("%w: %v", ErrInvalidScene, err)
	}
	opt := shapes.WithMargin(f.margin(def))

	switch kind {
	case shapes.KindSphere:
		return shapes.NewSphere(def.Radius, opt)
	case shapes.KindCone:
		return shapes.NewCone(def.Radius, def.Height, opt)
	case shapes.KindBox:
		return shapes.NewBox(rl.Vector3Scale(vec(def.Size), 0.5), opt)
	case shapes.KindCylinder:
		return shapes.NewCylinder(def.Radius, def.Height, opt)
	case shapes.KindCapsule:
		return shapes.NewCapsule(def.Radius, def.Height, opt)
	case shapes.KindConvexMesh:
		verts := make([]rl.Vector3, len(def.Vertices))
		for i, v := range def.Vertices {
			verts[i] = vec(v)
		}
		return shapes.NewConvexMesh(verts, opt)
	}
	return shapes.Shape{}, fmt.Errorf("%w: kind %q", ErrInvalidScene, def.Kind)
}

// Build creates a world holding every shape and body of the file. On error
// the partially built world is destroyed.
func (f *File) Build() (*Scene, error) {
	s := &Scene{
		World:  physics.NewCollisionWorld(f.Settings.MemoryBudget),
		Shapes: make(map[string]physics.ShapeID, len(f.Shapes)),
	}
	if err := f.populate(s); err != nil {
		s.World.Destroy()
		return nil, err
	}
	log.Printf("Scene: built %d shapes (%d stored), %d bodies, %d proxies",
		len(f.Shapes), s.World.NumShapes(), s.World.NumBodies(), s.World.NumProxies())
	return s, nil
}

func (f *File) populate(s *Scene) error {
	for _, def := range f.Shapes {
		if def.Name == "" {
			return fmt.Errorf("%w: shape without a name", ErrInvalidScene)
		}
		if _, dup := s.Shapes[def.Name]; dup {
			return fmt.Errorf("%w: duplicate shape %q", ErrInvalidScene, def.Name)
		}
		shape, err := f.ShapeFromDef(def)
		if err != nil {
			return fmt.Errorf("scene: shape %q: %w", def.Name, err)
		}
		id, err := s.World.CreateShape(shape)
		if err != nil {
			return fmt.Errorf("scene: shape %q: %w", def.Name, err)
		}
		s.Shapes[def.Name] = id
	}

	for _, def := range f.Bodies {
		body, err := f.buildBody(s, def)
		if err != nil {
			return fmt.Errorf("scene: body %q: %w", def.Name, err)
		}
		s.Bodies = append(s.Bodies, body)
	}
	return nil
}

func (f *File) buildBody(s *Scene, def BodyDef) (Body, error) {
	id, err := s.World.CreateBody(def.Name, physics.TransformFromEuler(vec(def.Position), vec(def.Rotation)))
	if err != nil {
		return Body{}, err
	}
	body := Body{Name: def.Name, ID: id}

	for i, pd := range def.Proxies {
		sid, ok := s.Shapes[pd.Shape]
		if !ok {
			return Body{}, fmt.Errorf("%w: proxy %d references unknown shape %q", ErrInvalidScene, i, pd.Shape)
		}
		if !(pd.Density >= 0) {
			return Body{}, fmt.Errorf("%w: proxy %d has density %g", ErrInvalidScene, i, pd.Density)
		}
		mass := pd.Mass
		if mass == 0 && pd.Density > 0 {
			shape, _ := s.World.Shape(sid)
			mass = pd.Density * shape.Volume()
		}
		local := physics.TransformFromEuler(vec(pd.Position), vec(pd.Rotation))
		pid, err := s.World.AddProxy(id, sid, local, mass)
		if err != nil {
			return Body{}, fmt.Errorf("proxy %d: %w", i, err)
		}
		body.Proxies = append(body.Proxies, pid)
	}
	return body, nil
}

// Body looks a body up by name.
func (s *Scene) Body(name string) (Body, bool) {
	for _, b := range s.Bodies {
		if b.Name == name {
			return b, true
		}
	}
	return Body{}, false
}

// --- Saving ---

func (f *File) Marshal() ([]byte, error) {
	data, err := yaml.Marshal(f)
	if err != nil {
		return nil, fmt.Errorf("scene: marshal: %w", err)
	}
	return data, nil
}

func (f *File) Save(path string) error {
	data, err := f.Marshal()
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("scene: write %s: %w", path, err)
	}
	return nil
}
