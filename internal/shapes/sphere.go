package shapes

import (
	"fmt"

	"github.com/chewxy/math32"
	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/go-gl/mathgl/mgl32"
)

// Sphere is the read-only view of a sphere shape.
type Sphere struct {
	radius float32
}

// NewSphere creates a sphere of the given radius.
func NewSphere(radius float32, opts ...Option) (Shape, error) {
	if err := checkLength(KindSphere, "radius", radius); err != nil {
		return Shape{}, err
	}
	return newShape(KindSphere, rl.Vector3{X: radius}, nil, opts)
}

// AsSphere returns the sphere view, or ErrVariantMismatch.
func (s *Shape) AsSphere() (Sphere, error) {
	if s.kind != KindSphere {
		return Sphere{}, variantError(KindSphere, s.kind)
	}
	return s.sphere(), nil
}

func (s *Shape) sphere() Sphere {
	return Sphere{radius: s.dims.X}
}

func (sp Sphere) Radius() float32 {
	return sp.radius
}

func (sp Sphere) support(d rl.Vector3) rl.Vector3 {
	u, ok := normalize(d)
	if !ok {
		return rl.Vector3{X: sp.radius}
	}
	return rl.Vector3Scale(u, sp.radius)
}

func (sp Sphere) bounds() (rl.Vector3, rl.Vector3) {
	return symmetricBounds(rl.Vector3{X: sp.radius, Y: sp.radius, Z: sp.radius})
}

func (sp Sphere) inertia(mass float32) mgl32.Mat3 {
	i := 0.4 * mass * sp.radius * sp.radius
	return diagonal(i, i, i)
}

func (sp Sphere) volume() float32 {
	return 4.0 / 3.0 * math32.Pi * sp.radius * sp.radius * sp.radius
}

func (sp Sphere) String() string {
	return fmt.Sprintf("sphere(r=%g)", sp.radius)
}
