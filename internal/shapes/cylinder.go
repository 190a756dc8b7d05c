package shapes

import (
	"fmt"

	"github.com/chewxy/math32"
	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/go-gl/mathgl/mgl32"
)

// Cylinder is the read-only view of a cylinder shape along the Y axis.
type Cylinder struct {
	radius     float32
	halfHeight float32
}

// NewCylinder creates a cylinder with the given radius and full height.
func NewCylinder(radius, height float32, opts ...Option) (Shape, error) {
	if err := checkLength(KindCylinder, "radius", radius); err != nil {
		return Shape{}, err
	}
	if err := checkLength(KindCylinder, "height", height); err != nil {
		return Shape{}, err
	}
	return newShape(KindCylinder, rl.Vector3{X: radius, Y: height / 2}, nil, opts)
}

// AsCylinder returns the cylinder view, or ErrVariantMismatch.
func (s *Shape) AsCylinder() (Cylinder, error) {
	if s.kind != KindCylinder {
		return Cylinder{}, variantError(KindCylinder, s.kind)
	}
	return s.cylinder(), nil
}

func (s *Shape) cylinder() Cylinder {
	return Cylinder{radius: s.dims.X, halfHeight: s.dims.Y}
}

func (c Cylinder) Radius() float32     { return c.radius }
func (c Cylinder) HalfHeight() float32 { return c.halfHeight }
func (c Cylinder) Height() float32     { return 2 * c.halfHeight }

func (c Cylinder) support(d rl.Vector3) rl.Vector3 {
	y := upOrDown(d.Y, c.halfHeight)
	planar := planarLength(d)
	if planar > 0 {
		k := c.radius / planar
		return rl.Vector3{X: d.X * k, Y: y, Z: d.Z * k}
	}
	return rl.Vector3{Y: y}
}

func (c Cylinder) bounds() (rl.Vector3, rl.Vector3) {
	return symmetricBounds(rl.Vector3{X: c.radius, Y: c.halfHeight, Z: c.radius})
}

func (c Cylinder) inertia(mass float32) mgl32.Mat3 {
	r2 := c.radius * c.radius
	xz := mass * (r2/4 + c.halfHeight*c.halfHeight/3)
	return diagonal(xz, 0.5*mass*r2, xz)
}

func (c Cylinder) volume() float32 {
	return math32.Pi * c.radius * c.radius * c.Height()
}

func (c Cylinder) String() string {
	return fmt.Sprintf("cylinder(r=%g h=%g)", c.radius, c.Height())
}
