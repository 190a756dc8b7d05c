package shapes

import (
	"fmt"

	"github.com/chewxy/math32"
	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/go-gl/mathgl/mgl32"
)

// Cone is the read-only view of a cone shape. The apex is at +HalfHeight on
// the Y axis and the base disk at -HalfHeight, so the local origin sits at
// half the height, not at the centroid.
type Cone struct {
	radius     float32
	halfHeight float32
}

// NewCone creates a cone with the given base radius and full height.
func NewCone(radius, height float32, opts ...Option) (Shape, error) {
	if err := checkLength(KindCone, "radius", radius); err != nil {
		return Shape{}, err
	}
	if err := checkLength(KindCone, "height", height); err != nil {
		return Shape{}, err
	}
	return newShape(KindCone, rl.Vector3{X: radius, Y: height / 2}, nil, opts)
}

// AsCone returns the cone view, or ErrVariantMismatch.
func (s *Shape) AsCone() (Cone, error) {
	if s.kind != KindCone {
		return Cone{}, variantError(KindCone, s.kind)
	}
	return s.cone(), nil
}

func (s *Shape) cone() Cone {
	return Cone{radius: s.dims.X, halfHeight: s.dims.Y}
}

func (c Cone) Radius() float32     { return c.radius }
func (c Cone) HalfHeight() float32 { return c.halfHeight }
func (c Cone) Height() float32     { return 2 * c.halfHeight }

// SinTheta is the sine of the half angle at the apex.
func (c Cone) SinTheta() float32 {
	h := c.Height()
	return c.radius / math32.Sqrt(c.radius*c.radius+h*h)
}

// support picks the apex when d lies inside the apex half angle and a point
// of the base rim otherwise. A d with no horizontal component that misses
// the apex (straight down) selects the fixed rim point (r, -hh, 0).
func (c Cone) support(d rl.Vector3) rl.Vector3 {
	if d.Y >= c.SinTheta()*length(d) {
		return rl.Vector3{Y: c.halfHeight}
	}
	planar := planarLength(d)
	if planar > 0 {
		k := c.radius / planar
		return rl.Vector3{X: d.X * k, Y: -c.halfHeight, Z: d.Z * k}
	}
	return rl.Vector3{X: c.radius, Y: -c.halfHeight}
}

func (c Cone) bounds() (rl.Vector3, rl.Vector3) {
	return symmetricBounds(rl.Vector3{X: c.radius, Y: c.halfHeight, Z: c.radius})
}

// inertia is taken about the local origin: the centroid tensor
// (3/20 m r² + 3/80 m h²) shifted by h/4 along Y.
func (c Cone) inertia(mass float32) mgl32.Mat3 {
	r2 := c.radius * c.radius
	hh2 := c.halfHeight * c.halfHeight
	xz := 0.15*mass*r2 + 0.4*mass*hh2
	return diagonal(xz, 0.3*mass*r2, xz)
}

func (c Cone) centroid() rl.Vector3 {
	return rl.Vector3{Y: -c.halfHeight / 2}
}

func (c Cone) volume() float32 {
	return math32.Pi * c.radius * c.radius * c.Height() / 3
}

func (c Cone) String() string {
	return fmt.Sprintf("cone(r=%g h=%g)", c.radius, c.Height())
}
