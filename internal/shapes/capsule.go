package shapes

import (
	"fmt"

	"github.com/chewxy/math32"
	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/go-gl/mathgl/mgl32"
)

// Capsule is the read-only view of a capsule: a segment along Y from
// -HalfHeight to +HalfHeight swept by a sphere of Radius.
type Capsule struct {
	radius     float32
	halfHeight float32
}

// NewCapsule creates a capsule. height is the distance between the centers
// of the two hemispheres; the total extent along Y is height + 2*radius.
func NewCapsule(radius, height float32, opts ...Option) (Shape, error) {
	if err := checkLength(KindCapsule, "radius", radius); err != nil {
		return Shape{}, err
	}
	if err := checkLength(KindCapsule, "height", height); err != nil {
		return Shape{}, err
	}
	return newShape(KindCapsule, rl.Vector3{X: radius, Y: height / 2}, nil, opts)
}

// AsCapsule returns the capsule view, or ErrVariantMismatch.
func (s *Shape) AsCapsule() (Capsule, error) {
	if s.kind != KindCapsule {
		return Capsule{}, variantError(KindCapsule, s.kind)
	}
	return s.capsule(), nil
}

func (s *Shape) capsule() Capsule {
	return Capsule{radius: s.dims.X, halfHeight: s.dims.Y}
}

func (c Capsule) Radius() float32     { return c.radius }
func (c Capsule) HalfHeight() float32 { return c.halfHeight }
func (c Capsule) Height() float32     { return 2 * c.halfHeight }

func (c Capsule) support(d rl.Vector3) rl.Vector3 {
	u, ok := normalize(d)
	if !ok {
		return rl.Vector3{Y: c.halfHeight + c.radius}
	}
	center := rl.Vector3{Y: upOrDown(d.Y, c.halfHeight)}
	return rl.Vector3Add(center, rl.Vector3Scale(u, c.radius))
}

func (c Capsule) bounds() (rl.Vector3, rl.Vector3) {
	return symmetricBounds(rl.Vector3{X: c.radius, Y: c.halfHeight + c.radius, Z: c.radius})
}

// inertia splits the mass between the cylinder and the two hemispheres by
// volume. Each hemisphere contributes 2/5 m r² about its flat face, moved to
// the origin through its centroid at 3r/8 from that face.
func (c Capsule) inertia(mass float32) mgl32.Mat3 {
	r, hh := c.radius, c.halfHeight
	cylVolume := math32.Pi * r * r * 2 * hh
	sphVolume := 4.0 / 3.0 * math32.Pi * r * r * r
	mc := mass * cylVolume / (cylVolume + sphVolume)
	ms := mass - mc

	r2 := r * r
	xz := mc*(r2/4+hh*hh/3) + ms*(0.4*r2+hh*hh+0.75*hh*r)
	yy := 0.5*mc*r2 + 0.4*ms*r2
	return diagonal(xz, yy, xz)
}

func (c Capsule) volume() float32 {
	r := c.radius
	return math32.Pi*r*r*c.Height() + 4.0/3.0*math32.Pi*r*r*r
}

func (c Capsule) String() string {
	return fmt.Sprintf("capsule(r=%g h=%g)", c.radius, c.Height())
}
