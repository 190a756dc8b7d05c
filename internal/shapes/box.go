package shapes

import (
	"fmt"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/go-gl/mathgl/mgl32"
)

// Box is the read-only view of a box shape.
type Box struct {
	halfExtents rl.Vector3
}

// NewBox creates a box from its half extents.
func NewBox(halfExtents rl.Vector3, opts ...Option) (Shape, error) {
	for _, c := range []struct {
		name string
		v    float32
	}{{"half extent x", halfExtents.X}, {"half extent y", halfExtents.Y}, {"half extent z", halfExtents.Z}} {
		if err := checkLength(KindBox, c.name, c.v); err != nil {
			return Shape{}, err
		}
	}
	return newShape(KindBox, halfExtents, nil, opts)
}

// AsBox returns the box view, or ErrVariantMismatch.
func (s *Shape) AsBox() (Box, error) {
	if s.kind != KindBox {
		return Box{}, variantError(KindBox, s.kind)
	}
	return s.box(), nil
}

func (s *Shape) box() Box {
	return Box{halfExtents: s.dims}
}

func (b Box) HalfExtents() rl.Vector3 { return b.halfExtents }
func (b Box) Size() rl.Vector3        { return rl.Vector3Scale(b.halfExtents, 2) }

func (b Box) support(d rl.Vector3) rl.Vector3 {
	return rl.Vector3{
		X: upOrDown(d.X, b.halfExtents.X),
		Y: upOrDown(d.Y, b.halfExtents.Y),
		Z: upOrDown(d.Z, b.halfExtents.Z),
	}
}

func (b Box) bounds() (rl.Vector3, rl.Vector3) {
	return symmetricBounds(b.halfExtents)
}

func (b Box) inertia(mass float32) mgl32.Mat3 {
	x2 := b.halfExtents.X * b.halfExtents.X
	y2 := b.halfExtents.Y * b.halfExtents.Y
	z2 := b.halfExtents.Z * b.halfExtents.Z
	k := mass / 3
	return diagonal(k*(y2+z2), k*(x2+z2), k*(x2+y2))
}

func (b Box) volume() float32 {
	return 8 * b.halfExtents.X * b.halfExtents.Y * b.halfExtents.Z
}

func (b Box) String() string {
	s := b.Size()
	return fmt.Sprintf("box(%gx%gx%g)", s.X, s.Y, s.Z)
}
