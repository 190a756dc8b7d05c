// Package shapes holds the immutable convex collision geometry shared by
// every body that uses it.
//
// A Shape is a tagged value: one Kind plus the parameters of that primitive
// and a collision margin. Shapes are built once, then only read. The margin
// inflates the exact surface so that convex distance algorithms never work
// on zero-thickness geometry; it takes part in support points and bounds but
// never in inertia.
//
// All primitives are centered on the local origin and aligned with the Y axis.
package shapes

import (
	"slices"
	"unsafe"

	"github.com/chewxy/math32"
	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/go-gl/mathgl/mgl32"
)

// DefaultMargin is the margin used when no WithMargin option is given.
// With meters as the unit this is 4 cm; objects smaller than that should
// pass their own margin.
const DefaultMargin float32 = 0.04

// Option customizes a shape at construction.
type Option func(*Shape)

// WithMargin overrides DefaultMargin.
func WithMargin(margin float32) Option {
	return func(s *Shape) {
		s.margin = margin
	}
}

// Shape is one convex primitive. The zero value is not a valid shape; use
// the New* constructors.
type Shape struct {
	kind   Kind
	margin float32

	// dims holds the primitive parameters:
	// sphere {radius}, box {half extents}, cone/cylinder/capsule {radius, half height}.
	dims rl.Vector3

	// hull is the vertex cloud of a convex mesh. It is copied at construction
	// and never written again, so clones share it.
	hull []rl.Vector3
}

func newShape(kind Kind, dims rl.Vector3, hull []rl.Vector3, opts []Option) (Shape, error) {
	s := Shape{kind: kind, margin: DefaultMargin, dims: dims, hull: hull}
	for _, opt := range opts {
		opt(&s)
	}
	if s.margin < 0 || math32.IsNaN(s.margin) || math32.IsInf(s.margin, 0) {
		return Shape{}, &ParameterError{Kind: kind, Param: "margin", Value: s.margin}
	}
	return s, nil
}

func checkLength(kind Kind, param string, v float32) error {
	if !(v > 0) || math32.IsInf(v, 0) {
		return &ParameterError{Kind: kind, Param: param, Value: v}
	}
	return nil
}

// Kind returns the primitive tag.
func (s *Shape) Kind() Kind {
	return s.kind
}

// Margin returns the collision margin.
func (s *Shape) Margin() float32 {
	return s.margin
}

// SupportPoint returns the point of the shape farthest along direction.
// Without the margin the point lies on the exact primitive surface. With it,
// the exact point is pushed outward by Margin along the normalized direction;
// a zero direction is pushed along +Y.
func (s *Shape) SupportPoint(direction rl.Vector3, includeMargin bool) rl.Vector3 {
	direction = rescale(direction)
	var p rl.Vector3
	switch s.kind {
	case KindSphere:
		p = s.sphere().support(direction)
	case KindCone:
		p = s.cone().support(direction)
	case KindBox:
		p = s.box().support(direction)
	case KindCylinder:
		p = s.cylinder().support(direction)
	case KindCapsule:
		p = s.capsule().support(direction)
	case KindConvexMesh:
		p = s.convexMesh().support(direction)
	default:
		mismatch("SupportPoint", s.kind)
	}

	if !includeMargin || s.margin == 0 {
		return p
	}
	unit, ok := normalize(direction)
	if !ok {
		unit = rl.Vector3{Y: 1}
	}
	return rl.Vector3Add(p, rl.Vector3Scale(unit, s.margin))
}

// LocalBounds returns the axis-aligned box in the shape's frame that holds
// every margin-inflated support point.
func (s *Shape) LocalBounds() (min, max rl.Vector3) {
	switch s.kind {
	case KindSphere:
		min, max = s.sphere().bounds()
	case KindCone:
		min, max = s.cone().bounds()
	case KindBox:
		min, max = s.box().bounds()
	case KindCylinder:
		min, max = s.cylinder().bounds()
	case KindCapsule:
		min, max = s.capsule().bounds()
	case KindConvexMesh:
		min, max = s.convexMesh().bounds()
	default:
		mismatch("LocalBounds", s.kind)
	}
	m := rl.Vector3{X: s.margin, Y: s.margin, Z: s.margin}
	return rl.Vector3Subtract(min, m), rl.Vector3Add(max, m)
}

// LocalInertiaTensor returns the inertia tensor of the solid primitive of
// the given mass about the local origin. The margin is ignored.
func (s *Shape) LocalInertiaTensor(mass float32) mgl32.Mat3 {
	switch s.kind {
	case KindSphere:
		return s.sphere().inertia(mass)
	case KindCone:
		return s.cone().inertia(mass)
	case KindBox:
		return s.box().inertia(mass)
	case KindCylinder:
		return s.cylinder().inertia(mass)
	case KindCapsule:
		return s.capsule().inertia(mass)
	case KindConvexMesh:
		return s.convexMesh().inertia(mass)
	}
	mismatch("LocalInertiaTensor", s.kind)
	return mgl32.Mat3{}
}

// LocalCenterOfMass returns the centroid of the solid in the local frame.
func (s *Shape) LocalCenterOfMass() rl.Vector3 {
	switch s.kind {
	case KindSphere, KindBox, KindCylinder, KindCapsule:
		return rl.Vector3{}
	case KindCone:
		return s.cone().centroid()
	case KindConvexMesh:
		return s.convexMesh().centroid()
	}
	mismatch("LocalCenterOfMass", s.kind)
	return rl.Vector3{}
}

// Volume returns the volume of the solid primitive without margin.
func (s *Shape) Volume() float32 {
	switch s.kind {
	case KindSphere:
		return s.sphere().volume()
	case KindCone:
		return s.cone().volume()
	case KindBox:
		return s.box().volume()
	case KindCylinder:
		return s.cylinder().volume()
	case KindCapsule:
		return s.capsule().volume()
	case KindConvexMesh:
		return s.convexMesh().volume()
	}
	mismatch("Volume", s.kind)
	return 0
}

// Equals reports whether other is the same primitive with the same
// parameters and the same margin. Two shapes that differ only in margin give
// different support points, so they are not interchangeable.
func (s *Shape) Equals(other *Shape) bool {
	if other == nil || s.kind != other.kind {
		return false
	}
	if s.margin != other.margin || s.dims != other.dims {
		return false
	}
	return slices.Equal(s.hull, other.hull)
}

// CloneInto copies s into storage owned by the caller and returns it.
// Nothing is allocated.
func (s *Shape) CloneInto(dst *Shape) *Shape {
	*dst = *s
	return dst
}

// SizeInBytes returns the storage a shape needs: the fixed header plus the
// convex mesh vertices it owns.
func (s *Shape) SizeInBytes() int {
	return int(unsafe.Sizeof(Shape{})) + len(s.hull)*int(unsafe.Sizeof(rl.Vector3{}))
}

func (s *Shape) String() string {
	switch s.kind {
	case KindSphere:
		return s.sphere().String() + marginSuffix(s.margin)
	case KindCone:
		return s.cone().String() + marginSuffix(s.margin)
	case KindBox:
		return s.box().String() + marginSuffix(s.margin)
	case KindCylinder:
		return s.cylinder().String() + marginSuffix(s.margin)
	case KindCapsule:
		return s.capsule().String() + marginSuffix(s.margin)
	case KindConvexMesh:
		return s.convexMesh().String() + marginSuffix(s.margin)
	}
	return s.kind.String()
}
