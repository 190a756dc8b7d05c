package shapes

import (
	"fmt"
	"slices"

	"github.com/chewxy/math32"
	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/go-gl/mathgl/mgl32"
)

// MinConvexMeshVertices is the smallest vertex cloud that can enclose a volume.
const MinConvexMeshVertices = 4

// ConvexMesh is the read-only view of a convex vertex cloud. Only the
// vertices are stored; the support mapping scans them all.
type ConvexMesh struct {
	vertices []rl.Vector3
}

// NewConvexMesh creates a convex mesh from its vertices, which are copied.
// The cloud needs at least MinConvexMeshVertices finite points and a positive
// extent on every axis.
func NewConvexMesh(vertices []rl.Vector3, opts ...Option) (Shape, error) {
	if len(vertices) < MinConvexMeshVertices {
		return Shape{}, &ParameterError{Kind: KindConvexMesh, Param: "vertex count", Value: float32(len(vertices))}
	}
	for _, v := range vertices {
		for _, c := range [3]float32{v.X, v.Y, v.Z} {
			if math32.IsNaN(c) || math32.IsInf(c, 0) {
				return Shape{}, &ParameterError{Kind: KindConvexMesh, Param: "vertex", Value: c}
			}
		}
	}

	m := ConvexMesh{vertices: slices.Clone(vertices)}
	lo, hi := m.bounds()
	size := rl.Vector3Subtract(hi, lo)
	for _, c := range []struct {
		name string
		v    float32
	}{{"extent x", size.X}, {"extent y", size.Y}, {"extent z", size.Z}} {
		if err := checkLength(KindConvexMesh, c.name, c.v); err != nil {
			return Shape{}, err
		}
	}
	return newShape(KindConvexMesh, rl.Vector3{}, m.vertices, opts)
}

// AsConvexMesh returns the convex mesh view, or ErrVariantMismatch.
func (s *Shape) AsConvexMesh() (ConvexMesh, error) {
	if s.kind != KindConvexMesh {
		return ConvexMesh{}, variantError(KindConvexMesh, s.kind)
	}
	return s.convexMesh(), nil
}

func (s *Shape) convexMesh() ConvexMesh {
	return ConvexMesh{vertices: s.hull}
}

func (m ConvexMesh) NumVertices() int {
	return len(m.vertices)
}

// Vertices returns a copy of the vertex cloud.
func (m ConvexMesh) Vertices() []rl.Vector3 {
	return slices.Clone(m.vertices)
}

// support returns the first vertex with the largest projection on d.
func (m ConvexMesh) support(d rl.Vector3) rl.Vector3 {
	best := m.vertices[0]
	bestDot := rl.Vector3DotProduct(best, d)
	for _, v := range m.vertices[1:] {
		if dot := rl.Vector3DotProduct(v, d); dot > bestDot {
			best, bestDot = v, dot
		}
	}
	return best
}

func (m ConvexMesh) bounds() (rl.Vector3, rl.Vector3) {
	lo, hi := m.vertices[0], m.vertices[0]
	for _, v := range m.vertices[1:] {
		lo = rl.Vector3Min(lo, v)
		hi = rl.Vector3Max(hi, v)
	}
	return lo, hi
}

func (m ConvexMesh) centroid() rl.Vector3 {
	lo, hi := m.bounds()
	return rl.Vector3Scale(rl.Vector3Add(lo, hi), 0.5)
}

// inertia treats the mesh as the solid box spanned by its vertex bounds.
// The exact tensor needs the hull faces, which are not stored.
func (m ConvexMesh) inertia(mass float32) mgl32.Mat3 {
	lo, hi := m.bounds()
	half := rl.Vector3Scale(rl.Vector3Subtract(hi, lo), 0.5)
	return ParallelAxis(Box{halfExtents: half}.inertia(mass), mass, m.centroid())
}

// volume matches the box used by inertia.
func (m ConvexMesh) volume() float32 {
	lo, hi := m.bounds()
	size := rl.Vector3Subtract(hi, lo)
	return size.X * size.Y * size.Z
}

func (m ConvexMesh) String() string {
	return fmt.Sprintf("convex_mesh(%d vertices)", len(m.vertices))
}
