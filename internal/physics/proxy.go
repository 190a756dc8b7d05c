package physics

import (
	"fmt"
	"unsafe"

	"rigid3d/internal/shapes"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/go-gl/mathgl/mgl32"
)

// ProxyShape binds a shared shape to one body. The shape pointer is borrowed
// from the world's shape pool; the world refuses to free a shape while any
// proxy still points at it.
type ProxyShape struct {
	shape   *shapes.Shape
	shapeID ShapeID
	body    BodyID
	local   Transform // relative to the body
	world   Transform
	mass    float32
}

// WorldSupportPoint rotates direction into the shape frame, queries the
// shape and maps the result back to world space.
func (p *ProxyShape) WorldSupportPoint(direction rl.Vector3, includeMargin bool) rl.Vector3 {
	local := p.world.InverseRotate(direction)
	return p.world.Apply(p.shape.SupportPoint(local, includeMargin))
}

// LocalSupportPoint queries the shape in its own frame.
func (p *ProxyShape) LocalSupportPoint(direction rl.Vector3, includeMargin bool) rl.Vector3 {
	return p.shape.SupportPoint(direction, includeMargin)
}

func (p *ProxyShape) Margin() float32           { return p.shape.Margin() }
func (p *ProxyShape) Mass() float32             { return p.mass }
func (p *ProxyShape) Body() BodyID              { return p.body }
func (p *ProxyShape) ShapeID() ShapeID          { return p.shapeID }
func (p *ProxyShape) Shape() *shapes.Shape      { return p.shape }
func (p *ProxyShape) Transform() Transform      { return p.world }
func (p *ProxyShape) LocalTransform() Transform { return p.local }

// SetTransform overwrites the world transform. The next SetBodyTransform on
// the owning body recomputes it from the body and the local offset. A pose
// with non-finite components or a zero orientation is rejected and leaves
// the proxy unchanged.
func (p *ProxyShape) SetTransform(t Transform) error {
	if !t.Valid() {
		return fmt.Errorf("%w: proxy on %s", ErrInvalidPose, p.body)
	}
	p.world = t.normalized()
	return nil
}

// WorldBounds encloses the margin-inflated shape at its current transform.
func (p *ProxyShape) WorldBounds() AABB {
	return p.OrientedBounds().Bounds()
}

// OrientedBounds is the shape's local bounds placed at the world transform.
func (p *ProxyShape) OrientedBounds() OBB {
	min, max := p.shape.LocalBounds()
	return NewOBB(p.world, min, max)
}

// BoundsOverlap is a conservative overlap test between two proxies.
func (p *ProxyShape) BoundsOverlap(other *ProxyShape) bool {
	if !p.WorldBounds().Intersects(other.WorldBounds()) {
		return false
	}
	return p.OrientedBounds().IntersectsOBB(other.OrientedBounds())
}

// LocalInertiaTensor evaluates the shape tensor at the proxy's mass.
func (p *ProxyShape) LocalInertiaTensor() mgl32.Mat3 {
	return p.shape.LocalInertiaTensor(p.mass)
}

// SizeInBytes is what the world reserves from its arena per proxy.
func (p *ProxyShape) SizeInBytes() int {
	return int(unsafe.Sizeof(ProxyShape{}))
}
