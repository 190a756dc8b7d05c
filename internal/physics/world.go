package physics

import (
	"errors"
	"fmt"
	"log"

	"rigid3d/internal/memory"
	"rigid3d/internal/shapes"

	rl "github.com/gen2brain/raylib-go/raylib"
)

var (
	ErrUnknownShape = errors.New("physics: unknown shape")
	ErrUnknownBody  = errors.New("physics: unknown body")
	ErrUnknownProxy = errors.New("physics: unknown proxy")
	ErrShapeInUse   = errors.New("physics: shape still referenced by proxies")
	ErrInvalidMass  = errors.New("physics: invalid mass")
	ErrInvalidPose  = errors.New("physics: invalid transform")
)

// ShapeID, BodyID and ProxyID are generation-checked handles into the
// world's pools. The zero value never resolves.
type (
	ShapeID struct{ memory.Handle }
	BodyID  struct{ memory.Handle }
	ProxyID struct{ memory.Handle }
)

type shapeEntry struct {
	shape   shapes.Shape
	created int // CreateShape calls not yet matched by DestroyShape
	proxies int // live proxies borrowing shape
}

// CollisionWorld owns every shape, body and proxy. Shapes are shared:
// creating a shape equal to a live one returns the existing handle.
type CollisionWorld struct {
	arena   *memory.Arena
	shapes  *memory.Pool[shapeEntry]
	bodies  *memory.Pool[CollisionBody]
	proxies *memory.Pool[ProxyShape]
}

// NewCollisionWorld creates a world with the given arena budget in bytes.
// A zero budget is unlimited.
func NewCollisionWorld(memoryBudget int) *CollisionWorld {
	return &CollisionWorld{
		arena:   memory.NewArena(memoryBudget),
		shapes:  memory.NewPool[shapeEntry](memory.DefaultChunkSize),
		bodies:  memory.NewPool[CollisionBody](memory.DefaultChunkSize),
		proxies: memory.NewPool[ProxyShape](memory.DefaultChunkSize),
	}
}

// Arena exposes the byte accounting for inspection.
func (w *CollisionWorld) Arena() *memory.Arena { return w.arena }

func (w *CollisionWorld) NumShapes() int  { return w.shapes.Len() }
func (w *CollisionWorld) NumBodies() int  { return w.bodies.Len() }
func (w *CollisionWorld) NumProxies() int { return w.proxies.Len() }

// CreateShape copies s into world storage and returns its handle.
func (w *CollisionWorld) CreateShape(s shapes.Shape) (ShapeID, error) {
	if !s.Kind().Valid() {
		return ShapeID{}, fmt.Errorf("physics: create shape: %w", shapes.ErrVariantMismatch)
	}
	if id, entry, ok := w.findShape(&s); ok {
		entry.created++
		return id, nil
	}
	if err := w.arena.Reserve(s.SizeInBytes()); err != nil {
		return ShapeID{}, fmt.Errorf("physics: create %s: %w", s.Kind(), err)
	}
	h, entry := w.shapes.Alloc(shapeEntry{created: 1})
	s.CloneInto(&entry.shape)
	return ShapeID{h}, nil
}

func (w *CollisionWorld) findShape(s *shapes.Shape) (ShapeID, *shapeEntry, bool) {
	var (
		found ShapeID
		entry *shapeEntry
	)
	w.shapes.Each(func(h memory.Handle, e *shapeEntry) bool {
		if e.shape.Equals(s) {
			found, entry = ShapeID{h}, e
			return false
		}
		return true
	})
	return found, entry, entry != nil
}

// Shape returns the stored shape. The pointer stays valid until the shape
// is released.
func (w *CollisionWorld) Shape(id ShapeID) (*shapes.Shape, bool) {
	e, ok := w.shapes.Get(id.Handle)
	if !ok {
		return nil, false
	}
	return &e.shape, true
}

// ShapeUsers returns how many proxies currently borrow the shape.
func (w *CollisionWorld) ShapeUsers(id ShapeID) int {
	e, ok := w.shapes.Get(id.Handle)
	if !ok {
		return 0
	}
	return e.proxies
}

// DestroyShape undoes one CreateShape. Storage is released once every
// creation has been matched. Shapes borrowed by a proxy cannot be destroyed.
func (w *CollisionWorld) DestroyShape(id ShapeID) error {
	e, ok := w.shapes.Get(id.Handle)
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownShape, id)
	}
	if e.proxies > 0 {
		return fmt.Errorf("%w: %s has %d proxies", ErrShapeInUse, id, e.proxies)
	}
	e.created--
	if e.created > 0 {
		return nil
	}
	w.releaseShape(id, e)
	return nil
}

func (w *CollisionWorld) releaseShape(id ShapeID, e *shapeEntry) {
	w.arena.Release(e.shape.SizeInBytes())
	w.shapes.Free(id.Handle)
}

// CreateBody adds an empty body at transform t.
func (w *CollisionWorld) CreateBody(name string, t Transform) (BodyID, error) {
	if !t.Valid() {
		return BodyID{}, fmt.Errorf("%w: body %q", ErrInvalidPose, name)
	}
	if err := w.arena.Reserve(bodySize()); err != nil {
		return BodyID{}, fmt.Errorf("physics: create body %q: %w", name, err)
	}
	h, _ := w.bodies.Alloc(CollisionBody{name: name, transform: t.normalized()})
	return BodyID{h}, nil
}

func (w *CollisionWorld) Body(id BodyID) (*CollisionBody, bool) {
	return w.bodies.Get(id.Handle)
}

// DestroyBody removes the body together with its proxies.
func (w *CollisionWorld) DestroyBody(id BodyID) error {
	b, ok := w.bodies.Get(id.Handle)
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownBody, id)
	}
	for i := len(b.proxies) - 1; i >= 0; i-- {
		w.freeProxy(b.proxies[i])
	}
	b.proxies = nil
	w.arena.Release(bodySize())
	w.bodies.Free(id.Handle)
	return nil
}

// AddProxy attaches shape to body. local places the shape relative to the
// body; mass must be finite and non-negative.
func (w *CollisionWorld) AddProxy(body BodyID, shape ShapeID, local Transform, mass float32) (ProxyID, error) {
	if mass < 0 || !finite(mass) {
		return ProxyID{}, fmt.Errorf("%w: %v", ErrInvalidMass, mass)
	}
	if !local.Valid() {
		return ProxyID{}, fmt.Errorf("%w: proxy on %s", ErrInvalidPose, body)
	}
	b, ok := w.bodies.Get(body.Handle)
	if !ok {
		return ProxyID{}, fmt.Errorf("%w: %s", ErrUnknownBody, body)
	}
	e, ok := w.shapes.Get(shape.Handle)
	if !ok {
		return ProxyID{}, fmt.Errorf("%w: %s", ErrUnknownShape, shape)
	}

	local = local.normalized()
	p := ProxyShape{
		shape:   &e.shape,
		shapeID: shape,
		body:    body,
		local:   local,
		world:   b.transform.Mul(local),
		mass:    mass,
	}
	if err := w.arena.Reserve(p.SizeInBytes()); err != nil {
		return ProxyID{}, fmt.Errorf("physics: add proxy to %q: %w", b.name, err)
	}
	h, _ := w.proxies.Alloc(p)
	id := ProxyID{h}
	e.proxies++
	b.proxies = append(b.proxies, id)
	return id, nil
}

func (w *CollisionWorld) Proxy(id ProxyID) (*ProxyShape, bool) {
	return w.proxies.Get(id.Handle)
}

// RemoveProxy detaches a proxy from its body. The shape stays alive.
func (w *CollisionWorld) RemoveProxy(id ProxyID) error {
	p, ok := w.proxies.Get(id.Handle)
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownProxy, id)
	}
	if b, ok := w.bodies.Get(p.body.Handle); ok {
		b.removeProxy(id)
	}
	w.freeProxy(id)
	return nil
}

func (w *CollisionWorld) freeProxy(id ProxyID) {
	p, ok := w.proxies.Get(id.Handle)
	if !ok {
		return
	}
	if e, ok := w.shapes.Get(p.shapeID.Handle); ok {
		e.proxies--
	}
	w.arena.Release(p.SizeInBytes())
	w.proxies.Free(id.Handle)
}

// SetBodyTransform moves a body and carries its proxies along.
func (w *CollisionWorld) SetBodyTransform(id BodyID, t Transform) error {
	if !t.Valid() {
		return fmt.Errorf("%w: %s", ErrInvalidPose, id)
	}
	b, ok := w.bodies.Get(id.Handle)
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownBody, id)
	}
	b.transform = t.normalized()
	for _, pid := range b.proxies {
		if p, ok := w.proxies.Get(pid.Handle); ok {
			p.world = b.transform.Mul(p.local)
		}
	}
	return nil
}

// BodyMassProperties aggregates the body's proxies in the body frame.
func (w *CollisionWorld) BodyMassProperties(id BodyID) (MassProperties, error) {
	b, ok := w.bodies.Get(id.Handle)
	if !ok {
		return MassProperties{}, fmt.Errorf("%w: %s", ErrUnknownBody, id)
	}
	proxies := make([]*ProxyShape, 0, len(b.proxies))
	for _, pid := range b.proxies {
		if p, ok := w.proxies.Get(pid.Handle); ok {
			proxies = append(proxies, p)
		}
	}
	return computeMassProperties(proxies), nil
}

// QueryAABB returns every proxy whose world bounds overlap box, in pool order.
func (w *CollisionWorld) QueryAABB(box AABB) []ProxyID {
	var hits []ProxyID
	w.proxies.Each(func(h memory.Handle, p *ProxyShape) bool {
		if p.WorldBounds().Intersects(box) {
			hits = append(hits, ProxyID{h})
		}
		return true
	})
	return hits
}

// QueryPoint returns every proxy whose oriented bounds hold p.
func (w *CollisionWorld) QueryPoint(p rl.Vector3) []ProxyID {
	var hits []ProxyID
	w.proxies.Each(func(h memory.Handle, proxy *ProxyShape) bool {
		if proxy.WorldBounds().ContainsPoint(p) && proxy.OrientedBounds().ContainsPoint(p, 1e-5) {
			hits = append(hits, ProxyID{h})
		}
		return true
	})
	return hits
}

// Bounds encloses the world bounds of every proxy. It reports false for a
// world without proxies.
func (w *CollisionWorld) Bounds() (AABB, bool) {
	var (
		box   AABB
		found bool
	)
	w.proxies.Each(func(_ memory.Handle, p *ProxyShape) bool {
		if b := p.WorldBounds(); found {
			box = box.Union(b)
		} else {
			box, found = b, true
		}
		return true
	})
	return box, found
}

// FarthestAlong returns the proxy whose support point reaches farthest
// along direction, together with that point.
func (w *CollisionWorld) FarthestAlong(direction rl.Vector3, includeMargin bool) (ProxyID, rl.Vector3, bool) {
	var (
		best    ProxyID
		point   rl.Vector3
		bestDot float32
		found   bool
	)
	w.proxies.Each(func(h memory.Handle, p *ProxyShape) bool {
		s := p.WorldSupportPoint(direction, includeMargin)
		if d := rl.Vector3DotProduct(s, direction); !found || d > bestDot {
			best, point, bestDot, found = ProxyID{h}, s, d, true
		}
		return true
	})
	return best, point, found
}

// Destroy tears the world down: bodies and their proxies first, then the
// shapes they borrowed.
func (w *CollisionWorld) Destroy() {
	var bodies []BodyID
	w.bodies.Each(func(h memory.Handle, _ *CollisionBody) bool {
		bodies = append(bodies, BodyID{h})
		return true
	})
	proxies := w.proxies.Len()
	for _, id := range bodies {
		w.DestroyBody(id)
	}

	var released []ShapeID
	w.shapes.Each(func(h memory.Handle, _ *shapeEntry) bool {
		released = append(released, ShapeID{h})
		return true
	})
	for _, id := range released {
		if e, ok := w.shapes.Get(id.Handle); ok {
			w.releaseShape(id, e)
		}
	}

	log.Printf("Physics: world destroyed (%d bodies, %d proxies, %d shapes, peak %d bytes)",
		len(bodies), proxies, len(released), w.arena.Peak())
}
