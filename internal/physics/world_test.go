package physics

import (
	"errors"
	"math"
	"testing"

	"rigid3d/internal/memory"
	"rigid3d/internal/shapes"

	rl "github.com/gen2brain/raylib-go/raylib"
)

func mustSphere(t *testing.T, r float32) shapes.Shape {
	t.Helper()
	s, err := shapes.NewSphere(r)
	if err != nil {
		t.Fatalf("NewSphere(%v): %v", r, err)
	}
	return s
}

func mustCone(t *testing.T) shapes.Shape {
	t.Helper()
	s, err := shapes.NewCone(3, 5, shapes.WithMargin(0))
	if err != nil {
		t.Fatalf("NewCone: %v", err)
	}
	return s
}

// newBodyWith creates a world with one body carrying one proxy of s.
func newBodyWith(t *testing.T, s shapes.Shape, body Transform) (*CollisionWorld, ShapeID, BodyID, ProxyID) {
	t.Helper()
	w := NewCollisionWorld(0)
	sid, err := w.CreateShape(s)
	if err != nil {
		t.Fatalf("CreateShape: %v", err)
	}
	bid, err := w.CreateBody("body", body)
	if err != nil {
		t.Fatalf("CreateBody: %v", err)
	}
	pid, err := w.AddProxy(bid, sid, Identity(), 1)
	if err != nil {
		t.Fatalf("AddProxy: %v", err)
	}
	return w, sid, bid, pid
}

func TestCreateShapeDeduplicates(t *testing.T) {
	w := NewCollisionWorld(0)
	a, err := w.CreateShape(mustSphere(t, 1))
	if err != nil {
		t.Fatalf("CreateShape: %v", err)
	}
	b, err := w.CreateShape(mustSphere(t, 1))
	if err != nil {
		t.Fatalf("CreateShape: %v", err)
	}
	c, err := w.CreateShape(mustSphere(t, 2))
	if err != nil {
		t.Fatalf("CreateShape: %v", err)
	}

	if a != b {
		t.Errorf("equal shapes should share a handle, got %v and %v", a, b)
	}
	if a == c {
		t.Error("different shapes should not share a handle")
	}
	if w.NumShapes() != 2 {
		t.Errorf("Expected 2 stored shapes, got %d", w.NumShapes())
	}

	// one destroy per create
	if err := w.DestroyShape(a); err != nil {
		t.Fatalf("DestroyShape: %v", err)
	}
	if _, ok := w.Shape(a); !ok {
		t.Error("shape should survive until every creation is destroyed")
	}
	if err := w.DestroyShape(a); err != nil {
		t.Fatalf("DestroyShape: %v", err)
	}
	if _, ok := w.Shape(a); ok {
		t.Error("shape should be released after the last destroy")
	}
}

func TestCreateShapeCopiesInput(t *testing.T) {
	w := NewCollisionWorld(0)
	s := mustCone(t)
	id, err := w.CreateShape(s)
	if err != nil {
		t.Fatalf("CreateShape: %v", err)
	}

	stored, _ := w.Shape(id)
	if stored == &s {
		t.Fatal("world should store its own copy")
	}
	if !stored.Equals(&s) {
		t.Errorf("Expected the stored shape to equal the input, got %v", stored)
	}
}

func TestCreateShapeRejectsZeroShape(t *testing.T) {
	w := NewCollisionWorld(0)
	if _, err := w.CreateShape(shapes.Shape{}); !errors.Is(err, shapes.ErrVariantMismatch) {
		t.Errorf("Expected ErrVariantMismatch, got %v", err)
	}
}

func TestDestroyShapeInUse(t *testing.T) {
	w, sid, _, pid := newBodyWith(t, mustCone(t), Identity())

	err := w.DestroyShape(sid)
	if !errors.Is(err, ErrShapeInUse) {
		t.Fatalf("Expected ErrShapeInUse, got %v", err)
	}
	if w.ShapeUsers(sid) != 1 {
		t.Errorf("Expected 1 user, got %d", w.ShapeUsers(sid))
	}

	// the rejected destroy left the proxy usable
	p, ok := w.Proxy(pid)
	if !ok {
		t.Fatal("proxy should still resolve")
	}
	if got := p.WorldSupportPoint(rl.Vector3{Y: 1}, false); !nearVec(got, rl.Vector3{Y: 2.5}) {
		t.Errorf("Expected apex (0, 2.5, 0), got %v", got)
	}

	if err := w.RemoveProxy(pid); err != nil {
		t.Fatalf("RemoveProxy: %v", err)
	}
	if err := w.DestroyShape(sid); err != nil {
		t.Errorf("DestroyShape after RemoveProxy: %v", err)
	}
}

func TestStaleHandles(t *testing.T) {
	w, sid, bid, pid := newBodyWith(t, mustSphere(t, 1), Identity())

	if err := w.RemoveProxy(pid); err != nil {
		t.Fatalf("RemoveProxy: %v", err)
	}
	if _, ok := w.Proxy(pid); ok {
		t.Error("removed proxy should not resolve")
	}
	if err := w.RemoveProxy(pid); !errors.Is(err, ErrUnknownProxy) {
		t.Errorf("Expected ErrUnknownProxy, got %v", err)
	}

	// a new proxy reuses the slot under a new generation
	pid2, err := w.AddProxy(bid, sid, Identity(), 1)
	if err != nil {
		t.Fatalf("AddProxy: %v", err)
	}
	if pid2.Index() != pid.Index() {
		t.Errorf("Expected slot %d to be reused, got %d", pid.Index(), pid2.Index())
	}
	if _, ok := w.Proxy(pid); ok {
		t.Error("old handle should not resolve to the new proxy")
	}

	if err := w.DestroyBody(bid); err != nil {
		t.Fatalf("DestroyBody: %v", err)
	}
	if _, err := w.AddProxy(bid, sid, Identity(), 1); !errors.Is(err, ErrUnknownBody) {
		t.Errorf("Expected ErrUnknownBody, got %v", err)
	}
	if _, err := w.AddProxy(BodyID{}, ShapeID{}, Identity(), 1); !errors.Is(err, ErrUnknownBody) {
		t.Errorf("Expected ErrUnknownBody for zero handles, got %v", err)
	}
}

func TestDestroyBodyReleasesProxies(t *testing.T) {
	w, sid, bid, pid := newBodyWith(t, mustSphere(t, 1), Identity())

	if err := w.DestroyBody(bid); err != nil {
		t.Fatalf("DestroyBody: %v", err)
	}
	if _, ok := w.Proxy(pid); ok {
		t.Error("proxy should be destroyed with its body")
	}
	if w.ShapeUsers(sid) != 0 {
		t.Errorf("Expected 0 users, got %d", w.ShapeUsers(sid))
	}
	if err := w.DestroyShape(sid); err != nil {
		t.Errorf("DestroyShape: %v", err)
	}
	if w.Arena().Used() != 0 {
		t.Errorf("Expected an empty arena, %d bytes in use", w.Arena().Used())
	}
}

func TestAddProxyRejectsInvalidMass(t *testing.T) {
	w, sid, bid, _ := newBodyWith(t, mustSphere(t, 1), Identity())
	for _, m := range []float32{-1, float32(math.NaN()), float32(math.Inf(1))} {
		if _, err := w.AddProxy(bid, sid, Identity(), m); !errors.Is(err, ErrInvalidMass) {
			t.Errorf("mass %v: Expected ErrInvalidMass, got %v", m, err)
		}
	}
	if _, err := w.AddProxy(bid, sid, Identity(), 0); err != nil {
		t.Errorf("zero mass should be accepted, got %v", err)
	}
}

func TestArenaBudget(t *testing.T) {
	s := mustSphere(t, 1)
	w := NewCollisionWorld(s.SizeInBytes())

	if _, err := w.CreateShape(s); err != nil {
		t.Fatalf("first shape should fit: %v", err)
	}
	if _, err := w.CreateBody("b", Identity()); !errors.Is(err, memory.ErrArenaExhausted) {
		t.Errorf("Expected ErrArenaExhausted, got %v", err)
	}
	if w.NumBodies() != 0 {
		t.Errorf("failed create should not leave a body behind, got %d", w.NumBodies())
	}
}

func TestWorldSupportPointRotated(t *testing.T) {
	body := TransformFromEuler(rl.Vector3{X: 1, Y: 2, Z: 3}, rl.Vector3{Z: 90})
	w, _, _, pid := newBodyWith(t, mustCone(t), body)
	p, _ := w.Proxy(pid)

	// the apex now points along -X
	want := rl.Vector3{X: 1 - 2.5, Y: 2, Z: 3}
	if got := p.WorldSupportPoint(rl.Vector3{X: -1}, false); !nearVec(got, want) {
		t.Errorf("Expected %v, got %v", want, got)
	}

	if got := p.LocalSupportPoint(rl.Vector3{Y: 1}, false); !nearVec(got, rl.Vector3{Y: 2.5}) {
		t.Errorf("local query should ignore the transform, got %v", got)
	}
}

func TestWorldSupportPointIsFarthest(t *testing.T) {
	body := TransformFromEuler(rl.Vector3{X: -4, Y: 1}, rl.Vector3{X: 25, Y: 40, Z: -70})
	w, _, _, pid := newBodyWith(t, mustCone(t), body)
	p, _ := w.Proxy(pid)

	dirs := []rl.Vector3{{X: 1}, {Y: -1}, {X: 1, Y: 1, Z: 1}, {X: -0.3, Y: 0.2, Z: 0.9}, {Z: -1}}
	for _, d := range dirs {
		best := rl.Vector3DotProduct(p.WorldSupportPoint(d, false), d)
		for _, other := range dirs {
			q := p.WorldSupportPoint(other, false)
			if rl.Vector3DotProduct(q, d) > best+1e-3 {
				t.Errorf("direction %v: %v reaches farther than the support point", d, q)
			}
		}
	}
}

func TestWorldSupportPointMargin(t *testing.T) {
	s, err := shapes.NewBox(rl.Vector3{X: 1, Y: 2, Z: 3}, shapes.WithMargin(0.25))
	if err != nil {
		t.Fatalf("NewBox: %v", err)
	}
	body := TransformFromEuler(rl.Vector3{}, rl.Vector3{Y: 30})
	w, _, _, pid := newBodyWith(t, s, body)
	p, _ := w.Proxy(pid)

	d := rl.Vector3Normalize(rl.Vector3{X: 1, Y: 1})
	diff := rl.Vector3Subtract(p.WorldSupportPoint(d, true), p.WorldSupportPoint(d, false))
	if !nearVec(diff, rl.Vector3Scale(d, 0.25)) {
		t.Errorf("Expected a %v offset along %v, got %v", 0.25, d, diff)
	}
	if p.Margin() != 0.25 {
		t.Errorf("Expected margin 0.25, got %v", p.Margin())
	}
}

func TestSetBodyTransformCarriesProxies(t *testing.T) {
	w := NewCollisionWorld(0)
	sid, _ := w.CreateShape(mustSphere(t, 0.5))
	bid, _ := w.CreateBody("arm", Identity())
	pid, err := w.AddProxy(bid, sid, NewTransform(rl.Vector3{Y: 1}, rl.QuaternionIdentity()), 1)
	if err != nil {
		t.Fatalf("AddProxy: %v", err)
	}

	moved := TransformFromEuler(rl.Vector3{X: 5}, rl.Vector3{Z: 90})
	if err := w.SetBodyTransform(bid, moved); err != nil {
		t.Fatalf("SetBodyTransform: %v", err)
	}
	p, _ := w.Proxy(pid)
	if got := p.Transform().Position; !nearVec(got, rl.Vector3{X: 4}) {
		t.Errorf("Expected proxy at (4, 0, 0), got %v", got)
	}
	if got := p.LocalTransform().Position; !nearVec(got, rl.Vector3{Y: 1}) {
		t.Errorf("local offset should not change, got %v", got)
	}
}

func TestSetTransformOverridesWorldPose(t *testing.T) {
	w, _, _, pid := newBodyWith(t, mustSphere(t, 1), Identity())
	p, _ := w.Proxy(pid)
	if err := p.SetTransform(NewTransform(rl.Vector3{Z: 7}, rl.QuaternionIdentity())); err != nil {
		t.Fatalf("SetTransform: %v", err)
	}

	b := p.WorldBounds()
	if !near(b.Center().Z, 7) {
		t.Errorf("Expected bounds centered at z=7, got %v", b.Center())
	}
}

func TestSetTransformRejectsInvalidPose(t *testing.T) {
	w, _, _, pid := newBodyWith(t, mustSphere(t, 1), NewTransform(rl.Vector3{X: 2}, rl.QuaternionIdentity()))
	p, _ := w.Proxy(pid)
	nan := float32(math.NaN())

	poses := map[string]Transform{
		"nan position":    {Position: rl.Vector3{Y: nan}, Orientation: rl.QuaternionIdentity()},
		"inf orientation": {Orientation: rl.Quaternion{W: float32(math.Inf(1))}},
		"zero quaternion": {Position: rl.Vector3{Z: 1}},
	}
	for name, pose := range poses {
		t.Run(name, func(t *testing.T) {
			if err := p.SetTransform(pose); !errors.Is(err, ErrInvalidPose) {
				t.Errorf("Expected ErrInvalidPose, got %v", err)
			}
			if got := p.Transform().Position; !nearVec(got, rl.Vector3{X: 2}) {
				t.Errorf("rejected pose should leave the proxy at (2, 0, 0), got %v", got)
			}
		})
	}
}

func TestQueryAABB(t *testing.T) {
	w := NewCollisionWorld(0)
	sid, _ := w.CreateShape(mustSphere(t, 1))
	origin, _ := w.CreateBody("origin", Identity())
	far, _ := w.CreateBody("far", NewTransform(rl.Vector3{X: 10}, rl.QuaternionIdentity()))
	originProxy, _ := w.AddProxy(origin, sid, Identity(), 1)
	w.AddProxy(far, sid, Identity(), 1)

	hits := w.QueryAABB(NewAABBFromCenter(rl.Vector3{X: 1.5}, rl.Vector3{X: 1, Y: 1, Z: 1}))
	if len(hits) != 1 || hits[0] != originProxy {
		t.Errorf("Expected only the proxy at the origin, got %v", hits)
	}
}

func TestQueryPoint(t *testing.T) {
	w := NewCollisionWorld(0)
	sphere, _ := w.CreateShape(mustSphere(t, 1))
	cube, err := shapes.NewBox(rl.Vector3{X: 1, Y: 1, Z: 1})
	if err != nil {
		t.Fatal(err)
	}
	box, _ := w.CreateShape(cube)
	origin, _ := w.CreateBody("origin", Identity())
	turned, _ := w.CreateBody("turned", TransformFromEuler(rl.Vector3{X: 10}, rl.Vector3{Y: 45}))
	sphereProxy, _ := w.AddProxy(origin, sphere, Identity(), 1)
	boxProxy, _ := w.AddProxy(turned, box, Identity(), 1)

	if hits := w.QueryPoint(rl.Vector3{X: 0.5}); len(hits) != 1 || hits[0] != sphereProxy {
		t.Errorf("Expected the sphere proxy, got %v", hits)
	}
	if hits := w.QueryPoint(rl.Vector3{X: 10}); len(hits) != 1 || hits[0] != boxProxy {
		t.Errorf("Expected the box proxy, got %v", hits)
	}
	// Inside the world AABB of the turned box but outside the box itself.
	if hits := w.QueryPoint(rl.Vector3{X: 11.2, Z: 1.2}); len(hits) != 0 {
		t.Errorf("Expected no hits beside the turned box, got %v", hits)
	}
}

func TestWorldBounds(t *testing.T) {
	w := NewCollisionWorld(0)
	if _, ok := w.Bounds(); ok {
		t.Error("empty world should report no bounds")
	}

	ball, err := shapes.NewSphere(1, shapes.WithMargin(0))
	if err != nil {
		t.Fatal(err)
	}
	sid, _ := w.CreateShape(ball)
	a, _ := w.CreateBody("a", Identity())
	b, _ := w.CreateBody("b", NewTransform(rl.Vector3{X: 5, Y: -2}, rl.QuaternionIdentity()))
	w.AddProxy(a, sid, Identity(), 1)
	w.AddProxy(b, sid, Identity(), 1)

	box, ok := w.Bounds()
	if !ok {
		t.Fatal("Expected bounds for a populated world")
	}
	if !nearVec(box.Min, rl.Vector3{X: -1, Y: -3, Z: -1}) || !nearVec(box.Max, rl.Vector3{X: 6, Y: 1, Z: 1}) {
		t.Errorf("Expected (-1,-3,-1)..(6,1,1), got %v..%v", box.Min, box.Max)
	}
}

func TestBoundsOverlap(t *testing.T) {
	w := NewCollisionWorld(0)
	sid, _ := w.CreateShape(mustSphere(t, 1))
	a, _ := w.CreateBody("a", Identity())
	b, _ := w.CreateBody("b", NewTransform(rl.Vector3{X: 1.5}, rl.QuaternionIdentity()))
	pa, _ := w.AddProxy(a, sid, Identity(), 1)
	pb, _ := w.AddProxy(b, sid, Identity(), 1)

	proxyA, _ := w.Proxy(pa)
	proxyB, _ := w.Proxy(pb)
	if !proxyA.BoundsOverlap(proxyB) {
		t.Error("Expected overlapping bounds")
	}

	w.SetBodyTransform(b, NewTransform(rl.Vector3{X: 5}, rl.QuaternionIdentity()))
	if proxyA.BoundsOverlap(proxyB) {
		t.Error("Expected separated bounds after moving the body")
	}
}

func TestFarthestAlong(t *testing.T) {
	w := NewCollisionWorld(0)
	small, _ := w.CreateShape(mustSphere(t, 1))
	big, _ := w.CreateShape(mustSphere(t, 3))
	a, _ := w.CreateBody("a", NewTransform(rl.Vector3{Y: 1}, rl.QuaternionIdentity()))
	b, _ := w.CreateBody("b", Identity())
	w.AddProxy(a, small, Identity(), 1)
	want, _ := w.AddProxy(b, big, Identity(), 1)

	got, point, ok := w.FarthestAlong(rl.Vector3{Y: 1}, false)
	if !ok || got != want {
		t.Fatalf("Expected proxy %v, got %v (ok=%v)", want, got, ok)
	}
	if !nearVec(point, rl.Vector3{Y: 3}) {
		t.Errorf("Expected (0, 3, 0), got %v", point)
	}
}

func TestDestroyReleasesEverything(t *testing.T) {
	w := NewCollisionWorld(0)
	sid, _ := w.CreateShape(mustCone(t))
	w.CreateShape(mustCone(t))
	for i := 0; i < 3; i++ {
		bid, _ := w.CreateBody("b", Identity())
		if _, err := w.AddProxy(bid, sid, Identity(), 1); err != nil {
			t.Fatalf("AddProxy: %v", err)
		}
	}

	w.Destroy()

	if w.NumBodies() != 0 || w.NumProxies() != 0 || w.NumShapes() != 0 {
		t.Errorf("Expected an empty world, got %d bodies %d proxies %d shapes",
			w.NumBodies(), w.NumProxies(), w.NumShapes())
	}
	if w.Arena().Used() != 0 {
		t.Errorf("Expected an empty arena, %d bytes in use", w.Arena().Used())
	}
	if w.Arena().Peak() == 0 {
		t.Error("peak usage should be recorded")
	}
}
