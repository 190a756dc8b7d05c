package physics

import (
	"slices"
	"unsafe"

	"rigid3d/internal/shapes"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/go-gl/mathgl/mgl32"
)

// CollisionBody groups proxies that move together.
type CollisionBody struct {
	name      string
	transform Transform
	proxies   []ProxyID
}

func (b *CollisionBody) Name() string         { return b.name }
func (b *CollisionBody) Transform() Transform { return b.transform }
func (b *CollisionBody) NumProxies() int      { return len(b.proxies) }

// Proxies returns the attached proxies in attachment order.
func (b *CollisionBody) Proxies() []ProxyID {
	return slices.Clone(b.proxies)
}

func (b *CollisionBody) removeProxy(id ProxyID) {
	if i := slices.Index(b.proxies, id); i >= 0 {
		b.proxies = slices.Delete(b.proxies, i, i+1)
	}
}

func bodySize() int {
	return int(unsafe.Sizeof(CollisionBody{}))
}

// MassProperties describes a body in its own frame. Inertia is taken about
// CenterOfMass.
type MassProperties struct {
	Mass         float32
	CenterOfMass rl.Vector3
	Inertia      mgl32.Mat3
}

// computeMassProperties combines proxies placed at their local transforms.
// Massless proxies are skipped; a body without mass gets zero properties.
func computeMassProperties(proxies []*ProxyShape) MassProperties {
	var props MassProperties
	var weighted rl.Vector3
	for _, p := range proxies {
		if p.mass == 0 {
			continue
		}
		props.Mass += p.mass
		c := p.local.Apply(p.shape.LocalCenterOfMass())
		weighted = rl.Vector3Add(weighted, rl.Vector3Scale(c, p.mass))
	}
	if props.Mass == 0 {
		return props
	}
	props.CenterOfMass = rl.Vector3Scale(weighted, 1/props.Mass)

	for _, p := range proxies {
		if p.mass == 0 {
			continue
		}
		centroid := p.shape.LocalCenterOfMass()
		// back from the shape origin to the shape centroid
		atCentroid := shapes.ParallelAxis(p.LocalInertiaTensor(), -p.mass, centroid)
		inBody := rotateTensor(p.local.Basis(), atCentroid)
		offset := rl.Vector3Subtract(p.local.Apply(centroid), props.CenterOfMass)
		props.Inertia = props.Inertia.Add(shapes.ParallelAxis(inBody, p.mass, offset))
	}
	return props
}
