package physics

import rl "github.com/gen2brain/raylib-go/raylib"

// OBB represents an Oriented Bounding Box
type OBB struct {
	Center   rl.Vector3    // World-space center
	HalfSize rl.Vector3    // Half-extents along local axes
	Axes     [3]rl.Vector3 // Local X, Y, Z axes (rotated)
}

// NewOBB places the local box [min, max] with transform t.
func NewOBB(t Transform, min, max rl.Vector3) OBB {
	local := AABB{Min: min, Max: max}
	return OBB{
		Center:   t.Apply(local.Center()),
		HalfSize: rl.Vector3Scale(local.Size(), 0.5),
		Axes: [3]rl.Vector3{
			t.Rotate(rl.Vector3{X: 1}),
			t.Rotate(rl.Vector3{Y: 1}),
			t.Rotate(rl.Vector3{Z: 1}),
		},
	}
}

// Bounds returns the world AABB enclosing the OBB.
func (o OBB) Bounds() AABB {
	var extent rl.Vector3
	half := [3]float32{o.HalfSize.X, o.HalfSize.Y, o.HalfSize.Z}
	for i, axis := range o.Axes {
		extent.X += half[i] * absf(axis.X)
		extent.Y += half[i] * absf(axis.Y)
		extent.Z += half[i] * absf(axis.Z)
	}
	return AABB{
		Min: rl.Vector3Subtract(o.Center, extent),
		Max: rl.Vector3Add(o.Center, extent),
	}
}

// IntersectsOBB tests if two OBBs intersect using the Separating Axis Theorem
func (a OBB) IntersectsOBB(b OBB) bool {
	t := rl.Vector3Subtract(b.Center, a.Center)

	// 3 face normals from each box, then the 9 edge cross products
	for i := 0; i < 3; i++ {
		if !overlapOnAxis(a, b, a.Axes[i], t) {
			return false
		}
	}
	for i := 0; i < 3; i++ {
		if !overlapOnAxis(a, b, b.Axes[i], t) {
			return false
		}
	}
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			axis := rl.Vector3CrossProduct(a.Axes[i], b.Axes[j])
			// Skip near-zero axes (parallel edges)
			if rl.Vector3Length(axis) > 0.0001 {
				axis = rl.Vector3Normalize(axis)
				if !overlapOnAxis(a, b, axis, t) {
					return false
				}
			}
		}
	}
	return true
}

// overlapOnAxis checks if two OBBs overlap when projected onto a given axis
func overlapOnAxis(a, b OBB, axis, t rl.Vector3) bool {
	distance := absf(rl.Vector3DotProduct(t, axis))
	return distance <= a.projectedRadius(axis)+b.projectedRadius(axis)
}

func (o OBB) projectedRadius(axis rl.Vector3) float32 {
	return o.HalfSize.X*absf(rl.Vector3DotProduct(o.Axes[0], axis)) +
		o.HalfSize.Y*absf(rl.Vector3DotProduct(o.Axes[1], axis)) +
		o.HalfSize.Z*absf(rl.Vector3DotProduct(o.Axes[2], axis))
}

// ClosestPoint returns the point of the OBB closest to p. Points inside
// map to themselves.
func (o OBB) ClosestPoint(p rl.Vector3) rl.Vector3 {
	local := rl.Vector3Subtract(p, o.Center)
	half := [3]float32{o.HalfSize.X, o.HalfSize.Y, o.HalfSize.Z}

	result := o.Center
	for i, axis := range o.Axes {
		d := clampf(rl.Vector3DotProduct(local, axis), -half[i], half[i])
		result = rl.Vector3Add(result, rl.Vector3Scale(axis, d))
	}
	return result
}

// ContainsPoint reports whether p lies inside the OBB, within eps.
func (o OBB) ContainsPoint(p rl.Vector3, eps float32) bool {
	return rl.Vector3Distance(o.ClosestPoint(p), p) <= eps
}
