package physics

import (
	"github.com/chewxy/math32"
	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/go-gl/mathgl/mgl32"
)

// Transform places a shape in a parent frame: a rotation by Orientation
// followed by a translation by Position.
type Transform struct {
	Position    rl.Vector3
	Orientation rl.Quaternion
}

// Identity returns the transform that leaves points unchanged.
func Identity() Transform {
	return Transform{Orientation: rl.QuaternionIdentity()}
}

// NewTransform normalizes orientation. A zero quaternion becomes identity.
func NewTransform(position rl.Vector3, orientation rl.Quaternion) Transform {
	return Transform{Position: position, Orientation: orientation}.normalized()
}

// TransformFromEuler builds a transform from euler angles in degrees,
// applied X first, then Y, then Z.
func TransformFromEuler(position, rotation rl.Vector3) Transform {
	qx := rl.QuaternionFromAxisAngle(rl.Vector3{X: 1}, rotation.X*rl.Deg2rad)
	qy := rl.QuaternionFromAxisAngle(rl.Vector3{Y: 1}, rotation.Y*rl.Deg2rad)
	qz := rl.QuaternionFromAxisAngle(rl.Vector3{Z: 1}, rotation.Z*rl.Deg2rad)
	q := rl.QuaternionMultiply(qz, rl.QuaternionMultiply(qy, qx))
	return NewTransform(position, q)
}

func (t Transform) normalized() Transform {
	q := t.Orientation
	if q.X*q.X+q.Y*q.Y+q.Z*q.Z+q.W*q.W == 0 {
		t.Orientation = rl.QuaternionIdentity()
		return t
	}
	t.Orientation = rl.QuaternionNormalize(q)
	return t
}

// Valid reports whether every component is finite and the orientation is
// not the zero quaternion.
func (t Transform) Valid() bool {
	q := t.Orientation
	for _, v := range [...]float32{t.Position.X, t.Position.Y, t.Position.Z, q.X, q.Y, q.Z, q.W} {
		if math32.IsNaN(v) || math32.IsInf(v, 0) {
			return false
		}
	}
	return q.X*q.X+q.Y*q.Y+q.Z*q.Z+q.W*q.W > 0
}

// Rotate applies only the orientation to v.
func (t Transform) Rotate(v rl.Vector3) rl.Vector3 {
	return rl.Vector3RotateByQuaternion(v, t.Orientation)
}

// InverseRotate undoes Rotate.
func (t Transform) InverseRotate(v rl.Vector3) rl.Vector3 {
	return rl.Vector3RotateByQuaternion(v, rl.QuaternionInvert(t.Orientation))
}

// Apply maps a point from the local frame to the parent frame.
func (t Transform) Apply(p rl.Vector3) rl.Vector3 {
	return rl.Vector3Add(t.Position, t.Rotate(p))
}

// Mul returns t ∘ local: the transform applying local first, then t.
func (t Transform) Mul(local Transform) Transform {
	return Transform{
		Position:    t.Apply(local.Position),
		Orientation: rl.QuaternionNormalize(rl.QuaternionMultiply(t.Orientation, local.Orientation)),
	}
}

// Basis returns the rotation matrix whose columns are the rotated unit axes.
func (t Transform) Basis() mgl32.Mat3 {
	x := t.Rotate(rl.Vector3{X: 1})
	y := t.Rotate(rl.Vector3{Y: 1})
	z := t.Rotate(rl.Vector3{Z: 1})
	return mgl32.Mat3FromCols(vec3(x), vec3(y), vec3(z))
}

func vec3(v rl.Vector3) mgl32.Vec3 {
	return mgl32.Vec3{v.X, v.Y, v.Z}
}

func fromVec3(v mgl32.Vec3) rl.Vector3 {
	return rl.Vector3{X: v[0], Y: v[1], Z: v[2]}
}
