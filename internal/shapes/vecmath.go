package shapes

import (
	"fmt"

	"github.com/chewxy/math32"
	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/go-gl/mathgl/mgl32"
)

// rescale divides v by its largest absolute component so that squaring the
// components neither underflows nor overflows. Zero and non-finite vectors
// are returned unchanged.
func rescale(v rl.Vector3) rl.Vector3 {
	m := math32.Max(math32.Abs(v.X), math32.Max(math32.Abs(v.Y), math32.Abs(v.Z)))
	if m == 0 || math32.IsInf(m, 0) || math32.IsNaN(m) {
		return v
	}
	return rl.Vector3Scale(v, 1/m)
}

// length is the Euclidean length of v, safe for very small and very large
// components.
func length(v rl.Vector3) float32 {
	m := math32.Max(math32.Abs(v.X), math32.Max(math32.Abs(v.Y), math32.Abs(v.Z)))
	if m == 0 || math32.IsInf(m, 0) || math32.IsNaN(m) {
		return rl.Vector3Length(v)
	}
	return m * rl.Vector3Length(rl.Vector3Scale(v, 1/m))
}

// normalize returns v scaled to unit length, or false for the zero vector.
func normalize(v rl.Vector3) (rl.Vector3, bool) {
	v = rescale(v)
	l := rl.Vector3Length(v)
	if l == 0 {
		return rl.Vector3{}, false
	}
	return rl.Vector3Scale(v, 1/l), true
}

// planarLength is the length of v projected on the XZ plane.
func planarLength(v rl.Vector3) float32 {
	return length(rl.Vector3{X: v.X, Z: v.Z})
}

// upOrDown returns h for a non-negative y and -h otherwise.
func upOrDown(y, h float32) float32 {
	if y < 0 {
		return -h
	}
	return h
}

func symmetricBounds(e rl.Vector3) (rl.Vector3, rl.Vector3) {
	return rl.Vector3Negate(e), e
}

func diagonal(xx, yy, zz float32) mgl32.Mat3 {
	return mgl32.Diag3(mgl32.Vec3{xx, yy, zz})
}

// ParallelAxis moves an inertia tensor taken about the center of mass to a
// point at offset from it: I + m(|d|²E - d dᵀ).
func ParallelAxis(tensor mgl32.Mat3, mass float32, offset rl.Vector3) mgl32.Mat3 {
	d := mgl32.Vec3{offset.X, offset.Y, offset.Z}
	dd := d.Dot(d)
	var shift mgl32.Mat3
	for col := 0; col < 3; col++ {
		for row := 0; row < 3; row++ {
			v := -d[row] * d[col]
			if row == col {
				v += dd
			}
			shift[col*3+row] = mass * v
		}
	}
	return tensor.Add(shift)
}

func marginSuffix(m float32) string {
	return fmt.Sprintf(" margin=%g", m)
}
