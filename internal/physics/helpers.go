package physics

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

func absf(x float32) float32 {
	if x < 0 {
		return -x
	}
	return x
}

// clampf restricts a value to a range
func clampf(v, min, max float32) float32 {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}

func finite(v float32) bool {
	return !math32.IsNaN(v) && !math32.IsInf(v, 0)
}

// rotateTensor expresses a tensor given in a rotated frame in the parent
// frame: R I Rᵀ.
func rotateTensor(r, tensor mgl32.Mat3) mgl32.Mat3 {
	return r.Mul3(tensor).Mul3(r.Transpose())
}
