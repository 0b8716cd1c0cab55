package math

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
	"golang.org/x/exp/constraints"
)

// Clamp returns the value `f` clamped to the range [low, high].
// It works for any numeric type (integers and floats).
func Clamp[T constraints.Ordered](f, low, high T) T {
	if f < low {
		return low
	}
	if f > high {
		return high
	}
	return f
}

func Max[T constraints.Ordered](a, b T) T {
	if a > b {
		return a
	}
	return b
}

func Min[T constraints.Ordered](a, b T) T {
	if a < b {
		return a
	}
	return b
}

// ProjectPoint applies m to v and performs the perspective divide.
func ProjectPoint(m mgl32.Mat4, v mgl32.Vec3) mgl32.Vec3 {
	p := m.Mul4x1(v.Vec4(1))
	w := p.W()
	if w == 0 {
		w = 1
	}
	return mgl32.Vec3{p.X() / w, p.Y() / w, p.Z() / w}
}

// Translation returns the translation column of m.
func Translation(m mgl32.Mat4) mgl32.Vec3 {
	return mgl32.Vec3{m[12], m[13], m[14]}
}

// NormalMatrix is the inverse transpose of the upper 3x3 of m.
func NormalMatrix(m mgl32.Mat4) mgl32.Mat3 {
	return m.Mat3().Inv().Transpose()
}

// MaxScaleOnAxis returns the largest axis scale contained in m.
func MaxScaleOnAxis(m mgl32.Mat4) float32 {
	sx := m[0]*m[0] + m[1]*m[1] + m[2]*m[2]
	sy := m[4]*m[4] + m[5]*m[5] + m[6]*m[6]
	sz := m[8]*m[8] + m[9]*m[9] + m[10]*m[10]
	return math32.Sqrt(Max(sx, Max(sy, sz)))
}
