package math

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// Plane is the set of points p where Normal·p + Constant == 0.
type Plane struct {
	Normal   mgl32.Vec3
	Constant float32
}

func NewPlane(normal mgl32.Vec3, constant float32) Plane {
	return Plane{Normal: normal, Constant: constant}
}

// Normalized scales the plane so that its normal has unit length.
func (p Plane) Normalized() Plane {
	l := p.Normal.Len()
	if l == 0 {
		return p
	}
	inv := 1 / l
	return Plane{Normal: p.Normal.Mul(inv), Constant: p.Constant * inv}
}

func (p Plane) DistanceToPoint(v mgl32.Vec3) float32 {
	return p.Normal.Dot(v) + p.Constant
}

func (p Plane) CoplanarPoint() mgl32.Vec3 {
	return p.Normal.Mul(-p.Constant)
}

// ApplyMatrix4 transforms the plane by m. normalMatrix must be the normal
// matrix of m.
func (p Plane) ApplyMatrix4(m mgl32.Mat4, normalMatrix mgl32.Mat3) Plane {
	reference := ProjectPoint(m, p.CoplanarPoint())
	normal := normalMatrix.Mul3x1(p.Normal)
	if l := normal.Len(); l > 0 && math32.Abs(l-1) > 1e-6 {
		normal = normal.Mul(1 / l)
	}
	return Plane{Normal: normal, Constant: -reference.Dot(normal)}
}
