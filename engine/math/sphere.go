package math

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

type Sphere struct {
	Center mgl32.Vec3
	Radius float32
}

// SphereFromPositions bounds packed xyz triplets: centered on their box,
// radius reaching the farthest point.
func SphereFromPositions(positions []float32) Sphere {
	if len(positions) < 3 {
		return Sphere{}
	}
	lo := mgl32.Vec3{positions[0], positions[1], positions[2]}
	hi := lo
	for i := 3; i+2 < len(positions); i += 3 {
		for c := 0; c < 3; c++ {
			lo[c] = Min(lo[c], positions[i+c])
			hi[c] = Max(hi[c], positions[i+c])
		}
	}
	center := lo.Add(hi).Mul(0.5)
	var maxSq float32
	for i := 0; i+2 < len(positions); i += 3 {
		d := mgl32.Vec3{positions[i], positions[i+1], positions[i+2]}.Sub(center)
		maxSq = Max(maxSq, d.Dot(d))
	}
	return Sphere{Center: center, Radius: math32.Sqrt(maxSq)}
}

func (s Sphere) ApplyMatrix4(m mgl32.Mat4) Sphere {
	return Sphere{
		Center: ProjectPoint(m, s.Center),
		Radius: s.Radius * MaxScaleOnAxis(m),
	}
}
