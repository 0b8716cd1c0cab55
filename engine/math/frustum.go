package math

import "github.com/go-gl/mathgl/mgl32"

// Frustum holds six inward facing planes: right, left, bottom, top, far, near.
type Frustum struct {
	Planes [6]Plane
}

// NewFrustumFromMatrix extracts the clip planes of a projection-view matrix.
func NewFrustumFromMatrix(m mgl32.Mat4) Frustum {
	var f Frustum
	f.SetFromMatrix(m)
	return f
}

func (f *Frustum) SetFromMatrix(m mgl32.Mat4) {
	plane := func(x, y, z, w float32) Plane {
		return Plane{Normal: mgl32.Vec3{x, y, z}, Constant: w}.Normalized()
	}
	f.Planes[0] = plane(m[3]-m[0], m[7]-m[4], m[11]-m[8], m[15]-m[12])
	f.Planes[1] = plane(m[3]+m[0], m[7]+m[4], m[11]+m[8], m[15]+m[12])
	f.Planes[2] = plane(m[3]+m[1], m[7]+m[5], m[11]+m[9], m[15]+m[13])
	f.Planes[3] = plane(m[3]-m[1], m[7]-m[5], m[11]-m[9], m[15]-m[13])
	f.Planes[4] = plane(m[3]-m[2], m[7]-m[6], m[11]-m[10], m[15]-m[14])
	f.Planes[5] = plane(m[3]+m[2], m[7]+m[6], m[11]+m[10], m[15]+m[14])
}

func (f *Frustum) IntersectsSphere(s Sphere) bool {
	for _, p := range f.Planes {
		if p.DistanceToPoint(s.Center) < -s.Radius {
			return false
		}
	}
	return true
}

func (f *Frustum) ContainsPoint(v mgl32.Vec3) bool {
	for _, p := range f.Planes {
		if p.DistanceToPoint(v) < 0 {
			return false
		}
	}
	return true
}
