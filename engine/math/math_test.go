package math

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
)

func TestClamp(t *testing.T) {
	assert.Equal(t, 0, Clamp(-3, 0, 255))
	assert.Equal(t, 255, Clamp(300, 0, 255))
	assert.Equal(t, float32(0.5), Clamp(float32(0.5), 0, 1))
}

func TestFrustumIntersectsSphere(t *testing.T) {
	proj := mgl32.Perspective(mgl32.DegToRad(60), 1, 0.1, 100)
	view := mgl32.LookAtV(mgl32.Vec3{0, 0, 10}, mgl32.Vec3{}, mgl32.Vec3{0, 1, 0})
	f := NewFrustumFromMatrix(proj.Mul4(view))

	assert.True(t, f.IntersectsSphere(Sphere{Center: mgl32.Vec3{}, Radius: 1}))
	assert.False(t, f.IntersectsSphere(Sphere{Center: mgl32.Vec3{0, 0, 20}, Radius: 1}))
	assert.False(t, f.IntersectsSphere(Sphere{Center: mgl32.Vec3{500, 0, 0}, Radius: 1}))
	// straddling the near plane still intersects
	assert.True(t, f.IntersectsSphere(Sphere{Center: mgl32.Vec3{0, 0, 10}, Radius: 1}))
	assert.True(t, f.ContainsPoint(mgl32.Vec3{0, 0, -5}))
}

func TestPlaneApplyMatrix(t *testing.T) {
	p := NewPlane(mgl32.Vec3{0, 1, 0}, -2) // y = 2
	m := mgl32.Translate3D(0, 3, 0)
	moved := p.ApplyMatrix4(m, NormalMatrix(m))
	assert.InDelta(t, 0, moved.DistanceToPoint(mgl32.Vec3{7, 5, -1}), 1e-5)
	assert.InDelta(t, 1, moved.Normal.Len(), 1e-5)
}

func TestSphereFromPositions(t *testing.T) {
	s := SphereFromPositions([]float32{-1, 0, 0, 1, 0, 0, 0, 2, 0, 0, -2, 0})
	assert.True(t, s.Center.ApproxEqual(mgl32.Vec3{}))
	assert.InDelta(t, 2, s.Radius, 1e-6)

	scaled := s.ApplyMatrix4(mgl32.Scale3D(3, 1, 1))
	assert.InDelta(t, 6, scaled.Radius, 1e-5)
}

func TestTransformLocal(t *testing.T) {
	tr := TransformFromPosition(mgl32.Vec3{1, 2, 3})
	assert.True(t, tr.IsDirty())
	assert.Equal(t, mgl32.Vec3{1, 2, 3}, Translation(tr.Local()))
	assert.False(t, tr.IsDirty())

	tr.SetScale(mgl32.Vec3{2, 2, 2})
	assert.InDelta(t, 2, MaxScaleOnAxis(tr.Local()), 1e-6)
}

func TestProjectPoint(t *testing.T) {
	m := mgl32.Ident4()
	m[15] = 2
	assert.Equal(t, mgl32.Vec3{1, 1, 1}, ProjectPoint(m, mgl32.Vec3{2, 2, 2}))
}
