package scene

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/spaghettifunk/vista/engine/material"
	"github.com/spaghettifunk/vista/engine/resources"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type pushed struct {
	node     Node
	geometry *resources.Geometry
	mat      material.Material
	group    *resources.Group
}

type sink struct {
	items []pushed
	quad  *resources.Geometry
}

func (s *sink) Push(node Node, geometry *resources.Geometry, mat material.Material, group *resources.Group) {
	s.items = append(s.items, pushed{node, geometry, mat, group})
}

func (s *sink) SpriteGeometry() *resources.Geometry {
	if s.quad == nil {
		s.quad = NewSpriteGeometry()
	}
	return s.quad
}

func TestHierarchyWorldMatrix(t *testing.T) {
	root := NewGroup()
	child := NewGroup()
	root.Add(child)
	root.SetPosition(mgl32.Vec3{1, 0, 0})
	child.SetPosition(mgl32.Vec3{0, 2, 0})

	root.UpdateMatrixWorld()
	pos := child.WorldPosition()
	assert.InDeltaSlice(t, []float32{1, 2, 0}, pos[:], 1e-6)
	assert.Same(t, root.Base(), child.Parent())

	other := NewGroup()
	other.Add(child)
	assert.Empty(t, root.Children())
	assert.Len(t, other.Children(), 1)

	other.Remove(child)
	assert.Nil(t, child.Parent())
}

func TestNodesGetDistinctIDs(t *testing.T) {
	a, b := NewGroup(), NewGroup()
	assert.NotEqual(t, a.ID, b.ID)
	require.NoError(t, a.Release())
	require.NoError(t, b.Release())
}

func TestMeshPushesOneItemPerGroup(t *testing.T) {
	box := resources.NewBoxGeometry(1, 1, 1)
	mats := make([]material.Material, 6)
	for i := range mats {
		mats[i] = material.NewMeshBasicMaterial()
	}
	m := NewMesh(box, mats...)

	var s sink
	m.FillRenderList(&s)
	require.Len(t, s.items, 6)
	for i, it := range s.items {
		assert.Same(t, mats[i], it.mat)
		require.NotNil(t, it.group)
		assert.Equal(t, i, it.group.MaterialIndex)
	}

	plain := NewMesh(resources.NewPlaneGeometry(1, 1), mats[0])
	s.items = nil
	plain.FillRenderList(&s)
	require.Len(t, s.items, 1)
	assert.Nil(t, s.items[0].group)
}

func TestMeshSizesMorphInfluences(t *testing.T) {
	g := resources.NewPlaneGeometry(1, 1)
	g.SetMorphAttributes(resources.AttributePosition, []*resources.Attribute{
		resources.NewFloatAttribute(make([]float32, 12), 3),
		resources.NewFloatAttribute(make([]float32, 12), 3),
	})
	m := NewMesh(g, material.NewMeshBasicMaterial())
	assert.Len(t, m.MorphTargetInfluences, 2)
}

func TestLayers(t *testing.T) {
	var l Layers = 1
	assert.True(t, l.Test(1))
	l.Set(3)
	assert.False(t, l.Test(1))
	l.Enable(0)
	assert.True(t, l.Test(1))
	l.Disable(0)
	assert.False(t, l.Test(1))
}

func TestLightsContributeInViewSpace(t *testing.T) {
	cam := NewPerspectiveCamera(60, 1, 0.1, 100)
	cam.SetPosition(mgl32.Vec3{0, 0, 5})
	cam.UpdateMatrixWorld()
	cam.UpdateMatrix()

	var setup LightSetup
	NewAmbientLight(mgl32.Vec3{1, 1, 1}, 0.5).Contribute(&setup, cam)
	NewAmbientLight(mgl32.Vec3{1, 0, 0}, 0.5).Contribute(&setup, cam)
	assert.InDeltaSlice(t, []float32{1, 0.5, 0.5}, setup.Ambient[:], 1e-6)

	point := NewPointLight(mgl32.Vec3{1, 1, 1}, 2, 10, 1)
	point.UpdateMatrixWorld()
	point.Contribute(&setup, cam)
	require.Len(t, setup.Point, 1)
	assert.InDeltaSlice(t, []float32{0, 0, -5}, setup.Point[0].Position[:], 1e-5)
	assert.InDeltaSlice(t, []float32{2, 2, 2}, setup.Point[0].Color[:], 1e-6)

	dir := NewDirectionalLight(mgl32.Vec3{1, 1, 1}, 1)
	dir.UpdateMatrixWorld()
	dir.Contribute(&setup, cam)
	require.Len(t, setup.Directional, 1)
	assert.InDeltaSlice(t, []float32{0, 1, 0}, setup.Directional[0].Direction[:], 1e-5)

	h := setup.Hash()
	assert.Equal(t, 1, h.NumDirectional)
	assert.Equal(t, 1, h.NumPoint)

	setup.Reset()
	assert.Zero(t, setup.Len())
	assert.Equal(t, mgl32.Vec3{}, setup.Ambient)
}

func TestCameraViewIsWorldInverse(t *testing.T) {
	cam := NewPerspectiveCamera(45, 1.5, 0.1, 10)
	cam.SetPosition(mgl32.Vec3{0, 0, 3})
	cam.UpdateMatrixWorld()
	cam.UpdateMatrix()

	origin := cam.View().Mul4x1(mgl32.Vec4{0, 0, 0, 1})
	assert.InDelta(t, -3, origin.Z(), 1e-5)

	cam.LookAt(mgl32.Vec3{3, 0, 3}, mgl32.Vec3{0, 1, 0})
	forward := cam.Forward()
	assert.InDeltaSlice(t, []float32{1, 0, 0}, forward[:], 1e-5)
}

func TestCameraPitchIsClamped(t *testing.T) {
	cam := NewPerspectiveCamera(45, 1, 0.1, 10)
	for i := 0; i < 10; i++ {
		cam.Pitch(0.5)
	}
	assert.InDelta(t, 1.55334306, cam.pitch, 1e-5)
}

func TestSkeletonBoneMatrices(t *testing.T) {
	bone := NewBone()
	bone.UpdateMatrixWorld()
	sk := NewSkeleton([]*Bone{bone}, nil)

	bone.SetPosition(mgl32.Vec3{0, 1, 0})
	bone.UpdateMatrixWorld()
	sk.Update()

	m := sk.BoneMatrices()
	require.Len(t, m, 16)
	assert.InDelta(t, 1, m[13], 1e-6)

	mesh := NewMesh(resources.NewPlaneGeometry(1, 1), material.NewMeshBasicMaterial())
	mesh.Bind(sk, nil)
	assert.True(t, mesh.IsSkinned())
	assert.Equal(t, mgl32.Ident4(), mesh.BindMatrixInverse)
}

func TestSpritesDrawTheSinkQuad(t *testing.T) {
	a, b := NewSprite(nil), NewSprite(nil)

	var s sink
	a.FillRenderList(&s)
	b.FillRenderList(&s)
	require.Len(t, s.items, 2)
	assert.Same(t, a.Material, s.items[0].mat)
	assert.Same(t, s.quad, s.items[0].geometry)
	assert.Same(t, s.quad, s.items[1].geometry)

	var other sink
	a.FillRenderList(&other)
	assert.NotSame(t, s.quad, other.items[0].geometry)
	assert.Equal(t, 6, other.items[0].geometry.Index().Len())
}

func TestSceneBackground(t *testing.T) {
	s := NewScene()
	_, ok := s.BackgroundColor()
	assert.False(t, ok)
	s.SetBackgroundColor(mgl32.Vec4{0.1, 0.2, 0.3, 1})
	c, ok := s.BackgroundColor()
	assert.True(t, ok)
	assert.Equal(t, float32(0.2), c.Y())
	assert.Equal(t, NodeKindScene, s.Kind())
}
