package scene

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/spaghettifunk/vista/engine/gpu"
	"github.com/spaghettifunk/vista/engine/material"
	"github.com/spaghettifunk/vista/engine/math"
	"github.com/spaghettifunk/vista/engine/renderer/metadata"
	"github.com/spaghettifunk/vista/engine/resources"
)

// RenderSink receives the surfaces a drawable contributes to a frame.
type RenderSink interface {
	Push(node Node, geometry *resources.Geometry, mat material.Material, group *resources.Group)
	// SpriteGeometry is the quad sprites draw, owned by the sink.
	SpriteGeometry() *resources.Geometry
}

// Drawable nodes are candidates for the render list.
type Drawable interface {
	Node
	// WorldBoundingSphere bounds the node for frustum culling.
	WorldBoundingSphere() math.Sphere
	// Update uploads whatever the node needs on the device before drawing.
	Update(dev gpu.Device)
	FillRenderList(sink RenderSink)
}

/**
 * @brief Triangle geometry drawn with one material, or with one material per
 * geometry group. A mesh bound to a skeleton is a skinned mesh.
 */
type Mesh struct {
	Object

	Geometry  *resources.Geometry
	Materials []material.Material
	DrawMode  metadata.DrawMode
	// MorphTargetInfluences holds one weight per morph position set.
	MorphTargetInfluences []float32

	Skeleton          *Skeleton
	BindMatrix        mgl32.Mat4
	BindMatrixInverse mgl32.Mat4
}

func NewMesh(geometry *resources.Geometry, materials ...material.Material) *Mesh {
	m := &Mesh{
		Geometry:          geometry,
		Materials:         materials,
		DrawMode:          metadata.DrawModeTriangles,
		BindMatrix:        mgl32.Ident4(),
		BindMatrixInverse: mgl32.Ident4(),
	}
	m.Object = newObject(m)
	m.updateMorphTargets()
	return m
}

func (m *Mesh) Kind() NodeKind { return NodeKindMesh }

// Material returns the material at i, or nil when there is none.
func (m *Mesh) Material(i int) material.Material {
	if i < 0 || i >= len(m.Materials) {
		return nil
	}
	return m.Materials[i]
}

func (m *Mesh) IsSkinned() bool { return m.Skeleton != nil }

// Bind attaches a skeleton. The bind matrix defaults to the current world
// matrix of the mesh.
func (m *Mesh) Bind(skeleton *Skeleton, bindMatrix *mgl32.Mat4) {
	m.Skeleton = skeleton
	if bindMatrix == nil {
		m.UpdateMatrixWorld()
		bm := m.world
		bindMatrix = &bm
	}
	m.BindMatrix = *bindMatrix
	m.BindMatrixInverse = bindMatrix.Inv()
}

func (m *Mesh) updateMorphTargets() {
	if m.Geometry == nil {
		return
	}
	n := len(m.Geometry.MorphAttributes(resources.AttributePosition))
	if len(m.MorphTargetInfluences) != n {
		influences := make([]float32, n)
		copy(influences, m.MorphTargetInfluences)
		m.MorphTargetInfluences = influences
	}
}

func (m *Mesh) WorldBoundingSphere() math.Sphere {
	if m.Geometry == nil {
		return math.Sphere{Center: m.WorldPosition()}
	}
	return m.Geometry.BoundingSphere().ApplyMatrix4(m.world)
}

func (m *Mesh) Update(dev gpu.Device) {
	if m.Geometry == nil {
		return
	}
	m.updateMorphTargets()
	m.Geometry.Upload(dev)
}

// FillRenderList pushes one surface per geometry group, or a single surface
// when the geometry has none.
func (m *Mesh) FillRenderList(sink RenderSink) {
	if m.Geometry == nil {
		return
	}
	groups := m.Geometry.Groups()
	if len(groups) == 0 {
		if mat := m.Material(0); mat != nil {
			sink.Push(m, m.Geometry, mat, nil)
		}
		return
	}
	for i := range groups {
		if mat := m.Material(groups[i].MaterialIndex); mat != nil {
			sink.Push(m, m.Geometry, mat, &groups[i])
		}
	}
}

/** @brief Pairs of vertices drawn as independent line segments. */
type LineSegments struct {
	Object

	Geometry *resources.Geometry
	Material material.Material
}

func NewLineSegments(geometry *resources.Geometry, mat material.Material) *LineSegments {
	l := &LineSegments{Geometry: geometry, Material: mat}
	l.Object = newObject(l)
	return l
}

func (l *LineSegments) Kind() NodeKind { return NodeKindLineSegments }

func (l *LineSegments) WorldBoundingSphere() math.Sphere {
	if l.Geometry == nil {
		return math.Sphere{Center: l.WorldPosition()}
	}
	return l.Geometry.BoundingSphere().ApplyMatrix4(l.world)
}

func (l *LineSegments) Update(dev gpu.Device) {
	if l.Geometry != nil {
		l.Geometry.Upload(dev)
	}
}

func (l *LineSegments) FillRenderList(sink RenderSink) {
	if l.Geometry != nil && l.Material != nil {
		sink.Push(l, l.Geometry, l.Material, nil)
	}
}
