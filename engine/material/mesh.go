package material

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/spaghettifunk/vista/engine/renderer/metadata"
	"github.com/spaghettifunk/vista/engine/resources"
	"github.com/spaghettifunk/vista/engine/shader"
)

// Morph slots a program can declare.
const (
	MaxMorphTargets = 8
	MaxMorphNormals = 4
)

/** @brief Options of materials that draw meshes. */
type MeshBase struct {
	base *Base

	wireframe          bool
	wireframeLineWidth float32
	skinning           bool
	morphTargets       bool
	morphNormals       bool

	// Slots the resolved program declares, set by the renderer.
	NumSupportedMorphTargets int
	NumSupportedMorphNormals int
}

func newMeshBase(base *Base) MeshBase {
	return MeshBase{base: base, wireframeLineWidth: 1}
}

func (m *MeshBase) Wireframe() bool { return m.wireframe }

func (m *MeshBase) SetWireframe(wireframe bool) {
	m.wireframe = wireframe
	m.base.needsUpdate = true
}

func (m *MeshBase) WireframeLineWidth() float32 { return m.wireframeLineWidth }

func (m *MeshBase) SetWireframeLineWidth(width float32) {
	m.wireframeLineWidth = width
	m.base.needsUpdate = true
}

func (m *MeshBase) Skinning() bool { return m.skinning }

func (m *MeshBase) SetSkinning(skinning bool) {
	m.skinning = skinning
	m.base.needsUpdate = true
}

func (m *MeshBase) MorphTargets() bool { return m.morphTargets }

func (m *MeshBase) SetMorphTargets(morphTargets bool) {
	m.morphTargets = morphTargets
	m.base.needsUpdate = true
}

func (m *MeshBase) MorphNormals() bool { return m.morphNormals }

func (m *MeshBase) SetMorphNormals(morphNormals bool) {
	m.morphNormals = morphNormals
	m.base.needsUpdate = true
}

// surface holds the color and maps shared by basic and phong.
type surface struct {
	base *Base

	color           mgl32.Vec3
	mapTexture      *resources.Texture
	envMap          *resources.Texture
	combine         metadata.Operation
	reflectivity    float32
	refractionRatio float32
}

func newSurface(base *Base) surface {
	return surface{
		base:            base,
		color:           mgl32.Vec3{1, 1, 1},
		reflectivity:    1,
		refractionRatio: 0.98,
	}
}

func (s *surface) Color() mgl32.Vec3 { return s.color }

func (s *surface) SetColor(color mgl32.Vec3) {
	if s.color == color {
		return
	}
	s.color = color
	s.base.needsUpdate = true
}

func (s *surface) Map() *resources.Texture { return s.mapTexture }

func (s *surface) SetMap(t *resources.Texture) {
	if s.mapTexture == t {
		return
	}
	s.mapTexture = t
	s.base.needsUpdate = true
}

func (s *surface) EnvMap() *resources.Texture { return s.envMap }

func (s *surface) SetEnvMap(t *resources.Texture) {
	if s.envMap == t {
		return
	}
	s.envMap = t
	s.base.needsUpdate = true
}

func (s *surface) Combine() metadata.Operation { return s.combine }

func (s *surface) SetCombine(op metadata.Operation) {
	s.combine = op
	s.base.needsUpdate = true
}

func (s *surface) Reflectivity() float32 { return s.reflectivity }

func (s *surface) SetReflectivity(r float32) {
	s.reflectivity = r
	s.base.needsUpdate = true
}

func (s *surface) RefractionRatio() float32 { return s.refractionRatio }

func (s *surface) SetRefractionRatio(r float32) {
	s.refractionRatio = r
	s.base.needsUpdate = true
}

func (s *surface) setParams(params *shader.ProgramParameters) {
	params.Map = s.mapTexture != nil
	if params.Map {
		params.MapEncoding = s.mapTexture.Encoding
	}
	params.EnvMap = s.envMap != nil
	if params.EnvMap {
		params.EnvMapEncoding = s.envMap.Encoding
		params.EnvMapMode = s.envMap.Mapping
		params.EnvMapCombine = s.combine
	}
}

func (s *surface) setUniforms(uniforms *shader.Uniforms) {
	if u := uniforms.Get("diffuse"); u != nil {
		u.SetVec3(s.color)
	}
	if u := uniforms.Get("map"); u != nil {
		u.SetTexture(s.mapTexture)
	}
	if s.envMap == nil {
		return
	}
	if u := uniforms.Get("envMap"); u != nil {
		u.SetTexture(s.envMap)
	}
	if u := uniforms.Get("flipEnvMap"); u != nil {
		flip := float32(1)
		if s.envMap.IsCube() {
			flip = -1
		}
		u.SetFloat(flip)
	}
	if u := uniforms.Get("reflectivity"); u != nil {
		u.SetFloat(s.reflectivity)
	}
	if u := uniforms.Get("refractionRatio"); u != nil {
		u.SetFloat(s.refractionRatio)
	}
}
