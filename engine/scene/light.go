package scene

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/spaghettifunk/vista/engine/renderer/metadata"
)

type DirectionalLightUniform struct {
	// Direction points from the target towards the light, in view space.
	Direction mgl32.Vec3
	Color     mgl32.Vec3
}

type PointLightUniform struct {
	// Position is in view space.
	Position mgl32.Vec3
	Color    mgl32.Vec3
	Distance float32
	Decay    float32
}

/** @brief Per-frame aggregation of every light the camera sees. */
type LightSetup struct {
	Ambient     mgl32.Vec3
	Directional []DirectionalLightUniform
	Point       []PointLightUniform
}

func (s *LightSetup) Reset() {
	s.Ambient = mgl32.Vec3{}
	s.Directional = s.Directional[:0]
	s.Point = s.Point[:0]
}

// Hash summarizes the light counts. Programs are built per hash.
func (s *LightSetup) Hash() metadata.LightHash {
	return metadata.LightHash{
		NumDirectional: len(s.Directional),
		NumPoint:       len(s.Point),
	}
}

func (s *LightSetup) Len() int {
	return len(s.Directional) + len(s.Point)
}

// Light nodes add their contribution to the frame's light setup.
type Light interface {
	Node
	Contribute(setup *LightSetup, camera *Camera)
}

type lightBase struct {
	Object

	Color     mgl32.Vec3
	Intensity float32
}

func (l *lightBase) Kind() NodeKind { return NodeKindLight }

func (l *lightBase) radiance() mgl32.Vec3 { return l.Color.Mul(l.Intensity) }

type AmbientLight struct {
	lightBase
}

func NewAmbientLight(color mgl32.Vec3, intensity float32) *AmbientLight {
	l := &AmbientLight{lightBase{Color: color, Intensity: intensity}}
	l.Object = newObject(l)
	return l
}

func (l *AmbientLight) Contribute(setup *LightSetup, camera *Camera) {
	setup.Ambient = setup.Ambient.Add(l.radiance())
}

/** @brief Parallel light shining from its position towards Target. */
type DirectionalLight struct {
	lightBase

	// Target is a world space point.
	Target mgl32.Vec3
}

func NewDirectionalLight(color mgl32.Vec3, intensity float32) *DirectionalLight {
	l := &DirectionalLight{lightBase: lightBase{Color: color, Intensity: intensity}}
	l.Object = newObject(l)
	l.SetPosition(mgl32.Vec3{0, 1, 0})
	return l
}

func (l *DirectionalLight) Contribute(setup *LightSetup, camera *Camera) {
	dir := l.WorldPosition().Sub(l.Target)
	dir = camera.View().Mul4x1(dir.Vec4(0)).Vec3()
	if dir.Len() > 0 {
		dir = dir.Normalize()
	}
	setup.Directional = append(setup.Directional, DirectionalLightUniform{
		Direction: dir,
		Color:     l.radiance(),
	})
}

/** @brief A light radiating from a point. Distance 0 means no cutoff. */
type PointLight struct {
	lightBase

	Distance float32
	Decay    float32
}

func NewPointLight(color mgl32.Vec3, intensity, distance, decay float32) *PointLight {
	l := &PointLight{lightBase: lightBase{Color: color, Intensity: intensity}, Distance: distance, Decay: decay}
	l.Object = newObject(l)
	return l
}

func (l *PointLight) Contribute(setup *LightSetup, camera *Camera) {
	pos := camera.View().Mul4x1(l.WorldPosition().Vec4(1)).Vec3()
	setup.Point = append(setup.Point, PointLightUniform{
		Position: pos,
		Color:    l.radiance(),
		Distance: l.Distance,
		Decay:    l.Decay,
	})
}
