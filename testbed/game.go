package testbed

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/spaghettifunk/vista/engine"
	"github.com/spaghettifunk/vista/engine/config"
	"github.com/spaghettifunk/vista/engine/core"
	"github.com/spaghettifunk/vista/engine/material"
	"github.com/spaghettifunk/vista/engine/renderer"
	"github.com/spaghettifunk/vista/engine/resources"
	"github.com/spaghettifunk/vista/engine/scene"
)

type TestGame struct {
	*engine.Game
}

type gameState struct {
	WorldCamera *scene.Camera
	Scene       *scene.Scene

	cubes  []*scene.Mesh
	glass  *scene.Mesh
	sprite *scene.Sprite
	light  *scene.PointLight

	elapsed float64
	width   int32
	height  int32
}

// NewTestGame builds the demo. A nil cfg uses config.Default.
func NewTestGame(cfg *config.Config) *TestGame {
	if cfg == nil {
		cfg = config.Default()
		cfg.Application.Name = "Vista Testbed"
		cfg.Application.StartPosX = 100
		cfg.Application.StartPosY = 100
	}
	tg := &TestGame{
		Game: &engine.Game{
			Config: cfg,
			State:  &gameState{},
		},
	}

	tg.FnInitialize = tg.Initialize
	tg.FnUpdate = tg.Update
	tg.FnRender = tg.Render
	tg.FnOnResize = tg.OnResize
	tg.FnShutdown = tg.Shutdown

	return tg
}

func (g *TestGame) Initialize(e *engine.Engine) error {
	core.LogDebug("TestGame Initialize fn....")

	state := g.State.(*gameState)
	w, h := e.GetFramebufferSize()
	state.width, state.height = w, h

	state.WorldCamera = scene.NewPerspectiveCamera(60, float32(w)/float32(h), 0.1, 200)
	state.WorldCamera.SetPosition(mgl32.Vec3{0, 3, 12})
	state.WorldCamera.LookAt(mgl32.Vec3{0, 0, 0}, mgl32.Vec3{0, 1, 0})

	s := scene.NewScene()
	s.SetBackgroundColor(mgl32.Vec4{0.08, 0.09, 0.12, 1})
	state.Scene = s

	// Three phong cubes, the second and third parented to the one before.
	colors := []mgl32.Vec3{{0.9, 0.3, 0.2}, {0.2, 0.7, 0.3}, {0.2, 0.4, 0.9}}
	sizes := []float32{2, 1.2, 0.6}
	offsets := []mgl32.Vec3{{-3, 0, 0}, {2.5, 0, 0}, {1.5, 0, 0}}
	var parent *scene.Object = &s.Object
	for i := range colors {
		mat := material.NewMeshPhongMaterial()
		mat.SetColor(colors[i])
		mat.SetShininess(40)
		geometry := resources.NewBoxGeometry(sizes[i], sizes[i], sizes[i])
		geometry.ClearGroups()
		cube := scene.NewMesh(geometry, mat)
		cube.Name = "cube"
		cube.SetPosition(offsets[i])
		parent.Add(cube)
		parent = &cube.Object
		state.cubes = append(state.cubes, cube)
	}

	// Wireframe companion of the first cube.
	wire := material.NewMeshBasicMaterial()
	wire.SetColor(mgl32.Vec3{1, 1, 1})
	wire.SetWireframe(true)
	outline := resources.NewBoxGeometry(2.05, 2.05, 2.05)
	outline.ClearGroups()
	state.cubes[0].Add(scene.NewMesh(outline, wire))

	// A transparent plane in front of the cubes.
	glassMat := material.NewMeshBasicMaterial()
	glassMat.SetColor(mgl32.Vec3{0.6, 0.8, 1})
	glassMat.SetTransparent(true)
	glassMat.SetOpacity(0.35)
	state.glass = scene.NewMesh(resources.NewPlaneGeometry(8, 4), glassMat)
	state.glass.SetPosition(mgl32.Vec3{0, 0, 3})
	s.Add(state.glass)

	// Ground grid as line segments.
	s.Add(gridLines(20, 1))

	// A sprite using the texture system, shown as a checker until loaded.
	spriteMat := material.NewSpriteMaterial()
	spriteMat.SetMap(e.SystemManager().TextureSystem().Acquire("textures/sprite.png"))
	state.sprite = scene.NewSprite(spriteMat)
	state.sprite.SetPosition(mgl32.Vec3{0, 3, 0})
	s.Add(state.sprite)

	// Lights
	s.Add(scene.NewAmbientLight(mgl32.Vec3{1, 1, 1}, 0.2))
	sun := scene.NewDirectionalLight(mgl32.Vec3{1, 0.95, 0.9}, 0.8)
	sun.SetPosition(mgl32.Vec3{5, 10, 7})
	s.Add(sun)
	state.light = scene.NewPointLight(mgl32.Vec3{1, 0.6, 0.2}, 1.5, 15, 2)
	s.Add(state.light)

	return nil
}

// gridLines builds a square grid on the XZ plane.
func gridLines(size int, step float32) *scene.LineSegments {
	half := float32(size) * step / 2
	positions := make([]float32, 0, (size+1)*12)
	for i := 0; i <= size; i++ {
		p := -half + float32(i)*step
		positions = append(positions,
			-half, -1.5, p, half, -1.5, p,
			p, -1.5, -half, p, -1.5, half,
		)
	}
	geometry := resources.NewGeometry()
	geometry.SetAttribute(resources.AttributePosition, resources.NewFloatAttribute(positions, 3))
	mat := material.NewLineBasicMaterial()
	mat.SetColor(mgl32.Vec3{0.35, 0.35, 0.4})
	return scene.NewLineSegments(geometry, mat)
}

func (g *TestGame) Update(deltaTime float64) error {
	state := g.State.(*gameState)
	state.elapsed += deltaTime

	// Perform a small rotation on each cube, children inherit their parent's.
	rotation := mgl32.QuatRotate(float32(0.5*deltaTime), mgl32.Vec3{0, 1, 0})
	for _, cube := range state.cubes {
		cube.Rotate(rotation)
	}

	t := float32(state.elapsed)
	state.light.SetPosition(mgl32.Vec3{4 * math32.Cos(t), 2, 4 * math32.Sin(t)})
	return nil
}

func (g *TestGame) Render(r *renderer.Renderer, deltaTime float64) error {
	state := g.State.(*gameState)
	return r.Render(state.Scene, state.WorldCamera)
}

func (g *TestGame) OnResize(width int32, height int32) error {
	state := g.State.(*gameState)
	state.width, state.height = width, height
	if state.WorldCamera != nil && height > 0 {
		state.WorldCamera.SetAspect(float32(width) / float32(height))
	}
	return nil
}

func (g *TestGame) Shutdown() error {
	state := g.State.(*gameState)
	if state.Scene == nil {
		return nil
	}
	var err error
	state.Scene.Traverse(state.Scene, func(n scene.Node) {
		if rerr := n.Base().Release(); rerr != nil && err == nil {
			err = rerr
		}
	})
	state.Scene = nil
	return err
}
