package renderer

import (
	"bytes"
	"image"
	"math/rand"
	"os"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/spaghettifunk/vista/engine/core"
	"github.com/spaghettifunk/vista/engine/gpu"
	"github.com/spaghettifunk/vista/engine/gpu/headless"
	"github.com/spaghettifunk/vista/engine/material"
	"github.com/spaghettifunk/vista/engine/math"
	"github.com/spaghettifunk/vista/engine/renderer/metadata"
	"github.com/spaghettifunk/vista/engine/resources"
	"github.com/spaghettifunk/vista/engine/scene"
	"github.com/spaghettifunk/vista/engine/shader"
	"github.com/spaghettifunk/vista/engine/systems"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	r        *Renderer
	dev      *headless.Device
	ctx      *headless.Context
	programs *systems.ProgramCache
	scene    *scene.Scene
	camera   *scene.Camera
}

func newFixture(t *testing.T, caps ...gpu.Capabilities) *fixture {
	t.Helper()
	lib, err := shader.NewLibrary()
	require.NoError(t, err)
	dev := headless.New()
	if len(caps) > 0 {
		dev.SetCapabilities(caps[0])
	}
	ctx := headless.NewContext()
	pc, err := systems.NewProgramCache(&systems.ProgramCacheConfig{MaxProgramCount: 64}, ctx, dev, lib)
	require.NoError(t, err)
	r, err := New(DefaultRendererConfig(), ctx, dev, pc)
	require.NoError(t, err)

	camera := scene.NewPerspectiveCamera(60, 1, 0.1, 100)
	camera.SetPosition(mgl32.Vec3{0, 0, 5})
	return &fixture{r: r, dev: dev, ctx: ctx, programs: pc, scene: scene.NewScene(), camera: camera}
}

func (f *fixture) render(t *testing.T) {
	t.Helper()
	require.NoError(t, f.r.Render(f.scene, f.camera))
}

// uniformCalls counts the device calls of kind call that targeted the
// uniform name of program.
func (f *fixture) uniformCalls(program *shader.Program, call, name string) int {
	n := 0
	for _, c := range f.dev.CallsNamed(call) {
		if f.dev.UniformName(program.Handle, c.Args[0].(int32)) == name {
			n++
		}
	}
	return n
}

func box() *resources.Geometry {
	g := resources.NewBoxGeometry(1, 1, 1)
	g.ClearGroups()
	return g
}

func TestRenderListBucketsAreExclusive(t *testing.T) {
	l := NewRenderList()
	l.Init()
	opaque := material.NewMeshBasicMaterial()
	transparent := material.NewMeshBasicMaterial()
	transparent.SetTransparent(true)
	node := scene.NewGroup()

	for i := 0; i < 12; i++ {
		l.UseBackground = i%3 == 0
		mat := material.Material(opaque)
		if i%2 == 0 {
			mat = transparent
		}
		l.Push(node, nil, mat, nil)
	}
	l.UseBackground = false

	seen := make(map[int]int)
	for _, bucket := range [][]int{l.Opaque, l.Transparent, l.Background} {
		for _, i := range bucket {
			seen[i]++
		}
	}
	assert.Len(t, seen, l.Len())
	for i, n := range seen {
		assert.Equal(t, 1, n, "item %d", i)
	}
	assert.Equal(t, []int{0, 3, 6, 9}, l.Background)
	assert.Equal(t, []int{2, 4, 8, 10}, l.Transparent)
	assert.Equal(t, []int{1, 5, 7, 11}, l.Opaque)
}

func TestRenderListSortIsMonotonicAndIdempotent(t *testing.T) {
	l := NewRenderList()
	opaque := material.NewMeshBasicMaterial()
	transparent := material.NewMeshBasicMaterial()
	transparent.SetTransparent(true)
	rng := rand.New(rand.NewSource(7))

	for i := 0; i < 64; i++ {
		l.CurrentZ = float32(rng.Intn(8)) / 8
		mat := material.Material(opaque)
		if i%2 == 1 {
			mat = transparent
		}
		l.Push(scene.NewGroup(), nil, mat, nil)
	}
	l.Sort()
	for i := 1; i < len(l.Opaque); i++ {
		assert.LessOrEqual(t, l.Items[l.Opaque[i-1]].Z, l.Items[l.Opaque[i]].Z)
	}
	for i := 1; i < len(l.Transparent); i++ {
		assert.GreaterOrEqual(t, l.Items[l.Transparent[i-1]].Z, l.Items[l.Transparent[i]].Z)
	}

	opaqueOrder := append([]int(nil), l.Opaque...)
	transparentOrder := append([]int(nil), l.Transparent...)
	l.Sort()
	assert.Equal(t, opaqueOrder, l.Opaque)
	assert.Equal(t, transparentOrder, l.Transparent)
}

func TestComputeDrawRange(t *testing.T) {
	tests := []struct {
		name      string
		dataCount int
		drawRange resources.DrawRange
		group     *resources.Group
		factor    int
		start     int
		count     int
	}{
		{"group inside unbounded range", 300, resources.DrawRange{Start: 0, Count: -1}, &resources.Group{Start: 60, Count: 60}, 1, 60, 60},
		{"user range without group", 300, resources.DrawRange{Start: 50, Count: 50}, nil, 1, 50, 50},
		{"unbounded group", 300, resources.DrawRange{Start: 50, Count: 50}, &resources.Group{Start: 0, Count: -1}, 1, 50, 50},
		{"clamped to data", 30, resources.DrawRange{Start: 20, Count: -1}, nil, 1, 20, 10},
		{"disjoint", 300, resources.DrawRange{Start: 0, Count: 10}, &resources.Group{Start: 100, Count: 10}, 1, 100, 0},
		{"wireframe factor", 12, resources.DrawRange{Start: 0, Count: -1}, &resources.Group{Start: 3, Count: 3}, 2, 6, 6},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			start, count := computeDrawRange(tt.dataCount, tt.drawRange, tt.group, tt.factor)
			assert.Equal(t, tt.count, count)
			if count > 0 {
				assert.Equal(t, tt.start, start)
			}
		})
	}
}

func TestRankMorphInfluences(t *testing.T) {
	assert.Equal(t, []int{1, 3, 0}, rankMorphInfluences([]float32{0.1, 0.9, 0.0, 0.4}, 3))
	assert.Equal(t, []int{1, 3}, rankMorphInfluences([]float32{0.1, 0.9, 0.0, 0.4}, 2))
	assert.Equal(t, []int{1}, rankMorphInfluences([]float32{0, 0.5}, 2))
	assert.Equal(t, []int{0, 1}, rankMorphInfluences([]float32{-0.8, 0.3}, 4))
	assert.Empty(t, rankMorphInfluences(nil, 8))
}

func TestStateDiffIssuesOnlyChanges(t *testing.T) {
	dev := headless.New()
	var info core.RenderInfo
	s := newStateDiff(dev, &info)

	s.setDepthTest(true)
	s.setDepthTest(true)
	assert.Equal(t, 1, dev.Count("Enable"))
	s.setDepthTest(false)
	assert.Equal(t, 1, dev.Count("Disable"))

	s.setMaterialFaces(metadata.SideFront)
	s.setMaterialFaces(metadata.SideFront)
	assert.Equal(t, 1, dev.Count("FrontFace"))
	s.setMaterialFaces(metadata.SideBack)
	assert.Equal(t, 2, dev.Count("FrontFace"))
	assert.Equal(t, []interface{}{metadata.FrontFaceCW}, dev.CallsNamed("FrontFace")[1].Args)
	s.setMaterialFaces(metadata.SideDouble)
	assert.Equal(t, 2, dev.Count("Disable"))

	s.setPolygonOffset(true, 1, 2)
	s.setPolygonOffset(true, 1, 2)
	assert.Equal(t, 1, dev.Count("PolygonOffset"))
	s.setPolygonOffset(true, 2, 2)
	assert.Equal(t, 2, dev.Count("PolygonOffset"))

	s.setLineWidth(2)
	s.setLineWidth(2)
	assert.Equal(t, 1, dev.Count("LineWidth"))

	s.setDepthWrite(false)
	s.setDepthWrite(false)
	assert.Equal(t, 1, dev.Count("DepthMask"))

	assert.Equal(t, uint32(len(dev.Calls())), info.StateChanges)
}

func TestStateDiffCustomBlendIsReappliedAfterPreset(t *testing.T) {
	dev := headless.New()
	s := newStateDiff(dev, nil)
	custom := metadata.Blend{
		Mode:     metadata.BlendModeCustom,
		Equation: metadata.BlendEquationSubtract,
		Src:      metadata.BlendFactorOne,
		Dst:      metadata.BlendFactorOne,
	}

	s.setBlending(custom)
	s.setBlending(custom)
	assert.Equal(t, 1, dev.Count("BlendEquation"))
	assert.Equal(t, 1, dev.Count("BlendFunc"))

	s.setBlending(metadata.Blend{Mode: metadata.BlendModeNone})
	s.setBlending(custom)
	assert.Equal(t, 2, dev.Count("BlendEquation"))
	assert.Equal(t, 2, dev.Count("BlendFunc"))
	assert.Equal(t, []interface{}{metadata.BlendEquationSubtract}, dev.CallsNamed("BlendEquation")[1].Args)
}

func TestRenderDrawsVisibleMeshes(t *testing.T) {
	f := newFixture(t)
	mat := material.NewMeshBasicMaterial()
	a := scene.NewMesh(box(), mat)
	b := scene.NewMesh(box(), mat)
	b.SetPosition(mgl32.Vec3{1, 0, 0})
	hidden := scene.NewMesh(box(), mat)
	hidden.Visible = false
	behind := scene.NewMesh(box(), mat)
	behind.SetPosition(mgl32.Vec3{0, 0, 50})
	f.scene.Add(a, b, hidden, behind)

	f.dev.Reset()
	f.render(t)

	draws := f.dev.CallsNamed("DrawElements")
	require.Len(t, draws, 2)
	assert.Equal(t, []interface{}{metadata.DrawModeTriangles, int32(36), metadata.ElementTypeUnsignedShort, 0}, draws[0].Args)
	assert.Equal(t, 1, f.dev.Count("UseProgram"))

	info := f.r.Info()
	assert.Equal(t, uint32(2), info.DrawCalls)
	assert.Equal(t, uint32(72), info.Vertices)
	assert.Equal(t, uint32(1), info.ProgramBinds)
	assert.Equal(t, uint32(2), info.OpaqueItems)
}

func TestRenderSharesProgramsUntilLightsChange(t *testing.T) {
	f := newFixture(t)
	m1 := material.NewMeshPhongMaterial()
	m2 := material.NewMeshPhongMaterial()
	f.scene.Add(scene.NewMesh(box(), m1), scene.NewMesh(box(), m2))

	f.render(t)
	first := m1.Runtime().Program
	require.NotNil(t, first)
	assert.Same(t, first, m2.Runtime().Program)
	assert.Equal(t, 1, f.dev.Count("CreateProgram"))

	f.render(t)
	assert.Equal(t, 1, f.dev.Count("CreateProgram"))

	f.scene.Add(scene.NewDirectionalLight(mgl32.Vec3{1, 1, 1}, 1))
	f.render(t)
	second := m1.Runtime().Program
	assert.NotSame(t, first, second)
	assert.Same(t, second, m2.Runtime().Program)
	assert.Equal(t, 1, second.Parameters.NumDirLights)
	assert.Equal(t, 2, f.dev.Count("CreateProgram"))
	assert.Equal(t, 1, f.programs.Len())

	f.render(t)
	assert.Equal(t, 1, f.dev.Deleted("program"))
}

func TestRenderPushesProjectionOncePerProgramAndCamera(t *testing.T) {
	f := newFixture(t)
	mat := material.NewMeshBasicMaterial()
	a := scene.NewMesh(box(), mat)
	b := scene.NewMesh(box(), mat)
	b.SetPosition(mgl32.Vec3{1, 0, 0})
	f.scene.Add(a, b)

	f.dev.Reset()
	f.render(t)
	program := mat.Runtime().Program
	require.NotNil(t, program)
	assert.Equal(t, 1, f.uniformCalls(program, "UniformMatrix4fv", "projectionMatrix"))

	// The program stays bound across frames but the camera is pushed again.
	f.dev.Reset()
	f.render(t)
	assert.Zero(t, f.dev.Count("UseProgram"))
	assert.Equal(t, 1, f.uniformCalls(program, "UniformMatrix4fv", "projectionMatrix"))
}

func TestRenderPushesBoneMatricesEveryDraw(t *testing.T) {
	f := newFixture(t)
	bone := scene.NewBone()
	skeleton := scene.NewSkeleton([]*scene.Bone{bone}, nil)
	mat := material.NewMeshBasicMaterial()
	mat.SetSkinning(true)
	a := scene.NewMesh(box(), mat)
	b := scene.NewMesh(box(), mat)
	a.Bind(skeleton, nil)
	b.Bind(skeleton, nil)
	f.scene.Add(bone, a, b)

	f.dev.Reset()
	f.render(t)

	program := mat.Runtime().Program
	require.NotNil(t, program)
	assert.True(t, program.Parameters.Skinning)
	assert.Equal(t, 1, program.Parameters.MaxBones)
	assert.Equal(t, 2, f.dev.Count("DrawElements"))
	assert.Equal(t, 1, f.dev.Count("UseProgram"))
	assert.Equal(t, 2, f.uniformCalls(program, "UniformMatrix4fv", "boneMatrices[0]"))
	assert.Equal(t, 2, f.uniformCalls(program, "UniformMatrix4fv", "bindMatrix"))
}

func TestRenderRebindsAttributesOnlyWhenGeometryChanges(t *testing.T) {
	f := newFixture(t)
	mat := material.NewMeshBasicMaterial()
	shared := box()
	f.scene.Add(scene.NewMesh(shared, mat), scene.NewMesh(shared, mat))

	f.dev.Reset()
	f.render(t)
	once := f.dev.Count("VertexAttribPointer")
	require.NotZero(t, once)

	f.scene.Add(scene.NewMesh(box(), mat))
	f.dev.Reset()
	f.render(t)
	assert.Equal(t, 3, f.dev.Count("DrawElements"))
	assert.Equal(t, 2*once, f.dev.Count("VertexAttribPointer"))
}

// walkedNodes lists the nodes of the last frame's render list.
func (f *fixture) walkedNodes() []scene.Node {
	var nodes []scene.Node
	for _, item := range f.r.list.Items {
		nodes = append(nodes, item.Node)
	}
	return nodes
}

func TestWalkerLayerGatesOnlyTheNodeItself(t *testing.T) {
	f := newFixture(t)
	mat := material.NewMeshBasicMaterial()

	group := scene.NewGroup()
	group.Layers.Set(5)
	inGroup := scene.NewMesh(box(), mat)
	group.Add(inGroup)

	hidden := scene.NewMesh(box(), mat)
	hidden.Layers.Set(5)
	child := scene.NewMesh(box(), mat)
	hidden.Add(child)
	grandchild := scene.NewMesh(box(), mat)
	grandchild.Layers.Set(5)
	child.Add(grandchild)

	f.scene.Add(group, hidden)
	f.render(t)

	assert.ElementsMatch(t, []scene.Node{inGroup, child}, f.walkedNodes())
}

func TestWalkerInvisibleNodeHidesItsSubtree(t *testing.T) {
	f := newFixture(t)
	mat := material.NewMeshBasicMaterial()
	parent := scene.NewMesh(box(), mat)
	parent.Visible = false
	parent.Add(scene.NewMesh(box(), mat))
	light := scene.NewPointLight(mgl32.Vec3{1, 1, 1}, 1, 0, 1)
	parent.Add(light)
	visible := scene.NewMesh(box(), mat)
	f.scene.Add(parent, visible)

	f.render(t)
	assert.Equal(t, []scene.Node{visible}, f.walkedNodes())
	assert.Empty(t, f.r.lights)
}

func TestWalkerSkipsCullingWhenDisabled(t *testing.T) {
	f := newFixture(t)
	mat := material.NewMeshBasicMaterial()
	culled := scene.NewMesh(box(), mat)
	culled.SetPosition(mgl32.Vec3{0, 0, 50})
	kept := scene.NewMesh(box(), mat)
	kept.SetPosition(mgl32.Vec3{0, 0, 50})
	kept.FrustumCulled = false
	f.scene.Add(culled, kept)

	f.render(t)
	assert.Equal(t, []scene.Node{kept}, f.walkedNodes())
}

func TestWalkerDepthKeyOnlyWhenSorting(t *testing.T) {
	f := newFixture(t)
	mat := material.NewMeshBasicMaterial()
	near := scene.NewMesh(box(), mat)
	near.SetPosition(mgl32.Vec3{0, 0, 2})
	far := scene.NewMesh(box(), mat)
	far.SetPosition(mgl32.Vec3{0, 0, -10})
	f.scene.Add(far, near)

	f.render(t)
	require.Len(t, f.r.list.Items, 2)
	assert.Equal(t, []scene.Node{near, far}, []scene.Node{
		f.r.list.Items[f.r.list.Opaque[0]].Node,
		f.r.list.Items[f.r.list.Opaque[1]].Node,
	})
	assert.NotZero(t, f.r.list.Items[0].Z)

	f.r.SetSortObjects(false)
	f.render(t)
	require.Len(t, f.r.list.Items, 2)
	for _, item := range f.r.list.Items {
		assert.Zero(t, item.Z)
	}
	assert.Equal(t, []int{0, 1}, f.r.list.Opaque)
}

func TestRenderBindsVertexArrayBeforeDrawing(t *testing.T) {
	f := newFixture(t)
	f.scene.Add(scene.NewMesh(box(), material.NewMeshBasicMaterial()))
	f.render(t)

	calls := f.dev.Calls()
	bind, draw := -1, -1
	for i, c := range calls {
		if c.Name == "BindVertexArray" && bind < 0 {
			bind = i
		}
		if c.Name == "DrawElements" && draw < 0 {
			draw = i
		}
	}
	require.GreaterOrEqual(t, bind, 0)
	require.GreaterOrEqual(t, draw, 0)
	assert.Less(t, bind, draw)
	assert.Equal(t, 1, f.dev.Count("CreateVertexArray"))
	vao := f.dev.CallsNamed("CreateVertexArray")[0].Args[0]
	assert.Equal(t, vao, calls[bind].Args[0])

	f.dev.Reset()
	f.r.ResetState()
	assert.Equal(t, []interface{}{vao}, f.dev.CallsNamed("BindVertexArray")[0].Args)

	require.NoError(t, f.r.Shutdown())
	assert.Equal(t, 1, f.dev.Deleted("vertexarray"))
}

func TestSpriteQuadBelongsToEachRenderer(t *testing.T) {
	first, second := newFixture(t), newFixture(t)
	first.scene.Add(scene.NewSprite(nil))
	second.scene.Add(scene.NewSprite(nil))

	first.render(t)
	second.render(t)

	require.Equal(t, 1, second.dev.Count("DrawElements"))
	assert.NotZero(t, second.dev.Count("CreateBuffer"))
	assert.NotSame(t, first.r.list.SpriteGeometry(), second.r.list.SpriteGeometry())

	created := first.dev.Count("CreateBuffer")
	require.NoError(t, first.r.Shutdown())
	assert.Equal(t, created, first.dev.Deleted("buffer"))
	assert.Zero(t, second.dev.Deleted("buffer"))
}

func TestRenderClampsLineWidthToDevice(t *testing.T) {
	caps := headless.New().Capabilities()
	caps.MinLineWidth, caps.MaxLineWidth = 1, 1
	f := newFixture(t, caps)
	g := resources.NewGeometry()
	g.SetAttribute(resources.AttributePosition, resources.NewFloatAttribute([]float32{0, 0, 0, 1, 0, 0}, 3))
	line := material.NewLineBasicMaterial()
	line.SetLineWidth(4)
	f.scene.Add(scene.NewLineSegments(g, line))

	f.dev.Reset()
	f.render(t)
	for _, c := range f.dev.CallsNamed("LineWidth") {
		assert.Equal(t, []interface{}{float32(1)}, c.Args)
	}
	assert.Equal(t, 1, f.dev.Count("DrawArrays"))
}

func TestSettersRequireCurrentContext(t *testing.T) {
	f := newFixture(t)
	f.ctx.Release()
	setters := map[string]func(){
		"SetSize":             func() { f.r.SetSize(10, 10) },
		"SetAutoClear":        func() { f.r.SetAutoClear(false) },
		"SetAutoClearColor":   func() { f.r.SetAutoClearColor(false) },
		"SetAutoClearDepth":   func() { f.r.SetAutoClearDepth(false) },
		"SetAutoClearStencil": func() { f.r.SetAutoClearStencil(false) },
		"SetGammaFactor":      func() { f.r.SetGammaFactor(1) },
		"SetSortObjects":      func() { f.r.SetSortObjects(false) },
		"SetClippingPlanes":   func() { f.r.SetClippingPlanes(nil) },
		"AddClippingPlane":    func() { f.r.AddClippingPlane(math.Plane{}) },
		"ClearClippingPlanes": func() { f.r.ClearClippingPlanes() },
		"AllocateTextureUnit": func() { f.r.AllocateTextureUnit() },
		"SetShaderReloader":   func() { f.r.SetShaderReloader(nil) },
	}
	for name, set := range setters {
		assert.Panics(t, set, name)
	}
	f.ctx.MakeCurrent()
	assert.NotPanics(t, func() { f.r.SetAutoClear(false) })
}

func TestRenderSkipsEmptyDrawRange(t *testing.T) {
	f := newFixture(t)
	g := box()
	g.SetDrawRange(100, 10)
	f.scene.Add(scene.NewMesh(g, material.NewMeshBasicMaterial()))

	f.render(t)
	assert.Zero(t, f.dev.Count("DrawElements"))
	assert.Zero(t, f.r.Info().DrawCalls)
}

func TestRenderDrawsGroupsWithTheirMaterials(t *testing.T) {
	f := newFixture(t)
	mats := make([]material.Material, 6)
	for i := range mats {
		mats[i] = material.NewMeshBasicMaterial()
	}
	f.scene.Add(scene.NewMesh(resources.NewBoxGeometry(1, 1, 1), mats...))

	f.dev.Reset()
	f.render(t)

	draws := f.dev.CallsNamed("DrawElements")
	require.Len(t, draws, 6)
	for _, d := range draws {
		assert.Equal(t, int32(6), d.Args[1])
	}
}

func TestRenderWireframeUsesLines(t *testing.T) {
	f := newFixture(t)
	mat := material.NewMeshBasicMaterial()
	mat.SetWireframe(true)
	mat.SetWireframeLineWidth(2)
	f.scene.Add(scene.NewMesh(box(), mat))

	f.dev.Reset()
	f.render(t)

	draws := f.dev.CallsNamed("DrawElements")
	require.Len(t, draws, 1)
	assert.Equal(t, metadata.DrawModeLines, draws[0].Args[0])
	assert.Equal(t, int32(72), draws[0].Args[1])
	assert.Equal(t, metadata.ElementTypeUnsignedInt, draws[0].Args[2])
	assert.Equal(t, []interface{}{float32(2)}, f.dev.CallsNamed("LineWidth")[0].Args)
}

func TestRenderLineSegmentsAndSprites(t *testing.T) {
	f := newFixture(t)
	g := resources.NewGeometry()
	g.SetAttribute(resources.AttributePosition, resources.NewFloatAttribute([]float32{0, 0, 0, 1, 0, 0, 0, 1, 0, 1, 1, 0}, 3))
	line := material.NewLineBasicMaterial()
	line.SetLineWidth(3)
	f.scene.Add(scene.NewLineSegments(g, line), scene.NewSprite(nil))

	f.dev.Reset()
	f.render(t)

	arrays := f.dev.CallsNamed("DrawArrays")
	require.Len(t, arrays, 1)
	assert.Equal(t, []interface{}{metadata.DrawModeLines, int32(0), int32(4)}, arrays[0].Args)
	assert.Equal(t, []interface{}{float32(3)}, f.dev.CallsNamed("LineWidth")[0].Args)

	elements := f.dev.CallsNamed("DrawElements")
	require.Len(t, elements, 1)
	assert.Equal(t, metadata.DrawModeTriangles, elements[0].Args[0])
	assert.Equal(t, int32(6), elements[0].Args[1])
}

func TestRenderLoadsDefaultsForMissingAttributes(t *testing.T) {
	f := newFixture(t)
	mat := material.NewMeshBasicMaterial()
	mat.SetVertexColors(true)
	f.scene.Add(scene.NewMesh(box(), mat))

	f.dev.Reset()
	f.render(t)

	loc, ok := mat.Runtime().Program.AttributeLocation(resources.AttributeColor)
	require.True(t, ok)
	var found bool
	for _, c := range f.dev.CallsNamed("VertexAttrib4f") {
		if c.Args[0] == uint32(loc) {
			found = true
			assert.Equal(t, []interface{}{float32(1), float32(1), float32(1), float32(1)}, c.Args[1:])
		}
	}
	assert.True(t, found)
}

func TestRenderBindsRankedMorphTargets(t *testing.T) {
	f := newFixture(t)
	g := resources.NewPlaneGeometry(1, 1)
	targets := make([]*resources.Attribute, 4)
	for i := range targets {
		targets[i] = resources.NewFloatAttribute(make([]float32, 12), 3)
	}
	g.SetMorphAttributes(resources.AttributePosition, targets)

	mat := material.NewMeshBasicMaterial()
	mat.SetMorphTargets(true)
	mesh := scene.NewMesh(g, mat)
	copy(mesh.MorphTargetInfluences, []float32{0.1, 0.9, 0.0, 0.4})
	f.scene.Add(mesh)

	f.dev.Reset()
	f.render(t)

	assert.Equal(t, material.MaxMorphTargets, mat.Mesh().NumSupportedMorphTargets)
	assert.Same(t, targets[1], f.r.morphBindings["morphTarget0"])
	assert.Same(t, targets[3], f.r.morphBindings["morphTarget1"])
	assert.Same(t, targets[0], f.r.morphBindings["morphTarget2"])
	assert.NotContains(t, f.r.morphBindings, "morphTarget3")

	program := mat.Runtime().Program
	var influences []float32
	for _, c := range f.dev.CallsNamed("Uniform1fv") {
		if f.dev.UniformName(program.Handle, c.Args[0].(int32)) == morphInfluencesUniform {
			influences = c.Args[1].([]float32)
		}
	}
	assert.Equal(t, []float32{0.9, 0.4, 0.1, 0, 0, 0, 0, 0}, influences)
}

func TestRenderPanicsWithoutCurrentContext(t *testing.T) {
	f := newFixture(t)
	f.ctx.Release()
	assert.Panics(t, func() { _ = f.r.Render(f.scene, f.camera) })
	f.ctx.MakeCurrent()
	assert.NotPanics(t, func() { _ = f.r.Render(f.scene, f.camera) })
}

func TestRenderBackgroundColorForcesClear(t *testing.T) {
	f := newFixture(t)
	f.r.SetAutoClear(false)

	f.dev.Reset()
	f.render(t)
	assert.Zero(t, f.dev.Count("Clear"))

	f.scene.SetBackgroundColor(mgl32.Vec4{1, 0, 0, 1})
	f.render(t)
	assert.Equal(t, []interface{}{float32(1), float32(0), float32(0), float32(1)}, f.dev.CallsNamed("ClearColor")[0].Args)
	assert.Equal(t, []interface{}{metadata.ClearColor | metadata.ClearDepth | metadata.ClearStencil}, f.dev.CallsNamed("Clear")[0].Args)

	f.render(t)
	assert.Equal(t, 1, f.dev.Count("ClearColor"))
	assert.Equal(t, 2, f.dev.Count("Clear"))
}

func TestRenderBackgroundTextures(t *testing.T) {
	f := newFixture(t)
	img := image.NewRGBA(image.Rect(0, 0, 2, 2))
	f.scene.BackgroundTexture = resources.NewTexture(img)
	f.scene.Add(scene.NewMesh(box(), material.NewMeshBasicMaterial()))

	f.render(t)
	require.Len(t, f.r.list.Background, 1)
	assert.Same(t, f.r.background.plane, f.r.list.Items[f.r.list.Background[0]].Node)
	assert.Equal(t, uint32(1), f.r.Info().BackgroundItems)
	assert.Equal(t, uint32(2), f.r.Info().DrawCalls)

	f.scene.BackgroundTexture = resources.NewCubeTexture([6]image.Image{img, img, img, img, img, img})
	f.render(t)
	require.Len(t, f.r.list.Background, 1)
	assert.Same(t, f.r.background.box, f.r.list.Items[f.r.list.Background[0]].Node)

	pos := f.r.background.box.WorldPosition()
	assert.InDeltaSlice(t, []float32{0, 0, 5}, pos[:], 1e-5)
}

func TestRenderOverrideMaterialReplacesEveryMaterial(t *testing.T) {
	f := newFixture(t)
	own := material.NewMeshPhongMaterial()
	f.scene.Add(scene.NewMesh(box(), own))
	override := material.NewMeshBasicMaterial()
	f.scene.OverrideMaterial = override

	f.render(t)
	assert.Nil(t, own.Runtime().Program)
	require.NotNil(t, override.Runtime().Program)
	assert.Equal(t, shader.ShaderBasic, override.Runtime().Program.ShaderID)
	assert.Equal(t, 1, f.dev.Count("DrawElements"))
}

func TestRenderPushesClippingPlanes(t *testing.T) {
	f := newFixture(t)
	mat := material.NewMeshBasicMaterial()
	f.scene.Add(scene.NewMesh(box(), mat))
	f.r.SetClippingPlanes([]math.Plane{math.NewPlane(mgl32.Vec3{0, 1, 0}, 0)})

	f.dev.Reset()
	f.render(t)
	program := mat.Runtime().Program
	assert.Equal(t, 1, program.Parameters.NumClippingPlanes)
	var pushed []float32
	for _, c := range f.dev.CallsNamed("Uniform4fv") {
		if f.dev.UniformName(program.Handle, c.Args[0].(int32)) == "clippingPlanes[0]" {
			pushed = c.Args[1].([]float32)
		}
	}
	assert.InDeltaSlice(t, []float32{0, 1, 0, 0}, pushed, 1e-5)

	f.r.ClearClippingPlanes()
	f.render(t)
	assert.True(t, f.r.clipping.enabled)
	assert.Zero(t, mat.Runtime().Program.Parameters.NumClippingPlanes)
	f.render(t)
	assert.False(t, f.r.clipping.enabled)
}

func TestSetRenderTargetBindsFramebufferAndViewport(t *testing.T) {
	f := newFixture(t)
	rt := resources.NewRenderTarget(64, 32)
	require.NoError(t, f.r.SetRenderTarget(rt))
	f.render(t)

	binds := f.dev.CallsNamed("BindFramebuffer")
	assert.Equal(t, []interface{}{rt.Framebuffer()}, binds[len(binds)-1].Args)
	viewports := f.dev.CallsNamed("Viewport")
	assert.Equal(t, []interface{}{int32(0), int32(0), int32(64), int32(32)}, viewports[len(viewports)-1].Args)

	require.NoError(t, f.r.SetRenderTarget(nil))
	binds = f.dev.CallsNamed("BindFramebuffer")
	assert.Equal(t, []interface{}{gpu.Framebuffer(0)}, binds[len(binds)-1].Args)
	w, h := f.r.Size()
	viewports = f.dev.CallsNamed("Viewport")
	assert.Equal(t, []interface{}{int32(0), int32(0), w, h}, viewports[len(viewports)-1].Args)
}

func TestAllocateTextureUnitWarnsPastDeviceLimit(t *testing.T) {
	var buf bytes.Buffer
	core.SetLogOutput(&buf)
	defer core.SetLogOutput(os.Stderr)

	f := newFixture(t, gpu.Capabilities{MaxTextures: 2})
	assert.Equal(t, 0, f.r.AllocateTextureUnit())
	assert.Equal(t, 1, f.r.AllocateTextureUnit())
	assert.NotContains(t, buf.String(), "texture units")
	assert.Equal(t, 2, f.r.AllocateTextureUnit())
	assert.Equal(t, 3, f.r.UsedTextureUnits())
	assert.Contains(t, buf.String(), "texture units")
}

type reloader struct {
	ids []string
}

func (rl *reloader) Apply(lib *shader.Library) []string {
	ids := rl.ids
	rl.ids = nil
	for _, id := range ids {
		s, err := lib.Get(id)
		if err != nil {
			continue
		}
		_ = lib.Replace(id, s.VertexSource+"\n// edited\n", "")
	}
	return ids
}

func TestRenderRebuildsReloadedShaders(t *testing.T) {
	f := newFixture(t)
	mat := material.NewMeshBasicMaterial()
	f.scene.Add(scene.NewMesh(box(), mat))
	f.render(t)
	before := mat.Runtime().Program

	rl := &reloader{ids: []string{shader.ShaderBasic}}
	f.r.SetShaderReloader(rl)
	f.render(t)

	after := mat.Runtime().Program
	assert.NotSame(t, before, after)
	assert.Equal(t, 2, f.dev.Count("CreateProgram"))
	assert.Equal(t, uint64(1), after.Generation)

	// The replaced program outlives the frame that dropped it.
	assert.Zero(t, f.dev.Deleted("program"))
	rl.ids = nil
	f.render(t)
	assert.Equal(t, 1, f.dev.Deleted("program"))
}

func TestResetStateReissuesDefaults(t *testing.T) {
	f := newFixture(t)
	f.scene.Add(scene.NewMesh(box(), material.NewMeshBasicMaterial()))
	f.render(t)

	f.dev.Reset()
	f.r.ResetState()
	assert.Equal(t, []interface{}{metadata.DepthFuncLessEqual}, f.dev.CallsNamed("DepthFunc")[0].Args)

	f.render(t)
	assert.Equal(t, 1, f.dev.Count("UseProgram"))
}
