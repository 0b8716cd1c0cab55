package renderer

import (
	"sort"

	"github.com/spaghettifunk/vista/engine/core"
	"github.com/spaghettifunk/vista/engine/gpu"
	"github.com/spaghettifunk/vista/engine/material"
	"github.com/spaghettifunk/vista/engine/math"
	"github.com/spaghettifunk/vista/engine/renderer/metadata"
	"github.com/spaghettifunk/vista/engine/resources"
	"github.com/spaghettifunk/vista/engine/scene"
	"github.com/spaghettifunk/vista/engine/shader"
)

const maxVertexAttributes = 32

// vertexAttributes tracks which attribute arrays are enabled on the device.
type vertexAttributes struct {
	enabled [maxVertexAttributes]bool
	used    [maxVertexAttributes]bool
}

func (va *vertexAttributes) begin() {
	va.used = [maxVertexAttributes]bool{}
}

func (va *vertexAttributes) enable(dev gpu.Device, location uint32) {
	if location >= maxVertexAttributes {
		core.LogWarn("vertex attribute location %d exceeds the tracked maximum of %d", location, maxVertexAttributes)
		dev.EnableVertexAttribArray(location)
		return
	}
	va.used[location] = true
	if !va.enabled[location] {
		dev.EnableVertexAttribArray(location)
		va.enabled[location] = true
	}
}

// disableUnused turns off arrays enabled by earlier draws but not this one.
func (va *vertexAttributes) disableUnused(dev gpu.Device) {
	for i := range va.enabled {
		if va.enabled[i] && !va.used[i] {
			dev.DisableVertexAttribArray(uint32(i))
			va.enabled[i] = false
		}
	}
}

func (va *vertexAttributes) reset() {
	*va = vertexAttributes{}
}

// defaultAttributeValues are loaded for attributes a program reads but the
// geometry lacks.
var defaultAttributeValues = map[string][4]float32{
	resources.AttributeColor: {1, 1, 1, 1},
}

// setupVertexAttributes points every attribute the program declares at the
// geometry's buffer, or at a constant when the geometry has no data for it.
func (r *Renderer) setupVertexAttributes(program *shader.Program, geometry *resources.Geometry) {
	dev := r.device
	r.attributes.begin()

	attrs := program.Attributes()
	names := make([]string, 0, len(attrs))
	for name := range attrs {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool { return attrs[names[i]] < attrs[names[j]] })

	for _, name := range names {
		location := uint32(attrs[name])
		a := r.morphBindings[name]
		if a == nil {
			a = geometry.Attribute(name)
		}
		if a != nil && a.Len() > 0 {
			r.attributes.enable(dev, location)
			a.Realize(dev, metadata.BufferTargetArray)
			size := a.Type().Size()
			dev.VertexAttribPointer(location, a.ItemSize, a.Type(), a.Normalized, a.Stride*int32(size), a.Offset*size)
			continue
		}
		v, ok := defaultAttributeValues[name]
		if a != nil {
			v, ok = a.Default, true
		}
		if !ok {
			v = [4]float32{0, 0, 0, 1}
		}
		dev.VertexAttrib4f(location, v[0], v[1], v[2], v[3])
	}
	r.attributes.disableUnused(dev)
}

// computeDrawRange intersects the geometry's draw range, the item's group
// and the available data. Ranges are in index or vertex units and are
// scaled by factor; negative counts are unbounded.
func computeDrawRange(dataCount int, drawRange resources.DrawRange, group *resources.Group, factor int) (start, count int) {
	rangeStart := drawRange.Start * factor
	rangeCount := dataCount
	if drawRange.Count >= 0 {
		rangeCount = drawRange.Count * factor
	}

	groupStart, groupCount := 0, dataCount
	if group != nil {
		groupStart = group.Start * factor
		if group.Count >= 0 {
			groupCount = group.Count * factor
		}
	}

	start = math.Max(rangeStart, groupStart)
	end := math.Min(dataCount, math.Min(rangeStart+rangeCount, groupStart+groupCount))
	count = math.Max(0, end-start)
	return start, count
}

// renderItem resolves the program, rebinds geometry when needed and issues
// the draw call. Empty ranges are skipped.
func (r *Renderer) renderItem(camera *scene.Camera, item *RenderItem, mat material.Material) error {
	if !mat.Common().Visible() {
		return nil
	}
	dev := r.device

	mm, isMesh := mat.(material.MeshMaterial)
	wireframe := isMesh && mm.Mesh().Wireframe()

	program, err := r.setProgram(camera, mat, item.Node)
	if err != nil {
		return err
	}

	geometry := item.Geometry
	updateBuffers := false
	if geometry != r.bound.geometry || program != r.bound.geometryProgram || wireframe != r.bound.wireframe {
		r.bound.geometry = geometry
		r.bound.geometryProgram = program
		r.bound.wireframe = wireframe
		updateBuffers = true
	}

	for name := range r.morphBindings {
		delete(r.morphBindings, name)
	}
	if mesh, ok := item.Node.(*scene.Mesh); ok && isMesh && mm.Mesh().MorphTargets() {
		r.updateMorphTargets(mesh, geometry, mm.Mesh(), program)
		updateBuffers = true
	}

	index := geometry.Index()
	rangeFactor := 1
	if wireframe {
		index = geometry.WireframeIndex()
		rangeFactor = 2
	}

	if updateBuffers {
		r.setupVertexAttributes(program, geometry)
		if index != nil {
			index.Realize(dev, metadata.BufferTargetElementArray)
		}
	}

	dataCount := 0
	if index != nil {
		dataCount = index.Count()
	} else if position := geometry.Attribute(resources.AttributePosition); position != nil {
		dataCount = position.Count()
	}

	start, count := computeDrawRange(dataCount, geometry.DrawRange(), item.Group, rangeFactor)
	if count == 0 {
		return nil
	}

	mode := metadata.DrawModeTriangles
	switch n := item.Node.(type) {
	case *scene.Mesh:
		if wireframe {
			r.state.setLineWidth(mm.Mesh().WireframeLineWidth())
			mode = metadata.DrawModeLines
		} else {
			mode = n.DrawMode
		}
	case *scene.LineSegments:
		width := float32(1)
		if line, ok := mat.(*material.LineBasicMaterial); ok {
			width = line.LineWidth()
		}
		r.state.setLineWidth(width)
		mode = metadata.DrawModeLines
	case *scene.Sprite:
		mode = metadata.DrawModeTriangles
	}

	if index != nil {
		size := index.Type().Size()
		dev.DrawElements(mode, int32(count), index.Type(), (index.Offset+start)*size)
	} else {
		dev.DrawArrays(mode, int32(start), int32(count))
	}
	r.info.DrawCalls++
	r.info.Vertices += uint32(count)
	return nil
}

// renderObjects draws one bucket. override, when set, replaces every
// item's material.
func (r *Renderer) renderObjects(indices []int, camera *scene.Camera, useBlending bool, override material.Material) error {
	view := camera.View()
	for _, i := range indices {
		item := &r.list.Items[i]
		obj := item.Node.Base()
		if obj.BeforeRender != nil {
			obj.BeforeRender(item.Node, camera)
		}
		obj.UpdateModelView(view)

		mat := item.Material
		if override != nil {
			mat = override
		}
		base := mat.Common()
		if useBlending {
			r.state.setBlending(base.Blend())
		}
		r.state.applyMaterial(base)

		if err := r.renderItem(camera, item, mat); err != nil {
			return err
		}
	}
	return nil
}
