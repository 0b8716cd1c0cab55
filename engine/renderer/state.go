package renderer

import (
	"github.com/chewxy/math32"
	"github.com/spaghettifunk/vista/engine/core"
	"github.com/spaghettifunk/vista/engine/gpu"
	"github.com/spaghettifunk/vista/engine/material"
	"github.com/spaghettifunk/vista/engine/math"
	"github.com/spaghettifunk/vista/engine/renderer/metadata"
	"github.com/spaghettifunk/vista/engine/resources"
	"github.com/spaghettifunk/vista/engine/scene"
	"github.com/spaghettifunk/vista/engine/shader"
)

// toggle is a cached boolean that starts out unknown.
type toggle int8

const (
	toggleUnknown toggle = iota
	toggleOff
	toggleOn
)

func toggleOf(b bool) toggle {
	if b {
		return toggleOn
	}
	return toggleOff
}

/**
 * @brief The pipeline state last issued to the device. A field only changes
 * after the matching call was made, so comparing against it is always sound.
 */
type stateDiff struct {
	device gpu.Device
	info   *core.RenderInfo

	cullFace  toggle
	frontFace metadata.FrontFace

	depthTest  toggle
	depthWrite toggle

	polygonOffset       toggle
	polygonOffsetFactor float32
	polygonOffsetUnits  float32

	lineWidth    float32
	minLineWidth float32
	maxLineWidth float32

	blendMode     metadata.BlendMode
	blendEquation metadata.BlendEquation
	blendSrc      metadata.BlendFactor
	blendDst      metadata.BlendFactor
}

func newStateDiff(dev gpu.Device, info *core.RenderInfo) *stateDiff {
	s := &stateDiff{device: dev, info: info}
	s.reset()
	return s
}

// reset forgets everything, the next request of each kind reaches the device.
func (s *stateDiff) reset() {
	s.cullFace = toggleUnknown
	s.frontFace = metadata.FrontFace(-1)
	s.depthTest = toggleUnknown
	s.depthWrite = toggleUnknown
	s.polygonOffset = toggleUnknown
	s.polygonOffsetFactor = math32.NaN()
	s.polygonOffsetUnits = math32.NaN()
	s.lineWidth = math32.NaN()
	s.blendMode = metadata.BlendModeUndefined
	s.blendEquation = metadata.BlendEquationUndefined
	s.blendSrc = metadata.BlendFactorUndefined
	s.blendDst = metadata.BlendFactorUndefined
}

func (s *stateDiff) changed() {
	if s.info != nil {
		s.info.StateChanges++
	}
}

// setMaterialFaces derives culling and winding from a side mode.
func (s *stateDiff) setMaterialFaces(side metadata.Side) {
	cull := toggleOf(side != metadata.SideDouble)
	if cull != s.cullFace {
		if cull == toggleOn {
			s.device.Enable(metadata.CapabilityCullFace)
		} else {
			s.device.Disable(metadata.CapabilityCullFace)
		}
		s.cullFace = cull
		s.changed()
	}

	front := metadata.FrontFaceCCW
	if side == metadata.SideBack {
		front = metadata.FrontFaceCW
	}
	if front != s.frontFace {
		s.device.FrontFace(front)
		s.frontFace = front
		s.changed()
	}
}

func (s *stateDiff) setDepthTest(on bool) {
	t := toggleOf(on)
	if t == s.depthTest {
		return
	}
	if on {
		s.device.Enable(metadata.CapabilityDepthTest)
	} else {
		s.device.Disable(metadata.CapabilityDepthTest)
	}
	s.depthTest = t
	s.changed()
}

func (s *stateDiff) setDepthWrite(on bool) {
	t := toggleOf(on)
	if t == s.depthWrite {
		return
	}
	s.device.DepthMask(on)
	s.depthWrite = t
	s.changed()
}

// setPolygonOffset only pushes factor and units while the offset is enabled.
func (s *stateDiff) setPolygonOffset(on bool, factor, units float32) {
	t := toggleOf(on)
	if t != s.polygonOffset {
		if on {
			s.device.Enable(metadata.CapabilityPolygonOffsetFill)
		} else {
			s.device.Disable(metadata.CapabilityPolygonOffsetFill)
		}
		s.polygonOffset = t
		s.changed()
	}
	if on && (factor != s.polygonOffsetFactor || units != s.polygonOffsetUnits) {
		s.device.PolygonOffset(factor, units)
		s.polygonOffsetFactor = factor
		s.polygonOffsetUnits = units
		s.changed()
	}
}

// limitLineWidth clamps later widths to what the device draws. A zero max
// leaves widths untouched.
func (s *stateDiff) limitLineWidth(lo, hi float32) {
	s.minLineWidth, s.maxLineWidth = lo, hi
}

func (s *stateDiff) setLineWidth(width float32) {
	if s.maxLineWidth > 0 {
		width = math32.Min(math32.Max(width, s.minLineWidth), s.maxLineWidth)
	}
	if width == s.lineWidth {
		return
	}
	s.device.LineWidth(width)
	s.lineWidth = width
	s.changed()
}

// setBlending expands presets on a mode change. Custom applies the explicit
// equation and factors on change; any other mode forgets them.
func (s *stateDiff) setBlending(b metadata.Blend) {
	if b.Mode != s.blendMode {
		dev := s.device
		switch b.Mode {
		case metadata.BlendModeNone:
			dev.Disable(metadata.CapabilityBlend)
		case metadata.BlendModeNormal:
			dev.Enable(metadata.CapabilityBlend)
			dev.BlendEquationSeparate(metadata.BlendEquationAdd, metadata.BlendEquationAdd)
			dev.BlendFuncSeparate(metadata.BlendFactorSrcAlpha, metadata.BlendFactorOneMinusSrcAlpha,
				metadata.BlendFactorOne, metadata.BlendFactorOneMinusSrcAlpha)
		case metadata.BlendModeAdditive:
			dev.Enable(metadata.CapabilityBlend)
			dev.BlendEquation(metadata.BlendEquationAdd)
			dev.BlendFunc(metadata.BlendFactorSrcAlpha, metadata.BlendFactorOne)
		case metadata.BlendModeSubtractive:
			dev.Enable(metadata.CapabilityBlend)
			dev.BlendEquation(metadata.BlendEquationAdd)
			dev.BlendFunc(metadata.BlendFactorZero, metadata.BlendFactorOneMinusSrcColor)
		case metadata.BlendModeMultiply:
			dev.Enable(metadata.CapabilityBlend)
			dev.BlendEquation(metadata.BlendEquationAdd)
			dev.BlendFunc(metadata.BlendFactorZero, metadata.BlendFactorSrcColor)
		default:
			dev.Enable(metadata.CapabilityBlend)
		}
		s.blendMode = b.Mode
		s.changed()
	}

	if b.Mode != metadata.BlendModeCustom {
		s.blendEquation = metadata.BlendEquationUndefined
		s.blendSrc = metadata.BlendFactorUndefined
		s.blendDst = metadata.BlendFactorUndefined
		return
	}
	if b.Equation != s.blendEquation {
		s.device.BlendEquation(b.Equation)
		s.blendEquation = b.Equation
		s.changed()
	}
	if b.Src != s.blendSrc || b.Dst != s.blendDst {
		s.device.BlendFunc(b.Src, b.Dst)
		s.blendSrc = b.Src
		s.blendDst = b.Dst
		s.changed()
	}
}

// applyMaterial issues every per-material state but blending.
func (s *stateDiff) applyMaterial(base *material.Base) {
	s.setDepthTest(base.DepthTest())
	s.setDepthWrite(base.DepthWrite())
	s.setPolygonOffset(base.PolygonOffset())
	s.setMaterialFaces(base.Side())
}

/**
 * @brief Objects bound on the device. The geometry triple decides whether
 * vertex attributes must be set up again.
 */
type bindings struct {
	program  *shader.Program
	material material.Material
	camera   *scene.Camera

	geometry        *resources.Geometry
	geometryProgram *shader.Program
	wireframe       bool

	framebuffer gpu.Framebuffer
	viewport    math.Rect
}

// resetFrame forgets the per-frame bindings. The program stays bound.
func (b *bindings) resetFrame() {
	b.material = nil
	b.camera = nil
	b.geometry = nil
	b.geometryProgram = nil
	b.wireframe = false
}
