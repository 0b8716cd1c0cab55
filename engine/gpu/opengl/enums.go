package opengl

import (
	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/spaghettifunk/vista/engine/renderer/metadata"
)

func capability(c metadata.Capability) uint32 {
	switch c {
	case metadata.CapabilityBlend:
		return gl.BLEND
	case metadata.CapabilityDepthTest:
		return gl.DEPTH_TEST
	case metadata.CapabilityCullFace:
		return gl.CULL_FACE
	case metadata.CapabilityPolygonOffsetFill:
		return gl.POLYGON_OFFSET_FILL
	case metadata.CapabilityScissorTest:
		return gl.SCISSOR_TEST
	}
	return 0
}

func depthFunc(f metadata.DepthFunc) uint32 {
	switch f {
	case metadata.DepthFuncNever:
		return gl.NEVER
	case metadata.DepthFuncLess:
		return gl.LESS
	case metadata.DepthFuncEqual:
		return gl.EQUAL
	case metadata.DepthFuncGreater:
		return gl.GREATER
	case metadata.DepthFuncNotEqual:
		return gl.NOTEQUAL
	case metadata.DepthFuncGreaterEqual:
		return gl.GEQUAL
	case metadata.DepthFuncAlways:
		return gl.ALWAYS
	}
	return gl.LEQUAL
}

func blendEquation(eq metadata.BlendEquation) uint32 {
	switch eq {
	case metadata.BlendEquationSubtract:
		return gl.FUNC_SUBTRACT
	case metadata.BlendEquationReverseSubtract:
		return gl.FUNC_REVERSE_SUBTRACT
	case metadata.BlendEquationMin:
		return gl.MIN
	case metadata.BlendEquationMax:
		return gl.MAX
	}
	return gl.FUNC_ADD
}

func blendFactor(f metadata.BlendFactor) uint32 {
	switch f {
	case metadata.BlendFactorZero:
		return gl.ZERO
	case metadata.BlendFactorOne:
		return gl.ONE
	case metadata.BlendFactorSrcColor:
		return gl.SRC_COLOR
	case metadata.BlendFactorOneMinusSrcColor:
		return gl.ONE_MINUS_SRC_COLOR
	case metadata.BlendFactorSrcAlpha:
		return gl.SRC_ALPHA
	case metadata.BlendFactorOneMinusSrcAlpha:
		return gl.ONE_MINUS_SRC_ALPHA
	case metadata.BlendFactorDstAlpha:
		return gl.DST_ALPHA
	case metadata.BlendFactorOneMinusDstAlpha:
		return gl.ONE_MINUS_DST_ALPHA
	case metadata.BlendFactorDstColor:
		return gl.DST_COLOR
	case metadata.BlendFactorOneMinusDstColor:
		return gl.ONE_MINUS_DST_COLOR
	case metadata.BlendFactorSrcAlphaSaturate:
		return gl.SRC_ALPHA_SATURATE
	}
	return gl.ONE
}

func drawMode(m metadata.DrawMode) uint32 {
	switch m {
	case metadata.DrawModeTriangleStrip:
		return gl.TRIANGLE_STRIP
	case metadata.DrawModeTriangleFan:
		return gl.TRIANGLE_FAN
	case metadata.DrawModeLines:
		return gl.LINES
	case metadata.DrawModeLineStrip:
		return gl.LINE_STRIP
	case metadata.DrawModePoints:
		return gl.POINTS
	}
	return gl.TRIANGLES
}

func elementType(t metadata.ElementType) uint32 {
	switch t {
	case metadata.ElementTypeUnsignedByte:
		return gl.UNSIGNED_BYTE
	case metadata.ElementTypeUnsignedShort:
		return gl.UNSIGNED_SHORT
	case metadata.ElementTypeUnsignedInt:
		return gl.UNSIGNED_INT
	}
	return gl.FLOAT
}

func bufferTarget(t metadata.BufferTarget) uint32 {
	if t == metadata.BufferTargetElementArray {
		return gl.ELEMENT_ARRAY_BUFFER
	}
	return gl.ARRAY_BUFFER
}

func textureTarget(t metadata.TextureTarget) uint32 {
	if t == metadata.TextureTargetCubeMap {
		return gl.TEXTURE_CUBE_MAP
	}
	return gl.TEXTURE_2D
}

func textureFilter(f metadata.TextureFilter) int32 {
	switch f {
	case metadata.TextureFilterNearest:
		return gl.NEAREST
	case metadata.TextureFilterLinearMipmapLinear:
		return gl.LINEAR_MIPMAP_LINEAR
	}
	return gl.LINEAR
}

func textureWrap(w metadata.TextureWrap) int32 {
	switch w {
	case metadata.TextureWrapClampToEdge:
		return gl.CLAMP_TO_EDGE
	case metadata.TextureWrapMirroredRepeat:
		return gl.MIRRORED_REPEAT
	}
	return gl.REPEAT
}

// textureFormat returns internal format, pixel format and pixel type.
func textureFormat(f metadata.TextureFormat) (int32, uint32, uint32) {
	switch f {
	case metadata.TextureFormatRGB:
		return gl.RGB, gl.RGB, gl.UNSIGNED_BYTE
	case metadata.TextureFormatDepth:
		return gl.DEPTH_COMPONENT, gl.DEPTH_COMPONENT, gl.UNSIGNED_INT
	}
	return gl.RGBA, gl.RGBA, gl.UNSIGNED_BYTE
}
