package metadata

/** @brief Determines face culling mode during rendering. */
type FaceCullMode int

const (
	/** @brief No faces are culled. */
	FaceCullModeNone FaceCullMode = 0x0
	/** @brief Only front faces are culled. */
	FaceCullModeFront FaceCullMode = 0x1
	/** @brief Only back faces are culled. */
	FaceCullModeBack FaceCullMode = 0x2
	/** @brief Both front and back faces are culled. */
	FaceCullModeFrontAndBack FaceCullMode = 0x3
)

/** @brief Winding order considered front facing. */
type FrontFace int

const (
	FrontFaceCCW FrontFace = iota
	FrontFaceCW
)

/** @brief Fixed function capabilities toggled with Enable/Disable. */
type Capability int

const (
	CapabilityBlend Capability = iota
	CapabilityDepthTest
	CapabilityCullFace
	CapabilityPolygonOffsetFill
	CapabilityScissorTest
)

type DepthFunc int

const (
	DepthFuncNever DepthFunc = iota
	DepthFuncLess
	DepthFuncEqual
	DepthFuncLessEqual
	DepthFuncGreater
	DepthFuncNotEqual
	DepthFuncGreaterEqual
	DepthFuncAlways
)

/** @brief Primitive topology of a draw call. */
type DrawMode int

const (
	DrawModeTriangles DrawMode = iota
	DrawModeTriangleStrip
	DrawModeTriangleFan
	DrawModeLines
	DrawModeLineStrip
	DrawModePoints
)

func (m DrawMode) String() string {
	switch m {
	case DrawModeTriangles:
		return "triangles"
	case DrawModeTriangleStrip:
		return "triangle-strip"
	case DrawModeTriangleFan:
		return "triangle-fan"
	case DrawModeLines:
		return "lines"
	case DrawModeLineStrip:
		return "line-strip"
	case DrawModePoints:
		return "points"
	}
	return "unknown"
}

/** @brief Buffers cleared by a clear call. */
type ClearFlags uint8

const (
	ClearNone    ClearFlags = 0x0
	ClearColor   ClearFlags = 0x1
	ClearDepth   ClearFlags = 0x2
	ClearStencil ClearFlags = 0x4
)
