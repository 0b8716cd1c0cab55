package metadata

/** @brief Which faces of a primitive are rendered. */
type Side int

const (
	SideFront Side = iota
	SideBack
	SideDouble
)

/** @brief Blending presets. Custom reads the explicit equation and factors. */
type BlendMode int

const (
	// BlendModeUndefined never matches a requested mode, so the first
	// request always reaches the device.
	BlendModeUndefined BlendMode = iota - 1
	BlendModeNone
	BlendModeNormal
	BlendModeAdditive
	BlendModeSubtractive
	BlendModeMultiply
	BlendModeCustom
)

type BlendEquation int

const (
	BlendEquationUndefined BlendEquation = iota - 1
	BlendEquationAdd
	BlendEquationSubtract
	BlendEquationReverseSubtract
	BlendEquationMin
	BlendEquationMax
)

type BlendFactor int

const (
	BlendFactorUndefined BlendFactor = iota - 1
	BlendFactorZero
	BlendFactorOne
	BlendFactorSrcColor
	BlendFactorOneMinusSrcColor
	BlendFactorSrcAlpha
	BlendFactorOneMinusSrcAlpha
	BlendFactorDstAlpha
	BlendFactorOneMinusDstAlpha
	BlendFactorDstColor
	BlendFactorOneMinusDstColor
	BlendFactorSrcAlphaSaturate
)

/** @brief A complete blend description carried by a material. */
type Blend struct {
	Mode     BlendMode
	Equation BlendEquation
	Src      BlendFactor
	Dst      BlendFactor
}

// DefaultBlend is normal alpha blending.
func DefaultBlend() Blend {
	return Blend{
		Mode:     BlendModeNormal,
		Equation: BlendEquationAdd,
		Src:      BlendFactorSrcAlpha,
		Dst:      BlendFactorOneMinusSrcAlpha,
	}
}

/** @brief How environment maps are sampled. */
type Mapping int

const (
	MappingUV Mapping = iota
	MappingCubeReflection
	MappingCubeRefraction
)

/** @brief How a phong material combines its environment map. */
type Operation int

const (
	OperationMultiply Operation = iota
	OperationMix
	OperationAdd
)
