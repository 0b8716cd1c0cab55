package metadata

/** @brief Float precision requested from the shader compiler. */
type Precision int

const (
	PrecisionHigh Precision = iota
	PrecisionMedium
	PrecisionLow
)

func (p Precision) String() string {
	switch p {
	case PrecisionMedium:
		return "mediump"
	case PrecisionLow:
		return "lowp"
	}
	return "highp"
}

/** @brief Color encoding of a texture or of the final output. */
type Encoding int

const (
	EncodingLinear Encoding = iota
	EncodingSRGB
	EncodingGamma
)

func (e Encoding) String() string {
	switch e {
	case EncodingSRGB:
		return "sRGB"
	case EncodingGamma:
		return "Gamma"
	}
	return "Linear"
}

/** @brief Component type of vertex and index data. */
type ElementType int

const (
	ElementTypeFloat ElementType = iota
	ElementTypeUnsignedByte
	ElementTypeUnsignedShort
	ElementTypeUnsignedInt
)

// Size returns the byte size of one component.
func (t ElementType) Size() int {
	switch t {
	case ElementTypeUnsignedByte:
		return 1
	case ElementTypeUnsignedShort:
		return 2
	}
	return 4
}

/** @brief Summary of the lights in a frame. Programs are compiled per hash. */
type LightHash struct {
	NumDirectional int
	NumPoint       int
}

// InvalidLightHash never equals a hash produced by a frame.
var InvalidLightHash = LightHash{NumDirectional: -1, NumPoint: -1}
