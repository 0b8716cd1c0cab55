package metadata

type TextureFilter int

const (
	TextureFilterNearest TextureFilter = iota
	TextureFilterLinear
	TextureFilterLinearMipmapLinear
)

type TextureWrap int

const (
	TextureWrapRepeat TextureWrap = iota
	TextureWrapClampToEdge
	TextureWrapMirroredRepeat
)

type TextureFormat int

const (
	TextureFormatRGBA TextureFormat = iota
	TextureFormatRGB
	TextureFormatDepth
)

type TextureTarget int

const (
	TextureTarget2D TextureTarget = iota
	TextureTargetCubeMap
)

/** @brief Buffer binding points. */
type BufferTarget int

const (
	BufferTargetArray BufferTarget = iota
	BufferTargetElementArray
)
