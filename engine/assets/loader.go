package assets

/** @brief Kind of file the asset manager indexes, derived from its extension. */
type AssetType uint8

const (
	AssetTypeNone AssetType = iota
	AssetTypeVertexShader
	AssetTypeFragmentShader
	AssetTypeShaderChunk
	AssetTypeImage
)

func (t AssetType) String() string {
	switch t {
	case AssetTypeVertexShader:
		return "vertex shader"
	case AssetTypeFragmentShader:
		return "fragment shader"
	case AssetTypeShaderChunk:
		return "shader chunk"
	case AssetTypeImage:
		return "image"
	}
	return "none"
}

type Loader interface {
	Load(path string) (interface{}, error) // `interface{}` here allows loaders to return various asset types
	Unload(asset interface{}) error
}
