package shader

import (
	"fmt"

	"github.com/spaghettifunk/vista/engine/renderer/metadata"
)

// ProgramParameters selects a program variant. It is comparable: two
// parameter sets select the same program exactly when they are ==.
type ProgramParameters struct {
	Precision              metadata.Precision
	SupportsVertexTextures bool
	OutputEncoding         metadata.Encoding
	GammaFactor            float32

	Map            bool
	MapEncoding    metadata.Encoding
	EnvMap         bool
	EnvMapMode     metadata.Mapping
	EnvMapEncoding metadata.Encoding
	EnvMapCombine  metadata.Operation

	VertexColors    bool
	FlatShading     bool
	SizeAttenuation bool

	Skinning     bool
	MaxBones     int
	MorphTargets bool
	MorphNormals bool

	PhysicallyCorrectLights bool
	DoubleSided             bool
	FlipSided               bool
	// AlphaTest is the material alpha test scaled to 0..255, 0 disables it.
	AlphaTest uint8

	NumDirLights      int
	NumPointLights    int
	NumClippingPlanes int
}

// Defines renders the parameters as preprocessor lines shared by both stages.
func (p *ProgramParameters) Defines() []string {
	gamma := p.GammaFactor
	if gamma <= 0 {
		gamma = 2.0
	}
	lines := []string{
		fmt.Sprintf("precision %s float;", p.Precision),
		fmt.Sprintf("precision %s int;", p.Precision),
		fmt.Sprintf("#define GAMMA_FACTOR %.4f", gamma),
		fmt.Sprintf("#define OUTPUT_ENCODING %d", p.OutputEncoding),
		fmt.Sprintf("#define MAP_ENCODING %d", p.MapEncoding),
		fmt.Sprintf("#define ENVMAP_ENCODING %d", p.EnvMapEncoding),
		fmt.Sprintf("#define NUM_DIR_LIGHTS %d", p.NumDirLights),
		fmt.Sprintf("#define NUM_POINT_LIGHTS %d", p.NumPointLights),
		fmt.Sprintf("#define NUM_CLIPPING_PLANES %d", p.NumClippingPlanes),
		fmt.Sprintf("#define MAX_BONES %d", p.MaxBones),
	}
	flag := func(on bool, name string) {
		if on {
			lines = append(lines, "#define "+name)
		}
	}
	flag(p.SupportsVertexTextures, "VERTEX_TEXTURES")
	flag(p.Map, "USE_MAP")
	if p.EnvMap {
		lines = append(lines, "#define USE_ENVMAP")
		switch p.EnvMapMode {
		case metadata.MappingCubeRefraction:
			lines = append(lines, "#define ENVMAP_MODE_REFRACTION")
		default:
			lines = append(lines, "#define ENVMAP_MODE_REFLECTION")
		}
		switch p.EnvMapCombine {
		case metadata.OperationMix:
			lines = append(lines, "#define ENVMAP_BLENDING_MIX")
		case metadata.OperationAdd:
			lines = append(lines, "#define ENVMAP_BLENDING_ADD")
		default:
			lines = append(lines, "#define ENVMAP_BLENDING_MULTIPLY")
		}
	}
	flag(p.VertexColors, "USE_COLOR")
	flag(p.FlatShading, "FLAT_SHADED")
	flag(p.SizeAttenuation, "USE_SIZEATTENUATION")
	flag(p.Skinning && p.MaxBones > 0, "USE_SKINNING")
	flag(p.MorphTargets, "USE_MORPHTARGETS")
	flag(p.MorphTargets && p.MorphNormals, "USE_MORPHNORMALS")
	flag(p.PhysicallyCorrectLights, "PHYSICALLY_CORRECT_LIGHTS")
	flag(p.DoubleSided, "DOUBLE_SIDED")
	flag(p.FlipSided, "FLIP_SIDED")
	if p.AlphaTest > 0 {
		lines = append(lines, fmt.Sprintf("#define ALPHATEST %.4f", float32(p.AlphaTest)/255))
	}
	return lines
}
