package shader

import (
	"strings"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/spaghettifunk/vista/engine/core"
	"github.com/spaghettifunk/vista/engine/gpu/headless"
	"github.com/spaghettifunk/vista/engine/renderer/metadata"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type unitCounter struct{ next int }

func (u *unitCounter) AllocateTextureUnit() int {
	unit := u.next
	u.next++
	return unit
}

func TestLibraryExpandsIncludes(t *testing.T) {
	lib, err := NewLibrary()
	require.NoError(t, err)

	for _, id := range lib.IDs() {
		s, err := lib.Get(id)
		require.NoError(t, err)
		vs, err := lib.Expand(s.VertexSource)
		require.NoError(t, err, id)
		fs, err := lib.Expand(s.FragmentSource)
		require.NoError(t, err, id)
		assert.NotContains(t, vs, "#include", id)
		assert.NotContains(t, fs, "#include", id)
	}

	_, err = lib.Expand("#include <missing>\n")
	assert.Error(t, err)

	_, err = lib.Get("nope")
	assert.ErrorIs(t, err, core.ErrUnknownShader)
}

func TestLibraryReplaceBumpsGeneration(t *testing.T) {
	lib, err := NewLibrary()
	require.NoError(t, err)
	assert.Zero(t, lib.Generation(ShaderBasic))

	require.NoError(t, lib.Replace(ShaderBasic, "void main() {}\n", ""))
	assert.Equal(t, uint64(1), lib.Generation(ShaderBasic))
	s, _ := lib.Get(ShaderBasic)
	assert.Equal(t, "void main() {}\n", s.VertexSource)
	assert.Contains(t, s.FragmentSource, "diffuseColor")

	assert.ErrorIs(t, lib.Replace("nope", "a", "b"), core.ErrUnknownShader)

	lib.SetChunk("common", "#define PI 3.14\n")
	assert.Equal(t, uint64(2), lib.Generation(ShaderBasic))
	assert.Equal(t, uint64(1), lib.Generation(ShaderPhong))
}

func TestLibraryGetReturnsCopies(t *testing.T) {
	lib, err := NewLibrary()
	require.NoError(t, err)
	a, _ := lib.Get(ShaderPhong)
	b, _ := lib.Get(ShaderPhong)
	a.Uniforms.Get("shininess").SetFloat(5)
	assert.Equal(t, float32(30), b.Uniforms.Get("shininess").Float())
	assert.True(t, a.Uniforms.Has(UniformDirectionalLights))
}

func TestParametersDefines(t *testing.T) {
	p := ProgramParameters{
		Precision:    metadata.PrecisionHigh,
		Skinning:     true,
		MorphNormals: true,
		NumDirLights: 2,
		AlphaTest:    128,
	}
	defines := strings.Join(p.Defines(), "\n")
	assert.Contains(t, defines, "precision highp float;")
	assert.Contains(t, defines, "#define NUM_DIR_LIGHTS 2")
	assert.Contains(t, defines, "#define GAMMA_FACTOR 2.0000")
	assert.Contains(t, defines, "#define ALPHATEST")
	// skinning needs bones, morph normals need morph targets
	assert.NotContains(t, defines, "USE_SKINNING")
	assert.NotContains(t, defines, "USE_MORPHNORMALS")

	q := p
	assert.True(t, p == q)
	q.NumDirLights = 1
	assert.False(t, p == q)
}

func TestUniformsLoadSkipsMissing(t *testing.T) {
	dev := headless.New()
	handle, err := dev.CreateProgram(
		"uniform vec3 diffuse;\nstruct L { vec3 color; };\nuniform L lights[2];\nuniform sampler2D map;\n",
		"uniform float opacity;\n",
	)
	require.NoError(t, err)
	p := NewProgram(1, "test", handle, "test", ProgramParameters{}, dev.ActiveAttributes(handle))

	us := NewUniforms(
		NewUniform("diffuse", UniformTypeVec3).SetVec3(mgl32.Vec3{1, 0, 0}),
		NewUniform("opacity", UniformTypeFloat).SetFloat(0.5),
		NewUniform("emissive", UniformTypeVec3),
		NewUniform("map", UniformTypeTexture),
		NewUniform("lights", UniformTypeStructArray).SetStructs([]UniformStruct{
			{NewUniform("color", UniformTypeVec3)},
			{NewUniform("color", UniformTypeVec3)},
		}),
	)
	us.Get("opacity").NeedsUpdate = false

	units := &unitCounter{}
	us.Load(dev, p, units)

	assert.Equal(t, 3, dev.Count("Uniform3f"))
	assert.Zero(t, dev.Count("Uniform1f"))
	assert.Equal(t, 1, dev.Count("Uniform1i"))
	assert.Equal(t, 1, units.next)

	// cached location lookups
	n := dev.Count("UniformLocation")
	us.Load(dev, p, units)
	assert.Equal(t, n, dev.Count("UniformLocation"))
}

func TestUniformsAddReplacesAndMerge(t *testing.T) {
	us := NewUniforms(NewUniform("a", UniformTypeFloat).SetFloat(1))
	us.Add(NewUniform("a", UniformTypeFloat).SetFloat(2))
	assert.Equal(t, 1, us.Len())
	assert.Equal(t, float32(2), us.Get("a").Float())

	other := NewUniforms(
		NewUniform("a", UniformTypeFloat).SetFloat(9),
		NewUniform("b", UniformTypeInt).SetInt(3),
	)
	us.Merge(other)
	assert.Equal(t, 2, us.Len())
	assert.Equal(t, float32(2), us.Get("a").Float())
	assert.Equal(t, int32(3), us.Get("b").Int())
	assert.Equal(t, "b", us.List()[1].Name)
}
