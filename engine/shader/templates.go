package shader

import "github.com/go-gl/mathgl/mgl32"

// Built-in shader ids.
const (
	ShaderBasic      = "basic"
	ShaderPhong      = "phong"
	ShaderLine       = "line"
	ShaderSprite     = "sprite"
	ShaderBackground = "background"
	ShaderCube       = "cube"
)

// Light uniform names. Their needs-update flag follows light refreshes.
const (
	UniformAmbientLightColor = "ambientLightColor"
	UniformDirectionalLights = "directionalLights"
	UniformPointLights       = "pointLights"
	UniformClippingPlanes    = "clippingPlanes"
)

var LightUniformNames = []string{
	UniformAmbientLightColor,
	UniformDirectionalLights,
	UniformPointLights,
}

func commonUniforms() []*Uniform {
	return []*Uniform{
		NewUniform("diffuse", UniformTypeVec3).SetVec3(mgl32.Vec3{1, 1, 1}),
		NewUniform("opacity", UniformTypeFloat).SetFloat(1),
		NewUniform("map", UniformTypeTexture),
	}
}

func envMapUniforms() []*Uniform {
	return []*Uniform{
		NewUniform("envMap", UniformTypeTexture),
		NewUniform("flipEnvMap", UniformTypeFloat).SetFloat(-1),
		NewUniform("reflectivity", UniformTypeFloat).SetFloat(1),
		NewUniform("refractionRatio", UniformTypeFloat).SetFloat(0.98),
	}
}

func lightUniforms() []*Uniform {
	return []*Uniform{
		NewUniform(UniformAmbientLightColor, UniformTypeVec3),
		NewUniform(UniformDirectionalLights, UniformTypeStructArray),
		NewUniform(UniformPointLights, UniformTypeStructArray),
	}
}

func builtinUniforms(id string) *Uniforms {
	var list []*Uniform
	switch id {
	case ShaderBasic:
		list = append(commonUniforms(), envMapUniforms()...)
	case ShaderPhong:
		list = append(commonUniforms(), envMapUniforms()...)
		list = append(list, lightUniforms()...)
		list = append(list,
			NewUniform("emissive", UniformTypeVec3),
			NewUniform("specular", UniformTypeVec3).SetVec3(mgl32.Vec3{0.07, 0.07, 0.07}),
			NewUniform("shininess", UniformTypeFloat).SetFloat(30),
		)
	case ShaderLine:
		list = []*Uniform{
			NewUniform("diffuse", UniformTypeVec3).SetVec3(mgl32.Vec3{1, 1, 1}),
			NewUniform("opacity", UniformTypeFloat).SetFloat(1),
		}
	case ShaderSprite:
		list = append(commonUniforms(),
			NewUniform("rotation", UniformTypeFloat),
			NewUniform("center", UniformTypeVec2).SetVec2(mgl32.Vec2{0.5, 0.5}),
		)
	case ShaderBackground:
		list = []*Uniform{NewUniform("t2D", UniformTypeTexture)}
	case ShaderCube:
		list = []*Uniform{
			NewUniform("tCube", UniformTypeTexture),
			NewUniform("tFlip", UniformTypeFloat).SetFloat(-1),
			NewUniform("opacity", UniformTypeFloat).SetFloat(1),
		}
	}
	return NewUniforms(list...)
}
