package shader

/** @brief Shader sources plus the uniform template materials clone. */
type Shader struct {
	ID             string
	VertexSource   string
	FragmentSource string
	Uniforms       *Uniforms
}

func NewShader(id, vertexSource, fragmentSource string, uniforms *Uniforms) *Shader {
	if uniforms == nil {
		uniforms = NewUniforms()
	}
	return &Shader{
		ID:             id,
		VertexSource:   vertexSource,
		FragmentSource: fragmentSource,
		Uniforms:       uniforms,
	}
}

func (s *Shader) Clone() *Shader {
	return &Shader{
		ID:             s.ID,
		VertexSource:   s.VertexSource,
		FragmentSource: s.FragmentSource,
		Uniforms:       s.Uniforms.Clone(),
	}
}
