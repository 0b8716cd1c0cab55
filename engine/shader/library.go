package shader

import (
	"embed"
	"fmt"
	"path"
	"sort"
	"strings"
	"sync"

	"github.com/spaghettifunk/vista/engine/core"
)

//go:embed glsl
var builtinFS embed.FS

const maxIncludeDepth = 16

/**
 * @brief Named shader sources with #include <chunk> expansion. Replacing a
 * source bumps its generation so programs built from it can be retired.
 */
type Library struct {
	mutex       sync.RWMutex
	shaders     map[string]*Shader
	chunks      map[string]string
	generations map[string]uint64
}

// NewLibrary loads the built-in shaders and chunks.
func NewLibrary() (*Library, error) {
	l := &Library{
		shaders:     make(map[string]*Shader),
		chunks:      make(map[string]string),
		generations: make(map[string]uint64),
	}

	entries, err := builtinFS.ReadDir("glsl/chunks")
	if err != nil {
		return nil, err
	}
	for _, e := range entries {
		data, err := builtinFS.ReadFile(path.Join("glsl/chunks", e.Name()))
		if err != nil {
			return nil, err
		}
		l.chunks[strings.TrimSuffix(e.Name(), ".glsl")] = string(data)
	}

	for _, id := range []string{ShaderBasic, ShaderPhong, ShaderLine, ShaderSprite, ShaderBackground, ShaderCube} {
		vs, err := builtinFS.ReadFile("glsl/" + id + ".vert")
		if err != nil {
			return nil, err
		}
		fs, err := builtinFS.ReadFile("glsl/" + id + ".frag")
		if err != nil {
			return nil, err
		}
		l.shaders[id] = NewShader(id, string(vs), string(fs), builtinUniforms(id))
	}
	return l, nil
}

// Get returns a private copy of the shader, uniform template included.
func (l *Library) Get(id string) (*Shader, error) {
	l.mutex.RLock()
	defer l.mutex.RUnlock()
	s, ok := l.shaders[id]
	if !ok {
		return nil, fmt.Errorf("%w: `%s`", core.ErrUnknownShader, id)
	}
	return s.Clone(), nil
}

func (l *Library) Has(id string) bool {
	l.mutex.RLock()
	defer l.mutex.RUnlock()
	_, ok := l.shaders[id]
	return ok
}

// IDs returns the registered shader ids sorted.
func (l *Library) IDs() []string {
	l.mutex.RLock()
	defer l.mutex.RUnlock()
	ids := make([]string, 0, len(l.shaders))
	for id := range l.shaders {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Register adds a shader, or replaces the sources of an existing one.
func (l *Library) Register(s *Shader) {
	l.mutex.Lock()
	defer l.mutex.Unlock()
	if old, ok := l.shaders[s.ID]; ok {
		old.VertexSource = s.VertexSource
		old.FragmentSource = s.FragmentSource
		l.generations[s.ID]++
		return
	}
	l.shaders[s.ID] = s.Clone()
}

// Replace swaps one stage source of a known shader. An empty source keeps
// the current one.
func (l *Library) Replace(id, vertexSource, fragmentSource string) error {
	l.mutex.Lock()
	defer l.mutex.Unlock()
	s, ok := l.shaders[id]
	if !ok {
		return fmt.Errorf("%w: `%s`", core.ErrUnknownShader, id)
	}
	if vertexSource != "" {
		s.VertexSource = vertexSource
	}
	if fragmentSource != "" {
		s.FragmentSource = fragmentSource
	}
	l.generations[id]++
	return nil
}

// SetChunk replaces or adds an include chunk. Every shader's generation is
// bumped since any of them may include it.
func (l *Library) SetChunk(name, source string) {
	l.mutex.Lock()
	defer l.mutex.Unlock()
	l.chunks[name] = source
	for id := range l.shaders {
		l.generations[id]++
	}
}

func (l *Library) Generation(id string) uint64 {
	l.mutex.RLock()
	defer l.mutex.RUnlock()
	return l.generations[id]
}

// Expand resolves #include <chunk> lines recursively.
func (l *Library) Expand(source string) (string, error) {
	l.mutex.RLock()
	defer l.mutex.RUnlock()
	return l.expand(source, 0)
}

func (l *Library) expand(source string, depth int) (string, error) {
	if depth > maxIncludeDepth {
		return "", fmt.Errorf("shader include depth exceeded %d", maxIncludeDepth)
	}
	var out strings.Builder
	for _, line := range strings.Split(source, "\n") {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "#include") {
			name := strings.Trim(strings.TrimSpace(strings.TrimPrefix(trimmed, "#include")), "<>\" ")
			chunk, ok := l.chunks[name]
			if !ok {
				return "", fmt.Errorf("unknown shader chunk `%s`", name)
			}
			expanded, err := l.expand(chunk, depth+1)
			if err != nil {
				return "", err
			}
			out.WriteString(expanded)
			continue
		}
		out.WriteString(line)
		out.WriteByte('\n')
	}
	return out.String(), nil
}
