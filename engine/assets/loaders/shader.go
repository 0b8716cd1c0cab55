package loaders

import (
	"fmt"
	"os"
	"strings"
)

// ShaderLoader reads a GLSL stage or chunk as text.
type ShaderLoader struct{}

func (sl *ShaderLoader) Load(path string) (interface{}, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	source := string(data)
	if strings.TrimSpace(source) == "" {
		return nil, fmt.Errorf("shader source `%s` is empty", path)
	}
	return source, nil
}

func (sl *ShaderLoader) Unload(interface{}) error {
	return nil
}
