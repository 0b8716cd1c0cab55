package assets

import (
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/spaghettifunk/vista/engine/core"
	"github.com/spaghettifunk/vista/engine/shader"
)

type pendingShader struct {
	vertex   string
	fragment string
}

/**
 * @brief Collects changes to <id>.vert, <id>.frag and <chunk>.glsl files
 * and hands them to a shader library on the render thread.
 */
type ShaderWatcher struct {
	manager *AssetManager

	mutex   sync.Mutex
	pending map[string]*pendingShader
	chunks  map[string]string
}

// NewShaderWatcher subscribes to am. Create it before am.Initialize so the
// files already in the directory are applied on the first frame.
func NewShaderWatcher(am *AssetManager) *ShaderWatcher {
	sw := &ShaderWatcher{
		manager: am,
		pending: make(map[string]*pendingShader),
		chunks:  make(map[string]string),
	}
	am.Subscribe(sw.onAsset)
	return sw
}

func (sw *ShaderWatcher) onAsset(info AssetInfo) {
	if info.Removed {
		return
	}
	name := strings.TrimSuffix(filepath.Base(info.Path), filepath.Ext(info.Path))

	sw.mutex.Lock()
	defer sw.mutex.Unlock()
	switch info.Type {
	case AssetTypeVertexShader, AssetTypeFragmentShader:
		p, ok := sw.pending[name]
		if !ok {
			p = &pendingShader{}
			sw.pending[name] = p
		}
		if info.Type == AssetTypeVertexShader {
			p.vertex = info.Path
		} else {
			p.fragment = info.Path
		}
	case AssetTypeShaderChunk:
		sw.chunks[name] = info.Path
	}
}

// Pending reports how many shader ids and chunks wait for Apply.
func (sw *ShaderWatcher) Pending() int {
	sw.mutex.Lock()
	defer sw.mutex.Unlock()
	return len(sw.pending) + len(sw.chunks)
}

// Apply pushes the queued sources into lib and returns the shader ids whose
// programs must be rebuilt, sorted. Files for unknown ids are skipped.
func (sw *ShaderWatcher) Apply(lib *shader.Library) []string {
	sw.mutex.Lock()
	pending := sw.pending
	chunks := sw.chunks
	sw.pending = make(map[string]*pendingShader)
	sw.chunks = make(map[string]string)
	sw.mutex.Unlock()

	if len(pending) == 0 && len(chunks) == 0 {
		return nil
	}

	changed := map[string]bool{}
	for name, path := range chunks {
		source, ok := sw.load(path)
		if !ok {
			continue
		}
		lib.SetChunk(name, source)
		core.LogInfo("shader chunk `%s` reloaded", name)
		for _, id := range lib.IDs() {
			changed[id] = true
		}
	}

	for id, p := range pending {
		if !lib.Has(id) {
			core.LogWarn("no shader `%s` to reload, ignoring its source files", id)
			continue
		}
		var vs, fs string
		if p.vertex != "" {
			vs, _ = sw.load(p.vertex)
		}
		if p.fragment != "" {
			fs, _ = sw.load(p.fragment)
		}
		if vs == "" && fs == "" {
			continue
		}
		if err := lib.Replace(id, vs, fs); err != nil {
			core.LogError("shader `%s` reload failed: %s", id, err)
			continue
		}
		core.LogInfo("shader `%s` reloaded", id)
		changed[id] = true
	}

	ids := make([]string, 0, len(changed))
	for id := range changed {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

func (sw *ShaderWatcher) load(path string) (string, bool) {
	asset, err := sw.manager.LoadAsset(path)
	if err != nil {
		core.LogWarn("cannot read shader source: %s", err)
		return "", false
	}
	source, ok := asset.(string)
	return source, ok
}
