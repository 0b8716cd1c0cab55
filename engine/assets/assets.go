package assets

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spaghettifunk/vista/engine/assets/loaders"
	"github.com/spaghettifunk/vista/engine/core"
)

var errManagerClosed = errors.New("asset manager already closed")

type AssetInfo struct {
	Path       string
	Type       AssetType
	LastLoaded time.Time
	Removed    bool
}

// Listener is called from the watch goroutine whenever an indexed file is
// created, written or removed.
type Listener func(info AssetInfo)

/**
 * @brief Indexes the files under a directory by type, keeps the index current
 * with fsnotify and loads files through the loader registered for their type.
 */
type AssetManager struct {
	assets    map[string]AssetInfo
	loaders   map[AssetType]Loader
	listeners []Listener

	mutex sync.RWMutex

	done     chan struct{}
	stopped  chan struct{}
	fsnotify *fsnotify.Watcher
	started  bool
	isClosed bool
}

func NewAssetManager() (*AssetManager, error) {
	fsWatch, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	am := &AssetManager{
		assets:   make(map[string]AssetInfo),
		loaders:  make(map[AssetType]Loader),
		fsnotify: fsWatch,
		done:     make(chan struct{}),
		stopped:  make(chan struct{}),
	}

	// Register loaders
	shaders := &loaders.ShaderLoader{}
	am.RegisterLoader(AssetTypeVertexShader, shaders)
	am.RegisterLoader(AssetTypeFragmentShader, shaders)
	am.RegisterLoader(AssetTypeShaderChunk, shaders)
	am.RegisterLoader(AssetTypeImage, &loaders.TextureLoader{})
	return am, nil
}

// Initialize indexes assetsDir and starts watching it. Listeners added
// before this call also see the files already present.
func (am *AssetManager) Initialize(assetsDir string) error {
	am.mutex.Lock()
	if am.isClosed {
		am.mutex.Unlock()
		return errManagerClosed
	}
	if !am.started {
		am.started = true
		go am.start()
	}
	am.mutex.Unlock()

	if err := am.watchRecursive(assetsDir); err != nil {
		return err
	}
	core.LogDebug("watching assets in `%s` (%d files indexed)", assetsDir, am.Len())
	return nil
}

// Subscribe registers fn for index changes.
func (am *AssetManager) Subscribe(fn Listener) {
	am.mutex.Lock()
	defer am.mutex.Unlock()
	am.listeners = append(am.listeners, fn)
}

// RegisterLoader sets the loader used for assetType.
func (am *AssetManager) RegisterLoader(assetType AssetType, loader Loader) {
	am.mutex.Lock()
	defer am.mutex.Unlock()
	am.loaders[assetType] = loader
}

// Asset returns the index entry for path.
func (am *AssetManager) Asset(path string) (AssetInfo, bool) {
	am.mutex.RLock()
	defer am.mutex.RUnlock()
	info, ok := am.assets[filepath.Clean(path)]
	return info, ok
}

// Assets returns the indexed paths of one type, sorted.
func (am *AssetManager) Assets(assetType AssetType) []string {
	am.mutex.RLock()
	defer am.mutex.RUnlock()
	paths := []string{}
	for p, info := range am.assets {
		if info.Type == assetType {
			paths = append(paths, p)
		}
	}
	sort.Strings(paths)
	return paths
}

func (am *AssetManager) Len() int {
	am.mutex.RLock()
	defer am.mutex.RUnlock()
	return len(am.assets)
}

// LoadAsset loads an indexed file with the loader registered for its type.
func (am *AssetManager) LoadAsset(path string) (interface{}, error) {
	path = filepath.Clean(path)

	am.mutex.Lock()
	asset, exists := am.assets[path]
	if !exists {
		am.mutex.Unlock()
		return nil, fmt.Errorf("asset not found: %s", path)
	}
	// Load or reload asset from disk if necessary
	asset.LastLoaded = time.Now()
	am.assets[path] = asset // Update the loaded time
	loader, loaderExists := am.loaders[asset.Type]
	am.mutex.Unlock()

	if !loaderExists {
		return nil, fmt.Errorf("no loader registered for asset type: %s", asset.Type)
	}
	return loader.Load(path)
}

func (am *AssetManager) UnloadAsset(path string, asset interface{}) error {
	info, ok := am.Asset(path)
	if !ok {
		return fmt.Errorf("asset not found: %s", path)
	}
	am.mutex.RLock()
	loader, ok := am.loaders[info.Type]
	am.mutex.RUnlock()
	if !ok {
		return fmt.Errorf("no loader registered for asset type: %s", info.Type)
	}
	return loader.Unload(asset)
}

// Shutdown stops the watch goroutine and closes the fsnotify watcher.
func (am *AssetManager) Shutdown() error {
	am.mutex.Lock()
	if am.isClosed {
		am.mutex.Unlock()
		return nil
	}
	am.isClosed = true
	started := am.started
	am.mutex.Unlock()

	if !started {
		return am.fsnotify.Close()
	}
	close(am.done)
	<-am.stopped
	return nil
}

func (am *AssetManager) start() {
	defer close(am.stopped)
	for {
		select {

		case e, ok := <-am.fsnotify.Events:
			if !ok {
				return
			}
			s, err := os.Stat(e.Name)
			if err == nil && s != nil && s.IsDir() {
				if e.Op&fsnotify.Create != 0 {
					if err := am.watchRecursive(e.Name); err != nil {
						core.LogWarn("failed to watch `%s`: %s", e.Name, err)
					}
				}
				continue
			}
			// Handle create or modify events
			if e.Op&(fsnotify.Create|fsnotify.Write) != 0 {
				am.handleFileEvent(e.Name)
			}
			// Editors often save by renaming over the original.
			if e.Op&(fsnotify.Remove|fsnotify.Rename) != 0 {
				am.removeAsset(e.Name)
			}

		case err, ok := <-am.fsnotify.Errors:
			if !ok {
				return
			}
			core.LogError("asset watcher: %s", err)

		case <-am.done:
			am.fsnotify.Close()
			return
		}
	}
}

// watchRecursive adds all directories under the given one to the watch list
// and indexes the files it finds.
func (am *AssetManager) watchRecursive(path string) error {
	return filepath.Walk(path, func(walkPath string, fi os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if fi.IsDir() {
			return am.fsnotify.Add(walkPath)
		}
		am.handleFileEvent(walkPath)
		return nil
	})
}

// Handle the creation or modification of a file
func (am *AssetManager) handleFileEvent(path string) {
	path = filepath.Clean(path)
	assetType := determineAssetType(path)
	if assetType == AssetTypeNone {
		return
	}
	info := AssetInfo{
		Path:       path,
		Type:       assetType,
		LastLoaded: time.Now(),
	}

	am.mutex.Lock()
	am.assets[path] = info
	listeners := am.listeners
	am.mutex.Unlock()

	for _, fn := range listeners {
		fn(info)
	}
}

// Remove the asset from the index if it was deleted
func (am *AssetManager) removeAsset(path string) {
	path = filepath.Clean(path)

	am.mutex.Lock()
	info, ok := am.assets[path]
	delete(am.assets, path)
	listeners := am.listeners
	am.mutex.Unlock()

	if !ok {
		return
	}
	info.Removed = true
	for _, fn := range listeners {
		fn(info)
	}
}

func determineAssetType(path string) AssetType {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".vert":
		return AssetTypeVertexShader
	case ".frag":
		return AssetTypeFragmentShader
	case ".glsl":
		return AssetTypeShaderChunk
	case ".png", ".jpg", ".jpeg", ".bmp", ".webp":
		return AssetTypeImage
	default:
		return AssetTypeNone
	}
}
