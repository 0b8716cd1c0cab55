package systems

import (
	"fmt"
	"image"
	"image/color"
	"path/filepath"

	"github.com/spaghettifunk/vista/engine/core"
	"github.com/spaghettifunk/vista/engine/gpu"
	"github.com/spaghettifunk/vista/engine/resources"
)

type TextureSystemConfig struct {
	/** @brief The maximum number of textures that can be loaded at once. */
	MaxTextureCount uint32
	/** @brief Directory relative names are resolved against. */
	AssetBasePath string
}

/**
 * @brief Named texture registry. Acquire returns immediately with a
 * placeholder whose pixels are swapped in once the background decode ends.
 */
type TextureSystem struct {
	Config         *TextureSystemConfig
	DefaultTexture *resources.Texture

	registered map[string]*resources.Texture
	// sub systems
	jobSystem *JobSystem
}

func NewTextureSystem(config *TextureSystemConfig, js *JobSystem) (*TextureSystem, error) {
	if config.MaxTextureCount == 0 {
		err := fmt.Errorf("func NewTextureSystem - config.MaxTextureCount must be > 0")
		core.LogError(err.Error())
		return nil, err
	}
	return &TextureSystem{
		Config:         config,
		DefaultTexture: resources.NewTexture(checkerImage()),
		registered:     make(map[string]*resources.Texture),
		jobSystem:      js,
	}, nil
}

// checkerImage is the 16x16 magenta/white pattern shown while loading.
func checkerImage() image.Image {
	img := image.NewRGBA(image.Rect(0, 0, 16, 16))
	for y := 0; y < 16; y++ {
		for x := 0; x < 16; x++ {
			c := color.RGBA{R: 255, G: 255, B: 255, A: 255}
			if (x/4+y/4)%2 == 0 {
				c = color.RGBA{R: 255, B: 255, A: 255}
			}
			img.SetRGBA(x, y, c)
		}
	}
	return img
}

// Acquire returns the texture registered under name, loading it if needed.
func (ts *TextureSystem) Acquire(name string) *resources.Texture {
	if t, ok := ts.registered[name]; ok {
		return t
	}
	if uint32(len(ts.registered)) >= ts.Config.MaxTextureCount {
		core.LogWarn("TextureSystem - MaxTextureCount (%d) reached, returning default texture for `%s`.", ts.Config.MaxTextureCount, name)
		return ts.DefaultTexture
	}

	t := resources.NewTexture(checkerImage())
	t.Name = name
	ts.registered[name] = t

	path := name
	if !filepath.IsAbs(path) && ts.Config.AssetBasePath != "" {
		path = filepath.Join(ts.Config.AssetBasePath, name)
	}
	ts.jobSystem.AddWorkNonBlocking(JobTask{
		Name: "load texture " + name,
		Run: func() (interface{}, error) {
			return resources.LoadTexture(path)
		},
		OnComplete: func(result interface{}) {
			loaded := result.(*resources.Texture)
			t.SetImage(loaded.Image(0))
			t.Encoding = loaded.Encoding
			core.LogDebug("texture `%s` loaded (%dx%d)", name, t.Width, t.Height)
		},
		OnFailure: func(err error) {
			core.LogWarn("texture `%s` kept its placeholder: %s", name, err)
		},
	})
	return t
}

func (ts *TextureSystem) Has(name string) bool {
	_, ok := ts.registered[name]
	return ok
}

// Release unregisters the texture and queues its deletion on ctx.
func (ts *TextureSystem) Release(ctx gpu.Context, name string) {
	if t, ok := ts.registered[name]; ok {
		delete(ts.registered, name)
		t.Dispose(ctx)
	}
}

func (ts *TextureSystem) Shutdown(ctx gpu.Context) error {
	for name := range ts.registered {
		ts.Release(ctx, name)
	}
	ts.DefaultTexture.Dispose(ctx)
	return nil
}
