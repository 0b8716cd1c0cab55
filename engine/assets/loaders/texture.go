package loaders

import (
	"github.com/spaghettifunk/vista/engine/resources"
)

// TextureLoader decodes an image file into a texture ready for upload.
type TextureLoader struct{}

func (tl *TextureLoader) Load(path string) (interface{}, error) {
	t, err := resources.LoadTexture(path)
	if err != nil {
		return nil, err
	}
	return t, nil
}

func (tl *TextureLoader) Unload(asset interface{}) error {
	// Device handles are released through Texture.Dispose by the owner.
	return nil
}
