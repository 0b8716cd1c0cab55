package resources

import (
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"os"

	"github.com/google/uuid"
	"github.com/spaghettifunk/vista/engine/gpu"
	"github.com/spaghettifunk/vista/engine/renderer/metadata"
	"golang.org/x/image/draw"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"
)

/**
 * @brief A 2D or cube texture. Pixels are held as RGBA host side and
 * uploaded on first bind or whenever NeedsUpdate is set.
 */
type Texture struct {
	Name   string
	Target metadata.TextureTarget
	Width  int32
	Height int32

	MinFilter       metadata.TextureFilter
	MagFilter       metadata.TextureFilter
	WrapS           metadata.TextureWrap
	WrapT           metadata.TextureWrap
	Anisotropy      float32
	GenerateMipmaps bool
	FlipY           bool
	Encoding        metadata.Encoding
	Mapping         metadata.Mapping
	NeedsUpdate     bool

	// One image for 2D textures, six faces (+x -x +y -y +z -z) for cubes.
	images []*image.RGBA
	handle gpu.Texture
}

func newTexture(target metadata.TextureTarget, images []*image.RGBA) *Texture {
	t := &Texture{
		Name:            uuid.NewString(),
		Target:          target,
		MinFilter:       metadata.TextureFilterLinearMipmapLinear,
		MagFilter:       metadata.TextureFilterLinear,
		WrapS:           metadata.TextureWrapClampToEdge,
		WrapT:           metadata.TextureWrapClampToEdge,
		Anisotropy:      1,
		GenerateMipmaps: true,
		FlipY:           true,
		Mapping:         metadata.MappingUV,
		NeedsUpdate:     true,
		images:          images,
	}
	if len(images) > 0 && images[0] != nil {
		b := images[0].Bounds()
		t.Width, t.Height = int32(b.Dx()), int32(b.Dy())
	}
	return t
}

// NewTexture converts img to RGBA and wraps it in a 2D texture.
func NewTexture(img image.Image) *Texture {
	return newTexture(metadata.TextureTarget2D, []*image.RGBA{toRGBA(img)})
}

// NewCubeTexture builds a cube map from six faces.
func NewCubeTexture(faces [6]image.Image) *Texture {
	images := make([]*image.RGBA, 6)
	for i, f := range faces {
		images[i] = toRGBA(f)
	}
	t := newTexture(metadata.TextureTargetCubeMap, images)
	t.FlipY = false
	t.Mapping = metadata.MappingCubeReflection
	return t
}

// NewEmptyTexture allocates storage without pixels, for render targets.
func NewEmptyTexture(width, height int32) *Texture {
	t := newTexture(metadata.TextureTarget2D, nil)
	t.Width, t.Height = width, height
	t.MinFilter = metadata.TextureFilterLinear
	t.GenerateMipmaps = false
	t.FlipY = false
	return t
}

// LoadTexture decodes a png, jpeg, bmp or webp file.
func LoadTexture(path string) (*Texture, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	img, format, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("failed to decode texture `%s`: %w", path, err)
	}
	t := NewTexture(img)
	t.Name = path
	if format == "jpeg" {
		t.Encoding = metadata.EncodingSRGB
	}
	return t, nil
}

func toRGBA(img image.Image) *image.RGBA {
	if img == nil {
		return nil
	}
	if rgba, ok := img.(*image.RGBA); ok && rgba.Bounds().Min == (image.Point{}) {
		return rgba
	}
	b := img.Bounds()
	rgba := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(rgba, rgba.Bounds(), img, b.Min, draw.Src)
	return rgba
}

func (t *Texture) IsCube() bool { return t.Target == metadata.TextureTargetCubeMap }

func (t *Texture) Handle() gpu.Texture { return t.handle }

// Image returns face i, or nil.
func (t *Texture) Image(i int) *image.RGBA {
	if i < len(t.images) {
		return t.images[i]
	}
	return nil
}

func (t *Texture) SetImage(img image.Image) {
	t.images = []*image.RGBA{toRGBA(img)}
	b := t.images[0].Bounds()
	t.Width, t.Height = int32(b.Dx()), int32(b.Dy())
	t.NeedsUpdate = true
}

func (t *Texture) usesMipmaps() bool {
	return t.GenerateMipmaps && t.MinFilter == metadata.TextureFilterLinearMipmapLinear
}

// Realize creates the texture object and uploads pending pixels. The caller
// has bound the texture unit.
func (t *Texture) Realize(dev gpu.Device) gpu.Texture {
	if t.handle == 0 {
		t.handle = dev.CreateTexture()
		t.NeedsUpdate = true
	}
	dev.BindTexture(t.Target, t.handle)
	if !t.NeedsUpdate {
		return t.handle
	}

	if t.IsCube() {
		for face, img := range t.images {
			dev.TexImage2D(t.Target, face, t.Width, t.Height, metadata.TextureFormatRGBA, t.pixels(img))
		}
	} else {
		var pixels []byte
		if len(t.images) > 0 {
			pixels = t.pixels(t.images[0])
		}
		dev.TexImage2D(t.Target, 0, t.Width, t.Height, metadata.TextureFormatRGBA, pixels)
	}

	anisotropy := t.Anisotropy
	if limit := dev.Capabilities().MaxAnisotropy; anisotropy > limit {
		anisotropy = limit
	}
	dev.TexParameters(t.Target, t.MinFilter, t.MagFilter, t.WrapS, t.WrapT, anisotropy)
	if t.usesMipmaps() {
		dev.GenerateMipmap(t.Target)
	}
	t.NeedsUpdate = false
	return t.handle
}

// Bind makes the texture active on unit, realizing it first when needed.
func (t *Texture) Bind(dev gpu.Device, unit int) {
	dev.ActiveTexture(unit)
	t.Realize(dev)
}

// pixels returns the upload bytes, rows flipped when FlipY is set.
func (t *Texture) pixels(img *image.RGBA) []byte {
	if img == nil {
		return nil
	}
	if !t.FlipY {
		return img.Pix
	}
	h := img.Bounds().Dy()
	out := make([]byte, len(img.Pix))
	for y := 0; y < h; y++ {
		src := img.Pix[y*img.Stride : (y+1)*img.Stride]
		copy(out[(h-1-y)*img.Stride:], src)
	}
	return out
}

// Dispose queues the texture for deletion on ctx.
func (t *Texture) Dispose(ctx gpu.Context) {
	if t.handle == 0 {
		return
	}
	handle := t.handle
	t.handle = 0
	LazyDelete(ctx, func(dev gpu.Device) { dev.DeleteTexture(handle) })
}
