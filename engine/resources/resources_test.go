package resources

import (
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/spaghettifunk/vista/engine/gpu"
	"github.com/spaghettifunk/vista/engine/gpu/headless"
	"github.com/spaghettifunk/vista/engine/renderer/metadata"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAttributeRealizeUploadsOnce(t *testing.T) {
	dev := headless.New()
	a := NewFloatAttribute([]float32{0, 0, 0, 1, 1, 1}, 3)
	assert.Equal(t, 2, a.Count())

	b := a.Realize(dev, metadata.BufferTargetArray)
	assert.NotZero(t, b)
	a.Realize(dev, metadata.BufferTargetArray)
	assert.Equal(t, 1, dev.Count("BufferData"))

	a.SetFloats([]float32{1, 2, 3})
	a.Realize(dev, metadata.BufferTargetArray)
	assert.Equal(t, 2, dev.Count("BufferData"))
	assert.Equal(t, 1, dev.Count("CreateBuffer"))
}

func TestWireframeIndexExpandsTriangles(t *testing.T) {
	g := NewGeometry()
	g.SetIndex(NewUint16Attribute([]uint16{0, 1, 2, 2, 1, 3}, 1))
	w := g.WireframeIndex()
	assert.Equal(t, 12, w.Len())
	assert.Equal(t, metadata.ElementTypeUnsignedInt, w.Type())
	assert.Equal(t, []uint32{0, 1, 1, 2, 2, 0}, []uint32{w.Index(0), w.Index(1), w.Index(2), w.Index(3), w.Index(4), w.Index(5)})
	assert.Same(t, w, g.WireframeIndex())

	g.SetIndex(NewUint16Attribute([]uint16{0, 1, 2}, 1))
	assert.Equal(t, 6, g.WireframeIndex().Len())
}

func TestReplacedWireframeIndexIsDeletedOnUpload(t *testing.T) {
	dev := headless.New()
	g := NewGeometry()
	g.SetAttribute(AttributePosition, NewFloatAttribute(make([]float32, 9), 3))
	g.SetIndex(NewUint16Attribute([]uint16{0, 1, 2}, 1))
	g.Upload(dev)
	g.WireframeIndex().Realize(dev, metadata.BufferTargetElementArray)

	g.SetIndex(NewUint16Attribute([]uint16{2, 1, 0}, 1))
	assert.Zero(t, dev.Deleted("buffer"))
	g.Upload(dev)
	assert.Equal(t, 1, dev.Deleted("buffer"))

	// Replacing positions retires the rebuilt index too, Dispose queues it.
	g.WireframeIndex().Realize(dev, metadata.BufferTargetElementArray)
	g.SetAttribute(AttributePosition, NewFloatAttribute(make([]float32, 9), 3))
	ctx := headless.NewContext()
	g.Dispose(ctx)
	FlushDeletes(ctx, dev)
	// The new index and the retired wireframe; the new positions were never uploaded.
	assert.Equal(t, 3, dev.Deleted("buffer"))
}

func TestWireframeIndexNonIndexed(t *testing.T) {
	g := NewGeometry()
	g.SetAttribute(AttributePosition, NewFloatAttribute(make([]float32, 18), 3))
	assert.Equal(t, 12, g.WireframeIndex().Len())
}

func TestBoxGeometry(t *testing.T) {
	g := NewBoxGeometry(2, 2, 2)
	assert.Equal(t, 24, g.Attribute(AttributePosition).Count())
	assert.Equal(t, 36, g.Index().Len())
	require.Len(t, g.Groups(), 6)
	assert.Equal(t, Group{Start: 30, Count: 6, MaterialIndex: 5}, g.Groups()[5])
	assert.Equal(t, DrawRange{Start: 0, Count: -1}, g.DrawRange())

	s := g.BoundingSphere()
	assert.InDelta(t, 1.732, s.Radius, 1e-3)
}

func TestLazyDeleteRunsOnFlush(t *testing.T) {
	ctx := headless.NewContext()
	dev := headless.New()

	g := NewPlaneGeometry(1, 1)
	g.Attribute(AttributePosition).Realize(dev, metadata.BufferTargetArray)
	g.Index().Realize(dev, metadata.BufferTargetElementArray)
	g.Dispose(ctx)

	assert.Equal(t, 2, PendingDeletes(ctx))
	assert.Zero(t, dev.Deleted("buffer"))

	assert.Equal(t, 2, FlushDeletes(ctx, dev))
	assert.Equal(t, 2, dev.Deleted("buffer"))
	assert.Zero(t, FlushDeletes(ctx, dev))

	// other contexts are untouched
	other := headless.NewContext()
	LazyDelete(other, func(gpu.Device) {})
	assert.Zero(t, FlushDeletes(ctx, dev))
	assert.Equal(t, 1, FlushDeletes(other, dev))
}

func TestTextureBindRealizesOnce(t *testing.T) {
	dev := headless.New()
	img := image.NewNRGBA(image.Rect(0, 0, 2, 2))
	img.Set(0, 0, color.NRGBA{R: 255, A: 255})
	tex := NewTexture(img)
	assert.Equal(t, int32(2), tex.Width)
	assert.Equal(t, uint8(255), tex.Image(0).Pix[0])

	tex.Bind(dev, 3)
	tex.Bind(dev, 3)
	assert.Equal(t, 1, dev.Count("TexImage2D"))
	assert.Equal(t, 1, dev.Count("GenerateMipmap"))
	calls := dev.CallsNamed("ActiveTexture")
	require.Len(t, calls, 2)
	assert.Equal(t, 3, calls[0].Args[0])

	// flipped upload moves the red texel to the last row
	assert.Equal(t, uint8(255), tex.pixels(tex.Image(0))[8])
}

func TestLoadTexture(t *testing.T) {
	path := filepath.Join(t.TempDir(), "t.png")
	f, err := os.Create(path)
	require.NoError(t, err)
	require.NoError(t, png.Encode(f, image.NewRGBA(image.Rect(0, 0, 4, 2))))
	require.NoError(t, f.Close())

	tex, err := LoadTexture(path)
	require.NoError(t, err)
	assert.Equal(t, int32(4), tex.Width)
	assert.Equal(t, int32(2), tex.Height)

	_, err = LoadTexture(filepath.Join(t.TempDir(), "missing.png"))
	assert.Error(t, err)
}

func TestRenderTargetRealize(t *testing.T) {
	dev := headless.New()
	rt := NewRenderTarget(64, 32)
	require.NoError(t, rt.Realize(dev))
	assert.NotZero(t, rt.Framebuffer())
	assert.Equal(t, rt.Framebuffer(), dev.Framebuffer())
	assert.Equal(t, 1, dev.Count("RenderbufferStorage"))

	require.NoError(t, rt.Realize(dev))
	assert.Equal(t, 1, dev.Count("CheckFramebufferStatus"))

	rt.SetSize(128, 64)
	require.NoError(t, rt.Realize(dev))
	assert.Equal(t, int32(128), rt.Viewport().Width)
	assert.Equal(t, 2, dev.Count("RenderbufferStorage"))

	ctx := headless.NewContext()
	rt.Dispose(ctx)
	FlushDeletes(ctx, dev)
	assert.Equal(t, 1, dev.Deleted("framebuffer"))
	assert.Equal(t, 1, dev.Deleted("texture"))
}
