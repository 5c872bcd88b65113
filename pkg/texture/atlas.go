package texture

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"

	"golang.org/x/image/bmp"
	"golang.org/x/image/draw"
	"golang.org/x/image/tiff"
	"golang.org/x/sync/errgroup"

	"github.com/deepteams/webp"
	"github.com/mfontaine/pathtrace/pkg/core"
)

// Atlas is the RGBA texture atlas the scene loader packs material textures
// into (spec §6 "scene input"): one flat pixel buffer, with each material's
// channel addressing a sub-rectangle via its Channel.Value (u, v, w, h) in
// normalized [0,1] atlas coordinates.
type Atlas struct {
	Width, Height int
	Pixels        []core.Vec4 // row-major, Pixels[y*Width+x], decoded values scaled to [0,1]; no sRGB-to-linear conversion is applied
}

// NewAtlas allocates an empty atlas of the given size.
func NewAtlas(width, height int) *Atlas {
	return &Atlas{Width: width, Height: height, Pixels: make([]core.Vec4, width*height)}
}

// Sample performs nearest-neighbor lookup of the rectangle `rect` (atlas
// u, v, w, h, all normalized) at the surface UV `uv`, wrapping UVs outside
// [0,1] by fractional part (spec §4.6).
func (a *Atlas) Sample(rect core.Vec4, uv core.Vec2) core.Vec4 {
	wrapped := uv.Fract()
	scaledU := rect.X + wrapped.X*rect.Z
	scaledV := rect.Y + wrapped.Y*rect.W

	x := int(scaledU * float64(a.Width))
	y := int((1 - scaledV) * float64(a.Height))
	if x >= a.Width {
		x = a.Width - 1
	}
	if y >= a.Height {
		y = a.Height - 1
	}
	if x < 0 {
		x = 0
	}
	if y < 0 {
		y = 0
	}
	return a.Pixels[y*a.Width+x]
}

// Packer accumulates decoded material images and bakes them into a single
// Atlas, handing each image a disjoint vertical strip of the final buffer.
type Packer struct {
	width  int
	images []decoded
}

type decoded struct {
	name string
	img  image.Image
}

// NewPacker creates a packer whose atlas will be `width` pixels wide; each
// added image is scaled to that width and stacked vertically.
func NewPacker(width int) *Packer {
	return &Packer{width: width}
}

// DecodeAndAdd decodes an encoded image (PNG, JPEG, BMP, TIFF, or WebP,
// sniffed from the byte signature) and queues it for packing. Returns the
// index to later resolve into an atlas rectangle via Bake.
func (p *Packer) DecodeAndAdd(name string, data []byte) (int, error) {
	img, err := decodeAny(data)
	if err != nil {
		return 0, fmt.Errorf("texture: decode %q: %w", name, err)
	}
	p.images = append(p.images, decoded{name: name, img: img})
	return len(p.images) - 1, nil
}

func decodeAny(data []byte) (image.Image, error) {
	r := bytes.NewReader(data)
	switch {
	case bytes.HasPrefix(data, []byte("\x89PNG")):
		return png.Decode(r)
	case bytes.HasPrefix(data, []byte{0xFF, 0xD8}):
		return jpeg.Decode(r)
	case bytes.HasPrefix(data, []byte("BM")):
		return bmp.Decode(r)
	case bytes.HasPrefix(data, []byte("RIFF")):
		return webp.Decode(r)
	case bytes.HasPrefix(data, []byte("II*\x00")), bytes.HasPrefix(data, []byte("MM\x00*")):
		return tiff.Decode(r)
	default:
		img, _, err := image.Decode(r)
		return img, err
	}
}

// Bake scales and blits every queued image into its strip concurrently (one
// errgroup goroutine per image, with no limit on their number; decoding
// already happened in DecodeAndAdd) and returns the atlas plus each queued
// image's rectangle, in (u, v, w, h) normalized coordinates with v=0 at the
// bottom to match the sampler's convention.
func (p *Packer) Bake(ctx context.Context) (*Atlas, []core.Vec4, error) {
	if len(p.images) == 0 {
		return NewAtlas(1, 1), nil, nil
	}

	heights := make([]int, len(p.images))
	totalHeight := 0
	for i, d := range p.images {
		b := d.img.Bounds()
		scaledH := b.Dy() * p.width / max(b.Dx(), 1)
		if scaledH < 1 {
			scaledH = 1
		}
		heights[i] = scaledH
		totalHeight += scaledH
	}

	canvas := image.NewRGBA(image.Rect(0, 0, p.width, totalHeight))

	g, _ := errgroup.WithContext(ctx)
	offsets := make([]int, len(p.images))
	y := 0
	for i := range p.images {
		offsets[i] = y
		y += heights[i]
	}

	for i := range p.images {
		i := i
		g.Go(func() error {
			dstRect := image.Rect(0, offsets[i], p.width, offsets[i]+heights[i])
			draw.CatmullRom.Scale(canvas, dstRect, p.images[i].img, p.images[i].img.Bounds(), draw.Over, nil)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}

	atlas := NewAtlas(p.width, totalHeight)
	for y := 0; y < totalHeight; y++ {
		for x := 0; x < p.width; x++ {
			r, gC, b, a8 := canvas.At(x, y).RGBA()
			atlas.Pixels[y*p.width+x] = core.NewVec4(
				float64(r)/65535,
				float64(gC)/65535,
				float64(b)/65535,
				float64(a8)/65535,
			)
		}
	}

	rects := make([]core.Vec4, len(p.images))
	for i := range p.images {
		v0 := 1 - float64(offsets[i]+heights[i])/float64(totalHeight)
		h := float64(heights[i]) / float64(totalHeight)
		rects[i] = core.NewVec4(0, v0, 1, h)
	}

	return atlas, rects, nil
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
