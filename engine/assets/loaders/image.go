package loaders

import (
	"bytes"
	"fmt"
	"image"
	"path/filepath"

	// Decoders register themselves with image.Decode.
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"github.com/spaghettifunk/modelview/engine/core"
	"github.com/spaghettifunk/modelview/engine/renderer/metadata"
)

// ImageLoader decodes an image into tightly packed 8-bit pixels. Grayscale
// images keep one channel, opaque images three, everything else four.
type ImageLoader struct{}

func (il *ImageLoader) Load(path string, assetType metadata.ResourceType, params interface{}) (*metadata.Resource, error) {
	p, ok := params.(*metadata.ImageResourceParams)
	if !ok || p == nil {
		p = &metadata.ImageResourceParams{}
	}

	data := p.Source
	if data == nil {
		var err error
		if data, err = readAll(path); err != nil {
			return nil, fmt.Errorf("%w: %s", core.ErrImageDecode, err)
		}
	}

	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %s", core.ErrImageDecode, path, err)
	}

	channels := channelCount(img)
	pixels := packPixels(img, channels, p.FlipY)
	bounds := img.Bounds()
	core.LogDebug("decoded %s image %s (%dx%d, %d channels)", format, path, bounds.Dx(), bounds.Dy(), channels)

	return &metadata.Resource{
		ResourceType: assetType,
		Name:         filepath.Base(path),
		FullPath:     path,
		DataSize:     uint64(len(pixels)),
		Data: &metadata.ImageResourceData{
			ChannelCount: channels,
			Width:        uint32(bounds.Dx()),
			Height:       uint32(bounds.Dy()),
			Pixels:       pixels,
		},
	}, nil
}

func (il *ImageLoader) Unload(res *metadata.Resource) error {
	res.Data = nil
	res.DataSize = 0
	return nil
}

func channelCount(img image.Image) uint8 {
	switch img.(type) {
	case *image.Gray, *image.Gray16:
		return 1
	}
	if o, ok := img.(interface{ Opaque() bool }); ok && o.Opaque() {
		return 3
	}
	return 4
}

// packPixels converts img to rows of channels bytes per pixel, top row first
// unless flipY is set.
func packPixels(img image.Image, channels uint8, flipY bool) []uint8 {
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	rect := image.Rect(0, 0, w, h)

	var src []uint8
	var srcStride, srcChannels int
	if channels == 1 {
		gray := image.NewGray(rect)
		draw.Draw(gray, rect, img, bounds.Min, draw.Src)
		src, srcStride, srcChannels = gray.Pix, gray.Stride, 1
	} else {
		nrgba := image.NewNRGBA(rect)
		draw.Draw(nrgba, rect, img, bounds.Min, draw.Src)
		src, srcStride, srcChannels = nrgba.Pix, nrgba.Stride, 4
	}

	c := int(channels)
	out := make([]uint8, w*h*c)
	for y := 0; y < h; y++ {
		sy := y
		if flipY {
			sy = h - 1 - y
		}
		row := src[sy*srcStride:]
		dst := out[y*w*c:]
		for x := 0; x < w; x++ {
			copy(dst[x*c:x*c+c], row[x*srcChannels:x*srcChannels+c])
		}
	}
	return out
}
