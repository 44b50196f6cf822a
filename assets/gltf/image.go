package gltf

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/draw"
	_ "image/jpeg" // register JPEG decoder
	_ "image/png"  // register PNG decoder

	_ "golang.org/x/image/bmp" // register BMP decoder
	xdraw "golang.org/x/image/draw"
	_ "golang.org/x/image/webp" // register WebP decoder
)

// ErrInvalidImage is returned when a texture image cannot be decoded.
var ErrInvalidImage = errors.New("gltf: invalid image")

// decodeRGBA decodes an encoded image and converts it to RGBA8. Images
// larger than maxSize on either axis are scaled down to fit, keeping the
// aspect ratio.
func decodeRGBA(data []byte, maxSize int) (*image.RGBA, error) {
	src, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidImage, err)
	}
	b := src.Bounds()
	if b.Empty() {
		return nil, fmt.Errorf("%w: empty %s image", ErrInvalidImage, format)
	}

	w, h := fitSize(b.Dx(), b.Dy(), maxSize)
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	if w == b.Dx() && h == b.Dy() {
		draw.Draw(dst, dst.Bounds(), src, b.Min, draw.Src)
		return dst, nil
	}
	xdraw.CatmullRom.Scale(dst, dst.Bounds(), src, b, xdraw.Src, nil)
	return dst, nil
}

// fitSize scales w x h down so neither side exceeds maxSize.
func fitSize(w, h, maxSize int) (int, int) {
	if maxSize <= 0 || (w <= maxSize && h <= maxSize) {
		return w, h
	}
	if w >= h {
		return maxSize, max(1, h*maxSize/w)
	}
	return max(1, w*maxSize/h), maxSize
}

// imageBytes returns the encoded bytes of image idx.
func imageBytes(doc *document, buffers [][]byte, dir string, idx int) ([]byte, error) {
	if idx < 0 || idx >= len(doc.Images) {
		return nil, fmt.Errorf("%w: image %d does not exist", ErrInvalidDocument, idx)
	}
	img := doc.Images[idx]
	if img.BufferView != nil {
		vi := *img.BufferView
		if vi < 0 || vi >= len(doc.BufferViews) {
			return nil, fmt.Errorf("%w: image %d references bufferView %d", ErrInvalidDocument, idx, vi)
		}
		data, ok := doc.BufferViews[vi].bytes(buffers)
		if !ok {
			return nil, fmt.Errorf("%w: image %d bufferView out of range", ErrInvalidDocument, idx)
		}
		return data, nil
	}
	if img.URI == "" {
		return nil, fmt.Errorf("%w: image %d has neither uri nor bufferView", ErrInvalidDocument, idx)
	}
	return readURI(img.URI, dir)
}
