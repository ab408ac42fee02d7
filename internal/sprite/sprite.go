// Package sprite renders placeholder pokemon sprites and resizes them for
// delivery.
package sprite

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"

	"github.com/disintegration/imaging"
)

// Size is the edge length of a rendered sprite, matching PokeAPI's front
// sprites.
const Size = 96

// MaxSize bounds the ?size= delivery parameter.
const MaxSize = 512

// IsPNG reports whether data starts with the PNG signature.
func IsPNG(data []byte) bool {
	return len(data) >= 8 && data[0] == 0x89 && data[1] == 0x50 && data[2] == 0x4E && data[3] == 0x47 &&
		data[4] == 0x0D && data[5] == 0x0A && data[6] == 0x1A && data[7] == 0x0A
}

// Render draws a deterministic sprite for the given id: a transparent
// canvas with a body whose color and proportions derive from id.
func Render(id int) ([]byte, error) {
	body := color.NRGBA{
		R: uint8(60 + (id*53)%180),
		G: uint8(60 + (id*97)%180),
		B: uint8(60 + (id*29)%180),
		A: 255,
	}
	w := Size/3 + (id*7)%(Size/3)
	h := Size/3 + (id*11)%(Size/3)

	canvas := imaging.New(Size, Size, color.Transparent)
	shape := imaging.New(w, h, body)
	eye := imaging.New(w/6+1, h/6+1, color.Black)
	shape = imaging.Paste(shape, eye, image.Pt(w/4, h/4))
	canvas = imaging.PasteCenter(canvas, shape)

	return encode(canvas)
}

// Resize decodes a PNG sprite and scales it to size x size. Pixel art is
// scaled with nearest-neighbour sampling so edges stay sharp.
func Resize(src io.Reader, size int) ([]byte, error) {
	if size < 1 || size > MaxSize {
		return nil, fmt.Errorf("size %d out of range [1, %d]", size, MaxSize)
	}

	data, err := io.ReadAll(src)
	if err != nil {
		return nil, fmt.Errorf("reading source: %w", err)
	}
	if !IsPNG(data) {
		return nil, fmt.Errorf("unsupported or unrecognized image format")
	}

	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decoding image: %w", err)
	}
	if img.Bounds().Dx() == size && img.Bounds().Dy() == size {
		return data, nil
	}

	return encode(imaging.Resize(img, size, size, imaging.NearestNeighbor))
}

func encode(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("encoding image: %w", err)
	}
	return buf.Bytes(), nil
}
