// Package imagecodec decodes image files into tightly packed pixel
// buffers ready for texture upload.
package imagecodec

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/color"
	"io"
	"os"

	// Registered decoders.
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"github.com/disintegration/imaging"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// ErrUnsupportedMode is returned for color models without a pixel format.
var ErrUnsupportedMode = errors.New("unsupported image color mode")

// Format tags the layout of RawImage pixels.
type Format int

const (
	Luminance Format = iota + 1
	RGB
	RGBA
)

func (f Format) String() string {
	switch f {
	case Luminance:
		return "LUMINANCE"
	case RGB:
		return "RGB"
	case RGBA:
		return "RGBA"
	}
	return fmt.Sprintf("Format(%d)", int(f))
}

// Components is the number of bytes per pixel.
func (f Format) Components() int {
	switch f {
	case Luminance:
		return 1
	case RGB:
		return 3
	case RGBA:
		return 4
	}
	return 0
}

// RawImage is a decoded image. Rows run top to bottom with no padding.
type RawImage struct {
	Width  int
	Height int
	Format Format
	Pixels []byte
}

// Decoder decodes the formats registered with the image package.
type Decoder struct {
	// AutoOrient applies the EXIF orientation of JPEG images.
	AutoOrient bool
}

var extensions = []string{".bmp", ".gif", ".jpeg", ".jpg", ".png", ".tif", ".tiff", ".webp"}

// Extensions lists the file extensions the decoder claims. It is
// informational; Decode sniffs the content.
func (d Decoder) Extensions() []string {
	out := make([]string, len(extensions))
	copy(out, extensions)
	return out
}

// DecodeFile decodes the image at path.
func (d Decoder) DecodeFile(path string) (*RawImage, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return d.Decode(f)
}

// Decode reads an image from r.
func (d Decoder) Decode(r io.Reader) (*RawImage, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read image: %w", err)
	}

	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image header: %w", err)
	}

	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(d.AutoOrient))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}

	format, err := classify(cfg.ColorModel, img)
	if err != nil {
		return nil, err
	}
	return pack(imaging.Clone(img), format), nil
}

// classify picks the pixel format for the source color model. Palettes
// are judged by their entries and RGBA images by their pixels.
func classify(model color.Model, img image.Image) (Format, error) {
	if p, ok := model.(color.Palette); ok {
		for _, c := range p {
			if _, _, _, a := c.RGBA(); a != 0xffff {
				return RGBA, nil
			}
		}
		return RGB, nil
	}

	switch model {
	case color.GrayModel:
		return Luminance, nil
	case color.YCbCrModel:
		return RGB, nil
	case color.RGBAModel, color.RGBA64Model:
		if opaque(img) {
			return RGB, nil
		}
		return RGBA, nil
	case color.NRGBAModel, color.NRGBA64Model, color.NYCbCrAModel:
		return RGBA, nil
	}
	return 0, fmt.Errorf("%w: %T", ErrUnsupportedMode, model)
}

func opaque(img image.Image) bool {
	if o, ok := img.(interface{ Opaque() bool }); ok {
		return o.Opaque()
	}
	return false
}

func pack(src *image.NRGBA, format Format) *RawImage {
	w, h := src.Rect.Dx(), src.Rect.Dy()
	n := format.Components()
	out := make([]byte, 0, w*h*n)

	for y := 0; y < h; y++ {
		row := src.Pix[y*src.Stride : y*src.Stride+w*4]
		if format == RGBA {
			out = append(out, row...)
			continue
		}
		for x := 0; x < w*4; x += 4 {
			out = append(out, row[x:x+n]...)
		}
	}

	return &RawImage{Width: w, Height: h, Format: format, Pixels: out}
}
