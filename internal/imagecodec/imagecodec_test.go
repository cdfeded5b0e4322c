package imagecodec

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"testing"
)

func encodePNG(t *testing.T, img image.Image) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode png: %v", err)
	}
	return buf.Bytes()
}

func TestDecode_Gray(t *testing.T) {
	img := image.NewGray(image.Rect(0, 0, 2, 2))
	img.SetGray(0, 0, color.Gray{Y: 10})
	img.SetGray(1, 0, color.Gray{Y: 20})
	img.SetGray(0, 1, color.Gray{Y: 30})
	img.SetGray(1, 1, color.Gray{Y: 40})

	raw, err := Decoder{}.Decode(bytes.NewReader(encodePNG(t, img)))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if raw.Format != Luminance {
		t.Fatalf("expected LUMINANCE, got %v", raw.Format)
	}
	want := []byte{10, 20, 30, 40}
	if !bytes.Equal(raw.Pixels, want) {
		t.Fatalf("expected pixels %v, got %v", want, raw.Pixels)
	}
}

func TestDecode_OpaqueRGBA(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 2, 1))
	img.Set(0, 0, color.RGBA{R: 1, G: 2, B: 3, A: 255})
	img.Set(1, 0, color.RGBA{R: 4, G: 5, B: 6, A: 255})

	raw, err := Decoder{}.Decode(bytes.NewReader(encodePNG(t, img)))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if raw.Format != RGB {
		t.Fatalf("expected RGB, got %v", raw.Format)
	}
	want := []byte{1, 2, 3, 4, 5, 6}
	if !bytes.Equal(raw.Pixels, want) {
		t.Fatalf("expected pixels %v, got %v", want, raw.Pixels)
	}
}

func TestDecode_TranslucentNRGBA(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 1, 2))
	img.SetNRGBA(0, 0, color.NRGBA{R: 200, G: 100, B: 50, A: 128})
	img.SetNRGBA(0, 1, color.NRGBA{R: 1, G: 2, B: 3, A: 255})

	raw, err := Decoder{}.Decode(bytes.NewReader(encodePNG(t, img)))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if raw.Format != RGBA {
		t.Fatalf("expected RGBA, got %v", raw.Format)
	}
	if raw.Width != 1 || raw.Height != 2 {
		t.Fatalf("expected 1x2, got %dx%d", raw.Width, raw.Height)
	}
	want := []byte{200, 100, 50, 128, 1, 2, 3, 255}
	if !bytes.Equal(raw.Pixels, want) {
		t.Fatalf("expected top row first %v, got %v", want, raw.Pixels)
	}
}

func TestDecode_Paletted(t *testing.T) {
	opaque := color.Palette{color.RGBA{A: 255}, color.RGBA{R: 255, A: 255}}
	translucent := color.Palette{color.RGBA{A: 255}, color.NRGBA{G: 255, A: 10}}

	tests := []struct {
		name    string
		palette color.Palette
		want    Format
	}{
		{"opaque palette", opaque, RGB},
		{"translucent palette", translucent, RGBA},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			img := image.NewPaletted(image.Rect(0, 0, 2, 2), tt.palette)
			img.SetColorIndex(1, 1, 1)

			raw, err := Decoder{}.Decode(bytes.NewReader(encodePNG(t, img)))
			if err != nil {
				t.Fatalf("decode: %v", err)
			}
			if raw.Format != tt.want {
				t.Fatalf("expected %v, got %v", tt.want, raw.Format)
			}
			if len(raw.Pixels) != 4*tt.want.Components() {
				t.Fatalf("expected %d bytes, got %d", 4*tt.want.Components(), len(raw.Pixels))
			}
		})
	}
}

func TestDecode_JPEGIsRGB(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 8, 4))
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, nil); err != nil {
		t.Fatalf("encode jpeg: %v", err)
	}

	raw, err := Decoder{AutoOrient: true}.Decode(&buf)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if raw.Format != RGB || raw.Width != 8 || raw.Height != 4 {
		t.Fatalf("expected 8x4 RGB, got %dx%d %v", raw.Width, raw.Height, raw.Format)
	}
	if len(raw.Pixels) != 8*4*3 {
		t.Fatalf("expected %d bytes, got %d", 8*4*3, len(raw.Pixels))
	}
}

func TestDecode_UnsupportedMode(t *testing.T) {
	img := image.NewGray16(image.Rect(0, 0, 1, 1))

	_, err := Decoder{}.Decode(bytes.NewReader(encodePNG(t, img)))
	if !errors.Is(err, ErrUnsupportedMode) {
		t.Fatalf("expected ErrUnsupportedMode, got %v", err)
	}
}

func TestDecode_Garbage(t *testing.T) {
	if _, err := (Decoder{}).Decode(bytes.NewReader([]byte("not an image"))); err == nil {
		t.Fatalf("expected an error")
	}
}

func TestDecodeFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pixel.png")
	img := image.NewGray(image.Rect(0, 0, 3, 1))
	if err := os.WriteFile(path, encodePNG(t, img), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	raw, err := Decoder{}.DecodeFile(path)
	if err != nil {
		t.Fatalf("decode file: %v", err)
	}
	if raw.Width != 3 || raw.Height != 1 {
		t.Fatalf("expected 3x1, got %dx%d", raw.Width, raw.Height)
	}
}

func TestExtensions(t *testing.T) {
	exts := Decoder{}.Extensions()
	found := false
	for _, ext := range exts {
		if ext == ".webp" {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected .webp in %v", exts)
	}

	exts[0] = "changed"
	if (Decoder{}).Extensions()[0] == "changed" {
		t.Fatalf("expected Extensions to return a copy")
	}
}
