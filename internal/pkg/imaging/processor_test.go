package imaging

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"testing"
)

func testImage(w, h int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{uint8(x * 7), uint8(y * 13), uint8(x ^ y), 255})
		}
	}
	return img
}

func encodeJPEG(t *testing.T, img image.Image, quality int) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: quality}); err != nil {
		t.Fatalf("encode fixture: %v", err)
	}
	return buf.Bytes()
}

func TestNormalizeJPEG(t *testing.T) {
	p := NewProcessor(DefaultQuality)
	src := encodeJPEG(t, testImage(120, 80), 95)

	norm, err := p.Normalize(src, "jpg")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if norm.ContentType != "image/jpeg" {
		t.Errorf("expected image/jpeg, got %s", norm.ContentType)
	}
	if norm.Width != 120 || norm.Height != 80 {
		t.Errorf("dimensions changed: %dx%d", norm.Width, norm.Height)
	}

	decoded, err := jpeg.Decode(bytes.NewReader(norm.Data))
	if err != nil {
		t.Fatalf("output not decodable: %v", err)
	}
	if decoded.Bounds().Dx() != 120 {
		t.Errorf("decoded width %d", decoded.Bounds().Dx())
	}
}

func TestNormalizeRecompresses(t *testing.T) {
	p := NewProcessor(DefaultQuality)
	src := encodeJPEG(t, testImage(200, 200), 100)

	norm, err := p.Normalize(src, "jpeg")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(norm.Data) >= len(src) {
		t.Errorf("expected quality %d output smaller than quality 100 input: %d >= %d",
			DefaultQuality, len(norm.Data), len(src))
	}
}

func TestNormalizePNG(t *testing.T) {
	p := NewProcessor(DefaultQuality)
	var buf bytes.Buffer
	if err := png.Encode(&buf, testImage(32, 32)); err != nil {
		t.Fatalf("encode fixture: %v", err)
	}

	norm, err := p.Normalize(buf.Bytes(), ".png")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if norm.ContentType != "image/png" {
		t.Errorf("expected image/png, got %s", norm.ContentType)
	}
	if _, err := png.Decode(bytes.NewReader(norm.Data)); err != nil {
		t.Errorf("output not decodable: %v", err)
	}
}

func TestNormalizeCorruptData(t *testing.T) {
	p := NewProcessor(DefaultQuality)

	_, err := p.Normalize([]byte("definitely not an image"), "jpg")
	if !errors.Is(err, ErrDecode) {
		t.Errorf("expected ErrDecode, got %v", err)
	}
}

func TestNormalizeUnknownExtension(t *testing.T) {
	p := NewProcessor(DefaultQuality)
	src := encodeJPEG(t, testImage(10, 10), 90)

	if _, err := p.Normalize(src, "exe"); err == nil {
		t.Error("expected error for unknown extension")
	}
}
