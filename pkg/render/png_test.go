package render

import (
	"bytes"
	"image"
	"image/png"
	"testing"
)

func decodePNG(t *testing.T, data []byte) image.Image {
	t.Helper()
	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("png.Decode() error: %v", err)
	}
	return img
}

func isWhite(img image.Image, x, y int) bool {
	r, g, b, _ := img.At(x, y).RGBA()
	return r == 0xffff && g == 0xffff && b == 0xffff
}

func TestPNG(t *testing.T) {
	s := testScene(t, "Shares", true)

	data, err := PNG(s)
	if err != nil {
		t.Fatalf("PNG() error: %v", err)
	}

	img := decodePNG(t, data)
	bounds := img.Bounds()
	if bounds.Dx() != 1280 || bounds.Dy() != 960 {
		t.Fatalf("bounds = %dx%d, want 1280x960 at default scale", bounds.Dx(), bounds.Dy())
	}

	if !isWhite(img, 0, 0) {
		t.Error("canvas corner is not white")
	}
	// Center of the plot falls on a tile.
	if isWhite(img, bounds.Dx()/2, bounds.Dy()/2) {
		t.Error("plot center is white, expected a tile color")
	}
}

func TestPNGScale(t *testing.T) {
	s := testScene(t, "", false)

	data, err := PNG(s, WithScale(1))
	if err != nil {
		t.Fatalf("PNG() error: %v", err)
	}

	img := decodePNG(t, data)
	bounds := img.Bounds()
	if bounds.Dx() != 640 || bounds.Dy() != 480 {
		t.Fatalf("bounds = %dx%d, want 640x480 at scale 1", bounds.Dx(), bounds.Dy())
	}
}

func TestPNGRejectsInvalidScene(t *testing.T) {
	s := testScene(t, "", false)
	s.TileColors = nil
	if _, err := PNG(s); err == nil {
		t.Error("PNG() with missing tile colors succeeded, want error")
	}
}
