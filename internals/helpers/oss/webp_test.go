package helper

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"strings"
	"testing"
)

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			img.Set(x, y, color.RGBA{uint8(x), uint8(y), 120, 255})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func TestConvertToWebPResizes(t *testing.T) {
	out, err := ConvertToWebP(pngBytes(t, 800, 400), WebPOptions{MaxW: 200, MaxH: 200, Quality: 70})
	if err != nil {
		t.Fatalf("convert: %v", err)
	}
	if SniffContentType(out) != "image/webp" {
		t.Fatalf("output sniffed as %s", SniffContentType(out))
	}
	cfg, _, err := image.DecodeConfig(bytes.NewReader(out))
	if err == nil && (cfg.Width > 200 || cfg.Height > 200) {
		t.Fatalf("not resized: %dx%d", cfg.Width, cfg.Height)
	}
}

func TestConvertToWebPRejectsNonImage(t *testing.T) {
	if _, err := ConvertToWebP([]byte("hello, not an image"), LogoWebPOptions); err == nil {
		t.Fatal("expected error for non-image input")
	}
}

func TestBuildObjectKey(t *testing.T) {
	key := BuildObjectKey("/answers/abc/", "My CV (final).PDF")
	if !strings.HasPrefix(key, "answers/abc/my-cv-final_") || !strings.HasSuffix(key, ".pdf") {
		t.Fatalf("key = %q", key)
	}
}

func TestReadAllLimited(t *testing.T) {
	if _, err := ReadAllLimited(strings.NewReader("12345"), 4); err == nil {
		t.Fatal("expected size error")
	}
	b, err := ReadAllLimited(strings.NewReader("1234"), 4)
	if err != nil || string(b) != "1234" {
		t.Fatalf("got %q, %v", b, err)
	}
}
