package helper

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"github.com/chai2010/webp"
	"github.com/disintegration/imaging"
)

type WebPOptions struct {
	MaxW    int     // batas lebar (resize keep-aspect)
	MaxH    int     // batas tinggi
	Quality float32 // 0..100
}

var LogoWebPOptions = WebPOptions{MaxW: 512, MaxH: 512, Quality: 82}

// ErrUnsupportedImage: bukan jpeg/png/gif/webp.
var ErrUnsupportedImage = fmt.Errorf("unsupported image format (use jpg/png/webp)")

func decodeImage(data []byte) (image.Image, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("empty file")
	}
	if SniffContentType(data) == "image/webp" {
		return webp.Decode(bytes.NewReader(data))
	}
	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return nil, ErrUnsupportedImage
	}
	return img, nil
}

// ConvertToWebP: decode → resize (kalau lebih besar dari Max) → encode webp.
func ConvertToWebP(data []byte, opt WebPOptions) ([]byte, error) {
	img, err := decodeImage(data)
	if err != nil {
		return nil, err
	}

	b := img.Bounds()
	if (opt.MaxW > 0 && b.Dx() > opt.MaxW) || (opt.MaxH > 0 && b.Dy() > opt.MaxH) {
		img = imaging.Fit(img, nonZero(opt.MaxW, b.Dx()), nonZero(opt.MaxH, b.Dy()), imaging.Lanczos)
	}

	q := opt.Quality
	if q <= 0 {
		q = 80
	}
	buf := new(bytes.Buffer)
	if err := webp.Encode(buf, img, &webp.Options{Lossless: false, Quality: q}); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func nonZero(v, def int) int {
	if v > 0 {
		return v
	}
	return def
}
