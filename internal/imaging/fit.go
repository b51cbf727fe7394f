// Package imaging downsizes uploaded images so hosts without server-side
// transformations store the same bounded renditions Cloudinary produces.
package imaging

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"

	"golang.org/x/image/draw"
)

const jpegQuality = 90

// Fit scales data down so it fits inside maxW x maxH while keeping the
// aspect ratio. Images already inside the box, and formats other than JPEG
// and PNG, are returned unchanged with resized=false.
func Fit(data []byte, contentType string, maxW, maxH int) (out []byte, resized bool, err error) {
	if contentType != "image/jpeg" && contentType != "image/png" {
		return data, false, nil
	}

	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, false, fmt.Errorf("decode image config: %w", err)
	}
	w, h := bounded(cfg.Width, cfg.Height, maxW, maxH)
	if w == cfg.Width && h == cfg.Height {
		return data, false, nil
	}

	src, err := decode(data, contentType)
	if err != nil {
		return nil, false, err
	}

	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Over, nil)

	var buf bytes.Buffer
	switch contentType {
	case "image/jpeg":
		err = jpeg.Encode(&buf, dst, &jpeg.Options{Quality: jpegQuality})
	default:
		err = png.Encode(&buf, dst)
	}
	if err != nil {
		return nil, false, fmt.Errorf("encode image: %w", err)
	}
	return buf.Bytes(), true, nil
}

func decode(data []byte, contentType string) (image.Image, error) {
	var (
		img image.Image
		err error
	)
	if contentType == "image/jpeg" {
		img, err = jpeg.Decode(bytes.NewReader(data))
	} else {
		img, err = png.Decode(bytes.NewReader(data))
	}
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}
	return img, nil
}

// bounded returns the largest size inside maxW x maxH with the aspect ratio
// of w x h. It never scales up.
func bounded(w, h, maxW, maxH int) (int, int) {
	if w <= maxW && h <= maxH {
		return w, h
	}
	if w*maxH > h*maxW {
		return maxW, max(1, h*maxW/w)
	}
	return max(1, w*maxH/h), maxH
}
