// Package imageproc normalizes arbitrary image sources into the
// single-channel, binarized, denoised form the recognition engine expects.
//
// The stage ordering (grayscale, automatic threshold, denoise) is a contract:
// reordering changes recognition quality and must not be altered without
// re-validating extraction accuracy.
package imageproc

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/color"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"os"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"shelfscan/src/infrastructure/log"
)

// ErrDecode indicates the source could not be interpreted as an image.
var ErrDecode = errors.New("image decode failed")

// Preprocess runs the full pipeline over a decoded image and returns a
// grayscale buffer ready for recognition.
func Preprocess(img image.Image) *image.Gray {
	gray := Grayscale(img)
	binarized := Binarize(gray, OtsuThreshold(gray))
	denoised := Denoise(binarized)
	log.Debug("image preprocessing completed",
		"width", denoised.Rect.Dx(), "height", denoised.Rect.Dy())
	return denoised
}

// PreprocessBytes decodes an encoded image payload and runs the pipeline.
func PreprocessBytes(data []byte) (*image.Gray, error) {
	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecode, err)
	}
	log.Debug("decoded image", "format", format)
	return Preprocess(img), nil
}

// PreprocessFile loads an image from disk and runs the pipeline.
func PreprocessFile(path string) (*image.Gray, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecode, err)
	}
	return PreprocessBytes(data)
}

// Grayscale converts any image to a single-channel buffer using the standard
// luminance weights.
func Grayscale(img image.Image) *image.Gray {
	if gray, ok := img.(*image.Gray); ok {
		return gray
	}
	bounds := img.Bounds()
	gray := image.NewGray(bounds)
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			gray.Set(x, y, color.GrayModel.Convert(img.At(x, y)))
		}
	}
	return gray
}

// Binarize maps every pixel above the threshold to white and the rest to
// black.
func Binarize(gray *image.Gray, threshold uint8) *image.Gray {
	bounds := gray.Bounds()
	out := image.NewGray(bounds)
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			if gray.GrayAt(x, y).Y > threshold {
				out.SetGray(x, y, color.Gray{Y: 255})
			} else {
				out.SetGray(x, y, color.Gray{Y: 0})
			}
		}
	}
	return out
}
