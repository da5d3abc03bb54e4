package recognition

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/png"

	"github.com/otiai10/gosseract/v2"
)

// TesseractConfig carries the tunables of the Tesseract engine. Zero values
// fall back to the engine's own defaults.
type TesseractConfig struct {
	Languages   []string // trained data hints, e.g. "eng"
	TessdataDir string   // override for the trained data directory
}

// TesseractEngine runs recognition through a local Tesseract installation via
// gosseract. A fresh client is created per call; the client is not safe for
// concurrent reuse.
type TesseractEngine struct {
	cfg           TesseractConfig
	clientFactory func() *gosseract.Client
}

// NewTesseractEngine constructs a Tesseract-backed recognition engine.
func NewTesseractEngine(cfg TesseractConfig) *TesseractEngine {
	return &TesseractEngine{cfg: cfg, clientFactory: gosseract.NewClient}
}

func (e *TesseractEngine) Name() string { return "tesseract" }

// Recognize encodes the preprocessed buffer as PNG and hands it to Tesseract.
// Any engine failure is wrapped as ErrRecognition.
func (e *TesseractEngine) Recognize(ctx context.Context, img *image.Gray) (string, error) {
	select {
	case <-ctx.Done():
		return "", ctx.Err()
	default:
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return "", fmt.Errorf("%w: encode input: %v", ErrRecognition, err)
	}

	c := e.clientFactory()
	defer c.Close()

	if err := c.SetImageFromBytes(buf.Bytes()); err != nil {
		return "", fmt.Errorf("%w: set image: %v", ErrRecognition, err)
	}
	if len(e.cfg.Languages) > 0 {
		if err := c.SetLanguage(e.cfg.Languages...); err != nil {
			return "", fmt.Errorf("%w: set languages: %v", ErrRecognition, err)
		}
	}
	if e.cfg.TessdataDir != "" {
		if err := c.SetTessdataPrefix(e.cfg.TessdataDir); err != nil {
			return "", fmt.Errorf("%w: set tessdata dir: %v", ErrRecognition, err)
		}
	}

	text, err := c.Text()
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrRecognition, err)
	}
	return text, nil
}
