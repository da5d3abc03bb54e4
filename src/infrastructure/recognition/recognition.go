// Package recognition wraps the external text recognition engine behind a
// minimal contract: one preprocessed image in, one string of raw text out.
// The engine's internals are opaque; only the input/output contract matters
// to callers.
package recognition

import (
	"context"
	"errors"
	"image"
)

// ErrRecognition indicates the engine failed on a decodable input. Engine
// implementations wrap their provider errors with it so callers can classify
// failures without knowing the provider.
var ErrRecognition = errors.New("text recognition failed")

// Engine converts a preprocessed grayscale buffer into raw recognized text.
// The returned text may be multi-line, may be empty, and carries no guarantee
// of being free of noise tokens.
type Engine interface {
	Name() string
	Recognize(ctx context.Context, img *image.Gray) (string, error)
}
