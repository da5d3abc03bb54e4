// Package analysis sequences the image pipeline for one shelf photograph:
// preprocessing, text recognition, field extraction and record assembly.
package analysis

import (
	"context"
	"image"

	"shelfscan/src/core/extract"
	"shelfscan/src/core/imageproc"
	"shelfscan/src/infrastructure/log"
	"shelfscan/src/infrastructure/recognition"
)

// ShelfResult is the envelope returned for a whole-shelf analysis.
type ShelfResult struct {
	Success bool            `json:"success"`
	Data    []ProductRecord `json:"data"`
	Error   string          `json:"error,omitempty"`
}

// Analyzer runs the full pipeline for one image and assembles one
// ProductRecord. Stage failures never escape it: preprocessing and
// recognition errors are converted into a degraded record carrying the error.
type Analyzer struct {
	engine recognition.Engine
}

// NewAnalyzer builds an analyzer on top of the given recognition engine.
func NewAnalyzer(engine recognition.Engine) *Analyzer {
	return &Analyzer{engine: engine}
}

// AnalyzeBytes analyzes an encoded image payload.
func (a *Analyzer) AnalyzeBytes(ctx context.Context, data []byte, imageID string) ProductRecord {
	return a.analyze(ctx, imageID, func() (*image.Gray, error) {
		return imageproc.PreprocessBytes(data)
	})
}

// AnalyzeFile analyzes an image on disk. The path doubles as the image id.
func (a *Analyzer) AnalyzeFile(ctx context.Context, path string) ProductRecord {
	return a.analyze(ctx, path, func() (*image.Gray, error) {
		return imageproc.PreprocessFile(path)
	})
}

// AnalyzeImage analyzes an already-decoded image.
func (a *Analyzer) AnalyzeImage(ctx context.Context, img image.Image, imageID string) ProductRecord {
	return a.analyze(ctx, imageID, func() (*image.Gray, error) {
		return imageproc.Preprocess(img), nil
	})
}

func (a *Analyzer) analyze(ctx context.Context, imageID string, preprocess func() (*image.Gray, error)) ProductRecord {
	buf, err := preprocess()
	if err != nil {
		log.Error(err, "image preprocessing failed", "image_id", imageID)
		return newDegradedRecord(err)
	}

	text, err := a.engine.Recognize(ctx, buf)
	if err != nil {
		log.Error(err, "text recognition failed", "image_id", imageID, "engine", a.engine.Name())
		return newDegradedRecord(err)
	}
	log.Debug("recognized text", "image_id", imageID, "chars", len(text))

	rec := newRecord(imageID)
	rec.SKUFullName = optional(extract.SKUName(text))
	rec.SKUBrand = optional(extract.Brand(text))
	rec.PriceSKU = optional(extract.Price(text))
	rec.Flavor = optional(extract.Flavor(text))
	rec.PackSize = optional(extract.PackSize(text))
	return rec
}

// AnalyzeShelfBytes analyzes a shelf image as a single product unit and wraps
// the record in a one-element result. Per-product segmentation is out of
// scope, so the result always holds exactly one record; Success is false only
// if the orchestration layer itself fails outside the degraded-record
// contract.
func (a *Analyzer) AnalyzeShelfBytes(ctx context.Context, data []byte, imageID string) ShelfResult {
	rec := a.AnalyzeBytes(ctx, data, imageID)
	return ShelfResult{Success: true, Data: []ProductRecord{rec}}
}

// AnalyzeShelfFile is AnalyzeShelfBytes for an image on disk.
func (a *Analyzer) AnalyzeShelfFile(ctx context.Context, path string) ShelfResult {
	rec := a.AnalyzeFile(ctx, path)
	return ShelfResult{Success: true, Data: []ProductRecord{rec}}
}
