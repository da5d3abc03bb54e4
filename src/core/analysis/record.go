package analysis

// BoundingBox locates a product within the source image. Per-product
// segmentation is not performed yet, so records currently carry a nil box;
// the field exists so stored results stay forward compatible.
type BoundingBox struct {
	X      int `json:"x"`
	Y      int `json:"y"`
	Width  int `json:"width"`
	Height int `json:"height"`
}

// ProductRecord is the structured result of analyzing one image. Extracted
// fields are nil when no heuristic matched. Field names follow the downstream
// merchandising schema and must not be renamed.
type ProductRecord struct {
	SKUFullName      *string      `json:"SKUFullName"`
	SKUBrand         *string      `json:"SKUBrand"`
	PriceSKU         *string      `json:"PriceSKU"`
	Flavor           *string      `json:"Flavor"`
	PackSize         *string      `json:"PackSize"`
	ProductCategory1 *string      `json:"ProductCategory1"`
	ProductCategory2 *string      `json:"ProductCategory2"`
	ProductCategory3 *string      `json:"ProductCategory3"`
	NumberFacings    *int         `json:"NumberFacings"`
	ShelfSection     *string      `json:"ShelfSection"`
	OutOfStock       *bool        `json:"OutofStock"`
	Misplaced        *bool        `json:"Misplaced"`
	BoundingBox      *BoundingBox `json:"BoundingBox"`
	Tags             []string     `json:"Tags"`
	ImageID          *string      `json:"ImageID"`
	ErrorMessage     *string      `json:"Error,omitempty"`
}

// errorTag marks a degraded record produced when a pipeline stage failed.
const errorTag = "Error occurred during analysis"

// newRecord assembles a record with the fixed enrichment defaults of a
// successful extraction pass.
func newRecord(imageID string) ProductRecord {
	one := 1
	no := false
	rec := ProductRecord{
		NumberFacings: &one,
		OutOfStock:    &no,
		Misplaced:     &no,
		Tags:          []string{},
	}
	if imageID != "" {
		rec.ImageID = &imageID
	}
	return rec
}

// newDegradedRecord assembles the record returned when any pipeline stage
// fails: every extraction and enrichment field is nil, a single error tag is
// attached and the failure message is carried explicitly.
func newDegradedRecord(err error) ProductRecord {
	msg := err.Error()
	return ProductRecord{
		Tags:         []string{errorTag},
		ErrorMessage: &msg,
	}
}

func optional(value string, ok bool) *string {
	if !ok {
		return nil
	}
	return &value
}
