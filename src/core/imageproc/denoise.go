package imageproc

import (
	"image"
	"image/color"
	"math"
)

// Non-local-means parameters, matching the tuning the pipeline was validated
// with: filter strength 10, 7x7 patch window, 21x21 search window.
const (
	nlmStrength       = 10.0
	nlmTemplateWindow = 7
	nlmSearchWindow   = 21
)

// Denoise applies a non-local-means pass to suppress scan and photo noise.
// Each pixel is replaced by a weighted average of pixels in its search window,
// weighted by the similarity of their surrounding patches.
func Denoise(gray *image.Gray) *image.Gray {
	bounds := gray.Bounds()
	out := image.NewGray(bounds)

	halfTemplate := nlmTemplateWindow / 2
	halfSearch := nlmSearchWindow / 2
	h2 := nlmStrength * nlmStrength
	patchArea := float64(nlmTemplateWindow * nlmTemplateWindow)

	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			var weightSum, valueSum float64
			for sy := y - halfSearch; sy <= y+halfSearch; sy++ {
				for sx := x - halfSearch; sx <= x+halfSearch; sx++ {
					if sx < bounds.Min.X || sx >= bounds.Max.X ||
						sy < bounds.Min.Y || sy >= bounds.Max.Y {
						continue
					}
					dist := patchDistance(gray, x, y, sx, sy, halfTemplate)
					weight := math.Exp(-dist / (h2 * patchArea))
					weightSum += weight
					valueSum += weight * float64(gray.GrayAt(sx, sy).Y)
				}
			}
			if weightSum > 0 {
				out.SetGray(x, y, grayValue(valueSum/weightSum))
			} else {
				out.SetGray(x, y, gray.GrayAt(x, y))
			}
		}
	}
	return out
}

// patchDistance sums squared differences between the patches centered at
// (x1,y1) and (x2,y2), clamping out-of-bounds samples to the nearest pixel.
func patchDistance(gray *image.Gray, x1, y1, x2, y2, half int) float64 {
	var dist float64
	for dy := -half; dy <= half; dy++ {
		for dx := -half; dx <= half; dx++ {
			a := float64(clampedAt(gray, x1+dx, y1+dy))
			b := float64(clampedAt(gray, x2+dx, y2+dy))
			d := a - b
			dist += d * d
		}
	}
	return dist
}

func clampedAt(gray *image.Gray, x, y int) uint8 {
	bounds := gray.Bounds()
	if x < bounds.Min.X {
		x = bounds.Min.X
	} else if x >= bounds.Max.X {
		x = bounds.Max.X - 1
	}
	if y < bounds.Min.Y {
		y = bounds.Min.Y
	} else if y >= bounds.Max.Y {
		y = bounds.Max.Y - 1
	}
	return gray.GrayAt(x, y).Y
}

func grayValue(v float64) color.Gray {
	rounded := math.Round(v)
	if rounded < 0 {
		rounded = 0
	} else if rounded > 255 {
		rounded = 255
	}
	return color.Gray{Y: uint8(rounded)}
}
