package renderer

import (
	"image"
	"image/color"
	"image/png"
	"math"
	"os"
)

// Write an image to a png file.
func WritePNG(imgFile string, img image.Image) error {
	f, err := os.Create(imgFile)
	if err != nil {
		return err
	}
	defer f.Close()

	return png.Encode(f, img)
}

// Convert a depth buffer to a grayscale image where near hits are bright and
// misses are black.
func DepthImage(depth []float32, frameW, frameH uint32) *image.Gray {
	im := image.NewGray(image.Rect(0, 0, int(frameW), int(frameH)))

	var minDepth, maxDepth float32 = float32(math.Inf(1)), 0
	for _, d := range depth {
		if math.IsInf(float64(d), 1) {
			continue
		}
		if d < minDepth {
			minDepth = d
		}
		if d > maxDepth {
			maxDepth = d
		}
	}

	span := maxDepth - minDepth
	for i, d := range depth {
		if math.IsInf(float64(d), 1) {
			continue
		}
		v := float32(1)
		if span > 0 {
			v = 1 - 0.8*(d-minDepth)/span
		}
		im.SetGray(i%int(frameW), i/int(frameW), color.Gray{Y: uint8(v * 255)})
	}
	return im
}
