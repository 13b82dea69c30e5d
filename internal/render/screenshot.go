package render

import "image"

// clampRegion intersects r with a screen of the given size.
func clampRegion(r image.Rectangle, screenWidth, screenHeight int) image.Rectangle {
	return r.Intersect(image.Rect(0, 0, screenWidth, screenHeight))
}

// bgrxToRGBA converts 4-byte BGRX pixels to an opaque RGBA image.
func bgrxToRGBA(data []byte, width, height int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for i := 0; i < width*height; i++ {
		src := i * 4
		if src+3 >= len(data) {
			break
		}
		img.Pix[src] = data[src+2]
		img.Pix[src+1] = data[src+1]
		img.Pix[src+2] = data[src]
		img.Pix[src+3] = 255
	}
	return img
}
