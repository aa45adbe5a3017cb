package filter

// RGBToGray converts interleaved RGB samples to one Rec. 601 luma sample
// per pixel.
func RGBToGray(rgb []uint8) []uint8 {
	gray := make([]uint8, len(rgb)/3)
	grayscale.Project(gray, rgb, 0)
	return gray
}

// GrayToRGB replicates each gray sample into three channels.
func GrayToRGB(gray []uint8) []uint8 {
	rgb := make([]uint8, len(gray)*3)
	for i, v := range gray {
		rgb[3*i], rgb[3*i+1], rgb[3*i+2] = v, v, v
	}
	return rgb
}
