package common

const (
	// TileSize is the default cell edge in pixels when a level does not
	// declare one.
	TileSize = 32

	// PixelsPerMeter converts level pixels into physics units.
	PixelsPerMeter = 30.0

	// Gravity is in meters per second squared, y pointing down.
	Gravity = 10.0

	BaseWidth  = 1280
	BaseHeight = 720
)

// ToMeters converts a pixel length using ppm pixels per meter.
func ToMeters(px, ppm float64) float64 {
	if ppm == 0 {
		ppm = PixelsPerMeter
	}
	return px / ppm
}

// ToPixels converts a length in meters using ppm pixels per meter.
func ToPixels(m, ppm float64) float64 {
	if ppm == 0 {
		ppm = PixelsPerMeter
	}
	return m * ppm
}
