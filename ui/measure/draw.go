// Package measure provides the drawing viewport: the page raster with
// pan, zoom, and the calibration and measurement overlays.
package measure

import (
	"image"
	"image/color"

	"github.com/danielcuellar117/cgs-glassbid-mvp-sub000/pkg/geometry"
)

// digitPatterns contains 3x5 pixel patterns for digits 0-9.
// Each digit is represented as 5 rows of 3 bits.
var digitPatterns = [10][5]uint8{
	{0b111, 0b101, 0b101, 0b101, 0b111}, // 0
	{0b010, 0b110, 0b010, 0b010, 0b111}, // 1
	{0b111, 0b001, 0b111, 0b100, 0b111}, // 2
	{0b111, 0b001, 0b111, 0b001, 0b111}, // 3
	{0b101, 0b101, 0b111, 0b001, 0b001}, // 4
	{0b111, 0b100, 0b111, 0b001, 0b111}, // 5
	{0b111, 0b100, 0b111, 0b101, 0b111}, // 6
	{0b111, 0b001, 0b001, 0b001, 0b001}, // 7
	{0b111, 0b101, 0b111, 0b101, 0b111}, // 8
	{0b111, 0b101, 0b111, 0b001, 0b111}, // 9
}

// symbolPatterns covers the marks used in architectural readouts.
var symbolPatterns = map[rune][5]uint8{
	'\'': {0b010, 0b010, 0b000, 0b000, 0b000},
	'"':  {0b101, 0b101, 0b000, 0b000, 0b000},
	'/':  {0b001, 0b001, 0b010, 0b100, 0b100},
	'-':  {0b000, 0b000, 0b111, 0b000, 0b000},
	'.':  {0b000, 0b000, 0b000, 0b000, 0b010},
	' ':  {0b000, 0b000, 0b000, 0b000, 0b000},
}

func charPattern(ch rune) [5]uint8 {
	if ch >= '0' && ch <= '9' {
		return digitPatterns[ch-'0']
	}
	if pattern, ok := symbolPatterns[ch]; ok {
		return pattern
	}
	return [5]uint8{}
}

// drawLabel draws text centered at the given point using the 3x5 bitmap
// font, scaled up by scale.
func drawLabel(output *image.RGBA, label string, centerX, centerY int, col color.RGBA, scale int) {
	if scale < 1 {
		scale = 1
	}
	if scale > 6 {
		scale = 6
	}

	charWidth := 3 * scale
	charHeight := 5 * scale
	spacing := scale
	runes := []rune(label)
	labelWidth := len(runes)*charWidth + (len(runes)-1)*spacing

	startX := centerX - labelWidth/2
	startY := centerY - charHeight/2

	bounds := output.Bounds()

	for i, ch := range runes {
		pattern := charPattern(ch)
		charX := startX + i*(charWidth+spacing)

		for row := 0; row < 5; row++ {
			for c := 0; c < 3; c++ {
				if (pattern[row] & (1 << (2 - c))) == 0 {
					continue
				}
				for dy := 0; dy < scale; dy++ {
					for dx := 0; dx < scale; dx++ {
						px := charX + c*scale + dx
						py := startY + row*scale + dy
						if px >= bounds.Min.X && px < bounds.Max.X &&
							py >= bounds.Min.Y && py < bounds.Max.Y {
							output.Set(px, py, col)
						}
					}
				}
			}
		}
	}
}

// drawLine draws a line between two points using Bresenham's algorithm.
func drawLine(output *image.RGBA, x1, y1, x2, y2 int, col color.RGBA, thickness int) {
	bounds := output.Bounds()

	dx := x2 - x1
	dy := y2 - y1
	if dx < 0 {
		dx = -dx
	}
	if dy < 0 {
		dy = -dy
	}

	sx := 1
	if x1 > x2 {
		sx = -1
	}
	sy := 1
	if y1 > y2 {
		sy = -1
	}

	err := dx - dy

	for {
		for t := -thickness / 2; t <= thickness/2; t++ {
			for s := -thickness / 2; s <= thickness/2; s++ {
				px, py := x1+s, y1+t
				if px >= bounds.Min.X && px < bounds.Max.X && py >= bounds.Min.Y && py < bounds.Max.Y {
					output.Set(px, py, col)
				}
			}
		}

		if x1 == x2 && y1 == y2 {
			break
		}

		e2 := 2 * err
		if e2 > -dy {
			err -= dy
			x1 += sx
		}
		if e2 < dx {
			err += dx
			y1 += sy
		}
	}
}

// drawHandle draws a filled endpoint handle with a white rim so it stays
// visible on any page background.
func drawHandle(output *image.RGBA, cx, cy int, radius float64, col color.RGBA) {
	bounds := output.Bounds()

	minX := int(float64(cx) - radius - 1)
	maxX := int(float64(cx) + radius + 1)
	minY := int(float64(cy) - radius - 1)
	maxY := int(float64(cy) + radius + 1)

	r2 := radius * radius
	rim2 := (radius - 1.5) * (radius - 1.5)

	for y := minY; y <= maxY; y++ {
		if y < bounds.Min.Y || y >= bounds.Max.Y {
			continue
		}
		for x := minX; x <= maxX; x++ {
			if x < bounds.Min.X || x >= bounds.Max.X {
				continue
			}
			dx := float64(x) - float64(cx)
			dy := float64(y) - float64(cy)
			dist2 := dx*dx + dy*dy
			if dist2 > r2 {
				continue
			}
			if dist2 >= rim2 {
				output.Set(x, y, color.RGBA{255, 255, 255, 255})
			} else {
				output.Set(x, y, col)
			}
		}
	}
}

// drawPage composites the page image into the output using the viewport
// transform, nearest neighbor.
func drawPage(output *image.RGBA, src image.Image, offset geometry.Point2D, zoom float64) {
	if src == nil || zoom <= 0 {
		return
	}
	srcBounds := src.Bounds()
	outBounds := output.Bounds()

	for y := outBounds.Min.Y; y < outBounds.Max.Y; y++ {
		imgY := (float64(y) - offset.Y) / zoom
		srcY := int(imgY) + srcBounds.Min.Y
		if srcY < srcBounds.Min.Y || srcY >= srcBounds.Max.Y {
			continue
		}
		for x := outBounds.Min.X; x < outBounds.Max.X; x++ {
			imgX := (float64(x) - offset.X) / zoom
			srcX := int(imgX) + srcBounds.Min.X
			if srcX < srcBounds.Min.X || srcX >= srcBounds.Max.X {
				continue
			}
			output.Set(x, y, src.At(srcX, srcY))
		}
	}
}
