package draw

import (
	"math"

	"github.com/jonathanmweiss/go-locus/fint"
)

// Rectangle is a pixel-coordinate rectangle [X0,X1)x[Y0,Y1).
type Rectangle struct {
	X0, Y0, X1, Y1 int
}

// NewRectangle builds a rectangle from its corners.
func NewRectangle(x0, y0, x1, y1 int) Rectangle {
	return Rectangle{X0: x0, Y0: y0, X1: x1, Y1: y1}
}

// Size returns the pixel area.
func (r Rectangle) Size() int {
	return (r.Y1 - r.Y0) * (r.X1 - r.X0)
}

// Subdivide splits the rectangle into its four quadrants.
func (r Rectangle) Subdivide() [4]Rectangle {
	xMid := (r.X0 + r.X1) / 2
	yMid := (r.Y0 + r.Y1) / 2
	return [4]Rectangle{
		NewRectangle(r.X0, r.Y0, xMid, yMid),
		NewRectangle(xMid, r.Y0, r.X1, yMid),
		NewRectangle(r.X0, yMid, xMid, r.Y1),
		NewRectangle(xMid, yMid, r.X1, r.Y1),
	}
}

// subInterval maps a pixel sub-rectangle back into the coordinate intervals
// of the enclosing rectangle by linear ratio.
func subInterval(xInterval, yInterval fint.Interval, rect, subRect Rectangle) (fint.Interval, fint.Interval) {
	xRatio0 := float64(subRect.X0-rect.X0) / float64(rect.X1-rect.X0)
	xRatio1 := float64(subRect.X1-rect.X0) / float64(rect.X1-rect.X0)
	yRatio0 := float64(subRect.Y0-rect.Y0) / float64(rect.Y1-rect.Y0)
	yRatio1 := float64(subRect.Y1-rect.Y0) / float64(rect.Y1-rect.Y0)

	xLo, xHi := xInterval.Lower(), xInterval.Upper()
	yLo, yHi := yInterval.Lower(), yInterval.Upper()
	subX := fint.WithBounds(xLo+xRatio0*(xHi-xLo), xLo+xRatio1*(xHi-xLo))
	subY := fint.WithBounds(yLo+yRatio0*(yHi-yLo), yLo+yRatio1*(yHi-yLo))
	return subX, subY
}

// Point is one reported curve pixel.
type Point struct {
	X, Y int
}

// Color is an RGB triple.
type Color struct {
	R, G, B uint8
}

// NewColor builds a color.
func NewColor(r, g, b uint8) Color {
	return Color{R: r, G: g, B: b}
}

// Interpolate blends linearly from start (t=0) to end (t=1).
func Interpolate(start, end Color, t float64) Color {
	return Color{
		R: uint8(float64(start.R) + (float64(end.R)-float64(start.R))*t),
		G: uint8(float64(start.G) + (float64(end.G)-float64(start.G))*t),
		B: uint8(float64(start.B) + (float64(end.B)-float64(start.B))*t),
	}
}

// ColoredPoint is a smoothed, coarsened pixel with its display color.
type ColoredPoint struct {
	X, Y  int
	Color Color
}

// Drawer rasterizes the zero set of an XYPoly over a view rectangle.
type Drawer struct {
	Poly XYPoly
}

// NewDrawer wraps the polynomial.
func NewDrawer(p XYPoly) *Drawer {
	return &Drawer{Poly: p}
}

// CurvePoints finds all pixels of the xCount x yCount grid whose region may
// contain a zero of the polynomial. The y axis is flipped so that the first
// row is the top of the image.
func (d *Drawer) CurvePoints(xInterval, yInterval fint.Interval, xCount, yCount int) []Point {
	var points []Point
	d.inspectRegion(xInterval, yInterval, NewRectangle(0, 0, xCount, yCount), &points, yCount)
	return points
}

func (d *Drawer) inspectRegion(xInterval, yInterval fint.Interval, rect Rectangle, points *[]Point, yCount int) {
	value := d.Poly.Evaluate(xInterval, yInterval)
	if !value.Equals(fint.New(0.0)) {
		return
	}
	if rect.Size() == 1 {
		*points = append(*points, Point{X: rect.X0, Y: yCount - rect.Y0 - 1})
		return
	}
	for _, subRect := range rect.Subdivide() {
		if subRect.Size() >= 1 {
			subX, subY := subInterval(xInterval, yInterval, rect, subRect)
			d.inspectRegion(subX, subY, subRect, points, yCount)
		}
	}
}

// SmoothedPoints dilates every curve pixel by a radius-5 disk with linearly
// fading intensity, sums the result over 4x4 blocks, normalizes by the
// maximum, and colors from white (empty) to red (densest).
func (d *Drawer) SmoothedPoints(curvePoints []Point, xCount, yCount int) []ColoredPoint {
	intensities := make(map[Point]float64)
	white := NewColor(255, 255, 255)
	red := NewColor(255, 0, 0)

	for _, p := range curvePoints {
		for dx := -5; dx <= 5; dx++ {
			for dy := -5; dy <= 5; dy++ {
				distSq := float64(dx*dx + dy*dy)
				if distSq > 25.0 {
					continue
				}
				nx := p.X + dx
				ny := p.Y + dy
				if nx < 0 || ny < 0 || nx >= xCount || ny >= yCount {
					continue
				}
				intensity := 255.0 * (1.0 - 0.9*math.Sqrt(distSq)/5.0)
				key := Point{X: nx, Y: ny}
				if existing, ok := intensities[key]; !ok || intensity > existing {
					intensities[key] = intensity
				}
			}
		}
	}

	sums := make(map[Point]float64)
	for p, intensity := range intensities {
		sums[Point{X: p.X / 4, Y: p.Y / 4}] += intensity
	}

	maxIntensity := 0.0
	for _, value := range sums {
		if value > maxIntensity {
			maxIntensity = value
		}
	}

	result := make([]ColoredPoint, 0, len(sums))
	for p, intensity := range sums {
		t := intensity / maxIntensity
		result = append(result, ColoredPoint{X: p.X, Y: p.Y, Color: Interpolate(white, red, t)})
	}
	return result
}
