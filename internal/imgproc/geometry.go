package imgproc

import (
	"image"
	"math"
)

// Point represents a 2D coordinate in float space.
type Point struct {
	X float64
	Y float64
}

// BBox is an axis-aligned bounding box in pixel coordinates, optionally
// carrying the recognized text and confidence of the region it encloses.
type BBox struct {
	X          int
	Y          int
	W          int
	H          int
	Text       string
	Confidence float64
}

// NewBBox constructs a BBox clamped to the given image dimensions.
// Negative coordinates are moved inside the image and the size is
// shrunk so the box never extends past (imgW, imgH).
func NewBBox(x, y, w, h, imgW, imgH int) BBox {
	if x < 0 {
		w += x
		x = 0
	}
	if y < 0 {
		h += y
		y = 0
	}
	if x+w > imgW {
		w = imgW - x
	}
	if y+h > imgH {
		h = imgH - y
	}
	if w < 0 {
		w = 0
	}
	if h < 0 {
		h = 0
	}
	return BBox{X: x, Y: y, W: w, H: h}
}

// CX returns the horizontal center of the box.
func (b BBox) CX() float64 { return float64(b.X) + float64(b.W)/2 }

// CY returns the vertical center of the box.
func (b BBox) CY() float64 { return float64(b.Y) + float64(b.H)/2 }

// X2 returns the exclusive right edge.
func (b BBox) X2() int { return b.X + b.W }

// Y2 returns the exclusive bottom edge.
func (b BBox) Y2() int { return b.Y + b.H }

// Empty reports whether the box has zero area.
func (b BBox) Empty() bool { return b.W <= 0 || b.H <= 0 }

// Rect converts the box to an image.Rectangle.
func (b BBox) Rect() image.Rectangle {
	return image.Rect(b.X, b.Y, b.X+b.W, b.Y+b.H)
}

// Union returns the smallest box containing both b and o.
// If either box is empty the other is returned unchanged.
func (b BBox) Union(o BBox) BBox {
	if b.Empty() {
		return o
	}
	if o.Empty() {
		return b
	}
	x1 := minInt(b.X, o.X)
	y1 := minInt(b.Y, o.Y)
	x2 := maxInt(b.X2(), o.X2())
	y2 := maxInt(b.Y2(), o.Y2())
	return BBox{X: x1, Y: y1, W: x2 - x1, H: y2 - y1}
}

// BoundingBBox returns the axis-aligned bounding box of a point set.
func BoundingBBox(pts []Point) BBox {
	if len(pts) == 0 {
		return BBox{}
	}
	minX, minY := pts[0].X, pts[0].Y
	maxX, maxY := pts[0].X, pts[0].Y
	for _, p := range pts[1:] {
		minX = math.Min(minX, p.X)
		minY = math.Min(minY, p.Y)
		maxX = math.Max(maxX, p.X)
		maxY = math.Max(maxY, p.Y)
	}
	return BBox{
		X: int(math.Floor(minX)),
		Y: int(math.Floor(minY)),
		W: int(math.Ceil(maxX - minX)),
		H: int(math.Ceil(maxY - minY)),
	}
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
