package imgproc

import (
	"image"
	"math"

	"github.com/disintegration/imaging"
)

// ToGray converts any image to a single-channel grayscale buffer.
func ToGray(img image.Image) *image.Gray {
	if g, ok := img.(*image.Gray); ok {
		return g
	}
	nrgba := imaging.Grayscale(img)
	w, h := nrgba.Bounds().Dx(), nrgba.Bounds().Dy()
	out := image.NewGray(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			// Grayscale output has R == G == B.
			out.Pix[y*out.Stride+x] = nrgba.Pix[y*nrgba.Stride+x*4]
		}
	}
	return out
}

// MeanIntensity returns the average pixel value of a grayscale image.
func MeanIntensity(g *image.Gray) float64 {
	b := g.Bounds()
	n := b.Dx() * b.Dy()
	if n == 0 {
		return 0
	}
	var sum uint64
	for y := b.Min.Y; y < b.Max.Y; y++ {
		row := g.Pix[(y-b.Min.Y)*g.Stride : (y-b.Min.Y)*g.Stride+b.Dx()]
		for _, v := range row {
			sum += uint64(v)
		}
	}
	return float64(sum) / float64(n)
}

// LaplacianVariance measures image sharpness as the variance of a 4-neighbor
// Laplacian response. Low values indicate blur.
func LaplacianVariance(g *image.Gray) float64 {
	w, h := g.Bounds().Dx(), g.Bounds().Dy()
	if w < 3 || h < 3 {
		return 0
	}
	var sum, sumSq float64
	n := 0
	for y := 1; y < h-1; y++ {
		for x := 1; x < w-1; x++ {
			c := float64(g.Pix[y*g.Stride+x])
			lap := float64(g.Pix[(y-1)*g.Stride+x]) +
				float64(g.Pix[(y+1)*g.Stride+x]) +
				float64(g.Pix[y*g.Stride+x-1]) +
				float64(g.Pix[y*g.Stride+x+1]) - 4*c
			sum += lap
			sumSq += lap * lap
			n++
		}
	}
	mean := sum / float64(n)
	return sumSq/float64(n) - mean*mean
}

// OtsuThreshold computes the Otsu binarization threshold of a grayscale image.
func OtsuThreshold(g *image.Gray) uint8 {
	var hist [256]int
	b := g.Bounds()
	total := b.Dx() * b.Dy()
	if total == 0 {
		return 128
	}
	for y := b.Min.Y; y < b.Max.Y; y++ {
		row := g.Pix[(y-b.Min.Y)*g.Stride : (y-b.Min.Y)*g.Stride+b.Dx()]
		for _, v := range row {
			hist[v]++
		}
	}

	var sumAll float64
	for i, c := range hist {
		sumAll += float64(i) * float64(c)
	}

	var sumBg, wBg float64
	bestVar := -1.0
	best := 0
	for t := 0; t < 256; t++ {
		wBg += float64(hist[t])
		if wBg == 0 {
			continue
		}
		wFg := float64(total) - wBg
		if wFg == 0 {
			break
		}
		sumBg += float64(t) * float64(hist[t])
		mBg := sumBg / wBg
		mFg := (sumAll - sumBg) / wFg
		between := wBg * wFg * (mBg - mFg) * (mBg - mFg)
		if between > bestVar {
			bestVar = between
			best = t
		}
	}
	return uint8(best)
}

// BinarizeInverted produces a foreground mask where pixels darker than or
// equal to thresh become true. Ink on a light document is foreground.
func BinarizeInverted(g *image.Gray, thresh uint8) *Mask {
	w, h := g.Bounds().Dx(), g.Bounds().Dy()
	m := NewMask(w, h)
	for y := 0; y < h; y++ {
		row := g.Pix[y*g.Stride : y*g.Stride+w]
		for x, v := range row {
			if v <= thresh {
				m.Pix[y*w+x] = true
			}
		}
	}
	return m
}

// CropGray returns a copy of the grayscale sub-image described by box,
// clamped to the image bounds. An empty crop yields a 0x0 image.
func CropGray(g *image.Gray, box BBox) *image.Gray {
	w, h := g.Bounds().Dx(), g.Bounds().Dy()
	box = NewBBox(box.X, box.Y, box.W, box.H, w, h)
	out := image.NewGray(image.Rect(0, 0, box.W, box.H))
	for y := 0; y < box.H; y++ {
		src := g.Pix[(box.Y+y)*g.Stride+box.X : (box.Y+y)*g.Stride+box.X+box.W]
		copy(out.Pix[y*out.Stride:y*out.Stride+box.W], src)
	}
	return out
}

// skewSampleLimit bounds the number of foreground points fed into the
// minimum-area-rectangle fit.
const skewSampleLimit = 4096

// EstimateSkew estimates the document rotation angle in degrees from the
// orientation of the minimum-area rectangle around the largest foreground
// component. The angle is normalized into (-45, 45]. Returns 0 when no
// meaningful text mass is found.
func EstimateSkew(g *image.Gray) float64 {
	w, h := g.Bounds().Dx(), g.Bounds().Dy()
	if w < 8 || h < 8 {
		return 0
	}
	mask := BinarizeInverted(g, OtsuThreshold(g))
	mask = mask.Dilate(2)

	comps := ConnectedComponents(mask)
	if len(comps) == 0 {
		return 0
	}
	largest := comps[0]
	for _, c := range comps[1:] {
		if c.Area > largest.Area {
			largest = c
		}
	}
	if largest.Area < 16 {
		return 0
	}

	// Subsample the component's pixels to keep the hull cheap.
	step := 1
	if largest.Area > skewSampleLimit {
		step = largest.Area / skewSampleLimit
	}
	pts := make([]Point, 0, skewSampleLimit)
	i := 0
	for y := largest.Box.Y; y < largest.Box.Y2(); y++ {
		for x := largest.Box.X; x < largest.Box.X2(); x++ {
			if !mask.Pix[y*mask.W+x] {
				continue
			}
			if i%step == 0 {
				pts = append(pts, Point{X: float64(x), Y: float64(y)})
			}
			i++
		}
	}
	rect := MinimumAreaRectangle(pts)
	if len(rect) != 4 {
		return 0
	}

	// Angle of the longer rectangle edge relative to the x axis.
	e1x, e1y := rect[1].X-rect[0].X, rect[1].Y-rect[0].Y
	e2x, e2y := rect[2].X-rect[1].X, rect[2].Y-rect[1].Y
	var dx, dy float64
	if math.Hypot(e1x, e1y) >= math.Hypot(e2x, e2y) {
		dx, dy = e1x, e1y
	} else {
		dx, dy = e2x, e2y
	}
	angle := math.Atan2(dy, dx) * 180 / math.Pi
	for angle <= -45 {
		angle += 90
	}
	for angle > 45 {
		angle -= 90
	}
	return angle
}
