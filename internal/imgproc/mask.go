package imgproc

// Mask is a binary foreground image. Pix is row-major with length W*H;
// true marks a foreground (ink) pixel.
type Mask struct {
	W   int
	H   int
	Pix []bool
}

// NewMask allocates an all-background mask.
func NewMask(w, h int) *Mask {
	return &Mask{W: w, H: h, Pix: make([]bool, w*h)}
}

// Clone returns a deep copy of the mask.
func (m *Mask) Clone() *Mask {
	out := NewMask(m.W, m.H)
	copy(out.Pix, m.Pix)
	return out
}

// Count returns the number of foreground pixels.
func (m *Mask) Count() int {
	n := 0
	for _, v := range m.Pix {
		if v {
			n++
		}
	}
	return n
}

// Subtract clears every pixel of m that is foreground in o.
// Both masks must have identical dimensions.
func (m *Mask) Subtract(o *Mask) *Mask {
	out := NewMask(m.W, m.H)
	for i, v := range m.Pix {
		out.Pix[i] = v && !o.Pix[i]
	}
	return out
}

// Dilate grows foreground regions with a square kernel of the given radius.
func (m *Mask) Dilate(radius int) *Mask {
	if radius <= 0 {
		return m.Clone()
	}
	out := NewMask(m.W, m.H)
	for y := 0; y < m.H; y++ {
		for x := 0; x < m.W; x++ {
			if m.anyInWindow(x, y, radius, radius) {
				out.Pix[y*m.W+x] = true
			}
		}
	}
	return out
}

// ErodeHorizontal shrinks foreground with a 1 x (2*half+1) horizontal kernel.
func (m *Mask) ErodeHorizontal(half int) *Mask {
	out := NewMask(m.W, m.H)
	for y := 0; y < m.H; y++ {
		for x := 0; x < m.W; x++ {
			out.Pix[y*m.W+x] = m.allInWindow(x, y, half, 0)
		}
	}
	return out
}

// DilateHorizontal grows foreground with a 1 x (2*half+1) horizontal kernel.
func (m *Mask) DilateHorizontal(half int) *Mask {
	out := NewMask(m.W, m.H)
	for y := 0; y < m.H; y++ {
		for x := 0; x < m.W; x++ {
			out.Pix[y*m.W+x] = m.anyInWindow(x, y, half, 0)
		}
	}
	return out
}

// ErodeVertical shrinks foreground with a (2*half+1) x 1 vertical kernel.
func (m *Mask) ErodeVertical(half int) *Mask {
	out := NewMask(m.W, m.H)
	for y := 0; y < m.H; y++ {
		for x := 0; x < m.W; x++ {
			out.Pix[y*m.W+x] = m.allInWindow(x, y, 0, half)
		}
	}
	return out
}

// DilateVertical grows foreground with a (2*half+1) x 1 vertical kernel.
func (m *Mask) DilateVertical(half int) *Mask {
	out := NewMask(m.W, m.H)
	for y := 0; y < m.H; y++ {
		for x := 0; x < m.W; x++ {
			out.Pix[y*m.W+x] = m.anyInWindow(x, y, 0, half)
		}
	}
	return out
}

// OpenHorizontal performs morphological opening with a horizontal line
// kernel of the given length. Only runs of foreground at least kernelLen
// wide survive, which isolates horizontal rules from text strokes.
func (m *Mask) OpenHorizontal(kernelLen int) *Mask {
	half := kernelLen / 2
	if half < 1 {
		return m.Clone()
	}
	return m.ErodeHorizontal(half).DilateHorizontal(half)
}

// OpenVertical performs morphological opening with a vertical line kernel
// of the given length, isolating vertical rules.
func (m *Mask) OpenVertical(kernelLen int) *Mask {
	half := kernelLen / 2
	if half < 1 {
		return m.Clone()
	}
	return m.ErodeVertical(half).DilateVertical(half)
}

// ColumnProjection returns the foreground pixel count per column.
func (m *Mask) ColumnProjection() []int {
	proj := make([]int, m.W)
	for y := 0; y < m.H; y++ {
		row := m.Pix[y*m.W : (y+1)*m.W]
		for x, v := range row {
			if v {
				proj[x]++
			}
		}
	}
	return proj
}

func (m *Mask) anyInWindow(x, y, halfX, halfY int) bool {
	for ky := -halfY; ky <= halfY; ky++ {
		ny := y + ky
		if ny < 0 || ny >= m.H {
			continue
		}
		for kx := -halfX; kx <= halfX; kx++ {
			nx := x + kx
			if nx < 0 || nx >= m.W {
				continue
			}
			if m.Pix[ny*m.W+nx] {
				return true
			}
		}
	}
	return false
}

func (m *Mask) allInWindow(x, y, halfX, halfY int) bool {
	for ky := -halfY; ky <= halfY; ky++ {
		ny := y + ky
		if ny < 0 || ny >= m.H {
			return false
		}
		for kx := -halfX; kx <= halfX; kx++ {
			nx := x + kx
			if nx < 0 || nx >= m.W {
				return false
			}
			if !m.Pix[ny*m.W+nx] {
				return false
			}
		}
	}
	return true
}
