package imgproc

import "container/list"

// Component is a 4-connected region of foreground pixels.
type Component struct {
	Area int
	Box  BBox
}

// ConnectedComponents finds 4-connected foreground components via BFS.
// The returned order follows raster-scan discovery order.
func ConnectedComponents(m *Mask) []Component {
	visited := make([]bool, m.W*m.H)
	var comps []Component

	for y := 0; y < m.H; y++ {
		for x := 0; x < m.W; x++ {
			idx := y*m.W + x
			if m.Pix[idx] && !visited[idx] {
				comps = append(comps, componentBFS(m, visited, x, y))
			}
		}
	}
	return comps
}

func componentBFS(m *Mask, visited []bool, startX, startY int) Component {
	minX, minY := startX, startY
	maxX, maxY := startX, startY
	area := 0

	q := list.New()
	q.PushBack(startY*m.W + startX)
	visited[startY*m.W+startX] = true

	dirs := [4][2]int{{1, 0}, {-1, 0}, {0, 1}, {0, -1}}
	for q.Len() > 0 {
		e := q.Front()
		q.Remove(e)
		ci, ok := e.Value.(int)
		if !ok {
			continue
		}
		cx, cy := ci%m.W, ci/m.W
		area++
		if cx < minX {
			minX = cx
		}
		if cy < minY {
			minY = cy
		}
		if cx > maxX {
			maxX = cx
		}
		if cy > maxY {
			maxY = cy
		}
		for _, d := range dirs {
			nx, ny := cx+d[0], cy+d[1]
			if nx < 0 || nx >= m.W || ny < 0 || ny >= m.H {
				continue
			}
			ni := ny*m.W + nx
			if m.Pix[ni] && !visited[ni] {
				visited[ni] = true
				q.PushBack(ni)
			}
		}
	}

	return Component{
		Area: area,
		Box:  BBox{X: minX, Y: minY, W: maxX - minX + 1, H: maxY - minY + 1},
	}
}
