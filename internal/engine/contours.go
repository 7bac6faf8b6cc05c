package engine

import (
	"github.com/MeKo-Tech/docscan/internal/utils"
)

// Contour is a closed boundary polygon traced around one connected group of
// edge pixels, with its measured geometry. Area is the raw shoelace area of
// the traced boundary; Perimeter is the closed arc length.
type Contour struct {
	Points    []utils.Point
	Area      float64
	Perimeter float64
}

// contourStats tracks the bounding box of a connected component so tracing
// can restrict its search.
type contourStats struct {
	minX, minY, maxX, maxY int
}

// FindContours labels 8-connected components of non-zero pixels in the edge
// map and traces each component's outer boundary. Components are discovered
// in row-major scan order, which fixes the contour order for a given input.
func (e *Engine) FindContours(edges *Plane) []Contour {
	w, h := edges.Width, edges.Height
	if w == 0 || h == 0 {
		return nil
	}

	labels := make([]int32, w*h)
	var contours []Contour
	label := int32(1)

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			idx := y*w + x
			if edges.Pix[idx] == 0 || labels[idx] != 0 {
				continue
			}
			st := labelComponent(edges.Pix, labels, w, h, x, y, label)
			pts := traceBoundary(labels, w, h, label, st)
			if len(pts) >= 3 {
				contours = append(contours, Contour{
					Points:    pts,
					Area:      utils.PolygonArea(pts),
					Perimeter: utils.PolygonPerimeter(pts),
				})
			}
			label++
		}
	}
	return contours
}

// labelComponent flood-fills one 8-connected component and returns its
// bounding box.
func labelComponent(pix []uint8, labels []int32, w, h, sx, sy int, label int32) contourStats {
	st := contourStats{minX: sx, minY: sy, maxX: sx, maxY: sy}
	stack := []int{sy*w + sx}
	labels[sy*w+sx] = label

	for len(stack) > 0 {
		i := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		cx, cy := i%w, i/w

		if cx < st.minX {
			st.minX = cx
		}
		if cy < st.minY {
			st.minY = cy
		}
		if cx > st.maxX {
			st.maxX = cx
		}
		if cy > st.maxY {
			st.maxY = cy
		}

		for dy := -1; dy <= 1; dy++ {
			for dx := -1; dx <= 1; dx++ {
				nx, ny := cx+dx, cy+dy
				if nx < 0 || ny < 0 || nx >= w || ny >= h {
					continue
				}
				ni := ny*w + nx
				if pix[ni] != 0 && labels[ni] == 0 {
					labels[ni] = label
					stack = append(stack, ni)
				}
			}
		}
	}
	return st
}

// traceBoundary extracts the outer boundary polygon of a labeled component
// using Moore-neighbor tracing. Collinear intermediate points are merged as
// they are added, so straight runs contribute only their endpoints.
func traceBoundary(labels []int32, w, h int, label int32, st contourStats) []utils.Point {
	sx, sy := findStartPixel(labels, w, h, label, st)
	if sx == -1 {
		return nil
	}

	pts := make([]utils.Point, 0, 64)
	addPoint := func(x, y int) {
		p := utils.Point{X: float64(x), Y: float64(y)}
		n := len(pts)
		if n >= 2 {
			a := pts[n-2]
			b := pts[n-1]
			v1x, v1y := b.X-a.X, b.Y-a.Y
			v2x, v2y := p.X-b.X, p.Y-b.Y
			if v1x*v2y-v1y*v2x == 0 {
				pts = pts[:n-1]
			}
		}
		pts = append(pts, p)
	}

	cx, cy := sx, sy
	bx, by := sx-1, sy // backtrack starts to the left of the start pixel
	addPoint(cx, cy)

	// The walk is deterministic in (pixel, backtrack), so the first repeated
	// state marks one full traversal of the boundary. This also stops on
	// open 1px curves, where the start state is a transient the walk never
	// returns to. maxSteps is a backstop only.
	stateKey := func(cx, cy, bx, by int) int64 {
		return int64(cy*w+cx)*int64((w+2)*(h+2)) + int64((by+1)*(w+2)+(bx+1))
	}
	seen := make(map[int64]struct{}, 64)
	seen[stateKey(cx, cy, bx, by)] = struct{}{}
	maxSteps := w*h*4 + 8

	for steps := 0; steps < maxSteps; steps++ {
		nx, ny, nbx, nby, found := nextBoundaryPixel(labels, w, h, label, cx, cy, bx, by)
		if !found {
			break
		}
		key := stateKey(nx, ny, nbx, nby)
		if _, done := seen[key]; done {
			break
		}
		seen[key] = struct{}{}
		bx, by = nbx, nby
		cx, cy = nx, ny

		if len(pts) == 0 || pts[len(pts)-1].X != float64(cx) || pts[len(pts)-1].Y != float64(cy) {
			addPoint(cx, cy)
		}
	}

	// Drop the duplicated closing point if present.
	if len(pts) >= 2 && pts[0] == pts[len(pts)-1] {
		pts = pts[:len(pts)-1]
	}
	return pts
}

func findStartPixel(labels []int32, w, h int, label int32, st contourStats) (int, int) {
	for y := st.minY; y <= st.maxY; y++ {
		for x := st.minX; x <= st.maxX; x++ {
			if labels[y*w+x] == label {
				return x, y
			}
		}
	}
	return -1, -1
}

// nextBoundaryPixel scans the Moore neighborhood clockwise starting after
// the backtrack position and returns the next pixel of the component.
func nextBoundaryPixel(labels []int32, w, h int, label int32, cx, cy, bx, by int) (int, int, int, int, bool) {
	isLabel := func(x, y int) bool {
		if x < 0 || y < 0 || x >= w || y >= h {
			return false
		}
		return labels[y*w+x] == label
	}

	// 8-neighborhood clockwise order: E, SE, S, SW, W, NW, N, NE
	ndx := [8]int{1, 1, 0, -1, -1, -1, 0, 1}
	ndy := [8]int{0, 1, 1, 1, 0, -1, -1, -1}

	dirIndex := func(dx, dy int) int {
		for i := 0; i < 8; i++ {
			if ndx[i] == dx && ndy[i] == dy {
				return i
			}
		}
		return 0
	}

	start := (dirIndex(bx-cx, by-cy) + 1) % 8
	for k := 0; k < 8; k++ {
		i := (start + k) % 8
		tx, ty := cx+ndx[i], cy+ndy[i]
		if isLabel(tx, ty) {
			// The new backtrack is the last background neighbor examined
			// before this hit; the stop criterion compares against it.
			return tx, ty, bx, by, true
		}
		bx, by = tx, ty
	}
	return 0, 0, bx, by, false
}
