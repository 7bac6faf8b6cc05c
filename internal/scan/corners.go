package scan

import (
	"math"

	"github.com/MeKo-Tech/docscan/internal/utils"
)

// OrderCorners arranges four quadrilateral vertices into top-left,
// top-right, bottom-right, bottom-left order. The corner with the smallest
// coordinate sum is top-left and the largest is bottom-right; of the
// remaining two, the smaller y-x difference is top-right. The heuristic
// holds for documents rotated less than 45 degrees in the frame.
func OrderCorners(pts [4]utils.Point) [4]utils.Point {
	sumMin, sumMax := 0, 0
	for i := 1; i < 4; i++ {
		if sum(pts[i]) < sum(pts[sumMin]) {
			sumMin = i
		}
		if sum(pts[i]) > sum(pts[sumMax]) {
			sumMax = i
		}
	}

	rest := make([]int, 0, 2)
	for i := 0; i < 4; i++ {
		if i != sumMin && i != sumMax {
			rest = append(rest, i)
		}
	}
	tr, bl := rest[0], rest[1]
	if diff(pts[tr]) > diff(pts[bl]) {
		tr, bl = bl, tr
	}

	return [4]utils.Point{pts[sumMin], pts[tr], pts[sumMax], pts[bl]}
}

func sum(p utils.Point) float64  { return p.X + p.Y }
func diff(p utils.Point) float64 { return p.Y - p.X }

// targetSize derives the output rectangle for an ordered quad: width is the
// longer of the two horizontal edges, height the longer of the two vertical
// edges, each rounded to the nearest pixel.
func targetSize(q [4]utils.Point) (int, int) {
	top := utils.Hypot(q[0], q[1])
	bottom := utils.Hypot(q[3], q[2])
	left := utils.Hypot(q[0], q[3])
	right := utils.Hypot(q[1], q[2])

	w := int(math.Round(math.Max(top, bottom)))
	h := int(math.Round(math.Max(left, right)))
	return w, h
}
