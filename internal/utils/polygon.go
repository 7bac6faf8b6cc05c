package utils

import "math"

// PolygonArea returns the absolute enclosed area of a closed polygon using
// the shoelace formula. Points are taken in order; the closing edge from the
// last point back to the first is implicit.
func PolygonArea(pts []Point) float64 {
	if len(pts) < 3 {
		return 0
	}
	sum := 0.0
	for i := range pts {
		a := pts[i]
		b := pts[(i+1)%len(pts)]
		sum += a.X*b.Y - b.X*a.Y
	}
	return math.Abs(sum) * 0.5
}

// PolygonPerimeter returns the closed arc length of a polygon.
func PolygonPerimeter(pts []Point) float64 {
	if len(pts) < 2 {
		return 0
	}
	sum := 0.0
	for i := range pts {
		sum += Hypot(pts[i], pts[(i+1)%len(pts)])
	}
	return sum
}

// IsConvexQuadrilateral reports whether the 4 points, taken in order, form a
// convex quadrilateral. The cross products of consecutive edges must not
// change sign; collinear vertices are tolerated.
func IsConvexQuadrilateral(pts []Point) bool {
	if len(pts) != 4 {
		return false
	}
	pos, neg := false, false
	for i := 0; i < 4; i++ {
		o := pts[i]
		a := pts[(i+1)%4]
		b := pts[(i+2)%4]
		c := cross(o, a, b)
		if c > 0 {
			pos = true
		} else if c < 0 {
			neg = true
		}
	}
	return !(pos && neg)
}

// ApproxPolyClosed reduces a closed contour to a polygon using the
// Douglas-Peucker algorithm with the given tolerance epsilon. The chain is
// anchored at the two mutually farthest vertices so that the arbitrary
// starting point of a traced contour does not survive as a spurious vertex.
func ApproxPolyClosed(pts []Point, epsilon float64) []Point {
	if len(pts) <= 3 || epsilon <= 0 {
		return append([]Point(nil), pts...)
	}

	i0, i1 := farthestPair(pts)
	keep := make([]bool, len(pts))
	keep[i0] = true
	keep[i1] = true

	// Simplify the two chains between the anchors independently. The second
	// chain wraps around the end of the slice; rotate indices to keep the
	// recursion over a contiguous range.
	rotated := make([]Point, 0, len(pts)+1)
	rotated = append(rotated, pts[i0:]...)
	rotated = append(rotated, pts[:i0+1]...)
	split := (i1 - i0 + len(pts)) % len(pts)

	keepRot := make([]bool, len(rotated))
	keepRot[0] = true
	keepRot[split] = true
	keepRot[len(rotated)-1] = true
	dpSimplify(rotated, 0, split, epsilon, keepRot)
	dpSimplify(rotated, split, len(rotated)-1, epsilon, keepRot)

	out := make([]Point, 0, 8)
	// Skip the duplicated closing vertex at the end of the rotation.
	for i := 0; i < len(rotated)-1; i++ {
		if keepRot[i] {
			out = append(out, rotated[i])
		}
	}
	return out
}

// farthestPairExactLimit caps the quadratic diameter scan. Noisy edge maps
// can produce contours with tens of thousands of points even after the
// collinearity merge; above the cap an extremes-seeded linear approximation
// keeps anchoring cheap.
const farthestPairExactLimit = 512

// farthestPair returns the indices of two points with maximal (or, for
// large inputs, near-maximal) pairwise distance.
func farthestPair(pts []Point) (int, int) {
	if len(pts) > farthestPairExactLimit {
		return approxFarthestPair(pts)
	}
	bi, bj := 0, 0
	best := -1.0
	for i := range pts {
		for j := i + 1; j < len(pts); j++ {
			if d := sqDist(pts[i], pts[j]); d > best {
				best = d
				bi, bj = i, j
			}
		}
	}
	return bi, bj
}

// approxFarthestPair seeds at the directional extremes of the point set and
// sweeps once from each seed. The true diameter endpoints lie on the convex
// hull, and the eight extremes bracket the hull closely enough to anchor the
// approximation; total work is linear in len(pts).
func approxFarthestPair(pts []Point) (int, int) {
	seeds := make([]int, 0, 8)
	addSeed := func(score func(Point) float64) {
		best := 0
		for i := range pts {
			if score(pts[i]) > score(pts[best]) {
				best = i
			}
		}
		seeds = append(seeds, best)
	}
	addSeed(func(p Point) float64 { return p.X })
	addSeed(func(p Point) float64 { return -p.X })
	addSeed(func(p Point) float64 { return p.Y })
	addSeed(func(p Point) float64 { return -p.Y })
	addSeed(func(p Point) float64 { return p.X + p.Y })
	addSeed(func(p Point) float64 { return -p.X - p.Y })
	addSeed(func(p Point) float64 { return p.X - p.Y })
	addSeed(func(p Point) float64 { return p.Y - p.X })

	bi, bj := 0, 0
	best := -1.0
	for _, s := range seeds {
		for j := range pts {
			if d := sqDist(pts[s], pts[j]); d > best {
				best = d
				bi, bj = s, j
			}
		}
	}
	return bi, bj
}

func sqDist(a, b Point) float64 {
	dx := a.X - b.X
	dy := a.Y - b.Y
	return dx*dx + dy*dy
}

func dpSimplify(pts []Point, start, end int, eps float64, keep []bool) {
	if end <= start+1 {
		return
	}
	maxDist := -1.0
	index := -1
	a := pts[start]
	b := pts[end]
	for i := start + 1; i < end; i++ {
		d := perpendicularDistance(pts[i], a, b)
		if d > maxDist {
			maxDist = d
			index = i
		}
	}
	if maxDist > eps {
		dpSimplify(pts, start, index, eps, keep)
		keep[index] = true
		dpSimplify(pts, index, end, eps, keep)
	}
}

func perpendicularDistance(p, a, b Point) float64 {
	// Distance from point p to segment ab
	vx, vy := b.X-a.X, b.Y-a.Y
	if vx == 0 && vy == 0 {
		dx, dy := p.X-a.X, p.Y-a.Y
		return math.Hypot(dx, dy)
	}
	num := math.Abs((p.X-a.X)*vy - (p.Y-a.Y)*vx)
	den := math.Hypot(vx, vy)
	return num / den
}

func cross(o, a, b Point) float64 {
	return (a.X-o.X)*(b.Y-o.Y) - (a.Y-o.Y)*(b.X-o.X)
}
