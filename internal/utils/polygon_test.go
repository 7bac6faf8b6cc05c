package utils

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rect(x, y, w, h float64) []Point {
	return []Point{
		{X: x, Y: y},
		{X: x + w, Y: y},
		{X: x + w, Y: y + h},
		{X: x, Y: y + h},
	}
}

func TestPolygonArea(t *testing.T) {
	assert.InDelta(t, 200, PolygonArea(rect(0, 0, 20, 10)), 1e-9)

	// Orientation does not matter.
	r := rect(0, 0, 20, 10)
	reversed := []Point{r[3], r[2], r[1], r[0]}
	assert.InDelta(t, 200, PolygonArea(reversed), 1e-9)

	// Triangle.
	tri := []Point{{X: 0, Y: 0}, {X: 10, Y: 0}, {X: 0, Y: 10}}
	assert.InDelta(t, 50, PolygonArea(tri), 1e-9)

	assert.Zero(t, PolygonArea(nil))
	assert.Zero(t, PolygonArea([]Point{{X: 1, Y: 1}, {X: 2, Y: 2}}))
}

func TestPolygonPerimeter(t *testing.T) {
	assert.InDelta(t, 60, PolygonPerimeter(rect(0, 0, 20, 10)), 1e-9)
	assert.Zero(t, PolygonPerimeter([]Point{{X: 1, Y: 1}}))
}

func TestIsConvexQuadrilateral(t *testing.T) {
	assert.True(t, IsConvexQuadrilateral(rect(0, 0, 10, 10)))

	// Reversed winding is still convex.
	r := rect(0, 0, 10, 10)
	assert.True(t, IsConvexQuadrilateral([]Point{r[3], r[2], r[1], r[0]}))

	// Arrowhead: one reflex vertex.
	concave := []Point{{X: 0, Y: 0}, {X: 10, Y: 0}, {X: 2, Y: 2}, {X: 0, Y: 10}}
	assert.False(t, IsConvexQuadrilateral(concave))

	// A collinear vertex is tolerated.
	degenerate := []Point{{X: 0, Y: 0}, {X: 5, Y: 0}, {X: 10, Y: 0}, {X: 5, Y: 10}}
	assert.True(t, IsConvexQuadrilateral(degenerate))

	assert.False(t, IsConvexQuadrilateral(rect(0, 0, 10, 10)[:3]))
}

func TestApproxPolyClosedRectangle(t *testing.T) {
	// A densely sampled rectangle boundary reduces to its 4 corners,
	// regardless of where the sampling starts.
	var dense []Point
	for x := 0; x <= 100; x += 2 {
		dense = append(dense, Point{X: float64(x), Y: 0})
	}
	for y := 2; y <= 60; y += 2 {
		dense = append(dense, Point{X: 100, Y: float64(y)})
	}
	for x := 98; x >= 0; x -= 2 {
		dense = append(dense, Point{X: float64(x), Y: 60})
	}
	for y := 58; y >= 2; y -= 2 {
		dense = append(dense, Point{X: 0, Y: float64(y)})
	}

	for _, start := range []int{0, 7, 31, len(dense) / 2} {
		rotated := append(append([]Point(nil), dense[start:]...), dense[:start]...)
		got := ApproxPolyClosed(rotated, 2.0)
		require.Len(t, got, 4, "start offset %d", start)
		assert.InDelta(t, 6000, PolygonArea(got), 1, "start offset %d", start)
	}
}

func TestFarthestPairLargeInput(t *testing.T) {
	// A 1-pixel-step rectangle boundary, well above the exact-scan limit.
	var dense []Point
	for x := 0; x <= 400; x++ {
		dense = append(dense, Point{X: float64(x), Y: 0})
	}
	for y := 1; y <= 300; y++ {
		dense = append(dense, Point{X: 400, Y: float64(y)})
	}
	for x := 399; x >= 0; x-- {
		dense = append(dense, Point{X: float64(x), Y: 300})
	}
	for y := 299; y >= 1; y-- {
		dense = append(dense, Point{X: 0, Y: float64(y)})
	}
	require.Greater(t, len(dense), farthestPairExactLimit)

	i, j := farthestPair(dense)
	d := math.Sqrt(sqDist(dense[i], dense[j]))
	// The corners are directional extremes, so the approximation lands on
	// the true 300-400-500 diagonal.
	assert.InDelta(t, 500, d, 1e-9)

	got := ApproxPolyClosed(dense, 2.0)
	require.Len(t, got, 4)
	assert.InDelta(t, 400*300, PolygonArea(got), 1)
}

func TestApproxPolyClosedKeepsSmallInput(t *testing.T) {
	tri := []Point{{X: 0, Y: 0}, {X: 10, Y: 0}, {X: 0, Y: 10}}
	got := ApproxPolyClosed(tri, 5)
	assert.Equal(t, tri, got)
}

func TestApproxPolyClosedCollapsesNoise(t *testing.T) {
	// A jittered straight-ish quad keeps only the dominant corners.
	pts := []Point{
		{X: 0, Y: 0},
		{X: 50, Y: 0.5}, // jitter on the top edge
		{X: 100, Y: 0},
		{X: 100, Y: 50},
		{X: 0, Y: 50},
	}
	got := ApproxPolyClosed(pts, 2.0)
	assert.Len(t, got, 4)
}
