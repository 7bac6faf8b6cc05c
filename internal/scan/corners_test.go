package scan

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MeKo-Tech/docscan/internal/utils"
)

func TestOrderCorners(t *testing.T) {
	tl := utils.Point{X: 200, Y: 300}
	tr := utils.Point{X: 800, Y: 300}
	br := utils.Point{X: 800, Y: 700}
	bl := utils.Point{X: 200, Y: 700}
	want := [4]utils.Point{tl, tr, br, bl}

	permutations := [][4]utils.Point{
		{tl, tr, br, bl},
		{tr, br, bl, tl},
		{br, bl, tl, tr},
		{bl, tl, tr, br},
		{bl, br, tr, tl},
		{tr, tl, bl, br},
		{br, tr, tl, bl},
	}

	for i, perm := range permutations {
		got := OrderCorners(perm)
		assert.Equal(t, want, got, "permutation %d", i)
	}
}

func TestOrderCornersTilted(t *testing.T) {
	// A quad rotated well under 45 degrees keeps its roles.
	tl := utils.Point{X: 120, Y: 80}
	tr := utils.Point{X: 520, Y: 140}
	br := utils.Point{X: 470, Y: 460}
	bl := utils.Point{X: 90, Y: 410}

	got := OrderCorners([4]utils.Point{br, tl, bl, tr})
	assert.Equal(t, [4]utils.Point{tl, tr, br, bl}, got)
}

func TestTargetSize(t *testing.T) {
	// Axis-aligned rectangle: exact dimensions.
	q := [4]utils.Point{
		{X: 200, Y: 300},
		{X: 800, Y: 300},
		{X: 800, Y: 700},
		{X: 200, Y: 700},
	}
	w, h := targetSize(q)
	assert.Equal(t, 600, w)
	assert.Equal(t, 400, h)
}

func TestTargetSizeTrapezoid(t *testing.T) {
	// Perspective-foreshortened quad: the longer opposing edge wins.
	q := [4]utils.Point{
		{X: 100, Y: 0},
		{X: 400, Y: 0},   // top edge 300
		{X: 500, Y: 200}, // bottom edge 500
		{X: 0, Y: 200},
	}
	w, h := targetSize(q)
	assert.Equal(t, 500, w)
	require.GreaterOrEqual(t, h, 200)
}
