/*
Copyright © 2026 the rastervec authors.
This file is part of rastervec.

rastervec is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

rastervec is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with rastervec.  If not, see <http://www.gnu.org/licenses/>.
*/

package rastervec

import (
	"errors"
	"math"
	"testing"

	"github.com/ctessum/geom"
)

func TestPoints(t *testing.T) {
	r := testRaster(t, 2, []float64{10, 20, 30, 40})
	pts := Points(r, false)
	if len(pts) != 4 {
		t.Fatalf("want 4 points, got %d", len(pts))
	}
	want := []struct {
		x, y, v float64
	}{
		{0.5, 1.5, 10}, {1.5, 1.5, 20}, {0.5, 0.5, 30}, {1.5, 0.5, 40},
	}
	for i, w := range want {
		p := pts[i].Geom.(geom.Point)
		if different(p.X, w.x) || different(p.Y, w.y) || different(pts[i].Value, w.v) {
			t.Errorf("point %d: want (%g,%g)=%g, got (%g,%g)=%g",
				i, w.x, w.y, w.v, p.X, p.Y, pts[i].Value)
		}
	}
}

func TestPointsSkipNoData(t *testing.T) {
	r := testRaster(t, 2, []float64{10, 20, 30, 40})
	if err := r.SetNoData(-999); err != nil {
		t.Fatal(err)
	}
	r.Data.Set(-999, 1, 1)
	pts := Points(r, true)
	if len(pts) != 3 {
		t.Errorf("want 3 points, got %d", len(pts))
	}
}

// Converting a raster to points and burning the points back onto the
// same grid must reproduce the original values.
func TestPointsRoundTrip(t *testing.T) {
	r := sequentialRaster(t, 4)
	out, err := Rasterize(Points(r, false), r.Template(), RasterizeOptions{})
	if err != nil {
		t.Fatal(err)
	}
	for i := range r.Data.Elements {
		if different(out.Data.Elements[i], r.Data.Elements[i]) {
			t.Fatalf("round trip changed values: want %v, got %v",
				r.Data.Elements, out.Data.Elements)
		}
	}
}

func TestPolygonsQuadrants(t *testing.T) {
	r := testRaster(t, 4, []float64{
		1, 1, 2, 2,
		1, 1, 2, 2,
		3, 3, 4, 4,
		3, 3, 4, 4,
	})
	polys := Polygons(r)
	if len(polys) != 4 {
		t.Fatalf("want 4 regions, got %d", len(polys))
	}
	// Regions appear in order of their first cell, row-major.
	for i, wantVal := range []float64{1, 2, 3, 4} {
		if different(polys[i].Value, wantVal) {
			t.Errorf("region %d: want value %g, got %g", i, wantVal, polys[i].Value)
		}
		poly := polys[i].Geom.(geom.Polygon)
		if len(poly) != 1 {
			t.Errorf("region %d: want a single ring, got %d", i, len(poly))
		}
		if a := math.Abs(poly.Area()); different(a, 4) {
			t.Errorf("region %d: want area 4, got %g", i, a)
		}
	}
	// Each quadrant outline is a plain 2×2 square.
	b := polys[0].Geom.Bounds()
	if different(b.Min.X, 0) || different(b.Max.X, 2) ||
		different(b.Min.Y, 2) || different(b.Max.Y, 4) {
		t.Errorf("first region bounds: got %+v", b)
	}

	// Burning the polygons back with their values reproduces the grid.
	out, err := Rasterize(polys, r.Template(), RasterizeOptions{})
	if err != nil {
		t.Fatal(err)
	}
	for i := range r.Data.Elements {
		if different(out.Data.Elements[i], r.Data.Elements[i]) {
			t.Fatalf("round trip changed values: want %v, got %v",
				r.Data.Elements, out.Data.Elements)
		}
	}
}

func TestPolygonsDissolve(t *testing.T) {
	// All cells share one value, so the whole raster dissolves into a
	// single square.
	r := testRaster(t, 4, []float64{
		7, 7, 7, 7,
		7, 7, 7, 7,
		7, 7, 7, 7,
		7, 7, 7, 7,
	})
	polys := Polygons(r)
	if len(polys) != 1 {
		t.Fatalf("want 1 region, got %d", len(polys))
	}
	poly := polys[0].Geom.(geom.Polygon)
	if len(poly) != 1 || len(poly[0]) != 5 {
		t.Errorf("want one 4-corner ring, got %d rings with %d points", len(poly), len(poly[0]))
	}
	if a := math.Abs(poly.Area()); different(a, 16) {
		t.Errorf("want area 16, got %g", a)
	}
}

func TestPolygonsHole(t *testing.T) {
	r := testRaster(t, 3, []float64{
		1, 1, 1,
		1, 5, 1,
		1, 1, 1,
	})
	polys := Polygons(r)
	if len(polys) != 2 {
		t.Fatalf("want 2 regions, got %d", len(polys))
	}
	ring := polys[0].Geom.(geom.Polygon)
	if len(ring) != 2 {
		t.Errorf("ring region: want an outer ring and a hole, got %d rings", len(ring))
	}
	center := polys[1].Geom.(geom.Polygon)
	if len(center) != 1 {
		t.Errorf("center region: want a single ring, got %d rings", len(center))
	}

	out, err := Rasterize(polys, r.Template(), RasterizeOptions{})
	if err != nil {
		t.Fatal(err)
	}
	for i := range r.Data.Elements {
		if different(out.Data.Elements[i], r.Data.Elements[i]) {
			t.Fatalf("round trip changed values: want %v, got %v",
				r.Data.Elements, out.Data.Elements)
		}
	}
}

func TestPolygonsDiagonal(t *testing.T) {
	// Diagonal neighbors are not 4-connected, so the two 2s are
	// separate regions.
	r := testRaster(t, 2, []float64{
		2, 1,
		1, 2,
	})
	polys := Polygons(r)
	if len(polys) != 4 {
		t.Errorf("want 4 regions, got %d", len(polys))
	}
}

func TestPolygonsNoData(t *testing.T) {
	r := testRaster(t, 2, []float64{1, 1, 1, 1})
	if err := r.SetNoData(-999); err != nil {
		t.Fatal(err)
	}
	r.Data.Set(-999, 1, 0)
	polys := Polygons(r)
	if len(polys) != 1 {
		t.Fatalf("want 1 region, got %d", len(polys))
	}
	// The no-data cell belongs to no region.
	out, err := Rasterize(polys, r.Template(), RasterizeOptions{Fill: math.NaN()})
	if err != nil {
		t.Fatal(err)
	}
	if !math.IsNaN(out.Data.Get(1, 0)) {
		t.Errorf("no-data cell was covered by a polygon: got %g", out.Data.Get(1, 0))
	}
}

func TestContours(t *testing.T) {
	// Values increase left to right, constant within each column.
	r := testRaster(t, 4, []float64{
		0, 1, 2, 3,
		0, 1, 2, 3,
		0, 1, 2, 3,
		0, 1, 2, 3,
	})
	lines, err := Contours(r, []float64{1.5})
	if err != nil {
		t.Fatal(err)
	}
	if len(lines) != 1 {
		t.Fatalf("want 1 contour line, got %d", len(lines))
	}
	c := lines[0]
	if different(c.Level, 1.5) {
		t.Errorf("level: want 1.5, got %g", c.Level)
	}
	// The iso-line is vertical at x=2, spanning the pixel centers of
	// the first and last rows.
	for _, p := range c.Line {
		if different(p.X, 2) {
			t.Errorf("contour point off the iso-line: %+v", p)
		}
	}
	ys := []float64{c.Line[0].Y, c.Line[len(c.Line)-1].Y}
	lo, hi := math.Min(ys[0], ys[1]), math.Max(ys[0], ys[1])
	if different(lo, 0.5) || different(hi, 3.5) {
		t.Errorf("contour extent: want y from 0.5 to 3.5, got %g to %g", lo, hi)
	}
}

func TestContoursMultipleLevels(t *testing.T) {
	r := testRaster(t, 4, []float64{
		0, 1, 2, 3,
		0, 1, 2, 3,
		0, 1, 2, 3,
		0, 1, 2, 3,
	})
	lines, err := Contours(r, []float64{0.5, 1.5, 2.5})
	if err != nil {
		t.Fatal(err)
	}
	if len(lines) != 3 {
		t.Fatalf("want 3 contour lines, got %d", len(lines))
	}
	for i, wantX := range []float64{1, 2, 3} {
		for _, p := range lines[i].Line {
			if different(p.X, wantX) {
				t.Errorf("level %g point off the iso-line: %+v", lines[i].Level, p)
			}
		}
	}
}

func TestContoursErrors(t *testing.T) {
	r := sequentialRaster(t, 4)
	if _, err := Contours(r, []float64{2, 1}); !errors.Is(err, ErrInvalidParameter) {
		t.Errorf("unordered levels: want ErrInvalidParameter, got %v", err)
	}
	if _, err := Contours(r, []float64{1, 1}); !errors.Is(err, ErrInvalidParameter) {
		t.Errorf("repeated levels: want ErrInvalidParameter, got %v", err)
	}
}
