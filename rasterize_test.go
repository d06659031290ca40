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

func TestRasterizePolygons(t *testing.T) {
	tmpl := testTemplate(t, 4)
	pairs := []ValueGeom{
		{Geom: square(0, 3, 1, 4), Value: 5}, // cell (0,0)
		{Geom: square(3, 0, 4, 1), Value: 7}, // cell (3,3)
	}
	out, err := Rasterize(pairs, tmpl, RasterizeOptions{})
	if err != nil {
		t.Fatal(err)
	}
	if different(out.Data.Get(0, 0), 5) || different(out.Data.Get(3, 3), 7) {
		t.Errorf("burned values: got %g and %g", out.Data.Get(0, 0), out.Data.Get(3, 3))
	}
	if different(out.Data.Sum(), 12) {
		t.Errorf("untouched pixels not left at fill: sum %g", out.Data.Sum())
	}

	// With disjoint geometries the merge mode makes no difference.
	added, err := Rasterize(pairs, tmpl, RasterizeOptions{Merge: MergeAdd})
	if err != nil {
		t.Fatal(err)
	}
	for i := range out.Data.Elements {
		if different(out.Data.Elements[i], added.Data.Elements[i]) {
			t.Fatal("replace and add disagree on disjoint geometries")
		}
	}
}

func TestRasterizeMergeModes(t *testing.T) {
	tmpl := testTemplate(t, 4)
	// Both polygons cover cell (1,1); the second also covers (1,2).
	a := ValueGeom{Geom: square(1, 2, 2, 3), Value: 5}
	b := ValueGeom{Geom: square(1, 2, 3, 3), Value: 9}

	out, err := Rasterize([]ValueGeom{a, b}, tmpl, RasterizeOptions{Merge: MergeReplace})
	if err != nil {
		t.Fatal(err)
	}
	if different(out.Data.Get(1, 1), 9) {
		t.Errorf("replace: shared pixel should hold the last value 9, got %g", out.Data.Get(1, 1))
	}

	sum, err := Rasterize([]ValueGeom{a, b}, tmpl, RasterizeOptions{Merge: MergeAdd})
	if err != nil {
		t.Fatal(err)
	}
	if different(sum.Data.Get(1, 1), 14) {
		t.Errorf("add: shared pixel should hold 14, got %g", sum.Data.Get(1, 1))
	}
	if different(sum.Data.Get(1, 2), 9) {
		t.Errorf("add: unshared pixel should hold 9, got %g", sum.Data.Get(1, 2))
	}

	// Addition is order-independent.
	rev, err := Rasterize([]ValueGeom{b, a}, tmpl, RasterizeOptions{Merge: MergeAdd})
	if err != nil {
		t.Fatal(err)
	}
	for i := range sum.Data.Elements {
		if different(sum.Data.Elements[i], rev.Data.Elements[i]) {
			t.Fatal("add merge is order-dependent")
		}
	}
}

func TestRasterizePoints(t *testing.T) {
	tmpl := testTemplate(t, 4)
	pairs := []ValueGeom{
		{Geom: geom.Point{X: 2.5, Y: 2.5}, Value: 3},           // cell (1,2)
		{Geom: geom.MultiPoint{{X: 0.5, Y: 0.5}}, Value: 4},    // cell (3,0)
		{Geom: geom.Point{X: 10, Y: 10}, Value: 8},             // off grid, ignored
	}
	out, err := Rasterize(pairs, tmpl, RasterizeOptions{})
	if err != nil {
		t.Fatal(err)
	}
	if different(out.Data.Get(1, 2), 3) || different(out.Data.Get(3, 0), 4) {
		t.Errorf("point burns: got %g and %g", out.Data.Get(1, 2), out.Data.Get(3, 0))
	}
	if different(out.Data.Sum(), 7) {
		t.Errorf("unexpected extra burns: sum %g", out.Data.Sum())
	}
}

func TestRasterizeLine(t *testing.T) {
	tmpl := testTemplate(t, 4)
	line := geom.LineString{{X: 0.5, Y: 3.5}, {X: 3.5, Y: 3.5}}
	out, err := Rasterize([]ValueGeom{{Geom: line, Value: 1}}, tmpl, RasterizeOptions{})
	if err != nil {
		t.Fatal(err)
	}
	for col := 0; col < 4; col++ {
		if different(out.Data.Get(0, col), 1) {
			t.Errorf("line missed pixel (0,%d)", col)
		}
	}
	if different(out.Data.Sum(), 4) {
		t.Errorf("line burned extra pixels: sum %g", out.Data.Sum())
	}

	diag := geom.LineString{{X: 0.5, Y: 3.5}, {X: 3.5, Y: 0.5}}
	out, err = Rasterize([]ValueGeom{{Geom: diag, Value: 1}}, tmpl, RasterizeOptions{})
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 4; i++ {
		if different(out.Data.Get(i, i), 1) {
			t.Errorf("diagonal missed pixel (%d,%d)", i, i)
		}
	}
}

func TestRasterizeAllTouched(t *testing.T) {
	tmpl := testTemplate(t, 4)
	// Overlaps four cells but contains only the center of (0,0).
	poly := square(0.4, 2.6, 1.4, 3.6)

	out, err := Rasterize([]ValueGeom{{Geom: poly, Value: 1}}, tmpl, RasterizeOptions{})
	if err != nil {
		t.Fatal(err)
	}
	if different(out.Data.Sum(), 1) {
		t.Errorf("center rule: want 1 burned pixel, got sum %g", out.Data.Sum())
	}

	out, err = Rasterize([]ValueGeom{{Geom: poly, Value: 1}}, tmpl, RasterizeOptions{AllTouched: true})
	if err != nil {
		t.Fatal(err)
	}
	if different(out.Data.Sum(), 4) {
		t.Errorf("all-touched: want 4 burned pixels, got sum %g", out.Data.Sum())
	}
}

func TestRasterizeAllTouchedEdgeContact(t *testing.T) {
	tmpl := testTemplate(t, 4)
	// Exactly coincides with cell (1,1); edge-sharing neighbors must
	// not be burned.
	poly := square(1, 2, 2, 3)
	out, err := Rasterize([]ValueGeom{{Geom: poly, Value: 1}}, tmpl, RasterizeOptions{AllTouched: true})
	if err != nil {
		t.Fatal(err)
	}
	if different(out.Data.Sum(), 1) {
		t.Errorf("want 1 burned pixel, got sum %g", out.Data.Sum())
	}
	if different(out.Data.Get(1, 1), 1) {
		t.Errorf("pixel (1,1): want 1, got %g", out.Data.Get(1, 1))
	}
}

func TestRasterizeNaNFill(t *testing.T) {
	tmpl := testTemplate(t, 4)
	pairs := []ValueGeom{{Geom: square(0, 3, 1, 4), Value: 5}}
	out, err := Rasterize(pairs, tmpl, RasterizeOptions{Fill: math.NaN()})
	if err != nil {
		t.Fatal(err)
	}
	if !out.HasNoData || !math.IsNaN(out.NoData) {
		t.Error("NaN fill should mark unburned pixels as no-data")
	}
	if n := out.ValidCount(); n != 1 {
		t.Errorf("valid count: want 1, got %d", n)
	}
}

func TestRasterizeErrors(t *testing.T) {
	tmpl := testTemplate(t, 4)
	_, err := Rasterize([]ValueGeom{{Geom: square(0, 0, 1, 1), Value: 1}}, tmpl,
		RasterizeOptions{Merge: MergeMode(7)})
	if !errors.Is(err, ErrInvalidParameter) {
		t.Errorf("unknown merge mode: want ErrInvalidParameter, got %v", err)
	}
	_, err = Rasterize([]ValueGeom{{Geom: nil, Value: 1}}, tmpl, RasterizeOptions{})
	if !errors.Is(err, ErrInvalidGeometry) {
		t.Errorf("nil geometry: want ErrInvalidGeometry, got %v", err)
	}
	_, err = Rasterize([]ValueGeom{{Geom: geom.GeometryCollection{}, Value: 1}}, tmpl, RasterizeOptions{})
	if !errors.Is(err, ErrInvalidGeometry) {
		t.Errorf("unsupported type: want ErrInvalidGeometry, got %v", err)
	}
}
