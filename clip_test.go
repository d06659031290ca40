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
	"testing"

	"github.com/ctessum/geom"
)

func square(x0, y0, x1, y1 float64) geom.Polygon {
	return geom.Polygon{{
		{X: x0, Y: y0}, {X: x1, Y: y0}, {X: x1, Y: y1}, {X: x0, Y: y1}, {X: x0, Y: y0},
	}}
}

func TestMask(t *testing.T) {
	r := sequentialRaster(t, 4) // values 1..16
	// Covers the four center cells, rows 1-2 × cols 1-2.
	sel := []geom.Polygonal{square(1, 1, 3, 3)}
	out, err := Mask(r, sel, MaskOptions{Fill: -1})
	if err != nil {
		t.Fatal(err)
	}
	if out.Nx != r.Nx || out.Ny != r.Ny || out.GT != r.GT {
		t.Error("masking changed the raster's shape or transform")
	}
	if !out.HasNoData || different(out.NoData, -1) {
		t.Errorf("no-data sentinel: want -1, got %g (set %v)", out.NoData, out.HasNoData)
	}
	if n := out.ValidCount(); n != 4 {
		t.Errorf("valid count: want 4, got %d", n)
	}
	for _, c := range [][2]int{{1, 1}, {1, 2}, {2, 1}, {2, 2}} {
		want := r.Data.Get(c[0], c[1])
		if got := out.Data.Get(c[0], c[1]); different(got, want) {
			t.Errorf("retained pixel (%d,%d): want %g, got %g", c[0], c[1], want, got)
		}
	}
	if got := out.Data.Get(0, 0); different(got, -1) {
		t.Errorf("masked pixel (0,0): want -1, got %g", got)
	}
	// The input is untouched.
	if different(r.Data.Get(0, 0), 1) {
		t.Error("masking mutated the input raster")
	}
}

func TestMaskInvert(t *testing.T) {
	r := sequentialRaster(t, 4)
	sel := []geom.Polygonal{square(1, 1, 3, 3)}
	out, err := Mask(r, sel, MaskOptions{Fill: -1, Invert: true})
	if err != nil {
		t.Fatal(err)
	}
	if n := out.ValidCount(); n != 12 {
		t.Errorf("valid count: want 12, got %d", n)
	}
	if got := out.Data.Get(1, 1); different(got, -1) {
		t.Errorf("inverted mask kept interior pixel (1,1): got %g", got)
	}
	if got := out.Data.Get(0, 0); different(got, 1) {
		t.Errorf("inverted mask lost exterior pixel (0,0): got %g", got)
	}
}

func TestMaskErrors(t *testing.T) {
	r := sequentialRaster(t, 4)
	if _, err := Mask(r, nil, MaskOptions{Fill: -1}); !errors.Is(err, ErrEmptySelector) {
		t.Errorf("empty selector: want ErrEmptySelector, got %v", err)
	}
	// 7 is the value of retained pixel (1,2), so using it as the fill
	// would make that pixel indistinguishable from a masked one.
	sel := []geom.Polygonal{square(1, 1, 3, 3)}
	if _, err := Mask(r, sel, MaskOptions{Fill: 7}); !errors.Is(err, ErrNoDataCollision) {
		t.Errorf("colliding fill: want ErrNoDataCollision, got %v", err)
	}
}

func TestMaskAllTouched(t *testing.T) {
	r := sequentialRaster(t, 4)
	// Strictly inside cell (1,1) only, so center-based selection keeps
	// one pixel but all-touched still keeps just that cell.
	inner := []geom.Polygonal{square(1.2, 2.2, 1.8, 2.8)}
	out, err := Mask(r, inner, MaskOptions{Fill: -1, AllTouched: true})
	if err != nil {
		t.Fatal(err)
	}
	if n := out.ValidCount(); n != 1 {
		t.Errorf("valid count: want 1, got %d", n)
	}
	// Offset to overlap four cells while containing only one center.
	overlapping := []geom.Polygonal{square(1.2, 2.2, 2.1, 3.1)}
	out, err = Mask(r, overlapping, MaskOptions{Fill: -1, AllTouched: true})
	if err != nil {
		t.Fatal(err)
	}
	if n := out.ValidCount(); n != 4 {
		t.Errorf("all-touched valid count: want 4, got %d", n)
	}
	out, err = Mask(r, overlapping, MaskOptions{Fill: -1})
	if err != nil {
		t.Fatal(err)
	}
	if n := out.ValidCount(); n != 1 {
		t.Errorf("center-rule valid count: want 1, got %d", n)
	}
}

func TestMaskAllTouchedEdgeContact(t *testing.T) {
	r := sequentialRaster(t, 4)
	// Exactly coincides with cell (1,1); the neighboring cells share
	// only a boundary edge, which is not an overlap.
	sel := []geom.Polygonal{square(1, 2, 2, 3)}
	out, err := Mask(r, sel, MaskOptions{Fill: -1, AllTouched: true})
	if err != nil {
		t.Fatal(err)
	}
	if n := out.ValidCount(); n != 1 {
		t.Errorf("valid count: want 1, got %d", n)
	}
	if got := out.Data.Get(1, 1); different(got, r.Data.Get(1, 1)) {
		t.Errorf("retained pixel (1,1): want %g, got %g", r.Data.Get(1, 1), got)
	}
}

func TestCrop(t *testing.T) {
	r := sequentialRaster(t, 4)
	sel := []geom.Polygonal{square(1, 1, 3, 3)}
	out, err := Crop(r, sel, CropOptions{})
	if err != nil {
		t.Fatal(err)
	}
	if out.Nx != 2 || out.Ny != 2 {
		t.Fatalf("cropped shape: want 2×2, got %d×%d", out.Nx, out.Ny)
	}
	wantGT := [6]float64{1, 1, 0, 3, 0, -1}
	if out.GT != wantGT {
		t.Errorf("cropped transform: want %v, got %v", wantGT, out.GT)
	}
	want := []float64{6, 7, 10, 11}
	for i, w := range want {
		if different(out.Data.Elements[i], w) {
			t.Errorf("cropped values: want %v, got %v", want, out.Data.Elements)
			break
		}
	}
	b := out.Bounds()
	if different(b.Min.X, 1) || different(b.Min.Y, 1) ||
		different(b.Max.X, 3) || different(b.Max.Y, 3) {
		t.Errorf("cropped bounds: got %+v", b)
	}
}

func TestCropPartialCells(t *testing.T) {
	r := sequentialRaster(t, 4)
	// Extends partway into neighboring cells; the window widens to
	// whole pixels covering the full selector extent.
	sel := []geom.Polygonal{square(1.5, 1.5, 2.5, 2.5)}
	out, err := Crop(r, sel, CropOptions{})
	if err != nil {
		t.Fatal(err)
	}
	if out.Nx != 2 || out.Ny != 2 {
		t.Errorf("cropped shape: want 2×2, got %d×%d", out.Nx, out.Ny)
	}
	if different(out.GT[0], 1) || different(out.GT[3], 3) {
		t.Errorf("cropped origin: want (1,3), got (%g,%g)", out.GT[0], out.GT[3])
	}
}

func TestCropMask(t *testing.T) {
	r := sequentialRaster(t, 4)
	// Covers cell (1,1) and part of (1,2), but only (1,1)'s center.
	sel := []geom.Polygonal{square(1, 2, 2.2, 3)}
	out, err := Crop(r, sel, CropOptions{Mask: true, Fill: -9})
	if err != nil {
		t.Fatal(err)
	}
	if out.Nx != 2 || out.Ny != 1 {
		t.Fatalf("cropped shape: want 2×1, got %d×%d", out.Nx, out.Ny)
	}
	if different(out.Data.Get(0, 0), 6) {
		t.Errorf("kept pixel: want 6, got %g", out.Data.Get(0, 0))
	}
	if different(out.Data.Get(0, 1), -9) {
		t.Errorf("masked pixel: want -9, got %g", out.Data.Get(0, 1))
	}
	if !out.HasNoData || different(out.NoData, -9) {
		t.Errorf("no-data sentinel: want -9, got %g (set %v)", out.NoData, out.HasNoData)
	}
}

func TestCropEmptyIntersection(t *testing.T) {
	r := sequentialRaster(t, 4)
	sel := []geom.Polygonal{square(10, 10, 11, 11)}
	if _, err := Crop(r, sel, CropOptions{}); !errors.Is(err, ErrEmptyIntersection) {
		t.Errorf("disjoint selector: want ErrEmptyIntersection, got %v", err)
	}
	if _, err := Crop(r, nil, CropOptions{}); !errors.Is(err, ErrEmptySelector) {
		t.Errorf("empty selector: want ErrEmptySelector, got %v", err)
	}
}
