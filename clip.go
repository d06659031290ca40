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
	"fmt"

	"github.com/ctessum/geom"
	"github.com/ctessum/geom/index/rtree"
	"github.com/ctessum/geom/proj"
	"github.com/ctessum/sparse"
)

// MaskOptions configures Mask.
type MaskOptions struct {
	// Fill is the value assigned to pixels outside the selector (or
	// inside it, when Invert is set). It becomes the output raster's
	// no-data sentinel.
	Fill float64

	// Invert fills the pixels inside the selector instead of the
	// pixels outside it.
	Invert bool

	// AllTouched selects every pixel whose area overlaps a selector
	// polygon rather than only pixels whose center falls inside one.
	AllTouched bool

	// SR is the spatial reference of the selector polygons, checked
	// against the raster's when both are defined.
	SR *proj.SR
}

// CropOptions configures Crop.
type CropOptions struct {
	// AllTouched widens the selection rule as in MaskOptions.
	AllTouched bool

	// Mask additionally fills pixels inside the cropped window that
	// fail the polygon test with Fill, combining crop and mask in one
	// step.
	Mask bool

	// Fill is the fill and no-data value used when Mask is set.
	Fill float64

	// SR is the spatial reference of the selector polygons.
	SR *proj.SR
}

// polySelector indexes a set of selector polygons for repeated
// point-in-polygon and overlap queries.
type polySelector struct {
	tree   *rtree.Rtree
	bounds *geom.Bounds
}

func newPolySelector(polys []geom.Polygonal) (*polySelector, error) {
	if len(polys) == 0 {
		return nil, ErrEmptySelector
	}
	s := &polySelector{
		tree:   rtree.NewTree(25, 50),
		bounds: geom.NewBounds(),
	}
	for i, p := range polys {
		if p == nil {
			return nil, fmt.Errorf("%w: selector polygon %d is nil", ErrInvalidGeometry, i)
		}
		s.tree.Insert(p)
		s.bounds.Extend(p.Bounds())
	}
	return s, nil
}

// newSingleTree indexes a single polygon, for operations that select
// cells per polygon rather than against a combined selector.
func newSingleTree(p geom.Polygonal) *rtree.Rtree {
	t := rtree.NewTree(25, 50)
	t.Insert(p)
	return t
}

// containsCenter reports whether pt falls inside (or on the edge of)
// any selector polygon.
func (s *polySelector) containsCenter(pt geom.Point) bool {
	for _, pI := range s.tree.SearchIntersect(pt.Bounds()) {
		if pt.Within(pI.(geom.Polygonal)) != geom.Outside {
			return true
		}
	}
	return false
}

// touches reports whether the cell polygon overlaps any selector
// polygon.
func (s *polySelector) touches(cell geom.Polygon) bool {
	for _, pI := range s.tree.SearchIntersect(cell.Bounds()) {
		if cell.Intersection(pI.(geom.Polygonal)).Area() > 0 {
			return true
		}
	}
	return false
}

// selected applies the configured pixel-matching rule to one pixel.
func (s *polySelector) selected(t *GridTemplate, row, col int, allTouched bool) bool {
	if allTouched {
		return s.touches(t.CellPolygon(row, col))
	}
	x, y := t.PixelToWorld(row, col)
	return s.containsCenter(geom.Point{X: x, Y: y})
}

// Mask returns a copy of r where every pixel whose representative point
// falls outside the union of polys (or inside it, with o.Invert) is set
// to o.Fill, which also becomes the result's no-data value. The output
// has the same shape and transform as the input; masking never resizes.
//
// Mask fails with ErrEmptySelector when polys is empty and with
// ErrNoDataCollision when a retained pixel already holds o.Fill, since
// that pixel would be indistinguishable from a masked one.
func Mask(r *Raster, polys []geom.Polygonal, o MaskOptions) (*Raster, error) {
	if err := r.checkCRS(o.SR); err != nil {
		return nil, err
	}
	sel, err := newPolySelector(polys)
	if err != nil {
		return nil, err
	}

	out := &Raster{
		GridTemplate: r.GridTemplate.Copy(),
		Data:         r.Data.Copy(),
		NoData:       o.Fill,
		HasNoData:    true,
	}
	w := r.pixelWindow(sel.bounds)
	for row := 0; row < r.Ny; row++ {
		for col := 0; col < r.Nx; col++ {
			inWindow := row >= w.row0 && row < w.row1 && col >= w.col0 && col < w.col1
			in := inWindow && sel.selected(r.GridTemplate, row, col, o.AllTouched)
			if in != o.Invert { // pixel is retained
				if v := r.Data.Get(row, col); v == o.Fill && !r.IsNoData(v) {
					return nil, fmt.Errorf("%w: fill value %g occurs in retained data at pixel (%d,%d)",
						ErrNoDataCollision, o.Fill, row, col)
				}
				continue
			}
			out.Data.Set(o.Fill, row, col)
		}
	}
	return out, nil
}

// Crop slices r to the smallest pixel-aligned window covering the
// combined extent of polys intersected with the raster's extent, and
// anchors a new transform at the window's origin. With o.Mask set,
// pixels within the window that fail the polygon test are additionally
// set to o.Fill (crop and mask combined).
//
// Crop fails with ErrEmptySelector when polys is empty and with
// ErrEmptyIntersection when the selector extent does not overlap the
// raster extent at all, rather than returning a zero-size raster.
func Crop(r *Raster, polys []geom.Polygonal, o CropOptions) (*Raster, error) {
	if err := r.checkCRS(o.SR); err != nil {
		return nil, err
	}
	sel, err := newPolySelector(polys)
	if err != nil {
		return nil, err
	}
	if !sel.bounds.Overlaps(r.Bounds()) {
		return nil, fmt.Errorf("%w: selector bounds %+v vs raster bounds %+v",
			ErrEmptyIntersection, sel.bounds, r.Bounds())
	}
	w := r.pixelWindow(sel.bounds)
	if w.empty() {
		return nil, fmt.Errorf("%w: selector bounds %+v cover no pixels", ErrEmptyIntersection, sel.bounds)
	}

	nx, ny := w.col1-w.col0, w.row1-w.row0
	x0, y0 := r.cornerToWorld(float64(w.col0), float64(w.row0))
	gt := r.GT
	gt[0], gt[3] = x0, y0
	t, err := NewTemplate(nx, ny, gt, r.SR)
	if err != nil {
		return nil, err
	}

	data := sparse.ZerosDense(ny, nx)
	for row := 0; row < ny; row++ {
		for col := 0; col < nx; col++ {
			data.Set(r.Data.Get(row+w.row0, col+w.col0), row, col)
		}
	}
	out := &Raster{GridTemplate: t, Data: data, NoData: r.NoData, HasNoData: r.HasNoData}

	if o.Mask {
		for row := 0; row < ny; row++ {
			for col := 0; col < nx; col++ {
				if !sel.selected(t, row, col, o.AllTouched) {
					out.Data.Set(o.Fill, row, col)
				}
			}
		}
		out.NoData = o.Fill
		out.HasNoData = true
	}
	return out, nil
}
