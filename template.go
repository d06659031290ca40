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
	"math"
	"sync"

	"github.com/ctessum/geom"
	"github.com/ctessum/geom/index/rtree"
	"github.com/ctessum/geom/proj"
)

// GridTemplate describes the geometry of a regular grid: its shape, its
// affine transform, and optionally its spatial reference. Transform
// coefficients follow the GDAL ordering, mapping pixel (column, row) to
// world (x, y):
//
//	x = GT[0] + col*GT[1] + row*GT[2]
//	y = GT[3] + col*GT[4] + row*GT[5]
//
// so that GT[0] and GT[3] are the world coordinates of the top-left
// corner of the top-left pixel. Rotated or skewed transforms are
// allowed; the transform must be invertible.
//
// A GridTemplate is immutable once constructed and may be shared among
// operations and goroutines.
type GridTemplate struct {
	Nx, Ny int // number of columns and rows
	GT     [6]float64
	SR     *proj.SR // may be nil when the grid has no defined reference

	cellOnce sync.Once
	cellTree *rtree.Rtree
}

// gridCell is one grid cell's polygon, held in the template's spatial
// index for all-touched matching.
type gridCell struct {
	geom.Polygonal
	Row, Col int
}

// NewTemplate creates a grid template with the given shape and
// transform. It fails with ErrInvalidExtent if the shape is not
// positive or the transform is not invertible.
func NewTemplate(nx, ny int, gt [6]float64, sr *proj.SR) (*GridTemplate, error) {
	if nx <= 0 || ny <= 0 {
		return nil, fmt.Errorf("%w: grid shape %d×%d is not positive", ErrInvalidExtent, nx, ny)
	}
	if det := gt[1]*gt[5] - gt[2]*gt[4]; det == 0 {
		return nil, fmt.Errorf("%w: transform %v is not invertible", ErrInvalidExtent, gt)
	}
	return &GridTemplate{Nx: nx, Ny: ny, GT: gt, SR: sr}, nil
}

// TemplateFromBounds creates an axis-aligned, north-up grid template
// covering b at the given x- and y-resolution, anchored at the top-left
// corner. The number of columns is ceil(x-extent/dx) and the number of
// rows is ceil(y-extent/dy), so the grid covers at least the requested
// bounds. It fails with ErrInvalidExtent when the resolution is not
// positive or the bounds are degenerate.
func TemplateFromBounds(b *geom.Bounds, dx, dy float64, sr *proj.SR) (*GridTemplate, error) {
	if dx <= 0 || dy <= 0 {
		return nil, fmt.Errorf("%w: resolution %g×%g is not positive", ErrInvalidExtent, dx, dy)
	}
	if b == nil || b.Max.X <= b.Min.X || b.Max.Y <= b.Min.Y {
		return nil, fmt.Errorf("%w: degenerate bounds %+v", ErrInvalidExtent, b)
	}
	nx := int(math.Ceil((b.Max.X - b.Min.X) / dx))
	ny := int(math.Ceil((b.Max.Y - b.Min.Y) / dy))
	gt := [6]float64{b.Min.X, dx, 0, b.Max.Y, 0, -dy}
	return NewTemplate(nx, ny, gt, sr)
}

// Dx returns the template's x-direction cell size, and Dy the
// y-direction cell size. For rotated transforms these are the lengths
// of the cell edge vectors.
func (t *GridTemplate) Dx() float64 { return math.Hypot(t.GT[1], t.GT[4]) }

// Dy returns the template's y-direction cell size.
func (t *GridTemplate) Dy() float64 { return math.Hypot(t.GT[2], t.GT[5]) }

// Copy returns a copy of t that shares no mutable state with the
// original.
func (t *GridTemplate) Copy() *GridTemplate {
	return &GridTemplate{Nx: t.Nx, Ny: t.Ny, GT: t.GT, SR: t.SR}
}

// cornerToWorld maps a continuous pixel coordinate, measured from the
// grid's top-left corner, to world coordinates.
func (t *GridTemplate) cornerToWorld(col, row float64) (x, y float64) {
	x = t.GT[0] + col*t.GT[1] + row*t.GT[2]
	y = t.GT[3] + col*t.GT[4] + row*t.GT[5]
	return x, y
}

// PixelToWorld returns the world coordinates of the centroid of the
// pixel at the given row and column.
func (t *GridTemplate) PixelToWorld(row, col int) (x, y float64) {
	return t.cornerToWorld(float64(col)+0.5, float64(row)+0.5)
}

// worldToContinuous inverts the affine transform, returning continuous
// pixel coordinates measured from the grid's top-left corner, so that
// the pixel at (row, col) covers rows [row, row+1) and columns
// [col, col+1).
func (t *GridTemplate) worldToContinuous(x, y float64) (row, col float64) {
	det := t.GT[1]*t.GT[5] - t.GT[2]*t.GT[4]
	u := x - t.GT[0]
	v := y - t.GT[3]
	col = (t.GT[5]*u - t.GT[2]*v) / det
	row = (t.GT[1]*v - t.GT[4]*u) / det
	return row, col
}

// WorldToPixel returns the indices of the pixel containing the world
// coordinate (x, y). A coordinate exactly on the grid's lower or right
// edge is clamped into the last row or column; other out-of-grid
// coordinates produce out-of-range indices, which callers must check
// with InGrid.
func (t *GridTemplate) WorldToPixel(x, y float64) (row, col int) {
	fr, fc := t.worldToContinuous(x, y)
	row = int(math.Floor(fr))
	col = int(math.Floor(fc))
	if fr == float64(t.Ny) {
		row = t.Ny - 1
	}
	if fc == float64(t.Nx) {
		col = t.Nx - 1
	}
	return row, col
}

// InGrid reports whether the given pixel indices lie within the grid.
func (t *GridTemplate) InGrid(row, col int) bool {
	return row >= 0 && row < t.Ny && col >= 0 && col < t.Nx
}

// CellPolygon returns the polygon covering the pixel at the given row
// and column.
func (t *GridTemplate) CellPolygon(row, col int) geom.Polygon {
	c, r := float64(col), float64(row)
	x0, y0 := t.cornerToWorld(c, r)
	x1, y1 := t.cornerToWorld(c+1, r)
	x2, y2 := t.cornerToWorld(c+1, r+1)
	x3, y3 := t.cornerToWorld(c, r+1)
	return geom.Polygon{{
		{X: x0, Y: y0}, {X: x1, Y: y1}, {X: x2, Y: y2}, {X: x3, Y: y3}, {X: x0, Y: y0},
	}}
}

// Bounds returns the world-coordinate extent of the grid.
func (t *GridTemplate) Bounds() *geom.Bounds {
	b := geom.NewBounds()
	nx, ny := float64(t.Nx), float64(t.Ny)
	for _, c := range [][2]float64{{0, 0}, {nx, 0}, {nx, ny}, {0, ny}} {
		x, y := t.cornerToWorld(c[0], c[1])
		b.Extend(geom.NewBoundsPoint(geom.Point{X: x, Y: y}))
	}
	return b
}

// Extent returns the grid's extent as a polygon.
func (t *GridTemplate) Extent() geom.Polygon {
	nx, ny := float64(t.Nx), float64(t.Ny)
	x0, y0 := t.cornerToWorld(0, 0)
	x1, y1 := t.cornerToWorld(nx, 0)
	x2, y2 := t.cornerToWorld(nx, ny)
	x3, y3 := t.cornerToWorld(0, ny)
	return geom.Polygon{{
		{X: x0, Y: y0}, {X: x1, Y: y1}, {X: x2, Y: y2}, {X: x3, Y: y3}, {X: x0, Y: y0},
	}}
}

// cells returns a spatial index over all cell polygons in the grid,
// building it on first use.
func (t *GridTemplate) cells() *rtree.Rtree {
	t.cellOnce.Do(func() {
		t.cellTree = rtree.NewTree(25, 50)
		for row := 0; row < t.Ny; row++ {
			for col := 0; col < t.Nx; col++ {
				t.cellTree.Insert(&gridCell{
					Polygonal: t.CellPolygon(row, col),
					Row:       row, Col: col,
				})
			}
		}
	})
	return t.cellTree
}

// window is a rectangular block of pixels within a grid.
type window struct {
	row0, col0 int // inclusive
	row1, col1 int // exclusive
}

func (w window) empty() bool { return w.row1 <= w.row0 || w.col1 <= w.col0 }

// pixelWindow returns the smallest pixel window covering the
// world-coordinate bounds b, intersected with the grid.
func (t *GridTemplate) pixelWindow(b *geom.Bounds) window {
	r0, c0 := t.worldToContinuous(b.Min.X, b.Min.Y)
	r1, c1 := t.worldToContinuous(b.Min.X, b.Max.Y)
	r2, c2 := t.worldToContinuous(b.Max.X, b.Min.Y)
	r3, c3 := t.worldToContinuous(b.Max.X, b.Max.Y)
	rMin := math.Min(math.Min(r0, r1), math.Min(r2, r3))
	rMax := math.Max(math.Max(r0, r1), math.Max(r2, r3))
	cMin := math.Min(math.Min(c0, c1), math.Min(c2, c3))
	cMax := math.Max(math.Max(c0, c1), math.Max(c2, c3))
	w := window{
		row0: int(math.Floor(rMin)),
		col0: int(math.Floor(cMin)),
		row1: int(math.Ceil(rMax)),
		col1: int(math.Ceil(cMax)),
	}
	if w.row0 < 0 {
		w.row0 = 0
	}
	if w.col0 < 0 {
		w.col0 = 0
	}
	if w.row1 > t.Ny {
		w.row1 = t.Ny
	}
	if w.col1 > t.Nx {
		w.col1 = t.Nx
	}
	return w
}

// checkCRS verifies that the spatial reference of an input geometry set
// matches the template's. The check only applies when both references
// are defined; a nil reference on either side is treated as an opaque
// "trust the caller" marker, matching the behavior of file formats that
// carry no projection information.
func (t *GridTemplate) checkCRS(sr *proj.SR) error {
	if sr == nil || t.SR == nil {
		return nil
	}
	if !t.SR.Equal(sr, 10) {
		return fmt.Errorf("%w: geometry reference %q does not match grid reference %q",
			ErrCRSMismatch, sr.Name, t.SR.Name)
	}
	return nil
}
