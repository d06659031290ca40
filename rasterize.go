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

	"github.com/ctessum/geom"
	"github.com/ctessum/geom/proj"
	"github.com/ctessum/sparse"
)

// ValueGeom pairs a geometry with the value to burn into pixels
// coinciding with it.
type ValueGeom struct {
	Geom  geom.Geom
	Value float64
}

// MergeMode selects how Rasterize resolves multiple values burned into
// the same pixel.
type MergeMode int

const (
	// MergeReplace burns later pairs over earlier ones: a shared pixel
	// gets the last burned value, so pair order matters.
	MergeReplace MergeMode = iota

	// MergeAdd sums all values burned into a pixel, independent of
	// pair order.
	MergeAdd
)

// RasterizeOptions configures Rasterize.
type RasterizeOptions struct {
	Merge MergeMode

	// AllTouched burns every pixel whose area intersects a geometry.
	// When unset, lines burn the pixels of a Bresenham-style traversal
	// and polygons burn pixels whose center they contain.
	AllTouched bool

	// Fill is the value assigned to unaffected pixels. A NaN fill
	// marks unaffected pixels as no-data in the output.
	Fill float64

	// SR is the spatial reference of the input geometries, checked
	// against the template's when both are defined.
	SR *proj.SR
}

// Rasterize burns an ordered sequence of (geometry, value) pairs onto
// the grid described by t. Point, line, and polygon geometries (and
// their multi-geometry counterparts) are supported; parts of a geometry
// outside the grid are ignored. Each geometry burns any given pixel at
// most once, so a pair's value is never double-counted under MergeAdd.
func Rasterize(pairs []ValueGeom, t *GridTemplate, o RasterizeOptions) (*Raster, error) {
	if err := t.checkCRS(o.SR); err != nil {
		return nil, err
	}
	if o.Merge != MergeReplace && o.Merge != MergeAdd {
		return nil, fmt.Errorf("%w: unknown merge mode %d", ErrInvalidParameter, o.Merge)
	}

	data := sparse.ZerosDense(t.Ny, t.Nx)
	if o.Fill != 0 {
		for i := range data.Elements {
			data.Elements[i] = o.Fill
		}
	}
	burned := make([]bool, len(data.Elements))

	for i, pair := range pairs {
		if pair.Geom == nil {
			return nil, fmt.Errorf("%w: geometry %d is nil", ErrInvalidGeometry, i)
		}
		pixels, err := t.pixelsForGeom(pair.Geom, o.AllTouched)
		if err != nil {
			return nil, fmt.Errorf("geometry %d: %w", i, err)
		}
		for idx := range pixels {
			if o.Merge == MergeAdd && burned[idx] {
				data.Elements[idx] += pair.Value
			} else {
				data.Elements[idx] = pair.Value
			}
			burned[idx] = true
		}
	}

	out := &Raster{GridTemplate: t.Copy(), Data: data}
	if math.IsNaN(o.Fill) {
		out.NoData = math.NaN()
		out.HasNoData = true
	}
	return out, nil
}

// pixelsForGeom returns the set of in-grid pixel indices (in the
// array's flat indexing) matched by g under the given matching rule.
func (t *GridTemplate) pixelsForGeom(g geom.Geom, allTouched bool) (map[int]struct{}, error) {
	pixels := make(map[int]struct{})
	switch gg := g.(type) {
	case geom.Point:
		t.pixelsForPoint(gg, allTouched, pixels)
	case geom.MultiPoint:
		for _, pt := range gg {
			t.pixelsForPoint(pt, allTouched, pixels)
		}
	case geom.LineString:
		t.pixelsForLine(gg, allTouched, pixels)
	case geom.MultiLineString:
		for _, l := range gg {
			t.pixelsForLine(l, allTouched, pixels)
		}
	case geom.Polygonal:
		t.pixelsForPolygon(gg, allTouched, pixels)
	default:
		return nil, fmt.Errorf("%w: unsupported geometry type %T", ErrInvalidGeometry, g)
	}
	return pixels, nil
}

func (t *GridTemplate) addPixel(row, col int, pixels map[int]struct{}) {
	if t.InGrid(row, col) {
		pixels[row*t.Nx+col] = struct{}{}
	}
}

func (t *GridTemplate) pixelsForPoint(pt geom.Point, allTouched bool, pixels map[int]struct{}) {
	if !allTouched {
		row, col := t.WorldToPixel(pt.X, pt.Y)
		t.addPixel(row, col, pixels)
		return
	}
	// A point on a shared cell edge touches every adjacent cell.
	for _, cI := range t.cells().SearchIntersect(pt.Bounds()) {
		c := cI.(*gridCell)
		if pt.Within(c.Polygonal) != geom.Outside {
			t.addPixel(c.Row, c.Col, pixels)
		}
	}
}

func (t *GridTemplate) pixelsForLine(line geom.LineString, allTouched bool, pixels map[int]struct{}) {
	if allTouched {
		for _, cI := range t.cells().SearchIntersect(line.Bounds()) {
			c := cI.(*gridCell)
			if clipped := line.Clip(c.Polygonal); clipped != nil && clipped.Length() > 0 {
				t.addPixel(c.Row, c.Col, pixels)
			} else if len(line) > 0 && line.Within(c.Polygonal) != geom.Outside {
				t.addPixel(c.Row, c.Col, pixels)
			}
		}
		return
	}
	for i := 0; i < len(line)-1; i++ {
		r0, c0 := t.worldToContinuous(line[i].X, line[i].Y)
		r1, c1 := t.worldToContinuous(line[i+1].X, line[i+1].Y)
		t.bresenham(int(math.Floor(c0)), int(math.Floor(r0)),
			int(math.Floor(c1)), int(math.Floor(r1)), pixels)
	}
}

// bresenham walks the integer grid line from (x0,y0) to (x1,y1),
// adding each visited in-grid cell. x is the column axis and y the row
// axis.
func (t *GridTemplate) bresenham(x0, y0, x1, y1 int, pixels map[int]struct{}) {
	dx := abs(x1 - x0)
	dy := -abs(y1 - y0)
	sx, sy := 1, 1
	if x0 > x1 {
		sx = -1
	}
	if y0 > y1 {
		sy = -1
	}
	err := dx + dy
	x, y := x0, y0
	for {
		t.addPixel(y, x, pixels)
		if x == x1 && y == y1 {
			return
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x += sx
		}
		if e2 <= dx {
			err += dx
			y += sy
		}
	}
}

func abs(a int) int {
	if a < 0 {
		return -a
	}
	return a
}

func (t *GridTemplate) pixelsForPolygon(poly geom.Polygonal, allTouched bool, pixels map[int]struct{}) {
	if allTouched {
		for _, cI := range t.cells().SearchIntersect(poly.Bounds()) {
			c := cI.(*gridCell)
			cell := c.Polygonal.(geom.Polygon)
			if cell.Intersection(poly).Area() > 0 {
				t.addPixel(c.Row, c.Col, pixels)
			}
		}
		return
	}
	w := t.pixelWindow(poly.Bounds())
	for row := w.row0; row < w.row1; row++ {
		for col := w.col0; col < w.col1; col++ {
			x, y := t.PixelToWorld(row, col)
			if (geom.Point{X: x, Y: y}).Within(poly) != geom.Outside {
				t.addPixel(row, col, pixels)
			}
		}
	}
}
