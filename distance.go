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
	"github.com/ctessum/geom/op"
	"github.com/ctessum/geom/proj"
)

// DistanceOptions control DistanceRaster.
type DistanceOptions struct {
	// Mask, if non-nil, must share t's shape; cells that are no-data
	// in Mask become no-data in the output instead of a distance.
	Mask *Raster

	// SR is the spatial reference of the target geometries. If both
	// it and the template's SR are set they must match.
	SR *proj.SR
}

// DistanceRaster fills a raster on template t where each cell holds the
// planar distance from the cell's centroid to the nearest of the target
// geometries, in the coordinate units of the template. Cells whose
// centroid lies on or inside a target have distance zero.
func DistanceRaster(t *GridTemplate, targets []geom.Geom, o DistanceOptions) (*Raster, error) {
	if len(targets) == 0 {
		return nil, ErrEmptySelector
	}
	if err := t.checkCRS(o.SR); err != nil {
		return nil, err
	}
	if o.Mask != nil && (o.Mask.Nx != t.Nx || o.Mask.Ny != t.Ny) {
		return nil, ErrInvalidExtent
	}
	out := NewConstantRaster(t, 0)
	if o.Mask != nil && o.Mask.HasNoData {
		out.NoData = o.Mask.NoData
		out.HasNoData = true
	}
	for row := 0; row < t.Ny; row++ {
		for col := 0; col < t.Nx; col++ {
			if o.Mask != nil && o.Mask.IsNoData(o.Mask.Data.Get(row, col)) {
				out.Data.Set(out.noDataMarker(), row, col)
				continue
			}
			x, y := t.PixelToWorld(row, col)
			pt := geom.Point{X: x, Y: y}
			d := math.Inf(1)
			for _, target := range targets {
				dt, err := pointGeomDistance(pt, target)
				if err != nil {
					return nil, err
				}
				if dt < d {
					d = dt
				}
			}
			out.Data.Set(d, row, col)
		}
	}
	return out, nil
}

// pointGeomDistance returns the planar distance from pt to the nearest
// part of g. Points on or inside a polygon have distance zero.
func pointGeomDistance(pt geom.Point, g geom.Geom) (float64, error) {
	switch gg := g.(type) {
	case geom.Point:
		return op.Distance(pt, gg), nil
	case geom.MultiPoint:
		d := math.Inf(1)
		for _, p := range gg {
			d = math.Min(d, op.Distance(pt, p))
		}
		return d, nil
	case geom.LineString:
		return pointLineDistance(pt, gg), nil
	case geom.MultiLineString:
		d := math.Inf(1)
		for _, l := range gg {
			d = math.Min(d, pointLineDistance(pt, l))
		}
		return d, nil
	case geom.Polygonal:
		if pt.Within(gg) != geom.Outside {
			return 0, nil
		}
		d := math.Inf(1)
		for _, poly := range gg.Polygons() {
			for _, ring := range poly {
				// Rings may be stored open; walk the segments
				// cyclically so the closing edge is included.
				for i := range ring {
					j := (i + 1) % len(ring)
					d = math.Min(d, pointSegmentDistance(pt, ring[i], ring[j]))
				}
			}
		}
		return d, nil
	default:
		return 0, fmt.Errorf("%w: unsupported distance target type %T", ErrInvalidGeometry, g)
	}
}

// pointLineDistance returns the distance from pt to the nearest point
// on the polyline, closing single-vertex degenerate lines to a point.
func pointLineDistance(pt geom.Point, line geom.LineString) float64 {
	if len(line) == 1 {
		return math.Hypot(pt.X-line[0].X, pt.Y-line[0].Y)
	}
	d := math.Inf(1)
	for i := 0; i < len(line)-1; i++ {
		d = math.Min(d, pointSegmentDistance(pt, line[i], line[i+1]))
	}
	return d
}

func pointSegmentDistance(p, a, b geom.Point) float64 {
	vx, vy := b.X-a.X, b.Y-a.Y
	wx, wy := p.X-a.X, p.Y-a.Y
	c1 := wx*vx + wy*vy
	if c1 <= 0 {
		return math.Hypot(wx, wy)
	}
	c2 := vx*vx + vy*vy
	if c2 <= c1 {
		return math.Hypot(p.X-b.X, p.Y-b.Y)
	}
	f := c1 / c2
	return math.Hypot(p.X-(a.X+f*vx), p.Y-(a.Y+f*vy))
}
