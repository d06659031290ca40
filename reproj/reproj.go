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

// Package reproj reconciles spatial references between rasters and
// vector data, transforming geometries and resampling rasters from one
// grid to another.
package reproj

import (
	"fmt"

	"github.com/ctessum/geom"
	"github.com/ctessum/geom/proj"

	"github.com/spatialmodel/rastervec"
)

// Equal reports whether two spatial references describe the same
// coordinate system. A nil reference matches nothing but another nil.
func Equal(a, b *proj.SR) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.Equal(b, 10)
}

// Geometry transforms g from src to dst coordinates. When the two
// references are equal (or either is nil) the geometry is returned
// unchanged.
func Geometry(g geom.Geom, src, dst *proj.SR) (geom.Geom, error) {
	if src == nil || dst == nil || Equal(src, dst) {
		return g, nil
	}
	trans, err := src.NewTransform(dst)
	if err != nil {
		return nil, fmt.Errorf("reproj: creating transform: %w", err)
	}
	gg, err := g.Transform(trans)
	if err != nil {
		return nil, fmt.Errorf("reproj: transforming geometry: %w", err)
	}
	return gg, nil
}

// Geometries transforms a set of (geometry, value) pairs from src to
// dst coordinates, sharing one transform across the set.
func Geometries(pairs []rastervec.ValueGeom, src, dst *proj.SR) ([]rastervec.ValueGeom, error) {
	if src == nil || dst == nil || Equal(src, dst) {
		return pairs, nil
	}
	trans, err := src.NewTransform(dst)
	if err != nil {
		return nil, fmt.Errorf("reproj: creating transform: %w", err)
	}
	out := make([]rastervec.ValueGeom, len(pairs))
	for i, p := range pairs {
		gg, err := p.Geom.Transform(trans)
		if err != nil {
			return nil, fmt.Errorf("reproj: transforming geometry %d: %w", i, err)
		}
		out[i] = rastervec.ValueGeom{Geom: gg, Value: p.Value}
	}
	return out, nil
}

// Polygons transforms selector polygons from src to dst coordinates.
func Polygons(polys []geom.Polygonal, src, dst *proj.SR) ([]geom.Polygonal, error) {
	if src == nil || dst == nil || Equal(src, dst) {
		return polys, nil
	}
	trans, err := src.NewTransform(dst)
	if err != nil {
		return nil, fmt.Errorf("reproj: creating transform: %w", err)
	}
	out := make([]geom.Polygonal, len(polys))
	for i, p := range polys {
		gg, err := p.Transform(trans)
		if err != nil {
			return nil, fmt.Errorf("reproj: transforming polygon %d: %w", i, err)
		}
		poly, ok := gg.(geom.Polygonal)
		if !ok {
			return nil, fmt.Errorf("reproj: polygon %d transformed into %T: %w",
				i, gg, rastervec.ErrInvalidGeometry)
		}
		out[i] = poly
	}
	return out, nil
}

// Template derives a grid template in dst coordinates covering the
// same area as t at an equivalent resolution. The transformed extent
// is generally not axis-aligned, so the result covers its bounding
// box, sized to preserve t's pixel counts.
func Template(t *rastervec.GridTemplate, dst *proj.SR) (*rastervec.GridTemplate, error) {
	if t.SR == nil || dst == nil || Equal(t.SR, dst) {
		return t.Copy(), nil
	}
	trans, err := t.SR.NewTransform(dst)
	if err != nil {
		return nil, fmt.Errorf("reproj: creating transform: %w", err)
	}
	ext, err := t.Extent().Transform(trans)
	if err != nil {
		return nil, fmt.Errorf("reproj: transforming extent: %w", err)
	}
	b := ext.Bounds()
	dx := (b.Max.X - b.Min.X) / float64(t.Nx)
	dy := (b.Max.Y - b.Min.Y) / float64(t.Ny)
	return rastervec.TemplateFromBounds(b, dx, dy, dst)
}
