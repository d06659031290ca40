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

package reproj

import (
	"fmt"
	"math"

	"github.com/ctessum/geom"

	"github.com/spatialmodel/rastervec"
)

// Resampling selects how Warp assigns source values to destination
// cells.
type Resampling int

const (
	// ResampleNearest takes the source cell containing the
	// destination cell's center.
	ResampleNearest Resampling = iota

	// ResampleBilinear interpolates among the four source cell
	// centers surrounding the destination cell's center.
	ResampleBilinear

	// ResampleAverage averages the source cells covered by the
	// destination cell, which suits downsampling continuous data.
	ResampleAverage

	// ResampleMode takes the most frequent source value among the
	// covered cells, which suits categorical data.
	ResampleMode
)

// ParseResampling converts a resampling algorithm name to its value.
func ParseResampling(name string) (Resampling, error) {
	switch name {
	case "", "nearest":
		return ResampleNearest, nil
	case "bilinear":
		return ResampleBilinear, nil
	case "average":
		return ResampleAverage, nil
	case "mode":
		return ResampleMode, nil
	}
	return 0, fmt.Errorf("reproj: unknown resampling algorithm %q: %w",
		name, rastervec.ErrInvalidParameter)
}

// Warp resamples r onto the grid described by dst, transforming
// between coordinate systems when the two differ. Destination cells
// falling outside the source extent become no-data; the output carries
// the source's sentinel, or NaN when the source has none.
func Warp(r *rastervec.Raster, dst *rastervec.GridTemplate, alg Resampling) (*rastervec.Raster, error) {
	out := rastervec.NewConstantRaster(dst, 0)
	if r.HasNoData {
		out.NoData = r.NoData
	} else {
		out.NoData = math.NaN()
	}
	out.HasNoData = true

	switch alg {
	case ResampleNearest, ResampleBilinear:
		return warpPoints(r, dst, out, alg)
	case ResampleAverage, ResampleMode:
		return warpZones(r, dst, out, alg)
	}
	return nil, fmt.Errorf("reproj: unknown resampling algorithm %d: %w",
		alg, rastervec.ErrInvalidParameter)
}

func warpPoints(r *rastervec.Raster, dst *rastervec.GridTemplate, out *rastervec.Raster, alg Resampling) (*rastervec.Raster, error) {
	centers := make([]geom.Point, 0, dst.Nx*dst.Ny)
	for row := 0; row < dst.Ny; row++ {
		for col := 0; col < dst.Nx; col++ {
			x, y := dst.PixelToWorld(row, col)
			centers = append(centers, geom.Point{X: x, Y: y})
		}
	}
	if !Equal(dst.SR, r.SR) && dst.SR != nil && r.SR != nil {
		trans, err := dst.SR.NewTransform(r.SR)
		if err != nil {
			return nil, fmt.Errorf("reproj: creating transform: %w", err)
		}
		for i, pt := range centers {
			g, err := pt.Transform(trans)
			if err != nil {
				return nil, fmt.Errorf("reproj: transforming cell center: %w", err)
			}
			centers[i] = g.(geom.Point)
		}
	}
	interp := rastervec.InterpNearest
	if alg == ResampleBilinear {
		interp = rastervec.InterpBilinear
	}
	vals, err := rastervec.SamplePoints(r, centers, rastervec.SampleOptions{Interpolation: interp})
	if err != nil {
		return nil, err
	}
	for i, v := range vals {
		if math.IsNaN(v) && !math.IsNaN(out.NoData) {
			v = out.NoData
		}
		out.Data.Elements[i] = v
	}
	return out, nil
}

func warpZones(r *rastervec.Raster, dst *rastervec.GridTemplate, out *rastervec.Raster, alg Resampling) (*rastervec.Raster, error) {
	cells := make([]geom.Polygonal, 0, dst.Nx*dst.Ny)
	for row := 0; row < dst.Ny; row++ {
		for col := 0; col < dst.Nx; col++ {
			cells = append(cells, dst.CellPolygon(row, col))
		}
	}
	if !Equal(dst.SR, r.SR) && dst.SR != nil && r.SR != nil {
		var err error
		if cells, err = Polygons(cells, dst.SR, r.SR); err != nil {
			return nil, err
		}
	}
	stat := "mean"
	if alg == ResampleMode {
		stat = "majority"
	}
	res, err := rastervec.ZonalStats(r, cells, rastervec.ZonalOptions{
		Stats: []string{stat}, AllTouched: true,
	})
	if err != nil {
		return nil, err
	}
	for i, m := range res {
		v := m[stat]
		if math.IsNaN(v) && !math.IsNaN(out.NoData) {
			v = out.NoData
		}
		out.Data.Elements[i] = v
	}
	return out, nil
}
