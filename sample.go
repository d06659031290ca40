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
	"sort"

	"github.com/ctessum/geom"
	"github.com/ctessum/geom/proj"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Interpolation selects how SamplePoints assigns cell values to query
// locations.
type Interpolation int

const (
	// InterpNearest returns the value of the pixel containing the query
	// point.
	InterpNearest Interpolation = iota

	// InterpBilinear returns the weighted average of the four pixels
	// whose centers surround the query point, the weights being the
	// products of the axis-wise linear interpolation factors. Queries
	// in the half-pixel border of the grid, where four surrounding
	// centers do not exist, fall back to nearest-neighbor.
	InterpBilinear
)

// SampleOptions configures point and line sampling.
type SampleOptions struct {
	Interpolation Interpolation

	// SR is the spatial reference of the query geometries, checked
	// against the raster's when both are defined.
	SR *proj.SR
}

// SamplePoints extracts one raster value per query point. Points
// outside the raster extent, and points whose value is the raster's
// no-data sentinel, yield the no-data marker: the raster's sentinel
// when it has one, NaN otherwise.
func SamplePoints(r *Raster, points []geom.Point, o SampleOptions) ([]float64, error) {
	if err := r.checkCRS(o.SR); err != nil {
		return nil, err
	}
	if o.Interpolation != InterpNearest && o.Interpolation != InterpBilinear {
		return nil, fmt.Errorf("%w: unknown interpolation %d", ErrInvalidParameter, o.Interpolation)
	}
	out := make([]float64, len(points))
	for i, pt := range points {
		out[i] = r.sampleOne(pt, o.Interpolation)
	}
	return out, nil
}

// noDataMarker is the value reported for missing observations in
// sampling results.
func (r *Raster) noDataMarker() float64 {
	if r.HasNoData {
		return r.NoData
	}
	return math.NaN()
}

func (r *Raster) sampleOne(pt geom.Point, interp Interpolation) float64 {
	if interp == InterpBilinear {
		if v, ok := r.sampleBilinear(pt); ok {
			return v
		}
	}
	row, col := r.WorldToPixel(pt.X, pt.Y)
	if !r.InGrid(row, col) {
		return r.noDataMarker()
	}
	v := r.Data.Get(row, col)
	if r.IsNoData(v) {
		return r.noDataMarker()
	}
	return v
}

// sampleBilinear interpolates among the four pixel centers surrounding
// pt. It reports ok=false at the raster border, where the caller falls
// back to nearest-neighbor.
func (r *Raster) sampleBilinear(pt geom.Point) (float64, bool) {
	fr, fc := r.worldToContinuous(pt.X, pt.Y)
	// Shift into center coordinates: pixel (row,col) has its center at
	// continuous coordinate (row+0.5, col+0.5).
	u, v := fc-0.5, fr-0.5
	col0, row0 := int(math.Floor(u)), int(math.Floor(v))
	if row0 < 0 || col0 < 0 || row0+1 >= r.Ny || col0+1 >= r.Nx {
		return 0, false
	}
	fu, fv := u-float64(col0), v-float64(row0)
	v00 := r.Data.Get(row0, col0)
	v01 := r.Data.Get(row0, col0+1)
	v10 := r.Data.Get(row0+1, col0)
	v11 := r.Data.Get(row0+1, col0+1)
	if r.IsNoData(v00) || r.IsNoData(v01) || r.IsNoData(v10) || r.IsNoData(v11) {
		return r.noDataMarker(), true
	}
	top := v00*(1-fu) + v01*fu
	bottom := v10*(1-fu) + v11*fu
	return top*(1-fv) + bottom*fv, true
}

// LineSample is one sampled location along a line.
type LineSample struct {
	// Distance is the location's distance from the start of the line.
	Distance float64
	Value    float64
}

// SampleLine resamples line into points spaced spacing apart, starting
// at distance 0 and not overshooting the line's length, then samples
// the raster at each point. The spacing must be positive.
func SampleLine(r *Raster, line geom.LineString, spacing float64, o SampleOptions) ([]LineSample, error) {
	if spacing <= 0 {
		return nil, fmt.Errorf("%w: line sampling interval %g must be positive", ErrInvalidParameter, spacing)
	}
	if len(line) < 2 {
		return nil, fmt.Errorf("%w: line has %d points", ErrInvalidGeometry, len(line))
	}
	length := line.Length()
	var distances []float64
	for d := 0.0; d < length; d += spacing {
		distances = append(distances, d)
	}
	points := make([]geom.Point, len(distances))
	for i, d := range distances {
		points[i] = pointAtDistance(line, d)
	}
	values, err := SamplePoints(r, points, o)
	if err != nil {
		return nil, err
	}
	out := make([]LineSample, len(distances))
	for i := range out {
		out[i] = LineSample{Distance: distances[i], Value: values[i]}
	}
	return out, nil
}

// pointAtDistance walks line, returning the point at the given distance
// from its start. Distances past the end of the line clamp to the final
// vertex.
func pointAtDistance(line geom.LineString, d float64) geom.Point {
	if d <= 0 {
		return line[0]
	}
	remaining := d
	for i := 0; i < len(line)-1; i++ {
		p1, p2 := line[i], line[i+1]
		seg := math.Hypot(p2.X-p1.X, p2.Y-p1.Y)
		if remaining <= seg && seg > 0 {
			f := remaining / seg
			return geom.Point{X: p1.X + f*(p2.X-p1.X), Y: p1.Y + f*(p2.Y-p1.Y)}
		}
		remaining -= seg
	}
	return line[len(line)-1]
}

// Reducer computes a custom statistic from a polygon's selected cell
// values. The slice passed in excludes no-data cells and must not be
// retained or mutated.
type Reducer func([]float64) float64

// ZonalOptions configures ZonalStats.
type ZonalOptions struct {
	// Stats names the statistics to compute for each polygon:
	// "mean", "min", "max", "sum", "median", "majority", "count" (the
	// number of valid cells) and "nodata" (the number of no-data
	// cells). Defaults to mean only.
	Stats []string

	// Reducers maps additional result names to user-supplied reducer
	// functions.
	Reducers map[string]Reducer

	// AllTouched selects every cell overlapping a polygon rather than
	// cells whose center falls inside it.
	AllTouched bool

	// SR is the spatial reference of the polygons.
	SR *proj.SR
}

// ZonalResult holds one map of named statistics per input polygon.
type ZonalResult []map[string]float64

// ZonalStats computes summary statistics of the raster cells covered by
// each polygon. No-data cells are excluded from every statistic except
// "count" and "nodata". A polygon covering zero valid cells yields NaN
// for value statistics and 0 for counts.
func ZonalStats(r *Raster, polys []geom.Polygonal, o ZonalOptions) (ZonalResult, error) {
	if err := r.checkCRS(o.SR); err != nil {
		return nil, err
	}
	if len(polys) == 0 {
		return nil, fmt.Errorf("%w: no zonal polygons", ErrEmptySelector)
	}
	stats := o.Stats
	if len(stats) == 0 {
		stats = []string{"mean"}
	}
	for _, name := range stats {
		if !validStat(name) {
			return nil, fmt.Errorf("%w: unknown statistic %q", ErrInvalidParameter, name)
		}
	}

	out := make(ZonalResult, len(polys))
	for i, poly := range polys {
		if poly == nil {
			return nil, fmt.Errorf("%w: zonal polygon %d is nil", ErrInvalidGeometry, i)
		}
		vals, nodata := r.selectCells(poly, o.AllTouched)
		m := make(map[string]float64, len(stats)+len(o.Reducers))
		for _, name := range stats {
			m[name] = evalStat(name, vals, nodata)
		}
		for name, f := range o.Reducers {
			if len(vals) == 0 {
				m[name] = math.NaN()
				continue
			}
			m[name] = f(vals)
		}
		out[i] = m
	}
	return out, nil
}

// selectCells returns the values of the valid cells covered by poly and
// the number of covered no-data cells.
func (r *Raster) selectCells(poly geom.Polygonal, allTouched bool) (vals []float64, nodata int) {
	sel := &polySelector{
		tree:   newSingleTree(poly),
		bounds: poly.Bounds(),
	}
	w := r.pixelWindow(poly.Bounds())
	for row := w.row0; row < w.row1; row++ {
		for col := w.col0; col < w.col1; col++ {
			if !sel.selected(r.GridTemplate, row, col, allTouched) {
				continue
			}
			v := r.Data.Get(row, col)
			if r.IsNoData(v) {
				nodata++
				continue
			}
			vals = append(vals, v)
		}
	}
	return vals, nodata
}

func validStat(name string) bool {
	switch name {
	case "mean", "min", "max", "sum", "median", "majority", "count", "nodata":
		return true
	}
	return false
}

func evalStat(name string, vals []float64, nodata int) float64 {
	switch name {
	case "count":
		return float64(len(vals))
	case "nodata":
		return float64(nodata)
	}
	if len(vals) == 0 {
		return math.NaN()
	}
	switch name {
	case "mean":
		return stat.Mean(vals, nil)
	case "min":
		return floats.Min(vals)
	case "max":
		return floats.Max(vals)
	case "sum":
		return floats.Sum(vals)
	case "median":
		sorted := append([]float64(nil), vals...)
		sort.Float64s(sorted)
		return stat.Quantile(0.5, stat.Empirical, sorted, nil)
	case "majority":
		return majority(vals)
	}
	return math.NaN()
}

// majority returns the most frequent value; ties resolve to the
// smallest tied value.
func majority(vals []float64) float64 {
	counts := make(map[float64]int, len(vals))
	for _, v := range vals {
		counts[v]++
	}
	best, bestN := math.NaN(), 0
	for v, n := range counts {
		if n > bestN || (n == bestN && v < best) {
			best, bestN = v, n
		}
	}
	return best
}

// CellCounts tallies the occurrences of each distinct value among the
// cells covered by poly, the categorical-raster counterpart of
// ZonalStats. No-data cells are skipped.
func CellCounts(r *Raster, poly geom.Polygonal, allTouched bool) (map[float64]int, error) {
	if poly == nil {
		return nil, fmt.Errorf("%w: nil polygon", ErrInvalidGeometry)
	}
	vals, _ := r.selectCells(poly, allTouched)
	counts := make(map[float64]int)
	for _, v := range vals {
		counts[v]++
	}
	return counts, nil
}
