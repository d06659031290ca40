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
)

// Points converts each raster cell to a point at the cell's centroid
// paired with the cell's value, in row-major order. With skipNoData
// set, no-data cells are omitted.
func Points(r *Raster, skipNoData bool) []ValueGeom {
	out := make([]ValueGeom, 0, len(r.Data.Elements))
	for row := 0; row < r.Ny; row++ {
		for col := 0; col < r.Nx; col++ {
			v := r.Data.Get(row, col)
			if skipNoData && r.IsNoData(v) {
				continue
			}
			x, y := r.PixelToWorld(row, col)
			out = append(out, ValueGeom{Geom: geom.Point{X: x, Y: y}, Value: v})
		}
	}
	return out
}

// Polygons groups the raster's cells into maximal 4-connected regions
// of identical value and returns one polygon per region, tracing the
// exact pixel-edge outline including any holes. No-data cells are
// excluded. Regions are returned in order of their first cell in
// row-major order.
//
// Adjacent same-value pixels dissolve into a single polygon. Callers
// needing one polygon per pixel can perturb the values to make them
// pairwise distinct before calling, and map the perturbed values back
// afterward.
func Polygons(r *Raster) []ValueGeom {
	labels := make([]int, len(r.Data.Elements))
	for i := range labels {
		labels[i] = -1
	}
	var out []ValueGeom
	nRegions := 0
	for start := 0; start < len(labels); start++ {
		if labels[start] >= 0 || r.IsNoData(r.Data.Elements[start]) {
			continue
		}
		cells := r.floodFill(start, nRegions, labels)
		poly := r.traceRegion(cells, labels, nRegions)
		out = append(out, ValueGeom{Geom: poly, Value: r.Data.Elements[start]})
		nRegions++
	}
	return out
}

// floodFill labels the 4-connected region of equal value containing the
// flat index start and returns the region's cell indices.
func (r *Raster) floodFill(start, label int, labels []int) []int {
	v := r.Data.Elements[start]
	queue := []int{start}
	labels[start] = label
	var cells []int
	for len(queue) > 0 {
		i := queue[len(queue)-1]
		queue = queue[:len(queue)-1]
		cells = append(cells, i)
		row, col := i/r.Nx, i%r.Nx
		for _, n := range [][2]int{{row - 1, col}, {row + 1, col}, {row, col - 1}, {row, col + 1}} {
			if !r.InGrid(n[0], n[1]) {
				continue
			}
			j := n[0]*r.Nx + n[1]
			if labels[j] >= 0 || r.Data.Elements[j] != v {
				continue
			}
			labels[j] = label
			queue = append(queue, j)
		}
	}
	return cells
}

// ivec is an integer pixel-corner coordinate or unit direction, with x
// along columns and y along rows.
type ivec struct{ x, y int }

// cw returns d rotated a quarter turn clockwise in screen orientation
// (x right, y down).
func (d ivec) cw() ivec { return ivec{-d.y, d.x} }

// ccw returns d rotated a quarter turn counterclockwise.
func (d ivec) ccw() ivec { return ivec{d.y, -d.x} }

type boundaryEdge struct {
	start ivec
	dir   ivec
	used  bool
}

// traceRegion builds the region's polygon by emitting each cell edge
// that borders a different region (or the grid exterior) as a directed
// unit edge traversing the cell clockwise, then chaining the edges into
// closed rings. The clockwise convention keeps the region's interior on
// the right of each edge, so chaining with a rightmost-turn preference
// closes the outer ring and any hole rings without crossing at pinch
// corners. Rings with positive signed area (in screen orientation) are
// outer boundaries; negative rings are holes.
func (r *Raster) traceRegion(cells []int, labels []int, label int) geom.Polygon {
	sameRegion := func(row, col int) bool {
		return r.InGrid(row, col) && labels[row*r.Nx+col] == label
	}
	var edges []*boundaryEdge
	outgoing := make(map[ivec][]*boundaryEdge)
	addEdge := func(start, dir ivec) {
		e := &boundaryEdge{start: start, dir: dir}
		edges = append(edges, e)
		outgoing[start] = append(outgoing[start], e)
	}
	for _, i := range cells {
		row, col := i/r.Nx, i%r.Nx
		if !sameRegion(row-1, col) { // top, left to right
			addEdge(ivec{col, row}, ivec{1, 0})
		}
		if !sameRegion(row, col+1) { // right, top to bottom
			addEdge(ivec{col + 1, row}, ivec{0, 1})
		}
		if !sameRegion(row+1, col) { // bottom, right to left
			addEdge(ivec{col + 1, row + 1}, ivec{-1, 0})
		}
		if !sameRegion(row, col-1) { // left, bottom to top
			addEdge(ivec{col, row + 1}, ivec{0, -1})
		}
	}

	var rings [][]ivec
	for _, first := range edges {
		if first.used {
			continue
		}
		ring := r.walkRing(first, outgoing)
		rings = append(rings, ring)
	}
	return r.ringsToPolygon(rings)
}

// walkRing follows boundary edges from first until the loop closes,
// preferring the sharpest clockwise turn at junction corners.
// Collinear runs collapse into single segments as the ring is built.
func (r *Raster) walkRing(first *boundaryEdge, outgoing map[ivec][]*boundaryEdge) []ivec {
	var ring []ivec
	var prevDir ivec
	e := first
	for {
		e.used = true
		if e.dir != prevDir { // a turn; collinear runs collapse
			ring = append(ring, e.start)
		}
		prevDir = e.dir
		end := ivec{e.start.x + e.dir.x, e.start.y + e.dir.y}
		if end == first.start {
			break
		}
		var next *boundaryEdge
		for _, dir := range []ivec{e.dir.cw(), e.dir, e.dir.ccw()} {
			for _, cand := range outgoing[end] {
				if !cand.used && cand.dir == dir {
					next = cand
					break
				}
			}
			if next != nil {
				break
			}
		}
		if next == nil {
			break // should not happen for well-formed edge sets
		}
		e = next
	}
	return ring
}

// ringsToPolygon converts pixel-corner rings to a world-coordinate
// polygon, ordering the outer ring (positive screen-space area) first.
func (r *Raster) ringsToPolygon(rings [][]ivec) geom.Polygon {
	outerFirst := make([][]ivec, 0, len(rings))
	for _, ring := range rings {
		if ringArea(ring) > 0 {
			outerFirst = append(outerFirst, ring)
		}
	}
	for _, ring := range rings {
		if ringArea(ring) <= 0 {
			outerFirst = append(outerFirst, ring)
		}
	}
	poly := make(geom.Polygon, 0, len(outerFirst))
	for _, ring := range outerFirst {
		path := make([]geom.Point, 0, len(ring)+1)
		for _, p := range ring {
			x, y := r.cornerToWorld(float64(p.x), float64(p.y))
			path = append(path, geom.Point{X: x, Y: y})
		}
		path = append(path, path[0]) // close the ring
		poly = append(poly, path)
	}
	return poly
}

// ringArea is twice the signed shoelace area of an integer ring in
// screen orientation, positive for clockwise rings.
func ringArea(ring []ivec) int {
	area := 0
	for i := range ring {
		j := (i + 1) % len(ring)
		area += ring[i].x*ring[j].y - ring[j].x*ring[i].y
	}
	return area
}

// ContourLine is one traced iso-value line.
type ContourLine struct {
	Level float64
	Line  geom.LineString
}

// Contours traces iso-value lines over the raster with a marching
// squares pass per level, interpolating crossings linearly between
// pixel centers. Squares touching a no-data cell are skipped. The
// levels must be strictly increasing.
func Contours(r *Raster, levels []float64) ([]ContourLine, error) {
	for i := 1; i < len(levels); i++ {
		if levels[i] <= levels[i-1] {
			return nil, fmt.Errorf("%w: contour levels must be strictly increasing, got %v",
				ErrInvalidParameter, levels)
		}
	}
	var out []ContourLine
	for _, level := range levels {
		for _, line := range r.contourLevel(level) {
			out = append(out, ContourLine{Level: level, Line: line})
		}
	}
	return out, nil
}

// fpoint is a continuous pixel-corner coordinate, used as an exact map
// key: matching crossings in adjacent squares are computed from the
// same corner values by the same expression, so they compare equal.
type fpoint struct{ x, y float64 }

type contourSegment struct {
	a, b fpoint
	used bool
}

func (r *Raster) contourLevel(level float64) []geom.LineString {
	var segments []*contourSegment
	endpoints := make(map[fpoint][]*contourSegment)
	addSegment := func(a, b fpoint) {
		s := &contourSegment{a: a, b: b}
		segments = append(segments, s)
		endpoints[a] = append(endpoints[a], s)
		endpoints[b] = append(endpoints[b], s)
	}

	// interp returns the crossing point between two pixel centers,
	// expressed in continuous corner coordinates.
	interp := func(row0, col0 int, row1, col1 int, v0, v1 float64) fpoint {
		t := (level - v0) / (v1 - v0)
		x := (float64(col0) + 0.5) + t*float64(col1-col0)
		y := (float64(row0) + 0.5) + t*float64(row1-row0)
		return fpoint{x, y}
	}

	for row := 0; row < r.Ny-1; row++ {
		for col := 0; col < r.Nx-1; col++ {
			v00 := r.Data.Get(row, col)     // top left
			v01 := r.Data.Get(row, col+1)   // top right
			v10 := r.Data.Get(row+1, col)   // bottom left
			v11 := r.Data.Get(row+1, col+1) // bottom right
			if r.IsNoData(v00) || r.IsNoData(v01) || r.IsNoData(v10) || r.IsNoData(v11) {
				continue
			}
			var caseIdx int
			if v00 >= level {
				caseIdx |= 1
			}
			if v01 >= level {
				caseIdx |= 2
			}
			if v11 >= level {
				caseIdx |= 4
			}
			if v10 >= level {
				caseIdx |= 8
			}
			if caseIdx == 0 || caseIdx == 15 {
				continue
			}
			top := func() fpoint { return interp(row, col, row, col+1, v00, v01) }
			bottom := func() fpoint { return interp(row+1, col, row+1, col+1, v10, v11) }
			left := func() fpoint { return interp(row, col, row+1, col, v00, v10) }
			right := func() fpoint { return interp(row, col+1, row+1, col+1, v01, v11) }
			switch caseIdx {
			case 1, 14:
				addSegment(left(), top())
			case 2, 13:
				addSegment(top(), right())
			case 3, 12:
				addSegment(left(), right())
			case 4, 11:
				addSegment(right(), bottom())
			case 6, 9:
				addSegment(top(), bottom())
			case 7, 8:
				addSegment(left(), bottom())
			case 5, 10:
				// Saddle: disambiguate with the square's mean value.
				avg := (v00 + v01 + v10 + v11) / 4
				high := avg >= level
				if (caseIdx == 5) == high {
					addSegment(left(), top())
					addSegment(right(), bottom())
				} else {
					addSegment(left(), bottom())
					addSegment(top(), right())
				}
			}
		}
	}

	var lines []geom.LineString
	for _, seg := range segments {
		if seg.used {
			continue
		}
		chain := r.chainSegments(seg, endpoints)
		lines = append(lines, chain)
	}
	return lines
}

// chainSegments joins connected contour segments into a single
// polyline, extending from both ends of the starting segment.
func (r *Raster) chainSegments(start *contourSegment, endpoints map[fpoint][]*contourSegment) geom.LineString {
	start.used = true
	pts := []fpoint{start.a, start.b}

	extend := func(from fpoint) []fpoint {
		var ext []fpoint
		cur := from
		for {
			var next *contourSegment
			for _, s := range endpoints[cur] {
				if !s.used {
					next = s
					break
				}
			}
			if next == nil {
				break
			}
			next.used = true
			if next.a == cur {
				cur = next.b
			} else {
				cur = next.a
			}
			ext = append(ext, cur)
		}
		return ext
	}

	tail := extend(pts[len(pts)-1])
	head := extend(pts[0])
	// head extends backwards from the start point; prepend reversed.
	all := make([]fpoint, 0, len(head)+len(pts)+len(tail))
	for i := len(head) - 1; i >= 0; i-- {
		all = append(all, head[i])
	}
	all = append(all, pts...)
	all = append(all, tail...)

	line := make(geom.LineString, len(all))
	for i, p := range all {
		x, y := r.cornerToWorld(p.x, p.y)
		line[i] = geom.Point{X: x, Y: y}
	}
	return line
}
