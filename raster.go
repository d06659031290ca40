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

	"github.com/ctessum/sparse"
)

// Raster is a two-dimensional array of values on a regular grid,
// optionally with a no-data sentinel marking cells that hold no
// observation. The array shape is [Ny, Nx] (rows first).
//
// Rasters are value-like: every operation in this package returns a
// freshly allocated raster and treats its inputs as read-only. Mutating
// a raster after passing it to or receiving it from an operation is not
// supported.
type Raster struct {
	*GridTemplate

	Data *sparse.DenseArray

	// NoData is the sentinel value marking missing observations. It is
	// only meaningful when HasNoData is true. NaN is a valid sentinel.
	NoData    float64
	HasNoData bool
}

// NewRaster wraps data on the grid described by t. The data shape must
// be [t.Ny, t.Nx].
func NewRaster(t *GridTemplate, data *sparse.DenseArray) (*Raster, error) {
	if len(data.Shape) != 2 || data.Shape[0] != t.Ny || data.Shape[1] != t.Nx {
		return nil, fmt.Errorf("%w: array shape %v does not match grid shape [%d %d]",
			ErrInvalidParameter, data.Shape, t.Ny, t.Nx)
	}
	return &Raster{GridTemplate: t, Data: data}, nil
}

// NewConstantRaster creates a raster on t where every cell holds val.
func NewConstantRaster(t *GridTemplate, val float64) *Raster {
	data := sparse.ZerosDense(t.Ny, t.Nx)
	if val != 0 {
		for i := range data.Elements {
			data.Elements[i] = val
		}
	}
	return &Raster{GridTemplate: t, Data: data}
}

// Template returns a copy of the raster's grid template, suitable for
// deriving new rasters with the same geometry.
func (r *Raster) Template() *GridTemplate {
	return r.GridTemplate.Copy()
}

// Copy returns a deep copy of r.
func (r *Raster) Copy() *Raster {
	return &Raster{
		GridTemplate: r.GridTemplate.Copy(),
		Data:         r.Data.Copy(),
		NoData:       r.NoData,
		HasNoData:    r.HasNoData,
	}
}

// IsNoData reports whether v is the raster's no-data sentinel. A NaN
// sentinel matches any NaN value.
func (r *Raster) IsNoData(v float64) bool {
	if !r.HasNoData {
		return false
	}
	if math.IsNaN(r.NoData) {
		return math.IsNaN(v)
	}
	return v == r.NoData
}

// SetNoData declares v as the raster's no-data sentinel. It fails with
// ErrNoDataCollision if v already occurs in the data, since cells
// holding it would silently become missing observations.
func (r *Raster) SetNoData(v float64) error {
	for _, e := range r.Data.Elements {
		if e == v || (math.IsNaN(v) && math.IsNaN(e)) {
			return fmt.Errorf("%w: %g occurs in the data", ErrNoDataCollision, v)
		}
	}
	r.NoData = v
	r.HasNoData = true
	return nil
}

// ValidCount returns the number of cells holding an observation, i.e.
// all cells minus no-data cells.
func (r *Raster) ValidCount() int {
	if !r.HasNoData {
		return len(r.Data.Elements)
	}
	n := 0
	for _, e := range r.Data.Elements {
		if !r.IsNoData(e) {
			n++
		}
	}
	return n
}
