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
	"fmt"
)

// Error kinds returned by this package. Functions wrap these with
// additional context, so callers should test with errors.Is.
var (
	// ErrInvalidExtent indicates degenerate bounds or a non-positive
	// resolution in grid template construction.
	ErrInvalidExtent = errors.New("rastervec: invalid extent")

	// ErrEmptySelector indicates that a selector geometry set was empty.
	ErrEmptySelector = errors.New("rastervec: empty geometry selector")

	// ErrEmptyIntersection indicates that a selector does not intersect
	// the raster's extent at all.
	ErrEmptyIntersection = errors.New("rastervec: selector does not intersect raster extent")

	// ErrInvalidParameter indicates an out-of-domain scalar parameter,
	// such as a negative sampling interval or non-increasing contour
	// levels.
	ErrInvalidParameter = errors.New("rastervec: invalid parameter")

	// ErrInvalidGeometry indicates a malformed geometry or a geometry of
	// an unsupported type at a component boundary.
	ErrInvalidGeometry = errors.New("rastervec: invalid geometry")

	// ErrNoDataCollision indicates that a requested no-data sentinel
	// value also occurs as a data value, which would silently
	// misclassify observations.
	ErrNoDataCollision = errors.New("rastervec: no-data sentinel collides with data values")
)

// ErrCRSMismatch indicates that the spatial reference of an input
// geometry set differs from the spatial reference of the target raster
// or grid template. No operation in this package reprojects implicitly;
// reconcile coordinates first (see package reproj). It matches
// ErrInvalidGeometry under errors.Is.
var ErrCRSMismatch = fmt.Errorf("%w: spatial reference mismatch", ErrInvalidGeometry)
