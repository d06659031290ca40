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

// Package rastervec converts and joins data between regular rasters
// and vector geometries: masking and cropping rasters with polygons,
// sampling them at points and along lines, summarizing them over
// zones, burning geometries onto grids, and tracing grids back into
// polygons, points, and contour lines.
package rastervec

// Version is the version of this library.
const Version = "0.1.0"
