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

// Package gdalio reads and writes rasters and vector layers in the
// formats GDAL supports, converting between files on disk and the
// in-memory types of the rastervec package.
package gdalio

import (
	"errors"
	"sync"

	"github.com/airbusgeo/godal"
	"go.uber.org/zap"
)

var (
	ErrEmptyRaster  = errors.New("gdalio: raster has no bands")
	ErrNoLayer      = errors.New("gdalio: dataset has no vector layer")
	ErrMissingField = errors.New("gdalio: attribute field not found")
)

const logTag = "gdalio:"

var log = zap.NewNop()

// SetLogger installs a logger for this package. The default discards
// everything.
func SetLogger(l *zap.Logger) { log = l }

var registerOnce sync.Once

// Register registers GDAL's drivers. It is called automatically by the
// functions in this package and is safe to call again.
func Register() {
	registerOnce.Do(godal.RegisterAll)
}
