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

package gdalio

import (
	"fmt"

	"github.com/airbusgeo/godal"
	"github.com/ctessum/geom/proj"
	"github.com/ctessum/sparse"
	"go.uber.org/zap"

	"github.com/spatialmodel/rastervec"
)

// OpenRaster reads the first band of the raster at path into memory,
// along with its transform, projection, and no-data sentinel. The
// band's values are widened to float64 regardless of the stored type.
// It also returns the projection as stored in the file, which callers
// writing derived rasters should pass back to WriteRaster.
func OpenRaster(path string) (*rastervec.Raster, string, error) {
	Register()
	ds, err := godal.Open(path, godal.RasterOnly())
	if err != nil {
		return nil, "", fmt.Errorf("gdalio: opening raster %s: %w", path, err)
	}
	defer ds.Close()

	bands := ds.Bands()
	if len(bands) == 0 {
		return nil, "", fmt.Errorf("%w: %s", ErrEmptyRaster, path)
	}
	band := bands[0]
	st := band.Structure()
	log.Info(logTag+"read raster", zap.String("path", path),
		zap.Int("width", st.SizeX), zap.Int("height", st.SizeY),
		zap.String("dataType", st.DataType.String()))

	gt, err := ds.GeoTransform()
	if err != nil {
		return nil, "", fmt.Errorf("gdalio: reading transform of %s: %w", path, err)
	}
	wkt := ds.Projection()
	var sr *proj.SR
	if wkt != "" {
		if sr, err = proj.Parse(wkt); err != nil {
			return nil, "", fmt.Errorf("gdalio: parsing projection of %s: %w", path, err)
		}
	}
	tmpl, err := rastervec.NewTemplate(st.SizeX, st.SizeY, gt, sr)
	if err != nil {
		return nil, "", err
	}

	buf := make([]float64, st.SizeX*st.SizeY)
	if err := band.Read(0, 0, buf, st.SizeX, st.SizeY); err != nil {
		return nil, "", fmt.Errorf("gdalio: reading band of %s: %w", path, err)
	}
	data := sparse.ZerosDense(st.SizeY, st.SizeX)
	copy(data.Elements, buf)
	r, err := rastervec.NewRaster(tmpl, data)
	if err != nil {
		return nil, "", err
	}
	// The sentinel is assigned directly: a stored file legitimately
	// contains cells holding it.
	if nd, ok := band.NoData(); ok {
		r.NoData = nd
		r.HasNoData = true
	}
	return r, wkt, nil
}

// WriteOption modifies how WriteRaster stores a raster.
type WriteOption func(*writeConfig)

type writeConfig struct {
	driver          godal.DriverName
	projectionWKT   string
	creationOptions []string
}

// Driver selects the output driver; the default is GeoTIFF.
func Driver(d godal.DriverName) WriteOption {
	return func(c *writeConfig) { c.driver = d }
}

// Projection sets the well-known-text projection stored with the
// output, typically the string returned by OpenRaster.
func Projection(wkt string) WriteOption {
	return func(c *writeConfig) { c.projectionWKT = wkt }
}

// CreationOptions passes driver-specific creation options, for example
// "COMPRESS=DEFLATE".
func CreationOptions(opts ...string) WriteOption {
	return func(c *writeConfig) { c.creationOptions = append(c.creationOptions, opts...) }
}

// WriteRaster stores r as a single-band float64 raster at path,
// carrying over the grid transform and, when present, the no-data
// sentinel.
func WriteRaster(path string, r *rastervec.Raster, opts ...WriteOption) error {
	Register()
	cfg := writeConfig{driver: godal.GTiff}
	for _, o := range opts {
		o(&cfg)
	}

	var createOpts []godal.DatasetCreateOption
	if len(cfg.creationOptions) > 0 {
		createOpts = append(createOpts, godal.CreationOption(cfg.creationOptions...))
	}
	ds, err := godal.Create(cfg.driver, path, 1, godal.Float64, r.Nx, r.Ny, createOpts...)
	if err != nil {
		return fmt.Errorf("gdalio: creating raster %s: %w", path, err)
	}
	if err := fillDataset(ds, r, cfg); err != nil {
		ds.Close()
		return err
	}
	log.Info(logTag+"wrote raster", zap.String("path", path),
		zap.Int("width", r.Nx), zap.Int("height", r.Ny))
	// Closing flushes the dataset to disk.
	if err := ds.Close(); err != nil {
		return fmt.Errorf("gdalio: flushing raster %s: %w", path, err)
	}
	return nil
}

func fillDataset(ds *godal.Dataset, r *rastervec.Raster, cfg writeConfig) error {
	if err := ds.SetGeoTransform(r.GT); err != nil {
		return fmt.Errorf("gdalio: writing transform: %w", err)
	}
	if cfg.projectionWKT != "" {
		if err := ds.SetProjection(cfg.projectionWKT); err != nil {
			return fmt.Errorf("gdalio: writing projection: %w", err)
		}
	}
	if r.HasNoData {
		if err := ds.SetNoData(r.NoData); err != nil {
			return fmt.Errorf("gdalio: writing no-data value: %w", err)
		}
	}
	band := ds.Bands()[0]
	if err := band.Write(0, 0, r.Data.Elements, r.Nx, r.Ny); err != nil {
		return fmt.Errorf("gdalio: writing band: %w", err)
	}
	return nil
}
