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

package cmd

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ctessum/geom"
	"github.com/ctessum/geom/proj"
	"github.com/spf13/pflag"

	"github.com/spatialmodel/rastervec"
	"github.com/spatialmodel/rastervec/gdalio"
)

// readVector reads geometries and per-feature values from a vector
// file. Shapefiles are read directly; every other format goes through
// GDAL.
func readVector(path, valueField string, defaultValue float64) ([]rastervec.ValueGeom, *proj.SR, error) {
	if strings.EqualFold(filepath.Ext(path), ".shp") {
		return gdalio.ReadShapefile(path, valueField, defaultValue)
	}
	return gdalio.ReadGeometries(path, valueField, defaultValue)
}

// readPolygons reads the polygonal geometries from a vector file,
// skipping features of other types.
func readPolygons(path string) ([]geom.Polygonal, *proj.SR, error) {
	if strings.EqualFold(filepath.Ext(path), ".shp") {
		pairs, sr, err := gdalio.ReadShapefile(path, "", 0)
		if err != nil {
			return nil, nil, err
		}
		var polys []geom.Polygonal
		for _, p := range pairs {
			if poly, ok := p.Geom.(geom.Polygonal); ok {
				polys = append(polys, poly)
			}
		}
		return polys, sr, nil
	}
	return gdalio.ReadPolygons(path)
}

// writeVector writes value-geometry pairs to a shapefile or, for any
// other extension, a GeoJSON file.
func writeVector(path string, pairs []rastervec.ValueGeom, valueField string) error {
	if valueField == "" {
		valueField = "value"
	}
	if strings.EqualFold(filepath.Ext(path), ".shp") {
		if len(pairs) == 0 {
			return fmt.Errorf("writing %s: no geometries to write", path)
		}
		shapeType, err := gdalio.ShapeTypeForGeom(pairs[0].Geom)
		if err != nil {
			return err
		}
		return gdalio.WriteShapefile(path, shapeType, pairs, valueField)
	}
	return gdalio.WriteGeoJSON(path, pairs, valueField)
}

// writeCSV writes a header row followed by data rows.
func writeCSV(path string, header []string, rows [][]string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	w := csv.NewWriter(f)
	if err := w.Write(header); err != nil {
		f.Close()
		return err
	}
	if err := w.WriteAll(rows); err != nil {
		f.Close()
		return err
	}
	w.Flush()
	if err := w.Error(); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// floatString formats a value for CSV output.
func floatString(v float64) string {
	return fmt.Sprintf("%g", v)
}

// fillSetting returns the --fill flag when it was given on the command
// line and the configuration-file value otherwise.
func fillSetting(flags *pflag.FlagSet, flagVal float64) float64 {
	if flags.Changed("fill") {
		return flagVal
	}
	return Config.Fill
}

// touchedSetting merges the --all-touched flag with the configuration.
func touchedSetting(flags *pflag.FlagSet, flagVal bool) bool {
	if flags.Changed("all-touched") {
		return flagVal
	}
	return Config.AllTouched
}

// fieldSetting merges the --field flag with the configuration.
func fieldSetting(flags *pflag.FlagSet, flagVal string) string {
	if flags.Changed("field") {
		return flagVal
	}
	return Config.ValueField
}
