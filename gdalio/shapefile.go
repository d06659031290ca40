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
	"strconv"
	"strings"

	"github.com/ctessum/geom"
	"github.com/ctessum/geom/encoding/shp"
	"github.com/ctessum/geom/proj"
	goshp "github.com/jonas-p/go-shp"

	"github.com/spatialmodel/rastervec"
)

// ReadShapefile reads the geometries of a shapefile, pairing each with
// the value of the named numeric attribute, or with defaultValue when
// the field name is empty.
func ReadShapefile(path, valueField string, defaultValue float64) ([]rastervec.ValueGeom, *proj.SR, error) {
	path = strings.TrimSuffix(path, ".shp") + ".shp"
	d, err := shp.NewDecoder(path)
	if err != nil {
		return nil, nil, fmt.Errorf("gdalio: opening shapefile %s: %w", path, err)
	}
	defer d.Close()
	sr, err := d.SR()
	if err != nil {
		// Shapefiles often ship without a .prj; the geometries are
		// still usable.
		sr = nil
	}

	var fieldNames []string
	if valueField != "" {
		fieldNames = []string{valueField}
	}
	var out []rastervec.ValueGeom
	for {
		g, fields, more := d.DecodeRowFields(fieldNames...)
		if !more {
			break
		}
		v := defaultValue
		if valueField != "" {
			v, err = strconv.ParseFloat(strings.TrimSpace(fields[valueField]), 64)
			if err != nil {
				return nil, nil, fmt.Errorf("gdalio: feature %d of %s: parsing field %q: %w",
					len(out), path, valueField, err)
			}
		}
		out = append(out, rastervec.ValueGeom{Geom: g, Value: v})
	}
	if err := d.Error(); err != nil {
		return nil, nil, fmt.Errorf("gdalio: reading shapefile %s: %w", path, err)
	}
	return out, sr, nil
}

// WriteShapefile stores the (geometry, value) pairs as a shapefile of
// the given shape type, with each value in a float attribute column
// named by valueField.
func WriteShapefile(path string, shapeType goshp.ShapeType, pairs []rastervec.ValueGeom, valueField string) error {
	if valueField == "" {
		valueField = "value"
	}
	path = strings.TrimSuffix(path, ".shp") + ".shp"
	e, err := shp.NewEncoderFromFields(path, shapeType, goshp.FloatField(valueField, 14, 8))
	if err != nil {
		return fmt.Errorf("gdalio: creating shapefile %s: %w", path, err)
	}
	for i, p := range pairs {
		if err := e.EncodeFields(p.Geom, p.Value); err != nil {
			return fmt.Errorf("gdalio: writing feature %d of %s: %w", i, path, err)
		}
	}
	e.Close()
	return nil
}

// WritePolygonShapefile stores polygons with their values, the output
// form of the vectorizer.
func WritePolygonShapefile(path string, pairs []rastervec.ValueGeom, valueField string) error {
	return WriteShapefile(path, goshp.POLYGON, pairs, valueField)
}

// WritePointShapefile stores points with their values.
func WritePointShapefile(path string, pairs []rastervec.ValueGeom, valueField string) error {
	return WriteShapefile(path, goshp.POINT, pairs, valueField)
}

// ShapeTypeForGeom returns the shapefile shape type matching g.
func ShapeTypeForGeom(g geom.Geom) (goshp.ShapeType, error) {
	switch g.(type) {
	case geom.Point, geom.MultiPoint:
		return goshp.POINT, nil
	case geom.LineString, geom.MultiLineString:
		return goshp.POLYLINE, nil
	case geom.Polygon, geom.MultiPolygon:
		return goshp.POLYGON, nil
	default:
		return 0, fmt.Errorf("gdalio: no shapefile type for geometry %T", g)
	}
}
