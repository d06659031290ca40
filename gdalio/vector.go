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
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/airbusgeo/godal"
	"github.com/ctessum/geom"
	"github.com/ctessum/geom/encoding/geojson"
	"github.com/ctessum/geom/proj"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spatialmodel/rastervec"
)

// ReadGeometries reads every feature of the first layer of the vector
// dataset at path, pairing each geometry with the value of the named
// numeric attribute field. With an empty field name every geometry gets
// defaultValue instead, which is the common case for selector polygons
// where only the shapes matter.
func ReadGeometries(path, valueField string, defaultValue float64) ([]rastervec.ValueGeom, *proj.SR, error) {
	Register()
	ds, err := godal.Open(path, godal.VectorOnly())
	if err != nil {
		return nil, nil, fmt.Errorf("gdalio: opening vector dataset %s: %w", path, err)
	}
	defer ds.Close()

	layers := ds.Layers()
	if len(layers) == 0 {
		return nil, nil, fmt.Errorf("%w: %s", ErrNoLayer, path)
	}
	layer := layers[0]

	var sr *proj.SR
	if lsr := layer.SpatialRef(); lsr != nil {
		if wkt, err := lsr.WKT(); err == nil && wkt != "" {
			if sr, err = proj.Parse(wkt); err != nil {
				return nil, nil, fmt.Errorf("gdalio: parsing projection of %s: %w", path, err)
			}
		}
	}

	var out []rastervec.ValueGeom
	layer.ResetReading()
	for {
		f := layer.NextFeature()
		if f == nil {
			break
		}
		g, v, err := decodeFeature(f, valueField, defaultValue)
		f.Close()
		if err != nil {
			return nil, nil, fmt.Errorf("gdalio: feature %d of %s: %w", len(out), path, err)
		}
		out = append(out, rastervec.ValueGeom{Geom: g, Value: v})
	}
	log.Info(logTag+"read vector layer", zap.String("path", path),
		zap.Int("features", len(out)))
	return out, sr, nil
}

func decodeFeature(f *godal.Feature, valueField string, defaultValue float64) (geom.Geom, float64, error) {
	gj, err := f.Geometry().GeoJSON()
	if err != nil {
		return nil, 0, err
	}
	g, err := geojson.Decode([]byte(gj))
	if err != nil {
		return nil, 0, err
	}
	if valueField == "" {
		return g, defaultValue, nil
	}
	fld, ok := f.Fields()[valueField]
	if !ok {
		return nil, 0, fmt.Errorf("%w: %q", ErrMissingField, valueField)
	}
	switch fld.Type() {
	case godal.FTInt, godal.FTInt64:
		return g, float64(fld.Int()), nil
	default:
		return g, fld.Float(), nil
	}
}

// ReadPolygons reads the first layer of path and keeps only polygonal
// geometries, the form selector-based operations require.
func ReadPolygons(path string) ([]geom.Polygonal, *proj.SR, error) {
	pairs, sr, err := ReadGeometries(path, "", 0)
	if err != nil {
		return nil, nil, err
	}
	polys := make([]geom.Polygonal, 0, len(pairs))
	for _, p := range pairs {
		if poly, ok := p.Geom.(geom.Polygonal); ok {
			polys = append(polys, poly)
		}
	}
	return polys, sr, nil
}

// geojsonFeature mirrors one feature of a GeoJSON FeatureCollection.
type geojsonFeature struct {
	Type       string             `json:"type"`
	Geometry   json.RawMessage    `json:"geometry"`
	Properties map[string]float64 `json:"properties"`
}

type geojsonCollection struct {
	Type     string           `json:"type"`
	Features []geojsonFeature `json:"features"`
}

// WriteGeoJSON stores the (geometry, value) pairs as a GeoJSON
// FeatureCollection at path, with each value under the named property.
// The file is written through a uniquely named temporary and renamed
// into place, so readers never observe a partial file.
func WriteGeoJSON(path string, pairs []rastervec.ValueGeom, valueField string) error {
	if valueField == "" {
		valueField = "value"
	}
	coll := geojsonCollection{
		Type:     "FeatureCollection",
		Features: make([]geojsonFeature, len(pairs)),
	}
	for i, p := range pairs {
		raw, err := geojson.Encode(p.Geom)
		if err != nil {
			return fmt.Errorf("gdalio: encoding feature %d: %w", i, err)
		}
		coll.Features[i] = geojsonFeature{
			Type:       "Feature",
			Geometry:   raw,
			Properties: map[string]float64{valueField: p.Value},
		}
	}
	buf, err := json.Marshal(coll)
	if err != nil {
		return fmt.Errorf("gdalio: marshaling collection: %w", err)
	}

	tmp := filepath.Join(filepath.Dir(path),
		fmt.Sprintf(".%s.%s.tmp", filepath.Base(path), uuid.NewString()))
	if err := os.WriteFile(tmp, buf, 0644); err != nil {
		return fmt.Errorf("gdalio: writing %s: %w", tmp, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("gdalio: renaming into %s: %w", path, err)
	}
	log.Info(logTag+"wrote vector layer", zap.String("path", path),
		zap.Int("features", len(pairs)))
	return nil
}
