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
	"fmt"

	"github.com/ctessum/geom"
	"github.com/spf13/cobra"

	"github.com/spatialmodel/rastervec"
	"github.com/spatialmodel/rastervec/gdalio"
	"github.com/spatialmodel/rastervec/reproj"
)

var (
	sampleInterp string

	zonalStats      []string
	zonalField      string
	zonalAllTouched bool
)

func init() {
	RootCmd.AddCommand(sampleCmd)
	RootCmd.AddCommand(zonalCmd)

	sampleCmd.Flags().StringVar(&sampleInterp, "interp", "nearest", "interpolation method: nearest or bilinear")

	zonalCmd.Flags().StringSliceVar(&zonalStats, "stats", nil, "statistics to compute (e.g. mean,min,max,sum,median,majority,count,nodata)")
	zonalCmd.Flags().StringVar(&zonalField, "field", "", "attribute column identifying each polygon in the output")
	zonalCmd.Flags().BoolVar(&zonalAllTouched, "all-touched", false, "include every cell the polygons touch")
}

var sampleCmd = &cobra.Command{
	Use:   "sample raster.tif points.shp out.csv",
	Short: "Sample raster values at point locations",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		r, _, err := gdalio.OpenRaster(args[0])
		if err != nil {
			return err
		}
		pairs, sr, err := readVector(args[1], "", 0)
		if err != nil {
			return err
		}
		pairs, err = reproj.Geometries(pairs, sr, r.SR)
		if err != nil {
			return err
		}
		var points []geom.Point
		for _, p := range pairs {
			switch g := p.Geom.(type) {
			case geom.Point:
				points = append(points, g)
			case geom.MultiPoint:
				points = append(points, g...)
			}
		}
		if len(points) == 0 {
			return fmt.Errorf("%s contains no point geometries", args[1])
		}
		interp, err := parseInterpolation(sampleInterp)
		if err != nil {
			return err
		}
		vals, err := rastervec.SamplePoints(r, points, rastervec.SampleOptions{Interpolation: interp})
		if err != nil {
			return err
		}
		rows := make([][]string, len(points))
		for i, pt := range points {
			rows[i] = []string{floatString(pt.X), floatString(pt.Y), floatString(vals[i])}
		}
		return writeCSV(args[2], []string{"x", "y", "value"}, rows)
	},
}

var zonalCmd = &cobra.Command{
	Use:   "zonal raster.tif polygons.shp out.csv",
	Short: "Summarize raster values within polygons",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		r, _, err := gdalio.OpenRaster(args[0])
		if err != nil {
			return err
		}
		field := fieldSetting(cmd.Flags(), zonalField)
		pairs, sr, err := readVector(args[1], field, 0)
		if err != nil {
			return err
		}
		pairs, err = reproj.Geometries(pairs, sr, r.SR)
		if err != nil {
			return err
		}
		var polys []geom.Polygonal
		var labels []float64
		for _, p := range pairs {
			if poly, ok := p.Geom.(geom.Polygonal); ok {
				polys = append(polys, poly)
				labels = append(labels, p.Value)
			}
		}
		stats := zonalStats
		if len(stats) == 0 {
			stats = Config.Stats
		}
		if len(stats) == 0 {
			stats = []string{"mean"}
		}
		result, err := rastervec.ZonalStats(r, polys, rastervec.ZonalOptions{
			Stats:      stats,
			AllTouched: touchedSetting(cmd.Flags(), zonalAllTouched),
		})
		if err != nil {
			return err
		}
		header := append([]string{"zone"}, stats...)
		rows := make([][]string, len(result))
		for i, m := range result {
			row := []string{floatString(labels[i])}
			for _, name := range stats {
				row = append(row, floatString(m[name]))
			}
			rows[i] = row
		}
		return writeCSV(args[2], header, rows)
	},
}

func parseInterpolation(name string) (rastervec.Interpolation, error) {
	switch name {
	case "", "nearest":
		return rastervec.InterpNearest, nil
	case "bilinear":
		return rastervec.InterpBilinear, nil
	}
	return 0, fmt.Errorf("%w: unknown interpolation %q", rastervec.ErrInvalidParameter, name)
}
