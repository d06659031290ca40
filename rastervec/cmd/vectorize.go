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
	"github.com/spf13/cobra"

	"github.com/spatialmodel/rastervec"
	"github.com/spatialmodel/rastervec/gdalio"
)

var (
	polygonsField    string
	pointsField      string
	pointsSkipNoData bool
	contourLevels    []float64
)

func init() {
	RootCmd.AddCommand(polygonsCmd)
	RootCmd.AddCommand(pointsCmd)
	RootCmd.AddCommand(contoursCmd)

	polygonsCmd.Flags().StringVar(&polygonsField, "field", "", "name of the output value column")
	pointsCmd.Flags().StringVar(&pointsField, "field", "", "name of the output value column")
	pointsCmd.Flags().BoolVar(&pointsSkipNoData, "skip-nodata", false, "omit cells holding the no-data sentinel")
	contoursCmd.Flags().Float64SliceVar(&contourLevels, "levels", nil, "contour levels, strictly increasing")
}

var polygonsCmd = &cobra.Command{
	Use:   "polygons raster.tif out.shp",
	Short: "Trace connected regions of equal value into polygons",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		r, _, err := gdalio.OpenRaster(args[0])
		if err != nil {
			return err
		}
		pairs := rastervec.Polygons(r)
		return writeVector(args[1], pairs, fieldSetting(cmd.Flags(), polygonsField))
	},
}

var pointsCmd = &cobra.Command{
	Use:   "points raster.tif out.shp",
	Short: "Convert raster cells to centroid points",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		r, _, err := gdalio.OpenRaster(args[0])
		if err != nil {
			return err
		}
		pairs := rastervec.Points(r, pointsSkipNoData)
		return writeVector(args[1], pairs, fieldSetting(cmd.Flags(), pointsField))
	},
}

var contoursCmd = &cobra.Command{
	Use:   "contours raster.tif out.shp",
	Short: "Trace iso-value contour lines through a raster",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		r, _, err := gdalio.OpenRaster(args[0])
		if err != nil {
			return err
		}
		lines, err := rastervec.Contours(r, contourLevels)
		if err != nil {
			return err
		}
		pairs := make([]rastervec.ValueGeom, len(lines))
		for i, l := range lines {
			pairs[i] = rastervec.ValueGeom{Geom: l.Line, Value: l.Level}
		}
		return writeVector(args[1], pairs, "level")
	},
}
