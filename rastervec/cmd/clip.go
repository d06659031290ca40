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
	"github.com/ctessum/geom"
	"github.com/spf13/cobra"

	"github.com/spatialmodel/rastervec"
	"github.com/spatialmodel/rastervec/gdalio"
	"github.com/spatialmodel/rastervec/reproj"
)

var (
	maskFill       float64
	maskInvert     bool
	maskAllTouched bool

	cropFill       float64
	cropMask       bool
	cropAllTouched bool
)

func init() {
	RootCmd.AddCommand(maskCmd)
	RootCmd.AddCommand(cropCmd)

	maskCmd.Flags().Float64Var(&maskFill, "fill", 0, "fill value for pixels outside the polygons")
	maskCmd.Flags().BoolVar(&maskInvert, "invert", false, "fill the pixels inside the polygons instead")
	maskCmd.Flags().BoolVar(&maskAllTouched, "all-touched", false, "keep every pixel the polygons touch")

	cropCmd.Flags().Float64Var(&cropFill, "fill", 0, "fill value used with --mask")
	cropCmd.Flags().BoolVar(&cropMask, "mask", false, "also mask pixels outside the polygons")
	cropCmd.Flags().BoolVar(&cropAllTouched, "all-touched", false, "keep every pixel the polygons touch")
}

var maskCmd = &cobra.Command{
	Use:   "mask raster.tif polygons.shp out.tif",
	Short: "Fill raster pixels outside a set of polygons",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		r, wkt, err := gdalio.OpenRaster(args[0])
		if err != nil {
			return err
		}
		polys, err := loadSelector(args[1], r)
		if err != nil {
			return err
		}
		out, err := rastervec.Mask(r, polys, rastervec.MaskOptions{
			Fill:       fillSetting(cmd.Flags(), maskFill),
			Invert:     maskInvert,
			AllTouched: touchedSetting(cmd.Flags(), maskAllTouched),
		})
		if err != nil {
			return err
		}
		return gdalio.WriteRaster(args[2], out, gdalio.Projection(wkt))
	},
}

var cropCmd = &cobra.Command{
	Use:   "crop raster.tif polygons.shp out.tif",
	Short: "Crop a raster to the bounding box of a set of polygons",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		r, wkt, err := gdalio.OpenRaster(args[0])
		if err != nil {
			return err
		}
		polys, err := loadSelector(args[1], r)
		if err != nil {
			return err
		}
		out, err := rastervec.Crop(r, polys, rastervec.CropOptions{
			Mask:       cropMask,
			Fill:       fillSetting(cmd.Flags(), cropFill),
			AllTouched: touchedSetting(cmd.Flags(), cropAllTouched),
		})
		if err != nil {
			return err
		}
		return gdalio.WriteRaster(args[2], out, gdalio.Projection(wkt))
	},
}

// loadSelector reads selector polygons and brings them into the
// raster's spatial reference.
func loadSelector(path string, r *rastervec.Raster) ([]geom.Polygonal, error) {
	polys, sr, err := readPolygons(path)
	if err != nil {
		return nil, err
	}
	return reproj.Polygons(polys, sr, r.SR)
}
