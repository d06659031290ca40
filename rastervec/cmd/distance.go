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

var distanceMask string

func init() {
	RootCmd.AddCommand(distanceCmd)

	distanceCmd.Flags().StringVar(&distanceMask, "mask", "", "raster whose no-data cells are left unset in the output")
}

var distanceCmd = &cobra.Command{
	Use:   "distance targets.shp out.tif",
	Short: "Compute the distance from each grid cell to the nearest target geometry",
	Long: `distance fills the grid described by the [Grid] section of the
configuration file with each cell center's distance to the nearest
target geometry, in the grid's map units.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		t, err := Config.Grid.Template()
		if err != nil {
			return fmt.Errorf("the distance command requires a [Grid] section in the "+
				"configuration file: %w", err)
		}
		pairs, sr, err := readVector(args[0], "", 0)
		if err != nil {
			return err
		}
		pairs, err = reproj.Geometries(pairs, sr, t.SR)
		if err != nil {
			return err
		}
		targets := make([]geom.Geom, len(pairs))
		for i, p := range pairs {
			targets[i] = p.Geom
		}
		var o rastervec.DistanceOptions
		if distanceMask != "" {
			mask, _, err := gdalio.OpenRaster(distanceMask)
			if err != nil {
				return err
			}
			o.Mask = mask
		}
		out, err := rastervec.DistanceRaster(t, targets, o)
		if err != nil {
			return err
		}
		return gdalio.WriteRaster(args[1], out, gdalio.Projection(Config.Grid.Projection))
	},
}
