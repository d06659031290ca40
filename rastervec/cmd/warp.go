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

	"github.com/ctessum/geom/proj"
	"github.com/spf13/cobra"

	"github.com/spatialmodel/rastervec"
	"github.com/spatialmodel/rastervec/gdalio"
	"github.com/spatialmodel/rastervec/reproj"
)

var warpResampling string

func init() {
	RootCmd.AddCommand(warpCmd)

	warpCmd.Flags().StringVar(&warpResampling, "resampling", "nearest", "resampling method: nearest, bilinear, average or mode")
}

var warpCmd = &cobra.Command{
	Use:   "warp raster.tif out.tif",
	Short: "Resample a raster onto a new grid",
	Long: `warp resamples a raster onto the grid described by the [Grid]
section of the configuration file, reprojecting when the source and
target spatial references differ. Without a [Grid] section the source
grid is reprojected to the configured projection with its pixel counts
preserved.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		r, wkt, err := gdalio.OpenRaster(args[0])
		if err != nil {
			return err
		}
		alg, err := reproj.ParseResampling(warpResampling)
		if err != nil {
			return err
		}
		dst, outProjection, err := warpTarget(r, wkt)
		if err != nil {
			return err
		}
		out, err := reproj.Warp(r, dst, alg)
		if err != nil {
			return err
		}
		return gdalio.WriteRaster(args[1], out, gdalio.Projection(outProjection))
	},
}

// warpTarget builds the destination grid from the configuration. A
// full [Grid] section wins; a [Grid] section holding only a projection
// carries the source grid's shape into that projection.
func warpTarget(r *rastervec.Raster, wkt string) (*rastervec.GridTemplate, string, error) {
	if Config.Grid.Nx > 0 && Config.Grid.Ny > 0 {
		t, err := Config.Grid.Template()
		if err != nil {
			return nil, "", err
		}
		return t, Config.Grid.Projection, nil
	}
	if Config.Grid.Projection == "" {
		return r.Template(), wkt, nil
	}
	dst, err := proj.Parse(Config.Grid.Projection)
	if err != nil {
		return nil, "", fmt.Errorf("parsing grid projection: %w", err)
	}
	t, err := reproj.Template(r.Template(), dst)
	if err != nil {
		return nil, "", err
	}
	return t, Config.Grid.Projection, nil
}
