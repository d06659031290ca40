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

	"github.com/spf13/cobra"

	"github.com/spatialmodel/rastervec"
	"github.com/spatialmodel/rastervec/gdalio"
	"github.com/spatialmodel/rastervec/reproj"
)

var (
	rasterizeField      string
	rasterizeFill       float64
	rasterizeMerge      string
	rasterizeAllTouched bool
)

func init() {
	RootCmd.AddCommand(rasterizeCmd)

	rasterizeCmd.Flags().StringVar(&rasterizeField, "field", "", "attribute column holding burn values; a constant 1 is burned when empty")
	rasterizeCmd.Flags().Float64Var(&rasterizeFill, "fill", 0, "background value for unburned cells")
	rasterizeCmd.Flags().StringVar(&rasterizeMerge, "merge", "replace", "overlap resolution: replace or add")
	rasterizeCmd.Flags().BoolVar(&rasterizeAllTouched, "all-touched", false, "burn every cell the geometries touch")
}

var rasterizeCmd = &cobra.Command{
	Use:   "rasterize features.shp out.tif",
	Short: "Burn vector geometries onto a raster grid",
	Long: `rasterize burns vector geometries onto the grid described by the
[Grid] section of the configuration file. Each feature burns the value
of the attribute named by --field, or a constant 1 when no field is
given.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		t, err := Config.Grid.Template()
		if err != nil {
			return fmt.Errorf("the rasterize command requires a [Grid] section in the "+
				"configuration file: %w", err)
		}
		pairs, sr, err := readVector(args[0], fieldSetting(cmd.Flags(), rasterizeField), 1)
		if err != nil {
			return err
		}
		pairs, err = reproj.Geometries(pairs, sr, t.SR)
		if err != nil {
			return err
		}
		merge, err := parseMerge(rasterizeMerge)
		if err != nil {
			return err
		}
		out, err := rastervec.Rasterize(pairs, t, rastervec.RasterizeOptions{
			Merge:      merge,
			Fill:       fillSetting(cmd.Flags(), rasterizeFill),
			AllTouched: touchedSetting(cmd.Flags(), rasterizeAllTouched),
		})
		if err != nil {
			return err
		}
		return gdalio.WriteRaster(args[1], out, gdalio.Projection(Config.Grid.Projection))
	},
}

func parseMerge(name string) (rastervec.MergeMode, error) {
	switch name {
	case "", "replace":
		return rastervec.MergeReplace, nil
	case "add":
		return rastervec.MergeAdd, nil
	}
	return 0, fmt.Errorf("%w: unknown merge mode %q", rastervec.ErrInvalidParameter, name)
}
