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
	"go.uber.org/zap"

	"github.com/spatialmodel/rastervec"
	"github.com/spatialmodel/rastervec/gdalio"
)

var (
	configFile string
	verbose    bool

	// Config holds the global configuration data.
	Config *ConfigData
)

// RootCmd is the main command.
var RootCmd = &cobra.Command{
	Use:   "rastervec",
	Short: "Convert and join data between rasters and vector geometries.",
	Long: `rastervec clips, samples, and summarizes rasters with vector
geometries, burns geometries onto grids, and traces grids back into
polygons, points, and contour lines.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return Startup(configFile)
	},
}

// Startup reads the configuration file, if one was given, and sets up
// logging.
func Startup(configFile string) error {
	var err error
	Config, err = ReadConfigFile(configFile)
	if err != nil {
		return err
	}
	if verbose {
		logger, err := zap.NewDevelopment()
		if err != nil {
			return err
		}
		gdalio.SetLogger(logger)
	}
	return nil
}

func init() {
	RootCmd.AddCommand(versionCmd)

	RootCmd.PersistentFlags().StringVar(&configFile, "config", "", "configuration file location")
	RootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log progress information")
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of rastervec",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("rastervec v%s\n", rastervec.Version)
	},
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return nil
	},
}
