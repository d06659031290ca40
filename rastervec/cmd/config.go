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
	"os"

	"github.com/BurntSushi/toml"
	"github.com/ctessum/geom/proj"

	"github.com/spatialmodel/rastervec"
)

// GridConfig describes an output grid for operations that create a
// raster from scratch.
type GridConfig struct {
	// Nx and Ny are the number of columns and rows.
	Nx, Ny int

	// Xmin and Ymax are the world coordinates of the grid's top-left
	// corner.
	Xmin, Ymax float64

	// Dx and Dy are the cell sizes.
	Dx, Dy float64

	// Projection is the grid's spatial reference, as a PROJ.4 or
	// well-known-text string. It may be empty.
	Projection string
}

// Template converts the configuration to a grid template.
func (g GridConfig) Template() (*rastervec.GridTemplate, error) {
	var sr *proj.SR
	if g.Projection != "" {
		var err error
		if sr, err = proj.Parse(g.Projection); err != nil {
			return nil, fmt.Errorf("parsing grid projection: %w", err)
		}
	}
	gt := [6]float64{g.Xmin, g.Dx, 0, g.Ymax, 0, -g.Dy}
	return rastervec.NewTemplate(g.Nx, g.Ny, gt, sr)
}

// ConfigData holds configuration defaults shared by the commands.
// Command-line flags override the corresponding fields.
type ConfigData struct {
	// ValueField is the attribute column holding per-feature burn
	// values or labels. Paths and fields can include environment
	// variables.
	ValueField string

	// Fill is the fill and no-data value for masking and rasterizing.
	Fill float64

	// AllTouched selects or burns every cell a geometry touches
	// rather than only cells whose center it covers.
	AllTouched bool

	// Stats names the zonal statistics to compute.
	Stats []string

	// Grid describes the output grid for rasterize and distance.
	Grid GridConfig
}

// ReadConfigFile reads and parses a TOML configuration file. An empty
// filename yields the built-in defaults.
func ReadConfigFile(filename string) (*ConfigData, error) {
	config := new(ConfigData)
	if filename == "" {
		return config, nil
	}
	bytes, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("the configuration file you have specified, %v, does not "+
			"appear to exist. Please check the file name and location and "+
			"try again", filename)
	}
	if _, err := toml.Decode(string(bytes), config); err != nil {
		return nil, fmt.Errorf("there has been an error parsing the configuration file: %v", err)
	}
	config.ValueField = os.ExpandEnv(config.ValueField)
	config.Grid.Projection = os.ExpandEnv(config.Grid.Projection)
	return config, nil
}
