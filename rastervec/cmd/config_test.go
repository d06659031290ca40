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
	"os"
	"path/filepath"
	"testing"

	"github.com/spatialmodel/rastervec"
)

const testConfig = `
ValueField = "${RASTERVEC_TEST_FIELD}"
Fill = -9999.0
AllTouched = true
Stats = ["mean", "count"]

[Grid]
Nx = 4
Ny = 4
Xmin = 0.0
Ymax = 4.0
Dx = 1.0
Dy = 1.0
`

func TestReadConfigFile(t *testing.T) {
	os.Setenv("RASTERVEC_TEST_FIELD", "pop")
	defer os.Unsetenv("RASTERVEC_TEST_FIELD")

	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(testConfig), 0644); err != nil {
		t.Fatal(err)
	}
	cfg, err := ReadConfigFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.ValueField != "pop" {
		t.Errorf("ValueField = %q, want pop", cfg.ValueField)
	}
	if cfg.Fill != -9999 {
		t.Errorf("Fill = %g, want -9999", cfg.Fill)
	}
	if !cfg.AllTouched {
		t.Error("AllTouched should be true")
	}
	if len(cfg.Stats) != 2 || cfg.Stats[0] != "mean" || cfg.Stats[1] != "count" {
		t.Errorf("Stats = %v, want [mean count]", cfg.Stats)
	}

	tmpl, err := cfg.Grid.Template()
	if err != nil {
		t.Fatal(err)
	}
	if tmpl.Nx != 4 || tmpl.Ny != 4 {
		t.Errorf("grid is %d x %d, want 4 x 4", tmpl.Nx, tmpl.Ny)
	}
	want := [6]float64{0, 1, 0, 4, 0, -1}
	if tmpl.GT != want {
		t.Errorf("geotransform = %v, want %v", tmpl.GT, want)
	}
}

func TestReadConfigFileEmpty(t *testing.T) {
	cfg, err := ReadConfigFile("")
	if err != nil {
		t.Fatal(err)
	}
	if cfg.ValueField != "" || cfg.Fill != 0 || cfg.AllTouched {
		t.Errorf("unexpected defaults: %+v", cfg)
	}
}

func TestReadConfigFileMissing(t *testing.T) {
	if _, err := ReadConfigFile("/no/such/config.toml"); err == nil {
		t.Fatal("expected an error for a missing file")
	}
}

func TestParseMerge(t *testing.T) {
	for name, want := range map[string]rastervec.MergeMode{
		"":        rastervec.MergeReplace,
		"replace": rastervec.MergeReplace,
		"add":     rastervec.MergeAdd,
	} {
		got, err := parseMerge(name)
		if err != nil {
			t.Fatalf("%q: %v", name, err)
		}
		if got != want {
			t.Errorf("parseMerge(%q) = %v, want %v", name, got, want)
		}
	}
	if _, err := parseMerge("multiply"); err == nil {
		t.Fatal("expected an error for an unknown merge mode")
	}
}

func TestParseInterpolation(t *testing.T) {
	if _, err := parseInterpolation("cubic"); err == nil {
		t.Fatal("expected an error for an unknown interpolation")
	}
	got, err := parseInterpolation("bilinear")
	if err != nil {
		t.Fatal(err)
	}
	if got != rastervec.InterpBilinear {
		t.Errorf("parseInterpolation(bilinear) = %v", got)
	}
}
