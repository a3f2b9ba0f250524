// Copyright 2024 The Regblock Authors.
//
// Use of this source code is governed by a BSD 3-clause
// license that can be found in the LICENSE file.

package model

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestPath(t *testing.T) {
	tests := []struct {
		path   Path
		dotted string
		signal string
	}{
		{
			path:   Path{}.With("top", -1),
			dotted: "top",
			signal: "top",
		},
		{
			path:   Path{}.With("top", -1).With("ctrl", -1),
			dotted: "top.ctrl",
			signal: "top_ctrl",
		},
		{
			path:   Path{}.With("top", -1).With("blk", 2).With("ctrl", -1).With("mode", -1),
			dotted: "top.blk[2].ctrl.mode",
			signal: "top_blk_2_ctrl_mode",
		},
		{
			path:   Path{}.With("top", -1).With("irq", 0),
			dotted: "top.irq[0]",
			signal: "top_irq_0",
		},
	}

	for _, test := range tests {
		if got := test.path.Dotted(); got != test.dotted {
			t.Errorf("Path%v.Dotted(): got %q, want %q", test.path, got, test.dotted)
		}

		if got := test.path.Signal(); got != test.signal {
			t.Errorf("Path%v.Signal(): got %q, want %q", test.path, got, test.signal)
		}
	}
}

func TestPathWithDoesNotAlias(t *testing.T) {
	base := Path{}.With("top", -1).With("blk", -1)
	a := base.With("ctrl", -1)
	b := base.With("stat", -1)
	if a.Dotted() != "top.blk.ctrl" || b.Dotted() != "top.blk.stat" {
		t.Fatalf("With() aliased its receiver: %q, %q", a.Dotted(), b.Dotted())
	}
}

const exampleModel = `
name = "top"
access-width = 8

[[register]]
name = "ctrl"
width = 8

  [[register.field]]
  name = "mode"
  lsb = 0
  width = 4
  sw = "rw"
  hw = "r"
  reset = 3

  [[register.field]]
  name = "start"
  lsb = 7
  width = 1
  sw = "w"
  hw = "r"
  swmod = true

[[register]]
name = "data"
width = 16

  [[register.field]]
  name = "data0"
  lsb = 0
  width = 8
  sw = "rw"
  hw = "r"

  [[register.field]]
  name = "data1"
  lsb = 8
  width = 8
  sw = "rw"
  hw = "r"

[[instance]]
name = "ctrl"
type = "ctrl"
offset = 0

[[instance]]
name = "data"
type = "data"
offset = 1

[[group]]
name = "blk"
offset = 4
count = 2
stride = 4

  [[group.instance]]
  name = "stat"
  type = "ctrl"
  offset = 0
`

func TestLoad(t *testing.T) {
	m, err := Load(strings.NewReader(exampleModel))
	if err != nil {
		t.Fatalf("Load(): %v", err)
	}

	want := &AddressMap{
		Name:        "top",
		AccessWidth: 8,
		Types: []*RegisterType{
			{
				Name:  "ctrl",
				Width: 8,
				Fields: []*Field{
					{Name: "mode", LSB: 0, Width: 4, SW: AccessRW, HW: AccessR, Reset: 3},
					{Name: "start", LSB: 7, Width: 1, SW: AccessW, HW: AccessR, Swmod: true},
				},
			},
			{
				Name:  "data",
				Width: 16,
				Fields: []*Field{
					{Name: "data0", LSB: 0, Width: 8, SW: AccessRW, HW: AccessR},
					{Name: "data1", LSB: 8, Width: 8, SW: AccessRW, HW: AccessR},
				},
			},
		},
		Instances: []*RegisterInstance{
			{Name: "ctrl", Type: "ctrl", Offset: 0},
			{Name: "data", Type: "data", Offset: 1},
		},
		Groups: []*Collection{
			{
				Name:   "blk",
				Offset: 4,
				Count:  2,
				Stride: 4,
				Instances: []*RegisterInstance{
					{Name: "stat", Type: "ctrl", Offset: 0},
				},
			},
		},
	}

	if diff := cmp.Diff(want, m); diff != "" {
		t.Fatalf("Load(): (-want, +got)\n%s", diff)
	}
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		Name   string
		Source string
		Want   string
	}{
		{
			Name:   "Unknown key",
			Source: "name = \"top\"\naccess-width = 8\nbogus = 1\n",
			Want:   "unrecognised key",
		},
		{
			Name:   "Bad access mode",
			Source: "name = \"top\"\naccess-width = 8\n[[register]]\nname = \"r\"\nwidth = 8\n[[register.field]]\nname = \"f\"\nlsb = 0\nwidth = 1\nsw = \"wo\"\n",
			Want:   "unrecognised access mode",
		},
		{
			Name:   "No name",
			Source: "access-width = 8\n",
			Want:   "no name",
		},
		{
			Name:   "Access width not a power of two",
			Source: "name = \"top\"\naccess-width = 12\n",
			Want:   "not a power of two",
		},
		{
			Name:   "Field out of range",
			Source: "name = \"top\"\naccess-width = 8\n[[register]]\nname = \"r\"\nwidth = 8\n[[register.field]]\nname = \"f\"\nlsb = 6\nwidth = 4\n",
			Want:   "exceeds register width",
		},
		{
			Name:   "Reset too large",
			Source: "name = \"top\"\naccess-width = 8\n[[register]]\nname = \"r\"\nwidth = 8\n[[register.field]]\nname = \"f\"\nlsb = 0\nwidth = 2\nreset = 4\n",
			Want:   "reset value",
		},
		{
			Name:   "Unknown register type",
			Source: "name = \"top\"\naccess-width = 8\n[[instance]]\nname = \"i\"\ntype = \"missing\"\n",
			Want:   "unknown register type",
		},
		{
			Name:   "Duplicate register type",
			Source: "name = \"top\"\naccess-width = 8\n[[register]]\nname = \"r\"\nwidth = 8\n[[register]]\nname = \"r\"\nwidth = 8\n",
			Want:   "declared twice",
		},
	}

	for _, test := range tests {
		t.Run(test.Name, func(t *testing.T) {
			_, err := Load(strings.NewReader(test.Source))
			if err == nil {
				t.Fatalf("Load(): expected error containing %q, got nil", test.Want)
			}

			if !strings.Contains(err.Error(), test.Want) {
				t.Fatalf("Load(): got error %q, want one containing %q", err.Error(), test.Want)
			}
		})
	}
}
