// Copyright 2016 The Geomat Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package inp

import (
	"github.com/cpmech/gosl/chk"
	"gopkg.in/gcfg.v1"
)

// Options holds run options read from a .cfg (INI) file
type Options struct {
	Run struct {
		Resolution   float64 // pixels per unit length
		Frequency    float64 // evaluation frequency; 0 => instantaneous permittivity
		EpsAveraging bool    // enable subpixel averaging of object interfaces
		Verbose      bool
	}
	Output struct {
		Dir     string // output directory
		EpsFile string // epsilon grid output filename
	}
	Frag struct {
		Enabled  bool
		SplitsX  int // fragments along x
		SplitsY  int
		SplitsZ  int
		NumFreqs int // monitor frequencies assumed per DFT region
	}
}

// DefaultOptions returns options for a plain run
func DefaultOptions() *Options {
	var o Options
	o.Run.Resolution = 16
	o.Run.EpsAveraging = true
	o.Output.Dir = "/tmp/geomat"
	o.Output.EpsFile = "eps.bin"
	o.Frag.SplitsX = 1
	o.Frag.SplitsY = 1
	o.Frag.SplitsZ = 1
	return &o
}

// ReadOptions reads run options from a .cfg file, keeping defaults for
// absent entries
func ReadOptions(path string) *Options {
	o := DefaultOptions()
	if err := gcfg.ReadFileInto(o, path); err != nil {
		chk.Panic("ReadOptions: cannot read options file %q\n%v", path, err)
	}
	return o
}
