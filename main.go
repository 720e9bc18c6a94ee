// Copyright 2016 The Geomat Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"os"
	"path/filepath"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"

	"github.com/dpfield/geomat/eps"
	"github.com/dpfield/geomat/frag"
	"github.com/dpfield/geomat/geo"
	"github.com/dpfield/geomat/inp"
)

func main() {

	// catch errors
	defer func() {
		if err := recover(); err != nil {
			io.PfRed("\nERROR: %v\n", err)
			io.Pf("See location of error below:\n")
			chk.Verbose = true
			for i := 5; i > 3; i-- {
				chk.CallerInfo(i)
			}
		}
	}()

	// read input parameters
	scnpath, _ := io.ArgToFilename(0, "", ".geo", true)
	cfgpath, cfgkey := io.ArgToFilename(1, "", ".cfg", false)

	// options
	opts := inp.DefaultOptions()
	if cfgkey != "" {
		opts = inp.ReadOptions(cfgpath)
	}

	// message
	if opts.Run.Verbose {
		io.PfWhite("\nGeomat -- Effective Electromagnetic Material Resolution\n")
		io.Pf("\n%v\n", io.ArgsTable("INPUT ARGUMENTS",
			"scene file path", "scnpath", scnpath,
			"options file path", "cfgpath", cfgpath,
		))
	}

	// scene
	scn := inp.ReadScene(scnpath)
	res := eps.NewResolver(scn.Ctx, scn.Ndim, scn.Objs, scn.Bounds)
	if scn.Data.Tol > 0 {
		res.Tol = scn.Data.Tol
	}
	if scn.Data.MaxEval > 0 {
		res.MaxEval = scn.Data.MaxEval
	}

	// epsilon grid
	xs, nx := axisSamples(scn.Bounds.Lo.X, scn.Bounds.Hi.X, opts.Run.Resolution)
	ys, ny := axisSamples(scn.Bounds.Lo.Y, scn.Bounds.Hi.Y, opts.Run.Resolution)
	zs, nz := axisSamples(scn.Bounds.Lo.Z, scn.Bounds.Hi.Z, opts.Run.Resolution)
	out := make([]complex128, nx*ny*nz)
	res.EpsilonGrid(xs, ys, zs, opts.Run.Frequency, out)

	re := make([]float64, len(out))
	for i, v := range out {
		re[i] = real(v)
	}
	dims := [3]int{nx, ny, nz}
	if err := os.MkdirAll(opts.Output.Dir, 0777); err != nil {
		chk.Panic("cannot create output directory %q", opts.Output.Dir)
	}
	epspath := filepath.Join(opts.Output.Dir, opts.Output.EpsFile)
	inp.WriteField(epspath, re, dims)
	if opts.Run.Frequency != 0 {
		im := make([]float64, len(out))
		for i, v := range out {
			im[i] = imag(v)
		}
		inp.WriteField(epspath+".imag", im, dims)
	}
	if opts.Run.Verbose {
		io.Pf("epsilon grid (%d x %d x %d) written to %s\n", nx, ny, nz, epspath)
	}

	// fragment cost report
	if opts.Frag.Enabled {
		est := &frag.Estimator{
			Objects:      scn.Objs,
			Default:      scn.Ctx.Default,
			Resolution:   opts.Run.Resolution,
			Dim:          scn.Ndim,
			EpsAveraging: opts.Run.EpsAveraging,
		}
		total := 0.0
		for _, box := range splitCell(scn.Bounds, opts.Frag.SplitsX, opts.Frag.SplitsY, opts.Frag.SplitsZ) {
			st := est.Compute(box)
			if opts.Run.Verbose {
				st.Print()
			}
			total += st.Cost()
		}
		io.Pf("total estimated cost: %g\n", total)
	}
}

// axisSamples places pixel-center sample coordinates along one axis; a
// collapsed axis yields its single coordinate
func axisSamples(lo, hi, resolution float64) ([]float64, int) {
	if hi <= lo {
		return []float64{lo}, 1
	}
	n := int((hi-lo)*resolution + 0.5)
	if n < 1 {
		n = 1
	}
	dx := (hi - lo) / float64(n)
	xs := make([]float64, n)
	for i := range xs {
		xs[i] = lo + (float64(i)+0.5)*dx
	}
	return xs, n
}

// splitCell bisects the cell into a regular grid of fragment boxes
func splitCell(cell geo.Box, nx, ny, nz int) []geo.Box {
	at := func(lo, hi float64, i, n int) (a, b float64) {
		d := (hi - lo) / float64(n)
		return lo + float64(i)*d, lo + float64(i+1)*d
	}
	var boxes []geo.Box
	for i := 0; i < nx; i++ {
		for j := 0; j < ny; j++ {
			for k := 0; k < nz; k++ {
				var b geo.Box
				b.Lo.X, b.Hi.X = at(cell.Lo.X, cell.Hi.X, i, nx)
				b.Lo.Y, b.Hi.Y = at(cell.Lo.Y, cell.Hi.Y, j, ny)
				b.Lo.Z, b.Hi.Z = at(cell.Lo.Z, cell.Hi.Z, k, nz)
				boxes = append(boxes, b)
			}
		}
	}
	return boxes
}
