// Copyright 2016 The Geomat Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package frag

import (
	"testing"

	"github.com/cpmech/gosl/chk"

	"github.com/dpfield/geomat/geo"
	"github.com/dpfield/geomat/mat"
	"github.com/dpfield/geomat/tree"
)

func unitFragment() geo.Box {
	return geo.Box{Lo: geo.Vec{}, Hi: geo.Vec{X: 1, Y: 1, Z: 1}}
}

func Test_frag01(tst *testing.T) {

	//verbose()
	chk.PrintTitle("frag01. pixel counting")

	med := mat.Vacuum()
	med.DCondDiag = geo.Vec{X: 2, Y: 2, Z: 2}

	// block covering the left half of the fragment
	blk := geo.NewBlock(geo.Vec{X: 0, Y: 0.5, Z: 0.5}, geo.Vec{X: 1, Y: 2, Z: 2})
	est := &Estimator{
		Objects: []tree.Object{
			{Shape: blk, Mat: &mat.Uniform{Medium: med}, ID: 0},
		},
		Default:    &mat.Uniform{Medium: mat.Vacuum()},
		Resolution: 10,
		Dim:        geo.D3,
	}

	st := est.Compute(unitFragment())
	chk.Scalar(tst, "pixels", 1e-15, st.NumPixelsInBox, 1000)
	// half the fragment, three nonzero conductivity components
	chk.Scalar(tst, "conductivity", 1e-12, st.NumConductivity, 1500)
	chk.Scalar(tst, "anisotropic", 1e-15, st.NumAnisoEps, 0)
	if st.Cost() <= 0 {
		tst.Errorf("cost must be positive\n")
	}
}

func Test_frag02(tst *testing.T) {

	//verbose()
	chk.PrintTitle("frag02. averaging marks interface fragments anisotropic")

	med := mat.Vacuum()
	med.EpsDiag = geo.Vec{X: 12, Y: 12, Z: 12}
	blk := geo.NewBlock(geo.Vec{X: 0, Y: 0.5, Z: 0.5}, geo.Vec{X: 1, Y: 2, Z: 2})
	est := &Estimator{
		Objects: []tree.Object{
			{Shape: blk, Mat: &mat.Uniform{Medium: med}, ID: 0},
		},
		Resolution:   10,
		Dim:          geo.D3,
		EpsAveraging: true,
	}

	st := est.Compute(unitFragment())
	chk.Scalar(tst, "anisotropic", 1e-15, st.NumAnisoEps, 1000)
	chk.Scalar(tst, "anisotropic mu", 1e-15, st.NumAnisoMu, 0)

	// a fragment fully inside the block is not an interface
	inner := geo.Box{Lo: geo.Vec{X: -0.4, Y: 0.1, Z: 0.1}, Hi: geo.Vec{X: -0.1, Y: 0.4, Z: 0.4}}
	st = est.Compute(inner)
	chk.Scalar(tst, "interior", 1e-15, st.NumAnisoEps, 0)
}

func Test_frag03(tst *testing.T) {

	//verbose()
	chk.PrintTitle("frag03. monitors and boundary layers")

	est := &Estimator{
		Resolution: 10,
		Dim:        geo.D3,
		DFT: []DFTData{{
			NumFreqs:      5,
			NumComponents: 2,
			Vols: []geo.Box{
				{Lo: geo.Vec{X: 0.2, Y: 0.2, Z: 0.2}, Hi: geo.Vec{X: 0.4, Y: 0.4, Z: 0.4}},
			},
		}},
		PML3D: []geo.Box{
			{Lo: geo.Vec{}, Hi: geo.Vec{X: 0.1, Y: 1, Z: 1}},
		},
	}

	st := est.Compute(unitFragment())
	// monitor: 2³ pixels × 5 freqs × 2 components
	chk.Scalar(tst, "dft", 1e-15, st.NumDFT, 80)
	chk.Scalar(tst, "pml", 1e-15, st.Num3DPML, 100)

	// more physics costs more
	empty := est.Compute(geo.Box{Lo: geo.Vec{X: 2, Y: 2, Z: 2}, Hi: geo.Vec{X: 3, Y: 3, Z: 3}})
	if st.Cost() <= empty.Cost() {
		tst.Errorf("fragment with monitors and pml must cost more: %g <= %g\n", st.Cost(), empty.Cost())
	}
}
