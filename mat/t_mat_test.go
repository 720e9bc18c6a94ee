// Copyright 2016 The Geomat Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package mat

import (
	"testing"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/la"
	"github.com/cpmech/gosl/num"
	"github.com/cpmech/gosl/rnd"
	"github.com/cpmech/gosl/utl"

	"github.com/dpfield/geomat/geo"
)

func Test_project01(tst *testing.T) {

	//verbose()
	chk.PrintTitle("project01. tanh projection")

	// β = 0 degenerates to the identity
	chk.Scalar(tst, "β=0", 1e-17, Project(0.3, 0, 0.5), 0.3)

	// the midpoint maps to 1/2 for every β
	for _, beta := range []float64{1, 8, 64, 1e9} {
		chk.Scalar(tst, "u=η", 1e-17, Project(0.5, beta, 0.5), 0.5)
	}

	// endpoints are fixed
	chk.Scalar(tst, "u=0", 1e-15, Project(0, 7, 0.4), 0)
	chk.Scalar(tst, "u=1", 1e-15, Project(1, 7, 0.4), 1)

	// large β approaches a step
	if v := Project(0.6, 1e3, 0.5); v < 0.999 {
		tst.Errorf("Project(0.6,1e3,0.5) must saturate, got %g\n", v)
	}
	if v := Project(0.4, 1e3, 0.5); v > 0.001 {
		tst.Errorf("Project(0.4,1e3,0.5) must vanish, got %g\n", v)
	}
}

func Test_tensor01(tst *testing.T) {

	//verbose()
	chk.PrintTitle("tensor01. inversion")

	rnd.Init(1234)
	for k := 0; k < 10; k++ {
		t := SymTensor{
			M00: 2 + rnd.Float64(0, 1), M11: 3 + rnd.Float64(0, 1), M22: 4 + rnd.Float64(0, 1),
			M01: rnd.Float64(-0.5, 0.5), M02: rnd.Float64(-0.5, 0.5), M12: rnd.Float64(-0.5, 0.5),
		}
		ti := t.Inv()
		a := la.MatAlloc(3, 3)
		b := la.MatAlloc(3, 3)
		t.Dense(a)
		ti.Dense(b)
		prod := la.MatAlloc(3, 3)
		for i := 0; i < 3; i++ {
			for j := 0; j < 3; j++ {
				for l := 0; l < 3; l++ {
					prod[i][j] += a[i][l] * b[l][j]
				}
			}
		}
		chk.Matrix(tst, "T·T⁻¹", 1e-13, prod, [][]float64{{1, 0, 0}, {0, 1, 0}, {0, 0, 1}})
	}

	// diagonal fast path
	d := SymTensor{M00: 2, M11: 4, M22: 8}
	di := d.Inv()
	chk.Vector(tst, "diag inv", 1e-17, []float64{di.M00, di.M11, di.M22}, []float64{0.5, 0.25, 0.125})
}

func Test_tensor02(tst *testing.T) {

	//verbose()
	chk.PrintTitle("tensor02. rotation")

	t := SymTensor{M00: 2, M11: 3, M22: 5, M01: 0.1}

	// identity rotation leaves the tensor unchanged
	eye := [][]float64{{1, 0, 0}, {0, 1, 0}, {0, 0, 1}}
	r := t.Rotate(eye)
	chk.Scalar(tst, "m00", 1e-15, r.M00, t.M00)
	chk.Scalar(tst, "m01", 1e-15, r.M01, t.M01)

	// any rotation preserves the trace
	s, c := 0.6, 0.8
	rot := [][]float64{{c, -s, 0}, {s, c, 0}, {0, 0, 1}}
	r = t.Rotate(rot)
	chk.Scalar(tst, "trace", 1e-13, r.Trace(), t.Trace())
}

func Test_mapcoord01(tst *testing.T) {

	//verbose()
	chk.PrintTitle("mapcoord01. cell-centered index mapping")

	i1, i2, d := MapCoord(0.5, 4)
	if i1 != 1 || i2 != 2 {
		tst.Errorf("MapCoord(0.5,4): indices (%d,%d) must be (1,2)\n", i1, i2)
		return
	}
	chk.Scalar(tst, "d mid", 1e-15, d, 0.5)

	// clamping below the first center and above the last
	i1, i2, d = MapCoord(0, 4)
	if i1 != 0 || i2 != 1 {
		tst.Errorf("MapCoord(0,4): indices (%d,%d) must be (0,1)\n", i1, i2)
		return
	}
	chk.Scalar(tst, "d lo", 1e-15, d, 0)

	i1, i2, d = MapCoord(1, 4)
	if i1 != 3 || i2 != 3 {
		tst.Errorf("MapCoord(1,4): indices (%d,%d) must be (3,3)\n", i1, i2)
		return
	}
	chk.Scalar(tst, "d hi", 1e-15, d, 0)
}

func Test_grid01(tst *testing.T) {

	//verbose()
	chk.PrintTitle("grid01. trilinear interpolation")

	g := &DensityGrid{N: [3]int{3, 3, 3}, Weights: make([]float64, 27), Eta: 0.5}

	// constant field interpolates to the constant everywhere
	for i := range g.Weights {
		g.Weights[i] = 0.7
	}
	for _, p := range []geo.Vec{{}, {X: 0.5, Y: 0.5, Z: 0.5}, {X: 0.2, Y: 0.9, Z: 0.4}} {
		chk.Scalar(tst, "const", 1e-15, g.Value(p), 0.7)
		grad := g.RawGrad(p)
		chk.Vector(tst, "const grad", 1e-15, []float64{grad.X, grad.Y, grad.Z}, []float64{0, 0, 0})
	}

	// linear ramp along x reproduces its slope
	for x := 0; x < 3; x++ {
		for y := 0; y < 3; y++ {
			for z := 0; z < 3; z++ {
				g.Weights[(x*3+y)*3+z] = float64(x)
			}
		}
	}
	grad := g.RawGrad(geo.Vec{X: 0.5, Y: 0.5, Z: 0.5})
	chk.Scalar(tst, "ramp ∂u/∂x", 1e-15, grad.X, 3) // one cell per sample, scaled by n
	chk.Scalar(tst, "ramp ∂u/∂y", 1e-15, grad.Y, 0)
}

func Test_grid02(tst *testing.T) {

	//verbose()
	chk.PrintTitle("grid02. medium interpolation")

	air := Vacuum()
	si := Vacuum()
	si.EpsDiag = geo.Vec{X: 12, Y: 12, Z: 12}
	si.ESus = []Susceptibility{{SigmaDiag: geo.Vec{X: 2, Y: 2, Z: 2}, Frequency: 1.1, Gamma: 0.01}}
	si.DCondDiag = geo.Vec{X: 4, Y: 4, Z: 4}

	g := &DensityGrid{M1: air, M2: si, Eta: 0.5, Damping: 8}

	m := g.InterpMedium(0)
	chk.Scalar(tst, "ε(0)", 1e-15, m.EpsDiag.X, 1)
	chk.Scalar(tst, "σ_sus(0)", 1e-15, m.ESus[0].SigmaDiag.X, 0)
	chk.Scalar(tst, "cond(0)", 1e-15, m.DCondDiag.X, 0)

	m = g.InterpMedium(1)
	chk.Scalar(tst, "ε(1)", 1e-15, m.EpsDiag.X, 12)
	chk.Scalar(tst, "σ_sus(1)", 1e-15, m.ESus[0].SigmaDiag.X, 2)
	chk.Scalar(tst, "cond(1)", 1e-15, m.DCondDiag.X, 4)

	m = g.InterpMedium(0.5)
	chk.Scalar(tst, "ε(1/2)", 1e-15, m.EpsDiag.X, 6.5)
	chk.Scalar(tst, "σ_sus(1/2)", 1e-15, m.ESus[0].SigmaDiag.X, 1)
	// linear conductivity plus damping u(1-u)
	chk.Scalar(tst, "cond(1/2)", 1e-15, m.DCondDiag.X, 2+8*0.25)

	// oscillator parameters survive the scaling so terms stay Equiv
	if !m.ESus[0].Equiv(si.ESus[0]) {
		tst.Errorf("interpolated susceptibility must stay Equiv to its source\n")
	}
}

func Test_grid03(tst *testing.T) {

	//verbose()
	chk.PrintTitle("grid03. interpolant gradient vs numerical derivative")

	rnd.Init(4321)
	g := &DensityGrid{N: [3]int{4, 4, 4}, Weights: make([]float64, 64), Eta: 0.5}
	for i := range g.Weights {
		g.Weights[i] = rnd.Float64(0, 1)
	}

	// sweep inside one interpolation cell so the interpolant is smooth
	p := geo.Vec{Y: 0.3, Z: 0.7}
	X := utl.LinSpace(0.2, 0.3, 5)
	for _, xval := range X {
		p.X = xval
		dana := g.RawGrad(p).X
		dnum, _ := num.DerivCentral(func(x float64, args ...interface{}) (res float64) {
			return g.Value(geo.Vec{X: x, Y: p.Y, Z: p.Z})
		}, xval, 1e-4)
		chk.Scalar(tst, "∂u/∂x", 1e-8, dana, dnum)
	}
}
