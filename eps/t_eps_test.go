// Copyright 2016 The Geomat Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package eps

import (
	"math"
	"testing"

	"github.com/cpmech/gosl/chk"

	"github.com/dpfield/geomat/geo"
	"github.com/dpfield/geomat/mat"
	"github.com/dpfield/geomat/tree"
)

func uniform(epsval float64) *mat.Uniform {
	med := mat.Vacuum()
	med.EpsDiag = geo.Vec{X: epsval, Y: epsval, Z: epsval}
	return &mat.Uniform{Medium: med}
}

func cell() geo.Box {
	return geo.Box{Lo: geo.Vec{X: -5, Y: -5, Z: -5}, Hi: geo.Vec{X: 5, Y: 5, Z: 5}}
}

func pixel(c geo.Vec, h float64) geo.Box {
	d := geo.Vec{X: h, Y: h, Z: h}
	return geo.Box{Lo: c.Sub(d), Hi: c.Add(d)}
}

func Test_avg01(tst *testing.T) {

	//verbose()
	chk.PrintTitle("avg01. pixel inside one material is trivial")

	objs := []tree.Object{
		{Shape: &geo.Sphere{Center: geo.Vec{}, Radius: 3}, Mat: uniform(12), ID: 0},
	}
	r := NewResolver(mat.NewContext(), geo.D3, objs, cell())

	tinv, fallback := r.EffInvMatrix(mat.Ex, pixel(geo.Vec{}, 0.1))
	if fallback {
		tst.Errorf("interior pixel must not need the fallback\n")
		return
	}
	chk.Vector(tst, "tinv diag", 1e-15, []float64{tinv.M00, tinv.M11, tinv.M22},
		[]float64{1.0 / 12.0, 1.0 / 12.0, 1.0 / 12.0})

	// far outside: vacuum
	tinv, _ = r.EffInvMatrix(mat.Ex, pixel(geo.Vec{X: 4.5}, 0.1))
	chk.Scalar(tst, "vacuum", 1e-15, tinv.M00, 1)
}

func Test_avg02(tst *testing.T) {

	//verbose()
	chk.PrintTitle("avg02. flat interface closed form")

	// block fills the half-space x < 0
	blk := geo.NewBlock(geo.Vec{X: -5}, geo.Vec{X: 10, Y: 20, Z: 20})
	objs := []tree.Object{{Shape: blk, Mat: uniform(12), ID: 0}}
	r := NewResolver(mat.NewContext(), geo.D3, objs, cell())

	tinv, fallback := r.EffInvMatrix(mat.Ex, pixel(geo.Vec{}, 0.1))
	if fallback {
		tst.Errorf("two-material pixel must use the averaging path\n")
		return
	}
	f := 0.5
	chk.Scalar(tst, "normal", 1e-13, tinv.M00, f/12+(1-f)/1)
	chk.Scalar(tst, "tangential 1", 1e-13, tinv.M11, 1/(f*12+(1-f)*1))
	chk.Scalar(tst, "tangential 2", 1e-13, tinv.M22, 1/(f*12+(1-f)*1))
	chk.Scalar(tst, "offdiag", 1e-13, tinv.M01, 0)

	row := r.EffInvRow(mat.Ex, pixel(geo.Vec{}, 0.1))
	chk.Vector(tst, "row x", 1e-13, row[:], []float64{f/12 + (1-f)/1, 0, 0})
}

func Test_avg03(tst *testing.T) {

	//verbose()
	chk.PrintTitle("avg03. curved interface agrees with the flat formula")

	s := &geo.Sphere{Center: geo.Vec{}, Radius: 1}
	objs := []tree.Object{{Shape: s, Mat: uniform(12), ID: 0}}
	r := NewResolver(mat.NewContext(), geo.D3, objs, cell())

	v := pixel(geo.Vec{X: 1}, 0.05)
	f := geo.Overlap(v, s, r.Tol, r.MaxEval)
	tinv, fallback := r.EffInvMatrix(mat.Ex, v)
	if fallback {
		tst.Errorf("sphere surface pixel must use the averaging path\n")
		return
	}
	chk.Scalar(tst, "normal", 1e-9, tinv.M00, f/12+(1-f)/1)
	chk.Scalar(tst, "tangential", 1e-9, tinv.M11, 1/(f*12+(1-f)*1))
}

func Test_avg04(tst *testing.T) {

	//verbose()
	chk.PrintTitle("avg04. mixing endpoints reduce to the pure tensors")

	e1 := mat.SymTensor{M00: 12, M11: 10, M22: 9, M01: 0.4, M02: 0.2, M12: 0.1}
	e2 := mat.SymTensor{M00: 2, M11: 2, M22: 2}
	n := geo.Vec{X: 0.6, Y: 0.8}

	same := func(label string, a, b mat.SymTensor) {
		chk.Vector(tst, label, 1e-12,
			[]float64{a.M00, a.M11, a.M22, a.M01, a.M02, a.M12},
			[]float64{b.M00, b.M11, b.M22, b.M01, b.M02, b.M12})
	}
	same("fill=1", kottkeMix(e1, e2, 1, n), e1)
	same("fill=0", kottkeMix(e1, e2, 0, n), e2)
}

func Test_avg05(tst *testing.T) {

	//verbose()
	chk.PrintTitle("avg05. stacked mean grids at an interface pixel")

	si := mat.Vacuum()
	si.EpsDiag = geo.Vec{X: 12, Y: 12, Z: 12}
	constGrid := func(u float64) *mat.DensityGrid {
		g := &mat.DensityGrid{N: [3]int{2, 2, 2}, Weights: make([]float64, 8),
			M1: mat.Vacuum(), M2: si, Eta: 0.5, Kind: mat.AggMean}
		for i := range g.Weights {
			g.Weights[i] = u
		}
		return g
	}
	// the far spheres force an interior root node, so the mean over the two
	// inner grids and the large one must walk from a positioned iterator
	objs := []tree.Object{
		{Shape: &geo.Sphere{Center: geo.Vec{X: -4, Y: -4, Z: -4}, Radius: 0.5}, Mat: uniform(2), ID: 0},
		{Shape: &geo.Sphere{Center: geo.Vec{X: -4, Y: 4, Z: 4}, Radius: 0.5}, Mat: uniform(2), ID: 1},
		{Shape: geo.NewBlock(geo.Vec{}, geo.Vec{X: 4, Y: 4, Z: 4}), Mat: constGrid(0.3), ID: 2},
		{Shape: geo.NewBlock(geo.Vec{}, geo.Vec{X: 2, Y: 2, Z: 2}), Mat: constGrid(0.8), ID: 3},
		{Shape: geo.NewBlock(geo.Vec{}, geo.Vec{X: 2, Y: 2, Z: 2}), Mat: constGrid(0.3), ID: 4},
	}
	r := NewResolver(mat.NewContext(), geo.D3, objs, cell())

	// pixel straddling the shared face x=1 of the two inner grids: inside it
	// the mean density is (0.3+0.8+0.3)/3
	tinv, fallback := r.EffInvMatrix(mat.Ex, pixel(geo.Vec{X: 1}, 0.05))
	if fallback {
		tst.Errorf("grid pixel must not need the fallback\n")
		return
	}
	chk.Scalar(tst, "stacked mean", 1e-14, tinv.M00, 1/(1+11*1.4/3))
}

func Test_fallback01(tst *testing.T) {

	//verbose()
	chk.PrintTitle("fallback01. user function forces quadrature")

	uf := &mat.UserFunc{
		Func: func(p geo.Vec, m *mat.Medium) {
			m.EpsDiag = geo.Vec{X: 4, Y: 4, Z: 4}
		},
		DoAveraging: true,
	}
	objs := []tree.Object{
		{Shape: &geo.Sphere{Center: geo.Vec{}, Radius: 3}, Mat: uf, ID: 0},
	}
	r := NewResolver(mat.NewContext(), geo.D3, objs, cell())

	_, fallback := r.EffInvMatrix(mat.Ex, pixel(geo.Vec{}, 0.1))
	if !fallback {
		tst.Errorf("variable material with averaging must fall back\n")
		return
	}

	// uniform function: no interface gradient, plain inverse
	row := r.EffInvRow(mat.Ey, pixel(geo.Vec{}, 0.1))
	chk.Vector(tst, "row y", 1e-12, row[:], []float64{0, 0.25, 0})
}

func Test_fallback02(tst *testing.T) {

	//verbose()
	chk.PrintTitle("fallback02. negative permittivity guards the reciprocal mean")

	uf := &mat.UserFunc{
		Func: func(p geo.Vec, m *mat.Medium) {
			e := -4 + 0.5*p.X
			m.EpsDiag = geo.Vec{X: e, Y: e, Z: e}
		},
		DoAveraging: true,
	}
	objs := []tree.Object{
		{Shape: &geo.Sphere{Center: geo.Vec{}, Radius: 3}, Mat: uf, ID: 0},
	}
	r := NewResolver(mat.NewContext(), geo.D3, objs, cell())

	// gain medium: the integrated reciprocal mean is abandoned in favor of
	// the center-point value, so the row collapses to 1/eps(center) with no
	// normal contribution
	row := r.EffInvRow(mat.Ex, pixel(geo.Vec{}, 0.1))
	chk.Vector(tst, "row x", 1e-12, row[:], []float64{-0.25, 0, 0})
}

func Test_grid03(tst *testing.T) {

	//verbose()
	chk.PrintTitle("grid03. aggregation of stacked grids")

	constGrid := func(u float64) *mat.DensityGrid {
		g := &mat.DensityGrid{N: [3]int{2, 2, 2}, Weights: make([]float64, 8), Eta: 0.5}
		for i := range g.Weights {
			g.Weights[i] = u
		}
		return g
	}
	g0 := constGrid(0.5)
	g1 := constGrid(0.2)
	blk := func() geo.Shape { return geo.NewBlock(geo.Vec{}, geo.Vec{X: 4, Y: 4, Z: 4}) }
	objs := []tree.Object{
		{Shape: blk(), Mat: g0, ID: 0},
		{Shape: blk(), Mat: g1, ID: 1},
	}
	r := NewResolver(mat.NewContext(), geo.D3, objs, cell())

	p := geo.Vec{X: 0.3}
	check := func(kind mat.AggKind, expected float64, label string) {
		g1.Kind = kind
		m, front, it := r.MaterialAt(p)
		chk.Scalar(tst, label, 1e-15, r.GridVal(p, front, it, m.(*mat.DensityGrid)), expected)
	}
	check(mat.AggDefault, 0.2, "default")
	check(mat.AggMin, 0.2, "min")
	check(mat.AggProd, 0.1, "prod")
	check(mat.AggMean, 0.35, "mean")

	// explicit stacks agree
	g1.Kind = mat.AggMean
	sites := r.GridStack(p)
	if len(sites) != 2 {
		tst.Errorf("stack must have two grids, got %d\n", len(sites))
		return
	}
	chk.Scalar(tst, "stack mean", 1e-15, StackVal(sites, mat.AggMean), 0.35)
	chk.Scalar(tst, "stack prod", 1e-15, StackVal(sites, mat.AggProd), 0.1)

	// outside the geometry only a grid default material joins
	if n := len(r.GridStack(geo.Vec{X: 4.5})); n != 0 {
		tst.Errorf("no grid must cover (4.5,0,0), got %d\n", n)
	}
}

func Test_cond01(tst *testing.T) {

	//verbose()
	chk.PrintTitle("cond01. absorbing layer profile")

	r := NewResolver(mat.NewContext(), geo.D3, nil, cell())

	// quadratic profile of depth 1 on the high-x side
	R := math.Exp(-16.0)
	r.SetCondProfile(0, 1, 1.0, 0.1, func(u float64) float64 { return u * u }, R)

	// prefactor: -log(R)/(4 L ∫u²) = 16·3/4 = 12
	chk.Scalar(tst, "mid layer", 1e-12, r.Conductivity(mat.Ex, geo.Vec{X: 4.5}), 12*0.25)
	chk.Scalar(tst, "layer edge", 1e-12, r.Conductivity(mat.Ex, geo.Vec{X: 5}), 12)
	chk.Scalar(tst, "outside layer", 1e-15, r.Conductivity(mat.Ex, geo.Vec{X: 3}), 0)

	if !r.HasConductivity(mat.Ex) {
		tst.Errorf("profile must imply conductivity\n")
		return
	}

	// global bias adds everywhere
	r.Ctx.GlobalDCond = 0.5
	chk.Scalar(tst, "global", 1e-15, r.Conductivity(mat.Ey, geo.Vec{}), 0.5)
}

func Test_cond02(tst *testing.T) {

	//verbose()
	chk.PrintTitle("cond02. layer placement in a non-centered cell")

	// unit cell away from the origin: the layer hugs the cell faces
	b := geo.Box{Lo: geo.Vec{}, Hi: geo.Vec{X: 1, Y: 1, Z: 1}}
	r := NewResolver(mat.NewContext(), geo.D3, nil, b)

	R := math.Exp(-16.0)
	r.SetCondProfile(0, 1, 0.2, 0.02, func(u float64) float64 { return u * u }, R)

	// prefactor: -log(R)/(4 L ∫u²) = 16·3/0.8 = 60; the layer covers [0.8,1]
	chk.Scalar(tst, "mid layer", 1e-12, r.Conductivity(mat.Ex, geo.Vec{X: 0.9, Y: 0.5, Z: 0.5}), 60*0.25)
	chk.Scalar(tst, "cell center", 1e-15, r.Conductivity(mat.Ex, geo.Vec{X: 0.5, Y: 0.5, Z: 0.5}), 0)
	chk.Scalar(tst, "low side", 1e-15, r.Conductivity(mat.Ex, geo.Vec{X: 0.25, Y: 0.5, Z: 0.5}), 0)
}

func Test_sus01(tst *testing.T) {

	//verbose()
	chk.PrintTitle("sus01. susceptibility collection and coupling rows")

	lor := mat.Susceptibility{SigmaDiag: geo.Vec{X: 2, Y: 2, Z: 2}, Frequency: 1.1, Gamma: 0.01}
	med1 := mat.Vacuum()
	med1.ESus = []mat.Susceptibility{lor}
	med2 := mat.Vacuum()
	weaker := lor
	weaker.SigmaDiag = geo.Vec{X: 0.5, Y: 0.5, Z: 0.5}
	drude := mat.Susceptibility{SigmaDiag: geo.Vec{X: 1, Y: 1, Z: 1}, Frequency: 0.7, Drude: true}
	med2.ESus = []mat.Susceptibility{weaker, drude}

	objs := []tree.Object{
		{Shape: &geo.Sphere{Center: geo.Vec{X: -2}, Radius: 1}, Mat: &mat.Uniform{Medium: med1}, ID: 0},
		{Shape: &geo.Sphere{Center: geo.Vec{X: 2}, Radius: 1}, Mat: &mat.Uniform{Medium: med2}, ID: 1},
	}
	r := NewResolver(mat.NewContext(), geo.D3, objs, cell())

	// the same oscillator with different coupling collapses to one term
	sus := r.Susceptibilities(mat.E)
	if len(sus) != 2 {
		tst.Errorf("expected 2 distinct susceptibilities, got %d\n", len(sus))
		return
	}

	row := r.SigmaRow(mat.Ex, geo.Vec{X: -2}, lor)
	chk.Vector(tst, "row in med1", 1e-15, row[:], []float64{2, 0, 0})
	row = r.SigmaRow(mat.Ex, geo.Vec{X: 2}, lor)
	chk.Vector(tst, "row in med2", 1e-15, row[:], []float64{0.5, 0, 0})
	row = r.SigmaRow(mat.Ex, geo.Vec{}, lor) // vacuum: no matching term
	chk.Vector(tst, "row in vacuum", 1e-15, row[:], []float64{0, 0, 0})
}

func Test_disp01(tst *testing.T) {

	//verbose()
	chk.PrintTitle("disp01. dispersive tensor and conductivity factor")

	med := mat.Vacuum()
	med.EpsDiag = geo.Vec{X: 4, Y: 4, Z: 4}
	med.DCondDiag = geo.Vec{X: 0.8, Y: 0.8, Z: 0.8}
	objs := []tree.Object{
		{Shape: &geo.Sphere{Center: geo.Vec{}, Radius: 3}, Mat: &mat.Uniform{Medium: med}, ID: 0},
	}
	r := NewResolver(mat.NewContext(), geo.D3, objs, cell())

	freq := 2.0
	t := r.ChiTensorDisp(geo.Vec{}, freq)
	want := complex(1, 0.8/(2*math.Pi*freq)) * 4
	chk.Scalar(tst, "t00 re", 1e-15, real(t[0][0]), real(want))
	chk.Scalar(tst, "t00 im", 1e-15, imag(t[0][0]), imag(want))
	chk.Scalar(tst, "t01", 1e-15, real(t[0][1]), 0)

	row := r.EffInvRowDisp(mat.Ex, geo.Vec{}, freq)
	prod := row[0] * t[0][0]
	chk.Scalar(tst, "inverse re", 1e-14, real(prod), 1)
	chk.Scalar(tst, "inverse im", 1e-14, imag(prod), 0)

	cc := r.CondCmp(mat.Ex, geo.Vec{}, freq)
	chk.Scalar(tst, "cond_cmp im", 1e-15, imag(cc), 0.8/(2*math.Pi*freq))
}

func Test_epsgrid01(tst *testing.T) {

	//verbose()
	chk.PrintTitle("epsgrid01. grid evaluation")

	blk := geo.NewBlock(geo.Vec{X: -5}, geo.Vec{X: 10, Y: 20, Z: 20})
	objs := []tree.Object{{Shape: blk, Mat: uniform(12), ID: 0}}
	r := NewResolver(mat.NewContext(), geo.D3, objs, cell())

	xs := []float64{-2.5, 2.5}
	ys := []float64{0}
	zs := []float64{0}
	out := make([]complex128, 2)
	r.EpsilonGrid(xs, ys, zs, 0, out)
	chk.Scalar(tst, "inside block", 1e-15, real(out[0]), 12)
	chk.Scalar(tst, "vacuum side", 1e-15, real(out[1]), 1)
}
