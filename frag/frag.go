// Copyright 2016 The Geomat Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package frag estimates the simulation cost of rectangular fragments of the
// computational cell, so that a load balancer can split work proportionally
// to where the expensive physics lives
package frag

import (
	"math"

	"github.com/cpmech/gosl/io"
	"gonum.org/v1/gonum/floats"

	"github.com/dpfield/geomat/geo"
	"github.com/dpfield/geomat/mat"
	"github.com/dpfield/geomat/tree"
)

// overlap quadrature settings; coarse on purpose, the counts feed a cost
// heuristic and not the physics
const (
	overlapTol     = 0.05
	overlapMaxEval = 1000
)

// per-pixel time coefficients fitted against measured stepping rates, one
// per counter in Stats.Counts order
var costCoefs = []float64{
	1.15061674e-04, // anisotropic epsilon
	1.26843801e-04, // anisotropic mu
	1.67029547e-04, // nonlinear
	2.24790864e-04, // susceptibility
	4.61260934e-05, // nonzero conductivity
	9.92955372e-05, // 1d pml
	1.36901107e-03, // 2d pml
	6.63939607e-04, // 3d pml
	1.47283950e-04, // dft
	3.46518274e-04, // any pixel
}

// DFTData describes one set of frequency-domain field monitors
type DFTData struct {
	NumFreqs      int
	NumComponents int
	Vols          []geo.Box
}

// Estimator holds the inputs shared by every fragment: geometry, resolution
// and the volumes of boundary layers and monitors
type Estimator struct {
	Objects      []tree.Object
	Default      mat.Material
	Resolution   float64
	Dim          geo.Ndim
	EpsAveraging bool

	DFT       []DFTData
	PML1D     []geo.Box
	PML2D     []geo.Box
	PML3D     []geo.Box
	Absorbers []geo.Box
}

// Stats holds the pixel counts of one fragment
type Stats struct {
	Box geo.Box

	NumAnisoEps       float64
	NumAnisoMu        float64
	NumNonlinear      float64
	NumSusceptibility float64
	NumConductivity   float64
	Num1DPML          float64
	Num2DPML          float64
	Num3DPML          float64
	NumDFT            float64
	NumPixelsInBox    float64
}

// pixelsInBox counts the simulation pixels covered by b; collapsed
// directions count as one pixel deep
func (o *Estimator) pixelsInBox(b geo.Box) float64 {
	s := b.Size()
	px := 1.0
	for i := 0; i < 3; i++ {
		if d := s.Comp(i); d > 0 {
			px *= d * o.Resolution
		}
	}
	return math.Ceil(px)
}

// Compute counts the cost-relevant pixels of one fragment box
func (o *Estimator) Compute(box geo.Box) *Stats {
	st := &Stats{Box: box, NumPixelsInBox: o.pixelsInBox(box)}

	covered := 0.0
	for i := range o.Objects {
		obj := &o.Objects[i]
		overlap := geo.Overlap(box, obj.Shape, overlapTol, overlapMaxEval)
		skipAniso := false
		if o.EpsAveraging && overlap != 1.0 && overlap != 0.0 {
			// a partial overlap means an interface crosses the fragment,
			// making the whole box anisotropic after averaging
			skipAniso = true
			st.NumAnisoEps += st.NumPixelsInBox
			if materialMuNot1(obj.Mat) {
				st.NumAnisoMu += st.NumPixelsInBox
			}
		}
		if px := st.NumPixelsInBox * overlap; px > 0 {
			st.countMaterial(obj.Mat, px, skipAniso)
		}
		covered += overlap
	}
	if rem := 1.0 - covered; rem > 0 && o.Default != nil {
		st.countMaterial(o.Default, st.NumPixelsInBox*rem, false)
	}

	for _, d := range o.DFT {
		for _, v := range d.Vols {
			if box.Intersects(v) {
				px := o.pixelsInBox(box.Intersect(v))
				st.NumDFT += math.Ceil(px * float64(d.NumFreqs) * float64(d.NumComponents))
			}
		}
	}
	addVols := func(vols []geo.Box, counter *float64) {
		for _, v := range vols {
			if box.Intersects(v) {
				*counter += o.pixelsInBox(box.Intersect(v))
			}
		}
	}
	addVols(o.PML1D, &st.Num1DPML)
	addVols(o.PML2D, &st.Num2DPML)
	addVols(o.PML3D, &st.Num3DPML)
	addVols(o.Absorbers, &st.NumConductivity)
	return st
}

// countMaterial adds the per-property pixel counts of one material. Density
// grids count a property when either interpolation endpoint carries it.
func (o *Stats) countMaterial(m mat.Material, pixels float64, skipAniso bool) {
	switch t := m.(type) {
	case *mat.Uniform:
		o.countMedium(&t.Medium, nil, pixels, skipAniso)
	case *mat.DensityGrid:
		o.countMedium(&t.M1, &t.M2, pixels, skipAniso)
	}
	// variable materials (user functions, files) cannot be inspected and do
	// not contribute beyond the base pixel count
}

func (o *Stats) countMedium(a, b *mat.Medium, pixels float64, skipAniso bool) {
	if b == nil {
		b = a
	}
	if !skipAniso {
		o.NumAnisoEps += pixels * countOff(a.EpsOffdiag, b.EpsOffdiag)
		o.NumAnisoMu += pixels * countOff(a.MuOffdiag, b.MuOffdiag)
	}
	o.NumNonlinear += pixels * (countVec(a.EChi2Diag, b.EChi2Diag) +
		countVec(a.EChi3Diag, b.EChi3Diag) +
		countVec(a.HChi2Diag, b.HChi2Diag) +
		countVec(a.HChi3Diag, b.HChi3Diag))
	nsus := len(a.ESus) + len(a.HSus)
	if n := len(b.ESus) + len(b.HSus); n > nsus {
		nsus = n
	}
	o.NumSusceptibility += pixels * float64(nsus)
	o.NumConductivity += pixels * (countVec(a.DCondDiag, b.DCondDiag) +
		countVec(a.BCondDiag, b.BCondDiag))
}

// countVec counts components nonzero in either vector
func countVec(a, b geo.Vec) float64 {
	n := 0.0
	for i := 0; i < 3; i++ {
		if a.Comp(i) != 0 || b.Comp(i) != 0 {
			n++
		}
	}
	return n
}

// countOff counts off-diagonal couplings nonzero in either tensor
func countOff(a, b mat.CVec) float64 {
	n := 0.0
	if a.X != 0 || b.X != 0 {
		n++
	}
	if a.Y != 0 || b.Y != 0 {
		n++
	}
	if a.Z != 0 || b.Z != 0 {
		n++
	}
	return n
}

// materialMuNot1 tells whether the material can have nontrivial permeability
func materialMuNot1(m mat.Material) bool {
	switch t := m.(type) {
	case *mat.Uniform:
		return !t.Medium.MuIsOne()
	case *mat.DensityGrid:
		return !t.M1.MuIsOne() || !t.M2.MuIsOne()
	case *mat.UserFunc, *mat.FileSampled:
		return true
	}
	return false
}

// Counts returns the counters in the order matching the cost coefficients
func (o *Stats) Counts() []float64 {
	return []float64{
		o.NumAnisoEps, o.NumAnisoMu, o.NumNonlinear, o.NumSusceptibility,
		o.NumConductivity, o.Num1DPML, o.Num2DPML, o.Num3DPML,
		o.NumDFT, o.NumPixelsInBox,
	}
}

// Cost estimates the relative stepping time of the fragment
func (o *Stats) Cost() float64 {
	return floats.Dot(o.Counts(), costCoefs)
}

// Print writes a one-line summary of the counters
func (o *Stats) Print() {
	io.Pf("aniso_eps=%g aniso_mu=%g nonlinear=%g sus=%g cond=%g pml=(%g,%g,%g) dft=%g pixels=%g cost=%g\n",
		o.NumAnisoEps, o.NumAnisoMu, o.NumNonlinear, o.NumSusceptibility,
		o.NumConductivity, o.Num1DPML, o.Num2DPML, o.Num3DPML,
		o.NumDFT, o.NumPixelsInBox, o.Cost())
}
