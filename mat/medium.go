// Copyright 2016 The Geomat Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package mat

import (
	"github.com/cpmech/gosl/chk"

	"github.com/dpfield/geomat/geo"
)

// CVec holds the three independent off-diagonal entries of a Hermitian
// tensor: X=(0,1), Y=(0,2), Z=(1,2)
type CVec struct {
	X, Y, Z complex128
}

// Equal reports exact equality
func (o CVec) Equal(b CVec) bool { return o.X == b.X && o.Y == b.Y && o.Z == b.Z }

// IsZero tells whether all entries vanish
func (o CVec) IsZero() bool { return o.X == 0 && o.Y == 0 && o.Z == 0 }

// Susceptibility holds one dispersive (Lorentzian/Drude/gyrotropic) term
type Susceptibility struct {
	SigmaDiag    geo.Vec // anisotropic coupling strength, diagonal
	SigmaOffdiag geo.Vec // coupling strength, off-diagonal
	Bias         geo.Vec // gyrotropy bias vector
	Frequency    float64 // resonance frequency
	Gamma        float64 // linewidth
	Alpha        float64 // damping factor for saturated gyrotropy
	NoiseAmp     float64 // noise amplitude
	Drude        bool
	SaturatedGyr bool
	IsFile       bool
}

// Equal compares every field including coupling strengths
func (o Susceptibility) Equal(b Susceptibility) bool {
	return o == b
}

// Equiv compares the oscillator parameters, ignoring the coupling strengths;
// susceptibilities that are Equiv share one solver oscillator and differ only
// in where (and how strongly) they couple to the fields
func (o Susceptibility) Equiv(b Susceptibility) bool {
	return o.Bias == b.Bias && o.Frequency == b.Frequency && o.Gamma == b.Gamma &&
		o.Alpha == b.Alpha && o.NoiseAmp == b.NoiseAmp && o.Drude == b.Drude &&
		o.SaturatedGyr == b.SaturatedGyr && o.IsFile == b.IsFile
}

// Medium holds the full constant material description: permittivity and
// permeability tensors (complex off-diagonals), nonlinear susceptibility
// coefficients, conductivities and the dispersive term list
type Medium struct {
	EpsDiag    geo.Vec
	EpsOffdiag CVec
	MuDiag     geo.Vec
	MuOffdiag  CVec

	EChi2Diag geo.Vec
	EChi3Diag geo.Vec
	HChi2Diag geo.Vec
	HChi3Diag geo.Vec

	DCondDiag geo.Vec
	BCondDiag geo.Vec

	ESus []Susceptibility
	HSus []Susceptibility
}

// Vacuum returns the vacuum medium (ε = μ = 1)
func Vacuum() Medium {
	return Medium{
		EpsDiag: geo.Vec{X: 1, Y: 1, Z: 1},
		MuDiag:  geo.Vec{X: 1, Y: 1, Z: 1},
	}
}

// CheckOffdiag returns an error if any off-diagonal tensor entry has a
// nonzero imaginary part, unless Hermitian mode allows them
func (o *Medium) CheckOffdiag(hermitian bool) error {
	if hermitian {
		return nil
	}
	if imag(o.EpsOffdiag.X) != 0 || imag(o.EpsOffdiag.Y) != 0 || imag(o.EpsOffdiag.Z) != 0 ||
		imag(o.MuOffdiag.X) != 0 || imag(o.MuOffdiag.Y) != 0 || imag(o.MuOffdiag.Z) != 0 {
		return chk.Err("non-Hermitian off-diagonal tensor entries (imaginary parts) require Hermitian mode")
	}
	return nil
}

// Equal compares two media field by field
func (o *Medium) Equal(b *Medium) bool {
	if !(o.EpsDiag == b.EpsDiag && o.EpsOffdiag.Equal(b.EpsOffdiag) &&
		o.MuDiag == b.MuDiag && o.MuOffdiag.Equal(b.MuOffdiag) &&
		o.EChi2Diag == b.EChi2Diag && o.EChi3Diag == b.EChi3Diag &&
		o.HChi2Diag == b.HChi2Diag && o.HChi3Diag == b.HChi3Diag &&
		o.DCondDiag == b.DCondDiag && o.BCondDiag == b.BCondDiag) {
		return false
	}
	return susListEqual(o.ESus, b.ESus) && susListEqual(o.HSus, b.HSus)
}

func susListEqual(a, b []Susceptibility) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !a[i].Equal(b[i]) {
			return false
		}
	}
	return true
}

// EpsMu extracts the real-symmetric ε (ft == E) or μ (ft == H) tensor and
// its inverse
func (o *Medium) EpsMu(ft FieldType) (t, tinv SymTensor) {
	if ft == E {
		t = SymTensor{
			M00: o.EpsDiag.X, M11: o.EpsDiag.Y, M22: o.EpsDiag.Z,
			M01: real(o.EpsOffdiag.X), M02: real(o.EpsOffdiag.Y), M12: real(o.EpsOffdiag.Z),
		}
	} else {
		t = SymTensor{
			M00: o.MuDiag.X, M11: o.MuDiag.Y, M22: o.MuDiag.Z,
			M01: real(o.MuOffdiag.X), M02: real(o.MuOffdiag.Y), M12: real(o.MuOffdiag.Z),
		}
	}
	tinv = t.Inv()
	return
}

// MuIsOne tells whether the medium has trivial permeability
func (o *Medium) MuIsOne() bool {
	return o.MuDiag == (geo.Vec{X: 1, Y: 1, Z: 1}) && o.MuOffdiag.IsZero()
}

// Chi returns the χ2 (p=2) or χ3 (p=3) coefficient for component c
func (o *Medium) Chi(c Component, p int) float64 {
	var v geo.Vec
	switch {
	case p == 2 && c.Type() == E:
		v = o.EChi2Diag
	case p == 3 && c.Type() == E:
		v = o.EChi3Diag
	case p == 2 && c.Type() == H:
		v = o.HChi2Diag
	default:
		v = o.HChi3Diag
	}
	return v.Comp(c.Dir())
}

// Cond returns the conductivity diagonal entry for component c
// (D-conductivity for electric components, B-conductivity for magnetic)
func (o *Medium) Cond(c Component) float64 {
	if c.Type() == E {
		return o.DCondDiag.Comp(c.Dir())
	}
	return o.BCondDiag.Comp(c.Dir())
}

// Sus returns the susceptibility list for the given field type
func (o *Medium) Sus(ft FieldType) []Susceptibility {
	if ft == E {
		return o.ESus
	}
	return o.HSus
}
