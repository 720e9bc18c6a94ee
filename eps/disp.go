// Copyright 2016 The Geomat Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package eps

import (
	"math"

	"github.com/cpmech/gosl/chk"

	"github.com/dpfield/geomat/geo"
	"github.com/dpfield/geomat/mat"
)

// susChi1 evaluates the first-order contribution of one dispersive term at
// the given frequency with coupling strength sigma
func susChi1(s mat.Susceptibility, freq, sigma float64) complex128 {
	w02 := complex(s.Frequency*s.Frequency, 0)
	den := -complex(freq*freq, 0) - complex(0, freq*s.Gamma)
	if !s.Drude {
		den += w02
	}
	return complex(sigma, 0) * w02 / den
}

// slotValue picks entry (i,j) of a symmetric tensor given its diagonal and
// the three independent off-diagonal couplings
func slotValue(diag, offdiag geo.Vec, i, j int) float64 {
	if i == j {
		return diag.Comp(i)
	}
	switch i + j {
	case 1:
		return offdiag.X
	case 2:
		return offdiag.Y
	}
	return offdiag.Z
}

// ChiTensorDisp builds the full complex permittivity tensor at p and
// frequency freq: the instantaneous tensor plus every dispersive term, with
// the diagonal scaled by the conductivity factor 1 + iσ/(2πf)
func (o *Resolver) ChiTensorDisp(p geo.Vec, freq float64) (t [3][3]complex128) {
	_, med := o.MediumAt(p)
	off := geo.Vec{X: real(med.EpsOffdiag.X), Y: real(med.EpsOffdiag.Y), Z: real(med.EpsOffdiag.Z)}
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			a := complex(1, 0)
			if i == j {
				a = complex(1, med.DCondDiag.Comp(i)/(2*math.Pi*freq))
			}
			b := complex(slotValue(med.EpsDiag, off, i, j), 0)
			for _, s := range med.ESus {
				b += susChi1(s, freq, slotValue(s.SigmaDiag, s.SigmaOffdiag, i, j))
			}
			t[i][j] = a * b
		}
	}
	return
}

// invertTensorC inverts a complex 3x3 tensor by the adjugate formula
func invertTensorC(t [3][3]complex128) (inv [3][3]complex128) {
	det := t[0][0]*(t[1][1]*t[2][2]-t[1][2]*t[2][1]) -
		t[0][1]*(t[1][0]*t[2][2]-t[1][2]*t[2][0]) +
		t[0][2]*(t[1][0]*t[2][1]-t[1][1]*t[2][0])
	if det == 0 {
		chk.Panic("cannot invert singular dispersive tensor")
	}
	inv[0][0] = (t[1][1]*t[2][2] - t[1][2]*t[2][1]) / det
	inv[0][1] = (t[0][2]*t[2][1] - t[0][1]*t[2][2]) / det
	inv[0][2] = (t[0][1]*t[1][2] - t[0][2]*t[1][1]) / det
	inv[1][0] = (t[1][2]*t[2][0] - t[1][0]*t[2][2]) / det
	inv[1][1] = (t[0][0]*t[2][2] - t[0][2]*t[2][0]) / det
	inv[1][2] = (t[0][2]*t[1][0] - t[0][0]*t[1][2]) / det
	inv[2][0] = (t[1][0]*t[2][1] - t[1][1]*t[2][0]) / det
	inv[2][1] = (t[0][1]*t[2][0] - t[0][0]*t[2][1]) / det
	inv[2][2] = (t[0][0]*t[1][1] - t[0][1]*t[1][0]) / det
	return
}

// EffInvRowDisp returns the row of the inverse complex permittivity tensor
// for the direction of component c, at point p and frequency freq
func (o *Resolver) EffInvRowDisp(c mat.Component, p geo.Vec, freq float64) [3]complex128 {
	inv := invertTensorC(o.ChiTensorDisp(p, freq))
	return inv[c.Dir()]
}

// CondCmp returns the complex conductivity scaling 1 + iσ/(2πf) seen by
// component c at p, used to fold the conductivity into frequency-domain
// field products
func (o *Resolver) CondCmp(c mat.Component, p geo.Vec, freq float64) complex128 {
	_, med := o.MediumAt(p)
	return complex(1, med.Cond(c)/(2*math.Pi*freq))
}
