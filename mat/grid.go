// Copyright 2016 The Geomat Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package mat

import (
	"math"

	"github.com/dpfield/geomat/geo"
)

// Project maps a raw density value through the smooth tanh threshold with
// steepness β and midpoint η. β = 0 degenerates to the identity and u = η
// returns exactly 0.5 for any β (removes the removable singularity at β → ∞).
func Project(u, beta, eta float64) float64 {
	if beta == 0 {
		return u
	}
	if u == eta {
		return 0.5
	}
	tbe := math.Tanh(beta * eta)
	return (tbe + math.Tanh(beta*(u-eta))) / (tbe + math.Tanh(beta*(1-eta)))
}

// MapCoord converts a normalized coordinate r ∈ [0,1] into the pair of
// bracketing sample indices of an n-point grid and the fractional distance
// between them. Samples sit at cell centers; coordinates beyond the first or
// last center clamp.
func MapCoord(r float64, n int) (i1, i2 int, d float64) {
	c := r*float64(n) - 0.5
	if c < 0 {
		c = 0
	}
	if c > float64(n-1) {
		c = float64(n - 1)
	}
	i1 = int(math.Floor(c))
	if i1 > n-1 {
		i1 = n - 1
	}
	i2 = i1 + 1
	if i2 > n-1 {
		i2 = n - 1
	}
	d = c - float64(i1)
	return
}

// at returns the weight at integer grid indices (row-major)
func (o *DensityGrid) at(x, y, z int) float64 {
	return o.Weights[(x*o.N[1]+y)*o.N[2]+z]
}

// Value trilinearly interpolates the raw weight field at the normalized
// local point p ∈ [0,1]³
func (o *DensityGrid) Value(p geo.Vec) float64 {
	x1, x2, dx := MapCoord(p.X, o.N[0])
	y1, y2, dy := MapCoord(p.Y, o.N[1])
	z1, z2, dz := MapCoord(p.Z, o.N[2])
	return ((o.at(x1, y1, z1)*(1-dx)+o.at(x2, y1, z1)*dx)*(1-dy)+
		(o.at(x1, y2, z1)*(1-dx)+o.at(x2, y2, z1)*dx)*dy)*(1-dz) +
		((o.at(x1, y1, z2)*(1-dx)+o.at(x2, y1, z2)*dx)*(1-dy)+
			(o.at(x1, y2, z2)*(1-dx)+o.at(x2, y2, z2)*dx)*dy)*dz
}

// RawGrad returns the gradient of the trilinear interpolant at the
// normalized local point p, scaled by the grid dimensions so that it is a
// derivative with respect to the normalized coordinates
func (o *DensityGrid) RawGrad(p geo.Vec) geo.Vec {
	x1, x2, dx := MapCoord(p.X, o.N[0])
	y1, y2, dy := MapCoord(p.Y, o.N[1])
	z1, z2, dz := MapCoord(p.Z, o.N[2])
	D := o.at

	dudx := ((-D(x1, y1, z1)+D(x2, y1, z1))*(1-dy)+
		(-D(x1, y2, z1)+D(x2, y2, z1))*dy)*(1-dz) +
		((-D(x1, y1, z2)+D(x2, y1, z2))*(1-dy)+
			(-D(x1, y2, z2)+D(x2, y2, z2))*dy)*dz
	dudy := (-(D(x1, y1, z1)*(1-dx)+D(x2, y1, z1)*dx)+
		(D(x1, y2, z1)*(1-dx)+D(x2, y2, z1)*dx))*(1-dz) +
		(-(D(x1, y1, z2)*(1-dx)+D(x2, y1, z2)*dx)+
			(D(x1, y2, z2)*(1-dx)+D(x2, y2, z2)*dx))*dz
	dudz := -((D(x1, y1, z1)*(1-dx)+D(x2, y1, z1)*dx)*(1-dy)+
		(D(x1, y2, z1)*(1-dx)+D(x2, y2, z1)*dx)*dy) +
		((D(x1, y1, z2)*(1-dx)+D(x2, y1, z2)*dx)*(1-dy) +
			(D(x1, y2, z2)*(1-dx)+D(x2, y2, z2)*dx)*dy)

	return geo.Vec{
		X: dudx * float64(o.N[0]),
		Y: dudy * float64(o.N[1]),
		Z: dudz * float64(o.N[2]),
	}
}

// interp linearly interpolates diagonal and off-diagonal tensor entries
func interpTensors(d1 geo.Vec, od1 CVec, d2 geo.Vec, od2 CVec, u float64) (d geo.Vec, od CVec) {
	d.X = d1.X + u*(d2.X-d1.X)
	d.Y = d1.Y + u*(d2.Y-d1.Y)
	d.Z = d1.Z + u*(d2.Z-d1.Z)
	cu := complex(u, 0)
	od.X = od1.X + cu*(od2.X-od1.X)
	od.Y = od1.Y + cu*(od2.Y-od1.Y)
	od.Z = od1.Z + cu*(od2.Z-od1.Z)
	return
}

// InterpMedium builds the concrete medium corresponding to the projected
// density value u: permittivity is interpolated linearly, dispersive
// coupling strengths are scaled linearly across the concatenated
// susceptibility lists of both endpoints, conductivity is interpolated
// linearly, and a stabilizing conductivity damping·u·(1−u) suppresses
// resonance instabilities introduced by interpolating dispersive profiles.
func (o *DensityGrid) InterpMedium(u float64) Medium {
	m := Vacuum()
	m.EpsDiag, m.EpsOffdiag = interpTensors(o.M1.EpsDiag, o.M1.EpsOffdiag, o.M2.EpsDiag, o.M2.EpsOffdiag, u)

	if n := len(o.M1.ESus) + len(o.M2.ESus); n > 0 {
		m.ESus = make([]Susceptibility, 0, n)
		for _, s := range o.M1.ESus {
			s.SigmaDiag = s.SigmaDiag.Scale(1 - u)
			s.SigmaOffdiag = s.SigmaOffdiag.Scale(1 - u)
			m.ESus = append(m.ESus, s)
		}
		for _, s := range o.M2.ESus {
			s.SigmaDiag = s.SigmaDiag.Scale(u)
			s.SigmaOffdiag = s.SigmaOffdiag.Scale(u)
			m.ESus = append(m.ESus, s)
		}
	}

	m.DCondDiag, _ = interpTensors(o.M1.DCondDiag, CVec{}, o.M2.DCondDiag, CVec{}, u)
	damping := u * (1 - u) * o.Damping
	m.DCondDiag.X += damping
	m.DCondDiag.Y += damping
	m.DCondDiag.Z += damping
	return m
}

// Sample trilinearly interpolates a file-sampled permittivity array at the
// normalized point p and returns the corresponding isotropic medium
func (o *FileSampled) Sample(p geo.Vec) Medium {
	x1, x2, dx := MapCoord(p.X, o.N[0])
	y1, y2, dy := MapCoord(p.Y, o.N[1])
	z1, z2, dz := MapCoord(p.Z, o.N[2])
	at := func(x, y, z int) float64 { return o.Data[(x*o.N[1]+y)*o.N[2]+z] }
	eps := ((at(x1, y1, z1)*(1-dx)+at(x2, y1, z1)*dx)*(1-dy)+
		(at(x1, y2, z1)*(1-dx)+at(x2, y2, z1)*dx)*dy)*(1-dz) +
		((at(x1, y1, z2)*(1-dx)+at(x2, y1, z2)*dx)*(1-dy)+
			(at(x1, y2, z2)*(1-dx)+at(x2, y2, z2)*dx)*dy)*dz
	m := Vacuum()
	m.EpsDiag = geo.Vec{X: eps, Y: eps, Z: eps}
	return m
}
