// Copyright 2016 The Geomat Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package eps

import (
	"math"

	"github.com/dpfield/geomat/geo"
	"github.com/dpfield/geomat/mat"
	"github.com/dpfield/geomat/quad"
)

// crossWeight is the normalized cross-section of the spherical sample region
// at signed offset x along the interface normal, per dimensionality
func crossWeight(nd int, x, r float64) float64 {
	switch nd {
	case 1:
		return 1 / (2 * r)
	case 2:
		return 2 * math.Sqrt(r*r-x*x) / (math.Pi * r * r)
	}
	return math.Pi * (r*r - x*x) / (4.0 / 3.0 * math.Pi * r * r * r)
}

// interfaceNormal estimates the direction of strongest material variation
// over the pixel from differences of the permittivity trace, used when no
// shape or density gradient supplies a normal
func (o *Resolver) interfaceNormal(ft mat.FieldType, v geo.Box) geo.Vec {
	c := v.Center()
	half := v.Size().Scale(0.25)
	var n geo.Vec
	for _, d := range o.dirs() {
		hi, lo := c, c
		hi.SetComp(d, c.Comp(d)+half.Comp(d))
		lo.SetComp(d, c.Comp(d)-half.Comp(d))
		n.SetComp(d, o.ChiTrace(ft, hi)-o.ChiTrace(ft, lo))
	}
	return n
}

// fallbackInvRow integrates the permittivity trace and its reciprocal over
// the pixel and reconstructs the anisotropic inverse row from the scalar
// means and the local normal. Density-grid pixels integrate analytically
// along the normal with a linear model of the raw weight; everything else
// uses adaptive cubature over the pixel box.
func (o *Resolver) fallbackInvRow(c mat.Component, v geo.Box) [3]float64 {
	ft := c.Type()
	center := v.Center()
	m, front, it := o.MaterialAt(center)

	var gradient geo.Vec
	var uval float64
	g, isGrid := m.(*mat.DensityGrid)
	if isGrid {
		gradient = o.GridGrad(center, front, it, g)
		uval = o.GridVal(center, front, it, g) + o.Ctx.UP
	} else {
		gradient = o.interfaceNormal(ft, v)
	}

	med := o.EvalAt(m, front, it, center)
	chi, chiInv := epsMu(ft, m, &med)

	// anisotropic pixels and pixels without a usable normal keep the plain
	// center-point tensor
	if chi.M01 != 0 || chi.M02 != 0 || chi.M12 != 0 ||
		chi.M00 != chi.M11 || chi.M11 != chi.M22 || chi.M00 != chi.M22 ||
		gradient.Norm() < 1e-8 {
		return chiInv.Row(c.Dir())
	}

	var meps, minveps float64
	epsNegative := false

	if isGrid {
		r := v.Diameter() / 2
		gn := gradient.Norm()
		m1med := g.InterpMedium(0)
		m2med := g.InterpMedium(1)
		eps1 := m1med.EpsDiag.X + m1med.EpsDiag.Y + m1med.EpsDiag.Z
		eps2 := m2med.EpsDiag.X + m2med.EpsDiag.Y + m2med.EpsDiag.Z
		eps1 /= 3
		eps2 /= 3
		nd := o.Dim.Ndirs()
		meps, _ = quad.Integrate(func(x []float64) float64 {
			up := mat.Project(uval+gn*x[0], g.Beta, g.Eta)
			return crossWeight(nd, x[0], r) * ((1-up)*eps1 + up*eps2)
		}, []float64{-r}, []float64{r}, 0, o.Tol, o.MaxEval)
		minveps, _ = quad.Integrate(func(x []float64) float64 {
			up := mat.Project(uval+gn*x[0], g.Beta, g.Eta)
			return crossWeight(nd, x[0], r) * ((1-up)/eps1 + up/eps2)
		}, []float64{-r}, []float64{r}, 0, o.Tol, o.MaxEval)
		if eps1 <= 0 || eps2 <= 0 {
			epsNegative = true
		}
	} else {
		dirs := o.dirs()
		nd := len(dirs)
		lo := make([]float64, nd)
		hi := make([]float64, nd)
		for i, d := range dirs {
			lo[i] = v.Lo.Comp(d)
			hi[i] = v.Hi.Comp(d)
		}
		at := func(x []float64) geo.Vec {
			p := center
			for i, d := range dirs {
				p.SetComp(d, x[i])
			}
			return p
		}
		jac := func(x []float64) float64 {
			if o.Dim == geo.Cyl {
				return x[0] // radial measure
			}
			return 1
		}
		vol := 1.0
		for i := range lo {
			vol *= hi[i] - lo[i]
		}
		if o.Dim == geo.Cyl {
			vol *= 0.5 * (lo[0] + hi[0])
		}
		meps, _ = quad.Integrate(func(x []float64) float64 {
			ep := o.ChiTrace(ft, at(x))
			if ep < 0 {
				epsNegative = true
			}
			return ep * jac(x)
		}, lo, hi, 0, o.Tol, o.MaxEval)
		minveps, _ = quad.Integrate(func(x []float64) float64 {
			ep := o.ChiTrace(ft, at(x))
			if ep < 0 {
				epsNegative = true
			}
			return jac(x) / ep
		}, lo, hi, 0, o.Tol, o.MaxEval)
		meps /= vol
		minveps /= vol
	}

	if epsNegative {
		// averaging the reciprocal of a gain medium amplifies instabilities,
		// fall back to the single center-point value
		meps = o.ChiTrace(ft, center)
		minveps = 1 / meps
	}

	n := gradient.Unit()
	rn := c.Dir()
	var row [3]float64
	for i := 0; i < 3; i++ {
		row[i] = n.Comp(rn) * n.Comp(i) * (minveps - 1/meps)
	}
	row[rn] += 1 / meps
	return row
}
