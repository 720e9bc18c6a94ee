// Copyright 2016 The Geomat Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package eps

import (
	"math"

	"github.com/cpmech/gosl/chk"

	"github.com/dpfield/geomat/geo"
	"github.com/dpfield/geomat/mat"
	"github.com/dpfield/geomat/quad"
)

// Chi returns the nonlinear susceptibility coefficient (pow = 2 or 3) for
// component c at point p
func (o *Resolver) Chi(c mat.Component, p geo.Vec, pow int) float64 {
	m, med := o.MediumAt(p)
	if _, pec := m.(*mat.PerfectConductor); pec {
		return 0
	}
	return med.Chi(c, pow)
}

// condProfile is a sampled 1-D absorbing-layer conductivity table covering a
// depth L from one boundary of the cell
type condProfile struct {
	L    float64
	prof []float64 // len N+1, samples at u = i/N across the layer
}

// SetCondProfile builds the conductivity table for an absorbing layer of
// depth L on the given side (0 = low, 1 = high) of direction dir, sampled
// every dx, from the user profile P normalized so that the layer reaches the
// asymptotic reflection R
func (o *Resolver) SetCondProfile(dir, side int, L, dx float64, P func(u float64) float64, R float64) {
	n := int(L/dx + 0.5)
	norm, _ := quad.Integrate(func(x []float64) float64 { return P(x[0]) },
		[]float64{0}, []float64{1}, 1e-9, 1e-4, 50000)
	prefac := -math.Log(R) / (4 * L * norm)
	prof := make([]float64, n+1)
	for i := range prof {
		prof[i] = prefac * P(float64(i) / float64(n))
	}
	o.cond[dir][side] = &condProfile{L: L, prof: prof}
}

// Conductivity returns the conductivity seen by component c at p: the
// material's own diagonal entry, the global scalar bias, and any absorbing
// layer profiles covering the point
func (o *Resolver) Conductivity(c mat.Component, p geo.Vec) float64 {
	m, med := o.MediumAt(p)
	val := 0.0
	if _, pec := m.(*mat.PerfectConductor); !pec {
		val = med.Cond(c) + o.Ctx.GlobalCond(c)
	}
	for _, d := range o.dirs() {
		// layer depth measured from the cell faces, not the origin
		x := p.Comp(d) - o.Center.Comp(d)
		halfEdge := 0.5 * o.Lattice.Comp(d)
		if t := o.cond[d][1]; t != nil {
			if edge := halfEdge - t.L; x >= edge {
				val += t.at((x - edge) / t.L)
			}
		}
		if t := o.cond[d][0]; t != nil {
			if edge := t.L - halfEdge; x <= edge {
				val += t.at((edge - x) / t.L)
			}
		}
	}
	return val
}

// at linearly interpolates the table at relative depth u, clamping past the
// inner edge of the layer
func (o *condProfile) at(u float64) float64 {
	n := len(o.prof) - 1
	ui := u * float64(n)
	i := int(ui)
	if i >= n {
		return o.prof[n]
	}
	d := ui - float64(i)
	return o.prof[i]*(1-d) + o.prof[i+1]*d
}

// allMedia visits every constant medium reachable from the configuration:
// uniform object materials, density-grid endpoints, extra materials declared
// for user functions, and the default
func (o *Resolver) allMedia(visit func(med *mat.Medium) bool) bool {
	each := func(m mat.Material) bool {
		switch t := m.(type) {
		case *mat.Uniform:
			return visit(&t.Medium)
		case *mat.DensityGrid:
			return visit(&t.M1) || visit(&t.M2)
		}
		return false
	}
	for i := range o.Tree.Objects {
		if each(o.Tree.Objects[i].Mat) {
			return true
		}
	}
	for _, m := range o.Extra {
		if each(m) {
			return true
		}
	}
	return each(o.Ctx.Default)
}

// HasMu tells whether any material in the configuration has a nontrivial
// permeability, enabling the solver's magnetic update paths
func (o *Resolver) HasMu() bool {
	return o.allMedia(func(med *mat.Medium) bool { return !med.MuIsOne() })
}

// HasChi tells whether any material carries a nonzero chi2/chi3 coefficient
// for component c
func (o *Resolver) HasChi(c mat.Component, pow int) bool {
	return o.allMedia(func(med *mat.Medium) bool { return med.Chi(c, pow) != 0 })
}

// HasConductivity tells whether component c sees a nonzero conductivity
// anywhere: material entries, the global bias, density-grid damping, or an
// absorbing-layer profile
func (o *Resolver) HasConductivity(c mat.Component) bool {
	for d := 0; d < 3; d++ {
		if o.cond[d][0] != nil || o.cond[d][1] != nil {
			return true
		}
	}
	damped := false
	check := func(m mat.Material) bool {
		if g, ok := m.(*mat.DensityGrid); ok && g.Damping != 0 {
			damped = true
		}
		return false
	}
	for i := range o.Tree.Objects {
		check(o.Tree.Objects[i].Mat)
	}
	check(o.Ctx.Default)
	if damped {
		return true
	}
	return o.allMedia(func(med *mat.Medium) bool {
		return med.Cond(c)+o.Ctx.GlobalCond(c) != 0
	})
}

// Susceptibilities collects the distinct dispersive terms of the given field
// type across all materials, deduplicated by oscillator parameters so the
// solver allocates one update mechanism per distinct resonance
func (o *Resolver) Susceptibilities(ft mat.FieldType) []mat.Susceptibility {
	var out []mat.Susceptibility
	add := func(list []mat.Susceptibility) {
		for _, s := range list {
			dup := false
			for _, have := range out {
				if have.Equiv(s) {
					dup = true
					break
				}
			}
			if !dup {
				out = append(out, s)
			}
		}
	}
	each := func(m mat.Material) {
		switch t := m.(type) {
		case *mat.Uniform:
			add(t.Medium.Sus(ft))
		case *mat.DensityGrid:
			add(t.M1.Sus(ft))
			add(t.M2.Sus(ft))
		}
	}
	for i := range o.Tree.Objects {
		each(o.Tree.Objects[i].Mat)
	}
	for _, m := range o.Extra {
		each(m)
	}
	each(o.Ctx.Default)
	return out
}

// SigmaRow returns the row of the anisotropic coupling tensor of the
// susceptibility matching target (by oscillator parameters) in the material
// at p, for the direction of component c. A material without a matching term
// contributes zero coupling.
func (o *Resolver) SigmaRow(c mat.Component, p geo.Vec, target mat.Susceptibility) [3]float64 {
	_, med := o.MediumAt(p)
	for _, s := range med.Sus(c.Type()) {
		if !s.Equiv(target) {
			continue
		}
		switch c.Dir() {
		case 0:
			return [3]float64{s.SigmaDiag.X, s.SigmaOffdiag.X, s.SigmaOffdiag.Y}
		case 1:
			return [3]float64{s.SigmaOffdiag.X, s.SigmaDiag.Y, s.SigmaOffdiag.Z}
		default:
			return [3]float64{s.SigmaOffdiag.Y, s.SigmaOffdiag.Z, s.SigmaDiag.Z}
		}
	}
	return [3]float64{}
}

// EpsilonGrid evaluates the permittivity trace on the tensor-product grid of
// coordinates xs, ys, zs, storing results in row-major order into out. With
// a nonzero frequency the dispersive (complex) trace is reported.
func (o *Resolver) EpsilonGrid(xs, ys, zs []float64, freq float64, out []complex128) {
	if len(out) < len(xs)*len(ys)*len(zs) {
		chk.Panic("output buffer too small: %d < %d", len(out), len(xs)*len(ys)*len(zs))
	}
	for i, x := range xs {
		for j, y := range ys {
			for k, z := range zs {
				p := geo.Vec{X: x, Y: y, Z: z}
				var val complex128
				if freq == 0 {
					val = complex(o.ChiTrace(mat.E, p), 0)
				} else {
					t := o.ChiTensorDisp(p, freq)
					val = (t[0][0] + t[1][1] + t[2][2]) / 3
				}
				out[k+len(zs)*(j+len(ys)*i)] = val
			}
		}
	}
}
