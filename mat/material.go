// Copyright 2016 The Geomat Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package mat

import (
	"github.com/dpfield/geomat/geo"
)

// Material is the closed set of material variants. Exactly five types
// implement it: *Uniform, *UserFunc, *FileSampled, *DensityGrid and
// *PerfectConductor. Consumers must handle all five.
type Material interface {
	material()
}

// Uniform is a position-independent medium
type Uniform struct {
	Medium Medium
}

// UserFunc is a material defined by a user-supplied procedure. The callback
// receives a vacuum-initialised medium and fills in whatever differs from
// vacuum. DoAveraging selects the slow quadrature averaging path for
// interface pixels.
type UserFunc struct {
	Func        func(p geo.Vec, m *Medium)
	DoAveraging bool
}

// FileSampled is an isotropic permittivity sampled from a dense 3-D array
// read from a data file (row-major, dims N)
type FileSampled struct {
	Data []float64
	N    [3]int
}

// AggKind selects how overlapping density grids combine at a point
type AggKind int

// aggregation policies
const (
	AggDefault AggKind = iota // frontmost grid only
	AggMean
	AggMin
	AggProd
)

// DensityGrid is a continuous design-density field interpolated between two
// bounding media. Weights is externally owned: an optimizer may overwrite
// its values between evaluations but must never change its length.
type DensityGrid struct {
	Weights     []float64
	N           [3]int
	M1, M2      Medium  // interpolation endpoints (u=0 → M1, u=1 → M2)
	Beta        float64 // projection steepness
	Eta         float64 // projection midpoint
	Damping     float64 // stabilizing conductivity coefficient
	Kind        AggKind
	DoAveraging bool
}

// PerfectConductor is an idealized electric conductor
type PerfectConductor struct{}

func (o *Uniform) material()          {}
func (o *UserFunc) material()         {}
func (o *FileSampled) material()      {}
func (o *DensityGrid) material()      {}
func (o *PerfectConductor) material() {}

// Trivial tells whether interpolating this grid introduces no dispersion or
// damping, so that the fast (frequency-independent) averaging path applies
func (o *DensityGrid) Trivial() bool {
	return len(o.M1.ESus)+len(o.M2.ESus) == 0 && o.Damping == 0
}

// IsGrid tells whether m is a density grid
func IsGrid(m Material) bool {
	_, ok := m.(*DensityGrid)
	return ok
}

// IsVariable tells whether m is spatially varying. Density grids may be
// excluded so that the averaging engine can treat them specially.
func IsVariable(m Material, includeGrid bool) bool {
	switch m.(type) {
	case *UserFunc, *FileSampled:
		return true
	case *DensityGrid:
		return includeGrid
	}
	return false
}

// Equal tells whether two materials resolve identically at every point
func Equal(a, b Material) bool {
	if a == b {
		return true
	}
	switch m1 := a.(type) {
	case *Uniform:
		if m2, ok := b.(*Uniform); ok {
			return m1.Medium.Equal(&m2.Medium)
		}
	case *FileSampled:
		_, ok := b.(*FileSampled)
		return ok
	case *PerfectConductor:
		_, ok := b.(*PerfectConductor)
		return ok
	case *UserFunc:
		return false // distinct procedures are assumed distinct
	case *DensityGrid:
		if m2, ok := b.(*DensityGrid); ok {
			return m1.N == m2.N &&
				len(m1.Weights) == len(m2.Weights) &&
				(len(m1.Weights) == 0 || &m1.Weights[0] == &m2.Weights[0]) &&
				m1.M1.Equal(&m2.M1) && m1.M2.Equal(&m2.M2) &&
				m1.Beta == m2.Beta && m1.Eta == m2.Eta && m1.Damping == m2.Damping
		}
	}
	return false
}

// IsMetal tells whether the material behaves as a conductor for the field
// type, assuming any variable material was already evaluated into med
func IsMetal(ft FieldType, m Material, med *Medium) bool {
	if _, ok := m.(*PerfectConductor); ok {
		return ft == E // an electric conductor, but not a magnetic one
	}
	if ft == E {
		return med.EpsDiag.X < 0 || med.EpsDiag.Y < 0 || med.EpsDiag.Z < 0
	}
	return med.MuDiag.X < 0 || med.MuDiag.Y < 0 || med.MuDiag.Z < 0
}

// Context carries the evaluation-wide settings that every resolution call
// chain threads through explicitly: the default material used where no
// geometry matches, a bias added to projected density values, global scalar
// conductivities, and whether Hermitian (complex off-diagonal) media are
// permitted.
type Context struct {
	Default     Material
	UP          float64 // bias added to interpolated density values before projection
	GlobalDCond float64
	GlobalBCond float64
	Hermitian   bool
}

// NewContext returns a context with a vacuum default material
func NewContext() *Context {
	return &Context{Default: &Uniform{Medium: Vacuum()}}
}

// GlobalCond returns the global conductivity bias for component c
func (o *Context) GlobalCond(c Component) float64 {
	if c.Type() == E {
		return o.GlobalDCond
	}
	return o.GlobalBCond
}
