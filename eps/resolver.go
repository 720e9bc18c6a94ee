// Copyright 2016 The Geomat Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package eps resolves the effective electromagnetic material at points and
// pixels of a simulation domain: spatial lookup, lazy material evaluation,
// density-grid aggregation, subpixel averaging and the quadrature fallback
package eps

import (
	"math"

	"github.com/cpmech/gosl/chk"

	"github.com/dpfield/geomat/geo"
	"github.com/dpfield/geomat/mat"
	"github.com/dpfield/geomat/tree"
)

// Resolver answers effective-material queries over a fixed geometry. All
// evaluation settings that the queries share (default material, projection
// bias, conductivities) live in Ctx so that no process-wide state is needed.
type Resolver struct {
	Ctx     *mat.Context
	Dim     geo.Ndim
	Tree    *tree.Tree
	Bounds  geo.Box        // evaluation volume
	Center  geo.Vec        // lattice center, addresses background density grids
	Lattice geo.Vec        // lattice size
	Extra   []mat.Material // materials reachable only through user functions
	Tol     float64
	MaxEval int
	cond    [3][2]*condProfile
}

// NewResolver builds the spatial index for the given objects restricted to
// bounds and returns a resolver with default quadrature settings
func NewResolver(ctx *mat.Context, dim geo.Ndim, objects []tree.Object, bounds geo.Box) *Resolver {
	return &Resolver{
		Ctx:     ctx,
		Dim:     dim,
		Tree:    tree.Build(objects, bounds),
		Bounds:  bounds,
		Center:  bounds.Center(),
		Lattice: bounds.Size(),
		Tol:     1e-4,
		MaxEval: 100000,
	}
}

// dirs returns the active direction indices of the computational cell
func (o *Resolver) dirs() []int {
	switch o.Dim {
	case geo.D1:
		return []int{2}
	case geo.D2:
		return []int{0, 1}
	case geo.Cyl:
		return []int{0, 2}
	}
	return []int{0, 1, 2}
}

// latticeLocal maps a world point into normalized lattice coordinates, used
// to address background density grids and file-sampled materials
func (o *Resolver) latticeLocal(p geo.Vec) geo.Vec {
	var r geo.Vec
	for i := 0; i < 3; i++ {
		if s := o.Lattice.Comp(i); s != 0 {
			r.SetComp(i, 0.5+(p.Comp(i)-o.Center.Comp(i))/s)
		}
	}
	return r
}

// MaterialAt returns the material governing point p along with the frontmost
// containing object (nil when only the default material is present) and the
// iterator positioned at it for stacked-object walks
func (o *Resolver) MaterialAt(p geo.Vec) (mat.Material, *tree.Object, tree.Iter) {
	obj, it := o.Tree.Locate(p)
	if obj == nil {
		return o.Ctx.Default, nil, it
	}
	return obj.Mat, obj, it
}

// EvalAt evaluates a material into a concrete medium at p. The input
// material is never mutated: variable materials (grid, file, user function)
// produce a fresh value per call so that concurrent evaluations at different
// points stay independent.
func (o *Resolver) EvalAt(m mat.Material, obj *tree.Object, it tree.Iter, p geo.Vec) mat.Medium {
	switch t := m.(type) {
	case *mat.Uniform:
		return t.Medium
	case *mat.UserFunc:
		med := mat.Vacuum()
		t.Func(p, &med)
		if err := med.CheckOffdiag(o.Ctx.Hermitian); err != nil {
			chk.Panic("user material function: %v", err)
		}
		return med
	case *mat.FileSampled:
		if len(t.Data) == 0 {
			return o.evalDefault(p)
		}
		return t.Sample(o.latticeLocal(p))
	case *mat.DensityGrid:
		u := mat.Project(o.GridVal(p, obj, it, t)+o.Ctx.UP, t.Beta, t.Eta)
		return t.InterpMedium(u)
	case *mat.PerfectConductor:
		return mat.Vacuum()
	}
	chk.Panic("unknown material variant %T", m)
	return mat.Medium{}
}

// evalDefault evaluates the context default material, guarding against a
// degenerate file-sampled default without data
func (o *Resolver) evalDefault(p geo.Vec) mat.Medium {
	if f, ok := o.Ctx.Default.(*mat.FileSampled); ok && len(f.Data) == 0 {
		return mat.Vacuum()
	}
	_, obj, it := o.MaterialAt(p)
	return o.EvalAt(o.Ctx.Default, obj, it, p)
}

// MediumAt resolves and evaluates the material at p
func (o *Resolver) MediumAt(p geo.Vec) (mat.Material, mat.Medium) {
	m, obj, it := o.MaterialAt(p)
	return m, o.EvalAt(m, obj, it, p)
}

// GridVal aggregates the raw (unprojected) density of every grid stacked at
// p, following the frontmost grid's aggregation policy: DEFAULT keeps the
// frontmost value, MEAN averages across the stack (including the background
// grid when the walk runs off the geometry), MIN and PROD fold accordingly.
func (o *Resolver) GridVal(p geo.Vec, front *tree.Object, it tree.Iter, g *mat.DensityGrid) float64 {
	uprod, umin, usum, udefault := 1.0, 1.0, 0.0, 0.0
	count := 0
	cur := front
	for cur != nil {
		cg, ok := cur.Mat.(*mat.DensityGrid)
		if !ok {
			break
		}
		u := cg.Value(cur.Shape.ToLocal(p))
		if g.Kind == mat.AggDefault {
			return u
		}
		if u < umin {
			umin = u
		}
		uprod *= u
		usum += u
		count++
		cur = o.Tree.Next(p, &it)
	}
	// the background grid joins the stack when the walk exhausts the geometry
	if cur == nil {
		if bg, ok := o.Ctx.Default.(*mat.DensityGrid); ok {
			u := bg.Value(o.latticeLocal(p))
			if count == 0 {
				udefault = u
			}
			if u < umin {
				umin = u
			}
			uprod *= u
			usum += u
			count++
		}
	}
	switch g.Kind {
	case mat.AggMin:
		return umin
	case mat.AggProd:
		return uprod
	case mat.AggMean:
		return usum / float64(count)
	}
	return udefault
}

// GridGrad returns the world-space gradient of the aggregated raw density at
// p. Each stacked grid contributes through the transpose Jacobian of its
// enclosing shape; the background grid scales by the lattice size. MIN and
// PROD stacks have no meaningful combined gradient.
func (o *Resolver) GridGrad(p geo.Vec, front *tree.Object, it tree.Iter, g *mat.DensityGrid) geo.Vec {
	if g.Kind == mat.AggMin || g.Kind == mat.AggProd {
		chk.Panic("density gradient is not supported for MIN or PROD aggregation of overlapping grids")
	}
	var grad geo.Vec
	count := 0
	cur := front
	for cur != nil {
		cg, ok := cur.Mat.(*mat.DensityGrid)
		if !ok {
			break
		}
		grad = grad.Add(cur.Shape.GradVJP(cg.RawGrad(cur.Shape.ToLocal(p))))
		if g.Kind == mat.AggDefault {
			count = 1
			cur = nil
			break
		}
		count++
		cur = o.Tree.Next(p, &it)
	}
	if cur == nil && count == 0 {
		if bg, ok := o.Ctx.Default.(*mat.DensityGrid); ok {
			lg := bg.RawGrad(o.latticeLocal(p))
			for i := 0; i < 3; i++ {
				if s := o.Lattice.Comp(i); s != 0 {
					grad.SetComp(i, lg.Comp(i)/s)
				}
			}
			count = 1
		}
	}
	if g.Kind == mat.AggMean && count > 0 {
		grad = grad.Scale(1.0 / float64(count))
	}
	return grad
}

// epsMu returns the instantaneous permittivity (or permeability) tensor and
// its inverse for an evaluated material. A perfect electric conductor has
// diverging permittivity, encoded as a -Inf diagonal with a -0 inverse, and
// unit permeability.
func epsMu(ft mat.FieldType, m mat.Material, med *mat.Medium) (t, tinv mat.SymTensor) {
	if _, ok := m.(*mat.PerfectConductor); ok {
		if ft == mat.E {
			inf := math.Inf(1)
			t = mat.SymTensor{M00: -inf, M11: -inf, M22: -inf}
			z := math.Copysign(0, -1)
			tinv = mat.SymTensor{M00: z, M11: z, M22: z}
			return
		}
		t = mat.SymTensor{M00: 1, M11: 1, M22: 1}
		tinv = t
		return
	}
	return med.EpsMu(ft)
}

// Chi1Tensor returns the instantaneous chi1p1 tensor and its inverse at p
func (o *Resolver) Chi1Tensor(ft mat.FieldType, p geo.Vec) (t, tinv mat.SymTensor) {
	m, med := o.MediumAt(p)
	return epsMu(ft, m, &med)
}

// ChiTrace returns the mean of the tensor diagonal at p
func (o *Resolver) ChiTrace(ft mat.FieldType, p geo.Vec) float64 {
	t, _ := o.Chi1Tensor(ft, p)
	return t.Trace() / 3.0
}

// GridSite is one entry of the density-grid stack at a point: the grid and
// the local coordinates addressing its samples
type GridSite struct {
	Grid  *mat.DensityGrid
	Local geo.Vec
}

// GridStack collects the density grids stacked at p, frontmost first. When
// the frontmost material is not a grid the stack is empty; the background
// grid joins only when the walk runs off the geometry entirely.
func (o *Resolver) GridStack(p geo.Vec) []GridSite {
	var sites []GridSite
	m, obj, it := o.MaterialAt(p)
	if obj != nil {
		if _, ok := m.(*mat.DensityGrid); !ok {
			return nil
		}
		cur := obj
		for cur != nil {
			cg, ok := cur.Mat.(*mat.DensityGrid)
			if !ok {
				return sites
			}
			sites = append(sites, GridSite{Grid: cg, Local: cur.Shape.ToLocal(p)})
			cur = o.Tree.Next(p, &it)
		}
	}
	if bg, ok := o.Ctx.Default.(*mat.DensityGrid); ok {
		sites = append(sites, GridSite{Grid: bg, Local: o.latticeLocal(p)})
	}
	return sites
}

// StackVal aggregates the raw density over an explicit grid stack following
// the given policy (the frontmost grid's)
func StackVal(sites []GridSite, kind mat.AggKind) float64 {
	if kind == mat.AggDefault {
		return sites[0].Grid.Value(sites[0].Local)
	}
	uprod, umin, usum := 1.0, 1.0, 0.0
	for _, s := range sites {
		u := s.Grid.Value(s.Local)
		if u < umin {
			umin = u
		}
		uprod *= u
		usum += u
	}
	switch kind {
	case mat.AggMin:
		return umin
	case mat.AggProd:
		return uprod
	}
	return usum / float64(len(sites))
}
