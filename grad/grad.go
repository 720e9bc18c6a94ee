// Copyright 2016 The Geomat Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package grad accumulates design-density gradients of frequency-domain
// objective functions by the adjoint method, differencing the effective
// material tensors with respect to the grid weights
package grad

import (
	"math"

	"github.com/cpmech/gosl/chk"

	"github.com/dpfield/geomat/eps"
	"github.com/dpfield/geomat/geo"
	"github.com/dpfield/geomat/mat"
)

// Sampler yields one frequency-domain field sample per component, frequency
// index and doubled (half-pixel) grid index
type Sampler interface {
	At(c mat.Component, fi int, iv [3]int) complex128
}

// SamplerFunc adapts a plain function to the Sampler interface
type SamplerFunc func(c mat.Component, fi int, iv [3]int) complex128

// At implements Sampler
func (o SamplerFunc) At(c mat.Component, fi int, iv [3]int) complex128 { return o(c, fi, iv) }

// GridVolume describes the uniform staggered grid the fields live on.
// Indices are doubled so that half-pixel offsets stay integral: the point of
// index iv sits at Origin + iv/(2A) per direction.
type GridVolume struct {
	A      float64 // resolution, pixels per unit length
	Dim    geo.Ndim
	Origin geo.Vec // location of index (0,0,0)
	N      [3]int  // pixels per direction (0 for inactive directions)
}

// Dirs returns the active direction indices
func (o GridVolume) Dirs() []int {
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

// Loc returns the point addressed by a doubled index
func (o GridVolume) Loc(iv [3]int) geo.Vec {
	h := 0.5 / o.A
	return geo.Vec{
		X: o.Origin.X + h*float64(iv[0]),
		Y: o.Origin.Y + h*float64(iv[1]),
		Z: o.Origin.Z + h*float64(iv[2]),
	}
}

// yeeShift returns the staggering of component c in doubled indices: offset
// by one half-pixel along its own direction when that direction is active
func yeeShift(c mat.Component, dirs []int) (s [3]int) {
	for _, d := range dirs {
		if d == c.Dir() {
			s[d] = 1
		}
	}
	return
}

// Engine differentiates the effective inverse-permittivity tensors with
// respect to the weights of a design density grid. All adjustable grids must
// alias the design grid's Weights slice; gradient entries align with it.
type Engine struct {
	Res  *eps.Resolver
	GV   GridVolume
	Grid *mat.DensityGrid // the design grid
	Du   float64          // weight perturbation for finite differences
}

// NewEngine returns an engine with the default perturbation step
func NewEngine(res *eps.Resolver, gv GridVolume, grid *mat.DensityGrid) *Engine {
	return &Engine{Res: res, GV: gv, Grid: grid, Du: 1e-6}
}

func ivAdd(a, b [3]int) [3]int { return [3]int{a[0] + b[0], a[1] + b[1], a[2] + b[2]} }
func ivSub(a, b [3]int) [3]int { return [3]int{a[0] - b[0], a[1] - b[1], a[2] - b[2]} }

func ivMid(a, b [3]int) [3]int {
	return [3]int{(a[0] + b[0]) / 2, (a[1] + b[1]) / 2, (a[2] + b[2]) / 2}
}

// forEachYee visits every sample point of component c inside the box,
// stepping whole pixels at the component's staggering
func (o *Engine) forEachYee(where geo.Box, c mat.Component, visit func(iv [3]int, p geo.Vec)) {
	dirs := o.GV.Dirs()
	shift := yeeShift(c, dirs)
	var lo, hi [3]int
	for _, d := range dirs {
		a := int(math.Ceil(2 * o.GV.A * (where.Lo.Comp(d) - o.GV.Origin.Comp(d))))
		if ((a-shift[d])%2+2)%2 != 0 {
			a++
		}
		b := int(math.Floor(2 * o.GV.A * (where.Hi.Comp(d) - o.GV.Origin.Comp(d))))
		if ((b-shift[d])%2+2)%2 != 0 {
			b--
		}
		lo[d], hi[d] = a, b
	}
	var iv [3]int
	for iv[0] = lo[0]; iv[0] <= hi[0]; iv[0] += 2 {
		for iv[1] = lo[1]; iv[1] <= hi[1]; iv[1] += 2 {
			for iv[2] = lo[2]; iv[2] <= hi[2]; iv[2] += 2 {
				visit(iv, o.GV.Loc(iv))
			}
		}
	}
}

// AddGradient accumulates into grad the derivative of
// Re Σ conj(adjoint)·A·forward with respect to every design weight, for each
// frequency, over the sample points inside where. The layout of grad is
// [frequency][weight], len(freqs)*len(Grid.Weights) entries scaled by scale.
// All three electric components are visited: the coordinate system carries
// every direction even when a direction is collapsed (Ez in 2D, Eφ in
// cylindrical); only the iteration bounds follow the active axes.
func (o *Engine) AddGradient(grad []float64, freqs []float64, adj, fwd Sampler, where geo.Box, scale float64) {
	nw := len(o.Grid.Weights)
	if len(grad) < len(freqs)*nw {
		chk.Panic("gradient buffer too small: %d < %d", len(grad), len(freqs)*nw)
	}
	dirs := o.GV.Dirs()
	for fi, freq := range freqs {
		for ca := mat.Ex; ca <= mat.Ez; ca++ {
			o.forEachYee(where, ca, func(iv [3]int, p geo.Vec) {
				sites := o.Res.GridStack(p)
				if len(sites) == 0 {
					return
				}
				g := sites[0].Grid
				aval := adj.At(ca, fi, iv)
				if !g.Trivial() {
					aval *= o.Res.CondCmp(ca, p, freq)
				}

				cyl := 1.0
				if o.GV.Dim == geo.Cyl {
					cyl = 2 * p.X
				}
				o.addPoint(grad, fi, ca, ca, aval, fwd.At(ca, fi, iv), p, scale*cyl, freq)

				// cross terms only arise through subpixel averaging or
				// intrinsically anisotropic endpoints
				if !g.DoAveraging && g.M1.EpsOffdiag.IsZero() && g.M2.EpsOffdiag.IsZero() {
					return
				}
				for cf := mat.Ex; cf <= mat.Ez; cf++ {
					if cf == ca {
						continue
					}
					o.addRestricted(grad, fi, ca, cf, aval, fwd, iv, scale, freq, dirs)
				}
			})
		}
	}
}

// addRestricted handles one forward/adjoint component pair on different Yee
// sites: the forward field is averaged onto the two permittivity nodes
// flanking the adjoint sample and each node receives half the adjoint weight
func (o *Engine) addRestricted(grad []float64, fi int, ca, cf mat.Component, aval complex128, fwd Sampler, iv [3]int, scale, freq float64, dirs []int) {
	var unitA, unitF [3]int
	for _, d := range dirs {
		if d == ca.Dir() {
			unitA[d] = 2
		}
		if d == cf.Dir() {
			unitF[d] = 2
		}
	}

	fwdP := ivAdd(iv, ivSub(yeeShift(cf, dirs), yeeShift(ca, dirs)))
	fwdPa := ivAdd(fwdP, unitA)
	fwdPf := ivSub(fwdP, unitF)
	fwdPaf := ivSub(fwdPa, unitF)

	nodes := [2]struct {
		eps  [3]int
		a, b [3]int
	}{
		{ivMid(fwdP, fwdPf), fwdP, fwdPf},
		{ivMid(fwdPa, fwdPaf), fwdPa, fwdPaf},
	}
	for _, nd := range nodes {
		p := o.GV.Loc(nd.eps)
		cyl := 1.0
		if o.GV.Dim == geo.Cyl {
			cyl = p.X
		}
		favg := 0.5*fwd.At(cf, fi, nd.a) + 0.5*fwd.At(cf, fi, nd.b)
		o.addPoint(grad, fi, ca, cf, 0.5*aval, favg, p, scale*cyl, freq)
	}
}

// addPoint routes one adjoint-forward field product at point p into the
// weight gradient: it finds the grid stack, adjusts the scale for the
// aggregation policy, and differences the corner weights of every stacked
// site addressing the shared design array
func (o *Engine) addPoint(grad []float64, fi int, ca, cf mat.Component, aval, fval complex128, p geo.Vec, scale, freq float64) {
	sites := o.Res.GridStack(p)
	if len(sites) == 0 {
		return
	}
	g := sites[0].Grid
	if len(sites) > 1 {
		switch g.Kind {
		case mat.AggMin, mat.AggProd:
			chk.Panic("gradients of overlapping MIN or PROD aggregated grids are not defined")
		case mat.AggMean:
			scale /= float64(len(sites))
		}
	}
	uval := mat.Project(eps.StackVal(sites, g.Kind), g.Beta, g.Eta)
	nw := len(o.Grid.Weights)
	out := grad[fi*nw : (fi+1)*nw]
	for _, site := range sites {
		s := scale
		switch g.Kind {
		case mat.AggMin:
			// a site carries gradient only where it realizes the minimum;
			// its raw interpolated value is compared against the projected
			// aggregate, so the gate is exact at beta=0
			if site.Grid.Value(site.Local) != uval {
				continue
			}
		case mat.AggProd:
			s *= uval / site.Grid.Value(site.Local)
		}
		o.interpWeights(out, ca, cf, aval, fval, p, s, freq, site.Local)
		if g.Kind == mat.AggDefault {
			break
		}
	}
}

// interpWeights spreads one contribution over the (up to eight) design
// weights whose trilinear footprint covers the local point. The interpolation
// weight of each corner is not applied explicitly: perturbing the corner and
// re-resolving the material captures it inside the finite difference.
func (o *Engine) interpWeights(out []float64, ca, cf mat.Component, aval, fval complex128, p geo.Vec, scale, freq float64, local geo.Vec) {
	g := o.Grid
	x1, x2, _ := mat.MapCoord(local.X, g.N[0])
	y1, y2, _ := mat.MapCoord(local.Y, g.N[1])
	z1, z2, _ := mat.MapCoord(local.Z, g.N[2])

	var corners [8]int
	ncor := 0
	for _, x := range [2]int{x1, x2} {
		for _, y := range [2]int{y1, y2} {
			for _, z := range [2]int{z1, z2} {
				idx := (x*g.N[1]+y)*g.N[2] + z
				dup := false
				for i := 0; i < ncor; i++ {
					if corners[i] == idx {
						dup = true
						break
					}
				}
				if !dup {
					corners[ncor] = idx
					ncor++
				}
			}
		}
	}

	for i := 0; i < ncor; i++ {
		idx := corners[i]
		out[idx] += scale * real(aval*o.cornerGradient(ca, cf, fval, p, freq, idx))
	}
}

// cornerGradient differences the row of the effective inverse tensor with
// respect to one design weight, dotted with the forward field sample.
// Non-dispersive grids difference the real subpixel-averaged row over the
// pixel volume; dispersive grids difference the complex point tensor and
// fold in the conductivity factor.
func (o *Engine) cornerGradient(ca, cf mat.Component, fval complex128, p geo.Vec, freq float64, idx int) complex128 {
	g := o.Grid
	orig := g.Weights[idx]
	defer func() { g.Weights[idx] = orig }()

	if g.Trivial() {
		v := o.pixelBox(p)
		g.Weights[idx] = orig - o.Du
		r1 := o.Res.EffInvRow(ca, v)
		g.Weights[idx] = orig + o.Du
		r2 := o.Res.EffInvRow(ca, v)
		d := (r1[cf.Dir()] - r2[cf.Dir()]) / (2 * o.Du)
		return complex(d, 0) * fval
	}

	g.Weights[idx] = orig - o.Du
	r1 := o.Res.EffInvRowDisp(ca, p, freq)
	g.Weights[idx] = orig + o.Du
	r2 := o.Res.EffInvRowDisp(ca, p, freq)
	d := (r1[cf.Dir()] - r2[cf.Dir()]) / complex(2*o.Du, 0)
	return d * fval * o.Res.CondCmp(cf, p, freq)
}

// pixelBox returns the one-pixel averaging volume centered at p, extended
// along the active directions only
func (o *Engine) pixelBox(p geo.Vec) geo.Box {
	v := geo.Box{Lo: p, Hi: p}
	h := 0.5 / o.GV.A
	for _, d := range o.GV.Dirs() {
		v.Lo.SetComp(d, p.Comp(d)-h)
		v.Hi.SetComp(d, p.Comp(d)+h)
	}
	return v
}
