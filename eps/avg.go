// Copyright 2016 The Geomat Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package eps

import (
	"math"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/la"

	"github.com/dpfield/geomat/geo"
	"github.com/dpfield/geomat/mat"
	"github.com/dpfield/geomat/tree"
)

// corner stencils used to detect the materials meeting inside a pixel, one
// set per number of active directions
var stencils = [3][][3]float64{
	{{0, 0, 0}, {0, 0, -1}, {0, 0, 1}},
	{{0, 0, 0}, {-1, -1, 0}, {1, 1, 0}, {-1, 1, 0}, {1, -1, 0}},
	{{0, 0, 0},
		{1, 1, 1}, {1, 1, -1}, {1, -1, 1}, {1, -1, -1},
		{-1, 1, 1}, {-1, 1, -1}, {-1, -1, 1}, {-1, -1, -1}},
}

// frontObject samples the pixel's corner stencil and identifies the
// frontmost object together with the single material behind it. ok is false
// when more than two distinct materials meet inside the pixel.
func (o *Resolver) frontObject(v geo.Box) (front *tree.Object, mFront, mBehind mat.Material, pFront, pBehind geo.Vec, ok bool) {
	p := v.Center()
	half := v.Size().Scale(0.5)
	var o1, o2 *tree.Object
	var m1, m2 mat.Material
	var p1, p2 geo.Vec
	id1, id2 := -2, -2 // -1 marks the default material

	stencil := stencils[0]
	if nd := o.Dim.Ndirs(); nd == 2 {
		stencil = stencils[1]
	} else if nd == 3 {
		stencil = stencils[2]
	}
	for _, off := range stencil {
		q := geo.Vec{
			X: p.X + off[0]*half.X,
			Y: p.Y + off[1]*half.Y,
			Z: p.Z + off[2]*half.Z,
		}
		obj, _ := o.Tree.Locate(q)
		m := o.Ctx.Default
		id := -1
		if obj != nil {
			id = obj.ID
			// file-sampled materials vary too smoothly to define an
			// interface; treat them as the default background
			if _, file := obj.Mat.(*mat.FileSampled); !file {
				m = obj.Mat
			}
		}
		if id == id1 || id == id2 {
			continue
		}
		switch {
		case id1 == -2:
			o1, id1, m1, p1 = obj, id, m, q
		case id2 == -2 || (id >= id1 && id >= id2 && (id1 == id2 || mat.Equal(m1, m2))):
			o2, id2, m2, p2 = obj, id, m, q
		case (id1 < id2 && (id1 == id || mat.Equal(m1, m))) ||
			(id2 < id1 && (id2 == id || mat.Equal(m2, m))):
			// repeat of a known material, nothing new in this corner
		default:
			return nil, nil, nil, p, p, false
		}
	}
	if id2 == -2 {
		o2, id2, m2, p2 = o1, id1, m1, p1
	}
	if id1 >= id2 {
		return o1, m1, m2, p1, p2, true
	}
	return o2, m2, m1, p2, p1, true
}

// gridFill converts the signed distance d from the pixel center to the
// projection threshold into the fill fraction of the u=1 material, using the
// cap length/area/volume formula for the active dimensionality. A distance
// beyond the sample radius means the interface misses the pixel entirely.
func gridFill(nd int, d, r, u, eta float64) (fill float64, averaging bool) {
	if math.Abs(d) > math.Abs(r) {
		return 0, false
	}
	var rel float64
	switch nd {
	case 1:
		rel = (r - d) / (2 * r)
	case 2:
		rel = (r*r*math.Acos(d/r) - d*math.Sqrt(r*r-d*d)) / (math.Pi * r * r)
	default:
		rel = (r - d) * (r - d) * (2*r + d) / (4 * math.Pi * r * r * r)
	}
	if u <= eta {
		return rel, true // center is on the u=0 side, the cap is the u=1 material
	}
	return 1 - rel, true
}

// EffInvMatrix computes the effective inverse tensor for the pixel volume v.
// fallback reports that the fast analytic path does not apply and the caller
// must integrate numerically instead.
func (o *Resolver) EffInvMatrix(c mat.Component, v geo.Box) (tinv mat.SymTensor, fallback bool) {
	ft := c.Type()
	center := v.Center()

	trivialAt := func(p geo.Vec) mat.SymTensor {
		m, med := o.MediumAt(p)
		_, ti := epsMu(ft, m, &med)
		return ti
	}
	if o.MaxEval == 0 {
		return trivialAt(center), false
	}

	front, m1, m2, p1, p2, ok := o.frontObject(v)
	if !ok {
		// ambiguous pixel, more than two materials in the stencil
		return tinv, true
	}

	// strongly variable materials have no single interface to average over
	if (mat.IsVariable(m1, false) && wantsAveraging(m1)) ||
		(mat.IsVariable(m2, false) && wantsAveraging(m2)) {
		return tinv, true
	}

	var fill float64
	var normal geo.Vec
	gridAveraging := false
	g, isGrid := m1.(*mat.DensityGrid)
	if isGrid && g.DoAveraging {
		fobj, it := o.Tree.Locate(center)
		grad := o.GridGrad(center, fobj, it, g)
		gn := grad.Norm()
		if gn != 0 {
			u := o.GridVal(center, fobj, it, g) + o.Ctx.UP
			d := (g.Eta - u) / gn
			r := v.Diameter() / 2
			fill, gridAveraging = gridFill(o.Dim.Ndirs(), d, r, u, g.Eta)
			normal = grad.Scale(1 / gn)
		}
	}

	var med1, med2 mat.Medium
	if mat.Equal(m1, m2) {
		if !gridAveraging {
			return trivialAt(center), false
		}
	} else {
		// evaluate variable materials where the stencil saw them; averaging
		// as if they were constant over the pixel keeps the net error second
		// order since the boundary layer is one pixel thick
		med1 = o.evalNear(m1, p1)
		med2 = o.evalNear(m2, p2)
		if med1.Equal(&med2) {
			_, ti := epsMu(ft, m1, &med1)
			return ti, false
		}
		if mat.IsMetal(ft, m1, &med1) || mat.IsMetal(ft, m2, &med2) {
			return trivialAt(center), false
		}
	}

	var e1, e2 mat.SymTensor
	if isGrid && gridAveraging {
		// mix the pure interpolation endpoints across the threshold surface
		m1med := g.InterpMedium(1)
		m2med := g.InterpMedium(0)
		e1, _ = m1med.EpsMu(ft)
		e2, _ = m2med.EpsMu(ft)
	} else {
		if isGrid || front == nil {
			return trivialAt(center), false
		}
		normal = front.Shape.Normal(center)
		if normal.Norm() == 0 {
			// no usable normal at non-manifold geometry, skip averaging
			return trivialAt(center), false
		}
		fill = geo.Overlap(v, front.Shape, o.Tol, o.MaxEval)
		e1, _ = epsMu(ft, m1, &med1)
		e2, _ = epsMu(ft, m2, &med2)
	}

	mixed := kottkeMix(e1, e2, fill, normal)
	if !mixed.PosDef() {
		chk.Panic("subpixel averaging produced a non-positive-definite tensor %+v", mixed)
	}
	return mixed.Inv(), false
}

// evalNear evaluates a stencil material at the point where the stencil saw
// it, relocating in the tree so that stacked density grids walk from a
// positioned iterator
func (o *Resolver) evalNear(m mat.Material, p geo.Vec) mat.Medium {
	_, obj, it := o.MaterialAt(p)
	return o.EvalAt(m, obj, it, p)
}

// wantsAveraging tells whether a variable (non-grid) material asked for the
// slow integration path at its interfaces
func wantsAveraging(m mat.Material) bool {
	switch t := m.(type) {
	case *mat.UserFunc:
		return t.DoAveraging
	case *mat.FileSampled:
		return false
	}
	return false
}

// normalFrame returns the orthonormal rotation matrix whose first column is
// the unit normal n. The third column comes from n x z, or from a reference
// in the x-z plane when n is too close to the z axis for that cross product
// to be stable.
func normalFrame(n geo.Vec) [][]float64 {
	R := la.MatAlloc(3, 3)
	R[0][0], R[1][0], R[2][0] = n.X, n.Y, n.Z
	if math.Abs(n.X) > 1e-2 || math.Abs(n.Y) > 1e-2 {
		R[0][2], R[1][2], R[2][2] = n.Y, -n.X, 0
	} else {
		R[0][2], R[1][2], R[2][2] = 0, -n.Z, n.Y
	}
	s := 1.0 / math.Sqrt(R[0][2]*R[0][2]+R[1][2]*R[1][2]+R[2][2]*R[2][2])
	R[0][2] *= s
	R[1][2] *= s
	R[2][2] *= s
	// middle column completes the right-handed set
	R[0][1] = R[1][2]*R[2][0] - R[2][2]*R[1][0]
	R[1][1] = R[2][2]*R[0][0] - R[0][2]*R[2][0]
	R[2][1] = R[0][2]*R[1][0] - R[1][2]*R[0][0]
	return R
}

// kottkeMix applies the anisotropic interface mixing rule: rotate both
// tensors into the normal-aligned frame, mix each component with the
// fill-weighted expression that stays continuous across the interface (the
// normal displacement field fixes the -1/eps form on the normal component),
// reassemble and rotate back
func kottkeMix(e1, e2 mat.SymTensor, fill float64, n geo.Vec) mat.SymTensor {
	R := normalFrame(n)
	r1 := e1.Rotate(R)
	r2 := e2.Rotate(R)

	avg := func(f func(e mat.SymTensor) float64) float64 {
		return fill*f(r1) + (1-fill)*f(r2)
	}
	var d mat.SymTensor
	d.M00 = avg(func(e mat.SymTensor) float64 { return -1 / e.M00 })
	d.M11 = avg(func(e mat.SymTensor) float64 { return e.M11 - e.M01*e.M01/e.M00 })
	d.M22 = avg(func(e mat.SymTensor) float64 { return e.M22 - e.M02*e.M02/e.M00 })
	d.M01 = avg(func(e mat.SymTensor) float64 { return e.M01 / e.M00 })
	d.M02 = avg(func(e mat.SymTensor) float64 { return e.M02 / e.M00 })
	d.M12 = avg(func(e mat.SymTensor) float64 { return e.M12 - e.M02*e.M01/e.M00 })

	var m mat.SymTensor
	m.M00 = -1 / d.M00
	m.M11 = d.M11 - d.M01*d.M01/d.M00
	m.M22 = d.M22 - d.M02*d.M02/d.M00
	m.M01 = -d.M01 / d.M00
	m.M02 = -d.M02 / d.M00
	m.M12 = d.M12 - d.M02*d.M01/d.M00

	// inverse rotation is the transpose
	RT := la.MatAlloc(3, 3)
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			RT[i][j] = R[j][i]
		}
	}
	return m.Rotate(RT)
}

// EffInvRow returns the row of the effective inverse tensor used by the
// solver to update component c over the pixel volume v, switching to the
// quadrature fallback when the analytic path cannot be applied
func (o *Resolver) EffInvRow(c mat.Component, v geo.Box) [3]float64 {
	tinv, fallback := o.EffInvMatrix(c, v)
	if fallback {
		return o.fallbackInvRow(c, v)
	}
	return tinv.Row(c.Dir())
}
