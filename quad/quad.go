// Copyright 2016 The Geomat Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package quad implements adaptive multidimensional quadrature over
// axis-aligned boxes
package quad

import (
	"container/heap"

	"github.com/cpmech/gosl/chk"
)

// Func is the integrand. x has the dimension of the integration box.
type Func func(x []float64) float64

// 3-point Gauss-Legendre abscissae and weights on [-1,1]
var (
	glx = []float64{-0.774596669241483, 0, 0.774596669241483}
	glw = []float64{0.555555555555556, 0.888888888888889, 0.555555555555556}
)

// region is one cell of the adaptive subdivision with its estimate and a
// local error indicator obtained by comparing against the midpoint rule
type region struct {
	lo, hi []float64
	val    float64
	err    float64
	wide   int // widest axis, split target
}

type regionHeap []*region

func (o regionHeap) Len() int            { return len(o) }
func (o regionHeap) Less(i, j int) bool  { return o[i].err > o[j].err }
func (o regionHeap) Swap(i, j int)       { o[i], o[j] = o[j], o[i] }
func (o *regionHeap) Push(x interface{}) { *o = append(*o, x.(*region)) }
func (o *regionHeap) Pop() interface{} {
	old := *o
	n := len(old)
	x := old[n-1]
	*o = old[:n-1]
	return x
}

// rule evaluates the tensor-product GL3 rule on [lo,hi] and fills the
// region's error indicator from the difference to the one-point rule
func rule(f Func, lo, hi []float64) *region {
	ndim := len(lo)
	if ndim < 1 || ndim > 3 {
		chk.Panic("quadrature dimension must be 1, 2 or 3. ndim=%d is invalid", ndim)
	}
	mid := make([]float64, ndim)
	hlf := make([]float64, ndim)
	vol := 1.0
	wide := 0
	for i := 0; i < ndim; i++ {
		mid[i] = 0.5 * (lo[i] + hi[i])
		hlf[i] = 0.5 * (hi[i] - lo[i])
		vol *= hi[i] - lo[i]
		if hi[i]-lo[i] > hi[wide]-lo[wide] {
			wide = i
		}
	}
	npts := 1
	for i := 0; i < ndim; i++ {
		npts *= 3
	}
	x := make([]float64, ndim)
	sum := 0.0
	for k := 0; k < npts; k++ {
		w := 1.0
		rem := k
		for i := 0; i < ndim; i++ {
			j := rem % 3
			rem /= 3
			x[i] = mid[i] + hlf[i]*glx[j]
			w *= glw[j] * 0.5
		}
		sum += w * f(x)
	}
	val := sum * vol
	crude := f(mid) * vol
	e := val - crude
	if e < 0 {
		e = -e
	}
	return &region{lo: lo, hi: hi, val: val, err: e, wide: wide}
}

// Integrate computes ∫f over the box [lo,hi] adaptively, refining the cell
// with the largest error indicator until the tolerances are met or maxeval
// integrand evaluations are spent. Returns the estimate and an error bound.
func Integrate(f Func, lo, hi []float64, atol, rtol float64, maxeval int) (val, errEst float64) {
	ndim := len(lo)
	if len(hi) != ndim {
		chk.Panic("integration bounds have mismatched dimensions: %d != %d", ndim, len(hi))
	}
	costPerRule := 1
	for i := 0; i < ndim; i++ {
		costPerRule *= 3
	}
	costPerRule++ // midpoint

	h := regionHeap{rule(f, lo, hi)}
	heap.Init(&h)
	neval := costPerRule
	val, errEst = h[0].val, h[0].err

	for neval+2*costPerRule <= maxeval {
		tol := atol
		if r := rtol * abs(val); r > tol {
			tol = r
		}
		if errEst <= tol {
			break
		}
		worst := heap.Pop(&h).(*region)
		a := worst.wide
		m := 0.5 * (worst.lo[a] + worst.hi[a])
		lo1 := append([]float64(nil), worst.lo...)
		hi1 := append([]float64(nil), worst.hi...)
		lo2 := append([]float64(nil), worst.lo...)
		hi2 := append([]float64(nil), worst.hi...)
		hi1[a] = m
		lo2[a] = m
		r1 := rule(f, lo1, hi1)
		r2 := rule(f, lo2, hi2)
		neval += 2 * costPerRule
		val += r1.val + r2.val - worst.val
		errEst += r1.err + r2.err - worst.err
		heap.Push(&h, r1)
		heap.Push(&h, r2)
	}
	return
}

func abs(x float64) float64 {
	if x < 0 {
		return -x
	}
	return x
}
