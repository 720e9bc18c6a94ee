// Copyright 2016 The Geomat Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package geo

// Overlap estimates the fraction of box b covered by shape s, between 0 and 1.
// Axis-aligned blocks are handled exactly; other shapes are resolved by
// recursive subdivision down to a relative tolerance tol, spending at most
// maxeval containment tests. Degenerate (zero-thickness) box directions are
// treated as flat.
func Overlap(b Box, s Shape, tol float64, maxeval int) float64 {
	if blk, ok := s.(*Block); ok && axisAligned(blk) {
		inter := b.Intersect(blk.Bounds())
		if !validBox(inter) {
			return 0
		}
		return inter.Volume() / b.Volume()
	}
	if !b.Intersects(s.Bounds()) {
		return 0
	}
	budget := maxeval
	return subdivide(b, s, tol*b.Diameter(), &budget)
}

func axisAligned(b *Block) bool {
	return b.E1.Equal(Vec{1, 0, 0}) && b.E2.Equal(Vec{0, 1, 0}) && b.E3.Equal(Vec{0, 0, 1})
}

func validBox(b Box) bool {
	return b.Lo.X <= b.Hi.X && b.Lo.Y <= b.Hi.Y && b.Lo.Z <= b.Hi.Z
}

// samplePoints returns the center and corners of b, collapsing degenerate axes
func samplePoints(b Box) []Vec {
	pts := []Vec{b.Center()}
	xs := cornerVals(b.Lo.X, b.Hi.X)
	ys := cornerVals(b.Lo.Y, b.Hi.Y)
	zs := cornerVals(b.Lo.Z, b.Hi.Z)
	for _, x := range xs {
		for _, y := range ys {
			for _, z := range zs {
				pts = append(pts, Vec{x, y, z})
			}
		}
	}
	return pts
}

func cornerVals(lo, hi float64) []float64 {
	if lo == hi {
		return []float64{lo}
	}
	return []float64{lo, hi}
}

// subdivide recursively classifies the box against the shape. Fully-inside
// and fully-outside boxes (as judged by corner and center samples after the
// box is small enough) contribute 1 and 0; mixed boxes are split along the
// longest axis until the tolerance or evaluation budget runs out.
func subdivide(b Box, s Shape, minDiam float64, budget *int) float64 {
	pts := samplePoints(b)
	*budget -= len(pts)
	nin := 0
	for _, p := range pts {
		if s.Contains(p) {
			nin++
		}
	}
	if nin == len(pts) {
		return 1
	}
	if nin == 0 && !s.Bounds().Intersects(b) {
		return 0
	}
	if b.Diameter() <= minDiam || *budget <= 0 {
		return float64(nin) / float64(len(pts))
	}
	// split along the longest axis
	size := b.Size()
	axis := 0
	if size.Y > size.Comp(axis) {
		axis = 1
	}
	if size.Z > size.Comp(axis) {
		axis = 2
	}
	mid := 0.5 * (b.Lo.Comp(axis) + b.Hi.Comp(axis))
	left, right := b, b
	left.Hi.SetComp(axis, mid)
	right.Lo.SetComp(axis, mid)
	return 0.5*subdivide(left, s, minDiam, budget) + 0.5*subdivide(right, s, minDiam, budget)
}
