// Copyright 2016 The Geomat Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package geo

import (
	"testing"

	"github.com/cpmech/gosl/chk"
)

func Test_vec01(tst *testing.T) {

	//verbose()
	chk.PrintTitle("vec01. vector operations")

	a := Vec{X: 1, Y: 2, Z: 3}
	b := Vec{X: 4, Y: -5, Z: 6}
	chk.Scalar(tst, "a·b", 1e-17, a.Dot(b), 12)
	chk.Vector(tst, "a+b", 1e-17, []float64{a.Add(b).X, a.Add(b).Y, a.Add(b).Z}, []float64{5, -3, 9})

	c := a.Cross(b)
	chk.Scalar(tst, "c·a", 1e-14, c.Dot(a), 0)
	chk.Scalar(tst, "c·b", 1e-14, c.Dot(b), 0)

	u := Vec{X: 3, Y: 4}.Unit()
	chk.Scalar(tst, "‖u‖", 1e-15, u.Norm(), 1)
}

func Test_box01(tst *testing.T) {

	//verbose()
	chk.PrintTitle("box01. box queries")

	b := Box{Lo: Vec{X: -1, Y: -1, Z: -1}, Hi: Vec{X: 1, Y: 1, Z: 1}}
	if !b.Contains(Vec{}) {
		tst.Errorf("center must be inside\n")
		return
	}
	if b.Contains(Vec{X: 2}) {
		tst.Errorf("(2,0,0) must be outside\n")
		return
	}
	chk.Scalar(tst, "volume", 1e-15, b.Volume(), 8)

	c := Box{Lo: Vec{X: 0, Y: 0, Z: 0}, Hi: Vec{X: 3, Y: 3, Z: 3}}
	isec := b.Intersect(c)
	chk.Scalar(tst, "∩ volume", 1e-15, isec.Volume(), 1)
	if !b.Intersects(c) {
		tst.Errorf("boxes must intersect\n")
	}
}

func Test_overlap01(tst *testing.T) {

	//verbose()
	chk.PrintTitle("overlap01. axis-aligned block, exact path")

	b := Box{Lo: Vec{X: 0, Y: 0, Z: 0}, Hi: Vec{X: 2, Y: 2, Z: 2}}

	// block covering the left half of the box
	blk := NewBlock(Vec{X: 0, Y: 1, Z: 1}, Vec{X: 2, Y: 4, Z: 4})
	chk.Scalar(tst, "half cover", 1e-15, Overlap(b, blk, 1e-4, 10000), 0.5)

	// block containing the whole box
	blk = NewBlock(Vec{X: 1, Y: 1, Z: 1}, Vec{X: 10, Y: 10, Z: 10})
	chk.Scalar(tst, "full cover", 1e-15, Overlap(b, blk, 1e-4, 10000), 1)

	// disjoint block
	blk = NewBlock(Vec{X: 10, Y: 10, Z: 10}, Vec{X: 1, Y: 1, Z: 1})
	chk.Scalar(tst, "no cover", 1e-15, Overlap(b, blk, 1e-4, 10000), 0)
}

func Test_overlap02(tst *testing.T) {

	//verbose()
	chk.PrintTitle("overlap02. sphere, subdivision path")

	s := &Sphere{Center: Vec{}, Radius: 10}

	// box deep inside the sphere
	in := Box{Lo: Vec{X: -1, Y: -1, Z: -1}, Hi: Vec{X: 1, Y: 1, Z: 1}}
	chk.Scalar(tst, "inside", 1e-15, Overlap(in, s, 1e-3, 100000), 1)

	// box far outside
	out := Box{Lo: Vec{X: 20, Y: 20, Z: 20}, Hi: Vec{X: 21, Y: 21, Z: 21}}
	chk.Scalar(tst, "outside", 1e-15, Overlap(out, s, 1e-3, 100000), 0)

	// box centered on a flat-looking portion of the surface covers about half
	surf := Box{Lo: Vec{X: 9.9, Y: -0.1, Z: -0.1}, Hi: Vec{X: 10.1, Y: 0.1, Z: 0.1}}
	chk.Scalar(tst, "surface", 0.02, Overlap(surf, s, 1e-4, 1000000), 0.5)
}

func Test_shape01(tst *testing.T) {

	//verbose()
	chk.PrintTitle("shape01. normals and local coordinates")

	s := &Sphere{Center: Vec{X: 1}, Radius: 2}
	n := s.Normal(Vec{X: 3})
	chk.Vector(tst, "sphere normal", 1e-15, []float64{n.X, n.Y, n.Z}, []float64{1, 0, 0})

	blk := NewBlock(Vec{}, Vec{X: 2, Y: 4, Z: 8})
	n = blk.Normal(Vec{X: 0.99, Y: 0, Z: 0})
	chk.Vector(tst, "block normal", 1e-15, []float64{n.X, n.Y, n.Z}, []float64{1, 0, 0})

	// local coordinates span [0,1] across the block
	l := blk.ToLocal(Vec{X: -1, Y: -2, Z: -4})
	chk.Vector(tst, "lo corner", 1e-15, []float64{l.X, l.Y, l.Z}, []float64{0, 0, 0})
	l = blk.ToLocal(Vec{X: 1, Y: 2, Z: 4})
	chk.Vector(tst, "hi corner", 1e-15, []float64{l.X, l.Y, l.Z}, []float64{1, 1, 1})
}
