// Copyright 2016 The Geomat Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package geo implements the geometric primitives used by the material
// resolver: vectors, axis-aligned boxes, shapes and overlap fractions
package geo

import "math"

// Ndim defines the dimensionality of the computational cell
type Ndim int

// dimensionalities
const (
	D1 Ndim = iota + 1
	D2
	D3
	Cyl // 2D cylindrical (r,z)
)

// Ndirs returns the number of active directions
func (o Ndim) Ndirs() int {
	switch o {
	case D1:
		return 1
	case D2, Cyl:
		return 2
	}
	return 3
}

// Vec is a point or direction in 3D space
type Vec struct {
	X, Y, Z float64
}

// Add returns u + v
func (u Vec) Add(v Vec) Vec { return Vec{u.X + v.X, u.Y + v.Y, u.Z + v.Z} }

// Sub returns u - v
func (u Vec) Sub(v Vec) Vec { return Vec{u.X - v.X, u.Y - v.Y, u.Z - v.Z} }

// Scale returns s * u
func (u Vec) Scale(s float64) Vec { return Vec{s * u.X, s * u.Y, s * u.Z} }

// Dot returns u · v
func (u Vec) Dot(v Vec) float64 { return u.X*v.X + u.Y*v.Y + u.Z*v.Z }

// Cross returns u × v
func (u Vec) Cross(v Vec) Vec {
	return Vec{
		u.Y*v.Z - u.Z*v.Y,
		u.Z*v.X - u.X*v.Z,
		u.X*v.Y - u.Y*v.X,
	}
}

// Norm returns |u|
func (u Vec) Norm() float64 { return math.Sqrt(u.Dot(u)) }

// Unit returns u/|u|; the zero vector is returned unchanged
func (u Vec) Unit() Vec {
	n := u.Norm()
	if n == 0 {
		return u
	}
	return u.Scale(1.0 / n)
}

// Comp returns the i-th component (0,1,2)
func (u Vec) Comp(i int) float64 {
	switch i {
	case 0:
		return u.X
	case 1:
		return u.Y
	}
	return u.Z
}

// SetComp sets the i-th component (0,1,2)
func (u *Vec) SetComp(i int, v float64) {
	switch i {
	case 0:
		u.X = v
	case 1:
		u.Y = v
	default:
		u.Z = v
	}
}

// Equal reports exact componentwise equality
func (u Vec) Equal(v Vec) bool { return u.X == v.X && u.Y == v.Y && u.Z == v.Z }

// Box is an axis-aligned box
type Box struct {
	Lo, Hi Vec
}

// Center returns the box centroid
func (o Box) Center() Vec {
	return Vec{0.5 * (o.Lo.X + o.Hi.X), 0.5 * (o.Lo.Y + o.Hi.Y), 0.5 * (o.Lo.Z + o.Hi.Z)}
}

// Size returns the box extents
func (o Box) Size() Vec { return o.Hi.Sub(o.Lo) }

// Diameter returns the length of the box diagonal
func (o Box) Diameter() float64 { return o.Size().Norm() }

// Volume returns the box volume, treating zero-thickness directions as unit
func (o Box) Volume() float64 {
	v := 1.0
	s := o.Size()
	for i := 0; i < 3; i++ {
		if d := s.Comp(i); d > 0 {
			v *= d
		}
	}
	return v
}

// Contains tells whether p lies inside the box (boundary included)
func (o Box) Contains(p Vec) bool {
	return p.X >= o.Lo.X && p.X <= o.Hi.X &&
		p.Y >= o.Lo.Y && p.Y <= o.Hi.Y &&
		p.Z >= o.Lo.Z && p.Z <= o.Hi.Z
}

// Intersect returns the intersection of two boxes (possibly inverted if disjoint)
func (o Box) Intersect(b Box) Box {
	return Box{
		Lo: Vec{math.Max(o.Lo.X, b.Lo.X), math.Max(o.Lo.Y, b.Lo.Y), math.Max(o.Lo.Z, b.Lo.Z)},
		Hi: Vec{math.Min(o.Hi.X, b.Hi.X), math.Min(o.Hi.Y, b.Hi.Y), math.Min(o.Hi.Z, b.Hi.Z)},
	}
}

// Intersects tells whether the x, y and z ranges of two boxes all overlap
func (o Box) Intersects(b Box) bool {
	return o.Lo.X <= b.Hi.X && b.Lo.X <= o.Hi.X &&
		o.Lo.Y <= b.Hi.Y && b.Lo.Y <= o.Hi.Y &&
		o.Lo.Z <= b.Hi.Z && b.Lo.Z <= o.Hi.Z
}
