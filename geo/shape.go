// Copyright 2016 The Geomat Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package geo

import "math"

// Shape defines a geometric shape with a position and orientation.
// ToLocal maps a world point into normalized object coordinates in [0,1]³
// (used to address density-grid weight arrays); GradVJP applies the
// transpose Jacobian of ToLocal to a local gradient, giving the world-space
// gradient. Shapes without a closed-form Jacobian return the zero vector.
type Shape interface {
	Contains(p Vec) bool
	Bounds() Box
	Normal(p Vec) Vec // outward surface normal at the boundary point nearest to p; zero if undefined
	ToLocal(p Vec) Vec
	GradVJP(v Vec) Vec
}

// Sphere is a solid sphere
type Sphere struct {
	Center Vec
	Radius float64
}

// Contains tells whether p is inside the sphere
func (o *Sphere) Contains(p Vec) bool {
	d := p.Sub(o.Center)
	return d.Dot(d) <= o.Radius*o.Radius
}

// Bounds returns the bounding box
func (o *Sphere) Bounds() Box {
	r := Vec{o.Radius, o.Radius, o.Radius}
	return Box{o.Center.Sub(r), o.Center.Add(r)}
}

// Normal returns the outward radial direction
func (o *Sphere) Normal(p Vec) Vec { return p.Sub(o.Center).Unit() }

// ToLocal maps p to [0,1]³ coordinates of the bounding cube
func (o *Sphere) ToLocal(p Vec) Vec {
	d := p.Sub(o.Center).Scale(0.5 / o.Radius)
	return Vec{0.5 + d.X, 0.5 + d.Y, 0.5 + d.Z}
}

// GradVJP scales the local gradient by the inverse box size
func (o *Sphere) GradVJP(v Vec) Vec { return v.Scale(0.5 / o.Radius) }

// Block is a rectangular parallelepiped with axes E1,E2,E3 (unit vectors)
type Block struct {
	Center     Vec
	Size       Vec
	E1, E2, E3 Vec
}

// NewBlock returns an axis-aligned block
func NewBlock(center, size Vec) *Block {
	return &Block{
		Center: center, Size: size,
		E1: Vec{1, 0, 0}, E2: Vec{0, 1, 0}, E3: Vec{0, 0, 1},
	}
}

// project returns the coordinates of p-center along the block axes
func (o *Block) project(p Vec) Vec {
	d := p.Sub(o.Center)
	return Vec{d.Dot(o.E1), d.Dot(o.E2), d.Dot(o.E3)}
}

// Contains tells whether p is inside the block
func (o *Block) Contains(p Vec) bool {
	q := o.project(p)
	return math.Abs(q.X) <= 0.5*o.Size.X &&
		math.Abs(q.Y) <= 0.5*o.Size.Y &&
		math.Abs(q.Z) <= 0.5*o.Size.Z
}

// Bounds returns the bounding box
func (o *Block) Bounds() Box {
	var ext Vec
	for i := 0; i < 3; i++ {
		e := math.Abs(o.E1.Comp(i))*0.5*o.Size.X +
			math.Abs(o.E2.Comp(i))*0.5*o.Size.Y +
			math.Abs(o.E3.Comp(i))*0.5*o.Size.Z
		ext.SetComp(i, e)
	}
	return Box{o.Center.Sub(ext), o.Center.Add(ext)}
}

// Normal returns the outward normal of the face nearest to p
func (o *Block) Normal(p Vec) Vec {
	q := o.project(p)
	axes := [3]Vec{o.E1, o.E2, o.E3}
	best, bi, bs := math.MaxFloat64, 0, 1.0
	for i := 0; i < 3; i++ {
		h := 0.5 * o.Size.Comp(i)
		if h == 0 {
			continue
		}
		d := h - math.Abs(q.Comp(i)) // distance to face i
		if d < best {
			best = d
			bi = i
			bs = 1.0
			if q.Comp(i) < 0 {
				bs = -1.0
			}
		}
	}
	return axes[bi].Scale(bs)
}

// ToLocal maps p to [0,1]³ block coordinates
func (o *Block) ToLocal(p Vec) Vec {
	q := o.project(p)
	var r Vec
	for i := 0; i < 3; i++ {
		s := o.Size.Comp(i)
		if s == 0 {
			r.SetComp(i, 0.5)
			continue
		}
		r.SetComp(i, 0.5+q.Comp(i)/s)
	}
	return r
}

// GradVJP divides by the block size componentwise and applies the
// transposed projection matrix
func (o *Block) GradVJP(v Vec) Vec {
	if o.Size.X != 0 {
		v.X /= o.Size.X
	}
	if o.Size.Y != 0 {
		v.Y /= o.Size.Y
	}
	if o.Size.Z != 0 {
		v.Z /= o.Size.Z
	}
	// rows of the projection matrix are E1,E2,E3; transpose ⇒ columns
	return o.E1.Scale(v.X).Add(o.E2.Scale(v.Y)).Add(o.E3.Scale(v.Z))
}

// Cylinder is a solid cylinder along Axis (unit vector)
type Cylinder struct {
	Center Vec
	Radius float64
	Height float64
	Axis   Vec
}

// Contains tells whether p is inside the cylinder
func (o *Cylinder) Contains(p Vec) bool {
	d := p.Sub(o.Center)
	h := d.Dot(o.Axis)
	if math.Abs(h) > 0.5*o.Height {
		return false
	}
	r := d.Sub(o.Axis.Scale(h))
	return r.Dot(r) <= o.Radius*o.Radius
}

// Bounds returns the bounding box
func (o *Cylinder) Bounds() Box {
	var ext Vec
	for i := 0; i < 3; i++ {
		a := o.Axis.Comp(i)
		e := math.Abs(a)*0.5*o.Height + o.Radius*math.Sqrt(math.Max(0, 1-a*a))
		ext.SetComp(i, e)
	}
	return Box{o.Center.Sub(ext), o.Center.Add(ext)}
}

// Normal returns the outward normal of the nearest surface (cap or side)
func (o *Cylinder) Normal(p Vec) Vec {
	d := p.Sub(o.Center)
	h := d.Dot(o.Axis)
	r := d.Sub(o.Axis.Scale(h))
	dside := o.Radius - r.Norm()
	dcap := 0.5*o.Height - math.Abs(h)
	if dcap < dside {
		if h < 0 {
			return o.Axis.Scale(-1)
		}
		return o.Axis
	}
	return r.Unit()
}

// ToLocal maps p to [0,1]³ coordinates of the bounding cylinder box
func (o *Cylinder) ToLocal(p Vec) Vec {
	d := p.Sub(o.Center)
	h := d.Dot(o.Axis)
	r := d.Sub(o.Axis.Scale(h))
	return Vec{
		0.5 + r.Norm()/(2*o.Radius),
		0.5,
		0.5 + h/o.Height,
	}
}

// GradVJP has no closed form for cylinders yet
func (o *Cylinder) GradVJP(v Vec) Vec { return Vec{} }
