// Copyright 2016 The Geomat Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package tree implements an arena-based axis-aligned bounding-box tree over
// geometric objects, answering point-location queries in priority order
package tree

import (
	"sort"

	"github.com/dpfield/geomat/geo"
	"github.com/dpfield/geomat/mat"
)

// Object pairs a shape with its material. ID is the insertion index; at
// points covered by several objects the highest ID wins.
type Object struct {
	Shape geo.Shape
	Mat   mat.Material
	ID    int
}

// node is one arena entry. Leaves hold object indices sorted by descending
// ID; interior nodes hold the two child arena indices.
type node struct {
	box  geo.Box
	objs []int
	kid  [2]int // -1 when leaf
}

// Tree is the spatial index. The arena layout avoids ownership ambiguity
// between the index and the geometry it references: nodes address each other
// and the object list purely by index.
type Tree struct {
	Objects []Object
	Bounds  geo.Box
	nodes   []node
}

const (
	maxLeafObjects = 4
	maxDepth       = 16
)

// Build creates the index for the given objects restricted to bounds
func Build(objects []Object, bounds geo.Box) *Tree {
	o := &Tree{Objects: objects, Bounds: bounds}
	if len(objects) == 0 {
		return o
	}
	all := make([]int, 0, len(objects))
	for i, obj := range objects {
		if obj.Shape.Bounds().Intersects(bounds) {
			all = append(all, i)
		}
	}
	o.split(bounds, all, 0)
	return o
}

// split appends a node covering box with the given member objects, splitting
// recursively while the membership is large, and returns its arena index
func (o *Tree) split(box geo.Box, members []int, depth int) int {
	idx := len(o.nodes)
	n := node{box: box, kid: [2]int{-1, -1}}
	o.nodes = append(o.nodes, n)

	if len(members) <= maxLeafObjects || depth >= maxDepth {
		o.setLeaf(idx, members)
		return idx
	}

	// bisect along the longest axis
	size := box.Size()
	axis := 0
	if size.Y > size.Comp(axis) {
		axis = 1
	}
	if size.Z > size.Comp(axis) {
		axis = 2
	}
	mid := 0.5 * (box.Lo.Comp(axis) + box.Hi.Comp(axis))
	lo, hi := box, box
	lo.Hi.SetComp(axis, mid)
	hi.Lo.SetComp(axis, mid)

	var left, right []int
	for _, m := range members {
		b := o.Objects[m].Shape.Bounds()
		if b.Intersects(lo) {
			left = append(left, m)
		}
		if b.Intersects(hi) {
			right = append(right, m)
		}
	}
	// a split that separates nothing just burns arena entries
	if len(left) == len(members) && len(right) == len(members) {
		o.setLeaf(idx, members)
		return idx
	}
	k0 := o.split(lo, left, depth+1)
	k1 := o.split(hi, right, depth+1)
	o.nodes[idx].kid = [2]int{k0, k1}
	return idx
}

func (o *Tree) setLeaf(idx int, members []int) {
	ms := append([]int(nil), members...)
	sort.Sort(sort.Reverse(sort.IntSlice(ms)))
	o.nodes[idx].objs = ms
}

// Iter holds the traversal state of a stacked-object enumeration: the arena
// index of the leaf containing the query point and the position within its
// member list
type Iter struct {
	node int
	pos  int
}

// leafAt descends to the leaf whose box contains p; -1 if p is outside
func (o *Tree) leafAt(p geo.Vec) int {
	if len(o.nodes) == 0 || !o.nodes[0].box.Contains(p) {
		return -1
	}
	cur := 0
	for o.nodes[cur].kid[0] >= 0 {
		k0, k1 := o.nodes[cur].kid[0], o.nodes[cur].kid[1]
		if o.nodes[k0].box.Contains(p) {
			cur = k0
		} else if o.nodes[k1].box.Contains(p) {
			cur = k1
		} else {
			return -1
		}
	}
	return cur
}

// Locate returns the frontmost object containing p (highest ID) along with
// an iterator positioned at it, or nil when no object covers the point
func (o *Tree) Locate(p geo.Vec) (*Object, Iter) {
	it := Iter{node: o.leafAt(p), pos: -1}
	return o.Next(p, &it), it
}

// Next advances the iterator to the next object containing p, in descending
// ID order, enumerating every shape stacked at the point. Returns nil when
// the stack is exhausted.
func (o *Tree) Next(p geo.Vec, it *Iter) *Object {
	if it.node < 0 {
		return nil
	}
	objs := o.nodes[it.node].objs
	for i := it.pos + 1; i < len(objs); i++ {
		obj := &o.Objects[objs[i]]
		if obj.Shape.Contains(p) {
			it.pos = i
			return obj
		}
	}
	it.pos = len(objs)
	return nil
}

// Stats returns the tree depth and the total number of node-object slots
func (o *Tree) Stats() (depth, slots int) {
	var walk func(idx, d int)
	walk = func(idx, d int) {
		if d > depth {
			depth = d
		}
		slots += len(o.nodes[idx].objs)
		if o.nodes[idx].kid[0] >= 0 {
			walk(o.nodes[idx].kid[0], d+1)
			walk(o.nodes[idx].kid[1], d+1)
		}
	}
	if len(o.nodes) > 0 {
		walk(0, 1)
	}
	return
}
