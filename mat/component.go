// Copyright 2016 The Geomat Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package mat

// FieldType distinguishes electric from magnetic quantities
type FieldType int

// field types
const (
	E FieldType = iota
	H
)

// Component identifies one staggered field component
type Component int

// field components
const (
	Ex Component = iota
	Ey
	Ez
	Hx
	Hy
	Hz
)

// Type returns the field type of the component
func (o Component) Type() FieldType {
	if o <= Ez {
		return E
	}
	return H
}

// Dir returns the direction index (0,1,2) of the component
func (o Component) Dir() int { return int(o) % 3 }

// String returns the component name
func (o Component) String() string {
	return [...]string{"Ex", "Ey", "Ez", "Hx", "Hy", "Hz"}[o]
}
