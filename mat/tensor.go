// Copyright 2016 The Geomat Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package mat implements the electromagnetic material data model: symmetric
// 3×3 tensors, media with dispersive susceptibilities, the closed set of
// material variants, and density-grid interpolation and projection
package mat

import (
	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/la"
)

// SymTensor is a real-symmetric 3×3 tensor stored as its 6 independent values
type SymTensor struct {
	M00, M11, M22 float64 // diagonal
	M01, M02, M12 float64 // off-diagonal
}

// Trace returns m00 + m11 + m22
func (o SymTensor) Trace() float64 { return o.M00 + o.M11 + o.M22 }

// Row returns row i (0,1,2) of the tensor
func (o SymTensor) Row(i int) [3]float64 {
	switch i {
	case 0:
		return [3]float64{o.M00, o.M01, o.M02}
	case 1:
		return [3]float64{o.M01, o.M11, o.M12}
	}
	return [3]float64{o.M02, o.M12, o.M22}
}

// Det returns the determinant
func (o SymTensor) Det() float64 {
	return o.M00*o.M11*o.M22 - o.M02*o.M11*o.M02 + 2.0*o.M01*o.M12*o.M02 -
		o.M01*o.M01*o.M22 - o.M12*o.M12*o.M00
}

// Inv returns the inverse tensor. A singular tensor has no well-defined
// physical answer and aborts.
func (o SymTensor) Inv() (inv SymTensor) {
	if o.M01 == 0 && o.M02 == 0 && o.M12 == 0 {
		inv.M00 = 1.0 / o.M00
		inv.M11 = 1.0 / o.M11
		inv.M22 = 1.0 / o.M22
		return
	}
	det := o.Det()
	if det == 0 {
		chk.Panic("cannot invert singular 3x3 tensor %+v", o)
	}
	d := 1.0 / det
	inv.M00 = d * (o.M11*o.M22 - o.M12*o.M12)
	inv.M11 = d * (o.M00*o.M22 - o.M02*o.M02)
	inv.M22 = d * (o.M11*o.M00 - o.M01*o.M01)
	inv.M02 = d * (o.M01*o.M12 - o.M11*o.M02)
	inv.M01 = d * (o.M12*o.M02 - o.M01*o.M22)
	inv.M12 = d * (o.M01*o.M02 - o.M00*o.M12)
	return
}

// PosDef tells whether the tensor is positive-definite (all leading minors
// positive)
func (o SymTensor) PosDef() bool {
	det2 := o.M00*o.M11 - o.M01*o.M01
	det3 := det2*o.M22 - o.M02*o.M11*o.M02 + 2.0*o.M01*o.M12*o.M02 - o.M12*o.M12*o.M00
	return o.M00 > 0 && det2 > 0 && det3 > 0
}

// Dense writes the tensor into a 3×3 matrix
func (o SymTensor) Dense(a [][]float64) {
	a[0][0], a[1][1], a[2][2] = o.M00, o.M11, o.M22
	a[0][1], a[1][0] = o.M01, o.M01
	a[0][2], a[2][0] = o.M02, o.M02
	a[1][2], a[2][1] = o.M12, o.M12
}

// Rotate returns Rᵀ A R for the (orthonormal) rotation matrix R
func (o SymTensor) Rotate(R [][]float64) (res SymTensor) {
	A := la.MatAlloc(3, 3)
	RAR := la.MatAlloc(3, 3)
	o.Dense(A)
	la.MatTrMul3(RAR, 1, R, A, R) // RAR := Rᵀ A R
	res.M00, res.M11, res.M22 = RAR[0][0], RAR[1][1], RAR[2][2]
	res.M01, res.M02, res.M12 = RAR[0][1], RAR[0][2], RAR[1][2]
	return
}
