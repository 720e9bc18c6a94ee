// Copyright 2016 The Geomat Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package quad

import (
	"math"
	"testing"

	"github.com/cpmech/gosl/chk"
)

func Test_quad01(tst *testing.T) {

	//verbose()
	chk.PrintTitle("quad01. one-dimensional integrals")

	val, _ := Integrate(func(x []float64) float64 { return x[0] * x[0] },
		[]float64{0}, []float64{1}, 1e-12, 1e-12, 10000)
	chk.Scalar(tst, "∫x²", 1e-12, val, 1.0/3.0)

	val, _ = Integrate(func(x []float64) float64 { return math.Exp(x[0]) },
		[]float64{0}, []float64{1}, 1e-12, 1e-12, 10000)
	chk.Scalar(tst, "∫eˣ", 1e-10, val, math.E-1)

	val, _ = Integrate(func(x []float64) float64 { return math.Sin(x[0]) },
		[]float64{0}, []float64{math.Pi}, 1e-12, 1e-12, 100000)
	chk.Scalar(tst, "∫sin", 1e-10, val, 2)
}

func Test_quad02(tst *testing.T) {

	//verbose()
	chk.PrintTitle("quad02. multi-dimensional integrals")

	val, _ := Integrate(func(x []float64) float64 { return x[0] * x[1] },
		[]float64{0, 0}, []float64{1, 1}, 1e-12, 1e-12, 100000)
	chk.Scalar(tst, "∫∫xy", 1e-12, val, 0.25)

	val, _ = Integrate(func(x []float64) float64 { return 1 },
		[]float64{-1, -1, -1}, []float64{1, 1, 1}, 1e-12, 1e-12, 100000)
	chk.Scalar(tst, "volume", 1e-13, val, 8)

	val, _ = Integrate(func(x []float64) float64 { return x[0]*x[0] + x[1] + math.Cos(x[2]) },
		[]float64{0, 0, 0}, []float64{1, 1, 1}, 1e-10, 1e-10, 1000000)
	chk.Scalar(tst, "mixed", 1e-8, val, 1.0/3.0+0.5+math.Sin(1))
}

func Test_quad03(tst *testing.T) {

	//verbose()
	chk.PrintTitle("quad03. error estimate and budget")

	// a sharp peak forces subdivision; the estimate must bound the error
	f := func(x []float64) float64 { return 1 / (1e-3 + x[0]*x[0]) }
	ana := 2 / math.Sqrt(1e-3) * math.Atan(1/math.Sqrt(1e-3))
	val, errEst := Integrate(f, []float64{-1}, []float64{1}, 1e-9, 1e-9, 1000000)
	if e := math.Abs(val - ana); e > 1e-6+10*errEst {
		tst.Errorf("peak integral error %g exceeds estimate %g\n", e, errEst)
	}
}
