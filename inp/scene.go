// Copyright 2016 The Geomat Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package inp implements the input data read from a (.geo) JSON scene file
package inp

import (
	"encoding/json"
	"path/filepath"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/fun/dbf"
	"github.com/cpmech/gosl/io"

	"github.com/dpfield/geomat/geo"
	"github.com/dpfield/geomat/mat"
	"github.com/dpfield/geomat/tree"
)

// Data holds global scene data
type Data struct {
	Desc      string    `json:"desc"`      // description of scene
	Dim       string    `json:"dim"`       // dimensionality: "1d", "2d", "3d" or "cyl"
	Lo        []float64 `json:"lo"`        // lower corner of the computational cell
	Hi        []float64 `json:"hi"`        // upper corner of the computational cell
	Default   string    `json:"default"`   // name of the default (background) material
	Hermitian bool      `json:"hermitian"` // allow complex off-diagonal entries
	UP        float64   `json:"up"`        // bias added to densities before projection
	Tol       float64   `json:"tol"`       // averaging quadrature tolerance; 0 => default
	MaxEval   int       `json:"maxeval"`   // averaging quadrature budget; 0 => default
}

// SusData holds one dispersive term definition
type SusData struct {
	Type  string     `json:"type"`  // "lorentzian", "drude", "gyrotropic"
	Field string     `json:"field"` // "E" or "H"
	Prms  dbf.Params `json:"prms"`  // term parameters
}

// MatData holds one material definition
type MatData struct {

	// input
	Name string     `json:"name"` // name of material
	Type string     `json:"type"` // "medium", "pec", "grid" or "file"
	Prms dbf.Params `json:"prms"` // tensor entries and coefficients
	Sus  []*SusData `json:"sus"`  // dispersive terms

	// density grid
	M1      string `json:"m1"`      // name of u=0 endpoint material
	M2      string `json:"m2"`      // name of u=1 endpoint material
	N       []int  `json:"n"`       // grid dimensions
	Kind    string `json:"kind"`    // aggregation: "", "mean", "min", "prod"
	DoAvg   bool   `json:"doavg"`   // enable subpixel averaging of this grid
	Weights string `json:"weights"` // path of binary weights file

	// file-sampled
	Samples string `json:"samples"` // path of binary permittivity samples file
}

// ObjData holds one geometric object definition
type ObjData struct {
	Shape  string    `json:"shape"`  // "sphere", "block" or "cylinder"
	Mat    string    `json:"mat"`    // material name
	Center []float64 `json:"center"` // center point
	Radius float64   `json:"radius"` // sphere/cylinder radius
	Size   []float64 `json:"size"`   // block edge lengths
	Height float64   `json:"height"` // cylinder height
	Axis   []float64 `json:"axis"`   // cylinder axis; z if absent
}

// Scene holds all scene data read from a .geo file
type Scene struct {

	// input
	Data      Data       `json:"data"`
	Materials []*MatData `json:"materials"`
	Objects   []*ObjData `json:"objects"`

	// derived
	Dir     string                   // directory of the scene file
	Ndim    geo.Ndim                 // parsed dimensionality
	Bounds  geo.Box                  // computational cell
	MatsMap map[string]mat.Material  // materials by name
	Objs    []tree.Object            // realized objects
	Ctx     *mat.Context             // evaluation context
}

// ReadScene reads all scene data from a .geo JSON file
func ReadScene(path string) *Scene {

	// read and decode
	b, err := io.ReadFile(path)
	if err != nil {
		chk.Panic("ReadScene: cannot read scene file %q", path)
	}
	var o Scene
	if err := json.Unmarshal(b, &o); err != nil {
		chk.Panic("ReadScene: cannot unmarshal scene file %q\n%v", path, err)
	}
	o.Dir = filepath.Dir(path)

	// dimensionality and cell
	switch o.Data.Dim {
	case "1d":
		o.Ndim = geo.D1
	case "2d":
		o.Ndim = geo.D2
	case "cyl":
		o.Ndim = geo.Cyl
	case "3d", "":
		o.Ndim = geo.D3
	default:
		chk.Panic("ReadScene: dim %q is incorrect; options are \"1d\", \"2d\", \"3d\" and \"cyl\"", o.Data.Dim)
	}
	o.Bounds = geo.Box{Lo: vec3(o.Data.Lo), Hi: vec3(o.Data.Hi)}

	// materials; two passes so grids can reference media defined after them
	o.MatsMap = make(map[string]mat.Material)
	for _, d := range o.Materials {
		if d.Type != "grid" {
			o.MatsMap[d.Name] = o.buildMaterial(d)
		}
	}
	for _, d := range o.Materials {
		if d.Type == "grid" {
			o.MatsMap[d.Name] = o.buildGrid(d)
		}
	}

	// objects
	for i, d := range o.Objects {
		m, ok := o.MatsMap[d.Mat]
		if !ok {
			chk.Panic("ReadScene: object %d references unknown material %q", i, d.Mat)
		}
		o.Objs = append(o.Objs, tree.Object{Shape: o.buildShape(d), Mat: m, ID: i})
	}

	// context
	o.Ctx = mat.NewContext()
	o.Ctx.Hermitian = o.Data.Hermitian
	o.Ctx.UP = o.Data.UP
	if o.Data.Default != "" {
		def, ok := o.MatsMap[o.Data.Default]
		if !ok {
			chk.Panic("ReadScene: unknown default material %q", o.Data.Default)
		}
		o.Ctx.Default = def
	}
	return &o
}

// buildMaterial realizes one non-grid material definition
func (o *Scene) buildMaterial(d *MatData) mat.Material {
	switch d.Type {
	case "pec":
		return &mat.PerfectConductor{}
	case "file":
		data, n := ReadField(filepath.Join(o.Dir, d.Samples))
		return &mat.FileSampled{Data: data, N: n}
	case "medium", "":
		med := o.buildMedium(d)
		return &mat.Uniform{Medium: med}
	}
	chk.Panic("ReadScene: material type %q is incorrect; options are \"medium\", \"pec\", \"grid\" and \"file\"", d.Type)
	return nil
}

// buildMedium assembles a constant medium from named parameters
func (o *Scene) buildMedium(d *MatData) mat.Medium {
	med := mat.Vacuum()
	for _, p := range d.Prms {
		switch p.N {
		case "eps":
			med.EpsDiag = geo.Vec{X: p.V, Y: p.V, Z: p.V}
		case "epsx":
			med.EpsDiag.X = p.V
		case "epsy":
			med.EpsDiag.Y = p.V
		case "epsz":
			med.EpsDiag.Z = p.V
		case "epsxy":
			med.EpsOffdiag.X = complex(p.V, 0)
		case "epsxz":
			med.EpsOffdiag.Y = complex(p.V, 0)
		case "epsyz":
			med.EpsOffdiag.Z = complex(p.V, 0)
		case "mu":
			med.MuDiag = geo.Vec{X: p.V, Y: p.V, Z: p.V}
		case "mux":
			med.MuDiag.X = p.V
		case "muy":
			med.MuDiag.Y = p.V
		case "muz":
			med.MuDiag.Z = p.V
		case "muxy":
			med.MuOffdiag.X = complex(p.V, 0)
		case "muxz":
			med.MuOffdiag.Y = complex(p.V, 0)
		case "muyz":
			med.MuOffdiag.Z = complex(p.V, 0)
		case "echi2":
			med.EChi2Diag = geo.Vec{X: p.V, Y: p.V, Z: p.V}
		case "echi3":
			med.EChi3Diag = geo.Vec{X: p.V, Y: p.V, Z: p.V}
		case "hchi2":
			med.HChi2Diag = geo.Vec{X: p.V, Y: p.V, Z: p.V}
		case "hchi3":
			med.HChi3Diag = geo.Vec{X: p.V, Y: p.V, Z: p.V}
		case "dcond":
			med.DCondDiag = geo.Vec{X: p.V, Y: p.V, Z: p.V}
		case "dcondx":
			med.DCondDiag.X = p.V
		case "dcondy":
			med.DCondDiag.Y = p.V
		case "dcondz":
			med.DCondDiag.Z = p.V
		case "bcond":
			med.BCondDiag = geo.Vec{X: p.V, Y: p.V, Z: p.V}
		default:
			chk.Panic("ReadScene: material %q: parameter %q is unknown", d.Name, p.N)
		}
	}
	for _, s := range d.Sus {
		sus := buildSus(d.Name, s)
		if s.Field == "H" {
			med.HSus = append(med.HSus, sus)
		} else {
			med.ESus = append(med.ESus, sus)
		}
	}
	return med
}

// buildSus assembles one dispersive term
func buildSus(matname string, d *SusData) mat.Susceptibility {
	s := mat.Susceptibility{
		Drude:        d.Type == "drude",
		SaturatedGyr: d.Type == "gyrotropic",
	}
	for _, p := range d.Prms {
		switch p.N {
		case "sigma":
			s.SigmaDiag = geo.Vec{X: p.V, Y: p.V, Z: p.V}
		case "sigmax":
			s.SigmaDiag.X = p.V
		case "sigmay":
			s.SigmaDiag.Y = p.V
		case "sigmaz":
			s.SigmaDiag.Z = p.V
		case "sigmaxy":
			s.SigmaOffdiag.X = p.V
		case "sigmaxz":
			s.SigmaOffdiag.Y = p.V
		case "sigmayz":
			s.SigmaOffdiag.Z = p.V
		case "freq":
			s.Frequency = p.V
		case "gamma":
			s.Gamma = p.V
		case "alpha":
			s.Alpha = p.V
		case "noise":
			s.NoiseAmp = p.V
		case "biasx":
			s.Bias.X = p.V
		case "biasy":
			s.Bias.Y = p.V
		case "biasz":
			s.Bias.Z = p.V
		default:
			chk.Panic("ReadScene: material %q: susceptibility parameter %q is unknown", matname, p.N)
		}
	}
	return s
}

// buildGrid realizes one density grid definition
func (o *Scene) buildGrid(d *MatData) *mat.DensityGrid {
	if len(d.N) != 3 {
		chk.Panic("ReadScene: grid %q must give three dimensions, got %v", d.Name, d.N)
	}
	g := &mat.DensityGrid{
		N:           [3]int{d.N[0], d.N[1], d.N[2]},
		M1:          mat.Vacuum(),
		M2:          mat.Vacuum(),
		Beta:        0,
		Eta:         0.5,
		DoAveraging: d.DoAvg,
	}
	for _, p := range d.Prms {
		switch p.N {
		case "beta":
			g.Beta = p.V
		case "eta":
			g.Eta = p.V
		case "damping":
			g.Damping = p.V
		default:
			chk.Panic("ReadScene: grid %q: parameter %q is unknown", d.Name, p.N)
		}
	}
	switch d.Kind {
	case "mean":
		g.Kind = mat.AggMean
	case "min":
		g.Kind = mat.AggMin
	case "prod":
		g.Kind = mat.AggProd
	case "":
		g.Kind = mat.AggDefault
	default:
		chk.Panic("ReadScene: grid %q: kind %q is incorrect; options are \"mean\", \"min\" and \"prod\"", d.Name, d.Kind)
	}
	endpoint := func(name string) mat.Medium {
		if name == "" {
			return mat.Vacuum()
		}
		m, ok := o.MatsMap[name]
		if !ok {
			chk.Panic("ReadScene: grid %q references unknown material %q", d.Name, name)
		}
		u, ok := m.(*mat.Uniform)
		if !ok {
			chk.Panic("ReadScene: grid %q: endpoint %q must be a constant medium", d.Name, name)
		}
		return u.Medium
	}
	g.M1 = endpoint(d.M1)
	g.M2 = endpoint(d.M2)
	if d.Weights != "" {
		w, n := ReadField(filepath.Join(o.Dir, d.Weights))
		if n != g.N {
			chk.Panic("ReadScene: grid %q: weights file dimensions %v do not match n=%v", d.Name, n, g.N)
		}
		g.Weights = w
	} else {
		g.Weights = make([]float64, g.N[0]*g.N[1]*g.N[2])
	}
	return g
}

// buildShape realizes one object definition
func (o *Scene) buildShape(d *ObjData) geo.Shape {
	c := vec3(d.Center)
	switch d.Shape {
	case "sphere":
		return &geo.Sphere{Center: c, Radius: d.Radius}
	case "block":
		return geo.NewBlock(c, vec3(d.Size))
	case "cylinder":
		axis := geo.Vec{Z: 1}
		if len(d.Axis) == 3 {
			axis = vec3(d.Axis).Unit()
		}
		return &geo.Cylinder{Center: c, Radius: d.Radius, Height: d.Height, Axis: axis}
	}
	chk.Panic("ReadScene: shape %q is incorrect; options are \"sphere\", \"block\" and \"cylinder\"", d.Shape)
	return nil
}

func vec3(v []float64) geo.Vec {
	var r geo.Vec
	for i := 0; i < len(v) && i < 3; i++ {
		r.SetComp(i, v[i])
	}
	return r
}
