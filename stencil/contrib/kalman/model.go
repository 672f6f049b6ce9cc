// Copyright 2025 go-stencil Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package kalman estimates a ballistic trajectory with drag from noisy
// position measurements.
//
// The state is s = (x, y, z, vx, vy, vz). Between steps
//
//	s[k+1] = A s[k] + a
//
// where A integrates velocity over dt and damps it by the drag c, and a adds
// gravity to vz. Measurements observe C s, one scaled position per axis.
//
// Blind propagates the model alone. Filter and Track fuse the model with
// measurements in information form:
//
//	s~      = A s[k] + a
//	Sigma~  = (A Sigma[k] A^T + B B^T)^-1
//	Sigma'  = (Sigma~ + C^T C)^-1
//	s[k+1]  = Sigma' (Sigma~ s~ + C^T m[k+1])
package kalman

import (
	"gonum.org/v1/gonum/mat"
)

// StateDim is the length of the state vector.
const StateDim = 6

// MeasDim is the length of a measurement.
const MeasDim = 3

// Model holds the dynamics and noise parameters.
type Model struct {
	Dt      float64 // time step
	Drag    float64 // velocity drag coefficient
	Gravity float64 // acceleration along z

	// B is the diagonal of the process noise factor.
	B [StateDim]float64

	// C is the diagonal of the measurement matrix, one gain per axis.
	C [MeasDim]float64
}

// DefaultModel returns dt=0.01, drag 0.1, gravity -9.81, velocity noise
// (0.25, 0.25, 0.1) and measurement gains (1, 5, 5).
func DefaultModel() Model {
	return Model{
		Dt:      0.01,
		Drag:    0.1,
		Gravity: -9.81,
		B:       [StateDim]float64{0, 0, 0, 0.25, 0.25, 0.1},
		C:       [MeasDim]float64{1.0, 5.0, 5.0},
	}
}

// DefaultInitialState is the launch state used with DefaultModel.
var DefaultInitialState = []float64{0, 0, 2, 15, 3.5, 4.0}

// DefaultSigma0 scales the identity initial covariance.
const DefaultSigma0 = 0.01

// Transition returns the 6x6 propagation matrix A.
func (m Model) Transition() *mat.Dense {
	a := mat.NewDense(StateDim, StateDim, nil)
	for i := range MeasDim {
		a.Set(i, i, 1)
		a.Set(i, i+MeasDim, m.Dt)
		a.Set(i+MeasDim, i+MeasDim, 1-m.Drag*m.Dt)
	}
	return a
}

// Drift returns the constant term a = (0, 0, 0, 0, 0, g*dt).
func (m Model) Drift() *mat.VecDense {
	a := mat.NewVecDense(StateDim, nil)
	a.SetVec(StateDim-1, m.Gravity*m.Dt)
	return a
}

// Noise returns the 6x6 diagonal matrix B.
func (m Model) Noise() *mat.DiagDense {
	return mat.NewDiagDense(StateDim, append([]float64(nil), m.B[:]...))
}

// Measurement returns the 3x6 matrix C.
func (m Model) Measurement() *mat.Dense {
	c := mat.NewDense(MeasDim, StateDim, nil)
	for i, g := range m.C {
		c.Set(i, i, g)
	}
	return c
}

// Blind propagates s0 through the model for steps columns, without any
// measurement. Column 0 is s0.
func Blind(m Model, s0 []float64, steps int) (*mat.Dense, error) {
	if len(s0) != StateDim {
		return nil, dimError("initial state", len(s0), StateDim)
	}
	if steps <= 0 {
		return nil, dimError("steps", steps, 1)
	}

	a, drift := m.Transition(), m.Drift()
	out := mat.NewDense(StateDim, steps, nil)
	s := mat.NewVecDense(StateDim, append([]float64(nil), s0...))
	out.SetCol(0, s.RawVector().Data)

	next := mat.NewVecDense(StateDim, nil)
	for k := 1; k < steps; k++ {
		next.MulVec(a, s)
		next.AddVec(next, drift)
		out.SetCol(k, next.RawVector().Data)
		s, next = next, s
	}
	return out, nil
}

// Observed converts raw measurements (3 x K) to positions by undoing the
// per-axis gains of C.
func Observed(m Model, meas mat.Matrix) (*mat.Dense, error) {
	r, c := meas.Dims()
	if r != MeasDim {
		return nil, dimError("measurement rows", r, MeasDim)
	}
	out := mat.NewDense(r, c, nil)
	out.Apply(func(i, j int, v float64) float64 {
		return v / m.C[i]
	}, meas)
	return out, nil
}
