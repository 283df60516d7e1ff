// Copyright (c) 2020, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package readout

import (
	"fmt"
	"math"
)

// Model is a trained readout unit: it maps one reservoir predictor vector
// to one output value.
type Model interface {
	// Predict returns the output value for the given predictor vector.
	Predict(preds []float64) float64
}

// Trainer builds a Model from training samples.  Implementations must not
// retain the input slices.
type Trainer interface {
	// Train fits a model to the given predictor rows and target values.
	Train(in [][]float64, targ []float64) (Model, error)
}

// LSTrainer fits a linear model by regularized least squares over the
// normal equations.  With the reservoir supplying a rich nonlinear
// expansion of the input, a linear readout is the standard choice.
type LSTrainer struct {
	Ridge float64 `def:"1e-9" min:"0" desc:"L2 regularization added to the normal-equation diagonal -- also keeps near-collinear predictors solvable"`
}

func NewLSTrainer() *LSTrainer {
	ls := &LSTrainer{}
	ls.Defaults()
	return ls
}

func (ls *LSTrainer) Defaults() {
	ls.Ridge = 1e-9
}

// Train solves (X'X + ridge*I) w = X'y for the weight vector w, with an
// intercept column prepended to X.
func (ls *LSTrainer) Train(in [][]float64, targ []float64) (Model, error) {
	n := len(in)
	if n == 0 || len(targ) != n {
		return nil, fmt.Errorf("readout.LSTrainer: %d predictor rows for %d targets", n, len(targ))
	}
	np := len(in[0]) + 1 // intercept
	a := make([][]float64, np)
	for i := range a {
		a[i] = make([]float64, np)
	}
	b := make([]float64, np)
	row := make([]float64, np)
	for ri := 0; ri < n; ri++ {
		if len(in[ri]) != np-1 {
			return nil, fmt.Errorf("readout.LSTrainer: ragged predictor row %d", ri)
		}
		row[0] = 1
		copy(row[1:], in[ri])
		for i := 0; i < np; i++ {
			for j := i; j < np; j++ {
				a[i][j] += row[i] * row[j]
			}
			b[i] += row[i] * targ[ri]
		}
	}
	for i := 0; i < np; i++ {
		a[i][i] += ls.Ridge
		for j := 0; j < i; j++ {
			a[i][j] = a[j][i]
		}
	}
	coefs, err := solve(a, b)
	if err != nil {
		return nil, err
	}
	return &LinModel{Coefs: coefs}, nil
}

// solve performs in-place Gauss-Jordan elimination with partial pivoting
// on the square system a*x = b.
func solve(a [][]float64, b []float64) ([]float64, error) {
	np := len(a)
	for col := 0; col < np; col++ {
		piv := col
		for ri := col + 1; ri < np; ri++ {
			if math.Abs(a[ri][col]) > math.Abs(a[piv][col]) {
				piv = ri
			}
		}
		if a[piv][col] == 0 {
			return nil, fmt.Errorf("readout: singular normal equations at column %d", col)
		}
		a[col], a[piv] = a[piv], a[col]
		b[col], b[piv] = b[piv], b[col]
		pv := a[col][col]
		for j := col; j < np; j++ {
			a[col][j] /= pv
		}
		b[col] /= pv
		for ri := 0; ri < np; ri++ {
			if ri == col || a[ri][col] == 0 {
				continue
			}
			f := a[ri][col]
			for j := col; j < np; j++ {
				a[ri][j] -= f * a[col][j]
			}
			b[ri] -= f * b[col]
		}
	}
	return b, nil
}

// LinModel is a linear readout model: intercept plus one coefficient per
// predictor.
type LinModel struct {
	Coefs []float64 `desc:"model coefficients -- Coefs[0] is the intercept"`
}

func (lm *LinModel) Predict(preds []float64) float64 {
	out := lm.Coefs[0]
	for i, p := range preds {
		out += lm.Coefs[i+1] * p
	}
	return out
}
