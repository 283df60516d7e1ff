// Copyright (c) 2020, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package readout

import (
	"math"
	"math/rand"
	"testing"
)

// difTol is the numerical difference tolerance for comparing vs. target values
const difTol = 1.0e-6

func TestLSTrainerExact(t *testing.T) {
	// exact recovery of y = 1 + 2a - 3b from noiseless samples
	rnd := rand.New(rand.NewSource(11))
	n := 20
	in := make([][]float64, n)
	targ := make([]float64, n)
	for i := 0; i < n; i++ {
		a := 2*rnd.Float64() - 1
		b := 2*rnd.Float64() - 1
		in[i] = []float64{a, b}
		targ[i] = 1 + 2*a - 3*b
	}
	mdl, err := NewLSTrainer().Train(in, targ)
	if err != nil {
		t.Fatal(err)
	}
	for i := range in {
		out := mdl.Predict(in[i])
		if dif := math.Abs(out - targ[i]); dif > difTol {
			t.Errorf("sample %v: out: %v, cor: %v, dif: %v", i, out, targ[i], dif)
		}
	}
	lm := mdl.(*LinModel)
	cors := []float64{1, 2, -3}
	for i := range cors {
		if dif := math.Abs(lm.Coefs[i] - cors[i]); dif > difTol {
			t.Errorf("coef %v: %v, cor: %v", i, lm.Coefs[i], cors[i])
		}
	}
}

func TestLSTrainerErrors(t *testing.T) {
	ls := NewLSTrainer()
	if _, err := ls.Train(nil, nil); err == nil {
		t.Errorf("expected error: no samples")
	}
	if _, err := ls.Train([][]float64{{1, 2}}, []float64{1, 2}); err == nil {
		t.Errorf("expected error: row/target count mismatch")
	}
	if _, err := ls.Train([][]float64{{1, 2}, {1}}, []float64{1, 2}); err == nil {
		t.Errorf("expected error: ragged predictor rows")
	}
}

func TestLSTrainerCollinear(t *testing.T) {
	// duplicated predictor columns would make plain normal equations
	// singular -- the ridge term must keep them solvable
	in := [][]float64{{1, 1}, {2, 2}, {3, 3}, {4, 4}}
	targ := []float64{2, 4, 6, 8}
	ls := NewLSTrainer()
	ls.Ridge = 1e-6
	mdl, err := ls.Train(in, targ)
	if err != nil {
		t.Fatal(err)
	}
	for i := range in {
		if dif := math.Abs(mdl.Predict(in[i]) - targ[i]); dif > 1e-3 {
			t.Errorf("sample %v: out: %v, cor: %v", i, mdl.Predict(in[i]), targ[i])
		}
	}
}
