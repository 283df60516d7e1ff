// Copyright (c) 2020, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package readout

import (
	"math"
	"math/rand"
	"testing"

	"github.com/emer/etable/etensor"
)

// constModel always predicts the same value, for ensemble arithmetic tests.
type constModel float64

func (cm constModel) Predict(preds []float64) float64 { return float64(cm) }

func TestNewLayerErrors(t *testing.T) {
	if _, err := NewLayer(nil, Config{}); err == nil {
		t.Errorf("expected error: no fields")
	}
	if _, err := NewLayer([]Field{{"A", Regression}, {"A", Regression}}, Config{}); err == nil {
		t.Errorf("expected error: duplicate field name")
	}
	if _, err := NewLayer([]Field{{"A", Hybrid}}, Config{}); err == nil {
		t.Errorf("expected error: Hybrid is not a per-field task")
	}
}

func TestLayerTask(t *testing.T) {
	ly, err := NewLayer([]Field{{"A", Regression}, {"B", Classification}}, Config{})
	if err != nil {
		t.Fatal(err)
	}
	if ly.Task() != Hybrid {
		t.Errorf("task: %v, cor: Hybrid", ly.Task())
	}
	ly, _ = NewLayer([]Field{{"A", Regression}, {"B", Regression}}, Config{})
	if ly.Task() != Regression {
		t.Errorf("task: %v, cor: Regression", ly.Task())
	}
}

func TestConfigFolds(t *testing.T) {
	cf := Config{}
	cf.Defaults()
	// 30 samples at 1/3 test ratio: 10 test samples, 3 folds
	k, err := cf.NumFolds(30)
	if err != nil {
		t.Fatal(err)
	}
	if k != 3 {
		t.Errorf("folds: %v, cor: 3", k)
	}
	cf.TestRatio = 0.5
	if _, err := cf.NumFolds(30); err == nil {
		t.Errorf("expected error: test ratio above 1/3")
	}
	cf.Defaults()
	if _, err := cf.NumFolds(4); err == nil {
		t.Errorf("expected error: fewer than 2 test samples")
	}
	cf.Folds = 20
	if _, err := cf.NumFolds(30); err == nil {
		t.Errorf("expected error: explicit fold count above n/2")
	}
	cf.Folds = 5
	if k, err = cf.NumFolds(30); err != nil || k != 5 {
		t.Errorf("folds: %v (err: %v), cor: 5", k, err)
	}
}

func TestFoldCoverage(t *testing.T) {
	rnd := rand.New(rand.NewSource(5))
	n, k := 23, 4
	order := rnd.Perm(n)
	folds := regFolds(order, k)
	seen := make([]int, n)
	for f := range folds {
		sz := len(folds[f])
		if sz < n/k || sz > n/k+1 {
			t.Errorf("fold %v size: %v, cor: %v or %v", f, sz, n/k, n/k+1)
		}
		for _, ri := range folds[f] {
			seen[ri]++
		}
	}
	for ri, c := range seen {
		if c != 1 {
			t.Errorf("sample %v in %v folds, cor: exactly 1", ri, c)
		}
	}
}

func TestClassFoldsStratified(t *testing.T) {
	// 9 positives and 12 negatives over 3 folds: 3 positives and
	// 4 negatives per fold
	n, k := 21, 3
	targ := make([]float64, n)
	for i := 0; i < 9; i++ {
		targ[i] = 1
	}
	order := rand.New(rand.NewSource(2)).Perm(n)
	folds, err := classFolds(order, targ, 0.5, k)
	if err != nil {
		t.Fatal(err)
	}
	for f := range folds {
		pos := 0
		for _, ri := range folds[f] {
			if targ[ri] >= 0.5 {
				pos++
			}
		}
		if pos != 3 || len(folds[f]) != 7 {
			t.Errorf("fold %v: %v positives of %v, cor: 3 of 7", f, pos, len(folds[f]))
		}
	}
	// indivisible class counts: 10 positives and 13 negatives over 3
	// folds -- each fold gets floor(count/k) or floor(count/k)+1 of each
	// class via the remainder round-robin, covering every sample once
	n = 23
	targ = make([]float64, n)
	for i := 0; i < 10; i++ {
		targ[i] = 1
	}
	order = rand.New(rand.NewSource(4)).Perm(n)
	folds, err = classFolds(order, targ, 0.5, k)
	if err != nil {
		t.Fatal(err)
	}
	seen := make([]int, n)
	for f := range folds {
		pos, neg := 0, 0
		for _, ri := range folds[f] {
			seen[ri]++
			if targ[ri] >= 0.5 {
				pos++
			} else {
				neg++
			}
		}
		if pos < 3 || pos > 4 {
			t.Errorf("fold %v: %v positives, cor: 3 or 4", f, pos)
		}
		if neg < 4 || neg > 5 {
			t.Errorf("fold %v: %v negatives, cor: 4 or 5", f, neg)
		}
	}
	for ri, c := range seen {
		if c != 1 {
			t.Errorf("sample %v in %v folds, cor: exactly 1", ri, c)
		}
	}
	// a class smaller than the fold count cannot be stratified
	targ = make([]float64, n)
	targ[0] = 1
	if _, err := classFolds(order, targ, 0.5, k); err == nil {
		t.Errorf("expected error: class smaller than fold count")
	}
}

func TestEnsembleWeights(t *testing.T) {
	cl := &Cluster{Units: []*Unit{
		{Model: constModel(1), TrainN: 2, TestN: 1},
		{Model: constModel(4), TrainN: 1, TestN: 0},
	}}
	// weighted mean: (3*1 + 1*4) / 4
	if out := cl.Compute(nil); math.Abs(out-1.75) > difTol {
		t.Errorf("ensemble: %v, cor: 1.75", out)
	}
}

func TestBuildRegression(t *testing.T) {
	rnd := rand.New(rand.NewSource(9))
	n, np := 24, 2
	preds := etensor.NewFloat64([]int{n, np}, nil, nil)
	ideals := etensor.NewFloat64([]int{n, 1}, nil, nil)
	for ri := 0; ri < n; ri++ {
		a := 2*rnd.Float64() - 1
		b := 2*rnd.Float64() - 1
		preds.SetFloat1D(ri*np, a)
		preds.SetFloat1D(ri*np+1, b)
		ideals.SetFloat1D(ri, 0.5+a-2*b)
	}
	cfg := Config{}
	cfg.Defaults()
	cfg.Folds = 3
	ly, err := NewLayer([]Field{{"Y", Regression}}, cfg)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := ly.Compute([]float64{0, 0}); err == nil {
		t.Fatalf("expected error: Compute before Build")
	}
	if err := ly.Build(preds, ideals, NewLSTrainer(), rnd); err != nil {
		t.Fatal(err)
	}
	if ly.Results.Rows != 3 {
		t.Errorf("results rows: %v, cor: 3", ly.Results.Rows)
	}
	// noiseless linear data: every unit and the ensemble recover it
	trainErr, testErr := ly.ErrSummary()
	if trainErr > difTol || testErr > difTol {
		t.Errorf("errors not near zero on noiseless data: train: %v, test: %v", trainErr, testErr)
	}
	out, err := ly.Compute([]float64{0.25, -0.5})
	if err != nil {
		t.Fatal(err)
	}
	cor := 0.5 + 0.25 - 2*(-0.5)
	if math.Abs(out[0]-cor) > difTol {
		t.Errorf("compute: %v, cor: %v", out[0], cor)
	}
	if ly.Clusters[0].FullErr > difTol {
		t.Errorf("full ensemble error: %v, cor: ~0", ly.Clusters[0].FullErr)
	}
	// predictor vectors must match the trained width
	if _, err := ly.Compute([]float64{0.25}); err == nil {
		t.Errorf("expected error: too few predictor values")
	}
	if _, err := ly.Compute([]float64{0.25, -0.5, 1}); err == nil {
		t.Errorf("expected error: too many predictor values")
	}
}

func TestBuildClassification(t *testing.T) {
	// two well-separated clumps on one predictor
	rnd := rand.New(rand.NewSource(3))
	n := 24
	preds := etensor.NewFloat64([]int{n, 1}, nil, nil)
	ideals := etensor.NewFloat64([]int{n, 1}, nil, nil)
	for ri := 0; ri < n; ri++ {
		if ri < n/2 {
			preds.SetFloat1D(ri, -1+0.02*float64(ri))
			ideals.SetFloat1D(ri, 0)
		} else {
			preds.SetFloat1D(ri, 1-0.02*float64(ri-n/2))
			ideals.SetFloat1D(ri, 1)
		}
	}
	cfg := Config{}
	cfg.Defaults()
	cfg.Folds = 3
	ly, err := NewLayer([]Field{{"Cls", Classification}}, cfg)
	if err != nil {
		t.Fatal(err)
	}
	if err := ly.Build(preds, ideals, NewLSTrainer(), rnd); err != nil {
		t.Fatal(err)
	}
	bs := ly.Clusters[0].BinStats
	if bs.N != n {
		t.Errorf("bin stats N: %v, cor: %v", bs.N, n)
	}
	if bs.ErrRate != 0 {
		t.Errorf("error rate: %v (FPos: %v, FNeg: %v), cor: 0 on separable data", bs.ErrRate, bs.FPos, bs.FNeg)
	}
	out, err := ly.Compute([]float64{0.9})
	if err != nil {
		t.Fatal(err)
	}
	dec := ly.Decide(out)
	if dec[0] != 1 {
		t.Errorf("decision for clear positive: %v, cor: 1", dec[0])
	}
	dec = ly.Decide([]float64{0.1})
	if dec[0] != 0 {
		t.Errorf("decision for clear negative: %v, cor: 0", dec[0])
	}
}

func TestBuildErrors(t *testing.T) {
	rnd := rand.New(rand.NewSource(1))
	ly, err := NewLayer([]Field{{"Y", Regression}}, Config{Folds: 3, TestRatio: 1.0 / 3.0, BinThreshold: 0.5})
	if err != nil {
		t.Fatal(err)
	}
	preds := etensor.NewFloat64([]int{10, 2}, nil, nil)
	ideals := etensor.NewFloat64([]int{8, 1}, nil, nil)
	if err := ly.Build(preds, ideals, NewLSTrainer(), rnd); err == nil {
		t.Errorf("expected error: row count mismatch")
	}
	ideals = etensor.NewFloat64([]int{10, 2}, nil, nil)
	if err := ly.Build(preds, ideals, NewLSTrainer(), rnd); err == nil {
		t.Errorf("expected error: ideal columns vs fields mismatch")
	}
}
