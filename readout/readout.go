// Copyright (c) 2020, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

/*
Package readout implements the trainable output layer of a reservoir
computer.  Each output field gets a cluster of units trained by k-fold
cross-validation over the reservoir predictor vectors: every unit is fit
on its training folds and scored on its held-out fold, and the cluster
prediction is the weighted ensemble of all unit predictions.

Fields are independent: regression fields predict a continuous value,
classification fields a binary decision against a configurable threshold.
A layer mixing both kinds reports the Hybrid task.
*/
package readout

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/emer/etable/etable"
	"github.com/emer/etable/etensor"
	"github.com/goki/ki/ints"
	"github.com/goki/ki/kit"
)

// Field is one output field of the readout layer.
type Field struct {
	Name string    `desc:"field name, must be unique within the layer"`
	Task TaskKinds `desc:"Regression or Classification"`
}

// Config are the readout layer cross-validation parameters.
type Config struct {
	Folds        int     `desc:"number of cross-validation folds -- 0 derives the fold count from TestRatio"`
	TestRatio    float64 `def:"0.3333" desc:"proportion of samples held out as the test fold -- at most 1/3"`
	BinThreshold float64 `def:"0.5" desc:"decision threshold for classification fields"`
}

func (cf *Config) Defaults() {
	cf.Folds = 0
	cf.TestRatio = 1.0 / 3.0
	cf.BinThreshold = 0.5
}

// NumFolds validates the configuration against the number of samples and
// returns the fold count to use.
func (cf *Config) NumFolds(n int) (int, error) {
	if cf.Folds > 0 {
		if cf.Folds < 2 || cf.Folds > n/2 {
			return 0, fmt.Errorf("readout.Config: %d folds outside [2, %d] for %d samples", cf.Folds, n/2, n)
		}
		return cf.Folds, nil
	}
	if cf.TestRatio <= 0 || cf.TestRatio > 1.0/3.0 {
		return 0, fmt.Errorf("readout.Config: test ratio %v outside (0, 1/3]", cf.TestRatio)
	}
	testN := int(cf.TestRatio * float64(n))
	if testN < 2 {
		return 0, fmt.Errorf("readout.Config: test ratio %v yields fewer than 2 test samples from %d", cf.TestRatio, n)
	}
	return ints.MinInt(n/testN, 100), nil
}

// Unit is one trained readout model with its cross-validation scores.
type Unit struct {
	Model    Model   `view:"-" json:"-" desc:"trained model"`
	Fold     int     `desc:"index of the held-out fold this unit was tested on"`
	TrainN   int     `desc:"number of training samples"`
	TestN    int     `desc:"number of held-out test samples"`
	TrainErr float64 `desc:"mean absolute error on the training folds"`
	TestErr  float64 `desc:"mean absolute error on the held-out fold"`
}

// Weight is the ensemble weight of this unit: the total number of samples
// it was trained and tested on.
func (un *Unit) Weight() float64 {
	return float64(un.TrainN + un.TestN)
}

// BinErrStats are binary decision statistics for a classification field,
// over the full dataset.
type BinErrStats struct {
	N       int     `desc:"number of samples"`
	FPos    int     `desc:"false positives"`
	FNeg    int     `desc:"false negatives"`
	ErrRate float64 `desc:"(FPos + FNeg) / N"`
}

// Cluster is the ensemble of cross-validated units for one output field.
type Cluster struct {
	Field    Field       `desc:"the output field this cluster predicts"`
	Units    []*Unit     `desc:"one unit per fold"`
	FullErr  float64     `desc:"mean absolute error of the ensemble over the full dataset"`
	BinStats BinErrStats `desc:"binary decision statistics -- classification fields only"`
}

// Compute returns the weighted ensemble prediction of all units.
func (cl *Cluster) Compute(preds []float64) float64 {
	var sum, wsum float64
	for _, un := range cl.Units {
		w := un.Weight()
		sum += w * un.Model.Predict(preds)
		wsum += w
	}
	return sum / wsum
}

// Layer is the full readout layer: one cluster per output field, built by
// Build and queried by Compute.
type Layer struct {
	Config   Config        `desc:"cross-validation parameters"`
	Fields   []Field       `desc:"output fields"`
	Clusters []*Cluster    `desc:"one cluster per field, nil until Build"`
	NPreds   int           `inactive:"+" desc:"number of predictor values per sample the layer was trained on"`
	Results  *etable.Table `view:"no-inline" desc:"per-unit cross-validation results, one row per field x fold"`
}

// NewLayer returns a layer for the given output fields.  Field names must
// be unique and tasks valid.
func NewLayer(fields []Field, cfg Config) (*Layer, error) {
	if len(fields) == 0 {
		return nil, fmt.Errorf("readout.NewLayer: no output fields")
	}
	seen := map[string]bool{}
	for _, fld := range fields {
		if fld.Name == "" || seen[fld.Name] {
			return nil, fmt.Errorf("readout.NewLayer: missing or duplicate field name %q", fld.Name)
		}
		seen[fld.Name] = true
		if fld.Task != Regression && fld.Task != Classification {
			return nil, fmt.Errorf("readout.NewLayer: field %v has invalid task %v", fld.Name, fld.Task)
		}
	}
	return &Layer{Config: cfg, Fields: fields}, nil
}

// Task returns the overall task of the layer: Regression or
// Classification when all fields agree, Hybrid otherwise.
func (ly *Layer) Task() TaskKinds {
	tk := ly.Fields[0].Task
	for _, fld := range ly.Fields[1:] {
		if fld.Task != tk {
			return Hybrid
		}
	}
	return tk
}

// Build trains the whole layer.  predictors is a 2-D tensor of
// [samples, predictors], ideals of [samples, fields].  All clusters share
// one shuffled sample order from the injected random source, so folds are
// aligned across fields.
func (ly *Layer) Build(predictors, ideals *etensor.Float64, trainer Trainer, rnd *rand.Rand) error {
	if predictors.NumDims() != 2 || ideals.NumDims() != 2 {
		return fmt.Errorf("readout.Build: predictors and ideals must be 2-D")
	}
	n := predictors.Dim(0)
	np := predictors.Dim(1)
	if ideals.Dim(0) != n {
		return fmt.Errorf("readout.Build: %d predictor rows vs %d ideal rows", n, ideals.Dim(0))
	}
	nf := ideals.Dim(1)
	if nf != len(ly.Fields) {
		return fmt.Errorf("readout.Build: %d ideal columns for %d fields", nf, len(ly.Fields))
	}
	k, err := ly.Config.NumFolds(n)
	if err != nil {
		return err
	}

	rows := make([][]float64, n)
	for ri := 0; ri < n; ri++ {
		row := make([]float64, np)
		for ci := 0; ci < np; ci++ {
			row[ci] = predictors.FloatVal1D(ri*np + ci)
		}
		rows[ri] = row
	}
	order := rnd.Perm(n)

	ly.Clusters = make([]*Cluster, nf)
	ly.initResults(nf * k)
	rr := 0
	for fi, fld := range ly.Fields {
		targ := make([]float64, n)
		for ri := 0; ri < n; ri++ {
			targ[ri] = ideals.FloatVal1D(ri*nf + fi)
		}
		var folds [][]int
		if fld.Task == Classification {
			folds, err = classFolds(order, targ, ly.Config.BinThreshold, k)
		} else {
			folds = regFolds(order, k)
		}
		if err != nil {
			ly.Clusters = nil
			return fmt.Errorf("readout.Build: field %v: %v", fld.Name, err)
		}
		cl := &Cluster{Field: fld}
		for f := 0; f < k; f++ {
			un, err := ly.trainUnit(rows, targ, folds, f, trainer)
			if err != nil {
				ly.Clusters = nil
				return fmt.Errorf("readout.Build: field %v fold %d: %v", fld.Name, f, err)
			}
			cl.Units = append(cl.Units, un)
			ly.setResult(rr, fld, un)
			rr++
		}
		cl.scoreFull(rows, targ, ly.Config.BinThreshold)
		ly.Clusters[fi] = cl
	}
	ly.NPreds = np
	return nil
}

// trainUnit fits one unit on all folds except the held-out one and scores
// it on both sides of the split.
func (ly *Layer) trainUnit(rows [][]float64, targ []float64, folds [][]int, hold int, trainer Trainer) (*Unit, error) {
	var trIn [][]float64
	var trTarg []float64
	for f := range folds {
		if f == hold {
			continue
		}
		for _, ri := range folds[f] {
			trIn = append(trIn, rows[ri])
			trTarg = append(trTarg, targ[ri])
		}
	}
	mdl, err := trainer.Train(trIn, trTarg)
	if err != nil {
		return nil, err
	}
	un := &Unit{Model: mdl, Fold: hold, TrainN: len(trIn), TestN: len(folds[hold])}
	var sum float64
	for i := range trIn {
		sum += math.Abs(mdl.Predict(trIn[i]) - trTarg[i])
	}
	un.TrainErr = sum / float64(len(trIn))
	sum = 0
	for _, ri := range folds[hold] {
		sum += math.Abs(mdl.Predict(rows[ri]) - targ[ri])
	}
	un.TestErr = sum / float64(len(folds[hold]))
	return un, nil
}

// scoreFull computes the ensemble error of the cluster over the full
// dataset, including binary decision statistics for classification.
func (cl *Cluster) scoreFull(rows [][]float64, targ []float64, thr float64) {
	var sum float64
	isCls := cl.Field.Task == Classification
	cl.BinStats = BinErrStats{}
	for ri := range rows {
		out := cl.Compute(rows[ri])
		sum += math.Abs(out - targ[ri])
		if isCls {
			cl.BinStats.N++
			got := out >= thr
			cor := targ[ri] >= thr
			if got && !cor {
				cl.BinStats.FPos++
			} else if !got && cor {
				cl.BinStats.FNeg++
			}
		}
	}
	cl.FullErr = sum / float64(len(rows))
	if isCls && cl.BinStats.N > 0 {
		cl.BinStats.ErrRate = float64(cl.BinStats.FPos+cl.BinStats.FNeg) / float64(cl.BinStats.N)
	}
}

// Compute returns the layer's prediction for one predictor vector, one
// value per output field.  The layer must have been built.
func (ly *Layer) Compute(preds []float64) ([]float64, error) {
	if ly.Clusters == nil {
		return nil, fmt.Errorf("readout.Compute: layer has not been built")
	}
	if len(preds) != ly.NPreds {
		return nil, fmt.Errorf("readout.Compute: %d predictor values for a layer trained on %d", len(preds), ly.NPreds)
	}
	out := make([]float64, len(ly.Clusters))
	for fi, cl := range ly.Clusters {
		out[fi] = cl.Compute(preds)
	}
	return out, nil
}

// Decide applies the binary decision threshold to the outputs of
// classification fields; regression outputs pass through unchanged.
func (ly *Layer) Decide(outs []float64) []float64 {
	dec := make([]float64, len(outs))
	for fi, out := range outs {
		if fi < len(ly.Fields) && ly.Fields[fi].Task == Classification {
			if out >= ly.Config.BinThreshold {
				dec[fi] = 1
			}
		} else {
			dec[fi] = out
		}
	}
	return dec
}

//////////////////////////////////////////////////////////////////////////////////////
//  TaskKinds

// TaskKinds is the kind of prediction task the readout layer performs.
type TaskKinds int

//go:generate stringer -type=TaskKinds

var KiT_TaskKinds = kit.Enums.AddEnum(TaskKindsN, kit.NotBitFlag, nil)

func (ev TaskKinds) MarshalJSON() ([]byte, error)  { return kit.EnumMarshalJSON(ev) }
func (ev *TaskKinds) UnmarshalJSON(b []byte) error { return kit.EnumUnmarshalJSON(ev, b) }

const (
	// Regression predicts continuous values
	Regression TaskKinds = iota

	// Classification predicts binary decisions against a threshold
	Classification

	// Hybrid is a layer mixing regression and classification fields
	Hybrid

	TaskKindsN
)
