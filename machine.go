// Copyright (c) 2020, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package rcnet

import (
	"fmt"
	"math/rand"

	"github.com/emer/etable/etensor"
	"github.com/okozelsk/rcnet/readout"
	"github.com/okozelsk/rcnet/reservoir"
)

// Machine couples a built reservoir with a readout layer into a complete
// reservoir computer: Train runs every sample through the reservoir,
// collects the predictor vectors, and cross-validates the readout on
// them; Predict runs one sample and returns the readout outputs.
type Machine struct {
	Res     *reservoir.Reservoir `desc:"the fixed reservoir"`
	Readout *readout.Layer       `desc:"the trainable readout layer"`

	Cycles         int  `min:"1" desc:"simulation cycles per external sample -- for spiking inputs at least the number of coding fractions"`
	ResetPerSample bool `desc:"reset the reservoir state before each sample -- use for unordered (non-sequential) samples, where continuity across samples would leak state"`
}

// NewMachine returns a machine driving the given reservoir and readout
// layer with the given number of cycles per sample.
func NewMachine(res *reservoir.Reservoir, rl *readout.Layer, cycles int) (*Machine, error) {
	if res == nil || rl == nil {
		return nil, fmt.Errorf("rcnet.NewMachine: reservoir and readout layer are required")
	}
	if cycles < 1 {
		return nil, fmt.Errorf("rcnet.NewMachine: cycles must be >= 1, got %d", cycles)
	}
	return &Machine{Res: res, Readout: rl, Cycles: cycles}, nil
}

// Train runs all samples ([samples, inputs]) through the reservoir and
// builds the readout layer against the ideal values ([samples, fields]).
func (ma *Machine) Train(samples, ideals *etensor.Float64, trainer readout.Trainer, rnd *rand.Rand) error {
	if samples.NumDims() != 2 {
		return fmt.Errorf("rcnet.Train: samples must be a 2-D tensor")
	}
	n := samples.Dim(0)
	ni := samples.Dim(1)
	np := ma.Res.NumPredictors()
	preds := etensor.NewFloat64([]int{n, np}, nil, nil)
	ext := make([]float64, ni)
	for ri := 0; ri < n; ri++ {
		for ci := 0; ci < ni; ci++ {
			ext[ci] = samples.FloatVal1D(ri*ni + ci)
		}
		pv, err := ma.compute(ext)
		if err != nil {
			return fmt.Errorf("rcnet.Train: sample %d: %v", ri, err)
		}
		for ci, p := range pv {
			preds.SetFloat1D(ri*np+ci, p)
		}
	}
	return ma.Readout.Build(preds, ideals, trainer, rnd)
}

// Predict runs one sample through the reservoir and returns the readout
// outputs, one per field.  The layer must have been trained.
func (ma *Machine) Predict(sample []float64) ([]float64, error) {
	pv, err := ma.compute(sample)
	if err != nil {
		return nil, err
	}
	return ma.Readout.Compute(pv)
}

func (ma *Machine) compute(ext []float64) ([]float64, error) {
	if ma.ResetPerSample {
		ma.Res.Reset(false)
	}
	return ma.Res.Compute(ext, ma.Cycles, false)
}
