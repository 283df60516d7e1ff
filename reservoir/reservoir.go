// Copyright (c) 2020, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

/*
Package reservoir implements the fixed, untrained recurrent population at
the heart of a reservoir computer: analog and spiking neurons (see the
actfn package for their activation functions) connected by weighted,
delayed synapses with adaptive efficacy.

The reservoir runs in discrete cycles, each split into three strictly
ordered phases over the whole population: Stimulate (every neuron stores
its accumulated stimulus for the cycle), Settle (every neuron computes its
new output signal), Adapt (every synapse updates its efficacy from the
endpoint firing history).  The split guarantees that synaptic input for
cycle t+1 only ever reads the settled outputs of cycle t, so the result is
independent of neuron ordering.

Weights and connectivity are generated once at build time from an injected
random source and never change afterwards -- all learning happens in the
readout layer on the predictor vector the reservoir exposes.
*/
package reservoir

import (
	"fmt"
)

// Pool is a contiguous range of neurons created by one AddPool call,
// sharing kind and construction parameters.
type Pool struct {
	Name  string      `desc:"pool name"`
	Kind  NeuronKinds `desc:"kind of the neurons in this pool"`
	StIdx int         `desc:"starting flat neuron index"`
	N     int         `desc:"number of neurons"`
}

// IsInput returns true if this is a pool of input neurons.
func (pl *Pool) IsInput() bool {
	return pl.Kind == InputAnalog || pl.Kind == InputSpiking
}

// reservoir.Reservoir is the full population of neurons and synapses plus
// the cycle driver.  Build it with AddPool and Connect, then drive it with
// Compute (or ApplyExt + Cycle for manual control) and feed the Predictors
// vector to a readout layer.
type Reservoir struct {
	Neurons  []*Neuron  `desc:"all neurons, input pools first, in pool order"`
	Syns     []*Synapse `desc:"all synapses, in connection order"`
	RecvSyns [][]int    `view:"-" desc:"per-neuron indexes into Syns of the synapses targeting that neuron"`
	Pools    []Pool     `desc:"neuron pools, in creation order"`

	InputIdxs []int `view:"-" desc:"flat indexes of the input neurons, in pool order -- ApplyExt values map to these"`
	CycTot    int   `inactive:"+" desc:"total number of cycles run since last Reset"`
}

func NewReservoir() *Reservoir {
	return &Reservoir{}
}

// ApplyExt applies one external sample, one value per input neuron in
// pool order, starting a new stimulation.  For spiking input neurons this
// refills the pulse-train coders.  The reservoir state is deliberately
// not reset -- continuity across samples is what gives the reservoir its
// fading memory; call Reset explicitly for independent samples.
func (rv *Reservoir) ApplyExt(ext []float64) error {
	if len(ext) != len(rv.InputIdxs) {
		return fmt.Errorf("reservoir.ApplyExt: %d values for %d input neurons", len(ext), len(rv.InputIdxs))
	}
	for i, ni := range rv.InputIdxs {
		rv.Neurons[ni].ApplyExt(float32(ext[i]))
	}
	return nil
}

// Cycle runs one full simulation cycle: Stimulate, Settle, Adapt.
// When collectStats, per-neuron statistics are accumulated during Settle.
func (rv *Reservoir) Cycle(collectStats bool) {
	for ni, nrn := range rv.Neurons {
		if nrn.IsInput() {
			nrn.NewStimuli(nrn.Ext, 0)
			continue
		}
		var sum float32
		for _, si := range rv.RecvSyns[ni] {
			sum += rv.Syns[si].WtdSignal()
		}
		nrn.NewStimuli(0, sum)
	}
	for _, nrn := range rv.Neurons {
		nrn.NewState(collectStats)
	}
	for _, sy := range rv.Syns {
		sy.Adjust()
	}
	rv.CycTot++
}

// Compute applies one external sample, runs the given number of cycles,
// and returns the predictor vector of the reservoir (non-input) neurons.
// For spiking inputs, cycles should be at least the number of coding
// fractions so the whole pulse train is played out.
func (rv *Reservoir) Compute(ext []float64, cycles int, collectStats bool) ([]float64, error) {
	if cycles < 1 {
		return nil, fmt.Errorf("reservoir.Compute: cycles must be >= 1, got %d", cycles)
	}
	if err := rv.ApplyExt(ext); err != nil {
		return nil, err
	}
	for c := 0; c < cycles; c++ {
		rv.Cycle(collectStats)
	}
	return rv.Predictors(nil), nil
}

// NumPredictors returns the total number of predictor values the
// reservoir neurons contribute to the readout layer.
func (rv *Reservoir) NumPredictors() int {
	np := 0
	for _, nrn := range rv.Neurons {
		if !nrn.IsInput() {
			np += nrn.NumPredictors()
		}
	}
	return np
}

// Predictors appends the current predictor values of all reservoir
// (non-input) neurons to dst and returns it.
func (rv *Reservoir) Predictors(dst []float64) []float64 {
	for _, nrn := range rv.Neurons {
		if nrn.IsInput() {
			continue
		}
		pri, sec := nrn.Predictors()
		dst = append(dst, float64(pri))
		if nrn.SecondPred {
			dst = append(dst, float64(sec))
		}
	}
	return dst
}

// Reset restores all neurons and synapses to their initial state without
// touching the built structure (weights, delays, connectivity).
// Statistics are cleared only when stats is true.
func (rv *Reservoir) Reset(stats bool) {
	for _, nrn := range rv.Neurons {
		nrn.Reset(stats)
	}
	for _, sy := range rv.Syns {
		sy.Reset()
	}
	rv.CycTot = 0
}

// UnitVarByName returns the value of the named neuron variable for all
// neurons, e.g. for recording reservoir activity over time.
func (rv *Reservoir) UnitVarByName(varNm string, dst []float32) ([]float32, error) {
	if _, ok := NeuronVarsMap[varNm]; !ok {
		return nil, fmt.Errorf("reservoir.UnitVarByName: variable name: %v not valid", varNm)
	}
	i := NeuronVarsMap[varNm]
	for _, nrn := range rv.Neurons {
		dst = append(dst, nrn.VarByIndex(i))
	}
	return dst, nil
}
