// Copyright (c) 2020, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

/*
Package actfn provides the activation functions for reservoir neurons.

An activation function maps a bounded scalar stimulus to an output signal
and exposes its internal state and the fixed ranges of both.  There are two
kinds: analog functions produce a continuous output signal directly from
the stimulus, while spiking functions integrate the stimulus into an
internal membrane-like potential and emit a binary spike when it crosses
threshold.

Every neuron owns its own Fn instance, so functions are free to carry
per-neuron internal state (the LIF membrane potential in particular).
*/
package actfn

import (
	"github.com/emer/etable/minmax"
	"github.com/goki/ki/kit"
)

// Fn is the common interface for all activation functions.
// Compute advances the function by one simulation cycle.
type Fn interface {
	// Kind returns whether the output signal is analog or spiking
	Kind() Kinds

	// Compute advances one cycle with the given bounded stimulus and
	// returns the new output signal, which lies within OutputRange
	Compute(stim float32) float32

	// State returns the current internal state value, within StateRange.
	// For analog functions this is the last output signal; for spiking
	// functions it is the membrane potential
	State() float32

	// StateRange returns the fixed range of the internal state value
	StateRange() minmax.F32

	// OutputRange returns the fixed range of the output signal
	OutputRange() minmax.F32

	// Reset restores the function to its initial (resting) state
	Reset()
}

// Kinds are the kinds of output signal an activation function produces
type Kinds int

//go:generate stringer -type=Kinds

var KiT_Kinds = kit.Enums.AddEnum(KindsN, kit.NotBitFlag, nil)

func (ev Kinds) MarshalJSON() ([]byte, error)  { return kit.EnumMarshalJSON(ev) }
func (ev *Kinds) UnmarshalJSON(b []byte) error { return kit.EnumUnmarshalJSON(ev, b) }

const (
	// Analog functions produce a continuous output signal
	Analog Kinds = iota

	// Spiking functions produce a binary (0/1) output signal derived
	// from an internal membrane-like potential
	Spiking

	KindsN
)
