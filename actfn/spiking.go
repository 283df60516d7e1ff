// Copyright (c) 2020, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package actfn

import (
	"github.com/chewxy/math32"
	"github.com/emer/etable/minmax"
)

// LIFParams are the leaky integrate-and-fire membrane parameters.
// The membrane potential decays exponentially toward Rest with time
// constant TauM, integrates Gain * stimulus every cycle, and emits a
// spike when it reaches Thr, after which it is clamped to VmReset for
// Refrac cycles.
type LIFParams struct {
	Rest    float32 `def:"0" desc:"resting membrane potential that the potential decays back to"`
	VmReset float32 `def:"0" desc:"potential the membrane is reset to after a spike"`
	Thr     float32 `def:"1" desc:"firing threshold for the membrane potential"`
	TauM    float32 `def:"8" min:"1" desc:"membrane decay time constant in cycles -- roughly how long the potential takes to leak back to rest"`
	Gain    float32 `def:"1" min:"0" desc:"multiplier on the incoming stimulus per cycle"`
	Refrac  int     `def:"1" min:"0" desc:"refractory period in cycles after a spike, during which stimulus is ignored"`

	VmDecay float32 `view:"-" json:"-" xml:"-" desc:"per-cycle potential retention = exp(-1/TauM)"`
}

func (lp *LIFParams) Update() {
	lp.VmDecay = math32.Exp(-1 / lp.TauM)
}

func (lp *LIFParams) Defaults() {
	lp.Rest = 0
	lp.VmReset = 0
	lp.Thr = 1
	lp.TauM = 8
	lp.Gain = 1
	lp.Refrac = 1
	lp.Update()
}

// LIF is the leaky integrate-and-fire spiking activation function.
// Output signal is binary: 1 on the cycle a spike is emitted, else 0.
// The internal state is the membrane potential, in [min(VmReset, Rest), Thr].
type LIF struct {
	LIFParams

	Vm     float32 `inactive:"+" desc:"current membrane potential"`
	RefCyc int     `inactive:"+" desc:"refractory cycles remaining"`
}

func NewLIF() *LIF {
	sf := &LIF{}
	sf.Defaults()
	sf.Reset()
	return sf
}

func (sf *LIF) Kind() Kinds { return Spiking }

func (sf *LIF) Compute(stim float32) float32 {
	if sf.RefCyc > 0 {
		sf.RefCyc--
		sf.Vm = sf.VmReset
		return 0
	}
	sf.Vm = sf.Rest + (sf.Vm-sf.Rest)*sf.VmDecay + sf.Gain*stim
	rng := sf.StateRange()
	sf.Vm = rng.ClipVal(sf.Vm)
	if sf.Vm >= sf.Thr {
		sf.Vm = sf.VmReset
		sf.RefCyc = sf.Refrac
		return 1
	}
	return 0
}

func (sf *LIF) State() float32 { return sf.Vm }

func (sf *LIF) StateRange() minmax.F32 {
	mn := math32.Min(sf.VmReset, sf.Rest)
	return minmax.F32{Min: mn, Max: sf.Thr}
}

func (sf *LIF) OutputRange() minmax.F32 { return minmax.F32{Min: 0, Max: 1} }

func (sf *LIF) Reset() {
	sf.Vm = sf.Rest
	sf.RefCyc = 0
	if sf.TauM == 0 {
		sf.Defaults()
	}
}
