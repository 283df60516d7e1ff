// Copyright (c) 2020, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package reservoir

import (
	"fmt"

	"github.com/chewxy/math32"
	"github.com/okozelsk/rcnet/actfn"
)

// STPParams govern pre-synaptic short-term plasticity: the efficacy of a
// spiking source's signal facilitates with rapid firing and depresses as
// the release resources deplete, both recovering during silence.
// The update runs once per source spike, using the gap (in cycles) since
// the previous spike:
//
//	x = exp(-gap / TauF)
//	U = x + U0 * (1 - x)
//	y = exp(-gap / TauR)
//	R = R * (1 - U) * y + (1 - y)
//	EffPre = U * R
type STPParams struct {
	On   bool    `desc:"enable pre-synaptic short-term plasticity -- only has an effect for spiking source neurons"`
	TauF float32 `viewif:"On" def:"10" min:"1" desc:"facilitation time constant in cycles -- how quickly the utilization U falls back to U0 during silence"`
	TauR float32 `viewif:"On" def:"100" min:"1" desc:"resource recovery time constant in cycles -- how quickly depleted resources R return to 1"`
	U0   float32 `viewif:"On" def:"0.5" min:"0" max:"1" desc:"baseline utilization of resources per spike"`
}

func (sp *STPParams) Defaults() {
	sp.On = true
	sp.TauF = 10
	sp.TauR = 100
	sp.U0 = 0.5
	sp.Update()
}

func (sp *STPParams) Update() {
}

// Validate returns an error for parameter values outside the meaningful
// ranges: time constants of at least 1 cycle and U0 in (0, 1].
func (sp *STPParams) Validate() error {
	if !sp.On {
		return nil
	}
	if sp.TauF < 1 || sp.TauR < 1 {
		return fmt.Errorf("reservoir.STPParams: time constants must be >= 1 cycle, got TauF: %v, TauR: %v", sp.TauF, sp.TauR)
	}
	if sp.U0 <= 0 || sp.U0 > 1 {
		return fmt.Errorf("reservoir.STPParams: U0 %v outside (0, 1]", sp.U0)
	}
	return nil
}

// UREffFmGap updates the utilization u and resources r in place from the
// gap in cycles between the two most recent source spikes, and returns
// the new pre-synaptic efficacy u * r.
func (sp *STPParams) UREffFmGap(u, r *float32, gap float32) float32 {
	x := math32.Exp(-gap / sp.TauF)
	*u = x + sp.U0*(1-x)
	y := math32.Exp(-gap / sp.TauR)
	*r = *r*(1-*u)*y + (1 - y)
	return *u * *r
}

// DecayParams govern post-synaptic efficacy decay: the longer the target
// neuron stays silent, the weaker incoming signals become.
type DecayParams struct {
	On   bool    `desc:"enable post-synaptic efficacy decay -- only has an effect for spiking target neurons"`
	TauD float32 `viewif:"On" def:"10" min:"1" desc:"decay time constant in cycles"`
}

func (dp *DecayParams) Defaults() {
	dp.On = true
	dp.TauD = 10
	dp.Update()
}

func (dp *DecayParams) Update() {
}

// Validate returns an error for a decay time constant below 1 cycle.
func (dp *DecayParams) Validate() error {
	if dp.On && dp.TauD < 1 {
		return fmt.Errorf("reservoir.DecayParams: TauD must be >= 1 cycle, got %v", dp.TauD)
	}
	return nil
}

// EffFmISI returns the post-synaptic efficacy exp(-isi / TauD) for the
// given number of cycles since the target last spiked.
func (dp *DecayParams) EffFmISI(isi float32) float32 {
	return math32.Exp(-isi / dp.TauD)
}

// reservoir.Synapse is a weighted, delayed connection between two neurons.
// The weight magnitude is fixed at construction and its sign is determined
// by the source neuron's role.  The overall efficacy Eff adapts every
// cycle from the endpoints' firing history (short-term plasticity on the
// source side, decay on the target side); for analog endpoints the
// corresponding component stays at 1.
type Synapse struct {
	Send *Neuron `view:"-" json:"-" desc:"source neuron"`
	Recv *Neuron `view:"-" json:"-" desc:"target neuron"`

	Wt    float32 `desc:"signed synaptic weight -- negative iff the source neuron is inhibitory"`
	Delay int     `min:"0" desc:"signal propagation delay in cycles -- a signal sent at cycle t arrives at cycle t+Delay"`

	STP   STPParams   `view:"inline" desc:"pre-synaptic short-term plasticity parameters"`
	Decay DecayParams `view:"inline" desc:"post-synaptic decay parameters"`

	U       float32 `inactive:"+" desc:"current utilization of release resources"`
	R       float32 `inactive:"+" desc:"current fraction of available release resources"`
	EffPre  float32 `inactive:"+" desc:"pre-synaptic efficacy component = U * R"`
	EffPost float32 `inactive:"+" desc:"post-synaptic efficacy component"`
	Eff     float32 `inactive:"+" desc:"overall efficacy = EffPre * EffPost, applied to every transmitted signal"`

	queue []float32 // in-flight signals, ring buffer of length Delay
	qi    int       // ring buffer cursor
}

// NewSynapse connects send -> recv with the given weight magnitude and
// propagation delay.  A zero weight or negative delay is a configuration
// error.  The sign of the stored weight follows the source role.
func NewSynapse(send, recv *Neuron, wt float32, delay int) (*Synapse, error) {
	if wt == 0 {
		return nil, fmt.Errorf("reservoir.NewSynapse: zero weight for synapse %d -> %d", send.Plc.Index, recv.Plc.Index)
	}
	if delay < 0 {
		return nil, fmt.Errorf("reservoir.NewSynapse: negative delay %d for synapse %d -> %d", delay, send.Plc.Index, recv.Plc.Index)
	}
	mag := math32.Abs(wt)
	if send.Role == Inhibitory {
		wt = -mag
	} else {
		wt = mag
	}
	sy := &Synapse{Send: send, Recv: recv, Wt: wt, Delay: delay}
	sy.STP.Defaults()
	sy.Decay.Defaults()
	sy.Reset()
	return sy, nil
}

// WtdSignal transmits the source's current output signal through the
// synapse and returns the signal arriving at the target this cycle.
// The source signal is rescaled from the source output range onto the
// target stimulus range, weighted, attenuated by the current efficacy,
// and pushed through the delay queue.  Must be called exactly once per
// synapse per cycle, during the stimulation phase.
func (sy *Synapse) WtdSignal() float32 {
	srng := sy.Send.OutRange()
	sig := sy.Recv.StimRange.ProjVal(srng.NormVal(sy.Send.Out)) * sy.Wt * sy.Eff
	if sy.Delay == 0 {
		return sig
	}
	out := sy.queue[sy.qi]
	sy.queue[sy.qi] = sig
	sy.qi++
	if sy.qi >= len(sy.queue) {
		sy.qi = 0
	}
	return out
}

// Adjust updates the synapse efficacy from the endpoints' firing history.
// Called once per synapse per cycle, during the adaptation phase, after
// all neurons have settled.  Endpoints with analog output leave their
// efficacy component at 1; spiking endpoints that have not yet built a
// firing history (ISI sentinel) keep the initial efficacy.
func (sy *Synapse) Adjust() {
	if sy.STP.On && sy.Send.OutKind() == actfn.Spiking && sy.Send.Out > 0 {
		if gap := sy.Send.ISIPrev; gap >= 0 {
			sy.EffPre = sy.STP.UREffFmGap(&sy.U, &sy.R, gap)
		}
	}
	if sy.Decay.On && sy.Recv.OutKind() == actfn.Spiking {
		if isi := sy.Recv.ISI; isi >= 0 {
			sy.EffPost = sy.Decay.EffFmISI(isi)
		}
	}
	sy.Eff = sy.EffPre * sy.EffPost
}

// Reset restores the synapse to its initial state: full resources,
// unit efficacy, empty delay queue.  Weight and delay are untouched.
func (sy *Synapse) Reset() {
	sy.U = sy.STP.U0
	sy.R = 1
	sy.EffPre = 1
	sy.EffPost = 1
	sy.Eff = 1
	if sy.Delay > 0 {
		if sy.queue == nil {
			sy.queue = make([]float32, sy.Delay)
		} else {
			for i := range sy.queue {
				sy.queue[i] = 0
			}
		}
	}
	sy.qi = 0
}

//////////////////////////////////////////////////////////////////////////////////////
//  Vars

var SynapseVars = []string{"Wt", "U", "R", "EffPre", "EffPost", "Eff"}

var SynapseVarsMap map[string]int

func init() {
	SynapseVarsMap = make(map[string]int, len(SynapseVars))
	for i, v := range SynapseVars {
		SynapseVarsMap[v] = i
	}
}

func (sy *Synapse) VarNames() []string {
	return SynapseVars
}

// VarByIndex returns variable using index (0 = first variable in SynapseVars list)
func (sy *Synapse) VarByIndex(idx int) float32 {
	switch idx {
	case 0:
		return sy.Wt
	case 1:
		return sy.U
	case 2:
		return sy.R
	case 3:
		return sy.EffPre
	case 4:
		return sy.EffPost
	case 5:
		return sy.Eff
	}
	return 0
}

// VarByName returns variable by name, or error
func (sy *Synapse) VarByName(varNm string) (float32, error) {
	i, ok := SynapseVarsMap[varNm]
	if !ok {
		return 0, fmt.Errorf("reservoir.Synapse VarByName: variable name: %v not valid", varNm)
	}
	return sy.VarByIndex(i), nil
}
