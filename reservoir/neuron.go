// Copyright (c) 2020, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package reservoir

import (
	"fmt"
	"log"

	"github.com/emer/etable/minmax"
	"github.com/goki/ki/kit"
	"github.com/goki/mat32"
	"github.com/okozelsk/rcnet/actfn"
	"github.com/okozelsk/rcnet/spikecode"
)

// DefFractions is the default number of pulse-train coding fractions for
// spiking input neurons.
const DefFractions = 8

// Placement is the fixed position of a neuron within the reservoir:
// pool id, flat index, and position in 3D space.  Immutable after
// creation.
type Placement struct {
	Pool  int        `desc:"id of the pool this neuron belongs to"`
	Index int        `desc:"flat index of this neuron within the whole reservoir"`
	Pos   mat32.Vec3 `desc:"position of the neuron in 3D space, for distance-based wiring and display"`
}

// reservoir.Neuron is one unit of the fixed, untrained reservoir.
// Its kind and role are fixed at construction; its state is mutated every
// simulation cycle in two phases: NewStimuli first stores the accumulated
// stimulus for every neuron, then NewState computes the new output signal
// for every neuron.  Synaptic input for cycle t+1 must only ever read the
// settled outputs of cycle t, which is what the two-phase split guarantees.
type Neuron struct {
	Plc        Placement   `desc:"fixed placement of this neuron"`
	Kind       NeuronKinds `desc:"neuron variant, determines stimulus and output handling"`
	Role       NeuronRoles `desc:"input / excitatory / inhibitory -- determines the sign of outgoing synapse weights"`
	Bias       float32     `desc:"constant bias added to the stimulus every cycle"`
	Retain     float32     `min:"0" max:"1" desc:"retainment (leaky integration) ratio r in [0,1) for analog reservoir neurons: Out = r*OutPrev + (1-r)*act(Stim)"`
	SecondPred bool        `desc:"include the secondary (augmented) predictor for this neuron in the readout predictor vector"`
	RateDt     float32     `def:"0.125" desc:"integration rate for the exponential firing-rate estimate of spiking neurons"`
	StimRange  minmax.F32  `desc:"fixed numeric range the total stimulus (external + internal + bias) is bounded to"`

	Act   actfn.Fn             `view:"-" json:"-" desc:"activation function instance owned by this neuron; nil only for spiking input neurons, whose output comes from the pulse-train coder"`
	Coder *spikecode.Converter `view:"-" json:"-" desc:"pulse-train coder, spiking input neurons only"`

	Ext     float32 `desc:"external stimulus applied for the current sample (input neurons only)"`
	Stim    float32 `desc:"current bounded stimulus, written by NewStimuli"`
	Out     float32 `desc:"current output signal, within the output range"`
	OutPrev float32 `desc:"output signal from the previous cycle"`
	ISI     float32 `desc:"number of cycles since the last qualifying (non-baseline) output signal -- starts at -1 when initialized, meaning the neuron has never signaled"`
	ISIPrev float32 `desc:"ISI value captured just before the last qualifying signal reset it -- the gap between the two most recent signals"`
	RateEst float32 `desc:"exponential moving average of the spiking output -- the secondary predictor for spiking neurons"`
	CycTot  int32   `desc:"total number of NewState calls since last Reset"`

	Stats NeuronStats `desc:"running stimulus / state / output statistics, updated when requested"`
}

// NewNeuron constructs a neuron and validates its configuration.
// act may be nil only for InputSpiking neurons; for every other kind the
// activation function's output-signal kind must match the neuron kind.
// retain is the retainment ratio (analog reservoir neurons only) and must
// be in [0,1); secondPred requests the secondary predictor.
func NewNeuron(plc Placement, kind NeuronKinds, role NeuronRoles, act actfn.Fn, bias, retain float32, secondPred bool) (*Neuron, error) {
	switch kind {
	case InputAnalog, InputSpiking:
		if role != Input {
			return nil, fmt.Errorf("reservoir.NewNeuron: %v neuron %d must have Input role, not %v", kind, plc.Index, role)
		}
	case ReservoirAnalog, ReservoirSpiking:
		if role == Input {
			return nil, fmt.Errorf("reservoir.NewNeuron: %v neuron %d cannot have Input role", kind, plc.Index)
		}
	default:
		return nil, fmt.Errorf("reservoir.NewNeuron: invalid neuron kind %d", kind)
	}
	if act == nil {
		if kind != InputSpiking {
			return nil, fmt.Errorf("reservoir.NewNeuron: %v neuron %d requires an activation function", kind, plc.Index)
		}
	} else if act.Kind() != kind.ActKind() {
		return nil, fmt.Errorf("reservoir.NewNeuron: %v neuron %d requires an %v activation function, got %v", kind, plc.Index, kind.ActKind(), act.Kind())
	}
	if retain < 0 || retain >= 1 {
		return nil, fmt.Errorf("reservoir.NewNeuron: neuron %d retainment ratio %v outside [0,1)", plc.Index, retain)
	}
	nrn := &Neuron{Plc: plc, Kind: kind, Role: role, Act: act, Bias: bias, Retain: retain, SecondPred: secondPred}
	nrn.Defaults()
	nrn.Reset(true)
	return nrn, nil
}

func (nrn *Neuron) Defaults() {
	nrn.RateDt = 0.125
	nrn.StimRange.Set(-1, 1)
	if nrn.Kind == InputSpiking && nrn.Coder == nil {
		nrn.Coder = spikecode.NewConverter(minmax.F64{Min: float64(nrn.StimRange.Min), Max: float64(nrn.StimRange.Max)}, DefFractions)
	}
}

// Update must be called after any changes to parameters -- it keeps the
// pulse-train coder range in sync with the stimulus range.
func (nrn *Neuron) Update() {
	if nrn.Coder != nil {
		nrn.Coder.SignalRange.Set(float64(nrn.StimRange.Min), float64(nrn.StimRange.Max))
		nrn.Coder.Update()
	}
}

// OutKind returns the kind of output signal this neuron produces.
func (nrn *Neuron) OutKind() actfn.Kinds {
	if nrn.Kind == InputSpiking {
		return actfn.Spiking
	}
	return nrn.Act.Kind()
}

// OutRange returns the fixed range of this neuron's output signal.
func (nrn *Neuron) OutRange() minmax.F32 {
	if nrn.Kind == InputSpiking {
		return minmax.F32{Min: 0, Max: 1}
	}
	return nrn.Act.OutputRange()
}

// IsInput returns true for input neurons, which receive external stimuli
// and have no internal dynamics.
func (nrn *Neuron) IsInput() bool {
	return nrn.Role == Input
}

// ApplyExt applies a new external stimulus value, starting a new external
// sample.  For spiking input neurons this refills the pulse train.
func (nrn *Neuron) ApplyExt(ext float32) {
	nrn.Ext = ext
	if nrn.Kind == InputSpiking {
		nrn.Coder.Encode(float64(nrn.StimRange.ClipVal(ext)))
	}
}

// NewStimuli stores the bounded total stimulus for this cycle:
// external + internal (synaptic) + bias.  Pure write, no computation --
// every neuron must receive its stimulus before any neuron settles.
func (nrn *Neuron) NewStimuli(ext, internal float32) {
	nrn.Stim = nrn.StimRange.ClipVal(ext + internal + nrn.Bias)
}

// NewState computes the new output signal from the stimulus stored by
// NewStimuli, and updates the no-signal-cycles counter, the firing-rate
// estimate, and (when collectStats) the running statistics.
func (nrn *Neuron) NewState(collectStats bool) {
	nrn.OutPrev = nrn.Out
	var out float32
	switch nrn.Kind {
	case InputSpiking:
		if nrn.Coder.Pending > 0 {
			bit, err := nrn.Coder.FetchBit()
			if err != nil { // cannot happen with the guard above
				log.Println(err)
			}
			if bit {
				out = 1
			}
		}
	case ReservoirAnalog:
		out = nrn.Act.Compute(nrn.Stim)
		if nrn.Retain > 0 {
			out = nrn.Retain*nrn.OutPrev + (1-nrn.Retain)*out
		}
	default: // InputAnalog, ReservoirSpiking
		out = nrn.Act.Compute(nrn.Stim)
	}
	nrn.Out = out

	if nrn.qualifies(out) {
		nrn.ISIPrev = nrn.ISI
		nrn.ISI = 0
	} else if nrn.ISI >= 0 {
		nrn.ISI++
	}
	if nrn.OutKind() == actfn.Spiking {
		nrn.RateEst += nrn.RateDt * (out - nrn.RateEst)
	}
	if collectStats {
		nrn.Stats.Stim.UpdateVal(nrn.Stim, nrn.CycTot)
		if nrn.Act != nil {
			srng := nrn.Act.StateRange()
			nrn.Stats.State.UpdateVal(srng.NormVal(nrn.Act.State()), nrn.CycTot)
		}
		nrn.Stats.Out.UpdateVal(out, nrn.CycTot)
	}
	nrn.CycTot++
}

// qualifies reports whether out counts as a qualifying (non-baseline)
// signal for the no-signal-cycles counter.  One rule for all variants:
// spiking output qualifies on any spike; analog output qualifies on any
// deviation from the midpoint of the output range.
func (nrn *Neuron) qualifies(out float32) bool {
	if nrn.OutKind() == actfn.Spiking {
		return out > 0
	}
	rng := nrn.Act.OutputRange()
	return out != 0.5*(rng.Min+rng.Max)
}

// NumPredictors returns the number of predictor values this neuron
// contributes to the readout layer (1, or 2 with the secondary predictor).
func (nrn *Neuron) NumPredictors() int {
	if nrn.SecondPred {
		return 2
	}
	return 1
}

// Predictors returns the primary and secondary predictor values.
// Primary: the output signal for analog neurons, the normalized membrane
// state for spiking neurons (a spike train is too sparse to regress on
// directly).  Secondary: squared output signal for analog neurons, the
// exponential firing-rate estimate for spiking ones.
func (nrn *Neuron) Predictors() (primary, secondary float32) {
	if nrn.OutKind() == actfn.Spiking {
		if nrn.Act != nil {
			srng := nrn.Act.StateRange()
			primary = srng.NormVal(nrn.Act.State())
		} else {
			primary = nrn.Out
		}
		secondary = nrn.RateEst
		return
	}
	primary = nrn.Out
	secondary = nrn.Out * nrn.Out
	return
}

// Reset restores the neuron to its initial state without reallocation.
// Statistics are cleared only when stats is true.
func (nrn *Neuron) Reset(stats bool) {
	nrn.Ext = 0
	nrn.Stim = 0
	nrn.Out = 0
	nrn.OutPrev = 0
	nrn.ISI = -1
	nrn.ISIPrev = -1
	nrn.RateEst = 0
	nrn.CycTot = 0
	if nrn.Act != nil {
		nrn.Act.Reset()
	}
	if nrn.Coder != nil {
		nrn.Coder.Reset()
	}
	if stats {
		nrn.Stats.Init()
	}
}

// NeuronStats are running statistics over a neuron's stimulus, normalized
// internal state, and output signal, collected during NewState on request.
type NeuronStats struct {
	Stim  minmax.AvgMax32 `desc:"bounded stimulus statistics"`
	State minmax.AvgMax32 `desc:"internal activation state statistics, rescaled to the normalized interval"`
	Out   minmax.AvgMax32 `desc:"output signal statistics"`
}

func (ns *NeuronStats) Init() {
	ns.Stim.Init()
	ns.State.Init()
	ns.Out.Init()
}

// CalcAvgs computes the running averages from the accumulated sums.
func (ns *NeuronStats) CalcAvgs() {
	ns.Stim.CalcAvg()
	ns.State.CalcAvg()
	ns.Out.CalcAvg()
}

//////////////////////////////////////////////////////////////////////////////////////
//  Vars

var NeuronVars = []string{"Ext", "Stim", "Out", "OutPrev", "ISI", "ISIPrev", "RateEst"}

var NeuronVarsMap map[string]int

func init() {
	NeuronVarsMap = make(map[string]int, len(NeuronVars))
	for i, v := range NeuronVars {
		NeuronVarsMap[v] = i
	}
}

func (nrn *Neuron) VarNames() []string {
	return NeuronVars
}

// VarByIndex returns variable using index (0 = first variable in NeuronVars list)
func (nrn *Neuron) VarByIndex(idx int) float32 {
	switch idx {
	case 0:
		return nrn.Ext
	case 1:
		return nrn.Stim
	case 2:
		return nrn.Out
	case 3:
		return nrn.OutPrev
	case 4:
		return nrn.ISI
	case 5:
		return nrn.ISIPrev
	case 6:
		return nrn.RateEst
	}
	return 0
}

// VarByName returns variable by name, or error
func (nrn *Neuron) VarByName(varNm string) (float32, error) {
	i, ok := NeuronVarsMap[varNm]
	if !ok {
		return 0, fmt.Errorf("reservoir.Neuron VarByName: variable name: %v not valid", varNm)
	}
	return nrn.VarByIndex(i), nil
}

//////////////////////////////////////////////////////////////////////////////////////
//  NeuronKinds

// NeuronKinds are the neuron variants: input vs. reservoir crossed with
// analog vs. spiking output signal.
type NeuronKinds int

//go:generate stringer -type=NeuronKinds

var KiT_NeuronKinds = kit.Enums.AddEnum(NeuronKindsN, kit.NotBitFlag, nil)

func (ev NeuronKinds) MarshalJSON() ([]byte, error)  { return kit.EnumMarshalJSON(ev) }
func (ev *NeuronKinds) UnmarshalJSON(b []byte) error { return kit.EnumUnmarshalJSON(ev, b) }

const (
	// InputAnalog passes its bounded external stimulus through unchanged
	InputAnalog NeuronKinds = iota

	// InputSpiking encodes its bounded external stimulus into a fixed-length
	// binary pulse train and emits one bit per cycle
	InputSpiking

	// ReservoirAnalog is a reservoir neuron with continuous output,
	// optionally leaky-integrated via the retainment ratio
	ReservoirAnalog

	// ReservoirSpiking is a reservoir neuron with binary spiking output
	// driven by an internal membrane-like state
	ReservoirSpiking

	NeuronKindsN
)

// ActKind returns the activation-function kind this neuron kind requires.
func (nk NeuronKinds) ActKind() actfn.Kinds {
	if nk == InputSpiking || nk == ReservoirSpiking {
		return actfn.Spiking
	}
	return actfn.Analog
}

//////////////////////////////////////////////////////////////////////////////////////
//  NeuronRoles

// NeuronRoles determine the sign of a neuron's outgoing synapse weights:
// excitatory and input neurons excite their targets, inhibitory ones
// inhibit them.  Fixed at construction.
type NeuronRoles int

//go:generate stringer -type=NeuronRoles

var KiT_NeuronRoles = kit.Enums.AddEnum(NeuronRolesN, kit.NotBitFlag, nil)

func (ev NeuronRoles) MarshalJSON() ([]byte, error)  { return kit.EnumMarshalJSON(ev) }
func (ev *NeuronRoles) UnmarshalJSON(b []byte) error { return kit.EnumUnmarshalJSON(ev, b) }

const (
	// Input neurons receive external stimuli; their outgoing weights are positive
	Input NeuronRoles = iota

	// Excitatory neurons have positive outgoing weights
	Excitatory

	// Inhibitory neurons have negative outgoing weights
	Inhibitory

	NeuronRolesN
)
