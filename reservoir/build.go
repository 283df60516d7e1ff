// Copyright (c) 2020, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package reservoir

import (
	"fmt"
	"math/rand"

	"github.com/emer/emergent/erand"
	"github.com/emer/emergent/prjn"
	"github.com/emer/etable/etensor"
	"github.com/goki/mat32"
	"github.com/okozelsk/rcnet/actfn"
)

// PoolParams configure one AddPool call.
type PoolParams struct {
	Name       string          `desc:"pool name"`
	N          int             `min:"1" desc:"number of neurons"`
	Kind       NeuronKinds     `desc:"neuron kind for the whole pool"`
	PInhib     float32         `def:"0.25" min:"0" max:"1" desc:"proportion of inhibitory neurons, scattered at random -- reservoir pools only"`
	Bias       erand.RndParams `view:"inline" desc:"random constant-bias distribution -- reservoir pools only"`
	Retain     float32         `min:"0" max:"1" desc:"retainment ratio -- analog reservoir pools only"`
	SecondPred bool            `desc:"include the secondary predictor for every neuron in the pool"`
	Fractions  int             `def:"8" desc:"pulse-train coding fractions -- spiking input pools only"`

	Act func() actfn.Fn `view:"-" json:"-" desc:"activation function factory, one instance per neuron -- nil selects the default for the kind"`
}

func (pp *PoolParams) Defaults() {
	pp.PInhib = 0.25
	pp.Fractions = DefFractions
	pp.Bias.Dist = erand.Mean
}

// defActFn returns the default activation factory for the pool kind.
func (pp *PoolParams) defActFn() func() actfn.Fn {
	switch pp.Kind {
	case InputAnalog:
		return func() actfn.Fn { return actfn.NewIdentity() }
	case ReservoirAnalog:
		return func() actfn.Fn { return actfn.NewTanh() }
	case ReservoirSpiking:
		return func() actfn.Fn { return actfn.NewLIF() }
	}
	return nil // InputSpiking: output comes from the pulse-train coder
}

// ConnectParams configure one Connect call.  Each generated synapse draws
// its weight magnitude from the Wt distribution and its delay uniformly
// from [MinDelay, MaxDelay], using the injected random source.
type ConnectParams struct {
	Pat      prjn.Pattern    `desc:"connectivity pattern between the source and target pools"`
	Wt       erand.RndParams `view:"inline" desc:"weight magnitude distribution -- the sign comes from the source neuron role"`
	MinDelay int             `min:"0" desc:"minimum propagation delay in cycles"`
	MaxDelay int             `min:"0" desc:"maximum propagation delay in cycles"`
	STP      STPParams       `view:"inline" desc:"pre-synaptic short-term plasticity parameters for the generated synapses"`
	Decay    DecayParams     `view:"inline" desc:"post-synaptic decay parameters for the generated synapses"`
}

func (cp *ConnectParams) Defaults() {
	cp.Pat = prjn.NewFull()
	cp.Wt.Mean = 0.5
	cp.Wt.Var = 0.25
	cp.Wt.Dist = erand.Uniform
	cp.MinDelay = 0
	cp.MaxDelay = 0
	cp.STP.Defaults()
	cp.Decay.Defaults()
}

// AddPool creates a pool of neurons from the given parameters and returns
// its index.  Input pools must be added before reservoir pools so that
// ApplyExt values map onto a contiguous leading block of neurons.
func (rv *Reservoir) AddPool(pp *PoolParams, rnd *rand.Rand) (int, error) {
	if pp.N < 1 {
		return -1, fmt.Errorf("reservoir.AddPool: pool %v must have at least 1 neuron, got %d", pp.Name, pp.N)
	}
	if pp.Kind < 0 || pp.Kind >= NeuronKindsN {
		return -1, fmt.Errorf("reservoir.AddPool: pool %v has invalid neuron kind %d", pp.Name, pp.Kind)
	}
	pl := Pool{Name: pp.Name, Kind: pp.Kind, StIdx: len(rv.Neurons), N: pp.N}
	if pl.IsInput() {
		for _, epl := range rv.Pools {
			if !epl.IsInput() {
				return -1, fmt.Errorf("reservoir.AddPool: input pool %v must be added before reservoir pools", pp.Name)
			}
		}
	}
	actFac := pp.Act
	if actFac == nil {
		actFac = pp.defActFn()
	}
	inhib := make([]bool, pp.N)
	if !pl.IsInput() && pp.PInhib > 0 {
		nInhib := int(pp.PInhib*float32(pp.N) + 0.5)
		for i, pi := range rnd.Perm(pp.N) {
			if i >= nInhib {
				break
			}
			inhib[pi] = true
		}
	}
	for i := 0; i < pp.N; i++ {
		plc := Placement{Pool: len(rv.Pools), Index: pl.StIdx + i, Pos: mat32.Vec3{X: float32(i), Z: float32(len(rv.Pools))}}
		role := Input
		var bias, retain float32
		if !pl.IsInput() {
			role = Excitatory
			if inhib[i] {
				role = Inhibitory
			}
			bias = genRnd(&pp.Bias, rnd)
			retain = pp.Retain
		}
		var act actfn.Fn
		if actFac != nil {
			act = actFac()
		}
		nrn, err := NewNeuron(plc, pp.Kind, role, act, bias, retain, pp.SecondPred)
		if err != nil {
			return -1, err
		}
		if nrn.Coder != nil && pp.Fractions != DefFractions {
			nrn.Coder.Fractions = pp.Fractions
			nrn.Coder.Update()
		}
		rv.Neurons = append(rv.Neurons, nrn)
		rv.RecvSyns = append(rv.RecvSyns, nil)
		if pl.IsInput() {
			rv.InputIdxs = append(rv.InputIdxs, nrn.Plc.Index)
		}
	}
	rv.Pools = append(rv.Pools, pl)
	return len(rv.Pools) - 1, nil
}

// Connect generates synapses from pool send to pool recv according to the
// given parameters and returns the number created.  Input pools cannot be
// connection targets.
func (rv *Reservoir) Connect(send, recv int, cp *ConnectParams, rnd *rand.Rand) (int, error) {
	if send < 0 || send >= len(rv.Pools) || recv < 0 || recv >= len(rv.Pools) {
		return 0, fmt.Errorf("reservoir.Connect: pool index out of range: %d -> %d", send, recv)
	}
	rpl := &rv.Pools[recv]
	if rpl.IsInput() {
		return 0, fmt.Errorf("reservoir.Connect: input pool %v cannot be a connection target", rpl.Name)
	}
	if cp.MinDelay < 0 || cp.MaxDelay < cp.MinDelay {
		return 0, fmt.Errorf("reservoir.Connect: invalid delay range [%d, %d]", cp.MinDelay, cp.MaxDelay)
	}
	if err := cp.STP.Validate(); err != nil {
		return 0, err
	}
	if err := cp.Decay.Validate(); err != nil {
		return 0, err
	}
	spl := &rv.Pools[send]
	ssh := etensor.NewShape([]int{spl.N}, nil, nil)
	rsh := etensor.NewShape([]int{rpl.N}, nil, nil)
	_, _, cons := cp.Pat.Connect(ssh, rsh, send == recv)
	nsyn := 0
	for ri := 0; ri < rpl.N; ri++ {
		for si := 0; si < spl.N; si++ {
			if !cons.Values.Index(ri*spl.N + si) {
				continue
			}
			wt, err := genWtMag(&cp.Wt, rnd)
			if err != nil {
				return nsyn, fmt.Errorf("reservoir.Connect: %v -> %v: %v", spl.Name, rpl.Name, err)
			}
			delay := cp.MinDelay
			if cp.MaxDelay > cp.MinDelay {
				delay += rnd.Intn(cp.MaxDelay - cp.MinDelay + 1)
			}
			sy, err := NewSynapse(rv.Neurons[spl.StIdx+si], rv.Neurons[rpl.StIdx+ri], wt, delay)
			if err != nil {
				return nsyn, err
			}
			sy.STP = cp.STP
			sy.Decay = cp.Decay
			sy.Reset()
			rv.RecvSyns[rpl.StIdx+ri] = append(rv.RecvSyns[rpl.StIdx+ri], len(rv.Syns))
			rv.Syns = append(rv.Syns, sy)
			nsyn++
		}
	}
	return nsyn, nil
}

// genRnd draws one value from the given distribution using the injected
// random source, so building is reproducible from a seed.  Uniform spans
// Mean +/- Var, Gauss is Mean with standard deviation Var, anything else
// returns Mean.
func genRnd(rp *erand.RndParams, rnd *rand.Rand) float32 {
	switch rp.Dist {
	case erand.Uniform:
		return float32(rp.Mean + rp.Var*(2*rnd.Float64()-1))
	case erand.Gaussian:
		return float32(rp.Mean + rp.Var*rnd.NormFloat64())
	default:
		return float32(rp.Mean)
	}
}

// genWtMag draws a non-zero weight magnitude, retrying a bounded number
// of times -- a distribution that keeps producing zeros is a
// configuration error.
func genWtMag(rp *erand.RndParams, rnd *rand.Rand) (float32, error) {
	for try := 0; try < 8; try++ {
		if wt := genRnd(rp, rnd); wt != 0 {
			return wt, nil
		}
	}
	return 0, fmt.Errorf("weight distribution (mean: %v, var: %v) keeps producing zero magnitudes", rp.Mean, rp.Var)
}
