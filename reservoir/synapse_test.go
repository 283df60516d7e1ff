// Copyright (c) 2020, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package reservoir

import (
	"testing"

	"github.com/chewxy/math32"
	"github.com/okozelsk/rcnet/actfn"
)

func newTestSynapse(t *testing.T, send, recv *Neuron, wt float32, delay int) *Synapse {
	sy, err := NewSynapse(send, recv, wt, delay)
	if err != nil {
		t.Fatal(err)
	}
	return sy
}

func TestSynapseConfigErrors(t *testing.T) {
	send := newTestNeuron(t, InputAnalog, Input, actfn.NewIdentity())
	recv := newTestNeuron(t, ReservoirAnalog, Excitatory, actfn.NewTanh())
	if _, err := NewSynapse(send, recv, 0, 0); err == nil {
		t.Errorf("expected error: zero weight")
	}
	if _, err := NewSynapse(send, recv, 0.5, -1); err == nil {
		t.Errorf("expected error: negative delay")
	}
	// parameter range validation -- disabled params always pass
	stp := STPParams{}
	stp.Defaults()
	stp.U0 = 1.5
	if err := stp.Validate(); err == nil {
		t.Errorf("expected error: U0 above 1")
	}
	stp.On = false
	if err := stp.Validate(); err != nil {
		t.Errorf("disabled STP must not be validated: %v", err)
	}
	dp := DecayParams{}
	dp.Defaults()
	dp.TauD = 0.5
	if err := dp.Validate(); err == nil {
		t.Errorf("expected error: TauD below 1")
	}
}

func TestWtSign(t *testing.T) {
	recv := newTestNeuron(t, ReservoirAnalog, Excitatory, actfn.NewTanh())
	exc := newTestNeuron(t, ReservoirAnalog, Excitatory, actfn.NewTanh())
	inh := newTestNeuron(t, ReservoirAnalog, Inhibitory, actfn.NewTanh())
	if sy := newTestSynapse(t, exc, recv, 0.5, 0); sy.Wt != 0.5 {
		t.Errorf("excitatory wt: %v, cor: 0.5", sy.Wt)
	}
	// the sign always comes from the source role, whatever the given sign
	if sy := newTestSynapse(t, inh, recv, 0.5, 0); sy.Wt != -0.5 {
		t.Errorf("inhibitory wt: %v, cor: -0.5", sy.Wt)
	}
	if sy := newTestSynapse(t, exc, recv, -0.5, 0); sy.Wt != 0.5 {
		t.Errorf("excitatory wt: %v, cor: 0.5", sy.Wt)
	}
}

func TestWtdSignalRescale(t *testing.T) {
	// source signal 0.5 in [-1, 1] projected onto a [0, 1] target stimulus
	// range is 0.75; weighted by 2 that arrives as 1.5
	send := newTestNeuron(t, InputAnalog, Input, actfn.NewIdentity())
	recv := newTestNeuron(t, ReservoirAnalog, Excitatory, actfn.NewTanh())
	recv.StimRange.Set(0, 1)
	sy := newTestSynapse(t, send, recv, 2, 0)
	send.ApplyExt(0.5)
	send.NewStimuli(send.Ext, 0)
	send.NewState(false)
	sig := sy.WtdSignal()
	if dif := math32.Abs(sig - 1.5); dif > difTol {
		t.Errorf("weighted signal: %v, cor: 1.5", sig)
	}
}

func TestDelayQueue(t *testing.T) {
	send := newTestNeuron(t, InputAnalog, Input, actfn.NewIdentity())
	recv := newTestNeuron(t, ReservoirAnalog, Excitatory, actfn.NewTanh())
	sy := newTestSynapse(t, send, recv, 1, 2)
	ins := []float32{0.1, 0.2, 0.3, 0.4, 0.5}
	cors := []float32{0, 0, 0.1, 0.2, 0.3} // arrival lags sending by 2 cycles
	for i := range ins {
		send.NewStimuli(ins[i], 0)
		send.NewState(false)
		sig := sy.WtdSignal()
		if dif := math32.Abs(sig - cors[i]); dif > difTol {
			t.Errorf("cycle %v: arrived: %v, cor: %v", i, sig, cors[i])
		}
	}
	// reset drains the queue
	sy.Reset()
	send.NewStimuli(0.9, 0)
	send.NewState(false)
	if sig := sy.WtdSignal(); sig != 0 {
		t.Errorf("after reset: arrived: %v, cor: 0", sig)
	}
}

func TestSTPAdjust(t *testing.T) {
	send := newTestNeuron(t, ReservoirSpiking, Excitatory, actfn.NewLIF())
	recv := newTestNeuron(t, ReservoirAnalog, Excitatory, actfn.NewTanh())
	sy := newTestSynapse(t, send, recv, 1, 0)

	// no firing history: the sentinel keeps the initial efficacy
	send.Out = 1
	send.ISIPrev = -1
	sy.Adjust()
	if sy.Eff != 1 {
		t.Errorf("eff: %v, cor: 1 with no firing history", sy.Eff)
	}

	// second spike, 5 cycles after the first, with TauF: 10, TauR: 100, U0: 0.5:
	//   x = exp(-0.5) = 0.60653066
	//   u = x + 0.5*(1-x) = 0.80326533
	//   y = exp(-0.05) = 0.95122942
	//   r = 1*(1-u)*y + (1-y) = 0.23591050
	//   eff = u*r = 0.18949877
	send.ISIPrev = 5
	sy.Adjust()
	if dif := math32.Abs(sy.U - 0.80326533); dif > difTol {
		t.Errorf("U: %v, cor: 0.80326533", sy.U)
	}
	if dif := math32.Abs(sy.R - 0.23591050); dif > difTol {
		t.Errorf("R: %v, cor: 0.23591050", sy.R)
	}
	if dif := math32.Abs(sy.Eff - 0.18949877); dif > difTol {
		t.Errorf("eff: %v, cor: 0.18949877", sy.Eff)
	}

	// no update between spikes: efficacy stays frozen
	send.Out = 0
	prev := sy.Eff
	sy.Adjust()
	if sy.Eff != prev {
		t.Errorf("eff: %v changed between spikes, cor: %v", sy.Eff, prev)
	}
}

func TestDecayAdjust(t *testing.T) {
	send := newTestNeuron(t, ReservoirAnalog, Excitatory, actfn.NewTanh())
	recv := newTestNeuron(t, ReservoirSpiking, Excitatory, actfn.NewLIF())
	sy := newTestSynapse(t, send, recv, 1, 0)

	// target never spiked: sentinel keeps the initial efficacy
	sy.Adjust()
	if sy.Eff != 1 {
		t.Errorf("eff: %v, cor: 1 before target ever spiked", sy.Eff)
	}

	// 10 silent cycles with TauD: 10 decays the efficacy to exp(-1)
	recv.ISI = 10
	sy.Adjust()
	if dif := math32.Abs(sy.EffPost - 0.36787945); dif > difTol {
		t.Errorf("EffPost: %v, cor: 0.36787945", sy.EffPost)
	}
	// analog source keeps its component at 1
	if sy.EffPre != 1 {
		t.Errorf("EffPre: %v, cor: 1 for analog source", sy.EffPre)
	}
	if dif := math32.Abs(sy.Eff - sy.EffPre*sy.EffPost); dif > difTol {
		t.Errorf("Eff: %v, cor: EffPre*EffPost = %v", sy.Eff, sy.EffPre*sy.EffPost)
	}

	// target spikes again: efficacy recovers to 1
	recv.ISI = 0
	sy.Adjust()
	if sy.EffPost != 1 {
		t.Errorf("EffPost: %v, cor: 1 on target spike cycle", sy.EffPost)
	}
}

func TestSynapseReset(t *testing.T) {
	send := newTestNeuron(t, ReservoirSpiking, Excitatory, actfn.NewLIF())
	recv := newTestNeuron(t, ReservoirSpiking, Excitatory, actfn.NewLIF())
	sy := newTestSynapse(t, send, recv, 1, 2)
	send.Out = 1
	send.ISIPrev = 2
	recv.ISI = 4
	sy.Adjust()
	sy.WtdSignal() // leave a signal in flight
	if sy.Eff == 1 {
		t.Fatalf("eff did not adapt")
	}
	sy.Reset()
	if sy.U != sy.STP.U0 || sy.R != 1 || sy.Eff != 1 {
		t.Errorf("Reset: U: %v, R: %v, Eff: %v", sy.U, sy.R, sy.Eff)
	}
	// resetting an already-reset synapse must change nothing,
	// delay queue included
	snap := *sy
	queue := append([]float32{}, sy.queue...)
	sy.Reset()
	if sy.U != snap.U || sy.R != snap.R || sy.EffPre != snap.EffPre ||
		sy.EffPost != snap.EffPost || sy.Eff != snap.Eff || sy.qi != snap.qi {
		t.Errorf("second Reset changed synapse state")
	}
	for i := range queue {
		if sy.queue[i] != queue[i] {
			t.Errorf("second Reset changed delay queue at %v", i)
		}
	}
}
