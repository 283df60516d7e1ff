// Copyright (c) 2020, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package actfn

import (
	"github.com/chewxy/math32"
	"github.com/emer/etable/minmax"
)

// analog activation functions are stateless apart from remembering their
// last output signal, which doubles as their internal state value.

//////////////////////////////////////////////////////////////////////////////////////
//  Tanh

// Tanh is the hyperbolic tangent activation function, output in [-1, 1].
// This is the standard choice for analog (ESN-style) reservoir neurons.
type Tanh struct {
	Out float32 `inactive:"+" desc:"last output signal"`
}

func NewTanh() *Tanh { return &Tanh{} }

func (tf *Tanh) Kind() Kinds { return Analog }

func (tf *Tanh) Compute(stim float32) float32 {
	tf.Out = math32.Tanh(stim)
	return tf.Out
}

func (tf *Tanh) State() float32          { return tf.Out }
func (tf *Tanh) StateRange() minmax.F32  { return minmax.F32{Min: -1, Max: 1} }
func (tf *Tanh) OutputRange() minmax.F32 { return minmax.F32{Min: -1, Max: 1} }
func (tf *Tanh) Reset()                  { tf.Out = 0 }

//////////////////////////////////////////////////////////////////////////////////////
//  Elliot

// Elliot is the Elliot (softsign) activation function x*s / (1 + |x*s|),
// output in [-1, 1] -- a cheaper sigmoid-like alternative to Tanh with
// heavier tails.  Slope controls the steepness at 0.
type Elliot struct {
	Slope float32 `def:"1" min:"0" desc:"curve slope at zero stimulus"`
	Out   float32 `inactive:"+" desc:"last output signal"`
}

func NewElliot() *Elliot {
	ef := &Elliot{}
	ef.Defaults()
	return ef
}

func (ef *Elliot) Defaults() {
	ef.Slope = 1
}

func (ef *Elliot) Kind() Kinds { return Analog }

func (ef *Elliot) Compute(stim float32) float32 {
	x := stim * ef.Slope
	ef.Out = x / (1 + math32.Abs(x))
	return ef.Out
}

func (ef *Elliot) State() float32          { return ef.Out }
func (ef *Elliot) StateRange() minmax.F32  { return minmax.F32{Min: -1, Max: 1} }
func (ef *Elliot) OutputRange() minmax.F32 { return minmax.F32{Min: -1, Max: 1} }
func (ef *Elliot) Reset()                  { ef.Out = 0 }

//////////////////////////////////////////////////////////////////////////////////////
//  BentIdentity

// BentIdentity is the bent identity function x + (sqrt(x^2+1) - 1) / 2:
// near-linear with a gentle upward bend, unbounded in general but with the
// stimulus bounded to [-1, 1] the output stays within
// [(sqrt(2)-1)/2 - 1, (sqrt(2)-1)/2 + 1].
type BentIdentity struct {
	Out float32 `inactive:"+" desc:"last output signal"`
}

func NewBentIdentity() *BentIdentity { return &BentIdentity{} }

func (bf *BentIdentity) Kind() Kinds { return Analog }

func (bf *BentIdentity) Compute(stim float32) float32 {
	bf.Out = stim + (math32.Sqrt(stim*stim+1)-1)/2
	return bf.Out
}

func (bf *BentIdentity) State() float32 { return bf.Out }

func (bf *BentIdentity) StateRange() minmax.F32 {
	return bf.OutputRange()
}

func (bf *BentIdentity) OutputRange() minmax.F32 {
	bend := (math32.Sqrt2 - 1) / 2
	return minmax.F32{Min: bend - 1, Max: bend + 1}
}

func (bf *BentIdentity) Reset() { bf.Out = 0 }

//////////////////////////////////////////////////////////////////////////////////////
//  Identity

// Identity passes the (already bounded) stimulus through unchanged.
// Used by analog input neurons, which have no internal dynamics.
type Identity struct {
	Out float32 `inactive:"+" desc:"last output signal"`
}

func NewIdentity() *Identity { return &Identity{} }

func (idf *Identity) Kind() Kinds { return Analog }

func (idf *Identity) Compute(stim float32) float32 {
	idf.Out = stim
	return idf.Out
}

func (idf *Identity) State() float32          { return idf.Out }
func (idf *Identity) StateRange() minmax.F32  { return minmax.F32{Min: -1, Max: 1} }
func (idf *Identity) OutputRange() minmax.F32 { return minmax.F32{Min: -1, Max: 1} }
func (idf *Identity) Reset()                  { idf.Out = 0 }
