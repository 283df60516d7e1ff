// Copyright (c) 2020, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

/*
Package spikecode converts between a bounded analog value and a fixed-length
binary pulse train (rate / precision code), as used by spiking input neurons
to feed analog stimuli into a spiking reservoir.

The number of coding fractions N trades resolution for decoding length:
a value is rescaled into [0, 1] over the configured analog range, quantized
with precision 2^-N, and stored as an N-bit integer whose bits are emitted
most-significant first, one per simulation cycle.  N is clamped to [1, 53]
so the quantized code always fits a 64-bit accumulator exactly.
*/
package spikecode

import (
	"fmt"
	"math"

	"github.com/emer/etable/minmax"
)

// MaxFractions is the largest usable number of coding fractions -- the
// quantized code must remain exactly representable in a float64 mantissa.
const MaxFractions = 53

// Converter encodes a bounded analog value into an N-bit pulse train and
// decodes it back.  Encoding is deterministic and stateless between calls
// apart from the pending-bit cursor.
type Converter struct {
	SignalRange minmax.F64 `desc:"range of the analog signal values being coded -- values outside are clipped"`
	Fractions   int        `def:"8" min:"1" max:"53" desc:"number of coding fractions N = number of bits per pulse train -- resolution is 2^-N of the signal range"`

	Precision float64 `view:"-" json:"-" xml:"-" desc:"derived quantization step = 2^-N"`

	Code    uint64 `inactive:"+" desc:"current quantized code"`
	Pending int    `inactive:"+" desc:"number of bits of the code not yet fetched"`
}

// NewConverter returns a converter for the given analog range and number
// of coding fractions.
func NewConverter(rng minmax.F64, fractions int) *Converter {
	cv := &Converter{SignalRange: rng, Fractions: fractions}
	cv.Update()
	return cv
}

func (cv *Converter) Defaults() {
	cv.SignalRange.Set(0, 1)
	cv.Fractions = 8
	cv.Update()
}

// Update clamps Fractions into [1, MaxFractions] and computes Precision.
// Must be called after any changes to parameters.
func (cv *Converter) Update() {
	if cv.Fractions < 1 {
		cv.Fractions = 1
	}
	if cv.Fractions > MaxFractions {
		cv.Fractions = MaxFractions
	}
	cv.Precision = math.Pow(2, -float64(cv.Fractions))
}

// Encode quantizes the given analog value into the pulse-train code and
// sets the pending-bit count to Fractions.  Values outside SignalRange
// are clipped to it.
func (cv *Converter) Encode(val float64) {
	v := cv.SignalRange.ClipVal(val)
	norm := cv.SignalRange.NormVal(v)
	code := uint64(math.Floor(norm / cv.Precision))
	max := (uint64(1) << uint(cv.Fractions)) - 1
	if code > max { // norm == 1 exactly
		code = max
	}
	cv.Code = code
	cv.Pending = cv.Fractions
}

// FetchBit pops the most-significant pending bit of the code.
// It is a caller protocol violation to fetch with no bits pending.
func (cv *Converter) FetchBit() (bool, error) {
	if cv.Pending <= 0 {
		return false, fmt.Errorf("spikecode.Converter: FetchBit with no pending bits")
	}
	cv.Pending--
	bit := (cv.Code >> uint(cv.Pending)) & 1
	return bit == 1, nil
}

// Decode returns the analog value corresponding to the current code:
// the inverse quantization (code * precision) projected back onto the
// signal range.  Round-trip error vs. the encoded value is bounded by
// Precision (in normalized units).
func (cv *Converter) Decode() float64 {
	return cv.SignalRange.ProjVal(float64(cv.Code) * cv.Precision)
}

// Reset clears the code and the pending-bit cursor.
func (cv *Converter) Reset() {
	cv.Code = 0
	cv.Pending = 0
}
