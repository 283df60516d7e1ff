// Copyright (c) 2020, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

/*
Package rcnet is the overall repository for the reservoir computing network
(Echo State Network / Liquid State Machine) simulation code implemented in
the Go language (golang).

This top-level package only provides the Machine type, which couples a
built reservoir with a readout layer into a complete train / predict
pipeline.  Everything else is organized into the following sub-packages:

* reservoir: the core simulation package -- neurons, synapses (static and
adaptive), and the discrete-cycle driver that turns external stimuli into
reservoir state and predictor values.  The reservoir itself is fixed and
untrained: it is built once from a random topology and only the readout
layer is ever trained.

* actfn: activation functions for the neurons, both analog (continuous
output signal) and spiking (binary output driven by an internal
membrane-like state).

* spikecode: bidirectional conversion between a bounded analog value and a
fixed-length binary pulse train, used by spiking input neurons to rate-code
their stimulus.

* readout: the trainable readout layer -- per-output-field clusters of
regression / classification units trained with k-fold cross-validation and
combined as a weighted ensemble at inference time.
*/
package rcnet
