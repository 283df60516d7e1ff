// Copyright (c) 2020, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package reservoir

import (
	"fmt"
	"unsafe"

	"github.com/c2h5oh/datasize"
	"github.com/emer/etable/etable"
	"github.com/emer/etable/etensor"
)

// CalcStats computes the running averages of the per-neuron statistics
// accumulated so far.  Call before reading Stats or StatsTable.
func (rv *Reservoir) CalcStats() {
	for _, nrn := range rv.Neurons {
		nrn.Stats.CalcAvgs()
	}
}

// StatsTable returns a table with one row per neuron, holding the
// statistics accumulated since the last Reset.  CalcStats is called
// automatically.
func (rv *Reservoir) StatsTable() *etable.Table {
	rv.CalcStats()
	dt := &etable.Table{}
	sch := etable.Schema{
		{"Pool", etensor.STRING, nil, nil},
		{"Neuron", etensor.INT64, nil, nil},
		{"Role", etensor.STRING, nil, nil},
		{"StimAvg", etensor.FLOAT64, nil, nil},
		{"StimMax", etensor.FLOAT64, nil, nil},
		{"StateAvg", etensor.FLOAT64, nil, nil},
		{"StateMax", etensor.FLOAT64, nil, nil},
		{"OutAvg", etensor.FLOAT64, nil, nil},
		{"OutMax", etensor.FLOAT64, nil, nil},
	}
	dt.SetFromSchema(sch, len(rv.Neurons))
	for ni, nrn := range rv.Neurons {
		dt.SetCellString("Pool", ni, rv.Pools[nrn.Plc.Pool].Name)
		dt.SetCellFloat("Neuron", ni, float64(ni))
		dt.SetCellString("Role", ni, nrn.Role.String())
		dt.SetCellFloat("StimAvg", ni, float64(nrn.Stats.Stim.Avg))
		dt.SetCellFloat("StimMax", ni, float64(nrn.Stats.Stim.Max))
		dt.SetCellFloat("StateAvg", ni, float64(nrn.Stats.State.Avg))
		dt.SetCellFloat("StateMax", ni, float64(nrn.Stats.State.Max))
		dt.SetCellFloat("OutAvg", ni, float64(nrn.Stats.Out.Avg))
		dt.SetCellFloat("OutMax", ni, float64(nrn.Stats.Out.Max))
	}
	return dt
}

// SizeReport returns a string report of the size of the built reservoir
// in terms of neurons, synapses, and estimated memory.
func (rv *Reservoir) SizeReport() string {
	nn := len(rv.Neurons)
	ns := len(rv.Syns)
	nrnMem := nn * int(unsafe.Sizeof(Neuron{}))
	synMem := 0
	for _, sy := range rv.Syns {
		synMem += int(unsafe.Sizeof(Synapse{})) + len(sy.queue)*4
	}
	return fmt.Sprintf("%d pools, %d neurons (%s), %d synapses (%s)",
		len(rv.Pools), nn, (datasize.ByteSize)(nrnMem).HumanReadable(),
		ns, (datasize.ByteSize)(synMem).HumanReadable())
}
