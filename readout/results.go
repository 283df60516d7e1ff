// Copyright (c) 2020, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package readout

import (
	"github.com/emer/etable/agg"
	"github.com/emer/etable/etable"
	"github.com/emer/etable/etensor"
)

// initResults allocates the per-unit cross-validation results table.
func (ly *Layer) initResults(rows int) {
	dt := &etable.Table{}
	sch := etable.Schema{
		{"Field", etensor.STRING, nil, nil},
		{"Task", etensor.STRING, nil, nil},
		{"Fold", etensor.INT64, nil, nil},
		{"TrainN", etensor.INT64, nil, nil},
		{"TestN", etensor.INT64, nil, nil},
		{"TrainErr", etensor.FLOAT64, nil, nil},
		{"TestErr", etensor.FLOAT64, nil, nil},
	}
	dt.SetFromSchema(sch, rows)
	ly.Results = dt
}

// setResult records one trained unit in the results table.
func (ly *Layer) setResult(row int, fld Field, un *Unit) {
	dt := ly.Results
	dt.SetCellString("Field", row, fld.Name)
	dt.SetCellString("Task", row, fld.Task.String())
	dt.SetCellFloat("Fold", row, float64(un.Fold))
	dt.SetCellFloat("TrainN", row, float64(un.TrainN))
	dt.SetCellFloat("TestN", row, float64(un.TestN))
	dt.SetCellFloat("TrainErr", row, un.TrainErr)
	dt.SetCellFloat("TestErr", row, un.TestErr)
}

// ErrSummary returns the mean train and test error over all units of all
// clusters, from the results table.
func (ly *Layer) ErrSummary() (trainErr, testErr float64) {
	if ly.Results == nil {
		return 0, 0
	}
	ix := etable.NewIdxView(ly.Results)
	trainErr = agg.Mean(ix, "TrainErr")[0]
	testErr = agg.Mean(ix, "TestErr")[0]
	return
}
