// Copyright (c) 2020, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package readout

import "fmt"

// regFolds splits the shuffled sample order into k near-equal contiguous
// folds -- every sample lands in exactly one fold, fold sizes differ by
// at most one.
func regFolds(order []int, k int) [][]int {
	n := len(order)
	base := n / k
	rem := n % k
	folds := make([][]int, k)
	st := 0
	for f := 0; f < k; f++ {
		sz := base
		if f < rem {
			sz++
		}
		folds[f] = order[st : st+sz]
		st += sz
	}
	return folds
}

// classFolds splits the shuffled sample order into k folds stratified by
// binary class (targ >= thr), so each fold sees both classes in roughly
// the overall proportion.  Each class is dealt floor(count/k) samples per
// fold with the remainder round-robined; a class with fewer samples than
// folds cannot be stratified and is an error.
func classFolds(order []int, targ []float64, thr float64, k int) ([][]int, error) {
	var pos, neg []int
	for _, ri := range order {
		if targ[ri] >= thr {
			pos = append(pos, ri)
		} else {
			neg = append(neg, ri)
		}
	}
	folds := make([][]int, k)
	for _, cls := range [][]int{pos, neg} {
		if len(cls) < k {
			return nil, fmt.Errorf("class with %d samples cannot be stratified into %d folds", len(cls), k)
		}
		base := len(cls) / k
		rem := len(cls) % k
		st := 0
		for f := 0; f < k; f++ {
			sz := base
			if f < rem {
				sz++
			}
			folds[f] = append(folds[f], cls[st:st+sz]...)
			st += sz
		}
	}
	return folds, nil
}
