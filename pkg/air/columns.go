// Copyright Consensys Software Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with
// the License. You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on
// an "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied. See the License for the
// specific language governing permissions and limitations under the License.
//
// SPDX-License-Identifier: Apache-2.0
package air

import (
	"errors"
	"fmt"
)

// ErrLayoutMismatch indicates that a flat row (or slot) does not have the
// exact length demanded by the column layout it was to be viewed as.  Such
// rows are rejected eagerly, rather than silently producing a misaligned or
// truncated view.
var ErrLayoutMismatch = errors.New("row length does not match column layout")

// Cols is a typed view over the trace columns of one permutation instance.
// All fields alias sub-slices of the flat row the view was constructed over,
// hence the view is zero copy and mutations made through it are visible in
// the underlying row.  The layout is contiguous and gap free: inputs first,
// then the beginning full rounds, the partial rounds and, finally, the ending
// full rounds.
type Cols[F any] struct {
	// Inputs holds the permutation input state.
	Inputs []F
	// BeginningFullRounds holds one record per full round applied before the
	// partial rounds.
	BeginningFullRounds []FullRound[F]
	// PartialRounds holds one record per partial round.
	PartialRounds []PartialRound[F]
	// EndingFullRounds holds one record per full round applied after the
	// partial rounds.
	EndingFullRounds []FullRound[F]
}

// FullRound holds the committed cells of one full round, in which every state
// element passes through the S-box.
type FullRound[F any] struct {
	// SBox[i] holds the committed S-box registers for state element i (empty
	// when the S-box is computed in-expression).
	SBox [][]F
	// Post holds the state after the round's linear layer.
	Post []F
}

// PartialRound holds the committed cells of one partial round, in which only
// the first state element passes through the S-box.
type PartialRound[F any] struct {
	// SBox holds the committed S-box registers for state element 0.
	SBox []F
	// PostSBox points at the committed S-box output.
	PostSBox *F
}

// ColumnsOf reinterprets a flat slot of exactly cfg.NumColumns() field
// elements as a typed column record, without copying and without reordering.
// Any other slot length yields ErrLayoutMismatch.
func ColumnsOf[F any](cfg Config, slot []F) (Cols[F], error) {
	if uint(len(slot)) != cfg.NumColumns() {
		return Cols[F]{}, fmt.Errorf("%w: have %d columns, expected %d",
			ErrLayoutMismatch, len(slot), cfg.NumColumns())
	}
	//
	var (
		cols   Cols[F]
		offset uint
	)
	//
	cols.Inputs, offset = view(slot, 0, cfg.Width)
	cols.BeginningFullRounds, offset = fullRounds(cfg, slot, offset)
	cols.PartialRounds, offset = partialRounds(cfg, slot, offset)
	cols.EndingFullRounds, offset = fullRounds(cfg, slot, offset)
	// Sanity check layout accounting
	if offset != uint(len(slot)) {
		panic("unreachable")
	}
	//
	return cols, nil
}

// view slices n elements of the slot starting at the given offset, returning
// the slice together with the offset one past its end.
func view[F any](slot []F, offset uint, n uint) ([]F, uint) {
	return slot[offset : offset+n : offset+n], offset + n
}

func fullRounds[F any](cfg Config, slot []F, offset uint) ([]FullRound[F], uint) {
	rounds := make([]FullRound[F], cfg.HalfFullRounds)
	//
	for i := range rounds {
		sbox := make([][]F, cfg.Width)
		//
		for j := range sbox {
			sbox[j], offset = view(slot, offset, cfg.SBoxRegisters)
		}
		//
		rounds[i].SBox = sbox
		rounds[i].Post, offset = view(slot, offset, cfg.Width)
	}
	//
	return rounds, offset
}

func partialRounds[F any](cfg Config, slot []F, offset uint) ([]PartialRound[F], uint) {
	rounds := make([]PartialRound[F], cfg.PartialRounds)
	//
	for i := range rounds {
		rounds[i].SBox, offset = view(slot, offset, cfg.SBoxRegisters)
		rounds[i].PostSBox = &slot[offset]
		offset++
	}
	//
	return rounds, offset
}
