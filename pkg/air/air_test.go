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
	"math/rand"
	"slices"
	"testing"

	"github.com/consensys/go-poseidon2-air/pkg/util/assert"
	"github.com/consensys/go-poseidon2-air/pkg/util/field"
	"github.com/consensys/go-poseidon2-air/pkg/util/field/bls12_377"
	"github.com/consensys/go-poseidon2-air/pkg/util/field/koalabear"
)

func TestConstructionRejectsInvalidConfig(t *testing.T) {
	cfg := Config{Width: 5, SBoxDegree: 3, HalfFullRounds: 1}
	//
	_, err := NewFromRng[koalabear.Element](cfg, rand.New(rand.NewSource(0)))
	assert.True(t, err != nil)
}

func TestConstructionIsDeterministic(t *testing.T) {
	for _, cfg := range testConfigs {
		var (
			rng  = rand.New(rand.NewSource(7))
			row  = randomVector[koalabear.Element](rng, cfg.NumColumns())
			a, _ = NewFromRng[koalabear.Element](cfg, rand.New(rand.NewSource(1)))
			b, _ = NewFromRng[koalabear.Element](cfg, rand.New(rand.NewSource(1)))
			c, _ = NewFromRng[koalabear.Element](cfg, rand.New(rand.NewSource(2)))
		)
		// Identical seeds draw identical definitions...
		assert.Equal(t, residuesOf(t, a, row), residuesOf(t, b, row))
		// ...which a different seed will not reproduce.
		assert.False(t, slices.Equal(residuesOf(t, a, row), residuesOf(t, c, row)))
	}
}

func TestEvalAssertsDeclaredCount(t *testing.T) {
	rng := rand.New(rand.NewSource(11))
	//
	for _, cfg := range testConfigs {
		var (
			p, err  = NewFromRng[koalabear.Element](cfg, rng)
			row     = randomVector[koalabear.Element](rng, cfg.NumColumns())
			builder = NewAccumulator[koalabear.Element]()
		)
		//
		assert.NoError(t, err)
		assert.NoError(t, p.EvalRow(builder, row))
		assert.Equal(t, p.NumConstraints(), builder.Count())
		assert.Equal(t, cfg.NumColumns(), p.Width())
	}
}

func TestEvalRejectsWrongLength(t *testing.T) {
	var (
		cfg     = testConfigs[0]
		p, _    = NewFromRng[koalabear.Element](cfg, rand.New(rand.NewSource(0)))
		builder = NewAccumulator[koalabear.Element]()
	)
	//
	for _, delta := range []int{-1, 1} {
		row := make([]koalabear.Element, int(cfg.NumColumns())+delta)
		assert.IsError(t, p.EvalRow(builder, row), ErrLayoutMismatch)
	}
	// Nothing may have been asserted along the failing paths.
	assert.Equal(t, uint(0), builder.Count())
}

func TestValidTraceRowIsAccepted(t *testing.T) {
	validTraceRow[koalabear.Element](t)
	validTraceRow[bls12_377.Element](t)
}

func validTraceRow[F field.Element[F]](t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	//
	for _, cfg := range testConfigs {
		var (
			p, err  = NewFromRng[F](cfg, rng)
			row     = make([]F, cfg.NumColumns())
			inputs  = randomVector[F](rng, cfg.Width)
			builder = NewAccumulator[F]()
		)
		//
		assert.NoError(t, err)
		fillValidRow(p, row, inputs)
		assert.NoError(t, p.EvalRow(builder, row))
		assert.True(t, builder.Ok(), "violated %v under %v", builder.Failures(), cfg)
		// Any single-cell perturbation must break some identity.
		index := rng.Intn(len(row))
		row[index] = row[index].Add(field.One[F]())
		builder.Reset()
		//
		assert.NoError(t, p.EvalRow(builder, row))
		assert.False(t, builder.Ok(), "perturbed cell %d went unnoticed under %v", index, cfg)
	}
}

// residuesOf evaluates the given row and returns a copy of the resulting
// residues.
func residuesOf[F field.Element[F]](t *testing.T, p Air[F], row []F) []F {
	builder := NewAccumulator[F]()
	//
	assert.NoError(t, p.EvalRow(builder, row))
	//
	return slices.Clone(builder.Residues())
}

// fillValidRow populates a row with a consistent witness for the given
// inputs, by running the permutation forward and committing every register
// and post-round state along the way.
func fillValidRow[F field.Element[F]](p Air[F], row []F, inputs []F) {
	cols, err := ColumnsOf(p.cfg, row)
	if err != nil {
		panic(err)
	}
	//
	copy(cols.Inputs, inputs)
	//
	state := slices.Clone(inputs)
	matMulExternal(state)
	//
	for r, round := range cols.BeginningFullRounds {
		fillFullRound(p.cfg, state, round, p.beginningFullRoundConstants[r])
	}
	//
	for r, round := range cols.PartialRounds {
		state[0] = state[0].Add(p.partialRoundConstants[r])
		*round.PostSBox = fillSBox(p.cfg, round.SBox, state[0])
		state[0] = *round.PostSBox
		matMulInternal(state, p.internalDiagonal)
	}
	//
	for r, round := range cols.EndingFullRounds {
		fillFullRound(p.cfg, state, round, p.endingFullRoundConstants[r])
	}
}

func fillFullRound[F field.Element[F]](cfg Config, state []F, round FullRound[F], constants []F) {
	for i := range state {
		state[i] = state[i].Add(constants[i])
		state[i] = fillSBox(cfg, round.SBox[i], state[i])
	}
	//
	matMulExternal(state)
	copy(round.Post, state)
}

// fillSBox computes x^degree, committing the intermediate powers the
// constraints expect to find in the register cells.
func fillSBox[F field.Element[F]](cfg Config, registers []F, x F) F {
	x2 := x.Mul(x)
	x3 := x2.Mul(x)
	//
	if cfg.SBoxRegisters > 0 {
		registers[0] = x3
	}
	//
	switch cfg.SBoxDegree {
	case 3:
		return x3
	case 5:
		return x3.Mul(x2)
	case 7:
		return x3.Mul(x3).Mul(x)
	case 11:
		x9 := x3.Mul(x3).Mul(x3)
		registers[1] = x9
		//
		return x9.Mul(x2)
	default:
		panic("unreachable")
	}
}
