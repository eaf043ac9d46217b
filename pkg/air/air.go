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

// Package air arithmetizes the Poseidon2 permutation: it defines the column
// layout one permutation instance occupies within a trace row, and evaluates
// the polynomial identities those columns must satisfy.  Witness generation
// (how the column values are computed) is outside its remit.
package air

import (
	"math/rand"
	"slices"

	"github.com/consensys/go-poseidon2-air/pkg/util/field"
)

// Air is the AIR definition of a single Poseidon2 permutation instance.  It
// holds the round constants and the internal-layer diagonal, all drawn once
// at construction, and is immutable thereafter.  Consequently, a single Air
// may evaluate many rows concurrently, provided each evaluation owns its
// builder exclusively.
type Air[F field.Element[F]] struct {
	cfg Config
	// beginningFullRoundConstants[r][i] is added to state element i in the
	// r-th full round before the partial rounds.
	beginningFullRoundConstants [][]F
	// partialRoundConstants[r] is added to state element 0 in the r-th
	// partial round.
	partialRoundConstants []F
	// endingFullRoundConstants[r][i] is added to state element i in the r-th
	// full round after the partial rounds.
	endingFullRoundConstants [][]F
	// internalDiagonal parameterizes the internal linear layer.
	internalDiagonal []F
}

// NewFromRng constructs an Air for the given dimensions, drawing the round
// constants and the internal-layer diagonal from the given source.  The draw
// is deterministic: identical sources yield identical definitions.  The
// configuration is validated here, once; all later operations may assume it.
func NewFromRng[F field.Element[F]](cfg Config, rng *rand.Rand) (Air[F], error) {
	if err := cfg.Validate(); err != nil {
		return Air[F]{}, err
	}
	//
	return Air[F]{
		cfg:                         cfg,
		beginningFullRoundConstants: randomMatrix[F](rng, cfg.HalfFullRounds, cfg.Width),
		partialRoundConstants:       randomVector[F](rng, cfg.PartialRounds),
		endingFullRoundConstants:    randomMatrix[F](rng, cfg.HalfFullRounds, cfg.Width),
		internalDiagonal:            randomVector[F](rng, cfg.Width),
	}, nil
}

// Config returns the dimensions this definition was constructed for.
func (p Air[F]) Config() Config {
	return p.cfg
}

// Width returns the number of trace columns this definition constrains.
// This must agree with the length of every row handed to EvalRow.
func (p Air[F]) Width() uint {
	return p.cfg.NumColumns()
}

// NumConstraints returns the number of identities Eval asserts.
func (p Air[F]) NumConstraints() uint {
	return p.cfg.NumConstraints()
}

// EvalRow reinterprets a flat row as this definition's column layout and
// evaluates it, failing eagerly if the row length does not match.
func (p Air[F]) EvalRow(builder Builder[F], row []F) error {
	cols, err := ColumnsOf[F](p.cfg, row)
	if err != nil {
		return err
	}
	//
	p.Eval(builder, cols)
	//
	return nil
}

// Eval asserts, through the given builder, the round identities tying the
// committed columns of one permutation instance together: the inputs pass
// through the external layer, then every round's S-box outputs and
// post-round state must match their committed cells.  Constraints are
// visited in a fixed order, so builder-side bookkeeping is deterministic.
func (p Air[F]) Eval(builder Builder[F], cols Cols[F]) {
	state := slices.Clone(cols.Inputs)
	// Initial external layer
	matMulExternal(state)
	//
	for r, round := range cols.BeginningFullRounds {
		p.evalFullRound(builder, state, round, p.beginningFullRoundConstants[r])
	}
	//
	for r, round := range cols.PartialRounds {
		p.evalPartialRound(builder, state, round, p.partialRoundConstants[r])
	}
	//
	for r, round := range cols.EndingFullRounds {
		p.evalFullRound(builder, state, round, p.endingFullRoundConstants[r])
	}
}

func (p Air[F]) evalFullRound(builder Builder[F], state []F, round FullRound[F], constants []F) {
	for i := range state {
		state[i] = state[i].Add(constants[i])
		state[i] = p.evalSBox(builder, round.SBox[i], state[i])
	}
	//
	matMulExternal(state)
	// Post-round state is committed; constrain and continue from it.
	for i := range state {
		builder.AssertEq(state[i], round.Post[i])
	}
	//
	copy(state, round.Post)
}

func (p Air[F]) evalPartialRound(builder Builder[F], state []F, round PartialRound[F], constant F) {
	state[0] = state[0].Add(constant)
	//
	builder.AssertEq(p.evalSBox(builder, round.SBox, state[0]), *round.PostSBox)
	//
	state[0] = *round.PostSBox
	matMulInternal(state, p.internalDiagonal)
}

// evalSBox computes x^degree, asserting one identity per committed register.
// Registers cap the degree any single identity reaches; with none, the full
// power is computed in-expression.
func (p Air[F]) evalSBox(builder Builder[F], registers []F, x F) F {
	x2 := x.Mul(x)
	x3 := x2.Mul(x)
	//
	switch shape := [2]uint{p.cfg.SBoxDegree, p.cfg.SBoxRegisters}; shape {
	case [2]uint{3, 0}:
		return x3
	case [2]uint{5, 0}:
		return x2.Mul(x2).Mul(x)
	case [2]uint{7, 0}:
		return x3.Mul(x3).Mul(x)
	case [2]uint{5, 1}:
		// registers[0] = x^3, output x^5
		builder.AssertEq(registers[0], x3)
		return registers[0].Mul(x2)
	case [2]uint{7, 1}:
		// registers[0] = x^3, output x^7
		builder.AssertEq(registers[0], x3)
		return registers[0].Mul(registers[0]).Mul(x)
	case [2]uint{11, 2}:
		// registers[0] = x^3, registers[1] = x^9, output x^11
		builder.AssertEq(registers[0], x3)
		builder.AssertEq(registers[1], registers[0].Mul(registers[0]).Mul(registers[0]))
		return registers[1].Mul(x2)
	default:
		// Excluded by Config.Validate
		panic("unreachable")
	}
}

func randomVector[F field.Element[F]](rng *rand.Rand, n uint) []F {
	vector := make([]F, n)
	//
	for i := range vector {
		vector[i] = field.Uint64[F](rng.Uint64())
	}
	//
	return vector
}

func randomMatrix[F field.Element[F]](rng *rand.Rand, rows uint, cols uint) [][]F {
	matrix := make([][]F, rows)
	//
	for i := range matrix {
		matrix[i] = randomVector[F](rng, cols)
	}
	//
	return matrix
}
