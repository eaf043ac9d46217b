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

import "fmt"

// Config fixes the dimensions of a Poseidon2 AIR instance: the permutation
// state width, the S-box exponent and how many of its intermediate powers are
// committed as registers, and the round schedule.  A Config is validated once
// at construction time (see NewFromRng) and is immutable thereafter.
type Config struct {
	// Width of the permutation state (number of field elements).
	Width uint
	// SBoxDegree is the exponent of the S-box x^d.
	SBoxDegree uint
	// SBoxRegisters is the number of committed intermediate powers used to
	// keep the per-round constraint degree low.
	SBoxRegisters uint
	// HalfFullRounds is the number of full rounds applied before (and,
	// again, after) the partial rounds.
	HalfFullRounds uint
	// PartialRounds is the number of partial rounds, in which only the first
	// state element passes through the S-box.
	PartialRounds uint
}

// Supported (degree, registers) pairs.  With zero registers the S-box is
// computed in-expression; otherwise each register is a committed power of the
// input, with one identity asserted per register.
var sboxShapes = map[[2]uint]bool{
	{3, 0}: true, {5, 0}: true, {7, 0}: true,
	{5, 1}: true, {7, 1}: true, {11, 2}: true,
}

// Validate checks that the configured dimensions describe a Poseidon2
// instance this package knows how to arithmetize.
func (p Config) Validate() error {
	if p.Width != 2 && p.Width != 3 && (p.Width == 0 || p.Width%4 != 0) {
		return fmt.Errorf("unsupported state width %d (must be 2, 3 or a multiple of 4)", p.Width)
	}
	//
	if !sboxShapes[[2]uint{p.SBoxDegree, p.SBoxRegisters}] {
		return fmt.Errorf("unsupported S-box shape (degree %d, registers %d)", p.SBoxDegree, p.SBoxRegisters)
	}
	//
	if p.HalfFullRounds == 0 {
		return fmt.Errorf("at least one full round required on each side")
	}
	//
	return nil
}

// NumColumns returns the number of trace columns one permutation instance
// occupies: the inputs, plus (registers + post) cells for every S-box
// application across the round schedule.
func (p Config) NumColumns() uint {
	var (
		fullRound    = p.Width * (p.SBoxRegisters + 1)
		partialRound = p.SBoxRegisters + 1
	)
	//
	return p.Width + 2*p.HalfFullRounds*fullRound + p.PartialRounds*partialRound
}

// NumConstraints returns the number of identities asserted when evaluating
// one permutation instance.  Every committed column beyond the inputs is
// constrained exactly once, hence this is NumColumns() - Width.
func (p Config) NumConstraints() uint {
	return p.NumColumns() - p.Width
}
