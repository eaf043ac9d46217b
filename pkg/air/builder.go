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

import "github.com/consensys/go-poseidon2-air/pkg/util/field"

// Builder accumulates the polynomial identities asserted during constraint
// evaluation.  Evaluation never short circuits on a violated identity;
// deciding what a violation means is entirely the builder's concern.  A
// builder must be owned exclusively by one evaluation at a time, though
// distinct builders may be driven concurrently over disjoint rows.
type Builder[F field.Element[F]] interface {
	// AssertZero asserts the identity x = 0.
	AssertZero(x F)
	// AssertEq asserts the identity x = y.
	AssertEq(x, y F)
}

// Accumulator is a Builder which records the residue of every asserted
// identity, in assertion order.  An identity holds iff its residue is zero.
// Since evaluation visits constraints in a fixed deterministic order, residue
// indices are stable across evaluations and can be used to attribute
// failures.
type Accumulator[F field.Element[F]] struct {
	residues []F
}

// NewAccumulator constructs an empty accumulator.
func NewAccumulator[F field.Element[F]]() *Accumulator[F] {
	return &Accumulator[F]{}
}

// AssertZero implementation for the Builder interface.
func (p *Accumulator[F]) AssertZero(x F) {
	p.residues = append(p.residues, x)
}

// AssertEq implementation for the Builder interface.
func (p *Accumulator[F]) AssertEq(x, y F) {
	p.AssertZero(x.Sub(y))
}

// Count returns the number of identities asserted so far.
func (p *Accumulator[F]) Count() uint {
	return uint(len(p.residues))
}

// Residues returns the recorded residues in assertion order.  The returned
// slice is owned by the accumulator.
func (p *Accumulator[F]) Residues() []F {
	return p.residues
}

// Failures returns the indices of all violated identities, in assertion
// order.
func (p *Accumulator[F]) Failures() []uint {
	var failures []uint
	//
	for i, residue := range p.residues {
		if !residue.IsZero() {
			failures = append(failures, uint(i))
		}
	}
	//
	return failures
}

// Ok reports whether every asserted identity holds.
func (p *Accumulator[F]) Ok() bool {
	return len(p.Failures()) == 0
}

// Reset discards all recorded residues, allowing the accumulator to be
// reused for another row.
func (p *Accumulator[F]) Reset() {
	p.residues = p.residues[:0]
}
