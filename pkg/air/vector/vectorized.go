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

// Package vector packs several independent Poseidon2 permutation instances
// into one wider trace row, amortizing the per-row fixed cost of proving.
// Each instance ("slot") occupies its own contiguous column range and is
// constrained by one shared inner AIR definition.
package vector

import (
	"fmt"
	"math/rand"

	"github.com/consensys/go-poseidon2-air/pkg/air"
	"github.com/consensys/go-poseidon2-air/pkg/util/field"
)

// Cols is a typed view over one vectorized trace row: an ordered, fixed-size
// sequence of per-instance column records laid out contiguously with no
// padding.  Slot i views row elements [i*W, (i+1)*W), where W is the inner
// definition's width.  As with air.Cols, the view is zero copy.
type Cols[F any] []air.Cols[F]

// SlotsOf reinterprets a flat row of exactly vectorLen * cfg.NumColumns()
// field elements as vectorLen independent column records.  Rows of any other
// length yield air.ErrLayoutMismatch; there is no unchecked path which could
// silently produce a misaligned view.
func SlotsOf[F any](cfg air.Config, vectorLen uint, row []F) (Cols[F], error) {
	width := cfg.NumColumns()
	//
	if uint(len(row)) != vectorLen*width {
		return nil, fmt.Errorf("%w: have %d columns, expected %d (%d slots of %d)",
			air.ErrLayoutMismatch, len(row), vectorLen*width, vectorLen, width)
	}
	//
	slots := make(Cols[F], vectorLen)
	//
	for i := range slots {
		slot, err := air.ColumnsOf[F](cfg, row[uint(i)*width:(uint(i)+1)*width])
		// Unreachable given the length check above
		if err != nil {
			return nil, err
		}
		//
		slots[i] = slot
	}
	//
	return slots, nil
}

// Air is a vectorized Poseidon2 AIR definition: it constrains vectorLen
// independent permutation instances per trace row, all sharing one inner
// definition (and hence one draw of round constants).  Like the inner
// definition, it is immutable after construction.
type Air[F field.Element[F]] struct {
	inner     air.Air[F]
	vectorLen uint
}

// NewFromRng constructs a vectorized definition for the given dimensions,
// delegating entirely to the inner definition's randomized constructor.  No
// per-slot differentiation occurs: every slot reuses the one drawn
// configuration.
func NewFromRng[F field.Element[F]](cfg air.Config, vectorLen uint, rng *rand.Rand) (Air[F], error) {
	if vectorLen == 0 {
		return Air[F]{}, fmt.Errorf("vector length must be at least 1")
	}
	//
	inner, err := air.NewFromRng[F](cfg, rng)
	if err != nil {
		return Air[F]{}, err
	}
	//
	return Air[F]{inner: inner, vectorLen: vectorLen}, nil
}

// Inner returns the shared single-instance definition.
func (p Air[F]) Inner() air.Air[F] {
	return p.inner
}

// VectorLen returns the number of permutation instances per trace row.
func (p Air[F]) VectorLen() uint {
	return p.vectorLen
}

// Width returns the total number of trace columns, i.e. the inner width
// multiplied by the vector length.  This is the sole sizing contract exposed
// upward: trace and commitment sizing must agree with it.
func (p Air[F]) Width() uint {
	return p.inner.Width() * p.vectorLen
}

// NumConstraints returns the number of identities Eval asserts across all
// slots.
func (p Air[F]) NumConstraints() uint {
	return p.inner.NumConstraints() * p.vectorLen
}

// Eval reinterprets the given row as vectorLen slots and evaluates the inner
// definition against each in ascending slot order, all through the one
// shared builder.  Slots are mutually independent, but the ascending order
// keeps builder-side bookkeeping (and debugging) deterministic.  Every slot
// is always evaluated; violated identities are the builder's concern.  The
// only error condition is a row of the wrong length.
func (p Air[F]) Eval(builder air.Builder[F], row []F) error {
	slots, err := SlotsOf[F](p.inner.Config(), p.vectorLen, row)
	if err != nil {
		return err
	}
	//
	for _, slot := range slots {
		p.inner.Eval(builder, slot)
	}
	//
	return nil
}
