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
	"testing"

	"github.com/consensys/go-poseidon2-air/pkg/util/assert"
	"github.com/consensys/go-poseidon2-air/pkg/util/field"
	"github.com/consensys/go-poseidon2-air/pkg/util/field/koalabear"
)

func TestAccumulatorRecordsResidues(t *testing.T) {
	var (
		builder = NewAccumulator[koalabear.Element]()
		one     = field.One[koalabear.Element]()
		two     = field.Uint64[koalabear.Element](2)
	)
	//
	builder.AssertZero(field.Zero[koalabear.Element]())
	builder.AssertEq(two, two)
	builder.AssertEq(two, one)
	builder.AssertZero(one)
	//
	assert.Equal(t, uint(4), builder.Count())
	assert.False(t, builder.Ok())
	// Identities 2 and 3 are violated; their residues are 2-1=1 and 1.
	assert.Equal(t, []uint{2, 3}, builder.Failures())
	assert.True(t, builder.Residues()[2].IsOne())
	//
	builder.Reset()
	assert.Equal(t, uint(0), builder.Count())
	assert.True(t, builder.Ok())
}
