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

// matMulExternal applies the external linear layer M_E to the state in
// place.  For widths 2 and 3 this is circ(2,1) and circ(2,1,1) respectively;
// for widths which are a multiple of 4 it is the M4 block construction of
// https://eprint.iacr.org/2023/323.pdf (circ(2M4, M4, ..., M4)).
func matMulExternal[F field.Element[F]](state []F) {
	switch len(state) {
	case 2:
		sum := state[0].Add(state[1])
		state[0] = state[0].Add(sum)
		state[1] = state[1].Add(sum)
	case 3:
		sum := state[0].Add(state[1]).Add(state[2])
		state[0] = state[0].Add(sum)
		state[1] = state[1].Add(sum)
		state[2] = state[2].Add(sum)
	case 4:
		matMulM4(state)
	default:
		matMulM4(state)
		// Fold the column sums back into every block.
		var sums [4]F
		//
		for i := 0; i < len(state); i += 4 {
			for j := 0; j < 4; j++ {
				sums[j] = sums[j].Add(state[i+j])
			}
		}
		//
		for i := 0; i < len(state); i += 4 {
			for j := 0; j < 4; j++ {
				state[i+j] = state[i+j].Add(sums[j])
			}
		}
	}
}

// matMulM4 multiplies each 4-element chunk of the state by the matrix M4,
// using the addition chain from appendix B of
// https://eprint.iacr.org/2023/323.pdf.
func matMulM4[F field.Element[F]](state []F) {
	for i := 0; i < len(state); i += 4 {
		var (
			s  = state[i : i+4]
			t0 = s[0].Add(s[1])
			t1 = s[2].Add(s[3])
			t2 = s[1].Add(s[1]).Add(t1)
			t3 = s[3].Add(s[3]).Add(t0)
			t4 = double(double(t1)).Add(t3)
			t5 = double(double(t0)).Add(t2)
		)
		//
		s[0] = t3.Add(t5)
		s[1] = t5
		s[2] = t2.Add(t4)
		s[3] = t4
	}
}

// matMulInternal applies the internal linear layer M_I to the state in
// place, where M_I is the all-ones matrix plus the given diagonal.
func matMulInternal[F field.Element[F]](state []F, diagonal []F) {
	var sum F
	//
	for _, s := range state {
		sum = sum.Add(s)
	}
	//
	for i := range state {
		state[i] = state[i].Mul(diagonal[i]).Add(sum)
	}
}

func double[F field.Element[F]](x F) F {
	return x.Add(x)
}
