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
package cmd

import (
	"encoding/json"
	"fmt"
	"math/big"
	"math/rand"
	"os"

	"github.com/consensys/go-poseidon2-air/pkg/air"
	"github.com/consensys/go-poseidon2-air/pkg/air/vector"
	"github.com/consensys/go-poseidon2-air/pkg/util/field"
	"github.com/consensys/go-poseidon2-air/pkg/util/field/bls12_377"
	"github.com/consensys/go-poseidon2-air/pkg/util/field/koalabear"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var checkCmd = &cobra.Command{
	Use:   "check [flags] row_file",
	Short: "check a flat trace row against the vectorized constraints.",
	Long: `Check a flat trace row (a JSON array of unsigned integers, one per column)
	 against the constraints of a vectorized Poseidon2 AIR constructed from the
	 given seed.  Exits with a non-zero status if any identity is violated.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		// Configure log level
		if GetFlag(cmd, "verbose") {
			log.SetLevel(log.DebugLevel)
		}
		//
		cfg, vectorLen := getConfig(cmd)
		seed := GetInt64(cmd, "seed")
		row := readRowFile(args[0])
		//
		var failures []uint
		//
		switch name := GetString(cmd, "field"); name {
		case "koalabear":
			failures = checkRow[koalabear.Element](cfg, vectorLen, seed, row)
		case "bls12-377":
			failures = checkRow[bls12_377.Element](cfg, vectorLen, seed, row)
		default:
			fmt.Printf("unknown field \"%s\"\n", name)
			os.Exit(2)
		}
		//
		if len(failures) != 0 {
			fmt.Printf("row violates %d constraint(s)\n", len(failures))
			os.Exit(1)
		}
		//
		fmt.Println("row accepted")
	},
}

// checkRow evaluates the vectorized constraints over the given row,
// returning the indices of all violated identities.
func checkRow[F field.Element[F]](cfg air.Config, vectorLen uint, seed int64, row []big.Int) []uint {
	vair, err := vector.NewFromRng[F](cfg, vectorLen, rand.New(rand.NewSource(seed)))
	if err != nil {
		fmt.Println(err)
		os.Exit(2)
	}
	// Convert the row into the field
	elements := make([]F, len(row))
	for i := range row {
		elements[i] = field.BigInt[F](row[i])
	}
	//
	builder := air.NewAccumulator[F]()
	//
	if err := vair.Eval(builder, elements); err != nil {
		fmt.Println(err)
		os.Exit(2)
	}
	//
	log.Debugf("evaluated %d constraints over %d slots", builder.Count(), vectorLen)
	//
	for _, index := range builder.Failures() {
		slot := index / vair.Inner().NumConstraints()
		log.Debugf("constraint %d (slot %d) violated", index, slot)
	}
	//
	return builder.Failures()
}

// readRowFile parses a flat trace row expressed as a JSON array of unsigned
// integers, e.g. [0, 1, 12345].
func readRowFile(filename string) []big.Int {
	var row []big.Int
	//
	bytes, err := os.ReadFile(filename)
	if err == nil {
		err = json.Unmarshal(bytes, &row)
	}
	// Handle error
	if err != nil {
		fmt.Println(err)
		os.Exit(2)
	}
	// Reject negative values before they reach the field conversion.
	for i := range row {
		if row[i].Sign() < 0 {
			fmt.Printf("negative value at column %d\n", i)
			os.Exit(2)
		}
	}
	//
	return row
}

func init() {
	checkCmd.Flags().Int64("seed", 0, "seed for the round-constant draw")
	checkCmd.Flags().String("field", "koalabear", "field to evaluate over (koalabear or bls12-377)")
	rootCmd.AddCommand(checkCmd)
}
