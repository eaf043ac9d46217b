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
	"fmt"
	"os"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var infoCmd = &cobra.Command{
	Use:   "info [flags]",
	Short: "report the column accounting of a given configuration.",
	Long: `Report, for the configured dimensions, the width of a single permutation
	 instance, the total width of a vectorized row, the slot offsets and the
	 number of constraints evaluated per row.`,
	Run: func(cmd *cobra.Command, args []string) {
		// Configure log level
		if GetFlag(cmd, "verbose") {
			log.SetLevel(log.DebugLevel)
		}
		//
		cfg, vectorLen := getConfig(cmd)
		// Sanity check dimensions before reporting on them.
		if err := cfg.Validate(); err != nil {
			fmt.Println(err)
			os.Exit(2)
		}
		//
		width := cfg.NumColumns()
		//
		fmt.Printf("instance width:      %d\n", width)
		fmt.Printf("instances per row:   %d\n", vectorLen)
		fmt.Printf("total width:         %d\n", vectorLen*width)
		fmt.Printf("constraints per row: %d\n", vectorLen*cfg.NumConstraints())
		//
		for i := uint(0); i < vectorLen; i++ {
			log.Debugf("slot %d occupies columns [%d, %d)", i, i*width, (i+1)*width)
		}
	},
}

func init() {
	rootCmd.AddCommand(infoCmd)
}
