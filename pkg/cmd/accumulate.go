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

	"github.com/consensys/go-cxstl/pkg/util"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var accumulateCmd = &cobra.Command{
	Use:   "accumulate [flags]",
	Short: "sum random integers in parallel.",
	Long: `Generate a given number of random integers and sum them by dividing them
	 into blocks, each of which is summed on the work-stealing pool.`,
	Run: func(cmd *cobra.Command, args []string) {
		configureLogging(cmd)
		//
		var (
			size  = GetUint(cmd, "size")
			block = GetUint(cmd, "block")
			seed  = GetUint64(cmd, "seed")
			items = util.GenerateSeededInts(size, 1000, seed)
			pool  = newPool(cmd)
		)
		//
		defer pool.Close()
		//
		stats := util.NewPerfStats()
		//
		sum, err := util.ParallelAccumulateBlocks(pool, items, 0, block)
		if err != nil {
			log.Error(err)
			os.Exit(1)
		}
		//
		stats.Log("Parallel accumulate")
		log.Debugf("pool: %s", pool.Stats())
		//
		fmt.Printf("sum of %d items is %d\n", len(items), sum)
	},
}

//nolint:errcheck
func init() {
	rootCmd.AddCommand(accumulateCmd)
	accumulateCmd.Flags().Uint("size", 1000000, "number of items to sum")
	accumulateCmd.Flags().Uint("block", util.MIN_BLOCK_SIZE, "minimum number of items summed by each task")
	accumulateCmd.Flags().Uint64("seed", 0, "seed for random item generation")
}
