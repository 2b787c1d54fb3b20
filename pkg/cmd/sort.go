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
	"slices"

	"github.com/consensys/go-cxstl/pkg/util"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var sortCmd = &cobra.Command{
	Use:   "sort [flags]",
	Short: "sort random integers in parallel.",
	Long: `Generate a given number of random integers and sort them with a parallel
	 quicksort running on the work-stealing pool.`,
	Run: func(cmd *cobra.Command, args []string) {
		configureLogging(cmd)
		//
		var (
			size  = GetUint(cmd, "size")
			seed  = GetUint64(cmd, "seed")
			items = util.GenerateSeededInts(size, int(max(1, size)), seed)
			pool  = newPool(cmd)
		)
		//
		defer pool.Close()
		//
		stats := util.NewPerfStats()
		//
		if err := util.ParallelSort(pool, items); err != nil {
			log.Error(err)
			os.Exit(1)
		}
		//
		stats.Log("Parallel sort")
		log.Debugf("pool: %s", pool.Stats())
		//
		if !slices.IsSorted(items) {
			log.Error("output not sorted")
			os.Exit(1)
		}
		//
		fmt.Printf("sorted %d items using %d workers\n", len(items), pool.Workers())
	},
}

//nolint:errcheck
func init() {
	rootCmd.AddCommand(sortCmd)
	sortCmd.Flags().Uint("size", 1000000, "number of items to sort")
	sortCmd.Flags().Uint64("seed", 0, "seed for random item generation")
}
