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
package util

import "math/rand/v2"

// GenerateRandomInputs generates n random inputs in the range 0..m.
func GenerateRandomInputs(n, m uint) []uint {
	items := make([]uint, n)

	for i := uint(0); i < n; i++ {
		items[i] = rand.UintN(m)
	}

	return items
}

// GenerateSeededInts generates n random integers in the range 0..m using a
// deterministic generator, such that runs with the same seed are repeatable.
func GenerateSeededInts(n uint, m int, seed uint64) []int {
	var (
		rng   = rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
		items = make([]int, n)
	)
	//
	for i := range items {
		items[i] = rng.IntN(m)
	}
	//
	return items
}
