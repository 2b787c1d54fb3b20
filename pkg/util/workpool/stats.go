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
package workpool

import (
	"fmt"

	"go.uber.org/atomic"
)

// Stats records the activity of a pool.
type Stats struct {
	Submitted  atomic.Uint64
	Executed   atomic.Uint64
	LocalPops  atomic.Uint64
	GlobalPops atomic.Uint64
	Steals     atomic.Uint64
	IdleSpins  atomic.Uint64
	Panics     atomic.Uint64
}

// Snapshot is a point-in-time copy of a pool's statistics.
type Snapshot struct {
	Submitted  uint64
	Executed   uint64
	LocalPops  uint64
	GlobalPops uint64
	Steals     uint64
	IdleSpins  uint64
	Panics     uint64
}

func (s *Stats) snapshot() Snapshot {
	return Snapshot{
		Submitted:  s.Submitted.Load(),
		Executed:   s.Executed.Load(),
		LocalPops:  s.LocalPops.Load(),
		GlobalPops: s.GlobalPops.Load(),
		Steals:     s.Steals.Load(),
		IdleSpins:  s.IdleSpins.Load(),
		Panics:     s.Panics.Load(),
	}
}

func (s Snapshot) String() string {
	return fmt.Sprintf("submitted %d, executed %d (local %d, global %d, stolen %d), idle %d, panics %d",
		s.Submitted, s.Executed, s.LocalPops, s.GlobalPops, s.Steals, s.IdleSpins, s.Panics)
}
