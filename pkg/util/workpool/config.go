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
	"runtime"
	"time"

	"github.com/cockroachdb/errors"
	log "github.com/sirupsen/logrus"
)

// LOCAL_QUEUE_LIMIT is the default bound on a worker's local queue, beyond
// which submissions from that worker overflow onto the global queue.
const LOCAL_QUEUE_LIMIT = 1024

// ErrInvalidConfig is returned when constructing a pool from an invalid
// configuration.
var ErrInvalidConfig = errors.New("invalid pool configuration")

// Config determines the shape and behaviour of a pool.
type Config struct {
	// Number of worker goroutines.
	Workers int
	// Maximum length of a worker's local queue.  Zero means all submissions go
	// to the global queue.
	LocalQueueLimit int
	// Number of consecutive empty scheduling steps after which a worker sleeps,
	// rather than just yielding.
	IdleSpins int
	// Duration of an idle sleep.
	IdleSleep time.Duration
	// Invoked (on the constructing goroutine) before each worker is started.
	// An error aborts construction.
	OnStart func(worker int) error
	// Logger for pool lifecycle events.
	Logger log.FieldLogger
}

// DefaultConfig returns a configuration with one worker per available
// processor.
func DefaultConfig() Config {
	return Config{
		Workers:         runtime.GOMAXPROCS(0),
		LocalQueueLimit: LOCAL_QUEUE_LIMIT,
		IdleSpins:       64,
		IdleSleep:       50 * time.Microsecond,
		Logger:          log.StandardLogger(),
	}
}

func (c *Config) validate() error {
	switch {
	case c.Workers < 1:
		return errors.Wrapf(ErrInvalidConfig, "%d workers", c.Workers)
	case c.LocalQueueLimit < 0:
		return errors.Wrapf(ErrInvalidConfig, "local queue limit %d", c.LocalQueueLimit)
	case c.IdleSpins < 0:
		return errors.Wrapf(ErrInvalidConfig, "%d idle spins", c.IdleSpins)
	case c.IdleSleep < 0:
		return errors.Wrapf(ErrInvalidConfig, "idle sleep %s", c.IdleSleep)
	}
	//
	if c.Logger == nil {
		c.Logger = log.StandardLogger()
	}
	//
	return nil
}
