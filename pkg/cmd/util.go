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

	"github.com/consensys/go-cxstl/pkg/util/workpool"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

// GetFlag gets an expected flag, or exits if an error arises.
func GetFlag(cmd *cobra.Command, flag string) bool {
	r, err := cmd.Flags().GetBool(flag)
	if err != nil {
		fmt.Println(err)
		os.Exit(2)
	}

	return r
}

// GetUint gets an expected unsigned integer flag, or exits if an error arises.
func GetUint(cmd *cobra.Command, flag string) uint {
	r, err := cmd.Flags().GetUint(flag)
	if err != nil {
		fmt.Println(err)
		os.Exit(2)
	}

	return r
}

// GetUint64 gets an expected 64bit unsigned integer flag, or exits if an error
// arises.
func GetUint64(cmd *cobra.Command, flag string) uint64 {
	r, err := cmd.Flags().GetUint64(flag)
	if err != nil {
		fmt.Println(err)
		os.Exit(2)
	}

	return r
}

// Configure logging for a command.  Debug output is enabled by the verbose
// flag, and colours are only used when writing to a terminal.
func configureLogging(cmd *cobra.Command) {
	if GetFlag(cmd, "verbose") {
		log.SetLevel(log.DebugLevel)
	}
	//
	log.SetFormatter(&log.TextFormatter{
		ForceColors:      term.IsTerminal(int(os.Stderr.Fd())),
		DisableColors:    !term.IsTerminal(int(os.Stderr.Fd())),
		FullTimestamp:    true,
		DisableTimestamp: false,
	})
}

// Construct a worker pool as determined by the workers flag, or exit if this
// fails.
func newPool(cmd *cobra.Command) *workpool.Pool {
	cfg := workpool.DefaultConfig()
	//
	if n := GetUint(cmd, "workers"); n != 0 {
		cfg.Workers = int(n)
	}
	//
	cfg.OnStart = func(worker int) error {
		log.Debugf("starting worker %d", worker)
		return nil
	}
	//
	pool, err := workpool.New(cfg)
	if err != nil {
		log.Error(err)
		os.Exit(1)
	}
	//
	return pool
}
