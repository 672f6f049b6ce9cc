// Copyright 2025 go-stencil Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Command stencil sharpens images until their variance grows by a given
// factor, and estimates ballistic trajectories from noisy measurements.
//
// Usage:
//
//	stencil sharpen in.png out.png                      # defaults: eps 0.005, 32x32 tiles, x1.1
//	stencil sharpen in.png out.png --epsilon 0.01 --backend scalar
//	stencil kalman measurements.csv --out-dir traj/     # writes blind, observed, filtered CSVs
//	stencil info                                        # CPU target and backend selection
//
// Set STENCIL_NO_PARALLEL=1 to force the scalar backend, and STENCIL_NO_SIMD=1
// to run the sharpen rows without vector lanes.
package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
)

type rootOptions struct {
	verbose bool
	logger  *slog.Logger
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	root := &cobra.Command{
		Use:           "stencil",
		Short:         "Iterative image sharpening and trajectory filtering",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			opts.logger = newLogger(cmd.ErrOrStderr(), opts.verbose)
		},
	}
	root.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "Log every iteration")

	root.AddCommand(
		newSharpenCmd(opts),
		newKalmanCmd(opts),
		newInfoCmd(),
	)
	return root
}

func newLogger(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := newRootCmd().ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
