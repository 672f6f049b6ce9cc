package main

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/ajroetker/go-stencil/stencil"
)

func newInfoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "info",
		Short: "Print the detected CPU target and default backend",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "Target:     %s\n", stencil.CurrentName())
			fmt.Fprintf(w, "FMA:        %v\n", stencil.HasFMA())
			fmt.Fprintf(w, "Vectors:    %d bytes, %d float32 lanes\n", stencil.CurrentWidth(), stencil.MaxLanes[float32]())
			fmt.Fprintf(w, "Rows:       %s\n", rowKernel())
			fmt.Fprintf(w, "Backend:    %s\n", stencil.CurrentLevel())
			fmt.Fprintf(w, "CPUs:       %d (GOMAXPROCS %d)\n", runtime.NumCPU(), runtime.GOMAXPROCS(0))
			fmt.Fprintf(w, "NoParallel: %v\n", stencil.NoParallelEnv())
		},
	}
}

func rowKernel() string {
	if stencil.NoSimdEnv() {
		return "scalar (STENCIL_NO_SIMD)"
	}
	return "lanes"
}
