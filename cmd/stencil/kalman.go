package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"gonum.org/v1/gonum/mat"

	"github.com/ajroetker/go-stencil/stencil/contrib/kalman"
)

func newKalmanCmd(root *rootOptions) *cobra.Command {
	var (
		outDir string
		sigma0 float64
	)
	cmd := &cobra.Command{
		Use:   "kalman MEASUREMENTS",
		Short: "Estimate a trajectory from a CSV of measurements, one x,y,z row per time step",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			meas, err := readTrajectory(args[0])
			if err != nil {
				return err
			}
			m := kalman.DefaultModel()
			_, steps := meas.Dims()

			blind, err := kalman.Blind(m, kalman.DefaultInitialState, steps)
			if err != nil {
				return err
			}
			observed, err := kalman.Observed(m, meas)
			if err != nil {
				return err
			}
			filtered, err := kalman.Track(m, kalman.DefaultInitialState, sigma0, meas)
			if err != nil {
				return err
			}
			root.logger.Debug("kalman done", "steps", steps, "sigma0", sigma0)

			if err := os.MkdirAll(outDir, 0o755); err != nil {
				return err
			}
			outputs := []struct {
				name string
				traj mat.Matrix
			}{
				{"blind.csv", blind.Slice(0, kalman.MeasDim, 0, steps)},
				{"observed.csv", observed},
				{"filtered.csv", filtered.Slice(0, kalman.MeasDim, 0, steps)},
			}
			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "Steps: %d\n", steps)
			for _, o := range outputs {
				path := filepath.Join(outDir, o.name)
				if err := writeTrajectory(path, o.traj); err != nil {
					return err
				}
				fmt.Fprintf(w, "%-13s final position (%.4f, %.4f, %.4f)\n",
					o.name, o.traj.At(0, steps-1), o.traj.At(1, steps-1), o.traj.At(2, steps-1))
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&outDir, "out-dir", "o", ".", "Directory for the output CSVs")
	cmd.Flags().Float64Var(&sigma0, "sigma0", kalman.DefaultSigma0, "Initial covariance scale")
	return cmd
}

func readTrajectory(path string) (*mat.Dense, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return kalman.ReadCSV(f)
}

func writeTrajectory(path string, traj mat.Matrix) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()
	return kalman.WriteCSV(f, traj)
}
