/*
Copyright © 2020 NAME HERE <EMAIL ADDRESS>

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/pkg/profile"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/notargets/gocsem/InputParameters"
	"github.com/notargets/gocsem/MG3D"
	"github.com/notargets/gocsem/geometry3D"
)

type Model3D struct {
	InputFile string
	Verbose   int
	Parallel  int
	Profile   bool
}

// SolveCmd represents the solve command
var SolveCmd = &cobra.Command{
	Use:   "solve",
	Short: "Solve for the electric field of a dipole source described in a YAML input file",
	Long: `
Reads the grid, resistivity model, source and solver settings from a YAML file
and runs the multigrid solver, printing the convergence table.

gocsem solve -I input.yaml -v 2`,
	Run: func(cmd *cobra.Command, args []string) {
		var (
			err error
		)
		m3d := &Model3D{}
		if m3d.InputFile, err = cmd.Flags().GetString("inputConditionsFile"); err != nil {
			panic(err)
		}
		m3d.Profile, _ = cmd.Flags().GetBool("profile")
		m3d.Verbose = viper.GetInt("verbose")
		m3d.Parallel = viper.GetInt("parallel")
		ip := processInput(m3d)
		if m3d.Profile {
			defer profile.Start(profile.CPUProfile, profile.ProfilePath(".")).Stop()
		}
		if _, err = Run3D(m3d, ip, os.Stdout); err != nil {
			fmt.Printf("error: %s\n", err.Error())
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(SolveCmd)
	SolveCmd.Flags().StringP("inputConditionsFile", "I", "", "YAML file describing the grid, model, source and solver")
	SolveCmd.Flags().IntP("verbose", "v", 2, "0 = silent, 1 = summary, 2 = cycle table, 3 = level descents, 4 = Krylov iterations")
	SolveCmd.Flags().IntP("parallel", "p", 0, "goroutines applying the operator, 0 = number of CPUs")
	SolveCmd.Flags().Float64("tol", 0, "override the solver tolerance")
	SolveCmd.Flags().Int("maxit", 0, "override the maximum number of cycles or Krylov iterations")
	SolveCmd.Flags().Bool("profile", false, "write a CPU profile into the current directory")
	for _, name := range []string{"verbose", "parallel", "tol", "maxit"} {
		if err := viper.BindPFlag(name, SolveCmd.Flags().Lookup(name)); err != nil {
			panic(err)
		}
	}
}

func processInput(m3d *Model3D) (ip *InputParameters.InputParameters3D) {
	var (
		err  error
		data []byte
	)
	if len(m3d.InputFile) == 0 {
		err := fmt.Errorf("must supply an input parameters file (-I, --inputConditionsFile)")
		fmt.Printf("error: %s\n", err.Error())
		exampleFile := `
########################################
Title: "Fullspace"
Grid:
  Cells: [16, 16, 16]
  Width: [50, 50, 50]
  Origin: [-400, -400, -400]
Model:
  Frequency: 1.
  Resistivity: [1.]
Source:
  Position: [0, 0, 0]
  Axis: x
Solver:
  Cycle: F
  Semicoarsening: true # Can be false, 0-7 or a sequence like 1213
  LineRelaxation: 0
########################################
`
		fmt.Printf("Example File:%s\n", exampleFile)
		os.Exit(1)
	}
	if data, err = os.ReadFile(m3d.InputFile); err != nil {
		panic(err)
	}
	ip = &InputParameters.InputParameters3D{}
	if err = ip.Parse(data); err != nil {
		panic(err)
	}
	return
}

// Run3D solves the problem of ip and writes the progress to w. Values set in
// the config file or on the command line override the solver section.
func Run3D(m3d *Model3D, ip *InputParameters.InputParameters3D, w io.Writer) (info *MG3D.Info, err error) {
	var (
		opts   MG3D.Options
		grid   *geometry3D.TensorGrid
		sfield *MG3D.Field
		efield *MG3D.Field
		model  *MG3D.Model
	)
	if m3d.Verbose > 0 {
		ip.Print()
	}
	if grid, err = ip.BuildGrid(); err != nil {
		return
	}
	if model, err = ip.BuildModel(grid); err != nil {
		return
	}
	if sfield, err = ip.BuildSource(grid); err != nil {
		return
	}
	if opts, err = ip.Options(); err != nil {
		return
	}
	if viper.IsSet("tol") {
		opts.Tol = viper.GetFloat64("tol")
	}
	if viper.IsSet("maxit") {
		opts.MaxIt = viper.GetInt("maxit")
	}
	if m3d.Parallel > 0 {
		opts.ParallelDegree = m3d.Parallel
	}
	opts.Observer = MG3D.NewPrinter(w, m3d.Verbose)
	if efield, info, err = MG3D.Solve(grid, model, sfield, nil, opts); err != nil {
		return
	}
	if m3d.Verbose > 0 {
		fmt.Fprintf(w, "   > |E| = %10.4e over %d edges\n", efield.Norm(), len(efield.Data))
	}
	return
}
