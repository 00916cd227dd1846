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
	"io/ioutil"
	"math"
	"time"

	"github.com/notargets/pafem/InputParameters"
	"github.com/notargets/pafem/device"
	"github.com/notargets/pafem/geometry"
	"github.com/notargets/pafem/operators"
	"github.com/pkg/profile"
	"github.com/spf13/cobra"
)

// BenchCmd represents the bench command
var BenchCmd = &cobra.Command{
	Use:   "bench",
	Short: "Times the matrix-free operator application",
	Long: `
Assembles the convection operator on a Cartesian mesh and times repeated
applications of the sum factorized kernels,

pafem bench -d 3 -n 3 -x 32`,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("bench called")
		ip := benchInput(cmd)
		if prof, _ := cmd.Flags().GetBool("profile"); prof {
			defer profile.Start().Stop()
		}
		RunBench(ip)
	},
}

func benchInput(cmd *cobra.Command) (ip *InputParameters.InputParameters) {
	var (
		err error
	)
	ip = &InputParameters.InputParameters{}
	if icFile, _ := cmd.Flags().GetString("inputParametersFile"); len(icFile) != 0 {
		var data []byte
		if data, err = ioutil.ReadFile(icFile); err != nil {
			panic(err)
		}
		if err = ip.Parse(data); err != nil {
			panic(err)
		}
	} else {
		ip.Dimension, _ = cmd.Flags().GetInt("dimension")
		ip.PolynomialOrder, _ = cmd.Flags().GetInt("n")
		ip.QuadraturePts, _ = cmd.Flags().GetInt("q")
		ip.MeshNX, _ = cmd.Flags().GetInt("nx")
		ip.MeshNY, _ = cmd.Flags().GetInt("ny")
		ip.MeshNZ, _ = cmd.Flags().GetInt("nz")
		ip.MeshEps, _ = cmd.Flags().GetFloat64("eps")
		ip.Alpha, _ = cmd.Flags().GetFloat64("alpha")
		ip.Steps, _ = cmd.Flags().GetInt("steps")
		ip.Serial, _ = cmd.Flags().GetBool("serial")
	}
	ip.ApplyDefaults()
	ip.Print()
	return
}

func init() {
	rootCmd.AddCommand(BenchCmd)
	BenchCmd.Flags().StringP("inputParametersFile", "I", "", "YAML file for input parameters like:\n\t- PolynomialOrder\n\t- MeshNX")
	BenchCmd.Flags().IntP("dimension", "d", 2, "spatial dimension, 2 or 3")
	BenchCmd.Flags().IntP("n", "n", 3, "polynomial degree")
	BenchCmd.Flags().IntP("q", "q", 0, "quadrature points per direction, 0 selects n+2")
	BenchCmd.Flags().IntP("nx", "x", 16, "elements in x")
	BenchCmd.Flags().IntP("ny", "y", 16, "elements in y")
	BenchCmd.Flags().IntP("nz", "z", 16, "elements in z")
	BenchCmd.Flags().Float64P("eps", "e", 0.05, "mesh deformation amplitude")
	BenchCmd.Flags().Float64P("alpha", "a", 1, "coefficient scaling the operator")
	BenchCmd.Flags().IntP("steps", "s", 100, "number of operator applications to time")
	BenchCmd.Flags().Bool("serial", false, "run the kernels single threaded")
	BenchCmd.Flags().Bool("profile", false, "write a CPU profile")
}

func RunBench(ip *InputParameters.InputParameters) {
	if ip.Serial {
		device.SetMode(device.Serial)
	}
	var (
		m  = benchMesh(ip)
		c  = operators.NewConvection(ip.Dimension, ip.PolynomialOrder, ip.QuadraturePts)
		er = geometry.NewElementRestriction(m, ip.PolynomialOrder)
		ne = m.NE()
	)
	c.AssemblePA(ne, m.Jacobians(c.Maps()), ip.Velocity, ip.Alpha)
	var (
		xG = make([]float64, er.NGlobal)
		xE = make([]float64, er.NElem)
		yE = make([]float64, er.NElem)
		yG = make([]float64, er.NGlobal)
	)
	for i := range xG {
		xG[i] = math.Sin(float64(i))
	}
	er.Gather(xG, xE)
	start := time.Now()
	for s := 0; s < ip.Steps; s++ {
		c.AddMultPA(xE, yE)
	}
	elapsed := time.Since(start)
	er.ScatterAdd(yE, yG)
	var (
		dofs   = float64(er.NElem) * float64(ip.Steps)
		perSec = dofs / elapsed.Seconds()
	)
	fmt.Printf("%d elements, %d dofs, %d applications in %v\n",
		ne, er.NElem, ip.Steps, elapsed)
	fmt.Printf("%8.3f Mdof/s\n", perSec/1.e6)
}

func benchMesh(ip *InputParameters.InputParameters) (m *geometry.CartesianMesh) {
	if ip.Dimension == 3 {
		m = geometry.NewCartesianMesh3D(ip.MeshNX, ip.MeshNY, ip.MeshNZ,
			ip.MeshLX, ip.MeshLY, ip.MeshLZ)
	} else {
		m = geometry.NewCartesianMesh2D(ip.MeshNX, ip.MeshNY, ip.MeshLX, ip.MeshLY)
	}
	m.Eps = ip.MeshEps
	return
}
