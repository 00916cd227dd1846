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
	"math"
	"math/rand"
	"os"

	"github.com/notargets/pafem/geometry"
	"github.com/notargets/pafem/operators"
	"github.com/spf13/cobra"
)

// VerifyCmd represents the verify command
var VerifyCmd = &cobra.Command{
	Use:   "verify",
	Short: "Cross checks the tiled kernels against the generic ones",
	Long: `
Sweeps polynomial degree and quadrature size on a deformed mesh,
comparing the tiled kernels to the generic fallback and checking the
adjoint identity <Ax,y> = <x,A^T y>,

pafem verify -d 3`,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("verify called")
		dim, _ := cmd.Flags().GetInt("dimension")
		nMax, _ := cmd.Flags().GetInt("nMax")
		if !RunVerify(dim, nMax) {
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(VerifyCmd)
	VerifyCmd.Flags().IntP("dimension", "d", 2, "spatial dimension, 2 or 3")
	VerifyCmd.Flags().IntP("nMax", "n", 6, "highest polynomial degree to sweep")
}

func RunVerify(dim, nMax int) (pass bool) {
	var (
		tol = 1.e-11
		rnd = rand.New(rand.NewSource(1))
	)
	pass = true
	for n := 1; n <= nMax; n++ {
		for q1d := n + 1; q1d <= n+3; q1d++ {
			var (
				m = verifyMesh(dim)
				c = operators.NewConvection(dim, n, q1d)
			)
			m.Eps = 0.05
			vel := []float64{0.8, -0.3, 0.5}[:dim]
			c.AssemblePA(m.NE(), m.Jacobians(c.Maps()), vel, 1.25)
			var (
				nd     = c.NDof() * m.NE()
				x      = randomVec(rnd, nd)
				w      = randomVec(rnd, nd)
				ax     = make([]float64, nd)
				axGen  = make([]float64, nd)
				atw    = make([]float64, nd)
				atwGen = make([]float64, nd)
			)
			c.AddMultPA(x, ax)
			c.AddMultTransposePA(w, atw)
			operators.ConvectionApplyGeneric(dim, n+1, q1d, m.NE(), c.Maps(), c.PAData(), x, axGen)
			operators.ConvectionApplyTransposeGeneric(dim, n+1, q1d, m.NE(), c.Maps(), c.PAData(), w, atwGen)
			var (
				dFwd = maxDiff(ax, axGen)
				dT   = maxDiff(atw, atwGen)
				adj  = math.Abs(dot(ax, w) - dot(x, atw))
			)
			ok := dFwd < tol && dT < tol && adj < tol*float64(nd)
			fmt.Printf("N=%d Q1D=%d\ttiled-generic %8.2e / %8.2e\tadjoint %8.2e\t%s\n",
				n, q1d, dFwd, dT, adj, passFail(ok))
			pass = pass && ok
		}
	}
	return
}

func verifyMesh(dim int) (m *geometry.CartesianMesh) {
	if dim == 3 {
		m = geometry.NewCartesianMesh3D(3, 2, 2, 1, 1, 1)
	} else {
		m = geometry.NewCartesianMesh2D(4, 3, 1, 1)
	}
	return
}

func randomVec(rnd *rand.Rand, n int) (v []float64) {
	v = make([]float64, n)
	for i := range v {
		v[i] = 2*rnd.Float64() - 1
	}
	return
}

func maxDiff(a, b []float64) (d float64) {
	for i := range a {
		if m := math.Abs(a[i] - b[i]); m > d {
			d = m
		}
	}
	return
}

func dot(a, b []float64) (s float64) {
	for i := range a {
		s += a[i] * b[i]
	}
	return
}

func passFail(ok bool) string {
	if ok {
		return "PASS"
	}
	return "FAIL"
}
