package cmd

import (
	"testing"

	"github.com/magiconair/properties/assert"

	"github.com/notargets/pafem/InputParameters"
)

func TestInputParameters(t *testing.T) {
	var (
		err error
	)
	fileInput := []byte(`
Title: Test Case
Dimension: 3
PolynomialOrder: 4
MeshNX: 12
MeshEps: 0.1
Alpha: 2.5
Velocity: [1., 0.5, -0.25]
`)
	var input InputParameters.InputParameters
	if err = input.Parse(fileInput); err != nil {
		panic(err)
	}
	assert.Equal(t, input.Dimension, 3)
	assert.Equal(t, input.PolynomialOrder, 4)
	assert.Equal(t, input.Alpha, 2.5)
	assert.Equal(t, input.Velocity[2], -0.25)
	input.ApplyDefaults()
	// Defaults fill only what the file left out
	assert.Equal(t, input.MeshNX, 12)
	assert.Equal(t, input.MeshNY, 8)
	assert.Equal(t, input.QuadraturePts, 6)
	input.Print()
}

func TestRunVerify(t *testing.T) {
	assert.Equal(t, RunVerify(2, 2), true)
}
