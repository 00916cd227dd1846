package InputParameters

import (
	"fmt"

	"github.com/ghodss/yaml"
)

// Parameters obtained from the YAML input file
type InputParameters struct {
	Title           string    `yaml:"Title"`
	Dimension       int       `yaml:"Dimension"`
	PolynomialOrder int       `yaml:"PolynomialOrder"`
	QuadraturePts   int       `yaml:"QuadraturePts"` // Points per direction, 0 selects order+2
	MeshNX          int       `yaml:"MeshNX"`
	MeshNY          int       `yaml:"MeshNY"`
	MeshNZ          int       `yaml:"MeshNZ"`
	MeshLX          float64   `yaml:"MeshLX"`
	MeshLY          float64   `yaml:"MeshLY"`
	MeshLZ          float64   `yaml:"MeshLZ"`
	MeshEps         float64   `yaml:"MeshEps"` // Amplitude of the smooth mesh deformation
	Alpha           float64   `yaml:"Alpha"`
	Velocity        []float64 `yaml:"Velocity"`
	Steps           int       `yaml:"Steps"`
	Serial          bool      `yaml:"Serial"`
}

func (ip *InputParameters) Parse(data []byte) error {
	return yaml.Unmarshal(data, ip)
}

// ApplyDefaults fills in the values a minimal input file leaves out.
func (ip *InputParameters) ApplyDefaults() {
	if ip.Dimension == 0 {
		ip.Dimension = 2
	}
	if ip.PolynomialOrder == 0 {
		ip.PolynomialOrder = 3
	}
	if ip.QuadraturePts == 0 {
		ip.QuadraturePts = ip.PolynomialOrder + 2
	}
	if ip.MeshNX == 0 {
		ip.MeshNX = 8
	}
	if ip.MeshNY == 0 {
		ip.MeshNY = 8
	}
	if ip.MeshNZ == 0 {
		ip.MeshNZ = 8
	}
	if ip.MeshLX == 0 {
		ip.MeshLX = 1
	}
	if ip.MeshLY == 0 {
		ip.MeshLY = 1
	}
	if ip.MeshLZ == 0 {
		ip.MeshLZ = 1
	}
	if ip.Alpha == 0 {
		ip.Alpha = 1
	}
	if len(ip.Velocity) == 0 {
		ip.Velocity = make([]float64, ip.Dimension)
		ip.Velocity[0] = 1
	}
	if ip.Steps == 0 {
		ip.Steps = 1
	}
}

func (ip *InputParameters) Print() {
	fmt.Printf("\"%s\"\t\t= Title\n", ip.Title)
	fmt.Printf("[%d]\t\t\t\t= Dimension\n", ip.Dimension)
	fmt.Printf("[%d]\t\t\t\t= Polynomial Order\n", ip.PolynomialOrder)
	fmt.Printf("[%d]\t\t\t\t= Quadrature Pts / direction\n", ip.QuadraturePts)
	fmt.Printf("[%d x %d x %d]\t\t\t= Mesh Elements\n", ip.MeshNX, ip.MeshNY, ip.MeshNZ)
	fmt.Printf("%8.5f\t\t= Mesh Deformation\n", ip.MeshEps)
	fmt.Printf("%8.5f\t\t= Alpha\n", ip.Alpha)
	fmt.Printf("%v\t\t= Velocity\n", ip.Velocity)
	fmt.Printf("[%d]\t\t\t\t= Steps\n", ip.Steps)
}
