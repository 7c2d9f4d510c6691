package metrics

import (
	"math"

	"gonum.org/v1/gonum/stat"

	"github.com/san-kum/threebody/internal/dynamo"
)

// Energy reports the mean total energy over the observed samples.
type Energy struct {
	name     string
	dyn      dynamo.Hamiltonian
	energies []float64
}

func NewEnergy(dyn dynamo.Hamiltonian) *Energy {
	return &Energy{
		name: "energy",
		dyn:  dyn,
	}
}

func (e *Energy) Name() string { return e.name }

func (e *Energy) Observe(x dynamo.State, t float64) {
	e.energies = append(e.energies, e.dyn.Energy(x))
}

func (e *Energy) Value() float64 {
	if len(e.energies) == 0 {
		return 0
	}
	return stat.Mean(e.energies, nil)
}

// StdDev is the spread of the observed energies.
func (e *Energy) StdDev() float64 {
	if len(e.energies) < 2 {
		return 0
	}
	_, std := stat.MeanStdDev(e.energies, nil)
	return std
}

// Series returns the observed energies in order.
func (e *Energy) Series() []float64 { return append([]float64(nil), e.energies...) }

func (e *Energy) Reset() { e.energies = e.energies[:0] }

// EnergyDrift is the largest relative departure from the first sample's
// energy, |E - E0| / |E0|.
type EnergyDrift struct {
	name          string
	initialEnergy float64
	maxDrift      float64
	samples       int
	dyn           dynamo.Hamiltonian
}

func NewEnergyDrift(dyn dynamo.Hamiltonian) *EnergyDrift {
	return &EnergyDrift{
		name: "energy_drift",
		dyn:  dyn,
	}
}

func (e *EnergyDrift) Name() string { return e.name }

func (e *EnergyDrift) Observe(x dynamo.State, t float64) {
	energy := e.dyn.Energy(x)

	if e.samples == 0 {
		e.initialEnergy = energy
	}
	e.samples++

	if e.initialEnergy != 0 {
		drift := math.Abs(energy-e.initialEnergy) / math.Abs(e.initialEnergy)
		e.maxDrift = math.Max(e.maxDrift, drift)
	}
}

func (e *EnergyDrift) Value() float64 {
	return e.maxDrift
}

func (e *EnergyDrift) Reset() {
	e.initialEnergy = 0
	e.maxDrift = 0
	e.samples = 0
}
