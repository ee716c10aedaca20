package services

import (
	"math"

	"github.com/planfab/prodsim/pkg/domain/entities"
)

// DiffusionState is the running rounding remainder of the error-diffusion
// allocator. The carry is the only state; it is passed explicitly between
// calls and stays in [0, 1) after every step.
type DiffusionState struct {
	Carry float64
}

// carryEpsilon absorbs float64 summation error at exact emission boundaries,
// where the accumulated carry lands just under 1.0 (e.g. ten steps at 0.3 sum
// to 2.9999999999999996). Without it the emission slips one step late and the
// cumulative bound breaks.
const carryEpsilon = 1e-9

// Step emits the integer quantity for one unit of time with fractional target
// t, folding the rounding error into the carry. After N steps at constant t,
// |sum(emitted) - N*t| < 1.
func (s *DiffusionState) Step(t float64) entities.Quantity {
	base := math.Floor(t)
	frac := t - base
	cumulative := s.Carry + frac
	if cumulative >= 1.0-carryEpsilon {
		s.Carry = cumulative - 1.0
		if s.Carry < 0 {
			s.Carry = 0
		}
		return entities.Quantity(base) + 1
	}
	s.Carry = cumulative
	return entities.Quantity(base)
}

// Emit runs Step n times at constant target t and returns the emitted
// sequence. The state is advanced in place so the carry threads continuously
// into whatever is allocated next.
func (s *DiffusionState) Emit(t float64, n int) []entities.Quantity {
	out := make([]entities.Quantity, n)
	for i := range out {
		out[i] = s.Step(t)
	}
	return out
}
