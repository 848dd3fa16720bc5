package calc

import "math"

// Variant is one arithmetic calculation kind. Reduce folds the operand list
// left to right with the first operand as seed.
type Variant interface {
	Reduce(inputs []float64) (float64, error)
}

// Tags of the built-in variants.
const (
	TypeAddition       = "addition"
	TypeSubtraction    = "subtraction"
	TypeMultiplication = "multiplication"
	TypeDivision       = "division"
	TypeModulus        = "modulus"
)

func fold(inputs []float64, op func(acc, next float64) float64) float64 {
	acc := inputs[0]
	for _, v := range inputs[1:] {
		acc = op(acc, v)
	}
	return acc
}

// hasZeroDivisor reports whether any operand after the first is exactly zero.
// The leading operand may be zero: 0/5 is fine, 5/0 is not.
func hasZeroDivisor(inputs []float64) bool {
	for _, v := range inputs[1:] {
		if v == 0 {
			return true
		}
	}
	return false
}

type addition struct{}

func (addition) Reduce(inputs []float64) (float64, error) {
	return fold(inputs, func(acc, next float64) float64 { return acc + next }), nil
}

type subtraction struct{}

func (subtraction) Reduce(inputs []float64) (float64, error) {
	return fold(inputs, func(acc, next float64) float64 { return acc - next }), nil
}

type multiplication struct{}

func (multiplication) Reduce(inputs []float64) (float64, error) {
	return fold(inputs, func(acc, next float64) float64 { return acc * next }), nil
}

type division struct{}

func (division) Reduce(inputs []float64) (float64, error) {
	if hasZeroDivisor(inputs) {
		return 0, newValidationError("Zero divisor input invalid for Division")
	}
	return fold(inputs, func(acc, next float64) float64 { return acc / next }), nil
}

type modulus struct{}

func (modulus) Reduce(inputs []float64) (float64, error) {
	if hasZeroDivisor(inputs) {
		return 0, newValidationError("Zero divisor input invalid for Modulo Division")
	}
	return fold(inputs, math.Mod), nil
}
