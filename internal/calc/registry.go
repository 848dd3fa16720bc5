// Package calc maps calculation type tags to their arithmetic variants and
// constructs calculation records from user input.
package calc

import (
	"fmt"
	"strings"

	"github.com/google/uuid"

	"calcapi/internal/model"
)

// ValidationError marks a rejected user input. Handlers translate it to a
// 400 response with the message verbatim.
type ValidationError string

func (e ValidationError) Error() string { return string(e) }

func newValidationError(format string, args ...interface{}) error {
	return ValidationError(fmt.Sprintf(format, args...))
}

// Registry maps lowercase type tags to variants. The default table is built
// once at startup; nothing mutates it afterwards.
type Registry struct {
	variants map[string]Variant
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{variants: make(map[string]Variant)}
}

// Default returns a registry populated with the five built-in variants.
func Default() *Registry {
	r := NewRegistry()
	for tag, v := range map[string]Variant{
		TypeAddition:       addition{},
		TypeSubtraction:    subtraction{},
		TypeMultiplication: multiplication{},
		TypeDivision:       division{},
		TypeModulus:        modulus{},
	} {
		// Built-in variants cannot fail registration.
		if err := r.Register(tag, v); err != nil {
			panic(err)
		}
	}
	return r
}

// Register associates a tag with a variant implementation. The value must
// satisfy the Variant interface; anything else is rejected regardless of tag.
func (r *Registry) Register(tag string, variant interface{}) error {
	v, ok := variant.(Variant)
	if !ok || v == nil {
		return fmt.Errorf("registered variant %T must implement calc.Variant", variant)
	}
	r.variants[strings.ToLower(tag)] = v
	return nil
}

func (r *Registry) lookup(tag string) (Variant, error) {
	v, ok := r.variants[strings.ToLower(tag)]
	if !ok {
		return nil, newValidationError("Unsupported calculation type: %s", tag)
	}
	return v, nil
}

// New validates the tag and operand count and constructs an unpersisted
// calculation record for the given owner.
func (r *Registry) New(tag string, userID uuid.UUID, inputs []float64) (*model.Calculation, error) {
	if _, err := r.lookup(tag); err != nil {
		return nil, err
	}
	if len(inputs) < 2 {
		return nil, newValidationError("%s requires at least 2 operands", tag)
	}
	return &model.Calculation{
		UserID: userID,
		Type:   strings.ToLower(tag),
		Inputs: model.Operands(inputs),
	}, nil
}

// Result dispatches to the variant's reduction for the given tag.
func (r *Registry) Result(tag string, inputs []float64) (float64, error) {
	v, err := r.lookup(tag)
	if err != nil {
		return 0, err
	}
	return v.Reduce(inputs)
}
