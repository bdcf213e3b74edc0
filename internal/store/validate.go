package store

import (
	"fmt"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// ValidateInput checks a simulation configuration against its physical
// bounds (positive dimensions, modulus > 0, poisson ratio in [0, 0.5],
// positive element counts). Enforced once, at job creation.
func ValidateInput(in *SimulationInput) error {
	if err := validate.Struct(in); err != nil {
		return fmt.Errorf("%w: %v", ErrValidation, err)
	}
	return nil
}
