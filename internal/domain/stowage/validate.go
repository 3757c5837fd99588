package stowage

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
)

// ErrInvalidInput flags catalog input that can never be stored: non-positive
// dimensions, negative mass, priority outside [0,100], malformed ids. It is
// surfaced, never retried.
var ErrInvalidInput = errors.New("invalid input")

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks a catalog item against the schema constraints.
func (it Item) Validate() error {
	if it.ID <= 0 {
		return fmt.Errorf("%w: item id must be positive, got %d", ErrInvalidInput, it.ID)
	}
	if it.Dims.W <= 0 || it.Dims.D <= 0 || it.Dims.H <= 0 {
		return fmt.Errorf("%w: item %d has non-positive dimensions", ErrInvalidInput, it.ID)
	}
	if err := validate.Struct(it); err != nil {
		return fmt.Errorf("%w: item %d: %v", ErrInvalidInput, it.ID, err)
	}
	return nil
}

// Validate checks a container registration.
func (c Container) Validate() error {
	if c.Dims.W <= 0 || c.Dims.D <= 0 || c.Dims.H <= 0 {
		return fmt.Errorf("%w: container %q has non-positive dimensions", ErrInvalidInput, c.ID)
	}
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("%w: container %q: %v", ErrInvalidInput, c.ID, err)
	}
	return nil
}
