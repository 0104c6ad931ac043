package lattice

import "errors"

// Precondition errors returned at construction and by the parameter setters.
var (
	// ErrInvalidSize indicates a lattice side length below one.
	ErrInvalidSize = errors.New("lattice: size must be positive")

	// ErrInvalidTemperature indicates a temperature that is not a positive finite number.
	ErrInvalidTemperature = errors.New("lattice: temperature must be positive and finite")

	// ErrInvalidCoupling indicates a NaN or infinite coupling constant.
	ErrInvalidCoupling = errors.New("lattice: coupling must be finite")

	// ErrInvalidHistory indicates a negative window or stride.
	ErrInvalidHistory = errors.New("lattice: invalid history policy")

	// ErrInvalidInit indicates an unknown initial configuration.
	ErrInvalidInit = errors.New("lattice: unknown init mode")
)
