package domain

import "errors"

var (
	// Not found
	ErrPackageNotFound = errors.New("package not found")
	ErrVersionNotFound = errors.New("version not found")
	ErrModNotFound     = errors.New("mod not found in profile")
	ErrProfileNotFound = errors.New("profile not found")
	ErrGameNotFound    = errors.New("game not found")

	// Conflict
	ErrAlreadyInstalled = errors.New("mod already installed")
	ErrProfileExists    = errors.New("profile already exists")
	ErrLastProfile      = errors.New("cannot delete the last profile")

	// Malformed input
	ErrMalformedDependency = errors.New("malformed dependency string")
	ErrInvalidProfileName  = errors.New("invalid profile name")
	ErrMalformedLink       = errors.New("malformed install link")

	// Operation state
	ErrCancelled = errors.New("operation cancelled")
	ErrLocalMod  = errors.New("mod is not from the registry")
)
