// Package validator is the public entry point for model card
// validation. It parses cards from disk or memory and delegates the
// checks to the internal rule set.
package validator

import (
	"github.com/runcard-dev/runcard/internal/cardfile"
	"github.com/runcard-dev/runcard/internal/validator"
)

// Options controls how picky validation is.
type Options = validator.ValidationOptions

// Result collects everything validation found.
type Result = validator.ValidationResult

// SectionResult is the outcome for one prose section.
type SectionResult = validator.SectionResult

// ValidateFile reads a card from path and validates it. A card that
// cannot be read or parsed fails with an error rather than a Result.
func ValidateFile(path string, opts Options) (Result, error) {
	f, err := cardfile.Read(path)
	if err != nil {
		return Result{}, err
	}
	return validator.Validate(f, opts), nil
}

// ValidateCard parses raw card markdown and validates it.
func ValidateCard(raw string, opts Options) (Result, error) {
	f, err := cardfile.Parse(raw)
	if err != nil {
		return Result{}, err
	}
	return validator.Validate(f, opts), nil
}
