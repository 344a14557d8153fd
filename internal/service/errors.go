package service

import (
	"errors"
	"fmt"

	"inventory-chat/internal/config"
	"inventory-chat/internal/inventory"
	"inventory-chat/internal/llm"
)

// FallbackReply is shown in place of an answer when the generation model fails.
const FallbackReply = "Sorry, I'm having trouble thinking right now. Please try again later."

var (
	// ErrInvalidInput is returned when input validation fails.
	ErrInvalidInput = errors.New("invalid input")
	// ErrExternalService is returned when an external service call fails.
	ErrExternalService = errors.New("external service error")
)

// FailureKind classifies what went wrong while answering a turn.
type FailureKind string

const (
	FailureNone          FailureKind = ""
	FailureConfiguration FailureKind = "configuration"
	FailureFetch         FailureKind = "fetch"
	FailureGeneration    FailureKind = "generation"
)

// KindOf classifies err. Errors that match none of the known kinds return FailureNone.
func KindOf(err error) FailureKind {
	switch {
	case err == nil:
		return FailureNone
	case errors.Is(err, config.ErrMissingCredential):
		return FailureConfiguration
	case errors.Is(err, inventory.ErrFetch):
		return FailureFetch
	case errors.Is(err, llm.ErrGeneration):
		return FailureGeneration
	default:
		return FailureNone
	}
}

// ValidationError represents a validation error with a field name.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error on field %s: %s", e.Field, e.Message)
}

// Unwrap lets errors.Is match ErrInvalidInput.
func (e *ValidationError) Unwrap() error {
	return ErrInvalidInput
}

// WrapError wraps an error with additional context.
func WrapError(err error, msg string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", msg, err)
}
