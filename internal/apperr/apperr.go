package apperr

import (
	"errors"
	"fmt"
)

// ValidationError marks malformed or out-of-range input, detected before any I/O.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }

// BusinessRuleError marks a domain invariant breach such as the question cap
// or generation ineligibility.
type BusinessRuleError struct {
	Msg string
}

func (e *BusinessRuleError) Error() string { return e.Msg }

// NotFoundError marks an absent survey, question or response.
type NotFoundError struct {
	Msg string
}

func (e *NotFoundError) Error() string { return e.Msg }

// ServiceUnavailableError marks an external collaborator that stayed
// unreachable after retries.
type ServiceUnavailableError struct {
	Msg string
}

func (e *ServiceUnavailableError) Error() string { return e.Msg }

func Validation(format string, args ...any) error {
	return &ValidationError{Msg: fmt.Sprintf(format, args...)}
}

func BusinessRule(format string, args ...any) error {
	return &BusinessRuleError{Msg: fmt.Sprintf(format, args...)}
}

func NotFound(format string, args ...any) error {
	return &NotFoundError{Msg: fmt.Sprintf(format, args...)}
}

func ServiceUnavailable(format string, args ...any) error {
	return &ServiceUnavailableError{Msg: fmt.Sprintf(format, args...)}
}

func IsValidation(err error) bool {
	var e *ValidationError
	return errors.As(err, &e)
}

func IsBusinessRule(err error) bool {
	var e *BusinessRuleError
	return errors.As(err, &e)
}

func IsNotFound(err error) bool {
	var e *NotFoundError
	return errors.As(err, &e)
}

func IsServiceUnavailable(err error) bool {
	var e *ServiceUnavailableError
	return errors.As(err, &e)
}
