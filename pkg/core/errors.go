package core

import (
	"errors"
	"fmt"
)

// ConfigError reports a malformed or missing configuration field.
// It is raised at construction time, before any ray is traced.
type ConfigError struct {
	Field  string
	Reason string
}

func (e *ConfigError) Error() string {
	if e.Field == "" {
		return "invalid configuration: " + e.Reason
	}
	return fmt.Sprintf("invalid configuration field %q: %s", e.Field, e.Reason)
}

// NewConfigError creates a ConfigError for the named field
func NewConfigError(field, format string, args ...interface{}) error {
	return &ConfigError{Field: field, Reason: fmt.Sprintf(format, args...)}
}

// WithFieldPrefix qualifies the field of every ConfigError in err with prefix,
// so "radius" raised by a constructor becomes "environment.geometry[2].radius".
// Joined errors are rewritten element by element.
func WithFieldPrefix(err error, prefix string) error {
	if err == nil || prefix == "" {
		return err
	}
	if joined, ok := err.(interface{ Unwrap() []error }); ok {
		errs := joined.Unwrap()
		prefixed := make([]error, 0, len(errs))
		for _, e := range errs {
			prefixed = append(prefixed, WithFieldPrefix(e, prefix))
		}
		return errors.Join(prefixed...)
	}
	var configErr *ConfigError
	if errors.As(err, &configErr) {
		field := prefix
		if configErr.Field != "" {
			field = prefix + "." + configErr.Field
		}
		return &ConfigError{Field: field, Reason: configErr.Reason}
	}
	return &ConfigError{Field: prefix, Reason: err.Error()}
}

// DomainError reports an argument outside an operation's domain, such as a
// screen coordinate outside [0, 1]. These are programming or configuration errors.
type DomainError struct {
	Op     string
	Reason string
}

func (e *DomainError) Error() string {
	return fmt.Sprintf("%s: %s", e.Op, e.Reason)
}
