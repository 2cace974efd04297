package template

import (
	"errors"
	"fmt"
)

var (
	// ErrParseFailure is returned when a grammar cannot classify its input.
	ErrParseFailure = errors.New("template could not be parsed")
	// ErrBufferTooSmall is returned by sinks writing into a fixed buffer. Nothing is written.
	ErrBufferTooSmall = errors.New("buffer too small")
	// ErrEstimateUnavailable is returned when the output length cannot be computed.
	ErrEstimateUnavailable = errors.New("length estimate unavailable")
	// ErrNoMatch is returned when printed text does not match a template.
	ErrNoMatch = errors.New("text does not match template")
	// ErrIndexOutOfRange is returned when a parameter index is implausibly large.
	ErrIndexOutOfRange = errors.New("parameter index out of range")
	// ErrInvalidParameter is returned when a parameter cannot be written in a grammar.
	ErrInvalidParameter = errors.New("parameter not valid in grammar")
	// ErrUnknownGrammar is returned when a registry has no grammar of that name.
	ErrUnknownGrammar = errors.New("unknown grammar")
)

// UnknownParameterError reports an emplacement naming a parameter the base
// template does not have.
type UnknownParameterError struct {
	Name       string
	Template   string
	Suggestion string
}

func (e *UnknownParameterError) Error() string {
	if e.Suggestion != "" {
		return fmt.Sprintf("unknown parameter '%s' in template %q, did you mean '%s'?", e.Name, e.Template, e.Suggestion)
	}
	return fmt.Sprintf("unknown parameter '%s' in template %q", e.Name, e.Template)
}
