package content

import "fmt"

// ParseError reports a file whose raw content could not be parsed. It is
// isolated to that file.
type ParseError struct {
	Path string
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s: parse: %v", e.Path, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// InfrastructureError reports a missing or unreadable content location. No
// validation can proceed past it.
type InfrastructureError struct {
	Path string
	Err  error
}

func (e *InfrastructureError) Error() string {
	return fmt.Sprintf("%s: %v", e.Path, e.Err)
}

func (e *InfrastructureError) Unwrap() error {
	return e.Err
}
