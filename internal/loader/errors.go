package loader

import "fmt"

// InvalidModulePathError is returned when the source file is missing or
// cannot be read.
type InvalidModulePathError struct {
	Path string
	Err  error
}

func (e *InvalidModulePathError) Error() string {
	return fmt.Sprintf("invalid module path '%s'", e.Path)
}

func (e *InvalidModulePathError) Unwrap() error {
	return e.Err
}
