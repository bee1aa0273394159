package resolver

import "fmt"

// MissingModuleError is returned when no program unit can be found. Name
// is empty when no explicit name was given.
type MissingModuleError struct {
	Name       string
	SourcePath string
}

func (e *MissingModuleError) Error() string {
	switch {
	case e.Name == "":
		return "the program does not define a local module"
	case e.SourcePath == "":
		return fmt.Sprintf("the program does not define a `%s` module", e.Name)
	default:
		return fmt.Sprintf("the program %s does not define a `%s` module", e.SourcePath, e.Name)
	}
}

// NotAProgramUnitError is returned when an explicit name is bound to
// something other than a program unit.
type NotAProgramUnitError struct {
	Name       string
	SourcePath string
}

func (e *NotAProgramUnitError) Error() string {
	if e.SourcePath == "" {
		return fmt.Sprintf("`%s` must be a program unit", e.Name)
	}
	return fmt.Sprintf("`%s` in program %s must be a program unit", e.Name, e.SourcePath)
}
