// Package version checks the compiler library against the oldest release
// gridc supports.
package version

import (
	"fmt"
	"strings"

	"golang.org/x/mod/semver"
)

// OldVersionError is returned when the installed compiler library is older
// than the supported minimum.
type OldVersionError struct {
	Installed string
	Minimum   string
}

func (e *OldVersionError) Error() string {
	return fmt.Sprintf("`gridlang@%s` is not supported. Please upgrade to `gridlang@%s` or later", e.Installed, e.Minimum)
}

// Check compares installed against minimum using semantic version ordering.
// Both may be written with or without a leading "v".
func Check(installed, minimum string) error {
	in, err := canonical(installed)
	if err != nil {
		return err
	}
	floor, err := canonical(minimum)
	if err != nil {
		return err
	}
	if semver.Compare(in, floor) < 0 {
		return &OldVersionError{Installed: installed, Minimum: minimum}
	}
	return nil
}

func canonical(v string) (string, error) {
	s := strings.TrimSpace(v)
	if !strings.HasPrefix(s, "v") {
		s = "v" + s
	}
	if !semver.IsValid(s) {
		return "", fmt.Errorf("invalid version %q", v)
	}
	return s, nil
}
