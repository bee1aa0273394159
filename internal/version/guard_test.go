package version

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCheck(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name      string
		installed string
		minimum   string
		wantOld   bool
		wantErr   string
	}{
		{name: "equal", installed: "0.14.0", minimum: "0.14.0"},
		{name: "newer patch", installed: "0.14.1", minimum: "0.14.0"},
		{name: "semantic not lexical", installed: "0.100.0", minimum: "0.14.0"},
		{name: "v prefix", installed: "v1.0.0", minimum: "0.14.0"},
		{name: "older minor", installed: "0.13.9", minimum: "0.14.0", wantOld: true},
		{name: "lexically greater but older", installed: "0.9.0", minimum: "0.14.0", wantOld: true},
		{name: "prerelease is older than release", installed: "0.14.0-rc.1", minimum: "0.14.0", wantOld: true},
		{name: "garbage installed", installed: "latest", minimum: "0.14.0", wantErr: `invalid version "latest"`},
		{name: "garbage minimum", installed: "0.14.0", minimum: "", wantErr: `invalid version ""`},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			err := Check(tc.installed, tc.minimum)

			switch {
			case tc.wantOld:
				var old *OldVersionError
				require.ErrorAs(t, err, &old)
				require.Equal(t, tc.installed, old.Installed)
				require.Equal(t, tc.minimum, old.Minimum)
			case tc.wantErr != "":
				require.EqualError(t, err, tc.wantErr)
			default:
				require.NoError(t, err)
			}
		})
	}
}

func TestOldVersionError_Message(t *testing.T) {
	t.Parallel()

	err := &OldVersionError{Installed: "0.13.0", Minimum: "0.14.0"}
	require.EqualError(t, err, "`gridlang@0.13.0` is not supported. Please upgrade to `gridlang@0.14.0` or later")
}
