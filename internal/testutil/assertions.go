package testutil

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/vk/gridc/internal/prog"
)

// RequirePackage parses canonical package text and checks that it holds a
// single module with the given name.
func RequirePackage(t *testing.T, text, module string) *prog.Package {
	t.Helper()

	pkg, err := prog.ParsePackage([]byte(text))
	require.NoError(t, err, "output is not a compiled package:\n%s", text)
	require.Len(t, pkg.Modules, 1)
	require.Equal(t, module, pkg.Modules[0].Name)
	return pkg
}
