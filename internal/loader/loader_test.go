package loader_test

import (
	"context"
	"io/fs"
	"path/filepath"
	"testing"

	"github.com/hashicorp/hcl/v2"
	"github.com/stretchr/testify/require"
	"github.com/vk/gridc/internal/loader"
	"github.com/vk/gridc/internal/prog"
	"github.com/vk/gridc/internal/testutil"
	"github.com/zclconf/go-cty/cty"
)

func TestLoad_BindsTopLevelItemsInSourceOrder(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	path := testutil.WriteFile(t, "main.hcl", testutil.TwoPrograms+`
alias = second
shout = upper(greeting)
`)
	reg := prog.NewRegistry()

	// --- Act ---
	unit, err := loader.New(reg).Load(context.Background(), path)

	// --- Assert ---
	require.NoError(t, err)
	require.Equal(t, []string{"greeting", "first", "second", "alias", "shout"}, unit.Names())

	shout, ok := unit.Lookup("shout")
	require.True(t, ok)
	require.Equal(t, cty.StringVal("HELLO"), shout)

	second, ok := unit.Lookup("second")
	require.True(t, ok)
	alias, ok := unit.Lookup("alias")
	require.True(t, ok)
	secondUnit, _ := prog.FromValue(second)
	aliasUnit, _ := prog.FromValue(alias)
	require.Same(t, secondUnit, aliasUnit, "attributes can bind program units")
}

func TestLoad_RegistersProgramsWithProvenance(t *testing.T) {
	t.Parallel()

	path := testutil.WriteFile(t, "main.hcl", testutil.TwoPrograms)
	reg := prog.NewRegistry()

	unit, err := loader.New(reg).Load(context.Background(), path)
	require.NoError(t, err)

	units := reg.Units()
	require.Len(t, units, 2)
	require.Equal(t, "first", units[0].Name)
	require.Equal(t, "second", units[1].Name)

	abs, err := filepath.Abs(path)
	require.NoError(t, err)
	for _, u := range units {
		require.Same(t, unit, u.Provenance().Origin)
		require.Equal(t, abs, u.Provenance().Filename)
	}
	require.Equal(t, abs, unit.SourcePath())
}

func TestLoad_EveryLoadIsAFreshUnit(t *testing.T) {
	t.Parallel()

	path := testutil.WriteFile(t, "main.hcl", testutil.EvenOdd)
	reg := prog.NewRegistry()
	l := loader.New(reg)

	first, err := l.Load(context.Background(), path)
	require.NoError(t, err)
	second, err := l.Load(context.Background(), path)
	require.NoError(t, err)

	require.NotSame(t, first, second)
	require.NotEqual(t, first.Name(), second.Name())
	require.Equal(t, 2, reg.Len(), "each load executes declarations again")

	units := reg.Units()
	require.Same(t, first, units[0].Provenance().Origin)
	require.Same(t, second, units[1].Provenance().Origin)
}

func TestLoad_InvalidPath(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name     string
		path     func(t *testing.T) string
		notExist bool
	}{
		{
			name:     "missing file",
			path:     func(t *testing.T) string { return "/does/not/exist.py" },
			notExist: true,
		},
		{
			name: "directory",
			path: func(t *testing.T) string { return t.TempDir() },
		},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			reg := prog.NewRegistry()
			path := tc.path(t)

			unit, err := loader.New(reg).Load(context.Background(), path)

			require.Nil(t, unit)
			var pathErr *loader.InvalidModulePathError
			require.ErrorAs(t, err, &pathErr)
			require.Equal(t, path, pathErr.Path)
			require.EqualError(t, err, "invalid module path '"+path+"'")
			if tc.notExist {
				require.ErrorIs(t, err, fs.ErrNotExist)
			}
			require.Zero(t, reg.Len())
		})
	}
}

func TestLoad_ExecutionFailuresAreDiagnostics(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name    string
		src     string
		wantErr string
	}{
		{
			name:    "syntax error",
			src:     "program \"m\" {\n  function \"main\" {\n",
			wantErr: "Unclosed configuration block",
		},
		{
			name:    "forward reference",
			src:     "a = b\nb = 1\n",
			wantErr: "Unknown variable",
		},
		{
			name:    "unsupported block",
			src:     "module \"m\" {}\n",
			wantErr: "Unsupported block type",
		},
		{
			name:    "program without a name",
			src:     "program {}\n",
			wantErr: "Invalid block labels",
		},
		{
			name:    "function without body",
			src:     "program \"m\" {\n  function \"main\" {\n    returns = bool\n  }\n}\n",
			wantErr: "Missing required argument",
		},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			path := testutil.WriteFile(t, "main.hcl", tc.src)

			_, err := loader.New(prog.NewRegistry()).Load(context.Background(), path)

			var diags hcl.Diagnostics
			require.ErrorAs(t, err, &diags, "execution failures are returned unmodified")
			require.Contains(t, err.Error(), tc.wantErr)
		})
	}
}

func TestLoad_FailureKeepsEarlierRegistrations(t *testing.T) {
	t.Parallel()

	path := testutil.WriteFile(t, "main.hcl", testutil.EvenOdd+"\nbroken = missing\n")
	reg := prog.NewRegistry()

	_, err := loader.New(reg).Load(context.Background(), path)

	require.Error(t, err)
	require.Equal(t, 1, reg.Len(), "declarations executed before the failure stay registered")
}

func TestLoad_Imports(t *testing.T) {
	t.Parallel()

	dir := testutil.WriteFiles(t, map[string]string{
		"lib/lib.hcl": testutil.EvenOdd + "\nversion = \"1.0\"\n",
		"main.hcl": `
import "lib" {
  source = "lib/lib.hcl"
}

entry   = lib.m
version = lib.version
`,
	})
	reg := prog.NewRegistry()

	unit, err := loader.New(reg).Load(context.Background(), filepath.Join(dir, "main.hcl"))

	require.NoError(t, err)
	require.Equal(t, []string{"lib", "entry", "version"}, unit.Names())

	version, _ := unit.Lookup("version")
	require.Equal(t, cty.StringVal("1.0"), version)

	units := reg.Units()
	require.Len(t, units, 1)
	require.NotSame(t, unit, units[0].Provenance().Origin, "imported programs belong to the imported unit")
	require.Equal(t, filepath.Join(dir, "lib", "lib.hcl"), units[0].Provenance().Filename)

	entry, _ := unit.Lookup("entry")
	entryUnit, ok := prog.FromValue(entry)
	require.True(t, ok)
	require.Same(t, units[0], entryUnit)
}

func TestLoad_ImportFailures(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name    string
		files   map[string]string
		wantErr string
	}{
		{
			name: "cycle",
			files: map[string]string{
				"main.hcl":  "import \"other\" {\n  source = \"other.hcl\"\n}\n",
				"other.hcl": "import \"main\" {\n  source = \"main.hcl\"\n}\n",
			},
			wantErr: "Import cycle",
		},
		{
			name: "missing import",
			files: map[string]string{
				"main.hcl": "import \"gone\" {\n  source = \"gone.hcl\"\n}\n",
			},
			wantErr: "Failed to import",
		},
		{
			name: "broken import",
			files: map[string]string{
				"main.hcl":   "import \"broken\" {\n  source = \"broken.hcl\"\n}\n",
				"broken.hcl": "x = nope\n",
			},
			wantErr: "Unknown variable",
		},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			dir := testutil.WriteFiles(t, tc.files)

			_, err := loader.New(prog.NewRegistry()).Load(context.Background(), filepath.Join(dir, "main.hcl"))

			var diags hcl.Diagnostics
			require.ErrorAs(t, err, &diags)
			require.Contains(t, err.Error(), tc.wantErr)
		})
	}
}

func TestLoad_CanceledContext(t *testing.T) {
	t.Parallel()

	path := testutil.WriteFile(t, "main.hcl", testutil.EvenOdd)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := loader.New(prog.NewRegistry()).Load(ctx, path)

	require.ErrorIs(t, err, context.Canceled)
}
