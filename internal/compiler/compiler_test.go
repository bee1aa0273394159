package compiler_test

import (
	"context"
	"testing"

	"github.com/hashicorp/hcl/v2"
	"github.com/stretchr/testify/require"
	"github.com/vk/gridc/internal/compiler"
	"github.com/vk/gridc/internal/loader"
	"github.com/vk/gridc/internal/prog"
	"github.com/vk/gridc/internal/testutil"
)

// loadProgram executes src and returns the program bound to name.
func loadProgram(t *testing.T, src, name string) *prog.Unit {
	t.Helper()

	path := testutil.WriteFile(t, "main.hcl", src)
	unit, err := loader.New(prog.NewRegistry()).Load(context.Background(), path)
	require.NoError(t, err)

	val, ok := unit.Lookup(name)
	require.True(t, ok, "program %q not bound", name)
	u, ok := prog.FromValue(val)
	require.True(t, ok)
	return u
}

func TestCompile(t *testing.T) {
	t.Parallel()

	u := loadProgram(t, testutil.EvenOdd, "m")

	pkg, err := compiler.Compile(context.Background(), u)

	require.NoError(t, err)
	require.Equal(t, prog.Version, pkg.Compiler)
	require.Equal(t, "main", pkg.Modules[0].Entrypoint)
}

func TestCompile_PropagatesCompilerErrors(t *testing.T) {
	t.Parallel()

	u := loadProgram(t, testutil.TypeError, "broken")
	_, direct := u.Compile()
	require.Error(t, direct)

	pkg, err := compiler.Compile(context.Background(), u)

	require.Nil(t, pkg)
	var diags hcl.Diagnostics
	require.ErrorAs(t, err, &diags)
	require.Equal(t, direct.Error(), err.Error(), "diagnostics are not re-wrapped")
}

func TestRender(t *testing.T) {
	t.Parallel()

	u := loadProgram(t, testutil.EvenOdd, "m")
	pkg, err := compiler.Compile(context.Background(), u)
	require.NoError(t, err)

	t.Run("json is canonical package text", func(t *testing.T) {
		want, err := pkg.ToJSON()
		require.NoError(t, err)

		got, err := compiler.Render(pkg, compiler.FormatJSON)
		require.NoError(t, err)
		require.Equal(t, want, got)
		testutil.RequirePackage(t, got, "m")
	})

	t.Run("yaml", func(t *testing.T) {
		got, err := compiler.Render(pkg, compiler.FormatYAML)
		require.NoError(t, err)
		require.Contains(t, got, "format: gridc-package/v1")
		require.Contains(t, got, "entrypoint: main")
		require.Contains(t, got, "- is_even")
	})

	t.Run("mermaid", func(t *testing.T) {
		got, err := compiler.Render(pkg, compiler.FormatMermaid)
		require.NoError(t, err)
		want := `graph LR
    subgraph m
        m__is_even["is_even(x: number) bool"]
        m__is_odd["is_odd(x: number) bool"]
        m__main(["main() bool"])
    end
    m__is_even --> m__is_odd
    m__is_odd --> m__is_even
    m__main --> m__is_even
    m__main --> m__is_odd`
		require.Equal(t, want, got)
	})

	t.Run("unknown format", func(t *testing.T) {
		_, err := compiler.Render(pkg, compiler.Format("sexpr"))
		require.EqualError(t, err, `invalid format "sexpr"`)
	})
}

func TestRender_MermaidEscapesNames(t *testing.T) {
	t.Parallel()

	pkg := &prog.Package{
		Format:   prog.PackageFormat,
		Compiler: prog.Version,
		Modules: []*prog.Module{{
			Name:       "my prog",
			Entrypoint: "say \"hi\"",
			Functions: []*prog.Function{
				{Name: "say \"hi\"", Result: "string", Body: "x", Calls: []string{"helper-fn"}},
				{Name: "helper-fn", Result: "string", Body: "x"},
			},
		}},
	}

	got, err := compiler.Render(pkg, compiler.FormatMermaid)

	require.NoError(t, err)
	want := `graph LR
    subgraph my_prog ["my prog"]
        my_prog__say__hi_(["say #quot;hi#quot;() string"])
        my_prog__helper_fn["helper-fn() string"]
    end
    my_prog__say__hi_ --> my_prog__helper_fn`
	require.Equal(t, want, got)
}

func TestParseFormat(t *testing.T) {
	t.Parallel()

	for _, name := range []string{"json", "YAML", "mermaid"} {
		_, err := compiler.ParseFormat(name)
		require.NoError(t, err, name)
	}

	_, err := compiler.ParseFormat("xml")
	require.EqualError(t, err, `invalid format "xml": must be one of json, yaml, mermaid`)
}
