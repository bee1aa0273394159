package prog

import (
	"fmt"
	"sort"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/ext/typeexpr"
	"github.com/hashicorp/hcl/v2/hclsyntax"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"
	"github.com/zclconf/go-cty/cty/function"
)

// signature is the checked type of a declared function.
type signature struct {
	names  []string
	params []cty.Type
	result cty.Type
}

// Compile type checks every function of the unit and produces a package.
// The returned error, if any, is the hcl.Diagnostics describing every
// problem found.
func (u *Unit) Compile() (*Package, error) {
	var diags hcl.Diagnostics

	funcs := Builtins()
	sigs := make(map[string]*signature, len(u.Functions))
	seen := make(map[string]struct{}, len(u.Functions))
	for _, fn := range u.Functions {
		if _, dup := seen[fn.Name]; dup {
			diags = diags.Append(&hcl.Diagnostic{
				Severity: hcl.DiagError,
				Summary:  "Duplicate function",
				Detail:   fmt.Sprintf("Program %q declares function %q more than once.", u.Name, fn.Name),
				Subject:  fn.Body.Range().Ptr(),
			})
			continue
		}
		seen[fn.Name] = struct{}{}

		sig, sigDiags := fn.signature()
		diags = append(diags, sigDiags...)
		if sigDiags.HasErrors() {
			continue
		}
		sigs[fn.Name] = sig
		funcs[fn.Name] = sig.function()
	}

	if _, ok := seen[u.Entrypoint]; u.explicitEntrypoint && !ok {
		diags = diags.Append(&hcl.Diagnostic{
			Severity: hcl.DiagError,
			Summary:  "Unknown entrypoint",
			Detail:   fmt.Sprintf("Program %q names %q as its entrypoint, but declares no such function.", u.Name, u.Entrypoint),
			Subject:  u.DeclRange.Ptr(),
		})
	}
	if diags.HasErrors() {
		return nil, diags
	}

	mod := &Module{Name: u.Name}
	if _, ok := sigs[u.Entrypoint]; ok {
		mod.Entrypoint = u.Entrypoint
	}

	for _, fn := range u.Functions {
		sig := sigs[fn.Name]
		vars := make(map[string]cty.Value, len(sig.names))
		for i, name := range sig.names {
			vars[name] = cty.UnknownVal(sig.params[i])
		}

		val, valDiags := fn.Body.Value(&hcl.EvalContext{Variables: vars, Functions: funcs})
		diags = append(diags, valDiags...)
		if valDiags.HasErrors() {
			continue
		}

		got := val.Type()
		if !got.Equals(sig.result) && convert.GetConversion(got, sig.result) == nil {
			diags = diags.Append(&hcl.Diagnostic{
				Severity: hcl.DiagError,
				Summary:  "Incompatible result type",
				Detail: fmt.Sprintf("Function %q must return %s: %s.",
					fn.Name, typeexpr.TypeString(sig.result), convert.MismatchMessage(got, sig.result)),
				Subject: fn.Body.Range().Ptr(),
			})
			continue
		}

		out := &Function{
			Name:   fn.Name,
			Result: typeexpr.TypeString(sig.result),
			Body:   fn.Source,
			Calls:  fn.calls(sigs),
		}
		for i, name := range sig.names {
			out.Params = append(out.Params, Param{Name: name, Type: typeexpr.TypeString(sig.params[i])})
		}
		mod.Functions = append(mod.Functions, out)
	}
	if diags.HasErrors() {
		return nil, diags
	}

	return &Package{
		Format:   PackageFormat,
		Compiler: Version,
		Modules:  []*Module{mod},
	}, nil
}

func (fn *FunctionDecl) signature() (*signature, hcl.Diagnostics) {
	var diags hcl.Diagnostics
	sig := &signature{}

	seen := make(map[string]struct{}, len(fn.Params))
	for _, p := range fn.Params {
		if _, dup := seen[p.Name]; dup {
			diags = diags.Append(&hcl.Diagnostic{
				Severity: hcl.DiagError,
				Summary:  "Duplicate parameter",
				Detail:   fmt.Sprintf("Function %q declares parameter %q more than once.", fn.Name, p.Name),
				Subject:  p.Type.Range().Ptr(),
			})
			continue
		}
		seen[p.Name] = struct{}{}

		ty, tyDiags := typeexpr.TypeConstraint(p.Type)
		diags = append(diags, tyDiags...)
		sig.names = append(sig.names, p.Name)
		sig.params = append(sig.params, ty)
	}

	ty, tyDiags := typeexpr.TypeConstraint(fn.Returns)
	diags = append(diags, tyDiags...)
	sig.result = ty

	return sig, diags
}

// function exposes the signature to expression evaluation. Calls never run
// anything; they only carry the declared result type.
func (s *signature) function() function.Function {
	params := make([]function.Parameter, len(s.params))
	for i := range s.params {
		params[i] = function.Parameter{Name: s.names[i], Type: s.params[i]}
	}
	return function.New(&function.Spec{
		Params: params,
		Type:   function.StaticReturnType(s.result),
		Impl: func(_ []cty.Value, retType cty.Type) (cty.Value, error) {
			return cty.UnknownVal(retType), nil
		},
	})
}

// calls lists the program functions referenced from the body, sorted.
func (fn *FunctionDecl) calls(known map[string]*signature) []string {
	node, ok := fn.Body.(hclsyntax.Node)
	if !ok {
		return nil
	}

	set := make(map[string]struct{})
	hclsyntax.VisitAll(node, func(n hclsyntax.Node) hcl.Diagnostics {
		if call, ok := n.(*hclsyntax.FunctionCallExpr); ok {
			if _, user := known[call.Name]; user {
				set[call.Name] = struct{}{}
			}
		}
		return nil
	})

	if len(set) == 0 {
		return nil
	}
	names := make([]string, 0, len(set))
	for name := range set {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
