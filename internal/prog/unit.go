package prog

import (
	"reflect"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/zclconf/go-cty/cty"
)

// DefaultEntrypoint is the function a program starts from when its
// declaration does not name one.
const DefaultEntrypoint = "main"

// UnitType is the cty type of a program unit bound into a namespace.
var UnitType = cty.Capsule("program", reflect.TypeOf(Unit{}))

// Unit is a declared, not yet compiled, program.
type Unit struct {
	Name       string
	Entrypoint string
	Functions  []*FunctionDecl
	DeclRange  hcl.Range

	explicitEntrypoint bool
	registered         bool
	provenance         Provenance
}

// FunctionDecl is a function as written in a program block. Type and body
// expressions are kept unevaluated until compilation.
type FunctionDecl struct {
	Name    string
	Params  []*ParamDecl
	Returns hcl.Expression
	Body    hcl.Expression

	// Source is the body expression as it appears in the file.
	Source string
}

// ParamDecl is a single `param` block.
type ParamDecl struct {
	Name string
	Type hcl.Expression
}

// programSchema is the body of a `program` block.
type programSchema struct {
	Entrypoint *string           `hcl:"entrypoint,optional"`
	Functions  []*functionSchema `hcl:"function,block"`
}

type functionSchema struct {
	Name    string         `hcl:"name,label"`
	Params  []*paramSchema `hcl:"param,block"`
	Returns hcl.Expression `hcl:"returns"`
	Body    hcl.Expression `hcl:"body"`
}

type paramSchema struct {
	Name string         `hcl:"name,label"`
	Type hcl.Expression `hcl:"type"`
}

// DecodeUnit builds a program unit from the body of a `program` block.
// Attributes of the block itself are evaluated in ctx; function types and
// bodies are not. src is the content of the file the body was parsed from.
func DecodeUnit(name string, body hcl.Body, ctx *hcl.EvalContext, src []byte) (*Unit, hcl.Diagnostics) {
	var schema programSchema
	diags := gohcl.DecodeBody(body, ctx, &schema)
	if diags.HasErrors() {
		return nil, diags
	}

	u := &Unit{
		Name:       name,
		Entrypoint: DefaultEntrypoint,
		DeclRange:  body.MissingItemRange(),
	}
	if schema.Entrypoint != nil {
		u.Entrypoint = *schema.Entrypoint
		u.explicitEntrypoint = true
	}

	for _, fn := range schema.Functions {
		decl := &FunctionDecl{
			Name:    fn.Name,
			Returns: fn.Returns,
			Body:    fn.Body,
			Source:  strings.TrimSpace(string(fn.Body.Range().SliceBytes(src))),
		}
		for _, p := range fn.Params {
			decl.Params = append(decl.Params, &ParamDecl{Name: p.Name, Type: p.Type})
		}
		u.Functions = append(u.Functions, decl)
	}

	return u, diags
}

// Provenance reports where the unit was declared. It is the zero value
// until the unit is registered.
func (u *Unit) Provenance() Provenance {
	return u.provenance
}

// Value wraps the unit so it can be bound in an HCL namespace.
func (u *Unit) Value() cty.Value {
	return cty.CapsuleVal(UnitType, u)
}

// FromValue unwraps a program unit bound in a namespace. It reports false
// for any value that is not a known, non-null program unit.
func FromValue(v cty.Value) (*Unit, bool) {
	if !v.Type().Equals(UnitType) || v.IsNull() || !v.IsKnown() {
		return nil, false
	}
	u, ok := v.EncapsulatedValue().(*Unit)
	return u, ok
}
