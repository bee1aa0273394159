package loader

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync/atomic"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclsyntax"
	"github.com/vk/gridc/internal/ctxlog"
	"github.com/vk/gridc/internal/prog"
	"github.com/zclconf/go-cty/cty/function"
)

// Registrar receives every program unit declared while executing a file.
type Registrar interface {
	Register(u *prog.Unit, p prog.Provenance)
}

// Loader executes program files. It holds no state between loads other
// than the registrar it reports declarations to.
type Loader struct {
	registrar Registrar
}

// New creates a loader that registers declared programs with registrar.
func New(registrar Registrar) *Loader {
	return &Loader{registrar: registrar}
}

// unitSeq numbers loads so every Unit gets a distinct name.
var unitSeq atomic.Uint64

// importSchema is the body of an `import` block.
type importSchema struct {
	Source string `hcl:"source"`
}

// Load executes the file at path into a new Unit. A missing or unreadable
// file yields *InvalidModulePathError; anything that goes wrong while
// parsing or executing the file is returned as the hcl.Diagnostics
// describing it.
func (l *Loader) Load(ctx context.Context, path string) (*Unit, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return l.load(ctx, path, nil)
}

func (l *Loader) load(ctx context.Context, path string, stack []string) (*Unit, error) {
	logger := ctxlog.FromContext(ctx)

	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, &InvalidModulePathError{Path: path, Err: err}
	}
	src, err := os.ReadFile(abs)
	if err != nil {
		logger.Debug("Failed to read source file.", "path", abs, "error", err)
		return nil, &InvalidModulePathError{Path: path, Err: err}
	}

	file, diags := hclsyntax.ParseConfig(src, abs, hcl.InitialPos)
	if diags.HasErrors() {
		return nil, diags
	}

	unit := newUnit(fmt.Sprintf("unit_%d", unitSeq.Add(1)), abs)
	logger.Debug("Executing source file.", "path", abs, "unit", unit.name)

	x := &execution{
		loader: l,
		unit:   unit,
		src:    src,
		stack:  append(stack[:len(stack):len(stack)], abs),
		funcs:  prog.Builtins(),
	}
	if diags := x.run(ctx, file.Body.(*hclsyntax.Body)); diags.HasErrors() {
		return nil, diags
	}

	logger.Debug("Source file executed.", "path", abs, "unit", unit.name, "names", unit.order)
	return unit, nil
}

// execution is the state of running one file's top-level items.
type execution struct {
	loader *Loader
	unit   *Unit
	src    []byte
	stack  []string
	funcs  map[string]function.Function
}

// item is a top-level attribute or block, positioned in the file.
type item struct {
	start int
	attr  *hclsyntax.Attribute
	block *hclsyntax.Block
}

func (x *execution) run(ctx context.Context, body *hclsyntax.Body) hcl.Diagnostics {
	items := make([]item, 0, len(body.Attributes)+len(body.Blocks))
	for _, attr := range body.Attributes {
		items = append(items, item{start: attr.SrcRange.Start.Byte, attr: attr})
	}
	for _, block := range body.Blocks {
		items = append(items, item{start: block.Range().Start.Byte, block: block})
	}
	sort.Slice(items, func(i, j int) bool { return items[i].start < items[j].start })

	var diags hcl.Diagnostics
	for _, it := range items {
		var itemDiags hcl.Diagnostics
		if it.attr != nil {
			itemDiags = x.execAttribute(it.attr)
		} else {
			itemDiags = x.execBlock(ctx, it.block)
		}
		diags = append(diags, itemDiags...)
		if itemDiags.HasErrors() {
			return diags
		}
	}
	return diags
}

// evalContext sees every name bound so far.
func (x *execution) evalContext() *hcl.EvalContext {
	return &hcl.EvalContext{
		Variables: x.unit.values,
		Functions: x.funcs,
	}
}

func (x *execution) execAttribute(attr *hclsyntax.Attribute) hcl.Diagnostics {
	val, diags := attr.Expr.Value(x.evalContext())
	if diags.HasErrors() {
		return diags
	}
	x.unit.bind(attr.Name, val)
	return diags
}

func (x *execution) execBlock(ctx context.Context, block *hclsyntax.Block) hcl.Diagnostics {
	switch block.Type {
	case "program":
		return x.execProgram(ctx, block)
	case "import":
		return x.execImport(ctx, block)
	default:
		return hcl.Diagnostics{{
			Severity: hcl.DiagError,
			Summary:  "Unsupported block type",
			Detail:   fmt.Sprintf("Blocks of type %q are not expected here. Expected \"program\" or \"import\".", block.Type),
			Subject:  block.TypeRange.Ptr(),
		}}
	}
}

func singleLabel(block *hclsyntax.Block) (string, hcl.Diagnostics) {
	if len(block.Labels) != 1 {
		return "", hcl.Diagnostics{{
			Severity: hcl.DiagError,
			Summary:  "Invalid block labels",
			Detail:   fmt.Sprintf("A %q block needs exactly one label, its name.", block.Type),
			Subject:  block.DefRange().Ptr(),
		}}
	}
	return block.Labels[0], nil
}

func (x *execution) execProgram(ctx context.Context, block *hclsyntax.Block) hcl.Diagnostics {
	name, diags := singleLabel(block)
	if diags.HasErrors() {
		return diags
	}

	u, decodeDiags := prog.DecodeUnit(name, block.Body, x.evalContext(), x.src)
	diags = append(diags, decodeDiags...)
	if decodeDiags.HasErrors() {
		return diags
	}
	u.DeclRange = block.DefRange()

	x.loader.registrar.Register(u, prog.Provenance{Origin: x.unit, Filename: x.unit.path})
	x.unit.bind(name, u.Value())
	ctxlog.FromContext(ctx).Debug("Program declared.", "name", name, "unit", x.unit.name, "filename", x.unit.path, "functions", len(u.Functions))
	return diags
}

func (x *execution) execImport(ctx context.Context, block *hclsyntax.Block) hcl.Diagnostics {
	name, diags := singleLabel(block)
	if diags.HasErrors() {
		return diags
	}

	var schema importSchema
	diags = append(diags, gohcl.DecodeBody(block.Body, x.evalContext(), &schema)...)
	if diags.HasErrors() {
		return diags
	}

	target := schema.Source
	if !filepath.IsAbs(target) {
		target = filepath.Join(filepath.Dir(x.unit.path), target)
	}
	target = filepath.Clean(target)

	for _, p := range x.stack {
		if p == target {
			return diags.Append(&hcl.Diagnostic{
				Severity: hcl.DiagError,
				Summary:  "Import cycle",
				Detail:   fmt.Sprintf("Importing %q from %q creates a cycle.", target, x.unit.path),
				Subject:  block.DefRange().Ptr(),
			})
		}
	}

	sub, err := x.loader.load(ctx, target, x.stack)
	if err != nil {
		var subDiags hcl.Diagnostics
		if errors.As(err, &subDiags) {
			return append(diags, subDiags...)
		}
		return diags.Append(&hcl.Diagnostic{
			Severity: hcl.DiagError,
			Summary:  "Failed to import",
			Detail:   fmt.Sprintf("Import %q could not be loaded: %s.", name, err),
			Subject:  block.DefRange().Ptr(),
		})
	}

	x.unit.bind(name, sub.object())
	return diags
}
