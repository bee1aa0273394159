package compiler

import (
	"fmt"
	"strings"

	"github.com/vk/gridc/internal/prog"
	"gopkg.in/yaml.v3"
)

// Format selects how a package is rendered.
type Format string

const (
	// FormatJSON is the canonical package text.
	FormatJSON Format = "json"
	// FormatYAML is the package as YAML, for reading.
	FormatYAML Format = "yaml"
	// FormatMermaid is the call graph as a mermaid flowchart.
	FormatMermaid Format = "mermaid"
)

// Formats lists the supported formats.
var Formats = []Format{FormatJSON, FormatYAML, FormatMermaid}

// ParseFormat validates a format name.
func ParseFormat(s string) (Format, error) {
	for _, f := range Formats {
		if string(f) == strings.ToLower(s) {
			return f, nil
		}
	}
	return "", fmt.Errorf("invalid format %q: must be one of json, yaml, mermaid", s)
}

// Render renders pkg in the given format. The output never ends in a newline.
func Render(pkg *prog.Package, format Format) (string, error) {
	switch format {
	case FormatJSON, "":
		return pkg.ToJSON()
	case FormatYAML:
		out, err := yaml.Marshal(pkg)
		if err != nil {
			return "", fmt.Errorf("failed to render package as yaml: %w", err)
		}
		return strings.TrimSuffix(string(out), "\n"), nil
	case FormatMermaid:
		return renderMermaid(pkg), nil
	default:
		return "", fmt.Errorf("invalid format %q", format)
	}
}

func renderMermaid(pkg *prog.Package) string {
	var b strings.Builder
	b.WriteString("graph LR")
	for _, mod := range pkg.Modules {
		if id := mermaidID(mod.Name); id == mod.Name {
			fmt.Fprintf(&b, "\n    subgraph %s", id)
		} else {
			fmt.Fprintf(&b, "\n    subgraph %s [\"%s\"]", id, mermaidLabel(mod.Name))
		}
		for _, fn := range mod.Functions {
			label := mermaidLabel(fmt.Sprintf("%s(%s) %s", fn.Name, paramList(fn.Params), fn.Result))
			if fn.Name == mod.Entrypoint {
				fmt.Fprintf(&b, "\n        %s([\"%s\"])", nodeID(mod, fn.Name), label)
			} else {
				fmt.Fprintf(&b, "\n        %s[\"%s\"]", nodeID(mod, fn.Name), label)
			}
		}
		b.WriteString("\n    end")
		for _, fn := range mod.Functions {
			for _, callee := range fn.Calls {
				fmt.Fprintf(&b, "\n    %s --> %s", nodeID(mod, fn.Name), nodeID(mod, callee))
			}
		}
	}
	return b.String()
}

func nodeID(mod *prog.Module, fn string) string {
	return mermaidID(mod.Name) + "__" + mermaidID(fn)
}

// mermaidID replaces every byte outside [A-Za-z0-9_] with an underscore.
func mermaidID(s string) string {
	b := []byte(s)
	for i, c := range b {
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9', c == '_':
		default:
			b[i] = '_'
		}
	}
	return string(b)
}

var labelEscaper = strings.NewReplacer(`"`, "#quot;", "\n", " ", "\r", " ")

func mermaidLabel(s string) string {
	return labelEscaper.Replace(s)
}

func paramList(params []prog.Param) string {
	parts := make([]string, len(params))
	for i, p := range params {
		parts[i] = p.Name + ": " + p.Type
	}
	return strings.Join(parts, ", ")
}
