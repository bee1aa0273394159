package prog

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
)

// PackageFormat identifies the serialized layout of a Package.
const PackageFormat = "gridc-package/v1"

// Package is the result of compiling a program unit.
type Package struct {
	Format   string    `json:"format" yaml:"format"`
	Compiler string    `json:"compiler" yaml:"compiler"`
	Modules  []*Module `json:"modules" yaml:"modules"`
}

// Module is one compiled program.
type Module struct {
	Name       string      `json:"name" yaml:"name"`
	Entrypoint string      `json:"entrypoint,omitempty" yaml:"entrypoint,omitempty"`
	Functions  []*Function `json:"functions" yaml:"functions"`
}

// Function is a type checked function. Types are rendered in HCL type
// expression syntax.
type Function struct {
	Name   string   `json:"name" yaml:"name"`
	Params []Param  `json:"params,omitempty" yaml:"params,omitempty"`
	Result string   `json:"result" yaml:"result"`
	Body   string   `json:"body" yaml:"body"`
	Calls  []string `json:"calls,omitempty" yaml:"calls,omitempty"`
}

// Param is a typed function parameter.
type Param struct {
	Name string `json:"name" yaml:"name"`
	Type string `json:"type" yaml:"type"`
}

// ToJSON renders the package as canonical JSON: fixed field order, two
// space indentation and no HTML escaping. Equal packages render to
// identical text.
func (p *Package) ToJSON() (string, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(p); err != nil {
		return "", err
	}
	return strings.TrimSuffix(buf.String(), "\n"), nil
}

// ParsePackage reads a package previously rendered with ToJSON. The data
// must hold exactly one package object.
func ParsePackage(data []byte) (*Package, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()

	var p Package
	if err := dec.Decode(&p); err != nil {
		return nil, fmt.Errorf("failed to decode package: %w", err)
	}
	var extra json.RawMessage
	if err := dec.Decode(&extra); !errors.Is(err, io.EOF) {
		return nil, errors.New("failed to decode package: unexpected data after the package object")
	}
	if p.Format != PackageFormat {
		return nil, fmt.Errorf("unsupported package format %q, expected %q", p.Format, PackageFormat)
	}
	if err := p.validate(); err != nil {
		return nil, fmt.Errorf("failed to decode package: %w", err)
	}
	return &p, nil
}

func (p *Package) validate() error {
	for i, mod := range p.Modules {
		if mod == nil {
			return fmt.Errorf("module %d is null", i)
		}
		if mod.Name == "" {
			return fmt.Errorf("module %d has no name", i)
		}
		for j, fn := range mod.Functions {
			if fn == nil {
				return fmt.Errorf("function %d of module %q is null", j, mod.Name)
			}
			if fn.Name == "" {
				return fmt.Errorf("function %d of module %q has no name", j, mod.Name)
			}
		}
	}
	return nil
}
