// Package config loads application definitions written in HCL and builds
// their pages into component trees.
package config

import (
	"context"
	"fmt"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/ext/typeexpr"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"

	"pcgo/packages/compiler/codegen"
	"pcgo/packages/compiler/ctxlog"
	"pcgo/packages/compiler/vars"
)

// hclAppFile represents the top-level structure of an app file for decoding.
type hclAppFile struct {
	Apps   []*hclApp   `hcl:"app,block"`
	States []*hclState `hcl:"state,block"`
	Pages  []*hclPage  `hcl:"page,block"`
}

type hclApp struct {
	Name   string  `hcl:"name,label"`
	OutDir *string `hcl:"out_dir,optional"`
}

type hclState struct {
	Name   string   `hcl:"name,label"`
	Config hcl.Body `hcl:",remain"`
}

type hclPage struct {
	Name  string     `hcl:"name,label"`
	Nodes []*hclNode `hcl:"node,block"`
}

type hclNode struct {
	Kind  string         `hcl:"kind,label"`
	Tag   *string        `hcl:"tag,optional"`
	Value *string        `hcl:"value,optional"`
	Bind  *string        `hcl:"bind,optional"`
	Each  *string        `hcl:"each,optional"`
	Props hcl.Expression `hcl:"props,optional"`
	Nodes []*hclNode     `hcl:"node,block"`
}

// App is a decoded application definition.
type App struct {
	Name   string
	OutDir string
	State  []codegen.StateVar
	Pages  []*Page

	stateByName map[string]*vars.Var
}

// Page is a decoded page definition, not yet built.
type Page struct {
	Name  string
	nodes []*hclNode
}

// LoadFile parses and decodes the app definition at path.
func LoadFile(ctx context.Context, path string, cfg *CompilerConfig) (*App, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Loading app definition", "path", path)

	parser := hclparse.NewParser()
	file, diags := parser.ParseHCLFile(path)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL file %s: %w", path, diags)
	}
	return decode(ctx, file.Body, path, cfg)
}

// Load parses and decodes an app definition held in memory. filename is
// used in diagnostics only.
func Load(ctx context.Context, src []byte, filename string, cfg *CompilerConfig) (*App, error) {
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCL(src, filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL file %s: %w", filename, diags)
	}
	return decode(ctx, file.Body, filename, cfg)
}

func decode(ctx context.Context, body hcl.Body, filename string, cfg *CompilerConfig) (*App, error) {
	logger := ctxlog.FromContext(ctx)
	if cfg == nil {
		cfg = NewCompilerConfig()
	}

	var parsed hclAppFile
	if diags := gohcl.DecodeBody(body, nil, &parsed); diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode HCL file %s: %w", filename, diags)
	}
	if len(parsed.Apps) != 1 {
		return nil, fmt.Errorf("%s: expected exactly one app block, found %d", filename, len(parsed.Apps))
	}

	declared := ""
	if parsed.Apps[0].OutDir != nil {
		declared = *parsed.Apps[0].OutDir
	}
	app := &App{
		Name:        parsed.Apps[0].Name,
		OutDir:      cfg.ResolveOutDir(declared),
		stateByName: make(map[string]*vars.Var, len(parsed.States)),
	}

	for _, s := range parsed.States {
		if _, dup := app.stateByName[s.Name]; dup {
			return nil, fmt.Errorf("%s: duplicate state %q", filename, s.Name)
		}
		sv, diags := decodeState(s, cfg)
		if diags.HasErrors() {
			return nil, fmt.Errorf("error decoding state %q in %s: %w", s.Name, filename, diags)
		}
		app.State = append(app.State, sv)
		app.stateByName[s.Name] = sv.Var
	}

	seen := make(map[string]bool, len(parsed.Pages))
	for _, p := range parsed.Pages {
		if seen[p.Name] {
			return nil, fmt.Errorf("%s: duplicate page %q", filename, p.Name)
		}
		if !validPageName(p.Name) {
			return nil, fmt.Errorf("%s: invalid page name %q", filename, p.Name)
		}
		seen[p.Name] = true
		app.Pages = append(app.Pages, &Page{Name: p.Name, nodes: p.Nodes})
	}
	if len(app.Pages) == 0 {
		logger.Warn("App defines no pages", "app", app.Name, "file", filename)
	}

	logger.Debug("Decoded app", "app", app.Name, "states", len(app.State), "pages", len(app.Pages))
	return app, nil
}

// validPageName reports whether name can be used as an output file name.
func validPageName(name string) bool {
	return name != "" && name != "." && name != ".." && !strings.ContainsAny(name, `/\`)
}

func decodeState(s *hclState, cfg *CompilerConfig) (codegen.StateVar, hcl.Diagnostics) {
	attrs, diags := s.Config.JustAttributes()
	if diags.HasErrors() {
		return codegen.StateVar{}, diags
	}

	ty := cty.DynamicPseudoType
	if attr, ok := attrs["type"]; ok {
		var tyDiags hcl.Diagnostics
		ty, tyDiags = typeexpr.TypeConstraint(attr.Expr)
		diags = append(diags, tyDiags...)
		if tyDiags.HasErrors() {
			return codegen.StateVar{}, diags
		}
	} else if cfg.StrictTypes {
		return codegen.StateVar{}, append(diags, &hcl.Diagnostic{
			Severity: hcl.DiagError,
			Summary:  "Missing type",
			Detail:   fmt.Sprintf("State %q must declare a type.", s.Name),
			Subject:  s.Config.MissingItemRange().Ptr(),
		})
	}

	value := cty.NullVal(ty)
	if attr, ok := attrs["default"]; ok {
		v, valDiags := attr.Expr.Value(nil)
		diags = append(diags, valDiags...)
		if valDiags.HasErrors() {
			return codegen.StateVar{}, diags
		}
		converted, err := convert.Convert(v, ty)
		if err != nil {
			return codegen.StateVar{}, append(diags, &hcl.Diagnostic{
				Severity: hcl.DiagError,
				Summary:  "Invalid default value",
				Detail:   fmt.Sprintf("Default of state %q does not match its type: %s.", s.Name, err),
				Subject:  attr.Expr.Range().Ptr(),
			})
		}
		value = converted
	}

	for name, attr := range attrs {
		if name != "type" && name != "default" {
			diags = append(diags, &hcl.Diagnostic{
				Severity: hcl.DiagError,
				Summary:  "Unsupported argument",
				Detail:   fmt.Sprintf("An argument named %q is not expected in a state block.", name),
				Subject:  attr.NameRange.Ptr(),
			})
		}
	}
	if diags.HasErrors() {
		return codegen.StateVar{}, diags
	}

	return codegen.StateVar{Var: vars.New(s.Name, ty), Value: value}, diags
}
