// Package codegen emits page modules from component trees.
package codegen

import (
	"context"
	"fmt"
	"strings"
	"unicode"

	"github.com/zclconf/go-cty/cty"
	ctyjson "github.com/zclconf/go-cty/cty/json"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"pcgo/packages/compiler/ctxlog"
	"pcgo/packages/compiler/tags"
	"pcgo/packages/compiler/vars"
)

// StateVar is a page state field and its initial value.
type StateVar struct {
	Var   *vars.Var
	Value cty.Value
}

// CodeGenerator generates a JavaScript page module from a component tree
type CodeGenerator struct {
	indentLevel int
	builder     strings.Builder
}

// NewCodeGenerator creates a new code generator
func NewCodeGenerator() *CodeGenerator {
	return &CodeGenerator{}
}

// Generate renders root and returns the module source for the page.
func (cg *CodeGenerator) Generate(ctx context.Context, page string, state []StateVar, root tags.Component) (string, error) {
	logger := ctxlog.FromContext(ctx)
	cg.builder.Reset()
	cg.indentLevel = 0

	tag, err := root.Render()
	if err != nil {
		return "", fmt.Errorf("render page %s: %w", page, err)
	}
	jsx, err := tag.Format(ctx)
	if err != nil {
		return "", fmt.Errorf("format page %s: %w", page, err)
	}
	// A bare expression root would be parsed as an object literal.
	if strings.HasPrefix(jsx, "{") {
		jsx = "<>" + jsx + "</>"
	}

	name := ComponentName(page)
	cg.write("import { Fragment, useState } from \"react\";\n")
	cg.write("\n")
	cg.write("export default function %s() {\n", name)
	cg.indentLevel++
	if err := cg.writeState(state); err != nil {
		return "", fmt.Errorf("page %s: %w", page, err)
	}
	cg.write("return (\n")
	cg.indentLevel++
	cg.write("%s\n", jsx)
	cg.indentLevel--
	cg.write(");\n")
	cg.indentLevel--
	cg.write("}\n")

	logger.Debug("generated page", "page", page, "component", name, "state_vars", len(state))
	return cg.builder.String(), nil
}

func (cg *CodeGenerator) writeState(state []StateVar) error {
	cg.write("const [state, setState] = useState({\n")
	cg.indentLevel++
	for _, sv := range state {
		value := "null"
		if !sv.Value.IsNull() {
			if !sv.Value.IsWhollyKnown() {
				return fmt.Errorf("state %s: initial value is not known", sv.Var.Name)
			}
			b, err := ctyjson.Marshal(sv.Value, sv.Value.Type())
			if err != nil {
				return fmt.Errorf("state %s: %w", sv.Var.Name, err)
			}
			value = string(b)
		}
		cg.write("%s: %s,\n", tags.EscapeIdentifier(sv.Var.Name, false, false), value)
	}
	cg.indentLevel--
	cg.write("});\n")
	return nil
}

// write writes a formatted string to the builder
func (cg *CodeGenerator) write(format string, args ...interface{}) {
	indent := strings.Repeat("  ", cg.indentLevel)
	cg.builder.WriteString(indent)
	cg.builder.WriteString(fmt.Sprintf(format, args...))
}

// ComponentName turns a page name such as "todo_list" into "TodoList".
func ComponentName(page string) string {
	caser := cases.Title(language.Und)
	parts := strings.FieldsFunc(page, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	var b strings.Builder
	for _, part := range parts {
		b.WriteString(caser.String(part))
	}
	name := b.String()
	if name == "" || unicode.IsDigit(rune(name[0])) {
		name = "Page" + name
	}
	return name
}
