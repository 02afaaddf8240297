// Package vars holds typed references to reactive values used while
// building component trees.
package vars

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/zclconf/go-cty/cty"

	"pcgo/packages/compiler/ctxlog"
)

var legalIdentifierRe = regexp.MustCompile(`(?i)^[$A-Z_][0-9A-Z_$]*$`)

// IsIdentifier reports whether name can be used as a bare JavaScript
// identifier or dotted property name.
func IsIdentifier(name string) bool {
	return legalIdentifierRe.MatchString(name)
}

// Var is a reference to a value that is resolved in the generated page,
// either a field of the page state or a local introduced by the template.
type Var struct {
	// Name is the identifier of the value.
	Name string
	// Type is the declared type of the value. cty.DynamicPseudoType means
	// the type is not known.
	Type cty.Type
	// State is the name of the object holding the value. Empty for locals.
	State string
	// IsLocal marks a var that only exists inside the enclosing template.
	IsLocal bool
	// IsString marks a var whose name is a string literal, not an expression.
	IsString bool
}

// New returns a state var of the given type.
func New(name string, t cty.Type) *Var {
	return &Var{Name: name, Type: t, State: "state"}
}

// NewLocal returns a template-local var of the given type.
func NewLocal(name string, t cty.Type) *Var {
	return &Var{Name: name, Type: t, IsLocal: true}
}

// FullName returns the expression that reads the var. State fields whose
// name is not an identifier are read with bracket access.
func (v *Var) FullName() string {
	if v.IsLocal || v.State == "" {
		return v.Name
	}
	if !IsIdentifier(v.Name) {
		return v.State + "[" + strconv.Quote(v.Name) + "]"
	}
	return v.State + "." + v.Name
}

// String returns the var formatted for use inside markup.
func (v *Var) String() string {
	out := v.FullName()
	if v.IsString {
		out = "`" + out + "`"
	}
	if v.IsLocal {
		return out
	}
	return Wrap(out, '{')
}

// Index returns the var reading one element of v at the given index.
func (v *Var) Index(ctx context.Context, index *Var) *Var {
	return &Var{
		Name:    fmt.Sprintf("%s[%s]", v.FullName(), index.FullName()),
		Type:    ElementTypeOf(ctx, v),
		IsLocal: true,
	}
}

// Wrap surrounds text with open and its matching closing character, unless
// it is already wrapped.
func Wrap(text string, open byte) string {
	closing := open
	switch open {
	case '{':
		closing = '}'
	case '(':
		closing = ')'
	case '[':
		closing = ']'
	case '<':
		closing = '>'
	}
	if len(text) >= 2 && text[0] == open && text[len(text)-1] == closing {
		return text
	}
	var b strings.Builder
	b.WriteByte(open)
	b.WriteString(text)
	b.WriteByte(closing)
	return b.String()
}

// ElementType reports the element type of a sequence type.
//
// Lists and sets yield their element type. A tuple yields the type shared by
// all of its elements. Every other type, including cty.DynamicPseudoType and
// cty.NilType, has no element type.
func ElementType(t cty.Type) (cty.Type, bool) {
	switch {
	case t == cty.NilType:
		return cty.NilType, false
	case t.IsListType(), t.IsSetType():
		return t.ElementType(), true
	case t.IsTupleType():
		elems := t.TupleElementTypes()
		if len(elems) == 0 {
			return cty.NilType, false
		}
		for _, et := range elems[1:] {
			if !et.Equals(elems[0]) {
				return cty.NilType, false
			}
		}
		return elems[0], true
	}
	return cty.NilType, false
}

// ElementTypeOf returns the element type of the sequence v refers to, or
// cty.DynamicPseudoType when it cannot be determined. It never fails.
// A missing var or a missing type is logged as a warning since it points
// at a caller bug rather than an untyped iterable.
func ElementTypeOf(ctx context.Context, v *Var) cty.Type {
	logger := ctxlog.FromContext(ctx)
	if v == nil {
		logger.Warn("element type requested for nil var")
		return cty.DynamicPseudoType
	}
	if v.Type == cty.NilType {
		logger.Warn("var has no declared type", "var", v.Name)
		return cty.DynamicPseudoType
	}
	et, ok := ElementType(v.Type)
	if !ok {
		logger.Debug("var has no element type", "var", v.Name, "type", v.Type.FriendlyName())
		return cty.DynamicPseudoType
	}
	return et
}
