package tags

import (
	"context"
	"fmt"
	"reflect"

	"github.com/zclconf/go-cty/cty"

	"pcgo/packages/compiler/vars"
)

const (
	// ElementVarName is the placeholder bound to the current element.
	ElementVarName = "_"
	// IndexVarName is the placeholder bound to the current index.
	IndexVarName = "i"
)

// RenderFn maps the current element, and its index, to a template component.
type RenderFn interface {
	RenderItem(item, index *vars.Var) (Component, error)
}

// RenderFunc adapts a function of the current element to RenderFn.
type RenderFunc func(item *vars.Var) (Component, error)

// RenderItem implements RenderFn.
func (f RenderFunc) RenderItem(item, _ *vars.Var) (Component, error) {
	return f(item)
}

// IndexedRenderFunc adapts a function of the current element and its index
// to RenderFn.
type IndexedRenderFunc func(item, index *vars.Var) (Component, error)

// RenderItem implements RenderFn.
func (f IndexedRenderFunc) RenderItem(item, index *vars.Var) (Component, error) {
	return f(item, index)
}

// IterTag renders a component once per element of an iterable.
type IterTag struct {
	Iterable *vars.Var
	RenderFn RenderFn
}

// IndexVar returns the index var as seen from outside the loop body.
func (t *IterTag) IndexVar() *vars.Var {
	return &vars.Var{Name: IndexVarName, Type: cty.Number}
}

// IndexVarArg returns the index var bound inside the loop body.
func (t *IterTag) IndexVarArg() *vars.Var {
	return vars.NewLocal(IndexVarName, cty.Number)
}

// ElementVar returns the element var bound inside the loop body.
func (t *IterTag) ElementVar(ctx context.Context) *vars.Var {
	return vars.NewLocal(ElementVarName, vars.ElementTypeOf(ctx, t.Iterable))
}

// RenderComponent invokes fn for one element. A keyed component without a
// key is keyed by index.
func RenderComponent(fn RenderFn, item, index *vars.Var) (Component, error) {
	if fn == nil {
		return nil, fmt.Errorf("render function is nil")
	}
	component, err := fn.RenderItem(item, index)
	if err != nil {
		return nil, err
	}
	if isNil(component) {
		return nil, fmt.Errorf("render function returned no component")
	}
	if k, ok := component.(Keyed); ok && k.Key() == nil {
		k.SetKey(index)
	}
	return component, nil
}

// isNil reports whether c is nil or wraps a nil pointer.
func isNil(c Component) bool {
	if c == nil {
		return true
	}
	v := reflect.ValueOf(c)
	switch v.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Func, reflect.Interface, reflect.Chan:
		return v.IsNil()
	}
	return false
}

// Format implements Tag. The render function is invoked again with the
// loop placeholders to produce the body of the map callback.
func (t *IterTag) Format(ctx context.Context) (string, error) {
	if t.Iterable == nil {
		return "", fmt.Errorf("iter tag has no iterable")
	}
	item := t.ElementVar(ctx)
	index := t.IndexVarArg()
	component, err := RenderComponent(t.RenderFn, item, index)
	if err != nil {
		return "", fmt.Errorf("rendering %s: %w", t.Iterable.FullName(), err)
	}
	tag, err := component.Render()
	if err != nil {
		return "", err
	}
	body, err := tag.Format(ctx)
	if err != nil {
		return "", err
	}
	return vars.Wrap(fmt.Sprintf("%s.map((%s, %s) => %s)", t.Iterable.FullName(), item.Name, index.Name, body), '{'), nil
}
