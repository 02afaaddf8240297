package components

import (
	"context"
	"fmt"

	"pcgo/packages/compiler/ctxlog"
	"pcgo/packages/compiler/tags"
	"pcgo/packages/compiler/vars"
)

// Foreach renders a template once per element of an iterable var.
//
// The single child is the template produced at construction; it carries the
// structure and types of one element. The per element expansion happens when
// the tag returned by Render is formatted.
type Foreach struct {
	Base
	// Iterable is the list the template is repeated over.
	Iterable *vars.Var
	// RenderFn maps the current element to the template.
	RenderFn tags.RenderFn
	// Item is the placeholder the template was built with.
	Item *vars.Var
}

// NewForeach builds a Foreach over iterable. renderFn is invoked exactly
// once, with a local var named "_" typed as the iterable's element type, or
// as any when that type is unknown. An error from renderFn is returned and
// no component is built. props are kept on the component.
func NewForeach(ctx context.Context, iterable *vars.Var, renderFn tags.RenderFn, props tags.Props) (*Foreach, error) {
	logger := ctxlog.FromContext(ctx)

	item := vars.NewLocal(tags.ElementVarName, vars.ElementTypeOf(ctx, iterable))
	index := (&tags.IterTag{}).IndexVar()

	template, err := tags.RenderComponent(renderFn, item, index)
	if err != nil {
		return nil, fmt.Errorf("foreach template: %w", err)
	}
	logger.Debug("built foreach template", "iterable", iterableName(iterable), "element_type", item.Type.FriendlyName())

	return &Foreach{
		Base: Base{
			Props:    props,
			Children: []tags.Component{template},
		},
		Iterable: iterable,
		RenderFn: renderFn,
		Item:     item,
	}, nil
}

// Render implements tags.Component. It neither invokes the render function
// nor inspects the iterable type.
func (f *Foreach) Render() (tags.Tag, error) {
	return &tags.IterTag{Iterable: f.Iterable, RenderFn: f.RenderFn}, nil
}

func iterableName(v *vars.Var) string {
	if v == nil {
		return ""
	}
	return v.FullName()
}
