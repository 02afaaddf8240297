package config

import (
	"context"
	"fmt"

	"github.com/hashicorp/hcl/v2"
	"github.com/zclconf/go-cty/cty"

	"pcgo/packages/compiler/components"
	"pcgo/packages/compiler/tags"
	"pcgo/packages/compiler/vars"
)

// scope resolves bind names to vars. Inner scopes shadow outer ones.
type scope struct {
	vars   map[string]*vars.Var
	parent *scope
}

func (s *scope) lookup(name string) (*vars.Var, bool) {
	for cur := s; cur != nil; cur = cur.parent {
		if v, ok := cur.vars[name]; ok {
			return v, true
		}
	}
	return nil, false
}

// Build turns the page definition into a component tree. Several top-level
// nodes are grouped in a fragment.
func (a *App) Build(ctx context.Context, p *Page) (tags.Component, error) {
	root := &scope{vars: a.stateByName}
	children, err := a.buildNodes(ctx, root, p.nodes)
	if err != nil {
		return nil, fmt.Errorf("page %s: %w", p.Name, err)
	}
	if len(children) == 1 {
		return children[0], nil
	}
	return components.Fragment(children...), nil
}

func (a *App) buildNodes(ctx context.Context, sc *scope, nodes []*hclNode) ([]tags.Component, error) {
	out := make([]tags.Component, 0, len(nodes))
	for _, n := range nodes {
		c, err := a.buildNode(ctx, sc, n)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, nil
}

func (a *App) buildNode(ctx context.Context, sc *scope, n *hclNode) (tags.Component, error) {
	switch n.Kind {
	case "box":
		if n.Tag == nil || *n.Tag == "" {
			return nil, fmt.Errorf("box node requires a tag")
		}
		props, err := decodeProps(n.Props)
		if err != nil {
			return nil, fmt.Errorf("box %s: %w", *n.Tag, err)
		}
		children, err := a.buildNodes(ctx, sc, n.Nodes)
		if err != nil {
			return nil, err
		}
		return components.Box(*n.Tag, props, children...), nil

	case "fragment":
		children, err := a.buildNodes(ctx, sc, n.Nodes)
		if err != nil {
			return nil, err
		}
		return components.Fragment(children...), nil

	case "text":
		switch {
		case n.Value != nil && n.Bind != nil:
			return nil, fmt.Errorf("text node takes either value or bind, not both")
		case n.Bind != nil:
			v, ok := sc.lookup(*n.Bind)
			if !ok {
				return nil, fmt.Errorf("text node binds unknown var %q", *n.Bind)
			}
			return components.Text(v), nil
		case n.Value != nil:
			return components.Text(*n.Value), nil
		}
		return nil, fmt.Errorf("text node requires value or bind")

	case "foreach":
		if n.Each == nil {
			return nil, fmt.Errorf("foreach node requires each")
		}
		iterable, ok := sc.lookup(*n.Each)
		if !ok {
			return nil, fmt.Errorf("foreach iterates unknown var %q", *n.Each)
		}
		if len(n.Nodes) == 0 {
			return nil, fmt.Errorf("foreach over %s has no template", *n.Each)
		}
		props, err := decodeProps(n.Props)
		if err != nil {
			return nil, fmt.Errorf("foreach over %s: %w", *n.Each, err)
		}
		nodes := n.Nodes
		render := tags.IndexedRenderFunc(func(item, index *vars.Var) (tags.Component, error) {
			inner := &scope{
				vars:   map[string]*vars.Var{tags.ElementVarName: item, tags.IndexVarName: index},
				parent: sc,
			}
			children, err := a.buildNodes(ctx, inner, nodes)
			if err != nil {
				return nil, err
			}
			if len(children) == 1 {
				return children[0], nil
			}
			return components.Fragment(children...), nil
		})
		f, err := components.NewForeach(ctx, iterable, render, props)
		if err != nil {
			return nil, err
		}
		return f, nil
	}
	return nil, fmt.Errorf("unknown node kind %q", n.Kind)
}

func decodeProps(expr hcl.Expression) (tags.Props, error) {
	if expr == nil {
		return nil, nil
	}
	v, diags := expr.Value(nil)
	if diags.HasErrors() {
		return nil, diags
	}
	if v.IsNull() {
		return nil, nil
	}
	ty := v.Type()
	if !ty.IsObjectType() && !ty.IsMapType() {
		return nil, fmt.Errorf("props must be an object, got %s", ty.FriendlyName())
	}
	props := make(tags.Props, v.LengthInt())
	for it := v.ElementIterator(); it.Next(); {
		k, val := it.Element()
		if val.Type() == cty.String && val.IsKnown() && !val.IsNull() {
			props[k.AsString()] = val.AsString()
			continue
		}
		props[k.AsString()] = val
	}
	return props, nil
}
