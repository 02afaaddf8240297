// Package tags holds the descriptors components render to, and formats
// them as JSX for the code generator.
package tags

import (
	"context"
	"strings"

	"pcgo/packages/compiler/vars"
)

// Tag is a rendered component, ready to be formatted as JSX. ctx carries
// the logger used while formatting.
type Tag interface {
	Format(ctx context.Context) (string, error)
}

// Component is a node of the declarative tree.
type Component interface {
	Render() (Tag, error)
}

// Keyed is implemented by components that carry a React key.
type Keyed interface {
	Key() any
	SetKey(key any)
}

// Element is a single JSX element.
type Element struct {
	// Name is the element name. An empty name renders a fragment.
	Name string
	// Props are the element attributes.
	Props Props
	// Contents is text placed before the children.
	Contents string
	// Children are rendered in order after Contents.
	Children []Tag
}

// Format implements Tag.
func (e *Element) Format(ctx context.Context) (string, error) {
	name := e.Name
	if name == "" && len(e.Props) > 0 {
		name = "Fragment"
	}

	props, err := e.Props.Format()
	if err != nil {
		return "", err
	}

	var body strings.Builder
	body.WriteString(e.Contents)
	for _, child := range e.Children {
		s, err := child.Format(ctx)
		if err != nil {
			return "", err
		}
		body.WriteString(s)
	}

	open := name
	if props != "" {
		open += " " + props
	}
	if body.Len() == 0 && name != "" {
		return "<" + open + "/>", nil
	}
	return "<" + open + ">" + body.String() + "</" + name + ">", nil
}

// FormatContents returns the JSX expression for a text content value: a
// literal string or a var.
func FormatContents(contents any) string {
	switch c := contents.(type) {
	case *vars.Var:
		return vars.Wrap(c.String(), '{')
	case string:
		if c == "" {
			return ""
		}
		return "{" + Quote(c) + "}"
	case nil:
		return ""
	}
	return ""
}
