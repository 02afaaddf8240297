// Package components provides the building blocks of a page: elements,
// text, fragments and list rendering.
package components

import (
	"fmt"

	"pcgo/packages/compiler/tags"
)

// Base is a component rendered as a single element.
type Base struct {
	// Tag is the element name. Empty renders a fragment.
	Tag      string
	Props    tags.Props
	Children []tags.Component
	key      any
}

// Key implements tags.Keyed.
func (b *Base) Key() any { return b.key }

// SetKey implements tags.Keyed.
func (b *Base) SetKey(key any) { b.key = key }

// Render implements tags.Component.
func (b *Base) Render() (tags.Tag, error) {
	return b.render("")
}

func (b *Base) render(contents string) (*tags.Element, error) {
	props := make(tags.Props, len(b.Props)+1)
	for k, v := range b.Props {
		props[k] = v
	}
	if b.key != nil {
		props["key"] = b.key
	}

	children := make([]tags.Tag, 0, len(b.Children))
	for i, child := range b.Children {
		tag, err := child.Render()
		if err != nil {
			return nil, fmt.Errorf("%s child %d: %w", b.name(), i, err)
		}
		children = append(children, tag)
	}
	return &tags.Element{
		Name:     b.Tag,
		Props:    props,
		Contents: contents,
		Children: children,
	}, nil
}

func (b *Base) name() string {
	if b.Tag == "" {
		return "fragment"
	}
	return b.Tag
}

// Box returns an element with the given name, props and children.
func Box(tag string, props tags.Props, children ...tags.Component) *Base {
	return &Base{Tag: tag, Props: props, Children: children}
}

// Fragment groups children without adding an element.
func Fragment(children ...tags.Component) *Base {
	return &Base{Children: children}
}

// TextComponent renders literal text or the value of a var.
type TextComponent struct {
	Base
	// Contents is a string or a *vars.Var.
	Contents any
}

// Text returns a text component. contents must be a string or a *vars.Var.
func Text(contents any) *TextComponent {
	return &TextComponent{Contents: contents}
}

// Render implements tags.Component.
func (t *TextComponent) Render() (tags.Tag, error) {
	return t.render(tags.FormatContents(t.Contents))
}
