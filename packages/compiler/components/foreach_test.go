package components_test

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"reflect"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/zclconf/go-cty/cty"

	"pcgo/packages/compiler/components"
	"pcgo/packages/compiler/ctxlog"
	"pcgo/packages/compiler/tags"
	"pcgo/packages/compiler/vars"
)

// recordingRender renders a text component showing the item and records
// every call.
type recordingRender struct {
	items []*vars.Var
	err   error
}

func (r *recordingRender) RenderItem(item, _ *vars.Var) (tags.Component, error) {
	r.items = append(r.items, item)
	if r.err != nil {
		return nil, r.err
	}
	return components.Text(item), nil
}

func TestNewForeach(t *testing.T) {
	ctx := context.Background()

	t.Run("should bind the element type of a list", func(t *testing.T) {
		iterable := vars.New("numbers", cty.List(cty.Number))
		fn := &recordingRender{}

		f, err := components.NewForeach(ctx, iterable, fn, nil)
		if err != nil {
			t.Fatalf("NewForeach() error: %v", err)
		}

		if len(fn.items) != 1 {
			t.Fatalf("Expected render function to be called once, got %d", len(fn.items))
		}
		item := fn.items[0]
		if item != f.Item {
			t.Error("Expected the template to be built with the component's element var")
		}
		if item.Name != "_" || !item.IsLocal {
			t.Errorf("Expected local var _, got %+v", item)
		}
		if !item.Type.Equals(cty.Number) {
			t.Errorf("Expected number, got %s", item.Type.FriendlyName())
		}

		if len(f.Children) != 1 {
			t.Fatalf("Expected one child, got %d", len(f.Children))
		}
		text, ok := f.Children[0].(*components.TextComponent)
		if !ok {
			t.Fatalf("Expected a text template, got %T", f.Children[0])
		}
		if text.Contents != item {
			t.Error("Expected the template to show the element var")
		}
		if f.Iterable != iterable {
			t.Error("Expected the iterable to be kept")
		}
	})

	t.Run("should fall back to any for an opaque type", func(t *testing.T) {
		opaque := []struct {
			name string
			typ  cty.Type
		}{
			{"primitive", cty.String},
			{"capsule", cty.Capsule("handle", reflect.TypeOf(0))},
			{"any", cty.DynamicPseudoType},
			{"no type", cty.NilType},
		}
		for _, tc := range opaque {
			t.Run(tc.name, func(t *testing.T) {
				fn := &recordingRender{}
				f, err := components.NewForeach(ctx, vars.New("blob", tc.typ), fn, nil)
				if err != nil {
					t.Fatalf("NewForeach() error: %v", err)
				}
				if f.Item.Type != cty.DynamicPseudoType {
					t.Errorf("Expected dynamic, got %s", f.Item.Type.FriendlyName())
				}
				if len(f.Children) != 1 {
					t.Errorf("Expected one child, got %d", len(f.Children))
				}
			})
		}
	})

	t.Run("should log a missing type distinctly", func(t *testing.T) {
		var buf bytes.Buffer
		logCtx := ctxlog.WithLogger(ctx, slog.New(slog.NewTextHandler(&buf, nil)))

		if _, err := components.NewForeach(logCtx, nil, &recordingRender{}, nil); err != nil {
			t.Fatalf("NewForeach() error: %v", err)
		}
		if !strings.Contains(buf.String(), "level=WARN") {
			t.Errorf("Expected a warning, got %q", buf.String())
		}
	})

	t.Run("should propagate render errors", func(t *testing.T) {
		boom := errors.New("boom")
		fn := &recordingRender{err: boom}

		f, err := components.NewForeach(ctx, vars.New("items", cty.List(cty.String)), fn, nil)
		if !errors.Is(err, boom) {
			t.Errorf("Expected boom, got %v", err)
		}
		if f != nil {
			t.Error("Expected no component on error")
		}
		if len(fn.items) != 1 {
			t.Errorf("Expected render function to be called once, got %d", len(fn.items))
		}
	})

	t.Run("should fail on a typed nil template", func(t *testing.T) {
		fn := tags.RenderFunc(func(*vars.Var) (tags.Component, error) { return (*components.TextComponent)(nil), nil })
		f, err := components.NewForeach(ctx, vars.New("items", cty.List(cty.String)), fn, nil)
		if err == nil || f != nil {
			t.Errorf("Expected an error and no component, got %v and %v", f, err)
		}
	})

	t.Run("should keep props", func(t *testing.T) {
		props := tags.Props{"class": "rows"}
		f, err := components.NewForeach(ctx, vars.New("items", cty.List(cty.String)), &recordingRender{}, props)
		if err != nil {
			t.Fatalf("NewForeach() error: %v", err)
		}
		if diff := cmp.Diff(props, f.Props); diff != "" {
			t.Errorf("Props mismatch (-want +got):\n%s", diff)
		}
	})
}

func TestForeachRender(t *testing.T) {
	ctx := context.Background()
	iterable := vars.New("numbers", cty.List(cty.Number))
	fn := &recordingRender{}

	f, err := components.NewForeach(ctx, iterable, fn, nil)
	if err != nil {
		t.Fatalf("NewForeach() error: %v", err)
	}

	t.Run("should be idempotent and not call the render function", func(t *testing.T) {
		first, err := f.Render()
		if err != nil {
			t.Fatalf("Render() error: %v", err)
		}
		second, err := f.Render()
		if err != nil {
			t.Fatalf("Render() error: %v", err)
		}

		for _, tag := range []tags.Tag{first, second} {
			iter, ok := tag.(*tags.IterTag)
			if !ok {
				t.Fatalf("Expected *tags.IterTag, got %T", tag)
			}
			if iter.Iterable != iterable {
				t.Error("Expected the same iterable")
			}
			if iter.RenderFn != tags.RenderFn(fn) {
				t.Error("Expected the same render function")
			}
		}
		if first == second {
			t.Error("Expected a new descriptor per call")
		}
		if len(fn.items) != 1 {
			t.Errorf("Expected render function to be called once, got %d", len(fn.items))
		}
	})

	t.Run("should expand inside a parent", func(t *testing.T) {
		tag, err := components.Box("ul", nil, f).Render()
		if err != nil {
			t.Fatalf("Render() error: %v", err)
		}
		got, err := tag.Format(ctx)
		if err != nil {
			t.Fatalf("Format() error: %v", err)
		}
		want := "<ul>{state.numbers.map((_, i) => <Fragment key={i}>{_}</Fragment>)}</ul>"
		if got != want {
			t.Errorf("Expected %q, got %q", want, got)
		}
	})
}

func TestText(t *testing.T) {
	tests := []struct {
		name     string
		contents any
		want     string
	}{
		{"literal", "hi", `<>{"hi"}</>`},
		{"state var", vars.New("title", cty.String), "<>{state.title}</>"},
		{"empty", "", "<></>"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			tag, err := components.Text(tc.contents).Render()
			if err != nil {
				t.Fatalf("Render() error: %v", err)
			}
			got, err := tag.Format(context.Background())
			if err != nil {
				t.Fatalf("Format() error: %v", err)
			}
			if got != tc.want {
				t.Errorf("Expected %q, got %q", tc.want, got)
			}
		})
	}
}

func TestBox(t *testing.T) {
	tag, err := components.Box("div", tags.Props{"id": "main"},
		components.Text("a"),
		components.Fragment(components.Text("b")),
	).Render()
	if err != nil {
		t.Fatalf("Render() error: %v", err)
	}
	got, err := tag.Format(context.Background())
	if err != nil {
		t.Fatalf("Format() error: %v", err)
	}
	want := `<div id={"main"}><>{"a"}</><><>{"b"}</></></div>`
	if got != want {
		t.Errorf("Expected %q, got %q", want, got)
	}
}
