package tags

import (
	"fmt"
	"sort"
	"strings"

	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/gocty"
	ctyjson "github.com/zclconf/go-cty/cty/json"

	"pcgo/packages/compiler/vars"
)

// Props are element attributes. Values may be vars, strings, cty values or
// any Go value gocty can convert.
type Props map[string]any

// Format returns the props as JSX attributes, sorted by name. Nil values
// are dropped.
func (p Props) Format() (string, error) {
	names := make([]string, 0, len(p))
	for name, value := range p {
		if value == nil {
			continue
		}
		names = append(names, name)
	}
	sort.Strings(names)

	parts := make([]string, 0, len(names))
	for _, name := range names {
		value, err := FormatProp(p[name])
		if err != nil {
			return "", fmt.Errorf("prop %q: %w", name, err)
		}
		parts = append(parts, name+"="+value)
	}
	return strings.Join(parts, " "), nil
}

// FormatProp returns a single attribute value as a JSX expression.
func FormatProp(value any) (string, error) {
	switch v := value.(type) {
	case *vars.Var:
		return vars.Wrap(v.String(), '{'), nil
	case string:
		return "{" + Quote(v) + "}", nil
	case cty.Value:
		return formatValue(v)
	}

	t, err := gocty.ImpliedType(value)
	if err != nil {
		return "", fmt.Errorf("unsupported value %T: %w", value, err)
	}
	v, err := gocty.ToCtyValue(value, t)
	if err != nil {
		return "", err
	}
	return formatValue(v)
}

func formatValue(v cty.Value) (string, error) {
	if !v.IsWhollyKnown() {
		return "", fmt.Errorf("value of type %s is not known", v.Type().FriendlyName())
	}
	b, err := ctyjson.Marshal(v, v.Type())
	if err != nil {
		return "", err
	}
	return "{" + string(b) + "}", nil
}
