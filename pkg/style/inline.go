package style

import (
	"strings"

	"github.com/vango-dev/livedom/pkg/classes"
	"github.com/vango-dev/livedom/pkg/el"
	"github.com/vango-dev/livedom/pkg/param"
)

// Props are inline style properties. Values are strings, numbers or
// param.Params producing either. Empty strings and nil are omitted; zero is
// kept.
type Props map[string]any

// Inline builds the value of a style attribute. The result is computed when
// any property is computed, and constant otherwise.
func Inline(props Props) param.Param[string] {
	var fixed []string
	var dynamic []func() string
	for _, k := range sortedKeysOf(props) {
		name := kebab(k)
		if src, ok := props[k].(param.Source); ok && src.IsComputed() {
			dynamic = append(dynamic, func() string {
				if v, ok := propValue(src.Any()); ok {
					return name + ": " + v + ";"
				}
				return ""
			})
			continue
		}
		v := props[k]
		if src, ok := v.(param.Source); ok {
			v = src.Any()
		}
		if s, ok := propValue(v); ok {
			fixed = append(fixed, name+": "+s+";")
		}
	}

	prefix := strings.Join(fixed, " ")
	if len(dynamic) == 0 {
		return param.Const(prefix)
	}
	return param.Func(func() string {
		parts := []string{}
		if prefix != "" {
			parts = append(parts, prefix)
		}
		for _, f := range dynamic {
			if s := f(); s != "" {
				parts = append(parts, s)
			}
		}
		return strings.Join(parts, " ")
	})
}

// Styled returns an element constructor for tag whose elements carry a
// generated class for rules. Caller attributes override base; a caller
// class or className is merged after the generated class.
func (s *Sheet) Styled(b *el.Builder, tag string, rules Rules, base el.Attrs) func(attrs el.Attrs, children ...any) (*el.Node, error) {
	class := s.Class(tag, rules)
	return func(attrs el.Attrs, children ...any) (*el.Node, error) {
		merged := make(el.Attrs, len(base)+len(attrs)+1)
		for k, v := range base {
			merged[k] = v
		}
		for k, v := range attrs {
			merged[k] = v
		}

		extra, ok := merged["className"]
		delete(merged, "className")
		if v, has := merged["class"]; has {
			extra, ok = v, true
		}
		switch {
		case !ok:
			merged["class"] = class
		case isComputed(extra):
			src := extra.(param.Source)
			merged["class"] = param.Func(func() string { return classes.Join(class, src.Any()) })
		default:
			if src, isSrc := extra.(param.Source); isSrc {
				extra = src.Any()
			}
			merged["class"] = classes.Join(class, extra)
		}
		return b.El(tag, merged, children...)
	}
}

func isComputed(v any) bool {
	src, ok := v.(param.Source)
	return ok && src.IsComputed()
}

func sortedKeysOf(p Props) []string {
	return sortedKeys(Rules(p))
}
