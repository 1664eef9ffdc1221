package operation

import (
	"encoding/json"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
)

// {^name=default:type}
var placeholderPattern = regexp.MustCompile(`\{(\^?)([A-Za-z_$][\w$]*)(?:=([^:}]*))?(?::(\w+))?\}`)

// Supported placeholder types.
const (
	TypeString  = "string"
	TypeNumber  = "number"
	TypeInteger = "integer"
	TypeBoolean = "boolean"
)

type placeholder struct {
	name     string
	required bool
	def      *string
	typ      string
	// token is the length of the placeholder in the source string.
	token int
}

type segment struct {
	literal string
	ph      *placeholder
}

// parseString splits s into literal and placeholder segments.
func parseString(s string) ([]segment, error) {
	matches := placeholderPattern.FindAllStringSubmatchIndex(s, -1)
	if len(matches) == 0 {
		return []segment{{literal: s}}, nil
	}

	var segs []segment
	last := 0
	for _, m := range matches {
		if m[0] > last {
			segs = append(segs, segment{literal: s[last:m[0]]})
		}
		ph := &placeholder{
			name:     s[m[4]:m[5]],
			required: m[3] > m[2],
			token:    m[1] - m[0],
		}
		if m[6] >= 0 {
			def := s[m[6]:m[7]]
			ph.def = &def
		}
		if m[8] >= 0 {
			ph.typ = s[m[8]:m[9]]
			switch ph.typ {
			case TypeString, TypeNumber, TypeInteger, TypeBoolean:
			default:
				return nil, fmt.Errorf("placeholder %q has unknown type %q", ph.name, ph.typ)
			}
		}
		segs = append(segs, segment{ph: ph})
		last = m[1]
	}
	if last < len(s) {
		segs = append(segs, segment{literal: s[last:]})
	}
	return segs, nil
}

// binding is the argument set of one invocation.
type binding struct {
	function string
	values   map[string]any
}

// lookup resolves a placeholder to its typed value. The bool result is false
// when the argument is absent and the placeholder is optional.
func (b *binding) lookup(ph *placeholder) (any, bool, error) {
	v, ok := b.values[ph.name]
	if !ok {
		switch {
		case ph.def != nil:
			v = *ph.def
		case ph.required:
			return nil, false, NewBindingError(b.function, ph.name, "missing required argument", nil)
		default:
			return nil, false, nil
		}
	}
	if ph.typ == "" {
		return v, true, nil
	}
	coerced, err := coerce(v, ph.typ)
	if err != nil {
		return nil, false, NewBindingError(b.function, ph.name, "cannot convert argument to "+ph.typ, err)
	}
	return coerced, true, nil
}

// node renders one part of a template for an invocation.
type node interface {
	render(b *binding) (any, bool, error)
}

type constNode struct{ value any }

func (n constNode) render(*binding) (any, bool, error) { return n.value, true, nil }

// valueNode is a string consisting of exactly one placeholder; it keeps the
// argument's type.
type valueNode struct{ ph *placeholder }

func (n valueNode) render(b *binding) (any, bool, error) { return b.lookup(n.ph) }

// textNode interpolates placeholders into a string. Any absent optional
// placeholder omits the whole value.
type textNode struct {
	segs   []segment
	escape []func(string) string
}

func (n textNode) render(b *binding) (any, bool, error) {
	var sb strings.Builder
	for i, seg := range n.segs {
		if seg.ph == nil {
			sb.WriteString(seg.literal)
			continue
		}
		v, ok, err := b.lookup(seg.ph)
		if err != nil || !ok {
			return nil, false, err
		}
		s := stringify(v)
		if esc := n.escape[i]; esc != nil {
			s = esc(s)
		}
		sb.WriteString(s)
	}
	return sb.String(), true, nil
}

type mapNode struct{ fields map[string]node }

func (n mapNode) render(b *binding) (any, bool, error) {
	out := make(map[string]any, len(n.fields))
	for k, child := range n.fields {
		v, ok, err := child.render(b)
		if err != nil {
			return nil, false, err
		}
		if ok {
			out[k] = v
		}
	}
	return out, true, nil
}

type listNode struct{ items []node }

func (n listNode) render(b *binding) (any, bool, error) {
	out := make([]any, 0, len(n.items))
	for _, child := range n.items {
		v, ok, err := child.render(b)
		if err != nil {
			return nil, false, err
		}
		if ok {
			out = append(out, v)
		}
	}
	return out, true, nil
}

// compileString compiles a string value found in headers, query or body.
func compileString(s string, loc Location, visit func(*placeholder, Location)) (node, error) {
	segs, err := parseString(s)
	if err != nil {
		return nil, err
	}
	placeholders := 0
	for _, seg := range segs {
		if seg.ph != nil {
			visit(seg.ph, loc)
			placeholders++
		}
	}
	switch {
	case placeholders == 0:
		return constNode{value: s}, nil
	case len(segs) == 1:
		return valueNode{ph: segs[0].ph}, nil
	default:
		return textNode{segs: segs, escape: make([]func(string) string, len(segs))}, nil
	}
}

// compileValue compiles an arbitrary JSON-shaped value.
func compileValue(v any, loc Location, visit func(*placeholder, Location)) (node, error) {
	switch val := v.(type) {
	case string:
		return compileString(val, loc, visit)
	case map[string]any:
		fields := make(map[string]node, len(val))
		for k, sub := range val {
			child, err := compileValue(sub, loc, visit)
			if err != nil {
				return nil, err
			}
			fields[k] = child
		}
		return mapNode{fields: fields}, nil
	case []any:
		items := make([]node, 0, len(val))
		for _, sub := range val {
			child, err := compileValue(sub, loc, visit)
			if err != nil {
				return nil, err
			}
			items = append(items, child)
		}
		return listNode{items: items}, nil
	default:
		return constNode{value: val}, nil
	}
}

// stringify renders an argument for interpolation into a URL or header.
func stringify(v any) string {
	switch val := v.(type) {
	case string:
		return val
	case bool:
		return strconv.FormatBool(val)
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(val), 'f', -1, 32)
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return fmt.Sprintf("%d", val)
	case fmt.Stringer:
		return val.String()
	default:
		data, err := json.Marshal(val)
		if err != nil {
			return fmt.Sprintf("%v", val)
		}
		return string(data)
	}
}

func coerce(v any, typ string) (any, error) {
	switch typ {
	case TypeString:
		return stringify(v), nil
	case TypeNumber:
		switch val := v.(type) {
		case float64:
			return val, nil
		case float32:
			return float64(val), nil
		case int:
			return float64(val), nil
		case int64:
			return float64(val), nil
		case int32:
			return float64(val), nil
		case string:
			return strconv.ParseFloat(strings.TrimSpace(val), 64)
		}
	case TypeInteger:
		switch val := v.(type) {
		case int:
			return int64(val), nil
		case int64:
			return val, nil
		case int32:
			return int64(val), nil
		case float64:
			if val != math.Trunc(val) {
				return nil, fmt.Errorf("%v is not an integer", val)
			}
			return int64(val), nil
		case string:
			return strconv.ParseInt(strings.TrimSpace(val), 10, 64)
		}
	case TypeBoolean:
		switch val := v.(type) {
		case bool:
			return val, nil
		case string:
			return strconv.ParseBool(strings.TrimSpace(val))
		}
	}
	return nil, fmt.Errorf("unsupported value %T", v)
}
