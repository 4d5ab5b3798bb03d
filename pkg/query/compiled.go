package query

import (
	"fmt"
	"reflect"
	"strings"

	"k8s.io/apimachinery/pkg/util/sets"
)

// Statement is a composed statement with its named parameters resolved into
// positions. Its text does not depend on parameter values: collection parameters
// are expanded when bound.
type Statement struct {
	SQL      string
	segments []string
	refs     []string
	names    sets.Set[string]
}

// compileStatement splits sql around its :name parameter references. Quoted
// literals, quoted identifiers and "::" casts are left alone.
func compileStatement(sql string) (*Statement, error) {
	s := &Statement{SQL: sql, names: sets.New[string]()}

	var seg strings.Builder
	for i := 0; i < len(sql); i++ {
		ch := sql[i]
		switch {
		case ch == '\'' || ch == '"' || ch == '`':
			end := closingQuote(sql, i)
			if end < 0 {
				return nil, fmt.Errorf("unterminated quote at %d", i)
			}
			seg.WriteString(sql[i : end+1])
			i = end
		case ch == ':' && i+1 < len(sql) && sql[i+1] == ':':
			seg.WriteString("::")
			i++
		case ch == ':' && i+1 < len(sql) && isParamStart(sql[i+1]):
			j := i + 1
			for j < len(sql) && isParamChar(sql[j]) {
				j++
			}
			name := sql[i+1 : j]
			s.segments = append(s.segments, seg.String())
			seg.Reset()
			s.refs = append(s.refs, name)
			s.names.Insert(name)
			i = j - 1
		default:
			seg.WriteByte(ch)
		}
	}
	s.segments = append(s.segments, seg.String())
	return s, nil
}

// Params returns the distinct parameter names the statement references.
func (s *Statement) Params() []string {
	return sets.List(s.names)
}

// Bind renders the statement with '?' placeholders for params. Every referenced
// parameter must be present and nothing else may be: a mismatch is a composition
// defect. Slice values expand to one placeholder per element.
func (s *Statement) Bind(params Params) (string, []any, error) {
	for name := range params {
		if !s.names.Has(name) {
			return "", nil, fmt.Errorf("parameter %q is not referenced by the statement", name)
		}
	}

	var b strings.Builder
	args := make([]any, 0, len(s.refs))
	b.WriteString(s.segments[0])
	for i, name := range s.refs {
		v, ok := params[name]
		if !ok {
			return "", nil, fmt.Errorf("parameter %q is not bound", name)
		}
		values, err := expand(name, v)
		if err != nil {
			return "", nil, err
		}
		b.WriteString(strings.TrimSuffix(strings.Repeat("?, ", len(values)), ", "))
		args = append(args, values...)
		b.WriteString(s.segments[i+1])
	}

	return b.String(), args, nil
}

// Positional renders the statement with a single placeholder per reference, the
// form used to prepare it for validation.
func (s *Statement) Positional() string {
	var b strings.Builder
	b.WriteString(s.segments[0])
	for i := range s.refs {
		b.WriteString("?")
		b.WriteString(s.segments[i+1])
	}
	return b.String()
}

func expand(name string, v any) ([]any, error) {
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Slice || rv.Type().Elem().Kind() == reflect.Uint8 {
		return []any{v}, nil
	}
	if rv.Len() == 0 {
		return nil, fmt.Errorf("parameter %q is an empty collection", name)
	}
	values := make([]any, 0, rv.Len())
	for i := 0; i < rv.Len(); i++ {
		values = append(values, rv.Index(i).Interface())
	}
	return values, nil
}

func closingQuote(sql string, start int) int {
	q := sql[start]
	for i := start + 1; i < len(sql); i++ {
		if sql[i] != q {
			continue
		}
		if i+1 < len(sql) && sql[i+1] == q {
			i++
			continue
		}
		return i
	}
	return -1
}

func isParamStart(ch byte) bool {
	return (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z') || ch == '_'
}

func isParamChar(ch byte) bool {
	return isParamStart(ch) || (ch >= '0' && ch <= '9')
}
