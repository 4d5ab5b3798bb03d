package query

import (
	"fmt"
	"strings"
)

// Params holds named parameter values for one execution.
type Params map[string]any

// clause is what an active predicate contributes to each composition slot.
type clause struct {
	cte    string
	join   string
	ftJoin string
	where  string
}

type renderContext struct {
	shape      Shape
	descriptor Descriptor
	dialect    Dialect
	maxDepth   int
}

// Predicate is one entry of a category's fixed predicate vocabulary over filter F.
type Predicate[F any] struct {
	token     string
	exclusive bool
	// classify reports whether the predicate is active for f and which of its
	// SQL variants applies. The variant is part of the shape key.
	classify func(f *F) (bool, string)
	render   func(rc renderContext, variant string) clause
	bind     func(f *F, d Dialect, variant string, p Params) error
}

// Token returns the predicate's shape key token.
func (p Predicate[F]) Token() string {
	return p.token
}

// Where declares a predicate rendered as a plain WHERE condition.
func Where[F any](token, cond string, active func(*F) bool, bind func(*F, Params)) Predicate[F] {
	return Joined(token, "", cond, active, bind)
}

// Exact declares the exact id predicate. When active it suppresses every other predicate.
func Exact[F any](token, cond string, active func(*F) bool, bind func(*F, Params)) Predicate[F] {
	p := Where(token, cond, active, bind)
	p.exclusive = true
	return p
}

// Joined declares a predicate whose condition relies on a join against an
// association table. Predicates sharing a join contribute it once.
func Joined[F any](token, join, cond string, active func(*F) bool, bind func(*F, Params)) Predicate[F] {
	return Predicate[F]{
		token: token,
		classify: func(f *F) (bool, string) {
			return active(f), ""
		},
		render: func(renderContext, string) clause {
			return clause{join: join, where: cond}
		},
		bind: func(f *F, _ Dialect, _ string, p Params) error {
			bind(f, p)
			return nil
		},
	}
}

// Variant is the SQL of one variant of a predicate.
type Variant struct {
	Join  string
	Where string
}

// Variants declares a predicate whose SQL depends on which of its fields are set.
// classify returns the variant name, which must be a key of variants.
func Variants[F any](token string, variants map[string]Variant, classify func(*F) (bool, string), bind func(*F, string, Params)) Predicate[F] {
	return Predicate[F]{
		token:    token,
		classify: classify,
		render: func(_ renderContext, variant string) clause {
			v := variants[variant]
			return clause{join: v.Join, where: v.Where}
		},
		bind: func(f *F, _ Dialect, variant string, p Params) error {
			bind(f, variant, p)
			return nil
		},
	}
}

// FullText declares the free text predicate. term returns the text and the advanced
// flag; the predicate is active when the text is not blank and advanced only
// matters alongside it. Rendering and value preparation follow the dialect's strategy.
func FullText[F any](term func(*F) (text string, advanced bool)) Predicate[F] {
	return Predicate[F]{
		token: "text",
		classify: func(f *F) (bool, string) {
			text, advanced := term(f)
			if strings.TrimSpace(text) == "" {
				return false, ""
			}
			if advanced {
				return true, "advanced"
			}
			return true, ""
		},
		render: func(rc renderContext, variant string) clause {
			join, where := rc.dialect.Text.Render(rc.descriptor, variant == "advanced")
			return clause{ftJoin: join, where: where}
		},
		bind: func(f *F, d Dialect, variant string, p Params) error {
			text, _ := term(f)
			v, err := d.Text.Value(text, variant == "advanced")
			if err != nil {
				return err
			}
			p["text"] = v
			return nil
		},
	}
}

// Tree declares a parent predicate over hierarchy h. value returns the parent id,
// whether it is set and whether descendants are requested. The recursive variant
// only applies with a parent id. flat and recursive are the WHERE conditions of
// the two variants; recursive references h.CTE.
func Tree[F any](token, param string, h Hierarchy, flat, recursive string, value func(*F) (id any, ok bool, descend bool)) Predicate[F] {
	return Predicate[F]{
		token: token,
		classify: func(f *F) (bool, string) {
			_, ok, descend := value(f)
			if !ok {
				return false, ""
			}
			if descend {
				return true, "recursive"
			}
			return true, ""
		},
		render: func(rc renderContext, variant string) clause {
			if variant != "recursive" {
				return clause{where: flat}
			}
			return clause{
				cte:   h.render(param, h.StatusCondition != "" && rc.shape.Has("status"), rc.maxDepth),
				where: recursive,
			}
		},
		bind: func(f *F, _ Dialect, _ string, p Params) error {
			id, _, _ := value(f)
			p[param] = id
			return nil
		},
	}
}

func (p Predicate[F]) validate() error {
	if !isIdentifier(p.token) {
		return fmt.Errorf("invalid predicate token %q", p.token)
	}
	if p.classify == nil || p.render == nil || p.bind == nil {
		return fmt.Errorf("predicate %q is incomplete", p.token)
	}
	return nil
}
