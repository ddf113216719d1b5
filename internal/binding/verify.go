package binding

import (
	"errors"
	"fmt"
	"strings"

	fk "airtable-graphql/internal/fieldkind"
	"airtable-graphql/internal/schema"
)

// ErrLockstep is returned when the resolver plan and the schema disagree on
// which fields exist or what shape a resolver produces.
var ErrLockstep = errors.New("resolver plan and schema out of lockstep")

// Verify checks that every object field of doc has a binding, that every
// binding names an object field of doc, and that each column resolver
// produces the shape its field declares.
func Verify(p *Plan, doc *schema.Document) error {
	var problems []string

	for _, t := range doc.Objects() {
		if t == doc.Mutation && len(t.Fields) == 0 {
			continue
		}
		tb := p.Type(t.Name)
		if tb == nil {
			problems = append(problems, fmt.Sprintf("type %s has no bindings", t.Name))
			continue
		}
		for _, f := range t.Fields {
			b, ok := tb.Binding(f.Name)
			if !ok {
				problems = append(problems, fmt.Sprintf("field %s.%s has no binding", t.Name, f.Name))
				continue
			}
			if reason := shapeMismatch(b, f.Type); reason != "" {
				problems = append(problems, fmt.Sprintf("field %s.%s: %s", t.Name, f.Name, reason))
			}
		}
	}

	for _, tb := range p.Types {
		t := doc.Type(tb.Name)
		if t == nil || t.Kind != schema.KindObject {
			problems = append(problems, fmt.Sprintf("binding type %s is not an object type", tb.Name))
			continue
		}
		for _, b := range tb.Bindings {
			if t.Field(b.Field) == nil {
				problems = append(problems, fmt.Sprintf("binding %s.%s has no field", tb.Name, b.Field))
			}
		}
	}

	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", ErrLockstep, strings.Join(problems, "; "))
	}
	return nil
}

// shapeMismatch describes how a column resolver's result disagrees with the
// declared field type, or returns "".
func shapeMismatch(b Binding, ref schema.Ref) string {
	if b.Op != OpColumn {
		return ""
	}
	switch b.Resolver {
	case fk.ResolveCurrency, fk.ResolvePercent:
		if ref.Name != fk.ScalarString || ref.List {
			return fmt.Sprintf("rendered number declared as %s", describe(ref))
		}
	case fk.ResolveCheckbox:
		if ref.Name != fk.ScalarBoolean || ref.List {
			return fmt.Sprintf("checkbox declared as %s", describe(ref))
		}
	case fk.ResolveMultiSelect:
		if ref.Name != fk.ScalarString || !ref.List {
			return fmt.Sprintf("choice list declared as %s", describe(ref))
		}
	case fk.ResolveLinkOne:
		if ref.List || ref.Table != b.Table {
			return fmt.Sprintf("single link to %s declared as %s", b.Table, describe(ref))
		}
	case fk.ResolveLinkMany:
		if !ref.List || ref.Table != b.Table {
			return fmt.Sprintf("multi link to %s declared as %s", b.Table, describe(ref))
		}
	}
	return ""
}

func describe(ref schema.Ref) string {
	s := ref.Name
	if ref.NonNull {
		s += "!"
	}
	if ref.List {
		s = "[" + s + "]"
	}
	return s
}
