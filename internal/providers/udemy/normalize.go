package udemy

import "fmt"

// Normalized is an entry with the discriminator removed and, for kinds that
// have them, nested objects converted to their typed values.
type Normalized struct {
	Kind   Kind
	Tag    string
	Fields map[string]any
}

type nestedField struct {
	name string
	// list fields also convert every mapping element of a sequence value.
	list  bool
	build func(map[string]any) (any, *SchemaMismatchError)
}

var nestedFields = []nestedField{
	{name: "user", build: buildNested[User]},
	{name: "price_detail", build: buildNested[PriceDetail]},
	{name: "visible_instructors", list: true, build: buildNested[Instructor]},
	{name: "locale", build: buildNested[Locale]},
	{name: "asset", build: buildNested[Asset]},
}

func buildNested[T any](m map[string]any) (any, *SchemaMismatchError) {
	v, serr := decodeStrict[T](m)
	if serr != nil {
		return nil, serr
	}
	return v, nil
}

// NormalizeEntry is NormalizeEntryAs without a hint: the kind comes from the
// entry's _class only.
func NormalizeEntry(raw map[string]any) (Normalized, error) {
	return NormalizeEntryAs(raw, KindUnknown)
}

// NormalizeEntryAs copies raw, drops _class and converts nested objects when
// the resolved kind is a course, course review or lecture. A recognised
// _class wins over hint. raw is never modified.
func NormalizeEntryAs(raw map[string]any, hint Kind) (Normalized, error) {
	fields := make(map[string]any, len(raw))
	for k, v := range raw {
		fields[k] = v
	}

	n := Normalized{Kind: hint, Fields: fields}
	if v, ok := fields[classKey]; ok {
		delete(fields, classKey)
		if tag, ok := v.(string); ok {
			n.Tag = tag
			if k := ParseKind(tag); k != KindUnknown {
				n.Kind = k
			}
		}
	}

	if n.Kind.hasNestedFields() {
		if err := convertNested(n.Kind, fields); err != nil {
			return Normalized{}, err
		}
	}
	return n, nil
}

func convertNested(kind Kind, fields map[string]any) error {
	for _, nf := range nestedFields {
		v, ok := fields[nf.name]
		if !ok {
			continue
		}

		switch val := v.(type) {
		case map[string]any:
			typed, serr := nf.build(val)
			if serr != nil {
				return nestedErr(kind, nf.name, serr)
			}
			fields[nf.name] = typed

		case []map[string]any:
			if !nf.list || len(val) == 0 {
				continue
			}
			list := make([]any, len(val))
			for i, m := range val {
				list[i] = m
			}
			converted, err := convertList(kind, nf, list)
			if err != nil {
				return err
			}
			fields[nf.name] = converted

		case []any:
			if !nf.list || !containsMapping(val) {
				continue
			}
			converted, err := convertList(kind, nf, val)
			if err != nil {
				return err
			}
			fields[nf.name] = converted
		}
	}
	return nil
}

func convertList(kind Kind, nf nestedField, in []any) ([]any, error) {
	out := make([]any, len(in))
	for i, el := range in {
		m, ok := el.(map[string]any)
		if !ok {
			out[i] = el
			continue
		}
		typed, serr := nf.build(m)
		if serr != nil {
			return nil, nestedErr(kind, fmt.Sprintf("%s[%d]", nf.name, i), serr)
		}
		out[i] = typed
	}
	return out, nil
}

func containsMapping(list []any) bool {
	for _, el := range list {
		if _, ok := el.(map[string]any); ok {
			return true
		}
	}
	return false
}

func nestedErr(kind Kind, field string, serr *SchemaMismatchError) error {
	serr.Entity = kind.String()
	serr.Field = joinPath(field, serr.Field)
	return serr
}

// DecodeCurriculum turns curriculum entries into typed items, keeping input
// order. Entries whose _class is not chapter, quiz or lecture are dropped.
func DecodeCurriculum(entries []map[string]any) ([]CurriculumItem, error) {
	items := make([]CurriculumItem, 0, len(entries))
	for _, raw := range entries {
		n, err := NormalizeEntry(raw)
		if err != nil {
			return nil, err
		}
		if !n.Kind.isCurriculum() {
			continue
		}
		e, err := Construct(n)
		if err != nil {
			return nil, err
		}
		if item, ok := e.(CurriculumItem); ok {
			items = append(items, item)
		}
	}
	return items, nil
}

// DecodeEntity normalizes raw and constructs whatever its _class names.
func DecodeEntity(raw map[string]any) (Entity, error) {
	n, err := NormalizeEntry(raw)
	if err != nil {
		return nil, err
	}
	return Construct(n)
}

// decodeAllAs decodes every entry as T regardless of its _class.
func decodeAllAs[T any](entries []map[string]any, kind Kind) ([]T, error) {
	out := make([]T, 0, len(entries))
	for _, raw := range entries {
		v, err := decodeAs[T](raw, kind)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

func decodeAs[T any](raw map[string]any, kind Kind) (T, error) {
	n, err := NormalizeEntryAs(raw, kind)
	if err != nil {
		var zero T
		return zero, err
	}
	return decode[T](kind.String(), n.Fields)
}
