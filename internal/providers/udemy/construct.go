package udemy

import (
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"
)

var timeType = reflect.TypeOf(time.Time{})

// zonelessLayout is ISO 8601 without an offset. Udemy sometimes omits the
// zone; such values are read as UTC.
const zonelessLayout = "2006-01-02T15:04:05.999999999"

// Construct builds the typed entity selected by n.Kind. KindUnknown yields an
// UnknownEntity rather than an error.
func Construct(n Normalized) (Entity, error) {
	switch n.Kind {
	case KindCourse:
		return asEntity(decode[Course](KindCourse.String(), n.Fields))
	case KindCourseReview:
		return asEntity(decode[CourseReview](KindCourseReview.String(), n.Fields))
	case KindLecture:
		return asEntity(decode[Lecture](KindLecture.String(), n.Fields))
	case KindChapter:
		return asEntity(decode[Chapter](KindChapter.String(), n.Fields))
	case KindQuiz:
		return asEntity(decode[Quiz](KindQuiz.String(), n.Fields))
	default:
		return UnknownEntity{Tag: n.Tag, Fields: n.Fields}, nil
	}
}

func asEntity[T Entity](v T, err error) (Entity, error) {
	if err != nil {
		return nil, err
	}
	return v, nil
}

// decode is decodeStrict with the entity name filled in on failure.
func decode[T any](entity string, fields map[string]any) (T, error) {
	v, serr := decodeStrict[T](fields)
	if serr != nil {
		serr.Entity = entity
		return v, serr
	}
	return v, nil
}

// decodeStrict checks required keys, then round-trips the mapping through
// encoding/json so nested values that were already converted (User, Asset...)
// and raw maps decode the same way.
func decodeStrict[T any](fields map[string]any) (T, *SchemaMismatchError) {
	var out T
	if serr := checkRequired(reflect.TypeOf(out), fields, ""); serr != nil {
		return out, serr
	}
	fields = zonelessAsUTC(reflect.TypeOf(out), fields)

	b, err := json.Marshal(fields)
	if err != nil {
		return out, &SchemaMismatchError{Reason: "value cannot be encoded", Err: err}
	}
	if err := json.Unmarshal(b, &out); err != nil {
		return out, schemaErrFromJSON(err)
	}
	return out, nil
}

func schemaErrFromJSON(err error) *SchemaMismatchError {
	var te *json.UnmarshalTypeError
	if errors.As(err, &te) {
		return &SchemaMismatchError{
			Field:  te.Field,
			Reason: fmt.Sprintf("expected %s, got %s", te.Type, te.Value),
		}
	}
	var pe *time.ParseError
	if errors.As(err, &pe) {
		return &SchemaMismatchError{Reason: "invalid timestamp", Err: err}
	}
	return &SchemaMismatchError{Reason: "cannot decode", Err: err}
}

// checkRequired walks t's json-tagged fields. Tags without omitempty are
// required and must be present and non-null. Raw nested maps and lists of
// maps are checked against their target struct too.
func checkRequired(t reflect.Type, m map[string]any, path string) *SchemaMismatchError {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t.Kind() != reflect.Struct {
		return nil
	}

	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if !f.IsExported() {
			continue
		}
		tag := f.Tag.Get("json")
		if f.Anonymous && tag == "" {
			if serr := checkRequired(f.Type, m, path); serr != nil {
				return serr
			}
			continue
		}

		name, opts, _ := strings.Cut(tag, ",")
		if name == "" || name == "-" {
			continue
		}
		field := joinPath(path, name)
		optional := strings.Contains(opts, "omitempty")

		v, ok := m[name]
		if v == nil {
			if optional {
				continue
			}
			if !ok {
				return &SchemaMismatchError{Field: field, Reason: "required field is missing"}
			}
			return &SchemaMismatchError{Field: field, Reason: "required field is null"}
		}

		if serr := checkNested(f.Type, v, field); serr != nil {
			return serr
		}
	}
	return nil
}

func checkNested(t reflect.Type, v any, path string) *SchemaMismatchError {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}

	switch {
	case t.Kind() == reflect.Struct && t != timeType:
		if m, ok := v.(map[string]any); ok {
			return checkRequired(t, m, path)
		}
	case t.Kind() == reflect.Slice:
		elem := t.Elem()
		for elem.Kind() == reflect.Pointer {
			elem = elem.Elem()
		}
		if elem.Kind() != reflect.Struct || elem == timeType {
			return nil
		}
		list, ok := v.([]any)
		if !ok {
			return nil
		}
		for i, el := range list {
			itemPath := fmt.Sprintf("%s[%d]", path, i)
			switch item := el.(type) {
			case nil:
				return &SchemaMismatchError{Field: itemPath, Reason: "list element is null"}
			case map[string]any:
				if serr := checkRequired(elem, item, itemPath); serr != nil {
					return serr
				}
			}
		}
	}
	return nil
}

func joinPath(path, name string) string {
	if path == "" {
		return name
	}
	return path + "." + name
}

// zonelessAsUTC rewrites timestamp fields of t that carry no offset into
// RFC 3339 UTC so encoding/json accepts them. Nested raw objects are handled
// too. m itself is never modified.
func zonelessAsUTC(t reflect.Type, m map[string]any) map[string]any {
	out, _ := rewriteZoneless(t, m)
	return out
}

func rewriteZoneless(t reflect.Type, m map[string]any) (map[string]any, bool) {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t.Kind() != reflect.Struct {
		return m, false
	}

	var out map[string]any
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if !f.IsExported() || name == "" || name == "-" {
			continue
		}
		ft := f.Type
		for ft.Kind() == reflect.Pointer {
			ft = ft.Elem()
		}

		var fixed any
		switch v := m[name].(type) {
		case string:
			if ft != timeType {
				continue
			}
			ts, err := time.ParseInLocation(zonelessLayout, v, time.UTC)
			if err != nil {
				continue
			}
			fixed = ts.Format(time.RFC3339Nano)
		case map[string]any:
			nested, changed := rewriteZoneless(ft, v)
			if !changed {
				continue
			}
			fixed = nested
		default:
			continue
		}

		if out == nil {
			out = make(map[string]any, len(m))
			for k, v := range m {
				out[k] = v
			}
		}
		out[name] = fixed
	}
	if out == nil {
		return m, false
	}
	return out, true
}
