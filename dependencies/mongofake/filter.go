package mongofake

import (
	"fmt"
	"reflect"
	"slices"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
)

// Clause a single field equality test.
type Clause struct {
	Field string
	Value any
}

// Eq returns the clause field == value.
func Eq(field string, value any) Clause {
	return Clause{Field: field, Value: value}
}

// Filter selects documents. It is either MatchAll or AnyOf a list of clauses.
type Filter struct {
	anyOf   bool
	clauses []Clause
}

// MatchAll matches every document.
func MatchAll() Filter {
	return Filter{}
}

// AnyOf matches a document when at least one clause matches it. An AnyOf without clauses
// matches nothing.
func AnyOf(clauses ...Clause) Filter {
	return Filter{anyOf: true, clauses: clauses}
}

// IsMatchAll reports whether f is MatchAll.
func (f Filter) IsMatchAll() bool {
	return !f.anyOf
}

// Clauses the clauses of an AnyOf filter, nil for MatchAll.
func (f Filter) Clauses() []Clause {
	return f.clauses
}

// Matches reports whether the document fields satisfy the filter.
func (f Filter) Matches(fields bson.M) bool {
	if !f.anyOf {
		return true
	}
	for _, c := range f.clauses {
		if fieldEquals(fields, c.Field, c.Value) {
			return true
		}
	}
	return false
}

// String print the filter, for logs.
func (f Filter) String() string {
	if !f.anyOf {
		return "{}"
	}
	parts := make([]string, len(f.clauses))
	for i, c := range f.clauses {
		parts[i] = fmt.Sprintf("{%s: %v}", c.Field, c.Value)
	}
	return "{$or: [" + strings.Join(parts, ", ") + "]}"
}

const opOr = "$or"

// ParseFilter converts a driver style filter to a Filter.
//
// Supported shapes:
//
//	nil, {}                               match all
//	{"$or": [{"a": "1"}, {"b": 2}, ...]}  any of the single field clauses
//
// The documents may be bson.M, bson.D or map[string]any and the $or array bson.A, []any, or a
// slice of documents. Other operators return an unimplemented error, malformed clauses an
// invalid argument error.
func ParseFilter(v any) (Filter, error) {
	switch f := v.(type) {
	case nil:
		return MatchAll(), nil
	case Filter:
		return f, nil
	case *Filter:
		if f == nil {
			return MatchAll(), nil
		}
		return *f, nil
	}
	elems, ok := documentElements(v)
	if !ok {
		return Filter{}, NewInvalidArgumentError("filter", fmt.Sprintf("expected a document, got %T", v))
	}
	if len(elems) == 0 {
		return MatchAll(), nil
	}
	if len(elems) > 1 {
		return Filter{}, NewInvalidArgumentError("filter", "only a single $or is supported at the top level")
	}
	if elems[0].Key != opOr {
		return Filter{}, NewUnimplementedError("filter", elems[0].Key)
	}
	items, ok := arrayElements(elems[0].Value)
	if !ok {
		return Filter{}, NewInvalidArgumentError("$or", fmt.Sprintf("expected an array, got %T", elems[0].Value))
	}
	clauses := make([]Clause, 0, len(items))
	for i, item := range items {
		clause, err := parseClause(item)
		if err != nil {
			return Filter{}, NewInvalidArgumentError(fmt.Sprintf("$or.%d", i), err.Error())
		}
		clauses = append(clauses, clause)
	}
	return AnyOf(clauses...), nil
}

func parseClause(v any) (Clause, error) {
	elems, ok := documentElements(v)
	if !ok {
		return Clause{}, fmt.Errorf("expected a document, got %T", v)
	}
	if len(elems) != 1 {
		return Clause{}, fmt.Errorf("expected exactly one field, got %d", len(elems))
	}
	if strings.HasPrefix(elems[0].Key, "$") {
		return Clause{}, fmt.Errorf("operator %s is not supported in a clause", elems[0].Key)
	}
	if _, isOperator := operatorValue(elems[0].Value); isOperator {
		return Clause{}, fmt.Errorf("field %s uses a query operator, only equality is supported", elems[0].Key)
	}
	return Clause{Field: elems[0].Key, Value: elems[0].Value}, nil
}

// operatorValue reports whether v is a document of query operators such as {"$gt": 1}.
func operatorValue(v any) (bson.D, bool) {
	elems, ok := documentElements(v)
	if !ok || len(elems) == 0 {
		return nil, false
	}
	for _, e := range elems {
		if !strings.HasPrefix(e.Key, "$") {
			return nil, false
		}
	}
	return elems, true
}

// documentElements lists the fields of a document value. Map fields come out in key order so
// that parsing is deterministic.
func documentElements(v any) (bson.D, bool) {
	switch d := v.(type) {
	case bson.D:
		return d, true
	case bson.M:
		return mapElements(d), true
	case map[string]any:
		return mapElements(d), true
	}
	rv := reflect.ValueOf(v)
	if !rv.IsValid() || !isDocument(rv) {
		return nil, false
	}
	m := make(map[string]any, rv.Len())
	iter := rv.MapRange()
	for iter.Next() {
		m[iter.Key().String()] = iter.Value().Interface()
	}
	return mapElements(m), true
}

func mapElements(m map[string]any) bson.D {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	d := make(bson.D, len(keys))
	for i, k := range keys {
		d[i] = bson.E{Key: k, Value: m[k]}
	}
	return d
}

func arrayElements(v any) ([]any, bool) {
	switch a := v.(type) {
	case bson.A:
		return a, true
	case []any:
		return a, true
	}
	rv := reflect.ValueOf(v)
	if !rv.IsValid() || !isArray(rv) {
		return nil, false
	}
	items := make([]any, rv.Len())
	for i := range items {
		items[i] = rv.Index(i).Interface()
	}
	return items, true
}
