package mongofake

import (
	"reflect"

	"go.mongodb.org/mongo-driver/bson"
)

// fieldEquals the field equality test shared by every filter: the field must be present and
// its value must deeply equal expected.
func fieldEquals(fields bson.M, field string, expected any) bool {
	value, ok := fields[field]
	if !ok {
		return false
	}
	return valuesEqual(value, expected)
}

// valuesEqual is reflect.DeepEqual except that documents compare by content whatever their type
// (bson.M, map[string]any, bson.D) and arrays compare element by element whatever their slice
// type (bson.A, []any). Two bson.D keep their field order. No coercion happens between scalar
// types: int(1), int64(1) and "1" all differ.
func valuesEqual(a, b any) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	da, aOrdered := a.(bson.D)
	db, bOrdered := b.(bson.D)
	switch {
	case aOrdered && bOrdered:
		return orderedEqual(da, db)
	case aOrdered:
		a = elementsMap(da)
	case bOrdered:
		b = elementsMap(db)
	}
	va, vb := reflect.ValueOf(a), reflect.ValueOf(b)
	switch {
	case isDocument(va) && isDocument(vb):
		return documentsEqual(va, vb)
	case isArray(va) && isArray(vb):
		return arraysEqual(va, vb)
	}
	return reflect.DeepEqual(a, b)
}

func isDocument(v reflect.Value) bool {
	return v.Kind() == reflect.Map && v.Type().Key().Kind() == reflect.String
}

func isArray(v reflect.Value) bool {
	if v.Kind() != reflect.Slice && v.Kind() != reflect.Array {
		return false
	}
	// bson.D is a document and []byte is binary data.
	elem := v.Type().Elem()
	return elem.Kind() != reflect.Uint8 && elem != reflect.TypeOf(bson.E{})
}

func documentsEqual(a, b reflect.Value) bool {
	if a.IsNil() != b.IsNil() || a.Len() != b.Len() {
		return false
	}
	iter := a.MapRange()
	for iter.Next() {
		other := b.MapIndex(iter.Key().Convert(b.Type().Key()))
		if !other.IsValid() {
			return false
		}
		if !valuesEqual(iter.Value().Interface(), other.Interface()) {
			return false
		}
	}
	return true
}

func arraysEqual(a, b reflect.Value) bool {
	if a.Len() != b.Len() {
		return false
	}
	for i := 0; i < a.Len(); i++ {
		if !valuesEqual(a.Index(i).Interface(), b.Index(i).Interface()) {
			return false
		}
	}
	return true
}

func orderedEqual(a, b bson.D) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i].Key != b[i].Key || !valuesEqual(a[i].Value, b[i].Value) {
			return false
		}
	}
	return true
}

// elementsMap views an ordered document as a map, the last of repeated keys wins.
func elementsMap(d bson.D) map[string]any {
	m := make(map[string]any, len(d))
	for _, e := range d {
		m[e.Key] = e.Value
	}
	return m
}
