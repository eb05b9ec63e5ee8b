package mongofake

import (
	"testing"

	"go.mongodb.org/mongo-driver/bson"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

func TestParseUpdate(t *testing.T) {
	tests := []struct {
		name   string
		update any
		fields []string
	}{
		{name: "nil", update: nil},
		{name: "empty", update: bson.M{}},
		{name: "no op", update: NoOp()},
		{name: "nil pointer", update: (*Update)(nil)},
		{name: "set bson.M", update: bson.M{"$set": bson.M{"b": 1, "a": 2}}, fields: []string{"a", "b"}},
		{name: "set bson.D keeps order", update: bson.D{{Key: "$set", Value: bson.D{{Key: "b", Value: 1}, {Key: "a", Value: 2}}}}, fields: []string{"b", "a"}},
		{name: "set map", update: map[string]any{"$set": map[string]any{"a": "x"}}, fields: []string{"a"}},
		{name: "set value", update: Set(bson.E{Key: "a", Value: 1}), fields: []string{"a"}},
		{name: "empty set", update: bson.M{"$set": bson.M{}}},
		{name: "not a document", update: 1},
		{name: "replacement document", update: bson.M{"a": 1}},
		{name: "inc", update: bson.M{"$inc": bson.M{"a": 1}}},
		{name: "inc next to set", update: bson.M{"$inc": bson.M{"a": 1}, "$set": bson.M{"b": 2}}, fields: []string{"b"}},
		{name: "set id", update: bson.M{"$set": bson.M{"_id": "x", "a": 1}}, fields: []string{"_id", "a"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			u, err := ParseUpdate(tt.update)
			if err != nil {
				t.Fatal(err)
			}
			if u.IsNoOp() != (len(tt.fields) == 0) {
				t.Errorf("IsNoOp() = %v", u.IsNoOp())
			}
			if len(u.Fields()) != len(tt.fields) {
				t.Fatalf("expected fields %v, got %v", tt.fields, u.Fields())
			}
			for i, f := range u.Fields() {
				if f.Key != tt.fields[i] {
					t.Errorf("field %d: expected %s, got %s", i, tt.fields[i], f.Key)
				}
			}
		})
	}
}

func TestParseUpdateErrors(t *testing.T) {
	tests := []struct {
		name   string
		update any
		code   codes.Code
	}{
		{name: "set not a document", update: bson.M{"$set": "a"}, code: codes.InvalidArgument},
		{name: "set array", update: bson.M{"$set": bson.A{"a"}}, code: codes.InvalidArgument},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseUpdate(tt.update)
			if got := status.Code(err); got != tt.code {
				t.Errorf("expected code %s, got %s (%v)", tt.code, got, err)
			}
		})
	}
}

func TestApplySkipsID(t *testing.T) {
	col := newCollection("test", nil, nil)
	d := newDocument(col, bson.D{{Key: idField, Value: "keep"}, {Key: "a", Value: 1}})
	Set(bson.E{Key: idField, Value: "changed"}, bson.E{Key: "a", Value: 2}).apply(d)
	if d.Lookup(idField) != "keep" {
		t.Errorf("expected _id keep, got %v", d.Lookup(idField))
	}
	if d.Lookup("a") != 2 {
		t.Errorf("expected a 2, got %v", d.Lookup("a"))
	}
}
