package mongofake

import (
	"errors"
	"testing"

	"go.mongodb.org/mongo-driver/bson"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

func TestParseFilter(t *testing.T) {
	tests := []struct {
		name     string
		filter   any
		matchAll bool
		clauses  int
	}{
		{name: "nil", filter: nil, matchAll: true},
		{name: "empty bson.M", filter: bson.M{}, matchAll: true},
		{name: "empty bson.D", filter: bson.D{}, matchAll: true},
		{name: "empty map", filter: map[string]any{}, matchAll: true},
		{name: "filter value", filter: AnyOf(Eq("a", "1")), clauses: 1},
		{name: "filter pointer", filter: &Filter{}, matchAll: true},
		{name: "nil filter pointer", filter: (*Filter)(nil), matchAll: true},
		{name: "or bson.A", filter: bson.M{"$or": bson.A{bson.M{"a": "1"}, bson.M{"a": "3"}}}, clauses: 2},
		{name: "or []any", filter: bson.M{"$or": []any{map[string]any{"a": "1"}}}, clauses: 1},
		{name: "or []bson.M", filter: bson.D{{Key: "$or", Value: []bson.M{{"a": "1"}, {"b": 2}}}}, clauses: 2},
		{name: "or []bson.D", filter: bson.M{"$or": []bson.D{{{Key: "a", Value: "1"}}}}, clauses: 1},
		{name: "or empty", filter: bson.M{"$or": bson.A{}}, clauses: 0},
		{name: "typed map", filter: map[string][]map[string]string{"$or": {{"a": "1"}}}, clauses: 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, err := ParseFilter(tt.filter)
			if err != nil {
				t.Fatal(err)
			}
			if f.IsMatchAll() != tt.matchAll {
				t.Errorf("IsMatchAll() = %v, want %v", f.IsMatchAll(), tt.matchAll)
			}
			if len(f.Clauses()) != tt.clauses {
				t.Errorf("expected %d clauses, got %d", tt.clauses, len(f.Clauses()))
			}
		})
	}
}

func TestParseFilterKeepsClauseOrder(t *testing.T) {
	f, err := ParseFilter(bson.M{"$or": bson.A{bson.M{"b": 1}, bson.M{"a": 2}}})
	if err != nil {
		t.Fatal(err)
	}
	if f.Clauses()[0].Field != "b" || f.Clauses()[1].Field != "a" {
		t.Errorf("unexpected clause order %v", f.Clauses())
	}
	if f.String() != "{$or: [{b: 1}, {a: 2}]}" {
		t.Errorf("unexpected String() %s", f.String())
	}
}

func TestParseFilterErrors(t *testing.T) {
	tests := []struct {
		name   string
		filter any
		code   codes.Code
	}{
		{name: "not a document", filter: "a=1", code: codes.InvalidArgument},
		{name: "plain equality", filter: bson.M{"a": "1"}, code: codes.Unimplemented},
		{name: "and", filter: bson.M{"$and": bson.A{}}, code: codes.Unimplemented},
		{name: "or with sibling", filter: bson.M{"$or": bson.A{}, "a": "1"}, code: codes.InvalidArgument},
		{name: "or not an array", filter: bson.M{"$or": bson.M{"a": "1"}}, code: codes.InvalidArgument},
		{name: "clause not a document", filter: bson.M{"$or": bson.A{"a"}}, code: codes.InvalidArgument},
		{name: "clause with two fields", filter: bson.M{"$or": bson.A{bson.M{"a": "1", "b": "2"}}}, code: codes.InvalidArgument},
		{name: "empty clause", filter: bson.M{"$or": bson.A{bson.M{}}}, code: codes.InvalidArgument},
		{name: "clause operator", filter: bson.M{"$or": bson.A{bson.M{"a": bson.M{"$gt": 1}}}}, code: codes.InvalidArgument},
		{name: "nested or", filter: bson.M{"$or": bson.A{bson.M{"$or": bson.A{}}}}, code: codes.InvalidArgument},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseFilter(tt.filter)
			if err == nil {
				t.Fatal("expected an error")
			}
			if got := status.Code(err); got != tt.code {
				t.Errorf("expected code %s, got %s (%v)", tt.code, got, err)
			}
			if tt.code == codes.InvalidArgument && !errors.Is(err, ErrInvalidArgument) {
				t.Errorf("expected errors.Is ErrInvalidArgument, got %v", err)
			}
		})
	}
}

func TestFilterMatches(t *testing.T) {
	doc := bson.M{"a": "1", "n": int64(2), "nil": nil}
	tests := []struct {
		name   string
		filter Filter
		want   bool
	}{
		{name: "match all", filter: MatchAll(), want: true},
		{name: "any of none", filter: AnyOf(), want: false},
		{name: "first clause", filter: AnyOf(Eq("a", "1"), Eq("a", "2")), want: true},
		{name: "second clause", filter: AnyOf(Eq("a", "2"), Eq("n", int64(2))), want: true},
		{name: "type strict", filter: AnyOf(Eq("n", 2)), want: false},
		{name: "absent field", filter: AnyOf(Eq("missing", nil)), want: false},
		{name: "present nil", filter: AnyOf(Eq("nil", nil)), want: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.filter.Matches(doc); got != tt.want {
				t.Errorf("Matches() = %v, want %v", got, tt.want)
			}
		})
	}
}
