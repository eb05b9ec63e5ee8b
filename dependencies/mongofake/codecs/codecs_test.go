package codecs

import (
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"google.golang.org/protobuf/types/known/timestamppb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

type crew struct {
	Name    string                  `json:"name"`
	Rank    string                  `json:"rank,omitempty"`
	Ship    *wrapperspb.StringValue `json:"ship"`
	Revived *timestamppb.Timestamp  `json:"revived"`
}

func TestEncode(t *testing.T) {
	revived := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	doc, err := Encode(&crew{
		Name:    "rimmer",
		Ship:    wrapperspb.String("red dwarf"),
		Revived: timestamppb.New(revived),
	})
	if err != nil {
		t.Fatal(err)
	}
	keys := make([]string, len(doc))
	for i, e := range doc {
		keys[i] = e.Key
	}
	want := []string{"name", "ship", "revived"}
	if len(keys) != len(want) {
		t.Fatalf("expected keys %v, got %v", want, keys)
	}
	for i := range want {
		if keys[i] != want[i] {
			t.Fatalf("expected keys %v, got %v", want, keys)
		}
	}
	if doc[1].Value != "red dwarf" {
		t.Errorf("wrapper must be stored as its value, got %#v", doc[1].Value)
	}
}

func TestDecode(t *testing.T) {
	revived := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	doc, err := Encode(&crew{
		Name:    "lister",
		Rank:    "third technician",
		Ship:    wrapperspb.String("red dwarf"),
		Revived: timestamppb.New(revived),
	})
	if err != nil {
		t.Fatal(err)
	}
	var out crew
	if err = Decode(doc, &out); err != nil {
		t.Fatal(err)
	}
	if out.Name != "lister" || out.Rank != "third technician" {
		t.Errorf("unexpected decode result %+v", out)
	}
	if out.Ship.GetValue() != "red dwarf" {
		t.Errorf("expected ship red dwarf, got %q", out.Ship.GetValue())
	}
	if !out.Revived.AsTime().Equal(revived) {
		t.Errorf("expected %s, got %s", revived, out.Revived.AsTime())
	}
}

func TestDecodeMap(t *testing.T) {
	var out struct {
		Name string `json:"name"`
	}
	if err := Decode(bson.M{"name": "kryten", "series": "4000"}, &out); err != nil {
		t.Fatal(err)
	}
	if out.Name != "kryten" {
		t.Errorf("expected kryten, got %q", out.Name)
	}
}
