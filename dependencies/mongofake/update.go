package mongofake

import (
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
)

const (
	opSet   = "$set"
	idField = "_id"
)

// Update the fields an update writes. The zero Update writes nothing.
type Update struct {
	set bson.D
}

// Set returns an update overwriting the given fields, in order.
func Set(fields ...bson.E) Update {
	return Update{set: fields}
}

// NoOp returns an update without a $set payload.
func NoOp() Update {
	return Update{}
}

// IsNoOp reports whether the update has nothing to set.
func (u Update) IsNoOp() bool {
	return len(u.set) == 0
}

// Fields the fields to set.
func (u Update) Fields() bson.D {
	return u.set
}

// apply writes the fields to d, callers hold the collection write lock.
func (u Update) apply(d *Document) {
	for _, e := range u.set {
		if e.Key == idField {
			continue
		}
		d.set(e.Key, e.Value)
	}
}

// ParseUpdate converts a driver style update document to an Update.
//
// Only {"$set": {field: value, ...}} writes anything, a bson.D payload keeps its field order.
// Any other value, operator or replacement document sets nothing and is ignored. The _id field
// is never written even when $set names it. A $set payload that is not a document is an error.
func ParseUpdate(v any) (Update, error) {
	switch u := v.(type) {
	case nil:
		return NoOp(), nil
	case Update:
		return u, nil
	case *Update:
		if u == nil {
			return NoOp(), nil
		}
		return *u, nil
	}
	elems, ok := documentElements(v)
	if !ok {
		return NoOp(), nil
	}
	var update Update
	for _, e := range elems {
		if e.Key != opSet {
			continue
		}
		set, ok := documentElements(e.Value)
		if !ok {
			return Update{}, NewInvalidArgumentError(opSet, fmt.Sprintf("expected a document, got %T", e.Value))
		}
		update.set = set
	}
	return update, nil
}
