// Package objectid provides fake mongo object ids.
//
// An ObjectID is a 24 character string. New ids are cut from a random UUID with the
// dashes removed, ids built from an existing string keep that string unchanged.
package objectid

import (
	"strings"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Length the length of a generated id.
const Length = 24

// ObjectID the fake object id, compared by its string form.
type ObjectID string

// New a random ObjectID.
func New() ObjectID {
	id := strings.ReplaceAll(uuid.New().String(), "-", "")
	return ObjectID(id[:Length])
}

// FromHex wraps s as an ObjectID. s is not validated.
func FromHex(s string) ObjectID {
	return ObjectID(s)
}

// Generate returns FromHex(existing[0]) when an existing value is given, otherwise New().
func Generate(existing ...string) ObjectID {
	if len(existing) > 0 {
		return FromHex(existing[0])
	}
	return New()
}

// FromPrimitive converts a driver ObjectID.
func FromPrimitive(id primitive.ObjectID) ObjectID {
	return ObjectID(id.Hex())
}

// Hex the string form of the id.
func (id ObjectID) Hex() string {
	return string(id)
}

// String implements fmt.Stringer
func (id ObjectID) String() string {
	return string(id)
}

// IsZero reports whether id is empty.
func (id ObjectID) IsZero() bool {
	return id == ""
}

// Primitive converts the id to a driver ObjectID. Ids made by New are always valid hex, ids
// wrapped by FromHex fail unless they are 24 hex characters.
func (id ObjectID) Primitive() (primitive.ObjectID, error) {
	return primitive.ObjectIDFromHex(string(id))
}
