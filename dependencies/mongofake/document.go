package mongofake

import (
	"maps"

	"github.com/ti/mongofake/dependencies/mongofake/codecs"
	"github.com/ti/mongofake/tools/objectid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Document is a handle on a document owned by a collection. Updates applied to the collection
// after the handle was returned are visible through it. Use Map for a caller owned copy.
type Document struct {
	owner  *Collection
	keys   []string
	fields bson.M
}

func newDocument(owner *Collection, elems bson.D) *Document {
	d := &Document{
		owner:  owner,
		keys:   make([]string, 0, len(elems)),
		fields: make(bson.M, len(elems)),
	}
	for _, e := range elems {
		if _, ok := d.fields[e.Key]; !ok {
			d.keys = append(d.keys, e.Key)
		}
		d.fields[e.Key] = e.Value
	}
	return d
}

// ID the _id of the document. Ids stored as strings or driver ObjectIDs are converted.
func (d *Document) ID() objectid.ObjectID {
	switch id := d.Lookup(idField).(type) {
	case objectid.ObjectID:
		return id
	case string:
		return objectid.FromHex(id)
	case primitive.ObjectID:
		return objectid.FromPrimitive(id)
	}
	return ""
}

// Get returns the value of field and whether it is present.
func (d *Document) Get(field string) (any, bool) {
	d.owner.mu.RLock()
	defer d.owner.mu.RUnlock()
	v, ok := d.fields[field]
	return v, ok
}

// Lookup returns the value of field, nil when absent.
func (d *Document) Lookup(field string) any {
	v, _ := d.Get(field)
	return v
}

// Keys the field names in the order they were first written.
func (d *Document) Keys() []string {
	d.owner.mu.RLock()
	defer d.owner.mu.RUnlock()
	keys := make([]string, len(d.keys))
	copy(keys, d.keys)
	return keys
}

// Map a shallow copy of the fields.
func (d *Document) Map() bson.M {
	d.owner.mu.RLock()
	defer d.owner.mu.RUnlock()
	return maps.Clone(d.fields)
}

// D the fields as an ordered document.
func (d *Document) D() bson.D {
	d.owner.mu.RLock()
	defer d.owner.mu.RUnlock()
	return d.elements()
}

// Decode copies the document into v, v must be a pointer to a struct or map.
func (d *Document) Decode(v any) error {
	return codecs.Decode(d.D(), v)
}

func (d *Document) elements() bson.D {
	elems := make(bson.D, len(d.keys))
	for i, k := range d.keys {
		elems[i] = bson.E{Key: k, Value: d.fields[k]}
	}
	return elems
}

// set writes a field, callers hold the owner's write lock.
func (d *Document) set(field string, value any) {
	if _, ok := d.fields[field]; !ok {
		d.keys = append(d.keys, field)
	}
	d.fields[field] = value
}
