package mongofake

import (
	"context"
	"fmt"
	"reflect"
	"sync"

	"github.com/ti/mongofake/dependencies/mongofake/codecs"
	"github.com/ti/mongofake/log"
	"github.com/ti/mongofake/tools/objectid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Collection is an in-memory collection. Documents are kept in insertion order.
type Collection struct {
	mu       sync.RWMutex
	docs     []*Document
	database string
	logger   log.Logger
	metrics  *metrics
}

func newCollection(database string, logger log.Logger, m *metrics) *Collection {
	return &Collection{
		docs:     make([]*Document, 0),
		database: database,
		logger:   logger,
		metrics:  m,
	}
}

func (c *Collection) logFor(ctx context.Context, action string) log.StdLogger {
	logger := c.logger
	if logger == nil {
		logger = log.Extract(ctx)
	}
	return logger.Action("mongofake." + action).With(map[string]any{"database": c.database})
}

// Drop removes all stored documents. Handles returned earlier stay readable.
func (c *Collection) Drop(ctx context.Context) error {
	c.mu.Lock()
	dropped := len(c.docs)
	c.docs = make([]*Document, 0)
	c.mu.Unlock()

	c.metrics.observe("drop", dropped)
	c.logFor(ctx, "drop").Debug("dropped %d documents", dropped)
	return nil
}

// Find returns a cursor over the documents matching filter, see ParseFilter for the supported
// filters. For an AnyOf filter the matches of each clause are listed in clause order and a
// document matching several clauses is listed once, at its first match. Skip and Limit of the
// find options are honored, other options are ignored.
func (c *Collection) Find(ctx context.Context, filter any, opts ...*options.FindOptions) (*Cursor, error) {
	f, err := ParseFilter(filter)
	if err != nil {
		return nil, err
	}
	c.mu.RLock()
	docs := c.find(f)
	c.mu.RUnlock()

	docs = applyFindOptions(docs, opts)
	c.metrics.observe("find", len(docs))
	c.logFor(ctx, "find").With(map[string]any{"filter": f.String()}).Debug("found %d documents", len(docs))
	return NewCursor(docs), nil
}

// FindOne returns the first document Find would return, or mongo.ErrNoDocuments.
func (c *Collection) FindOne(ctx context.Context, filter any) (*Document, error) {
	cursor, err := c.Find(ctx, filter, options.Find().SetLimit(1))
	if err != nil {
		return nil, err
	}
	if !cursor.Next(ctx) {
		return nil, mongo.ErrNoDocuments
	}
	return cursor.Current(), nil
}

func (c *Collection) find(f Filter) []*Document {
	if f.IsMatchAll() {
		docs := make([]*Document, len(c.docs))
		copy(docs, c.docs)
		return docs
	}
	docs := make([]*Document, 0)
	seen := make(map[*Document]struct{})
	for _, clause := range f.Clauses() {
		for _, d := range c.docs {
			if _, ok := seen[d]; ok {
				continue
			}
			if fieldEquals(d.fields, clause.Field, clause.Value) {
				seen[d] = struct{}{}
				docs = append(docs, d)
			}
		}
	}
	return docs
}

func applyFindOptions(docs []*Document, opts []*options.FindOptions) []*Document {
	var skip, limit int64
	for _, o := range opts {
		if o == nil {
			continue
		}
		if o.Skip != nil {
			skip = *o.Skip
		}
		if o.Limit != nil {
			limit = *o.Limit
		}
	}
	if skip > 0 {
		if skip >= int64(len(docs)) {
			return docs[:0]
		}
		docs = docs[skip:]
	}
	// a negative limit asks the server for a single batch, the size is still its absolute value
	if limit < 0 {
		limit = -limit
	}
	if limit > 0 && limit < int64(len(docs)) {
		docs = docs[:limit]
	}
	return docs
}

// CountDocuments counts the documents matching filter, each document at most once.
func (c *Collection) CountDocuments(ctx context.Context, filter any, _ ...*options.CountOptions) (int64, error) {
	f, err := ParseFilter(filter)
	if err != nil {
		return 0, err
	}
	c.mu.RLock()
	var count int64
	for _, d := range c.docs {
		if f.Matches(d.fields) {
			count++
		}
	}
	c.mu.RUnlock()

	c.metrics.observe("count", int(count))
	c.logFor(ctx, "count").With(map[string]any{"filter": f.String()}).Debug("counted %d documents", count)
	return count, nil
}

// InsertMany stores copies of docs in order. Each document without an _id gets a new
// objectid.ObjectID as its first field, a caller supplied _id is kept. Maps keep their values
// as they are, structs are encoded with bson rules and their json tags. Nothing is stored when
// one of the documents can not be encoded.
func (c *Collection) InsertMany(ctx context.Context, documents []any,
	_ ...*options.InsertManyOptions,
) (*mongo.InsertManyResult, error) {
	prepared := make([]bson.D, len(documents))
	ids := make([]any, len(documents))
	for i, doc := range documents {
		elems, err := toElements(doc)
		if err != nil {
			return nil, NewInvalidArgumentError(fmt.Sprintf("documents.%d", i), err.Error())
		}
		prepared[i], ids[i] = withID(elems)
	}

	c.mu.Lock()
	for _, elems := range prepared {
		c.docs = append(c.docs, newDocument(c, elems))
	}
	c.mu.Unlock()

	c.metrics.observe("insert", len(documents))
	c.logFor(ctx, "insert").Debug("inserted %d documents", len(documents))
	return &mongo.InsertManyResult{InsertedIDs: ids}, nil
}

// InsertOne stores a copy of doc, see InsertMany.
func (c *Collection) InsertOne(ctx context.Context, doc any, _ ...*options.InsertOneOptions) (*mongo.InsertOneResult, error) {
	res, err := c.InsertMany(ctx, []any{doc})
	if err != nil {
		return nil, err
	}
	return &mongo.InsertOneResult{InsertedID: res.InsertedIDs[0]}, nil
}

func withID(elems bson.D) (bson.D, any) {
	for _, e := range elems {
		if e.Key == idField {
			return elems, e.Value
		}
	}
	id := objectid.New()
	return append(bson.D{{Key: idField, Value: id}}, elems...), id
}

// toElements copies the fields of a document value.
func toElements(doc any) (bson.D, error) {
	switch d := doc.(type) {
	case nil:
		return nil, fmt.Errorf("document is nil")
	case *Document:
		return d.D(), nil
	case bson.D:
		elems := make(bson.D, len(d))
		copy(elems, d)
		return elems, nil
	}
	if elems, ok := documentElements(doc); ok {
		return elems, nil
	}
	v := reflect.Indirect(reflect.ValueOf(doc))
	if v.Kind() != reflect.Struct {
		return nil, fmt.Errorf("document must be a map, bson.D or struct, got %T", doc)
	}
	return codecs.Encode(doc)
}

// UpdateMany overwrites the $set fields on every document matching filter, in place, and
// reports the number of matched documents as both matched and modified count. An update without
// $set touches nothing and reports zero. The update options are ignored.
func (c *Collection) UpdateMany(ctx context.Context, filter, update any,
	_ ...*options.UpdateOptions,
) (*mongo.UpdateResult, error) {
	return c.update(ctx, "update_many", filter, update, false)
}

// UpdateOne is UpdateMany limited to the first matching document.
func (c *Collection) UpdateOne(ctx context.Context, filter, update any,
	_ ...*options.UpdateOptions,
) (*mongo.UpdateResult, error) {
	return c.update(ctx, "update_one", filter, update, true)
}

func (c *Collection) update(ctx context.Context, action string, filter, update any, one bool) (*mongo.UpdateResult, error) {
	f, err := ParseFilter(filter)
	if err != nil {
		return nil, err
	}
	u, err := ParseUpdate(update)
	if err != nil {
		return nil, err
	}
	var matched int64
	if !u.IsNoOp() {
		c.mu.Lock()
		for _, d := range c.docs {
			if !f.Matches(d.fields) {
				continue
			}
			u.apply(d)
			matched++
			if one {
				break
			}
		}
		c.mu.Unlock()
	}

	c.metrics.observe(action, int(matched))
	c.logFor(ctx, action).With(map[string]any{"filter": f.String()}).Debug("updated %d documents", matched)
	return &mongo.UpdateResult{MatchedCount: matched, ModifiedCount: matched}, nil
}

// DeleteMany removes the documents matching filter and keeps the order of the others.
func (c *Collection) DeleteMany(ctx context.Context, filter any, _ ...*options.DeleteOptions) (*mongo.DeleteResult, error) {
	f, err := ParseFilter(filter)
	if err != nil {
		return nil, err
	}
	c.mu.Lock()
	kept := make([]*Document, 0, len(c.docs))
	for _, d := range c.docs {
		if !f.Matches(d.fields) {
			kept = append(kept, d)
		}
	}
	deleted := int64(len(c.docs) - len(kept))
	c.docs = kept
	c.mu.Unlock()

	c.metrics.observe("delete", int(deleted))
	c.logFor(ctx, "delete").With(map[string]any{"filter": f.String()}).Debug("deleted %d documents", deleted)
	return &mongo.DeleteResult{DeletedCount: deleted}, nil
}
