package mongofake

import (
	"context"
	"fmt"
	"reflect"
)

// Cursor iterates over the result of one Find. Every Find returns a new cursor, so results of
// earlier queries are not replaced by later ones.
type Cursor struct {
	docs    []*Document
	current int
}

// NewCursor binds docs to a new cursor.
func NewCursor(docs []*Document) *Cursor {
	if docs == nil {
		docs = []*Document{}
	}
	return &Cursor{
		docs:    docs,
		current: -1,
	}
}

// ToArray returns all documents bound to the cursor, never nil.
func (c *Cursor) ToArray(ctx context.Context) ([]*Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	out := make([]*Document, len(c.docs))
	copy(out, c.docs)
	return out, nil
}

// Next moves to the next document.
func (c *Cursor) Next(ctx context.Context) bool {
	if ctx.Err() != nil || c.current >= len(c.docs) {
		return false
	}
	c.current++
	return c.current < len(c.docs)
}

// Current the document Next moved to, nil before the first Next or after the last.
func (c *Cursor) Current() *Document {
	if c.current < 0 || c.current >= len(c.docs) {
		return nil
	}
	return c.docs[c.current]
}

// Decode decodes the current document into v.
func (c *Cursor) Decode(v any) error {
	doc := c.Current()
	if doc == nil {
		return NewInvalidArgumentError("cursor_position", "position out of range")
	}
	return doc.Decode(v)
}

// RemainingBatchLength the number of documents Next has not reached yet.
func (c *Cursor) RemainingBatchLength() int {
	remaining := len(c.docs) - c.current - 1
	if remaining < 0 {
		return 0
	}
	return remaining
}

// All decodes every document into results, which must be a pointer to a slice. The elements may
// be structs, maps or *Document.
func (c *Cursor) All(ctx context.Context, results any) error {
	v := reflect.ValueOf(results)
	if v.Kind() != reflect.Ptr || v.Elem().Kind() != reflect.Slice {
		return NewInvalidArgumentError("results", fmt.Sprintf("expected a pointer to a slice, got %T", results))
	}
	docs, err := c.ToArray(ctx)
	if err != nil {
		return err
	}
	slice := v.Elem()
	elemType := slice.Type().Elem()
	out := reflect.MakeSlice(slice.Type(), 0, len(docs))
	for _, doc := range docs {
		if elemType == documentType {
			out = reflect.Append(out, reflect.ValueOf(doc))
			continue
		}
		elem := reflect.New(elemType)
		if err = doc.Decode(elem.Interface()); err != nil {
			return err
		}
		out = reflect.Append(out, elem.Elem())
	}
	slice.Set(out)
	return c.Close(ctx)
}

var documentType = reflect.TypeOf((*Document)(nil))

// Close releases the bound documents.
func (c *Cursor) Close(context.Context) error {
	c.docs = nil
	c.current = -1
	return nil
}
