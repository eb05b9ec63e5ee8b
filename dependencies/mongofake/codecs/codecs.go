// Package codecs converts between go values and stored documents using bson rules.
package codecs

import (
	"bytes"
	"errors"
	"reflect"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/bsoncodec"
	"go.mongodb.org/mongo-driver/bson/bsonrw"
	"google.golang.org/protobuf/types/known/timestamppb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

var (
	wrapperTypes = []reflect.Type{
		reflect.TypeOf(wrapperspb.BoolValue{}),
		reflect.TypeOf(wrapperspb.BytesValue{}),
		reflect.TypeOf(wrapperspb.DoubleValue{}),
		reflect.TypeOf(wrapperspb.FloatValue{}),
		reflect.TypeOf(wrapperspb.Int32Value{}),
		reflect.TypeOf(wrapperspb.Int64Value{}),
		reflect.TypeOf(wrapperspb.StringValue{}),
		reflect.TypeOf(wrapperspb.UInt32Value{}),
		reflect.TypeOf(wrapperspb.UInt64Value{}),
	}
	timestampType = reflect.TypeOf(timestamppb.Timestamp{})
	timeType      = reflect.TypeOf(time.Time{})
)

// wrapperCodec stores a protobuf wrapper as its bare value.
type wrapperCodec struct{}

const valueField = "Value"

func (wrapperCodec) EncodeValue(ectx bsoncodec.EncodeContext, vw bsonrw.ValueWriter, val reflect.Value) error {
	val = val.FieldByName(valueField)
	enc, err := ectx.LookupEncoder(val.Type())
	if err != nil {
		return err
	}
	return enc.EncodeValue(ectx, vw, val)
}

func (wrapperCodec) DecodeValue(dctx bsoncodec.DecodeContext, vr bsonrw.ValueReader, val reflect.Value) error {
	val = val.FieldByName(valueField)
	dec, err := dctx.LookupDecoder(val.Type())
	if err != nil {
		return err
	}
	return dec.DecodeValue(dctx, vr, val)
}

// timestampCodec stores a protobuf timestamp as a UTC datetime.
type timestampCodec struct{}

func (timestampCodec) EncodeValue(ectx bsoncodec.EncodeContext, vw bsonrw.ValueWriter, val reflect.Value) error {
	if !val.CanAddr() {
		return errors.New("timestamp value is not addressable")
	}
	ts, ok := val.Addr().Interface().(*timestamppb.Timestamp)
	if !ok {
		return errors.New("value is not *timestamppb.Timestamp")
	}
	enc, err := ectx.LookupEncoder(timeType)
	if err != nil {
		return err
	}
	return enc.EncodeValue(ectx, vw, reflect.ValueOf(ts.AsTime().In(time.UTC)))
}

func (timestampCodec) DecodeValue(dctx bsoncodec.DecodeContext, vr bsonrw.ValueReader, val reflect.Value) error {
	dec, err := dctx.LookupDecoder(timeType)
	if err != nil {
		return err
	}
	var t time.Time
	if err = dec.DecodeValue(dctx, vr, reflect.ValueOf(&t).Elem()); err != nil {
		return err
	}
	val.Set(reflect.ValueOf(timestamppb.New(t.In(time.UTC))).Elem())
	return nil
}

// DefaultRegistry the registry used by Encode and Decode.
var DefaultRegistry = NewRegistry()

// NewRegistry the bson registry with protobuf wrapper and timestamp support.
func NewRegistry() *bsoncodec.Registry {
	reg := bson.NewRegistry()
	for _, t := range wrapperTypes {
		reg.RegisterTypeEncoder(t, wrapperCodec{})
		reg.RegisterTypeDecoder(t, wrapperCodec{})
	}
	reg.RegisterTypeEncoder(timestampType, timestampCodec{})
	reg.RegisterTypeDecoder(timestampType, timestampCodec{})
	return reg
}

// Encode converts a struct, map or bson.D to an ordered document. json struct tags are honored.
func Encode(val any) (bson.D, error) {
	return EncodeByRegistry(val, DefaultRegistry)
}

// EncodeByRegistry converts val to bson.D with the given registry.
func EncodeByRegistry(val any, r *bsoncodec.Registry) (bson.D, error) {
	buf := &bytes.Buffer{}
	vw, err := bsonrw.NewBSONValueWriter(buf)
	if err != nil {
		return nil, err
	}
	enc, err := bson.NewEncoder(vw)
	if err != nil {
		return nil, err
	}
	if err = enc.SetRegistry(r); err != nil {
		return nil, err
	}
	enc.UseJSONStructTags()
	enc.NilMapAsEmpty()
	if err = enc.Encode(val); err != nil {
		return nil, err
	}
	dec, err := newDecoder(buf.Bytes(), r)
	if err != nil {
		return nil, err
	}
	dec.DefaultDocumentD()
	var doc bson.D
	if err = dec.Decode(&doc); err != nil {
		return nil, err
	}
	return doc, nil
}

// Decode copies a stored document into v, which must be a pointer.
func Decode(doc any, v any) error {
	return DecodeByRegistry(doc, v, DefaultRegistry)
}

// DecodeByRegistry decodes doc into v with the given registry.
func DecodeByRegistry(doc any, v any, r *bsoncodec.Registry) error {
	raw, err := bson.MarshalWithRegistry(r, doc)
	if err != nil {
		return err
	}
	dec, err := newDecoder(raw, r)
	if err != nil {
		return err
	}
	dec.DefaultDocumentM()
	return dec.Decode(v)
}

func newDecoder(raw []byte, r *bsoncodec.Registry) (*bson.Decoder, error) {
	dec, err := bson.NewDecoder(bsonrw.NewBSONDocumentReader(raw))
	if err != nil {
		return nil, err
	}
	if err = dec.SetRegistry(r); err != nil {
		return nil, err
	}
	dec.UseJSONStructTags()
	return dec, nil
}
