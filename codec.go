package filecache

import (
	"bytes"
	"fmt"
	"reflect"
	"sort"

	"github.com/vmihailenco/msgpack/v5"
	"github.com/vmihailenco/msgpack/v5/msgpcode"
)

// Pair is one member of a Map.
type Pair struct {
	Key   string
	Value any
}

// Map is a mapping that keeps its keys in insertion order. Cached mappings
// decode as Map, so the order keys were written in is the order they come back.
//
// Plain Go maps can be cached as well; they are written with their keys
// sorted and therefore read back as a Map in sorted key order.
//
// A nil Map is written as msgpack nil and reads back as an untyped nil, not
// as an empty Map.
type Map []Pair

// MapOf builds a Map from alternating keys and values.
// It panics if a key is not a string or a value is missing.
func MapOf(kv ...any) Map {
	if len(kv)%2 != 0 {
		panic("filecache: MapOf requires key/value pairs")
	}
	m := make(Map, 0, len(kv)/2)
	for i := 0; i < len(kv); i += 2 {
		key, ok := kv[i].(string)
		if !ok {
			panic(fmt.Sprintf("filecache: MapOf key %v is %T, not string", kv[i], kv[i]))
		}
		m.Set(key, kv[i+1])
	}
	return m
}

// Get returns the value stored under key.
func (m Map) Get(key string) (any, bool) {
	for _, p := range m {
		if p.Key == key {
			return p.Value, true
		}
	}
	return nil, false
}

// Set replaces the value for an existing key in place, or appends a new pair.
func (m *Map) Set(key string, value any) {
	for i := range *m {
		if (*m)[i].Key == key {
			(*m)[i].Value = value
			return
		}
	}
	*m = append(*m, Pair{Key: key, Value: value})
}

// Delete removes key, keeping the order of the remaining pairs.
func (m *Map) Delete(key string) {
	for i := range *m {
		if (*m)[i].Key == key {
			*m = append((*m)[:i], (*m)[i+1:]...)
			return
		}
	}
}

// Keys returns the keys in order.
func (m Map) Keys() []string {
	keys := make([]string, len(m))
	for i, p := range m {
		keys[i] = p.Key
	}
	return keys
}

// Len returns the number of pairs.
func (m Map) Len() int {
	return len(m)
}

// ToMap converts m, and any Map nested in it, into plain Go maps.
func (m Map) ToMap() map[string]any {
	out := make(map[string]any, len(m))
	for _, p := range m {
		out[p.Key] = unorder(p.Value)
	}
	return out
}

func unorder(v any) any {
	switch t := v.(type) {
	case Map:
		return t.ToMap()
	case []any:
		out := make([]any, len(t))
		for i, item := range t {
			out[i] = unorder(item)
		}
		return out
	default:
		return v
	}
}

var (
	_ msgpack.CustomEncoder = Map(nil)
	_ msgpack.CustomDecoder = (*Map)(nil)
)

// EncodeMsgpack writes m as a msgpack map in pair order.
func (m Map) EncodeMsgpack(enc *msgpack.Encoder) error {
	if err := enc.EncodeMapLen(len(m)); err != nil {
		return err
	}
	for _, p := range m {
		if err := enc.EncodeString(p.Key); err != nil {
			return err
		}
		if err := encodeGeneric(enc, p.Value); err != nil {
			return err
		}
	}
	return nil
}

// encodeGeneric walks maps, slices and arrays itself so that unsigned
// integers anywhere in the value carry a uint code and plain map keys are
// sorted. Everything else is left to msgpack.
func encodeGeneric(enc *msgpack.Encoder, v any) error {
	switch t := v.(type) {
	case nil:
		return enc.EncodeNil()
	case Map:
		if t == nil {
			return enc.EncodeNil()
		}
		return t.EncodeMsgpack(enc)
	case []byte:
		return enc.EncodeBytes(t)
	case msgpack.CustomEncoder, msgpack.Marshaler:
		return enc.Encode(v)
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return enc.EncodeUint64(rv.Uint())
	case reflect.Slice, reflect.Array:
		if rv.Kind() == reflect.Slice && rv.IsNil() {
			return enc.EncodeNil()
		}
		if rv.Type().Elem().Kind() == reflect.Uint8 {
			return enc.Encode(v)
		}
		if err := enc.EncodeArrayLen(rv.Len()); err != nil {
			return err
		}
		for i := 0; i < rv.Len(); i++ {
			if err := encodeGeneric(enc, rv.Index(i).Interface()); err != nil {
				return err
			}
		}
		return nil
	case reflect.Map:
		if rv.Type().Key().Kind() != reflect.String {
			return enc.Encode(v)
		}
		if rv.IsNil() {
			return enc.EncodeNil()
		}
		keys := make([]string, 0, rv.Len())
		for _, k := range rv.MapKeys() {
			keys = append(keys, k.String())
		}
		sort.Strings(keys)
		if err := enc.EncodeMapLen(len(keys)); err != nil {
			return err
		}
		for _, k := range keys {
			if err := enc.EncodeString(k); err != nil {
				return err
			}
			val := rv.MapIndex(reflect.ValueOf(k).Convert(rv.Type().Key()))
			if err := encodeGeneric(enc, val.Interface()); err != nil {
				return err
			}
		}
		return nil
	default:
		return enc.Encode(v)
	}
}

// DecodeMsgpack reads a msgpack map into m, preserving order.
func (m *Map) DecodeMsgpack(dec *msgpack.Decoder) error {
	v, err := decodeOrderedMap(dec)
	if err != nil {
		return err
	}
	if v == nil {
		*m = nil
		return nil
	}
	*m = v.(Map)
	return nil
}

// decodeOrdered decodes one generic value. Maps at any depth become Map,
// arrays []any, bin []byte, uint codes uint64; other scalars follow msgpack's
// loose interface decoding.
func decodeOrdered(dec *msgpack.Decoder) (any, error) {
	c, err := dec.PeekCode()
	if err != nil {
		return nil, err
	}
	switch {
	case msgpcode.IsFixedMap(c) || c == msgpcode.Map16 || c == msgpcode.Map32:
		return decodeOrderedMap(dec)
	case msgpcode.IsFixedArray(c) || c == msgpcode.Array16 || c == msgpcode.Array32:
		n, err := dec.DecodeArrayLen()
		if err != nil {
			return nil, err
		}
		out := make([]any, n)
		for i := range out {
			if out[i], err = decodeOrdered(dec); err != nil {
				return nil, err
			}
		}
		return out, nil
	case c == msgpcode.Bin8 || c == msgpcode.Bin16 || c == msgpcode.Bin32:
		return dec.DecodeBytes()
	case c == msgpcode.Uint8 || c == msgpcode.Uint16 || c == msgpcode.Uint32 || c == msgpcode.Uint64:
		return dec.DecodeUint64()
	default:
		return dec.DecodeInterfaceLoose()
	}
}

func decodeOrderedMap(dec *msgpack.Decoder) (any, error) {
	n, err := dec.DecodeMapLen()
	if err != nil {
		return nil, err
	}
	if n == -1 {
		return nil, nil
	}
	m := make(Map, 0, n)
	for i := 0; i < n; i++ {
		k, err := dec.DecodeInterfaceLoose()
		if err != nil {
			return nil, err
		}
		key, ok := k.(string)
		if !ok {
			key = fmt.Sprint(k)
		}
		v, err := decodeOrdered(dec)
		if err != nil {
			return nil, err
		}
		m = append(m, Pair{Key: key, Value: v})
	}
	return m, nil
}

func marshalValue(value any) ([]byte, error) {
	var buf bytes.Buffer
	enc := msgpack.NewEncoder(&buf)
	enc.SetSortMapKeys(true)
	if err := encodeGeneric(enc, value); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// unmarshalValue decodes into v. A *any target receives Map for mappings,
// int64/uint64 for integers and float64 for floats; typed targets decode
// the usual msgpack way.
func unmarshalValue(data []byte, v any) error {
	r := bytes.NewReader(data)
	dec := msgpack.NewDecoder(r)
	dec.UseLooseInterfaceDecoding(true)

	var err error
	if p, ok := v.(*any); ok {
		*p, err = decodeOrdered(dec)
	} else {
		err = dec.Decode(v)
	}
	if err != nil {
		return err
	}
	if r.Len() > 0 {
		return fmt.Errorf("%d trailing bytes after value", r.Len())
	}
	return nil
}
