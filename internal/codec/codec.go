// Package codec holds the record contract every store applies: normalize an
// untyped decoded JSON value into a typed record, or reject that one record.
package codec

import (
	"maps"
	"slices"

	json "github.com/goccy/go-json"
)

// Codec normalizes one untyped record and serializes a typed one.
// Normalize never panics; structurally invalid input reports false.
type Codec[T any] interface {
	Normalize(raw any) (T, bool)
	Serialize(v T) ([]byte, error)
}

// Func adapts a plain normalize function into a Codec serialized as JSON.
type Func[T any] func(raw any) (T, bool)

func (f Func[T]) Normalize(raw any) (v T, ok bool) {
	defer func() {
		if r := recover(); r != nil {
			var zero T
			v, ok = zero, false
		}
	}()
	return f(raw)
}

func (f Func[T]) Serialize(v T) ([]byte, error) {
	return json.Marshal(v)
}

// Decode parses JSON text into untyped values (objects, arrays, float64,
// string, bool, nil).
func Decode(data []byte) (any, error) {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, err
	}
	return raw, nil
}

// Canonical re-runs normalization over the serialized form of v, so an
// in-memory mutation can never be persisted in a shape a read would reject.
func Canonical[T any](c Codec[T], v T) (T, bool) {
	var zero T
	data, err := c.Serialize(v)
	if err != nil {
		return zero, false
	}
	raw, err := Decode(data)
	if err != nil {
		return zero, false
	}
	return c.Normalize(raw)
}

// NormalizeList normalizes every element of a JSON array independently.
// A non-array yields an empty list. The second result counts dropped elements.
func NormalizeList[T any](raw any, c Codec[T]) ([]T, int) {
	items, ok := raw.([]any)
	if !ok {
		return []T{}, 0
	}
	out := make([]T, 0, len(items))
	dropped := 0
	for _, item := range items {
		v, ok := c.Normalize(item)
		if !ok {
			dropped++
			continue
		}
		out = append(out, v)
	}
	return out, dropped
}

// EntryFunc normalizes one map entry and may rewrite its key.
type EntryFunc[T any] func(key string, raw any) (string, T, bool)

// NormalizeMap normalizes every entry of a JSON object independently, in
// key order. When two keys normalize to the same key the first one wins.
func NormalizeMap[T any](raw any, fn EntryFunc[T]) (map[string]T, int) {
	obj, ok := raw.(map[string]any)
	if !ok {
		return map[string]T{}, 0
	}
	out := make(map[string]T, len(obj))
	dropped := 0
	for _, key := range slices.Sorted(maps.Keys(obj)) {
		k, v, ok := safeEntry(fn, key, obj[key])
		if !ok {
			dropped++
			continue
		}
		if _, exists := out[k]; exists {
			dropped++
			continue
		}
		out[k] = v
	}
	return out, dropped
}

func safeEntry[T any](fn EntryFunc[T], key string, raw any) (k string, v T, ok bool) {
	defer func() {
		if r := recover(); r != nil {
			var zero T
			k, v, ok = "", zero, false
		}
	}()
	return fn(key, raw)
}
