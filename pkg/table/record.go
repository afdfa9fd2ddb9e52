package table

import (
	"fmt"
	"sort"

	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// Record is one row of a table: an ordered mapping of field name to value.
// Field order is insertion order and drives heading order when several
// records are rendered together. The zero value is an empty record.
type Record struct {
	fields *orderedmap.OrderedMap[string, any]
}

// NewRecord builds a record from alternating key/value arguments, e.g.
// NewRecord("name", "Anna", "active", true). Non-string keys are formatted
// with fmt; a trailing key without a value is stored with a nil value.
func NewRecord(keysAndValues ...any) Record {
	r := Record{fields: orderedmap.New[string, any]()}
	for i := 0; i < len(keysAndValues); i += 2 {
		key, ok := keysAndValues[i].(string)
		if !ok {
			key = fmt.Sprint(keysAndValues[i])
		}
		var val any
		if i+1 < len(keysAndValues) {
			val = keysAndValues[i+1]
		}
		r.fields.Set(key, val)
	}
	return r
}

// RecordFromMap copies m into a record. Go maps carry no order, so keys are
// inserted in ascending order to keep output deterministic.
func RecordFromMap(m map[string]any) Record {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	r := Record{fields: orderedmap.New[string, any]()}
	for _, k := range keys {
		r.fields.Set(k, m[k])
	}
	return r
}

// Set stores value under key. Existing keys keep their position.
func (r *Record) Set(key string, value any) {
	if r.fields == nil {
		r.fields = orderedmap.New[string, any]()
	}
	r.fields.Set(key, value)
}

// Get returns the value stored under key and whether the key is present.
func (r Record) Get(key string) (any, bool) {
	if r.fields == nil {
		return nil, false
	}
	return r.fields.Get(key)
}

// Has reports whether key is present, even with a nil value.
func (r Record) Has(key string) bool {
	_, ok := r.Get(key)
	return ok
}

// Keys returns the field names in insertion order.
func (r Record) Keys() []string {
	if r.fields == nil {
		return nil
	}
	keys := make([]string, 0, r.fields.Len())
	for pair := r.fields.Oldest(); pair != nil; pair = pair.Next() {
		keys = append(keys, pair.Key)
	}
	return keys
}

// Len returns the number of fields.
func (r Record) Len() int {
	if r.fields == nil {
		return 0
	}
	return r.fields.Len()
}

// Map returns a plain map copy of the record, losing field order.
func (r Record) Map() map[string]any {
	out := make(map[string]any, r.Len())
	if r.fields == nil {
		return out
	}
	for pair := r.fields.Oldest(); pair != nil; pair = pair.Next() {
		out[pair.Key] = pair.Value
	}
	return out
}
