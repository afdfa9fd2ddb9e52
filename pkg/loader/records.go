package loader

import (
	"fmt"
	"reflect"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/oakwood-commons/ctable/pkg/table"
)

// ValueKey is the heading used for scalar elements that have no field name.
const ValueKey = "value"

// nodeRecords converts a decoded YAML/JSON tree into records, reading
// mapping keys straight from the node so their order survives.
func nodeRecords(n *yaml.Node) ([]table.Record, error) {
	switch n.Kind {
	case yaml.DocumentNode:
		if len(n.Content) == 0 {
			return nil, nil
		}
		return nodeRecords(n.Content[0])
	case yaml.AliasNode:
		return nodeRecords(n.Alias)
	case yaml.SequenceNode:
		records := make([]table.Record, 0, len(n.Content))
		for i, item := range n.Content {
			rec, err := nodeRecord(item)
			if err != nil {
				return nil, fmt.Errorf("element [%d]: %w", i, err)
			}
			records = append(records, rec)
		}
		return records, nil
	default:
		rec, err := nodeRecord(n)
		if err != nil {
			return nil, err
		}
		return []table.Record{rec}, nil
	}
}

func nodeRecord(n *yaml.Node) (table.Record, error) {
	if n.Kind == yaml.AliasNode {
		n = n.Alias
	}
	if n.Kind != yaml.MappingNode {
		var v any
		if err := n.Decode(&v); err != nil {
			return table.Record{}, err
		}
		return table.NewRecord(ValueKey, v), nil
	}
	var rec table.Record
	for i := 0; i+1 < len(n.Content); i += 2 {
		key, val := n.Content[i], n.Content[i+1]
		if key.Kind == yaml.ScalarNode && key.Value == "<<" && key.ShortTag() == "!!merge" {
			if err := mergeInto(&rec, val); err != nil {
				return table.Record{}, err
			}
			continue
		}
		var v any
		if err := val.Decode(&v); err != nil {
			return table.Record{}, fmt.Errorf("field %q: %w", key.Value, err)
		}
		rec.Set(key.Value, v)
	}
	return rec, nil
}

// mergeInto copies fields from a merge source (a mapping or a sequence of
// mappings) without overwriting keys already set.
func mergeInto(rec *table.Record, src *yaml.Node) error {
	if src.Kind == yaml.AliasNode {
		src = src.Alias
	}
	sources := []*yaml.Node{src}
	if src.Kind == yaml.SequenceNode {
		sources = src.Content
	}
	for _, s := range sources {
		merged, err := nodeRecord(s)
		if err != nil {
			return err
		}
		for _, k := range merged.Keys() {
			if !rec.Has(k) {
				v, _ := merged.Get(k)
				rec.Set(k, v)
			}
		}
	}
	return nil
}

// RecordsFromValues converts plain decoded values into records. Maps become
// records with sorted keys, nested slices are flattened and any other value
// becomes a single-field record under ValueKey.
func RecordsFromValues(values []any) []table.Record {
	var records []table.Record
	for _, v := range values {
		switch t := v.(type) {
		case []any:
			records = append(records, RecordsFromValues(t)...)
		case map[string]any:
			records = append(records, table.RecordFromMap(t))
		case table.Record:
			records = append(records, t)
		default:
			records = append(records, table.NewRecord(ValueKey, v))
		}
	}
	return records
}

// LoadObject turns an in-memory value into records. Accepted inputs are
// []table.Record, strings or bytes (decoded as with LoadRecords), slices of
// maps or structs, and single maps or structs. Struct fields keep their
// declaration order; the heading comes from a `table:"name"` tag, then the
// json tag, then the field name. `table:"-"` skips a field.
func LoadObject(value any) ([]table.Record, error) {
	switch v := value.(type) {
	case nil:
		return nil, fmt.Errorf("object input is nil")
	case []table.Record:
		return v, nil
	case table.Record:
		return []table.Record{v}, nil
	case string:
		return LoadRecords(v)
	case []byte:
		return LoadRecords(string(v))
	}

	rv := reflect.ValueOf(value)
	for rv.Kind() == reflect.Ptr || rv.Kind() == reflect.Interface {
		if rv.IsNil() {
			return nil, fmt.Errorf("object input is nil")
		}
		rv = rv.Elem()
	}
	if rv.Kind() == reflect.Slice || rv.Kind() == reflect.Array {
		records := make([]table.Record, 0, rv.Len())
		for i := 0; i < rv.Len(); i++ {
			rec, err := objectRecord(rv.Index(i))
			if err != nil {
				return nil, fmt.Errorf("element [%d]: %w", i, err)
			}
			records = append(records, rec)
		}
		return records, nil
	}
	rec, err := objectRecord(rv)
	if err != nil {
		return nil, err
	}
	return []table.Record{rec}, nil
}

func objectRecord(rv reflect.Value) (table.Record, error) {
	for rv.Kind() == reflect.Ptr || rv.Kind() == reflect.Interface {
		if rv.IsNil() {
			return table.Record{}, nil
		}
		rv = rv.Elem()
	}
	if !rv.IsValid() {
		return table.Record{}, nil
	}
	if rec, ok := rv.Interface().(table.Record); ok {
		return rec, nil
	}
	switch rv.Kind() { //nolint:exhaustive // scalars fall through to ValueKey
	case reflect.Struct:
		return structRecord(rv), nil
	case reflect.Map:
		if rv.Type().Key().Kind() != reflect.String {
			return table.Record{}, fmt.Errorf("map keys must be strings, got %s", rv.Type().Key())
		}
		keys := make([]string, 0, rv.Len())
		for _, k := range rv.MapKeys() {
			keys = append(keys, k.String())
		}
		sort.Strings(keys)
		var rec table.Record
		for _, k := range keys {
			rec.Set(k, rv.MapIndex(reflect.ValueOf(k).Convert(rv.Type().Key())).Interface())
		}
		return rec, nil
	default:
		return table.NewRecord(ValueKey, rv.Interface()), nil
	}
}

func structRecord(rv reflect.Value) table.Record {
	var rec table.Record
	rt := rv.Type()
	for i := 0; i < rt.NumField(); i++ {
		field := rt.Field(i)
		if !field.IsExported() {
			continue
		}
		name, skip := fieldName(field)
		if skip {
			continue
		}
		rec.Set(name, rv.Field(i).Interface())
	}
	return rec
}

func fieldName(field reflect.StructField) (string, bool) {
	for _, tag := range []string{"table", "json"} {
		raw, ok := field.Tag.Lookup(tag)
		if !ok {
			continue
		}
		name, _, _ := strings.Cut(raw, ",")
		if name == "-" {
			return "", true
		}
		if name != "" {
			return name, false
		}
	}
	return field.Name, false
}
