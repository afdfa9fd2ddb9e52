// Package loader decodes structured input into table records. JSON, NDJSON,
// YAML (single or multi-document) and TOML are detected automatically;
// mapping key order from JSON and YAML input is preserved.
package loader

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"regexp"
	"sort"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/oakwood-commons/ctable/pkg/table"
)

// Format identifies the detected input encoding.
type Format string

const (
	FormatYAML     Format = "yaml"
	FormatMultiDoc Format = "yaml-multi"
	FormatNDJSON   Format = "ndjson"
	FormatTOML     Format = "toml"
)

// ErrEmptyInput is returned for blank input.
var ErrEmptyInput = errors.New("empty input")

var (
	tomlSection  = regexp.MustCompile(`^\s*\[{1,2}(?:[a-zA-Z_][a-zA-Z0-9_-]*|"[^"]+"|'[^']+')+(?:\.(?:[a-zA-Z_][a-zA-Z0-9_-]*|"[^"]+"|'[^']+'))*\]{1,2}\s*$`)
	tomlKeyValue = regexp.MustCompile(`^\s*(?:[a-zA-Z_][a-zA-Z0-9_-]*|"[^"]+"|'[^']+')+(?:\.(?:[a-zA-Z_][a-zA-Z0-9_-]*|"[^"]+"|'[^']+'))*\s*=\s*.+$`)
)

// Detect classifies input. JSON is handled by the YAML decoder, so a single
// JSON document reports FormatYAML.
func Detect(input string) Format {
	input = strings.TrimSpace(input)
	if strings.HasPrefix(input, "---") || strings.Contains(input, "\n---") {
		return FormatMultiDoc
	}
	if lines := strings.Split(input, "\n"); len(lines) > 1 && isLikelyNDJSON(lines) && !isSingleDocument(input) {
		return FormatNDJSON
	}
	if isLikelyTOML(input) {
		return FormatTOML
	}
	return FormatYAML
}

// LoadRecords decodes input into records. A top-level sequence yields one
// record per element, a mapping yields a single record, and scalars become a
// record with a single "value" field.
func LoadRecords(input string) ([]table.Record, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return nil, ErrEmptyInput
	}
	switch Detect(input) {
	case FormatMultiDoc:
		return loadMultiDocYAML(input)
	case FormatNDJSON:
		return loadNDJSON(input)
	case FormatTOML:
		return loadTOML(input)
	default:
		var node yaml.Node
		if err := yaml.Unmarshal([]byte(input), &node); err != nil {
			return nil, fmt.Errorf("invalid JSON/YAML: %w", err)
		}
		return nodeRecords(&node)
	}
}

// LoadReader reads r fully and decodes it with LoadRecords.
func LoadReader(r io.Reader) ([]table.Record, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read input: %w", err)
	}
	return LoadRecords(string(data))
}

// LoadFile reads and decodes the file at path.
func LoadFile(path string) ([]table.Record, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return LoadRecords(string(data))
}

// Documents decodes input into plain Go values (maps, slices, scalars), one
// per document. Key order is not preserved; this form feeds query engines.
func Documents(input string) ([]any, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return nil, ErrEmptyInput
	}
	switch Detect(input) {
	case FormatNDJSON:
		var docs []any
		for _, line := range nonEmptyLines(input) {
			var v any
			if err := json.Unmarshal([]byte(line), &v); err != nil {
				v = line
			}
			docs = append(docs, v)
		}
		return docs, nil
	case FormatTOML:
		var v map[string]any
		if err := toml.Unmarshal([]byte(input), &v); err != nil {
			return nil, fmt.Errorf("invalid TOML: %w", err)
		}
		return []any{v}, nil
	default:
		dec := yaml.NewDecoder(strings.NewReader(input))
		var docs []any
		for {
			var v any
			if err := dec.Decode(&v); err != nil {
				if errors.Is(err, io.EOF) {
					break
				}
				return nil, fmt.Errorf("invalid JSON/YAML: %w", err)
			}
			if v != nil {
				docs = append(docs, v)
			}
		}
		if len(docs) == 0 {
			return nil, fmt.Errorf("no documents found in input")
		}
		return docs, nil
	}
}

func loadMultiDocYAML(input string) ([]table.Record, error) {
	dec := yaml.NewDecoder(bytes.NewBufferString(input))
	var records []table.Record
	docs := 0
	for {
		var node yaml.Node
		if err := dec.Decode(&node); err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, fmt.Errorf("invalid multi-document YAML: %w", err)
		}
		recs, err := nodeRecords(&node)
		if err != nil {
			return nil, fmt.Errorf("document %d: %w", docs+1, err)
		}
		docs++
		records = append(records, recs...)
	}
	if docs == 0 {
		return nil, fmt.Errorf("no documents found in multi-document YAML")
	}
	return records, nil
}

// loadNDJSON decodes one record per line. Lines that do not parse are kept
// as plain "value" records rather than failing the whole input.
func loadNDJSON(input string) ([]table.Record, error) {
	var records []table.Record
	for _, line := range nonEmptyLines(input) {
		var node yaml.Node
		if err := yaml.Unmarshal([]byte(line), &node); err != nil {
			records = append(records, table.NewRecord(ValueKey, line))
			continue
		}
		recs, err := nodeRecords(&node)
		if err != nil {
			return nil, err
		}
		records = append(records, recs...)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("no data found in input")
	}
	return records, nil
}

// loadTOML uses the first array of tables (by key) as the record list and
// falls back to the whole document as one record. TOML tables decode into Go
// maps, so keys come out sorted.
func loadTOML(input string) ([]table.Record, error) {
	var doc map[string]any
	if err := toml.Unmarshal([]byte(input), &doc); err != nil {
		return nil, fmt.Errorf("invalid TOML: %w", err)
	}
	keys := make([]string, 0, len(doc))
	for k := range doc {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if isTableArray(doc[k]) {
			return RecordsFromValues(doc[k].([]any)), nil
		}
	}
	return []table.Record{table.RecordFromMap(doc)}, nil
}

func isTableArray(v any) bool {
	items, ok := v.([]any)
	if !ok || len(items) == 0 {
		return false
	}
	for _, item := range items {
		if _, ok := item.(map[string]any); !ok {
			return false
		}
	}
	return true
}

func nonEmptyLines(input string) []string {
	var out []string
	for _, line := range strings.Split(input, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			out = append(out, line)
		}
	}
	return out
}

// isSingleDocument reports whether input decodes as one JSON/YAML document,
// such as a JSON array written one element per line.
func isSingleDocument(input string) bool {
	var node yaml.Node
	return yaml.Unmarshal([]byte(input), &node) == nil
}

// isLikelyNDJSON requires several lines, most of them starting with '{' or
// '[', so YAML lists of bare items are not misclassified.
func isLikelyNDJSON(lines []string) bool {
	jsonCount := 0
	nonEmpty := 0
	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}
		nonEmpty++
		if strings.HasPrefix(trimmed, "{") || strings.HasPrefix(trimmed, "[") {
			jsonCount++
		}
	}
	return nonEmpty > 1 && jsonCount > nonEmpty/2
}

// isLikelyTOML looks for [section] headers or a majority of key = value
// lines. JSON arrays such as [1, 2] do not match the header pattern.
func isLikelyTOML(input string) bool {
	sections := 0
	keyValues := 0
	nonEmpty := 0
	for _, line := range strings.Split(input, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "#") {
			continue
		}
		nonEmpty++
		if tomlSection.MatchString(line) {
			sections++
		}
		if tomlKeyValue.MatchString(line) {
			keyValues++
		}
	}
	if sections > 0 {
		return true
	}
	return nonEmpty > 0 && keyValues > nonEmpty/2
}
