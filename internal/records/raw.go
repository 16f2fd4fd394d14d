package records

import (
	"bytes"
	"encoding/json"
	"io"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"
)

// Raw is one record as returned by the backend, before any typing.
type Raw map[string]any

var envelopeKeys = []string{"data", "items", "results"}

// DecodeList reads a JSON array of records. A top-level object wrapping the array under
// one of the usual envelope keys is unwrapped.
func DecodeList(r io.Reader) ([]Raw, error) {
	body, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.Wrap(err, "read records")
	}
	body = bytes.TrimSpace(body)
	if len(body) == 0 || bytes.Equal(body, []byte("null")) {
		return []Raw{}, nil
	}

	decoder := json.NewDecoder(bytes.NewReader(body))
	decoder.UseNumber()
	if body[0] == '{' {
		var envelope map[string]json.RawMessage
		if err := decoder.Decode(&envelope); err != nil {
			return nil, errors.Wrap(err, "decode records envelope")
		}
		for _, key := range envelopeKeys {
			if inner, ok := envelope[key]; ok {
				return DecodeList(bytes.NewReader(inner))
			}
		}
		return nil, errors.New("decode records: object without a record list")
	}

	var list []Raw
	if err := decoder.Decode(&list); err != nil {
		return nil, errors.Wrap(err, "decode records")
	}
	out := make([]Raw, 0, len(list))
	for _, item := range list {
		if item != nil {
			out = append(out, item)
		}
	}
	return out, nil
}

func (r Raw) lookup(entity Entity, field Field) (any, bool) {
	for _, key := range Keys(entity, field) {
		if value, ok := r[key]; ok && value != nil {
			return value, true
		}
	}
	return nil, false
}

// Has reports whether any spelling of field is present and non-null.
func (r Raw) Has(entity Entity, field Field) bool {
	_, ok := r.lookup(entity, field)
	return ok
}

// ID returns the integer identifier stored under field, or 0. Embedded objects
// carrying their own id are accepted for foreign keys.
func (r Raw) ID(entity Entity, field Field) int64 {
	value, ok := r.lookup(entity, field)
	if !ok {
		return 0
	}
	id, _ := toID(value)
	return id
}

func (r Raw) String(entity Entity, field Field) string {
	value, ok := r.lookup(entity, field)
	if !ok {
		return ""
	}
	return strings.TrimSpace(toString(value))
}

func (r Raw) Float(entity Entity, field Field) (float64, bool) {
	value, ok := r.lookup(entity, field)
	if !ok {
		return 0, false
	}
	return toFloat(value)
}

func (r Raw) Int(entity Entity, field Field) int {
	f, ok := r.Float(entity, field)
	if !ok {
		return 0
	}
	return int(f)
}

func (r Raw) Bool(entity Entity, field Field) bool {
	value, ok := r.lookup(entity, field)
	if !ok {
		return false
	}
	switch v := value.(type) {
	case bool:
		return v
	case json.Number, float64, int, int64:
		f, _ := toFloat(v)
		return f != 0
	case string:
		switch strings.ToLower(strings.TrimSpace(v)) {
		case "true", "1", "yes", "si", "sí", "accepted":
			return true
		}
	}
	return false
}

var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// Time parses a date or timestamp. Unparseable or absent values yield the zero time.
func (r Raw) Time(entity Entity, field Field) time.Time {
	return ParseTime(r.String(entity, field))
}

// ParseTime accepts RFC3339 timestamps, naive timestamps and plain calendar dates.
func ParseTime(value string) time.Time {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}
	}
	for _, layout := range timeLayouts {
		if parsed, err := time.Parse(layout, value); err == nil {
			return parsed
		}
	}
	return time.Time{}
}

// Strings returns a list field given either as a JSON array or a comma separated string.
// Blank entries are dropped.
func (r Raw) Strings(entity Entity, field Field) []string {
	value, ok := r.lookup(entity, field)
	if !ok {
		return nil
	}
	var parts []string
	switch v := value.(type) {
	case []any:
		for _, item := range v {
			parts = append(parts, toString(item))
		}
	default:
		parts = strings.Split(toString(v), ",")
	}
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// IDs returns a list of identifiers given as an array (of ids or objects) or a comma
// separated string. Entries that are not ids are skipped.
func (r Raw) IDs(entity Entity, field Field) []int64 {
	value, ok := r.lookup(entity, field)
	if !ok {
		return nil
	}
	var items []any
	switch v := value.(type) {
	case []any:
		items = v
	default:
		for _, part := range strings.Split(toString(v), ",") {
			items = append(items, part)
		}
	}
	out := make([]int64, 0, len(items))
	for _, item := range items {
		if id, ok := toID(item); ok {
			out = append(out, id)
		}
	}
	return out
}

func toID(value any) (int64, bool) {
	if nested, ok := value.(map[string]any); ok {
		for _, key := range []string{"id", "Id", "ID"} {
			if inner, ok := nested[key]; ok {
				return toID(inner)
			}
		}
		return 0, false
	}
	f, ok := toFloat(value)
	if !ok || f <= 0 || f != math.Trunc(f) {
		return 0, false
	}
	return int64(f), true
}

func toFloat(value any) (float64, bool) {
	var f float64
	switch v := value.(type) {
	case json.Number:
		parsed, err := v.Float64()
		if err != nil {
			return 0, false
		}
		f = parsed
	case float64:
		f = v
	case int:
		f = float64(v)
	case int64:
		f = float64(v)
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return 0, false
		}
		f = parsed
	default:
		return 0, false
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

func toString(value any) string {
	switch v := value.(type) {
	case string:
		return v
	case json.Number:
		return v.String()
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(v)
	case nil:
		return ""
	default:
		encoded, err := json.Marshal(v)
		if err != nil {
			return ""
		}
		return string(encoded)
	}
}
