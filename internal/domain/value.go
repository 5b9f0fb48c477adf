package domain

import (
	"encoding/json"
	"fmt"
)

// ValueKind tags the concrete shape of a Value.
type ValueKind uint8

const (
	ValueNull ValueKind = iota
	ValueString
	ValueNumber
	ValueBool
	ValueObject
)

// Value is a closed variant for diff payloads: null, string, number, boolean
// or a nested mapping. Diffs are stored structurally, never as re-encoded
// strings.
type Value struct {
	Kind ValueKind
	Str  string
	Num  float64
	Bool bool
	Obj  map[string]Value
}

// NullValue returns the null variant.
func NullValue() Value { return Value{Kind: ValueNull} }

// StringValue wraps a string.
func StringValue(s string) Value { return Value{Kind: ValueString, Str: s} }

// NumberValue wraps a number.
func NumberValue(n float64) Value { return Value{Kind: ValueNumber, Num: n} }

// BoolValue wraps a boolean.
func BoolValue(b bool) Value { return Value{Kind: ValueBool, Bool: b} }

// ObjectValue wraps a nested mapping.
func ObjectValue(m map[string]Value) Value { return Value{Kind: ValueObject, Obj: m} }

// Equal reports deep equality of two values.
func (v Value) Equal(o Value) bool {
	if v.Kind != o.Kind {
		return false
	}
	switch v.Kind {
	case ValueNull:
		return true
	case ValueString:
		return v.Str == o.Str
	case ValueNumber:
		return v.Num == o.Num
	case ValueBool:
		return v.Bool == o.Bool
	case ValueObject:
		if len(v.Obj) != len(o.Obj) {
			return false
		}
		for k, val := range v.Obj {
			other, ok := o.Obj[k]
			if !ok || !val.Equal(other) {
				return false
			}
		}
		return true
	}
	return false
}

// MarshalJSON encodes the variant as plain JSON.
func (v Value) MarshalJSON() ([]byte, error) {
	switch v.Kind {
	case ValueNull:
		return []byte("null"), nil
	case ValueString:
		return json.Marshal(v.Str)
	case ValueNumber:
		return json.Marshal(v.Num)
	case ValueBool:
		return json.Marshal(v.Bool)
	case ValueObject:
		return json.Marshal(v.Obj)
	}
	return nil, fmt.Errorf("unknown value kind %d", v.Kind)
}

// UnmarshalJSON decodes plain JSON into the matching variant. Arrays are not
// part of the closed set and are rejected.
func (v *Value) UnmarshalJSON(data []byte) error {
	trimmed := trimLeadingSpace(data)
	if len(trimmed) == 0 {
		return fmt.Errorf("empty value")
	}
	switch trimmed[0] {
	case 'n':
		*v = NullValue()
		return nil
	case '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*v = StringValue(s)
		return nil
	case 't', 'f':
		var b bool
		if err := json.Unmarshal(data, &b); err != nil {
			return err
		}
		*v = BoolValue(b)
		return nil
	case '{':
		obj := map[string]Value{}
		if err := json.Unmarshal(data, &obj); err != nil {
			return err
		}
		*v = ObjectValue(obj)
		return nil
	case '[':
		return fmt.Errorf("arrays are not valid diff values")
	default:
		var n float64
		if err := json.Unmarshal(data, &n); err != nil {
			return err
		}
		*v = NumberValue(n)
		return nil
	}
}

func trimLeadingSpace(data []byte) []byte {
	for i, b := range data {
		switch b {
		case ' ', '\t', '\n', '\r':
			continue
		default:
			return data[i:]
		}
	}
	return nil
}

// FieldChange records a single field transition. Before and After always
// differ for any change stored in a diff.
type FieldChange struct {
	Before Value `json:"before"`
	After  Value `json:"after"`
}

// Diff maps changed-field names to their before/after pair. A nil Diff means
// the event was not a field change.
type Diff map[string]FieldChange
