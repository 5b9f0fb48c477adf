package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDiffJSONRoundTrip(t *testing.T) {
	diff := Diff{
		"status":   {Before: StringValue("open"), After: StringValue("resolved")},
		"priority": {Before: NullValue(), After: StringValue("high")},
		"attempts": {Before: NumberValue(1), After: NumberValue(2)},
		"urgent":   {Before: BoolValue(false), After: BoolValue(true)},
		"meta": {
			Before: NullValue(),
			After: ObjectValue(map[string]Value{
				"source": StringValue("import"),
				"score":  NumberValue(0.75),
			}),
		},
	}

	raw, err := json.Marshal(diff)
	require.NoError(t, err)

	var decoded Diff
	require.NoError(t, json.Unmarshal(raw, &decoded))
	require.Len(t, decoded, len(diff))

	for field, change := range diff {
		got, ok := decoded[field]
		require.True(t, ok, field)
		assert.True(t, change.Before.Equal(got.Before), field)
		assert.True(t, change.After.Equal(got.After), field)
	}
}

func TestValueMarshalShapes(t *testing.T) {
	cases := []struct {
		value Value
		want  string
	}{
		{NullValue(), `null`},
		{StringValue("open"), `"open"`},
		{NumberValue(42), `42`},
		{BoolValue(true), `true`},
		{ObjectValue(map[string]Value{"a": NumberValue(1)}), `{"a":1}`},
	}
	for _, tc := range cases {
		raw, err := json.Marshal(tc.value)
		require.NoError(t, err)
		assert.Equal(t, tc.want, string(raw))
	}
}

func TestValueRejectsArrays(t *testing.T) {
	var v Value
	assert.Error(t, json.Unmarshal([]byte(`[1,2,3]`), &v))

	var change FieldChange
	assert.Error(t, json.Unmarshal([]byte(`{"before":null,"after":["a"]}`), &change))
}

func TestValueEqual(t *testing.T) {
	assert.True(t, StringValue("x").Equal(StringValue("x")))
	assert.False(t, StringValue("x").Equal(StringValue("y")))
	assert.False(t, StringValue("1").Equal(NumberValue(1)))
	assert.True(t, NullValue().Equal(NullValue()))

	a := ObjectValue(map[string]Value{"k": BoolValue(true)})
	b := ObjectValue(map[string]Value{"k": BoolValue(true)})
	c := ObjectValue(map[string]Value{"k": BoolValue(false)})
	assert.True(t, a.Equal(b))
	assert.False(t, a.Equal(c))
	assert.False(t, a.Equal(ObjectValue(nil)))
}

func TestValueUnmarshalWhitespace(t *testing.T) {
	var v Value
	require.NoError(t, json.Unmarshal([]byte("  \n null"), &v))
	assert.Equal(t, ValueNull, v.Kind)
}
