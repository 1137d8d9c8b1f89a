package llm

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractJSONObject(t *testing.T) {
	t.Run("bare object", func(t *testing.T) {
		got, err := ExtractJSONObject(`{"a": 1}`)
		require.NoError(t, err)
		assert.Equal(t, `{"a": 1}`, got)
	})

	t.Run("object wrapped in prose", func(t *testing.T) {
		got, err := ExtractJSONObject("Here are the prices:\n{\"prices\": [{\"retailer\": \"Amazon\"}]}\nHope this helps!")
		require.NoError(t, err)

		var parsed map[string]any
		require.NoError(t, json.Unmarshal([]byte(got), &parsed))
		assert.Contains(t, parsed, "prices")
	})

	t.Run("markdown fence", func(t *testing.T) {
		got, err := ExtractJSONObject("```json\n{\"verdict\": \"WAIT\"}\n```")
		require.NoError(t, err)
		assert.JSONEq(t, `{"verdict": "WAIT"}`, got)
	})

	t.Run("nested objects", func(t *testing.T) {
		got, err := ExtractJSONObject(`text {"a": {"b": {"c": 1}}, "d": 2} trailing {"other": 3}`)
		require.NoError(t, err)
		assert.Equal(t, `{"a": {"b": {"c": 1}}, "d": 2}`, got)
	})

	t.Run("braces inside strings do not break balancing", func(t *testing.T) {
		got, err := ExtractJSONObject(`{"summary": "prices range {low} to {high}", "n": 1}`)
		require.NoError(t, err)

		var parsed map[string]any
		require.NoError(t, json.Unmarshal([]byte(got), &parsed))
		assert.Equal(t, "prices range {low} to {high}", parsed["summary"])
	})

	t.Run("no object", func(t *testing.T) {
		_, err := ExtractJSONObject("sorry, I could not find any prices")
		assert.Error(t, err)
	})

	t.Run("unbalanced object", func(t *testing.T) {
		_, err := ExtractJSONObject(`{"a": {"b": 1}`)
		assert.Error(t, err)
	})
}

func TestCoerceInt(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want int
	}{
		{"float", float64(119900), 119900},
		{"int", 42, 42},
		{"numeric string", "119900", 119900},
		{"formatted rupees", "₹1,19,900", 119900},
		{"formatted dollars", "$1,199.00", 119900},
		{"text", "not a price", 0},
		{"nil", nil, 0},
		{"bool", true, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CoerceInt(tt.in))
		})
	}
}

func TestCoerceFloat(t *testing.T) {
	assert.InDelta(t, 0.85, CoerceFloat(0.85), 1e-9)
	assert.InDelta(t, 0.85, CoerceFloat("85%"), 1e-9)
	assert.InDelta(t, 0.85, CoerceFloat(float64(85)), 1e-9)
	assert.InDelta(t, 0.0, CoerceFloat(-0.5), 1e-9)
	assert.InDelta(t, 1.0, CoerceFloat(1.0), 1e-9)
	assert.InDelta(t, 0.0, CoerceFloat("junk"), 1e-9)
}
