package udemy

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUnwrapEnvelopeResults(t *testing.T) {
	a := map[string]any{"id": 1}
	b := map[string]any{"id": 2}

	entries, err := UnwrapEnvelope(map[string]any{"results": []any{a, b}})
	require.NoError(t, err)
	assert.Equal(t, []map[string]any{a, b}, entries)
}

func TestUnwrapEnvelopeBareEntity(t *testing.T) {
	obj := map[string]any{"id": 1, "title": "Go"}

	entries, err := UnwrapEnvelope(obj)
	require.NoError(t, err)
	assert.Equal(t, []map[string]any{obj}, entries)
}

func TestUnwrapEnvelopeEmptyResults(t *testing.T) {
	entries, err := UnwrapEnvelope(map[string]any{"count": 0, "results": []any{}})
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestUnwrapEnvelopeTypedList(t *testing.T) {
	list := []map[string]any{{"id": 1}}
	entries, err := UnwrapEnvelope(map[string]any{"results": list})
	require.NoError(t, err)
	assert.Equal(t, list, entries)
}

func TestUnwrapEnvelopeMalformed(t *testing.T) {
	cases := []struct {
		name    string
		payload any
	}{
		{"results is a string", map[string]any{"results": "not-a-list"}},
		{"results is an object", map[string]any{"results": map[string]any{"id": 1}}},
		{"results is null", map[string]any{"results": nil}},
		{"element is not an object", map[string]any{"results": []any{map[string]any{"id": 1}, "oops"}}},
		{"top level is a list", []any{map[string]any{"id": 1}}},
		{"top level is a string", "<html>"},
		{"top level is null", nil},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := UnwrapEnvelope(tc.payload)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrMalformedResponse))

			var merr *MalformedResponseError
			require.True(t, errors.As(err, &merr))
			assert.Equal(t, tc.payload, merr.Payload)
		})
	}
}

func TestParseEnvelopePagination(t *testing.T) {
	payload := map[string]any{
		"count":    json.Number("1234"),
		"next":     "https://www.udemy.com/api-2.0/courses/?page=3",
		"previous": "https://www.udemy.com/api-2.0/courses/?page=1",
		"results":  []any{map[string]any{"id": 1}},
	}

	env, err := ParseEnvelope(payload)
	require.NoError(t, err)
	assert.Equal(t, 1234, env.Count)
	assert.Equal(t, "https://www.udemy.com/api-2.0/courses/?page=3", env.Next)
	assert.Equal(t, "https://www.udemy.com/api-2.0/courses/?page=1", env.Previous)
	assert.Len(t, env.Entries, 1)
}

func TestParseEnvelopeDefaults(t *testing.T) {
	env, err := ParseEnvelope(map[string]any{"results": []any{map[string]any{}, map[string]any{}}, "next": nil})
	require.NoError(t, err)
	assert.Equal(t, 2, env.Count)
	assert.Empty(t, env.Next)

	env, err = ParseEnvelope(map[string]any{"id": 1})
	require.NoError(t, err)
	assert.Equal(t, 1, env.Count)
	assert.Empty(t, env.Next)
	assert.Empty(t, env.Previous)
}

func TestIntValue(t *testing.T) {
	cases := []struct {
		in   any
		want int
		ok   bool
	}{
		{7, 7, true},
		{int64(8), 8, true},
		{float64(9), 9, true},
		{json.Number("10"), 10, true},
		{json.Number("1.5"), 0, false},
		{"11", 0, false},
		{nil, 0, false},
	}
	for _, tc := range cases {
		got, ok := intValue(tc.in)
		assert.Equal(t, tc.ok, ok, "input %#v", tc.in)
		if tc.ok {
			assert.Equal(t, tc.want, got)
		}
	}
}
