package marketdata

import (
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decode(t *testing.T, raw string) map[string]interface{} {
	t.Helper()
	var doc map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(raw), &doc))
	return doc
}

func TestInterpretNestedList(t *testing.T) {
	doc := decode(t, `{
		"response": {
			"header": {"resultCode": "00"},
			"body": {
				"totalCount": 2,
				"items": {"item": [
					{"basDt": "20250110", "itmsNm": "Samsung Electronics"},
					{"basDt": "20250110", "itmsNm": "SK Hynix"}
				]}
			}
		}
	}`)

	res := Interpret(doc, SchemaNested, zerolog.Nop())
	assert.Equal(t, 2, res.TotalCount)
	assert.Len(t, res.Items, 2)
	assert.Equal(t, []string{"20250110"}, res.AsOfDates)
}

func TestInterpretNestedSingleObjectItem(t *testing.T) {
	// Some services collapse a one-record result into a bare object.
	doc := decode(t, `{
		"response": {"body": {
			"totalCount": 1,
			"items": {"item": {"basDt": "20250109", "itmsNm": "Kakao"}}
		}}
	}`)

	res := Interpret(doc, SchemaNested, zerolog.Nop())
	assert.Equal(t, 1, res.TotalCount)
	require.Len(t, res.Items, 1)
	assert.Equal(t, "Kakao", res.Items[0]["itmsNm"])
}

func TestInterpretNestedStringCount(t *testing.T) {
	doc := decode(t, `{"response": {"body": {"totalCount": "37", "items": {"item": []}}}}`)

	res := Interpret(doc, SchemaNested, zerolog.Nop())
	assert.Equal(t, 37, res.TotalCount)
	assert.Empty(t, res.Items)
}

func TestInterpretNestedMalformed(t *testing.T) {
	cases := map[string]string{
		"missing wrapper":     `{"unexpected": true}`,
		"body not object":     `{"response": {"body": "oops"}}`,
		"count not numeric":   `{"response": {"body": {"totalCount": "n/a"}}}`,
		"items not object":    `{"response": {"body": {"totalCount": 0, "items": []}}}`,
		"item scalar":         `{"response": {"body": {"totalCount": 0, "items": {"item": 42}}}}`,
	}

	for name, raw := range cases {
		t.Run(name, func(t *testing.T) {
			res := Interpret(decode(t, raw), SchemaNested, zerolog.Nop())
			assert.Equal(t, 0, res.TotalCount)
			assert.Empty(t, res.Items)
			assert.Empty(t, res.AsOfDates)
		})
	}
}

func TestInterpretNestedDistinctDates(t *testing.T) {
	doc := decode(t, `{
		"response": {"body": {
			"totalCount": 3,
			"items": {"item": [
				{"basDt": "20250110"},
				{"basDt": "20250108"},
				{"basDt": "20250110"},
				{"itmsNm": "no date field"}
			]}
		}}
	}`)

	res := Interpret(doc, SchemaNested, zerolog.Nop())
	assert.Equal(t, []string{"20250108", "20250110"}, res.AsOfDates)
}

func TestInterpretFlatList(t *testing.T) {
	doc := decode(t, `{"OutBlock_1": [
		{"IDX_NM": "KOSPI", "CLSPRC_IDX": "2655.28"},
		{"IDX_NM": "KOSPI 200", "CLSPRC_IDX": "352.19"}
	]}`)

	res := Interpret(doc, SchemaFlat, zerolog.Nop())
	assert.Equal(t, 2, res.TotalCount)
	assert.Len(t, res.Items, 2)
	// Flat providers carry no trustworthy per-record date.
	assert.Empty(t, res.AsOfDates)
}

func TestInterpretFlatEmptyList(t *testing.T) {
	res := Interpret(decode(t, `{"OutBlock_1": []}`), SchemaFlat, zerolog.Nop())
	assert.Equal(t, 0, res.TotalCount)
	assert.Empty(t, res.Items)
}

func TestInterpretFlatMalformed(t *testing.T) {
	for name, raw := range map[string]string{
		"missing block":  `{}`,
		"block not list": `{"OutBlock_1": {"IDX_NM": "KOSPI"}}`,
	} {
		t.Run(name, func(t *testing.T) {
			res := Interpret(decode(t, raw), SchemaFlat, zerolog.Nop())
			assert.Equal(t, 0, res.TotalCount)
			assert.Empty(t, res.Items)
		})
	}
}
